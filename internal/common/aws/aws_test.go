package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	input *ses.SendEmailInput
	err   error
}

func (m *mockSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.input = in
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{MessageId: awssdk.String("ses-123")}, nil
}

type mockSNS struct {
	input *sns.PublishInput
	err   error
}

func (m *mockSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.input = in
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{MessageId: awssdk.String("sns-456")}, nil
}

func TestSESClient_Send(t *testing.T) {
	api := &mockSES{}
	c := NewSESClientWithAPI(api, "noreply@example.com")

	id, err := c.Send(context.Background(), Email{To: "user@example.com", Subject: "Resumo", TextBody: "Olá"})

	require.NoError(t, err)
	assert.Equal(t, "ses-123", id)
	assert.Equal(t, "noreply@example.com", awssdk.ToString(api.input.Source))
	assert.Equal(t, []string{"user@example.com"}, api.input.Destination.ToAddresses)
	assert.Nil(t, api.input.Message.Body.Html)
	assert.Equal(t, "Olá", awssdk.ToString(api.input.Message.Body.Text.Data))
}

func TestSESClient_SendErrors(t *testing.T) {
	c := NewSESClientWithAPI(&mockSES{err: errors.New("throttled")}, "noreply@example.com")

	_, err := c.Send(context.Background(), Email{To: "user@example.com"})
	assert.ErrorContains(t, err, "throttled")

	_, err = c.Send(context.Background(), Email{})
	assert.ErrorContains(t, err, "recipient")
}

func TestSNSClient_SendSMS(t *testing.T) {
	api := &mockSNS{}
	c := NewSNSClientWithAPI(api, "SUPPLMNT")

	id, err := c.SendSMS(context.Background(), "+5511999990000", "Seu resumo")

	require.NoError(t, err)
	assert.Equal(t, "sns-456", id)
	assert.Equal(t, "+5511999990000", awssdk.ToString(api.input.PhoneNumber))
	assert.Equal(t, "SUPPLMNT", awssdk.ToString(api.input.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue))
}

func TestSNSClient_WithoutSenderID(t *testing.T) {
	api := &mockSNS{}
	_, err := NewSNSClientWithAPI(api, "").SendSMS(context.Background(), "+5511999990000", "x")

	require.NoError(t, err)
	_, ok := api.input.MessageAttributes["AWS.SNS.SMS.SenderID"]
	assert.False(t, ok)

	_, err = NewSNSClientWithAPI(api, "").SendSMS(context.Background(), "", "x")
	assert.Error(t, err)
}
