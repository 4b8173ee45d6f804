package validateprofile

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "supplement-workers/internal/common/errors"
	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/common/validation"
	"supplement-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileStore struct {
	saved []*models.UserProfile
	err   error
}

func (f *fakeProfileStore) Save(_ context.Context, p *models.UserProfile) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, p)
	return nil
}

func createTestConfig() *Config {
	return &Config{Timeout: 10 * time.Second}
}

func createTestHandler(t *testing.T, store ProfileStore) *Handler {
	t.Helper()
	v, err := validation.NewDefaultValidator()
	require.NoError(t, err)
	return NewHandler(createTestConfig(), v, store, logger.NewTestLogger(t))
}

func TestExecute_ValidProfileIsNormalizedAndSaved(t *testing.T) {
	store := &fakeProfileStore{}
	h := createTestHandler(t, store)

	out, err := h.Execute(context.Background(), &Input{Profile: &models.UserProfile{
		UserID:       " user-1 ",
		Symptoms:     []string{"Insônia", "insonia", " Fadiga "},
		HealthGoals:  []string{"Mais energia"},
		SleepQuality: 2,
		Email:        "user@example.com",
	}})

	require.NoError(t, err)
	assert.True(t, out.ProfileValid)
	assert.Equal(t, "user-1", out.Profile.UserID)
	assert.Equal(t, []string{"Insônia", "Fadiga"}, out.Profile.Symptoms)
	assert.NotEmpty(t, out.SavedAt)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "user-1", store.saved[0].UserID)
}

func TestExecute_EmptyProfileIsAccepted(t *testing.T) {
	h := createTestHandler(t, &fakeProfileStore{})

	out, err := h.Execute(context.Background(), &Input{Profile: &models.UserProfile{UserID: "user-2"}})

	require.NoError(t, err)
	assert.Empty(t, out.Profile.Symptoms)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		input   *Input
		contain string
	}{
		{name: "missing profile", input: &Input{}, contain: "profile: is required"},
		{name: "lifestyle out of range", input: &Input{Profile: &models.UserProfile{UserID: "u", SleepQuality: 7}}, contain: "sleepQuality"},
		{name: "invalid email", input: &Input{Profile: &models.UserProfile{UserID: "u", Email: "not-an-email"}}, contain: "email"},
		{name: "invalid phone", input: &Input{Profile: &models.UserProfile{UserID: "u", Phone: "call me"}}, contain: "phone"},
		{name: "blank user id", input: &Input{Profile: &models.UserProfile{UserID: "   "}}, contain: "must not be blank"},
		{name: "age out of range", input: &Input{Profile: &models.UserProfile{UserID: "u", Age: 150}}, contain: "age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeProfileStore{}
			h := createTestHandler(t, store)

			_, err := h.Execute(context.Background(), tt.input)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrProfileValidationFailed)
			assert.Contains(t, err.Error(), tt.contain)
			assert.Empty(t, store.saved)
		})
	}
}

func TestExecute_RejectionCarriesViolations(t *testing.T) {
	h := createTestHandler(t, &fakeProfileStore{})

	_, err := h.Execute(context.Background(), &Input{Profile: &models.UserProfile{UserID: "u", StressLevel: 9, ExerciseFrequency: -1}})

	std := apperrors.AsStandardError(err)
	violations, ok := std.Metadata["violations"].([]string)
	require.True(t, ok)
	assert.Len(t, violations, 2)

	bpmn := apperrors.ConvertToBPMNError(std)
	assert.Equal(t, "PROFILE_VALIDATION_FAILED", bpmn.Code)
	assert.Zero(t, bpmn.Retries)
}

func TestExecute_StoreFailure(t *testing.T) {
	h := createTestHandler(t, &fakeProfileStore{err: errors.New("connection reset")})

	_, err := h.Execute(context.Background(), &Input{Profile: &models.UserProfile{UserID: "user-1"}})

	assert.ErrorIs(t, err, apperrors.ErrDatabaseInsertFailed)
	assert.True(t, apperrors.AsStandardError(err).Retryable)
}
