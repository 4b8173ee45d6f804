// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"supplement-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxRetries: 10,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

// Delay returns the backoff before retry attempt n (0-based).
func (r RetryConfig) Delay(attempt int) time.Duration {
	d := r.BaseDelay * time.Duration(1<<attempt)
	if d > r.MaxDelay || d <= 0 {
		return r.MaxDelay
	}
	return d
}

type Client struct {
	zbc.Client
	requestTimeout time.Duration
}

// Connect creates a plaintext gateway client and waits until the topology
// request succeeds.
func Connect(ctx context.Context, gatewayAddress string, requestTimeout time.Duration, retry RetryConfig, log logger.Logger) (*Client, error) {
	zc, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         gatewayAddress,
		UsePlaintextConnection: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{Client: zc, requestTimeout: requestTimeout}
	err = Retry(ctx, retry, log, "zeebe topology", func(ctx context.Context) error {
		return c.HealthCheck(ctx)
	})
	if err != nil {
		_ = zc.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe gateway at %s: %w", gatewayAddress, err)
	}
	return c, nil
}

func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	if _, err := c.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

// Retry runs op until it succeeds, returns a non-transient error or the
// attempts are used up.
func Retry(ctx context.Context, cfg RetryConfig, log logger.Logger, name string, op func(context.Context) error) error {
	var err error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if !IsTransient(err) || attempt == cfg.MaxRetries {
			break
		}

		delay := cfg.Delay(attempt)
		log.Warn(name+" failed, retrying", map[string]interface{}{
			"error":       err,
			"attempt":     attempt + 1,
			"nextRetryIn": delay.String(),
		})

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
		}
	}
	return fmt.Errorf("%s failed: %w", name, err)
}

// IsTransient reports whether err looks like a network or availability
// failure worth retrying.
func IsTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
		"no such host",
	} {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
