package predict

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// WaitPolicy controls how long WaitHealthy keeps polling.
type WaitPolicy struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxElapsed   time.Duration
}

// DefaultWaitPolicy suits hosted services that sleep when idle and take
// tens of seconds to start.
func DefaultWaitPolicy() WaitPolicy {
	return WaitPolicy{
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		MaxElapsed:   60 * time.Second,
	}
}

func (p WaitPolicy) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialDelay
	b.MaxInterval = p.MaxDelay
	b.MaxElapsedTime = p.MaxElapsed
	return b
}

// WaitHealthy polls the health endpoint until the service reports healthy,
// the policy gives up, or ctx ends. It is only used when a user explicitly
// asks to wait for the service; prediction requests are never repeated.
func (c *Client) WaitHealthy(ctx context.Context, policy WaitPolicy) (*Health, error) {
	var last *Health
	attempt := 0

	op := func() error {
		attempt++
		h, err := c.Health(ctx)
		if err != nil {
			if !IsRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		last = h
		if !h.Healthy() {
			return fmt.Errorf("service status %q", h.Status)
		}
		return nil
	}

	notify := func(err error, next time.Duration) {
		c.logger.Info("prediction service not ready",
			zap.Int("attempt", attempt),
			zap.Duration("next", next),
			zap.Error(err))
	}

	b := backoff.WithContext(policy.newBackOff(), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return last, fmt.Errorf("waiting for prediction service: %w", err)
	}
	return last, nil
}
