package aiusage

import (
	"context"
	"time"
)

// Counter increments a usage counter and returns the new value.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Service meters chat calls per caller per calendar month (UTC).
type Service struct {
	store Counter
	quota int
	now   func() time.Time
}

// NewService creates a Service. A quota <= 0 disables metering.
func NewService(store Counter, quota int) *Service {
	return &Service{store: store, quota: quota, now: time.Now}
}

// Enabled reports whether calls are metered at all.
func (s *Service) Enabled() bool {
	return s != nil && s.store != nil && s.quota > 0
}

// UseToken consumes one call from the subject's monthly allowance and returns what is left.
// Returns ErrInsufficientTokens when the quota for the current month is exhausted.
func (s *Service) UseToken(ctx context.Context, subject string) (int, error) {
	if !s.Enabled() {
		return -1, nil
	}
	used, err := s.store.Incr(ctx, usageKey(subject, s.now()), keyTTL)
	if err != nil {
		return 0, err
	}
	if used > int64(s.quota) {
		return 0, ErrInsufficientTokens
	}
	return s.quota - int(used), nil
}
