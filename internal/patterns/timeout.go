package patterns

import (
	"context"
	"time"
)

// DefaultTimeout bounds one call from the admin service to the storefront
const DefaultTimeout = 3 * time.Second

// WithTimeout derives a fail-fast context; d <= 0 means DefaultTimeout
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(parent, d)
}

// Sleep waits for d unless ctx ends first
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
