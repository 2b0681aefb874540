package patterns

import (
	"context"
	"fmt"
	"time"

	"github.com/ashendes/wigshop/internal/metrics"
)

// DefaultBulkheadWait is how long a caller waits for a free slot
const DefaultBulkheadWait = 1 * time.Second

// Bulkhead caps concurrent calls into one downstream dependency
type Bulkhead struct {
	semaphore chan struct{}
	name      string
	service   string
	wait      time.Duration
}

// NewBulkhead creates a bulkhead with size slots; wait <= 0 means DefaultBulkheadWait
func NewBulkhead(size int, wait time.Duration, name, service string) *Bulkhead {
	if size <= 0 {
		size = 1
	}
	if wait <= 0 {
		wait = DefaultBulkheadWait
	}
	return &Bulkhead{
		semaphore: make(chan struct{}, size),
		name:      name,
		service:   service,
		wait:      wait,
	}
}

// Execute runs fn once a slot frees up, or fails when the wait or ctx runs out
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	timer := time.NewTimer(b.wait)
	defer timer.Stop()

	select {
	case b.semaphore <- struct{}{}:
		metrics.BulkheadActiveRequests.WithLabelValues(b.service, b.name).Inc()

		defer func() {
			<-b.semaphore
			metrics.BulkheadActiveRequests.WithLabelValues(b.service, b.name).Dec()
		}()

		return fn()

	case <-timer.C:
		metrics.BulkheadRejectedRequests.WithLabelValues(b.service, b.name).Inc()
		return fmt.Errorf("bulkhead %s: timeout acquiring resource", b.name)

	case <-ctx.Done():
		metrics.BulkheadRejectedRequests.WithLabelValues(b.service, b.name).Inc()
		return fmt.Errorf("bulkhead %s: %w", b.name, ctx.Err())
	}
}

// GetName returns the bulkhead name
func (b *Bulkhead) GetName() string {
	return b.name
}

// InUse reports how many slots are taken
func (b *Bulkhead) InUse() int {
	return len(b.semaphore)
}
