package names

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

// Result is one availability answer, tagged with the name it answers for.
type Result struct {
	Name      string
	Available bool
	Err       error
}

// Checker serializes interactive availability lookups: starting a check
// cancels the one in flight, and a stale answer is dropped rather than
// delivered. Only the newest query ever reaches the callback.
type Checker struct {
	service *Service
	deliver func(Result)

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewChecker wires lookups through the service to the deliver callback.
// deliver runs with the checker's internal lock held and must not call
// Check or Stop.
func NewChecker(service *Service, deliver func(Result)) *Checker {
	return &Checker{service: service, deliver: deliver}
}

// Check starts an availability lookup for name, cancelling any lookup
// still running. The callback fires at most once per Check call, and
// never for a call that has been superseded.
func (c *Checker) Check(ctx context.Context, name string) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	go func() {
		defer cancel()
		available, err := c.service.CheckAvailability(ctx, name)
		if errors.Is(err, context.Canceled) {
			return
		}

		// The currency test and the callback share the lock so a newer
		// Check cannot start between them and see a stale delivery land
		// after it.
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.seq != seq {
			return
		}
		c.deliver(Result{Name: name, Available: available, Err: err})
	}()
}

// Stop cancels any lookup in flight without starting a new one.
func (c *Checker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
}
