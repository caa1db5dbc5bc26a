package service

import (
	"context"
	"sync"
	"time"
)

// MemoryDestinationGuard is an in-process DestinationGuard. It only
// suppresses repeats within one process; use a shared guard when several
// instances serve the same delivery agents.
type MemoryDestinationGuard struct {
	mu     sync.Mutex
	window time.Duration
	served map[int64]time.Time // destination -> end of its quiet window
	now    func() time.Time
}

// NewMemoryDestinationGuard creates a guard with the given quiet window.
// A non-positive window disables the guard.
func NewMemoryDestinationGuard(window time.Duration) *MemoryDestinationGuard {
	return &MemoryDestinationGuard{
		window: window,
		served: make(map[int64]time.Time),
		now:    time.Now,
	}
}

// TryAcquire returns false while destinationID is inside its quiet window
func (g *MemoryDestinationGuard) TryAcquire(_ context.Context, destinationID int64) (bool, error) {
	if g.window <= 0 {
		return true, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for id, until := range g.served {
		if !now.Before(until) {
			delete(g.served, id)
		}
	}

	if _, busy := g.served[destinationID]; busy {
		return false, nil
	}
	g.served[destinationID] = now.Add(g.window)
	return true, nil
}
