package tracker

import (
	"context"
	"sync"
)

// inflightGroup coalesces concurrent refreshes of the same wallet: one caller
// leads, the rest wait for the leader to finish and read the cached result.
type inflightGroup struct {
	mu   sync.Mutex
	runs map[string]chan struct{}
}

func newInflightGroup() *inflightGroup {
	return &inflightGroup{runs: make(map[string]chan struct{})}
}

// acquire returns leader=true when the caller should run the computation.
// Otherwise wait blocks until the leader finishes or the context ends.
func (g *inflightGroup) acquire(key string) (leader bool, wait func(context.Context) error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if done, ok := g.runs[key]; ok {
		return false, func(ctx context.Context) error {
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	g.runs[key] = make(chan struct{})
	return true, nil
}

// release marks the computation finished and wakes all waiters.
func (g *inflightGroup) release(key string) {
	g.mu.Lock()
	done := g.runs[key]
	delete(g.runs, key)
	g.mu.Unlock()
	if done != nil {
		close(done)
	}
}
