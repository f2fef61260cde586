package resilience

import (
	"sync"

	"github.com/sourcegraph/conc/panics"
)

// SingleFlight deduplicates concurrent calls for the same key. A panic in fn
// is returned to every waiter as an error instead of leaving them blocked.
type SingleFlight[V any] struct {
	mu    sync.Mutex
	calls map[string]*call[V]
}

type call[V any] struct {
	wg  sync.WaitGroup
	val V
	err error
}

func (g *SingleFlight[V]) Do(key string, fn func() (V, error)) (V, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call[V])
	}

	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &call[V]{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	if recovered := panics.Try(func() { c.val, c.err = fn() }); recovered != nil {
		var zero V
		c.val, c.err = zero, recovered.AsError()
	}
	c.wg.Done()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()

	return c.val, c.err, false
}
