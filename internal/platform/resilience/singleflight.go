package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into one
// execution; late arrivals wait and share the result.
type SingleFlight struct {
	mu     sync.Mutex
	flight map[string]*flightResult
}

type flightResult struct {
	once  sync.Once
	value any
	err   error
}

// Do runs fn once per key among concurrent callers. The bool reports
// whether this caller shared another caller's result.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.flight == nil {
		g.flight = make(map[string]*flightResult)
	}
	res, shared := g.flight[key]
	if !shared {
		res = &flightResult{}
		g.flight[key] = res
	}
	g.mu.Unlock()

	res.once.Do(func() {
		res.value, res.err = fn()

		g.mu.Lock()
		delete(g.flight, key)
		g.mu.Unlock()
	})

	return res.value, res.err, shared
}
