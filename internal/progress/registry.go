package progress

import "sync"

// Sink is the outbound half of a subscriber connection. Implementations must
// serialize their own writes; Send is called from exactly one goroutine per
// job at a time.
type Sink interface {
	Send(event Event) error
}

// Registry maps an interview id to the single subscriber currently bound to
// it. The registry holds one slot per id: a later Bind for the same id
// replaces the previous subscriber. All operations are safe for concurrent
// use from any number of jobs and connections.
type Registry struct {
	mu    sync.RWMutex
	sinks map[int64]Sink
}

func NewRegistry() *Registry {
	return &Registry{
		sinks: make(map[int64]Sink),
	}
}

// Bind registers sink as the active subscriber for the interview.
// Overwrites any previous binding, last writer wins.
func (r *Registry) Bind(interviewID int64, sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks[interviewID] = sink
}

// Unbind removes the binding. Unbinding an id that has no binding is a no-op.
func (r *Registry) Unbind(interviewID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sinks, interviewID)
}

// Lookup returns the currently bound sink, if any. It never blocks waiting
// for a subscriber to appear.
func (r *Registry) Lookup(interviewID int64) (Sink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sinks[interviewID]
	return sink, ok
}
