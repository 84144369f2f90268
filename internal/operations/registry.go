package operations

import (
	"fmt"
	"slices"
	"sync"
)

// Registry holds the steps of a run. Registration order is execution order.
type Registry struct {
	mu    sync.RWMutex
	steps []Step
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a step. Step ids must be non-empty and unique.
func (r *Registry) Register(step Step) error {
	if step == nil {
		return fmt.Errorf("cannot register a nil step")
	}
	id := step.ID()
	if id == "" {
		return fmt.Errorf("step id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index(id) >= 0 {
		return fmt.Errorf("step %q already registered", id)
	}
	r.steps = append(r.steps, step)
	return nil
}

// Unregister removes a step, keeping the order of the others
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("step %q not registered", id)
	}
	r.steps = slices.Delete(r.steps, i, i+1)
	return nil
}

// Get returns the step with the given id
func (r *Registry) Get(id string) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.index(id)
	if i < 0 {
		return nil, fmt.Errorf("step %q not registered", id)
	}
	return r.steps[i], nil
}

// Has reports whether a step is registered
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index(id) >= 0
}

// List returns the steps in execution order
func (r *Registry) List() []Step {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(make([]Step, 0, len(r.steps)), r.steps...)
}

// ListIDs returns the step ids in execution order
func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.steps))
	for i, s := range r.steps {
		ids[i] = s.ID()
	}
	return ids
}

// Count returns the number of registered steps
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steps)
}

func (r *Registry) index(id string) int {
	return slices.IndexFunc(r.steps, func(s Step) bool { return s.ID() == id })
}
