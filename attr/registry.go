package attr

import (
	"sort"
	"sync"
)

// Registry provides typed identity for named attributes. Registering the
// same (name, kind) pair twice is idempotent and returns the same Attribute;
// registering a name under a second kind fails with a TypeConflictError.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Attribute
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Attribute)}
}

// Register returns the attribute for (name, kind), creating it on first use.
func (r *Registry) Register(name string, kind Kind) (Attribute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[name]; ok {
		if existing.Kind() != kind {
			return Attribute{}, &TypeConflictError{Name: name, Existing: existing.Kind(), Conflict: kind}
		}
		return existing, nil
	}
	a := Of(name, kind)
	r.byName[name] = a
	return a, nil
}

// MustRegister is Register for statically known attribute sets.
func (r *Registry) MustRegister(name string, kind Kind) Attribute {
	a, err := r.Register(name, kind)
	if err != nil {
		panic(err)
	}
	return a
}

// Lookup returns the attribute registered under name, used by diagnostic
// layers to render attribute names back into typed identities.
func (r *Registry) Lookup(name string) (Attribute, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byName[name]
	return a, ok
}

// Attributes returns all registered attributes in name order.
func (r *Registry) Attributes() []Attribute {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Attribute, 0, len(r.byName))
	for _, a := range r.byName {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
