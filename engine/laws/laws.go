// Package laws implements the law registry: the only mutation surface for
// the rule set. Registration order is preserved because it is the observable
// tie-break for bids with equal layer and score.
package laws

import "github.com/tmavro/edict/types"

// Registry maps law names to definitions. Ratify and Revoke are the whole
// mutation surface; extension code never sees the underlying map.
type Registry struct {
	byName map[string]*types.Law
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*types.Law{}}
}

// Ratify inserts or overwrites a law by name. Overwriting keeps the law's
// original registration slot, so re-ratifying does not shuffle tie-breaks.
func (r *Registry) Ratify(law types.Law) {
	if _, exists := r.byName[law.Name]; !exists {
		r.order = append(r.order, law.Name)
	}
	r.byName[law.Name] = &law
}

// Revoke removes a law by name. Unknown names are a no-op.
func (r *Registry) Revoke(name string) {
	if _, exists := r.byName[name]; !exists {
		return
	}
	delete(r.byName, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the law registered under name.
func (r *Registry) Get(name string) (*types.Law, bool) {
	law, ok := r.byName[name]
	return law, ok
}

// InOrder returns all laws in registration order.
func (r *Registry) InOrder() []*types.Law {
	out := make([]*types.Law, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the number of registered laws.
func (r *Registry) Len() int {
	return len(r.byName)
}
