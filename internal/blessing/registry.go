package blessing

import (
	"errors"
	"fmt"
)

// ErrUnknownBlessing is returned by Create for an id nobody registered.
var ErrUnknownBlessing = errors.New("unknown blessing")

// Factory builds a fresh blessing instance for one run.
type Factory func(Deps) Blessing

type entry struct {
	factory Factory
	tier    int
}

// Registry maps blessing ids to factories and unlock tiers.
type Registry struct {
	entries map[ID]entry
	order   []ID
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[ID]entry)}
}

// Register adds (or replaces) a blessing. tier is the number of modes a
// player must have cleared before the blessing is offered.
func (r *Registry) Register(id ID, tier int, f Factory) {
	if _, exists := r.entries[id]; !exists {
		r.order = append(r.order, id)
	}
	r.entries[id] = entry{factory: f, tier: tier}
}

// Create instantiates id.
func (r *Registry) Create(id ID, deps Deps) (Blessing, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlessing, id)
	}
	return e.factory(deps), nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id ID) bool {
	_, ok := r.entries[id]
	return ok
}

// IDs lists registered ids in registration order.
func (r *Registry) IDs() []ID {
	return append([]ID(nil), r.order...)
}

// Tier returns the unlock tier of id, or -1.
func (r *Registry) Tier(id ID) int {
	e, ok := r.entries[id]
	if !ok {
		return -1
	}
	return e.tier
}

// Unlocked lists, in registration order, every id whose tier is at most modesCleared.
func (r *Registry) Unlocked(modesCleared int) []ID {
	var out []ID
	for _, id := range r.order {
		if r.entries[id].tier <= modesCleared {
			out = append(out, id)
		}
	}
	return out
}

// Defaults registers the four built-in blessings.
func Defaults() *Registry {
	r := NewRegistry()
	r.Register(IDSanctuary, 1, func(d Deps) Blessing { return NewSanctuary(d.Bus) })
	r.Register(IDMercy, 1, func(d Deps) Blessing { return NewMercy(d.Bus) })
	r.Register(IDSixthDie, 2, func(d Deps) Blessing { return NewSixthDie(d.Bus, d.SixthDieCharges) })
	r.Register(IDExpansion, 3, func(d Deps) Blessing { return NewExpansion(d.Bus) })
	return r
}
