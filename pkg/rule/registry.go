package rule

import (
	"github.com/matzehuels/taggle/pkg/errors"
)

// Catalog names.
const (
	NameTable                          = "table"
	NameCompact                        = "compact"
	NameTableLens                      = "tablelens"
	NameNotSpacefillingNotProportional = "NotSpacefillingNotProportional"
	NameNotSpacefillingProportional    = "NotSpacefillingProportional"
	NameSpacefillingNotProportional    = "SpacefillingNotProportional"
	NameSpacefillingProportional       = "SpacefillingProportional"
)

// Registry is an ordered catalog of rule sets, looked up by name.
// A Registry is owned by its caller; there is no package-level catalog.
type Registry struct {
	sets []RuleSet
}

// NewRegistry creates a registry holding sets in order.
func NewRegistry(sets ...RuleSet) *Registry {
	r := &Registry{}
	for _, rs := range sets {
		r.Register(rs)
	}
	return r
}

// DefaultRegistry returns the built-in catalog sized by m.
func DefaultRegistry(m Metrics) *Registry {
	return NewRegistry(
		TableRuleSet(m),
		CompactRuleSet(m),
		TableLensRuleSet(m),
		NotSpacefillingNotProportional(m),
		NotSpacefillingProportional(m),
		SpacefillingNotProportional(m),
		SpacefillingProportional(m),
	)
}

// Register adds rs, replacing any rule set with the same name in place.
func (r *Registry) Register(rs RuleSet) {
	name := rs.Descriptor().Name
	for i, existing := range r.sets {
		if existing.Descriptor().Name == name {
			r.sets[i] = rs
			return
		}
	}
	r.sets = append(r.sets, rs)
}

// Get returns the rule set called name.
func (r *Registry) Get(name string) (RuleSet, error) {
	for _, rs := range r.sets {
		if rs.Descriptor().Name == name {
			return rs, nil
		}
	}
	return nil, &errors.UnknownNameError{Kind: "rule set", Name: name, Known: r.Names()}
}

// Names returns the rule set names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.sets))
	for i, rs := range r.sets {
		names[i] = rs.Descriptor().Name
	}
	return names
}

// All returns the rule sets in registration order.
func (r *Registry) All() []RuleSet {
	return append([]RuleSet(nil), r.sets...)
}
