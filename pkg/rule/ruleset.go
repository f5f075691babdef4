package rule

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/taggle/pkg/tree"
)

// Unlimited marks a descriptor level without a cap.
const Unlimited = math.MaxInt

// Descriptor is the static part of a rule set.
type Descriptor struct {
	Name string
	// StratificationLevels caps how many columns the tree may be grouped
	// by. Zero forces a flat tree.
	StratificationLevels int
	// SortLevels caps the number of simultaneous sort keys.
	SortLevels int
}

// LevelOfDetail classifies n by its current height.
func (d Descriptor) LevelOfDetail(n tree.Node) LOD { return LevelOfDetail(n) }

// Flat reports whether the rule set forbids grouping.
func (d Descriptor) Flat() bool { return d.StratificationLevels == 0 }

// ViolationKind names a family of constraint violations.
type ViolationKind string

const (
	ViolationSpaceFilling ViolationKind = "spaceFilling"
	ViolationProportional ViolationKind = "proportional"
)

// Clamp messages. One message is recorded per kind and bound, however many
// nodes were clamped.
const (
	MsgLeafTooSmall  = "Height of some items were smaller than their minimal allowed size, limiting to minimal size"
	MsgLeafTooBig    = "Height of some items were bigger than their maximal allowed size, limiting to maximal size"
	MsgGroupTooSmall = "Height of some groups were smaller than their minimal allowed size, limiting to minimal size"
	MsgGroupTooBig   = "Height of some groups were bigger than their maximal allowed size, limiting to maximal size"
)

// Instance is the policy of one layout pass.
type Instance struct {
	LeafHeight   Value[tree.LeafNode, float64]
	LeafVisType  Value[tree.LeafNode, tree.VisType]
	InnerHeight  Value[*tree.Inner, float64]
	InnerVisType Value[*tree.Inner, tree.VisType]

	kinds    []ViolationKind
	messages map[ViolationKind][]string
}

// Violations returns the messages recorded so far, keyed by kind. Messages
// of one kind are joined by newlines. The map is empty when nothing was
// clamped.
func (in *Instance) Violations() map[ViolationKind]string {
	out := make(map[ViolationKind]string, len(in.kinds))
	for _, k := range in.kinds {
		out[k] = strings.Join(in.messages[k], "\n")
	}
	return out
}

func (in *Instance) record(kind ViolationKind, msg string) {
	if in.messages == nil {
		in.messages = make(map[ViolationKind][]string)
	}
	msgs, ok := in.messages[kind]
	if !ok {
		in.kinds = append(in.kinds, kind)
	}
	if !slices.Contains(msgs, msg) {
		in.messages[kind] = append(msgs, msg)
	}
}

// clamp limits h to [lo, hi], recording tooSmall or tooBig under kind when
// it had to. NaN counts as too small.
func (in *Instance) clamp(kind ViolationKind, h, lo, hi float64, tooSmall, tooBig string) float64 {
	switch {
	case math.IsNaN(h) || h < lo:
		in.record(kind, tooSmall)
		return lo
	case h > hi:
		in.record(kind, tooBig)
		return hi
	}
	return h
}

func (in *Instance) clampLeaf(kind ViolationKind, m Metrics, h float64) float64 {
	return in.clamp(kind, h, m.MinLeafHeight, m.MaxLeafHeight, MsgLeafTooSmall, MsgLeafTooBig)
}

func (in *Instance) clampGroup(kind ViolationKind, m Metrics, h float64) float64 {
	return in.clamp(kind, h, m.MinAggregatedHeight, m.MaxAggregatedHeight, MsgGroupTooSmall, MsgGroupTooBig)
}

// RuleSet is a layout policy.
type RuleSet interface {
	Descriptor() Descriptor
	// Apply creates the instance for one pass over root with the given
	// viewport height.
	Apply(root *tree.Inner, availableHeight float64) *Instance
}

// Static returns a rule set whose instances never depend on the tree.
// Every Apply returns a fresh copy of inst with no violations.
func Static(d Descriptor, inst Instance) RuleSet {
	inst.kinds, inst.messages = nil, nil
	return staticRuleSet{desc: d, inst: inst}
}

type staticRuleSet struct {
	desc Descriptor
	inst Instance
}

func (s staticRuleSet) Descriptor() Descriptor { return s.desc }

func (s staticRuleSet) Apply(*tree.Inner, float64) *Instance {
	inst := s.inst
	return &inst
}

// Factory returns a rule set that builds a new instance from the tree and
// viewport height on every Apply.
func Factory(d Descriptor, apply func(root *tree.Inner, availableHeight float64) *Instance) RuleSet {
	return factoryRuleSet{desc: d, apply: apply}
}

type factoryRuleSet struct {
	desc  Descriptor
	apply func(*tree.Inner, float64) *Instance
}

func (f factoryRuleSet) Descriptor() Descriptor { return f.desc }

func (f factoryRuleSet) Apply(root *tree.Inner, availableHeight float64) *Instance {
	return f.apply(root, availableHeight)
}
