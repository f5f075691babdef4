package rule

import (
	"github.com/matzehuels/taggle/pkg/errors"
	"github.com/matzehuels/taggle/pkg/tree"
)

// Margins holds the vertical gap a renderer leaves below a leaf, per level
// of detail.
type Margins struct {
	High   float64 `toml:"high" yaml:"high"`
	Medium float64 `toml:"medium" yaml:"medium"`
	Low    float64 `toml:"low" yaml:"low"`
}

// For returns the margin of class l.
func (m Margins) For(l LOD) float64 {
	switch l {
	case LODHigh:
		return m.High
	case LODMedium:
		return m.Medium
	default:
		return m.Low
	}
}

// Metrics holds the sizing constants shared by all rule sets, in pixels.
type Metrics struct {
	// DefaultLeafHeight is the height of rows in fixed layouts and of
	// selected (pinned) rows in adaptive ones.
	DefaultLeafHeight float64 `toml:"default_leaf_height" yaml:"default_leaf_height"`
	MinLeafHeight     float64 `toml:"min_leaf_height" yaml:"min_leaf_height"`
	MaxLeafHeight     float64 `toml:"max_leaf_height" yaml:"max_leaf_height"`
	CompactLeafHeight float64 `toml:"compact_leaf_height" yaml:"compact_leaf_height"`

	DefaultAggregatedHeight float64 `toml:"default_aggregated_height" yaml:"default_aggregated_height"`
	MinAggregatedHeight     float64 `toml:"min_aggregated_height" yaml:"min_aggregated_height"`
	MaxAggregatedHeight     float64 `toml:"max_aggregated_height" yaml:"max_aggregated_height"`

	// GroupSpacing is the gap after each collapsed group and after the last
	// row of an expanded group.
	GroupSpacing float64 `toml:"group_spacing" yaml:"group_spacing"`
	// PaddingBottom is reserved below the last row of the viewport.
	PaddingBottom float64 `toml:"padding_bottom" yaml:"padding_bottom"`

	LeafMargins Margins `toml:"leaf_margins" yaml:"leaf_margins"`

	// SnapEpsilon is how far below a detail-class boundary a leaf height
	// snaps when subtracting the margin would change its class.
	SnapEpsilon float64 `toml:"snap_epsilon" yaml:"snap_epsilon"`
}

// DefaultMetrics returns the built-in sizing constants.
func DefaultMetrics() Metrics {
	return Metrics{
		DefaultLeafHeight:       tree.DefaultLeafHeight,
		MinLeafHeight:           1,
		MaxLeafHeight:           tree.DefaultLeafHeight,
		CompactLeafHeight:       2,
		DefaultAggregatedHeight: 40,
		MinAggregatedHeight:     2,
		MaxAggregatedHeight:     400,
		GroupSpacing:            4,
		SnapEpsilon:             0.1,
	}
}

// Validate checks that all bounds are consistent.
func (m Metrics) Validate() error {
	for _, h := range []struct {
		name string
		v    float64
	}{
		{"default_leaf_height", m.DefaultLeafHeight},
		{"min_leaf_height", m.MinLeafHeight},
		{"max_leaf_height", m.MaxLeafHeight},
		{"compact_leaf_height", m.CompactLeafHeight},
		{"default_aggregated_height", m.DefaultAggregatedHeight},
		{"min_aggregated_height", m.MinAggregatedHeight},
		{"max_aggregated_height", m.MaxAggregatedHeight},
	} {
		if err := errors.ValidateHeight(h.name, h.v); err != nil {
			return err
		}
	}
	if m.MinLeafHeight > m.MaxLeafHeight {
		return errors.New(errors.ErrCodeInvalidInput, "min_leaf_height %v exceeds max_leaf_height %v", m.MinLeafHeight, m.MaxLeafHeight)
	}
	if m.MinAggregatedHeight > m.MaxAggregatedHeight {
		return errors.New(errors.ErrCodeInvalidInput, "min_aggregated_height %v exceeds max_aggregated_height %v", m.MinAggregatedHeight, m.MaxAggregatedHeight)
	}
	for _, v := range []float64{m.GroupSpacing, m.PaddingBottom, m.LeafMargins.High, m.LeafMargins.Medium, m.LeafMargins.Low, m.SnapEpsilon} {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "negative spacing or margin: %v", v)
		}
	}
	return nil
}

// fitLeaf turns a raw per-row allocation into a leaf height by subtracting
// the margin of its detail class. When that drops the height into another
// class, the height snaps to just below the raw class boundary instead.
func (m Metrics) fitLeaf(raw float64) float64 {
	class := LeafLOD(raw)
	adjusted := raw - m.LeafMargins.For(class)
	if LeafLOD(adjusted) != class {
		return leafLowerBound(class) - m.SnapEpsilon
	}
	return adjusted
}
