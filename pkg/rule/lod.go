package rule

import "github.com/matzehuels/taggle/pkg/tree"

// LOD is a coarse level-of-detail class derived from a node's height.
type LOD int

const (
	LODLow LOD = iota
	LODMedium
	LODHigh
)

func (l LOD) String() string {
	switch l {
	case LODHigh:
		return "high"
	case LODMedium:
		return "medium"
	default:
		return "low"
	}
}

// Lower bounds, in pixels, of the detail classes.
const (
	LeafHighThreshold    = 18.0
	LeafMediumThreshold  = 10.0
	InnerHighThreshold   = 35.0
	InnerMediumThreshold = 15.0
)

// LeafLOD classifies a leaf height. NaN is low.
func LeafLOD(h float64) LOD {
	return classify(h, LeafHighThreshold, LeafMediumThreshold)
}

// InnerLOD classifies the height of a collapsed group.
func InnerLOD(h float64) LOD {
	return classify(h, InnerHighThreshold, InnerMediumThreshold)
}

// LevelOfDetail classifies n by its current height.
func LevelOfDetail(n tree.Node) LOD {
	if n.Kind() == tree.KindInner {
		return InnerLOD(n.Height())
	}
	return LeafLOD(n.Height())
}

func classify(h, high, medium float64) LOD {
	switch {
	case h >= high:
		return LODHigh
	case h >= medium:
		return LODMedium
	default:
		return LODLow
	}
}

// leafLowerBound returns the smallest leaf height of class l.
func leafLowerBound(l LOD) float64 {
	switch l {
	case LODHigh:
		return LeafHighThreshold
	case LODMedium:
		return LeafMediumThreshold
	default:
		return 0
	}
}
