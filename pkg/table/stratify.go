package table

import (
	"cmp"
	"math"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/matzehuels/taggle/pkg/tree"
)

// Restratify regroups the leaves below root by the values of the given
// columns, nested in key order. Groups appear in first-encountered order.
//
// An empty key list flattens the tree back to a single level in original
// row order; leaf identity is preserved either way. Group histograms are
// recomputed afterwards.
func Restratify(columns Columns, root *tree.Inner, keys []string) error {
	for _, k := range keys {
		if _, err := columns.lookup(k); err != nil {
			return err
		}
	}

	leaves := tree.FlatLeaves[Row](root)
	if len(keys) == 0 {
		// Data order; the caller reapplies any sort. tree.Inner.Flatten
		// keeps the current order instead.
		slices.SortStableFunc(leaves, func(a, b *tree.Leaf[Row]) int {
			return cmp.Compare(a.DataIndex(), b.DataIndex())
		})
		children := make([]tree.Node, len(leaves))
		for i, l := range leaves {
			children[i] = l
		}
		root.SetChildren(children...)
	} else {
		tree.GroupBy(root, leaves, func(r Row) []string {
			path := make([]string, len(keys))
			for i, k := range keys {
				path[i] = r.Text(k)
			}
			return path
		})
	}

	UpdateAggregates(columns, root)
	return nil
}

// Reorder sorts the leaves of every group by column by. Numeric columns sort
// descending with NaN cells last; other columns sort ascending by locale
// collation. Groups are always ordered by name.
func Reorder(columns Columns, root *tree.Inner, by string) error {
	col, err := columns.lookup(by)
	if err != nil {
		return err
	}
	if col.IsNumeric() {
		tree.Sort(root, func(a, b Row) int {
			return compareDesc(a.Number(by), b.Number(by))
		})
		return nil
	}
	coll := collate.New(language.Und)
	tree.Sort(root, func(a, b Row) int {
		return coll.CompareString(a.Text(by), b.Text(by))
	})
	return nil
}

// compareDesc orders numbers descending with NaN after every number.
func compareDesc(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	return cmp.Compare(b, a)
}
