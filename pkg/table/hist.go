package table

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/taggle/pkg/tree"
)

// NumericBins is the number of equal-width histogram bins of numeric columns.
const NumericBins = 5

// UpdateAggregates recomputes the Aggregate map of every inner node below
// (and including) root. Numeric columns with a range get NumericBins bins,
// categorical columns one bin per declared category. Other columns are
// skipped.
func UpdateAggregates(columns Columns, root *tree.Inner) {
	tree.Visit(root, func(n *tree.Inner) bool {
		rows := leafRows(n)
		agg := make(map[string][]int, len(columns))
		for _, c := range columns {
			switch {
			case c.IsNumeric():
				if bins, ok := NumericHistogram(c, rows); ok {
					agg[c.Name] = bins
				}
			case c.Type == TypeCategorical:
				agg[c.Name] = CategoricalHistogram(c, rows)
			}
		}
		n.SetAggregate(agg)
		return true
	}, nil)
}

func leafRows(n *tree.Inner) []Row {
	leaves := tree.FlatLeaves[Row](n)
	rows := make([]Row, len(leaves))
	for i, l := range leaves {
		rows[i] = l.Item()
	}
	return rows
}

// NumericHistogram counts the values of a numeric column in NumericBins
// equal-width bins over the column's range. The range maximum falls in the
// last bin; NaN and out-of-range values are dropped. ok is false when the
// column declares no range.
func NumericHistogram(c Column, rows []Row) (bins []int, ok bool) {
	lo, hi, ok := c.Bounds()
	if !ok {
		return nil, false
	}
	dividers := make([]float64, NumericBins+1)
	floats.Span(dividers, lo, hi)
	dividers[NumericBins] = math.Nextafter(hi, math.Inf(1))

	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		v := r.Number(c.Name)
		if v >= lo && v < dividers[NumericBins] {
			values = append(values, v)
		}
	}
	slices.Sort(values)

	counts := stat.Histogram(nil, dividers, values, nil)
	bins = make([]int, NumericBins)
	for i, f := range counts {
		bins[i] = int(f)
	}
	return bins, true
}

// CategoricalHistogram counts the values of a categorical column per
// declared category. Undeclared values are dropped.
func CategoricalHistogram(c Column, rows []Row) []int {
	bins := make([]int, len(c.Categories))
	for _, r := range rows {
		if i := c.Category(r.Text(c.Name)); i >= 0 {
			bins[i]++
		}
	}
	return bins
}

// InferRanges fills in missing ranges of numeric columns from the minimum and
// maximum of their values. Columns whose values are all NaN or constant keep
// an empty range.
func InferRanges(columns Columns, rows []Row) {
	for i := range columns {
		c := &columns[i]
		if !c.IsNumeric() || len(c.Range) != 0 {
			continue
		}
		values := make([]float64, 0, len(rows))
		for _, r := range rows {
			if v := r.Number(c.Name); !math.IsNaN(v) && !math.IsInf(v, 0) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		lo, hi := floats.Min(values), floats.Max(values)
		if lo < hi {
			c.Range = []float64{lo, hi}
		}
	}
}
