// Package table binds tabular rows to the row tree.
//
// It describes columns, reads typed cell values from untyped rows, and
// implements the two structural operations a table view applies to its tree:
// regrouping ([Restratify]) and resorting ([Reorder]). After regrouping, every
// group carries per-column histograms that column renderers draw in place of
// the hidden rows.
//
// Referencing a column that does not exist is reported as an
// [errors.UnknownNameError] and leaves the tree untouched.
package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/taggle/pkg/errors"
	"github.com/matzehuels/taggle/pkg/tree"
)

// Type is the value type of a column.
type Type string

const (
	TypeString      Type = "string"
	TypeInt         Type = "int"
	TypeReal        Type = "real"
	TypeCategorical Type = "categorical"
)

// Category is one declared value of a categorical column.
type Category struct {
	Name  string `toml:"name" yaml:"name"`
	Color string `toml:"color" yaml:"color"`
}

// Column describes one column of the table.
type Column struct {
	Name       string     `toml:"name" yaml:"name"`
	Type       Type       `toml:"type" yaml:"type"`
	Range      []float64  `toml:"range,omitempty" yaml:"range,omitempty"`
	Categories []Category `toml:"categories,omitempty" yaml:"categories,omitempty"`
}

// IsNumeric reports whether the column holds int or real values.
func (c Column) IsNumeric() bool {
	return c.Type == TypeInt || c.Type == TypeReal
}

// Bounds returns the declared value range of a numeric column.
func (c Column) Bounds() (lo, hi float64, ok bool) {
	if len(c.Range) != 2 {
		return 0, 0, false
	}
	return c.Range[0], c.Range[1], true
}

// Category returns the index of the declared category name, or -1.
func (c Column) Category(name string) int {
	for i, cat := range c.Categories {
		if cat.Name == name {
			return i
		}
	}
	return -1
}

// Validate checks the column declaration.
func (c Column) Validate() error {
	if err := errors.ValidateColumnName(c.Name); err != nil {
		return err
	}
	switch c.Type {
	case TypeString:
	case TypeInt, TypeReal:
		if len(c.Range) == 0 {
			return nil
		}
		if len(c.Range) != 2 {
			return errors.New(errors.ErrCodeInvalidDataset, "column %q: range needs exactly two values", c.Name)
		}
		return errors.ValidateRange(c.Name, c.Range[0], c.Range[1])
	case TypeCategorical:
		seen := make(map[string]bool, len(c.Categories))
		for _, cat := range c.Categories {
			if seen[cat.Name] {
				return errors.New(errors.ErrCodeInvalidDataset, "column %q: duplicate category %q", c.Name, cat.Name)
			}
			seen[cat.Name] = true
		}
	default:
		return errors.New(errors.ErrCodeInvalidDataset, "column %q: unknown type %q", c.Name, c.Type)
	}
	return nil
}

// Columns is an ordered set of column declarations.
type Columns []Column

// Find returns the column named name.
func (cs Columns) Find(name string) (Column, bool) {
	for _, c := range cs {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Names returns the column names in declaration order.
func (cs Columns) Names() []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}

// Validate checks every column and rejects duplicate names.
func (cs Columns) Validate() error {
	seen := make(map[string]bool, len(cs))
	for _, c := range cs {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.Name] {
			return errors.New(errors.ErrCodeInvalidDataset, "duplicate column %q", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

func (cs Columns) lookup(name string) (Column, error) {
	if c, ok := cs.Find(name); ok {
		return c, nil
	}
	return Column{}, &errors.UnknownNameError{Kind: "column", Name: name, Known: cs.Names()}
}

// Row is one record keyed by column name.
type Row map[string]any

// Number returns the cell as a float. Missing, empty and non-numeric cells
// are NaN.
func (r Row) Number(column string) float64 {
	switch v := r[column].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// Text returns the cell formatted as a string; missing cells are "".
func (r Row) Text(column string) string {
	switch v := r[column].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Build creates the initial flat tree over rows.
func Build(rows []Row, leafHeight float64) *tree.Inner {
	return tree.FromSlice(rows, leafHeight)
}
