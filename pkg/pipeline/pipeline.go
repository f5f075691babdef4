// Package pipeline orchestrates loading, layout and rendering of taggle
// datasets.
//
// The core packages (tree, table, rule, layout) are pure: they mutate a tree
// and return values. This package wires them into the two ways a table view
// is driven:
//
//  1. Batch: [Runner.Execute] builds the tree for a dataset, applies the
//     requested grouping, sorting, selection and collapse state, runs one
//     static layout pass and renders the requested artifacts.
//  2. Interactive: a [Session] owns one tree and replays user actions
//     (regroup, resort, select, collapse, filter, resize, switch rule set)
//     with the layout passes each action requires.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, logger)
//	ds, err := runner.Load(ctx, "countries.toml")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, ds, pipeline.Options{
//	    GroupBy: []string{"continent"},
//	    Height:  400,
//	})
//	for _, row := range result.Rows {
//	    fmt.Println(row.Node, row.Height())
//	}
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taggle/pkg/dataset"
	"github.com/matzehuels/taggle/pkg/errors"
	"github.com/matzehuels/taggle/pkg/layout"
	"github.com/matzehuels/taggle/pkg/rule"
	"github.com/matzehuels/taggle/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Sessions
// =============================================================================

const (
	// DefaultRuleSet is the rule set used when none is requested.
	DefaultRuleSet = rule.NameSpacefillingNotProportional

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600.0

	// DefaultLeafHeight is the height rows start with before the first pass.
	DefaultLeafHeight = tree.DefaultLeafHeight
)

// Format constants for output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the view state a tree is laid out with.
type Options struct {
	// RuleSet names the layout policy in the runner's registry.
	RuleSet string `json:"rule_set,omitempty"`

	// GroupBy lists the columns to group by, outermost first. Keys beyond
	// the rule set's stratification levels are dropped.
	GroupBy []string `json:"group_by,omitempty"`
	// SortBy is the column rows are sorted by within their group.
	SortBy string `json:"sort_by,omitempty"`

	Height     float64 `json:"height,omitempty"`
	LeafHeight float64 `json:"leaf_height,omitempty"`

	// Selected lists the data indices of the selected rows.
	Selected []int `json:"selected,omitempty"`
	// Collapsed lists the paths of groups to collapse, like "Europe.North".
	Collapsed []string `json:"collapsed,omitempty"`

	Formats []string `json:"formats,omitempty"`
	// LabelColumn names leaves in rendered diagrams. Empty picks the
	// first string column.
	LabelColumn string `json:"label_column,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the laid out row tree.
	Tree *tree.Inner

	// Rows are the visible rows in render order.
	Rows []layout.Row

	// Violations holds one message per violated constraint kind.
	Violations map[rule.ViolationKind]string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RowCount     int
	VisibleRows  int
	LayoutTime   time.Duration
	RenderTime   time.Duration
	ExtentHeight float64
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates the options.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills in zero fields.
func (o *Options) SetDefaults() {
	if o.RuleSet == "" {
		o.RuleSet = DefaultRuleSet
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.LeafHeight == 0 {
		o.LeafHeight = DefaultLeafHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks field values. Column and rule set names are resolved
// later against the dataset and the registry.
func (o *Options) Validate() error {
	if err := errors.ValidateHeight("height", o.Height); err != nil {
		return err
	}
	if err := errors.ValidateHeight("leaf height", o.LeafHeight); err != nil {
		return err
	}
	for _, idx := range o.Selected {
		if idx < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "selected row %d is negative", idx)
		}
	}
	seen := make(map[string]bool, len(o.GroupBy))
	for _, k := range o.GroupBy {
		if seen[k] {
			return errors.New(errors.ErrCodeInvalidInput, "column %q grouped twice", k)
		}
		seen[k] = true
	}
	return ValidateFormats(o.Formats)
}

// ApplyView fills the fields left empty from the view a dataset suggests.
func (o *Options) ApplyView(v dataset.View) {
	if o.RuleSet == "" {
		o.RuleSet = v.RuleSet
	}
	if len(o.GroupBy) == 0 {
		o.GroupBy = append([]string(nil), v.GroupBy...)
	}
	if o.SortBy == "" {
		o.SortBy = v.SortBy
	}
	if o.Height == 0 {
		o.Height = v.Height
	}
	if len(o.Selected) == 0 {
		o.Selected = append([]int(nil), v.Selected...)
	}
	if len(o.Collapsed) == 0 {
		o.Collapsed = append([]string(nil), v.Collapsed...)
	}
}

func (o *Options) String() string {
	return fmt.Sprintf("rule_set=%s group_by=%v sort_by=%q height=%.0f", o.RuleSet, o.GroupBy, o.SortBy, o.Height)
}
