package pipeline

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taggle/pkg/dataset"
	"github.com/matzehuels/taggle/pkg/errors"
	"github.com/matzehuels/taggle/pkg/layout"
	"github.com/matzehuels/taggle/pkg/observability"
	"github.com/matzehuels/taggle/pkg/rule"
	"github.com/matzehuels/taggle/pkg/table"
	"github.com/matzehuels/taggle/pkg/tree"
)

// Session owns the row tree of one dataset and replays the interactions of
// a table view on it. Every operation leaves the tree laid out.
//
// A Session is not safe for concurrent use.
type Session struct {
	ds       *dataset.Dataset
	registry *rule.Registry
	logger   *log.Logger

	root      *tree.Inner
	ruleSet   rule.RuleSet
	groupBy   []string
	sortBy    string
	height    float64
	leafH     float64
	collapsed map[string]bool
	filter    func(table.Row) bool

	violations map[rule.ViolationKind]string
	dynamic    bool
}

// NewSession builds the tree for ds and applies the view state in opts.
// The registry resolves rule set names; nil uses the built-in catalog
// sized by the dataset's layout metrics.
func NewSession(ds *dataset.Dataset, registry *rule.Registry, opts Options) (*Session, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	if registry == nil {
		registry = rule.DefaultRegistry(ds.Layout)
	}
	rs, err := registry.Get(opts.RuleSet)
	if err != nil {
		return nil, err
	}
	for _, idx := range opts.Selected {
		if idx >= len(ds.Rows) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "selected row %d out of range [0, %d)", idx, len(ds.Rows))
		}
	}

	s := &Session{
		ds:        ds,
		registry:  registry,
		logger:    opts.Logger,
		ruleSet:   rs,
		groupBy:   capKeys(opts.GroupBy, rs.Descriptor().StratificationLevels),
		sortBy:    opts.SortBy,
		height:    opts.Height,
		leafH:     opts.LeafHeight,
		collapsed: make(map[string]bool, len(opts.Collapsed)),
	}
	if rs.Descriptor().SortLevels == 0 {
		s.sortBy = ""
	}
	for _, p := range opts.Collapsed {
		s.collapsed[p] = true
	}

	s.root = table.Build(ds.Rows, s.leafH)
	leaves := tree.Leaves(s.root)
	for _, idx := range opts.Selected {
		leaves[idx].SetSelected(true)
	}
	if err := s.restructure("init"); err != nil {
		return nil, err
	}
	s.Layout()
	return s, nil
}

// =============================================================================
// Accessors
// =============================================================================

// Root returns the row tree.
func (s *Session) Root() *tree.Inner { return s.root }

// Dataset returns the dataset the tree was built from.
func (s *Session) Dataset() *dataset.Dataset { return s.ds }

// Columns returns the dataset's column declarations.
func (s *Session) Columns() table.Columns { return s.ds.Columns }

// RuleSet returns the active rule set.
func (s *Session) RuleSet() rule.RuleSet { return s.ruleSet }

// Registry returns the catalog rule sets are resolved from.
func (s *Session) Registry() *rule.Registry { return s.registry }

// GroupKeys returns the grouping columns, outermost first.
func (s *Session) GroupKeys() []string { return slices.Clone(s.groupBy) }

// SortKey returns the sort column, or "" when rows are unsorted.
func (s *Session) SortKey() string { return s.sortBy }

// Height returns the viewport height.
func (s *Session) Height() float64 { return s.height }

// Violations returns the violations of the last pass.
func (s *Session) Violations() map[rule.ViolationKind]string { return s.violations }

// Rows returns the visible rows in render order.
func (s *Session) Rows() []layout.Row {
	return layout.Rows(s.root, s.ds.Layout)
}

// Selected returns the data indices of the selected rows in ascending order.
func (s *Session) Selected() []int {
	var out []int
	for _, l := range tree.Leaves(s.root) {
		if l.Selected() {
			out = append(out, l.DataIndex())
		}
	}
	slices.Sort(out)
	return out
}

// Export returns the rows that pass the filter, in data order.
func (s *Session) Export() []table.Row {
	leaves := tree.FlatLeaves[table.Row](s.root)
	slices.SortFunc(leaves, func(a, b *tree.Leaf[table.Row]) int {
		return a.DataIndex() - b.DataIndex()
	})
	out := make([]table.Row, 0, len(leaves))
	for _, l := range leaves {
		if !l.Filtered() {
			out = append(out, l.Item())
		}
	}
	return out
}

// =============================================================================
// Layout Passes
// =============================================================================

// Layout runs a static pass: every attribute of every node is assigned.
func (s *Session) Layout() map[rule.ViolationKind]string {
	return s.pass(false)
}

// Update runs a dynamic pass: only attributes the rule set computes per
// node are re-evaluated.
func (s *Session) Update() map[rule.ViolationKind]string {
	return s.pass(true)
}

func (s *Session) pass(dynamic bool) map[rule.ViolationKind]string {
	start := time.Now()
	var inst *rule.Instance
	if dynamic {
		inst = layout.ApplyDynamic(s.ruleSet, s.root, s.height)
	} else {
		inst = layout.ApplyStatic(s.ruleSet, s.root, s.height)
	}
	s.violations = inst.Violations()
	s.dynamic = layout.IsDynamic(inst)

	name := s.ruleSet.Descriptor().Name
	hooks := observability.Session()
	hooks.OnPass(name, dynamic, time.Since(start))
	for kind, msg := range s.violations {
		hooks.OnViolation(string(kind), msg)
		s.logger.Warn("layout violation", "rule_set", name, "kind", kind, "message", msg)
	}
	s.logger.Debug("layout pass", "rule_set", name, "dynamic", dynamic, "height", s.height, "duration", time.Since(start))
	return s.violations
}

// =============================================================================
// Interactions
// =============================================================================

// SetRuleSet switches the layout policy. Grouping and sorting are trimmed
// to what the new rule set supports before the static pass.
func (s *Session) SetRuleSet(name string) error {
	rs, err := s.registry.Get(name)
	if err != nil {
		return err
	}
	s.ruleSet = rs
	d := rs.Descriptor()
	s.groupBy = capKeys(s.groupBy, d.StratificationLevels)
	if d.SortLevels == 0 {
		s.sortBy = ""
	}
	if err := s.restructure("rule set"); err != nil {
		return err
	}
	s.Layout()
	return nil
}

// ToggleGroup handles a click on a column header.
//
// A categorical column under a rule set that allows grouping toggles its
// place in the group-by list: additive mode appends or removes just that
// column, otherwise it replaces the list (or clears it if the column was
// already grouped). Any other column becomes the sort column if the rule
// set allows sorting. The list is capped at the rule set's stratification
// levels.
func (s *Session) ToggleGroup(column string, additive bool) error {
	col, ok := s.ds.Columns.Find(column)
	if !ok {
		return &errors.UnknownNameError{Kind: "column", Name: column, Known: s.ds.Columns.Names()}
	}
	d := s.ruleSet.Descriptor()

	if col.Type != table.TypeCategorical || d.StratificationLevels == 0 {
		return s.SetSort(column)
	}

	grouped := slices.Contains(s.groupBy, column)
	switch {
	case grouped && additive:
		s.groupBy = slices.DeleteFunc(slices.Clone(s.groupBy), func(k string) bool { return k == column })
	case grouped:
		s.groupBy = nil
	case additive:
		s.groupBy = append(slices.Clone(s.groupBy), column)
	default:
		s.groupBy = []string{column}
	}
	s.groupBy = capKeys(s.groupBy, d.StratificationLevels)

	if err := s.restructure("group"); err != nil {
		return err
	}
	s.Layout()
	return nil
}

// SetGroupBy replaces the grouping columns.
func (s *Session) SetGroupBy(columns ...string) error {
	for _, c := range columns {
		if _, ok := s.ds.Columns.Find(c); !ok {
			return &errors.UnknownNameError{Kind: "column", Name: c, Known: s.ds.Columns.Names()}
		}
	}
	s.groupBy = capKeys(columns, s.ruleSet.Descriptor().StratificationLevels)
	if err := s.restructure("group"); err != nil {
		return err
	}
	s.Layout()
	return nil
}

// SetSort sorts rows within their groups by column. An empty column
// restores data order. Rule sets without sort levels ignore the request.
func (s *Session) SetSort(column string) error {
	if s.ruleSet.Descriptor().SortLevels == 0 {
		return nil
	}
	if column != "" {
		if _, ok := s.ds.Columns.Find(column); !ok {
			return &errors.UnknownNameError{Kind: "column", Name: column, Known: s.ds.Columns.Names()}
		}
	}
	s.sortBy = column
	if err := s.restructure("sort"); err != nil {
		return err
	}
	s.Layout()
	return nil
}

// Select changes the selection. Additive mode toggles the row alone;
// otherwise every other row is deselected and the row is toggled. Rule sets that compute heights per node
// are re-evaluated with a dynamic pass.
func (s *Session) Select(dataIndex int, additive bool) error {
	leaf, err := s.leaf(dataIndex)
	if err != nil {
		return err
	}
	was := leaf.Selected()
	if !additive {
		for _, l := range tree.Leaves(s.root) {
			l.SetSelected(false)
		}
	}
	leaf.SetSelected(!was)
	s.refresh()
	return nil
}

// ClearSelection deselects every row.
func (s *Session) ClearSelection() {
	for _, l := range tree.Leaves(s.root) {
		l.SetSelected(false)
	}
	s.refresh()
}

// refresh re-runs the computed attributes after a selection change.
func (s *Session) refresh() {
	if s.dynamic {
		s.Update()
	}
}

// SetAggregation collapses or expands the group at path. The state is kept
// across regrouping for as long as a group with that path exists.
func (s *Session) SetAggregation(path string, agg tree.Aggregation) error {
	n, ok := tree.Find(s.root, path)
	if !ok || n == s.root {
		return &errors.UnknownNameError{Kind: "group", Name: path, Known: s.groupPaths()}
	}
	n.SetAggregation(agg)
	if agg == tree.Aggregated {
		s.collapsed[path] = true
	} else {
		delete(s.collapsed, path)
	}
	s.Layout()
	return nil
}

// ToggleCollapsed flips the group at path between collapsed and expanded.
func (s *Session) ToggleCollapsed(path string) error {
	agg := tree.Aggregated
	if s.collapsed[path] {
		agg = tree.Uniform
	}
	return s.SetAggregation(path, agg)
}

// SetFilter hides the rows pred rejects. A nil predicate shows all rows.
func (s *Session) SetFilter(pred func(table.Row) bool) {
	s.filter = pred
	s.applyFilter()
	s.Layout()
}

// Resize changes the viewport height.
func (s *Session) Resize(height float64) error {
	if err := errors.ValidateHeight("height", height); err != nil {
		return err
	}
	s.height = height
	s.Layout()
	return nil
}

// Reload swaps in a new version of the dataset, keeping the view state
// that still applies: grouping and sorting by columns that still exist,
// selection of rows that still exist, collapsed groups and the filter.
func (s *Session) Reload(ds *dataset.Dataset) error {
	var groupBy []string
	for _, k := range s.groupBy {
		if _, ok := ds.Columns.Find(k); ok {
			groupBy = append(groupBy, k)
		}
	}
	sortBy := s.sortBy
	if _, ok := ds.Columns.Find(sortBy); !ok {
		sortBy = ""
	}
	selected := s.Selected()

	s.ds = ds
	s.groupBy, s.sortBy = groupBy, sortBy
	s.root = table.Build(ds.Rows, s.leafH)
	leaves := tree.Leaves(s.root)
	for _, idx := range selected {
		if idx < len(leaves) {
			leaves[idx].SetSelected(true)
		}
	}
	if err := s.restructure("reload"); err != nil {
		return err
	}
	s.Layout()
	s.logger.Info("reloaded dataset", "path", ds.Path, "rows", len(ds.Rows))
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

// restructure rebuilds the tree shape from the grouping and sort state and
// re-applies collapse and filter state.
func (s *Session) restructure(op string) error {
	start := time.Now()
	err := table.Restratify(s.ds.Columns, s.root, s.groupBy)
	if err == nil && s.sortBy != "" {
		err = table.Reorder(s.ds.Columns, s.root, s.sortBy)
	}
	columns := slices.Clone(s.groupBy)
	if s.sortBy != "" {
		columns = append(columns, s.sortBy)
	}
	observability.Session().OnRestructure(op, columns, time.Since(start), err)
	if err != nil {
		s.logger.Warn("restructure failed", "op", op, "error", err)
		return err
	}

	for path := range s.collapsed {
		if n, ok := tree.Find(s.root, path); ok && n != s.root {
			n.SetAggregation(tree.Aggregated)
		}
	}
	s.applyFilter()
	s.logger.Debug("restructured", "op", op, "group_by", s.groupBy, "sort_by", s.sortBy)
	return nil
}

func (s *Session) applyFilter() {
	for _, l := range tree.FlatLeaves[table.Row](s.root) {
		l.SetFiltered(s.filter != nil && !s.filter(l.Item()))
	}
}

func (s *Session) leaf(dataIndex int) (tree.LeafNode, error) {
	for _, l := range tree.Leaves(s.root) {
		if l.DataIndex() == dataIndex {
			return l, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "row %d out of range [0, %d)", dataIndex, len(s.ds.Rows))
}

func (s *Session) groupPaths() []string {
	var paths []string
	tree.Visit(s.root, func(n *tree.Inner) bool {
		if n != s.root {
			paths = append(paths, tree.PathString(n))
		}
		return true
	}, nil)
	return paths
}

// capKeys returns keys truncated to at most levels entries.
func capKeys(keys []string, levels int) []string {
	if len(keys) > levels {
		keys = keys[:levels]
	}
	return slices.Clone(keys)
}
