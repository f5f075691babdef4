package pipeline

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/matzehuels/taggle/pkg/dataset"
	"github.com/matzehuels/taggle/pkg/errors"
	"github.com/matzehuels/taggle/pkg/layout"
	"github.com/matzehuels/taggle/pkg/observability"
	"github.com/matzehuels/taggle/pkg/rule"
	"github.com/matzehuels/taggle/pkg/table"
	"github.com/matzehuels/taggle/pkg/tree"
)

// testDataset returns ten rows: continents A (0,2,3,5,7,8) and B
// (1,4,6,9), sizes S (even) and L (odd), population 10*i.
func testDataset() *dataset.Dataset {
	continents := []string{"A", "B", "A", "A", "B", "A", "B", "A", "A", "B"}
	rows := make([]table.Row, len(continents))
	for i, c := range continents {
		size := "S"
		if i%2 == 1 {
			size = "L"
		}
		rows[i] = table.Row{
			"name":       string(rune('a' + i)),
			"continent":  c,
			"size":       size,
			"population": float64(i * 10),
		}
	}
	return &dataset.Dataset{
		Columns: table.Columns{
			{Name: "name", Type: table.TypeString},
			{Name: "continent", Type: table.TypeCategorical, Categories: []table.Category{{Name: "A"}, {Name: "B"}}},
			{Name: "size", Type: table.TypeCategorical, Categories: []table.Category{{Name: "S"}, {Name: "L"}}},
			{Name: "population", Type: table.TypeReal, Range: []float64{0, 100}},
		},
		Rows:   rows,
		Layout: rule.DefaultMetrics(),
	}
}

type fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

func newTestSession(t fataler, opts Options) *Session {
	t.Helper()
	s, err := NewSession(testDataset(), nil, opts)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func leafHeights(s *Session) []float64 {
	var out []float64
	for _, l := range tree.Leaves(s.Root()) {
		out = append(out, l.Height())
	}
	return out
}

func order(s *Session) []int {
	var out []int
	for _, l := range tree.Leaves(s.Root()) {
		out = append(out, l.DataIndex())
	}
	return out
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestSessionSpaceFilling(t *testing.T) {
	tests := []struct {
		name       string
		height     float64
		want       float64
		violations int
	}{
		{"fits", 200, 20, 0},
		{"too small", 5, 1, 1},
		{"medium", 100, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, Options{Height: tt.height})
			if diff := cmp.Diff(repeat(tt.want, 10), leafHeights(s)); diff != "" {
				t.Errorf("heights (-want +got):\n%s", diff)
			}
			if got := len(s.Violations()); got != tt.violations {
				t.Errorf("violations = %v, want %d", s.Violations(), tt.violations)
			}
		})
	}
}

func TestSessionTooSmallMessage(t *testing.T) {
	s := newTestSession(t, Options{Height: 5})
	if got := s.Violations()[rule.ViolationSpaceFilling]; got != rule.MsgLeafTooSmall {
		t.Errorf("violation = %q, want %q", got, rule.MsgLeafTooSmall)
	}
}

func TestSessionGrouped(t *testing.T) {
	s := newTestSession(t, Options{Height: 200, GroupBy: []string{"continent"}})

	if got := len(s.Root().Children()); got != 2 {
		t.Fatalf("groups = %d, want 2", got)
	}
	for i, h := range leafHeights(s) {
		if math.Abs(h-19.2) > 1e-9 {
			t.Errorf("leaf %d height = %v, want 19.2", i, h)
		}
	}
	if ext := layout.Extent(s.Rows(), s.Dataset().Layout); math.Abs(ext-200) > 1e-9 {
		t.Errorf("extent = %v, want 200", ext)
	}
}

func TestSessionCollapsed(t *testing.T) {
	s := newTestSession(t, Options{
		Height:    200,
		GroupBy:   []string{"continent"},
		Collapsed: []string{"A"},
	})

	rows := s.Rows()
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if rows[0].Node.Kind() != tree.KindInner || rows[0].Height() != 40 {
		t.Errorf("first row = %s %.1f, want collapsed group of 40", rows[0].Node.Kind(), rows[0].Height())
	}
	for _, r := range rows[1:] {
		if r.Height() != 20 {
			t.Errorf("leaf row height = %v, want 20", r.Height())
		}
	}
	if got := s.Violations()[rule.ViolationSpaceFilling]; got != rule.MsgLeafTooBig {
		t.Errorf("violation = %q, want %q", got, rule.MsgLeafTooBig)
	}
}

func TestSessionSelect(t *testing.T) {
	s := newTestSession(t, Options{Height: 110})

	steps := []struct {
		index    int
		additive bool
		selected []int
		other    float64
	}{
		{3, false, []int{3}, 10},
		{5, true, []int{3, 5}, 8.75},
		{5, true, []int{3}, 10},
		{3, false, nil, 11},
	}
	for _, st := range steps {
		if err := s.Select(st.index, st.additive); err != nil {
			t.Fatalf("Select(%d, %v): %v", st.index, st.additive, err)
		}
		if diff := cmp.Diff(st.selected, s.Selected()); diff != "" {
			t.Fatalf("Select(%d, %v) selection (-want +got):\n%s", st.index, st.additive, diff)
		}
		for _, l := range tree.Leaves(s.Root()) {
			want := st.other
			if l.Selected() {
				want = 20
			}
			if l.Height() != want {
				t.Errorf("after Select(%d, %v): leaf %d height = %v, want %v", st.index, st.additive, l.DataIndex(), l.Height(), want)
			}
		}
	}

	if err := s.Select(10, false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Select(10) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}

	_ = s.Select(1, false)
	s.ClearSelection()
	if len(s.Selected()) != 0 {
		t.Errorf("ClearSelection left %v", s.Selected())
	}
}

func TestSessionToggleGroup(t *testing.T) {
	s := newTestSession(t, Options{})

	steps := []struct {
		column   string
		additive bool
		groupBy  []string
		sortBy   string
	}{
		{"continent", false, []string{"continent"}, ""},
		{"size", true, []string{"continent", "size"}, ""},
		{"continent", true, []string{"size"}, ""},
		{"size", false, nil, ""},
		{"population", false, nil, "population"},
		{"name", true, nil, "name"},
	}
	for _, st := range steps {
		if err := s.ToggleGroup(st.column, st.additive); err != nil {
			t.Fatalf("ToggleGroup(%q, %v): %v", st.column, st.additive, err)
		}
		if diff := cmp.Diff(st.groupBy, s.GroupKeys()); diff != "" {
			t.Errorf("ToggleGroup(%q, %v) group keys (-want +got):\n%s", st.column, st.additive, diff)
		}
		if s.SortKey() != st.sortBy {
			t.Errorf("ToggleGroup(%q, %v) sort key = %q, want %q", st.column, st.additive, s.SortKey(), st.sortBy)
		}
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order(s)); diff != "" {
		t.Errorf("order by name (-want +got):\n%s", diff)
	}

	if err := s.ToggleGroup("population", false); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, order(s)); diff != "" {
		t.Errorf("order by population (-want +got):\n%s", diff)
	}

	err := s.ToggleGroup("missing", false)
	if !errors.Is(err, errors.ErrCodeUnknownColumn) {
		t.Errorf("ToggleGroup(missing) error = %v, want %s", err, errors.ErrCodeUnknownColumn)
	}
}

func TestSessionToggleGroupFlatRuleSet(t *testing.T) {
	s := newTestSession(t, Options{RuleSet: rule.NameTable, GroupBy: []string{"continent"}})
	if len(s.GroupKeys()) != 0 {
		t.Fatalf("flat rule set kept group keys %v", s.GroupKeys())
	}

	if err := s.ToggleGroup("continent", false); err != nil {
		t.Fatal(err)
	}
	if len(s.GroupKeys()) != 0 || s.SortKey() != "continent" {
		t.Errorf("group keys %v, sort key %q; want none and continent", s.GroupKeys(), s.SortKey())
	}
	if diff := cmp.Diff([]int{0, 2, 3, 5, 7, 8, 1, 4, 6, 9}, order(s)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

func TestSessionSetGroupBy(t *testing.T) {
	s := newTestSession(t, Options{})
	if err := s.SetGroupBy("continent", "size"); err != nil {
		t.Fatal(err)
	}
	var paths []string
	tree.Visit(s.Root(), func(n *tree.Inner) bool {
		if tree.Level(n) == 2 {
			paths = append(paths, tree.PathString(n))
		}
		return true
	}, nil)
	if diff := cmp.Diff([]string{"A.S", "A.L", "B.L", "B.S"}, paths); diff != "" {
		t.Errorf("groups (-want +got):\n%s", diff)
	}

	if err := s.SetGroupBy("nope"); !errors.Is(err, errors.ErrCodeUnknownColumn) {
		t.Errorf("SetGroupBy(nope) error = %v", err)
	}
	if diff := cmp.Diff([]string{"continent", "size"}, s.GroupKeys()); diff != "" {
		t.Errorf("failed SetGroupBy changed keys (-want +got):\n%s", diff)
	}
}

func TestSessionSetRuleSet(t *testing.T) {
	s := newTestSession(t, Options{GroupBy: []string{"continent"}, SortBy: "population"})

	if err := s.SetRuleSet(rule.NameTable); err != nil {
		t.Fatal(err)
	}
	if len(s.GroupKeys()) != 0 || len(s.Root().Children()) != 10 {
		t.Fatalf("table rule set did not flatten: keys %v", s.GroupKeys())
	}
	if s.SortKey() != "population" {
		t.Errorf("sort key = %q, want population", s.SortKey())
	}
	if diff := cmp.Diff([]int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, order(s)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(repeat(20, 10), leafHeights(s)); diff != "" {
		t.Errorf("heights (-want +got):\n%s", diff)
	}

	if err := s.SetRuleSet(rule.NameCompact); err != nil {
		t.Fatal(err)
	}
	for _, l := range tree.Leaves(s.Root()) {
		if l.Height() != 2 || l.VisType() != tree.VisCompact {
			t.Errorf("compact leaf %d = %v/%s", l.DataIndex(), l.Height(), l.VisType())
		}
	}

	err := s.SetRuleSet("nope")
	if !errors.Is(err, errors.ErrCodeUnknownRuleSet) {
		t.Errorf("SetRuleSet(nope) error = %v, want %s", err, errors.ErrCodeUnknownRuleSet)
	}
	if s.RuleSet().Descriptor().Name != rule.NameCompact {
		t.Errorf("rule set changed to %q on error", s.RuleSet().Descriptor().Name)
	}
}

func TestSessionTableLens(t *testing.T) {
	s := newTestSession(t, Options{RuleSet: rule.NameTableLens})
	if err := s.Select(0, false); err != nil {
		t.Fatal(err)
	}
	leaves := tree.Leaves(s.Root())
	for i, l := range leaves {
		want := rule.TableLensHeight(i, true)
		if l.Height() != want {
			t.Errorf("leaf %d height = %v, want %v", i, l.Height(), want)
		}
	}
	if leaves[9].VisType() != tree.VisCompact {
		t.Errorf("far leaf vis = %s, want compact", leaves[9].VisType())
	}
}

func TestSessionAggregation(t *testing.T) {
	s := newTestSession(t, Options{GroupBy: []string{"continent"}})

	if err := s.SetAggregation("A", tree.Aggregated); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSort("population"); err != nil {
		t.Fatal(err)
	}
	a, ok := tree.Find(s.Root(), "A")
	if !ok || a.Aggregation() != tree.Aggregated {
		t.Fatalf("group A not collapsed after resort")
	}
	if a.Height() != s.Dataset().Layout.DefaultAggregatedHeight {
		t.Errorf("collapsed height = %v", a.Height())
	}

	if err := s.ToggleCollapsed("A"); err != nil {
		t.Fatal(err)
	}
	a, _ = tree.Find(s.Root(), "A")
	if a.Aggregation() != tree.Uniform {
		t.Errorf("ToggleCollapsed did not expand A: %s", a.Aggregation())
	}

	for _, path := range []string{"Z", ""} {
		err := s.SetAggregation(path, tree.Aggregated)
		if !errors.Is(err, errors.ErrCodeUnknownGroup) {
			t.Errorf("SetAggregation(%q) error = %v, want %s", path, err, errors.ErrCodeUnknownGroup)
		}
	}
}

func TestSessionFilter(t *testing.T) {
	s := newTestSession(t, Options{Height: 200})
	s.SetFilter(func(r table.Row) bool { return r.Number("population") >= 50 })

	var names []string
	for _, r := range s.Export() {
		names = append(names, r.Text("name"))
	}
	if diff := cmp.Diff([]string{"f", "g", "h", "i", "j"}, names); diff != "" {
		t.Errorf("export (-want +got):\n%s", diff)
	}
	if len(s.Rows()) != 5 {
		t.Errorf("visible rows = %d, want 5", len(s.Rows()))
	}
	if s.Violations()[rule.ViolationSpaceFilling] != rule.MsgLeafTooBig {
		t.Errorf("violations = %v", s.Violations())
	}

	if err := s.SetGroupBy("continent"); err != nil {
		t.Fatal(err)
	}
	if len(s.Export()) != 5 {
		t.Errorf("filter lost on regroup: %d rows", len(s.Export()))
	}

	s.SetFilter(nil)
	if len(s.Export()) != 10 {
		t.Errorf("export after clearing filter = %d rows, want 10", len(s.Export()))
	}
}

func TestSessionResize(t *testing.T) {
	s := newTestSession(t, Options{Height: 200})
	if err := s.Resize(100); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(repeat(10, 10), leafHeights(s)); diff != "" {
		t.Errorf("heights (-want +got):\n%s", diff)
	}
	if err := s.Resize(0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Resize(0) error = %v", err)
	}
	if s.Height() != 100 {
		t.Errorf("height = %v after failed resize", s.Height())
	}
}

func TestSessionReload(t *testing.T) {
	s := newTestSession(t, Options{
		GroupBy:  []string{"continent"},
		SortBy:   "population",
		Selected: []int{2, 7},
	})

	next := testDataset()
	next.Rows = next.Rows[:5]
	next.Columns = next.Columns[:3]
	if err := s.Reload(next); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"continent"}, s.GroupKeys()); diff != "" {
		t.Errorf("group keys (-want +got):\n%s", diff)
	}
	if s.SortKey() != "" {
		t.Errorf("sort key = %q, want none", s.SortKey())
	}
	if diff := cmp.Diff([]int{2}, s.Selected()); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}
	if got := s.Root().FlatLeavesLength(); got != 5 {
		t.Errorf("leaves = %d, want 5", got)
	}
}

func TestNewSessionErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown rule set", Options{RuleSet: "nope"}, errors.ErrCodeUnknownRuleSet},
		{"selection out of range", Options{Selected: []int{10}}, errors.ErrCodeInvalidInput},
		{"unknown group column", Options{GroupBy: []string{"missing"}}, errors.ErrCodeUnknownColumn},
		{"unknown sort column", Options{SortBy: "missing"}, errors.ErrCodeUnknownColumn},
		{"negative height", Options{Height: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSession(testDataset(), nil, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("NewSession() error = %v, want %s", err, tt.code)
			}
		})
	}
}

type recordingSessionHooks struct {
	observability.NoopSessionHooks
	ops        []string
	passes     []bool
	violations int
}

func (h *recordingSessionHooks) OnRestructure(op string, _ []string, _ time.Duration, _ error) {
	h.ops = append(h.ops, op)
}

func (h *recordingSessionHooks) OnPass(_ string, dynamic bool, _ time.Duration) {
	h.passes = append(h.passes, dynamic)
}

func (h *recordingSessionHooks) OnViolation(string, string) { h.violations++ }

func TestSessionHooks(t *testing.T) {
	rec := &recordingSessionHooks{}
	observability.SetSessionHooks(rec)
	defer observability.Reset()

	s := newTestSession(t, Options{Height: 5})
	if err := s.Select(0, false); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSort("name"); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"init", "sort"}, rec.ops); diff != "" {
		t.Errorf("restructure ops (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{false, true, false}, rec.passes); diff != "" {
		t.Errorf("passes (-want +got):\n%s", diff)
	}
	if rec.violations != 3 {
		t.Errorf("violations = %d, want 3", rec.violations)
	}
}

func TestSessionSelectionPinnedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		height := rapid.Float64Range(1, 1000).Draw(t, "height")
		name := rapid.SampledFrom([]string{
			rule.NameSpacefillingNotProportional,
			rule.NameSpacefillingProportional,
			rule.NameNotSpacefillingProportional,
		}).Draw(t, "ruleSet")
		s := newTestSession(t, Options{Height: height, RuleSet: name})

		picks := rapid.SliceOfN(rapid.IntRange(0, 9), 0, 5).Draw(t, "picks")
		for _, idx := range picks {
			if err := s.Select(idx, true); err != nil {
				t.Fatal(err)
			}
		}
		m := s.Dataset().Layout
		for _, l := range tree.Leaves(s.Root()) {
			h := l.Height()
			if l.Selected() && h != m.DefaultLeafHeight {
				t.Fatalf("selected leaf %d height = %v", l.DataIndex(), h)
			}
			if h < m.MinLeafHeight || h > m.MaxLeafHeight {
				t.Fatalf("leaf %d height %v outside [%v, %v]", l.DataIndex(), h, m.MinLeafHeight, m.MaxLeafHeight)
			}
		}
	})
}

func ExampleSession() {
	ds := &dataset.Dataset{
		Columns: table.Columns{
			{Name: "name", Type: table.TypeString},
			{Name: "team", Type: table.TypeCategorical},
		},
		Rows: []table.Row{
			{"name": "a", "team": "x"},
			{"name": "b", "team": "y"},
			{"name": "c", "team": "x"},
			{"name": "d", "team": "y"},
		},
		Layout: rule.DefaultMetrics(),
	}
	s, err := NewSession(ds, nil, Options{Height: 60, GroupBy: []string{"team"}})
	if err != nil {
		fmt.Println(err)
		return
	}
	show := func() {
		for _, r := range s.Rows() {
			leaf := r.Node.(tree.LeafNode)
			fmt.Printf("%s/%s %.0f\n", leaf.Parent().Name(), leaf.Payload().(table.Row).Text("name"), r.Height())
		}
	}
	show()
	_ = s.Select(2, false)
	show()
	// Output:
	// x/a 13
	// x/c 13
	// y/b 13
	// y/d 13
	// x/a 11
	// x/c 20
	// y/b 11
	// y/d 11
}
