package tree

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

const tolerance = 1e-9

func letters(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + i))
	}
	return out
}

func dataIndices(nodes []Node) []int {
	var out []int
	for _, n := range nodes {
		if l, ok := n.(LeafNode); ok {
			out = append(out, l.DataIndex())
		}
	}
	return out
}

func TestFromSlice(t *testing.T) {
	root := FromSlice(letters(4), 12)

	if root.Name() != "" {
		t.Errorf("root name = %q, want empty", root.Name())
	}
	if got := len(root.Children()); got != 4 {
		t.Fatalf("children = %d, want 4", got)
	}
	for i, c := range root.Children() {
		l := c.(*Leaf[string])
		if l.DataIndex() != i {
			t.Errorf("child %d: DataIndex = %d", i, l.DataIndex())
		}
		if l.Parent() != root {
			t.Errorf("child %d: parent not root", i)
		}
		if l.Height() != 12 {
			t.Errorf("child %d: height = %v, want 12", i, l.Height())
		}
		if l.Item() != letters(4)[i] {
			t.Errorf("child %d: item = %q", i, l.Item())
		}
	}
	if root.Height() != 48 {
		t.Errorf("root height = %v, want 48", root.Height())
	}
}

func TestInnerSetHeight(t *testing.T) {
	tests := []struct {
		name        string
		aggregation Aggregation
		assign      float64
		wantRoot    float64
		wantLeaves  []float64
	}{
		{
			name:        "uniform splits evenly",
			aggregation: Uniform,
			assign:      90,
			wantRoot:    90,
			wantLeaves:  []float64{30, 30, 30},
		},
		{
			name:        "aggregated keeps children",
			aggregation: Aggregated,
			assign:      7,
			wantRoot:    7,
			wantLeaves:  []float64{20, 20, 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := FromSlice([]int{1, 2, 3}, 20)
			root.SetAggregation(tt.aggregation)
			root.SetHeight(tt.assign)

			if got := root.Height(); math.Abs(got-tt.wantRoot) > tolerance {
				t.Errorf("Height() = %v, want %v", got, tt.wantRoot)
			}
			for i, c := range root.Children() {
				if got := c.Height(); math.Abs(got-tt.wantLeaves[i]) > tolerance {
					t.Errorf("leaf %d height = %v, want %v", i, got, tt.wantLeaves[i])
				}
			}
		})
	}
}

func TestNonUniformSetHeight(t *testing.T) {
	root := FromSlice([]string{"x", "x", "x", "y"}, 20)
	GroupBy(root, FlatLeaves[string](root), func(s string) []string { return []string{s} })
	root.SetAggregation(NonUniform)

	root.SetHeight(100)

	x := root.Children()[0].(*Inner)
	y := root.Children()[1].(*Inner)
	if x.Aggregation() != Aggregated || y.Aggregation() != Aggregated {
		t.Fatal("inner children should be collapsed by a non-uniform assignment")
	}
	if math.Abs(x.Height()-75) > tolerance {
		t.Errorf("x height = %v, want 75", x.Height())
	}
	if math.Abs(y.Height()-25) > tolerance {
		t.Errorf("y height = %v, want 25", y.Height())
	}
	if math.Abs(root.Height()-100) > tolerance {
		t.Errorf("root height = %v, want 100", root.Height())
	}
}

func TestNonUniformAllFiltered(t *testing.T) {
	root := FromSlice([]int{1, 2}, 20)
	for _, l := range Leaves(root) {
		l.SetFiltered(true)
	}
	root.SetAggregation(NonUniform)
	root.SetHeight(10)

	for _, c := range root.Children() {
		if c.Height() != 5 {
			t.Errorf("height = %v, want even split 5", c.Height())
		}
	}
}

func TestEmptyInnerSetHeight(t *testing.T) {
	n := NewInner("empty")
	n.SetHeight(50)
	if n.Height() != 0 {
		t.Errorf("Height() = %v, want 0", n.Height())
	}
	if !n.Filtered() {
		t.Error("empty group should be filtered")
	}
}

func TestAggregatedHeightIgnoresChildren(t *testing.T) {
	root := FromSlice([]int{1, 2, 3}, 20)
	root.SetAggregation(Aggregated)
	root.SetAggregatedHeight(33)
	for _, c := range root.Children() {
		c.SetHeight(1000)
	}
	if root.Height() != 33 {
		t.Errorf("Height() = %v, want AggregatedHeight 33", root.Height())
	}
}

func TestFiltering(t *testing.T) {
	root := FromSlice([]int{1, 2}, 20)
	leaves := Leaves(root)

	if leaves[0].DOI() != DefaultDOI {
		t.Errorf("DOI = %v, want %v", leaves[0].DOI(), DefaultDOI)
	}
	leaves[0].SetFiltered(true)
	if !leaves[0].Filtered() || leaves[0].DOI() != 0 {
		t.Error("SetFiltered(true) should zero the doi")
	}
	if root.Filtered() {
		t.Error("root with one visible leaf should not be filtered")
	}
	if got := root.FlatLeavesLength(); got != 1 {
		t.Errorf("FlatLeavesLength = %d, want 1", got)
	}
	leaves[1].SetDOI(0)
	if !root.Filtered() {
		t.Error("root should be filtered when every child is")
	}
	leaves[0].SetFiltered(false)
	if leaves[0].DOI() != DefaultDOI {
		t.Errorf("SetFiltered(false) DOI = %v", leaves[0].DOI())
	}
}

func TestSelectedIsTransitive(t *testing.T) {
	root := FromSlice([]string{"a", "b", "a"}, 20)
	GroupBy(root, FlatLeaves[string](root), func(s string) []string { return []string{s} })

	if root.Selected() {
		t.Fatal("nothing selected yet")
	}
	Leaves(root)[2].SetSelected(true)
	a := root.Children()[0].(*Inner)
	b := root.Children()[1].(*Inner)
	if !a.Selected() || !root.Selected() {
		t.Error("ancestors of a selected leaf should report selected")
	}
	if b.Selected() {
		t.Error("sibling group should not be selected")
	}
}

func TestNavigation(t *testing.T) {
	root := FromSlice([]string{"a/x", "a/y", "b/x"}, 20)
	GroupBy(root, FlatLeaves[string](root), func(s string) []string {
		return strings.Split(s, "/")
	})

	leaf := Leaves(root)[1]
	if got := Level(leaf); got != 3 {
		t.Errorf("Level = %d, want 3", got)
	}
	if got := Index(leaf); got != 0 {
		t.Errorf("Index = %d, want 0", got)
	}
	if got := Index(root); got != -1 {
		t.Errorf("Index(root) = %d, want -1", got)
	}
	if got := PathString(leaf); got != "a.y.a/y" {
		t.Errorf("PathString = %q", got)
	}
	if got := len(Parents(leaf)); got != 3 {
		t.Errorf("Parents = %d, want 3", got)
	}
	a := root.Children()[0]
	if !IsFirstChild(a) || IsLastChild(a) {
		t.Error("a should be first but not last child")
	}
	if !IsFirstChild(root) || !IsLastChild(root) {
		t.Error("root is both first and last child")
	}
}

func TestNearestSibling(t *testing.T) {
	root := FromSlice(letters(6), 20)
	leaves := Leaves(root)
	leaves[4].SetSelected(true)
	selected := func(n Node) bool { return n.Selected() }

	tests := []struct {
		index  int
		want   int
		wantOK bool
	}{
		{index: 4, want: 0, wantOK: true},
		{index: 3, want: 1, wantOK: true},
		{index: 5, want: 1, wantOK: true},
		{index: 0, want: 4, wantOK: true},
	}
	for _, tt := range tests {
		got, ok := NearestSibling(leaves[tt.index], selected)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NearestSibling(%d) = (%d, %v), want (%d, %v)", tt.index, got, ok, tt.want, tt.wantOK)
		}
	}

	leaves[4].SetSelected(false)
	if _, ok := NearestSibling(leaves[0], selected); ok {
		t.Error("no selection should report no sibling")
	}
	if _, ok := NearestSibling(root, selected); ok {
		t.Error("root has no siblings")
	}
}

func TestSiblingDistances(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(t, "n")
		root := FromSlice(make([]int, n), 20)
		for _, l := range Leaves(root) {
			l.SetSelected(rapid.IntRange(0, 9).Draw(t, "selected") == 0)
		}
		selected := func(n Node) bool { return n.Selected() }

		dist := SiblingDistances(root, selected)
		for i, c := range root.Children() {
			want, ok := NearestSibling(c, selected)
			if !ok {
				want = -1
			}
			if dist[i] != want {
				t.Fatalf("distance of %d = %d, want %d", i, dist[i], want)
			}
		}
	})
}

func TestGroupByKeepsLeafIdentity(t *testing.T) {
	rows := []string{"b/1", "a/1", "b/2", "a/1", "c/"}
	root := FromSlice(rows, 20)
	before := FlatLeaves[string](root)

	GroupBy(root, before, func(s string) []string {
		parts := strings.Split(s, "/")
		if parts[1] == "" {
			return nil
		}
		return parts
	})

	var names []string
	for _, c := range root.Children() {
		names = append(names, c.String())
	}
	if diff := cmp.Diff([]string{"b", "a", "c/"}, names); diff != "" {
		t.Errorf("top-level order mismatch (-want +got):\n%s", diff)
	}

	after := FlatLeaves[string](root)
	if len(after) != len(before) {
		t.Fatalf("leaf count changed: %d -> %d", len(before), len(after))
	}
	seen := make(map[*Leaf[string]]bool)
	for _, l := range before {
		seen[l] = true
	}
	for _, l := range after {
		if !seen[l] {
			t.Errorf("leaf %v was recreated", l)
		}
	}

	b := root.Children()[0].(*Inner)
	if got := len(b.Children()); got != 2 {
		t.Errorf("group b sub-groups = %d, want 2", got)
	}
	for _, l := range after {
		if l.Parent() == nil || !containsNode(l.Parent().Children(), l) {
			t.Errorf("leaf %v has a stale parent", l)
		}
	}
}

func containsNode(nodes []Node, n Node) bool {
	for _, c := range nodes {
		if c == n {
			return true
		}
	}
	return false
}

func TestFlatten(t *testing.T) {
	root := FromSlice(letters(5), 20)
	orig := dataIndices(root.Children())
	GroupBy(root, FlatLeaves[string](root), func(s string) []string {
		if s < "c" {
			return []string{"low"}
		}
		return []string{"high"}
	})
	root.Flatten()

	if diff := cmp.Diff(orig, dataIndices(root.Children())); diff != "" {
		t.Errorf("flatten order mismatch (-want +got):\n%s", diff)
	}
	for _, c := range root.Children() {
		if c.Parent() != root {
			t.Error("flattened leaf should be reparented to root")
		}
	}
}

func TestSort(t *testing.T) {
	root := FromSlice([]string{"b", "ä", "a", "z"}, 20)
	Sort(root, strings.Compare)
	var got []string
	for _, l := range FlatLeaves[string](root) {
		got = append(got, l.Item())
	}
	if diff := cmp.Diff([]string{"a", "b", "z", "ä"}, got); diff != "" {
		t.Errorf("leaf order mismatch (-want +got):\n%s", diff)
	}

	grouped := FromSlice([]string{"x", "Écrit", "b", "eau"}, 20)
	GroupBy(grouped, FlatLeaves[string](grouped), func(s string) []string {
		if s == "x" {
			return nil
		}
		return []string{s}
	})
	Sort(grouped, strings.Compare)
	var order []string
	for _, c := range grouped.Children() {
		order = append(order, c.String())
	}
	if diff := cmp.Diff([]string{"b", "eau", "Écrit", "x"}, order); diff != "" {
		t.Errorf("group order mismatch (-want +got):\n%s", diff)
	}
}

func TestFlat(t *testing.T) {
	root := FromSlice([]string{"a", "b", "a", "c"}, 20)
	GroupBy(root, FlatLeaves[string](root), func(s string) []string { return []string{s} })
	a := root.Children()[0].(*Inner)
	c := root.Children()[2].(*Inner)
	a.SetAggregation(Aggregated)
	Leaves(c)[0].SetFiltered(true)

	flat := Flat(root)
	if len(flat) != 2 {
		t.Fatalf("Flat() = %d rows, want 2", len(flat))
	}
	if flat[0] != Node(a) {
		t.Error("first visible row should be the collapsed group a")
	}
	if l, ok := flat[1].(LeafNode); !ok || l.DataIndex() != 1 {
		t.Error("second visible row should be leaf b")
	}
	if got := len(root.FlatChildren()); got != 2 {
		t.Errorf("FlatChildren = %d, want 2", got)
	}
	if got := len(Walk(root)); got != 8 {
		t.Errorf("Walk = %d nodes, want 8", got)
	}
}

func TestFlatRows(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := NewInner("")
		idx := 0
		for g := rapid.IntRange(1, 6).Draw(t, "groups"); g > 0; g-- {
			if rapid.Bool().Draw(t, "leaf") {
				root.AppendChild(NewLeaf(idx, idx))
				idx++
				continue
			}
			inner := NewInner("g")
			for k := rapid.IntRange(0, 5).Draw(t, "size"); k > 0; k-- {
				inner.AppendChild(NewLeaf(idx, idx))
				idx++
			}
			if rapid.IntRange(0, 3).Draw(t, "collapsed") == 0 {
				inner.SetAggregation(Aggregated)
			}
			root.AppendChild(inner)
		}
		for _, l := range Leaves(root) {
			l.SetFiltered(rapid.IntRange(0, 3).Draw(t, "filtered") == 0)
		}

		rows := FlatRows(root)
		flat := Flat(root)
		if len(rows) != len(flat) {
			t.Fatalf("FlatRows = %d rows, Flat = %d", len(rows), len(flat))
		}
		for i, r := range rows {
			if r.Node != flat[i] {
				t.Fatalf("row %d differs from Flat", i)
			}
			if want := EndsGroup(r.Node); r.EndsGroup != want {
				t.Fatalf("row %d EndsGroup = %v, want %v", i, r.EndsGroup, want)
			}
		}
	})
}

func TestFlatRowsSingleLargeGroup(t *testing.T) {
	const n = 50000
	root := FromSlice(make([]int, n), 20)
	GroupBy(root, FlatLeaves[int](root), func(int) []string { return []string{"all"} })
	leaves := Leaves(root)
	leaves[n-1].SetFiltered(true)

	rows := FlatRows(root)
	if len(rows) != n-1 {
		t.Fatalf("FlatRows = %d rows, want %d", len(rows), n-1)
	}
	ends := 0
	for _, r := range rows {
		if r.EndsGroup {
			ends++
		}
	}
	if ends != 1 || !rows[n-2].EndsGroup {
		t.Errorf("group ends = %d, last visible ends group = %v; want exactly the last", ends, rows[n-2].EndsGroup)
	}
}

func BenchmarkFlatRows(b *testing.B) {
	root := FromSlice(make([]int, 10000), 20)
	GroupBy(root, FlatLeaves[int](root), func(int) []string { return []string{"all"} })
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FlatRows(root)
	}
}

func TestFind(t *testing.T) {
	root := FromSlice([]string{"a/x", "b/y"}, 20)
	GroupBy(root, FlatLeaves[string](root), func(s string) []string { return strings.Split(s, "/") })

	n, ok := Find(root, "b.y")
	if !ok || n.Name() != "y" {
		t.Fatalf("Find(b.y) = %v, %v", n, ok)
	}
	if n, ok := Find(root, ""); !ok || n != root {
		t.Error("empty path should find the root")
	}
	if _, ok := Find(root, "missing"); ok {
		t.Error("unknown path should not be found")
	}
}

func TestUniformHeightConservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := NewInner("")
		groups := rapid.IntRange(1, 6).Draw(t, "groups")
		idx := 0
		for g := 0; g < groups; g++ {
			if rapid.Bool().Draw(t, "leaf") {
				root.AppendChild(NewLeaf(idx, idx))
				idx++
				continue
			}
			inner := NewInner("g")
			for k := rapid.IntRange(1, 5).Draw(t, "size"); k > 0; k-- {
				inner.AppendChild(NewLeaf(idx, idx))
				idx++
			}
			root.AppendChild(inner)
		}
		v := rapid.Float64Range(0, 10000).Draw(t, "height")

		root.SetHeight(v)

		var sum float64
		for _, c := range root.Children() {
			sum += c.Height()
		}
		if math.Abs(sum-v) > 1e-6 {
			t.Fatalf("children sum = %v, want %v", sum, v)
		}
	})
}

func TestAggregatedInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 10).Draw(t, "n")
		root := FromSlice(make([]int, n), 20)
		root.SetAggregation(Aggregated)
		h := rapid.Float64Range(0, 500).Draw(t, "aggregated")
		root.SetAggregatedHeight(h)
		for _, c := range root.Children() {
			c.SetHeight(rapid.Float64Range(0, 100).Draw(t, "child"))
		}
		if root.Height() != h {
			t.Fatalf("Height() = %v, want %v", root.Height(), h)
		}
	})
}
