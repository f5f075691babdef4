package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/taggle/pkg/dataset"
	"github.com/matzehuels/taggle/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsSetDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	if opts.RuleSet != DefaultRuleSet {
		t.Errorf("RuleSet = %q, want %q", opts.RuleSet, DefaultRuleSet)
	}
	if opts.Height != DefaultHeight {
		t.Errorf("Height = %v, want %v", opts.Height, DefaultHeight)
	}
	if opts.LeafHeight != DefaultLeafHeight {
		t.Errorf("LeafHeight = %v, want %v", opts.LeafHeight, DefaultLeafHeight)
	}
	if opts.Logger == nil {
		t.Error("Logger not set")
	}

	custom := Options{RuleSet: "table", Height: 123}
	custom.SetDefaults()
	if custom.RuleSet != "table" || custom.Height != 123 {
		t.Errorf("SetDefaults overwrote fields: %+v", custom)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"negative height", Options{Height: -5}, true},
		{"negative selection", Options{Selected: []int{1, -1}}, true},
		{"duplicate group", Options{GroupBy: []string{"a", "a"}}, true},
		{"bad format", Options{Formats: []string{"pdf"}}, true},
		{"formats", Options{Formats: []string{"dot", "svg"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Height: 300}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if first.Height != opts.Height || first.RuleSet != opts.RuleSet || first.Logger != opts.Logger {
		t.Errorf("second call changed options: %+v -> %+v", first, opts)
	}
}

func TestApplyView(t *testing.T) {
	view := dataset.View{
		RuleSet:   "table",
		GroupBy:   []string{"continent"},
		SortBy:    "population",
		Height:    250,
		Selected:  []int{2},
		Collapsed: []string{"A"},
	}

	var opts Options
	opts.ApplyView(view)
	want := Options{
		RuleSet:   "table",
		GroupBy:   []string{"continent"},
		SortBy:    "population",
		Height:    250,
		Selected:  []int{2},
		Collapsed: []string{"A"},
	}
	if diff := cmp.Diff(want, opts, cmp.AllowUnexported(Options{})); diff != "" {
		t.Errorf("ApplyView (-want +got):\n%s", diff)
	}

	explicit := Options{RuleSet: "compact", SortBy: "name"}
	explicit.ApplyView(view)
	if explicit.RuleSet != "compact" || explicit.SortBy != "name" {
		t.Errorf("ApplyView overwrote explicit fields: %+v", explicit)
	}
	if explicit.Height != 250 {
		t.Errorf("Height = %v, want 250", explicit.Height)
	}
}
