// Package dataset loads tables from TOML or YAML files.
//
// A dataset file declares its columns, its rows, and optionally overrides
// of the layout metrics and a default view:
//
//	[[columns]]
//	name = "Continent"
//	type = "categorical"
//	categories = [{ name = "Asia", color = "#e41a1c" }]
//
//	[[columns]]
//	name = "Population"
//	type = "int"
//	range = [0, 1500000000]
//
//	[[rows]]
//	Continent = "Asia"
//	Population = 1409517397
//
//	[layout]
//	group_spacing = 6
//
//	[view]
//	rule_set = "SpacefillingProportional"
//	group_by = ["Continent"]
//
// The format is chosen by file extension. Numeric columns without a range
// get one inferred from their values.
package dataset

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/taggle/pkg/errors"
	"github.com/matzehuels/taggle/pkg/rule"
	"github.com/matzehuels/taggle/pkg/table"
)

// ErrUnsupportedFormat is returned for files that are neither TOML nor YAML.
var ErrUnsupportedFormat = stderrors.New("unsupported dataset format")

// Format is a dataset file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// View holds the initial interaction state a dataset suggests.
type View struct {
	RuleSet   string   `toml:"rule_set" yaml:"rule_set"`
	GroupBy   []string `toml:"group_by" yaml:"group_by"`
	SortBy    string   `toml:"sort_by" yaml:"sort_by"`
	Height    float64  `toml:"height" yaml:"height"`
	Selected  []int    `toml:"selected" yaml:"selected"`
	Collapsed []string `toml:"collapsed" yaml:"collapsed"`
}

// Dataset is a decoded dataset file.
type Dataset struct {
	Columns table.Columns `toml:"columns" yaml:"columns"`
	Rows    []table.Row   `toml:"rows" yaml:"rows"`
	Layout  rule.Metrics  `toml:"layout" yaml:"layout"`
	View    View          `toml:"view" yaml:"view"`

	// Path is the file the dataset was loaded from, if any.
	Path string `toml:"-" yaml:"-"`
}

// FormatOf returns the format for a file name.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads and validates the dataset at path.
func Load(path string) (*Dataset, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "load %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "load %s", path)
		}
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	ds, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	ds.Path = path
	return ds, nil
}

// Decode parses and validates a dataset. Layout fields the data leaves out
// keep their defaults.
func Decode(data []byte, format Format) (*Dataset, error) {
	ds := &Dataset{Layout: rule.DefaultMetrics()}
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), ds)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(ds); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	table.InferRanges(ds.Columns, ds.Rows)
	return ds, nil
}

// Validate checks the columns, the layout metrics and that every view
// reference names a declared column.
func (ds *Dataset) Validate() error {
	if len(ds.Columns) == 0 {
		return errors.New(errors.ErrCodeInvalidDataset, "no columns declared")
	}
	if err := ds.Columns.Validate(); err != nil {
		return err
	}
	if err := ds.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDataset, err, "layout")
	}
	refs := append([]string(nil), ds.View.GroupBy...)
	if ds.View.SortBy != "" {
		refs = append(refs, ds.View.SortBy)
	}
	for _, name := range refs {
		if _, ok := ds.Columns.Find(name); !ok {
			return &errors.UnknownNameError{Kind: "column", Name: name, Known: ds.Columns.Names()}
		}
	}
	for _, idx := range ds.View.Selected {
		if idx < 0 || idx >= len(ds.Rows) {
			return errors.New(errors.ErrCodeInvalidDataset, "selected row %d out of range [0, %d)", idx, len(ds.Rows))
		}
	}
	if ds.View.Height < 0 {
		return errors.New(errors.ErrCodeInvalidDataset, "view height must not be negative")
	}
	return nil
}
