package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taggle/pkg/dataset"
	"github.com/matzehuels/taggle/pkg/layout"
	"github.com/matzehuels/taggle/pkg/observability"
	"github.com/matzehuels/taggle/pkg/rule"
)

// Runner executes batch layouts. It is stateless apart from its registry
// and logger, so one Runner may serve several goroutines as long as each
// works on its own dataset.
type Runner struct {
	// Registry resolves rule set names. Nil builds the built-in catalog
	// from each dataset's layout metrics.
	Registry *rule.Registry
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil logger uses the default logger.
func NewRunner(registry *rule.Registry, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Registry: registry,
		Logger:   logger,
	}
}

// Load reads a dataset file.
func (r *Runner) Load(ctx context.Context, path string) (*dataset.Dataset, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	ds, err := dataset.Load(path)
	rows := 0
	if ds != nil {
		rows = len(ds.Rows)
	}
	hooks.OnLoadComplete(ctx, path, rows, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("loaded dataset",
		"path", path,
		"columns", len(ds.Columns),
		"rows", rows,
		"duration", time.Since(start))
	return ds, nil
}

// NewSession starts an interactive session on ds. Fields of opts left
// empty are taken from the dataset's view.
func (r *Runner) NewSession(ds *dataset.Dataset, opts Options) (*Session, error) {
	opts.ApplyView(ds.View)
	r.applyLogger(&opts)
	return NewSession(ds, r.Registry, opts)
}

// Execute builds, lays out and renders ds in one pass.
func (r *Runner) Execute(ctx context.Context, ds *dataset.Dataset, opts Options) (*Result, error) {
	opts.ApplyView(ds.View)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	opts.Logger.Debug("execute", "options", opts.String())

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.RuleSet, len(ds.Rows))
	layoutStart := time.Now()

	s, err := NewSession(ds, r.Registry, opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, opts.RuleSet, 0, time.Since(layoutStart), err)
		return nil, fmt.Errorf("layout: %w", err)
	}

	result := &Result{
		Tree:       s.Root(),
		Rows:       s.Rows(),
		Violations: s.Violations(),
		Artifacts:  make(map[string][]byte),
	}
	result.Stats.RowCount = len(ds.Rows)
	result.Stats.VisibleRows = len(result.Rows)
	result.Stats.ExtentHeight = layout.Extent(result.Rows, ds.Layout)
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, opts.RuleSet, len(result.Violations), result.Stats.LayoutTime, nil)

	opts.Logger.Info("computed layout",
		"rule_set", opts.RuleSet,
		"rows", result.Stats.VisibleRows,
		"extent", result.Stats.ExtentHeight,
		"duration", result.Stats.LayoutTime)

	if len(opts.Formats) == 0 {
		return result, nil
	}

	if opts.LabelColumn == "" {
		opts.LabelColumn = DefaultLabelColumn(ds.Columns)
	}
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(ctx, s.Root(), opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
