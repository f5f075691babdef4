// Package cli implements the taggle command-line interface.
//
// # Commands
//
//   - layout: lay out a dataset once and print the visible rows
//   - rules: list the available rule sets
//   - tree: write the row tree as a DOT or SVG node-link diagram
//   - browse: explore a dataset interactively in the terminal
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is attached to the command context and retrieved with loggerFromContext.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taggle/pkg/buildinfo"
	"github.com/matzehuels/taggle/pkg/observability"
	"github.com/matzehuels/taggle/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "taggle"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Pipeline and session events are logged at debug level.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Taggle lays out large hierarchical tables",
		Long:          `Taggle groups, sorts and collapses table rows and computes a height for every visible row under a choice of layout rule sets, from fixed-size rows to space-filling layouts that fit any number of rows into the viewport.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	observability.SetPipelineHooks(&logHooks{logger: c.Logger})
	observability.SetSessionHooks(&logHooks{logger: c.Logger})

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.rulesCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(nil, c.Logger)
}

// =============================================================================
// Flag Helpers
// =============================================================================

// viewFlags holds the flags shared by every command that lays out a dataset.
type viewFlags struct {
	ruleSet   string
	groupBy   []string
	sortBy    string
	height    float64
	selected  []int
	collapsed []string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.ruleSet, "rule-set", "r", "", "rule set (default: dataset view or "+pipeline.DefaultRuleSet+")")
	cmd.Flags().StringSliceVarP(&f.groupBy, "group-by", "g", nil, "columns to group by, outermost first")
	cmd.Flags().StringVarP(&f.sortBy, "sort-by", "s", "", "column to sort rows by")
	cmd.Flags().Float64Var(&f.height, "height", 0, "viewport height in pixels")
	cmd.Flags().IntSliceVar(&f.selected, "select", nil, "data indices of selected rows")
	cmd.Flags().StringSliceVar(&f.collapsed, "collapse", nil, "paths of groups to collapse, like Europe.North")

	cmd.ValidArgsFunction = completeDatasets
	_ = cmd.RegisterFlagCompletionFunc("rule-set", completeRuleSets)
}

func (f *viewFlags) options() pipeline.Options {
	return pipeline.Options{
		RuleSet:   f.ruleSet,
		GroupBy:   f.groupBy,
		SortBy:    f.sortBy,
		Height:    f.height,
		Selected:  f.selected,
		Collapsed: f.collapsed,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
