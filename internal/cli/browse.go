package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type browseOpts struct {
	view        viewFlags
	labelColumn string
	watch       bool
}

// browseCommand creates the browse command that opens an interactive,
// keyboard-driven view of a dataset.
func (c *CLI) browseCommand() *cobra.Command {
	var opts browseOpts

	cmd := &cobra.Command{
		Use:   "browse [dataset]",
		Short: "Explore a dataset interactively",
		Long: `Explore a dataset interactively.

Move between rows and columns, group and sort by the column under the
cursor, collapse groups, select rows and switch rule sets. Row heights are
recomputed after every change; rule sets that follow the selection grow
the selected rows and their neighbours.

With --watch the dataset is reloaded whenever its file changes, keeping
grouping, sorting, selection and collapsed groups where they still apply.
Press ? for all key bindings.`,
		Example: `  taggle browse countries.toml
  taggle browse countries.toml -g continent -r tablelens --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], opts)
		},
	}

	opts.view.register(cmd)
	cmd.Flags().StringVar(&opts.labelColumn, "label", "", "column that names rows (default: first string column)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload the dataset when the file changes")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, path string, opts browseOpts) error {
	runner := c.newRunner()
	ds, err := runner.Load(ctx, path)
	if err != nil {
		return err
	}

	viewOpts := opts.view.options()
	viewOpts.Logger = log.New(io.Discard)
	s, err := runner.NewSession(ds, viewOpts)
	if err != nil {
		return err
	}

	m := NewBrowseModel(s, opts.labelColumn)
	if opts.watch {
		w, err := newDatasetWatcher(path)
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		defer w.Close()
		m = m.WithWatch(w.Cmd())
	}

	// Logging to the terminal would tear the alternate screen.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.FatalLevel)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	c.Logger.SetLevel(level)
	if err != nil {
		return err
	}

	fm, ok := final.(BrowseModel)
	if !ok {
		return nil
	}
	selected := fm.Session.Selected()
	if len(selected) == 0 {
		printInfo("No rows selected")
		return nil
	}
	printSuccess("Selected %d rows", len(selected))
	for _, idx := range selected {
		printKeyValue(fmt.Sprintf("#%d", idx), fm.labelOf(idx))
	}
	return nil
}
