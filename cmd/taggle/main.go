// Command taggle lays out hierarchical tables from TOML or YAML datasets.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taggle/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRoot().ExecuteContext(ctx)
	stop()

	if code := cli.ExitCode(err); code != cli.ExitOK {
		if code != cli.ExitInterrupted {
			cli.PrintError(os.Stderr, err)
		}
		os.Exit(code)
	}
}

// newRoot adds --verbose on top of the CLI's root command. The flag only
// raises the log level, then hands over to the root's own pre-run.
func newRoot() *cobra.Command {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "log pipeline and session events")
	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return preRun(cmd, args)
	}
	return root
}
