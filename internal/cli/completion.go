package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taggle/pkg/rule"
)

// completionCommand creates the completion command for generating shell
// completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for taggle.

Besides commands and flags, the scripts complete rule set names for
--rule-set and dataset files (.toml, .yaml, .yml) as arguments.

To load completions:

Bash:
  $ source <(taggle completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ taggle completion bash > /etc/bash_completion.d/taggle
  # macOS:
  $ taggle completion bash > $(brew --prefix)/etc/bash_completion.d/taggle

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ taggle completion zsh > "${fpath[1]}/_taggle"

Fish:
  $ taggle completion fish | source
  $ taggle completion fish > ~/.config/fish/completions/taggle.fish

PowerShell:
  PS> taggle completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeDatasets completes the dataset argument with dataset files.
func completeDatasets(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"toml", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeRuleSets completes --rule-set with the built-in rule set names.
func completeRuleSets(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, name := range rule.DefaultRegistry(rule.DefaultMetrics()).Names() {
		if strings.HasPrefix(name, toComplete) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
