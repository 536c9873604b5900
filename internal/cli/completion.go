package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for modstack.

Mod arguments complete from the manifest selected by --manifest.

To load completions:

Bash:
  $ source <(modstack completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ modstack completion bash > /etc/bash_completion.d/modstack
  # macOS:
  $ modstack completion bash > $(brew --prefix)/etc/bash_completion.d/modstack

Zsh:
  $ modstack completion zsh > "${fpath[1]}/_modstack"

Fish:
  $ modstack completion fish > ~/.config/fish/completions/modstack.fish

PowerShell:
  PS> modstack completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeMods completes mod keys from the current manifest. A manifest that
// cannot be loaded yields no completions.
func (c *CLI) completeMods(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	set, err := c.loadSet(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, m := range set.Mods() {
		if strings.HasPrefix(m.Key(), toComplete) || strings.HasPrefix(m.ID(), toComplete) {
			out = append(out, m.Key()+"\t"+m.Name())
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
