package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for racktower.

Module and instance ids are completed from the current layout.

  $ source <(racktower completion bash)
  $ racktower completion zsh > "${fpath[1]}/_racktower"
  $ racktower completion fish | source
  PS> racktower completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.out)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.out)
			}
			return nil
		},
	}
}

// completeFirst limits a completion function to the first positional
// argument.
func completeFirst(fn cobra.CompletionFunc) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return fn(cmd, args, toComplete)
	}
}

// completeModules suggests catalog ids; custom reports only custom ones.
func (c *CLI) completeModules(custom bool) cobra.CompletionFunc {
	return completeFirst(func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		_ = c.loadConfig()
		p, err := c.openPlanner(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer p.Close()

		var out []string
		for _, m := range p.Catalog().All() {
			if custom && !m.IsCustom() {
				continue
			}
			if strings.HasPrefix(m.ID, toComplete) {
				out = append(out, m.ID+"\t"+m.Name)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
}

// completeInstances suggests the ids of placed instances.
func (c *CLI) completeInstances() cobra.CompletionFunc {
	return completeFirst(func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		_ = c.loadConfig()
		p, err := c.openPlanner(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer p.Close()

		var out []string
		e := p.Engine()
		for _, inst := range e.Instances() {
			if strings.HasPrefix(inst.ID, toComplete) {
				out = append(out, inst.ID+"\t"+e.Describe(inst))
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
}
