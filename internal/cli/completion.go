package cli

import (
	"github.com/spf13/cobra"

	wio "github.com/matzehuels/whtopo/pkg/io"
	"github.com/matzehuels/whtopo/pkg/layout"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for whtopo.

Besides subcommands and flags, the scripts complete layout strategies
(--strategy), render formats (--format), convert targets (--to) and
topology files (.json, .dot, .gv) as inputs.

  bash:        source <(whtopo completion bash)
  zsh:         whtopo completion zsh > "${fpath[1]}/_whtopo"
  fish:        whtopo completion fish > ~/.config/fish/completions/whtopo.fish
  powershell:  whtopo completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// completeStrategies offers the registered layout strategies.
func completeStrategies(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return layout.Names(), cobra.ShellCompDirectiveNoFileComp
}

// completeRenderFormats offers the render output formats.
func completeRenderFormats(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{formatSVG, formatDOT, formatPDF, formatPNG}, cobra.ShellCompDirectiveNoFileComp
}

// completeConvertTargets offers the formats convert can write.
func completeConvertTargets(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{string(wio.FormatTopology), string(wio.FormatDocument)}, cobra.ShellCompDirectiveNoFileComp
}

// completeTopologyFile restricts the single positional argument to files
// whtopo can read.
func completeTopologyFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json", "dot", "gv"}, cobra.ShellCompDirectiveFilterFileExt
}
