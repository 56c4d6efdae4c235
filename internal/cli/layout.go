package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	wio "github.com/matzehuels/whtopo/pkg/io"
	"github.com/matzehuels/whtopo/pkg/layout"
)

type layoutOpts struct {
	strategy string
	output   string
	noCache  bool
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout [input]",
		Short: "Arrange a topology with a layout strategy",
		Long: `Arrange a topology with a layout strategy and write an editor document.

The input format follows the file extension: .dot and .gv are read as
Graphviz DOT, .json as topology JSON or editor document (detected from its
content).

Strategies: ` + strings.Join(layout.Names(), ", ") + `.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTopologyFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "layout strategy (default from config: smart)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("strategy", completeStrategies)
	_ = cmd.RegisterFlagCompletionFunc("strategy", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return layout.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input string, opts layoutOpts) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	strategy := opts.strategy
	if strategy == "" {
		strategy = c.Config.Editor.DefaultLayout
	}
	if _, err := layout.Get(strategy, c.Config.Layout); err != nil {
		return err
	}

	nodes, edges, format, err := wio.Load(input, c.ioOptions())
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	c.Logger.Debug("loaded", "file", input, "format", format, "nodes", len(nodes), "edges", len(edges))

	layouts := c.newLayouts(opts.noCache)
	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Computing %s layout...", strategy))
	spin.start()
	res, cached, err := layouts.Run(ctx, strategy, c.Config.Layout, nodes, edges)
	spin.stop()
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("Laid out", "strategy", strategy, "nodes", len(res.Nodes), "cached", cached)

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	if err := wio.SaveDocument(output, wio.NewDocument(res.Nodes, res.Edges)); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	p := out(cmd)
	p.success("Layout complete")
	p.file(output)
	p.stats(len(res.Nodes), len(res.Edges), cached)
	if res.Ranks > 0 {
		p.keyValue("ranks", strconv.Itoa(res.Ranks))
		p.keyValue("crossings", strconv.Itoa(res.Crossings))
	}
	p.nextStep("Render", appName+" render "+output)
	return nil
}
