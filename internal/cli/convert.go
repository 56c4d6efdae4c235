package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/whtopo/pkg/errors"
	wio "github.com/matzehuels/whtopo/pkg/io"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		output      string
		to          string
		warehouseID int64
	)

	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert between DOT, editor documents and topology JSON",
		Long: `Convert a topology file to another format.

By default the input (DOT, editor document or topology JSON) is written as
topology JSON for the warehouse control system. With --to document it is
written as an editor document instead, keeping positions and styles.
Annotations are never exported to topology JSON.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTopologyFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args[0], output, wio.Format(to), warehouseID)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&to, "to", string(wio.FormatTopology), "output format: topology, document")
	cmd.Flags().Int64Var(&warehouseID, "wh-id", 0, "warehouse ID for topology output (default: current time in ms)")
	_ = cmd.RegisterFlagCompletionFunc("to", completeConvertTargets)

	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, input, output string, to wio.Format, warehouseID int64) error {
	if to != wio.FormatTopology && to != wio.FormatDocument {
		return errors.New(errors.ErrCodeUnsupported, "cannot convert to %q", to)
	}

	nodes, edges, from, err := wio.Load(input, c.ioOptions())
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	c.Logger.Debug("converting", "from", from, "to", to, "nodes", len(nodes), "edges", len(edges))

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	switch to {
	case wio.FormatTopology:
		opts := c.ioOptions()
		opts.WarehouseID = warehouseID
		err = wio.WriteTopology(w, nodes, edges, opts)
	default:
		err = wio.WriteDocument(w, wio.NewDocument(nodes, edges))
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", to, err)
	}

	if output != "" {
		p := out(cmd)
		p.success("Converted %s to %s", from, to)
		p.file(output)
		p.stats(len(nodes), len(edges), false)
	}
	return nil
}
