package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/whtopo/pkg/errors"
	wio "github.com/matzehuels/whtopo/pkg/io"
)

// editCommand creates the edit command, which replays an editing script
// against a document.
func (c *CLI) editCommand() *cobra.Command {
	var (
		inline string
		file   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "edit [document]",
		Short: "Apply an editing script to a topology",
		Long: `Apply an editing script to a topology.

The document may be an editor document, topology JSON or DOT file. A missing
document starts an empty graph. Commands are read from -c, from -f, or from
standard input, and run against an editing session with full undo/redo.
Nothing is written unless the script calls save.

` + scriptHelp,
		Example: `  whtopo edit plant.json -c 'add SC-9 scanner 12; connect 61-001 SC-9; layout flow; save'
  whtopo edit plant.json -f changes.wht -o plant.edited.json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTopologyFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			var script io.Reader = cmd.InOrStdin()
			switch {
			case inline != "" && file != "":
				return errors.New(errors.ErrCodeInvalidInput, "use either -c or -f")
			case inline != "":
				script = strings.NewReader(inline)
			case file != "":
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				script = f
			}
			return c.runEdit(cmd, args[0], output, script)
		},
	}

	cmd.Flags().StringVarP(&inline, "command", "c", "", "script to run (';' separates commands)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "script file to run")
	cmd.Flags().StringVarP(&output, "output", "o", "", "save target (default: the input when it is a document)")

	return cmd
}

func (c *CLI) runEdit(cmd *cobra.Command, input, output string, script io.Reader) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s := c.newStore()
	format := wio.FormatDocument
	if _, err := os.Stat(input); err == nil {
		nodes, edges, f, err := wio.Load(input, c.ioOptions())
		if err != nil {
			return fmt.Errorf("load %s: %w", input, err)
		}
		format = f
		if dn, de := s.Load(nodes, edges); dn+de > 0 {
			c.Logger.Warn("dropped invalid items", "nodes", dn, "edges", de)
		}
	} else {
		c.Logger.Debug("starting empty document", "path", input)
	}

	if output == "" && format == wio.FormatDocument {
		output = input
	}
	p := out(cmd)
	r := newScriptRunner(s, p, c.ioOptions(), output)
	if err := r.run(ctx, script); err != nil {
		return err
	}
	if r.dirty {
		p.warn("unsaved changes (add 'save' to the script)")
	}
	return nil
}
