package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/whtopo/pkg/errors"
	wio "github.com/matzehuels/whtopo/pkg/io"
	"github.com/matzehuels/whtopo/pkg/render"
	"github.com/matzehuels/whtopo/pkg/render/nodelink"
)

const (
	formatSVG = "svg"
	formatDOT = "dot"
	formatPDF = "pdf"
	formatPNG = "png"
)

type renderOpts struct {
	output   string
	format   string
	scale    float64
	detailed bool
}

// renderCommand creates the render command for node-link diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [input]",
		Short: "Render a topology as a node-link diagram",
		Long: `Render a topology as a node-link diagram at its stored positions.

The output format follows -f, else the extension of -o: svg (default), dot,
pdf or png. PDF and PNG need rsvg-convert from librsvg.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTopologyFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg, dot, pdf, png")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "coordinate scale (png: resolution factor)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show cmd numbers in node labels")
	_ = cmd.RegisterFlagCompletionFunc("format", completeRenderFormats)

	return cmd
}

// resolveFormat picks the output format from the flag, then the output
// extension, defaulting to svg.
func resolveFormat(format, output string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	switch format {
	case "":
		return formatSVG, nil
	case "gv":
		return formatDOT, nil
	case formatSVG, formatDOT, formatPDF, formatPNG:
		return format, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported render format %q (svg, dot, pdf, png)", format)
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := resolveFormat(opts.format, opts.output)
	if err != nil {
		return err
	}

	nodes, edges, _, err := wio.Load(input, c.ioOptions())
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	dot := nodelink.ToDOT(nodes, edges, nodelink.Options{
		Scale:    opts.scale,
		NodeSize: c.Config.Align.NodeWidth,
		Detailed: opts.detailed,
	})

	var data []byte
	switch format {
	case formatDOT:
		data = []byte(dot)
	default:
		prog := newProgress(c.Logger)
		svg, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
		prog.done("Rendered SVG", "bytes", len(svg))
		data = svg
		switch format {
		case formatPDF:
			data, err = render.ToPDF(ctx, svg)
		case formatPNG:
			data, err = render.ToPNG(ctx, svg, opts.scale)
		}
		if err != nil {
			return err
		}
	}

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	p := out(cmd)
	p.success("Rendered %s", format)
	p.file(output)
	p.stats(len(nodes), len(edges), false)
	return nil
}
