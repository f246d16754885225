package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/racktower/pkg/cache"
	"github.com/matzehuels/racktower/pkg/render/elevation"
)

const (
	formatSVG  = "svg"
	formatDOT  = "dot"
	formatText = "text"

	defaultSVGOutput = "rack.svg"
)

// validRenderFormats is the set of supported render formats.
var validRenderFormats = map[string]bool{formatSVG: true, formatDOT: true, formatText: true}

type renderOpts struct {
	output  string // output file, "-" for stdout
	format  string // svg, dot or text
	ids     bool   // label modules with their instance ids (text)
	noCache bool   // skip the render cache (svg)
}

// renderCommand draws the rack elevation as an SVG, Graphviz source or
// terminal text.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the rack elevation to SVG",
		Long: `Render the rack elevation.

SVG output is drawn with Graphviz and cached under ~/.cache/racktower, so
rendering an unchanged layout again is instant. The dot format writes the
Graphviz source and text writes the same diagram "show" prints.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validRenderFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'svg', 'dot', or 'text')", opts.format)
			}
			return c.runRender(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default rack.svg for svg, stdout otherwise)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot, text")
	cmd.Flags().BoolVar(&opts.ids, "ids", false, "show instance ids (text)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts renderOpts) error {
	p, err := c.openPlanner(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	e := p.Engine()
	slots, cfg := e.Slots(), e.Config()
	output := opts.output
	if output == "" {
		output = "-"
		if opts.format == formatSVG {
			output = defaultSVGOutput
		}
	}

	var data []byte
	cached := false
	switch opts.format {
	case formatText:
		r := lipgloss.NewRenderer(c.out)
		if output != "-" {
			r = lipgloss.NewRenderer(io.Discard)
		}
		data = []byte(elevation.Text(slots, cfg, elevation.Options{IDs: opts.ids, Renderer: r}))
	case formatDOT:
		data = []byte(elevation.ToDOT(slots, cfg))
	case formatSVG:
		data, cached, err = c.renderSVG(ctx, elevation.ToDOT(slots, cfg), opts.noCache)
		if err != nil {
			return err
		}
	}

	if output == "-" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	c.printSuccess("Rendered %dU rack", cfg.HeightUnits)
	c.printFile(output, cached)
	return nil
}

// renderSVG runs Graphviz through the render cache.
func (c *CLI) renderSVG(ctx context.Context, dot string, noCache bool) ([]byte, bool, error) {
	rc, err := newCache(noCache)
	if err != nil {
		return nil, false, fmt.Errorf("open render cache: %w", err)
	}
	defer rc.Close()

	prog := newProgress(loggerFromContext(ctx))
	var sp *spinner
	if isTerminal(os.Stderr) {
		sp = newSpinner(ctx, os.Stderr, "Rendering SVG...")
		sp.Start()
	}
	svg, cached, err := cache.GetOrCompute(ctx, rc, "svg", cache.RenderKey(formatSVG, dot), cache.TTLRender,
		func() ([]byte, error) { return elevation.RenderSVG(dot) })
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		return nil, false, fmt.Errorf("render svg: %w", err)
	}
	if !cached {
		prog.done("Rendered SVG")
	}
	return svg, cached, nil
}
