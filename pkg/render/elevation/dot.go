package elevation

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/racktower/pkg/catalog"
	"github.com/matzehuels/racktower/pkg/rack"
	"github.com/matzehuels/racktower/pkg/rack/geometry"
)

// Points per U of rack height in the Graphviz diagram.
const pointsPerU = 24

func dotWidth(w rack.WidthClass) int {
	if w == rack.Width10Inch {
		return 160
	}
	return 300
}

// ToDOT converts a slot sequence to Graphviz DOT source. The rack is one
// plaintext node holding an HTML table: a label column and a body column in
// which each module is a single cell with ROWSPAN equal to its span.
func ToDOT(slots []rack.Slot, cfg rack.Config) string {
	res := step(slots, cfg.HeightUnits)
	rowHeight := int(float64(pointsPerU) * float64(res))
	width := dotWidth(cfg.Width)
	starts := blockAt(Blocks(slots))

	var buf bytes.Buffer
	buf.WriteString("digraph rack {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=plaintext, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  rack [label=<\n")
	buf.WriteString("    <TABLE BORDER=\"4\" COLOR=\"#111827\" CELLBORDER=\"1\" CELLSPACING=\"0\" CELLPADDING=\"0\" BGCOLOR=\"#111827\">\n")
	fmt.Fprintf(&buf, "      <TR><TD COLSPAN=\"2\" HEIGHT=\"20\"><FONT COLOR=\"#e5e7eb\"><B>%dU %s</B></FONT></TD></TR>\n",
		cfg.HeightUnits, html.EscapeString(string(cfg.Width)))

	covered := 0
	for i, s := range slots {
		fmt.Fprintf(&buf, "      <TR><TD WIDTH=\"36\" HEIGHT=\"%d\" FIXEDSIZE=\"TRUE\"><FONT COLOR=\"#9ca3af\" POINT-SIZE=\"8\">%s</FONT></TD>",
			rowHeight, geometry.Label(s.UPosition))

		switch blk, ok := starts[i]; {
		case ok:
			bg := catalog.Hex(blk.Module.Color)
			fg := "#f9fafb"
			if catalog.Light(bg) {
				fg = "#111827"
			}
			fmt.Fprintf(&buf, "<TD ROWSPAN=\"%d\" WIDTH=\"%d\" BGCOLOR=\"%s\" TOOLTIP=\"%s\"><FONT COLOR=\"%s\">%s</FONT></TD>",
				blk.Span, width, bg, html.EscapeString(blk.InstanceID), fg,
				html.EscapeString(faceText(blk.Module, cfg.Width)))
			covered = blk.Span - 1
		case covered > 0:
			covered--
		default:
			fmt.Fprintf(&buf, "<TD WIDTH=\"%d\" BGCOLOR=\"#1f2937\"></TD>", width)
		}
		buf.WriteString("</TR>\n")
	}

	buf.WriteString("    </TABLE>>];\n")
	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's svg header with one whose width and
// height match the viewBox, so the diagram scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
