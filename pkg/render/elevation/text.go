package elevation

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/racktower/pkg/catalog"
	"github.com/matzehuels/racktower/pkg/rack"
	"github.com/matzehuels/racktower/pkg/rack/geometry"
)

// Options configures [Text].
type Options struct {
	// IDs appends the instance id to each module's label.
	IDs bool

	// Renderer styles the output. Nil uses lipgloss's default renderer,
	// which drops colors when stdout is not a terminal.
	Renderer *lipgloss.Renderer
}

var (
	colorRail  = lipgloss.Color("240")
	colorEmpty = lipgloss.Color("236")
	colorLabel = lipgloss.Color("245")
)

func bodyWidth(w rack.WidthClass) int {
	if w == rack.Width10Inch {
		return 24
	}
	return 44
}

// Text renders the rack as a terminal diagram. Each line is one slot: the
// U label, the left rail, the slot body and the right rail. A module's
// name is printed on its top slot; the rest of its slots share its color.
func Text(slots []rack.Slot, cfg rack.Config, opts Options) string {
	r := opts.Renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	width := bodyWidth(cfg.Width)

	rail := r.NewStyle().Foreground(colorRail)
	label := r.NewStyle().Foreground(colorLabel).Width(6).Align(lipgloss.Right)
	empty := r.NewStyle().Foreground(colorEmpty).Width(width)
	title := r.NewStyle().Bold(true)

	starts := blockAt(Blocks(slots))
	var cur *Block
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", strings.Repeat(" ", 6),
		title.Render(fmt.Sprintf("%dU %s rack", cfg.HeightUnits, cfg.Width)))
	top := rail.Render("┏" + strings.Repeat("━", width) + "┓")
	bottom := rail.Render("┗" + strings.Repeat("━", width) + "┛")
	fmt.Fprintf(&b, "%s %s\n", strings.Repeat(" ", 6), top)

	for i, s := range slots {
		if blk, ok := starts[i]; ok {
			cur = &blk
		} else if cur != nil && i >= cur.Top+cur.Span {
			cur = nil
		}

		var body string
		switch {
		case cur == nil:
			body = empty.Render(strings.Repeat("·", width))
		default:
			body = moduleStyle(r, cur.Module, width).Render(blockText(*cur, i, cfg, opts))
		}
		fmt.Fprintf(&b, "%s %s%s%s\n", label.Render(geometry.Label(s.UPosition)),
			rail.Render("┃"), body, rail.Render("┃"))
	}

	fmt.Fprintf(&b, "%s %s\n", strings.Repeat(" ", 6), bottom)
	return b.String()
}

func moduleStyle(r *lipgloss.Renderer, m rack.Module, width int) lipgloss.Style {
	bg := catalog.Hex(m.Color)
	fg := lipgloss.Color("255")
	if catalog.Light(bg) {
		fg = lipgloss.Color("232")
	}
	return r.NewStyle().Background(lipgloss.Color(bg)).Foreground(fg).Width(width)
}

func blockText(blk Block, index int, cfg rack.Config, opts Options) string {
	if index != blk.Top {
		return ""
	}
	text := " " + faceText(blk.Module, cfg.Width)
	if opts.IDs {
		text += " [" + blk.InstanceID + "]"
	}
	return truncate(text, bodyWidth(cfg.Width))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// faceText is what a faceplate shows: the module name, or a summary of its
// repeated elements when the name is hidden.
func faceText(m rack.Module, w rack.WidthClass) string {
	if m.NameVisible() {
		return m.Name
	}
	if fp := catalog.Capacity(m, w); fp.Total() > 0 {
		return fmt.Sprintf("%s · %d %s", m.Name, fp.Total(), fp.Feature)
	}
	return m.Name
}
