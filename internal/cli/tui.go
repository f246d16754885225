package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/racktower/pkg/rack/layout"
)

// maxPromptItems caps the instance list shown in a confirmation.
const maxPromptItems = 8

var (
	buttonStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(colorGray)
	buttonActiveStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(colorWhite).Background(colorCyan)
	promptDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ConfirmModel - yes/no prompt for destructive changes
// =============================================================================

// ConfirmModel is the bubbletea model behind destructive-change prompts.
// The default answer is No.
type ConfirmModel struct {
	Question string
	Items    []string
	Yes      bool // highlighted button
	Answered bool
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.Yes, m.Answered = true, true
		return m, tea.Quit
	case "n", "N", "q", "esc", "ctrl+c":
		m.Yes, m.Answered = false, true
		return m, tea.Quit
	case "left", "right", "h", "l", "tab", "shift+tab":
		m.Yes = !m.Yes
	case "enter":
		m.Answered = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.Answered {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleWarning.Render(iconWarning+" "+m.Question))
	b.WriteString("\n")

	for i, item := range m.Items {
		if i == maxPromptItems {
			b.WriteString(promptDimStyle.Render(fmt.Sprintf("  … and %d more", len(m.Items)-maxPromptItems)))
			b.WriteString("\n")
			break
		}
		b.WriteString(promptDimStyle.Render("  - " + item))
		b.WriteString("\n")
	}

	yes, no := buttonStyle, buttonActiveStyle
	if m.Yes {
		yes, no = buttonActiveStyle, buttonStyle
	}
	b.WriteString("\n  ")
	b.WriteString(yes.Render("Yes"))
	b.WriteString(" ")
	b.WriteString(no.Render("No"))
	b.WriteString("\n\n")
	b.WriteString(promptDimStyle.Render("  y/n answer  ←/→ choose  ⏎ confirm"))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Confirmation
// =============================================================================

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// confirmFunc returns the prompt used for destructive engine operations.
// --yes approves without asking and a non-terminal stdin declines.
func (c *CLI) confirmFunc(e *layout.Engine) layout.ConfirmFunc {
	return func(p layout.Prompt) bool {
		if c.yes {
			return true
		}
		items := make([]string, len(p.Instances))
		for i, inst := range p.Instances {
			items[i] = e.Describe(inst)
		}
		if !isTerminal(c.in) {
			c.printWarning("%s", p.Message)
			for _, item := range items {
				c.printDetail("%s", item)
			}
			c.printDetail("not a terminal; pass --yes to confirm")
			return false
		}

		final, err := tea.NewProgram(ConfirmModel{Question: p.Message, Items: items},
			tea.WithInput(c.in), tea.WithOutput(c.out)).Run()
		if err != nil {
			c.Logger.Warn("confirmation prompt failed", "error", err)
			return false
		}
		m := final.(ConfirmModel)
		return m.Answered && m.Yes
	}
}
