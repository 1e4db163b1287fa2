package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/netkin/internal/domain"
	"github.com/mmcdole/netkin/internal/remix"
	"github.com/mmcdole/netkin/internal/tui/styles"
)

// RemixRequest is a generation the viewer asked for
type RemixRequest struct {
	Movie  domain.Movie
	Kind   remix.Kind
	Style  string // Poster art style
	Prompt string // Teaser prompt
}

// RemixPanel lets the viewer pick a poster style or edit a teaser prompt
// for one title. Generation itself runs outside the panel.
type RemixPanel struct {
	visible bool
	movie   domain.Movie
	cursor  int
	editing bool
	prompt  textinput.Model

	busy    bool
	status  string
	isError bool

	width  int
	height int
}

// NewRemixPanel creates a new remix panel
func NewRemixPanel() RemixPanel {
	ti := textinput.New()
	ti.CharLimit = 400
	ti.Width = 50
	ti.Prompt = "> "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)

	return RemixPanel{prompt: ti}
}

// Show opens the panel for m
func (r *RemixPanel) Show(m domain.Movie) {
	r.visible = true
	r.movie = m
	r.cursor = 0
	r.editing = false
	r.busy = false
	r.status = ""
	r.isError = false
	r.prompt.SetValue(remix.TeaserPrompt(m))
	r.prompt.Blur()
}

// Hide closes the panel
func (r *RemixPanel) Hide() {
	r.visible = false
	r.editing = false
	r.prompt.Blur()
}

// IsVisible returns whether the panel is shown
func (r RemixPanel) IsVisible() bool {
	return r.visible
}

// MovieID returns the title the panel is open for
func (r RemixPanel) MovieID() string {
	return r.movie.ID
}

// SetSize updates the component dimensions
func (r *RemixPanel) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.prompt.Width = max(min(width-16, 64), 20)
}

// SetDone records a saved result
func (r *RemixPanel) SetDone(kind remix.Kind, path string) {
	r.busy = false
	r.isError = false
	r.status = "Saved " + kind.String() + " to " + path
}

// SetError records a failed generation
func (r *RemixPanel) SetError(err error) {
	r.busy = false
	r.isError = true
	r.status = err.Error()
}

// Update handles keys, returns (panel, cmd, request). request is non-nil
// when the viewer started a generation.
func (r RemixPanel) Update(msg tea.Msg) (RemixPanel, tea.Cmd, *RemixRequest) {
	if !r.visible {
		return r, nil, nil
	}
	keyMsg, isKey := msg.(tea.KeyMsg)

	if r.editing {
		if isKey {
			switch {
			case key.Matches(keyMsg, RemixKeys.Escape):
				r.editing = false
				r.prompt.Blur()
				return r, nil, nil
			case key.Matches(keyMsg, RemixKeys.Enter):
				if r.busy {
					return r, nil, nil
				}
				r.editing = false
				r.prompt.Blur()
				return r, nil, r.start(remix.KindTeaser)
			}
		}
		var cmd tea.Cmd
		r.prompt, cmd = r.prompt.Update(msg)
		return r, cmd, nil
	}

	if !isKey {
		return r, nil, nil
	}

	switch {
	case key.Matches(keyMsg, RemixKeys.Escape):
		r.Hide()
	case key.Matches(keyMsg, RemixKeys.Down):
		if r.cursor < len(remix.Styles)-1 {
			r.cursor++
		}
	case key.Matches(keyMsg, RemixKeys.Up):
		if r.cursor > 0 {
			r.cursor--
		}
	case key.Matches(keyMsg, RemixKeys.Poster, RemixKeys.Enter):
		if !r.busy {
			return r, nil, r.start(remix.KindPoster)
		}
	case key.Matches(keyMsg, RemixKeys.Teaser):
		r.editing = true
		return r, r.prompt.Focus(), nil
	}
	return r, nil, nil
}

func (r *RemixPanel) start(kind remix.Kind) *RemixRequest {
	r.busy = true
	r.isError = false
	r.status = "Generating " + kind.String() + "..."
	return &RemixRequest{
		Movie:  r.movie,
		Kind:   kind,
		Style:  remix.Styles[r.cursor],
		Prompt: strings.TrimSpace(r.prompt.Value()),
	}
}

// View renders the panel
func (r RemixPanel) View() string {
	if !r.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Remix · " + r.movie.Title))
	b.WriteString("\n")

	b.WriteString(styles.SubtitleStyle.Render("Poster style"))
	b.WriteString("\n")
	for i, style := range remix.Styles {
		if i == r.cursor && !r.editing {
			b.WriteString(styles.SelectedItemStyle.Render(style))
		} else {
			b.WriteString(styles.NormalItemStyle.Render(style))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render("Teaser prompt"))
	b.WriteString("\n")
	b.WriteString(r.prompt.View())
	b.WriteString("\n\n")

	switch {
	case r.status == "":
	case r.isError:
		b.WriteString(styles.ErrorStyle.Render(r.status))
		b.WriteString("\n\n")
	case r.busy:
		b.WriteString(styles.SpinnerStyle.Render(r.status))
		b.WriteString("\n\n")
	default:
		b.WriteString(styles.SuccessStyle.Render(r.status))
		b.WriteString("\n\n")
	}

	if r.editing {
		b.WriteString(renderHints([]string{"enter generate", "esc done"}))
	} else {
		b.WriteString(renderHints([]string{"p poster", "v edit teaser", "esc close"}))
	}

	return styles.ModalStyle.Render(b.String())
}
