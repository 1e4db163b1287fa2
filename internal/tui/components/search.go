package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/netkin/internal/catalog"
	"github.com/mmcdole/netkin/internal/domain"
	"github.com/mmcdole/netkin/internal/tui/styles"
)

// Searcher ranks catalog titles against a query
type Searcher interface {
	Search(query string) []catalog.SearchResult
}

// Search is the fuzzy title search modal component
type Search struct {
	searcher  Searcher
	input     textinput.Model
	results   []catalog.SearchResult
	cursor    int
	visible   bool
	width     int
	height    int
	prevQuery string
}

// NewSearch creates a new search component over searcher
func NewSearch(searcher Searcher) Search {
	ti := textinput.New()
	ti.Placeholder = "Titles..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return Search{
		searcher: searcher,
		input:    ti,
	}
}

// Show makes the search visible and focuses the input
func (o *Search) Show() {
	o.visible = true
	o.input.Focus()
	o.input.SetValue("")
	o.results = nil
	o.cursor = 0
	o.prevQuery = ""
}

// Hide hides the search
func (o *Search) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible returns true if the search is visible
func (o Search) IsVisible() bool {
	return o.visible
}

// SetSize updates the component dimensions
func (o *Search) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.input.Width = max(width-10, 10)
}

// Selected returns the title under the cursor
func (o Search) Selected() (domain.Movie, bool) {
	if len(o.results) == 0 || o.cursor >= len(o.results) {
		return domain.Movie{}, false
	}
	return o.results[o.cursor].Movie, true
}

// Init initializes the component
func (o Search) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages, returns (search, cmd, selected)
func (o Search) Update(msg tea.Msg) (Search, tea.Cmd, bool) {
	if !o.visible {
		return o, nil, false
	}

	var cmd tea.Cmd
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, SearchKeys.Escape):
			o.Hide()
			return o, nil, false

		case key.Matches(msg, SearchKeys.Enter):
			return o, nil, len(o.results) > 0

		case key.Matches(msg, SearchKeys.Down):
			if o.cursor < len(o.results)-1 {
				o.cursor++
			}
			return o, nil, false

		case key.Matches(msg, SearchKeys.Up):
			if o.cursor > 0 {
				o.cursor--
			}
			return o, nil, false
		}
	}

	o.input, cmd = o.input.Update(msg)
	if q := o.input.Value(); q != o.prevQuery {
		o.prevQuery = q
		o.results = o.searcher.Search(q)
		o.cursor = 0
	}
	return o, cmd, false
}

// View renders the component
func (o Search) View() string {
	if !o.visible {
		return ""
	}

	modalWidth := min(max(o.width*2/3, 40), 80)
	maxResults := 10

	var b strings.Builder
	b.WriteString("Search")
	b.WriteString("\n\n")
	b.WriteString(o.input.View())
	b.WriteString("\n\n")
	o.renderResults(&b, modalWidth, maxResults)

	content := lipgloss.NewStyle().
		Width(modalWidth - 4).
		Render(b.String())

	return styles.ModalStyle.
		Width(modalWidth).
		Render(content)
}

// highlightMatches renders text with matched characters highlighted
// Uses ANSI codes directly to avoid lipgloss padding issues
func highlightMatches(text string, matchedIndexes []int, selected bool) string {
	if len(matchedIndexes) == 0 {
		if selected {
			return styles.SelectedItemStyle.Render(text)
		}
		return styles.NormalItemStyle.Render(text)
	}

	matchSet := make(map[int]bool, len(matchedIndexes))
	for _, idx := range matchedIndexes {
		matchSet[idx] = true
	}

	// Red/bold for matches, gray for normal text
	const (
		reset   = "\033[0m"
		redBold = "\033[38;5;160;1m" // NetkinRed approximate
		gray    = "\033[38;5;250m"   // LightGray approximate
		white   = "\033[38;5;255m"
		bgSlate = "\033[48;5;238m" // SlateLight approximate
	)

	normalStart, matchStart := gray, redBold
	if selected {
		normalStart = white + bgSlate
		matchStart = redBold + bgSlate
	}

	// Batch consecutive characters with the same style. Indexes are byte
	// offsets into the lowercased title, which matches for ASCII titles.
	var result strings.Builder
	i := 0
	for i < len(text) {
		isMatch := matchSet[i]
		start := i
		for i < len(text) && matchSet[i] == isMatch {
			i++
		}
		if isMatch {
			result.WriteString(matchStart)
		} else {
			result.WriteString(normalStart)
		}
		result.WriteString(text[start:i])
		result.WriteString(reset)
	}
	return result.String()
}

// renderResults renders the search results
func (o Search) renderResults(b *strings.Builder, modalWidth, maxResults int) {
	if len(o.results) == 0 && strings.TrimSpace(o.input.Value()) != "" {
		b.WriteString(styles.DimStyle.Render("No matches found"))
		return
	}

	displayCount := min(len(o.results), maxResults)
	for i := 0; i < displayCount; i++ {
		result := o.results[i]
		selected := i == o.cursor

		var line strings.Builder
		switch result.Movie.Kind {
		case domain.KindShow:
			line.WriteString(styles.DimBadgeStyle.Render("TV"))
		default:
			line.WriteString(styles.DimBadgeStyle.Render("MOV"))
		}
		line.WriteString(" ")

		title := styles.Truncate(result.Movie.Title, modalWidth-25)
		line.WriteString(highlightMatches(title, result.MatchedIndexes, selected))
		if result.Movie.Year != "" {
			line.WriteString(styles.DimStyle.Render(fmt.Sprintf(" (%s)", result.Movie.Year)))
		}

		b.WriteString(line.String())
		b.WriteString("\n")
	}

	if len(o.results) > maxResults {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(o.results)-maxResults)))
	}
}
