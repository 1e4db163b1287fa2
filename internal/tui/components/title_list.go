package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/netkin/internal/catalog"
	"github.com/mmcdole/netkin/internal/domain"
	"github.com/mmcdole/netkin/internal/tui/styles"
)

// Layout constants for title lists
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Title line, "↑ more" and "↓ more" each take 1 line
	ChromeLines = 3
)

// TitleList is a scrollable column of catalog titles. Home shelves and
// the browse pages are both built from it.
type TitleList struct {
	titles  []domain.Movie
	profile domain.Profile

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title string
	empty string

	// Genre filter state
	filterEnabled bool
	filterActive  bool
	filterInput   textinput.Model
	genre         string
	filteredIdx   []int // indices into titles
}

// NewTitleList creates a new title list with a header and an empty-state hint
func NewTitleList(title, empty string) *TitleList {
	ti := textinput.New()
	ti.Placeholder = "type a genre..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &TitleList{
		title:       title,
		empty:       empty,
		filterInput: ti,
	}
}

// EnableGenreFilter lets "/" narrow the list to one genre
func (c *TitleList) EnableGenreFilter() *TitleList {
	c.filterEnabled = true
	return c
}

// Update handles navigation and filter keys when focused
func (c *TitleList) Update(msg tea.Msg) (*TitleList, tea.Cmd) {
	if !c.focused {
		return c, nil
	}
	keyMsg, isKey := msg.(tea.KeyMsg)

	if c.filterActive && c.filterInput.Focused() {
		if isKey {
			switch {
			case key.Matches(keyMsg, TitleListKeys.Escape):
				c.ClearFilter()
				return c, nil
			case key.Matches(keyMsg, TitleListKeys.Enter):
				c.filterInput.Blur()
				return c, nil
			}
		}
		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return c, cmd
	}

	if !isKey {
		return c, nil
	}

	switch {
	case c.filterEnabled && key.Matches(keyMsg, TitleListKeys.Filter):
		c.filterActive = true
		return c, c.filterInput.Focus()
	case c.filterActive && key.Matches(keyMsg, TitleListKeys.Escape):
		c.ClearFilter()
		return c, nil
	}

	count := c.ItemCount()
	if count == 0 {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, TitleListKeys.Down):
		if c.cursor < count-1 {
			c.cursor++
			c.ensureVisible()
		}
	case key.Matches(keyMsg, TitleListKeys.Up):
		if c.cursor > 0 {
			c.cursor--
			c.ensureVisible()
		}
	case key.Matches(keyMsg, TitleListKeys.Home):
		c.cursor = 0
		c.offset = 0
	case key.Matches(keyMsg, TitleListKeys.End):
		c.cursor = count - 1
		c.ensureVisible()
	case key.Matches(keyMsg, TitleListKeys.HalfDown):
		c.cursor = min(c.cursor+max(c.maxVisible/2, 1), count-1)
		c.ensureVisible()
	case key.Matches(keyMsg, TitleListKeys.HalfUp):
		c.cursor = max(c.cursor-max(c.maxVisible/2, 1), 0)
		c.ensureVisible()
	}
	return c, nil
}

// View renders the list inside a border sized to width x height
func (c *TitleList) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(c.width - frameW).
		Height(c.height - frameH).
		Render(c.renderContent())
}

// SetSize updates the component dimensions
func (c *TitleList) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *TitleList) SetFocused(focused bool) {
	c.focused = focused
}

func (c *TitleList) SetTitle(title string) {
	c.title = title
}

// SetTitles replaces the list contents, keeping the cursor on the same
// title when it is still present
func (c *TitleList) SetTitles(titles []domain.Movie, profile domain.Profile) {
	var selectedID string
	if m, ok := c.Selected(); ok {
		selectedID = m.ID
	}

	c.titles = titles
	c.profile = profile
	c.applyFilter()

	c.cursor = 0
	c.offset = 0
	if selectedID != "" {
		for i := 0; i < c.ItemCount(); i++ {
			if c.titles[c.mapIndex(i)].ID == selectedID {
				c.cursor = i
				break
			}
		}
	}
	c.ensureVisible()
}

// Selected returns the title under the cursor
func (c *TitleList) Selected() (domain.Movie, bool) {
	if c.ItemCount() == 0 || c.cursor >= c.ItemCount() {
		return domain.Movie{}, false
	}
	return c.titles[c.mapIndex(c.cursor)], true
}

// ItemCount returns the number of visible (filtered) titles
func (c *TitleList) ItemCount() int {
	if c.filterActive && c.genre != "" {
		return len(c.filteredIdx)
	}
	return len(c.titles)
}

// IsFilterTyping reports whether the genre input has keyboard focus
func (c *TitleList) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter drops the genre filter and shows every title
func (c *TitleList) ClearFilter() {
	c.filterActive = false
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.genre = ""
	c.filteredIdx = nil
	c.cursor = 0
	c.offset = 0
}

func (c *TitleList) recalcMaxVisible() {
	c.maxVisible = c.height - BorderHeight - ChromeLines
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *TitleList) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

// applyFilter resolves the typed query to a known genre and narrows to it
func (c *TitleList) applyFilter() {
	c.recalcMaxVisible()
	if !c.filterActive {
		return
	}
	genre, ok := catalog.MatchGenre(c.filterInput.Value())
	if !ok {
		c.genre = ""
		c.filteredIdx = nil
		return
	}

	c.genre = genre
	c.filteredIdx = c.filteredIdx[:0]
	for i, m := range c.titles {
		if strings.EqualFold(m.Genre, genre) {
			c.filteredIdx = append(c.filteredIdx, i)
		}
	}
	c.cursor = 0
	c.offset = 0
}

func (c *TitleList) mapIndex(i int) int {
	if c.filterActive && c.genre != "" {
		return c.filteredIdx[i]
	}
	return i
}

func (c *TitleList) renderContent() string {
	itemWidth := c.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	count := c.ItemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render(c.empty)
		if c.genre != "" {
			emptyMsg = styles.DimStyle.Render("No " + c.genre + " titles")
		}
		content := titleLine + "\n" + " " + "\n" + emptyMsg + "\n" + " "
		if c.filterActive {
			content += "\n" + c.renderFilterBar(itemWidth)
		}
		return content
	}

	end := min(c.offset+c.maxVisible, count)
	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		lines = append(lines, c.renderTitle(c.titles[c.mapIndex(i)], i == c.cursor && c.focused, itemWidth))
	}

	// ALWAYS reserve space for header and footer to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if c.filterActive {
		content += "\n" + c.renderFilterBar(itemWidth)
	}
	return content
}

func (c *TitleList) renderTitle(m domain.Movie, selected bool, width int) string {
	_, inProgress := c.profile.ProgressFor(m.ID)
	watched := slices.Contains(c.profile.History, m.ID)
	indicator, indicatorFg := styles.TitleStatus(inProgress, watched)

	listed := " "
	listedFg := styles.NetkinRed
	if c.profile.InWatchlist(m.ID) {
		listed = styles.ListedChar
	}

	title := m.Title
	if m.Year != "" {
		title = fmt.Sprintf("%s (%s)", m.Title, m.Year)
	}
	// Available space: width - indicator(1) - space(1) - listed(1) - space(1) - margins(2)
	title = styles.Truncate(title, max(width-6, 5))

	parts := []styles.RowPart{
		{Text: indicator, Foreground: &indicatorFg},
		{Text: " " + title + " ", Foreground: nil},
		{Text: listed, Foreground: &listedFg},
	}
	return styles.RenderListRow(parts, selected, width)
}

func (c *TitleList) renderFilterBar(width int) string {
	c.filterInput.Width = max(width-16, 4)
	bar := c.filterInput.View()
	if c.genre != "" {
		bar += styles.DimStyle.Render(" → " + c.genre)
	}
	return bar
}
