package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/netkin/internal/tui/styles"
)

// NavBar is the single-line page switcher across the top of the screen
type NavBar struct {
	pages   []string
	active  int
	profile string
	width   int
}

// NewNavBar creates a nav bar over the given page labels
func NewNavBar(pages ...string) NavBar {
	return NavBar{pages: pages}
}

// SetActive marks the page at index i as current
func (n *NavBar) SetActive(i int) {
	n.active = i
}

// SetProfile sets the profile name shown on the right
func (n *NavBar) SetProfile(name string) {
	n.profile = name
}

// SetWidth updates the component width
func (n *NavBar) SetWidth(width int) {
	n.width = width
}

// View renders the bar
func (n NavBar) View() string {
	var left strings.Builder
	left.WriteString(styles.LogoStyle.Render("NETKIN"))
	for i, label := range n.pages {
		if i == n.active {
			left.WriteString(styles.NavActiveStyle.Render(label))
		} else {
			left.WriteString(styles.NavStyle.Foreground(styles.DimGray).Render(label))
		}
	}

	right := styles.AccentStyle.Render(n.profile)
	gap := n.width - lipgloss.Width(left.String()) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	return left.String() + strings.Repeat(" ", gap) + right
}
