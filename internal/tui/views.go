package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/netkin/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	// Handle modal states
	switch m.State {
	case StateHelp:
		return m.renderHelp()
	case StateConfirmSignOut:
		return m.renderSignOutConfirmation()
	}

	var view string
	if m.Page == PageProfiles {
		view = lipgloss.JoinVertical(lipgloss.Left,
			m.Picker.View(),
			m.renderFooter(),
		)
	} else {
		view = lipgloss.JoinVertical(lipgloss.Left,
			m.Nav.View(),
			m.renderContent(),
			m.renderFooter(),
		)
	}

	// Overlays, topmost last
	if m.Search.IsVisible() {
		view = m.overlay(m.Search.View())
	}
	if m.RemixPanel.IsVisible() {
		view = m.overlay(m.RemixPanel.View())
	}
	if m.InputModal.IsVisible() {
		view = m.overlay(m.InputModal.View())
	}
	return view
}

// renderContent renders the area between the nav bar and the footer
func (m Model) renderContent() string {
	if s := m.Coordinator.Session(); s != nil {
		viewer, _ := m.Coordinator.ActiveProfile()
		return m.Player.View(s, viewer)
	}

	if m.Page == PageHome {
		cols := make([]string, len(m.Shelves))
		for i, shelf := range m.Shelves {
			cols[i] = shelf.View()
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	}
	return m.Browse.View()
}

func (m Model) overlay(modal string) string {
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		modal)
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: the current notification
	var left string
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.SuccessStyle.Render(m.StatusMsg)
		}
	}

	// Center section: page hints
	var center string
	switch {
	case m.Page == PageProfiles:
	case m.Coordinator.Session() != nil:
	case m.Page == PageHome:
		center = styles.AccentStyle.Render("h/l") + styles.DimStyle.Render(" shelves  ") +
			styles.AccentStyle.Render("tab") + styles.DimStyle.Render(" pages")
	default:
		center = styles.AccentStyle.Render("/") + styles.DimStyle.Render(" genre  ") +
			styles.AccentStyle.Render("tab") + styles.DimStyle.Render(" pages")
	}

	// Right side: "? help" hint
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	// Center the hints in available space
	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
BROWSING                        PLAYER
  j/k        Up/down               Enter  Play / resume
  h/l        Shelf left/right      ←/→    Seek 10s
  Tab        Next page             n      Play next now
  /          Filter by genre       x      Cancel next up
  f          Search titles         Esc    Stop / close
  Enter      Open title

TITLES                          OTHER
  +          Add/remove My List    P      Switch profile
  1-5        Rate                  L      Sign out
  r          Remix poster/teaser   q      Quit
                                   ?      This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// renderSignOutConfirmation renders the sign-out confirmation modal
func (m Model) renderSignOutConfirmation() string {
	modal := `
              Sign Out?

  Profiles and viewing history stay
  on this device.

        [Y] Yes      [N] No
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(modal))
}
