package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/netkin/internal/domain"
	"github.com/mmcdole/netkin/internal/tui/styles"
)

// ProfilePicker is the "Who's watching?" row of profile tiles followed
// by an add-profile tile
type ProfilePicker struct {
	profiles domain.ProfileSet
	cursor   int
	width    int
	height   int
}

// NewProfilePicker creates a new profile picker
func NewProfilePicker() ProfilePicker {
	return ProfilePicker{}
}

// SetProfiles replaces the tiles, keeping the cursor in range
func (p *ProfilePicker) SetProfiles(profiles domain.ProfileSet) {
	p.profiles = profiles
	if p.cursor > len(profiles) {
		p.cursor = len(profiles)
	}
}

// SetSize updates the component dimensions
func (p *ProfilePicker) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Next moves the cursor right
func (p *ProfilePicker) Next() {
	if p.cursor < len(p.profiles) {
		p.cursor++
	}
}

// Prev moves the cursor left
func (p *ProfilePicker) Prev() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// OnAddTile reports whether the add-profile tile is selected
func (p ProfilePicker) OnAddTile() bool {
	return p.cursor == len(p.profiles)
}

// Selected returns the profile under the cursor
func (p ProfilePicker) Selected() (domain.Profile, bool) {
	if p.cursor >= len(p.profiles) {
		return domain.Profile{}, false
	}
	return p.profiles[p.cursor], true
}

// View renders the picker centered in its area
func (p ProfilePicker) View() string {
	tiles := make([]string, 0, len(p.profiles)+1)
	for i, prof := range p.profiles {
		label := prof.Name
		if prof.IsKid {
			label += "\n" + styles.DimStyle.Render("kids")
		} else {
			label += "\n "
		}
		tiles = append(tiles, p.tile(label, i == p.cursor))
	}
	tiles = append(tiles, p.tile("+ Add Profile\n ", p.OnAddTile()))

	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.TitleStyle.Render("Who's watching?"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, tiles...),
		"",
		renderHints([]string{"←/→ choose", "enter select", "q quit"}),
	)
	return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, content)
}

func (p ProfilePicker) tile(label string, selected bool) string {
	if selected {
		return styles.ProfileTileSelectedStyle.Render(label)
	}
	return styles.ProfileTileStyle.Render(label)
}
