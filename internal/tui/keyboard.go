package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/netkin/internal/domain"
	"github.com/mmcdole/netkin/internal/playback"
	"github.com/mmcdole/netkin/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		m.State = StateBrowsing
		return m, nil

	case StateConfirmSignOut:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			return m, SignOutCmd(m.opts.Account)
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	if m.Page == PageProfiles {
		return m.handleProfilesKey(msg)
	}

	if m.Coordinator.Session() != nil {
		return m.handleSessionKey(msg)
	}

	return m.handleBrowseKey(msg)
}

// routeToModal sends keys to the topmost visible modal
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	switch {
	case m.InputModal.IsVisible():
		var cmd tea.Cmd
		var submitted bool
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if submitted {
			cmd = m.submitInput()
			return true, m, cmd
		}
		if !m.InputModal.IsVisible() {
			// Dismissed: backing out of the PIN prompt leaves the title
			if m.inputFor == inputPIN {
				m.Coordinator.Close()
				m.refreshLists()
			}
			m.inputFor = inputNone
		}
		return true, m, cmd

	case m.Search.IsVisible():
		var cmd tea.Cmd
		var selected bool
		m.Search, cmd, selected = m.Search.Update(msg)
		if selected {
			if movie, ok := m.Search.Selected(); ok {
				m.Search.Hide()
				m.openTitle(movie)
				return true, m, nil
			}
		}
		return true, m, cmd

	case m.RemixPanel.IsVisible():
		var cmd tea.Cmd
		var req *components.RemixRequest
		m.RemixPanel, cmd, req = m.RemixPanel.Update(msg)
		if req != nil {
			return true, m, RemixCmd(m.opts.Remix, m.opts.RemixFS, m.opts.RemixDir, *req)
		}
		return true, m, cmd
	}
	return false, m, nil
}

// submitInput handles enter in the shared input modal
func (m *Model) submitInput() tea.Cmd {
	switch m.inputFor {
	case inputProfileName:
		name := strings.TrimSpace(m.InputModal.Value())
		if name == "" {
			m.InputModal.SetError("Name cannot be empty")
			return nil
		}
		p, err := m.Coordinator.AddProfile(name, false)
		if err != nil {
			m.InputModal.SetError(err.Error())
			return nil
		}
		m.InputModal.Hide()
		m.inputFor = inputNone
		m.Picker.SetProfiles(m.Coordinator.Profiles())
		m.opts.Logger.Info("profile added", "profileID", p.ID)
		return nil

	case inputPIN:
		cmd, err := m.Coordinator.SubmitPIN(m.InputModal.Value())
		if errors.Is(err, domain.ErrIncorrectPIN) {
			m.InputModal.SetError("Incorrect PIN. Try again.")
			return nil
		}
		if err != nil {
			m.InputModal.SetError(err.Error())
			return nil
		}
		pin := m.syncPINPrompt()
		return tea.Batch(cmd, pin)
	}
	m.InputModal.Hide()
	return nil
}

// handleProfilesKey drives the "Who's watching?" page
func (m Model) handleProfilesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
	case key.Matches(msg, Keys.Right, Keys.Down, Keys.NextTab):
		m.Picker.Next()
	case key.Matches(msg, Keys.Left, Keys.Up, Keys.PrevTab):
		m.Picker.Prev()
	case key.Matches(msg, Keys.SignOut):
		if m.opts.Account != nil {
			m.State = StateConfirmSignOut
		}
	case key.Matches(msg, Keys.Enter):
		if m.Picker.OnAddTile() {
			m.inputFor = inputProfileName
			cmd := m.InputModal.Show("New profile name")
			return m, cmd
		}
		p, ok := m.Picker.Selected()
		if !ok {
			return m, nil
		}
		if err := m.Coordinator.SelectProfile(p.ID); err != nil {
			m.Notifications.Notify(err.Error(), domain.NotifyError)
			return m, nil
		}
		m.shelfFocus = ShelfContinue
		m.setPage(PageHome)
	}
	return m, nil
}

// handleSessionKey drives the player while a session is open
func (m Model) handleSessionKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	s := m.Coordinator.Session()
	movieID := s.Movie().ID

	switch {
	case key.Matches(msg, Keys.Escape):
		m.Coordinator.Close()
		m.refreshLists()
		return m, nil
	case key.Matches(msg, Keys.Quit) && msg.String() == "ctrl+c":
		m.Coordinator.Close()
		return m, tea.Quit
	case key.Matches(msg, Keys.ToggleList):
		return m.toggleList(movieID)
	case key.Matches(msg, Keys.Rate):
		return m.rate(movieID, msg)
	}

	switch s.State() {
	case playback.StateOverview:
		switch {
		case key.Matches(msg, Keys.Enter):
			cmd := m.Coordinator.Watch()
			pin := m.syncPINPrompt()
			return m, tea.Batch(cmd, pin)
		case key.Matches(msg, Keys.Remix):
			m.RemixPanel.Show(s.Movie())
			return m, nil
		}

	case playback.StatePlaying:
		if s.NextUpVisible() {
			switch {
			case key.Matches(msg, Keys.PlayNow, Keys.Enter):
				cmd := m.Coordinator.PlayNow()
				m.refreshLists()
				pin := m.syncPINPrompt()
				return m, tea.Batch(cmd, pin)
			case key.Matches(msg, Keys.CancelNextUp):
				m.Coordinator.CancelNextUp()
				return m, nil
			}
		}
		switch {
		case key.Matches(msg, Keys.SeekBack):
			cmd := m.Coordinator.SeekBy(-seekStep)
			m.refreshLists()
			return m, cmd
		case key.Matches(msg, Keys.SeekForward):
			cmd := m.Coordinator.SeekBy(seekStep)
			m.refreshLists()
			return m, cmd
		}
	}
	return m, nil
}

// handleBrowseKey drives the nav pages when no session is open
func (m Model) handleBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Genre filter input owns the keyboard while typing
	if m.Page != PageHome && m.Browse.IsFilterTyping() {
		var cmd tea.Cmd
		m.Browse, cmd = m.Browse.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.Search.Show()
		m.Search.SetSize(m.Width, m.Height)
		return m, m.Search.Init()

	case key.Matches(msg, Keys.SwitchProfile):
		m.Coordinator.ClearProfile()
		m.Picker.SetProfiles(m.Coordinator.Profiles())
		m.Page = PageProfiles
		m.updateFocus()
		return m, nil

	case key.Matches(msg, Keys.SignOut):
		if m.opts.Account != nil {
			m.State = StateConfirmSignOut
		}
		return m, nil

	case key.Matches(msg, Keys.NextTab):
		m.setPage(navPages[(m.navIndex()+1)%len(navPages)])
		return m, nil

	case key.Matches(msg, Keys.PrevTab):
		m.setPage(navPages[(m.navIndex()+len(navPages)-1)%len(navPages)])
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if movie, ok := m.selectedTitle(); ok {
			m.openTitle(movie)
		}
		return m, nil

	case key.Matches(msg, Keys.ToggleList):
		if movie, ok := m.selectedTitle(); ok {
			return m.toggleList(movie.ID)
		}
		return m, nil

	case key.Matches(msg, Keys.Rate):
		if movie, ok := m.selectedTitle(); ok {
			return m.rate(movie.ID, msg)
		}
		return m, nil

	case key.Matches(msg, Keys.Remix):
		if movie, ok := m.selectedTitle(); ok {
			m.RemixPanel.Show(movie)
		}
		return m, nil
	}

	if m.Page == PageHome {
		switch {
		case key.Matches(msg, Keys.Left):
			if m.shelfFocus > 0 {
				m.shelfFocus--
			}
			m.updateFocus()
			return m, nil
		case key.Matches(msg, Keys.Right):
			if m.shelfFocus < len(m.Shelves)-1 {
				m.shelfFocus++
			}
			m.updateFocus()
			return m, nil
		}
		var cmd tea.Cmd
		m.Shelves[m.shelfFocus], cmd = m.Shelves[m.shelfFocus].Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.Browse, cmd = m.Browse.Update(msg)
	return m, cmd
}

// openTitle opens movie in Overview
func (m *Model) openTitle(movie domain.Movie) {
	if err := m.Coordinator.Open(movie.ID); err != nil {
		m.Notifications.Notify(err.Error(), domain.NotifyError)
	}
}

func (m Model) toggleList(movieID string) (Model, tea.Cmd) {
	if _, err := m.Coordinator.ToggleWatchlist(movieID); err != nil {
		m.Notifications.Notify(err.Error(), domain.NotifyError)
	}
	m.refreshLists()
	return m, nil
}

func (m Model) rate(movieID string, msg tea.KeyMsg) (Model, tea.Cmd) {
	stars := int(msg.String()[0] - '0')
	if err := m.Coordinator.Rate(movieID, stars); err != nil {
		m.Notifications.Notify(err.Error(), domain.NotifyError)
	}
	m.refreshLists()
	return m, nil
}

// navIndex returns the current page's position in the nav bar
func (m Model) navIndex() int {
	for i, p := range navPages {
		if p == m.Page {
			return i
		}
	}
	return 0
}
