package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/netkin/internal/catalog"
	"github.com/mmcdole/netkin/internal/domain"
	"github.com/mmcdole/netkin/internal/playback"
	"github.com/mmcdole/netkin/internal/remix"
	"github.com/mmcdole/netkin/internal/service"
	"github.com/mmcdole/netkin/internal/tui/components"
	"github.com/spf13/afero"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StateConfirmSignOut
)

// Page is the screen shown under the nav bar
type Page int

const (
	PageProfiles Page = iota // "Who's watching?"
	PageHome
	PageTVShows
	PageMovies
	PageMyList
)

// navPages are the pages reachable from the nav bar, in display order
var navPages = []Page{PageHome, PageTVShows, PageMovies, PageMyList}

// String returns the nav bar label
func (p Page) String() string {
	switch p {
	case PageProfiles:
		return "Profiles"
	case PageHome:
		return "Home"
	case PageTVShows:
		return "TV Shows"
	case PageMovies:
		return "Movies"
	case PageMyList:
		return "My List"
	default:
		return "Unknown"
	}
}

// Home shelves, left to right
const (
	ShelfContinue = iota
	ShelfBecause
	ShelfAgain
	ShelfMyList

	shelfCount
)

// inputPurpose says what the shared input modal is collecting
type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputProfileName
	inputPIN
)

// seekStep is how far one seek key press moves the playhead
const seekStep = 10 * time.Second

// Layout
const (
	MinColumnWidth = 15

	// Vertical layout: nav bar line + footer line
	ChromeHeight = 2
)

// Options carries the collaborators that are optional to the model
type Options struct {
	Account             *service.Account
	Remix               *remix.Client
	RemixFS             afero.Fs
	RemixDir            string
	NotificationTimeout time.Duration
	Logger              *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Page  Page
	Ready bool

	// Services
	Coordinator   *service.Coordinator
	Catalog       *catalog.Index
	Notifications *Notifications
	opts          Options

	// UI Components
	Nav        components.NavBar
	Picker     components.ProfilePicker
	Shelves    []*components.TitleList // Home page, indexed by Shelf*
	Browse     *components.TitleList   // TV Shows / Movies / My List pages
	Player     components.Player
	Search     components.Search
	InputModal components.InputModal
	RemixPanel components.RemixPanel

	shelfFocus int
	inputFor   inputPurpose

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	statusTag   int // bumped per notification; stale clears are ignored
	SignedOut   bool
}

// NewModel creates a new application model. notes must be the notifier
// the coordinator was built with.
func NewModel(
	coordinator *service.Coordinator,
	cat *catalog.Index,
	notes *Notifications,
	opts Options,
) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RemixFS == nil {
		opts.RemixFS = afero.NewOsFs()
	}
	if opts.NotificationTimeout <= 0 {
		opts.NotificationTimeout = 3 * time.Second
	}

	labels := make([]string, len(navPages))
	for i, p := range navPages {
		labels[i] = p.String()
	}

	shelves := make([]*components.TitleList, shelfCount)
	shelves[ShelfContinue] = components.NewTitleList("Continue Watching", "Nothing in progress")
	shelves[ShelfBecause] = components.NewTitleList("Recommended", "Watch something to get picks")
	shelves[ShelfAgain] = components.NewTitleList("Watch It Again", "No history yet")
	shelves[ShelfMyList] = components.NewTitleList("My List", "Press + on a title to add it")

	m := Model{
		State:         StateBrowsing,
		Page:          PageProfiles,
		Coordinator:   coordinator,
		Catalog:       cat,
		Notifications: notes,
		opts:          opts,
		Nav:           components.NewNavBar(labels...),
		Picker:        components.NewProfilePicker(),
		Shelves:       shelves,
		Browse:        components.NewTitleList("", "No titles").EnableGenreFilter(),
		Player:        components.NewPlayer(),
		Search:        components.NewSearch(cat),
		InputModal:    components.NewInputModal(),
		RemixPanel:    components.NewRemixPanel(),
	}
	m.Picker.SetProfiles(coordinator.Profiles())
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles all messages, then surfaces any notification raised
// while handling them
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	return next.flushNotifications(cmd)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case playback.TickMsg:
		cmd := m.Coordinator.Update(msg)
		m.refreshLists()
		pin := m.syncPINPrompt()
		return m, tea.Batch(cmd, pin)

	case ClearStatusMsg:
		if msg.Tag == m.statusTag {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil

	case RemixDoneMsg:
		if msg.Err != nil {
			m.opts.Logger.Warn("remix failed", "movieID", msg.MovieID, "kind", msg.Kind.String(), "error", msg.Err)
		} else {
			m.opts.Logger.Info("remix saved", "movieID", msg.MovieID, "path", msg.Path)
		}
		if m.RemixPanel.MovieID() == msg.MovieID {
			if msg.Err != nil {
				m.RemixPanel.SetError(msg.Err)
			} else {
				m.RemixPanel.SetDone(msg.Kind, msg.Path)
			}
		}
		return m, nil

	case SignedOutMsg:
		m.SignedOut = true
		m.Coordinator.ClearProfile()
		return m, tea.Quit

	case ErrMsg:
		m.opts.Logger.Error("command failed", "context", msg.Context, "error", msg.Err)
		m.Notifications.Notify(msg.Error(), domain.NotifyError)
		return m, nil
	}

	// Cursor blink and other input-internal messages
	var cmd tea.Cmd
	switch {
	case m.InputModal.IsVisible():
		m.InputModal, cmd, _ = m.InputModal.Update(msg)
	case m.Search.IsVisible():
		m.Search, cmd, _ = m.Search.Update(msg)
	case m.RemixPanel.IsVisible():
		m.RemixPanel, cmd, _ = m.RemixPanel.Update(msg)
	}
	return m, cmd
}

// flushNotifications shows the newest queued notification and schedules
// its dismissal
func (m Model) flushNotifications(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	n, ok := m.Notifications.Drain()
	if !ok {
		return m, cmd
	}
	m.statusTag++
	m.StatusMsg = n.Message
	m.StatusIsErr = n.Kind == domain.NotifyError
	return m, tea.Batch(cmd, ClearStatusCmd(m.statusTag, m.opts.NotificationTimeout))
}

// syncPINPrompt keeps the PIN modal in step with the session: shown while
// Locked, hidden once the session leaves Locked
func (m *Model) syncPINPrompt() tea.Cmd {
	s := m.Coordinator.Session()
	locked := s != nil && s.State() == playback.StateLocked

	switch {
	case locked && m.inputFor != inputPIN:
		m.Search.Hide()
		m.RemixPanel.Hide()
		m.inputFor = inputPIN
		return m.InputModal.ShowMasked("Enter PIN for "+s.Movie().Title, 8)
	case !locked && m.inputFor == inputPIN:
		m.InputModal.Hide()
		m.inputFor = inputNone
	}
	return nil
}

// refreshLists re-derives every title list from the active profile
func (m *Model) refreshLists() {
	p, ok := m.Coordinator.ActiveProfile()
	if !ok {
		return
	}
	m.Nav.SetProfile(p.Name)

	because := "Recommended"
	if seed, ok := m.Coordinator.BecauseYouWatched(); ok {
		because = "Because you watched " + seed.Title
	}
	m.Shelves[ShelfBecause].SetTitle(because)

	m.Shelves[ShelfContinue].SetTitles(m.Coordinator.ContinueWatching(), p)
	m.Shelves[ShelfBecause].SetTitles(m.Coordinator.RecommendedFor(), p)
	m.Shelves[ShelfAgain].SetTitles(m.Coordinator.WatchItAgain(), p)
	m.Shelves[ShelfMyList].SetTitles(m.Coordinator.MyList(), p)

	switch m.Page {
	case PageTVShows:
		m.Browse.SetTitle("TV Shows")
		m.Browse.SetTitles(m.Catalog.Shows(), p)
	case PageMovies:
		m.Browse.SetTitle("Movies")
		m.Browse.SetTitles(m.Catalog.Movies(), p)
	case PageMyList:
		m.Browse.SetTitle("My List")
		m.Browse.SetTitles(m.Coordinator.MyList(), p)
	}
}

// setPage switches the page under the nav bar
func (m *Model) setPage(p Page) {
	if p != m.Page {
		m.Browse.ClearFilter()
	}
	m.Page = p
	for i, np := range navPages {
		if np == p {
			m.Nav.SetActive(i)
		}
	}
	m.refreshLists()
	m.updateFocus()
}

// selectedTitle returns the title under the cursor of the focused list
func (m Model) selectedTitle() (domain.Movie, bool) {
	switch m.Page {
	case PageHome:
		return m.Shelves[m.shelfFocus].Selected()
	case PageTVShows, PageMovies, PageMyList:
		return m.Browse.Selected()
	default:
		return domain.Movie{}, false
	}
}

// updateFocus marks exactly one list as focused
func (m *Model) updateFocus() {
	for i, shelf := range m.Shelves {
		shelf.SetFocused(m.Page == PageHome && i == m.shelfFocus)
	}
	m.Browse.SetFocused(m.Page != PageHome && m.Page != PageProfiles)
}
