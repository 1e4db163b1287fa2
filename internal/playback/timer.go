package playback

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TimerKind identifies one of the timers a session owns
type TimerKind int

const (
	TimerLoad      TimerKind = iota // Loading progress ticker
	TimerPlayback                   // Playback clock
	TimerCountdown                  // NextUp countdown

	timerKinds
)

// String returns the timer name for logging
func (k TimerKind) String() string {
	switch k {
	case TimerLoad:
		return "load"
	case TimerPlayback:
		return "playback"
	case TimerCountdown:
		return "countdown"
	default:
		return "unknown"
	}
}

// TickMsg is delivered by the event loop when a session timer fires.
// It is only honoured if its session is alive and its tag is current.
type TickMsg struct {
	SessionID int
	Kind      TimerKind
	tag       int
}

// lastID is the last session ID handed out
var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// timer is a cancellable handle for one recurring tick. Every schedule or
// cancel bumps tag, so messages already in flight no longer match.
type timer struct {
	tag    int
	active bool
}

func (t *timer) schedule(sessionID int, kind TimerKind, d time.Duration) tea.Cmd {
	t.tag++
	t.active = true
	msg := TickMsg{SessionID: sessionID, Kind: kind, tag: t.tag}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return msg
	})
}

func (t *timer) cancel() {
	t.tag++
	t.active = false
}

func (t *timer) accepts(msg TickMsg) bool {
	return t.active && msg.tag == t.tag
}
