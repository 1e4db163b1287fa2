package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/netkin/internal/domain"
	"github.com/mmcdole/netkin/internal/playback"
	"github.com/mmcdole/netkin/internal/tui/styles"
)

// Player renders the live playback session: title details in Overview,
// the lock notice, the loading bar, and the playback clock with the
// NextUp overlay. It holds no session state of its own.
type Player struct {
	bar    progress.Model
	width  int
	height int
}

// NewPlayer creates a new player panel
func NewPlayer() Player {
	return Player{
		bar: progress.New(
			progress.WithSolidFill(string(styles.NetkinRed)),
			progress.WithoutPercentage(),
		),
	}
}

// SetSize updates the component dimensions
func (p *Player) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.bar.Width = max(width-8, 10)
}

// View renders s for the viewing profile
func (p Player) View(s *playback.Session, viewer domain.Profile) string {
	if s == nil {
		return ""
	}
	contentWidth := max(p.width-6, 20)
	m := s.Movie()

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(m.Title, contentWidth)))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(metaLine(m, s.Duration())))
	b.WriteString("\n")
	if m.Author != "" {
		b.WriteString(styles.DimStyle.Render("Directed by " + m.Author))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch s.State() {
	case playback.StateOverview:
		b.WriteString(p.renderOverview(s, viewer))
	case playback.StateLocked:
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("Rated %s. A parental PIN is required.", m.ContentRating)))
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("Enter the PIN to continue, esc to go back"))
	case playback.StateLoading:
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Loading %d%%", s.ProgressPercent())))
		b.WriteString("\n")
		b.WriteString(p.bar.ViewAs(float64(s.ProgressPercent()) / 100))
	case playback.StatePlaying:
		b.WriteString(p.renderPlaying(s))
	}

	return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Width(min(p.width-2, 72)).Render(b.String()))
}

func (p Player) renderOverview(s *playback.Session, viewer domain.Profile) string {
	m := s.Movie()
	var b strings.Builder

	if s.CurrentTimeSeconds() > 0 {
		b.WriteString(styles.AccentStyle.Render("Resume from " + FormatClock(s.CurrentTime())))
		b.WriteString("\n")
		b.WriteString(p.bar.ViewAs(s.PlaybackPercent() / 100))
		b.WriteString("\n\n")
	}

	listed := "Not in My List"
	if viewer.InWatchlist(m.ID) {
		listed = "In My List"
	}
	b.WriteString(styles.DimStyle.Render(listed + "  ·  Your rating "))
	b.WriteString(styles.RenderStars(viewer.RatingFor(m.ID)))
	b.WriteString("\n\n")

	hints := []string{"enter play", "+ my list", "1-5 rate", "r remix", "esc back"}
	b.WriteString(renderHints(hints))
	return b.String()
}

func (p Player) renderPlaying(s *playback.Session) string {
	var b strings.Builder

	clock := FormatClock(s.CurrentTime()) + " / " + FormatClock(s.Duration())
	if s.Ended() {
		clock = "Finished · " + clock
	}
	b.WriteString(styles.DimStyle.Render(clock))
	b.WriteString("\n")
	b.WriteString(p.bar.ViewAs(s.PlaybackPercent() / 100))
	b.WriteString("\n\n")

	if s.NextUpVisible() {
		next := s.NextUp()
		overlay := fmt.Sprintf("Next up: %s\nPlaying in %ds", next.Title, s.Countdown())
		b.WriteString(styles.ActiveBorder.Padding(0, 1).Render(overlay))
		b.WriteString("\n")
		b.WriteString(renderHints([]string{"n play now", "x cancel"}))
		return b.String()
	}

	b.WriteString(renderHints([]string{"←/→ seek", "+ my list", "1-5 rate", "esc stop"}))
	return b.String()
}

// metaLine renders "2024 · ACTION · PG-13 · 2H 44MIN · ★ 8.5"
func metaLine(m domain.Movie, d time.Duration) string {
	parts := make([]string, 0, 5)
	if m.Year != "" {
		parts = append(parts, m.Year)
	}
	if m.Genre != "" {
		parts = append(parts, m.Genre)
	}
	if m.ContentRating != "" {
		parts = append(parts, string(m.ContentRating))
	}
	parts = append(parts, domain.FormattedDuration(d))
	if m.Rating != "" {
		parts = append(parts, "★ "+m.Rating)
	}
	return strings.Join(parts, " · ")
}

func renderHints(hints []string) string {
	rendered := make([]string, len(hints))
	for i, h := range hints {
		k, desc, _ := strings.Cut(h, " ")
		rendered[i] = styles.HelpKeyStyle.Render(k) + " " + styles.HelpDescStyle.Render(desc)
	}
	return strings.Join(rendered, "  ")
}

// FormatClock renders d as h:mm:ss, or mm:ss under an hour
func FormatClock(d time.Duration) string {
	total := int(d.Seconds())
	h := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, secs)
	}
	return fmt.Sprintf("%02d:%02d", mins, secs)
}
