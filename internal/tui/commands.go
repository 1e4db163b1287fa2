package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/netkin/internal/remix"
	"github.com/mmcdole/netkin/internal/service"
	"github.com/mmcdole/netkin/internal/tui/components"
	"github.com/spf13/afero"
)

// Command factories for async operations

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(tag int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{Tag: tag}
	})
}

// RemixCmd runs one generation and saves the result under dir. The
// client applies the configured remix timeout.
func RemixCmd(client *remix.Client, fs afero.Fs, dir string, req components.RemixRequest) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return RemixDoneMsg{MovieID: req.Movie.ID, Kind: req.Kind, Err: remix.ErrNotConfigured}
		}
		ctx := context.Background()

		var (
			res remix.Result
			err error
		)
		switch req.Kind {
		case remix.KindTeaser:
			res, err = client.GenerateVideo(ctx, req.Movie, req.Prompt)
		default:
			res, err = client.GeneratePoster(ctx, req.Movie, req.Style)
		}
		if err != nil {
			return RemixDoneMsg{MovieID: req.Movie.ID, Kind: req.Kind, Err: err}
		}

		path, err := remix.Save(fs, dir, req.Movie.Title, res)
		return RemixDoneMsg{MovieID: req.Movie.ID, Kind: req.Kind, Path: path, Err: err}
	}
}

// SignOutCmd clears the current user
func SignOutCmd(account *service.Account) tea.Cmd {
	return func() tea.Msg {
		if err := account.SignOut(); err != nil {
			return ErrMsg{Err: err, Context: "signing out"}
		}
		return SignedOutMsg{}
	}
}
