package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/fedi-cli/internal/app"
	"github.com/glabrego/fedi-cli/internal/mastodon"
)

type Service interface {
	Refresh(ctx context.Context, limit int) ([]mastodon.Status, error)
	LoadMore(ctx context.Context, maxID string, limit int) ([]mastodon.Status, error)
	ToggleFavourite(ctx context.Context, target mastodon.Status) (mastodon.Status, error)
	ToggleReblog(ctx context.Context, target mastodon.Status) (mastodon.Status, error)
	Translate(ctx context.Context, id string) (mastodon.Translation, error)
	SaveUIPreferences(ctx context.Context, prefs app.UIPreferences) error
}

type RefreshSuccessMsg struct {
	Statuses []mastodon.Status
	Duration time.Duration
	Source   string
}

type RefreshErrorMsg struct {
	Err      error
	Duration time.Duration
	Source   string
}

type LoadMoreSuccessMsg struct {
	MaxID    string
	Statuses []mastodon.Status
}

type LoadMoreErrorMsg struct {
	Err error
}

// StatusUpdatedMsg carries the server's copy of a status after a
// favourite or boost toggle.
type StatusUpdatedMsg struct {
	Status mastodon.Status
	Notice string
}

type ToggleActionErrorMsg struct {
	Err error
}

type TranslateSuccessMsg struct {
	StatusID    string
	Translation mastodon.Translation
}

type TranslateErrorMsg struct {
	StatusID string
	Err      error
}

type PreferencesSavedMsg struct {
	Prefs app.UIPreferences
	Err   error
}

type OpenURLSuccessMsg struct {
	Notice string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

func RefreshCmd(service Service, limit int, source string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		start := time.Now()

		statuses, err := service.Refresh(ctx, limit)
		if err != nil {
			return RefreshErrorMsg{Err: err, Duration: time.Since(start), Source: source}
		}
		return RefreshSuccessMsg{Statuses: statuses, Duration: time.Since(start), Source: source}
	}
}

func LoadMoreCmd(service Service, maxID string, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()

		statuses, err := service.LoadMore(ctx, maxID, limit)
		if err != nil {
			return LoadMoreErrorMsg{Err: err}
		}
		return LoadMoreSuccessMsg{MaxID: maxID, Statuses: statuses}
	}
}

func ToggleFavouriteCmd(service Service, target mastodon.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		updated, err := service.ToggleFavourite(ctx, target)
		if err != nil {
			return ToggleActionErrorMsg{Err: err}
		}

		notice := "Removed from favourites"
		if updated.Favourited {
			notice = "Added to favourites"
		}
		return StatusUpdatedMsg{Status: updated, Notice: notice}
	}
}

func ToggleReblogCmd(service Service, target mastodon.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		updated, err := service.ToggleReblog(ctx, target)
		if err != nil {
			return ToggleActionErrorMsg{Err: err}
		}

		notice := "Boost removed"
		if updated.Reblogged {
			notice = "Boosted"
		}
		return StatusUpdatedMsg{Status: updated, Notice: notice}
	}
}

func TranslateCmd(service Service, statusID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		translation, err := service.Translate(ctx, statusID)
		if err != nil {
			return TranslateErrorMsg{StatusID: statusID, Err: err}
		}
		return TranslateSuccessMsg{StatusID: statusID, Translation: translation}
	}
}

func SavePreferencesCmd(service Service, prefs app.UIPreferences) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return PreferencesSavedMsg{Prefs: prefs, Err: service.SaveUIPreferences(ctx, prefs)}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Notice: "Opened URL in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Notice: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyTextCmd(text, what string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(text); err == nil {
				return OpenURLSuccessMsg{Notice: what + " copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy %s to clipboard", what)}
	}
}
