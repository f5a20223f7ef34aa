package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/glabrego/fedi-cli/internal/logging"
	"github.com/glabrego/fedi-cli/internal/mastodon"
	"github.com/glabrego/fedi-cli/internal/status"
)

const (
	prefDisplayMedia   = "display_media"
	prefExpandSpoilers = "expand_spoilers"
)

type MastodonClient interface {
	HomeTimeline(ctx context.Context, limit int, maxID string) ([]mastodon.Status, error)
	Favourite(ctx context.Context, id string) (mastodon.Status, error)
	Unfavourite(ctx context.Context, id string) (mastodon.Status, error)
	Reblog(ctx context.Context, id string) (mastodon.Status, error)
	Unreblog(ctx context.Context, id string) (mastodon.Status, error)
	Translate(ctx context.Context, id string) (mastodon.Translation, error)
}

type Repository interface {
	SaveStatuses(ctx context.Context, statuses []mastodon.Status) error
	ListStatuses(ctx context.Context, limit int) ([]mastodon.Status, error)
	LoadPreference(ctx context.Context, key string) (string, bool, error)
	SavePreference(ctx context.Context, key, value string) error
}

// UIPreferences are the viewer settings that survive restarts.
type UIPreferences struct {
	DisplayMedia   status.DisplayMedia
	ExpandSpoilers bool
}

type Service struct {
	client MastodonClient
	repo   Repository
	log    logging.Logger
}

func NewService(client MastodonClient, repo Repository, log logging.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{client: client, repo: repo, log: log.With("component", "app")}
}

// Refresh fetches the newest page of the home timeline, caches it and
// returns the cached timeline. Statuses hit by a hide filter are dropped.
func (s *Service) Refresh(ctx context.Context, limit int) ([]mastodon.Status, error) {
	statuses, err := s.client.HomeTimeline(ctx, limit, "")
	if err != nil {
		return nil, fmt.Errorf("fetch home timeline: %w", err)
	}

	visible := dropHidden(statuses)
	if err := s.repo.SaveStatuses(ctx, visible); err != nil {
		return nil, fmt.Errorf("save statuses to cache: %w", err)
	}
	s.log.Info(ctx, "timeline refreshed", "fetched", len(statuses), "hidden", len(statuses)-len(visible))

	cached, err := s.repo.ListStatuses(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load statuses from cache: %w", err)
	}
	return cached, nil
}

func (s *Service) ListCached(ctx context.Context, limit int) ([]mastodon.Status, error) {
	statuses, err := s.repo.ListStatuses(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load statuses from cache: %w", err)
	}
	return statuses, nil
}

// LoadMore fetches the page older than maxID and returns only the statuses
// that page added.
func (s *Service) LoadMore(ctx context.Context, maxID string, limit int) ([]mastodon.Status, error) {
	statuses, err := s.client.HomeTimeline(ctx, limit, maxID)
	if err != nil {
		return nil, fmt.Errorf("fetch older statuses: %w", err)
	}

	visible := dropHidden(statuses)
	if err := s.repo.SaveStatuses(ctx, visible); err != nil {
		return nil, fmt.Errorf("save statuses to cache: %w", err)
	}
	s.log.Info(ctx, "older statuses loaded", "max_id", maxID, "fetched", len(statuses))
	return visible, nil
}

// ToggleFavourite flips the favourite flag on target and returns the server's
// view of it.
func (s *Service) ToggleFavourite(ctx context.Context, target mastodon.Status) (mastodon.Status, error) {
	var (
		updated mastodon.Status
		err     error
	)
	if target.Favourited {
		updated, err = s.client.Unfavourite(ctx, target.ID)
	} else {
		updated, err = s.client.Favourite(ctx, target.ID)
	}
	if err != nil {
		s.log.Warn(ctx, "favourite failed", "id", target.ID, "err", err)
		return mastodon.Status{}, fmt.Errorf("toggle favourite: %w", err)
	}
	return updated, nil
}

// ToggleReblog flips the boost on target. The server answers a reblog with
// the wrapping status, so the inner status is returned in that case.
func (s *Service) ToggleReblog(ctx context.Context, target mastodon.Status) (mastodon.Status, error) {
	var (
		updated mastodon.Status
		err     error
	)
	if target.Reblogged {
		updated, err = s.client.Unreblog(ctx, target.ID)
	} else {
		updated, err = s.client.Reblog(ctx, target.ID)
	}
	if err != nil {
		s.log.Warn(ctx, "boost failed", "id", target.ID, "err", err)
		return mastodon.Status{}, fmt.Errorf("toggle boost: %w", err)
	}
	if updated.Reblog != nil {
		return *updated.Reblog, nil
	}
	return updated, nil
}

func (s *Service) Translate(ctx context.Context, id string) (mastodon.Translation, error) {
	translation, err := s.client.Translate(ctx, id)
	if err != nil {
		return mastodon.Translation{}, fmt.Errorf("translate status %s: %w", id, err)
	}
	return translation, nil
}

// LoadUIPreferences overlays stored preferences on defaults. Unreadable
// stored values are logged and ignored.
func (s *Service) LoadUIPreferences(ctx context.Context, defaults UIPreferences) (UIPreferences, error) {
	prefs := defaults

	raw, ok, err := s.repo.LoadPreference(ctx, prefDisplayMedia)
	if err != nil {
		return defaults, fmt.Errorf("load ui preferences: %w", err)
	}
	if ok {
		if dm, err := status.ParseDisplayMedia(raw); err == nil {
			prefs.DisplayMedia = dm
		} else {
			s.log.Warn(ctx, "ignoring stored preference", "key", prefDisplayMedia, "value", raw)
		}
	}

	raw, ok, err = s.repo.LoadPreference(ctx, prefExpandSpoilers)
	if err != nil {
		return defaults, fmt.Errorf("load ui preferences: %w", err)
	}
	if ok {
		if v, err := strconv.ParseBool(raw); err == nil {
			prefs.ExpandSpoilers = v
		} else {
			s.log.Warn(ctx, "ignoring stored preference", "key", prefExpandSpoilers, "value", raw)
		}
	}

	return prefs, nil
}

func (s *Service) SaveUIPreferences(ctx context.Context, prefs UIPreferences) error {
	if err := s.repo.SavePreference(ctx, prefDisplayMedia, string(prefs.DisplayMedia)); err != nil {
		return fmt.Errorf("save ui preferences: %w", err)
	}
	if err := s.repo.SavePreference(ctx, prefExpandSpoilers, strconv.FormatBool(prefs.ExpandSpoilers)); err != nil {
		return fmt.Errorf("save ui preferences: %w", err)
	}
	return nil
}

func dropHidden(statuses []mastodon.Status) []mastodon.Status {
	visible := make([]mastodon.Status, 0, len(statuses))
	for i := range statuses {
		if statuses[i].Hidden() {
			continue
		}
		visible = append(visible, statuses[i])
	}
	return visible
}
