package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glabrego/fedi-cli/internal/mastodon"
	"github.com/glabrego/fedi-cli/internal/status"
)

type fakeClient struct {
	statuses    []mastodon.Status
	err         error
	lastMaxID   string
	calls       []string
	translation mastodon.Translation
}

func (f *fakeClient) HomeTimeline(_ context.Context, _ int, maxID string) ([]mastodon.Status, error) {
	f.lastMaxID = maxID
	if f.err != nil {
		return nil, f.err
	}
	return f.statuses, nil
}

func (f *fakeClient) action(name, id string, s mastodon.Status) (mastodon.Status, error) {
	f.calls = append(f.calls, name+":"+id)
	if f.err != nil {
		return mastodon.Status{}, f.err
	}
	return s, nil
}

func (f *fakeClient) Favourite(_ context.Context, id string) (mastodon.Status, error) {
	return f.action("favourite", id, mastodon.Status{ID: id, Favourited: true})
}

func (f *fakeClient) Unfavourite(_ context.Context, id string) (mastodon.Status, error) {
	return f.action("unfavourite", id, mastodon.Status{ID: id})
}

func (f *fakeClient) Reblog(_ context.Context, id string) (mastodon.Status, error) {
	return f.action("reblog", id, mastodon.Status{ID: "wrapper", Reblog: &mastodon.Status{ID: id, Reblogged: true}})
}

func (f *fakeClient) Unreblog(_ context.Context, id string) (mastodon.Status, error) {
	return f.action("unreblog", id, mastodon.Status{ID: id})
}

func (f *fakeClient) Translate(_ context.Context, id string) (mastodon.Translation, error) {
	f.calls = append(f.calls, "translate:"+id)
	if f.err != nil {
		return mastodon.Translation{}, f.err
	}
	return f.translation, nil
}

type fakeRepo struct {
	saved   []mastodon.Status
	cached  []mastodon.Status
	prefs   map[string]string
	saveErr error
	listErr error
}

func (f *fakeRepo) SaveStatuses(_ context.Context, statuses []mastodon.Status) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append([]mastodon.Status(nil), statuses...)
	return nil
}

func (f *fakeRepo) ListStatuses(_ context.Context, _ int) ([]mastodon.Status, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.cached, nil
}

func (f *fakeRepo) LoadPreference(_ context.Context, key string) (string, bool, error) {
	v, ok := f.prefs[key]
	return v, ok, nil
}

func (f *fakeRepo) SavePreference(_ context.Context, key, value string) error {
	if f.prefs == nil {
		f.prefs = make(map[string]string)
	}
	f.prefs[key] = value
	return nil
}

func hideFiltered(id string) mastodon.Status {
	return mastodon.Status{
		ID:       id,
		Filtered: []mastodon.FilterResult{{Filter: mastodon.Filter{FilterAction: mastodon.FilterActionHide}}},
	}
}

func TestService_Refresh_SavesVisibleStatuses(t *testing.T) {
	client := &fakeClient{statuses: []mastodon.Status{
		{ID: "1", CreatedAt: time.Now().UTC()},
		hideFiltered("2"),
	}}
	repo := &fakeRepo{cached: []mastodon.Status{{ID: "1"}}}

	svc := NewService(client, repo, nil)
	statuses, err := svc.Refresh(context.Background(), 20)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	if len(statuses) != 1 || statuses[0].ID != "1" {
		t.Fatalf("unexpected statuses: %+v", statuses)
	}
	if len(repo.saved) != 1 || repo.saved[0].ID != "1" {
		t.Fatalf("expected only visible statuses to be saved: %+v", repo.saved)
	}
	if client.lastMaxID != "" {
		t.Fatalf("expected newest page, got max_id=%q", client.lastMaxID)
	}
}

func TestService_Refresh_PropagatesFetchError(t *testing.T) {
	svc := NewService(&fakeClient{err: errors.New("boom")}, &fakeRepo{}, nil)

	if _, err := svc.Refresh(context.Background(), 20); err == nil {
		t.Fatal("expected error")
	}
}

func TestService_Refresh_PropagatesSaveError(t *testing.T) {
	svc := NewService(&fakeClient{}, &fakeRepo{saveErr: errors.New("disk full")}, nil)

	if _, err := svc.Refresh(context.Background(), 20); err == nil {
		t.Fatal("expected error")
	}
}

func TestService_ListCached(t *testing.T) {
	repo := &fakeRepo{cached: []mastodon.Status{{ID: "2"}}}
	svc := NewService(&fakeClient{}, repo, nil)

	statuses, err := svc.ListCached(context.Background(), 20)
	if err != nil {
		t.Fatalf("ListCached returned error: %v", err)
	}
	if len(statuses) != 1 || statuses[0].ID != "2" {
		t.Fatalf("unexpected cached statuses: %+v", statuses)
	}
}

func TestService_LoadMore_UsesMaxID(t *testing.T) {
	client := &fakeClient{statuses: []mastodon.Status{{ID: "8"}, hideFiltered("7")}}
	repo := &fakeRepo{}
	svc := NewService(client, repo, nil)

	older, err := svc.LoadMore(context.Background(), "9", 20)
	if err != nil {
		t.Fatalf("LoadMore returned error: %v", err)
	}
	if client.lastMaxID != "9" {
		t.Fatalf("unexpected max_id: %q", client.lastMaxID)
	}
	if len(older) != 1 || older[0].ID != "8" {
		t.Fatalf("unexpected page: %+v", older)
	}
}

func TestService_ToggleFavourite(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, &fakeRepo{}, nil)

	updated, err := svc.ToggleFavourite(context.Background(), mastodon.Status{ID: "5"})
	if err != nil {
		t.Fatalf("ToggleFavourite returned error: %v", err)
	}
	if !updated.Favourited {
		t.Fatal("expected favourited status")
	}

	updated, err = svc.ToggleFavourite(context.Background(), updated)
	if err != nil {
		t.Fatalf("ToggleFavourite returned error: %v", err)
	}
	if updated.Favourited {
		t.Fatal("expected unfavourited status")
	}

	want := []string{"favourite:5", "unfavourite:5"}
	if len(client.calls) != 2 || client.calls[0] != want[0] || client.calls[1] != want[1] {
		t.Fatalf("unexpected calls: %v", client.calls)
	}
}

func TestService_ToggleReblog_UnwrapsServerResponse(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, &fakeRepo{}, nil)

	updated, err := svc.ToggleReblog(context.Background(), mastodon.Status{ID: "5"})
	if err != nil {
		t.Fatalf("ToggleReblog returned error: %v", err)
	}
	if updated.ID != "5" || !updated.Reblogged {
		t.Fatalf("expected inner reblogged status, got %+v", updated)
	}

	if _, err := svc.ToggleReblog(context.Background(), updated); err != nil {
		t.Fatalf("ToggleReblog returned error: %v", err)
	}
	if client.calls[1] != "unreblog:5" {
		t.Fatalf("unexpected calls: %v", client.calls)
	}
}

func TestService_ToggleFavourite_PropagatesError(t *testing.T) {
	svc := NewService(&fakeClient{err: errors.New("boom")}, &fakeRepo{}, nil)
	if _, err := svc.ToggleFavourite(context.Background(), mastodon.Status{ID: "1"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestService_Translate(t *testing.T) {
	client := &fakeClient{translation: mastodon.Translation{Content: "<p>Hello</p>", Language: "en"}}
	svc := NewService(client, &fakeRepo{}, nil)

	translation, err := svc.Translate(context.Background(), "3")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if translation.Language != "en" {
		t.Fatalf("unexpected translation: %+v", translation)
	}
}

func TestService_UIPreferencesRoundTrip(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(&fakeClient{}, repo, nil)
	ctx := context.Background()
	defaults := UIPreferences{DisplayMedia: status.DisplayMediaDefault}

	prefs, err := svc.LoadUIPreferences(ctx, defaults)
	if err != nil {
		t.Fatalf("LoadUIPreferences returned error: %v", err)
	}
	if prefs != defaults {
		t.Fatalf("expected defaults without stored values, got %+v", prefs)
	}

	stored := UIPreferences{DisplayMedia: status.DisplayMediaShowAll, ExpandSpoilers: true}
	if err := svc.SaveUIPreferences(ctx, stored); err != nil {
		t.Fatalf("SaveUIPreferences returned error: %v", err)
	}

	prefs, err = svc.LoadUIPreferences(ctx, defaults)
	if err != nil {
		t.Fatalf("LoadUIPreferences returned error: %v", err)
	}
	if prefs != stored {
		t.Fatalf("unexpected preferences: %+v", prefs)
	}
}

func TestService_LoadUIPreferences_IgnoresInvalidValues(t *testing.T) {
	repo := &fakeRepo{prefs: map[string]string{
		prefDisplayMedia:   "sometimes",
		prefExpandSpoilers: "perhaps",
	}}
	svc := NewService(&fakeClient{}, repo, nil)
	defaults := UIPreferences{DisplayMedia: status.DisplayMediaHideAll, ExpandSpoilers: true}

	prefs, err := svc.LoadUIPreferences(context.Background(), defaults)
	if err != nil {
		t.Fatalf("LoadUIPreferences returned error: %v", err)
	}
	if prefs != defaults {
		t.Fatalf("expected defaults, got %+v", prefs)
	}
}
