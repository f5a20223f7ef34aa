package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/fedi-cli/internal/app"
	"github.com/glabrego/fedi-cli/internal/mastodon"
	"github.com/glabrego/fedi-cli/internal/status"
	tuiactions "github.com/glabrego/fedi-cli/internal/tui/actions"
)

var ansiStrip = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type fakeService struct {
	statuses    []mastodon.Status
	older       []mastodon.Status
	err         error
	toggled     mastodon.Status
	translation mastodon.Translation

	favourited []string
	reblogged  []string
	translated []string
	maxIDs     []string
	saved      []app.UIPreferences
}

func (f *fakeService) Refresh(context.Context, int) ([]mastodon.Status, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.statuses, nil
}

func (f *fakeService) LoadMore(_ context.Context, maxID string, _ int) ([]mastodon.Status, error) {
	f.maxIDs = append(f.maxIDs, maxID)
	if f.err != nil {
		return nil, f.err
	}
	return f.older, nil
}

func (f *fakeService) ToggleFavourite(_ context.Context, target mastodon.Status) (mastodon.Status, error) {
	f.favourited = append(f.favourited, target.ID)
	if f.err != nil {
		return mastodon.Status{}, f.err
	}
	return f.toggled, nil
}

func (f *fakeService) ToggleReblog(_ context.Context, target mastodon.Status) (mastodon.Status, error) {
	f.reblogged = append(f.reblogged, target.ID)
	if f.err != nil {
		return mastodon.Status{}, f.err
	}
	return f.toggled, nil
}

func (f *fakeService) Translate(_ context.Context, id string) (mastodon.Translation, error) {
	f.translated = append(f.translated, id)
	if f.err != nil {
		return mastodon.Translation{}, f.err
	}
	return f.translation, nil
}

func (f *fakeService) SaveUIPreferences(_ context.Context, prefs app.UIPreferences) error {
	f.saved = append(f.saved, prefs)
	return nil
}

var testNow = time.Date(2026, 2, 11, 16, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	noticeLifetime = time.Millisecond
	warningLifetime = time.Millisecond
	os.Exit(m.Run())
}

func sampleStatuses() []mastodon.Status {
	return []mastodon.Status{
		{
			ID:         "3",
			CreatedAt:  testNow.Add(-time.Hour),
			Visibility: mastodon.VisibilityPublic,
			URL:        "https://mastodon.example/@alice/3",
			Account:    mastodon.Account{ID: "a", Acct: "alice", DisplayName: "Alice"},
			Content:    "<p>First post</p>",
		},
		{
			ID:         "2",
			CreatedAt:  testNow.Add(-2 * time.Hour),
			Visibility: mastodon.VisibilityPublic,
			Account:    mastodon.Account{ID: "b", Acct: "bob", DisplayName: "Bob"},
			Reblog: &mastodon.Status{
				ID:          "20",
				CreatedAt:   testNow.Add(-3 * time.Hour),
				Visibility:  mastodon.VisibilityPublic,
				URL:         "https://remote.example/@carol/20",
				Account:     mastodon.Account{ID: "c", Acct: "carol@remote.example", DisplayName: "Carol"},
				Content:     "<p>Boosted body</p>",
				Language:    "de",
				SpoilerText: "spoilers",
			},
		},
		{
			ID:         "1",
			CreatedAt:  testNow.Add(-4 * time.Hour),
			Visibility: mastodon.VisibilityPublic,
			Account:    mastodon.Account{ID: "d", Acct: "dave", DisplayName: "Dave"},
			Content:    "<p>Oldest post</p>",
			MediaAttachments: []mastodon.Attachment{
				{ID: "m1", Type: mastodon.MediaImage, URL: "https://files.example/1.png", PreviewURL: "https://files.example/1s.png"},
				{ID: "m2", Type: mastodon.MediaImage, URL: "https://files.example/2.png"},
			},
		},
	}
}

func newTestModel(svc Service, statuses []mastodon.Status) Model {
	m := NewModel(svc, statuses, Options{
		Instance: "https://mastodon.example",
		Status:   status.Options{DisplayMedia: status.DisplayMediaDefault},
	})
	m.nowFn = func() time.Time { return testNow }
	m.openURLFn = func(string) error { return nil }
	m.copyFn = func(string) error { return nil }
	m.renderMediaFn = func(context.Context, string, int) (string, error) { return "[image]", nil }
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var updated tea.Model
		updated, cmd = m.Update(key(k))
		m = updated.(Model)
	}
	return m, cmd
}

// collect runs cmd and flattens batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func firstMsg[T any](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	for _, msg := range collect(cmd) {
		if typed, ok := msg.(T); ok {
			return typed
		}
	}
	var zero T
	t.Fatalf("expected %T among command messages", zero)
	return zero
}

func TestModelView_ShowsStatuses(t *testing.T) {
	m := newTestModel(nil, sampleStatuses())
	view := ansiStrip.ReplaceAllString(m.View(), "")

	for _, want := range []string{"Alice", "@alice", "First post", "⇄ Bob boosted", "CW: spoilers", "1/3"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view, got:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Boosted body") {
		t.Fatalf("expected collapsed content warning to hide body:\n%s", view)
	}
	if !strings.Contains(view, "> ") {
		t.Fatalf("expected cursor marker in view:\n%s", view)
	}
}

func TestModelView_Empty(t *testing.T) {
	m := newTestModel(nil, nil)
	if view := m.View(); !strings.Contains(view, "No statuses yet") {
		t.Fatalf("expected empty hint, got:\n%s", view)
	}
}

func TestModel_SkipsSuppressedDirectMessages(t *testing.T) {
	statuses := append([]mastodon.Status{{
		ID:         "9",
		Visibility: mastodon.VisibilityDirect,
		Account:    mastodon.Account{Acct: "eve"},
		Content:    "<p>secret</p>",
	}}, sampleStatuses()...)

	m := newTestModel(nil, statuses)
	if m.cursor != 1 {
		t.Fatalf("expected cursor to skip the direct message, got %d", m.cursor)
	}
	if view := m.View(); strings.Contains(view, "secret") {
		t.Fatalf("expected direct message to be suppressed:\n%s", view)
	}

	m, _ = press(t, m, "k")
	if m.cursor != 1 {
		t.Fatalf("expected cursor to stay on first visible entry, got %d", m.cursor)
	}
}

func TestModelUpdate_MoveAndOpenDetail(t *testing.T) {
	m := newTestModel(nil, sampleStatuses())

	m, _ = press(t, m, "j")
	if m.cursor != 1 {
		t.Fatalf("expected cursor at 1, got %d", m.cursor)
	}
	m, _ = press(t, m, "down", "j")
	if m.cursor != 2 {
		t.Fatalf("expected cursor to stop at the last entry, got %d", m.cursor)
	}
	m, _ = press(t, m, "k")
	if m.cursor != 1 {
		t.Fatalf("expected cursor at 1, got %d", m.cursor)
	}

	m, _ = press(t, m, "enter")
	if !m.inDetail {
		t.Fatal("expected detail view after enter")
	}
	view := ansiStrip.ReplaceAllString(m.View(), "")
	if !strings.Contains(view, "CW: spoilers") || strings.Contains(view, "Boosted body") {
		t.Fatalf("expected collapsed content warning in detail:\n%s", view)
	}

	m, _ = press(t, m, "x")
	view = ansiStrip.ReplaceAllString(m.View(), "")
	if !strings.Contains(view, "Boosted body") {
		t.Fatalf("expected body after toggling hidden:\n%s", view)
	}

	m, _ = press(t, m, "esc")
	if m.inDetail {
		t.Fatal("expected list view after esc")
	}
	view = ansiStrip.ReplaceAllString(m.View(), "")
	if !strings.Contains(view, "Boosted body") {
		t.Fatalf("expected revealed state to survive leaving the detail view:\n%s", view)
	}
}

func TestModelUpdate_OpenInDetailGoesToBrowser(t *testing.T) {
	m := newTestModel(nil, sampleStatuses())
	var opened []string
	m.openURLFn = func(u string) error {
		opened = append(opened, u)
		return nil
	}

	m, cmd := press(t, m, "o")
	if !m.inDetail || cmd != nil {
		t.Fatalf("expected first open to enter detail view, inDetail=%v cmd=%v", m.inDetail, cmd != nil)
	}
	_, cmd = press(t, m, "o")
	firstMsg[tuiactions.OpenURLSuccessMsg](t, cmd)
	if len(opened) != 1 || opened[0] != "https://mastodon.example/@alice/3" {
		t.Fatalf("unexpected opened URLs: %v", opened)
	}
}

func TestModelUpdate_ProfileAndMentionOpenInstanceURLs(t *testing.T) {
	m := newTestModel(nil, sampleStatuses())
	var opened []string
	m.openURLFn = func(u string) error {
		opened = append(opened, u)
		return nil
	}
	m, _ = press(t, m, "j")

	_, cmd := press(t, m, "p")
	collect(cmd)
	_, cmd = press(t, m, "m")
	collect(cmd)
	_, cmd = press(t, m, "r")
	collect(cmd)

	want := []string{
		"https://mastodon.example/@carol@remote.example",
		"https://mastodon.example/share?text=%40carol%40remote.example+",
		"https://remote.example/@carol/20",
	}
	if strings.Join(opened, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected opened URLs:\n got=%v\nwant=%v", opened, want)
	}
}

func TestModelUpdate_MutedAccountIgnoresCommands(t *testing.T) {
	svc := &fakeService{}
	m := NewModel(svc, sampleStatuses(), Options{
		Instance:   "https://mastodon.example",
		IsMuted:    func(acct string) bool { return acct == "carol@remote.example" },
		MutedCount: 1,
	})
	m, _ = press(t, m, "j")

	for _, k := range []string{"f", "b", "T", "x", "c", "F"} {
		var cmd tea.Cmd
		m, cmd = press(t, m, k)
		collect(cmd)
	}
	if len(svc.favourited)+len(svc.reblogged)+len(svc.translated) != 0 {
		t.Fatalf("expected no service calls for muted account: %+v", svc)
	}
	if m.notice != "Account is muted" {
		t.Fatalf("unexpected notice: %q", m.notice)
	}
	if view := m.View(); strings.Contains(view, "Boosted body") {
		t.Fatal("expected toggleHidden to be ignored for muted account")
	}

	m, _ = press(t, m, "j")
	if m.cursor != 2 {
		t.Fatalf("expected list navigation past muted status, got %d", m.cursor)
	}
}

func TestModelUpdate_RefreshError(t *testing.T) {
	m := newTestModel(&fakeService{err: errors.New("network")}, nil)

	m, cmd := press(t, m, "R")
	if !m.loading {
		t.Fatal("expected loading state")
	}
	updated, _ := m.Update(firstMsg[tuiactions.RefreshErrorMsg](t, cmd))
	m = updated.(Model)
	if m.err == nil || m.loading {
		t.Fatalf("expected refresh error to be surfaced, err=%v loading=%v", m.err, m.loading)
	}
}

func TestModelUpdate_DisplayMediaPreferenceIsPersisted(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(svc, sampleStatuses())

	m, cmd := press(t, m, "D")
	saved := firstMsg[tuiactions.PreferencesSavedMsg](t, cmd)
	if saved.Prefs.DisplayMedia != status.DisplayMediaShowAll {
		t.Fatalf("unexpected saved display media: %q", saved.Prefs.DisplayMedia)
	}
	if got := m.registry.Options().DisplayMedia; got != status.DisplayMediaShowAll {
		t.Fatalf("expected registry reconfigured, got %q", got)
	}
	if len(svc.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(svc.saved))
	}
	if !strings.Contains(ansiStrip.ReplaceAllString(m.View(), ""), "media show_all") {
		t.Fatal("expected footer to show new display media")
	}
}

func TestModelUpdate_ApplyPreferences(t *testing.T) {
	m := newTestModel(nil, sampleStatuses())
	m.ApplyPreferences(app.UIPreferences{DisplayMedia: status.DisplayMediaHideAll, ExpandSpoilers: true})

	view := ansiStrip.ReplaceAllString(m.View(), "")
	if !strings.Contains(view, "Boosted body") {
		t.Fatalf("expected expanded content warnings:\n%s", view)
	}
	if !strings.Contains(view, "media hidden") {
		t.Fatalf("expected hidden media label:\n%s", view)
	}
}

func TestModelUpdate_CopySummary(t *testing.T) {
	m := newTestModel(nil, sampleStatuses())
	var copied string
	m.copyFn = func(s string) error {
		copied = s
		return nil
	}

	_, cmd := press(t, m, "y")
	msg := firstMsg[tuiactions.OpenURLSuccessMsg](t, cmd)
	if msg.Notice != "Summary copied to clipboard" {
		t.Fatalf("unexpected notice: %q", msg.Notice)
	}
	if !strings.HasPrefix(copied, "Alice, First post, ") {
		t.Fatalf("unexpected summary: %q", copied)
	}
}

func TestModelUpdate_RefreshKeepsRevealedContentWarning(t *testing.T) {
	a := mastodon.Status{ID: "a", Visibility: mastodon.VisibilityPublic, SpoilerText: "cw", Content: "<p>behind cw</p>", Account: mastodon.Account{Acct: "alice"}}
	n := mastodon.Status{ID: "n", Visibility: mastodon.VisibilityPublic, Content: "<p>newer</p>", Account: mastodon.Account{Acct: "nina"}}
	m := newTestModel(&fakeService{}, []mastodon.Status{a})

	m, _ = press(t, m, "x")
	if !m.currentController().Expanded() {
		t.Fatal("expected content warning open after x")
	}

	m = apply(t, m, tuiactions.RefreshSuccessMsg{Statuses: []mastodon.Status{n, a}, Source: "manual"})
	if m.cursor != 1 || m.statuses[m.cursor].ID != "a" {
		t.Fatalf("expected selection to follow status a, got cursor %d", m.cursor)
	}
	if !m.currentController().Expanded() {
		t.Fatal("expected reveal to survive a refresh that shifts the status down")
	}
	if c, ok := m.registry.Get("n"); !ok || !c.Expanded() {
		t.Fatalf("expected fresh controller for the new status, ok=%v", ok)
	}
}

func TestModelUpdate_ContentWarningAndFilterToggleIndependently(t *testing.T) {
	filtered := mastodon.Status{
		ID:             "9",
		Visibility:     mastodon.VisibilityPublic,
		SpoilerText:    "cw",
		Content:        "<p>filtered body</p>",
		MatchedFilters: true,
		Account:        mastodon.Account{Acct: "fil"},
	}
	m := newTestModel(nil, []mastodon.Status{filtered})

	m, _ = press(t, m, "c")
	st := m.currentController().State()
	if !st.ContentWarningOpen() || !st.FilterCollapsed() || m.currentController().Expanded() {
		t.Fatalf("expected only the content warning open: %+v", st)
	}
	if m.notice != "Content warning: shown" {
		t.Fatalf("unexpected notice: %q", m.notice)
	}

	m, _ = press(t, m, "F")
	if !m.currentController().Expanded() {
		t.Fatal("expected both gates open")
	}
	if m.notice != "Filtered status: shown anyway" {
		t.Fatalf("unexpected notice: %q", m.notice)
	}

	m, _ = press(t, m, "c")
	st = m.currentController().State()
	if st.ContentWarningOpen() || !st.FilterOverride().Revealed() {
		t.Fatalf("expected content warning closed and filter still revealed: %+v", st)
	}

	m, _ = press(t, m, "F")
	if !m.currentController().State().FilterCollapsed() || m.notice != "Filtered status: hidden" {
		t.Fatalf("expected filter collapsed again, notice=%q", m.notice)
	}
}

func TestModelUpdate_GateTogglesOnPlainStatus(t *testing.T) {
	m := newTestModel(nil, sampleStatuses())

	m, _ = press(t, m, "c")
	if m.notice != "No content warning" {
		t.Fatalf("unexpected notice: %q", m.notice)
	}
	m, _ = press(t, m, "F")
	if m.notice != "Status is not filtered" {
		t.Fatalf("unexpected notice: %q", m.notice)
	}
}

func TestModelUpdate_PrunesRegistryOutsideView(t *testing.T) {
	var statuses []mastodon.Status
	for i := 40; i > 0; i-- {
		statuses = append(statuses, mastodon.Status{
			ID:         fmt.Sprintf("%d", i),
			Visibility: mastodon.VisibilityPublic,
			Content:    "<p>post</p>",
			Account:    mastodon.Account{Acct: "u"},
		})
	}
	m := newTestModel(nil, statuses)
	m = apply(t, m, tea.WindowSizeMsg{Width: 80, Height: 16})

	retained := m.registry.Len()
	if retained == 0 || retained >= len(statuses) {
		t.Fatalf("expected only the rendered window retained, got %d of %d", retained, len(statuses))
	}
	if _, ok := m.registry.Get("40"); !ok {
		t.Fatal("expected the selected status retained")
	}

	_ = m.View()
	if got := m.registry.Len(); got != retained {
		t.Fatalf("expected View to leave the registry alone, got %d want %d", got, retained)
	}

	m, _ = press(t, m, "G")
	if _, ok := m.registry.Get("40"); ok {
		t.Fatal("expected the top status released after jumping to the bottom")
	}
	if _, ok := m.registry.Get("1"); !ok {
		t.Fatal("expected the bottom status retained")
	}
}
