package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/fedi-cli/internal/app"
	"github.com/glabrego/fedi-cli/internal/mastodon"
	"github.com/glabrego/fedi-cli/internal/render/content"
	"github.com/glabrego/fedi-cli/internal/status"
	tuiactions "github.com/glabrego/fedi-cli/internal/tui/actions"
	"github.com/glabrego/fedi-cli/internal/tui/keymap"
	"github.com/glabrego/fedi-cli/internal/tui/platform"
	tuistate "github.com/glabrego/fedi-cli/internal/tui/state"
	tuitheme "github.com/glabrego/fedi-cli/internal/tui/theme"
	tuiview "github.com/glabrego/fedi-cli/internal/tui/view"
)

const (
	defaultPerPage   = 20
	detailMargin     = 2
	chromeLines      = 6
	previewTimeout   = 10 * time.Second
	defaultBodyWidth = 100
)

var (
	noticeLifetime  = 3 * time.Second
	warningLifetime = 4 * time.Second
)

type Service = tuiactions.Service

// Options configures a Model. IsMuted is consulted with both the boosting
// and the boosted account.
type Options struct {
	Instance   string
	Status     status.Options
	IsMuted    func(acct string) bool
	MutedCount int
}

type clearNoticeMsg struct {
	id int
}

type mediaPreviewMsg struct {
	statusID string
	index    int
	raw      string
	err      error
}

type Model struct {
	service  Service
	statuses []mastodon.Status
	cursor   int
	registry *status.Registry
	keys     keymap.Keymap
	theme    tuitheme.Theme

	instance   string
	isMuted    func(string) bool
	mutedCount int
	perPage    int

	showHelp  bool
	inDetail  bool
	detailTop int
	width     int
	height    int
	loading   bool
	notice    string
	noticeID  int
	err       error

	openURLFn     func(string) error
	copyFn        func(string) error
	nowFn         func() time.Time
	renderMediaFn func(context.Context, string, int) (string, error)

	preview map[string]tuiview.MediaPreviewState
	pip     map[string]bool

	cacheLoadDuration      time.Duration
	cacheLoadedStatuses    int
	initialRefreshDuration time.Duration
	initialRefreshDone     bool
	initialRefreshFailed   bool
}

func NewModel(service Service, statuses []mastodon.Status, opts Options) Model {
	isMuted := opts.IsMuted
	if isMuted == nil {
		isMuted = func(string) bool { return false }
	}
	m := Model{
		service:       service,
		statuses:      append([]mastodon.Status(nil), statuses...),
		registry:      status.NewRegistry(opts.Status),
		keys:          keymap.Default(),
		theme:         tuitheme.Default(),
		instance:      strings.TrimRight(opts.Instance, "/"),
		isMuted:       isMuted,
		mutedCount:    opts.MutedCount,
		perPage:       defaultPerPage,
		openURLFn:     platform.OpenURLInBrowser,
		copyFn:        platform.CopyToClipboard,
		nowFn:         time.Now,
		renderMediaFn: tuiview.NewMediaPreviewer().Render,
		preview:       make(map[string]tuiview.MediaPreviewState),
		pip:           make(map[string]bool),
	}
	m.cursor = m.nearestVisible(0)
	return m
}

func (m Model) Init() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return tuiactions.RefreshCmd(m.service, m.perPage, "init")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if nm, ok := next.(Model); ok {
		nm.retainWindow()
		return nm, cmd
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tuiactions.RefreshSuccessMsg:
		anchorID := m.anchorID()
		m.loading = false
		m.err = nil
		m.statuses = msg.Statuses
		clear(m.pip)
		m.restoreSelection(anchorID)
		if msg.Source == "init" {
			m.initialRefreshDuration = msg.Duration
			m.initialRefreshDone = true
			m.initialRefreshFailed = false
		}
		return m, nil
	case tuiactions.RefreshErrorMsg:
		m.loading = false
		m.notice = ""
		m.err = msg.Err
		if msg.Source == "init" {
			m.initialRefreshDuration = msg.Duration
			m.initialRefreshDone = true
			m.initialRefreshFailed = true
		}
		return m, nil
	case tuiactions.LoadMoreSuccessMsg:
		m.loading = false
		m.err = nil
		added := m.appendStatuses(msg.Statuses)
		if added == 0 {
			return m.flash("No more statuses", noticeLifetime)
		}
		return m.flash(fmt.Sprintf("Loaded %d more", added), noticeLifetime)
	case tuiactions.LoadMoreErrorMsg:
		m.loading = false
		m.notice = ""
		m.err = msg.Err
		return m, nil
	case tuiactions.StatusUpdatedMsg:
		m.loading = false
		m.err = nil
		tuistate.ReplaceEffective(m.statuses, msg.Status)
		return m.flash(msg.Notice, noticeLifetime)
	case tuiactions.ToggleActionErrorMsg:
		m.loading = false
		m.notice = ""
		m.err = msg.Err
		return m, nil
	case tuiactions.TranslateSuccessMsg:
		m.loading = false
		m.err = nil
		tr := msg.Translation
		tuistate.SetTranslation(m.statuses, msg.StatusID, &tr)
		notice := "Translated"
		if tr.DetectedSourceLanguage != "" {
			notice = fmt.Sprintf("Translated from %s", tr.DetectedSourceLanguage)
		}
		return m.flash(notice, noticeLifetime)
	case tuiactions.TranslateErrorMsg:
		m.loading = false
		m.notice = ""
		m.err = fmt.Errorf("translate status %s: %w", msg.StatusID, msg.Err)
		return m, nil
	case tuiactions.PreferencesSavedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.notice = "Could not persist UI preferences"
		}
		return m, nil
	case tuiactions.OpenURLSuccessMsg:
		m.err = nil
		return m.flash(msg.Notice, noticeLifetime)
	case tuiactions.OpenURLErrorMsg:
		m.err = nil
		return m.flash(msg.Err.Error(), warningLifetime)
	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil
	case mediaPreviewMsg:
		p := m.preview[msg.statusID]
		if p.Index != msg.index {
			return m, nil
		}
		p.Loading = false
		p.Raw = msg.raw
		p.Err = ""
		if msg.err != nil {
			p.Raw = ""
			p.Err = msg.err.Error()
		}
		m.preview[msg.statusID] = p
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "?" {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		switch key {
		case "esc":
			m.showHelp = false
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "R":
		if m.service == nil {
			return m, nil
		}
		m.loading = true
		m.notice = ""
		m.err = nil
		return m, tuiactions.RefreshCmd(m.service, m.refreshLimit(), "manual")
	case "D":
		opts := m.registry.Options()
		opts.DisplayMedia = opts.DisplayMedia.Next()
		return m.reconfigure(opts, "Display media: "+string(opts.DisplayMedia))
	case "S":
		opts := m.registry.Options()
		opts.ExpandSpoilers = !opts.ExpandSpoilers
		notice := "Content warnings: collapsed"
		if opts.ExpandSpoilers {
			notice = "Content warnings: expanded"
		}
		return m.reconfigure(opts, notice)
	case "y":
		ctrl := m.currentController()
		if ctrl == nil || ctrl.Suppressed() {
			return m, nil
		}
		return m, tuiactions.CopyTextCmd(ctrl.ScreenReaderSummary(), "Summary", m.copyFn)
	case "c":
		return m.toggleContentWarning()
	case "F":
		return m.toggleFilterOverride()
	}

	if m.inDetail {
		switch key {
		case "esc", "backspace":
			m.inDetail = false
			m.detailTop = 0
			return m, nil
		case "up", "k":
			if m.detailTop > 0 {
				m.detailTop--
			}
			return m, nil
		case "down", "j":
			maxTop := tuiview.DetailMaxTop(len(m.detailLines()), m.detailBodyHeight())
			if m.detailTop < maxTop {
				m.detailTop++
			}
			return m, nil
		case "[":
			return m.dispatch(status.CommandMoveUp, status.Activation{})
		case "]":
			return m.dispatch(status.CommandMoveDown, status.Activation{})
		}
	} else {
		switch key {
		case "pgup", "ctrl+b":
			m.moveBy(-m.listPageStep())
			return m, nil
		case "pgdown", "ctrl+f":
			m.moveBy(m.listPageStep())
			return m, nil
		case "g":
			m.cursor = m.nearestVisible(0)
			return m, nil
		case "G":
			m.cursor = m.nearestVisible(len(m.statuses) - 1)
			return m, nil
		case "n":
			return m.loadMore()
		}
	}

	cmd, ok := m.keys.Lookup(msg)
	if !ok {
		return m, nil
	}
	act := status.Activation{}
	if cmd == status.CommandOpenMedia {
		act.MediaIndex = m.nextMediaIndex()
	}
	return m.dispatch(cmd, act)
}

// toggleContentWarning opens or closes the spoiler gate alone, leaving the
// filter gate as it is.
func (m Model) toggleContentWarning() (tea.Model, tea.Cmd) {
	ctrl := m.currentController()
	if ctrl == nil || ctrl.Suppressed() {
		return m, nil
	}
	if m.guard(ctrl).Muted {
		return m.flash("Account is muted", noticeLifetime)
	}
	if !ctrl.State().HasSpoiler() {
		return m.flash("No content warning", noticeLifetime)
	}
	ctrl.ToggleContentWarning()
	if ctrl.State().ContentWarningOpen() {
		return m.flash("Content warning: shown", noticeLifetime)
	}
	return m.flash("Content warning: hidden", noticeLifetime)
}

func (m Model) toggleFilterOverride() (tea.Model, tea.Cmd) {
	ctrl := m.currentController()
	if ctrl == nil || ctrl.Suppressed() {
		return m, nil
	}
	if m.guard(ctrl).Muted {
		return m.flash("Account is muted", noticeLifetime)
	}
	if !ctrl.State().MatchedFilters() {
		return m.flash("Status is not filtered", noticeLifetime)
	}
	ctrl.ToggleFilterOverride()
	if ctrl.State().FilterOverride().Revealed() {
		return m.flash("Filtered status: shown anyway", noticeLifetime)
	}
	return m.flash("Filtered status: hidden", noticeLifetime)
}

func (m Model) reconfigure(opts status.Options, notice string) (tea.Model, tea.Cmd) {
	m.registry.Reconfigure(opts)
	m.err = nil
	m.notice = notice
	m.noticeID++
	cmds := []tea.Cmd{clearNoticeCmd(m.noticeID, noticeLifetime)}
	if m.service != nil {
		cmds = append(cmds, tuiactions.SavePreferencesCmd(m.service, m.preferences()))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) loadMore() (tea.Model, tea.Cmd) {
	if m.service == nil || len(m.statuses) == 0 || m.loading {
		return m, nil
	}
	m.loading = true
	m.notice = ""
	m.err = nil
	maxID := m.statuses[len(m.statuses)-1].ID
	return m, tuiactions.LoadMoreCmd(m.service, maxID, m.perPage)
}

func (m Model) flash(notice string, lifetime time.Duration) (tea.Model, tea.Cmd) {
	m.notice = notice
	m.noticeID++
	return m, clearNoticeCmd(m.noticeID, lifetime)
}

func clearNoticeCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearNoticeMsg{id: id}
	})
}

func mediaPreviewCmd(statusID string, index int, url string, width int, renderFn func(context.Context, string, int) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), previewTimeout)
		defer cancel()

		raw, err := renderFn(ctx, url, width)
		return mediaPreviewMsg{statusID: statusID, index: index, raw: raw, err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder
	mode := "timeline"
	if m.inDetail {
		mode = "status"
	}
	b.WriteString(m.theme.Title.Render("fedi") + " " + m.theme.ModePill.Render(mode) + "\n")
	if m.showHelp {
		b.WriteString("Help (? to close)\n\n")
		b.WriteString(m.helpView())
	} else {
		b.WriteString(m.theme.Muted.Render(tuiview.Toolbar(m.inDetail)) + "\n\n")
		if m.inDetail {
			b.WriteString(m.detailView())
		} else {
			b.WriteString(m.timelineView())
		}
	}
	b.WriteString("\n")
	b.WriteString(tuiview.CompactMessage(m.loading, m.err != nil, m.notice, m.warning(), m.theme))
	b.WriteString("\n")
	b.WriteString(tuiview.Footer(m.footerParams(), m.theme))
	b.WriteString("\n")
	return b.String()
}

func (m Model) timelineView() string {
	if len(m.statuses) == 0 {
		if m.loading {
			return "Loading timeline...\n"
		}
		return "No statuses yet. Press R to refresh.\n"
	}
	maxLines := m.listBodyHeight()
	start := m.windowStart(maxLines)
	body, _ := tuiview.RenderTimelineBody(tuiview.TimelineRenderInput{
		Count:       len(m.statuses),
		Start:       start,
		Cursor:      m.cursor,
		MaxLines:    maxLines,
		RenderBlock: m.renderBlock,
	})
	return body
}

// retainWindow releases the controllers of statuses outside the list window
// the next View will render. View also measures one status past each edge of
// the window, and the selected status is always kept.
func (m Model) retainWindow() {
	if len(m.statuses) == 0 {
		m.registry.Retain(nil)
		return
	}
	maxLines := m.listBodyHeight()
	start := m.windowStart(maxLines)
	_, end := tuiview.RenderTimelineBody(tuiview.TimelineRenderInput{
		Count:       len(m.statuses),
		Start:       start,
		Cursor:      m.cursor,
		MaxLines:    maxLines,
		RenderBlock: m.renderBlock,
	})
	from, to := max(start-1, 0), min(end+1, len(m.statuses))
	ids := make([]string, 0, to-from+1)
	for i := from; i < to; i++ {
		ids = append(ids, m.statuses[i].ID)
	}
	ids = append(ids, m.statuses[tuistate.ClampCursor(m.cursor, len(m.statuses))].ID)
	m.registry.Retain(ids)
}

// windowStart walks back from the cursor while the blocks above it fit in
// the upper half of the body.
func (m Model) windowStart(maxLines int) int {
	if maxLines <= 0 {
		return 0
	}
	start := m.cursor
	used := len(m.renderBlock(m.cursor, true))
	for start > 0 {
		h := len(m.renderBlock(start-1, false))
		if h == 0 {
			start--
			continue
		}
		if used+h+1 > maxLines/2 {
			break
		}
		used += h + 1
		start--
	}
	return start
}

func (m Model) renderBlock(i int, active bool) []string {
	ctrl := m.registry.Bind(&m.statuses[i])
	eff := ctrl.Effective()
	return tuiview.RenderStatusBlock(tuiview.StatusBlockParams{
		Ctrl:             ctrl,
		Now:              m.nowFn(),
		Width:            m.contentWidth(),
		Active:           active,
		Links:            status.Links(eff, tuistate.Neighbours(m.statuses, i)),
		PictureInPicture: eff != nil && m.pip[eff.ID],
	}, m.theme)
}

func (m Model) detailView() string {
	lines := m.detailLines()
	if len(lines) == 0 {
		return "No status selected.\n"
	}
	return tuiview.RenderDetailLines(lines, m.detailTop, m.detailBodyHeight())
}

func (m Model) detailLines() []string {
	ctrl := m.currentController()
	if ctrl == nil {
		return nil
	}
	width := m.contentWidth() - 2*detailMargin
	return tuiview.DetailLines(ctrl, width, detailMargin, content.Wrap, m.previewState(ctrl))
}

func (m Model) previewState(ctrl *status.Controller) tuiview.MediaPreviewState {
	eff := ctrl.Effective()
	if eff == nil || !ctrl.MediaRevealed() {
		return tuiview.MediaPreviewState{}
	}
	p, ok := m.preview[eff.ID]
	if !ok {
		return tuiview.MediaPreviewState{}
	}
	p.Enabled = true
	return p
}

func (m Model) currentController() *status.Controller {
	if len(m.statuses) == 0 {
		return nil
	}
	i := tuistate.ClampCursor(m.cursor, len(m.statuses))
	return m.registry.Bind(&m.statuses[i])
}

func (m Model) warning() string {
	if m.err == nil {
		return ""
	}
	return m.err.Error()
}

func (m Model) footerParams() tuiview.FooterParams {
	opts := m.registry.Options()
	position := 0
	if len(m.statuses) > 0 {
		position = m.cursor + 1
	}
	return tuiview.FooterParams{
		Instance:       m.instance,
		DisplayMedia:   string(opts.DisplayMedia),
		ExpandSpoilers: opts.ExpandSpoilers,
		Shown:          len(m.statuses),
		Position:       position,
		Muted:          m.mutedCount,
	}
}

func (m Model) startupMetrics() string {
	cachePart := "cache n/a"
	if m.cacheLoadDuration > 0 || m.cacheLoadedStatuses > 0 {
		cachePart = fmt.Sprintf("cache %dms (%d statuses)", m.cacheLoadDuration.Milliseconds(), m.cacheLoadedStatuses)
	}
	refreshPart := "initial refresh pending"
	if m.initialRefreshDone {
		if m.initialRefreshFailed {
			refreshPart = fmt.Sprintf("initial refresh failed in %dms", m.initialRefreshDuration.Milliseconds())
		} else {
			refreshPart = fmt.Sprintf("initial refresh %dms", m.initialRefreshDuration.Milliseconds())
		}
	}
	return cachePart + ", " + refreshPart
}

func (m Model) helpView() string {
	lines := []string{"Status:"}
	for _, b := range m.keys.Bindings() {
		h := b.Key.Help()
		lines = append(lines, fmt.Sprintf("  %-10s %s", h.Key, h.Desc))
	}
	lines = append(lines,
		"Timeline:",
		"  g/G jump top/bottom, pgup/pgdown jump page, n load older, R refresh",
		"  y copy a spoken summary of the status",
		"  c show/hide content warning only, F show filtered status anyway",
		"Detail:",
		"  j/k scroll, [ ] previous/next status, esc/backspace back",
		"Preferences:",
		"  D cycle display media, S expand content warnings by default",
		"Startup:",
		"  "+m.startupMetrics(),
	)
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width - 1
	}
	return defaultBodyWidth
}

func (m Model) listBodyHeight() int {
	if m.height <= 0 {
		return 0
	}
	if h := m.height - chromeLines; h > 3 {
		return h
	}
	return 3
}

func (m Model) detailBodyHeight() int {
	if m.height > 0 {
		if h := m.height - chromeLines; h > 3 {
			return h
		}
		return 3
	}
	return 20
}

func (m Model) listPageStep() int {
	step := tuistate.PageStep(m.height, m.notice != "") / 5
	if step < 1 {
		return 1
	}
	return step
}

func (m Model) refreshLimit() int {
	if len(m.statuses) > m.perPage {
		return len(m.statuses)
	}
	return m.perPage
}

func (m Model) preferences() app.UIPreferences {
	opts := m.registry.Options()
	return app.UIPreferences{
		DisplayMedia:   opts.DisplayMedia,
		ExpandSpoilers: opts.ExpandSpoilers,
	}
}

func (m Model) anchorID() string {
	if len(m.statuses) == 0 {
		return ""
	}
	return m.statuses[tuistate.ClampCursor(m.cursor, len(m.statuses))].ID
}

func (m *Model) restoreSelection(anchorID string) {
	if idx := tuistate.StatusIndexByID(m.statuses, anchorID); anchorID != "" && idx >= 0 {
		m.cursor = idx
	}
	m.cursor = m.nearestVisible(tuistate.ClampCursor(m.cursor, len(m.statuses)))
	if len(m.statuses) == 0 {
		m.inDetail = false
		m.detailTop = 0
	}
}

func (m *Model) appendStatuses(more []mastodon.Status) int {
	added := 0
	for _, s := range more {
		if tuistate.StatusIndexByID(m.statuses, s.ID) >= 0 {
			continue
		}
		m.statuses = append(m.statuses, s)
		added++
	}
	return added
}

// visible reports whether the entry at i renders at all on this surface.
func (m Model) visible(i int) bool {
	return !status.Resolve(&m.statuses[i], m.registry.Options().Resolve).Suppressed
}

func (m Model) nearestVisible(i int) int {
	if len(m.statuses) == 0 {
		return 0
	}
	i = tuistate.ClampCursor(i, len(m.statuses))
	if m.visible(i) {
		return i
	}
	if j := tuistate.NextVisible(len(m.statuses), i, 1, m.visible); j >= 0 {
		return j
	}
	if j := tuistate.NextVisible(len(m.statuses), i, -1, m.visible); j >= 0 {
		return j
	}
	return i
}

func (m *Model) moveBy(delta int) {
	step := 1
	if delta < 0 {
		step = -1
		delta = -delta
	}
	for ; delta > 0; delta-- {
		next := tuistate.NextVisible(len(m.statuses), m.cursor, step, m.visible)
		if next < 0 {
			return
		}
		m.cursor = next
	}
}

func (m *Model) ApplyPreferences(prefs app.UIPreferences) {
	opts := m.registry.Options()
	opts.DisplayMedia = prefs.DisplayMedia
	opts.ExpandSpoilers = prefs.ExpandSpoilers
	m.registry.Reconfigure(opts)
}

func (m *Model) SetStartupCacheStats(duration time.Duration, statuses int) {
	m.cacheLoadDuration = duration
	m.cacheLoadedStatuses = statuses
}
