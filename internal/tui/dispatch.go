package tui

import (
	"fmt"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/fedi-cli/internal/mastodon"
	"github.com/glabrego/fedi-cli/internal/status"
	tuiactions "github.com/glabrego/fedi-cli/internal/tui/actions"
	"github.com/glabrego/fedi-cli/internal/tui/platform"
	tuistate "github.com/glabrego/fedi-cli/internal/tui/state"
	tuiview "github.com/glabrego/fedi-cli/internal/tui/view"
)

// dispatch runs cmd against the status under the cursor. Callbacks only
// queue effects; the queued commands are returned as one batch.
func (m Model) dispatch(cmd status.Command, act status.Activation) (tea.Model, tea.Cmd) {
	ctrl := m.currentController()
	if ctrl == nil {
		return m, nil
	}
	var effects []tea.Cmd
	guard := m.guard(ctrl)
	d := status.NewDispatcher(ctrl, m.callbacks(&effects), &navigator{m: &m, effects: &effects}, guard)
	if d.Dispatch(cmd, act) {
		return m, tea.Batch(effects...)
	}
	// List navigation belongs to the timeline, not to the status's command
	// table, so the cursor still moves off a status whose table is empty.
	switch cmd {
	case status.CommandMoveUp:
		m.moveBy(-1)
		return m, nil
	case status.CommandMoveDown:
		m.moveBy(1)
		return m, nil
	}
	if guard.Muted {
		return m.flash("Account is muted", noticeLifetime)
	}
	return m, nil
}

func (m *Model) guard(ctrl *status.Controller) status.Guard {
	if raw := ctrl.Raw(); raw != nil && m.isMuted(raw.Account.Acct) {
		return status.Guard{Muted: true}
	}
	if eff := ctrl.Effective(); eff != nil && m.isMuted(eff.Account.Acct) {
		return status.Guard{Muted: true}
	}
	return status.Guard{}
}

func (m *Model) callbacks(effects *[]tea.Cmd) status.Callbacks {
	queue := func(c tea.Cmd) {
		if c != nil {
			*effects = append(*effects, c)
		}
	}
	cb := status.Callbacks{
		Reply: func(s *mastodon.Status) {
			target := s.URL
			if target == "" {
				target = m.instance + status.StatusPath(s)
			}
			queue(m.openURL(target))
		},
		Mention: func(account mastodon.Account) {
			queue(m.openURL(m.instance + "/share?text=" + url.QueryEscape("@"+account.Acct+" ")))
		},
		MoveUp: func(id string, _ bool) {
			m.moveFrom(id, -1)
		},
		MoveDown: func(id string, _ bool) {
			m.moveFrom(id, 1)
		},
		OpenMedia: func(statusID string, media []mastodon.Attachment, index int, lang string) {
			queue(m.openMedia(statusID, media, index, lang))
		},
		OpenVideo: func(statusID string, media mastodon.Attachment, _ string, _ status.VideoOptions) {
			m.pip[statusID] = true
			queue(m.openURL(media.URL))
		},
	}
	if m.service == nil {
		return cb
	}
	cb.Favourite = func(s *mastodon.Status) {
		m.loading = true
		queue(tuiactions.ToggleFavouriteCmd(m.service, *s))
	}
	cb.Boost = func(s *mastodon.Status, _ status.Activation) {
		m.loading = true
		queue(tuiactions.ToggleReblogCmd(m.service, *s))
	}
	cb.Translate = func(s *mastodon.Status) {
		if s.Translation != nil {
			tuistate.SetTranslation(m.statuses, s.ID, nil)
			m.notice = "Showing original"
			return
		}
		m.loading = true
		queue(tuiactions.TranslateCmd(m.service, s.ID))
	}
	return cb
}

func (m *Model) openURL(raw string) tea.Cmd {
	valid, err := platform.ValidateURL(raw)
	if err != nil {
		m.err = nil
		m.notice = err.Error()
		m.noticeID++
		return clearNoticeCmd(m.noticeID, warningLifetime)
	}
	return tuiactions.OpenURLCmd(valid, m.openURLFn, m.copyFn)
}

// moveFrom moves the cursor from the entry with the given raw ID to the
// next entry that renders.
func (m *Model) moveFrom(id string, step int) {
	from := -1
	for i := range m.statuses {
		if m.statuses[i].ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return
	}
	m.cursor = from
	m.moveBy(step)
	if m.cursor != from {
		m.detailTop = 0
	}
}

func (m *Model) openMedia(statusID string, media []mastodon.Attachment, index int, lang string) tea.Cmd {
	if index < 0 || index >= len(media) {
		index = 0
	}
	m.inDetail = true
	m.detailTop = 0
	att := media[index]
	notice := fmt.Sprintf("Viewing media %d/%d", index+1, len(media))
	if lang != "" {
		notice += " (" + lang + ")"
	}
	m.notice = notice

	previewURL := att.PreviewURL
	if previewURL == "" {
		previewURL = att.URL
	}
	if att.Type != mastodon.MediaImage && att.Type != mastodon.MediaGIFV {
		return m.openURL(att.URL)
	}
	if m.renderMediaFn == nil || previewURL == "" {
		return nil
	}
	if p, ok := m.preview[statusID]; ok && p.Index == index && (p.Loading || p.Raw != "") {
		return nil
	}
	m.preview[statusID] = tuiview.MediaPreviewState{Loading: true, Index: index}
	return mediaPreviewCmd(statusID, index, previewURL, m.contentWidth()-2*detailMargin, m.renderMediaFn)
}

// nextMediaIndex cycles through the attachments of the current status
// while its preview is open.
func (m Model) nextMediaIndex() int {
	ctrl := m.currentController()
	if ctrl == nil || ctrl.Effective() == nil {
		return 0
	}
	eff := ctrl.Effective()
	p, ok := m.preview[eff.ID]
	if !ok || !m.inDetail || len(eff.MediaAttachments) == 0 {
		return 0
	}
	return (p.Index + 1) % len(eff.MediaAttachments)
}

// navigator maps in-app navigation onto the terminal: the selected
// status opens in the detail view, everything else goes to the browser.
type navigator struct {
	m       *Model
	effects *[]tea.Cmd
}

func (n *navigator) Push(path string) {
	ctrl := n.m.currentController()
	if ctrl != nil && ctrl.Effective() != nil && path == status.StatusPath(ctrl.Effective()) {
		if !n.m.inDetail {
			n.m.inDetail = true
			n.m.detailTop = 0
			return
		}
	}
	n.OpenNew(path)
}

func (n *navigator) OpenNew(path string) {
	if c := n.m.openURL(n.m.instance + path); c != nil {
		*n.effects = append(*n.effects, c)
	}
}
