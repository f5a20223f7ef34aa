package view

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/glabrego/fedi-cli/internal/mastodon"
	"github.com/glabrego/fedi-cli/internal/render/content"
	"github.com/glabrego/fedi-cli/internal/status"
	tuitheme "github.com/glabrego/fedi-cli/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

const blockIndent = 2

type StatusBlockParams struct {
	Ctrl             *status.Controller
	Now              time.Time
	Width            int
	Active           bool
	Links            status.ThreadLinks
	PictureInPicture bool
}

// RenderStatusBlock renders the lines of one timeline slot. A suppressed
// slot renders nothing.
func RenderStatusBlock(p StatusBlockParams, th tuitheme.Theme) []string {
	if p.Ctrl == nil || p.Ctrl.Suppressed() {
		return nil
	}
	s := p.Ctrl.Effective()
	vis := p.Ctrl.State()
	res := p.Ctrl.Resolution()
	width := p.Width
	if width < 20 {
		width = 20
	}
	indent := strings.Repeat(" ", blockIndent)

	lines := make([]string, 0, 12)
	switch {
	case p.Links.Up:
		lines = append(lines, indent+th.ThreadLine.Render("│"))
	case p.Links.ToRoot:
		lines = append(lines, indent+th.ThreadLine.Render("┊"))
	}

	if banner := BannerText(res.Annotation); banner != "" {
		lines = append(lines, indent+th.StyleBanner(res.Annotation.Kind, banner))
	}

	lines = append(lines, HeaderLine(s, p.Now, width, p.Active, th))

	if vis.FilterCollapsed() {
		notice := "Filtered: " + strings.Join(FilterTitles(s), ", ") + " · x to show"
		lines = append(lines, indent+th.FilterNotice.Render(truncate(notice, width-blockIndent)))
		return appendReplyLink(lines, p.Links, indent, th)
	}

	spoiler, body := displayText(s)
	if vis.HasSpoiler() {
		action := "show more"
		if vis.ContentWarningOpen() {
			action = "show less"
		}
		cw := "CW: " + spoiler + " · x to " + action
		lines = append(lines, indent+th.ContentWarning.Render(truncate(cw, width-blockIndent)))
	}

	if !vis.ContentWarningCollapsed() {
		for _, line := range content.Lines(body, width-blockIndent) {
			if line == "" {
				lines = append(lines, "")
				continue
			}
			lines = append(lines, indent+th.Body.Render(line))
		}
		if media := MediaLabel(p.Ctrl, p.PictureInPicture); media != "" {
			lines = append(lines, indent+th.StyleMedia(p.Ctrl.MediaRevealed(), media))
		}
	}

	lines = append(lines, indent+CountersLine(s, th))
	return appendReplyLink(lines, p.Links, indent, th)
}

func appendReplyLink(lines []string, links status.ThreadLinks, indent string, th tuitheme.Theme) []string {
	if links.Reply {
		lines = append(lines, indent+th.ThreadLine.Render("│"))
	}
	return lines
}

// BannerText is the prepend line for an annotation, empty for none.
func BannerText(a status.Annotation) string {
	switch a.Kind {
	case status.AnnotationBoost:
		if a.By == nil {
			return "⇄ boosted"
		}
		return "⇄ " + accountName(*a.By) + " boosted"
	case status.AnnotationDirect:
		return "✉ Private mention"
	case status.AnnotationReply:
		if a.InReplyToAccountID != "" && a.InReplyToAccountID == a.AccountID {
			return "↩ Continued thread"
		}
		return "↩ Reply"
	default:
		return ""
	}
}

// HeaderLine renders "name @acct" with the relative time pinned to the
// right edge.
func HeaderLine(s *mastodon.Status, now time.Time, width int, active bool, th tuitheme.Theme) string {
	marker := "  "
	if active {
		marker = "> "
	}
	when := RelativeTimeLabel(now, s.CreatedAt)
	available := width - visibleLen(marker) - 1 - visibleLen(when)
	if available < 1 {
		available = 1
	}

	name := accountName(s.Account)
	acct := "@" + s.Account.Acct
	left := truncate(name+" "+acct, available)
	styled := left
	if strings.HasPrefix(left, name+" ") {
		styled = th.DisplayName.Render(name) + " " + th.Acct.Render(strings.TrimPrefix(left, name+" "))
	}

	gap := width - visibleLen(marker) - visibleLen(left) - visibleLen(when)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(active, marker+styled+strings.Repeat(" ", gap)+th.Timestamp.Render(when))
}

// MediaLabel describes the attachment area. It is empty when the status has
// no media.
func MediaLabel(ctrl *status.Controller, pictureInPicture bool) string {
	s := ctrl.Effective()
	kind := ctrl.MediaKind(pictureInPicture)
	switch kind {
	case status.MediaNone:
		return ""
	case status.MediaPlaceholder:
		return "[ playing in picture-in-picture ]"
	}
	if !ctrl.MediaRevealed() {
		if s.Sensitive || s.MatchedMediaFilters {
			return "sensitive media hidden · h to show"
		}
		return "media hidden · h to show"
	}
	return fmt.Sprintf("%s · %d attached · %s · e to open", kind, len(s.MediaAttachments), ctrl.AspectRatio())
}

func CountersLine(s *mastodon.Status, th tuitheme.Theme) string {
	favourites, boosts := th.StyleCounters(s,
		fmt.Sprintf("★ %d", s.FavouritesCount),
		fmt.Sprintf("⇄ %d", s.ReblogsCount),
	)
	return th.MetaValue.Render(fmt.Sprintf("↩ %d", s.RepliesCount)) + "  " + boosts + "  " + favourites
}

// FilterTitles lists the warn filters a status matched.
func FilterTitles(s *mastodon.Status) []string {
	titles := make([]string, 0, len(s.Filtered))
	for _, r := range s.Filtered {
		if r.Filter.FilterAction == mastodon.FilterActionWarn && r.Filter.Title != "" {
			titles = append(titles, r.Filter.Title)
		}
	}
	if len(titles) == 0 {
		titles = append(titles, "filtered")
	}
	return titles
}

func RelativeTimeLabel(now, then time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}
	if then.IsZero() {
		return "unknown"
	}
	if then.After(now) {
		return "now"
	}
	return humanize.RelTime(then, now, "ago", "from now")
}

func displayText(s *mastodon.Status) (spoiler, body string) {
	spoiler, body = s.SpoilerText, s.Content
	if t := s.Translation; t != nil {
		if t.SpoilerText != "" {
			spoiler = t.SpoilerText
		}
		if t.Content != "" {
			body = t.Content
		}
	}
	return spoiler, body
}

func accountName(a mastodon.Account) string {
	if name := strings.TrimSpace(a.DisplayName); name != "" {
		return name
	}
	if a.Username != "" {
		return a.Username
	}
	name, _, _ := strings.Cut(a.Acct, "@")
	return name
}

func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

func visibleLen(s string) int {
	return runewidth.StringWidth(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
