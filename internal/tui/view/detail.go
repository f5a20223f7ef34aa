package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/glabrego/fedi-cli/internal/mastodon"
	"github.com/glabrego/fedi-cli/internal/status"
)

type WrapFunc func(string, int) []string

func DetailMetaLines(ctrl *status.Controller, width int, wrap WrapFunc) []string {
	s := ctrl.Effective()
	title := accountName(s.Account) + " @" + s.Account.Acct

	lines := make([]string, 0, 16)
	if banner := BannerText(ctrl.Resolution().Annotation); banner != "" {
		lines = append(lines, wrap(banner, width)...)
	}
	lines = append(lines, wrap(title, width)...)
	lines = append(lines, strings.Repeat("=", max(1, min(width, visibleLen(title)))))
	lines = append(lines, "")

	lines = append(lines, "Date: "+s.CreatedAt.UTC().Format(time.RFC3339))
	lines = append(lines, "Visibility: "+string(s.Visibility))
	if lang := status.MediaLanguage(s); lang != "" {
		lines = append(lines, "Language: "+lang)
	}
	if t := s.Translation; t != nil {
		line := "Translated from " + t.DetectedSourceLanguage
		if t.Provider != "" {
			line += " by " + t.Provider
		}
		lines = append(lines, wrap(line, width)...)
	}
	lines = append(lines, fmt.Sprintf("Replies: %d | Boosts: %d | Favourites: %d", s.RepliesCount, s.ReblogsCount, s.FavouritesCount))
	lines = append(lines, "Favourited: "+yesNo(s.Favourited))
	lines = append(lines, "Boosted: "+yesNo(s.Reblogged))
	if s.URL != "" {
		lines = append(lines, wrap("URL: "+s.URL, width)...)
	}

	return lines
}

// AttachmentLines lists attachments with their descriptions. Hidden media
// shows only the count.
func AttachmentLines(ctrl *status.Controller, width int, wrap WrapFunc) []string {
	s := ctrl.Effective()
	if len(s.MediaAttachments) == 0 {
		return nil
	}
	if !ctrl.MediaRevealed() {
		return []string{fmt.Sprintf("Media: %d hidden (h to show)", len(s.MediaAttachments))}
	}
	lines := []string{fmt.Sprintf("Media (%s, %s):", ctrl.MediaKind(false), ctrl.AspectRatio())}
	for i, a := range s.MediaAttachments {
		label := fmt.Sprintf("  %d. %s", i+1, attachmentType(a))
		if desc := strings.TrimSpace(a.Description); desc != "" {
			label += ": " + desc
		}
		lines = append(lines, wrap(label, width)...)
	}
	return lines
}

func attachmentType(a mastodon.Attachment) string {
	if a.Type == "" {
		return string(mastodon.MediaUnknown)
	}
	return string(a.Type)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
