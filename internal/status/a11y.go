package status

import (
	"strings"

	"github.com/glabrego/fedi-cli/internal/mastodon"
	"github.com/glabrego/fedi-cli/internal/render/content"
)

const screenReaderTimeLayout = "Jan 2, 15:04"

// ScreenReaderText is the one-line spoken summary of a status. The spoiler
// stands in for the body while the status is collapsed.
func ScreenReaderText(s *mastodon.Status, expanded bool, rebloggedBy string) string {
	if s == nil {
		return ""
	}

	name := s.Account.DisplayName
	if name == "" {
		name, _, _ = strings.Cut(s.Account.Acct, "@")
	}

	spoiler := s.SpoilerText
	body := s.Content
	if s.Translation != nil {
		if s.Translation.SpoilerText != "" {
			spoiler = s.Translation.SpoilerText
		}
		if s.Translation.Content != "" {
			body = s.Translation.Content
		}
	}

	text := content.PlainText(body)
	if spoiler != "" && !expanded {
		text = spoiler
	}

	values := []string{
		name,
		text,
		s.CreatedAt.Format(screenReaderTimeLayout),
		s.Account.Acct,
	}
	if rebloggedBy != "" {
		values = append(values, rebloggedBy)
	}
	return strings.Join(values, ", ")
}

// ScreenReaderSummary summarises the controller's bound status, adding the
// boost attribution when the status arrived as a reblog.
func (c *Controller) ScreenReaderSummary() string {
	rebloggedBy := ""
	if a := c.res.Annotation; a.Kind == AnnotationBoost && a.By != nil {
		rebloggedBy = a.By.Acct + " boosted"
	}
	return ScreenReaderText(c.res.Effective, c.Expanded(), rebloggedBy)
}
