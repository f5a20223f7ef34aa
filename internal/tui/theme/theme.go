package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/fedi-cli/internal/mastodon"
	"github.com/glabrego/fedi-cli/internal/status"
)

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	Section    lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style

	DisplayName lipgloss.Style
	Acct        lipgloss.Style
	Timestamp   lipgloss.Style
	Body        lipgloss.Style
	Muted       lipgloss.Style

	BoostBanner  lipgloss.Style
	DirectBanner lipgloss.Style
	ReplyBanner  lipgloss.Style

	ContentWarning lipgloss.Style
	FilterNotice   lipgloss.Style
	MediaHidden    lipgloss.Style
	MediaShown     lipgloss.Style
	ThreadLine     lipgloss.Style

	Favourited lipgloss.Style
	Boosted    lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpBlue := lipgloss.Color("#89b4fa")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:   lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:    lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:  lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:  lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:  lipgloss.NewStyle().Foreground(cpPeach),

		DisplayName: lipgloss.NewStyle().Bold(true).Foreground(cpText),
		Acct:        lipgloss.NewStyle().Foreground(cpSubtext0),
		Timestamp:   lipgloss.NewStyle().Foreground(cpOverlay1),
		Body:        lipgloss.NewStyle().Foreground(cpText),
		Muted:       lipgloss.NewStyle().Foreground(cpOverlay1).Italic(true),

		BoostBanner:  lipgloss.NewStyle().Foreground(cpGreen),
		DirectBanner: lipgloss.NewStyle().Foreground(cpMauve).Bold(true),
		ReplyBanner:  lipgloss.NewStyle().Foreground(cpBlue),

		ContentWarning: lipgloss.NewStyle().Foreground(cpYellow).Bold(true),
		FilterNotice:   lipgloss.NewStyle().Foreground(cpPeach).Italic(true),
		MediaHidden:    lipgloss.NewStyle().Foreground(cpOverlay1).Background(cpSurface0).Padding(0, 1),
		MediaShown:     lipgloss.NewStyle().Foreground(cpTeal),
		ThreadLine:     lipgloss.NewStyle().Foreground(cpOverlay1),

		Favourited: lipgloss.NewStyle().Foreground(cpYellow),
		Boosted:    lipgloss.NewStyle().Foreground(cpGreen),
	}
}

// StyleBanner renders the prepend line for an annotation kind. Kinds without
// a banner return text unchanged.
func (t Theme) StyleBanner(kind status.AnnotationKind, text string) string {
	if text == "" {
		return text
	}
	switch kind {
	case status.AnnotationBoost:
		return t.BoostBanner.Render(text)
	case status.AnnotationDirect:
		return t.DirectBanner.Render(text)
	case status.AnnotationReply:
		return t.ReplyBanner.Render(text)
	default:
		return text
	}
}

func (t Theme) StyleMedia(revealed bool, text string) string {
	if revealed {
		return t.MediaShown.Render(text)
	}
	return t.MediaHidden.Render(text)
}

// StyleCounters marks favourite and boost counters the viewer has acted on.
func (t Theme) StyleCounters(s *mastodon.Status, favourites, boosts string) (string, string) {
	if s == nil {
		return favourites, boosts
	}
	if s.Favourited {
		favourites = t.Favourited.Render(favourites)
	}
	if s.Reblogged {
		boosts = t.Boosted.Render(boosts)
	}
	return favourites, boosts
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
