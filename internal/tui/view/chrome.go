package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/fedi-cli/internal/tui/theme"
)

func Toolbar(inDetail bool) string {
	if inDetail {
		return "j/k scroll | x show/hide | h media | e view media | f fav | b boost | r reply | o open | p profile | T translate | esc back | q quit"
	}
	return "j/k move | enter detail | x show/hide | h media | f fav | b boost | r reply | m mention | o open | T translate | D media pref | R refresh | n more | y copy | q quit"
}

type FooterParams struct {
	Instance       string
	DisplayMedia   string
	ExpandSpoilers bool
	Shown          int
	Position       int
	Muted          int
}

func Footer(p FooterParams, th tuitheme.Theme) string {
	cw := "collapsed"
	if p.ExpandSpoilers {
		cw = "expanded"
	}
	parts := []string{
		th.MetaValue.Render(p.Instance),
		th.MetaLabel.Render("media") + " " + th.MetaValue.Render(p.DisplayMedia),
		th.MetaLabel.Render("cw") + " " + th.MetaValue.Render(cw),
		th.MetaValue.Render(fmt.Sprintf("%d/%d", p.Position, p.Shown)),
	}
	if p.Muted > 0 {
		parts = append(parts, th.MetaLabel.Render("muted")+" "+th.MetaValue.Render(fmt.Sprintf("%d", p.Muted)))
	}
	return strings.Join(parts, " • ")
}

func CompactMessage(loading bool, hasWarning bool, notice, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if notice != "" {
		main = notice
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}
