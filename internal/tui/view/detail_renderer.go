package view

import (
	"strings"

	"github.com/glabrego/fedi-cli/internal/render/content"
	"github.com/glabrego/fedi-cli/internal/status"
)

type MediaPreviewState struct {
	Enabled bool
	Loading bool
	Index   int
	Raw     string
	Err     string
}

// DetailLines renders the full view of the controller's status, honouring
// the filter and content-warning gates the same way the timeline does.
func DetailLines(
	ctrl *status.Controller,
	contentWidth int,
	horizontalMargin int,
	wrap WrapFunc,
	preview MediaPreviewState,
) []string {
	if ctrl == nil || ctrl.Suppressed() {
		return nil
	}
	lines := detailBaseLines(ctrl, contentWidth, wrap)
	lines = appendMediaPreview(lines, preview, contentWidth)
	return leftPadLines(lines, horizontalMargin)
}

func DetailMaxTop(linesLen, bodyHeight int) int {
	maxTop := linesLen - bodyHeight
	if maxTop < 0 {
		return 0
	}
	return maxTop
}

func RenderDetailLines(lines []string, top, maxLines int) string {
	if len(lines) == 0 {
		return ""
	}
	if top < 0 {
		top = 0
	}
	if top > len(lines)-1 {
		top = len(lines) - 1
	}
	end := len(lines)
	if maxLines > 0 && top+maxLines < end {
		end = top + maxLines
	}
	return strings.Join(lines[top:end], "\n") + "\n"
}

func detailBaseLines(ctrl *status.Controller, width int, wrap WrapFunc) []string {
	lines := DetailMetaLines(ctrl, width, wrap)
	vis := ctrl.State()
	s := ctrl.Effective()

	if vis.FilterCollapsed() {
		lines = append(lines, "")
		lines = append(lines, wrap("Filtered: "+strings.Join(FilterTitles(s), ", ")+" (x to show)", width)...)
		return lines
	}

	spoiler, body := displayText(s)
	if vis.HasSpoiler() {
		lines = append(lines, "")
		lines = append(lines, wrap("CW: "+spoiler, width)...)
		if vis.ContentWarningCollapsed() {
			lines = append(lines, "(x to show more)")
			return lines
		}
	}

	if contentLines := content.Lines(body, width); len(contentLines) > 0 {
		lines = append(lines, "")
		lines = append(lines, contentLines...)
	}
	if media := AttachmentLines(ctrl, width, wrap); len(media) > 0 {
		lines = append(lines, "")
		lines = append(lines, media...)
	}
	return lines
}

func appendMediaPreview(lines []string, preview MediaPreviewState, contentWidth int) []string {
	if !preview.Enabled {
		return lines
	}
	previewLines := make([]string, 0, 3)
	switch {
	case preview.Loading:
		previewLines = append(previewLines, "Loading media preview...")
	case strings.TrimSpace(preview.Raw) != "":
		if ContainsKittyGraphicsEscape(preview.Raw) {
			previewLines = append(previewLines, strings.TrimRight(preview.Raw, "\r\n"))
		} else {
			previewLines = centerLines(strings.Split(strings.TrimRight(preview.Raw, "\r\n"), "\n"), contentWidth)
		}
	case strings.TrimSpace(preview.Err) != "":
		previewLines = append(previewLines, "Media preview unavailable: "+strings.TrimSpace(preview.Err))
	}
	if len(previewLines) == 0 {
		return lines
	}
	out := make([]string, 0, len(lines)+len(previewLines)+1)
	out = append(out, lines...)
	out = append(out, "")
	return append(out, previewLines...)
}

func leftPadLines(lines []string, padding int) []string {
	if padding <= 0 || len(lines) == 0 {
		return lines
	}
	prefix := strings.Repeat(" ", padding)
	out := make([]string, len(lines))
	for i, line := range lines {
		if ContainsKittyGraphicsEscape(line) {
			out[i] = line
			continue
		}
		out[i] = prefix + line
	}
	return out
}

func centerLines(lines []string, width int) []string {
	if width <= 0 || len(lines) == 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		visible := visibleLen(line)
		if visible >= width {
			out[i] = line
			continue
		}
		out[i] = strings.Repeat(" ", (width-visible)/2) + line
	}
	return out
}
