package view

import "strings"

type TimelineRenderInput struct {
	Count    int
	Start    int
	Cursor   int
	MaxLines int

	RenderBlock func(index int, active bool) []string
}

// RenderTimelineBody renders status blocks from Start until MaxLines is
// filled. It returns the body and the exclusive index of the last status
// that was rendered, so callers can release controllers past it.
func RenderTimelineBody(in TimelineRenderInput) (string, int) {
	if in.Count == 0 || in.Start < 0 || in.Start >= in.Count {
		return "", in.Start
	}
	var b strings.Builder
	used := 0
	end := in.Start
	for i := in.Start; i < in.Count; i++ {
		block := in.RenderBlock(i, i == in.Cursor)
		end = i + 1
		if len(block) == 0 {
			continue
		}
		if in.MaxLines > 0 && used > 0 && used+len(block)+1 > in.MaxLines {
			end = i
			break
		}
		if used > 0 {
			b.WriteString("\n")
			used++
		}
		for _, line := range block {
			b.WriteString(line)
			b.WriteString("\n")
		}
		used += len(block)
	}
	return b.String(), end
}
