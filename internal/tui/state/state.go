package state

import (
	"github.com/glabrego/fedi-cli/internal/mastodon"
	"github.com/glabrego/fedi-cli/internal/status"
)

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// StatusIndexByID finds a timeline entry by its own ID or by the ID of the
// status it boosts.
func StatusIndexByID(statuses []mastodon.Status, id string) int {
	for i := range statuses {
		if statuses[i].ID == id {
			return i
		}
		if statuses[i].Reblog != nil && statuses[i].Reblog.ID == id {
			return i
		}
	}
	return -1
}

// ReplaceEffective swaps in an updated copy of a status wherever it appears,
// either as a timeline entry or as the target of a boost. Client-side
// fields such as the translation are carried over.
func ReplaceEffective(statuses []mastodon.Status, updated mastodon.Status) bool {
	replaced := false
	for i := range statuses {
		target := &statuses[i]
		if target.Reblog != nil {
			target = target.Reblog
		}
		if target.ID != updated.ID {
			continue
		}
		next := updated
		if next.Translation == nil {
			next.Translation = target.Translation
		}
		*target = next
		replaced = true
	}
	return replaced
}

// Neighbours reports the thread context of the entry at i for connector
// drawing. Boosted entries are judged by the status they boost.
func Neighbours(statuses []mastodon.Status, i int) status.ThreadNeighbours {
	var n status.ThreadNeighbours
	if i < 0 || i >= len(statuses) {
		return n
	}
	if i > 0 {
		n.PreviousID = effective(&statuses[i-1]).ID
	}
	if i+1 < len(statuses) {
		n.NextInReplyToID = effective(&statuses[i+1]).InReplyToID
	}
	return n
}

func effective(s *mastodon.Status) *mastodon.Status {
	if s.Reblog != nil {
		return s.Reblog
	}
	return s
}

// SetTranslation attaches tr to every copy of the status with the given ID.
// A nil tr restores the original text.
func SetTranslation(statuses []mastodon.Status, id string, tr *mastodon.Translation) bool {
	found := false
	for i := range statuses {
		target := effective(&statuses[i])
		if target.ID != id {
			continue
		}
		target.Translation = tr
		found = true
	}
	return found
}

// NextVisible returns the first index from i moving by step whose entry
// passes keep, or -1.
func NextVisible(size, i, step int, keep func(int) bool) int {
	for j := i + step; j >= 0 && j < size; j += step {
		if keep(j) {
			return j
		}
	}
	return -1
}
