package status

import "github.com/glabrego/fedi-cli/internal/mastodon"

// FilterOverride records whether the user toggled past the filter gate.
type FilterOverride int

const (
	// FilterDefault follows the filter's own collapse.
	FilterDefault FilterOverride = iota
	FilterRevealed
	FilterCollapsed
)

func (o FilterOverride) Revealed() bool {
	return o == FilterRevealed
}

type VisibilityDefaults struct {
	MediaRevealed  bool
	ExpandSpoilers bool
}

// VisibilityState is the mutable hide state of one displayed status.
type VisibilityState struct {
	mediaRevealed  bool
	filterOverride FilterOverride
	cwOverride     bool

	matchedFilters bool
	hasSpoiler     bool
}

func NewVisibilityState(effective *mastodon.Status, defaults VisibilityDefaults) VisibilityState {
	st := VisibilityState{
		mediaRevealed: defaults.MediaRevealed,
		cwOverride:    defaults.ExpandSpoilers,
	}
	if effective != nil {
		st.matchedFilters = effective.MatchedFilters
		st.hasSpoiler = len(effective.SpoilerText) > 0
	}
	return st
}

func (s VisibilityState) MediaRevealed() bool {
	return s.mediaRevealed
}

func (s VisibilityState) FilterOverride() FilterOverride {
	return s.filterOverride
}

func (s VisibilityState) ContentWarningOpen() bool {
	return s.cwOverride
}

func (s VisibilityState) MatchedFilters() bool {
	return s.matchedFilters
}

func (s VisibilityState) HasSpoiler() bool {
	return s.hasSpoiler
}

// FilterCollapsed reports whether the filter gate currently hides the body.
func (s VisibilityState) FilterCollapsed() bool {
	return s.matchedFilters && !s.filterOverride.Revealed()
}

// ContentWarningCollapsed reports whether the spoiler gate currently hides
// the body.
func (s VisibilityState) ContentWarningCollapsed() bool {
	return s.hasSpoiler && !s.cwOverride
}

func (s VisibilityState) Expanded() bool {
	return !s.FilterCollapsed() && !s.ContentWarningCollapsed()
}

func (s *VisibilityState) ToggleMediaVisibility() {
	s.mediaRevealed = !s.mediaRevealed
}

func (s *VisibilityState) ToggleFilterOverride() {
	if s.filterOverride.Revealed() {
		s.filterOverride = FilterCollapsed
		return
	}
	s.filterOverride = FilterRevealed
}

func (s *VisibilityState) ToggleContentWarning() {
	s.cwOverride = !s.cwOverride
}

// ToggleHidden is the single "toggle hidden" action. On a filtered status
// it opens the filter gate first and the spoiler gate second; once both are
// open it closes both at once.
func (s *VisibilityState) ToggleHidden() {
	if !s.matchedFilters {
		s.ToggleContentWarning()
		return
	}

	filterOpen := s.filterOverride.Revealed()
	cwOpen := s.cwOverride || !s.hasSpoiler

	switch {
	case filterOpen && !cwOpen:
		s.ToggleContentWarning()
	case filterOpen && cwOpen:
		s.ToggleContentWarning()
		s.ToggleFilterOverride()
	default:
		s.ToggleFilterOverride()
	}
}
