package status

import "github.com/glabrego/fedi-cli/internal/mastodon"

// ThreadLinks says which thread connectors to draw around a status in a
// conversation view.
type ThreadLinks struct {
	Up     bool
	ToRoot bool
	Reply  bool
}

type ThreadNeighbours struct {
	PreviousID      string
	NextInReplyToID string
	RootID          string
}

func Links(s *mastodon.Status, n ThreadNeighbours) ThreadLinks {
	if s == nil {
		return ThreadLinks{}
	}
	return ThreadLinks{
		Up:     n.PreviousID != "" && n.PreviousID == s.InReplyToID,
		ToRoot: n.RootID != "" && n.RootID == s.InReplyToID,
		Reply:  n.NextInReplyToID != "" && n.NextInReplyToID == s.ID,
	}
}
