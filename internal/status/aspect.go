package status

import (
	"strconv"

	"github.com/glabrego/fedi-cli/internal/mastodon"
)

const (
	galleryAspectRatio = "3 / 2"
	playerAspectRatio  = "16 / 9"
)

// EstimateAspectRatio sizes the placeholder shown while media loads. Only
// the first attachment's type decides the branch.
func EstimateAspectRatio(attachments []mastodon.Attachment) string {
	if len(attachments) == 0 {
		return galleryAspectRatio
	}

	first := attachments[0]
	switch first.Type {
	case mastodon.MediaVideo:
		if first.Meta == nil || first.Meta.Original == nil {
			return playerAspectRatio
		}
		original := first.Meta.Original
		if original.Width <= 0 || original.Height <= 0 {
			return playerAspectRatio
		}
		return strconv.Itoa(original.Width) + " / " + strconv.Itoa(original.Height)
	case mastodon.MediaAudio:
		return playerAspectRatio
	}

	if len(attachments) == 1 && first.Meta != nil && first.Meta.Small != nil && first.Meta.Small.Aspect > 0 {
		return strconv.FormatFloat(first.Meta.Small.Aspect, 'f', -1, 64)
	}
	return galleryAspectRatio
}
