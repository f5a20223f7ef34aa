package status

import (
	"fmt"

	"github.com/glabrego/fedi-cli/internal/mastodon"
)

// DisplayMedia is the account-wide media display preference.
type DisplayMedia string

const (
	DisplayMediaDefault DisplayMedia = "default"
	DisplayMediaShowAll DisplayMedia = "show_all"
	DisplayMediaHideAll DisplayMedia = "hide_all"
)

func ParseDisplayMedia(raw string) (DisplayMedia, error) {
	switch DisplayMedia(raw) {
	case DisplayMediaDefault, DisplayMediaShowAll, DisplayMediaHideAll:
		return DisplayMedia(raw), nil
	case "":
		return DisplayMediaDefault, nil
	}
	return "", fmt.Errorf("display media must be default, show_all or hide_all: %s", raw)
}

// Next cycles default -> show_all -> hide_all -> default.
func (d DisplayMedia) Next() DisplayMedia {
	switch d {
	case DisplayMediaDefault:
		return DisplayMediaShowAll
	case DisplayMediaShowAll:
		return DisplayMediaHideAll
	default:
		return DisplayMediaDefault
	}
}

// DefaultMediaVisibility reports whether the effective status's media
// starts out revealed. ok is false when there is no status to judge.
func DefaultMediaVisibility(effective *mastodon.Status, pref DisplayMedia, hideByContext bool) (visible, ok bool) {
	if effective == nil {
		return false, false
	}
	visible = !effective.MatchedMediaFilters &&
		((pref != DisplayMediaHideAll && !effective.Sensitive) || pref == DisplayMediaShowAll) &&
		!hideByContext
	return visible, true
}

type MediaKind int

const (
	MediaNone MediaKind = iota
	MediaGallery
	MediaVideo
	MediaAudio
	// MediaPlaceholder stands in for media already playing in the
	// picture-in-picture player.
	MediaPlaceholder
)

func (k MediaKind) String() string {
	switch k {
	case MediaGallery:
		return "gallery"
	case MediaVideo:
		return "video"
	case MediaAudio:
		return "audio"
	case MediaPlaceholder:
		return "placeholder"
	default:
		return "none"
	}
}

func SelectMediaKind(effective *mastodon.Status, pictureInPicture bool) MediaKind {
	if effective == nil {
		return MediaNone
	}
	if pictureInPicture {
		return MediaPlaceholder
	}
	attachments := effective.MediaAttachments
	if len(attachments) == 0 {
		return MediaNone
	}
	if len(attachments) > 1 {
		return MediaGallery
	}
	switch attachments[0].Type {
	case mastodon.MediaVideo:
		return MediaVideo
	case mastodon.MediaAudio:
		return MediaAudio
	default:
		return MediaGallery
	}
}
