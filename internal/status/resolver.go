package status

import "github.com/glabrego/fedi-cli/internal/mastodon"

type AnnotationKind int

const (
	AnnotationNone AnnotationKind = iota
	AnnotationBoost
	AnnotationDirect
	AnnotationReply
)

// Annotation describes the banner prepended to a rendered status.
type Annotation struct {
	Kind AnnotationKind

	// By is the boosting account for AnnotationBoost.
	By *mastodon.Account

	// AccountID and InReplyToAccountID are set for AnnotationReply.
	AccountID          string
	InReplyToAccountID string
}

type ResolveOptions struct {
	// ShowThread enables the in-reply-to label on thread surfaces.
	ShowThread bool
	// IncludeDirect keeps bare direct messages, as on the conversations
	// surface. Timelines leave it unset.
	IncludeDirect bool
}

type Resolution struct {
	Effective  *mastodon.Status
	Annotation Annotation
	Suppressed bool
}

var suppressed = Resolution{Suppressed: true}

// Resolve picks the status that commands act on and the banner to show
// above it. Only one level of reblog is unwrapped.
func Resolve(entry *mastodon.Status, opts ResolveOptions) Resolution {
	if entry == nil {
		return suppressed
	}

	if entry.Reblog != nil {
		by := entry.Account
		return Resolution{
			Effective:  entry.Reblog,
			Annotation: Annotation{Kind: AnnotationBoost, By: &by},
		}
	}

	if entry.Visibility == mastodon.VisibilityDirect {
		if !opts.IncludeDirect {
			return suppressed
		}
		return Resolution{Effective: entry, Annotation: Annotation{Kind: AnnotationDirect}}
	}

	if opts.ShowThread && entry.InReplyToID != "" {
		return Resolution{
			Effective: entry,
			Annotation: Annotation{
				Kind:               AnnotationReply,
				AccountID:          entry.Account.ID,
				InReplyToAccountID: entry.InReplyToAccountID,
			},
		}
	}

	return Resolution{Effective: entry}
}
