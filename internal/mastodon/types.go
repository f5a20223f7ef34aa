package mastodon

import "time"

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
	VisibilityDirect   Visibility = "direct"
)

type MediaType string

const (
	MediaImage   MediaType = "image"
	MediaGIFV    MediaType = "gifv"
	MediaVideo   MediaType = "video"
	MediaAudio   MediaType = "audio"
	MediaUnknown MediaType = "unknown"
)

// Filter actions as reported in FilterResult.Filter.FilterAction.
const (
	FilterActionWarn = "warn"
	FilterActionHide = "hide"
	FilterActionBlur = "blur"
)

// Status is the subset of Mastodon status fields required by the app.
type Status struct {
	ID                 string         `json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	InReplyToID        string         `json:"in_reply_to_id"`
	InReplyToAccountID string         `json:"in_reply_to_account_id"`
	Sensitive          bool           `json:"sensitive"`
	SpoilerText        string         `json:"spoiler_text"`
	Visibility         Visibility     `json:"visibility"`
	Language           string         `json:"language"`
	URL                string         `json:"url"`
	Content            string         `json:"content"`
	Account            Account        `json:"account"`
	MediaAttachments   []Attachment   `json:"media_attachments"`
	Reblog             *Status        `json:"reblog"`
	Translation        *Translation   `json:"-"`
	Filtered           []FilterResult `json:"filtered"`
	Favourited         bool           `json:"favourited"`
	Reblogged          bool           `json:"reblogged"`
	FavouritesCount    int            `json:"favourites_count"`
	ReblogsCount       int            `json:"reblogs_count"`
	RepliesCount       int            `json:"replies_count"`

	MatchedFilters      bool `json:"-"`
	MatchedMediaFilters bool `json:"-"`
}

type Account struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Acct        string `json:"acct"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}

type Attachment struct {
	ID          string          `json:"id"`
	Type        MediaType       `json:"type"`
	URL         string          `json:"url"`
	PreviewURL  string          `json:"preview_url"`
	Description string          `json:"description"`
	Meta        *AttachmentMeta `json:"meta"`
}

type AttachmentMeta struct {
	Original *MediaDimensions `json:"original"`
	Small    *MediaDimensions `json:"small"`
}

type MediaDimensions struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Aspect float64 `json:"aspect"`
}

type Translation struct {
	Content                string `json:"content"`
	SpoilerText            string `json:"spoiler_text"`
	Language               string `json:"language"`
	DetectedSourceLanguage string `json:"detected_source_language"`
	Provider               string `json:"provider"`
}

type FilterResult struct {
	Filter         Filter   `json:"filter"`
	KeywordMatches []string `json:"keyword_matches"`
}

type Filter struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	FilterAction string `json:"filter_action"`
}

// Normalize derives the filter match flags from the server's filter
// results. It recurses into the reblogged status, which carries its own
// results.
func (s *Status) Normalize() {
	if s == nil {
		return
	}
	s.MatchedFilters = false
	s.MatchedMediaFilters = false
	for _, result := range s.Filtered {
		switch result.Filter.FilterAction {
		case FilterActionWarn:
			s.MatchedFilters = true
		case FilterActionBlur:
			s.MatchedMediaFilters = true
		}
	}
	if s.Reblog != nil {
		s.Reblog.Normalize()
	}
}

// Hidden reports whether a hide-action filter matched the status or the
// status it reblogs.
func (s *Status) Hidden() bool {
	if s == nil {
		return false
	}
	for _, result := range s.Filtered {
		if result.Filter.FilterAction == FilterActionHide {
			return true
		}
	}
	return s.Reblog != nil && s.Reblog.Hidden()
}
