package status

import "github.com/glabrego/fedi-cli/internal/mastodon"

type Options struct {
	DisplayMedia       DisplayMedia
	HideMediaByDefault bool
	ExpandSpoilers     bool
	Resolve            ResolveOptions
}

// Controller drives one displayed status. Its VisibilityState survives
// re-binds of the same entry and is reseeded when a different entry is bound.
type Controller struct {
	opts  Options
	raw   *mastodon.Status
	rawID string
	bound bool
	res   Resolution
	state VisibilityState
}

func NewController(opts Options) *Controller {
	return &Controller{opts: opts, res: suppressed}
}

// Bind displays entry through this controller and reports whether the visibility state
// was reset.
func (c *Controller) Bind(entry *mastodon.Status) bool {
	id := ""
	if entry != nil {
		id = entry.ID
	}
	changed := !c.bound || id != c.rawID

	c.raw = entry
	c.rawID = id
	c.bound = true
	c.res = Resolve(entry, c.opts.Resolve)

	if changed {
		c.Reset()
	}
	return changed
}

// Reset reseeds the visibility state from the current resolution. A
// suppressed entry has no media default to seed.
func (c *Controller) Reset() {
	defaults := VisibilityDefaults{ExpandSpoilers: c.opts.ExpandSpoilers}
	if visible, ok := DefaultMediaVisibility(c.res.Effective, c.opts.DisplayMedia, c.opts.HideMediaByDefault); ok {
		defaults.MediaRevealed = visible
	}
	c.state = NewVisibilityState(c.res.Effective, defaults)
}

func (c *Controller) Raw() *mastodon.Status {
	return c.raw
}

func (c *Controller) Resolution() Resolution {
	return c.res
}

func (c *Controller) Effective() *mastodon.Status {
	return c.res.Effective
}

func (c *Controller) Suppressed() bool {
	return c.res.Suppressed
}

func (c *Controller) State() VisibilityState {
	return c.state
}

func (c *Controller) Expanded() bool {
	return c.state.Expanded()
}

func (c *Controller) MediaRevealed() bool {
	return c.state.MediaRevealed()
}

func (c *Controller) ToggleMediaVisibility() {
	c.state.ToggleMediaVisibility()
}

func (c *Controller) ToggleFilterOverride() {
	c.state.ToggleFilterOverride()
}

func (c *Controller) ToggleContentWarning() {
	c.state.ToggleContentWarning()
}

func (c *Controller) ToggleHidden() {
	c.state.ToggleHidden()
}

func (c *Controller) AspectRatio() string {
	if c.res.Effective == nil {
		return galleryAspectRatio
	}
	return EstimateAspectRatio(c.res.Effective.MediaAttachments)
}

func (c *Controller) MediaKind(pictureInPicture bool) MediaKind {
	return SelectMediaKind(c.res.Effective, pictureInPicture)
}
