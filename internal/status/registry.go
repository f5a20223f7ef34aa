package status

import "github.com/glabrego/fedi-cli/internal/mastodon"

// Registry owns the controllers of the statuses currently being rendered,
// keyed by raw status ID so state follows a status when the list shifts.
type Registry struct {
	opts Options
	byID map[string]*Controller
}

func NewRegistry(opts Options) *Registry {
	return &Registry{opts: opts, byID: make(map[string]*Controller)}
}

func (r *Registry) Options() Options {
	return r.opts
}

// Bind returns the controller for entry's raw ID with entry bound to it.
func (r *Registry) Bind(entry *mastodon.Status) *Controller {
	id := ""
	if entry != nil {
		id = entry.ID
	}
	c, ok := r.byID[id]
	if !ok {
		c = NewController(r.opts)
		r.byID[id] = c
	}
	c.Bind(entry)
	return c
}

func (r *Registry) Get(id string) (*Controller, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// Retain drops every controller whose ID is not in ids.
func (r *Registry) Retain(ids []string) {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	for id := range r.byID {
		if _, ok := keep[id]; !ok {
			delete(r.byID, id)
		}
	}
}

func (r *Registry) Len() int {
	return len(r.byID)
}

// Reconfigure replaces the options and forgets every controller, so the
// next Bind seeds fresh state under the new options.
func (r *Registry) Reconfigure(opts Options) {
	r.opts = opts
	clear(r.byID)
}
