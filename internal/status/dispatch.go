package status

import "github.com/glabrego/fedi-cli/internal/mastodon"

type Command string

const (
	CommandReply           Command = "reply"
	CommandFavourite       Command = "favourite"
	CommandBoost           Command = "boost"
	CommandMention         Command = "mention"
	CommandOpen            Command = "open"
	CommandOpenProfile     Command = "openProfile"
	CommandMoveUp          Command = "moveUp"
	CommandMoveDown        Command = "moveDown"
	CommandToggleHidden    Command = "toggleHidden"
	CommandToggleSensitive Command = "toggleSensitive"
	CommandOpenMedia       Command = "openMedia"
	CommandTranslate       Command = "translate"
)

// Commands is the fixed command set, in binding order.
var Commands = []Command{
	CommandReply,
	CommandFavourite,
	CommandBoost,
	CommandMention,
	CommandOpen,
	CommandOpenProfile,
	CommandMoveUp,
	CommandMoveDown,
	CommandToggleHidden,
	CommandToggleSensitive,
	CommandOpenMedia,
	CommandTranslate,
}

type Button int

const (
	ButtonPrimary Button = iota
	ButtonAuxiliary
)

type Source int

const (
	SourceKeyboard Source = iota
	SourcePointer
)

// Activation carries how a command was triggered.
type Activation struct {
	Source Source
	Button Button
	Ctrl   bool
	Meta   bool
	Shift  bool

	// Featured marks moves within a featured (pinned) list.
	Featured bool
	// MediaIndex and StartTime are forwarded to the media viewers.
	MediaIndex int
	StartTime  float64
}

// NewContext reports whether the activation asks for a new browsing
// context rather than in-place navigation.
func (a Activation) NewContext() bool {
	if a.Source != SourcePointer {
		return false
	}
	return a.Button == ButtonAuxiliary || (a.Button == ButtonPrimary && (a.Ctrl || a.Meta))
}

type VideoOptions struct {
	StartTime float64
}

// Callbacks are the embedding surface's effects. A nil callback leaves its
// command unbound.
type Callbacks struct {
	Click     func()
	Reply     func(status *mastodon.Status)
	Favourite func(status *mastodon.Status)
	Boost     func(status *mastodon.Status, act Activation)
	Mention   func(account mastodon.Account)
	MoveUp    func(id string, featured bool)
	MoveDown  func(id string, featured bool)
	OpenMedia func(statusID string, media []mastodon.Attachment, index int, lang string)
	OpenVideo func(statusID string, media mastodon.Attachment, lang string, opts VideoOptions)
	Translate func(status *mastodon.Status)
}

type Navigator interface {
	Push(path string)
	OpenNew(path string)
}

type Guard struct {
	Muted bool
}

type Handler func(act Activation)

type HandlerTable map[Command]Handler

// Guarded applies the guard to the table as a whole: a muted status gets an
// empty table.
func (t HandlerTable) Guarded(g Guard) HandlerTable {
	if g.Muted {
		return HandlerTable{}
	}
	return t
}

type Dispatcher struct {
	ctrl     *Controller
	cb       Callbacks
	nav      Navigator
	handlers HandlerTable
}

func NewDispatcher(ctrl *Controller, cb Callbacks, nav Navigator, guard Guard) *Dispatcher {
	d := &Dispatcher{ctrl: ctrl, cb: cb, nav: nav}
	d.handlers = d.table().Guarded(guard)
	return d
}

// Dispatch runs cmd and reports whether a handler was bound for it.
func (d *Dispatcher) Dispatch(cmd Command, act Activation) bool {
	h, ok := d.handlers[cmd]
	if !ok {
		return false
	}
	h(act)
	return true
}

func (d *Dispatcher) Bound(cmd Command) bool {
	_, ok := d.handlers[cmd]
	return ok
}

func (d *Dispatcher) table() HandlerTable {
	t := HandlerTable{
		CommandToggleHidden:    func(Activation) { d.ctrl.ToggleHidden() },
		CommandToggleSensitive: func(Activation) { d.ctrl.ToggleMediaVisibility() },
	}

	if d.cb.Reply != nil {
		t[CommandReply] = d.withEffective(func(s *mastodon.Status, _ Activation) { d.cb.Reply(s) })
	}
	if d.cb.Favourite != nil {
		t[CommandFavourite] = d.withEffective(func(s *mastodon.Status, _ Activation) { d.cb.Favourite(s) })
	}
	if d.cb.Boost != nil {
		t[CommandBoost] = d.withEffective(d.cb.Boost)
	}
	if d.cb.Mention != nil {
		t[CommandMention] = d.withEffective(func(s *mastodon.Status, _ Activation) { d.cb.Mention(s.Account) })
	}
	if d.cb.Translate != nil {
		t[CommandTranslate] = d.withEffective(func(s *mastodon.Status, _ Activation) { d.cb.Translate(s) })
	}
	if d.cb.Click != nil || d.nav != nil {
		t[CommandOpen] = d.withEffective(d.open)
		t[CommandOpenProfile] = d.withEffective(d.openProfile)
	}
	if d.cb.MoveUp != nil {
		t[CommandMoveUp] = d.withRaw(d.cb.MoveUp)
	}
	if d.cb.MoveDown != nil {
		t[CommandMoveDown] = d.withRaw(d.cb.MoveDown)
	}
	if d.cb.OpenMedia != nil || d.cb.OpenVideo != nil {
		t[CommandOpenMedia] = d.withEffective(d.openMedia)
	}
	return t
}

// withEffective resolves the target at call time so a rebind between
// construction and dispatch is honoured.
func (d *Dispatcher) withEffective(fn func(*mastodon.Status, Activation)) Handler {
	return func(act Activation) {
		s := d.ctrl.Effective()
		if s == nil {
			return
		}
		fn(s, act)
	}
}

func (d *Dispatcher) withRaw(fn func(id string, featured bool)) Handler {
	return func(act Activation) {
		raw := d.ctrl.Raw()
		if raw == nil {
			return
		}
		fn(raw.ID, act.Featured)
	}
}

func (d *Dispatcher) open(s *mastodon.Status, act Activation) {
	d.navigate(StatusPath(s), act)
}

func (d *Dispatcher) openProfile(s *mastodon.Status, act Activation) {
	d.navigate(ProfilePath(s.Account), act)
}

func (d *Dispatcher) navigate(path string, act Activation) {
	if d.cb.Click != nil {
		d.cb.Click()
		return
	}
	if d.nav == nil {
		return
	}
	if act.NewContext() {
		d.nav.OpenNew(path)
		return
	}
	d.nav.Push(path)
}

func (d *Dispatcher) openMedia(s *mastodon.Status, act Activation) {
	if len(s.MediaAttachments) == 0 {
		return
	}
	lang := MediaLanguage(s)
	first := s.MediaAttachments[0]
	if first.Type == mastodon.MediaVideo {
		if d.cb.OpenVideo != nil {
			d.cb.OpenVideo(s.ID, first, lang, VideoOptions{StartTime: act.StartTime})
		}
		return
	}
	if d.cb.OpenMedia != nil {
		d.cb.OpenMedia(s.ID, s.MediaAttachments, act.MediaIndex, lang)
	}
}

// MediaLanguage prefers the active translation's language.
func MediaLanguage(s *mastodon.Status) string {
	if s.Translation != nil && s.Translation.Language != "" {
		return s.Translation.Language
	}
	return s.Language
}

func StatusPath(s *mastodon.Status) string {
	return "/@" + s.Account.Acct + "/" + s.ID
}

func ProfilePath(account mastodon.Account) string {
	return "/@" + account.Acct
}
