package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/fedi-cli/internal/status"
)

type Binding struct {
	Command status.Command
	Key     key.Binding
}

// Keymap binds keys to the status command set. The first matching binding
// wins.
type Keymap struct {
	bindings []Binding
}

func Default() Keymap {
	bind := func(cmd status.Command, help string, keys ...string) Binding {
		return Binding{
			Command: cmd,
			Key:     key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, "/"), help)),
		}
	}
	return Keymap{bindings: []Binding{
		bind(status.CommandReply, "reply in browser", "r"),
		bind(status.CommandFavourite, "favourite", "f"),
		bind(status.CommandBoost, "boost", "b"),
		bind(status.CommandMention, "mention author", "m"),
		bind(status.CommandOpen, "open status", "o", "enter"),
		bind(status.CommandOpenProfile, "open profile", "p"),
		bind(status.CommandMoveUp, "previous status", "k", "up"),
		bind(status.CommandMoveDown, "next status", "j", "down"),
		bind(status.CommandToggleHidden, "show/hide content warning or filter", "x"),
		bind(status.CommandToggleSensitive, "show/hide media", "h"),
		bind(status.CommandOpenMedia, "view media", "e"),
		bind(status.CommandTranslate, "translate", "T"),
	}}
}

func (k Keymap) Lookup(msg tea.KeyMsg) (status.Command, bool) {
	for _, b := range k.bindings {
		if key.Matches(msg, b.Key) {
			return b.Command, true
		}
	}
	return "", false
}

// Keys returns the keys bound to cmd in binding order.
func (k Keymap) Keys(cmd status.Command) []string {
	var keys []string
	for _, b := range k.bindings {
		if b.Command == cmd {
			keys = append(keys, b.Key.Keys()...)
		}
	}
	return keys
}

// Bindings returns the bindings in declaration order, for help output.
func (k Keymap) Bindings() []Binding {
	return append([]Binding(nil), k.bindings...)
}

