package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/jask/lapwatch/internal/config"
)

type Action string

const (
	actionQuit      Action = "quit"
	actionToggle    Action = "toggle"
	actionLap       Action = "lap"
	actionReset     Action = "reset"
	actionClearLaps Action = "clear_laps"
	actionEditTitle Action = "edit_title"
	actionConfirm   Action = "confirm"
	actionCancel    Action = "cancel"
)

const (
	scopeStopwatch  = "stopwatch"
	scopeTitleInput = "title_input"
)

// scopeOrder fixes the order of Export output.
var scopeOrder = []string{scopeStopwatch, scopeTitleInput}

// keyScope is the key table of one input mode. Actions keep the order they
// were bound in so the footer help is stable.
type keyScope struct {
	actions []Action
	keys    map[Action][]string
	help    map[Action]string
	index   map[string]Action
}

// KeyRegistry resolves key presses to widget actions. The stopwatch scope
// is active normally and the title_input scope while the title is being
// edited.
type KeyRegistry struct {
	scopes map[string]*keyScope
}

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{scopes: make(map[string]*keyScope)}

	r.bind(scopeStopwatch, actionToggle, "start/pause", "space")
	r.bind(scopeStopwatch, actionLap, "lap", "l", "L")
	r.bind(scopeStopwatch, actionReset, "reset", "r", "R")
	r.bind(scopeStopwatch, actionClearLaps, "clear laps", "c")
	r.bind(scopeStopwatch, actionEditTitle, "rename", "e")
	r.bind(scopeStopwatch, actionQuit, "quit", "q", "ctrl+c")

	// Nothing else is reserved while typing, so every other key reaches
	// the input as text.
	r.bind(scopeTitleInput, actionConfirm, "save", "enter")
	r.bind(scopeTitleInput, actionCancel, "cancel", "esc")
	r.bind(scopeTitleInput, actionQuit, "quit", "ctrl+c")

	return r
}

func (r *KeyRegistry) bind(scope string, a Action, help string, keys ...string) {
	s := r.scopes[scope]
	if s == nil {
		s = &keyScope{
			keys:  make(map[Action][]string),
			help:  make(map[Action]string),
			index: make(map[string]Action),
		}
		r.scopes[scope] = s
	}
	s.actions = append(s.actions, a)
	s.help[a] = help
	s.keys[a] = normalizeKeys(keys)
	for _, k := range s.keys[a] {
		s.index[k] = a
	}
}

// Lookup resolves a key name, as produced by tea.KeyMsg.String, in scope.
func (r *KeyRegistry) Lookup(keyName, scope string) (Action, bool) {
	s := r.scopes[scope]
	if s == nil {
		return "", false
	}
	a, ok := s.index[normalizeKey(keyName)]
	return a, ok
}

// KeyFor returns the first key bound to action in scope, or "".
func (r *KeyRegistry) KeyFor(a Action, scope string) string {
	if s := r.scopes[scope]; s != nil && len(s.keys[a]) > 0 {
		return s.keys[a][0]
	}
	return ""
}

// HelpBindings lists the scope's actions for the footer.
func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	s := r.scopes[scope]
	if s == nil {
		return nil
	}
	out := make([]key.Binding, 0, len(s.actions))
	for _, a := range s.actions {
		keys := s.keys[a]
		out = append(out, key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], s.help[a])))
	}
	return out
}

// ApplyOverrides replaces the keys of the named actions. It fails on an
// unknown scope or action and when two actions of a scope share a key; the
// registry is left unchanged on error.
func (r *KeyRegistry) ApplyOverrides(items []config.KeyOverride) error {
	if len(items) == 0 {
		return nil
	}
	pending := make(map[string]map[Action][]string)
	for _, o := range items {
		scope, a := strings.TrimSpace(o.Scope), Action(strings.TrimSpace(o.Action))
		s := r.scopes[scope]
		if s == nil {
			return fmt.Errorf("keys: unknown scope %q", scope)
		}
		if _, ok := s.help[a]; !ok {
			return fmt.Errorf("keys: scope %q has no action %q", scope, a)
		}
		keys := normalizeKeys(o.Keys)
		if len(keys) == 0 {
			return fmt.Errorf("keys: %s/%s: no keys given", scope, a)
		}
		if pending[scope] == nil {
			pending[scope] = make(map[Action][]string)
		}
		if _, dup := pending[scope][a]; dup {
			return fmt.Errorf("keys: %s/%s overridden twice", scope, a)
		}
		pending[scope][a] = keys
	}

	next := make(map[string]map[string]Action, len(pending))
	for scope, changed := range pending {
		s := r.scopes[scope]
		index := make(map[string]Action)
		for _, a := range s.actions {
			keys, ok := changed[a]
			if !ok {
				keys = s.keys[a]
			}
			for _, k := range keys {
				if prev, taken := index[k]; taken {
					return fmt.Errorf("keys: %q bound to both %s and %s in scope %q", k, prev, a, scope)
				}
				index[k] = a
			}
		}
		next[scope] = index
	}

	for scope, changed := range pending {
		s := r.scopes[scope]
		for a, keys := range changed {
			s.keys[a] = keys
		}
		s.index = next[scope]
	}
	return nil
}

// Export returns every binding in config form, scopes and actions in
// registration order.
func (r *KeyRegistry) Export() []config.KeyOverride {
	var out []config.KeyOverride
	for _, scope := range scopeOrder {
		s := r.scopes[scope]
		for _, a := range s.actions {
			out = append(out, config.KeyOverride{
				Scope:  scope,
				Action: string(a),
				Keys:   append([]string(nil), s.keys[a]...),
			})
		}
	}
	return out
}

var keyAliases = map[string]string{
	"spacebar": "space",
	"return":   "enter",
	"escape":   "esc",
}

func normalizeKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		n := normalizeKey(k)
		if n == "" || containsKey(out, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// normalizeKey maps config spellings and tea key names onto one form. A
// single uppercase letter stays distinct from its lowercase form.
func normalizeKey(k string) string {
	if k == " " {
		return "space"
	}
	k = strings.TrimSpace(k)
	if len(k) == 1 {
		return k
	}
	k = strings.ToLower(strings.ReplaceAll(k, " ", ""))
	k = strings.Replace(k, "control+", "ctrl+", 1)
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	return k
}

func containsKey(keys []string, k string) bool {
	for _, have := range keys {
		if have == k {
			return true
		}
	}
	return false
}
