// Package keybind implements the keybinding grammar and action map described
// in spec.md ยง6: a JSON configuration of named actions to one or more key
// labels of the form "[modifier+]*key".
package keybind

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Action names a user intent the session runtime dispatches on.
type Action string

const (
	Clear                Action = "clear"
	Exit                 Action = "exit"
	Interrupt            Action = "interrupt"
	CycleThinkingLevel   Action = "cycleThinkingLevel"
	ExpandTools          Action = "expandTools"
	CycleModelForward    Action = "cycleModelForward"
	CycleModelBackward   Action = "cycleModelBackward"
	CyclePermissionMode  Action = "cyclePermissionMode"
	SelectModel          Action = "selectModel"
	ToggleThinking       Action = "toggleThinking"
	FollowUp             Action = "followUp"
	Dequeue              Action = "dequeue"
	Newline              Action = "newline"
)

// allActions lists every recognized action, used for validation and default
// construction.
var allActions = []Action{
	Clear, Exit, Interrupt, CycleThinkingLevel, ExpandTools,
	CycleModelForward, CycleModelBackward, CyclePermissionMode,
	SelectModel, ToggleThinking, FollowUp, Dequeue, Newline,
}

// modifierOrder fixes canonical modifier ordering for formatting so that
// round-tripping a parsed binding through Format always yields the same
// string regardless of the input's modifier order.
var modifierOrder = []string{"ctrl", "alt", "shift", "meta"}

var namedKeys = map[string]bool{
	"enter": true, "escape": true, "esc": true, "tab": true,
	"up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pageup": true, "pagedown": true,
	"backspace": true, "space": true,
	"f1": true, "f2": true, "f3": true, "f4": true, "f5": true, "f6": true,
	"f7": true, "f8": true, "f9": true, "f10": true, "f11": true, "f12": true,
}

// Binding is a parsed key label: a set of modifiers plus a base key.
type Binding struct {
	Modifiers map[string]bool
	Key       string
}

// ParseKeyID parses a canonical label like "ctrl+shift+p" or "escape" into a
// Binding. Returns an error if the key portion isn't a recognized letter,
// digit, or named key.
func ParseKeyID(label string) (Binding, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(label)), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Binding{}, fmt.Errorf("keybind: empty label")
	}
	key := parts[len(parts)-1]
	mods := map[string]bool{}
	for _, m := range parts[:len(parts)-1] {
		switch m {
		case "ctrl", "shift", "alt", "meta":
			mods[m] = true
		default:
			return Binding{}, fmt.Errorf("keybind: unknown modifier %q in %q", m, label)
		}
	}
	if key == "esc" {
		key = "escape"
	}
	if !isValidKey(key) {
		return Binding{}, fmt.Errorf("keybind: unrecognized key %q in %q", key, label)
	}
	return Binding{Modifiers: mods, Key: key}, nil
}

func isValidKey(key string) bool {
	if namedKeys[key] {
		return true
	}
	if len(key) == 1 {
		c := key[0] // already lowercased by ParseKeyID
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	return false
}

// FormatKeybindingLower renders a Binding back to its canonical lowercase
// label, e.g. "ctrl+shift+p". Modifiers are emitted in a fixed order so this
// is a true inverse of ParseKeyID for any binding it produced.
func FormatKeybindingLower(b Binding) string {
	var parts []string
	for _, m := range modifierOrder {
		if b.Modifiers[m] {
			parts = append(parts, m)
		}
	}
	parts = append(parts, b.Key)
	return strings.Join(parts, "+")
}

// Bindings maps each action to its configured key labels (order preserved,
// any one label matches).
type Bindings map[Action][]string

// Matches reports whether any label bound to action equals keyLabel after
// canonical parsing (so "esc" matches a binding configured as "escape").
func (b Bindings) Matches(action Action, keyLabel string) bool {
	parsed, err := ParseKeyID(keyLabel)
	if err != nil {
		return false
	}
	canon := FormatKeybindingLower(parsed)
	for _, label := range b[action] {
		p, err := ParseKeyID(label)
		if err != nil {
			continue
		}
		if FormatKeybindingLower(p) == canon {
			return true
		}
	}
	return false
}

// Default returns the built-in keybinding set.
func Default() Bindings {
	return Bindings{
		Clear:               {"ctrl+l"},
		Exit:                {"ctrl+c", "ctrl+d"},
		Interrupt:           {"escape"},
		CycleThinkingLevel:  {"ctrl+t"},
		ExpandTools:         {"ctrl+r"},
		CycleModelForward:   {"ctrl+n"},
		CycleModelBackward:  {"ctrl+p"},
		CyclePermissionMode: {"shift+tab"},
		SelectModel:         {"ctrl+o"},
		ToggleThinking:      {"ctrl+shift+t"},
		FollowUp:            {"enter"},
		Dequeue:             {"ctrl+u"},
		Newline:             {"shift+enter", "ctrl+j"},
	}
}

// Load reads a keybindings.json file (spec.md ยง6) at path, overlaying its
// entries onto Default(). A missing file is not an error: Default() alone is
// returned. A malformed file returns an error.
func Load(path string) (Bindings, error) {
	out := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return out, fmt.Errorf("keybind: read %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return out, fmt.Errorf("keybind: parse %s: %w", path, err)
	}

	valid := map[Action]bool{}
	for _, a := range allActions {
		valid[a] = true
	}

	for key, val := range raw {
		action := Action(key)
		if !valid[action] {
			return out, fmt.Errorf("keybind: unknown action %q", key)
		}
		labels, err := decodeLabels(val)
		if err != nil {
			return out, fmt.Errorf("keybind: action %q: %w", key, err)
		}
		for _, l := range labels {
			if _, err := ParseKeyID(l); err != nil {
				return out, fmt.Errorf("keybind: action %q: %w", key, err)
			}
		}
		out[action] = labels
	}
	return out, nil
}

func decodeLabels(raw json.RawMessage) ([]string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}
	return nil, fmt.Errorf("value must be a string or array of strings")
}

// SortedActions returns all recognized actions in a stable, readable order,
// used by /help rendering.
func SortedActions() []Action {
	out := append([]Action(nil), allActions...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
