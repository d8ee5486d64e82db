package keymap

import (
	"fmt"

	"github.com/sorenpeters/nota/internal/editor"
)

// Map resolves key descriptor strings to editor actions. It is built once
// from configuration; the editor itself never sees key strings.
type Map struct {
	bindings map[string]editor.Action
}

// actionNames is the vocabulary accepted in configuration overrides.
var actionNames = map[string]editor.Action{
	"enter_insert":        editor.ActionEnterInsert,
	"enter_insert_append": editor.ActionEnterInsertAppend,
	"escape":              editor.ActionEscape,
	"move_left":           editor.ActionMoveLeft,
	"move_right":          editor.ActionMoveRight,
	"move_up":             editor.ActionMoveUp,
	"move_down":           editor.ActionMoveDown,
	"word_forward":        editor.ActionWordForward,
	"word_back":           editor.ActionWordBack,
	"line_start":          editor.ActionLineStart,
	"line_end":            editor.ActionLineEnd,
	"delete_char":         editor.ActionDeleteChar,
	"join_lines":          editor.ActionJoinLines,
	"toggle_checkbox":     editor.ActionToggleCheckbox,
	"undo":                editor.ActionUndo,
	"redo":                editor.ActionRedo,
	"save":                editor.ActionSave,
	"leave":               editor.ActionLeave,
	"none":                editor.ActionNone,
}

func defaults() map[string]editor.Action {
	return map[string]editor.Action{
		"i":      editor.ActionEnterInsert,
		"a":      editor.ActionEnterInsertAppend,
		"esc":    editor.ActionEscape,
		"h":      editor.ActionMoveLeft,
		"left":   editor.ActionMoveLeft,
		"l":      editor.ActionMoveRight,
		"right":  editor.ActionMoveRight,
		"k":      editor.ActionMoveUp,
		"up":     editor.ActionMoveUp,
		"j":      editor.ActionMoveDown,
		"down":   editor.ActionMoveDown,
		"w":      editor.ActionWordForward,
		"b":      editor.ActionWordBack,
		"0":      editor.ActionLineStart,
		"home":   editor.ActionLineStart,
		"$":      editor.ActionLineEnd,
		"end":    editor.ActionLineEnd,
		"x":      editor.ActionDeleteChar,
		"J":      editor.ActionJoinLines,
		"ctrl+t": editor.ActionToggleCheckbox,
		"u":      editor.ActionUndo,
		"ctrl+r": editor.ActionRedo,
		"ctrl+s": editor.ActionSave,
		"q":      editor.ActionLeave,
	}
}

// New builds a key map from the default vim-style table plus configuration
// overrides. Binding a key to "none" unbinds it. Unknown action names fail
// so typos surface at startup rather than as dead keys.
func New(overrides map[string]string) (*Map, error) {
	bindings := defaults()
	for key, name := range overrides {
		action, ok := actionNames[name]
		if !ok {
			return nil, fmt.Errorf("keymap: unknown action %q for key %q", name, key)
		}
		if action == editor.ActionNone {
			delete(bindings, key)
			continue
		}
		bindings[key] = action
	}
	return &Map{bindings: bindings}, nil
}

// Lookup resolves one key descriptor. The second return is false for
// unbound keys.
func (m *Map) Lookup(key string) (editor.Action, bool) {
	action, ok := m.bindings[key]
	return action, ok
}
