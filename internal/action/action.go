// Package action describes the high-level system actions a button or
// gesture can trigger, and hands them to an executor off the hook path.
package action

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the type of system action.
type Kind uint8

const (
	None Kind = iota
	MissionControl
	AppExpose
	Launchpad
	ShowDesktop
	SmartZoom
	NavigateBack
	NavigateForward
	MiddleClick
	SwitchDesktopLeft
	SwitchDesktopRight
	KeyboardShortcut
)

var kindNames = map[Kind]string{
	None:               "none",
	MissionControl:     "mission_control",
	AppExpose:          "app_expose",
	Launchpad:          "launchpad",
	ShowDesktop:        "show_desktop",
	SmartZoom:          "smart_zoom",
	NavigateBack:       "navigate_back",
	NavigateForward:    "navigate_forward",
	MiddleClick:        "middle_click",
	SwitchDesktopLeft:  "switch_desktop_left",
	SwitchDesktopRight: "switch_desktop_right",
	KeyboardShortcut:   "shortcut",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", uint8(k))
}

// Shortcut is a synthetic key press with modifiers.
type Shortcut struct {
	KeyCode uint16 `yaml:"key_code"`
	Command bool   `yaml:"command,omitempty"`
	Option  bool   `yaml:"option,omitempty"`
	Control bool   `yaml:"control,omitempty"`
	Shift   bool   `yaml:"shift,omitempty"`
	Name    string `yaml:"name,omitempty"`
}

func (s Shortcut) String() string {
	if s.Name != "" {
		return s.Name
	}
	var b strings.Builder
	if s.Control {
		b.WriteString("ctrl+")
	}
	if s.Option {
		b.WriteString("opt+")
	}
	if s.Shift {
		b.WriteString("shift+")
	}
	if s.Command {
		b.WriteString("cmd+")
	}
	fmt.Fprintf(&b, "0x%02x", s.KeyCode)
	return b.String()
}

// Action is a value type; the zero value is None.
type Action struct {
	Kind     Kind
	Shortcut Shortcut
}

// Of returns an action of kind k without a shortcut payload.
func Of(k Kind) Action {
	return Action{Kind: k}
}

// Key returns a keyboard shortcut action.
func Key(s Shortcut) Action {
	return Action{Kind: KeyboardShortcut, Shortcut: s}
}

// Trivial reports whether executing a does nothing. Trivial actions never
// cause an event to be swallowed.
func (a Action) Trivial() bool {
	return a.Kind == None
}

func (a Action) String() string {
	if a.Kind == KeyboardShortcut {
		return "shortcut " + a.Shortcut.String()
	}
	return a.Kind.String()
}

// ParseKind maps a configuration name to a Kind. The shortcut kind is not
// addressable by name since it needs a payload.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if k != KeyboardShortcut && name == s {
			return k, nil
		}
	}
	return None, fmt.Errorf("unknown action %q", s)
}

type shortcutNode struct {
	Shortcut *Shortcut `yaml:"shortcut"`
}

// UnmarshalYAML accepts either a bare action name or a mapping of the form
// {shortcut: {key_code: 126, control: true}}.
func (a *Action) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		k, err := ParseKind(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*a = Of(k)
		return nil
	case yaml.MappingNode:
		var sn shortcutNode
		if err := node.Decode(&sn); err != nil {
			return err
		}
		if sn.Shortcut == nil {
			return fmt.Errorf("line %d: action mapping needs a shortcut key", node.Line)
		}
		*a = Key(*sn.Shortcut)
		return nil
	}
	return fmt.Errorf("line %d: action must be a name or a shortcut mapping", node.Line)
}

// MarshalYAML is the inverse of UnmarshalYAML.
func (a Action) MarshalYAML() (interface{}, error) {
	if a.Kind == KeyboardShortcut {
		s := a.Shortcut
		return shortcutNode{Shortcut: &s}, nil
	}
	return a.Kind.String(), nil
}
