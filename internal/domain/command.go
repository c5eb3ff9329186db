package domain

import (
	"fmt"
	"strings"
)

// Action is one of the automation driver capabilities
type Action int

const (
	ActionNavigate Action = iota
	ActionClick
	ActionType
	ActionDiscover
)

// String returns the verb form of the action
func (a Action) String() string {
	switch a {
	case ActionNavigate:
		return "navigate"
	case ActionClick:
		return "click"
	case ActionType:
		return "type"
	case ActionDiscover:
		return "discover"
	}
	return "unknown"
}

// Command is a step instruction normalized to one driver capability.
// Click and type targets are either selector literals or @name references
// to an element discovered by an earlier step.
type Command struct {
	Action Action
	URL    string // navigate destination
	Target string // click/type target
	Text   string // text sent by a type command
	Scope  string // discover scope selector, empty means the whole page
}

// String renders the command in its canonical source form
func (c Command) String() string {
	switch c.Action {
	case ActionNavigate:
		return "navigate to " + c.URL
	case ActionClick:
		return "click " + c.Target
	case ActionType:
		return fmt.Sprintf("type %q into %s", c.Text, c.Target)
	case ActionDiscover:
		if c.Scope == "" {
			return "discover elements"
		}
		return "discover elements in " + c.Scope
	}
	return "unknown command"
}

// IsRef reports whether a target references a discovered element by its
// logical name rather than naming a selector directly
func IsRef(target string) bool {
	return strings.HasPrefix(target, "@")
}

// RefName returns the logical element name of a reference target
func RefName(target string) string {
	return strings.TrimPrefix(target, "@")
}
