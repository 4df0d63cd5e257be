package tasksync

import "fmt"

// Action names a mutating user action
type Action int

const (
	ActionNone Action = iota
	ActionLoad
	ActionToggle
	ActionReorder
	ActionCreate
	ActionEdit
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionLoad:
		return "load"
	case ActionToggle:
		return "toggle"
	case ActionReorder:
		return "reorder"
	case ActionCreate:
		return "create"
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Notice is the single pending user-visible message. A new notice
// replaces the previous one.
type Notice struct {
	Action  Action
	TaskID  string
	Message string
}

// Empty reports whether there is nothing to show
func (n Notice) Empty() bool {
	return n.Message == ""
}

// ActionError is returned by a failed action. Its message is the text
// to show the user; the cause is available through Unwrap.
type ActionError struct {
	Action  Action
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	return e.Message
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
