// Package confirm implements the delete confirmation dialog.
package confirm

import (
	"errors"
	"fmt"
)

// State is the dialog lifecycle state
type State int

const (
	Hidden State = iota
	Shown
	Confirming
	Confirmed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "HIDDEN"
	case Shown:
		return "SHOWN"
	case Confirming:
		return "CONFIRMING"
	case Confirmed:
		return "CONFIRMED"
	case Cancelled:
		return "CANCELLED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Focus identifies the focused control
type Focus int

const (
	FocusCancel Focus = iota
	FocusConfirm
)

var (
	ErrInvalidTransition = errors.New("invalid dialog transition")
	ErrBusy              = errors.New("dialog is busy")
)

// Target is the entity awaiting confirmation
type Target struct {
	ID    string
	Title string
}

// Request authorises one destructive call. Only Dialog.Confirm can
// produce a valid Request.
type Request struct {
	target Target
	seq    uint64
}

// Target returns the entity the request applies to
func (r Request) Target() Target {
	return r.target
}

// Valid reports whether the request came from a confirmed dialog
func (r Request) Valid() bool {
	return r.seq > 0 && r.target.ID != ""
}

// Dialog is the confirmation state machine. The zero value is Hidden.
type Dialog struct {
	state   State
	target  Target
	focus   Focus
	err     string
	outcome State
	seq     uint64
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case Hidden:
		return to == Shown
	case Shown:
		return to == Confirming || to == Cancelled
	case Confirming:
		return to == Confirmed || to == Shown
	case Confirmed, Cancelled:
		return to == Hidden
	default:
		return false
	}
}

func (d *Dialog) transition(to State) error {
	if !isAllowedTransition(d.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.state, to)
	}
	d.state = to
	return nil
}

// Show opens the dialog for target with focus on Cancel
func (d *Dialog) Show(target Target) error {
	if err := d.transition(Shown); err != nil {
		return err
	}
	d.target = target
	d.focus = FocusCancel
	d.err = ""
	return nil
}

// Cancel dismisses the dialog. It is refused while the delete is in flight.
func (d *Dialog) Cancel() error {
	if d.state == Confirming {
		return ErrBusy
	}
	if err := d.transition(Cancelled); err != nil {
		return err
	}
	d.outcome = Cancelled
	return d.close()
}

// Confirm starts the destructive action and returns its authorisation
func (d *Dialog) Confirm() (Request, error) {
	if err := d.transition(Confirming); err != nil {
		return Request{}, err
	}
	d.seq++
	d.err = ""
	return Request{target: d.target, seq: d.seq}, nil
}

// Succeed closes the dialog after the action completed
func (d *Dialog) Succeed() error {
	if err := d.transition(Confirmed); err != nil {
		return err
	}
	d.outcome = Confirmed
	return d.close()
}

// Fail returns to Shown with an inline error
func (d *Dialog) Fail(msg string) error {
	if err := d.transition(Shown); err != nil {
		return err
	}
	d.err = msg
	d.focus = FocusCancel
	return nil
}

func (d *Dialog) close() error {
	if err := d.transition(Hidden); err != nil {
		return err
	}
	d.target = Target{}
	d.focus = FocusCancel
	d.err = ""
	return nil
}

// Activate triggers the focused control. confirmed is true when a
// Request was issued.
func (d *Dialog) Activate() (req Request, confirmed bool, err error) {
	if d.focus == FocusConfirm {
		req, err = d.Confirm()
		return req, err == nil, err
	}
	return Request{}, false, d.Cancel()
}

// ToggleFocus moves focus to the other control
func (d *Dialog) ToggleFocus() {
	if d.state != Shown {
		return
	}
	if d.focus == FocusCancel {
		d.focus = FocusConfirm
	} else {
		d.focus = FocusCancel
	}
}

func (d *Dialog) State() State { return d.state }

func (d *Dialog) Focus() Focus { return d.focus }

func (d *Dialog) Target() Target { return d.target }

// Error is the inline message from the last failed attempt
func (d *Dialog) Error() string { return d.err }

func (d *Dialog) Visible() bool { return d.state != Hidden }

// Busy reports whether the destructive call is in flight
func (d *Dialog) Busy() bool { return d.state == Confirming }

// LastOutcome is Confirmed or Cancelled for the most recent close
func (d *Dialog) LastOutcome() State { return d.outcome }

// Title is the dialog heading
func (d *Dialog) Title() string {
	return `Delete "` + d.target.Title + `"?`
}

// Message is the dialog body
func (d *Dialog) Message() string {
	return "This cannot be undone."
}

// ConfirmLabel is the destructive button label
func (d *Dialog) ConfirmLabel() string {
	if d.Busy() {
		return "Deleting..."
	}
	return "Delete"
}

// CancelLabel is the cancel button label
func (d *Dialog) CancelLabel() string {
	return "Cancel"
}
