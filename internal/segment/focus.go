package segment

import "fmt"

// NoFocus is the target returned when focus should stay where it is.
const NoFocus = -1

// Event identifies what happened in a cell.
type Event int

const (
	// EventInput is an accepted text change
	EventInput Event = iota
	// EventSeparator is the "." key
	EventSeparator
	// EventBackspace is the backspace key, observed before the deletion
	EventBackspace
	// EventLeft is the left arrow key
	EventLeft
	// EventRight is the right arrow key
	EventRight
)

// String returns a human-readable name for the event
func (e Event) String() string {
	switch e {
	case EventInput:
		return "input"
	case EventSeparator:
		return "separator"
	case EventBackspace:
		return "backspace"
	case EventLeft:
		return "left"
	case EventRight:
		return "right"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Snapshot is the state of the cell an event happened in.
// CaretStart and CaretEnd are rune offsets of the selection (equal when
// nothing is selected).
type Snapshot struct {
	Text       string
	CaretStart int
	CaretEnd   int
}

// CaretAtEnd returns a snapshot of text with the caret after the last character.
func CaretAtEnd(text string) Snapshot {
	return Snapshot{Text: text, CaretStart: len(text), CaretEnd: len(text)}
}

// Navigate decides where focus goes after an event in the cell at index.
// ok is false when focus stays; target is then NoFocus.
func Navigate(index int, event Event, snap Snapshot) (target int, ok bool) {
	if !ValidIndex(index) {
		return NoFocus, false
	}

	switch event {
	case EventInput:
		if len(snap.Text) == MaxDigits && index < Count-1 {
			return index + 1, true
		}
	case EventSeparator:
		if len(snap.Text) > 0 && index < Count-1 {
			return index + 1, true
		}
	case EventBackspace:
		if snap.Text == "" && index > 0 {
			return index - 1, true
		}
	case EventLeft:
		if snap.CaretStart == 0 && index > 0 {
			return index - 1, true
		}
	case EventRight:
		if snap.CaretEnd == len(snap.Text) && index < Count-1 {
			return index + 1, true
		}
	}

	return NoFocus, false
}

// Focuser moves input focus to a cell. It is implemented by the rendering side.
type Focuser interface {
	Focus(index int)
}

// FocusFunc adapts a function to the Focuser interface.
type FocusFunc func(index int)

// Focus calls f(index)
func (f FocusFunc) Focus(index int) {
	f(index)
}
