package segment

import (
	"fmt"
	"net/netip"
	"strconv"

	"github.com/muurk/ipfield/internal/logging"
)

// Key is a navigation key reported by the rendering side.
type Key int

const (
	// KeyOther is any key without navigation meaning
	KeyOther Key = iota
	// KeySeparator is the "." key
	KeySeparator
	// KeyBackspace deletes backwards
	KeyBackspace
	// KeyLeft moves the caret left
	KeyLeft
	// KeyRight moves the caret right
	KeyRight
)

// String returns a human-readable name for the key
func (k Key) String() string {
	switch k {
	case KeyOther:
		return "other"
	case KeySeparator:
		return "separator"
	case KeyBackspace:
		return "backspace"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

// ParseKey maps a key name to a Key. Unknown names map to KeyOther.
func ParseKey(name string) Key {
	switch name {
	case ".", "dot", "separator":
		return KeySeparator
	case "backspace", "bs":
		return KeyBackspace
	case "left", "arrowleft", "ArrowLeft":
		return KeyLeft
	case "right", "arrowright", "ArrowRight":
		return KeyRight
	default:
		return KeyOther
	}
}

// event returns the navigation event for a key
func (k Key) event() (Event, bool) {
	switch k {
	case KeySeparator:
		return EventSeparator, true
	case KeyBackspace:
		return EventBackspace, true
	case KeyLeft:
		return EventLeft, true
	case KeyRight:
		return EventRight, true
	default:
		return 0, false
	}
}

// Option configures an Editor
type Option func(*Editor)

// WithOnChange sets the callback invoked with the composed value after every
// accepted mutation.
func WithOnChange(fn func(value string)) Option {
	return func(e *Editor) {
		e.onChange = fn
	}
}

// Editor ties the store, the focus controller and the outside world together.
type Editor struct {
	store    *Store
	onChange func(value string)
}

// NewEditor creates an editor initialized from an external value.
func NewEditor(value string, opts ...Option) *Editor {
	e := &Editor{store: NewStore(value)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetValue replaces the local edit state with an externally supplied value.
// No change is emitted.
func (e *Editor) SetValue(value string) {
	e.store.Reset(value)
}

// Value returns the composed value
func (e *Editor) Value() string {
	return e.store.Value()
}

// Segment returns the text of one cell
func (e *Editor) Segment(index int) string {
	return e.store.Segment(index)
}

// Segments returns a copy of all cells
func (e *Editor) Segments() Segments {
	return e.store.Segments()
}

// Input handles a raw text change in the cell at index.
//
// The order is fixed: validation, normalization, store mutation, focus
// decision, change emission. A rejected change leaves everything untouched
// and returns false.
func (e *Editor) Input(index int, raw string, f Focuser) bool {
	if !e.store.Apply(index, raw) {
		logging.LogSegmentInput(index, raw, "", false)
		return false
	}

	stored := e.store.Segment(index)
	logging.LogSegmentInput(index, raw, stored, true)

	if target, ok := Navigate(index, EventInput, CaretAtEnd(stored)); ok {
		e.moveFocus(f, index, target, EventInput)
	}

	e.emit()
	return true
}

// Key handles a navigation key in the cell at index. snap describes the cell
// before the key's default action. Returns true when focus was moved, in
// which case the caller should not apply the key's default action.
func (e *Editor) Key(index int, k Key, snap Snapshot, f Focuser) bool {
	event, ok := k.event()
	if !ok {
		return false
	}

	target, ok := Navigate(index, event, snap)
	if !ok {
		return false
	}

	e.moveFocus(f, index, target, event)
	return true
}

// Complete reports whether every cell holds a value
func (e *Editor) Complete() bool {
	return e.store.Segments().Filled()
}

// Addr returns the address held by the editor.
// ok is false while any cell is empty, or when an externally supplied cell is
// not a number in range.
func (e *Editor) Addr() (netip.Addr, bool) {
	return SegmentsAddr(e.store.Segments())
}

// SegmentsAddr converts four cells to an address.
func SegmentsAddr(s Segments) (netip.Addr, bool) {
	var octets [Count]byte
	for i, v := range s {
		if v == "" || len(v) > MaxDigits || !isDigits(v) {
			return netip.Addr{}, false
		}
		n, err := strconv.Atoi(v)
		if err != nil || n > MaxValue {
			return netip.Addr{}, false
		}
		octets[i] = byte(n)
	}
	return netip.AddrFrom4(octets), true
}

func (e *Editor) moveFocus(f Focuser, from, to int, event Event) {
	logging.LogFocusMove(from, to, event.String())
	if f != nil {
		f.Focus(to)
	}
}

func (e *Editor) emit() {
	value := e.store.Value()
	logging.LogValueChange(value)
	if e.onChange != nil {
		e.onChange(value)
	}
}
