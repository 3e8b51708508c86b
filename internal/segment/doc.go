// Package segment implements the editing core of a dotted-decimal IPv4
// address field.
//
// The field is shown as four independent cells but exposed to the caller as
// one string value. This package owns everything that is not rendering:
//
//   - Store: the four-cell edit buffer and per-cell validation
//   - Navigate: the stateless focus controller
//   - Editor: external value sync, keystroke ordering and change emission
//
// # Segment Rules
//
// A cell accepts zero to three ASCII digits. Anything else is dropped
// silently and the previous text is kept. Accepted text is normalized:
//
//	"999" -> "255"   (clamped)
//	"007" -> "7"     (leading zeros stripped)
//	"000" -> "0"
//	""    -> ""      (mid-edit, allowed)
//
// # Focus Movement
//
// After each event Navigate decides whether focus moves:
//
//	third digit typed      index < 3      -> index+1
//	"." pressed            text not empty -> index+1
//	backspace              text empty     -> index-1
//	left arrow             caret at 0     -> index-1
//	right arrow            caret at end   -> index+1
//
// The decision is delivered through the Focuser interface, implemented by
// whatever renders the cells (a Bubble Tea model, a WebSocket session, the
// replay simulator).
//
// # Usage Example
//
//	editor := segment.NewEditor("192.168.1.10",
//	    segment.WithOnChange(func(v string) { fmt.Println(v) }),
//	)
//
//	focus := segment.FocusFunc(func(i int) { cells[i].Focus() })
//	editor.Input(3, "1", focus)   // prints 192.168.1.1
//	editor.Key(3, segment.KeyBackspace, segment.Snapshot{}, focus)
//
// # Thread Safety
//
// An Editor is not safe for concurrent use. Each instance belongs to one
// widget and is driven from that widget's event loop only.
package segment
