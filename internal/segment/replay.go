package segment

import (
	"fmt"
	"strconv"
	"strings"
)

// StrokeKind identifies a scripted action
type StrokeKind int

const (
	// StrokeType types one character at the caret
	StrokeType StrokeKind = iota
	// StrokeKey presses a navigation key
	StrokeKey
	// StrokeReplace replaces the whole focused cell text (select all + type, or paste)
	StrokeReplace
	// StrokeFocus clicks into a cell, caret at the end
	StrokeFocus
	// StrokeSet supplies a new external value
	StrokeSet
)

// Stroke is one scripted action
type Stroke struct {
	Kind  StrokeKind
	Char  rune   // StrokeType
	Key   Key    // StrokeKey
	Text  string // StrokeReplace, StrokeSet
	Index int    // StrokeFocus
}

// String returns the script token for the stroke
func (s Stroke) String() string {
	switch s.Kind {
	case StrokeType:
		return string(s.Char)
	case StrokeKey:
		return s.Key.String()
	case StrokeReplace:
		return "replace:" + s.Text
	case StrokeFocus:
		return "focus:" + strconv.Itoa(s.Index)
	case StrokeSet:
		return "set:" + s.Text
	default:
		return fmt.Sprintf("StrokeKind(%d)", int(s.Kind))
	}
}

// ScriptError reports an unparsable script token
type ScriptError struct {
	Position int // 1-based token position
	Token    string
	Reason   string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("token %d %q: %s", e.Position, e.Token, e.Reason)
}

// ParseScript parses a comma separated keystroke script.
//
// Tokens:
//
//	192           types '1', '9', '2' one keystroke at a time
//	. | dot       separator key
//	bs | backspace
//	left | right
//	replace:5     replaces the focused cell's text with "5"
//	focus:2       moves focus to cell 2
//	set:10.0.0.1  supplies an external value
func ParseScript(script string) ([]Stroke, error) {
	var strokes []Stroke
	if strings.TrimSpace(script) == "" {
		return strokes, nil
	}

	for i, raw := range strings.Split(script, ",") {
		tok := strings.TrimSpace(raw)
		pos := i + 1

		if tok == "" {
			return nil, &ScriptError{Position: pos, Token: raw, Reason: "empty token"}
		}

		name, arg, hasArg := strings.Cut(tok, ":")
		if hasArg {
			switch name {
			case "replace":
				strokes = append(strokes, Stroke{Kind: StrokeReplace, Text: arg})
			case "set":
				strokes = append(strokes, Stroke{Kind: StrokeSet, Text: arg})
			case "focus":
				n, err := strconv.Atoi(arg)
				if err != nil || !ValidIndex(n) {
					return nil, &ScriptError{Position: pos, Token: tok, Reason: "focus index must be 0-3"}
				}
				strokes = append(strokes, Stroke{Kind: StrokeFocus, Index: n})
			default:
				return nil, &ScriptError{Position: pos, Token: tok, Reason: "unknown action " + strconv.Quote(name)}
			}
			continue
		}

		if k := ParseKey(tok); k != KeyOther {
			strokes = append(strokes, Stroke{Kind: StrokeKey, Key: k})
			continue
		}

		for _, r := range tok {
			if r == '.' {
				strokes = append(strokes, Stroke{Kind: StrokeKey, Key: KeySeparator})
				continue
			}
			strokes = append(strokes, Stroke{Kind: StrokeType, Char: r})
		}
	}

	return strokes, nil
}

// Step records the outcome of one stroke
type Step struct {
	Stroke   Stroke
	Cell     int    // cell the stroke happened in
	Accepted bool   // a text change was stored
	Moved    bool   // focus moved
	Focus    int    // focused cell after the stroke
	Value    string // composed value after the stroke
}

// Simulator stands in for a rendering boundary: it tracks which cell is
// focused and where the caret is, and turns strokes into Editor calls the
// way a text cell would.
type Simulator struct {
	editor *Editor
	focus  int
	caret  int
}

// NewSimulator creates a simulator with focus in cell 0, caret at the end.
func NewSimulator(editor *Editor) *Simulator {
	s := &Simulator{editor: editor}
	s.caret = len(editor.Segment(0))
	return s
}

// FocusedCell returns the focused cell index
func (s *Simulator) FocusedCell() int {
	return s.focus
}

// Caret returns the caret offset in the focused cell
func (s *Simulator) Caret() int {
	return s.caret
}

// Focus implements Focuser. Moving backwards puts the caret at the end of
// the target cell, moving forwards puts it at the start.
func (s *Simulator) Focus(index int) {
	if !ValidIndex(index) {
		return
	}
	if index < s.focus {
		s.caret = len(s.editor.Segment(index))
	} else {
		s.caret = 0
	}
	s.focus = index
}

// Apply runs one stroke
func (s *Simulator) Apply(st Stroke) Step {
	cell := s.focus
	step := Step{Stroke: st, Cell: cell}

	switch st.Kind {
	case StrokeType:
		text := s.editor.Segment(cell)
		raw := text[:s.caret] + string(st.Char) + text[s.caret:]
		pos := s.caret + 1
		step.Accepted = s.input(cell, raw, pos)

	case StrokeReplace:
		step.Accepted = s.input(cell, st.Text, len(st.Text))

	case StrokeKey:
		text := s.editor.Segment(cell)
		snap := Snapshot{Text: text, CaretStart: s.caret, CaretEnd: s.caret}
		if s.editor.Key(cell, st.Key, snap, s) {
			break
		}
		// default action of the key
		switch st.Key {
		case KeyBackspace:
			if s.caret > 0 {
				raw := text[:s.caret-1] + text[s.caret:]
				step.Accepted = s.input(cell, raw, s.caret-1)
			}
		case KeyLeft:
			if s.caret > 0 {
				s.caret--
			}
		case KeyRight:
			if s.caret < len(text) {
				s.caret++
			}
		}

	case StrokeFocus:
		s.focus = st.Index
		s.caret = len(s.editor.Segment(st.Index))

	case StrokeSet:
		s.editor.SetValue(st.Text)
		s.caret = min(s.caret, len(s.editor.Segment(s.focus)))
	}

	step.Moved = s.focus != cell
	step.Focus = s.focus
	step.Value = s.editor.Value()
	return step
}

// input feeds a text change to the editor and places the caret at pos,
// clamped to the stored text, when focus stayed in the cell.
func (s *Simulator) input(cell int, raw string, pos int) bool {
	if !s.editor.Input(cell, raw, s) {
		return false
	}
	if s.focus == cell {
		s.caret = min(pos, len(s.editor.Segment(cell)))
	}
	return true
}

// Replay runs strokes against editor from a fresh simulator and returns one
// step per stroke.
func Replay(editor *Editor, strokes []Stroke) []Step {
	sim := NewSimulator(editor)
	steps := make([]Step, 0, len(strokes))
	for _, st := range strokes {
		steps = append(steps, sim.Apply(st))
	}
	return steps
}
