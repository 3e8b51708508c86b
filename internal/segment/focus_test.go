package segment

import "testing"

func TestNavigate(t *testing.T) {
	tests := []struct {
		name       string
		index      int
		event      Event
		snap       Snapshot
		wantTarget int
		wantOK     bool
	}{
		// auto-advance
		{"third digit advances", 0, EventInput, CaretAtEnd("192"), 1, true},
		{"third digit in cell 2 advances", 2, EventInput, CaretAtEnd("100"), 3, true},
		{"third digit in last cell stays", 3, EventInput, CaretAtEnd("255"), NoFocus, false},
		{"two digits stay", 1, EventInput, CaretAtEnd("16"), NoFocus, false},
		{"empty after delete stays", 1, EventInput, CaretAtEnd(""), NoFocus, false},

		// separator
		{"separator with text advances", 0, EventSeparator, CaretAtEnd("10"), 1, true},
		{"separator on empty cell stays", 1, EventSeparator, CaretAtEnd(""), NoFocus, false},
		{"separator in last cell stays", 3, EventSeparator, CaretAtEnd("1"), NoFocus, false},
		{"separator with caret mid-text advances", 0, EventSeparator, Snapshot{Text: "10", CaretStart: 1, CaretEnd: 1}, 1, true},

		// backspace
		{"backspace on empty goes back", 1, EventBackspace, CaretAtEnd(""), 0, true},
		{"backspace on empty first cell stays", 0, EventBackspace, CaretAtEnd(""), NoFocus, false},
		{"backspace with text stays", 2, EventBackspace, CaretAtEnd("1"), NoFocus, false},
		{"backspace with caret at 0 but text stays", 2, EventBackspace, Snapshot{Text: "12"}, NoFocus, false},

		// left
		{"left at caret 0 goes back", 2, EventLeft, Snapshot{Text: "12"}, 1, true},
		{"left at caret 0 of empty goes back", 3, EventLeft, Snapshot{}, 2, true},
		{"left mid-text stays", 2, EventLeft, Snapshot{Text: "12", CaretStart: 1, CaretEnd: 1}, NoFocus, false},
		{"left in first cell stays", 0, EventLeft, Snapshot{Text: "12"}, NoFocus, false},

		// right
		{"right at end advances", 1, EventRight, CaretAtEnd("12"), 2, true},
		{"right on empty advances", 1, EventRight, Snapshot{}, 2, true},
		{"right mid-text stays", 1, EventRight, Snapshot{Text: "12", CaretStart: 1, CaretEnd: 1}, NoFocus, false},
		{"right with selection ending at end advances", 1, EventRight, Snapshot{Text: "12", CaretStart: 0, CaretEnd: 2}, 2, true},
		{"right in last cell stays", 3, EventRight, CaretAtEnd("12"), NoFocus, false},

		// out of range
		{"negative index", -1, EventRight, CaretAtEnd(""), NoFocus, false},
		{"index past end", 4, EventLeft, Snapshot{}, NoFocus, false},
		{"unknown event", 1, Event(99), CaretAtEnd("123"), NoFocus, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, ok := Navigate(tt.index, tt.event, tt.snap)
			if ok != tt.wantOK || target != tt.wantTarget {
				t.Errorf("Navigate(%d, %v, %+v) = (%d, %v), want (%d, %v)",
					tt.index, tt.event, tt.snap, target, ok, tt.wantTarget, tt.wantOK)
			}
		})
	}
}

func TestEventString(t *testing.T) {
	if got := EventBackspace.String(); got != "backspace" {
		t.Errorf("EventBackspace.String() = %q", got)
	}
	if got := Event(42).String(); got != "Event(42)" {
		t.Errorf("Event(42).String() = %q", got)
	}
}
