package ipinput

import (
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

func newFocused(value string) Model {
	m := New(value)
	m.SetCursorMode(cursor.CursorStatic)
	m.Focus()
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeKeys sends each message and collects every ChangedMsg produced
func typeKeys(t *testing.T, m Model, msgs ...tea.Msg) (Model, []string) {
	t.Helper()
	var changes []string
	for _, msg := range msgs {
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		changes = append(changes, collectChanges(cmd)...)
	}
	return m, changes
}

func collectChanges(cmd tea.Cmd) []string {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case ChangedMsg:
		return []string{msg.Value}
	case tea.BatchMsg:
		var out []string
		for _, c := range msg {
			out = append(out, collectChanges(c)...)
		}
		return out
	default:
		return nil
	}
}

func TestModel_TypingAutoAdvances(t *testing.T) {
	m := newFocused("")

	m, changes := typeKeys(t, m, runes("1"), runes("9"), runes("2"))

	if got := m.Value(); got != "192..." {
		t.Errorf("Value() = %q, want 192...", got)
	}
	if got := m.FocusedCell(); got != 1 {
		t.Errorf("FocusedCell() = %d, want 1", got)
	}

	want := []string{"1...", "19...", "192..."}
	if len(changes) != len(want) {
		t.Fatalf("changes = %q, want %q", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("changes[%d] = %q, want %q", i, changes[i], want[i])
		}
	}
}

func TestModel_TypeFullAddress(t *testing.T) {
	m := newFocused("")

	m, _ = typeKeys(t, m,
		runes("1"), runes("0"), runes("."),
		runes("0"), runes("."),
		runes("0"), runes("."),
		runes("1"),
	)

	if got := m.Value(); got != "10.0.0.1" {
		t.Errorf("Value() = %q, want 10.0.0.1", got)
	}
	if !m.Complete() {
		t.Error("Complete() = false for a full address")
	}
	if addr, ok := m.Addr(); !ok || addr.String() != "10.0.0.1" {
		t.Errorf("Addr() = %v, %v", addr, ok)
	}
}

func TestModel_RejectsNonDigits(t *testing.T) {
	m := newFocused("10.0.0.1")

	m, changes := typeKeys(t, m, runes("a"))

	if got := m.Value(); got != "10.0.0.1" {
		t.Errorf("Value() = %q, want 10.0.0.1", got)
	}
	if got := m.cells[0].Value(); got != "10" {
		t.Errorf("cell 0 text = %q, want \"10\"", got)
	}
	if got := m.cells[0].Position(); got != 2 {
		t.Errorf("cell 0 caret = %d, want 2", got)
	}
	if len(changes) != 0 {
		t.Errorf("changes = %q, want none", changes)
	}
}

func TestModel_ClampsAndNormalizes(t *testing.T) {
	m := newFocused("")

	m, _ = typeKeys(t, m, runes("9"), runes("9"), runes("9"))
	if got := m.Segments()[0]; got != "255" {
		t.Errorf("segment 0 = %q, want \"255\"", got)
	}
	if got := m.cells[0].Value(); got != "255" {
		t.Errorf("cell 0 text = %q, want \"255\"", got)
	}

	m, _ = typeKeys(t, m, runes("0"), runes("7"))
	if got := m.Segments()[1]; got != "7" {
		t.Errorf("segment 1 = %q, want \"7\"", got)
	}
	if got := m.cells[1].Value(); got != "7" {
		t.Errorf("cell 1 text = %q, want \"7\"", got)
	}
}

func TestModel_BackspaceOnEmptyMovesBack(t *testing.T) {
	m := New("10...")
	m.SetCursorMode(cursor.CursorStatic)
	m.FocusCell(1)

	m, changes := typeKeys(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	if got := m.FocusedCell(); got != 0 {
		t.Errorf("FocusedCell() = %d, want 0", got)
	}
	if got := m.Value(); got != "10..." {
		t.Errorf("Value() = %q, want 10... (cell 0 untouched)", got)
	}
	if len(changes) != 0 {
		t.Errorf("changes = %q, want none", changes)
	}

	// caret landed at the end of "10": the next backspace deletes
	m, changes = typeKeys(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.Value(); got != "1..." {
		t.Errorf("Value() = %q, want 1...", got)
	}
	if len(changes) != 1 {
		t.Errorf("changes = %q, want one", changes)
	}
}

func TestModel_CtrlHActsAsBackspace(t *testing.T) {
	m := New("10.5..")
	m.SetCursorMode(cursor.CursorStatic)
	m.FocusCell(1)

	// non-empty cell: deletes like backspace
	m, changes := typeKeys(t, m, tea.KeyMsg{Type: tea.KeyCtrlH})
	if got := m.Value(); got != "10..." {
		t.Errorf("Value() = %q, want 10...", got)
	}
	if len(changes) != 1 {
		t.Errorf("changes = %q, want one", changes)
	}
	if got := m.FocusedCell(); got != 1 {
		t.Fatalf("FocusedCell() = %d, want 1", got)
	}

	// empty cell: moves back without touching cell 0
	m, changes = typeKeys(t, m, tea.KeyMsg{Type: tea.KeyCtrlH})
	if got := m.FocusedCell(); got != 0 {
		t.Errorf("FocusedCell() = %d, want 0", got)
	}
	if got := m.Value(); got != "10..." || len(changes) != 0 {
		t.Errorf("Value() = %q, changes = %q, want 10... and none", got, changes)
	}
}

func TestModel_ArrowNavigation(t *testing.T) {
	m := New("12.34.56.78")
	m.SetCursorMode(cursor.CursorStatic)
	m.FocusCell(1)

	// caret at end of "34": right moves on
	m, _ = typeKeys(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.FocusedCell(); got != 2 {
		t.Fatalf("FocusedCell() after right = %d, want 2", got)
	}
	if got := m.cells[2].Position(); got != 0 {
		t.Errorf("caret in cell 2 = %d, want 0", got)
	}

	// caret at 0 of "56": left moves back
	m, _ = typeKeys(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.FocusedCell(); got != 1 {
		t.Fatalf("FocusedCell() after left = %d, want 1", got)
	}

	// caret at end of "34": left only moves the caret
	m, _ = typeKeys(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.FocusedCell(); got != 1 {
		t.Errorf("FocusedCell() = %d, want 1", got)
	}
	if got := m.cells[1].Position(); got != 1 {
		t.Errorf("caret in cell 1 = %d, want 1", got)
	}
}

func TestModel_SeparatorOnEmptyCellStays(t *testing.T) {
	m := newFocused("")

	m, _ = typeKeys(t, m, runes("."))
	if got := m.FocusedCell(); got != 0 {
		t.Errorf("FocusedCell() = %d, want 0", got)
	}
	if got := m.Value(); got != "..." {
		t.Errorf("Value() = %q, want ...", got)
	}
}

func TestModel_LastCellDoesNotAdvance(t *testing.T) {
	m := New("1.1.1.")
	m.SetCursorMode(cursor.CursorStatic)
	m.FocusCell(3)

	m, _ = typeKeys(t, m, runes("2"), runes("5"), runes("4"), tea.KeyMsg{Type: tea.KeyRight})
	if got := m.FocusedCell(); got != 3 {
		t.Errorf("FocusedCell() = %d, want 3", got)
	}
	if got := m.Value(); got != "1.1.1.254" {
		t.Errorf("Value() = %q, want 1.1.1.254", got)
	}
}

func TestModel_SetValueOverwrites(t *testing.T) {
	m := newFocused("")
	m, _ = typeKeys(t, m, runes("1"))

	m.SetValue("192.168.001.255")
	want := [4]string{"192", "168", "001", "255"}
	for i, w := range want {
		if got := m.cells[i].Value(); got != w {
			t.Errorf("cell %d text = %q, want %q", i, got, w)
		}
	}
}

func TestModel_IgnoresKeysWhenBlurred(t *testing.T) {
	m := New("")
	m, changes := typeKeys(t, m, runes("1"))
	if m.Value() != "..." || len(changes) != 0 {
		t.Errorf("blurred field accepted input: %q, %q", m.Value(), changes)
	}
}

func TestModel_View(t *testing.T) {
	m := New("10.0.0.1")
	view := m.View()
	for _, part := range []string{"10", "0", "1", "."} {
		if !contains(view, part) {
			t.Errorf("View() = %q, missing %q", view, part)
		}
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
