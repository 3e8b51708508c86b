// Package ipinput is a Bubble Tea component that renders an IPv4 address as
// four text cells and drives them with the segment editing core.
package ipinput

import (
	"net/netip"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ipfield/internal/segment"
)

// ChangedMsg is sent after every accepted edit with the composed value.
// The value may be incomplete while the user is typing.
type ChangedMsg struct {
	Value string
}

// outbox collects values emitted by the editor during one Update.
// It is shared by all copies of a Model.
type outbox struct {
	values []string
}

func (o *outbox) push(value string) {
	o.values = append(o.values, value)
}

func (o *outbox) drain() []string {
	values := o.values
	o.values = nil
	return values
}

// Model is the address field
type Model struct {
	KeyMap KeyMap

	// Styles
	CellStyle        lipgloss.Style
	FocusedCellStyle lipgloss.Style
	SeparatorStyle   lipgloss.Style

	cells   [segment.Count]textinput.Model
	editor  *segment.Editor
	outbox  *outbox
	active  int
	focused bool
	blink   tea.Cmd
}

// New creates an address field holding value. The field starts blurred.
func New(value string) Model {
	out := &outbox{}
	m := Model{
		KeyMap: DefaultKeyMap(),
		CellStyle: lipgloss.NewStyle().
			Width(segment.MaxDigits + 1),
		FocusedCellStyle: lipgloss.NewStyle().
			Width(segment.MaxDigits + 1).
			Underline(true),
		SeparatorStyle: lipgloss.NewStyle().
			Bold(true),
		editor: segment.NewEditor(value, segment.WithOnChange(out.push)),
		outbox: out,
	}

	for i := range m.cells {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = strings.Repeat(" ", segment.MaxDigits)
		ti.CharLimit = segment.MaxDigits
		ti.Width = segment.MaxDigits
		m.cells[i] = ti
	}
	m.syncCells()

	return m
}

// SetCursorMode sets the cursor mode of every cell
func (m *Model) SetCursorMode(mode cursor.Mode) tea.Cmd {
	var cmds []tea.Cmd
	for i := range m.cells {
		cmds = append(cmds, m.cells[i].Cursor.SetMode(mode))
	}
	return tea.Batch(cmds...)
}

// SetValue replaces the field's contents with an externally supplied value.
// Local edits are discarded and no ChangedMsg is sent.
func (m *Model) SetValue(value string) {
	m.editor.SetValue(value)
	m.syncCells()
}

// Value returns the composed value
func (m Model) Value() string {
	return m.editor.Value()
}

// Segments returns the four cell values
func (m Model) Segments() segment.Segments {
	return m.editor.Segments()
}

// Complete reports whether all four cells hold a value
func (m Model) Complete() bool {
	return m.editor.Complete()
}

// Addr returns the address once every cell holds a valid value
func (m Model) Addr() (netip.Addr, bool) {
	return m.editor.Addr()
}

// Focus focuses the field, restoring the last active cell
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return m.cells[m.active].Focus()
}

// FocusCell focuses the field with the caret at the end of cell index
func (m *Model) FocusCell(index int) tea.Cmd {
	if !segment.ValidIndex(index) {
		return nil
	}
	m.cells[m.active].Blur()
	m.active = index
	m.focused = true
	m.cells[index].CursorEnd()
	return m.cells[index].Focus()
}

// Blur removes focus from the field
func (m *Model) Blur() {
	m.focused = false
	m.cells[m.active].Blur()
}

// Focused reports whether the field has focus
func (m Model) Focused() bool {
	return m.focused
}

// FocusedCell returns the index of the active cell
func (m Model) FocusedCell() int {
	return m.active
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses for the active cell
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(keyMsg)
	}

	// Cursor blinks and clipboard pastes belong to the active cell
	return m.updateCell(m.active, msg)
}

// handleKey lets the editor decide on navigation first, and only passes the
// key on to the cell when focus did not move.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	index := m.active
	cell := m.cells[index]
	snap := segment.Snapshot{
		Text:       cell.Value(),
		CaretStart: cell.Position(),
		CaretEnd:   cell.Position(),
	}
	focus := segment.FocusFunc(m.focusCell)

	switch {
	case key.Matches(msg, m.KeyMap.Separator):
		// "." never reaches the cell: it is not a digit
		m.editor.Key(index, segment.KeySeparator, snap, focus)
		return m, m.takeBlink()

	case key.Matches(msg, m.KeyMap.Backspace):
		if m.editor.Key(index, segment.KeyBackspace, snap, focus) {
			return m, m.takeBlink()
		}

	case key.Matches(msg, m.KeyMap.Left):
		if m.editor.Key(index, segment.KeyLeft, snap, focus) {
			return m, m.takeBlink()
		}

	case key.Matches(msg, m.KeyMap.Right):
		if m.editor.Key(index, segment.KeyRight, snap, focus) {
			return m, m.takeBlink()
		}
	}

	return m.updateCell(index, msg)
}

// updateCell forwards a message to the cell and runs any resulting text
// change through the editor. Rejected text is rolled back along with the caret.
func (m Model) updateCell(index int, msg tea.Msg) (Model, tea.Cmd) {
	prev := m.cells[index].Value()
	pos := m.cells[index].Position()

	var cmd tea.Cmd
	m.cells[index], cmd = m.cells[index].Update(msg)

	raw := m.cells[index].Value()
	if raw == prev {
		return m, cmd
	}

	if !m.editor.Input(index, raw, segment.FocusFunc(m.focusCell)) {
		m.cells[index].SetValue(prev)
		m.cells[index].SetCursor(pos)
		return m, cmd
	}

	if stored := m.editor.Segment(index); stored != raw {
		m.cells[index].SetValue(stored)
		m.cells[index].CursorEnd()
	}

	cmds := []tea.Cmd{cmd, m.takeBlink()}
	for _, value := range m.outbox.drain() {
		cmds = append(cmds, changed(value))
	}
	return m, tea.Batch(cmds...)
}

// focusCell honors a focus request from the editor. Moving backwards puts
// the caret at the end of the target, moving forwards at its start.
func (m *Model) focusCell(index int) {
	if !segment.ValidIndex(index) || index == m.active {
		return
	}

	m.cells[m.active].Blur()
	if index < m.active {
		m.cells[index].CursorEnd()
	} else {
		m.cells[index].CursorStart()
	}
	m.active = index
	m.blink = m.cells[index].Focus()
}

func (m *Model) takeBlink() tea.Cmd {
	cmd := m.blink
	m.blink = nil
	return cmd
}

// syncCells copies the editor's cells into the text inputs
func (m *Model) syncCells() {
	for i, value := range m.editor.Segments() {
		m.cells[i].SetValue(value)
		m.cells[i].CursorEnd()
	}
}

func changed(value string) tea.Cmd {
	return func() tea.Msg {
		return ChangedMsg{Value: value}
	}
}

// View renders the four cells joined by separators
func (m Model) View() string {
	parts := make([]string, 0, segment.Count*2-1)
	for i := range m.cells {
		if i > 0 {
			parts = append(parts, m.SeparatorStyle.Render(segment.Separator))
		}
		style := m.CellStyle
		if m.focused && i == m.active {
			style = m.FocusedCellStyle
		}
		parts = append(parts, style.Render(m.cells[i].View()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
