package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/ipfield/internal/wizard/ipinput"
)

// SaveFunc stores value under name in the registry
type SaveFunc func(name, value string) error

type savedMsg struct {
	name string
	err  error
}

// editorKeyMap defines key bindings for the editor screen. The address
// field's own bindings are listed alongside.
type editorKeyMap struct {
	Field   ipinput.KeyMap
	Confirm key.Binding
	Save    key.Binding
	Back    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editorKeyMap) ShortHelp() []key.Binding {
	return append(k.Field.ShortHelp(), k.Confirm, k.Save, k.Back)
}

// FullHelp returns keybindings for the expanded help view
func (k editorKeyMap) FullHelp() [][]key.Binding {
	return append(k.Field.FullHelp(), []key.Binding{k.Confirm, k.Save, k.Back})
}

// nameKeyMap defines key bindings while naming a saved address
type nameKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k nameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k nameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// EditorModel is the screen holding the segmented address field
type EditorModel struct {
	Field ipinput.Model
	Label string // Where the value came from, e.g. a host name

	// Naming state for ctrl+s
	Naming    bool
	NameInput textinput.Model

	// Outcome, read by AppModel
	Confirmed     bool
	BackRequested bool

	Status string
	Err    error

	Width    int
	Height   int
	Help     help.Model
	Keys     editorKeyMap
	NameKeys nameKeyMap

	save SaveFunc
}

// NewEditorModel creates the editor screen pre-filled with value
func NewEditorModel(value, label string, save SaveFunc) EditorModel {
	field := ipinput.New(value)
	field.FocusCell(0)
	field.FocusedCellStyle = field.FocusedCellStyle.Inherit(FocusedCellStyle)
	field.SeparatorStyle = SeparatorStyle

	name := textinput.New()
	name.Placeholder = "router"
	name.CharLimit = 64
	name.Width = 30
	if label != "" {
		name.SetValue(label)
	}

	return EditorModel{
		Field:     field,
		Label:     label,
		NameInput: name,
		Help:      help.New(),
		Keys: editorKeyMap{
			Field: field.KeyMap,
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "use address"),
			),
			Save: key.NewBinding(
				key.WithKeys("ctrl+s"),
				key.WithHelp("ctrl+s", "save"),
			),
			Back: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "back"),
			),
		},
		NameKeys: nameKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "save"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
		save: save,
	}
}

// Init starts the caret blinking in the first cell
func (m EditorModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m EditorModel) Update(msg tea.Msg) (EditorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case ipinput.ChangedMsg:
		m.Status = ""
		m.Err = nil
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.Err = fmt.Errorf("save failed: %w", msg.err)
		} else {
			m.Status = fmt.Sprintf("Saved as %q", msg.name)
		}
		return m, nil

	case tea.KeyMsg:
		if m.Naming {
			return m.updateNaming(msg)
		}
		return m.updateField(msg)
	}

	var cmd tea.Cmd
	if m.Naming {
		m.NameInput, cmd = m.NameInput.Update(msg)
	} else {
		m.Field, cmd = m.Field.Update(msg)
	}
	return m, cmd
}

func (m EditorModel) updateField(msg tea.KeyMsg) (EditorModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Back):
		m.BackRequested = true
		return m, nil

	case key.Matches(msg, m.Keys.Confirm):
		if _, ok := m.Field.Addr(); !ok {
			m.Err = fmt.Errorf("fill all four octets first")
			return m, nil
		}
		m.Confirmed = true
		return m, nil

	case key.Matches(msg, m.Keys.Save):
		if m.save == nil {
			return m, nil
		}
		if _, ok := m.Field.Addr(); !ok {
			m.Err = fmt.Errorf("only complete addresses can be saved")
			return m, nil
		}
		m.Naming = true
		m.Err = nil
		m.Field.Blur()
		m.NameInput.CursorEnd()
		return m, m.NameInput.Focus()
	}

	var cmd tea.Cmd
	m.Field, cmd = m.Field.Update(msg)
	return m, cmd
}

func (m EditorModel) updateNaming(msg tea.KeyMsg) (EditorModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.NameKeys.Cancel):
		m.Naming = false
		m.NameInput.Blur()
		return m, m.Field.Focus()

	case key.Matches(msg, m.NameKeys.Confirm):
		name := strings.TrimSpace(m.NameInput.Value())
		if name == "" {
			return m, nil
		}
		m.Naming = false
		m.NameInput.Blur()
		save, value := m.save, m.Field.Value()
		return m, tea.Batch(
			m.Field.Focus(),
			func() tea.Msg {
				return savedMsg{name: name, err: save(name, value)}
			},
		)
	}

	var cmd tea.Cmd
	m.NameInput, cmd = m.NameInput.Update(msg)
	return m, cmd
}

// View renders the editor screen
func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle("  Edit IPv4 address"))
	b.WriteString("\n")
	if m.Label != "" {
		b.WriteString("  " + RenderSubtitle("from "+m.Label))
		b.WriteString("\n")
	}
	b.WriteString(FieldBoxStyle.Render(m.Field.View()))
	b.WriteString("\n\n")

	if m.Naming {
		b.WriteString("  Save as: ")
		b.WriteString(m.NameInput.View())
		b.WriteString("\n\n")
	}

	switch {
	case m.Err != nil:
		b.WriteString(RenderError(m.Err.Error()))
	case m.Status != "":
		b.WriteString(RenderSuccess(m.Status))
	default:
		b.WriteString("  " + RenderSubtitle("Value: "+m.Field.Value()))
	}
	b.WriteString("\n")

	helpText := m.Help.View(m.Keys)
	if m.Naming {
		helpText = m.Help.View(m.NameKeys)
	}

	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}
