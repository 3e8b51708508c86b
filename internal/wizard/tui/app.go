package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/ipfield/internal/config"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery Screen = "discovery"
	ScreenEditor    Screen = "editor"
	ScreenResult    Screen = "result"
)

// resultKeyMap defines key bindings for the result screen
type resultKeyMap struct {
	Done     key.Binding
	Edit     key.Binding
	Discover key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k resultKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Done, k.Edit, k.Discover}
}

// FullHelp returns keybindings for the expanded help view
func (k resultKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Done, k.Edit, k.Discover}}
}

// Options configures the picker
type Options struct {
	// Start selects the first screen. ScreenEditor skips discovery.
	Start Screen

	// Value pre-fills the editor when starting there
	Value string

	// Scan discovers hosts for the discovery screen
	Scan        ScanFunc
	ScanTimeout time.Duration

	// Registry supplies saved addresses. Save persists a new one.
	Registry *config.Registry
	Save     SaveFunc
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen  Screen
	PreviousScreen Screen

	DiscoveryModel DiscoveryModel
	EditorModel    EditorModel

	// Confirmed address, set when the user leaves through the result screen
	Value     string
	Confirmed bool

	Width  int
	Height int

	Help       help.Model
	ResultKeys resultKeyMap

	opts         Options
	hasDiscovery bool
}

// NewAppModel creates a new application model starting at opts.Start
func NewAppModel(opts Options) AppModel {
	if opts.Start == "" {
		opts.Start = ScreenDiscovery
	}

	m := AppModel{
		CurrentScreen: opts.Start,
		Help:          help.New(),
		ResultKeys: resultKeyMap{
			Done: key.NewBinding(
				key.WithKeys("enter", "q"),
				key.WithHelp("enter", "done"),
			),
			Edit: key.NewBinding(
				key.WithKeys("e"),
				key.WithHelp("e", "edit again"),
			),
			Discover: key.NewBinding(
				key.WithKeys("d"),
				key.WithHelp("d", "discover"),
			),
		},
		opts: opts,
	}

	switch opts.Start {
	case ScreenEditor:
		m.EditorModel = NewEditorModel(opts.Value, "", opts.Save)
	default:
		m.CurrentScreen = ScreenDiscovery
		m.DiscoveryModel = m.newDiscovery()
		m.hasDiscovery = true
	}

	return m
}

func (m AppModel) newDiscovery() DiscoveryModel {
	var saved []config.NamedAddress
	if m.opts.Registry != nil {
		saved = m.opts.Registry.SortedAddresses()
	}
	d := NewDiscoveryModel(m.opts.Scan, m.opts.ScanTimeout, saved)
	if m.Width > 0 {
		d, _ = d.Update(tea.WindowSizeMsg{Width: m.Width, Height: m.Height})
	}
	return d
}

// Result returns the confirmed address, if any
func (m AppModel) Result() (string, bool) {
	return m.Value, m.Confirmed
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.Init()
	case ScreenEditor:
		return m.EditorModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		if m.hasDiscovery {
			m.DiscoveryModel, _ = m.DiscoveryModel.Update(msg)
		}
		m.EditorModel, _ = m.EditorModel.Update(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Confirmed = false
			return m, tea.Quit
		}
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenDiscovery:
		unfiltered := m.DiscoveryModel.HostList.FilterState() == list.Unfiltered

		m.DiscoveryModel, cmd = m.DiscoveryModel.Update(msg)

		switch {
		case m.DiscoveryModel.Manual:
			return m.transitionTo(ScreenEditor, "", "")
		case m.DiscoveryModel.Selected:
			return m.transitionTo(ScreenEditor, m.DiscoveryModel.ChosenIP, m.DiscoveryModel.ChosenName)
		}

		if keyMsg, ok := msg.(tea.KeyMsg); ok && unfiltered {
			if key.Matches(keyMsg, m.DiscoveryModel.Keys.Quit) {
				return m, tea.Quit
			}
		}

	case ScreenEditor:
		m.EditorModel, cmd = m.EditorModel.Update(msg)

		if m.EditorModel.Confirmed {
			// Confirm only succeeds with a parsable address; report it in
			// canonical form so "010" never reaches an octal-reading parser
			addr, _ := m.EditorModel.Field.Addr()
			m.Value = addr.String()
			m.Confirmed = true
			if m.opts.Registry != nil && m.EditorModel.Label != "" {
				m.opts.Registry.TouchAddress(m.EditorModel.Label)
			}
			return m.transitionTo(ScreenResult, "", "")
		}
		if m.EditorModel.BackRequested {
			return m.goBack()
		}

	case ScreenResult:
		return m.handleResultScreen(msg)
	}

	return m, cmd
}

// handleResultScreen handles user input on the result screen
func (m AppModel) handleResultScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.ResultKeys.Done):
		return m, tea.Quit
	case key.Matches(keyMsg, m.ResultKeys.Edit):
		m.Confirmed = false
		return m.transitionTo(ScreenEditor, m.Value, m.EditorModel.Label)
	case key.Matches(keyMsg, m.ResultKeys.Discover):
		m.Confirmed = false
		return m.transitionTo(ScreenDiscovery, "", "")
	}
	return m, nil
}

// transitionTo switches screens, initializing the target
func (m AppModel) transitionTo(screen Screen, value, label string) (tea.Model, tea.Cmd) {
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	var cmd tea.Cmd
	switch screen {
	case ScreenDiscovery:
		m.DiscoveryModel = m.newDiscovery()
		m.hasDiscovery = true
		cmd = m.DiscoveryModel.Init()

	case ScreenEditor:
		m.EditorModel = NewEditorModel(value, label, m.opts.Save)
		m.EditorModel.Width, m.EditorModel.Height = m.Width, m.Height
		m.EditorModel.Help.Width = m.Width
		cmd = m.EditorModel.Init()

		// Leaving discovery clears its outcome so returning rescans cleanly
		m.DiscoveryModel.Selected = false
		m.DiscoveryModel.Manual = false
	}

	return m, cmd
}

// goBack returns to the previous screen
func (m AppModel) goBack() (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenEditor:
		if !m.hasDiscovery {
			return m, tea.Quit
		}
		// Back to the existing discovery results without rescanning
		m.PreviousScreen = m.CurrentScreen
		m.CurrentScreen = ScreenDiscovery
		return m, nil
	case ScreenResult:
		return m.transitionTo(ScreenEditor, m.Value, m.EditorModel.Label)
	default:
		return m, tea.Quit
	}
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.View()
	case ScreenEditor:
		return m.EditorModel.View()
	case ScreenResult:
		return m.renderResultScreen()
	default:
		return "Unknown screen"
	}
}

func (m AppModel) renderResultScreen() string {
	var b strings.Builder

	b.WriteString(RenderTitle("  ✓ Address selected"))
	b.WriteString("\n")
	b.WriteString(RenderSuccess(m.Value))
	b.WriteString("\n\n")
	b.WriteString(MenuItemStyle.Render("enter - Print the address and exit"))
	b.WriteString("\n")
	b.WriteString(MenuItemStyle.Render("e     - Edit it again"))
	b.WriteString("\n")
	b.WriteString(MenuItemStyle.Render("d     - Discover another host"))
	b.WriteString("\n")

	return RenderApplicationContainer(b.String(), m.Help.View(m.ResultKeys), m.Width, m.Height)
}
