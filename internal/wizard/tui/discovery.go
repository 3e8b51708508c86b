package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ipfield/internal/config"
	"github.com/muurk/ipfield/internal/discovery"
)

// ScanFunc discovers hosts. The picker uses a discovery.Scanner; tests stub it.
type ScanFunc func(ctx context.Context) ([]*discovery.Host, error)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	hosts []*discovery.Host
	err   error
}

// discoveryKeyMap defines key bindings for the discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Saved  key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Saved, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Saved, k.Quit},
	}
}

// scanningKeyMap defines key bindings while a scan is running
type scanningKeyMap struct {
	Manual key.Binding
	Saved  key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (s scanningKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{s.Manual, s.Saved, s.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (s scanningKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{s.Manual, s.Saved, s.Quit}}
}

// hostItem wraps a discovered host for use with bubbles/list
type hostItem struct {
	host *discovery.Host
}

func (h hostItem) FilterValue() string { return h.host.FilterValue() }
func (h hostItem) Title() string       { return h.host.Title() }
func (h hostItem) Description() string { return h.host.Description() }

// savedItem wraps a saved registry address for use with bubbles/list
type savedItem struct {
	entry config.NamedAddress
}

func (s savedItem) FilterValue() string { return s.entry.Name + " " + s.entry.Value }
func (s savedItem) Title() string       { return s.entry.Name }

func (s savedItem) Description() string {
	if s.entry.Note == "" {
		return s.entry.Value
	}
	return fmt.Sprintf("%s  %s", s.entry.Value, s.entry.Note)
}

// entryDelegate renders hosts and saved addresses as two-line rows
type entryDelegate struct{}

func (d entryDelegate) Height() int                               { return 2 }
func (d entryDelegate) Spacing() int                              { return 1 }
func (d entryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(list.DefaultItem)
	if !ok {
		return
	}

	title := "  " + entry.Title()
	if index == m.Index() {
		title = SelectedMenuItemStyle.Render("→ " + entry.Title())
	}
	desc := SubtitleStyle.Render("    " + entry.Description())

	fmt.Fprint(w, title+"\n"+desc)
}

// DiscoveryModel represents the host discovery screen state
type DiscoveryModel struct {
	// Discovery state
	Scanning  bool
	HostList  list.Model
	Hosts     []*discovery.Host
	Saved     []config.NamedAddress
	ShowSaved bool
	Err       error

	// Outcome, read by AppModel
	Selected   bool
	Manual     bool
	ChosenName string
	ChosenIP   string

	// UI state
	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	ScanTimeout   time.Duration
	Help          help.Model
	Keys          discoveryKeyMap
	ScanningKeys  scanningKeyMap

	scan ScanFunc
}

// NewDiscoveryModel creates a new discovery screen model
func NewDiscoveryModel(scan ScanFunc, timeout time.Duration, saved []config.NamedAddress) DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	hostList := list.New([]list.Item{}, entryDelegate{}, MinTerminalWidth-4, 16)
	hostList.Title = "Discovered Hosts"
	hostList.SetShowStatusBar(false)
	hostList.SetShowHelp(false)
	hostList.SetFilteringEnabled(true)
	hostList.Styles.Title = TitleStyle

	keys := discoveryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual"),
		),
		Saved: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "saved/found"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	scanningKeys := scanningKeyMap{
		Manual: keys.Manual,
		Saved:  keys.Saved,
		Quit:   keys.Quit,
	}

	return DiscoveryModel{
		HostList:     hostList,
		Saved:        saved,
		Spinner:      s,
		ProgressBar:  progressBar,
		ScanTimeout:  timeout,
		Help:         help.New(),
		Keys:         keys,
		ScanningKeys: scanningKeys,
		scan:         scan,
	}
}

// Init starts a scan immediately
func (m DiscoveryModel) Init() tea.Cmd {
	return m.startScan()
}

func (m DiscoveryModel) startScan() tea.Cmd {
	if m.scan == nil {
		return func() tea.Msg { return scanCompleteMsg{} }
	}
	scan := m.scan
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		func() tea.Msg {
			hosts, err := scan(context.Background())
			return scanCompleteMsg{hosts: hosts, err: err}
		},
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (DiscoveryModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.HostList.FilterState() == list.Filtering {
			m.HostList, cmd = m.HostList.Update(msg)
			return m, cmd
		}
		return m.updateKeys(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.HostList.SetWidth(max(msg.Width-4, MinTerminalWidth-4))
		m.HostList.SetHeight(max(msg.Height-10, 6))
		return m, nil

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()
		return m, nil

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		m.Hosts = msg.hosts
		if !m.ShowSaved {
			m.refreshItems()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	m.HostList, cmd = m.HostList.Update(msg)
	return m, cmd
}

func (m DiscoveryModel) updateKeys(msg tea.KeyMsg) (DiscoveryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Manual):
		m.Manual = true
		return m, nil

	case key.Matches(msg, m.Keys.Saved):
		m.ShowSaved = !m.ShowSaved
		m.refreshItems()
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		if m.Scanning {
			return m, nil
		}
		m.Err = nil
		m.Hosts = nil
		m.ShowSaved = false
		m.refreshItems()
		return m, m.startScan()

	case key.Matches(msg, m.Keys.Enter):
		if m.Scanning && !m.ShowSaved {
			return m, nil
		}
		switch item := m.HostList.SelectedItem().(type) {
		case hostItem:
			m.Selected = true
			m.ChosenName = item.host.Instance
			m.ChosenIP = item.host.IP
		case savedItem:
			m.Selected = true
			m.ChosenName = item.entry.Name
			m.ChosenIP = item.entry.Value
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.HostList, cmd = m.HostList.Update(msg)
	return m, cmd
}

// refreshItems shows either the scan results or the saved addresses
func (m *DiscoveryModel) refreshItems() {
	var items []list.Item
	if m.ShowSaved {
		m.HostList.Title = "Saved Addresses"
		for _, entry := range m.Saved {
			items = append(items, savedItem{entry: entry})
		}
	} else {
		m.HostList.Title = "Discovered Hosts"
		for _, host := range m.Hosts {
			items = append(items, hostItem{host: host})
		}
	}
	m.HostList.ResetFilter()
	m.HostList.SetItems(items)
	m.HostList.Select(0)
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	width := max(m.Width, MinTerminalWidth)

	var content, helpText string
	switch {
	case m.Scanning && !m.ShowSaved:
		content = m.renderScanning(width)
		helpText = m.Help.View(m.ScanningKeys)
	default:
		content = m.renderResults()
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

func (m DiscoveryModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)

	percent := 0.0
	if m.ScanTimeout > 0 {
		percent = min(elapsed.Seconds()/m.ScanTimeout.Seconds(), 1)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(fmt.Sprintf("%s SEARCHING FOR HOSTS", m.Spinner.View())),
		SubtitleStyle.Render("Browsing mDNS on the local network..."),
		"",
		m.ProgressBar.ViewAs(percent),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
		"",
	)

	return lipgloss.Place(width-4, 0, lipgloss.Center, lipgloss.Top, content)
}

func (m DiscoveryModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.Err != nil && !m.ShowSaved:
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Check that multicast is allowed on this interface\n")
		b.WriteString("    • Press m to type an address by hand\n")

	case len(m.HostList.Items()) == 0:
		if m.ShowSaved {
			b.WriteString("  " + WarningTextStyle.Render("⚠ No saved addresses"))
			b.WriteString("\n\n  Save one from the editor with ctrl+s.\n")
		} else {
			b.WriteString("  " + WarningTextStyle.Render("⚠ No hosts found on your network"))
			b.WriteString("\n\n  Press r to rescan, s for saved addresses or m to type one.\n")
		}

	default:
		b.WriteString(m.HostList.View())
	}

	return b.String()
}
