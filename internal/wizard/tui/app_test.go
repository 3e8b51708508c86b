package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/ipfield/internal/config"
	"github.com/muurk/ipfield/internal/discovery"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
)

// send feeds msgs to the app one by one and returns the final model and
// the command produced by the last message
func send(t *testing.T, m AppModel, msgs ...tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(AppModel)
		if m.CurrentScreen == ScreenEditor {
			m.EditorModel.Field.SetCursorMode(cursor.CursorStatic)
		}
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func typeAddress(s string) []tea.Msg {
	var msgs []tea.Msg
	for _, r := range s {
		msgs = append(msgs, keyRunes(string(r)))
	}
	return msgs
}

func newEditorApp(value string, save SaveFunc) AppModel {
	m := NewAppModel(Options{Start: ScreenEditor, Value: value, Save: save})
	m.EditorModel.Field.SetCursorMode(cursor.CursorStatic)
	return m
}

func stubHosts() []*discovery.Host {
	return []*discovery.Host{
		{Instance: "nas", Hostname: "nas.local.", IP: "192.168.1.20", Port: 22},
		{Instance: "printer", Hostname: "printer.local.", IP: "192.168.1.30", Port: 631},
	}
}

func newDiscoveryApp(t *testing.T, reg *config.Registry) AppModel {
	t.Helper()
	scan := func(ctx context.Context) ([]*discovery.Host, error) {
		return stubHosts(), nil
	}
	m := NewAppModel(Options{Scan: scan, Registry: reg})
	m, _ = send(t, m,
		tea.WindowSizeMsg{Width: 100, Height: 40},
		scanStartMsg{},
		scanCompleteMsg{hosts: stubHosts()},
	)
	return m
}

func TestApp_EditorConfirmsCompleteAddress(t *testing.T) {
	m := newEditorApp("", nil)

	msgs := append(typeAddress("10.0.0.1"), keyEnter)
	m, _ = send(t, m, msgs...)

	if m.CurrentScreen != ScreenResult {
		t.Fatalf("CurrentScreen = %s, want result", m.CurrentScreen)
	}

	m, cmd := send(t, m, keyEnter)
	if !isQuit(cmd) {
		t.Error("enter on the result screen did not quit")
	}
	value, ok := m.Result()
	if !ok || value != "10.0.0.1" {
		t.Errorf("Result() = %q, %v, want 10.0.0.1, true", value, ok)
	}
}

func TestApp_ResultIsCanonical(t *testing.T) {
	m := newEditorApp("10.0.010.1", nil)

	m, _ = send(t, m, keyEnter, keyEnter)

	value, ok := m.Result()
	if !ok || value != "10.0.10.1" {
		t.Errorf("Result() = %q, %v, want 10.0.10.1, true", value, ok)
	}
}

func TestApp_EditorRejectsIncompleteAddress(t *testing.T) {
	m := newEditorApp("10.0", nil)

	m, _ = send(t, m, keyEnter)

	if m.CurrentScreen != ScreenEditor {
		t.Errorf("CurrentScreen = %s, want editor", m.CurrentScreen)
	}
	if m.EditorModel.Err == nil {
		t.Error("expected an error for an incomplete address")
	}
	if _, ok := m.Result(); ok {
		t.Error("Result() reported a confirmed address")
	}
}

func TestApp_ResultEditAgain(t *testing.T) {
	m := newEditorApp("172.16.0.1", nil)

	m, _ = send(t, m, keyEnter, keyRunes("e"))

	if m.CurrentScreen != ScreenEditor {
		t.Fatalf("CurrentScreen = %s, want editor", m.CurrentScreen)
	}
	if got := m.EditorModel.Field.Value(); got != "172.16.0.1" {
		t.Errorf("editor value = %q, want 172.16.0.1", got)
	}
	if _, ok := m.Result(); ok {
		t.Error("editing again should clear the confirmation")
	}
}

func TestApp_CtrlCQuitsWithoutResult(t *testing.T) {
	m := newEditorApp("10.0.0.1", nil)

	m, cmd := send(t, m, keyEnter, keyCtrlC)

	if !isQuit(cmd) {
		t.Error("ctrl+c did not quit")
	}
	if _, ok := m.Result(); ok {
		t.Error("ctrl+c should not confirm")
	}
}

func TestApp_EscFromStandaloneEditorQuits(t *testing.T) {
	m := newEditorApp("", nil)

	_, cmd := send(t, m, keyEsc)
	if !isQuit(cmd) {
		t.Error("esc did not quit the standalone editor")
	}
}

func TestApp_DiscoverySelectHost(t *testing.T) {
	m := newDiscoveryApp(t, nil)

	if len(m.DiscoveryModel.Hosts) != 2 {
		t.Fatalf("Hosts = %d, want 2", len(m.DiscoveryModel.Hosts))
	}

	m, _ = send(t, m, keyEnter)

	if m.CurrentScreen != ScreenEditor {
		t.Fatalf("CurrentScreen = %s, want editor", m.CurrentScreen)
	}
	if got := m.EditorModel.Field.Value(); got != "192.168.1.20" {
		t.Errorf("editor value = %q, want 192.168.1.20", got)
	}
	if m.EditorModel.Label != "nas" {
		t.Errorf("Label = %q, want nas", m.EditorModel.Label)
	}
}

func TestApp_DiscoveryManualEntry(t *testing.T) {
	m := newDiscoveryApp(t, nil)

	m, _ = send(t, m, keyRunes("m"))

	if m.CurrentScreen != ScreenEditor {
		t.Fatalf("CurrentScreen = %s, want editor", m.CurrentScreen)
	}
	if got := m.EditorModel.Field.Value(); got != "..." {
		t.Errorf("editor value = %q, want ...", got)
	}
}

func TestApp_EscReturnsToDiscoveryResults(t *testing.T) {
	m := newDiscoveryApp(t, nil)

	m, _ = send(t, m, keyEnter, keyEsc)

	if m.CurrentScreen != ScreenDiscovery {
		t.Fatalf("CurrentScreen = %s, want discovery", m.CurrentScreen)
	}
	if len(m.DiscoveryModel.Hosts) != 2 {
		t.Errorf("Hosts = %d after going back, want 2", len(m.DiscoveryModel.Hosts))
	}
	if m.DiscoveryModel.Selected {
		t.Error("selection should be cleared after going back")
	}
}

func TestApp_SavedAddressSelection(t *testing.T) {
	reg := config.NewRegistry()
	if err := reg.SetAddress("router", "192.168.1.1", ""); err != nil {
		t.Fatalf("SetAddress: %v", err)
	}
	reg.GetAddress("router").LastUsed = time.Time{}
	m := newDiscoveryApp(t, reg)

	m, _ = send(t, m, keyRunes("s"), keyEnter)

	if m.CurrentScreen != ScreenEditor {
		t.Fatalf("CurrentScreen = %s, want editor", m.CurrentScreen)
	}
	if got := m.EditorModel.Field.Value(); got != "192.168.1.1" {
		t.Errorf("editor value = %q, want 192.168.1.1", got)
	}

	m, _ = send(t, m, keyEnter)
	if m.CurrentScreen != ScreenResult {
		t.Fatalf("CurrentScreen = %s, want result", m.CurrentScreen)
	}
	if reg.GetAddress("router").LastUsed.IsZero() {
		t.Error("confirming a saved address should touch it")
	}
}

func TestApp_DiscoveryScanError(t *testing.T) {
	m := NewAppModel(Options{})
	m, _ = send(t, m, scanCompleteMsg{err: errors.New("no multicast")})

	if m.DiscoveryModel.Err == nil {
		t.Error("scan error was not recorded")
	}
	if m.DiscoveryModel.Scanning {
		t.Error("Scanning still set after completion")
	}
}

func TestEditor_SaveAddress(t *testing.T) {
	var gotName, gotValue string
	save := func(name, value string) error {
		gotName, gotValue = name, value
		return nil
	}
	m := newEditorApp("10.1.2.3", save)

	msgs := []tea.Msg{keyCtrlS}
	msgs = append(msgs, typeAddress("lab")...)
	m, _ = send(t, m, msgs...)

	if !m.EditorModel.Naming {
		t.Fatal("ctrl+s did not open the name prompt")
	}

	m, cmd := send(t, m, keyEnter)
	if cmd == nil {
		t.Fatal("confirming the name returned no command")
	}

	saved, ok := findSaved(cmd)
	if !ok {
		t.Fatal("no save result produced")
	}
	if gotName != "lab" || gotValue != "10.1.2.3" {
		t.Errorf("save(%q, %q), want lab, 10.1.2.3", gotName, gotValue)
	}

	m, _ = send(t, m, saved)
	if m.EditorModel.Status == "" {
		t.Error("no status shown after saving")
	}
}

func TestEditor_SaveRequiresCompleteAddress(t *testing.T) {
	save := func(name, value string) error { return nil }
	m := newEditorApp("10.1", save)

	m, _ = send(t, m, keyCtrlS)

	if m.EditorModel.Naming {
		t.Error("name prompt opened for an incomplete address")
	}
	if m.EditorModel.Err == nil {
		t.Error("expected an error for an incomplete address")
	}
}

func findSaved(cmd tea.Cmd) (savedMsg, bool) {
	if cmd == nil {
		return savedMsg{}, false
	}
	switch msg := cmd().(type) {
	case savedMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if s, ok := findSaved(c); ok {
				return s, true
			}
		}
	}
	return savedMsg{}, false
}

func TestApp_ViewPerScreen(t *testing.T) {
	m := newEditorApp("10.0.0.1", nil)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	if m.View() == "" {
		t.Error("editor view is empty")
	}

	m, _ = send(t, m, keyEnter)
	if m.View() == "" {
		t.Error("result view is empty")
	}
}
