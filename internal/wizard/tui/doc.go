// Package tui implements the full-screen address picker.
//
// The picker is a Bubble Tea program with three screens:
//   - Discovery: scans the local network over mDNS and lists saved addresses
//   - Editor: the segmented IPv4 field from package ipinput
//   - Result: shows the confirmed address
//
// AppModel coordinates the screens. Each screen model is a value type whose
// Update returns a new copy, and reports its outcome through exported fields
// (Selected, Manual, Confirmed, BackRequested) that AppModel inspects after
// every update.
//
// All screens render through RenderApplicationContainer so the header,
// content area and help footer stay consistent.
//
// # Usage
//
//	app := tui.NewAppModel(tui.Options{Scan: scanner.Scan, Registry: reg})
//	final, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
//	if err != nil {
//	    return err
//	}
//	if value, ok := final.(tui.AppModel).Result(); ok {
//	    fmt.Println(value)
//	}
//
// # Key Bindings
//
//   - Discovery: ↑/↓ navigate, enter edit, r rescan, m manual entry, s saved, q quit
//   - Editor: digits fill the cell, . jumps ahead, ←/→ move, enter confirm, ctrl+s save, esc back
//   - Result: enter print and exit, e edit again, d discover
package tui
