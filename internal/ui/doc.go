// Package ui renders non-interactive terminal output for the ipfield CLI.
//
// Subcommands that run once and exit (scan, replay, saved) print through a
// Printer instead of starting a Bubble Tea program:
//
//   - Header: command banner with title and parameters
//   - Result: success, failure or warning box with ordered details
//   - Trace: one line per replayed keystroke plus a bar of filled segments
//   - ConfirmTyped: typed confirmation before destructive registry changes
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintResult(ui.NewSuccessResult("Address saved",
//	    ui.Detail{Key: "Name", Value: "router"},
//	    ui.Detail{Key: "Value", Value: "192.168.1.1"},
//	))
//
// Logging stays silent unless IPFIELD_LOG_LEVEL is set, so the styled
// output is all the user sees.
package ui
