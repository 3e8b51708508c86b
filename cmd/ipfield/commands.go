package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/muurk/ipfield/internal/config"
	"github.com/muurk/ipfield/internal/discovery"
	"github.com/muurk/ipfield/internal/segment"
	"github.com/muurk/ipfield/internal/server"
	"github.com/muurk/ipfield/internal/ui"
	"github.com/muurk/ipfield/internal/wizard/tui"
)

// Discovery flags (persistent on root)
var (
	service     string
	scanTimeout int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&service, "service", "", "DNS-SD service type to browse (default from config, _workstation._tcp)")
	rootCmd.PersistentFlags().IntVar(&scanTimeout, "timeout", 0, "Discovery timeout in seconds (default from config, 5)")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(savedCmd)
	rootCmd.AddCommand(serveCmd)
}

// newScanner builds a scanner from the registry preferences, overridden by flags
func newScanner(reg *config.Registry) *discovery.Scanner {
	scanner := discovery.NewScanner()
	if prefs := reg.Preferences; prefs != nil {
		if prefs.DiscoverService != "" {
			scanner.Service = prefs.DiscoverService
		}
		scanner.Timeout = prefs.DiscoverTimeoutDuration()
	}
	if service != "" {
		scanner.Service = service
	}
	if scanTimeout > 0 {
		scanner.Timeout = time.Duration(scanTimeout) * time.Second
	}
	return scanner
}

// saveFunc persists a named address to the registry file
func saveFunc(reg *config.Registry) tui.SaveFunc {
	return func(name, value string) error {
		if err := reg.SetAddress(name, value, ""); err != nil {
			return err
		}
		return reg.Save()
	}
}

// runPicker launches the full-screen picker. The TUI draws on stderr so
// stdout only carries the chosen address.
func runPicker(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	scanner := newScanner(reg)

	return runApp(reg, tui.Options{
		Start:       tui.ScreenDiscovery,
		Scan:        scanner.Scan,
		ScanTimeout: scanner.Timeout,
		Registry:    reg,
		Save:        saveFunc(reg),
	})
}

func runApp(reg *config.Registry, opts tui.Options) error {
	program := tea.NewProgram(tui.NewAppModel(opts), tea.WithAltScreen(), tea.WithOutput(os.Stderr))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("picker failed: %w", err)
	}

	value, ok := final.(tui.AppModel).Result()
	if !ok {
		return nil
	}

	// Persist the last-used timestamp of a picked saved address
	if err := reg.Save(); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}

	fmt.Println(value)
	return nil
}

// editCmd opens the editor directly
var editCmd = &cobra.Command{
	Use:   "edit [value|name]",
	Short: "Edit an address without discovery",
	Long: `Open the segmented editor directly, skipping network discovery.

The argument may be a dotted-decimal value (partial values are fine) or the
name of a saved address.`,
	Example: `  # Start from an empty field
  ipfield edit

  # Start from a partial value
  ipfield edit 192.168

  # Start from a saved address
  ipfield edit router`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var value string
	if len(args) == 1 {
		value = args[0]
		if saved := reg.GetAddress(value); saved != nil {
			value = saved.Value
		}
	}

	return runApp(reg, tui.Options{
		Start:    tui.ScreenEditor,
		Value:    value,
		Registry: reg,
		Save:     saveFunc(reg),
	})
}

// scanCmd lists hosts found over mDNS
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the local network for hosts",
	Long: `Browse for hosts advertising a DNS-SD service over mDNS and list the
IPv4 addresses found.`,
	Example: `  # Scan for workstations (default)
  ipfield scan

  # Scan for SSH servers for 10 seconds
  ipfield scan --service _ssh._tcp --timeout 10

  # Wait for one host by instance name
  ipfield scan --find nas`,
	RunE: runScan,
}

var findInstance string

func init() {
	scanCmd.Flags().StringVar(&findInstance, "find", "", "Wait for a single instance by name")
}

func runScan(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	scanner := newScanner(reg)
	printer := ui.NewPrinter(os.Stdout)

	printer.PrintHeader("mDNS Discovery", "ipfield scan", []ui.Detail{
		{Key: "Service", Value: scanner.Service},
		{Key: "Timeout", Value: scanner.Timeout.String()},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var hosts []*discovery.Host
	if findInstance != "" {
		found, err := scanner.Find(ctx, findInstance)
		if err != nil {
			printer.PrintResult(ui.NewFailureResult("Host not found", err,
				"Check the instance name with 'ipfield scan'",
				"Try increasing --timeout for slower networks"))
			return err
		}
		hosts = append(hosts, found)
	} else {
		hosts, err = scanner.Scan(ctx)
		if err != nil {
			printer.PrintResult(ui.NewFailureResult("Scan failed", err,
				"Multicast may be blocked on this network"))
			return err
		}
	}

	if len(hosts) == 0 {
		printer.PrintResult(ui.NewWarningResult("No hosts found",
			ui.Detail{Key: "Service", Value: scanner.Service},
			ui.Detail{Key: "Hint", Value: "try --service _ssh._tcp or a longer --timeout"},
		))
		return nil
	}

	result := ui.NewSuccessResult(fmt.Sprintf("Found %d host(s)", len(hosts)))
	for _, h := range hosts {
		result.AddDetail(h.Instance, h.Address())
	}
	printer.PrintResult(result)

	return nil
}

// replayCmd runs a keystroke script against the editor
var replayCmd = &cobra.Command{
	Use:   "replay <script>",
	Short: "Replay a keystroke script and show each step",
	Long: `Run a comma separated keystroke script through the segment editor and
print what every stroke did: the cell it landed in, whether the value
changed, and where focus went.

Tokens:
  192           types '1', '9', '2' one keystroke at a time
  . | dot       separator key
  bs | backspace
  left | right
  replace:5     replaces the focused cell's text with "5"
  focus:2       moves focus to cell 2
  set:10.0.0.1  supplies an external value`,
	Example: `  # Auto-advance after three digits
  ipfield replay 192168

  # Clamp and separator
  ipfield replay "999,.,07"

  # Backspace across a boundary
  ipfield replay --value 10.0.0.1 "focus:1,bs,bs"`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

var replayValue string

func init() {
	replayCmd.Flags().StringVar(&replayValue, "value", "", "Initial value of the field")
}

func runReplay(cmd *cobra.Command, args []string) error {
	strokes, err := segment.ParseScript(args[0])
	if err != nil {
		return fmt.Errorf("invalid script: %w", err)
	}

	editor := segment.NewEditor(replayValue)
	steps := segment.Replay(editor, strokes)

	printer := ui.NewPrinter(os.Stdout)
	trace := buildTrace(steps, editor.Segments())
	printer.PrintTrace(trace.SetWidth(printer.Width()))
	printer.Newline()

	if addr, ok := editor.Addr(); ok {
		printer.PrintResult(ui.NewSuccessResult("Complete address",
			ui.Detail{Key: "Value", Value: addr.String()}))
	} else {
		printer.PrintResult(ui.NewWarningResult("Incomplete address",
			ui.Detail{Key: "Value", Value: editor.Value()}))
	}
	return nil
}

// buildTrace turns replay steps into display rows
func buildTrace(steps []segment.Step, final segment.Segments) *ui.Trace {
	trace := ui.NewTrace("Keystroke replay", segment.Count)

	from := 0
	for _, step := range steps {
		row := ui.TraceRow{
			Label: strokeLabel(step.Stroke),
			Cell:  step.Cell,
			Value: step.Value,
		}
		switch {
		case step.Accepted:
			row.Status = ui.TraceAccepted
		case step.Moved:
			row.Status = ui.TraceMoved
		}
		if step.Focus != from {
			row.Note = fmt.Sprintf("focus %d → %d", from, step.Focus)
		}
		from = step.Focus
		trace.Add(row)
	}

	for _, s := range final {
		if s != "" {
			trace.Filled++
		}
	}
	return trace
}

func strokeLabel(st segment.Stroke) string {
	switch st.Kind {
	case segment.StrokeType:
		return fmt.Sprintf("type %q", st.Char)
	case segment.StrokeKey:
		return "key " + st.Key.String()
	default:
		return st.String()
	}
}

// savedCmd manages the address registry
var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved addresses",
	Long: `List, add and remove named addresses in the registry file.

The registry lives in the user config directory, e.g.
~/.config/ipfield/config.yaml.`,
}

var (
	savedNote  string
	skipPrompt bool
)

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved addresses, most recently used first",
	Args:  cobra.NoArgs,
	RunE:  runSavedList,
}

var savedAddCmd = &cobra.Command{
	Use:     "add <name> <value>",
	Short:   "Save an address under a name",
	Example: `  ipfield saved add router 192.168.1.1 --note "home gateway"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runSavedAdd,
}

var savedRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a saved address",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavedRemove,
}

func init() {
	savedAddCmd.Flags().StringVar(&savedNote, "note", "", "Free-form note")
	savedRemoveCmd.Flags().BoolVarP(&skipPrompt, "yes", "y", false, "Skip the confirmation prompt")

	savedCmd.AddCommand(savedListCmd)
	savedCmd.AddCommand(savedAddCmd)
	savedCmd.AddCommand(savedRemoveCmd)
}

func runSavedList(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	entries := reg.SortedAddresses()
	if len(entries) == 0 {
		fmt.Println("No saved addresses. Add one with 'ipfield saved add <name> <value>'.")
		return nil
	}

	width := 0
	for _, e := range entries {
		width = max(width, len(e.Name))
	}
	for _, e := range entries {
		line := fmt.Sprintf("%-*s  %-15s", width, e.Name, e.Value)
		if e.Note != "" {
			line += "  " + e.Note
		}
		fmt.Println(strings.TrimRight(line, " "))
	}
	return nil
}

func runSavedAdd(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	name, value := args[0], args[1]
	if err := reg.SetAddress(name, value, savedNote); err != nil {
		return err
	}
	if err := reg.Save(); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}

	fmt.Printf("Saved %s = %s\n", name, value)
	return nil
}

func runSavedRemove(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	name := args[0]
	entry := reg.GetAddress(name)
	if entry == nil {
		return fmt.Errorf("no saved address named %q", name)
	}

	if !skipPrompt {
		if !ui.IsTerminal(os.Stdin) {
			return fmt.Errorf("refusing to remove %q without a terminal, pass --yes", name)
		}
		if !ui.ConfirmRemoval(os.Stdin, os.Stdout, name, entry.Value) {
			return nil
		}
	}

	reg.RemoveAddress(name)
	if err := reg.Save(); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}

	fmt.Printf("Removed %s\n", name)
	return nil
}

// Serve command flags
var (
	certPath  string
	keyPath   string
	host      string
	port      int
	logLevel  string
	initValue string
	origins   []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve editing sessions over WebSocket",
	Long: `Start a WebSocket server where every connection gets its own address
editor. Clients send typed text and navigation keys as JSON frames and
receive the normalized segments and focus moves back.

Serves plain ws:// unless both --cert and --key are given.`,
	Example: `  # Listen on the configured port (default 8080)
  ipfield serve

  # Debug logging on a custom port
  ipfield serve --port 9000 --log-level debug

  # TLS with an origin allow-list
  ipfield serve --cert cert.pem --key key.pem --origin https://admin.example.com`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file")
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 0, "Server port (default from config, 8080)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&initValue, "value", "", "Initial value for every session")
	serveCmd.Flags().StringSliceVar(&origins, "origin", nil, "Allowed Origin header (repeatable, empty allows any)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if (certPath != "") != (keyPath != "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither")
	}
	for _, path := range []string{certPath, keyPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
	}

	if port == 0 {
		port = config.DefaultServerPort
		if reg, err := config.LoadRegistry(); err == nil && reg.Preferences != nil && reg.Preferences.ServerPort > 0 {
			port = reg.Preferences.ServerPort
		}
	}

	srv, err := server.New(&server.Config{
		Host:         host,
		Port:         port,
		CertPath:     certPath,
		KeyPath:      keyPath,
		LogLevel:     logLevel,
		InitialValue: initValue,
		Origins:      origins,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
