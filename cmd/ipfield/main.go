// Ipfield is a segmented IPv4 address picker.
//
// It edits dotted-decimal addresses one octet at a time, finds hosts on the
// local network over mDNS, keeps a registry of named addresses, and can
// serve editing sessions to browser front ends over WebSocket.
//
// Usage:
//
//	ipfield [command] [flags]
//
// Running without arguments launches the interactive picker and prints the
// chosen address on stdout. See 'ipfield --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/ipfield/internal/logging"
	"github.com/muurk/ipfield/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ipfield",
	Short: "Segmented IPv4 address picker",
	Long: `An interactive picker for IPv4 addresses.

The address is edited as four octet cells. Typing fills the focused cell
and jumps ahead once it is full, '.' moves to the next cell, and backspace
in an empty cell moves back.

If no command is specified, the picker launches with network discovery.
The chosen address is printed on stdout so it can be used in scripts:

  ssh admin@$(ipfield)`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the picker when no subcommand provided
		return runPicker(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ipfield %s\n", version.Full())
		fmt.Printf("built with %s\n", version.Platform())
	},
}
