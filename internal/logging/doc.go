// Package logging provides structured logging for ipfield.
//
// This package wraps a global zap logger with convenience functions for the
// events the editor, the picker and the session server report.
//
// # Log Levels
//
//   - Debug: Every keystroke (raw text, stored text, focus moves, values)
//   - Info: Connections, server lifecycle
//   - Warn: Dropped sessions, malformed protocol frames
//   - Error: Startup failures
//
// # Configuration
//
// Logging is silent unless a level is given:
//
//	IPFIELD_LOG_LEVEL=debug IPFIELD_LOG_FILE=/tmp/ipfield.log ipfield
//
// The interactive editor draws on the terminal, so send logs to a file when
// using it. The server logs to stderr by default.
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically. Initialize and SetLogger are meant to
// be called once at startup.
package logging
