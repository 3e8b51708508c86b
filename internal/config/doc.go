// Package config provides user configuration management for ipfield.
//
// A YAML file stores named addresses the user saved from the editor, plus
// preferences for the picker and the session server.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/ipfield/config.yaml or $HOME/.config/ipfield/config.yaml
//   - macOS: $HOME/.config/ipfield/config.yaml
//   - Windows: %LOCALAPPDATA%\ipfield\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := registry.SetAddress("router", "192.168.1.1", "home gateway"); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for initialization. File writes are
// serialized by a mutex and replace the file atomically.
package config
