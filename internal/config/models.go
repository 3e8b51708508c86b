package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/muurk/ipfield/internal/segment"
)

// Default preference values.
const (
	DefaultDiscoverService = "_workstation._tcp"
	DefaultDiscoverTimeout = 5
	DefaultServerPort      = 8080
)

// Registry represents the entire user configuration file.
// It stores saved addresses and application preferences.
type Registry struct {
	Version     int                 `yaml:"version"`
	Addresses   map[string]*Address `yaml:"addresses,omitempty"` // Keyed by user-chosen name
	Preferences *Preferences        `yaml:"preferences,omitempty"`
}

// Address is a saved dotted-decimal value.
type Address struct {
	Value    string    `yaml:"value"`
	Note     string    `yaml:"note,omitempty"`
	LastUsed time.Time `yaml:"last_used,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DiscoverService string `yaml:"discover_service"` // DNS-SD service type browsed by the picker
	DiscoverTimeout int    `yaml:"discover_timeout"` // mDNS discovery timeout in seconds
	ServerPort      int    `yaml:"server_port"`      // Default port for the session server
}

// NamedAddress pairs a saved address with its registry key.
type NamedAddress struct {
	Name string
	*Address
}

func defaultPreferences() *Preferences {
	return &Preferences{
		DiscoverService: DefaultDiscoverService,
		DiscoverTimeout: DefaultDiscoverTimeout,
		ServerPort:      DefaultServerPort,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Addresses:   make(map[string]*Address),
		Preferences: defaultPreferences(),
	}
}

// GetAddress retrieves a saved address by name.
// Returns nil if no address is saved under that name.
func (r *Registry) GetAddress(name string) *Address {
	return r.Addresses[name]
}

// SetAddress saves value under name, replacing any previous entry.
// The value must be exactly four dotted-decimal segments; it is stored in
// canonical form.
func (r *Registry) SetAddress(name, value, note string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("address name cannot be empty")
	}
	segs := segment.Decompose(value)
	if segs.Compose() != value {
		return fmt.Errorf("invalid address %q: need exactly four segments", value)
	}
	addr, ok := segment.SegmentsAddr(segs)
	if !ok {
		return fmt.Errorf("invalid address %q: need four segments in 0-255", value)
	}

	if r.Addresses == nil {
		r.Addresses = make(map[string]*Address)
	}
	r.Addresses[name] = &Address{
		Value:    addr.String(),
		Note:     note,
		LastUsed: time.Now(),
	}
	return nil
}

// RemoveAddress deletes a saved address. It reports whether the name existed.
func (r *Registry) RemoveAddress(name string) bool {
	if _, ok := r.Addresses[name]; !ok {
		return false
	}
	delete(r.Addresses, name)
	return true
}

// TouchAddress updates the last used timestamp of a saved address.
func (r *Registry) TouchAddress(name string) {
	if addr, ok := r.Addresses[name]; ok {
		addr.LastUsed = time.Now()
	}
}

// SortedAddresses returns saved addresses, most recently used first.
// Ties are broken by name.
func (r *Registry) SortedAddresses() []NamedAddress {
	out := make([]NamedAddress, 0, len(r.Addresses))
	for name, addr := range r.Addresses {
		out = append(out, NamedAddress{Name: name, Address: addr})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastUsed.Equal(out[j].LastUsed) {
			return out[i].LastUsed.After(out[j].LastUsed)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// DiscoverTimeoutDuration returns the discovery timeout, falling back to the
// default when unset.
func (p *Preferences) DiscoverTimeoutDuration() time.Duration {
	if p == nil || p.DiscoverTimeout <= 0 {
		return DefaultDiscoverTimeout * time.Second
	}
	return time.Duration(p.DiscoverTimeout) * time.Second
}
