package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Host represents a machine discovered on the network
type Host struct {
	// Instance is the DNS-SD service instance name (e.g., "nas [00:11:32:aa:bb:cc]")
	Instance string

	// Hostname is the mDNS hostname (e.g., "nas.local.")
	Hostname string

	// IP is the IPv4 address in dotted-decimal form (e.g., "192.168.1.20")
	IP string

	// Port is the advertised service port
	Port int

	// Text contains the service TXT record as key/value pairs
	Text map[string]string

	// DiscoveredAt is when the host was first seen during a scan
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the host
func (h *Host) String() string {
	return fmt.Sprintf("%s (%s) at %s", h.Instance, h.Hostname, h.Address())
}

// Address returns the host:port pair for the advertised service
func (h *Host) Address() string {
	return net.JoinHostPort(h.IP, strconv.Itoa(h.Port))
}

// Title and Description let a Host be used directly as a bubbles list item
func (h *Host) Title() string { return h.Instance }

func (h *Host) Description() string {
	if h.Hostname == "" {
		return h.IP
	}
	return fmt.Sprintf("%s  %s", h.IP, h.Hostname)
}

func (h *Host) FilterValue() string { return h.Instance + " " + h.IP }

// GetText retrieves a TXT value by key, or returns empty string if not found
func (h *Host) GetText(key string) string {
	if h.Text == nil {
		return ""
	}
	return h.Text[key]
}
