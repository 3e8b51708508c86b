package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/ipfield/internal/logging"
)

const (
	// DefaultService is the DNS-SD service type browsed when none is configured.
	// Most desktop and server operating systems announce it.
	DefaultService = "_workstation._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for host discovery
	DefaultScanTimeout = 5 * time.Second
)

// Scanner handles mDNS host discovery
type Scanner struct {
	// Service is the DNS-SD service type to browse (e.g., "_ssh._tcp")
	Service string

	// Domain is the browse domain
	Domain string

	// Timeout is the maximum time to wait for host discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Service: DefaultService,
		Domain:  ServiceDomain,
		Timeout: DefaultScanTimeout,
	}
}

// Scan browses the network until the timeout elapses or ctx is cancelled and
// returns every IPv4 host seen, sorted by instance name.
func (s *Scanner) Scan(ctx context.Context) ([]*Host, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := newHostSet()

	go func() {
		for entry := range entries {
			if host := hostFromEntry(entry); host != nil {
				if found.add(host) {
					logging.Debug("Discovered host",
						zap.String("instance", host.Instance),
						zap.String("ip", host.IP))
				}
			}
		}
	}()

	logging.Debug("Browsing mDNS",
		zap.String("service", s.Service),
		zap.Duration("timeout", s.Timeout))

	if err := resolver.Browse(ctx, s.Service, s.domain(), entries); err != nil {
		return nil, fmt.Errorf("failed to browse for %s services: %w", s.Service, err)
	}

	<-ctx.Done()

	return found.list(), nil
}

// Find waits for the host advertising the given instance name
func (s *Scanner) Find(ctx context.Context, instance string) (*Host, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	hostChan := make(chan *Host, 1)

	go func() {
		sent := false
		for entry := range entries {
			host := hostFromEntry(entry)
			if !sent && host != nil && host.Instance == instance {
				hostChan <- host
				sent = true
				cancel()
			}
		}
	}()

	if err := resolver.Lookup(ctx, instance, s.Service, s.domain(), entries); err != nil {
		return nil, fmt.Errorf("failed to look up %q: %w", instance, err)
	}

	select {
	case host := <-hostChan:
		return host, nil
	case <-ctx.Done():
		// the sender may have won the race with cancel
		select {
		case host := <-hostChan:
			return host, nil
		default:
		}
		return nil, fmt.Errorf("host %q not found within %v", instance, s.Timeout)
	}
}

func (s *Scanner) domain() string {
	if s.Domain == "" {
		return ServiceDomain
	}
	return s.Domain
}

// hostFromEntry converts a zeroconf service entry to a Host.
// Returns nil if the entry has no instance name or no IPv4 address.
func hostFromEntry(entry *zeroconf.ServiceEntry) *Host {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		if v4 := addr.To4(); v4 != nil {
			ip = v4.String()
			break
		}
	}
	if ip == "" {
		return nil
	}

	text := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		if key != "" {
			text[key] = value
		}
	}

	return &Host{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Text:         text,
		DiscoveredAt: time.Now(),
	}
}

// hostSet collects hosts from the browse goroutine, keyed by instance
type hostSet struct {
	mu    sync.Mutex
	hosts map[string]*Host
}

func newHostSet() *hostSet {
	return &hostSet{hosts: make(map[string]*Host)}
}

// add records h and reports whether its instance was new
func (hs *hostSet) add(h *Host) bool {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	if _, seen := hs.hosts[h.Instance]; seen {
		return false
	}
	hs.hosts[h.Instance] = h
	return true
}

func (hs *hostSet) list() []*Host {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	out := make([]*Host, 0, len(hs.hosts))
	for _, h := range hs.hosts {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instance < out[j].Instance })
	return out
}
