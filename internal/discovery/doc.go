// Package discovery finds hosts on the local network with multicast DNS.
//
// A Scanner browses one DNS-SD service type (by default "_workstation._tcp",
// which most desktop and server systems announce) and collects the IPv4
// address of every instance that answers before the timeout. Hosts that only
// advertise IPv6 are skipped.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	scanner.Service = "_ssh._tcp"
//
//	hosts, err := scanner.Scan(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, h := range hosts {
//	    fmt.Println(h)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Hosts must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// Each Scan uses its own resolver, so several scans can run at once.
package discovery
