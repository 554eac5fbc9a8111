package pihole

import (
	"context"
	"net"
	"time"
)

// Internet reachability check defaults.
const (
	ReachAddress = "8.8.8.8:53"
	ReachTimeout = 3 * time.Second
)

// Reachable reports whether a TCP connection to address can be opened within
// timeout.
func Reachable(ctx context.Context, address string, timeout time.Duration) bool {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Online dials the public DNS resolver used as the connectivity reference.
func Online(ctx context.Context) bool {
	return Reachable(ctx, ReachAddress, ReachTimeout)
}
