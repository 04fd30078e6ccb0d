package forwarding

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"kfwd/internal/config"
	"kfwd/pkg/logging"
)

const (
	probeStartupDelay = time.Second
	probeDialTimeout  = 5 * time.Second
	probeKeepAlive    = 10 * time.Second
)

// probeAddr picks the dial address for the diagnostic probe: the first
// locally bound forwarding port on the first listen address. Bracketed IPv6
// listen addresses are unwrapped so JoinHostPort does not double them up.
func probeAddr(t *config.Target) (string, bool) {
	if len(t.Ports) == 0 {
		return "", false
	}
	mapping := t.Ports[0]
	port := mapping.Local
	if port == 0 {
		port = mapping.Remote
	}

	host := "127.0.0.1"
	if len(t.ListenAddrs) > 0 {
		host = strings.Trim(t.ListenAddrs[0], "[]")
	}
	return net.JoinHostPort(host, strconv.Itoa(int(port))), true
}

// probe opens a plain TCP connection to the forwarded port to surface
// socket-level errors for visibility. It never influences restart decisions.
// The connection is held open with keepalives for the lifetime of the child
// that spawned it; done closes when that child's cycle ends, so a
// crash-looping target never accumulates probe connections across respawns.
func (s *Supervisor) probe(ctx context.Context, done <-chan struct{}) {
	addr, ok := probeAddr(&s.Target)
	if !ok {
		return
	}

	// Give kubectl a moment to bind the listener.
	select {
	case <-ctx.Done():
		return
	case <-done:
		return
	case <-time.After(probeStartupDelay):
	}

	dialer := net.Dialer{
		Timeout:   probeDialTimeout,
		KeepAlive: probeKeepAlive,
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		logging.Debug(subsystem, "%s: probe connection to %s failed: %v", s.ID, addr, err)
		return
	}
	defer conn.Close()

	select {
	case <-ctx.Done():
	case <-done:
	}
}
