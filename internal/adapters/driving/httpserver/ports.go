package httpserver

import (
	"fmt"
	"net"
	"strconv"
)

// Loopback port range probed for the local callback server when the host
// does not pin a redirect port. Provider OAuth apps must register every
// redirect URI, so the range is kept small and stable.
const (
	DefaultCallbackPortStart = 8090
	DefaultCallbackPortEnd   = 8110
)

// FindAvailablePort returns the first port in [start, end] that accepts a
// loopback listener. The listener is closed again; callers bind it for
// real via Server.Start.
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		if err != nil {
			continue
		}
		_ = l.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no free callback port between %d and %d", start, end)
}
