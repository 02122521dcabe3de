package telemetry

import (
	"fmt"
	"net"
)

// Default loopback ports for the status channel.
const (
	DefaultPort  = 5000
	FallbackPort = 5001
)

// ProbePort checks that the preferred port is free and returns it, falling
// back to fallback when it is already bound. Both ports taken is an error.
// The probe socket is released before returning, so the caller must start
// its receiver promptly; this mirrors the channel's best-effort posture.
func ProbePort(preferred, fallback int) (int, error) {
	if portFree(preferred) {
		return preferred, nil
	}
	if portFree(fallback) {
		return fallback, nil
	}
	return 0, fmt.Errorf("telemetry: ports %d and %d both in use", preferred, fallback)
}

func portFree(port int) bool {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port})
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
