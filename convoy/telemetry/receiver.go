package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/openfleet/convoy/convoy/crypto"
)

// ReceiveBufferSize bounds a single inbound datagram. Sized well above the
// largest expected envelope so records are never truncated.
const ReceiveBufferSize = 2048

// Observer is called for each successfully decrypted peer status, in
// arrival order.
type Observer func(msg StatusMessage)

// Receiver drains peer status datagrams from a loopback port. Datagrams
// that fail to decrypt or decode are dropped without comment: foreign
// traffic on the port is expected and must never stop the loop.
type Receiver struct {
	conn    *net.UDPConn
	channel *crypto.Channel
	observe Observer
}

// NewReceiver binds the listening socket immediately so a port conflict
// surfaces to the caller before the loop starts. Port 0 binds an ephemeral
// port (useful in tests); see LocalPort.
func NewReceiver(port int, channel *crypto.Channel, observe Observer) (*Receiver, error) {
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("telemetry: bind port %d: %w", port, err)
	}
	return &Receiver{conn: conn, channel: channel, observe: observe}, nil
}

// LocalPort returns the port the receiver is bound to.
func (r *Receiver) LocalPort() int {
	return r.conn.LocalAddr().(*net.UDPAddr).Port
}

// Run receives datagrams until ctx is cancelled, then closes the socket
// and returns nil. Per-datagram failures are contained inside the loop.
func (r *Receiver) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			r.conn.Close()
		case <-done:
		}
	}()
	defer r.conn.Close()

	buf := make([]byte, ReceiveBufferSize)
	for {
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("[Receiver] read failed: %v", err)
			continue
		}

		plaintext, err := r.channel.Decrypt(buf[:n])
		if err != nil {
			continue
		}
		msg, err := DecodeStatusMessage([]byte(plaintext))
		if err != nil {
			continue
		}
		if r.observe != nil {
			r.observe(msg)
		}
	}
}
