package telemetry

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/openfleet/convoy/convoy/crypto"
)

func newTestChannel(t *testing.T) *crypto.Channel {
	t.Helper()
	return crypto.NewChannel(crypto.NewKeyStore(filepath.Join(t.TempDir(), "secret.key")))
}

func dialReceiver(t *testing.T, r *Receiver) *net.UDPConn {
	t.Helper()
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: r.LocalPort()}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		t.Fatalf("DialUDP: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendStatus(t *testing.T, conn *net.UDPConn, ch *crypto.Channel, msg StatusMessage) {
	t.Helper()
	plaintext, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	envelope, err := ch.Encrypt(string(plaintext))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := conn.Write(envelope); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func TestReceiverSurvivesGarbageDatagrams(t *testing.T) {
	ch := newTestChannel(t)

	received := make(chan StatusMessage, 16)
	r, err := NewReceiver(0, ch, func(msg StatusMessage) { received <- msg })
	if err != nil {
		t.Fatalf("NewReceiver: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- r.Run(ctx) }()

	conn := dialReceiver(t, r)

	// Well-formed, garbage, well-formed: exactly two messages expected,
	// in arrival order, with the loop still alive afterwards.
	sendStatus(t, conn, ch, StatusMessage{AgentID: "Agent_1", Status: StatusActive, Speed: 25.0})

	first := waitForMessage(t, received)
	if first.AgentID != "Agent_1" {
		t.Fatalf("first message from %q, want Agent_1", first.AgentID)
	}

	if _, err := conn.Write([]byte("not an envelope")); err != nil {
		t.Fatalf("Write garbage: %v", err)
	}

	sendStatus(t, conn, ch, StatusMessage{AgentID: "Agent_2", Status: StatusActive, Speed: 12.5})

	second := waitForMessage(t, received)
	if second.AgentID != "Agent_2" {
		t.Fatalf("second message from %q, want Agent_2", second.AgentID)
	}

	select {
	case extra := <-received:
		t.Fatalf("unexpected extra message: %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("Run returned %v after cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("receiver did not stop on cancel")
	}
}

func TestReceiverDropsForeignKeyedDatagrams(t *testing.T) {
	ours := newTestChannel(t)
	theirs := newTestChannel(t)

	received := make(chan StatusMessage, 1)
	r, err := NewReceiver(0, ours, func(msg StatusMessage) { received <- msg })
	if err != nil {
		t.Fatalf("NewReceiver: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	conn := dialReceiver(t, r)
	sendStatus(t, conn, theirs, StatusMessage{AgentID: "Foreign", Status: StatusActive, Speed: 1.0})
	sendStatus(t, conn, ours, StatusMessage{AgentID: "Agent_1", Status: StatusActive, Speed: 2.0})

	msg := waitForMessage(t, received)
	if msg.AgentID != "Agent_1" {
		t.Fatalf("surfaced %q, want the correctly-keyed Agent_1", msg.AgentID)
	}
}

func TestReceiverBindConflict(t *testing.T) {
	ch := newTestChannel(t)

	first, err := NewReceiver(0, ch, nil)
	if err != nil {
		t.Fatalf("NewReceiver: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go first.Run(ctx)

	if _, err := NewReceiver(first.LocalPort(), ch, nil); err == nil {
		t.Fatalf("expected bind error on occupied port")
	}
}

func TestProbePortFallsBack(t *testing.T) {
	ch := newTestChannel(t)

	// Occupy a port, then ask the probe to choose between it and 0.
	occupied, err := NewReceiver(0, ch, nil)
	if err != nil {
		t.Fatalf("NewReceiver: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go occupied.Run(ctx)

	port, err := ProbePort(occupied.LocalPort(), 0)
	if err != nil {
		t.Fatalf("ProbePort: %v", err)
	}
	if port == occupied.LocalPort() {
		t.Fatalf("probe picked the occupied port")
	}
}

func waitForMessage(t *testing.T, ch <-chan StatusMessage) StatusMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for message")
		return StatusMessage{}
	}
}
