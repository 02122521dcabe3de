package telemetry

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/openfleet/convoy/convoy/crypto"
)

// DefaultInterval is the spacing between status broadcasts.
const DefaultInterval = 100 * time.Millisecond

// DefaultSpeed is the sample speed announced when no live source is wired.
const DefaultSpeed = 25.0

// Broadcaster periodically announces this agent's status to a fixed
// loopback target. Sends are fire-and-forget: a missing listener or a
// transient send failure is logged and the loop carries on.
type Broadcaster struct {
	agentID  string
	target   string
	interval time.Duration
	channel  *crypto.Channel

	// SpeedSource supplies the announced speed. Nil means DefaultSpeed.
	SpeedSource func() float64
}

// NewBroadcaster creates a broadcaster that sends to 127.0.0.1:port every
// interval. A non-positive interval selects DefaultInterval.
func NewBroadcaster(agentID string, port int, interval time.Duration, channel *crypto.Channel) *Broadcaster {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Broadcaster{
		agentID:  agentID,
		target:   fmt.Sprintf("127.0.0.1:%d", port),
		interval: interval,
		channel:  channel,
	}
}

// Run sends status datagrams until ctx is cancelled. It returns nil on
// cancellation; only socket setup and encryption failures are fatal, since
// the latter indicate a corrupt key rather than a network hiccup.
func (b *Broadcaster) Run(ctx context.Context) error {
	conn, err := net.Dial("udp", b.target)
	if err != nil {
		return fmt.Errorf("telemetry: open send socket: %w", err)
	}
	defer conn.Close()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		if err := b.sendOnce(conn); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (b *Broadcaster) sendOnce(conn net.Conn) error {
	speed := DefaultSpeed
	if b.SpeedSource != nil {
		speed = b.SpeedSource()
	}

	msg := StatusMessage{AgentID: b.agentID, Status: StatusActive, Speed: speed}
	plaintext, err := msg.Encode()
	if err != nil {
		return err
	}
	envelope, err := b.channel.Encrypt(string(plaintext))
	if err != nil {
		return fmt.Errorf("telemetry: encrypt status: %w", err)
	}
	if _, err := conn.Write(envelope); err != nil {
		// No delivery guarantee on this channel; drop and retry next tick.
		log.Printf("[Broadcaster] send failed: %v", err)
	}
	return nil
}
