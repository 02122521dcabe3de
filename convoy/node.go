package convoy

import (
	"context"
	"time"

	"github.com/openfleet/convoy/convoy/crypto"
	"github.com/openfleet/convoy/convoy/telemetry"
)

// Node is a high-level helper that combines the key store, the secure
// channel, and the two telemetry loops. It intentionally stays small so
// applications can wire the pieces themselves when they need to.
type Node struct {
	agentID     string
	receiver    *telemetry.Receiver
	broadcaster *telemetry.Broadcaster
}

// NewNode establishes the trust root at keyFile (generating the key on
// first use), binds the listening socket on the given loopback port, and
// prepares the broadcaster targeting that same port. Key storage and bind
// failures are returned immediately; nothing runs yet.
//
// Port 0 binds an ephemeral port; the broadcaster follows whatever port
// the receiver actually bound.
func NewNode(agentID, keyFile string, port int, interval time.Duration, observe telemetry.Observer) (*Node, error) {
	keys := crypto.NewKeyStore(keyFile)
	if _, err := keys.LoadOrCreate(); err != nil {
		return nil, err
	}
	channel := crypto.NewChannel(keys)

	receiver, err := telemetry.NewReceiver(port, channel, observe)
	if err != nil {
		return nil, err
	}

	broadcaster := telemetry.NewBroadcaster(agentID, receiver.LocalPort(), interval, channel)
	return &Node{agentID: agentID, receiver: receiver, broadcaster: broadcaster}, nil
}

// AgentID returns the identity announced in this node's broadcasts.
func (n *Node) AgentID() string { return n.agentID }

// Port returns the loopback port the node listens on.
func (n *Node) Port() int { return n.receiver.LocalPort() }

// SetSpeedSource wires a live speed reading into the broadcast loop.
func (n *Node) SetSpeedSource(fn func() float64) {
	n.broadcaster.SpeedSource = fn
}

// Run starts the broadcaster and receiver loops and blocks until ctx is
// cancelled or one of them fails. The loops never wait on each other; the
// first error (if any) wins.
func (n *Node) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 2)
	go func() { errc <- n.receiver.Run(ctx) }()
	go func() { errc <- n.broadcaster.Run(ctx) }()

	// Both loops return nil on cancellation; stop the sibling when the
	// first one exits for any reason.
	err := <-errc
	cancel()
	if second := <-errc; err == nil {
		err = second
	}
	return err
}
