// Package gossip defines the peer-to-peer transport contract used by the
// node loop: two best-effort broadcast topics (blocks, extrinsics) and a
// stream of peer connection events that feeds round-robin authorship
// (§4.10). MemberlistBus is the production implementation; Memory is an
// in-process implementation for tests.
package gossip

import "github.com/tos-network/gtos-lite/types"

// Topic names the two gossip channels the node uses.
type Topic string

const (
	TopicBlocks     Topic = "blocks"
	TopicExtrinsics Topic = "extrinsics"
)

// EventKind distinguishes peer connection events.
type EventKind int

const (
	ConnectionEstablished EventKind = iota
	ConnectionClosed
)

// Event reports a peer joining or leaving the gossip mesh.
type Event struct {
	Kind EventKind
	Peer types.AccountId
}

// Bus is the gossip transport the node loop depends on. Delivery is
// best-effort: the design tolerates drops and duplicates (§4.11).
type Bus interface {
	// Publish broadcasts payload on topic to the mesh.
	Publish(topic Topic, payload []byte) error
	// Messages returns the channel of inbound payloads for topic.
	Messages(topic Topic) <-chan []byte
	// Events returns the channel of peer connection/disconnection events.
	Events() <-chan Event
	// Members returns the current peer set, excluding self.
	Members() []types.AccountId
	// Close shuts the bus down and releases its resources.
	Close() error
}
