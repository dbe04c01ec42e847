package gossip

import (
	"sync"

	"github.com/tos-network/gtos-lite/types"
)

// Memory is an in-process Bus that connects a fixed peer group without any
// network I/O, for node-loop and multi-node scenario tests.
type Memory struct {
	self types.AccountId
	hub  *MemoryHub

	mu         sync.Mutex
	blocks     chan []byte
	extrinsics chan []byte
	events     chan Event
}

// MemoryHub fans a Publish out to every member's inbound channels.
type MemoryHub struct {
	mu      sync.Mutex
	members map[types.AccountId]*Memory
}

// NewMemoryHub returns an empty hub that members can be attached to.
func NewMemoryHub() *MemoryHub {
	return &MemoryHub{members: make(map[types.AccountId]*Memory)}
}

// NewMember attaches a new in-process bus for self to hub, notifying every
// existing member of the new connection and vice versa.
func (h *MemoryHub) NewMember(self types.AccountId) *Memory {
	m := &Memory{
		self:       self,
		hub:        h,
		blocks:     make(chan []byte, 256),
		extrinsics: make(chan []byte, 256),
		events:     make(chan Event, 64),
	}

	h.mu.Lock()
	for _, other := range h.members {
		other.notify(Event{Kind: ConnectionEstablished, Peer: self})
		m.notify(Event{Kind: ConnectionEstablished, Peer: other.self})
	}
	h.members[self] = m
	h.mu.Unlock()

	return m
}

func (m *Memory) notify(ev Event) {
	select {
	case m.events <- ev:
	default:
	}
}

// Publish implements Bus.
func (m *Memory) Publish(topic Topic, payload []byte) error {
	m.hub.mu.Lock()
	defer m.hub.mu.Unlock()
	for acct, other := range m.hub.members {
		if acct == m.self {
			continue
		}
		var dst chan []byte
		switch topic {
		case TopicBlocks:
			dst = other.blocks
		case TopicExtrinsics:
			dst = other.extrinsics
		default:
			continue
		}
		select {
		case dst <- payload:
		default:
		}
	}
	return nil
}

// Messages implements Bus.
func (m *Memory) Messages(topic Topic) <-chan []byte {
	switch topic {
	case TopicBlocks:
		return m.blocks
	case TopicExtrinsics:
		return m.extrinsics
	default:
		closed := make(chan []byte)
		close(closed)
		return closed
	}
}

// Events implements Bus.
func (m *Memory) Events() <-chan Event { return m.events }

// Members implements Bus.
func (m *Memory) Members() []types.AccountId {
	m.hub.mu.Lock()
	defer m.hub.mu.Unlock()
	var out []types.AccountId
	for acct := range m.hub.members {
		if acct != m.self {
			out = append(out, acct)
		}
	}
	return out
}

// Close implements Bus: detaches self from the hub and notifies peers.
func (m *Memory) Close() error {
	m.hub.mu.Lock()
	delete(m.hub.members, m.self)
	for _, other := range m.hub.members {
		other.notify(Event{Kind: ConnectionClosed, Peer: m.self})
	}
	m.hub.mu.Unlock()
	return nil
}
