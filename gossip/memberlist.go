package gossip

import (
	"encoding/hex"
	"fmt"

	"github.com/hashicorp/memberlist"

	"github.com/tos-network/gtos-lite/log"
	"github.com/tos-network/gtos-lite/types"
)

// topic tags prefix every broadcast payload so a single memberlist
// delegate can multiplex both gossip topics over one transport, the way
// the retrieved memberlist example multiplexes role metadata and
// broadcast payloads over one Delegate.
const (
	tagBlocks     byte = 0x01
	tagExtrinsics byte = 0x02
)

// MemberlistBus implements Bus over github.com/hashicorp/memberlist. Each
// node's memberlist name is the hex encoding of its AccountId (§4.13), so
// peer identity and gossip-layer identity coincide.
type MemberlistBus struct {
	self types.AccountId
	list *memberlist.Memberlist

	blocks     chan []byte
	extrinsics chan []byte
	events     chan Event
	broadcasts *memberlist.TransmitLimitedQueue
	log        log.Logger
}

// MemberlistConfig carries the bind/advertise settings for a MemberlistBus.
type MemberlistConfig struct {
	Self          types.AccountId
	BindAddr      string
	BindPort      int
	AdvertiseAddr string
	AdvertisePort int
	Join          []string
}

// NewMemberlistBus starts a memberlist-backed bus and, if cfg.Join is
// non-empty, attempts to join the existing mesh.
func NewMemberlistBus(cfg MemberlistConfig) (*MemberlistBus, error) {
	b := &MemberlistBus{
		self:       cfg.Self,
		blocks:     make(chan []byte, 256),
		extrinsics: make(chan []byte, 256),
		events:     make(chan Event, 64),
		log:        log.New("module", "gossip"),
	}

	mlConfig := memberlist.DefaultLocalConfig()
	mlConfig.Name = cfg.Self.String()
	if cfg.BindAddr != "" {
		mlConfig.BindAddr = cfg.BindAddr
	}
	if cfg.BindPort != 0 {
		mlConfig.BindPort = cfg.BindPort
		mlConfig.AdvertisePort = cfg.BindPort
	}
	if cfg.AdvertiseAddr != "" {
		mlConfig.AdvertiseAddr = cfg.AdvertiseAddr
	}
	if cfg.AdvertisePort != 0 {
		mlConfig.AdvertisePort = cfg.AdvertisePort
	}
	mlConfig.Events = b
	mlConfig.Delegate = b

	list, err := memberlist.Create(mlConfig)
	if err != nil {
		return nil, fmt.Errorf("gossip: create memberlist: %w", err)
	}
	b.list = list
	b.broadcasts = &memberlist.TransmitLimitedQueue{
		NumNodes:       func() int { return list.NumMembers() },
		RetransmitMult: memberlist.DefaultLANConfig().RetransmitMult,
	}

	if len(cfg.Join) > 0 {
		if _, err := list.Join(cfg.Join); err != nil {
			b.log.Warn("failed to join gossip mesh, continuing standalone", "err", err)
		}
	}

	return b, nil
}

// Publish implements Bus.
func (b *MemberlistBus) Publish(topic Topic, payload []byte) error {
	tag, err := tagFor(topic)
	if err != nil {
		return err
	}
	msg := make([]byte, 0, len(payload)+1)
	msg = append(msg, tag)
	msg = append(msg, payload...)
	b.broadcasts.QueueBroadcast(&broadcastMsg{msg: msg})
	return nil
}

func tagFor(topic Topic) (byte, error) {
	switch topic {
	case TopicBlocks:
		return tagBlocks, nil
	case TopicExtrinsics:
		return tagExtrinsics, nil
	default:
		return 0, fmt.Errorf("gossip: unknown topic %q", topic)
	}
}

// Messages implements Bus.
func (b *MemberlistBus) Messages(topic Topic) <-chan []byte {
	switch topic {
	case TopicBlocks:
		return b.blocks
	case TopicExtrinsics:
		return b.extrinsics
	default:
		closed := make(chan []byte)
		close(closed)
		return closed
	}
}

// Events implements Bus.
func (b *MemberlistBus) Events() <-chan Event { return b.events }

// Members implements Bus: the current peer set, self excluded.
func (b *MemberlistBus) Members() []types.AccountId {
	var out []types.AccountId
	for _, m := range b.list.Members() {
		acct, ok := accountFromName(m.Name)
		if !ok || acct == b.self {
			continue
		}
		out = append(out, acct)
	}
	return out
}

// Close implements Bus.
func (b *MemberlistBus) Close() error {
	if err := b.list.Leave(memberlist.DefaultLocalConfig().PushPullInterval); err != nil {
		b.log.Warn("error leaving gossip mesh", "err", err)
	}
	return b.list.Shutdown()
}

func accountFromName(name string) (types.AccountId, bool) {
	raw, err := hex.DecodeString(name)
	if err != nil {
		return types.AccountId{}, false
	}
	return types.AccountIdFromBytes(raw)
}

// --- memberlist.EventDelegate ---

func (b *MemberlistBus) NotifyJoin(n *memberlist.Node) {
	if acct, ok := accountFromName(n.Name); ok && acct != b.self {
		b.emit(Event{Kind: ConnectionEstablished, Peer: acct})
	}
}

func (b *MemberlistBus) NotifyLeave(n *memberlist.Node) {
	if acct, ok := accountFromName(n.Name); ok && acct != b.self {
		b.emit(Event{Kind: ConnectionClosed, Peer: acct})
	}
}

func (b *MemberlistBus) NotifyUpdate(*memberlist.Node) {}

func (b *MemberlistBus) emit(ev Event) {
	select {
	case b.events <- ev:
	default:
		b.log.Warn("dropping gossip event, consumer too slow", "kind", ev.Kind)
	}
}

// --- memberlist.Delegate ---

func (b *MemberlistBus) NodeMeta(limit int) []byte { return nil }

func (b *MemberlistBus) NotifyMsg(msg []byte) {
	if len(msg) == 0 {
		return
	}
	tag, payload := msg[0], msg[1:]
	var dst chan []byte
	switch tag {
	case tagBlocks:
		dst = b.blocks
	case tagExtrinsics:
		dst = b.extrinsics
	default:
		return
	}
	select {
	case dst <- payload:
	default:
		b.log.Warn("dropping gossip message, consumer too slow", "tag", tag)
	}
}

func (b *MemberlistBus) GetBroadcasts(overhead, limit int) [][]byte {
	return b.broadcasts.GetBroadcasts(overhead, limit)
}

func (b *MemberlistBus) LocalState(join bool) []byte { return nil }

func (b *MemberlistBus) MergeRemoteState(buf []byte, join bool) {}

// broadcastMsg implements memberlist.Broadcast for a single gossip payload.
type broadcastMsg struct {
	msg []byte
}

func (m *broadcastMsg) Invalidates(other memberlist.Broadcast) bool { return false }
func (m *broadcastMsg) Message() []byte                             { return m.msg }
func (m *broadcastMsg) Finished()                                   {}
