// Package node implements the single-threaded cooperative event loop that
// ties the mempool, the slot ticker, the gossip bus, and the runtime
// together (§4.11). All state mutation happens inside Run's select loop;
// RPC submissions cross into it over channels instead of calling pallets
// directly, so the loop is the sole writer regardless of how many HTTP
// goroutines are issuing requests concurrently.
package node

import (
	"context"
	"errors"
	"sort"

	"github.com/tos-network/gtos-lite/codec"
	"github.com/tos-network/gtos-lite/crypto"
	"github.com/tos-network/gtos-lite/gossip"
	"github.com/tos-network/gtos-lite/kv"
	"github.com/tos-network/gtos-lite/log"
	"github.com/tos-network/gtos-lite/mempool"
	"github.com/tos-network/gtos-lite/metrics"
	"github.com/tos-network/gtos-lite/runtime"
	"github.com/tos-network/gtos-lite/slotauthor"
	"github.com/tos-network/gtos-lite/types"
)

// MaxExtrinsicsPerBlock bounds how many extrinsics a single produced block
// may carry, keeping dispatch O(block size) as required by §4.11.
const MaxExtrinsicsPerBlock = 128

// MempoolCapacity bounds the number of pending extrinsics held at once.
const MempoolCapacity = 4096

// GenesisBalance is the fixed balance each dev account is funded with at
// genesis (§4.11, scenario 1 in §8).
var GenesisBalance = types.NewBalance(1_000_000)

const genesisSealedKey = "genesis:sealed"

// Node owns the runtime, mempool, gossip bus, and slot ticker for one chain
// participant and runs the event loop described in §4.11.
type Node struct {
	self    types.AccountId
	rt      *runtime.Runtime
	pool    *mempool.Pool
	bus     gossip.Bus
	ticker  *slotauthor.Ticker
	metrics *metrics.Registry
	log     log.Logger

	peers map[types.AccountId]struct{}

	submissions  chan submitRequest
	nonceQueries chan nonceQuery
	stateQueries chan stateQuery
	stop         chan struct{}
	done         chan struct{}
}

type submitRequest struct {
	ext    types.UncheckedExtrinsic
	result chan error
}

type nonceQuery struct {
	account types.AccountId
	result  chan types.Nonce
}

type stateQuery struct {
	result chan Snapshot
}

// New constructs a Node over store and bus, identified by self. It does not
// start the event loop; call Run for that.
func New(self types.AccountId, store kv.Store, bus gossip.Bus, ticker *slotauthor.Ticker) *Node {
	return &Node{
		self:         self,
		rt:           runtime.New(store),
		pool:         mempool.New(MempoolCapacity),
		bus:          bus,
		ticker:       ticker,
		metrics:      metrics.NewRegistry("balances", "claims", "unknown"),
		log:          log.New("module", "node", "self", self.String()),
		peers:        make(map[types.AccountId]struct{}),
		submissions:  make(chan submitRequest),
		nonceQueries: make(chan nonceQuery),
		stateQueries: make(chan stateQuery),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// EnsureGenesis funds the dev keyring and seals block 1 if this is a fresh
// database (§4.11 Genesis). It must be called before Run is started, since
// nothing else is mutating state yet.
func (n *Node) EnsureGenesis() error {
	v, ok, err := n.rt.Store.Get([]byte(genesisSealedKey))
	if err != nil {
		return err
	}
	if ok && len(v) > 0 {
		n.log.Info("genesis already sealed, skipping")
		return nil
	}

	for name, kp := range crypto.DevKeyring() {
		if err := n.rt.Balances.SetBalance(kp.AccountID, GenesisBalance); err != nil {
			return err
		}
		n.log.Info("funded dev account", "name", name, "account", types.AccountId(kp.AccountID).String())
	}

	outcomes, err := n.rt.ExecuteBlock(types.Block{Header: types.Header{BlockNumber: 1}})
	if err != nil {
		return err
	}
	if len(outcomes) != 0 {
		return errors.New("node: genesis block unexpectedly carried extrinsics")
	}
	n.metrics.IncBlocksExecuted()

	return n.rt.Store.Put([]byte(genesisSealedKey), []byte{1})
}

// Run blocks, servicing the ticker, gossip, and RPC-facing channels until
// ctx is cancelled or Stop is called.
func (n *Node) Run(ctx context.Context) {
	defer close(n.done)
	blocks := n.bus.Messages(gossip.TopicBlocks)
	extrinsics := n.bus.Messages(gossip.TopicExtrinsics)
	events := n.bus.Events()

	for {
		select {
		case <-ctx.Done():
			return
		case <-n.stop:
			return
		case slot := <-n.ticker.C:
			n.onTick(slot)
		case ev := <-events:
			n.onPeerEvent(ev)
		case raw := <-extrinsics:
			n.onInboundExtrinsic(raw)
		case raw := <-blocks:
			n.onInboundBlock(raw)
		case req := <-n.submissions:
			req.result <- n.handleSubmit(req.ext)
		case q := <-n.nonceQueries:
			q.result <- n.pendingNonce(q.account)
		case q := <-n.stateQueries:
			q.result <- n.snapshot()
		}
	}
}

// Stop halts Run. Safe to call once; blocks until the loop has exited.
func (n *Node) Stop() {
	close(n.stop)
	<-n.done
}

// SubmitExtrinsic is the external entry point RPC and the CLI use to push
// a locally-originated extrinsic into the loop. It blocks until the loop
// has processed the request.
func (n *Node) SubmitExtrinsic(ext types.UncheckedExtrinsic) error {
	req := submitRequest{ext: ext, result: make(chan error, 1)}
	n.submissions <- req
	return <-req.result
}

// PendingNonce is the external entry point behind GET /nonce/:account.
func (n *Node) PendingNonce(account types.AccountId) types.Nonce {
	q := nonceQuery{account: account, result: make(chan types.Nonce, 1)}
	n.nonceQueries <- q
	return <-q.result
}

// State is the external entry point behind GET /state.
func (n *Node) State() Snapshot {
	q := stateQuery{result: make(chan Snapshot, 1)}
	n.stateQueries <- q
	return <-q.result
}

func (n *Node) handleSubmit(ext types.UncheckedExtrinsic) error {
	if err := n.pool.Submit(ext); err != nil {
		return err
	}
	if err := n.bus.Publish(gossip.TopicExtrinsics, codec.Encode(ext)); err != nil {
		n.log.Warn("failed to gossip submitted extrinsic", "err", err)
	}
	return nil
}

func (n *Node) pendingNonce(account types.AccountId) types.Nonce {
	onChain, err := n.rt.System.Nonce(account)
	if err != nil {
		n.log.Error("failed to read on-chain nonce", "account", account.String(), "err", err)
		return 0
	}
	return mempool.PendingNonce(onChain, n.pool, account)
}

func (n *Node) onPeerEvent(ev gossip.Event) {
	switch ev.Kind {
	case gossip.ConnectionEstablished:
		n.peers[ev.Peer] = struct{}{}
	case gossip.ConnectionClosed:
		delete(n.peers, ev.Peer)
	}
}

func (n *Node) sortedPeers() []types.AccountId {
	out := make([]types.AccountId, 0, len(n.peers))
	for p := range n.peers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (n *Node) onTick(slot slotauthor.Slot) {
	peers := n.sortedPeers()
	if !slotauthor.ShouldAuthor(n.self, peers, slot) {
		return
	}

	current, err := n.rt.System.BlockNumber()
	if err != nil {
		n.log.Error("failed to read block number before authoring", "err", err)
		return
	}
	next := current + 1

	drained, err := n.pool.DrainForBlock(MaxExtrinsicsPerBlock, n.rt.System.Nonce)
	if err != nil {
		n.log.Error("failed to drain mempool", "err", err)
		return
	}

	block := types.Block{Header: types.Header{BlockNumber: next}, Extrinsics: drained}
	outcomes, err := n.rt.ExecuteBlock(block)
	if err != nil {
		n.log.Error("authored block failed to execute locally", "err", err, "number", next)
		return
	}
	n.recordOutcomes(outcomes)
	n.metrics.IncBlocksProduced()
	n.metrics.IncBlocksExecuted()

	if err := n.bus.Publish(gossip.TopicBlocks, codec.Encode(block)); err != nil {
		n.log.Warn("failed to gossip produced block", "err", err)
	}
}

func (n *Node) onInboundExtrinsic(raw []byte) {
	var ext types.UncheckedExtrinsic
	if err := codec.Decode(raw, &ext); err != nil {
		n.log.Warn("dropping undecodable inbound extrinsic", "err", err)
		return
	}
	if err := n.pool.Submit(ext); err != nil {
		n.log.Warn("dropping inbound extrinsic, mempool full", "err", err)
	}
}

func (n *Node) onInboundBlock(raw []byte) {
	var block types.Block
	if err := codec.Decode(raw, &block); err != nil {
		n.log.Warn("dropping undecodable inbound block", "err", err)
		return
	}

	current, err := n.rt.System.BlockNumber()
	if err != nil {
		n.log.Error("failed to read block number before applying inbound block", "err", err)
		return
	}
	if block.Header.BlockNumber != current+1 {
		n.log.Debug("dropping out-of-order inbound block",
			"declared", block.Header.BlockNumber, "expected", current+1)
		return
	}

	outcomes, err := n.rt.ExecuteBlock(block)
	if err != nil {
		n.log.Error("failed to execute inbound block", "err", err, "number", block.Header.BlockNumber)
		return
	}
	n.recordOutcomes(outcomes)
	n.metrics.IncBlocksExecuted()

	keys := make([]types.ExtrinsicKey, len(block.Extrinsics))
	for i, ext := range block.Extrinsics {
		keys[i] = ext.Key()
	}
	n.pool.Retain(keys)
}

func (n *Node) recordOutcomes(outcomes []runtime.DispatchOutcome) {
	for _, o := range outcomes {
		if !o.SignatureOK || !o.NonceMatched {
			n.metrics.IncExtrinsicsSkipped()
			continue
		}
		n.metrics.IncExtrinsicsApplied()
		if o.Err != nil {
			n.metrics.IncDispatchFailure(o.Pallet)
		}
	}
}
