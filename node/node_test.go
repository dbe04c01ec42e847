package node_test

import (
	"context"
	"testing"
	"time"

	"github.com/tos-network/gtos-lite/crypto"
	"github.com/tos-network/gtos-lite/gossip"
	"github.com/tos-network/gtos-lite/kv"
	"github.com/tos-network/gtos-lite/node"
	"github.com/tos-network/gtos-lite/slotauthor"
	"github.com/tos-network/gtos-lite/types"
)

func TestEnsureGenesisFundsDevAccountsAndSealsBlockOne(t *testing.T) {
	self := crypto.DevKeyring()["alice"].AccountID
	hub := gossip.NewMemoryHub()
	bus := hub.NewMember(self)
	ticker, _ := slotauthor.NewManualTicker()

	n := node.New(self, kv.NewMemory(), bus, ticker)
	if err := n.EnsureGenesis(); err != nil {
		t.Fatalf("genesis: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)
	defer n.Stop()

	snap := n.State()
	if snap.BlockNumber != 1 {
		t.Fatalf("block number = %d, want 1", snap.BlockNumber)
	}
	for _, acc := range snap.Accounts {
		if acc.Balance.Cmp(node.GenesisBalance) != 0 {
			t.Fatalf("%s balance = %+v, want %+v", acc.Name, acc.Balance, node.GenesisBalance)
		}
		if acc.Nonce != 0 {
			t.Fatalf("%s nonce = %d, want 0", acc.Name, acc.Nonce)
		}
	}
}

func TestEnsureGenesisSkipsOnSecondCall(t *testing.T) {
	self := crypto.DevKeyring()["alice"].AccountID
	hub := gossip.NewMemoryHub()
	bus := hub.NewMember(self)
	ticker, _ := slotauthor.NewManualTicker()
	store := kv.NewMemory()

	n := node.New(self, store, bus, ticker)
	if err := n.EnsureGenesis(); err != nil {
		t.Fatalf("genesis: %v", err)
	}
	if err := n.EnsureGenesis(); err != nil {
		t.Fatalf("second genesis call: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)
	defer n.Stop()

	snap := n.State()
	if snap.BlockNumber != 1 {
		t.Fatalf("block number = %d, want 1 (genesis must not re-seal)", snap.BlockNumber)
	}
}

// twoNodePair is a pair of gossip-connected, genesis-sealed nodes used by
// the authorship/propagation tests below. selfA/selfB are the authorship
// identities (distinct from the dev-account keyring used for balances).
type twoNodePair struct {
	a, b         *node.Node
	selfA, selfB types.AccountId
	tickA, tickB chan<- slotauthor.Slot
	cancel       func()
}

func setupTwoNodePair(t *testing.T) twoNodePair {
	t.Helper()
	var selfA, selfB types.AccountId
	selfA[0], selfA[1] = 0xAA, 0x01
	selfB[0], selfB[1] = 0xBB, 0x02

	hub := gossip.NewMemoryHub()
	busA := hub.NewMember(selfA)
	busB := hub.NewMember(selfB)

	tickerA, chA := slotauthor.NewManualTicker()
	tickerB, chB := slotauthor.NewManualTicker()

	nodeA := node.New(selfA, kv.NewMemory(), busA, tickerA)
	nodeB := node.New(selfB, kv.NewMemory(), busB, tickerB)
	if err := nodeA.EnsureGenesis(); err != nil {
		t.Fatalf("genesis a: %v", err)
	}
	if err := nodeB.EnsureGenesis(); err != nil {
		t.Fatalf("genesis b: %v", err)
	}

	ctx, cancelCtx := context.WithCancel(context.Background())
	go nodeA.Run(ctx)
	go nodeB.Run(ctx)

	return twoNodePair{
		a: nodeA, b: nodeB,
		selfA: selfA, selfB: selfB,
		tickA: chA, tickB: chB,
		cancel: func() {
			cancelCtx()
			nodeA.Stop()
			nodeB.Stop()
		},
	}
}

// slotWhereAAuthors finds the first slot (within a small search window)
// where selfA, not selfB, is the deterministic author.
func (p twoNodePair) slotWhereAAuthors() slotauthor.Slot {
	for s := slotauthor.Slot(0); s < 10; s++ {
		if slotauthor.ShouldAuthor(p.selfA, []types.AccountId{p.selfB}, s) {
			return s
		}
	}
	panic("no authoring slot found for node A in search window")
}

func waitForBlockNumber(t *testing.T, n *node.Node, want types.BlockNumber) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n.State().BlockNumber == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for block number %d, last seen %d", want, n.State().BlockNumber)
}

func TestProducedBlockPropagatesToPeer(t *testing.T) {
	pair := setupTwoNodePair(t)
	defer pair.cancel()

	pair.tickA <- pair.slotWhereAAuthors()
	waitForBlockNumber(t, pair.a, 2)
	waitForBlockNumber(t, pair.b, 2)
}

func TestTransferAppliedAndPropagated(t *testing.T) {
	pair := setupTwoNodePair(t)
	defer pair.cancel()

	alice := crypto.DevKeyring()["alice"]
	bob := crypto.DevKeyring()["bob"]
	call := types.RuntimeCall{Transfer: &types.TransferCall{To: bob.AccountID, Amount: types.NewBalance(500)}}
	ext := types.Sign(alice.Secret, 0, call)

	if err := pair.a.SubmitExtrinsic(ext); err != nil {
		t.Fatalf("submit: %v", err)
	}

	pair.tickA <- pair.slotWhereAAuthors()
	waitForBlockNumber(t, pair.a, 2)
	waitForBlockNumber(t, pair.b, 2)

	for _, n := range []*node.Node{pair.a, pair.b} {
		snap := n.State()
		for _, acc := range snap.Accounts {
			switch acc.Name {
			case "alice":
				if acc.Balance.Cmp(types.NewBalance(999_500)) != 0 {
					t.Fatalf("alice balance = %+v, want 999500", acc.Balance)
				}
				if acc.Nonce != 1 {
					t.Fatalf("alice nonce = %d, want 1", acc.Nonce)
				}
			case "bob":
				if acc.Balance.Cmp(types.NewBalance(1_000_500)) != 0 {
					t.Fatalf("bob balance = %+v, want 1000500", acc.Balance)
				}
			}
		}
	}
}
