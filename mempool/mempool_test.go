package mempool_test

import (
	"testing"

	"github.com/tos-network/gtos-lite/mempool"
	"github.com/tos-network/gtos-lite/types"
)

func acctByte(b byte) types.AccountId {
	var a types.AccountId
	a[0] = b
	return a
}

func ext(signer types.AccountId, nonce types.Nonce) types.UncheckedExtrinsic {
	return types.UncheckedExtrinsic{
		Signer: signer,
		Nonce:  nonce,
		Call:   types.RuntimeCall{Transfer: &types.TransferCall{To: signer, Amount: types.NewBalance(1)}},
	}
}

func zeroNonce(types.AccountId) (types.Nonce, error) { return 0, nil }

func TestSubmitFullRejects(t *testing.T) {
	p := mempool.New(1)
	alice := acctByte(1)
	if err := p.Submit(ext(alice, 0)); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := p.Submit(ext(alice, 1)); err != mempool.ErrMempoolFull {
		t.Fatalf("got %v, want ErrMempoolFull", err)
	}
}

func TestSubmitDuplicateDroppedSilently(t *testing.T) {
	p := mempool.New(10)
	alice := acctByte(1)
	if err := p.Submit(ext(alice, 0)); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := p.Submit(ext(alice, 0)); err != nil {
		t.Fatalf("duplicate submit should be silently dropped, got err: %v", err)
	}
	if p.Len() != 1 {
		t.Fatalf("pool len = %d, want 1 (duplicate must not be appended)", p.Len())
	}
}

func TestDrainContiguousRunOnly(t *testing.T) {
	p := mempool.New(10)
	alice := acctByte(1)
	p.Submit(ext(alice, 0))
	p.Submit(ext(alice, 1))
	p.Submit(ext(alice, 3)) // gap at 2

	drained, err := p.DrainForBlock(10, zeroNonce)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(drained) != 2 {
		t.Fatalf("got %d extrinsics, want 2 (nonce 3 should be excluded by the gap)", len(drained))
	}
	if drained[0].Nonce != 0 || drained[1].Nonce != 1 {
		t.Fatalf("wrong order: %+v", drained)
	}
	if p.Len() != 1 {
		t.Fatalf("pool should retain the un-drained nonce-3 entry, len=%d", p.Len())
	}
}

func TestDrainDeterministicCrossSignerOrder(t *testing.T) {
	p1 := mempool.New(10)
	p2 := mempool.New(10)
	a, b := acctByte(1), acctByte(2)

	// submit in opposite orders to each pool
	p1.Submit(ext(a, 0))
	p1.Submit(ext(b, 0))
	p2.Submit(ext(b, 0))
	p2.Submit(ext(a, 0))

	d1, _ := p1.DrainForBlock(10, zeroNonce)
	d2, _ := p2.DrainForBlock(10, zeroNonce)

	if len(d1) != 2 || len(d2) != 2 {
		t.Fatalf("expected 2 extrinsics each, got %d and %d", len(d1), len(d2))
	}
	if d1[0].Signer != d2[0].Signer || d1[1].Signer != d2[1].Signer {
		t.Fatalf("drain order not deterministic across submission order: %+v vs %+v", d1, d2)
	}
}

func TestDrainRespectsMax(t *testing.T) {
	p := mempool.New(10)
	alice := acctByte(1)
	p.Submit(ext(alice, 0))
	p.Submit(ext(alice, 1))
	p.Submit(ext(alice, 2))

	drained, err := p.DrainForBlock(2, zeroNonce)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(drained) != 2 {
		t.Fatalf("got %d, want 2", len(drained))
	}
	if p.Len() != 1 {
		t.Fatalf("one entry should remain, len=%d", p.Len())
	}
}

func TestRetainEvictsIncluded(t *testing.T) {
	p := mempool.New(10)
	alice, bob := acctByte(1), acctByte(2)
	e1 := ext(alice, 0)
	e2 := ext(bob, 0)
	p.Submit(e1)
	p.Submit(e2)

	p.Retain([]types.ExtrinsicKey{e1.Key()})

	if p.Len() != 1 {
		t.Fatalf("got len=%d, want 1", p.Len())
	}
	if p.PendingCount(alice) != 0 {
		t.Fatalf("alice's extrinsic should have been evicted")
	}
	if p.PendingCount(bob) != 1 {
		t.Fatalf("bob's extrinsic should remain")
	}
}

func TestPendingCountPerSigner(t *testing.T) {
	p := mempool.New(10)
	alice, bob := acctByte(1), acctByte(2)
	p.Submit(ext(alice, 0))
	p.Submit(ext(alice, 1))
	p.Submit(ext(bob, 0))

	if p.PendingCount(alice) != 2 {
		t.Fatalf("alice count = %d, want 2", p.PendingCount(alice))
	}
	if p.PendingCount(bob) != 1 {
		t.Fatalf("bob count = %d, want 1", p.PendingCount(bob))
	}
}
