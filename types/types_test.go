package types_test

import (
	"testing"

	"github.com/tos-network/gtos-lite/codec"
	"github.com/tos-network/gtos-lite/crypto"
	"github.com/tos-network/gtos-lite/types"
)

func TestAccountIdRoundTrip(t *testing.T) {
	var a types.AccountId
	for i := range a {
		a[i] = byte(i)
	}
	var got types.AccountId
	if err := codec.Decode(codec.Encode(a), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != a {
		t.Fatalf("got %s, want %s", got.String(), a.String())
	}
}

func TestAccountIdLess(t *testing.T) {
	var a, b types.AccountId
	a[0], b[0] = 1, 2
	if !a.Less(b) {
		t.Fatalf("expected a < b")
	}
	if b.Less(a) != false {
		t.Fatalf("expected b not< a")
	}
}

func TestBalanceAddOverflow(t *testing.T) {
	max := types.Balance{Hi: ^uint64(0), Lo: ^uint64(0)}
	_, overflow := max.Add(types.NewBalance(1))
	if !overflow {
		t.Fatalf("expected overflow")
	}
	sum, overflow := types.NewBalance(1).Add(types.NewBalance(2))
	if overflow || sum.Cmp(types.NewBalance(3)) != 0 {
		t.Fatalf("got %+v, overflow=%v, want 3, false", sum, overflow)
	}
}

func TestBalanceSubUnderflow(t *testing.T) {
	_, underflow := types.NewBalance(1).Sub(types.NewBalance(2))
	if !underflow {
		t.Fatalf("expected underflow")
	}
	diff, underflow := types.NewBalance(5).Sub(types.NewBalance(2))
	if underflow || diff.Cmp(types.NewBalance(3)) != 0 {
		t.Fatalf("got %+v, underflow=%v, want 3, false", diff, underflow)
	}
}

func TestRuntimeCallRoundTrip(t *testing.T) {
	cases := []types.RuntimeCall{
		{Transfer: &types.TransferCall{To: types.AccountId{1}, Amount: types.NewBalance(500)}},
		{CreateClaim: &types.CreateClaimCall{Content: "hello world"}},
		{RevokeClaim: &types.RevokeClaimCall{Content: "hello world"}},
	}
	for _, want := range cases {
		var got types.RuntimeCall
		if err := codec.Decode(codec.Encode(want), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Pallet() != want.Pallet() {
			t.Fatalf("pallet mismatch: got %s, want %s", got.Pallet(), want.Pallet())
		}
	}
}

func TestRuntimeCallBadDiscriminant(t *testing.T) {
	var c types.RuntimeCall
	if err := codec.Decode([]byte{0xff}, &c); err != codec.ErrBadDiscriminant {
		t.Fatalf("got %v, want ErrBadDiscriminant", err)
	}
}

func TestBlockRoundTrip(t *testing.T) {
	alice := crypto.DevKeyring()["alice"]
	ext := types.Sign(alice.Secret, 0, types.RuntimeCall{Transfer: &types.TransferCall{To: types.AccountId{2}, Amount: types.NewBalance(1)}})
	want := types.Block{Header: types.Header{BlockNumber: 3}, Extrinsics: []types.UncheckedExtrinsic{ext}}

	var got types.Block
	if err := codec.Decode(codec.Encode(want), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Header.BlockNumber != want.Header.BlockNumber {
		t.Fatalf("block number mismatch")
	}
	if len(got.Extrinsics) != 1 || got.Extrinsics[0].Signer != ext.Signer {
		t.Fatalf("extrinsics mismatch: %+v", got.Extrinsics)
	}
}

func TestSignedPayloadSignatureBinding(t *testing.T) {
	alice := crypto.DevKeyring()["alice"]
	call := types.RuntimeCall{Transfer: &types.TransferCall{To: types.AccountId{9}, Amount: types.NewBalance(100)}}
	ext := types.Sign(alice.Secret, 5, call)

	if _, err := ext.Check(); err != nil {
		t.Fatalf("valid extrinsic failed check: %v", err)
	}

	tampered := ext
	tampered.Nonce++
	if _, err := tampered.Check(); err == nil {
		t.Fatalf("expected check to fail after tampering with nonce")
	}

	tampered = ext
	tampered.Call.Transfer = &types.TransferCall{To: ext.Call.Transfer.To, Amount: types.NewBalance(999)}
	if _, err := tampered.Check(); err == nil {
		t.Fatalf("expected check to fail after tampering with call amount")
	}

	tampered = ext
	tampered.Signature[0] ^= 0xff
	if _, err := tampered.Check(); err == nil {
		t.Fatalf("expected check to fail after tampering with signature")
	}

	tampered = ext
	tampered.Signer = types.AccountId{255}
	if _, err := tampered.Check(); err == nil {
		t.Fatalf("expected check to fail after tampering with signer")
	}
}

func TestExtrinsicKeyIdentifiesSignerAndNonce(t *testing.T) {
	alice := crypto.DevKeyring()["alice"]
	call := types.RuntimeCall{CreateClaim: &types.CreateClaimCall{Content: "x"}}
	e1 := types.Sign(alice.Secret, 0, call)
	e2 := types.Sign(alice.Secret, 1, call)

	if e1.Key() == e2.Key() {
		t.Fatalf("different nonces should produce different keys")
	}
	if e1.Key().Signer != e1.Signer || e1.Key().Nonce != e1.Nonce {
		t.Fatalf("key does not reflect extrinsic: %+v", e1.Key())
	}
}
