// Package claims implements the Claims pallet: a first-claimant registry
// mapping opaque content strings to the AccountId that first claimed them.
package claims

import (
	"errors"

	"github.com/tos-network/gtos-lite/codec"
	"github.com/tos-network/gtos-lite/kv"
	"github.com/tos-network/gtos-lite/types"
)

// ErrAlreadyClaimed, ErrNotClaimed, and ErrNotOwner are per-dispatch
// failures (§7): the dispatch fails but the signer's nonce still advances.
var (
	ErrAlreadyClaimed = errors.New("claims: already claimed")
	ErrNotClaimed     = errors.New("claims: not claimed")
	ErrNotOwner       = errors.New("claims: not owner")
)

const claimKeyPrefix = "poe:claim:"

// claimKey embeds content raw, per the pinned poe:claim:<content-bytes> key
// layout; the stored value is the codec-encoded owner AccountId.
func claimKey(content string) []byte {
	return append([]byte(claimKeyPrefix), content...)
}

// Pallet reads and mutates claim state through a kv.Store.
type Pallet struct {
	store kv.Store
}

// New returns a Claims pallet over store.
func New(store kv.Store) *Pallet { return &Pallet{store: store} }

// Owner returns the current owner of content, if any.
func (p *Pallet) Owner(content string) (types.AccountId, bool, error) {
	v, ok, err := p.store.Get(claimKey(content))
	if err != nil || !ok {
		return types.AccountId{}, false, err
	}
	var owner types.AccountId
	if err := codec.Decode(v, &owner); err != nil {
		return types.AccountId{}, false, errors.New("claims: corrupt claim record")
	}
	return owner, true, nil
}

// CreateClaim registers caller as the owner of content. Fails if content is
// already claimed by anyone.
func (p *Pallet) CreateClaim(caller types.AccountId, content string) error {
	_, exists, err := p.Owner(content)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyClaimed
	}
	return p.store.Put(claimKey(content), codec.Encode(caller))
}

// Record is one (content, owner) claim pair, as returned by All.
type Record struct {
	Content string
	Owner   types.AccountId
}

// All returns every current claim, in key order, for the human-readable
// state snapshot exposed over RPC (§4.14).
func (p *Pallet) All() ([]Record, error) {
	kvs, err := p.store.ScanPrefix([]byte(claimKeyPrefix))
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(kvs))
	for _, e := range kvs {
		var owner types.AccountId
		if err := codec.Decode(e.Value, &owner); err != nil {
			return nil, errors.New("claims: corrupt claim record")
		}
		content := string(e.Key[len(claimKeyPrefix):])
		out = append(out, Record{Content: content, Owner: owner})
	}
	return out, nil
}

// RevokeClaim removes content's claim. Fails if unclaimed, or if caller is
// not the current owner.
func (p *Pallet) RevokeClaim(caller types.AccountId, content string) error {
	owner, exists, err := p.Owner(content)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotClaimed
	}
	if owner != caller {
		return ErrNotOwner
	}
	return p.store.Delete(claimKey(content))
}
