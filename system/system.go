// Package system implements the System pallet: the chain's block number
// and per-account nonces, the two pieces of state every block execution
// touches. State layout follows the key-prefix scheme of spec §3
// (system:block_number, system:nonce:<account>), in the spirit of the
// teacher's staking package's get/set-over-a-store accessor pairs.
package system

import (
	"encoding/binary"
	"errors"

	"github.com/tos-network/gtos-lite/kv"
	"github.com/tos-network/gtos-lite/types"
)

// ErrNonceOverflow and ErrBlockNumberOverflow are fatal per §7: the caller
// must treat them as unrecoverable runtime errors, not per-extrinsic ones.
var (
	ErrNonceOverflow       = errors.New("system: nonce overflow")
	ErrBlockNumberOverflow = errors.New("system: block number overflow")
)

const blockNumberKey = "system:block_number"

const nonceKeyPrefix = "system:nonce:"

func nonceKey(acct types.AccountId) []byte {
	return append([]byte(nonceKeyPrefix), acct.Bytes()...)
}

// Pallet reads and mutates system state through a kv.Store.
type Pallet struct {
	store kv.Store
}

// New returns a System pallet over store.
func New(store kv.Store) *Pallet { return &Pallet{store: store} }

// BlockNumber returns the current block number, defaulting to 0.
func (p *Pallet) BlockNumber() (types.BlockNumber, error) {
	v, ok, err := p.store.Get([]byte(blockNumberKey))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return types.BlockNumber(binary.BigEndian.Uint32(v)), nil
}

func (p *Pallet) setBlockNumber(n types.BlockNumber) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(n))
	return p.store.Put([]byte(blockNumberKey), buf[:])
}

// IncBlockNumber increments the block number by one. Must be called exactly
// once per block execution, before any extrinsic dispatch (§4.3 invariant).
func (p *Pallet) IncBlockNumber() error {
	n, err := p.BlockNumber()
	if err != nil {
		return err
	}
	if n == types.BlockNumber(^uint32(0)) {
		return ErrBlockNumberOverflow
	}
	return p.setBlockNumber(n + 1)
}

// Nonce returns account's current nonce, defaulting to 0.
func (p *Pallet) Nonce(acct types.AccountId) (types.Nonce, error) {
	v, ok, err := p.store.Get(nonceKey(acct))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return types.Nonce(binary.BigEndian.Uint32(v)), nil
}

func (p *Pallet) setNonce(acct types.AccountId, n types.Nonce) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(n))
	return p.store.Put(nonceKey(acct), buf[:])
}

// IncNonce increments account's nonce by one.
func (p *Pallet) IncNonce(acct types.AccountId) error {
	n, err := p.Nonce(acct)
	if err != nil {
		return err
	}
	if n == types.Nonce(^uint32(0)) {
		return ErrNonceOverflow
	}
	return p.setNonce(acct, n+1)
}
