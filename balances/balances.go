// Package balances implements the Balances pallet: a per-account token
// balance with checked (overflow/underflow-free) transfers, grounded in the
// teacher's staking package's checked-arithmetic self-stake bookkeeping.
package balances

import (
	"errors"

	"github.com/tos-network/gtos-lite/codec"
	"github.com/tos-network/gtos-lite/kv"
	"github.com/tos-network/gtos-lite/types"
)

// ErrInsufficientFunds and ErrBalanceOverflow are per-dispatch failures
// (§7): they fail the transfer but never abort the enclosing block and
// never roll back the signer's nonce increment.
var (
	ErrInsufficientFunds = errors.New("balances: insufficient funds")
	ErrBalanceOverflow   = errors.New("balances: balance overflow")
)

const balanceKeyPrefix = "balances:balance:"

func balanceKey(acct types.AccountId) []byte {
	return append([]byte(balanceKeyPrefix), acct.Bytes()...)
}

// Pallet reads and mutates balance state through a kv.Store.
type Pallet struct {
	store kv.Store
}

// New returns a Balances pallet over store.
func New(store kv.Store) *Pallet { return &Pallet{store: store} }

// Balance returns account's balance, defaulting to 0.
func (p *Pallet) Balance(acct types.AccountId) (types.Balance, error) {
	v, ok, err := p.store.Get(balanceKey(acct))
	if err != nil {
		return types.Balance{}, err
	}
	if !ok {
		return types.Balance{}, nil
	}
	var b types.Balance
	if err := codec.Decode(v, &b); err != nil {
		return types.Balance{}, err
	}
	return b, nil
}

// SetBalance unconditionally writes account's balance. Used only at
// genesis, never during dispatch.
func (p *Pallet) SetBalance(acct types.AccountId, amount types.Balance) error {
	return p.store.Put(balanceKey(acct), codec.Encode(amount))
}

// Transfer moves amount from caller to to. Both sides are updated only on
// success; on either failure neither side is mutated.
func (p *Pallet) Transfer(caller, to types.AccountId, amount types.Balance) error {
	fromBal, err := p.Balance(caller)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	toBal, err := p.Balance(to)
	if err != nil {
		return err
	}
	newTo, overflow := toBal.Add(amount)
	if overflow {
		return ErrBalanceOverflow
	}
	newFrom, underflow := fromBal.Sub(amount)
	if underflow {
		// Unreachable given the Cmp check above, but kept for safety.
		return ErrInsufficientFunds
	}
	if caller == to {
		// caller and to read the same starting balance above; writing
		// newFrom then newTo to the same key would leave the account at
		// balance+amount instead of unchanged. The funds/overflow checks
		// still ran, so a self-transfer past those checks is just a no-op.
		return nil
	}
	if err := p.SetBalance(caller, newFrom); err != nil {
		return err
	}
	return p.SetBalance(to, newTo)
}
