// Package types defines the core wire types of gtos-lite: account
// identity, the runtime Call union, signed payloads, unchecked extrinsics,
// and blocks. Each type implements codec.Marshaler/Unmarshaler for the
// single canonical encoding (see package codec).
package types

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"math/big"

	"github.com/tos-network/gtos-lite/codec"
	"github.com/tos-network/gtos-lite/crypto"
)

// AccountIdSize is the size in bytes of an AccountId (an Ed25519 public key).
const AccountIdSize = crypto.PublicKeySize

// AccountId is the 32-byte public key identity used throughout gtos-lite.
type AccountId [AccountIdSize]byte

// Bytes returns the raw 32 bytes, suitable for use inside KV store keys.
func (a AccountId) Bytes() []byte { return a[:] }

// Less reports byte-lexicographic ordering, the ordering used for sorting
// peer sets for deterministic authorship (§4.10) and mempool signer groups.
func (a AccountId) Less(other AccountId) bool {
	return bytes.Compare(a[:], other[:]) < 0
}

// String renders the hex encoding of the account id (also used as the
// gossip-layer peer/node name, so peer identity and authorship identity
// coincide).
func (a AccountId) String() string { return hex.EncodeToString(a[:]) }

// AccountIdFromBytes copies b into a fixed-size AccountId.
func AccountIdFromBytes(b []byte) (AccountId, bool) {
	var a AccountId
	if len(b) != AccountIdSize {
		return a, false
	}
	copy(a[:], b)
	return a, true
}

// MarshalJSON renders the account as its hex string, matching String().
func (a AccountId) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a AccountId) EncodeCodec(e *codec.Encoder) { e.PutRaw(a[:]) }

func (a *AccountId) DecodeCodec(d *codec.Decoder) error {
	b, err := d.GetRaw(AccountIdSize)
	if err != nil {
		return err
	}
	copy(a[:], b)
	return nil
}

// Signature is a 64-byte Ed25519 signature.
type Signature [crypto.SignatureSize]byte

func (s Signature) EncodeCodec(e *codec.Encoder) { e.PutRaw(s[:]) }

func (s *Signature) DecodeCodec(d *codec.Decoder) error {
	b, err := d.GetRaw(crypto.SignatureSize)
	if err != nil {
		return err
	}
	copy(s[:], b)
	return nil
}

// Nonce is the per-account monotonic replay counter.
type Nonce uint32

func (n Nonce) EncodeCodec(e *codec.Encoder) { e.PutUint32(uint32(n)) }

func (n *Nonce) DecodeCodec(d *codec.Decoder) error {
	v, err := d.GetUint32()
	if err != nil {
		return err
	}
	*n = Nonce(v)
	return nil
}

// BlockNumber identifies a block; genesis is 0.
type BlockNumber uint32

func (b BlockNumber) EncodeCodec(e *codec.Encoder) { e.PutUint32(uint32(b)) }

func (b *BlockNumber) DecodeCodec(d *codec.Decoder) error {
	v, err := d.GetUint32()
	if err != nil {
		return err
	}
	*b = BlockNumber(v)
	return nil
}

// Balance is an unsigned 128-bit token amount, stored as two big-endian
// uint64 halves (hi, lo) since Go has no native uint128.
type Balance struct {
	Hi, Lo uint64
}

// NewBalance builds a Balance from a uint64 amount (the common case).
func NewBalance(v uint64) Balance { return Balance{Lo: v} }

// Add returns a+b and whether the addition overflowed 128 bits.
func (a Balance) Add(b Balance) (Balance, bool) {
	lo := a.Lo + b.Lo
	carry := uint64(0)
	if lo < a.Lo {
		carry = 1
	}
	hiSum := a.Hi + b.Hi
	overflow := hiSum < a.Hi || (carry == 1 && hiSum == ^uint64(0))
	hi := hiSum + carry
	return Balance{Hi: hi, Lo: lo}, overflow
}

// Sub returns a-b and whether the subtraction underflowed (b > a).
func (a Balance) Sub(b Balance) (Balance, bool) {
	if a.Cmp(b) < 0 {
		return Balance{}, true
	}
	lo := a.Lo - b.Lo
	borrow := uint64(0)
	if a.Lo < b.Lo {
		borrow = 1
	}
	hi := a.Hi - b.Hi - borrow
	return Balance{Hi: hi, Lo: lo}, false
}

// Cmp compares a to b: -1, 0, or 1.
func (a Balance) Cmp(b Balance) int {
	if a.Hi != b.Hi {
		if a.Hi < b.Hi {
			return -1
		}
		return 1
	}
	if a.Lo != b.Lo {
		if a.Lo < b.Lo {
			return -1
		}
		return 1
	}
	return 0
}

// MarshalJSON renders the balance as its decimal string, since a 128-bit
// amount does not fit a JSON number without precision loss.
func (a Balance) MarshalJSON() ([]byte, error) {
	hi := new(big.Int).Lsh(new(big.Int).SetUint64(a.Hi), 64)
	v := hi.Or(hi, new(big.Int).SetUint64(a.Lo))
	return json.Marshal(v.String())
}

func (a Balance) EncodeCodec(e *codec.Encoder) { e.PutUint128(a.Hi, a.Lo) }

func (a *Balance) DecodeCodec(d *codec.Decoder) error {
	hi, lo, err := d.GetUint128()
	if err != nil {
		return err
	}
	a.Hi, a.Lo = hi, lo
	return nil
}
