package types

import (
	"github.com/tos-network/gtos-lite/codec"
)

// Call discriminants. One byte identifies which pallet's variant follows,
// mirroring the leading discriminant byte gtos's own sysaction.ActionKind
// envelope uses to tag its payload, but resolved at encode time instead of
// carried as a string tag.
const (
	callBalancesTransfer    byte = 0x01
	callClaimsCreateClaim   byte = 0x10
	callClaimsRevokeClaim   byte = 0x11
)

// TransferCall is the Balances pallet's only user-facing call.
type TransferCall struct {
	To     AccountId
	Amount Balance
}

// CreateClaimCall is the Claims pallet's call to register a new claim.
type CreateClaimCall struct {
	Content string
}

// RevokeClaimCall is the Claims pallet's call to release an owned claim.
type RevokeClaimCall struct {
	Content string
}

// RuntimeCall is the top-level tagged union of every dispatchable call in
// the runtime. Exactly one of the pointer fields is non-nil.
type RuntimeCall struct {
	Transfer    *TransferCall
	CreateClaim *CreateClaimCall
	RevokeClaim *RevokeClaimCall
}

func (c RuntimeCall) EncodeCodec(e *codec.Encoder) {
	switch {
	case c.Transfer != nil:
		e.PutByte(callBalancesTransfer)
		c.Transfer.To.EncodeCodec(e)
		c.Transfer.Amount.EncodeCodec(e)
	case c.CreateClaim != nil:
		e.PutByte(callClaimsCreateClaim)
		e.PutString(c.CreateClaim.Content)
	case c.RevokeClaim != nil:
		e.PutByte(callClaimsRevokeClaim)
		e.PutString(c.RevokeClaim.Content)
	default:
		panic("codec: empty RuntimeCall")
	}
}

func (c *RuntimeCall) DecodeCodec(d *codec.Decoder) error {
	tag, err := d.GetByte()
	if err != nil {
		return err
	}
	switch tag {
	case callBalancesTransfer:
		var to AccountId
		if err := to.DecodeCodec(d); err != nil {
			return err
		}
		var amount Balance
		if err := amount.DecodeCodec(d); err != nil {
			return err
		}
		c.Transfer = &TransferCall{To: to, Amount: amount}
	case callClaimsCreateClaim:
		content, err := d.GetString()
		if err != nil {
			return err
		}
		c.CreateClaim = &CreateClaimCall{Content: content}
	case callClaimsRevokeClaim:
		content, err := d.GetString()
		if err != nil {
			return err
		}
		c.RevokeClaim = &RevokeClaimCall{Content: content}
	default:
		return codec.ErrBadDiscriminant
	}
	return nil
}

// Pallet names the pallet a RuntimeCall routes to, for dispatch and for
// human-readable logging.
func (c RuntimeCall) Pallet() string {
	switch {
	case c.Transfer != nil:
		return "balances"
	case c.CreateClaim != nil, c.RevokeClaim != nil:
		return "claims"
	default:
		return "unknown"
	}
}
