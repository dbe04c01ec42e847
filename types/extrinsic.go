package types

import (
	"github.com/tos-network/gtos-lite/codec"
	"github.com/tos-network/gtos-lite/crypto"
	"github.com/tos-network/gtos-lite/crypto/ed25519"
)

// SignedPayload returns the exact byte sequence that is signed and verified
// for (signer, nonce, call): encode(signer ‖ nonce ‖ encoded_call).
func SignedPayload(signer AccountId, nonce Nonce, call RuntimeCall) []byte {
	e := codec.NewEncoder()
	signer.EncodeCodec(e)
	nonce.EncodeCodec(e)
	call.EncodeCodec(e)
	return e.Bytes()
}

// UncheckedExtrinsic is a signed instruction whose signature has not yet
// been verified.
type UncheckedExtrinsic struct {
	Signer    AccountId
	Signature Signature
	Nonce     Nonce
	Call      RuntimeCall
}

// Sign builds a signed UncheckedExtrinsic from a secret key, nonce, and call.
func Sign(secret ed25519.PrivateKey, nonce Nonce, call RuntimeCall) UncheckedExtrinsic {
	var signer AccountId
	copy(signer[:], ed25519.PublicFromPrivate(secret))
	payload := SignedPayload(signer, nonce, call)
	sig := crypto.Sign(secret, payload)
	return UncheckedExtrinsic{Signer: signer, Signature: sig, Nonce: nonce, Call: call}
}

// Check verifies ext's signature against its signed payload and returns the
// signer identity on success.
func (ext UncheckedExtrinsic) Check() (AccountId, error) {
	payload := SignedPayload(ext.Signer, ext.Nonce, ext.Call)
	if err := crypto.Verify(ext.Signer, payload, ext.Signature); err != nil {
		return AccountId{}, err
	}
	return ext.Signer, nil
}

// Key returns the (signer, nonce) pair used as the mempool dedup/eviction key.
func (ext UncheckedExtrinsic) Key() ExtrinsicKey {
	return ExtrinsicKey{Signer: ext.Signer, Nonce: ext.Nonce}
}

// ExtrinsicKey identifies an extrinsic by signer and nonce, independent of
// its call payload — used by the mempool index and by retain() after a
// remotely produced block is executed.
type ExtrinsicKey struct {
	Signer AccountId
	Nonce  Nonce
}

func (ext UncheckedExtrinsic) EncodeCodec(e *codec.Encoder) {
	ext.Signer.EncodeCodec(e)
	ext.Signature.EncodeCodec(e)
	ext.Nonce.EncodeCodec(e)
	ext.Call.EncodeCodec(e)
}

func (ext *UncheckedExtrinsic) DecodeCodec(d *codec.Decoder) error {
	if err := ext.Signer.DecodeCodec(d); err != nil {
		return err
	}
	if err := ext.Signature.DecodeCodec(d); err != nil {
		return err
	}
	if err := ext.Nonce.DecodeCodec(d); err != nil {
		return err
	}
	return ext.Call.DecodeCodec(d)
}
