// Package crypto implements the single fixed signature scheme used by
// gtos-lite (Ed25519), its parallel batch-verification entry point, and the
// deterministic dev keyring. It is a thin policy layer over the teacher's
// own crypto/ed25519 wrapper around the standard library's crypto/ed25519.
package crypto

import (
	"crypto/sha256"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/tos-network/gtos-lite/crypto/ed25519"
)

const (
	// PublicKeySize is the size in bytes of an AccountId / public key.
	PublicKeySize = ed25519.PublicKeySize
	// SignatureSize is the size in bytes of a signature.
	SignatureSize = ed25519.SignatureSize
	// SeedSize is the size in bytes of the seed a private key is derived from.
	SeedSize = ed25519.SeedSize
)

// ErrInvalidSignature is returned by Verify/VerifyBatch for a failed check.
var ErrInvalidSignature = errors.New("crypto: invalid signature")

// Sign signs message with secret and returns a fixed-size signature.
func Sign(secret ed25519.PrivateKey, message []byte) [SignatureSize]byte {
	var out [SignatureSize]byte
	copy(out[:], ed25519.Sign(secret, message))
	return out
}

// Verify checks a single (pubkey, message, sig) triple.
func Verify(pubkey [PublicKeySize]byte, message []byte, sig [SignatureSize]byte) error {
	if !ed25519.Verify(ed25519.PublicKey(pubkey[:]), message, sig[:]) {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyItem is one entry of a batch-verification request.
type VerifyItem struct {
	PubKey  [PublicKeySize]byte
	Message []byte
	Sig     [SignatureSize]byte
}

// VerifyBatch verifies every item in items concurrently and returns one
// result per item, in input order. Workers never fail as a group: each
// one writes its own outcome into results and returns nil, so positional
// correspondence always holds and one invalid signature never affects
// another item's result.
func VerifyBatch(items []VerifyItem) []error {
	results := make([]error, len(items))
	if len(items) == 0 {
		return results
	}
	var g errgroup.Group
	for i := range items {
		i := i
		g.Go(func() error {
			results[i] = Verify(items[i].PubKey, items[i].Message, items[i].Sig)
			return nil
		})
	}
	_ = g.Wait() // workers never return a fatal error; results[i] carries the outcome
	return results
}

// devAccountDomain is the fixed domain-separation prefix used to derive the
// well-known dev identities, per the public derivation contract in §6.
const devAccountDomain = "gtos-lite-dev-account:"

// DeriveDevSeed deterministically derives a 32-byte seed for a dev account
// name. Clients, RPC, and the node must all compute this identically.
func DeriveDevSeed(name string) [SeedSize]byte {
	return sha256.Sum256([]byte(devAccountDomain + name))
}

// DevKeyPair is a derived dev identity: its AccountId and its private key.
type DevKeyPair struct {
	AccountID [PublicKeySize]byte
	Secret    ed25519.PrivateKey
}

// DevKeyring derives the three well-known identities used in genesis,
// tests, and the CLI: "alice", "bob", "charlie".
func DevKeyring() map[string]DevKeyPair {
	names := []string{"alice", "bob", "charlie"}
	out := make(map[string]DevKeyPair, len(names))
	for _, name := range names {
		seed := DeriveDevSeed(name)
		secret := ed25519.NewKeyFromSeed(seed[:])
		var acct [PublicKeySize]byte
		copy(acct[:], ed25519.PublicFromPrivate(secret))
		out[name] = DevKeyPair{AccountID: acct, Secret: secret}
	}
	return out
}
