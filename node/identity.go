package node

import (
	crand "crypto/rand"

	"github.com/tos-network/gtos-lite/crypto/ed25519"
	"github.com/tos-network/gtos-lite/kv"
	"github.com/tos-network/gtos-lite/types"
)

const identityKey = "node:identity"

// LoadOrGenerateIdentity returns the node's persistent authorship identity,
// generating and storing one on first start. The identity is independent
// of the dev keyring used for account balances — any node may author
// blocks regardless of which dev accounts it holds keys for — mirroring
// the teacher's separate --nodekey identity used for p2p peering.
func LoadOrGenerateIdentity(store kv.Store) (types.AccountId, ed25519.PrivateKey, error) {
	seed, ok, err := store.Get([]byte(identityKey))
	if err != nil {
		return types.AccountId{}, nil, err
	}
	if ok && len(seed) == ed25519.SeedSize {
		secret := ed25519.NewKeyFromSeed(seed)
		acct, _ := types.AccountIdFromBytes(ed25519.PublicFromPrivate(secret))
		return acct, secret, nil
	}

	_, secret, err := ed25519.GenerateKey(crand.Reader)
	if err != nil {
		return types.AccountId{}, nil, err
	}
	if err := store.Put([]byte(identityKey), secret.Seed()); err != nil {
		return types.AccountId{}, nil, err
	}
	acct, _ := types.AccountIdFromBytes(ed25519.PublicFromPrivate(secret))
	return acct, secret, nil
}
