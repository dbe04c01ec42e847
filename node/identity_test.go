package node_test

import (
	"testing"

	"github.com/tos-network/gtos-lite/kv"
	"github.com/tos-network/gtos-lite/node"
)

func TestLoadOrGenerateIdentityPersistsAcrossCalls(t *testing.T) {
	store := kv.NewMemory()

	acct1, secret1, err := node.LoadOrGenerateIdentity(store)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	acct2, secret2, err := node.LoadOrGenerateIdentity(store)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}

	if acct1 != acct2 {
		t.Fatalf("identity changed across calls: %s vs %s", acct1.String(), acct2.String())
	}
	if string(secret1) != string(secret2) {
		t.Fatalf("secret key changed across calls")
	}
}

func TestLoadOrGenerateIdentityDiffersAcrossStores(t *testing.T) {
	acct1, _, err := node.LoadOrGenerateIdentity(kv.NewMemory())
	if err != nil {
		t.Fatalf("store 1: %v", err)
	}
	acct2, _, err := node.LoadOrGenerateIdentity(kv.NewMemory())
	if err != nil {
		t.Fatalf("store 2: %v", err)
	}
	if acct1 == acct2 {
		t.Fatalf("two fresh stores produced the same identity")
	}
}
