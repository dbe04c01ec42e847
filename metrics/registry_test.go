package metrics_test

import (
	"testing"

	"github.com/tos-network/gtos-lite/metrics"
)

func TestRegistryCounters(t *testing.T) {
	r := metrics.NewRegistry("balances", "claims", "unknown")
	r.IncBlocksProduced()
	r.IncBlocksProduced()
	r.IncExtrinsicsApplied()
	r.IncDispatchFailure("balances")
	r.IncDispatchFailure("nonexistent-pallet")

	snap := r.Snapshot()
	if snap.BlocksProduced != 2 {
		t.Fatalf("got %d, want 2", snap.BlocksProduced)
	}
	if snap.ExtrinsicsApplied != 1 {
		t.Fatalf("got %d, want 1", snap.ExtrinsicsApplied)
	}
	if snap.DispatchFailures["balances"] != 1 {
		t.Fatalf("got %d, want 1", snap.DispatchFailures["balances"])
	}
	if snap.DispatchFailures["unknown"] != 1 {
		t.Fatalf("unrecognized pallet failure should land under unknown, got %d", snap.DispatchFailures["unknown"])
	}
}
