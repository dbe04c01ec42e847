package node

import (
	"github.com/tos-network/gtos-lite/claims"
	"github.com/tos-network/gtos-lite/crypto"
	"github.com/tos-network/gtos-lite/metrics"
	"github.com/tos-network/gtos-lite/runtime"
	"github.com/tos-network/gtos-lite/types"
)

// AccountSummary is one dev account's current on-chain state, as reported
// by GET /state.
type AccountSummary struct {
	Name    string
	Account types.AccountId
	Balance types.Balance
	Nonce   types.Nonce
}

// Snapshot is the human-readable state dump GET /state returns (§4.14).
type Snapshot struct {
	BlockNumber types.BlockNumber
	Accounts    []AccountSummary
	Claims      []claims.Record
	Metrics     metrics.Snapshot
}

func (n *Node) snapshot() Snapshot {
	snap := Snapshot{}

	blockNumber, err := n.rt.System.BlockNumber()
	if err != nil {
		n.log.Error("failed to read block number for snapshot", "err", err)
	}
	snap.BlockNumber = blockNumber

	accounts, err := DevAccountSummaries(n.rt)
	if err != nil {
		n.log.Error("failed to read dev account summaries for snapshot", "err", err)
	}
	snap.Accounts = accounts

	records, err := n.rt.Claims.All()
	if err != nil {
		n.log.Error("failed to read claims for snapshot", "err", err)
	}
	snap.Claims = records

	snap.Metrics = n.metrics.Snapshot()
	return snap
}

// DevAccountSummaries reads the balance and nonce of each of the three dev
// accounts from rt, shared by the node-loop snapshot and the CLI's `state`
// command so both render the same view of chain state.
func DevAccountSummaries(rt *runtime.Runtime) ([]AccountSummary, error) {
	keyring := crypto.DevKeyring()
	names := []string{"alice", "bob", "charlie"}
	out := make([]AccountSummary, 0, len(names))
	for _, name := range names {
		acct := types.AccountId(keyring[name].AccountID)
		bal, err := rt.Balances.Balance(acct)
		if err != nil {
			return out, err
		}
		nonce, err := rt.System.Nonce(acct)
		if err != nil {
			return out, err
		}
		out = append(out, AccountSummary{Name: name, Account: acct, Balance: bal, Nonce: nonce})
	}
	return out, nil
}
