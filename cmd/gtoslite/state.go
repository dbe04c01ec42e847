package main

import (
	"encoding/json"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tos-network/gtos-lite/kv"
	"github.com/tos-network/gtos-lite/node"
	"github.com/tos-network/gtos-lite/runtime"
)

var stateCommand = &cli.Command{
	Name:      "state",
	Usage:     "print a snapshot of the on-disk chain state",
	ArgsUsage: " ",
	Flags:     []cli.Flag{dbPathFlag},
	Action:    runState,
}

func runState(ctx *cli.Context) error {
	store, err := kv.OpenLevelDB(ctx.String(dbPathFlag.Name))
	if err != nil {
		fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	rt := runtime.New(store)
	blockNumber, err := rt.System.BlockNumber()
	if err != nil {
		fatalf("failed to read block number: %v", err)
	}

	accounts, err := node.DevAccountSummaries(rt)
	if err != nil {
		fatalf("failed to read account summaries: %v", err)
	}

	records, err := rt.Claims.All()
	if err != nil {
		fatalf("failed to read claims: %v", err)
	}

	out := node.Snapshot{BlockNumber: blockNumber, Accounts: accounts, Claims: records}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatalf("failed to render state: %v", err)
	}
	return nil
}
