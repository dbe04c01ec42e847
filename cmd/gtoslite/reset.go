package main

import (
	"os"

	"github.com/urfave/cli/v2"
)

var resetCommand = &cli.Command{
	Name:      "reset",
	Usage:     "delete the on-disk database directory",
	ArgsUsage: " ",
	Flags:     []cli.Flag{dbPathFlag},
	Action:    runReset,
}

func runReset(ctx *cli.Context) error {
	path := ctx.String(dbPathFlag.Name)
	if err := os.RemoveAll(path); err != nil {
		fatalf("failed to remove database at %s: %v", path, err)
	}
	return nil
}
