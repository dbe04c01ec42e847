// Command gtoslite is the node binary: it starts a chain participant, or
// drives one remotely via its RPC surface, following the five-command
// table of §6. Command registration follows the teacher's cmd/toskey
// style — one *cli.Command value per subcommand, flags declared as
// package-level vars, Action closures calling into library packages.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var app *cli.App

func init() {
	app = cli.NewApp()
	app.Name = "gtoslite"
	app.Usage = "a minimal multi-node blockchain node"
	app.Commands = []*cli.Command{
		startCommand,
		submitTransferCommand,
		submitClaimCommand,
		stateCommand,
		resetCommand,
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// fatalf prints msg and exits 1, matching the teacher's utils.Fatalf used
// throughout its cmd/ subcommands for unrecoverable CLI-input errors.
func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Fatal: "+format+"\n", args...)
	os.Exit(1)
}
