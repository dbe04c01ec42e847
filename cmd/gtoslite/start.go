package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/tos-network/gtos-lite/gossip"
	"github.com/tos-network/gtos-lite/kv"
	"github.com/tos-network/gtos-lite/log"
	"github.com/tos-network/gtos-lite/node"
	"github.com/tos-network/gtos-lite/rpcserver"
	"github.com/tos-network/gtos-lite/slotauthor"
)

var (
	portFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "gossip bind port",
		Value: 7946,
	}
	peerFlag = &cli.StringSliceFlag{
		Name:  "peer",
		Usage: "address of an existing peer to join (may be repeated)",
	}
	rpcPortFlag = &cli.IntFlag{
		Name:  "rpc-port",
		Usage: "RPC server listen port",
		Value: 8545,
	}
	dbPathFlag = &cli.StringFlag{
		Name:  "db-path",
		Usage: "path to the node's on-disk database",
		Value: "gtoslite-db",
	}
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "optional YAML file supplying defaults for port/peer/rpc-port/db-path",
	}
)

var startCommand = &cli.Command{
	Name:      "start",
	Usage:     "run a node",
	ArgsUsage: " ",
	Flags:     []cli.Flag{portFlag, peerFlag, rpcPortFlag, dbPathFlag, configFlag},
	Action:    runStart,
}

func runStart(ctx *cli.Context) error {
	fileCfg, err := loadFileConfig(ctx.String(configFlag.Name))
	if err != nil {
		fatalf("failed to read config file: %v", err)
	}

	port := fileCfg.Port
	if port == 0 || ctx.IsSet(portFlag.Name) {
		port = ctx.Int(portFlag.Name)
	}
	rpcPort := fileCfg.RPCPort
	if rpcPort == 0 || ctx.IsSet(rpcPortFlag.Name) {
		rpcPort = ctx.Int(rpcPortFlag.Name)
	}
	dbPath := fileCfg.DBPath
	if dbPath == "" || ctx.IsSet(dbPathFlag.Name) {
		dbPath = ctx.String(dbPathFlag.Name)
	}
	peers := fileCfg.Peers
	if ctx.IsSet(peerFlag.Name) {
		peers = ctx.StringSlice(peerFlag.Name)
	}

	store, err := kv.OpenLevelDB(dbPath)
	if err != nil {
		fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	self, _, err := node.LoadOrGenerateIdentity(store)
	if err != nil {
		fatalf("failed to load node identity: %v", err)
	}
	log.Info("node identity", "account", self.String())

	bus, err := gossip.NewMemberlistBus(gossip.MemberlistConfig{
		Self:          self,
		BindAddr:      "0.0.0.0",
		BindPort:      port,
		AdvertiseAddr: "0.0.0.0",
		AdvertisePort: port,
		Join:          peers,
	})
	if err != nil {
		fatalf("failed to start gossip bus: %v", err)
	}
	defer bus.Close()

	n := node.New(self, store, bus, slotauthor.NewTicker())
	if err := n.EnsureGenesis(); err != nil {
		fatalf("genesis failed: %v", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	go n.Run(runCtx)

	srv := rpcserver.New(n)
	addr := ":" + strconv.Itoa(rpcPort)
	go func() {
		if err := srv.ListenAndServe(addr); err != nil {
			log.Error("rpc server exited", "err", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	cancel()
	n.Stop()
	return nil
}
