package main

import (
	"encoding/hex"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/tos-network/gtos-lite/crypto"
	"github.com/tos-network/gtos-lite/crypto/ed25519"
	"github.com/tos-network/gtos-lite/rpcserver"
	"github.com/tos-network/gtos-lite/types"
)

var nodeURLFlag = &cli.StringFlag{
	Name:  "node",
	Usage: "RPC URL of the node to submit through",
	Value: "http://127.0.0.1:8545",
}

var submitTransferCommand = &cli.Command{
	Name:      "submit-transfer",
	Usage:     "sign and submit a balance transfer",
	ArgsUsage: "<from> <to> <amount>",
	Flags:     []cli.Flag{nodeURLFlag},
	Action:    runSubmitTransfer,
}

var submitClaimCommand = &cli.Command{
	Name:      "submit-claim",
	Usage:     "sign and submit a claim creation",
	ArgsUsage: "<who> <content>",
	Flags:     []cli.Flag{nodeURLFlag},
	Action:    runSubmitClaim,
}

func runSubmitTransfer(ctx *cli.Context) error {
	if ctx.Args().Len() != 3 {
		fatalf("usage: submit-transfer <from> <to> <amount>")
	}
	fromName, toName, amountStr := ctx.Args().Get(0), ctx.Args().Get(1), ctx.Args().Get(2)

	secret, ok := devSecret(fromName)
	if !ok {
		fatalf("unknown dev account %q (use alice, bob, or charlie)", fromName)
	}
	to, ok := resolveAccount(toName)
	if !ok {
		fatalf("unknown recipient %q", toName)
	}
	amount, err := strconv.ParseUint(amountStr, 10, 64)
	if err != nil {
		fatalf("invalid amount %q: %v", amountStr, err)
	}

	call := types.RuntimeCall{Transfer: &types.TransferCall{To: to, Amount: types.NewBalance(amount)}}
	return signAndSubmit(ctx, secret, call)
}

func runSubmitClaim(ctx *cli.Context) error {
	if ctx.Args().Len() != 2 {
		fatalf("usage: submit-claim <who> <content>")
	}
	whoName, content := ctx.Args().Get(0), ctx.Args().Get(1)

	secret, ok := devSecret(whoName)
	if !ok {
		fatalf("unknown dev account %q (use alice, bob, or charlie)", whoName)
	}

	call := types.RuntimeCall{CreateClaim: &types.CreateClaimCall{Content: content}}
	return signAndSubmit(ctx, secret, call)
}

func signAndSubmit(ctx *cli.Context, secret ed25519.PrivateKey, call types.RuntimeCall) error {
	var signer types.AccountId
	copy(signer[:], ed25519.PublicFromPrivate(secret))

	client := rpcserver.NewClient(ctx.String(nodeURLFlag.Name))
	nonce, err := client.PendingNonce(signer)
	if err != nil {
		fatalf("failed to fetch pending nonce: %v", err)
	}

	ext := types.Sign(secret, nonce, call)
	if err := client.SubmitExtrinsic(ext); err != nil {
		fatalf("submit failed: %v", err)
	}
	return nil
}

func devSecret(name string) (ed25519.PrivateKey, bool) {
	kp, ok := crypto.DevKeyring()[name]
	if !ok {
		return nil, false
	}
	return kp.Secret, true
}

// resolveAccount accepts either a dev account name or a hex-encoded
// AccountId, matching the informal addressing the three dev accounts use
// throughout the CLI and RPC surface.
func resolveAccount(s string) (types.AccountId, bool) {
	if kp, ok := crypto.DevKeyring()[s]; ok {
		return types.AccountId(kp.AccountID), true
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return types.AccountId{}, false
	}
	return types.AccountIdFromBytes(raw)
}
