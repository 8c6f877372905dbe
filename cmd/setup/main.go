// cmd/setup performs the one-time on-chain setup required before the service
// can create gift cards: the operator grants the escrow contract a cUSD
// allowance covering card amounts plus fees.
//
// Usage:
//
//	OPERATOR_KEY=0x<key> \
//	go run ./cmd/setup/ \
//	  --rpc      https://alfajores-forno.celo-testnet.org \
//	  --chain-id 44787 \
//	  --contract 0x<unwrap-contract> \
//	  --cusd     0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1 \
//	  --approve  1000
package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/unwrap-cash/unwrap/internal/chain"
	"github.com/unwrap-cash/unwrap/internal/giftcard"
)

func main() {
	rpc := flag.String("rpc", "https://alfajores-forno.celo-testnet.org", "RPC endpoint")
	chainID := flag.Int64("chain-id", 44787, "Chain ID")
	contractHex := flag.String("contract", "", "Unwrap contract address (required)")
	cusdHex := flag.String("cusd", "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1", "cUSD token address")
	approve := flag.String("approve", "1000", "cUSD amount to approve for the contract")
	flag.Parse()

	keyHex := strings.TrimPrefix(os.Getenv("OPERATOR_KEY"), "0x")
	if keyHex == "" {
		fmt.Fprintln(os.Stderr, "error: OPERATOR_KEY not set")
		os.Exit(1)
	}
	if *contractHex == "" {
		fmt.Fprintln(os.Stderr, "error: --contract is required")
		os.Exit(1)
	}

	privKey, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		fatalf("parse private key: %v", err)
	}
	operator := crypto.PubkeyToAddress(privKey.PublicKey)
	fmt.Printf("operator: %s\n", operator.Hex())
	fmt.Printf("contract: %s\n", *contractHex)
	fmt.Printf("rpc:      %s\n", *rpc)

	amount, err := giftcard.ParseAmount(*approve)
	if err != nil {
		fatalf("parse amount: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	eth, err := ethclient.Dial(*rpc)
	if err != nil {
		fatalf("dial rpc: %v", err)
	}
	defer eth.Close()

	contractAddr := common.HexToAddress(*contractHex)
	cusd, err := chain.NewERC20(common.HexToAddress(*cusdHex), eth)
	if err != nil {
		fatalf("bind cUSD: %v", err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(privKey, big.NewInt(*chainID))
	if err != nil {
		fatalf("build transactor: %v", err)
	}
	auth.Context = ctx

	fmt.Printf("\nApprove %s cUSD for %s...\n", *approve, contractAddr.Hex())
	tx, err := cusd.Approve(auth, contractAddr, amount)
	if err != nil {
		fatalf("Approve: %v", err)
	}
	fmt.Printf("  tx: %s\n", tx.Hash().Hex())
	if _, err := bind.WaitMined(ctx, eth, tx); err != nil {
		fatalf("wait mined: %v", err)
	}
	fmt.Println("  confirmed")

	opts := &bind.CallOpts{Context: ctx}
	balance, err := cusd.BalanceOf(opts, operator)
	if err != nil {
		fatalf("BalanceOf: %v", err)
	}
	allowance, err := cusd.Allowance(opts, operator, contractAddr)
	if err != nil {
		fatalf("Allowance: %v", err)
	}
	fmt.Printf("\nSetup complete!\n")
	fmt.Printf("  balance:   %s cUSD\n", giftcard.FormatAmount(balance))
	fmt.Printf("  allowance: %s cUSD\n", giftcard.FormatAmount(allowance))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
