package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/unwrap-cash/unwrap/internal/chain"
	"github.com/unwrap-cash/unwrap/internal/giftcard"
)

// Quick operator balance check: cUSD balance, escrow allowance and the
// contract fee rate. Reads OPERATOR_KEY from the environment.
func main() {
	rpc := flag.String("rpc", "https://alfajores-forno.celo-testnet.org", "RPC endpoint")
	contractHex := flag.String("contract", "", "Unwrap contract address (required)")
	cusdHex := flag.String("cusd", "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1", "cUSD token address")
	flag.Parse()

	keyHex := strings.TrimPrefix(os.Getenv("OPERATOR_KEY"), "0x")
	if keyHex == "" || *contractHex == "" {
		fmt.Fprintln(os.Stderr, "error: OPERATOR_KEY and --contract are required")
		os.Exit(1)
	}
	privKey, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse key: %v\n", err)
		os.Exit(1)
	}
	operator := crypto.PubkeyToAddress(privKey.PublicKey)

	eth, err := ethclient.Dial(*rpc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial rpc: %v\n", err)
		os.Exit(1)
	}
	defer eth.Close()

	contractAddr := common.HexToAddress(*contractHex)
	cusd, err := chain.NewERC20(common.HexToAddress(*cusdHex), eth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bind cUSD: %v\n", err)
		os.Exit(1)
	}
	escrow, err := chain.NewUnwrap(contractAddr, eth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bind contract: %v\n", err)
		os.Exit(1)
	}

	opts := &bind.CallOpts{Context: context.Background()}
	balance, _ := cusd.BalanceOf(opts, operator)
	allowance, _ := cusd.Allowance(opts, operator, contractAddr)
	feeBps, _ := escrow.FeePercentage(opts)
	fmt.Printf("operator:  %s\n", operator.Hex())
	fmt.Printf("balance:   %s cUSD\n", giftcard.FormatAmount(balance))
	fmt.Printf("allowance: %s cUSD\n", giftcard.FormatAmount(allowance))
	fmt.Printf("fee:       %s bps\n", feeBps)
}
