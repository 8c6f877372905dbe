// cmd/deploy deploys the Unwrap escrow contract.
//
// The contract takes the cUSD token address as its only constructor argument;
// the deployer becomes the owner and fee collector. Bytecode is read from the
// Hardhat artifact produced by the contracts build.
//
// Usage:
//
//	go run ./cmd/deploy/ --rpc <url> --key <hex> --chain-id 44787 \
//	  --cusd 0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/unwrap-cash/unwrap/internal/chain"
)

func main() {
	rpcURL := flag.String("rpc", "https://alfajores-forno.celo-testnet.org", "EVM RPC endpoint")
	keyHex := flag.String("key", "", "deployer private key (hex, with or without 0x)")
	chainID := flag.Int64("chain-id", 44787, "chain ID")
	cusdHex := flag.String("cusd", "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1", "cUSD token address")
	artifact := flag.String("artifact", "contracts/artifacts/contracts/Unwrap.sol/Unwrap.json", "Hardhat artifact path")
	flag.Parse()

	if *keyHex == "" {
		fmt.Fprintln(os.Stderr, "error: --key is required")
		os.Exit(1)
	}

	privKey, err := crypto.HexToECDSA(strings.TrimPrefix(*keyHex, "0x"))
	if err != nil {
		fatalf("parse key: %v", err)
	}
	deployer := crypto.PubkeyToAddress(privKey.PublicKey)
	fmt.Printf("Deployer : %s\n", deployer.Hex())
	fmt.Printf("cUSD     : %s\n", *cusdHex)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := ethclient.DialContext(ctx, *rpcURL)
	if err != nil {
		fatalf("dial rpc: %v", err)
	}
	defer client.Close()

	auth, err := bind.NewKeyedTransactorWithChainID(privKey, big.NewInt(*chainID))
	if err != nil {
		fatalf("transactor: %v", err)
	}
	auth.Context = ctx

	contractABI, err := abi.JSON(strings.NewReader(chain.UnwrapMetaData.ABI))
	if err != nil {
		fatalf("parse ABI: %v", err)
	}
	bytecode := loadBytecode(*artifact)

	fmt.Printf("\nDeploying Unwrap (chainID=%d)...\n", *chainID)
	addr, tx, _, err := bind.DeployContract(auth, contractABI, bytecode, client,
		common.HexToAddress(*cusdHex))
	if err != nil {
		fatalf("deploy: %v", err)
	}
	fmt.Printf("  Tx hash : %s\n", tx.Hash().Hex())
	receipt, err := bind.WaitMined(ctx, client, tx)
	if err != nil {
		fatalf("wait mined: %v", err)
	}
	if receipt.Status == 0 {
		fatalf("deploy tx reverted")
	}

	// Read the config back to confirm the deployment is sane.
	contract, err := chain.NewUnwrap(addr, client)
	if err != nil {
		fatalf("bind contract: %v", err)
	}
	opts := &bind.CallOpts{Context: ctx}
	token, err := contract.CUSDToken(opts)
	if err != nil {
		fatalf("read cUSDToken: %v", err)
	}
	feeBps, err := contract.FeePercentage(opts)
	if err != nil {
		fatalf("read feePercentage: %v", err)
	}
	collector, err := contract.FeeCollector(opts)
	if err != nil {
		fatalf("read feeCollector: %v", err)
	}

	fmt.Printf(`
DEPLOY COMPLETE
  Contract     : %s
  cUSD token   : %s
  Fee          : %s bps
  Fee collector: %s

Set in .env:
  UNWRAP_CONTRACT=%s
`, addr.Hex(), token.Hex(), feeBps, collector.Hex(), addr.Hex())
}

// loadBytecode reads the creation bytecode from a Hardhat artifact.
func loadBytecode(path string) []byte {
	raw, err := os.ReadFile(path)
	if err != nil {
		fatalf("read artifact %s: %v", path, err)
	}
	var artifact struct {
		Bytecode string `json:"bytecode"`
	}
	if err := json.Unmarshal(raw, &artifact); err != nil {
		fatalf("parse artifact %s: %v", path, err)
	}
	b, err := hex.DecodeString(strings.TrimPrefix(artifact.Bytecode, "0x"))
	if err != nil {
		fatalf("decode bytecode %s: %v", path, err)
	}
	return b
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
