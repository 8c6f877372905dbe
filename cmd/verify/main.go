// cmd/verify verifies the Unwrap contract source on Celoscan using the
// Etherscan-compatible API.
//
// Usage:
//
//	go run ./cmd/verify/ --contract 0x... --apikey <celoscan-key> \
//	  --constructor-args <abi-encoded-hex>
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// standardJSONInput builds the solc standard-JSON input for a single source
// file, matching the Hardhat compile settings.
func standardJSONInput(sourceKey, sourceCode string) (string, error) {
	input := map[string]any{
		"language": "Solidity",
		"sources": map[string]any{
			sourceKey: map[string]any{"content": sourceCode},
		},
		"settings": map[string]any{
			"optimizer": map[string]any{
				"enabled": true,
				"runs":    200,
			},
			"outputSelection": map[string]any{
				"*": map[string]any{
					"*": []string{"abi", "evm.bytecode", "evm.deployedBytecode"},
				},
			},
		},
	}
	b, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func main() {
	contractAddr := flag.String("contract", "", "deployed contract address (required)")
	apiURL := flag.String("api", "https://api-alfajores.celoscan.io/api", "Etherscan-compatible API URL")
	sourcePath := flag.String("source", "contracts/contracts/Unwrap.sol", "Solidity source file path on disk")
	sourceKey := flag.String("source-key", "contracts/Unwrap.sol", "source key in standard-JSON (compiler path)")
	contractName := flag.String("contract-name", "contracts/Unwrap.sol:Unwrap", "fully-qualified contract name")
	compilerVer := flag.String("compiler", "v0.8.19+commit.7dd6d404", "solc compiler version")
	chainID := flag.String("chain-id", "44787", "chain ID")
	apiKey := flag.String("apikey", "", "Celoscan API key (required)")
	constructorArgs := flag.String("constructor-args", "", "ABI-encoded constructor args (hex, no 0x)")
	flag.Parse()

	if *contractAddr == "" || *apiKey == "" {
		fmt.Fprintln(os.Stderr, "error: --contract and --apikey are required")
		os.Exit(1)
	}

	addr := strings.ToLower(*contractAddr)
	if !strings.HasPrefix(addr, "0x") {
		addr = "0x" + addr
	}

	src, err := os.ReadFile(*sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read source: %v\n", err)
		os.Exit(1)
	}
	stdJSON, err := standardJSONInput(*sourceKey, string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "build standard JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Contract      : %s\n", addr)
	fmt.Printf("Contract name : %s\n", *contractName)
	fmt.Printf("Compiler      : %s\n", *compilerVer)
	fmt.Printf("Submitting verification request...\n\n")

	form := url.Values{}
	form.Set("module", "contract")
	form.Set("action", "verifysourcecode")
	form.Set("apikey", *apiKey)
	form.Set("chainid", *chainID)
	form.Set("contractaddress", addr)
	form.Set("codeformat", "solidity-standard-json-input")
	form.Set("sourceCode", stdJSON)
	form.Set("contractname", *contractName)
	form.Set("compilerversion", *compilerVer)
	form.Set("optimizationUsed", "1")
	form.Set("runs", "200")
	// The Etherscan API spells this field with a typo; it is intentional.
	form.Set("constructorArguements", *constructorArgs)

	req, err := http.NewRequest(http.MethodPost, *apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := (&http.Client{Timeout: 60 * time.Second}).Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "POST: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "verification failed (HTTP %d): %s\n", resp.StatusCode, body)
		os.Exit(1)
	}

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Result  string `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Fprintf(os.Stderr, "parse response %q: %v\n", body, err)
		os.Exit(1)
	}
	switch {
	case result.Status == "1":
		fmt.Printf("Verification submitted (GUID: %s)\n", result.Result)
		fmt.Printf("Poll: curl '%s?module=contract&action=checkverifystatus&guid=%s&apikey=%s'\n",
			*apiURL, result.Result, *apiKey)
	case strings.Contains(strings.ToLower(result.Result+result.Message), "already"):
		fmt.Println("Contract already verified.")
	default:
		fmt.Fprintf(os.Stderr, "verification failed: [%s] %s\n", result.Status, result.Result)
		os.Exit(1)
	}
}
