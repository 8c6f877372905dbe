// Package chain talks to the deployed Unwrap contract and the cUSD token on
// Celo through go-ethereum. It is the production counterpart of the
// in-process ledger backend and exposes the same escrow operations.
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/unwrap-cash/unwrap/internal/config"
	"github.com/unwrap-cash/unwrap/internal/giftcard"
)

// Client wraps go-ethereum and the generated Unwrap and ERC20 bindings.
type Client struct {
	eth          *ethclient.Client
	contract     *Unwrap
	cusd         *ERC20
	contractAddr common.Address
	cusdAddr     common.Address
	chainID      *big.Int
	operatorKey  *ecdsa.PrivateKey
	operator     common.Address
}

func NewClient(cfg *config.Config) (*Client, error) {
	eth, err := ethclient.Dial(cfg.Chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}

	privKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.Chain.OperatorKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse operator key: %w", err)
	}

	contractAddr := common.HexToAddress(cfg.Chain.ContractAddress)
	contract, err := NewUnwrap(contractAddr, eth)
	if err != nil {
		return nil, fmt.Errorf("bind unwrap contract: %w", err)
	}

	cusdAddr := common.HexToAddress(cfg.Chain.CUSDAddress)
	cusd, err := NewERC20(cusdAddr, eth)
	if err != nil {
		return nil, fmt.Errorf("bind cusd token: %w", err)
	}

	return &Client{
		eth:          eth,
		contract:     contract,
		cusd:         cusd,
		contractAddr: contractAddr,
		cusdAddr:     cusdAddr,
		chainID:      big.NewInt(cfg.Chain.ChainID),
		operatorKey:  privKey,
		operator:     crypto.PubkeyToAddress(privKey.PublicKey),
	}, nil
}

// Operator returns the address transactions are signed with.
func (c *Client) Operator() common.Address { return c.operator }

// ContractAddress returns the escrow contract address.
func (c *Client) ContractAddress() common.Address { return c.contractAddr }

// CUSDAddress returns the cUSD token address.
func (c *Client) CUSDAddress() common.Address { return c.cusdAddr }

// transactOpts builds a *bind.TransactOpts signed by the operator key.
func (c *Client) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(c.operatorKey, c.chainID)
	if err != nil {
		return nil, err
	}
	auth.Context = ctx
	return auth, nil
}

// CreateGiftCard escrows amount under codeHash and waits for the transaction
// to confirm. The operator must hold an allowance of at least amount + fee.
func (c *Client) CreateGiftCard(ctx context.Context, codeHash common.Hash, amount *big.Int) (*giftcard.Receipt, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return nil, fmt.Errorf("build tx opts: %w", err)
	}

	tx, err := c.contract.CreateGiftCard(opts, codeHash, amount)
	if err != nil {
		return nil, mapRevert(err)
	}

	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return nil, fmt.Errorf("wait mined: %w", err)
	}
	if receipt.Status == 0 {
		return nil, fmt.Errorf("tx reverted: %s", tx.Hash().Hex())
	}

	return &giftcard.Receipt{
		TxHash:      tx.Hash(),
		BlockNumber: receipt.BlockNumber.Uint64(),
	}, nil
}

// RedeemGiftCard submits the plaintext code, waits for confirmation and
// returns the redeemed amount parsed from the GiftCardRedeemed event.
func (c *Client) RedeemGiftCard(ctx context.Context, code string) (*big.Int, *giftcard.Receipt, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("build tx opts: %w", err)
	}

	tx, err := c.contract.RedeemGiftCard(opts, code)
	if err != nil {
		return nil, nil, mapRevert(err)
	}

	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return nil, nil, fmt.Errorf("wait mined: %w", err)
	}
	if receipt.Status == 0 {
		return nil, nil, fmt.Errorf("tx reverted: %s", tx.Hash().Hex())
	}

	amount := new(big.Int)
	for _, log := range receipt.Logs {
		ev, err := c.contract.ParseGiftCardRedeemed(*log)
		if err != nil {
			continue
		}
		amount = ev.Amount
		break
	}

	return amount, &giftcard.Receipt{
		TxHash:      tx.Hash(),
		BlockNumber: receipt.BlockNumber.Uint64(),
	}, nil
}

// CheckGiftCard reads whether codeHash holds an unredeemed card and its
// amount.
func (c *Client) CheckGiftCard(ctx context.Context, codeHash common.Hash) (bool, *big.Int, error) {
	res, err := c.contract.CheckGiftCard(&bind.CallOpts{Context: ctx}, codeHash)
	if err != nil {
		return false, nil, fmt.Errorf("checkGiftCard: %w", err)
	}
	return res.Valid, res.Amount, nil
}

// CalculateFee reads the creation fee for amount from the contract.
func (c *Client) CalculateFee(ctx context.Context, amount *big.Int) (*big.Int, error) {
	fee, err := c.contract.CalculateFee(&bind.CallOpts{Context: ctx}, amount)
	if err != nil {
		return nil, fmt.Errorf("calculateFee: %w", err)
	}
	return fee, nil
}

// FeePercentage reads the configured fee in basis points.
func (c *Client) FeePercentage(ctx context.Context) (*big.Int, error) {
	bps, err := c.contract.FeePercentage(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, fmt.Errorf("feePercentage: %w", err)
	}
	return bps, nil
}

// FeeCollector reads the address fee proceeds accrue to.
func (c *Client) FeeCollector(ctx context.Context) (common.Address, error) {
	addr, err := c.contract.FeeCollector(&bind.CallOpts{Context: ctx})
	if err != nil {
		return common.Address{}, fmt.Errorf("feeCollector: %w", err)
	}
	return addr, nil
}

// Allowance reads the cUSD allowance owner has granted the escrow contract.
func (c *Client) Allowance(ctx context.Context, owner common.Address) (*big.Int, error) {
	allowance, err := c.cusd.Allowance(&bind.CallOpts{Context: ctx}, owner, c.contractAddr)
	if err != nil {
		return nil, fmt.Errorf("allowance: %w", err)
	}
	return allowance, nil
}

// BalanceOf reads owner's cUSD balance.
func (c *Client) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	balance, err := c.cusd.BalanceOf(&bind.CallOpts{Context: ctx}, owner)
	if err != nil {
		return nil, fmt.Errorf("balanceOf: %w", err)
	}
	return balance, nil
}

// Approve grants the escrow contract a cUSD allowance of amount from the
// operator and waits for confirmation.
func (c *Client) Approve(ctx context.Context, amount *big.Int) (*giftcard.Receipt, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return nil, fmt.Errorf("build tx opts: %w", err)
	}

	tx, err := c.cusd.Approve(opts, c.contractAddr, amount)
	if err != nil {
		return nil, mapRevert(err)
	}

	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return nil, fmt.Errorf("wait mined: %w", err)
	}
	if receipt.Status == 0 {
		return nil, fmt.Errorf("tx reverted: %s", tx.Hash().Hex())
	}

	return &giftcard.Receipt{
		TxHash:      tx.Hash(),
		BlockNumber: receipt.BlockNumber.Uint64(),
	}, nil
}

// Transfer sends amount of cUSD from the operator to another address and
// waits for confirmation.
func (c *Client) Transfer(ctx context.Context, to common.Address, amount *big.Int) (*giftcard.Receipt, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return nil, fmt.Errorf("build tx opts: %w", err)
	}

	tx, err := c.cusd.Transfer(opts, to, amount)
	if err != nil {
		return nil, mapRevert(err)
	}

	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return nil, fmt.Errorf("wait mined: %w", err)
	}
	if receipt.Status == 0 {
		return nil, fmt.Errorf("tx reverted: %s", tx.Hash().Hex())
	}

	return &giftcard.Receipt{
		TxHash:      tx.Hash(),
		BlockNumber: receipt.BlockNumber.Uint64(),
	}, nil
}

// HeadBlock returns the latest chain block number.
func (c *Client) HeadBlock(ctx context.Context) (uint64, error) {
	block, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("block number: %w", err)
	}
	return block, nil
}

// CreatedEvents returns GiftCardCreated events in the inclusive block range.
func (c *Client) CreatedEvents(ctx context.Context, from, to uint64) ([]giftcard.CreatedEvent, error) {
	it, err := c.contract.FilterGiftCardCreated(&bind.FilterOpts{
		Start:   from,
		End:     &to,
		Context: ctx,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("filter GiftCardCreated: %w", err)
	}
	defer it.Close()

	var out []giftcard.CreatedEvent
	for it.Next() {
		out = append(out, giftcard.CreatedEvent{
			Creator:     it.Event.Creator,
			Amount:      it.Event.Amount,
			CodeHash:    it.Event.CodeHash,
			BlockNumber: it.Event.Raw.BlockNumber,
			TxHash:      it.Event.Raw.TxHash,
		})
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("iterate GiftCardCreated: %w", err)
	}
	return out, nil
}

// RedeemedEvents returns GiftCardRedeemed events in the inclusive block range.
func (c *Client) RedeemedEvents(ctx context.Context, from, to uint64) ([]giftcard.RedeemedEvent, error) {
	it, err := c.contract.FilterGiftCardRedeemed(&bind.FilterOpts{
		Start:   from,
		End:     &to,
		Context: ctx,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("filter GiftCardRedeemed: %w", err)
	}
	defer it.Close()

	var out []giftcard.RedeemedEvent
	for it.Next() {
		out = append(out, giftcard.RedeemedEvent{
			Redeemer:    it.Event.Redeemer,
			Amount:      it.Event.Amount,
			CodeHash:    it.Event.CodeHash,
			BlockNumber: it.Event.Raw.BlockNumber,
			TxHash:      it.Event.Raw.TxHash,
		})
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("iterate GiftCardRedeemed: %w", err)
	}
	return out, nil
}

// revertReasons maps contract require() strings, surfaced through gas
// estimation as "execution reverted: <reason>", to the shared sentinels.
var revertReasons = []struct {
	substr string
	err    error
}{
	{"Amount must be greater than 0", giftcard.ErrZeroAmount},
	{"Code already used", giftcard.ErrCodeAlreadyUsed},
	{"Gift card does not exist", giftcard.ErrCardNotFound},
	{"Gift card already redeemed", giftcard.ErrAlreadyRedeemed},
	{"insufficient allowance", giftcard.ErrInsufficientAllowance},
	{"transfer amount exceeds allowance", giftcard.ErrInsufficientAllowance},
	{"transfer amount exceeds balance", giftcard.ErrInsufficientBalance},
	{"insufficient balance", giftcard.ErrInsufficientBalance},
}

// mapRevert translates a submission error into a sentinel when the revert
// reason is recognized, otherwise wraps it unchanged.
func mapRevert(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, r := range revertReasons {
		if strings.Contains(msg, r.substr) {
			return r.err
		}
	}
	return fmt.Errorf("submit tx: %w", err)
}
