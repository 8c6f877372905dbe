// Package ledger implements the Unwrap escrow state machine in process: the
// reference semantics of the on-chain contract, backed by an in-memory token.
// It serves two roles: the dev-mode backend when no RPC endpoint is
// configured, and the model the chain-facing components are tested against.
//
// Per code hash the state machine is NONE → PENDING → REDEEMED; there is no
// path back from REDEEMED and a hash can be written at most once.
package ledger

import (
	"encoding/binary"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/unwrap-cash/unwrap/internal/giftcard"
)

// DefaultFeeBasisPoints is the creation fee in basis points (0.5%).
const DefaultFeeBasisPoints = 50

type entry struct {
	amount   *big.Int
	creator  common.Address
	redeemed bool
}

// Escrow holds gift card funds between creation and redemption, keyed by the
// keccak256 hash of the redemption code.
type Escrow struct {
	mu           sync.Mutex
	token        *Token
	self         common.Address
	feeCollector common.Address
	feeBps       uint64
	cards        map[common.Hash]*entry
	block        uint64
	created      []giftcard.CreatedEvent
	redeemed     []giftcard.RedeemedEvent
}

// NewEscrow builds an escrow over token. self is the address holding escrowed
// funds; fees accrue to feeCollector. feeBps zero selects the default 0.5%.
func NewEscrow(token *Token, self, feeCollector common.Address, feeBps uint64) *Escrow {
	if feeBps == 0 {
		feeBps = DefaultFeeBasisPoints
	}
	return &Escrow{
		token:        token,
		self:         self,
		feeCollector: feeCollector,
		feeBps:       feeBps,
		cards:        make(map[common.Hash]*entry),
	}
}

// Token returns the backing token ledger.
func (e *Escrow) Token() *Token { return e.token }

// FeePercentage returns the configured fee in basis points.
func (e *Escrow) FeePercentage() uint64 { return e.feeBps }

// FeeCollector returns the address fee proceeds accrue to.
func (e *Escrow) FeeCollector() common.Address { return e.feeCollector }

// CalculateFee returns amount × feeBps / 10000, floored. Deterministic and
// monotonic in amount; CalculateFee(0) = 0.
func (e *Escrow) CalculateFee(amount *big.Int) *big.Int {
	fee := new(big.Int).Mul(amount, new(big.Int).SetUint64(e.feeBps))
	return fee.Div(fee, big.NewInt(10000))
}

// CreateGiftCard escrows amount plus the creation fee from caller under
// codeHash. The caller must have approved the escrow for at least
// amount + fee beforehand.
func (e *Escrow) CreateGiftCard(caller common.Address, codeHash common.Hash, amount *big.Int) (*giftcard.Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount == nil || amount.Sign() <= 0 {
		return nil, giftcard.ErrZeroAmount
	}
	if _, ok := e.cards[codeHash]; ok {
		return nil, giftcard.ErrCodeAlreadyUsed
	}

	fee := e.CalculateFee(amount)
	total := new(big.Int).Add(amount, fee)

	// Pre-check both legs so a fee-transfer failure cannot leave a
	// half-funded card.
	if e.token.Allowance(caller, e.self).Cmp(total) < 0 {
		return nil, giftcard.ErrInsufficientAllowance
	}
	if e.token.BalanceOf(caller).Cmp(total) < 0 {
		return nil, giftcard.ErrInsufficientBalance
	}
	if err := e.token.TransferFrom(e.self, caller, e.self, amount); err != nil {
		return nil, err
	}
	if fee.Sign() > 0 {
		if err := e.token.TransferFrom(e.self, caller, e.feeCollector, fee); err != nil {
			return nil, err
		}
	}

	e.cards[codeHash] = &entry{
		amount:  new(big.Int).Set(amount),
		creator: caller,
	}

	rcpt := e.mint(codeHash)
	e.created = append(e.created, giftcard.CreatedEvent{
		Creator:     caller,
		Amount:      new(big.Int).Set(amount),
		CodeHash:    codeHash,
		BlockNumber: rcpt.BlockNumber,
		TxHash:      rcpt.TxHash,
	})
	return rcpt, nil
}

// RedeemGiftCard pays out the card for the plaintext code to caller. The
// hash is computed here, matching the contract signature
// redeemGiftCard(string code).
func (e *Escrow) RedeemGiftCard(caller common.Address, code string) (*big.Int, *giftcard.Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	codeHash := giftcard.HashCode(code)
	card, ok := e.cards[codeHash]
	if !ok {
		return nil, nil, giftcard.ErrCardNotFound
	}
	if card.redeemed {
		return nil, nil, giftcard.ErrAlreadyRedeemed
	}

	if err := e.token.Transfer(e.self, caller, card.amount); err != nil {
		return nil, nil, err
	}
	card.redeemed = true

	rcpt := e.mint(codeHash)
	amount := new(big.Int).Set(card.amount)
	e.redeemed = append(e.redeemed, giftcard.RedeemedEvent{
		Redeemer:    caller,
		Amount:      amount,
		CodeHash:    codeHash,
		BlockNumber: rcpt.BlockNumber,
		TxHash:      rcpt.TxHash,
	})
	return amount, rcpt, nil
}

// CheckGiftCard reports whether codeHash holds an unredeemed card and its
// amount. It never fails: missing and redeemed cards both read (false, 0).
func (e *Escrow) CheckGiftCard(codeHash common.Hash) (bool, *big.Int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	card, ok := e.cards[codeHash]
	if !ok || card.redeemed {
		return false, new(big.Int)
	}
	return true, new(big.Int).Set(card.amount)
}

// HeadBlock returns the latest block number.
func (e *Escrow) HeadBlock() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.block
}

// CreatedEvents returns creation events in the inclusive block range.
func (e *Escrow) CreatedEvents(from, to uint64) []giftcard.CreatedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []giftcard.CreatedEvent
	for _, ev := range e.created {
		if ev.BlockNumber >= from && ev.BlockNumber <= to {
			out = append(out, ev)
		}
	}
	return out
}

// RedeemedEvents returns redemption events in the inclusive block range.
func (e *Escrow) RedeemedEvents(from, to uint64) []giftcard.RedeemedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []giftcard.RedeemedEvent
	for _, ev := range e.redeemed {
		if ev.BlockNumber >= from && ev.BlockNumber <= to {
			out = append(out, ev)
		}
	}
	return out
}

// receipt mints a receipt for a transaction outside the escrow state machine
// (an approval or a plain transfer).
func (e *Escrow) receipt() *giftcard.Receipt {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mint(common.Hash{})
}

// mint advances the block counter and synthesizes a transaction hash.
// Caller holds e.mu.
func (e *Escrow) mint(codeHash common.Hash) *giftcard.Receipt {
	e.block++
	var blockBytes [8]byte
	binary.BigEndian.PutUint64(blockBytes[:], e.block)
	return &giftcard.Receipt{
		TxHash:      crypto.Keccak256Hash(codeHash.Bytes(), blockBytes[:]),
		BlockNumber: e.block,
	}
}
