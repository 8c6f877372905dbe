package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/unwrap-cash/unwrap/internal/giftcard"
)

// Backend exposes the escrow with the same shape as the chain client, acting
// on behalf of a fixed operator address. It backs dev mode and tests.
type Backend struct {
	esc      *Escrow
	operator common.Address
}

// NewBackend wraps esc with operator as the transaction sender.
func NewBackend(esc *Escrow, operator common.Address) *Backend {
	return &Backend{esc: esc, operator: operator}
}

// Escrow returns the underlying escrow.
func (b *Backend) Escrow() *Escrow { return b.esc }

func (b *Backend) Operator() common.Address { return b.operator }

func (b *Backend) CreateGiftCard(ctx context.Context, codeHash common.Hash, amount *big.Int) (*giftcard.Receipt, error) {
	return b.esc.CreateGiftCard(b.operator, codeHash, amount)
}

func (b *Backend) RedeemGiftCard(ctx context.Context, code string) (*big.Int, *giftcard.Receipt, error) {
	return b.esc.RedeemGiftCard(b.operator, code)
}

func (b *Backend) CheckGiftCard(ctx context.Context, codeHash common.Hash) (bool, *big.Int, error) {
	valid, amount := b.esc.CheckGiftCard(codeHash)
	return valid, amount, nil
}

func (b *Backend) CalculateFee(ctx context.Context, amount *big.Int) (*big.Int, error) {
	return b.esc.CalculateFee(amount), nil
}

func (b *Backend) Allowance(ctx context.Context, owner common.Address) (*big.Int, error) {
	return b.esc.Token().Allowance(owner, b.esc.self), nil
}

func (b *Backend) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return b.esc.Token().BalanceOf(owner), nil
}

func (b *Backend) Approve(ctx context.Context, amount *big.Int) (*giftcard.Receipt, error) {
	b.esc.Token().Approve(b.operator, b.esc.self, amount)
	return b.esc.receipt(), nil
}

func (b *Backend) Transfer(ctx context.Context, to common.Address, amount *big.Int) (*giftcard.Receipt, error) {
	if err := b.esc.Token().Transfer(b.operator, to, amount); err != nil {
		return nil, err
	}
	return b.esc.receipt(), nil
}

func (b *Backend) HeadBlock(ctx context.Context) (uint64, error) {
	return b.esc.HeadBlock(), nil
}

func (b *Backend) CreatedEvents(ctx context.Context, from, to uint64) ([]giftcard.CreatedEvent, error) {
	return b.esc.CreatedEvents(from, to), nil
}

func (b *Backend) RedeemedEvents(ctx context.Context, from, to uint64) ([]giftcard.RedeemedEvent, error) {
	return b.esc.RedeemedEvents(from, to), nil
}
