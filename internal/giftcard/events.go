package giftcard

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CreatedEvent mirrors the contract's GiftCardCreated log.
type CreatedEvent struct {
	Creator     common.Address
	Amount      *big.Int
	CodeHash    common.Hash
	BlockNumber uint64
	TxHash      common.Hash
}

// RedeemedEvent mirrors the contract's GiftCardRedeemed log.
type RedeemedEvent struct {
	Redeemer    common.Address
	Amount      *big.Int
	CodeHash    common.Hash
	BlockNumber uint64
	TxHash      common.Hash
}

// Receipt is the provenance of a mined escrow transaction.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
}
