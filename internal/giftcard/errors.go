package giftcard

import "errors"

// Escrow errors shared by the reference ledger and the chain client. The
// chain client maps contract revert reasons onto these so callers never see
// raw RPC error strings.
var (
	ErrZeroAmount            = errors.New("amount must be greater than 0")
	ErrCodeAlreadyUsed       = errors.New("code already used")
	ErrCardNotFound          = errors.New("gift card does not exist")
	ErrAlreadyRedeemed       = errors.New("gift card already redeemed")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

// Post-transaction verification errors. A confirmed creation transaction is
// not enough: the card must read back from the contract before the code is
// persisted or emailed.
var (
	ErrNotVerified    = errors.New("gift card was not created on the blockchain after multiple attempts")
	ErrAmountMismatch = errors.New("created gift card amount does not match the requested amount")
)
