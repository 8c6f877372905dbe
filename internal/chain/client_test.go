package chain

import (
	"errors"
	"testing"

	"github.com/unwrap-cash/unwrap/internal/giftcard"
)

func TestMapRevert(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"zero amount", errors.New("execution reverted: Amount must be greater than 0"), giftcard.ErrZeroAmount},
		{"duplicate code", errors.New("execution reverted: Code already used"), giftcard.ErrCodeAlreadyUsed},
		{"missing card", errors.New("execution reverted: Gift card does not exist"), giftcard.ErrCardNotFound},
		{"already redeemed", errors.New("execution reverted: Gift card already redeemed"), giftcard.ErrAlreadyRedeemed},
		{"erc20 allowance", errors.New("execution reverted: ERC20: insufficient allowance"), giftcard.ErrInsufficientAllowance},
		{"erc20 legacy allowance", errors.New("execution reverted: ERC20: transfer amount exceeds allowance"), giftcard.ErrInsufficientAllowance},
		{"erc20 balance", errors.New("execution reverted: ERC20: transfer amount exceeds balance"), giftcard.ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapRevert(tt.in)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("mapRevert(nil) = %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("mapRevert(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMapRevert_UnknownWrapped(t *testing.T) {
	in := errors.New("nonce too low")
	got := mapRevert(in)
	if !errors.Is(got, in) {
		t.Errorf("unknown error must be wrapped, got %v", got)
	}
	for _, sentinel := range []error{
		giftcard.ErrZeroAmount, giftcard.ErrCodeAlreadyUsed,
		giftcard.ErrCardNotFound, giftcard.ErrAlreadyRedeemed,
		giftcard.ErrInsufficientBalance, giftcard.ErrInsufficientAllowance,
	} {
		if errors.Is(got, sentinel) {
			t.Errorf("unknown error must not map to %v", sentinel)
		}
	}
}
