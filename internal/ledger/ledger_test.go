package ledger

import (
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/unwrap-cash/unwrap/internal/giftcard"
)

var (
	escrowAddr    = common.HexToAddress("0x00000000000000000000000000000000000000EC")
	collectorAddr = common.HexToAddress("0x00000000000000000000000000000000000000FC")
	creatorAddr   = common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	redeemerAddr  = common.HexToAddress("0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB")
)

func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

// newFundedEscrow mints balance wei to the creator and approves the escrow
// for all of it.
func newFundedEscrow(t *testing.T, balance *big.Int) *Escrow {
	t.Helper()
	tok := NewToken()
	tok.Mint(creatorAddr, balance)
	tok.Approve(creatorAddr, escrowAddr, balance)
	return NewEscrow(tok, escrowAddr, collectorAddr, 0)
}

func TestCreateThenCheck(t *testing.T) {
	e := newFundedEscrow(t, tokens(1000))
	amount := tokens(100)
	codeHash := giftcard.HashCode("GIFT123")

	rcpt, err := e.CreateGiftCard(creatorAddr, codeHash, amount)
	if err != nil {
		t.Fatalf("CreateGiftCard: %v", err)
	}
	if rcpt.BlockNumber == 0 {
		t.Error("receipt must carry a block number")
	}

	valid, got := e.CheckGiftCard(codeHash)
	if !valid {
		t.Fatal("freshly created card must be valid")
	}
	if got.Cmp(amount) != 0 {
		t.Errorf("CheckGiftCard amount = %s, want %s", got, amount)
	}
}

func TestCreateZeroAmount(t *testing.T) {
	e := newFundedEscrow(t, tokens(1000))
	codeHash := giftcard.HashCode("GIFT123")

	if _, err := e.CreateGiftCard(creatorAddr, codeHash, big.NewInt(0)); err != giftcard.ErrZeroAmount {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}
	// No state mutated.
	if valid, _ := e.CheckGiftCard(codeHash); valid {
		t.Error("zero-amount creation must not store an entry")
	}
	if e.HeadBlock() != 0 {
		t.Error("failed creation must not advance the block counter")
	}
}

func TestCreateDuplicateCodeHash(t *testing.T) {
	e := newFundedEscrow(t, tokens(1000))
	amount := tokens(100)
	codeHash := giftcard.HashCode("GIFT123")

	if _, err := e.CreateGiftCard(creatorAddr, codeHash, amount); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := e.CreateGiftCard(creatorAddr, codeHash, tokens(50)); err != giftcard.ErrCodeAlreadyUsed {
		t.Fatalf("expected ErrCodeAlreadyUsed, got %v", err)
	}
	// First entry unchanged.
	valid, got := e.CheckGiftCard(codeHash)
	if !valid || got.Cmp(amount) != 0 {
		t.Errorf("first entry changed: valid=%v amount=%s", valid, got)
	}
}

func TestCreateInsufficientAllowance(t *testing.T) {
	tok := NewToken()
	tok.Mint(creatorAddr, tokens(1000))
	tok.Approve(creatorAddr, escrowAddr, tokens(100)) // amount+fee = 100.5 needed
	e := NewEscrow(tok, escrowAddr, collectorAddr, 0)

	_, err := e.CreateGiftCard(creatorAddr, giftcard.HashCode("GIFT123"), tokens(100))
	if err != giftcard.ErrInsufficientAllowance {
		t.Fatalf("expected ErrInsufficientAllowance, got %v", err)
	}
	if bal := tok.BalanceOf(creatorAddr); bal.Cmp(tokens(1000)) != 0 {
		t.Errorf("failed create must not move funds, balance = %s", bal)
	}
}

func TestCreateInsufficientBalance(t *testing.T) {
	tok := NewToken()
	tok.Mint(creatorAddr, tokens(100)) // covers amount but not the fee
	tok.Approve(creatorAddr, escrowAddr, tokens(1000))
	e := NewEscrow(tok, escrowAddr, collectorAddr, 0)

	_, err := e.CreateGiftCard(creatorAddr, giftcard.HashCode("GIFT123"), tokens(100))
	if err != giftcard.ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestRedeemTransfersExactAmount(t *testing.T) {
	e := newFundedEscrow(t, tokens(1000))
	amount := tokens(100)
	const code = "GIFT123"
	if _, err := e.CreateGiftCard(creatorAddr, giftcard.HashCode(code), amount); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, rcpt, err := e.RedeemGiftCard(redeemerAddr, code)
	if err != nil {
		t.Fatalf("RedeemGiftCard: %v", err)
	}
	if got.Cmp(amount) != 0 {
		t.Errorf("redeemed amount = %s, want %s", got, amount)
	}
	if rcpt.TxHash == (common.Hash{}) {
		t.Error("receipt must carry a tx hash")
	}
	if bal := e.Token().BalanceOf(redeemerAddr); bal.Cmp(amount) != 0 {
		t.Errorf("redeemer balance = %s, want %s", bal, amount)
	}
	// Redeemed cards read (false, 0).
	if valid, amt := e.CheckGiftCard(giftcard.HashCode(code)); valid || amt.Sign() != 0 {
		t.Errorf("redeemed card reads (%v, %s), want (false, 0)", valid, amt)
	}
}

func TestRedeemUnknownCode(t *testing.T) {
	e := newFundedEscrow(t, tokens(1000))
	if _, _, err := e.RedeemGiftCard(redeemerAddr, "NOPE-NOPE-NOPE-NOPE"); err != giftcard.ErrCardNotFound {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestRedeemTwice(t *testing.T) {
	e := newFundedEscrow(t, tokens(1000))
	const code = "GIFT123"
	if _, err := e.CreateGiftCard(creatorAddr, giftcard.HashCode(code), tokens(100)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := e.RedeemGiftCard(redeemerAddr, code); err != nil {
		t.Fatalf("first redeem: %v", err)
	}
	if _, _, err := e.RedeemGiftCard(creatorAddr, code); err != giftcard.ErrAlreadyRedeemed {
		t.Fatalf("expected ErrAlreadyRedeemed, got %v", err)
	}
	// Exactly one payout.
	if bal := e.Token().BalanceOf(redeemerAddr); bal.Cmp(tokens(100)) != 0 {
		t.Errorf("redeemer balance = %s, want %s", bal, tokens(100))
	}
}

func TestRedeemConcurrent_ExactlyOneWins(t *testing.T) {
	e := newFundedEscrow(t, tokens(1000))
	const code = "RACE-RACE-RACE-RACE"
	if _, err := e.CreateGiftCard(creatorAddr, giftcard.HashCode(code), tokens(100)); err != nil {
		t.Fatalf("create: %v", err)
	}

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = e.RedeemGiftCard(redeemerAddr, code)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if err != giftcard.ErrAlreadyRedeemed {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("exactly one concurrent redeem must win, got %d", wins)
	}
	if bal := e.Token().BalanceOf(redeemerAddr); bal.Cmp(tokens(100)) != 0 {
		t.Errorf("redeemer balance = %s, want one payout of %s", bal, tokens(100))
	}
}

func TestCheckGiftCard_NeverFails(t *testing.T) {
	e := newFundedEscrow(t, tokens(1000))
	valid, amount := e.CheckGiftCard(giftcard.HashCode("UNKNOWN"))
	if valid || amount.Sign() != 0 {
		t.Errorf("unknown card reads (%v, %s), want (false, 0)", valid, amount)
	}
}

func TestCalculateFee(t *testing.T) {
	e := NewEscrow(NewToken(), escrowAddr, collectorAddr, 0)
	cases := []struct {
		amount *big.Int
		want   *big.Int
	}{
		{big.NewInt(0), big.NewInt(0)},
		{big.NewInt(10000), big.NewInt(50)},   // 0.5%
		{big.NewInt(199), big.NewInt(0)},      // floors to zero
		{tokens(100), tokens(1).Div(tokens(1), big.NewInt(2))}, // 0.5 tokens
	}
	for _, tc := range cases {
		if got := e.CalculateFee(tc.amount); got.Cmp(tc.want) != 0 {
			t.Errorf("CalculateFee(%s) = %s, want %s", tc.amount, got, tc.want)
		}
	}
}

func TestCalculateFee_Monotonic(t *testing.T) {
	e := NewEscrow(NewToken(), escrowAddr, collectorAddr, 0)
	prev := new(big.Int).Neg(big.NewInt(1))
	for n := int64(0); n <= 100000; n += 997 {
		fee := e.CalculateFee(big.NewInt(n))
		if fee.Cmp(prev) < 0 {
			t.Fatalf("fee decreased at amount %d", n)
		}
		prev = fee
	}
}

// 100 units at 0.5%: the caller pays 100.5, the card checks at 100,
// redemption pays 100 and the fee stays with the collector.
func TestFeeScenario(t *testing.T) {
	tok := NewToken()
	tok.Mint(creatorAddr, tokens(1000))
	// Approve exactly amount + fee.
	half := new(big.Int).Div(tokens(1), big.NewInt(2))
	total := new(big.Int).Add(tokens(100), half)
	tok.Approve(creatorAddr, escrowAddr, total)
	e := NewEscrow(tok, escrowAddr, collectorAddr, 0)

	const code = "FEES-FEES-FEES-FEES"
	if _, err := e.CreateGiftCard(creatorAddr, giftcard.HashCode(code), tokens(100)); err != nil {
		t.Fatalf("create: %v", err)
	}

	valid, amt := e.CheckGiftCard(giftcard.HashCode(code))
	if !valid || amt.Cmp(tokens(100)) != 0 {
		t.Fatalf("check = (%v, %s), want (true, %s)", valid, amt, tokens(100))
	}
	if bal := tok.BalanceOf(collectorAddr); bal.Cmp(half) != 0 {
		t.Errorf("collector balance = %s, want %s", bal, half)
	}
	if bal := tok.BalanceOf(creatorAddr); bal.Cmp(new(big.Int).Sub(tokens(1000), total)) != 0 {
		t.Errorf("creator balance = %s", bal)
	}

	if _, _, err := e.RedeemGiftCard(redeemerAddr, code); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if bal := tok.BalanceOf(redeemerAddr); bal.Cmp(tokens(100)) != 0 {
		t.Errorf("redeemer got %s, want %s (fee must not reach the redeemer)", bal, tokens(100))
	}
	if bal := tok.BalanceOf(escrowAddr); bal.Sign() != 0 {
		t.Errorf("escrow retains %s after redemption", bal)
	}
}

func TestEventsAndBlockRange(t *testing.T) {
	e := newFundedEscrow(t, tokens(1000))
	for _, code := range []string{"AAAA-AAAA-AAAA-AAAA", "BBBB-BBBB-BBBB-BBBB"} {
		if _, err := e.CreateGiftCard(creatorAddr, giftcard.HashCode(code), tokens(10)); err != nil {
			t.Fatalf("create %s: %v", code, err)
		}
	}
	if _, _, err := e.RedeemGiftCard(redeemerAddr, "AAAA-AAAA-AAAA-AAAA"); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	if head := e.HeadBlock(); head != 3 {
		t.Errorf("HeadBlock = %d, want 3", head)
	}
	if got := len(e.CreatedEvents(0, e.HeadBlock())); got != 2 {
		t.Errorf("created events = %d, want 2", got)
	}
	if got := len(e.RedeemedEvents(0, e.HeadBlock())); got != 1 {
		t.Errorf("redeemed events = %d, want 1", got)
	}
	// Range filtering.
	if got := len(e.CreatedEvents(2, 2)); got != 1 {
		t.Errorf("created events in block 2 = %d, want 1", got)
	}
	ev := e.RedeemedEvents(0, e.HeadBlock())[0]
	if ev.Redeemer != redeemerAddr || ev.Amount.Cmp(tokens(10)) != 0 {
		t.Errorf("redeemed event = %+v", ev)
	}
}
