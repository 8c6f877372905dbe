// Package orchestrator coordinates gift card operations across the escrow
// backend, the Redis store and the email sender. The chain is the source of
// truth: a creation only counts once the card reads back from the contract,
// and after that point store and email failures degrade the result instead of
// failing it, with the event synchronizer repairing the store later.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/unwrap-cash/unwrap/internal/giftcard"
	"github.com/unwrap-cash/unwrap/internal/mail"
	"github.com/unwrap-cash/unwrap/internal/store"
)

// Backend is the escrow surface the orchestrator drives. Implemented by the
// chain client in production and the in-process ledger backend in dev mode.
type Backend interface {
	Operator() common.Address
	CreateGiftCard(ctx context.Context, codeHash common.Hash, amount *big.Int) (*giftcard.Receipt, error)
	RedeemGiftCard(ctx context.Context, code string) (*big.Int, *giftcard.Receipt, error)
	CheckGiftCard(ctx context.Context, codeHash common.Hash) (bool, *big.Int, error)
	CalculateFee(ctx context.Context, amount *big.Int) (*big.Int, error)
	Allowance(ctx context.Context, owner common.Address) (*big.Int, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Approve(ctx context.Context, amount *big.Int) (*giftcard.Receipt, error)
	Transfer(ctx context.Context, to common.Address, amount *big.Int) (*giftcard.Receipt, error)
}

// RedeemStatus classifies the outcome of a redemption attempt.
type RedeemStatus string

const (
	RedeemSuccess           RedeemStatus = "success"
	RedeemInvalid           RedeemStatus = "invalid"
	RedeemInsufficientFunds RedeemStatus = "insufficient_funds"
	RedeemRejected          RedeemStatus = "rejected"
	RedeemError             RedeemStatus = "error"
)

// Config tunes the creation flow. Zero values select the defaults.
type Config struct {
	// FeeBasisPoints is the local fallback fee used when the contract fee
	// read fails.
	FeeBasisPoints uint64
	// VerifyAttempts is how many times the card is read back after the
	// creation transaction confirms.
	VerifyAttempts int
	VerifyDelay    time.Duration
	// SettleDelay is the pause between confirmation and the first
	// verification read, giving the RPC node time to catch up.
	SettleDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.FeeBasisPoints == 0 {
		c.FeeBasisPoints = 50
	}
	if c.VerifyAttempts == 0 {
		c.VerifyAttempts = 3
	}
	if c.VerifyDelay == 0 {
		c.VerifyDelay = 2 * time.Second
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = 2 * time.Second
	}
	return c
}

// Service is the gift card orchestrator.
type Service struct {
	backend Backend
	store   *store.Store
	mail    mail.Sender
	log     *zap.Logger
	cfg     Config
}

func New(backend Backend, st *store.Store, sender mail.Sender, log *zap.Logger, cfg Config) *Service {
	return &Service{
		backend: backend,
		store:   st,
		mail:    sender,
		log:     log,
		cfg:     cfg.withDefaults(),
	}
}

// CreateParams describes a gift card to create.
type CreateParams struct {
	Amount         string
	RecipientEmail string
	SenderName     string
	Message        string
	Template       giftcard.Template
}

// CreateResult reports a verified creation. Verified is always true on
// success; Stored and EmailSent flag the best-effort steps that run after
// verification.
type CreateResult struct {
	Card      *giftcard.Card
	Fee       string
	Verified  bool
	Stored    bool
	EmailSent bool
}

// Create runs the full creation flow: validate, generate a code, pre-check
// fee, allowance and balance, submit the escrow transaction, verify the card
// on chain, then persist it and email the recipient. The record is stored and
// the code mailed only once the card reads back from the contract with the
// requested amount.
func (s *Service) Create(ctx context.Context, p CreateParams) (*CreateResult, error) {
	amount, err := giftcard.ParseAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	if !giftcard.ValidEmail(p.RecipientEmail) {
		return nil, fmt.Errorf("invalid recipient email: %q", p.RecipientEmail)
	}
	tpl := giftcard.ParseTemplate(string(p.Template))

	fee := s.fee(ctx, amount)
	total := new(big.Int).Add(amount, fee)

	operator := s.backend.Operator()
	allowance, err := s.backend.Allowance(ctx, operator)
	if err != nil {
		return nil, fmt.Errorf("read allowance: %w", err)
	}
	if allowance.Cmp(total) < 0 {
		return nil, giftcard.ErrInsufficientAllowance
	}
	balance, err := s.backend.BalanceOf(ctx, operator)
	if err != nil {
		return nil, fmt.Errorf("read balance: %w", err)
	}
	if balance.Cmp(total) < 0 {
		return nil, giftcard.ErrInsufficientBalance
	}

	// A code hash collision surfaces as ErrCodeAlreadyUsed; regenerate and
	// retry instead of failing the request.
	var code string
	var codeHash common.Hash
	var rcpt *giftcard.Receipt
	for attempt := 0; attempt < 3; attempt++ {
		code, err = giftcard.GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}
		codeHash = giftcard.HashCode(code)

		rcpt, err = s.backend.CreateGiftCard(ctx, codeHash, amount)
		if err == nil {
			break
		}
		if errors.Is(err, giftcard.ErrCodeAlreadyUsed) {
			s.log.Warn("code hash collision, regenerating", zap.String("code_hash", codeHash.Hex()))
			continue
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if err := s.verify(ctx, codeHash, amount); err != nil {
		s.log.Error("created card failed verification",
			zap.String("code_hash", codeHash.Hex()),
			zap.String("tx", rcpt.TxHash.Hex()),
			zap.Error(err))
		return nil, err
	}
	res := &CreateResult{Fee: giftcard.FormatAmount(fee), Verified: true}

	card := &giftcard.Card{
		RedemptionCode:  code,
		CodeHash:        codeHash.Hex(),
		Amount:          giftcard.FormatAmount(amount),
		Creator:         operator.Hex(),
		RecipientEmail:  p.RecipientEmail,
		Message:         p.Message,
		Template:        tpl,
		Status:          giftcard.StatusPending,
		BlockNumber:     rcpt.BlockNumber,
		TransactionHash: rcpt.TxHash.Hex(),
	}
	res.Card = card

	if err := s.store.Insert(ctx, card); err != nil {
		s.log.Error("store insert failed after confirmed tx",
			zap.String("code_hash", card.CodeHash), zap.Error(err))
	} else {
		res.Stored = true
	}

	if err := s.mail.SendGiftCard(ctx, mail.GiftCardEmail{
		To:             p.RecipientEmail,
		RedemptionCode: code,
		Amount:         card.Amount,
		SenderName:     p.SenderName,
		Message:        p.Message,
		Template:       tpl,
	}); err != nil {
		s.log.Error("notification email failed",
			zap.String("to", p.RecipientEmail), zap.Error(err))
	} else {
		res.EmailSent = true
	}

	return res, nil
}

// fee reads the creation fee from the contract, falling back to the local
// rate when the read fails.
func (s *Service) fee(ctx context.Context, amount *big.Int) *big.Int {
	fee, err := s.backend.CalculateFee(ctx, amount)
	if err == nil {
		return fee
	}
	s.log.Warn("contract fee read failed, using local rate", zap.Error(err))
	fee = new(big.Int).Mul(amount, new(big.Int).SetUint64(s.cfg.FeeBasisPoints))
	return fee.Div(fee, big.NewInt(10000))
}

// verify reads the card back after the creation transaction confirms. It
// fails with ErrNotVerified when the card never reads back valid within the
// attempt budget, and with ErrAmountMismatch when the escrowed amount differs
// from the requested one.
func (s *Service) verify(ctx context.Context, codeHash common.Hash, amount *big.Int) error {
	sleep(ctx, s.cfg.SettleDelay)
	for attempt := 0; attempt < s.cfg.VerifyAttempts; attempt++ {
		if attempt > 0 {
			sleep(ctx, s.cfg.VerifyDelay)
		}
		valid, onChain, err := s.backend.CheckGiftCard(ctx, codeHash)
		if err != nil {
			s.log.Warn("verification read failed", zap.Int("attempt", attempt+1), zap.Error(err))
			continue
		}
		if !valid {
			continue
		}
		if onChain.Cmp(amount) != 0 {
			return fmt.Errorf("%w: escrowed %s, requested %s", giftcard.ErrAmountMismatch,
				giftcard.FormatAmount(onChain), giftcard.FormatAmount(amount))
		}
		return nil
	}
	return giftcard.ErrNotVerified
}

// RedeemParams describes a redemption attempt. A non-zero Payout forwards the
// redeemed cUSD from the operator to that address.
type RedeemParams struct {
	Code   string
	Payout common.Address
}

// RedeemResult reports the classified outcome of a redemption.
type RedeemResult struct {
	Status    RedeemStatus
	Card      *giftcard.Card
	Amount    string
	TxHash    string
	Forwarded bool
}

// Redeem attempts to redeem a code: store pre-check, chain pre-check, escrow
// transaction, store transition, optional payout. Classified failures come
// back as a status, not an error.
func (s *Service) Redeem(ctx context.Context, p RedeemParams) (*RedeemResult, error) {
	code := strings.ToUpper(strings.TrimSpace(p.Code))
	if !giftcard.ValidCode(code) {
		return &RedeemResult{Status: RedeemInvalid}, nil
	}
	codeHash := giftcard.HashCode(code)

	card, err := s.store.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if card != nil && card.Status != giftcard.StatusPending {
		return &RedeemResult{Status: RedeemInvalid, Card: card}, nil
	}

	valid, _, err := s.backend.CheckGiftCard(ctx, codeHash)
	if err != nil {
		s.log.Warn("chain pre-check failed, submitting anyway", zap.Error(err))
	} else if !valid {
		return &RedeemResult{Status: RedeemInvalid, Card: card}, nil
	}

	amount, rcpt, err := s.backend.RedeemGiftCard(ctx, code)
	if err != nil {
		status := classifyRedeemError(err)
		s.log.Info("redemption failed",
			zap.String("code_hash", codeHash.Hex()),
			zap.String("status", string(status)),
			zap.Error(err))
		return &RedeemResult{Status: status, Card: card}, nil
	}

	res := &RedeemResult{
		Status: RedeemSuccess,
		Amount: giftcard.FormatAmount(amount),
		TxHash: rcpt.TxHash.Hex(),
	}

	redeemer := s.backend.Operator()
	if p.Payout != (common.Address{}) {
		redeemer = p.Payout
	}
	updated, err := s.store.Redeem(ctx, code, redeemer.Hex(), rcpt.TxHash.Hex(), rcpt.BlockNumber)
	if err != nil {
		// The chain transition already happened; the synchronizer will
		// reconcile the store.
		s.log.Error("store redeem update failed after confirmed tx",
			zap.String("code_hash", codeHash.Hex()), zap.Error(err))
	} else {
		res.Card = updated
	}

	if p.Payout != (common.Address{}) && p.Payout != s.backend.Operator() {
		if _, err := s.backend.Transfer(ctx, p.Payout, amount); err != nil {
			s.log.Error("payout transfer failed, funds held by operator",
				zap.String("payout", p.Payout.Hex()), zap.Error(err))
		} else {
			res.Forwarded = true
		}
	}

	return res, nil
}

// Check probes whether a code is redeemable without touching state.
func (s *Service) Check(ctx context.Context, code string) (bool, string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !giftcard.ValidCode(code) {
		return false, "0", nil
	}
	valid, amount, err := s.backend.CheckGiftCard(ctx, giftcard.HashCode(code))
	if err != nil {
		return false, "0", err
	}
	return valid, giftcard.FormatAmount(amount), nil
}

// Approve grants the escrow contract a cUSD allowance from the operator.
func (s *Service) Approve(ctx context.Context, rawAmount string) (*giftcard.Receipt, error) {
	amount, err := giftcard.ParseAmount(rawAmount)
	if err != nil {
		return nil, err
	}
	return s.backend.Approve(ctx, amount)
}

// Resend re-sends the notification email for a pending card.
func (s *Service) Resend(ctx context.Context, code string) (*giftcard.Card, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	card, err := s.store.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, store.ErrNotFound
	}
	if card.Status != giftcard.StatusPending {
		return nil, giftcard.ErrAlreadyRedeemed
	}
	if err := s.mail.SendGiftCard(ctx, mail.GiftCardEmail{
		To:             card.RecipientEmail,
		RedemptionCode: card.RedemptionCode,
		Amount:         card.Amount,
		Message:        card.Message,
		Template:       card.Template,
	}); err != nil {
		return nil, err
	}
	return card, nil
}

// SendEmail delivers an ad-hoc gift card notification.
func (s *Service) SendEmail(ctx context.Context, g mail.GiftCardEmail) error {
	return s.mail.SendGiftCard(ctx, g)
}

// classifyRedeemError maps submission failures onto the redemption statuses.
func classifyRedeemError(err error) RedeemStatus {
	switch {
	case errors.Is(err, giftcard.ErrCardNotFound),
		errors.Is(err, giftcard.ErrAlreadyRedeemed):
		return RedeemInvalid
	case errors.Is(err, giftcard.ErrInsufficientBalance):
		return RedeemInsufficientFunds
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient funds"):
		return RedeemInsufficientFunds
	case strings.Contains(msg, "user rejected"), strings.Contains(msg, "user denied"):
		return RedeemRejected
	}
	return RedeemError
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
