// Package chainsync reconciles the Redis store against the contract event
// log. The chain is authoritative: creations missing provenance get patched
// and redemptions that bypassed the service (or whose store update failed)
// get applied. Passes are idempotent, so overlapping ranges are harmless.
package chainsync

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/unwrap-cash/unwrap/internal/giftcard"
	"github.com/unwrap-cash/unwrap/internal/store"
)

// Source reads the contract event log.
type Source interface {
	HeadBlock(ctx context.Context) (uint64, error)
	CreatedEvents(ctx context.Context, from, to uint64) ([]giftcard.CreatedEvent, error)
	RedeemedEvents(ctx context.Context, from, to uint64) ([]giftcard.RedeemedEvent, error)
}

// Runner periodically replays contract events into the store.
type Runner struct {
	src      Source
	store    *store.Store
	log      *zap.Logger
	interval time.Duration
}

func NewRunner(src Source, st *store.Store, log *zap.Logger, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Runner{src: src, store: st, log: log, interval: interval}
}

// Run syncs immediately, then on every tick until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	if err := r.SyncOnce(ctx); err != nil {
		r.log.Error("event sync failed", zap.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.SyncOnce(ctx); err != nil {
				r.log.Error("event sync failed", zap.Error(err))
			}
		}
	}
}

// SyncOnce replays events from the block after the high-water mark up to the
// current head. Individual event failures are logged and skipped; the mark
// only advances when the whole pass succeeds.
func (r *Runner) SyncOnce(ctx context.Context) error {
	last, err := r.store.LastSyncedBlock(ctx)
	if err != nil {
		return err
	}
	head, err := r.src.HeadBlock(ctx)
	if err != nil {
		return err
	}
	if head <= last {
		return nil
	}
	from := last + 1

	created, err := r.src.CreatedEvents(ctx, from, head)
	if err != nil {
		return err
	}
	for _, ev := range created {
		r.applyCreated(ctx, ev)
	}

	redeemed, err := r.src.RedeemedEvents(ctx, from, head)
	if err != nil {
		return err
	}
	for _, ev := range redeemed {
		r.applyRedeemed(ctx, ev)
	}

	return r.store.BumpLastBlock(ctx, head)
}

func (r *Runner) applyCreated(ctx context.Context, ev giftcard.CreatedEvent) {
	if ev.CodeHash == (common.Hash{}) {
		r.log.Warn("skipping creation event with empty code hash",
			zap.Uint64("block", ev.BlockNumber))
		return
	}
	card, err := r.store.FindByCodeHash(ctx, ev.CodeHash.Hex())
	if err != nil {
		r.log.Error("lookup by code hash failed",
			zap.String("code_hash", ev.CodeHash.Hex()), zap.Error(err))
		return
	}
	if card == nil {
		// The plaintext code never reached the store; reconstruct what the
		// event carries. The recipient email and code are unrecoverable.
		if err := r.store.Insert(ctx, &giftcard.Card{
			CodeHash:        ev.CodeHash.Hex(),
			Amount:          giftcard.FormatAmount(ev.Amount),
			Creator:         ev.Creator.Hex(),
			Status:          giftcard.StatusPending,
			BlockNumber:     ev.BlockNumber,
			TransactionHash: ev.TxHash.Hex(),
		}); err != nil && !errors.Is(err, store.ErrDuplicate) {
			r.log.Error("inserting record from creation event failed",
				zap.String("code_hash", ev.CodeHash.Hex()), zap.Error(err))
		}
		return
	}
	if card.BlockNumber == ev.BlockNumber && card.TransactionHash == ev.TxHash.Hex() {
		return
	}
	if _, err := r.store.UpdateByCodeHash(ctx, card.CodeHash, map[string]string{
		"block_number":     strconv.FormatUint(ev.BlockNumber, 10),
		"transaction_hash": ev.TxHash.Hex(),
	}); err != nil {
		r.log.Error("patching creation provenance failed",
			zap.String("code_hash", ev.CodeHash.Hex()), zap.Error(err))
	}
}

func (r *Runner) applyRedeemed(ctx context.Context, ev giftcard.RedeemedEvent) {
	card, err := r.store.FindByCodeHash(ctx, ev.CodeHash.Hex())
	if err != nil {
		r.log.Error("lookup by code hash failed",
			zap.String("code_hash", ev.CodeHash.Hex()), zap.Error(err))
		return
	}
	if card == nil {
		// Redemption of a card the store never saw: record the terminal
		// state directly.
		if err := r.store.Insert(ctx, &giftcard.Card{
			CodeHash:                  ev.CodeHash.Hex(),
			Amount:                    giftcard.FormatAmount(ev.Amount),
			Status:                    giftcard.StatusRedeemed,
			RedeemedAt:                time.Now().Unix(),
			RedeemedBy:                ev.Redeemer.Hex(),
			RedemptionBlockNumber:     ev.BlockNumber,
			RedemptionTransactionHash: ev.TxHash.Hex(),
		}); err != nil && !errors.Is(err, store.ErrDuplicate) {
			r.log.Error("inserting record from redemption event failed",
				zap.String("code_hash", ev.CodeHash.Hex()), zap.Error(err))
		}
		return
	}
	if card.Status == giftcard.StatusRedeemed {
		return
	}
	_, err = r.store.RedeemByHash(ctx, card.CodeHash, ev.Redeemer.Hex(), ev.TxHash.Hex(), ev.BlockNumber)
	if err != nil && !errors.Is(err, store.ErrNotPending) {
		r.log.Error("applying redemption event failed",
			zap.String("code_hash", ev.CodeHash.Hex()), zap.Error(err))
	}
}
