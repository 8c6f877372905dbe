package chainsync

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/unwrap-cash/unwrap/internal/giftcard"
	"github.com/unwrap-cash/unwrap/internal/ledger"
	"github.com/unwrap-cash/unwrap/internal/store"
)

var (
	operator     = common.HexToAddress("0x1111111111111111111111111111111111111111")
	escrowAddr   = common.HexToAddress("0x2222222222222222222222222222222222222222")
	feeCollector = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

type fixture struct {
	r       *Runner
	backend *ledger.Backend
	st      *store.Store
	mr      *miniredis.Miniredis
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	token := ledger.NewToken()
	token.Mint(operator, big.NewInt(1_000_000))
	token.Approve(operator, escrowAddr, big.NewInt(1_000_000))
	backend := ledger.NewBackend(ledger.NewEscrow(token, escrowAddr, feeCollector, 0), operator)

	mr := miniredis.RunT(t)
	st := store.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 0)
	return fixture{
		r:       NewRunner(backend, st, zap.NewNop(), time.Second),
		backend: backend,
		st:      st,
		mr:      mr,
	}
}

// createOnChainAndStore escrows a card and inserts its store record without
// block provenance, as if the create flow's store write raced the sync.
func createOnChainAndStore(t *testing.T, backend *ledger.Backend, st *store.Store, code string) {
	t.Helper()
	ctx := context.Background()
	if _, err := backend.CreateGiftCard(ctx, giftcard.HashCode(code), big.NewInt(1000)); err != nil {
		t.Fatalf("CreateGiftCard: %v", err)
	}
	if err := st.Insert(ctx, &giftcard.Card{
		RedemptionCode: code,
		CodeHash:       giftcard.HashCode(code).Hex(),
		Amount:         "1000",
		Creator:        operator.Hex(),
		RecipientEmail: "friend@example.com",
		Status:         giftcard.StatusPending,
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
}

func TestSyncOnce_PatchesCreationProvenance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	createOnChainAndStore(t, f.backend, f.st, "AAAA-BBBB-CCCC-DDDD")

	if err := f.r.SyncOnce(ctx); err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}

	card, _ := f.st.FindByCode(ctx, "AAAA-BBBB-CCCC-DDDD")
	if card.BlockNumber == 0 || card.TransactionHash == "" {
		t.Errorf("provenance not patched: %+v", card)
	}

	head, _ := f.backend.HeadBlock(ctx)
	if last, _ := f.st.LastSyncedBlock(ctx); last != head {
		t.Errorf("mark = %d, want head %d", last, head)
	}
}

func TestSyncOnce_AppliesRedemption(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	createOnChainAndStore(t, f.backend, f.st, "AAAA-BBBB-CCCC-DDDD")

	// Redeem on chain only, as if the service's store update failed.
	if _, _, err := f.backend.RedeemGiftCard(ctx, "AAAA-BBBB-CCCC-DDDD"); err != nil {
		t.Fatalf("RedeemGiftCard: %v", err)
	}

	if err := f.r.SyncOnce(ctx); err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}

	card, _ := f.st.FindByCode(ctx, "AAAA-BBBB-CCCC-DDDD")
	if card.Status != giftcard.StatusRedeemed {
		t.Fatalf("status = %q", card.Status)
	}
	if card.RedeemedBy != operator.Hex() || card.RedemptionBlockNumber == 0 {
		t.Errorf("redemption provenance: %+v", card)
	}
}

func TestSyncOnce_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	createOnChainAndStore(t, f.backend, f.st, "AAAA-BBBB-CCCC-DDDD")
	if _, _, err := f.backend.RedeemGiftCard(ctx, "AAAA-BBBB-CCCC-DDDD"); err != nil {
		t.Fatalf("RedeemGiftCard: %v", err)
	}

	if err := f.r.SyncOnce(ctx); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	first, _ := f.st.FindByCode(ctx, "AAAA-BBBB-CCCC-DDDD")

	// Drop the high-water mark to force a rescan of the same range.
	f.mr.Del("giftcard:last_block")
	if err := f.r.SyncOnce(ctx); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	second, _ := f.st.FindByCode(ctx, "AAAA-BBBB-CCCC-DDDD")

	if *first != *second {
		t.Errorf("second pass changed the record:\n first %+v\nsecond %+v", first, second)
	}
}

func TestSyncOnce_NoNewBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	createOnChainAndStore(t, f.backend, f.st, "AAAA-BBBB-CCCC-DDDD")

	if err := f.r.SyncOnce(ctx); err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}
	before, _ := f.st.LastSyncedBlock(ctx)
	if err := f.r.SyncOnce(ctx); err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}
	after, _ := f.st.LastSyncedBlock(ctx)
	if before != after {
		t.Errorf("mark moved without new blocks: %d -> %d", before, after)
	}
}

func TestSyncOnce_InsertsUnknownCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hash := giftcard.HashCode("EEEE-FFFF-GGGG-HHHH")

	// On chain only, no store record.
	if _, err := f.backend.CreateGiftCard(ctx, hash, big.NewInt(500)); err != nil {
		t.Fatalf("CreateGiftCard: %v", err)
	}

	if err := f.r.SyncOnce(ctx); err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}

	card, err := f.st.FindByCodeHash(ctx, hash.Hex())
	if err != nil || card == nil {
		t.Fatalf("record not inserted: %+v, %v", card, err)
	}
	if card.Status != giftcard.StatusPending || card.Creator != operator.Hex() {
		t.Errorf("record = %+v", card)
	}
	if card.RedemptionCode != "" {
		t.Errorf("plaintext code cannot come from an event: %q", card.RedemptionCode)
	}

	// Rescanning the same range neither duplicates nor alters the record.
	f.mr.Del("giftcard:last_block")
	if err := f.r.SyncOnce(ctx); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	again, _ := f.st.FindByCodeHash(ctx, hash.Hex())
	if *again != *card {
		t.Errorf("second pass altered the record:\n first %+v\nsecond %+v", card, again)
	}

	head, _ := f.backend.HeadBlock(ctx)
	if last, _ := f.st.LastSyncedBlock(ctx); last != head {
		t.Errorf("mark = %d, want %d", last, head)
	}
}

func TestSyncOnce_InsertsUnknownRedemption(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hash := giftcard.HashCode("IIII-JJJJ-KKKK-LLLL")

	if _, err := f.backend.CreateGiftCard(ctx, hash, big.NewInt(500)); err != nil {
		t.Fatalf("CreateGiftCard: %v", err)
	}
	if _, _, err := f.backend.RedeemGiftCard(ctx, "IIII-JJJJ-KKKK-LLLL"); err != nil {
		t.Fatalf("RedeemGiftCard: %v", err)
	}

	if err := f.r.SyncOnce(ctx); err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}

	card, _ := f.st.FindByCodeHash(ctx, hash.Hex())
	if card == nil || card.Status != giftcard.StatusRedeemed {
		t.Fatalf("record = %+v", card)
	}
	if card.RedeemedBy != operator.Hex() || card.RedemptionBlockNumber == 0 {
		t.Errorf("redemption provenance: %+v", card)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		f.r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
