package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/unwrap-cash/unwrap/internal/giftcard"
	"github.com/unwrap-cash/unwrap/internal/ledger"
	"github.com/unwrap-cash/unwrap/internal/mail"
	"github.com/unwrap-cash/unwrap/internal/orchestrator"
	"github.com/unwrap-cash/unwrap/internal/store"
)

var (
	operator     = common.HexToAddress("0x1111111111111111111111111111111111111111")
	escrowAddr   = common.HexToAddress("0x2222222222222222222222222222222222222222")
	feeCollector = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func cusd(whole int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(whole), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

type fakeSender struct {
	mu   sync.Mutex
	sent []mail.GiftCardEmail
	fail bool
}

func (f *fakeSender) SendGiftCard(_ context.Context, g mail.GiftCardEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, g)
	return nil
}

type testEnv struct {
	router  *gin.Engine
	backend *ledger.Backend
	store   *store.Store
	sender  *fakeSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	token := ledger.NewToken()
	token.Mint(operator, cusd(1000))
	token.Approve(operator, escrowAddr, cusd(500))
	backend := ledger.NewBackend(ledger.NewEscrow(token, escrowAddr, feeCollector, 50), operator)

	mr := miniredis.RunT(t)
	st := store.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 0)

	sender := &fakeSender{}
	svc := orchestrator.New(backend, st, sender, zap.NewNop(), orchestrator.Config{
		VerifyAttempts: 1,
		VerifyDelay:    time.Millisecond,
		SettleDelay:    time.Millisecond,
	})

	r := gin.New()
	NewHandler(svc, st, backend, zap.NewNop()).Register(r.Group("/api"))
	return &testEnv{router: r, backend: backend, store: st, sender: sender}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return m
}

func pendingCard(code string) *giftcard.Card {
	return &giftcard.Card{
		RedemptionCode: code,
		Amount:         "100",
		Creator:        operator.Hex(),
		RecipientEmail: "friend@example.com",
		Status:         giftcard.StatusPending,
	}
}

func TestInsertRecord(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/gift-cards", pendingCard("AAAA-BBBB-CCCC-DDDD"))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	// Same code again conflicts.
	w = e.do(t, http.MethodPost, "/api/gift-cards", pendingCard("AAAA-BBBB-CCCC-DDDD"))
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate: status = %d", w.Code)
	}

	// A record needs a code or a hash.
	w = e.do(t, http.MethodPost, "/api/gift-cards", map[string]string{"amount": "5"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty record: status = %d", w.Code)
	}
}

func TestGetRecord(t *testing.T) {
	e := newTestEnv(t)
	if err := e.store.Insert(context.Background(), pendingCard("AAAA-BBBB-CCCC-DDDD")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	w := e.do(t, http.MethodGet, "/api/gift-cards?code=AAAA-BBBB-CCCC-DDDD", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["redemptionCode"] != "AAAA-BBBB-CCCC-DDDD" || body["status"] != "pending" {
		t.Errorf("body = %v", body)
	}

	if w := e.do(t, http.MethodGet, "/api/gift-cards", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing code: status = %d", w.Code)
	}
	if w := e.do(t, http.MethodGet, "/api/gift-cards?code=NOPE-NOPE-NOPE-NOPE", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown code: status = %d", w.Code)
	}
}

func TestUpdateRecord(t *testing.T) {
	e := newTestEnv(t)
	if err := e.store.Insert(context.Background(), pendingCard("AAAA-BBBB-CCCC-DDDD")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	w := e.do(t, http.MethodPut, "/api/gift-cards?code=AAAA-BBBB-CCCC-DDDD",
		map[string]string{"message": "happy birthday"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if body := decode(t, w); body["message"] != "happy birthday" {
		t.Errorf("body = %v", body)
	}

	w = e.do(t, http.MethodPut, "/api/gift-cards?code=NOPE-NOPE-NOPE-NOPE",
		map[string]string{"message": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown code: status = %d", w.Code)
	}
}

func TestCheckRecord(t *testing.T) {
	e := newTestEnv(t)
	card := pendingCard("AAAA-BBBB-CCCC-DDDD")
	card.BlockNumber = 42
	card.TransactionHash = "0xdeadbeef"
	if err := e.store.Insert(context.Background(), card); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	w := e.do(t, http.MethodPost, "/api/gift-card/check", map[string]string{"code": "AAAA-BBBB-CCCC-DDDD"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["status"] != "pending" || body["amount"] != "100" || body["transactionHash"] != "0xdeadbeef" {
		t.Errorf("body = %v", body)
	}

	w = e.do(t, http.MethodPost, "/api/gift-card/check", map[string]string{"code": "NOPE-NOPE-NOPE-NOPE"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown code: status = %d", w.Code)
	}
}

func TestRedeemRecord_ConcurrentExactlyOne200(t *testing.T) {
	e := newTestEnv(t)
	if err := e.store.Insert(context.Background(), pendingCard("RACE-RACE-RACE-RACE")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	const n = 8
	var wg sync.WaitGroup
	codes := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := e.do(t, http.MethodPost, "/api/gift-cards/redeem", map[string]interface{}{
				"code":       "RACE-RACE-RACE-RACE",
				"redeemedBy": "0xBBBB",
			})
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	ok, bad := 0, 0
	for _, c := range codes {
		switch c {
		case http.StatusOK:
			ok++
		case http.StatusBadRequest:
			bad++
		default:
			t.Errorf("unexpected status %d", c)
		}
	}
	if ok != 1 || bad != n-1 {
		t.Fatalf("got %d successes and %d rejections, want 1 and %d", ok, bad, n-1)
	}
}

func TestRedeemRecord(t *testing.T) {
	e := newTestEnv(t)
	if err := e.store.Insert(context.Background(), pendingCard("AAAA-BBBB-CCCC-DDDD")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	w := e.do(t, http.MethodPost, "/api/gift-cards/redeem", map[string]interface{}{
		"code":            "AAAA-BBBB-CCCC-DDDD",
		"redeemedBy":      "0xBBBB",
		"transactionHash": "0xfeedface",
		"blockNumber":     77,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["status"] != "redeemed" || body["redeemedBy"] != "0xBBBB" {
		t.Errorf("body = %v", body)
	}

	// Unknown codes and double redeems both come back 400.
	w = e.do(t, http.MethodPost, "/api/gift-cards/redeem", map[string]string{"code": "AAAA-BBBB-CCCC-DDDD"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("double redeem: status = %d", w.Code)
	}
	w = e.do(t, http.MethodPost, "/api/gift-cards/redeem", map[string]string{"code": "NOPE-NOPE-NOPE-NOPE"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown code: status = %d", w.Code)
	}
}

func TestResend(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	if err := e.store.Insert(ctx, pendingCard("AAAA-BBBB-CCCC-DDDD")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	w := e.do(t, http.MethodPost, "/api/gift-cards/resend", map[string]string{"code": "AAAA-BBBB-CCCC-DDDD"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(e.sender.sent) != 1 || e.sender.sent[0].To != "friend@example.com" {
		t.Errorf("sent = %+v", e.sender.sent)
	}

	if w := e.do(t, http.MethodPost, "/api/gift-cards/resend", map[string]string{"code": "NOPE-NOPE-NOPE-NOPE"}); w.Code != http.StatusNotFound {
		t.Errorf("unknown code: status = %d", w.Code)
	}

	if _, err := e.store.Redeem(ctx, "AAAA-BBBB-CCCC-DDDD", "0xB", "", 0); err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if w := e.do(t, http.MethodPost, "/api/gift-cards/resend", map[string]string{"code": "AAAA-BBBB-CCCC-DDDD"}); w.Code != http.StatusBadRequest {
		t.Errorf("redeemed card: status = %d", w.Code)
	}
}

func TestSendEmailEndpoint(t *testing.T) {
	e := newTestEnv(t)

	req := map[string]string{
		"to":             "friend@example.com",
		"redemptionCode": "AAAA-BBBB-CCCC-DDDD",
		"amount":         "25",
		"sender":         "Alice",
		"template":       "birthday",
	}
	w := e.do(t, http.MethodPost, "/api/email", req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(e.sender.sent) != 1 || e.sender.sent[0].Template != giftcard.TemplateBirthday {
		t.Errorf("sent = %+v", e.sender.sent)
	}

	for _, missing := range []string{"to", "redemptionCode", "amount", "sender"} {
		bad := map[string]string{}
		for k, v := range req {
			if k != missing {
				bad[k] = v
			}
		}
		if w := e.do(t, http.MethodPost, "/api/email", bad); w.Code != http.StatusBadRequest {
			t.Errorf("missing %s: status = %d", missing, w.Code)
		}
	}

	e.sender.fail = true
	if w := e.do(t, http.MethodPost, "/api/email", req); w.Code != http.StatusInternalServerError {
		t.Errorf("sender failure: status = %d", w.Code)
	}
}

func TestSendFlow(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/gift-cards/send", map[string]string{
		"amount":         "100",
		"recipientEmail": "friend@example.com",
		"senderName":     "Alice",
		"message":        "enjoy",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["fee"] != "0.5" || body["stored"] != true || body["emailSent"] != true {
		t.Errorf("body = %v", body)
	}
	card := body["giftCard"].(map[string]interface{})
	code, _ := card["redemptionCode"].(string)
	if !giftcard.ValidCode(code) {
		t.Fatalf("invalid code in response: %q", code)
	}

	// The card is live on chain and claimable.
	w = e.do(t, http.MethodPost, "/api/gift-cards/claim", map[string]string{"code": code})
	if w.Code != http.StatusOK {
		t.Fatalf("claim: status = %d, body %s", w.Code, w.Body.String())
	}
	if body := decode(t, w); body["status"] != "success" || body["amount"] != "100" {
		t.Errorf("claim body = %v", body)
	}
}

func TestSendFlow_Validation(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/gift-cards/send", map[string]string{
		"amount":         "abc",
		"recipientEmail": "friend@example.com",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad amount: status = %d", w.Code)
	}

	w = e.do(t, http.MethodPost, "/api/gift-cards/send", map[string]string{
		"amount":         "100",
		"recipientEmail": "not-an-email",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad email: status = %d", w.Code)
	}

	// 600 exceeds the 500 cUSD allowance.
	w = e.do(t, http.MethodPost, "/api/gift-cards/send", map[string]string{
		"amount":         "600",
		"recipientEmail": "friend@example.com",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("over allowance: status = %d", w.Code)
	}
	if body := decode(t, w); body["code"] != "insufficient_allowance" {
		t.Errorf("body = %v", body)
	}
}

// unverifiedBackend reports every card as absent, as if the node never
// catches up with the creation transaction.
type unverifiedBackend struct{ *ledger.Backend }

func (b *unverifiedBackend) CheckGiftCard(context.Context, common.Hash) (bool, *big.Int, error) {
	return false, big.NewInt(0), nil
}

func TestSendFlow_VerificationTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	token := ledger.NewToken()
	token.Mint(operator, cusd(1000))
	token.Approve(operator, escrowAddr, cusd(500))
	bk := &unverifiedBackend{ledger.NewBackend(ledger.NewEscrow(token, escrowAddr, feeCollector, 50), operator)}

	mr := miniredis.RunT(t)
	st := store.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 0)
	sender := &fakeSender{}
	svc := orchestrator.New(bk, st, sender, zap.NewNop(), orchestrator.Config{
		VerifyAttempts: 1,
		VerifyDelay:    time.Millisecond,
		SettleDelay:    time.Millisecond,
	})
	r := gin.New()
	NewHandler(svc, st, bk, zap.NewNop()).Register(r.Group("/api"))
	env := &testEnv{router: r, store: st, sender: sender}

	w := env.do(t, http.MethodPost, "/api/gift-cards/send", map[string]string{
		"amount":         "100",
		"recipientEmail": "friend@example.com",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if body := decode(t, w); body["code"] != "verification_timeout" {
		t.Errorf("body = %v", body)
	}
	// The code never leaves the service for an unconfirmed card.
	if len(sender.sent) != 0 {
		t.Errorf("emails sent = %d", len(sender.sent))
	}
}

func TestClaim_InvalidCode(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/gift-cards/claim", map[string]string{"code": "NOPE-NOPE-NOPE-NOPE"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if body := decode(t, w); body["status"] != "invalid" {
		t.Errorf("body = %v", body)
	}

	w = e.do(t, http.MethodPost, "/api/gift-cards/claim", map[string]string{
		"code":   "NOPE-NOPE-NOPE-NOPE",
		"payout": "not-an-address",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad payout: status = %d", w.Code)
	}
}

func TestDetails(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	code := "AAAA-BBBB-CCCC-DDDD"
	if _, err := e.backend.CreateGiftCard(ctx, giftcard.HashCode(code), cusd(100)); err != nil {
		t.Fatalf("CreateGiftCard: %v", err)
	}
	if err := e.store.Insert(ctx, pendingCard(code)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	w := e.do(t, http.MethodGet, "/api/gift-cards/details?code="+code, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["valid"] != true || body["blockchainAmount"] != "100" {
		t.Errorf("body = %v", body)
	}

	if w := e.do(t, http.MethodGet, "/api/gift-cards/details?code=NOPE-NOPE-NOPE-NOPE", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown code: status = %d", w.Code)
	}
}

func TestWallet(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/api/wallet", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["address"] != operator.Hex() || body["balance"] != "1000" || body["allowance"] != "500" {
		t.Errorf("body = %v", body)
	}

	w = e.do(t, http.MethodPost, "/api/wallet/approve", map[string]string{"amount": "750"})
	if w.Code != http.StatusOK {
		t.Fatalf("approve: status = %d, body %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodGet, "/api/wallet", nil)
	if body := decode(t, w); body["allowance"] != "750" {
		t.Errorf("allowance after approve = %v", body["allowance"])
	}

	if w := e.do(t, http.MethodPost, "/api/wallet/approve", map[string]string{"amount": "abc"}); w.Code != http.StatusBadRequest {
		t.Errorf("bad amount: status = %d", w.Code)
	}
}
