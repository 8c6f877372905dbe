// Package api exposes the gift card HTTP surface: record-level CRUD over the
// store, the orchestrated send/claim flows, and wallet helpers.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unwrap-cash/unwrap/internal/giftcard"
	"github.com/unwrap-cash/unwrap/internal/mail"
	"github.com/unwrap-cash/unwrap/internal/orchestrator"
	"github.com/unwrap-cash/unwrap/internal/store"
)

// Handler wires up all gift card routes onto a Gin engine.
type Handler struct {
	svc     *orchestrator.Service
	store   *store.Store
	backend orchestrator.Backend
	log     *zap.Logger
}

func NewHandler(svc *orchestrator.Service, st *store.Store, backend orchestrator.Backend, log *zap.Logger) *Handler {
	return &Handler{svc: svc, store: st, backend: backend, log: log}
}

// Register mounts all routes on the group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	// Record-level store operations.
	rg.POST("/gift-cards", h.handleInsert)
	rg.GET("/gift-cards", h.handleGet)
	rg.PUT("/gift-cards", h.handleUpdate)
	rg.POST("/gift-card/check", h.handleCheck)
	rg.POST("/gift-cards/redeem", h.handleRedeemRecord)
	rg.POST("/gift-cards/resend", h.handleResend)
	rg.POST("/email", h.handleEmail)

	// Orchestrated flows and chain views.
	rg.POST("/gift-cards/send", h.handleSend)
	rg.POST("/gift-cards/claim", h.handleClaim)
	rg.GET("/gift-cards/details", h.handleDetails)
	rg.GET("/wallet", h.handleWallet)
	rg.POST("/wallet/approve", h.handleApprove)
}

// handleInsert writes an off-chain record directly.
func (h *Handler) handleInsert(c *gin.Context) {
	var card giftcard.Card
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if card.RedemptionCode == "" && card.CodeHash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "redemptionCode or codeHash required"})
		return
	}

	if err := h.store.Insert(c.Request.Context(), &card); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "gift card already exists"})
			return
		}
		h.log.Error("insert gift card failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store error"})
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *Handler) handleGet(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Query("code")))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code query parameter required"})
		return
	}
	card, err := h.store.FindByCode(c.Request.Context(), code)
	if err != nil {
		h.log.Error("find gift card failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store error"})
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "gift card not found"})
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) handleUpdate(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Query("code")))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code query parameter required"})
		return
	}
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	card, err := h.store.UpdateByCode(c.Request.Context(), code, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "gift card not found"})
			return
		}
		h.log.Error("update gift card failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store error"})
		return
	}
	c.JSON(http.StatusOK, card)
}

type codeRequest struct {
	Code string `json:"code"`
}

// handleCheck probes a record's status and provenance.
func (h *Handler) handleCheck(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code required"})
		return
	}
	card, err := h.store.FindByCode(c.Request.Context(), strings.ToUpper(strings.TrimSpace(req.Code)))
	if err != nil {
		h.log.Error("check gift card failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store error"})
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "gift card not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":                    card.Status,
		"amount":                    card.Amount,
		"blockNumber":               card.BlockNumber,
		"transactionHash":           card.TransactionHash,
		"redemptionBlockNumber":     card.RedemptionBlockNumber,
		"redemptionTransactionHash": card.RedemptionTransactionHash,
	})
}

type redeemRecordRequest struct {
	Code            string `json:"code"`
	RedeemedBy      string `json:"redeemedBy"`
	TransactionHash string `json:"transactionHash"`
	BlockNumber     uint64 `json:"blockNumber"`
}

// handleRedeemRecord flips a pending record to redeemed. Exactly one of any
// number of concurrent calls for the same code gets the 200.
func (h *Handler) handleRedeemRecord(c *gin.Context) {
	var req redeemRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code required"})
		return
	}

	card, err := h.store.Redeem(c.Request.Context(),
		strings.ToUpper(strings.TrimSpace(req.Code)),
		req.RedeemedBy, req.TransactionHash, req.BlockNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotPending) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gift card not found or not pending"})
			return
		}
		h.log.Error("redeem record failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store error"})
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) handleResend(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code required"})
		return
	}

	card, err := h.svc.Resend(c.Request.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "gift card not found"})
		case errors.Is(err, giftcard.ErrAlreadyRedeemed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "gift card is not pending"})
		default:
			h.log.Error("resend failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "resend failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true, "recipientEmail": card.RecipientEmail})
}

type emailRequest struct {
	To             string `json:"to"`
	RedemptionCode string `json:"redemptionCode"`
	Amount         string `json:"amount"`
	Sender         string `json:"sender"`
	Message        string `json:"message"`
	Template       string `json:"template"`
}

func (h *Handler) handleEmail(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.To == "" || req.RedemptionCode == "" || req.Amount == "" || req.Sender == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to, redemptionCode, amount and sender are required"})
		return
	}

	err := h.svc.SendEmail(c.Request.Context(), mail.GiftCardEmail{
		To:             req.To,
		RedemptionCode: req.RedemptionCode,
		Amount:         req.Amount,
		SenderName:     req.Sender,
		Message:        req.Message,
		Template:       giftcard.ParseTemplate(req.Template),
	})
	if err != nil {
		h.log.Error("send email failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "email send failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

type sendRequest struct {
	Amount         string `json:"amount"`
	RecipientEmail string `json:"recipientEmail"`
	SenderName     string `json:"senderName"`
	Message        string `json:"message"`
	Template       string `json:"template"`
}

// handleSend runs the full creation flow.
func (h *Handler) handleSend(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.svc.Create(c.Request.Context(), orchestrator.CreateParams{
		Amount:         req.Amount,
		RecipientEmail: req.RecipientEmail,
		SenderName:     req.SenderName,
		Message:        req.Message,
		Template:       giftcard.Template(req.Template),
	})
	if err != nil {
		switch {
		case errors.Is(err, giftcard.ErrInsufficientAllowance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient allowance", "code": "insufficient_allowance"})
		case errors.Is(err, giftcard.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance", "code": "insufficient_balance"})
		case errors.Is(err, giftcard.ErrZeroAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be greater than 0"})
		case errors.Is(err, giftcard.ErrNotVerified):
			h.log.Error("create flow failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": "verification_timeout"})
		case errors.Is(err, giftcard.ErrAmountMismatch):
			h.log.Error("create flow failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": "amount_mismatch"})
		default:
			// Validation errors from Create are user input problems.
			if isUserInput(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			h.log.Error("create flow failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gift card creation failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"giftCard":  res.Card,
		"fee":       res.Fee,
		"verified":  res.Verified,
		"stored":    res.Stored,
		"emailSent": res.EmailSent,
	})
}

type claimRequest struct {
	Code   string `json:"code"`
	Payout string `json:"payout"`
}

// handleClaim runs the on-chain redemption flow.
func (h *Handler) handleClaim(c *gin.Context) {
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code required"})
		return
	}
	var payout common.Address
	if req.Payout != "" {
		if !common.IsHexAddress(req.Payout) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payout address"})
			return
		}
		payout = common.HexToAddress(req.Payout)
	}

	res, err := h.svc.Redeem(c.Request.Context(), orchestrator.RedeemParams{
		Code:   req.Code,
		Payout: payout,
	})
	if err != nil {
		h.log.Error("claim flow failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "redemption failed"})
		return
	}

	body := gin.H{"status": res.Status}
	if res.Card != nil {
		body["giftCard"] = res.Card
	}
	if res.Status != orchestrator.RedeemSuccess {
		c.JSON(http.StatusBadRequest, body)
		return
	}
	body["amount"] = res.Amount
	body["transactionHash"] = res.TxHash
	body["forwarded"] = res.Forwarded
	c.JSON(http.StatusOK, body)
}

// handleDetails merges the store record with the live chain view.
func (h *Handler) handleDetails(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Query("code")))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code query parameter required"})
		return
	}

	card, err := h.store.FindByCode(c.Request.Context(), code)
	if err != nil {
		h.log.Error("find gift card failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store error"})
		return
	}

	valid, chainAmount, err := h.backend.CheckGiftCard(c.Request.Context(), giftcard.HashCode(code))
	if err != nil {
		h.log.Warn("chain read failed for details", zap.Error(err))
	}

	if card == nil && !valid {
		c.JSON(http.StatusNotFound, gin.H{"error": "gift card not found"})
		return
	}

	body := gin.H{"valid": valid}
	if chainAmount != nil {
		body["blockchainAmount"] = giftcard.FormatAmount(chainAmount)
	}
	if card != nil {
		body["giftCard"] = card
	}
	c.JSON(http.StatusOK, body)
}

// handleWallet reports the operator's address, cUSD balance and escrow
// allowance.
func (h *Handler) handleWallet(c *gin.Context) {
	ctx := c.Request.Context()
	operator := h.backend.Operator()

	balance, err := h.backend.BalanceOf(ctx, operator)
	if err != nil {
		h.log.Error("balance read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chain read failed"})
		return
	}
	allowance, err := h.backend.Allowance(ctx, operator)
	if err != nil {
		h.log.Error("allowance read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chain read failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":   operator.Hex(),
		"balance":   giftcard.FormatAmount(balance),
		"allowance": giftcard.FormatAmount(allowance),
	})
}

type approveRequest struct {
	Amount string `json:"amount"`
}

func (h *Handler) handleApprove(c *gin.Context) {
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount required"})
		return
	}

	rcpt, err := h.svc.Approve(c.Request.Context(), req.Amount)
	if err != nil {
		if isUserInput(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("approve failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "approval failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transactionHash": rcpt.TxHash.Hex(),
		"blockNumber":     rcpt.BlockNumber,
	})
}

// isUserInput reports whether err stems from request validation rather than
// infrastructure.
func isUserInput(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid amount") ||
		strings.Contains(msg, "invalid recipient email") ||
		strings.Contains(msg, "more than")
}
