// Package mail delivers gift card notification emails through a Resend
// compatible HTTP API. Delivery is best effort: callers treat a send failure
// as non-fatal because the card already exists on chain.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unwrap-cash/unwrap/internal/giftcard"
)

// GiftCardEmail carries everything needed to notify a recipient.
type GiftCardEmail struct {
	To             string
	RedemptionCode string
	Amount         string
	SenderName     string
	Message        string
	Template       giftcard.Template
}

// Sender delivers gift card notifications.
type Sender interface {
	SendGiftCard(ctx context.Context, g GiftCardEmail) error
}

// Client is an authenticated Resend API client.
type Client struct {
	baseURL string
	apiKey  string
	from    string
	http    *http.Client
}

func NewClient(baseURL, apiKey, from string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendGiftCard renders the occasion template and posts it to the API. Each
// send carries a fresh idempotency key so provider-side retries cannot
// duplicate the email.
func (c *Client) SendGiftCard(ctx context.Context, g GiftCardEmail) error {
	if !giftcard.ValidEmail(g.To) {
		return fmt.Errorf("invalid recipient email: %q", g.To)
	}

	subject, html, err := Render(g)
	if err != nil {
		return err
	}

	body, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{g.To},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send email: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

// LogSender logs instead of delivering. Used in dev mode when no email API
// key is configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendGiftCard(ctx context.Context, g GiftCardEmail) error {
	s.log.Info("gift card email (not sent, no api key)",
		zap.String("to", g.To),
		zap.String("code", g.RedemptionCode),
		zap.String("amount", g.Amount),
		zap.String("template", string(g.Template)))
	return nil
}
