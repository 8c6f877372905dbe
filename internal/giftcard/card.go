package giftcard

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// Status is the off-chain lifecycle state of a gift card record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRedeemed Status = "redeemed"
	StatusExpired  Status = "expired"
)

// Template selects the notification copy sent to the recipient.
type Template string

const (
	TemplateDefault  Template = "default"
	TemplateBirthday Template = "birthday"
	TemplateHoliday  Template = "holiday"
)

// ParseTemplate maps a raw template name to a known Template, defaulting to
// TemplateDefault for empty or unknown values.
func ParseTemplate(s string) Template {
	switch Template(s) {
	case TemplateBirthday:
		return TemplateBirthday
	case TemplateHoliday:
		return TemplateHoliday
	default:
		return TemplateDefault
	}
}

// TTL is how long an unredeemed card lives in the store before it is
// logically deleted.
const TTL = 30 * 24 * time.Hour

// Card is the off-chain gift card record, the canonical source for UI
// queries. The on-chain entry keyed by CodeHash remains the source of truth
// for fund custody; Amount here is a cache of the escrowed value.
type Card struct {
	RedemptionCode string   `json:"redemptionCode"`
	CodeHash       string   `json:"codeHash"`
	Amount         string   `json:"amount"`
	Creator        string   `json:"creator"`
	RecipientEmail string   `json:"recipientEmail,omitempty"`
	Message        string   `json:"message,omitempty"`
	Template       Template `json:"template,omitempty"`
	Status         Status   `json:"status"`

	CreatedAt  int64  `json:"createdAt"`
	RedeemedAt int64  `json:"redeemedAt,omitempty"`
	RedeemedBy string `json:"redeemedBy,omitempty"`

	// Provenance linking the record to chain events.
	BlockNumber               uint64 `json:"blockNumber,omitempty"`
	TransactionHash           string `json:"transactionHash,omitempty"`
	RedemptionBlockNumber     uint64 `json:"redemptionBlockNumber,omitempty"`
	RedemptionTransactionHash string `json:"redemptionTransactionHash,omitempty"`
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like a deliverable address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// cUSD uses 18 decimals.
const tokenDecimals = 18

var weiPerToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(tokenDecimals), nil)

// ParseAmount converts a human decimal string ("100.5") into wei.
// Rejects negative, malformed, and over-precise values.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > tokenDecimals {
		return nil, fmt.Errorf("amount %q has more than %d decimals", s, tokenDecimals)
	}
	whole, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	wei := new(big.Int).Mul(whole, weiPerToken)
	if fracPart != "" {
		frac, ok := new(big.Int).SetString(fracPart+strings.Repeat("0", tokenDecimals-len(fracPart)), 10)
		if !ok {
			return nil, fmt.Errorf("invalid amount %q", s)
		}
		wei.Add(wei, frac)
	}
	return wei, nil
}

// FormatAmount converts wei into a human decimal string with trailing zeros
// trimmed ("100.5", "0.005", "100").
func FormatAmount(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	whole, frac := new(big.Int).QuoRem(wei, weiPerToken, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	fracStr := strings.TrimRight(fmt.Sprintf("%018s", frac.String()), "0")
	return whole.String() + "." + fracStr
}

// TruncateAddress shortens a 0x address for display: 0x1234...abcd.
func TruncateAddress(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
