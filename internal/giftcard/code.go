package giftcard

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Redemption codes are 16 characters over a 36-character alphabet, grouped
// as XXXX-XXXX-XXXX-XXXX. The plaintext is emailed to the recipient; only
// its keccak256 hash ever reaches the chain.
const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 16
	segmentLen   = 4
)

var codeRe = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// GenerateCode returns a new random redemption code. Collision probability
// across 36^16 codes is treated as negligible; an on-chain collision surfaces
// as a "code already used" revert at creation time.
func GenerateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	var b strings.Builder
	for i, c := range buf {
		if i > 0 && i%segmentLen == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(codeAlphabet[int(c)%len(codeAlphabet)])
	}
	return b.String(), nil
}

// ValidCode reports whether s is in canonical XXXX-XXXX-XXXX-XXXX form.
func ValidCode(s string) bool {
	return codeRe.MatchString(s)
}

// HashCode computes the on-chain lookup key for a plaintext code:
// keccak256 over the UTF-8 bytes, matching the contract's internal hashing.
func HashCode(code string) common.Hash {
	return crypto.Keccak256Hash([]byte(code))
}
