// Package store persists gift card records in Redis: one hash per card keyed
// by the code hash, with native TTL for the 30-day expiry of unredeemed
// cards. Lookups by plaintext code hash the code first, so the code itself is
// never a key. The insert and the pending→redeemed transition run as Lua
// scripts so uniqueness and the redemption compare-and-set hold under
// concurrent requests.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/unwrap-cash/unwrap/internal/giftcard"
)

const (
	cardKeyPrefix = "giftcard:card:"
	lastBlockKey  = "giftcard:last_block"
)

var (
	// ErrDuplicate reports an insert that would violate the uniqueness of
	// the code hash (and therefore of the redemption code).
	ErrDuplicate = errors.New("gift card already exists")
	// ErrNotFound reports an update against a missing record.
	ErrNotFound = errors.New("gift card not found")
	// ErrNotPending reports a redemption of a record that is missing or no
	// longer pending.
	ErrNotPending = errors.New("gift card not found or not pending")
)

// insertScript writes the record only if the key does not exist, then applies
// the TTL. ARGV[1] = ttl seconds, ARGV[2..] = hash field/value pairs.
var insertScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV, 2))
local ttl = tonumber(ARGV[1])
if ttl > 0 then
  redis.call('EXPIRE', KEYS[1], ttl)
end
return 1
`)

// redeemScript is the atomic "match pending, set redeemed" transition. A
// redeemed card stops expiring: its provenance outlives the 30-day window.
// ARGV: redeemed_at, redeemed_by, redemption_transaction_hash,
// redemption_block_number.
var redeemScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 0
end
if redis.call('HGET', KEYS[1], 'status') ~= 'pending' then
  return 0
end
redis.call('HSET', KEYS[1], 'status', 'redeemed', 'redeemed_at', ARGV[1], 'redeemed_by', ARGV[2])
if ARGV[3] ~= '' then
  redis.call('HSET', KEYS[1], 'redemption_transaction_hash', ARGV[3])
end
if ARGV[4] ~= '0' then
  redis.call('HSET', KEYS[1], 'redemption_block_number', ARGV[4])
end
redis.call('PERSIST', KEYS[1])
return 1
`)

// bumpBlockScript advances the sync high-water mark monotonically.
var bumpBlockScript = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local new = tonumber(ARGV[1])
if new > cur then
  redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// Store is the gift card persistence layer.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New builds a Store. ttl zero selects the default 30-day expiry.
func New(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = giftcard.TTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func cardKey(codeHash string) string {
	return cardKeyPrefix + common.HexToHash(codeHash).Hex()
}

// Insert stores a new record, failing with ErrDuplicate if the code hash is
// already present. A zero CreatedAt is stamped with now; an empty CodeHash is
// derived from the redemption code. Only pending records get the expiry TTL.
func (s *Store) Insert(ctx context.Context, card *giftcard.Card) error {
	if card.CodeHash == "" {
		if card.RedemptionCode == "" {
			return fmt.Errorf("insert gift card: no code and no code hash")
		}
		card.CodeHash = giftcard.HashCode(card.RedemptionCode).Hex()
	}
	if card.CreatedAt == 0 {
		card.CreatedAt = time.Now().Unix()
	}
	if card.Status == "" {
		card.Status = giftcard.StatusPending
	}

	ttl := int64(s.ttl.Seconds())
	if card.Status != giftcard.StatusPending {
		ttl = 0
	}
	args := []interface{}{ttl}
	args = append(args, cardPairs(card)...)

	n, err := insertScript.Run(ctx, s.rdb, []string{cardKey(card.CodeHash)}, args...).Int()
	if err != nil {
		return fmt.Errorf("insert gift card: %w", err)
	}
	if n == 0 {
		return ErrDuplicate
	}
	if card.BlockNumber > 0 {
		if err := s.bumpLastBlock(ctx, card.BlockNumber); err != nil {
			return err
		}
	}
	return nil
}

// FindByCode returns the record for a redemption code, or (nil, nil) when
// absent or expired.
func (s *Store) FindByCode(ctx context.Context, code string) (*giftcard.Card, error) {
	return s.FindByCodeHash(ctx, giftcard.HashCode(code).Hex())
}

// FindByCodeHash returns the record for a code hash, or (nil, nil) when
// absent.
func (s *Store) FindByCodeHash(ctx context.Context, codeHash string) (*giftcard.Card, error) {
	vals, err := s.rdb.HGetAll(ctx, cardKey(codeHash)).Result()
	if err != nil {
		return nil, fmt.Errorf("find gift card: %w", err)
	}
	if len(vals) == 0 {
		return nil, nil
	}
	return cardFromMap(vals), nil
}

// Redeem atomically flips a pending record to redeemed, recording the
// redeemer and redemption provenance. Exactly one of any number of
// concurrent calls for the same code succeeds; the rest get ErrNotPending.
func (s *Store) Redeem(ctx context.Context, code, redeemer, txHash string, blockNumber uint64) (*giftcard.Card, error) {
	return s.RedeemByHash(ctx, giftcard.HashCode(code).Hex(), redeemer, txHash, blockNumber)
}

// RedeemByHash is Redeem keyed by the code hash, for callers that only have
// the on-chain key.
func (s *Store) RedeemByHash(ctx context.Context, codeHash, redeemer, txHash string, blockNumber uint64) (*giftcard.Card, error) {
	n, err := redeemScript.Run(ctx, s.rdb,
		[]string{cardKey(codeHash)},
		time.Now().Unix(), redeemer, txHash, blockNumber).Int()
	if err != nil {
		return nil, fmt.Errorf("redeem gift card: %w", err)
	}
	if n == 0 {
		return nil, ErrNotPending
	}
	if blockNumber > 0 {
		if err := s.bumpLastBlock(ctx, blockNumber); err != nil {
			return nil, err
		}
	}
	return s.FindByCodeHash(ctx, codeHash)
}

// UpdateByCode patches arbitrary fields on an existing record. Field names
// use the stored (snake_case) form.
func (s *Store) UpdateByCode(ctx context.Context, code string, fields map[string]string) (*giftcard.Card, error) {
	return s.UpdateByCodeHash(ctx, giftcard.HashCode(code).Hex(), fields)
}

// UpdateByCodeHash is UpdateByCode keyed by the code hash.
func (s *Store) UpdateByCodeHash(ctx context.Context, codeHash string, fields map[string]string) (*giftcard.Card, error) {
	key := cardKey(codeHash)
	exists, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("update gift card: %w", err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}
	if len(fields) > 0 {
		args := make([]interface{}, 0, len(fields)*2)
		for f, v := range fields {
			args = append(args, f, v)
		}
		if err := s.rdb.HSet(ctx, key, args...).Err(); err != nil {
			return nil, fmt.Errorf("update gift card: %w", err)
		}
		for _, f := range []string{"block_number", "redemption_block_number"} {
			if v, ok := fields[f]; ok {
				if block, err := strconv.ParseUint(v, 10, 64); err == nil && block > 0 {
					if err := s.bumpLastBlock(ctx, block); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return s.FindByCodeHash(ctx, codeHash)
}

// LastSyncedBlock returns the highest block number seen across inserts and
// redemption updates, 0 when nothing has been synced.
func (s *Store) LastSyncedBlock(ctx context.Context) (uint64, error) {
	v, err := s.rdb.Get(ctx, lastBlockKey).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("last synced block: %w", err)
	}
	block, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("last synced block: %w", err)
	}
	return block, nil
}

// BumpLastBlock advances the sync high-water mark. Lower values than the
// current mark are ignored.
func (s *Store) BumpLastBlock(ctx context.Context, block uint64) error {
	return s.bumpLastBlock(ctx, block)
}

func (s *Store) bumpLastBlock(ctx context.Context, block uint64) error {
	if err := bumpBlockScript.Run(ctx, s.rdb, []string{lastBlockKey}, block).Err(); err != nil {
		return fmt.Errorf("bump last block: %w", err)
	}
	return nil
}

func cardPairs(c *giftcard.Card) []interface{} {
	return []interface{}{
		"redemption_code", c.RedemptionCode,
		"code_hash", c.CodeHash,
		"amount", c.Amount,
		"creator", c.Creator,
		"recipient_email", c.RecipientEmail,
		"message", c.Message,
		"template", string(c.Template),
		"status", string(c.Status),
		"created_at", c.CreatedAt,
		"redeemed_at", c.RedeemedAt,
		"redeemed_by", c.RedeemedBy,
		"block_number", c.BlockNumber,
		"transaction_hash", c.TransactionHash,
		"redemption_block_number", c.RedemptionBlockNumber,
		"redemption_transaction_hash", c.RedemptionTransactionHash,
	}
}

func cardFromMap(m map[string]string) *giftcard.Card {
	createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
	redeemedAt, _ := strconv.ParseInt(m["redeemed_at"], 10, 64)
	block, _ := strconv.ParseUint(m["block_number"], 10, 64)
	redemptionBlock, _ := strconv.ParseUint(m["redemption_block_number"], 10, 64)
	return &giftcard.Card{
		RedemptionCode:            m["redemption_code"],
		CodeHash:                  m["code_hash"],
		Amount:                    m["amount"],
		Creator:                   m["creator"],
		RecipientEmail:            m["recipient_email"],
		Message:                   m["message"],
		Template:                  giftcard.Template(m["template"]),
		Status:                    giftcard.Status(m["status"]),
		CreatedAt:                 createdAt,
		RedeemedAt:                redeemedAt,
		RedeemedBy:                m["redeemed_by"],
		BlockNumber:               block,
		TransactionHash:           m["transaction_hash"],
		RedemptionBlockNumber:     redemptionBlock,
		RedemptionTransactionHash: m["redemption_transaction_hash"],
	}
}
