package ledger

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/unwrap-cash/unwrap/internal/giftcard"
)

// Token is an in-memory ERC-20-style ledger with the approve/transferFrom
// semantics the escrow relies on. It backs the reference escrow in dev mode
// and in tests; in production the real cUSD contract plays this role.
type Token struct {
	mu         sync.Mutex
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
}

func NewToken() *Token {
	return &Token{
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]*big.Int),
	}
}

// Mint credits amount to addr. Test/dev faucet; real cUSD has no equivalent.
func (t *Token) Mint(addr common.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credit(addr, amount)
}

func (t *Token) BalanceOf(addr common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return new(big.Int).Set(t.balance(addr))
}

// Approve authorizes spender to pull up to amount from owner's balance.
func (t *Token) Approve(owner, spender common.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m := t.allowances[owner]
	if m == nil {
		m = make(map[common.Address]*big.Int)
		t.allowances[owner] = m
	}
	m[spender] = new(big.Int).Set(amount)
}

func (t *Token) Allowance(owner, spender common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return new(big.Int).Set(t.allowance(owner, spender))
}

// Transfer moves amount from from to to, failing on insufficient balance.
func (t *Token) Transfer(from, to common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.balance(from).Cmp(amount) < 0 {
		return giftcard.ErrInsufficientBalance
	}
	t.debit(from, amount)
	t.credit(to, amount)
	return nil
}

// TransferFrom moves amount from owner to to on behalf of spender,
// consuming allowance.
func (t *Token) TransferFrom(spender, owner, to common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	allowed := t.allowance(owner, spender)
	if allowed.Cmp(amount) < 0 {
		return giftcard.ErrInsufficientAllowance
	}
	if t.balance(owner).Cmp(amount) < 0 {
		return giftcard.ErrInsufficientBalance
	}
	allowed.Sub(allowed, amount)
	t.debit(owner, amount)
	t.credit(to, amount)
	return nil
}

// Callers hold t.mu.

func (t *Token) balance(addr common.Address) *big.Int {
	b := t.balances[addr]
	if b == nil {
		b = new(big.Int)
		t.balances[addr] = b
	}
	return b
}

func (t *Token) allowance(owner, spender common.Address) *big.Int {
	m := t.allowances[owner]
	if m == nil {
		m = make(map[common.Address]*big.Int)
		t.allowances[owner] = m
	}
	a := m[spender]
	if a == nil {
		a = new(big.Int)
		m[spender] = a
	}
	return a
}

func (t *Token) credit(addr common.Address, amount *big.Int) {
	t.balance(addr).Add(t.balance(addr), amount)
}

func (t *Token) debit(addr common.Address, amount *big.Int) {
	t.balance(addr).Sub(t.balance(addr), amount)
}
