// internal/ledger/asset_memory.go
package ledger

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/curvelabs/launchpad/internal/types"
)

// MemoryAssetLedger is an in-memory AssetLedger. Balances and allowances are
// copied on read so callers can never mutate internal state.
type MemoryAssetLedger struct {
	mu         sync.RWMutex
	name       string
	symbol     string
	authority  types.Address
	balances   map[types.Address]*uint256.Int
	allowances map[types.Address]map[types.Address]*uint256.Int
	supply     *uint256.Int
}

// NewMemoryAssetLedger creates an empty asset ledger whose mint authority is
// fixed to authority for the ledger's lifetime.
func NewMemoryAssetLedger(name, symbol string, authority types.Address) *MemoryAssetLedger {
	return &MemoryAssetLedger{
		name:       name,
		symbol:     symbol,
		authority:  authority,
		balances:   make(map[types.Address]*uint256.Int),
		allowances: make(map[types.Address]map[types.Address]*uint256.Int),
		supply:     uint256.NewInt(0),
	}
}

func (l *MemoryAssetLedger) Name() string   { return l.name }
func (l *MemoryAssetLedger) Symbol() string { return l.symbol }

func (l *MemoryAssetLedger) Mint(caller, to types.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.authority {
		return ErrNotMintAuthority
	}
	l.credit(to, amount)
	l.supply = new(uint256.Int).Add(l.supply, amount)
	return nil
}

func (l *MemoryAssetLedger) Burn(caller, owner types.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.authority {
		return ErrNotMintAuthority
	}
	if err := l.debit(owner, amount); err != nil {
		return err
	}
	l.supply = new(uint256.Int).Sub(l.supply, amount)
	return nil
}

func (l *MemoryAssetLedger) BurnFrom(caller, owner types.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.spendAllowance(owner, caller, amount); err != nil {
		return err
	}
	if err := l.debit(owner, amount); err != nil {
		return err
	}
	l.supply = new(uint256.Int).Sub(l.supply, amount)
	return nil
}

func (l *MemoryAssetLedger) Approve(owner, spender types.Address, amount *uint256.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.allowances[owner] == nil {
		l.allowances[owner] = make(map[types.Address]*uint256.Int)
	}
	l.allowances[owner][spender] = new(uint256.Int).Set(amount)
}

func (l *MemoryAssetLedger) Allowance(owner, spender types.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if a, ok := l.allowances[owner][spender]; ok {
		return new(uint256.Int).Set(a)
	}
	return uint256.NewInt(0)
}

func (l *MemoryAssetLedger) BalanceOf(addr types.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if b, ok := l.balances[addr]; ok {
		return new(uint256.Int).Set(b)
	}
	return uint256.NewInt(0)
}

func (l *MemoryAssetLedger) Transfer(from, to types.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.debit(from, amount); err != nil {
		return err
	}
	l.credit(to, amount)
	return nil
}

func (l *MemoryAssetLedger) TransferFrom(caller, from, to types.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.spendAllowance(from, caller, amount); err != nil {
		return err
	}
	if err := l.debit(from, amount); err != nil {
		return err
	}
	l.credit(to, amount)
	return nil
}

func (l *MemoryAssetLedger) TotalSupply() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(uint256.Int).Set(l.supply)
}

// credit assumes the lock is held.
func (l *MemoryAssetLedger) credit(addr types.Address, amount *uint256.Int) {
	if b, ok := l.balances[addr]; ok {
		l.balances[addr] = new(uint256.Int).Add(b, amount)
		return
	}
	l.balances[addr] = new(uint256.Int).Set(amount)
}

// debit assumes the lock is held. The total supply shrinks only through
// Burn/BurnFrom, which debit without a matching credit.
func (l *MemoryAssetLedger) debit(addr types.Address, amount *uint256.Int) error {
	b, ok := l.balances[addr]
	if !ok || b.Lt(amount) {
		return ErrInsufficientBalance
	}
	l.balances[addr] = new(uint256.Int).Sub(b, amount)
	return nil
}

// spendAllowance assumes the lock is held.
func (l *MemoryAssetLedger) spendAllowance(owner, spender types.Address, amount *uint256.Int) error {
	a, ok := l.allowances[owner][spender]
	if !ok || a.Lt(amount) {
		return ErrInsufficientAllowance
	}
	l.allowances[owner][spender] = new(uint256.Int).Sub(a, amount)
	return nil
}

var _ AssetLedger = (*MemoryAssetLedger)(nil)
