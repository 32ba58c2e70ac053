// internal/ledger/currency_memory.go
package ledger

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/curvelabs/launchpad/internal/types"
)

// MemoryCurrencyLedger is an in-memory CurrencyLedger.
type MemoryCurrencyLedger struct {
	mu       sync.RWMutex
	balances map[types.Address]*uint256.Int
}

func NewMemoryCurrencyLedger() *MemoryCurrencyLedger {
	return &MemoryCurrencyLedger{balances: make(map[types.Address]*uint256.Int)}
}

// Credit seeds addr with amount. Test and bootstrap helper; real deployments
// receive currency from outside the engine.
func (l *MemoryCurrencyLedger) Credit(addr types.Address, amount *uint256.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.balances[addr]; ok {
		l.balances[addr] = new(uint256.Int).Add(b, amount)
		return
	}
	l.balances[addr] = new(uint256.Int).Set(amount)
}

func (l *MemoryCurrencyLedger) BalanceOf(addr types.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if b, ok := l.balances[addr]; ok {
		return new(uint256.Int).Set(b)
	}
	return uint256.NewInt(0)
}

func (l *MemoryCurrencyLedger) Transfer(from, to types.Address, amount *uint256.Int) error {
	if amount == nil {
		return ErrInvalidAmount
	}
	if amount.IsZero() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.balances[from]
	if !ok || b.Lt(amount) {
		return ErrInsufficientBalance
	}
	l.balances[from] = new(uint256.Int).Sub(b, amount)
	if t, ok := l.balances[to]; ok {
		l.balances[to] = new(uint256.Int).Add(t, amount)
	} else {
		l.balances[to] = new(uint256.Int).Set(amount)
	}
	return nil
}

var _ CurrencyLedger = (*MemoryCurrencyLedger)(nil)
