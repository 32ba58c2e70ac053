// internal/launchpad/treasury.go
package launchpad

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/curvelabs/launchpad/internal/types"
)

// FeeTreasury tracks the protocol fees forwarded to the fee recipient.
// Pure bookkeeping: the actual currency moves through the currency ledger
// and nothing here affects engine control flow. Statistics are recorded only
// once the enclosing operation can no longer fail.
type FeeTreasury struct {
	mu       sync.RWMutex
	total    *uint256.Int
	perAsset map[string]*uint256.Int
}

func NewFeeTreasury() *FeeTreasury {
	return &FeeTreasury{
		total:    uint256.NewInt(0),
		perAsset: make(map[string]*uint256.Int),
	}
}

func (t *FeeTreasury) record(assetID string, fee *uint256.Int) {
	if fee.IsZero() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total = new(uint256.Int).Add(t.total, fee)
	if cur, ok := t.perAsset[assetID]; ok {
		t.perAsset[assetID] = new(uint256.Int).Add(cur, fee)
	} else {
		t.perAsset[assetID] = new(uint256.Int).Set(fee)
	}
}

// TotalFees returns the lifetime fees collected across all assets.
func (t *FeeTreasury) TotalFees() *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(uint256.Int).Set(t.total)
}

// FeesFor returns the lifetime fees collected for one asset.
func (t *FeeTreasury) FeesFor(assetID string) *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if f, ok := t.perAsset[assetID]; ok {
		return new(uint256.Int).Set(f)
	}
	return uint256.NewInt(0)
}

// VolumeLedger aggregates per-user currency volume and per-asset total value
// traded. Aggregates only ever grow.
type VolumeLedger struct {
	mu     sync.RWMutex
	users  map[types.Address]*UserVolume
	traded map[string]*uint256.Int
}

func NewVolumeLedger() *VolumeLedger {
	return &VolumeLedger{
		users:  make(map[types.Address]*UserVolume),
		traded: make(map[string]*uint256.Int),
	}
}

func (v *VolumeLedger) recordBuy(user types.Address, assetID string, gross, net *uint256.Int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	vol := v.user(user)
	vol.BuyCurrency = new(uint256.Int).Add(vol.BuyCurrency, gross)
	v.addTraded(assetID, net)
}

func (v *VolumeLedger) recordSell(user types.Address, assetID string, net *uint256.Int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	vol := v.user(user)
	vol.SellCurrency = new(uint256.Int).Add(vol.SellCurrency, net)
	v.addTraded(assetID, net)
}

// user assumes the lock is held.
func (v *VolumeLedger) user(user types.Address) *UserVolume {
	vol, ok := v.users[user]
	if !ok {
		vol = &UserVolume{
			BuyCurrency:  uint256.NewInt(0),
			SellCurrency: uint256.NewInt(0),
		}
		v.users[user] = vol
	}
	return vol
}

// addTraded assumes the lock is held.
func (v *VolumeLedger) addTraded(assetID string, amount *uint256.Int) {
	if cur, ok := v.traded[assetID]; ok {
		v.traded[assetID] = new(uint256.Int).Add(cur, amount)
	} else {
		v.traded[assetID] = new(uint256.Int).Set(amount)
	}
}

// UserVolume returns a copy of the aggregate for one trading identity.
func (v *VolumeLedger) UserVolume(user types.Address) *UserVolume {
	v.mu.RLock()
	defer v.mu.RUnlock()

	vol, ok := v.users[user]
	if !ok {
		return &UserVolume{
			BuyCurrency:  uint256.NewInt(0),
			SellCurrency: uint256.NewInt(0),
		}
	}
	return &UserVolume{
		BuyCurrency:  new(uint256.Int).Set(vol.BuyCurrency),
		SellCurrency: new(uint256.Int).Set(vol.SellCurrency),
	}
}

// TotalValueTraded returns the cumulative net currency exchanged through the
// curve for one asset.
func (v *VolumeLedger) TotalValueTraded(assetID string) *uint256.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if t, ok := v.traded[assetID]; ok {
		return new(uint256.Int).Set(t)
	}
	return uint256.NewInt(0)
}
