// internal/launchpad/record.go
package launchpad

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/curvelabs/launchpad/internal/ledger"
	"github.com/curvelabs/launchpad/internal/types"
)

// TokenRecord is the engine-owned state of one launched asset. Mutated only
// by buy/sell, completion and reserve withdrawal, always under the engine's
// entry guard; never deleted.
type TokenRecord struct {
	AssetID   string
	Name      string
	Symbol    string
	Metadata  string
	Creator   types.Address
	CreatedAt time.Time

	// HeldReserve starts at 30% of max supply and is zeroed exactly once,
	// by a successful migration or an authority withdrawal.
	HeldReserve *uint256.Int

	// CurrentSupply is the circulating supply sold through the curve.
	// Bounded by bondingMax; may equal it only at the completing buy.
	CurrentSupply *uint256.Int

	// CreatorPurchased accumulates the creator's own curve buys. Capped at
	// 20% of bondingMax.
	CreatorPurchased *uint256.Int

	// Completed and Unlocked are monotone: once true, never false again.
	Completed bool
	Unlocked  bool

	// FinalPrice is the curve price captured at the completion instant.
	FinalPrice *uint256.Int

	ledger ledger.AssetLedger
}

// TokenInfo is the read-only view of a TokenRecord handed to callers.
type TokenInfo struct {
	AssetID          string
	Name             string
	Symbol           string
	Metadata         string
	Creator          types.Address
	CreatedAt        time.Time
	HeldReserve      *uint256.Int
	CurrentSupply    *uint256.Int
	CreatorPurchased *uint256.Int
	Completed        bool
	Unlocked         bool
	FinalPrice       *uint256.Int
}

func (r *TokenRecord) info() *TokenInfo {
	info := &TokenInfo{
		AssetID:          r.AssetID,
		Name:             r.Name,
		Symbol:           r.Symbol,
		Metadata:         r.Metadata,
		Creator:          r.Creator,
		CreatedAt:        r.CreatedAt,
		HeldReserve:      new(uint256.Int).Set(r.HeldReserve),
		CurrentSupply:    new(uint256.Int).Set(r.CurrentSupply),
		CreatorPurchased: new(uint256.Int).Set(r.CreatorPurchased),
		Completed:        r.Completed,
		Unlocked:         r.Unlocked,
	}
	if r.FinalPrice != nil {
		info.FinalPrice = new(uint256.Int).Set(r.FinalPrice)
	}
	return info
}

// UserVolume aggregates one trading identity's lifetime curve activity.
// Pure statistics: never decreases, never read by engine control flow.
type UserVolume struct {
	BuyCurrency  *uint256.Int
	SellCurrency *uint256.Int
}
