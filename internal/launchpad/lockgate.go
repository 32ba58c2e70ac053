// internal/launchpad/lockgate.go
package launchpad

import (
	"github.com/holiman/uint256"

	"github.com/curvelabs/launchpad/internal/events"
	"github.com/curvelabs/launchpad/internal/types"
)

// Lock gate: until the creator has bought 2% of max supply, only the creator
// may buy. The creator's own buys are capped at 20% of the bonding
// allocation; a buy that would cross the cap is rejected whole, never
// truncated to the remaining capacity.

// checkLocked rejects non-creator buys while the launch is still locked.
func checkLocked(rec *TokenRecord, buyer types.Address) error {
	if !rec.Unlocked && buyer != rec.Creator {
		return ErrTokenLocked
	}
	return nil
}

// checkCreatorCap rejects a creator buy whose proposed units would push the
// cumulative purchase past the cap. Applies regardless of lock state.
func (e *Engine) checkCreatorCap(rec *TokenRecord, buyer types.Address, proposedUnits *uint256.Int) error {
	if buyer != rec.Creator {
		return nil
	}
	total := new(uint256.Int).Add(rec.CreatorPurchased, proposedUnits)
	if total.Gt(e.params.CreatorCap()) {
		return ErrCreatorCapExceeded
	}
	return nil
}

// applyCreatorPurchase records a successful creator buy and flips the
// one-way unlock flag when the cumulative purchase reaches the threshold.
// The unlocked event fires exactly once, at the crossing buy.
func (e *Engine) applyCreatorPurchase(u *unit, rec *TokenRecord, unitsOut *uint256.Int) {
	prevPurchased := rec.CreatorPurchased
	rec.CreatorPurchased = new(uint256.Int).Add(prevPurchased, unitsOut)
	u.onRollback(func() {
		rec.CreatorPurchased = prevPurchased
	})

	if !rec.Unlocked && !rec.CreatorPurchased.Lt(e.params.UnlockThreshold()) {
		rec.Unlocked = true
		u.onRollback(func() {
			rec.Unlocked = false
		})
		u.emitLater(events.UnlockedEvent{
			BaseEvent:           events.BaseEvent{EventType: events.Unlocked, EventTime: e.clock(), AssetID: rec.AssetID},
			Creator:             rec.Creator,
			CumulativePurchased: new(uint256.Int).Set(rec.CreatorPurchased),
		})
	}
}
