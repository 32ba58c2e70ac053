// internal/launchpad/completion.go
package launchpad

import (
	"context"
	"fmt"
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/curvelabs/launchpad/internal/events"
	"github.com/curvelabs/launchpad/internal/types"
	"github.com/curvelabs/launchpad/internal/venue"
)

// migrationDeadline bounds how stale a queued venue deposit may be. The
// in-memory venue executes synchronously, so this only matters for venues
// that check deadlines at all.
const migrationDeadline = 5 * time.Minute

// CompleteLaunch forces the Active -> Completed transition before the curve
// cap is reached. Privileged. The migration runs inside the same atomic
// unit; if it fails, completion does not happen.
func (e *Engine) CompleteLaunch(ctx context.Context, assetID string, caller types.Address) (err error) {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	if caller != e.authority {
		return ErrUnauthorizedCaller
	}
	rec, err := e.record(assetID)
	if err != nil {
		return err
	}
	if rec.Completed {
		return ErrAlreadyCompleted
	}

	u := newUnit()
	defer func() {
		if err != nil {
			u.rollback()
		}
	}()

	if err := e.finalize(u, rec); err != nil {
		return err
	}
	u.commit(ctx, e.stream)

	e.logger.Info("Launch completed manually",
		zap.String("asset_id", assetID),
		zap.String("caller", caller.String()))
	return nil
}

// finalize flips the terminal state, captures the final price and migrates
// liquidity. Runs inside the caller's unit: any failure unwinds the flip
// together with the rest of the triggering operation.
func (e *Engine) finalize(u *unit, rec *TokenRecord) error {
	rec.Completed = true
	u.onRollback(func() {
		rec.Completed = false
	})

	finalPrice := e.params.PriceAt(rec.CurrentSupply)
	prevFinal := rec.FinalPrice
	rec.FinalPrice = finalPrice
	u.onRollback(func() {
		rec.FinalPrice = prevFinal
	})

	if err := e.migrate(u, rec); err != nil {
		return err
	}

	u.emitLater(events.CompletedEvent{
		BaseEvent:   events.BaseEvent{EventType: events.Completed, EventTime: e.clock(), AssetID: rec.AssetID},
		FinalSupply: new(uint256.Int).Set(rec.CurrentSupply),
		FinalPrice:  new(uint256.Int).Set(finalPrice),
	})
	return nil
}

// migrate packages the held reserve and all collected currency and hands
// them to the liquidity venue. The deposit carries no slippage tolerance:
// desired and minimum amounts are equal, so the venue either takes the whole
// deposit or the enclosing unit aborts.
func (e *Engine) migrate(u *unit, rec *TokenRecord) error {
	if e.venue == nil || e.venueAddr.IsZero() {
		return ErrVenueNotConfigured
	}

	units := new(uint256.Int).Set(rec.HeldReserve)
	currencyBalance := e.currency.BalanceOf(e.custody)
	if units.IsZero() || currencyBalance.IsZero() {
		return ErrNoLiquidityAvailable
	}

	// Grant the venue spending authorization over exactly the reserve.
	prevAllowance := rec.ledger.Allowance(e.custody, e.venueAddr)
	rec.ledger.Approve(e.custody, e.venueAddr, units)
	u.onRollback(func() {
		rec.ledger.Approve(e.custody, e.venueAddr, prevAllowance)
	})

	// Forward the currency leg, then let the venue pull the asset leg.
	if err := e.sendCurrency(u, e.custody, e.venueAddr, currencyBalance); err != nil {
		return err
	}

	result, err := e.venue.AddLiquidity(venue.AddLiquidityParams{
		AssetID:       rec.AssetID,
		Depositor:     e.custody,
		UnitsDesired:  units,
		UnitsMin:      units,
		CurrencyMin:   currencyBalance,
		Recipient:     e.authority,
		Deadline:      e.clock().Add(migrationDeadline),
		CurrencyValue: currencyBalance,
	})
	if err != nil {
		return fmt.Errorf("adding liquidity at venue: %w", err)
	}
	u.onRollback(func() {
		// The venue succeeded but a later step failed: reclaim the pulled
		// units. The in-memory venue cannot refuse a reverse transfer.
		_ = rec.ledger.Transfer(e.venueAddr, e.custody, units)
	})

	prevReserve := rec.HeldReserve
	rec.HeldReserve = uint256.NewInt(0)
	u.onRollback(func() {
		rec.HeldReserve = prevReserve
	})

	e.logger.Info("Liquidity migrated",
		zap.String("asset_id", rec.AssetID),
		zap.String("units", result.UnitsUsed.Dec()),
		zap.String("currency", result.CurrencyUsed.Dec()),
		zap.String("liquidity_issued", result.LiquidityIssued.Dec()))
	return nil
}
