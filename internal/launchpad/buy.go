// internal/launchpad/buy.go
package launchpad

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/curvelabs/launchpad/internal/events"
	"github.com/curvelabs/launchpad/internal/types"
)

// Buy exchanges currencyIn for curve units at the pre-trade spot price.
// The whole call is one atomic unit: on any rejection or collaborator
// failure, no state changes and no currency moves. Reaching the bonding cap
// completes the launch and migrates liquidity inside the same unit.
func (e *Engine) Buy(ctx context.Context, assetID string, buyer types.Address, currencyIn, minUnitsOut *uint256.Int) (out *uint256.Int, err error) {
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.exit()

	rec, err := e.record(assetID)
	if err != nil {
		return nil, err
	}
	if rec.Completed {
		return nil, ErrLaunchCompleted
	}
	if currencyIn == nil || currencyIn.IsZero() {
		return nil, ErrZeroValueSent
	}
	if err := checkLocked(rec, buyer); err != nil {
		return nil, err
	}

	// Pre-trade spot price, single point; the whole fill executes at it.
	price := e.params.PriceAt(rec.CurrentSupply)
	unitsOut := new(uint256.Int).Mul(currencyIn, Scale)
	unitsOut.Div(unitsOut, price)
	if unitsOut.IsZero() {
		return nil, ErrZeroTokensComputed
	}
	if minUnitsOut != nil && unitsOut.Lt(minUnitsOut) {
		return nil, &SlippageError{UnitsOut: unitsOut, MinOut: new(uint256.Int).Set(minUnitsOut)}
	}
	if err := e.checkCreatorCap(rec, buyer, unitsOut); err != nil {
		return nil, err
	}

	bondingMax := e.params.BondingMax()
	newSupply := new(uint256.Int).Add(rec.CurrentSupply, unitsOut)
	if newSupply.Gt(bondingMax) {
		return nil, ErrSupplyCapExceeded
	}

	u := newUnit()
	defer func() {
		if err != nil {
			u.rollback()
		}
	}()

	// Currency leg: the buyer funds engine custody, the protocol fee moves on
	// to the fee recipient.
	if err := e.sendCurrency(u, buyer, e.custody, currencyIn); err != nil {
		return nil, err
	}
	fee := e.params.fee(currencyIn)
	if err := e.sendCurrency(u, e.custody, e.feeRecipient, fee); err != nil {
		return nil, err
	}

	prevSupply := rec.CurrentSupply
	rec.CurrentSupply = newSupply
	u.onRollback(func() {
		rec.CurrentSupply = prevSupply
	})
	if buyer == rec.Creator {
		e.applyCreatorPurchase(u, rec, unitsOut)
	}

	// Asset leg.
	if err := rec.ledger.Mint(e.custody, buyer, unitsOut); err != nil {
		return nil, fmt.Errorf("minting purchased units: %w", err)
	}
	u.onRollback(func() {
		_ = rec.ledger.Burn(e.custody, buyer, unitsOut)
	})

	// Hitting the cap completes the launch inside this same unit; a failed
	// migration fails the buy.
	if !rec.CurrentSupply.Lt(bondingMax) {
		if err := e.finalize(u, rec); err != nil {
			return nil, err
		}
	}

	newPrice := e.params.PriceAt(rec.CurrentSupply)
	u.emitLater(events.TradedEvent{
		BaseEvent:      events.BaseEvent{EventType: events.Traded, EventTime: e.clock(), AssetID: assetID},
		Trader:         buyer,
		CurrencyAmount: new(uint256.Int).Set(currencyIn),
		UnitsAmount:    unitsOut,
		NewPrice:       newPrice,
		Direction:      types.DirectionBuy,
	})
	u.commit(ctx, e.stream)

	// Statistics, recorded once the unit can no longer fail.
	net := new(uint256.Int).Sub(currencyIn, fee)
	e.treasury.record(assetID, fee)
	e.volumes.recordBuy(buyer, assetID, currencyIn, net)

	e.logger.Debug("Buy executed",
		zap.String("asset_id", assetID),
		zap.String("buyer", buyer.String()),
		zap.String("currency_in", currencyIn.Dec()),
		zap.String("units_out", unitsOut.Dec()),
		zap.String("new_price", newPrice.Dec()),
		zap.Bool("completed", rec.Completed))

	return unitsOut, nil
}
