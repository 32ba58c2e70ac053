// internal/launchpad/sell.go
package launchpad

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/curvelabs/launchpad/internal/events"
	"github.com/curvelabs/launchpad/internal/types"
)

// Sell burns unitsIn back into the curve at the pre-sale spot price and
// forwards the net currency to the seller. The seller must have approved
// engine custody to burn on its behalf beforehand; that allowance is an
// asset-ledger precondition, not enforced here. Returns the net currency the
// seller received.
func (e *Engine) Sell(ctx context.Context, assetID string, seller types.Address, unitsIn *uint256.Int) (out *uint256.Int, err error) {
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
	if unitsIn == nil || unitsIn.IsZero() {
		return nil, ErrZeroSellAmount
	}

	// Pre-sale spot price; deliberately asymmetric with buy, which also
	// quotes the pre-trade supply.
	price := e.params.PriceAt(rec.CurrentSupply)
	raw := new(uint256.Int).Mul(unitsIn, price)
	raw.Div(raw, Scale)

	// Selling can never drain more currency than custody actually holds.
	currencyOut := raw
	if available := e.currency.BalanceOf(e.custody); available.Lt(raw) {
		currencyOut = available
	}

	// The entire remaining circulating supply may never be sold in one call.
	if !rec.CurrentSupply.Gt(unitsIn) {
		return nil, ErrInsufficientCirculatingSupply
	}

	u := newUnit()
	defer func() {
		if err != nil {
			u.rollback()
		}
	}()

	prevSupply := rec.CurrentSupply
	rec.CurrentSupply = new(uint256.Int).Sub(prevSupply, unitsIn)
	u.onRollback(func() {
		rec.CurrentSupply = prevSupply
	})

	if err := rec.ledger.BurnFrom(e.custody, seller, unitsIn); err != nil {
		return nil, fmt.Errorf("burning sold units: %w", err)
	}
	u.onRollback(func() {
		_ = rec.ledger.Mint(e.custody, seller, unitsIn)
	})

	fee := e.params.fee(currencyOut)
	net := new(uint256.Int).Sub(currencyOut, fee)
	if err := e.sendCurrency(u, e.custody, seller, net); err != nil {
		return nil, err
	}
	if err := e.sendCurrency(u, e.custody, e.feeRecipient, fee); err != nil {
		return nil, err
	}

	newPrice := e.params.PriceAt(rec.CurrentSupply)
	u.emitLater(events.TradedEvent{
		BaseEvent:      events.BaseEvent{EventType: events.Traded, EventTime: e.clock(), AssetID: assetID},
		Trader:         seller,
		CurrencyAmount: new(uint256.Int).Set(currencyOut),
		UnitsAmount:    new(uint256.Int).Set(unitsIn),
		NewPrice:       newPrice,
		Direction:      types.DirectionSell,
	})
	u.commit(ctx, e.stream)

	e.treasury.record(assetID, fee)
	e.volumes.recordSell(seller, assetID, net)

	e.logger.Debug("Sell executed",
		zap.String("asset_id", assetID),
		zap.String("seller", seller.String()),
		zap.String("units_in", unitsIn.Dec()),
		zap.String("currency_out", currencyOut.Dec()),
		zap.String("net_to_seller", net.Dec()),
		zap.String("new_price", newPrice.Dec()))

	return net, nil
}
