// internal/launchpad/registry.go
package launchpad

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/curvelabs/launchpad/internal/events"
	"github.com/curvelabs/launchpad/internal/types"
)

// CreateToken launches a new asset: a fresh asset ledger with the engine as
// exclusive mint authority, the 30% held reserve minted into engine custody,
// and a locked TokenRecord with zero circulating supply.
func (e *Engine) CreateToken(ctx context.Context, name, symbol, metadata string, creator types.Address) (string, error) {
	if err := e.enter(); err != nil {
		return "", err
	}
	defer e.exit()

	if name == "" {
		return "", ErrEmptyName
	}
	if symbol == "" {
		return "", ErrEmptySymbol
	}

	assetID := uuid.NewString()
	assetLedger := e.newLedger(name, symbol, e.custody)

	reserve := e.params.ReserveAmount()
	if err := assetLedger.Mint(e.custody, e.custody, reserve); err != nil {
		return "", fmt.Errorf("minting held reserve: %w", err)
	}

	rec := &TokenRecord{
		AssetID:          assetID,
		Name:             name,
		Symbol:           symbol,
		Metadata:         metadata,
		Creator:          creator,
		CreatedAt:        e.clock(),
		HeldReserve:      reserve,
		CurrentSupply:    uint256.NewInt(0),
		CreatorPurchased: uint256.NewInt(0),
		ledger:           assetLedger,
	}

	e.recordsMu.Lock()
	e.records[assetID] = rec
	e.order = append(e.order, assetID)
	e.recordsMu.Unlock()

	e.logger.Info("Token launched",
		zap.String("asset_id", assetID),
		zap.String("name", name),
		zap.String("symbol", symbol),
		zap.String("creator", creator.String()),
		zap.String("held_reserve", reserve.Dec()))

	e.stream.Emit(ctx, events.LaunchCreatedEvent{
		BaseEvent: events.BaseEvent{EventType: events.LaunchCreated, EventTime: rec.CreatedAt, AssetID: assetID},
		Name:      name,
		Symbol:    symbol,
		Metadata:  metadata,
		Creator:   creator,
	})

	return assetID, nil
}

// GetTokenInfo returns a read-only view of one launch.
func (e *Engine) GetTokenInfo(assetID string) (*TokenInfo, error) {
	e.recordsMu.RLock()
	defer e.recordsMu.RUnlock()

	rec, ok := e.records[assetID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAssetReference, assetID)
	}
	return rec.info(), nil
}

// GetAllTokens returns every launched asset identifier in creation order.
func (e *Engine) GetAllTokens() []string {
	e.recordsMu.RLock()
	defer e.recordsMu.RUnlock()

	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// TokenCount returns the number of launches.
func (e *Engine) TokenCount() int {
	e.recordsMu.RLock()
	defer e.recordsMu.RUnlock()
	return len(e.order)
}

// CurrentPrice quotes the curve price at the asset's current supply.
func (e *Engine) CurrentPrice(assetID string) (*uint256.Int, error) {
	e.recordsMu.RLock()
	defer e.recordsMu.RUnlock()

	rec, ok := e.records[assetID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAssetReference, assetID)
	}
	return e.params.PriceAt(rec.CurrentSupply), nil
}

// TransferAuthority hands the privileged identity to a new address.
func (e *Engine) TransferAuthority(caller, newAuthority types.Address) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	if caller != e.authority {
		return ErrUnauthorizedCaller
	}
	if newAuthority.IsZero() {
		return fmt.Errorf("launchpad: new authority address is empty")
	}

	e.recordsMu.Lock()
	e.authority = newAuthority
	e.recordsMu.Unlock()

	e.logger.Info("Authority transferred",
		zap.String("from", caller.String()),
		zap.String("to", newAuthority.String()))
	return nil
}

// ApproveReserve grants spender an allowance over the engine-held reserve
// units of one asset. Privileged.
func (e *Engine) ApproveReserve(assetID string, caller, spender types.Address, amount *uint256.Int) error {
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
	rec.ledger.Approve(e.custody, spender, amount)

	e.logger.Info("Reserve allowance granted",
		zap.String("asset_id", assetID),
		zap.String("spender", spender.String()),
		zap.String("amount", amount.Dec()))
	return nil
}

// WithdrawReserve transfers the full held reserve of one asset to the
// authority. Privileged; one-shot — the second call finds nothing left.
func (e *Engine) WithdrawReserve(ctx context.Context, assetID string, caller types.Address) (out *uint256.Int, err error) {
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.exit()

	if caller != e.authority {
		return nil, ErrUnauthorizedCaller
	}
	rec, err := e.record(assetID)
	if err != nil {
		return nil, err
	}
	if rec.HeldReserve.IsZero() {
		return nil, ErrNoReserveToWithdraw
	}

	u := newUnit()
	defer func() {
		if err != nil {
			u.rollback()
		}
	}()

	amount := new(uint256.Int).Set(rec.HeldReserve)
	if err := rec.ledger.Transfer(e.custody, caller, amount); err != nil {
		return nil, fmt.Errorf("withdrawing reserve: %w", err)
	}
	u.onRollback(func() {
		_ = rec.ledger.Transfer(caller, e.custody, amount)
	})

	rec.HeldReserve = uint256.NewInt(0)
	u.onRollback(func() {
		rec.HeldReserve = new(uint256.Int).Set(amount)
	})

	u.emitLater(events.ReserveWithdrawnEvent{
		BaseEvent: events.BaseEvent{EventType: events.ReserveWithdrawn, EventTime: e.clock(), AssetID: assetID},
		Authority: caller,
		Amount:    amount,
	})
	u.commit(ctx, e.stream)

	e.logger.Info("Held reserve withdrawn",
		zap.String("asset_id", assetID),
		zap.String("authority", caller.String()),
		zap.String("amount", amount.Dec()))

	return amount, nil
}
