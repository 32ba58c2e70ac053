// ==============================================
// File: internal/launchpad/launchpad.go
// ==============================================

// Package launchpad implements a single-asset bonding-curve exchange: token
// launches priced by an algorithmic curve, creator lock/unlock and purchase
// caps, and automatic migration to an external liquidity venue once the curve
// allocation sells out.
package launchpad

import (
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/curvelabs/launchpad/internal/events"
	"github.com/curvelabs/launchpad/internal/ledger"
	"github.com/curvelabs/launchpad/internal/types"
	"github.com/curvelabs/launchpad/internal/venue"
)

// Options wires an Engine to its collaborators.
type Options struct {
	Curve CurveParams

	// Authority may force completion, approve and withdraw reserves, and
	// hand authority over. Compared by identity on each privileged call.
	Authority types.Address

	// FeeRecipient receives the protocol fee of every trade.
	FeeRecipient types.Address

	// Custody is the engine's own account: it holds minted reserves and
	// collected trade currency until migration.
	Custody types.Address

	// Venue and VenueAddress configure the migration target. Leaving them
	// unset defers the failure to the completion path.
	Venue        venue.LiquidityVenue
	VenueAddress types.Address

	Currency       ledger.CurrencyLedger
	NewAssetLedger ledger.AssetLedgerFactory
	Stream         *events.Stream
}

// Engine owns the launch catalog and executes every trade as one atomic,
// indivisible unit guarded by a non-reentrant execution flag.
type Engine struct {
	mu   sync.Mutex
	busy bool

	recordsMu sync.RWMutex
	records   map[string]*TokenRecord
	order     []string

	params       CurveParams
	authority    types.Address
	feeRecipient types.Address
	custody      types.Address
	venue        venue.LiquidityVenue
	venueAddr    types.Address

	currency  ledger.CurrencyLedger
	newLedger ledger.AssetLedgerFactory
	stream    *events.Stream
	treasury  *FeeTreasury
	volumes   *VolumeLedger

	logger *zap.Logger
	clock  func() time.Time
}

// New creates an Engine. All collaborators except the venue are required.
func New(opts Options, logger *zap.Logger) (*Engine, error) {
	if opts.Curve.InitialPrice == nil || opts.Curve.InitialPrice.IsZero() {
		return nil, fmt.Errorf("launchpad: initial price is required")
	}
	if opts.Curve.StepSize == nil || opts.Curve.StepSize.IsZero() {
		return nil, fmt.Errorf("launchpad: step size is required")
	}
	if opts.Curve.MaxSupply == nil || opts.Curve.MaxSupply.IsZero() {
		return nil, fmt.Errorf("launchpad: max supply is required")
	}
	if opts.Curve.FeePercent >= 100 {
		return nil, fmt.Errorf("launchpad: fee percent must be below 100")
	}
	if opts.Authority.IsZero() {
		return nil, fmt.Errorf("launchpad: authority address is required")
	}
	if opts.FeeRecipient.IsZero() {
		return nil, fmt.Errorf("launchpad: fee recipient address is required")
	}
	if opts.Custody.IsZero() {
		return nil, fmt.Errorf("launchpad: custody address is required")
	}
	if opts.Currency == nil {
		return nil, fmt.Errorf("launchpad: currency ledger is required")
	}
	if opts.NewAssetLedger == nil {
		return nil, fmt.Errorf("launchpad: asset ledger factory is required")
	}
	if opts.Stream == nil {
		return nil, fmt.Errorf("launchpad: event stream is required")
	}

	logger.Info("Creating launchpad engine",
		zap.String("authority", opts.Authority.String()),
		zap.String("fee_recipient", opts.FeeRecipient.String()),
		zap.String("custody", opts.Custody.String()),
		zap.Uint64("fee_percent", opts.Curve.FeePercent),
		zap.String("initial_price", opts.Curve.InitialPrice.Dec()),
		zap.String("step_size", opts.Curve.StepSize.Dec()),
		zap.String("max_supply", opts.Curve.MaxSupply.Dec()))

	return &Engine{
		records:      make(map[string]*TokenRecord),
		params:       opts.Curve,
		authority:    opts.Authority,
		feeRecipient: opts.FeeRecipient,
		custody:      opts.Custody,
		venue:        opts.Venue,
		venueAddr:    opts.VenueAddress,
		currency:     opts.Currency,
		newLedger:    opts.NewAssetLedger,
		stream:       opts.Stream,
		treasury:     NewFeeTreasury(),
		volumes:      NewVolumeLedger(),
		logger:       logger.Named("launchpad"),
		clock:        time.Now,
	}, nil
}

// ConfigureVenue sets the migration target. Wiring-time helper: the venue
// holds a resolver back onto the engine, so it is constructed second and
// attached here. Only consulted at completion time.
func (e *Engine) ConfigureVenue(v venue.LiquidityVenue, addr types.Address) {
	e.recordsMu.Lock()
	e.venue = v
	e.venueAddr = addr
	e.recordsMu.Unlock()
}

// WithClock overrides the engine clock for deterministic tests.
func (e *Engine) WithClock(clock func() time.Time) {
	if clock != nil {
		e.clock = clock
	}
}

// Custody returns the engine's own account address.
func (e *Engine) Custody() types.Address { return e.custody }

// Authority returns the current privileged identity.
func (e *Engine) Authority() types.Address {
	e.recordsMu.RLock()
	defer e.recordsMu.RUnlock()
	return e.authority
}

// Treasury exposes fee statistics.
func (e *Engine) Treasury() *FeeTreasury { return e.treasury }

// Volumes exposes per-user and per-asset volume statistics.
func (e *Engine) Volumes() *VolumeLedger { return e.volumes }

// Params returns the engine's curve parameters.
func (e *Engine) Params() CurveParams { return e.params }

// AssetLedgerFor resolves the fungible-asset ledger of a launched asset.
// Implements venue.LedgerResolver.
func (e *Engine) AssetLedgerFor(assetID string) (ledger.AssetLedger, bool) {
	e.recordsMu.RLock()
	defer e.recordsMu.RUnlock()

	rec, ok := e.records[assetID]
	if !ok {
		return nil, false
	}
	return rec.ledger, true
}

// record returns the live record for assetID. Callers hold the entry guard.
func (e *Engine) record(assetID string) (*TokenRecord, error) {
	e.recordsMu.RLock()
	defer e.recordsMu.RUnlock()

	rec, ok := e.records[assetID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAssetReference, assetID)
	}
	return rec, nil
}

// sendCurrency moves native currency and registers the reverse transfer as
// compensation. Failed sends abort the enclosing unit; they are never
// fire-and-forget.
func (e *Engine) sendCurrency(u *unit, from, to types.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := e.currency.Transfer(from, to, amount); err != nil {
		return fmt.Errorf("%w: %s -> %s: %v", ErrTransferRejected, from, to, err)
	}
	u.onRollback(func() {
		_ = e.currency.Transfer(to, from, amount)
	})
	return nil
}

var _ venue.LedgerResolver = (*Engine)(nil)
