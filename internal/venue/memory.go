// internal/venue/memory.go
package venue

import (
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/curvelabs/launchpad/internal/ledger"
	"github.com/curvelabs/launchpad/internal/types"
)

// LedgerResolver maps an asset identifier to the ledger holding its balances.
// The registry that launched the asset implements this.
type LedgerResolver interface {
	AssetLedgerFor(assetID string) (ledger.AssetLedger, bool)
}

// Pool is one asset/currency pair held by the venue.
type Pool struct {
	UnitsReserve    *uint256.Int
	CurrencyReserve *uint256.Int
	Liquidity       *uint256.Int
}

// MemoryVenue is an in-memory constant-product liquidity venue. It pulls the
// asset leg through its allowance on the depositor's balance and verifies the
// currency leg was forwarded to its own account before the call.
type MemoryVenue struct {
	mu       sync.Mutex
	addr     types.Address
	assets   LedgerResolver
	currency ledger.CurrencyLedger
	pools    map[string]*Pool
	clock    func() time.Time
	logger   *zap.Logger
}

func NewMemoryVenue(addr types.Address, assets LedgerResolver, currency ledger.CurrencyLedger, logger *zap.Logger) *MemoryVenue {
	return &MemoryVenue{
		addr:     addr,
		assets:   assets,
		currency: currency,
		pools:    make(map[string]*Pool),
		clock:    time.Now,
		logger:   logger.Named("venue"),
	}
}

// WithClock overrides the venue clock for deterministic tests.
func (v *MemoryVenue) WithClock(clock func() time.Time) {
	if clock != nil {
		v.clock = clock
	}
}

// Address returns the venue's own account.
func (v *MemoryVenue) Address() types.Address { return v.addr }

func (v *MemoryVenue) AddLiquidity(params AddLiquidityParams) (*AddLiquidityResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !params.Deadline.IsZero() && v.clock().After(params.Deadline) {
		return nil, ErrDeadlineExpired
	}
	if params.UnitsDesired == nil || params.UnitsDesired.IsZero() ||
		params.CurrencyValue == nil || params.CurrencyValue.IsZero() {
		return nil, ErrZeroDeposit
	}
	if params.UnitsMin != nil && params.UnitsDesired.Lt(params.UnitsMin) {
		return nil, ErrMinimumNotMet
	}
	if params.CurrencyMin != nil && params.CurrencyValue.Lt(params.CurrencyMin) {
		return nil, ErrMinimumNotMet
	}

	assetLedger, ok := v.assets.AssetLedgerFor(params.AssetID)
	if !ok {
		return nil, fmt.Errorf("venue: unknown asset %s", params.AssetID)
	}

	// The depositor forwards the currency leg ahead of the call.
	if v.currency.BalanceOf(v.addr).Lt(params.CurrencyValue) {
		return nil, ErrInsufficientFunding
	}

	// Pull the asset leg through the allowance the depositor granted us.
	// This is the only external mutation; everything after it cannot fail,
	// so a returned error always means "no effect".
	if err := assetLedger.TransferFrom(v.addr, params.Depositor, v.addr, params.UnitsDesired); err != nil {
		return nil, fmt.Errorf("venue: pulling asset deposit: %w", err)
	}

	issued := new(uint256.Int).Mul(params.UnitsDesired, params.CurrencyValue)
	issued.Sqrt(issued)

	pool, ok := v.pools[params.AssetID]
	if !ok {
		pool = &Pool{
			UnitsReserve:    uint256.NewInt(0),
			CurrencyReserve: uint256.NewInt(0),
			Liquidity:       uint256.NewInt(0),
		}
		v.pools[params.AssetID] = pool
	}
	pool.UnitsReserve = new(uint256.Int).Add(pool.UnitsReserve, params.UnitsDesired)
	pool.CurrencyReserve = new(uint256.Int).Add(pool.CurrencyReserve, params.CurrencyValue)
	pool.Liquidity = new(uint256.Int).Add(pool.Liquidity, issued)

	v.logger.Info("Liquidity added",
		zap.String("asset_id", params.AssetID),
		zap.String("units", params.UnitsDesired.Dec()),
		zap.String("currency", params.CurrencyValue.Dec()),
		zap.String("liquidity_issued", issued.Dec()),
		zap.String("recipient", params.Recipient.String()))

	return &AddLiquidityResult{
		UnitsUsed:       new(uint256.Int).Set(params.UnitsDesired),
		CurrencyUsed:    new(uint256.Int).Set(params.CurrencyValue),
		LiquidityIssued: issued,
	}, nil
}

// Pool returns a copy of the pool for assetID, or nil if none exists.
func (v *MemoryVenue) Pool(assetID string) *Pool {
	v.mu.Lock()
	defer v.mu.Unlock()

	p, ok := v.pools[assetID]
	if !ok {
		return nil
	}
	return &Pool{
		UnitsReserve:    new(uint256.Int).Set(p.UnitsReserve),
		CurrencyReserve: new(uint256.Int).Set(p.CurrencyReserve),
		Liquidity:       new(uint256.Int).Set(p.Liquidity),
	}
}

var _ LiquidityVenue = (*MemoryVenue)(nil)
