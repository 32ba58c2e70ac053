// internal/venue/venue.go
package venue

import (
	"errors"
	"time"

	"github.com/holiman/uint256"

	"github.com/curvelabs/launchpad/internal/types"
)

var (
	ErrDeadlineExpired     = errors.New("venue: deadline expired")
	ErrZeroDeposit         = errors.New("venue: zero-sided deposit")
	ErrMinimumNotMet       = errors.New("venue: minimum deposit amounts not met")
	ErrInsufficientFunding = errors.New("venue: depositor has not funded the deposit")
)

// AddLiquidityParams carries one paired deposit of asset units and native
// currency. CurrencyValue is the currency already forwarded to the venue by
// the depositor; the venue pulls UnitsDesired via its asset-ledger allowance.
type AddLiquidityParams struct {
	AssetID       string
	Depositor     types.Address
	UnitsDesired  *uint256.Int
	UnitsMin      *uint256.Int
	CurrencyMin   *uint256.Int
	Recipient     types.Address
	Deadline      time.Time
	CurrencyValue *uint256.Int
}

// AddLiquidityResult reports what the venue actually used and issued.
type AddLiquidityResult struct {
	UnitsUsed       *uint256.Int
	CurrencyUsed    *uint256.Int
	LiquidityIssued *uint256.Int
}

// LiquidityVenue accepts paired deposits and issues liquidity. Failures are
// opaque to the caller: nothing was taken, nothing was issued.
type LiquidityVenue interface {
	AddLiquidity(params AddLiquidityParams) (*AddLiquidityResult, error)
}
