// internal/launchpad/errors.go
package launchpad

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// Every failure aborts the triggering operation in full: no partial effects,
// no internal retry. Resubmitting (e.g. a buy with a relaxed minimum) is the
// caller's responsibility.
var (
	ErrEmptyName                     = errors.New("launchpad: token name is empty")
	ErrEmptySymbol                   = errors.New("launchpad: token symbol is empty")
	ErrInvalidAssetReference         = errors.New("launchpad: unknown asset identifier")
	ErrLaunchCompleted               = errors.New("launchpad: launch already completed")
	ErrZeroValueSent                 = errors.New("launchpad: zero currency sent")
	ErrZeroTokensComputed            = errors.New("launchpad: computed token output is zero")
	ErrSlippageExceeded              = errors.New("launchpad: output below requested minimum")
	ErrSupplyCapExceeded             = errors.New("launchpad: buy would exceed the bonding supply cap")
	ErrZeroSellAmount                = errors.New("launchpad: zero sell amount")
	ErrInsufficientCirculatingSupply = errors.New("launchpad: sell amount reaches the circulating supply")
	ErrCreatorCapExceeded            = errors.New("launchpad: creator purchase cap exceeded")
	ErrTokenLocked                   = errors.New("launchpad: token locked until creator threshold purchase")
	ErrUnauthorizedCaller            = errors.New("launchpad: caller is not the authority")
	ErrReentrantCall                 = errors.New("launchpad: reentrant call rejected")
	ErrNoLiquidityAvailable          = errors.New("launchpad: nothing to migrate")
	ErrVenueNotConfigured            = errors.New("launchpad: liquidity venue not configured")
	ErrTransferRejected              = errors.New("launchpad: currency transfer rejected")
	ErrAlreadyCompleted              = errors.New("launchpad: completion already performed")
	ErrNoReserveToWithdraw           = errors.New("launchpad: held reserve is empty")
)

// SlippageError reports a buy whose computed output fell below the caller's
// minimum. Carries the quote so callers can resubmit with a relaxed bound.
type SlippageError struct {
	UnitsOut *uint256.Int
	MinOut   *uint256.Int
}

func (e *SlippageError) Error() string {
	return fmt.Sprintf("%v: computed %s, minimum %s",
		ErrSlippageExceeded, e.UnitsOut.Dec(), e.MinOut.Dec())
}

func (e *SlippageError) Unwrap() error { return ErrSlippageExceeded }
