// internal/ledger/ledger.go
package ledger

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/curvelabs/launchpad/internal/types"
)

// Ledger-level failures. The engine treats any of these as fatal for the
// enclosing operation.
var (
	ErrNotMintAuthority      = errors.New("ledger: caller is not the mint authority")
	ErrInsufficientBalance   = errors.New("ledger: insufficient balance")
	ErrInsufficientAllowance = errors.New("ledger: insufficient allowance")
	ErrInvalidAmount         = errors.New("ledger: invalid amount")
)

// AssetLedger is the fungible-asset capability set backing one launch.
// One instance exists per launched asset; the registry that created it holds
// exclusive, irrevocable mint (and burn) authority. Callers are passed
// explicitly where the hosting environment would supply them implicitly.
type AssetLedger interface {
	// Mint creates amount units for to. Only the mint authority may call.
	Mint(caller, to types.Address, amount *uint256.Int) error

	// Burn destroys amount units held by owner. Only the mint authority may
	// call; used for curve sells after BurnFrom allowance checks, and for
	// compensating a mint when an enclosing operation aborts.
	Burn(caller, owner types.Address, amount *uint256.Int) error

	// BurnFrom destroys amount units held by owner, consuming owner's
	// allowance granted to caller.
	BurnFrom(caller, owner types.Address, amount *uint256.Int) error

	// Approve sets spender's allowance over owner's balance.
	Approve(owner, spender types.Address, amount *uint256.Int)

	// Allowance returns spender's remaining allowance over owner's balance.
	Allowance(owner, spender types.Address) *uint256.Int

	// BalanceOf returns the units held by addr.
	BalanceOf(addr types.Address) *uint256.Int

	// Transfer moves amount units from from to to.
	Transfer(from, to types.Address, amount *uint256.Int) error

	// TransferFrom moves amount units from from to to, consuming from's
	// allowance granted to caller.
	TransferFrom(caller, from, to types.Address, amount *uint256.Int) error

	// TotalSupply returns the units currently in existence.
	TotalSupply() *uint256.Int
}

// CurrencyLedger tracks native-currency balances. Sends are fallible and the
// engine aborts the enclosing operation when one fails.
type CurrencyLedger interface {
	BalanceOf(addr types.Address) *uint256.Int
	Transfer(from, to types.Address, amount *uint256.Int) error
}

// AssetLedgerFactory instantiates a fresh AssetLedger for a new launch with
// authority as its exclusive mint authority.
type AssetLedgerFactory func(name, symbol string, authority types.Address) AssetLedger
