// internal/types/types.go
package types

// Address identifies an account in the engine's execution environment.
// The zero value is not a valid account.
type Address string

// ZeroAddress is the absent/unconfigured address.
const ZeroAddress Address = ""

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool { return a == ZeroAddress }

func (a Address) String() string { return string(a) }

// TradeDirection tags a trade as a buy or a sell.
type TradeDirection string

const (
	DirectionBuy  TradeDirection = "buy"
	DirectionSell TradeDirection = "sell"
)
