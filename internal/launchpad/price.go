// internal/launchpad/price.go
package launchpad

import (
	"github.com/holiman/uint256"
)

// Scale is the fixed-point scale factor for prices and supply amounts.
var Scale = uint256.MustFromDecimal("1000000000000000000") // 1e18

// CurveParams fixes the pricing function and allocation split for every
// launch handled by one engine instance.
type CurveParams struct {
	// InitialPrice is the quoted price at zero supply, 1e18-scaled.
	InitialPrice *uint256.Int

	// StepSize controls curve steepness: price doubles at one step of
	// circulating supply, quintuples at two.
	StepSize *uint256.Int

	// MaxSupply is the fixed total supply of every launch. 70% is sold
	// through the curve, 30% is held back for migration.
	MaxSupply *uint256.Int

	// FeePercent is the protocol fee taken from every trade's currency leg.
	FeePercent uint64
}

// PriceAt returns the quoted unit price at the given circulating supply:
//
//	price(s) = InitialPrice * (1 + (s/StepSize)^2)
//
// computed in 1e18 fixed point with truncating division at each step. Pure,
// total, and non-decreasing in supply.
func (p *CurveParams) PriceAt(supply *uint256.Int) *uint256.Int {
	if supply.IsZero() {
		return new(uint256.Int).Set(p.InitialPrice)
	}

	// ratio = supply * Scale / StepSize, then square and rescale.
	ratio := new(uint256.Int).Mul(supply, Scale)
	ratio.Div(ratio, p.StepSize)
	squared := new(uint256.Int).Mul(ratio, ratio)
	squared.Div(squared, Scale)

	price := new(uint256.Int).Add(Scale, squared)
	price.Mul(price, p.InitialPrice)
	price.Div(price, Scale)
	return price
}

// BondingMax is the curve's supply cap: 70% of max supply.
func (p *CurveParams) BondingMax() *uint256.Int {
	out := new(uint256.Int).Mul(p.MaxSupply, uint256.NewInt(70))
	return out.Div(out, uint256.NewInt(100))
}

// ReserveAmount is the held reserve minted at launch: 30% of max supply.
func (p *CurveParams) ReserveAmount() *uint256.Int {
	out := new(uint256.Int).Mul(p.MaxSupply, uint256.NewInt(30))
	return out.Div(out, uint256.NewInt(100))
}

// CreatorCap bounds the creator's cumulative curve purchases: 20% of the
// bonding allocation.
func (p *CurveParams) CreatorCap() *uint256.Int {
	out := new(uint256.Int).Mul(p.BondingMax(), uint256.NewInt(20))
	return out.Div(out, uint256.NewInt(100))
}

// UnlockThreshold is the creator purchase, 2% of max supply, that opens the
// launch to the public.
func (p *CurveParams) UnlockThreshold() *uint256.Int {
	out := new(uint256.Int).Mul(p.MaxSupply, uint256.NewInt(2))
	return out.Div(out, uint256.NewInt(100))
}

// fee returns amount * FeePercent / 100, truncating.
func (p *CurveParams) fee(amount *uint256.Int) *uint256.Int {
	out := new(uint256.Int).Mul(amount, uint256.NewInt(p.FeePercent))
	return out.Div(out, uint256.NewInt(100))
}
