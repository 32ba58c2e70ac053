// internal/launchpad/price_test.go
package launchpad

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceAtZeroSupply(t *testing.T) {
	params := testParams()

	price := params.PriceAt(uint256.NewInt(0))
	assert.Equal(t, params.InitialPrice.Dec(), price.Dec())

	// The returned value is a copy; mutating it must not corrupt the params.
	price.Add(price, uint256.NewInt(1))
	assert.Equal(t, e18(1).Dec(), params.InitialPrice.Dec())
}

func TestPriceAtKnownPoints(t *testing.T) {
	params := testParams() // initial 1.0, step 100

	tests := []struct {
		name   string
		supply *uint256.Int
		want   *uint256.Int
	}{
		{"one step doubles", e18(100), e18(2)},
		{"two steps quintuple", e18(200), e18(5)},
		{"half step", e18(50), uint256.MustFromDecimal("1250000000000000000")},
		{"bonding max", e18(700), e18(50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := params.PriceAt(tt.supply)
			assert.Equal(t, tt.want.Dec(), got.Dec())
		})
	}
}

// Production-scale check: 0.0001533 initial price, 10M-unit step, 1B-unit
// max supply. One step of circulating supply doubles the quote.
func TestPriceAtProductionScale(t *testing.T) {
	params := CurveParams{
		InitialPrice: uint256.MustFromDecimal("153300000000000"),
		StepSize:     uint256.MustFromDecimal("10000000000000000000000000"),
		MaxSupply:    uint256.MustFromDecimal("1000000000000000000000000000"),
		FeePercent:   1,
	}

	price := params.PriceAt(params.StepSize)
	want := new(uint256.Int).Mul(params.InitialPrice, uint256.NewInt(2))
	assert.Equal(t, want.Dec(), price.Dec())
}

func TestPriceNonDecreasing(t *testing.T) {
	params := testParams()

	prev := params.PriceAt(uint256.NewInt(0))
	for n := uint64(1); n <= 700; n += 7 {
		price := params.PriceAt(e18(n))
		require.False(t, price.Lt(prev), "price decreased at supply %d", n)
		prev = price
	}
}

func TestAllocationSplits(t *testing.T) {
	params := testParams() // max supply 1000

	assert.Equal(t, e18(700).Dec(), params.BondingMax().Dec())
	assert.Equal(t, e18(300).Dec(), params.ReserveAmount().Dec())
	assert.Equal(t, e18(140).Dec(), params.CreatorCap().Dec())
	assert.Equal(t, e18(20).Dec(), params.UnlockThreshold().Dec())
}

func TestFeeTruncates(t *testing.T) {
	params := testParams() // 1%

	assert.Equal(t, "1", params.fee(uint256.NewInt(100)).Dec())
	assert.Equal(t, "0", params.fee(uint256.NewInt(99)).Dec())
	assert.Equal(t, "0", params.fee(uint256.NewInt(0)).Dec())
	assert.Equal(t, e18(1).Dec(), params.fee(e18(100)).Dec())
}
