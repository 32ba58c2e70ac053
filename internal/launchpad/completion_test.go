// internal/launchpad/completion_test.go
package launchpad

import (
	"context"
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvelabs/launchpad/internal/events"
	"github.com/curvelabs/launchpad/internal/venue"
)

func TestCompleteLaunchRequiresAuthority(t *testing.T) {
	env, assetID := tradedEnv(t)

	err := env.engine.CompleteLaunch(context.Background(), assetID, testTrader)
	assert.ErrorIs(t, err, ErrUnauthorizedCaller)

	info, _ := env.engine.GetTokenInfo(assetID)
	assert.False(t, info.Completed)
}

func TestCompleteLaunchManually(t *testing.T) {
	env, assetID := tradedEnv(t) // supply 70, custody currency 71.28

	require.NoError(t, env.engine.CompleteLaunch(context.Background(), assetID, testAuthority))

	info, err := env.engine.GetTokenInfo(assetID)
	require.NoError(t, err)
	assert.True(t, info.Completed)
	assert.True(t, info.HeldReserve.IsZero())
	// price(70) = 1.49, captured at the completion instant.
	assert.Equal(t, "1490000000000000000", info.FinalPrice.Dec())

	pool := env.venue.Pool(assetID)
	require.NotNil(t, pool)
	assert.Equal(t, e18(300).Dec(), pool.UnitsReserve.Dec())
	assert.Equal(t, "71280000000000000000", pool.CurrencyReserve.Dec())
	assert.True(t, env.currency.BalanceOf(testCustody).IsZero())

	// Completion is one-shot and closes trading.
	err = env.engine.CompleteLaunch(context.Background(), assetID, testAuthority)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	env.fund(testTrader, 1)
	_, err = env.engine.Buy(context.Background(), assetID, testTrader, e18(1), nil)
	assert.ErrorIs(t, err, ErrLaunchCompleted)

	var completed int
	for _, ev := range env.stream.ByAsset(assetID) {
		if ev.Type() == events.Completed {
			completed++
		}
	}
	assert.Equal(t, 1, completed)
}

func TestCompleteLaunchWithoutVenue(t *testing.T) {
	env, assetID := tradedEnv(t)
	env.engine.ConfigureVenue(nil, "")

	err := env.engine.CompleteLaunch(context.Background(), assetID, testAuthority)
	require.ErrorIs(t, err, ErrVenueNotConfigured)

	// The failed migration unwinds the completion flip itself.
	info, _ := env.engine.GetTokenInfo(assetID)
	assert.False(t, info.Completed)
	assert.Equal(t, e18(300).Dec(), info.HeldReserve.Dec())
	assert.Nil(t, info.FinalPrice)
}

func TestCompleteLaunchWithNothingToMigrate(t *testing.T) {
	env := newTestEnv(t)
	assetID := env.launch(t) // no trades: custody holds no currency

	err := env.engine.CompleteLaunch(context.Background(), assetID, testAuthority)
	assert.ErrorIs(t, err, ErrNoLiquidityAvailable)

	// A withdrawn reserve leaves nothing to pair either.
	env2, assetID2 := tradedEnv(t)
	_, err = env2.engine.WithdrawReserve(context.Background(), assetID2, testAuthority)
	require.NoError(t, err)
	err = env2.engine.CompleteLaunch(context.Background(), assetID2, testAuthority)
	assert.ErrorIs(t, err, ErrNoLiquidityAvailable)
}

// failingVenue refuses every deposit.
type failingVenue struct{}

var errVenueDown = errors.New("venue unavailable")

func (failingVenue) AddLiquidity(venue.AddLiquidityParams) (*venue.AddLiquidityResult, error) {
	return nil, errVenueDown
}

// A venue failure during the cap-reaching buy unwinds the entire buy: the
// trade, the completion flip and the currency legs all roll back together.
func TestVenueFailureRollsBackCompletingBuy(t *testing.T) {
	env := newTestEnv(t)
	assetID := env.launch(t)
	env.unlock(t, assetID)
	env.engine.ConfigureVenue(failingVenue{}, testVenueAddr)

	custodyBefore := env.currency.BalanceOf(testCustody)
	feesBefore := env.currency.BalanceOf(testFeeRecipient)
	eventsBefore := env.stream.Len()

	cost := uint256.MustFromDecimal("707200000000000000000") // exact cap fill
	env.currency.Credit(testTrader, cost)
	_, err := env.engine.Buy(context.Background(), assetID, testTrader, cost, nil)
	require.ErrorIs(t, err, errVenueDown)

	info, _ := env.engine.GetTokenInfo(assetID)
	assert.False(t, info.Completed)
	assert.Equal(t, e18(20).Dec(), info.CurrentSupply.Dec())
	assert.Equal(t, e18(300).Dec(), info.HeldReserve.Dec())
	assert.Nil(t, info.FinalPrice)

	// Every currency leg reversed, including the fee hop.
	assert.Equal(t, cost.Dec(), env.currency.BalanceOf(testTrader).Dec())
	assert.Equal(t, custodyBefore.Dec(), env.currency.BalanceOf(testCustody).Dec())
	assert.Equal(t, feesBefore.Dec(), env.currency.BalanceOf(testFeeRecipient).Dec())

	// The asset leg reversed too, and no events leaked out of the failed unit.
	assetLedger, _ := env.engine.AssetLedgerFor(assetID)
	assert.True(t, assetLedger.BalanceOf(testTrader).IsZero())
	assert.Equal(t, eventsBefore, env.stream.Len())

	// The venue's allowance grant was restored on rollback.
	assert.True(t, assetLedger.Allowance(testCustody, testVenueAddr).IsZero())

	// Swapping in a working venue lets the same buy complete the launch.
	env.engine.ConfigureVenue(env.venue, testVenueAddr)
	_, err = env.engine.Buy(context.Background(), assetID, testTrader, cost, nil)
	require.NoError(t, err)
	info, _ = env.engine.GetTokenInfo(assetID)
	assert.True(t, info.Completed)
}
