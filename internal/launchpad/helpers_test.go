// internal/launchpad/helpers_test.go
package launchpad

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/curvelabs/launchpad/internal/events"
	"github.com/curvelabs/launchpad/internal/ledger"
	"github.com/curvelabs/launchpad/internal/types"
	"github.com/curvelabs/launchpad/internal/venue"
)

const (
	testAuthority    types.Address = "authority"
	testFeeRecipient types.Address = "treasury"
	testCustody      types.Address = "custody"
	testVenueAddr    types.Address = "venue"
	testCreator      types.Address = "creator"
	testTrader       types.Address = "trader"
)

func e18(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), Scale)
}

// testParams keeps the numbers small enough to reason about by hand:
// 1000-unit supply, 700-unit curve, price 1.0 at zero supply, doubling at
// 100 units, 20-unit unlock threshold, 140-unit creator cap.
func testParams() CurveParams {
	return CurveParams{
		InitialPrice: e18(1),
		StepSize:     e18(100),
		MaxSupply:    e18(1000),
		FeePercent:   1,
	}
}

type testEnv struct {
	engine   *Engine
	currency *ledger.MemoryCurrencyLedger
	venue    *venue.MemoryVenue
	stream   *events.Stream
}

func newTestEnvWith(t *testing.T, params CurveParams) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	stream := events.NewStream(logger)
	currency := ledger.NewMemoryCurrencyLedger()

	engine, err := New(Options{
		Curve:        params,
		Authority:    testAuthority,
		FeeRecipient: testFeeRecipient,
		Custody:      testCustody,
		Currency:     currency,
		NewAssetLedger: func(name, symbol string, authority types.Address) ledger.AssetLedger {
			return ledger.NewMemoryAssetLedger(name, symbol, authority)
		},
		Stream: stream,
	}, logger)
	require.NoError(t, err)

	v := venue.NewMemoryVenue(testVenueAddr, engine, currency, logger)
	engine.ConfigureVenue(v, testVenueAddr)

	return &testEnv{engine: engine, currency: currency, venue: v, stream: stream}
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, testParams())
}

func (env *testEnv) launch(t *testing.T) string {
	t.Helper()

	assetID, err := env.engine.CreateToken(context.Background(), "Test Token", "TST", "", testCreator)
	require.NoError(t, err)
	return assetID
}

func (env *testEnv) fund(addr types.Address, units uint64) {
	env.currency.Credit(addr, e18(units))
}

// unlock runs the creator through the unlock threshold with one exact buy at
// the initial price.
func (env *testEnv) unlock(t *testing.T, assetID string) {
	t.Helper()

	params := env.engine.Params()
	cost := new(uint256.Int).Mul(params.UnlockThreshold(), params.InitialPrice)
	cost.Div(cost, Scale)
	env.currency.Credit(testCreator, cost)

	_, err := env.engine.Buy(context.Background(), assetID, testCreator, cost, nil)
	require.NoError(t, err)

	info, err := env.engine.GetTokenInfo(assetID)
	require.NoError(t, err)
	require.True(t, info.Unlocked)
}

// eventTypes projects the stream's log for one asset onto its type names.
func (env *testEnv) eventTypes(assetID string) []events.EventType {
	var out []events.EventType
	for _, ev := range env.stream.ByAsset(assetID) {
		out = append(out, ev.Type())
	}
	return out
}
