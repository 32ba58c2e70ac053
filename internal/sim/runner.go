// internal/sim/runner.go

// Package sim wires a launchpad engine to in-memory collaborators and drives
// a scripted trading session: launch, creator unlock, concurrent public
// trading, a sell, and completion with liquidity migration.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/curvelabs/launchpad/internal/config"
	"github.com/curvelabs/launchpad/internal/events"
	"github.com/curvelabs/launchpad/internal/export"
	"github.com/curvelabs/launchpad/internal/launchpad"
	"github.com/curvelabs/launchpad/internal/ledger"
	"github.com/curvelabs/launchpad/internal/storage"
	"github.com/curvelabs/launchpad/internal/types"
	"github.com/curvelabs/launchpad/internal/venue"
)

type Runner struct {
	logger   *zap.Logger
	cfg      *config.Config
	stream   *events.Stream
	journal  *storage.Journal
	currency *ledger.MemoryCurrencyLedger
	engine   *launchpad.Engine
	venue    *venue.MemoryVenue
}

func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{logger: logger}
}

// Initialize wires the engine to its collaborators from a loaded config.
func (r *Runner) Initialize(cfg *config.Config) error {
	r.cfg = cfg

	initialPrice, err := config.ParseAmount(cfg.InitialPrice)
	if err != nil {
		return fmt.Errorf("parsing initial_price: %w", err)
	}
	stepSize, err := config.ParseAmount(cfg.StepSize)
	if err != nil {
		return fmt.Errorf("parsing step_size: %w", err)
	}
	maxSupply, err := config.ParseAmount(cfg.MaxSupply)
	if err != nil {
		return fmt.Errorf("parsing max_supply: %w", err)
	}

	r.stream = events.NewStream(r.logger)
	if cfg.JournalPath != "" {
		journal, err := storage.NewJournal(cfg.JournalPath, r.logger)
		if err != nil {
			return fmt.Errorf("opening event journal: %w", err)
		}
		journal.Attach(r.stream)
		r.journal = journal
	}

	r.currency = ledger.NewMemoryCurrencyLedger()

	engine, err := launchpad.New(launchpad.Options{
		Curve: launchpad.CurveParams{
			InitialPrice: initialPrice,
			StepSize:     stepSize,
			MaxSupply:    maxSupply,
			FeePercent:   cfg.FeePercent,
		},
		Authority:    types.Address(cfg.Authority),
		FeeRecipient: types.Address(cfg.FeeRecipient),
		Custody:      types.Address(cfg.Custody),
		Currency:     r.currency,
		NewAssetLedger: func(name, symbol string, authority types.Address) ledger.AssetLedger {
			return ledger.NewMemoryAssetLedger(name, symbol, authority)
		},
		Stream: r.stream,
	}, r.logger)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	r.engine = engine

	venueAddr := types.Address(cfg.VenueAddress)
	if venueAddr.IsZero() {
		venueAddr = "venue"
	}
	r.venue = venue.NewMemoryVenue(venueAddr, engine, r.currency, r.logger)
	engine.ConfigureVenue(r.venue, venueAddr)

	return nil
}

// Run executes the scripted session.
func (r *Runner) Run(ctx context.Context) error {
	creator := types.Address("creator")
	traders := []types.Address{"trader-1", "trader-2", "trader-3"}

	grubstake := uint256.MustFromDecimal("1000000000000000000000000") // 1M currency units
	r.currency.Credit(creator, grubstake)
	for _, t := range traders {
		r.currency.Credit(t, grubstake)
	}

	assetID, err := r.engine.CreateToken(ctx, "Demo Token", "DEMO", `{"uri":"ipfs://demo"}`, creator)
	if err != nil {
		return fmt.Errorf("creating token: %w", err)
	}

	// Phase 1: the creator buys through the unlock threshold. At zero supply
	// the whole fill executes at the initial price, so the cost is exact.
	params := r.engine.Params()
	unlockCost := new(uint256.Int).Mul(params.UnlockThreshold(), params.InitialPrice)
	unlockCost.Div(unlockCost, launchpad.Scale)
	if _, err := r.buyWithRetry(ctx, assetID, creator, unlockCost); err != nil {
		return fmt.Errorf("creator unlock buy: %w", err)
	}

	// Phase 2: public traders hammer the curve concurrently. Collisions with
	// the engine's single-flight execution lock surface as transient errors
	// and are retried by the caller, per the engine's contract.
	tradeSize := uint256.MustFromDecimal("5000000000000000000000") // 5k currency units
	g, gCtx := errgroup.WithContext(ctx)
	for _, trader := range traders {
		trader := trader
		g.Go(func() error {
			for i := 0; i < 10; i++ {
				if _, err := r.buyWithRetry(gCtx, assetID, trader, tradeSize); err != nil {
					if errors.Is(err, launchpad.ErrLaunchCompleted) {
						return nil
					}
					return fmt.Errorf("trader %s buy %d: %w", trader, i, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Phase 3: one trader takes profit. Selling needs a burn allowance for
	// engine custody first.
	assetLedger, ok := r.engine.AssetLedgerFor(assetID)
	if !ok {
		return fmt.Errorf("asset ledger missing for %s", assetID)
	}
	holding := assetLedger.BalanceOf(traders[0])
	sellAmount := new(uint256.Int).Div(holding, uint256.NewInt(2))
	if !sellAmount.IsZero() {
		assetLedger.Approve(traders[0], r.engine.Custody(), sellAmount)
		if _, err := r.engine.Sell(ctx, assetID, traders[0], sellAmount); err != nil {
			if !errors.Is(err, launchpad.ErrLaunchCompleted) {
				return fmt.Errorf("trader sell: %w", err)
			}
			r.logger.Info("Skipping sell, launch already completed")
		}
	}

	// Phase 4: the authority completes the launch; the held reserve and all
	// collected currency migrate to the venue in the same call. A curve that
	// already sold out completed itself during phase 2.
	if err := r.engine.CompleteLaunch(ctx, assetID, types.Address(r.cfg.Authority)); err != nil {
		if !errors.Is(err, launchpad.ErrAlreadyCompleted) {
			return fmt.Errorf("manual completion: %w", err)
		}
	}

	return r.report(ctx, assetID)
}

func (r *Runner) report(ctx context.Context, assetID string) error {
	info, err := r.engine.GetTokenInfo(assetID)
	if err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("asset_id", assetID),
		zap.String("final_supply", info.CurrentSupply.Dec()),
		zap.Bool("completed", info.Completed),
		zap.Bool("unlocked", info.Unlocked),
		zap.String("held_reserve", info.HeldReserve.Dec()),
		zap.String("total_fees", r.engine.Treasury().TotalFees().Dec()),
		zap.String("value_traded", r.engine.Volumes().TotalValueTraded(assetID).Dec()),
		zap.Int("events_emitted", r.stream.Len()),
	}
	if info.FinalPrice != nil {
		fields = append(fields, zap.String("final_price", info.FinalPrice.Dec()))
	}
	if pool := r.venue.Pool(assetID); pool != nil {
		fields = append(fields,
			zap.String("pool_units", pool.UnitsReserve.Dec()),
			zap.String("pool_currency", pool.CurrencyReserve.Dec()),
			zap.String("pool_liquidity", pool.Liquidity.Dec()))
	}
	if r.journal != nil {
		if n, err := r.journal.Count(ctx, assetID); err == nil {
			fields = append(fields, zap.Int64("events_journaled", n))
		}
	}

	if r.cfg.ExportDir != "" {
		exporter := export.NewTradeExporter(r.logger)
		path, err := exporter.ExportTrades(r.stream.All(), export.Options{
			Format:      export.FormatCSV,
			AssetFilter: assetID,
			OutputDir:   r.cfg.ExportDir,
		})
		if err != nil {
			r.logger.Warn("Trade export failed", zap.Error(err))
		} else {
			fields = append(fields, zap.String("export_file", path))
		}
	}

	r.logger.Info("Session complete", fields...)
	return nil
}

// buyWithRetry submits a buy, retrying transient rejections (execution-lock
// collisions, slippage) with exponential backoff. Everything else is
// permanent and surfaces immediately.
func (r *Runner) buyWithRetry(ctx context.Context, assetID string, buyer types.Address, currencyIn *uint256.Int) (*uint256.Int, error) {
	op := func() (*uint256.Int, error) {
		units, err := r.engine.Buy(ctx, assetID, buyer, currencyIn, nil)
		if err != nil {
			if errors.Is(err, launchpad.ErrReentrantCall) || errors.Is(err, launchpad.ErrSlippageExceeded) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return units, nil
	}

	return backoff.Retry(
		ctx,
		op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(10*time.Second),
	)
}

// Close releases the journal.
func (r *Runner) Close() {
	if r.journal != nil {
		if err := r.journal.Close(); err != nil {
			r.logger.Warn("Failed to close event journal", zap.Error(err))
		}
	}
}
