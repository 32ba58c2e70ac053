// Package export writes the engine's trade history to CSV or JSON files for
// offline analysis. It consumes the event stream's log and never feeds back
// into engine control flow.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/curvelabs/launchpad/internal/events"
	"github.com/curvelabs/launchpad/internal/types"
)

// Format represents the export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Options configures the export behavior
type Options struct {
	Format          Format
	StartTime       time.Time
	EndTime         time.Time
	AssetFilter     string
	DirectionFilter types.TradeDirection
	OutputDir       string
}

// TradeRow is one exported trade, flattened from a TradedEvent.
type TradeRow struct {
	Timestamp time.Time            `json:"timestamp"`
	AssetID   string               `json:"asset_id"`
	Trader    types.Address        `json:"trader"`
	Direction types.TradeDirection `json:"direction"`
	Currency  string               `json:"currency_amount"`
	Units     string               `json:"units_amount"`
	NewPrice  string               `json:"new_price"`
}

// Summary aggregates the exported rows.
type Summary struct {
	TradeCount int `json:"trade_count"`
	BuyCount   int `json:"buy_count"`
	SellCount  int `json:"sell_count"`
}

// TradeExporter handles trade export functionality
type TradeExporter struct {
	logger *zap.Logger
}

// NewTradeExporter creates a new trade exporter
func NewTradeExporter(logger *zap.Logger) *TradeExporter {
	return &TradeExporter{
		logger: logger.Named("export"),
	}
}

// ExportTrades filters the event log down to trades matching the options and
// writes them to a timestamped file. Returns the output path.
func (te *TradeExporter) ExportTrades(log []events.Event, options Options) (string, error) {
	rows := te.collectRows(log, options)
	if len(rows) == 0 {
		return "", fmt.Errorf("no trades match the export criteria")
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})

	filename := te.generateFilename(options)
	outputPath := filepath.Join(options.OutputDir, filename)

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = te.exportToCSV(rows, outputPath)
	case FormatJSON:
		err = te.exportToJSON(rows, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return "", err
	}

	te.logger.Info("Trades exported",
		zap.String("file", outputPath),
		zap.Int("count", len(rows)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

// collectRows picks the traded events out of the log and applies the filters.
func (te *TradeExporter) collectRows(log []events.Event, options Options) []TradeRow {
	var rows []TradeRow

	for _, ev := range log {
		traded, ok := ev.(events.TradedEvent)
		if !ok {
			continue
		}
		if !options.StartTime.IsZero() && traded.Timestamp().Before(options.StartTime) {
			continue
		}
		if !options.EndTime.IsZero() && traded.Timestamp().After(options.EndTime) {
			continue
		}
		if options.AssetFilter != "" && traded.Asset() != options.AssetFilter {
			continue
		}
		if options.DirectionFilter != "" && traded.Direction != options.DirectionFilter {
			continue
		}

		rows = append(rows, TradeRow{
			Timestamp: traded.Timestamp(),
			AssetID:   traded.Asset(),
			Trader:    traded.Trader,
			Direction: traded.Direction,
			Currency:  traded.CurrencyAmount.Dec(),
			Units:     traded.UnitsAmount.Dec(),
			NewPrice:  traded.NewPrice.Dec(),
		})
	}

	return rows
}

// generateFilename creates a filename based on export options
func (te *TradeExporter) generateFilename(options Options) string {
	timestamp := time.Now().Format("20060102_150405")

	var prefix string
	if options.DirectionFilter != "" {
		prefix = fmt.Sprintf("trades_%s", options.DirectionFilter)
	} else {
		prefix = "trades_all"
	}

	if options.AssetFilter != "" {
		asset := options.AssetFilter
		if len(asset) > 8 {
			asset = asset[:8]
		}
		prefix += "_" + asset
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

func csvHeaders() []string {
	return []string{"timestamp", "asset_id", "trader", "direction", "currency_amount", "units_amount", "new_price"}
}

func (r TradeRow) toCSV() []string {
	return []string{
		r.Timestamp.Format(time.RFC3339),
		r.AssetID,
		r.Trader.String(),
		string(r.Direction),
		r.Currency,
		r.Units,
		r.NewPrice,
	}
}

// exportToCSV writes rows to CSV format
func (te *TradeExporter) exportToCSV(rows []TradeRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.toCSV()); err != nil {
			return fmt.Errorf("failed to write trade: %w", err)
		}
	}

	return nil
}

// exportToJSON writes rows to JSON format with metadata
func (te *TradeExporter) exportToJSON(rows []TradeRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime time.Time  `json:"export_time"`
		TradeCount int        `json:"trade_count"`
		Trades     []TradeRow `json:"trades"`
		Summary    Summary    `json:"summary"`
	}{
		ExportTime: time.Now(),
		TradeCount: len(rows),
		Trades:     rows,
		Summary:    summarize(rows),
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

func summarize(rows []TradeRow) Summary {
	s := Summary{TradeCount: len(rows)}
	for _, r := range rows {
		switch r.Direction {
		case types.DirectionBuy:
			s.BuyCount++
		case types.DirectionSell:
			s.SellCount++
		}
	}
	return s
}
