// ====================================
// File: cmd/launchpad/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/curvelabs/launchpad/internal/config"
	"github.com/curvelabs/launchpad/internal/sim"
	"github.com/curvelabs/launchpad/internal/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to engine configuration")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.InitLogger(cfg.DebugLogging, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Info("Starting launchpad demo session")

	runner := sim.NewRunner(logger)
	if err := runner.Initialize(cfg); err != nil {
		logger.Error("Failed to initialize session", zap.Error(err))
		os.Exit(1)
	}
	defer runner.Close()

	if err := runner.Run(ctx); err != nil {
		logger.Error("Session error", zap.Error(err))
		os.Exit(1)
	}
}
