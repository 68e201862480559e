package main

import (
	"context"
	"net/http"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/apustovitovsky/native-collections/internal/logging"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		logger := logging.DiscardLogger()
		if fallback, lerr := logging.NewLogger(logging.DefaultConfig()); lerr == nil {
			logger = fallback
		}
		logger.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
	})
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.MetricsAddr != "" {
		go func() {
			logger.Info("starting metrics server", zap.String("address", cfg.MetricsAddr))
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("heap simulation starting",
		zap.Int("capacity", cfg.Capacity),
		zap.Int("operations", cfg.Operations),
		zap.Int64("seed", cfg.Seed),
	)

	sim, err := NewSimulator(cfg, memory.NewGoAllocator(), logger)
	if err != nil {
		logger.Error("failed to build simulator", zap.Error(err))
		os.Exit(1)
	}
	err = sim.Run(context.Background())
	sim.Close()
	if err != nil {
		logger.Error("simulation failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
