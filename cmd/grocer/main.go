package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/dukerupert/grocer/internal/codec"
	"github.com/dukerupert/grocer/internal/config"
	"github.com/dukerupert/grocer/internal/logging"
	"github.com/dukerupert/grocer/internal/report"
	"github.com/dukerupert/grocer/internal/shell"
	"github.com/dukerupert/grocer/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ledger := store.NewLedger(store.WithLogger(logger))

	if cfg.DataFile != "" {
		snap, err := codec.LoadFile(cfg.DataFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Info("data file not found, starting empty", "path", cfg.DataFile)
		case err != nil:
			slog.Error("failed to load data file", "path", cfg.DataFile, "error", err)
			os.Exit(1)
		default:
			ledger.Restore(snap)
			slog.Info("data file loaded", "path", cfg.DataFile, "items", len(snap.Items), "customers", len(snap.Customers))
		}
	}

	sh := shell.New(ledger, os.Stdin, os.Stdout,
		shell.WithLogger(logger),
		shell.WithLowStockThreshold(cfg.LowStockThreshold),
	)
	if err := sh.Run(); err != nil {
		slog.Error("shell stopped", "error", err)
		os.Exit(1)
	}

	if cfg.SalesExport != "" {
		if err := report.Export(cfg.SalesExport, ledger.Sales()); err != nil {
			slog.Error("failed to export sales", "path", cfg.SalesExport, "error", err)
			os.Exit(1)
		}
		slog.Info("sales exported", "path", cfg.SalesExport)
	}
}
