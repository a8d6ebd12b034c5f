package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/run"
)

// Serve runs the preview server for cfg until ctx is cancelled.
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := run.NewBuilder(cfg, run.Options{Logger: logger, Preview: true})
	if err != nil {
		return fmt.Errorf("failed to initialize preview: %w", err)
	}
	defer b.Close()

	var watch []string
	if dir := b.Site().Repo().Root(); dirExists(dir) {
		watch = append(watch, dir)
	} else {
		logger.Warn("Content directory missing, live reload disabled", "dir", dir)
	}

	s := New(Options{
		Addr:            cfg.Addr(),
		Site:            b.Site(),
		Assets:          b.Assets(),
		StaticDir:       cfg.StaticDir,
		WatchDirs:       watch,
		Debounce:        cfg.Server.Debounce,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger,
	})
	return s.Run(ctx)
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
