// Package build is the folio build command.
package build

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/run"
)

// Run builds the site described by cfg into cfg.OutputDir.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	b, err := run.NewBuilder(cfg, run.Options{Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to initialize builder: %w", err)
	}
	defer b.Close()

	m, err := b.Build(ctx)
	if err != nil {
		return err
	}
	m.Print()
	fmt.Printf("✅ Site written to %s\n", cfg.OutputDir)
	return nil
}
