package run

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Kush-Singh-26/folio/builder/metrics"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

func (b *Builder) buildAssets(ctx context.Context, m *metrics.BuildMetrics) error {
	defer m.Phase("assets")()
	cfg := b.cfg

	if err := b.bundle.WriteTo(b.DestFs, cfg.OutputDir, nil); err != nil {
		return err
	}

	err := utils.CopyStatic(ctx, b.SourceFs, b.DestFs, cfg.StaticDir, filepath.Join(cfg.OutputDir, "static"),
		cfg.Build.Compress, cfg.Build.Workers, func(string) { m.IncrementFilesCopied() })
	if err != nil {
		return fmt.Errorf("failed to copy static files: %w", err)
	}
	return nil
}
