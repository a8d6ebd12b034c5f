package run

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Kush-Singh-26/folio/builder/metrics"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// Build renders the whole site into the output directory.
func (b *Builder) Build(ctx context.Context) (*metrics.BuildMetrics, error) {
	cfg := b.cfg
	fmt.Printf("🔨 Building site... (Version: %d) | Parallel Workers: %d\n", cfg.BuildVersion, cfg.Build.Workers)

	lock, err := utils.AcquireBuildLock(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	m := metrics.NewBuildMetrics()
	if err := b.DestFs.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	b.repo.Invalidate()
	posts, err := b.repo.AllPosts()
	if err != nil {
		return nil, err
	}

	if err := b.buildAssets(ctx, m); err != nil {
		return nil, err
	}
	if err := b.buildPosts(ctx, posts, m); err != nil {
		return nil, err
	}
	if err := b.buildPages(ctx, m); err != nil {
		return nil, err
	}
	if err := b.buildFeeds(m); err != nil {
		return nil, err
	}
	b.finishCache(posts, m)

	m.RecordEnd()
	return m, nil
}

// out joins URL path segments onto the output directory.
func (b *Builder) out(parts ...string) string {
	return filepath.Join(append([]string{b.cfg.OutputDir}, parts...)...)
}
