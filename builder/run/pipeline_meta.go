package run

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/metrics"
	"github.com/Kush-Singh-26/folio/builder/models"
)

func (b *Builder) buildFeeds(m *metrics.BuildMetrics) error {
	defer m.Phase("feeds")()

	if b.cfg.Features.RSS {
		data, err := b.site.RSS()
		if err != nil {
			return err
		}
		if err := afero.WriteFile(b.DestFs, b.out("rss.xml"), data, 0644); err != nil {
			return fmt.Errorf("failed to write rss.xml: %w", err)
		}
	}
	if b.cfg.Features.Sitemap {
		data, err := b.site.Sitemap()
		if err != nil {
			return err
		}
		if err := afero.WriteFile(b.DestFs, b.out("sitemap.xml"), data, 0644); err != nil {
			return fmt.Errorf("failed to write sitemap.xml: %w", err)
		}
	}
	return nil
}

// finishCache drops records of deleted Documents and records hit counts.
// Cache failures never fail the build.
func (b *Builder) finishCache(posts []models.Post, m *metrics.BuildMetrics) {
	if b.cache == nil {
		return
	}
	defer m.Phase("cache")()

	live := make(map[string]bool, len(posts))
	for _, p := range posts {
		live[p.Slug+p.Format.Ext()] = true
	}
	res, err := b.cache.Prune(func(name string) bool { return live[name] })
	if err != nil {
		b.logger.Warn("Cache prune failed", "error", err)
	} else if res.DeletedRecords > 0 || res.DeletedBlobs > 0 {
		b.logger.Info("Pruned cache", "records", res.DeletedRecords, "blobs", res.DeletedBlobs)
	}
	if _, err := b.cache.IncrementBuildCount(); err != nil {
		b.logger.Warn("Failed to update build count", "error", err)
	}

	m.CacheHits = b.cache.Hits()
	m.CacheMisses = b.cache.Misses()
}
