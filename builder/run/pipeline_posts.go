package run

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/metrics"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/site"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// buildPosts renders blog/<slug>/index.html and cards/<slug>.webp for every
// post on the worker pool.
func (b *Builder) buildPosts(ctx context.Context, posts []models.Post, m *metrics.BuildMetrics) error {
	defer m.Phase("posts")()

	if b.hasCards {
		if err := b.DestFs.MkdirAll(b.out(site.CardDir), 0755); err != nil {
			return fmt.Errorf("failed to create card directory: %w", err)
		}
	}

	pool := utils.NewWorkerPool(ctx, b.cfg.Build.Workers, func(p models.Post) error {
		data, err := b.site.Post(ctx, p.Slug)
		if err != nil {
			return err
		}
		if err := b.rnd.RenderPage(b.out("blog", p.Slug, "index.html"), data); err != nil {
			return err
		}
		m.IncrementPostsRendered()
		m.IncrementPagesWritten()

		if !b.hasCards {
			return nil
		}
		card, err := b.site.Card(p.Slug)
		if err != nil {
			b.logger.Warn("Failed to render social card", "slug", p.Slug, "error", err)
			m.IncrementSkipped()
			return nil
		}
		if err := afero.WriteFile(b.DestFs, b.out(site.CardDir, p.Slug+".webp"), card, 0644); err != nil {
			return fmt.Errorf("failed to write card for %s: %w", p.Slug, err)
		}
		m.IncrementSocialCards()
		return nil
	})
	pool.Start()

	for _, p := range posts {
		pool.Submit(p)
	}
	return pool.Stop()
}
