package run

import (
	"context"
	"strings"

	"github.com/Kush-Singh-26/folio/builder/metrics"
	"github.com/Kush-Singh-26/folio/builder/models"
)

type pageJob struct {
	path  string
	build func() (models.PageData, error)
}

// buildPages renders the listing, about and 404 pages.
func (b *Builder) buildPages(ctx context.Context, m *metrics.BuildMetrics) error {
	defer m.Phase("pages")()

	jobs := []pageJob{
		{b.out("index.html"), b.site.Home},
		{b.out("blog", "index.html"), b.site.Blog},
		{b.out("about", "index.html"), func() (models.PageData, error) { return b.site.About(ctx) }},
		{b.out("404.html"), func() (models.PageData, error) { return b.site.NotFound(), nil }},
	}

	categories, err := b.repo.Categories()
	if err != nil {
		return err
	}
	for _, c := range categories {
		if !safeSegment(c.Slug) {
			b.logger.Warn("Skipping category page with unsafe name", "category", c.Name)
			m.IncrementSkipped()
			continue
		}
		slug := c.Slug
		jobs = append(jobs, pageJob{
			path:  b.out("blog", "category", slug, "index.html"),
			build: func() (models.PageData, error) { return b.site.Category(slug) },
		})
	}

	tags, err := b.repo.Tags()
	if err != nil {
		return err
	}
	for _, t := range tags {
		if !safeSegment(t) {
			b.logger.Warn("Skipping tag page with unsafe name", "tag", t)
			m.IncrementSkipped()
			continue
		}
		tag := t
		jobs = append(jobs, pageJob{
			path:  b.out("blog", "tag", tag, "index.html"),
			build: func() (models.PageData, error) { return b.site.Tag(tag) },
		})
	}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := job.build()
		if err != nil {
			return err
		}
		if err := b.rnd.RenderPage(job.path, data); err != nil {
			return err
		}
		m.IncrementPagesWritten()
	}
	return nil
}

// safeSegment reports whether s can be used as one output directory name.
func safeSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
