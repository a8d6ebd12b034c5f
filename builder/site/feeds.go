package site

import (
	"net/url"

	"github.com/Kush-Singh-26/folio/builder/content"
	"github.com/Kush-Singh-26/folio/builder/generators"
	"github.com/Kush-Singh-26/folio/builder/models"
)

// RSS renders rss.xml over every post.
func (s *Site) RSS() ([]byte, error) {
	posts, err := s.repo.AllPosts()
	if err != nil {
		return nil, err
	}
	feed := generators.Feed{
		Title:       s.cfg.Title,
		Link:        s.baseURL + "/",
		Description: s.cfg.Description,
		Language:    s.cfg.Language,
	}
	return generators.RSS(feed, posts, func(p models.Post) string {
		return s.renderer.PostURL(p.Slug)
	})
}

// Sitemap renders sitemap.xml over every page the site serves.
func (s *Site) Sitemap() ([]byte, error) {
	posts, err := s.repo.AllPosts()
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.Categories()
	if err != nil {
		return nil, err
	}
	tags, err := s.repo.Tags()
	if err != nil {
		return nil, err
	}

	var lastMod string
	if len(posts) > 0 {
		lastMod = posts[0].Published.Format("2006-01-02")
	}

	urls := []models.Url{
		{Loc: s.baseURL + "/", LastMod: lastMod},
		{Loc: s.baseURL + "/blog", LastMod: lastMod},
		{Loc: s.baseURL + "/about"},
	}
	for _, p := range posts {
		mod := p.Published
		if p.UpdatedAt != "" {
			if t, err := content.ParseDate(p.UpdatedAt); err == nil {
				mod = t
			}
		}
		urls = append(urls, models.Url{
			Loc:     s.renderer.PostURL(p.Slug),
			LastMod: mod.Format("2006-01-02"),
		})
	}
	for _, c := range categories {
		urls = append(urls, models.Url{Loc: s.renderer.CategoryURL(c.Name)})
	}
	for _, t := range tags {
		urls = append(urls, models.Url{Loc: s.baseURL + "/blog/tag/" + url.PathEscape(t)})
	}
	return generators.Sitemap(urls)
}
