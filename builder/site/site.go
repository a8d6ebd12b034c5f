// Package site assembles the data for every page of the blog from the
// content repository. The static build and the preview server share it.
package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"

	"golang.org/x/sync/singleflight"

	"github.com/Kush-Singh-26/folio/builder/cache"
	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/content"
	"github.com/Kush-Singh-26/folio/builder/generators"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/parser"
	"github.com/Kush-Singh-26/folio/builder/renderer"
)

const (
	FeaturedOnHome = 2
	RecentOnHome   = 6
	CardDir        = "cards"
)

var ErrTagNotFound = errors.New("tag not found")

// IsNotFound reports whether err means the requested page doesn't exist.
func IsNotFound(err error) bool {
	return errors.Is(err, content.ErrPostNotFound) ||
		errors.Is(err, content.ErrCategoryNotFound) ||
		errors.Is(err, ErrTagNotFound)
}

type Options struct {
	Config   *config.Config
	Repo     *content.Repository
	Parser   *parser.Parser
	Renderer *renderer.Renderer

	// Cards draws social cards; nil disables them.
	Cards *generators.CardRenderer
	// Artifacts caches rendered cards.
	Artifacts parser.ArtifactCache

	// BaseURL is prefixed to links. The preview server leaves it empty.
	BaseURL    string
	LiveReload bool
	Logger     *slog.Logger
}

type Site struct {
	cfg        *config.Config
	repo       *content.Repository
	parser     *parser.Parser
	renderer   *renderer.Renderer
	cards      *generators.CardRenderer
	artifacts  parser.ArtifactCache
	baseURL    string
	liveReload bool
	logger     *slog.Logger

	// cardGroup collapses concurrent renders of the same card.
	cardGroup singleflight.Group
}

func New(opts Options) *Site {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Site{
		cfg:        opts.Config,
		repo:       opts.Repo,
		parser:     opts.Parser,
		renderer:   opts.Renderer,
		cards:      opts.Cards,
		artifacts:  opts.Artifacts,
		baseURL:    opts.BaseURL,
		liveReload: opts.LiveReload,
		logger:     logger,
	}
}

func (s *Site) Repo() *content.Repository     { return s.repo }
func (s *Site) Renderer() *renderer.Renderer { return s.renderer }

// base fills the fields every page shares.
func (s *Site) base(kind, title, path string) models.PageData {
	tab := s.cfg.Title
	if title != "" && title != s.cfg.Title {
		tab = title + " | " + s.cfg.Title
	}
	return models.PageData{
		Kind:         kind,
		Title:        title,
		TabTitle:     tab,
		Description:  s.cfg.Description,
		BaseURL:      s.baseURL,
		Permalink:    s.baseURL + path,
		Language:     s.cfg.Language,
		Nav:          s.nav(kind),
		LiveReload:   s.liveReload,
		BuildVersion: s.cfg.BuildVersion,
		Config:       s.cfg,
	}
}

func (s *Site) nav(kind string) []models.NavLink {
	active := func(kinds ...string) bool {
		for _, k := range kinds {
			if k == kind {
				return true
			}
		}
		return false
	}
	return []models.NavLink{
		{Name: s.renderer.Label("home"), URL: s.baseURL + "/", Active: kind == renderer.KindHome},
		{Name: s.renderer.Label("blog"), URL: s.baseURL + "/blog", Active: active(renderer.KindBlog, renderer.KindPost, renderer.KindCategory, renderer.KindTag)},
		{Name: s.renderer.Label("about"), URL: s.baseURL + "/about", Active: kind == renderer.KindAbout},
	}
}

// Home is the landing page: featured posts, categories and recent posts.
func (s *Site) Home() (models.PageData, error) {
	featured, err := s.repo.FeaturedPosts()
	if err != nil {
		return models.PageData{}, err
	}
	if len(featured) > FeaturedOnHome {
		featured = featured[:FeaturedOnHome]
	}
	categories, err := s.repo.Categories()
	if err != nil {
		return models.PageData{}, err
	}
	recent, err := s.repo.RecentPosts(RecentOnHome)
	if err != nil {
		return models.PageData{}, err
	}

	data := s.base(renderer.KindHome, s.cfg.Title, "/")
	data.Featured = featured
	data.Categories = categories
	data.Recent = recent
	return data, nil
}

// Blog lists every post with the category sidebar.
func (s *Site) Blog() (models.PageData, error) {
	posts, err := s.repo.AllPosts()
	if err != nil {
		return models.PageData{}, err
	}
	categories, err := s.repo.Categories()
	if err != nil {
		return models.PageData{}, err
	}

	data := s.base(renderer.KindBlog, s.renderer.Label("blog"), "/blog")
	data.Posts = posts
	data.TotalPosts = len(posts)
	data.Categories = categories
	return data, nil
}

// Post renders a single post with its table of contents and neighbors.
func (s *Site) Post(ctx context.Context, slug string) (models.PageData, error) {
	post, err := s.repo.PostBySlug(slug)
	if err != nil {
		return models.PageData{}, err
	}
	res, err := s.parser.RenderPost(ctx, post)
	if err != nil {
		return models.PageData{}, err
	}
	newer, older, err := s.repo.Neighbors(post.Slug)
	if err != nil {
		return models.PageData{}, err
	}

	path := "/blog/" + url.PathEscape(post.Slug)
	data := s.base(renderer.KindPost, post.Title, path)
	data.Description = post.Description
	data.Post = &post
	data.Content = template.HTML(res.HTML)
	data.TOC = res.TOC
	data.NextPost = newer
	data.PrevPost = older
	if s.cards != nil {
		data.Image = s.baseURL + "/" + CardDir + "/" + url.PathEscape(post.Slug) + ".webp"
	}
	return data, nil
}

// Category lists the posts of the category matching param (slug or name).
func (s *Site) Category(param string) (models.PageData, error) {
	category, err := s.repo.CategoryBySlug(param)
	if err != nil {
		return models.PageData{}, err
	}
	posts, err := s.repo.PostsByCategory(category.Name)
	if err != nil {
		return models.PageData{}, err
	}
	categories, err := s.repo.Categories()
	if err != nil {
		return models.PageData{}, err
	}

	data := s.base(renderer.KindCategory, category.Name, "/blog/category/"+url.PathEscape(category.Slug))
	data.Description = category.Description
	data.Category = &category
	data.Posts = posts
	data.TotalPosts = len(posts)
	data.Categories = categories
	return data, nil
}

// Tag lists the posts carrying tag.
func (s *Site) Tag(tag string) (models.PageData, error) {
	posts, err := s.repo.PostsByTag(tag)
	if err != nil {
		return models.PageData{}, err
	}
	if len(posts) == 0 {
		return models.PageData{}, fmt.Errorf("%w: %q", ErrTagNotFound, tag)
	}
	categories, err := s.repo.Categories()
	if err != nil {
		return models.PageData{}, err
	}

	data := s.base(renderer.KindTag, "#"+tag, "/blog/tag/"+url.PathEscape(tag))
	data.Tag = tag
	data.Posts = posts
	data.TotalPosts = len(posts)
	data.Categories = categories
	return data, nil
}

// About renders the configured about text as Markdown.
func (s *Site) About(ctx context.Context) (models.PageData, error) {
	res, err := s.parser.Render(ctx, s.cfg.About.Body, models.FormatMarkdown)
	if err != nil {
		return models.PageData{}, fmt.Errorf("about page: %w", err)
	}
	title := s.cfg.About.Heading
	if title == "" {
		title = s.renderer.Label("about")
	}
	data := s.base(renderer.KindAbout, title, "/about")
	data.Content = template.HTML(res.HTML)
	return data, nil
}

func (s *Site) NotFound() models.PageData {
	data := s.base(renderer.KindNotFound, "404", "")
	data.Permalink = ""
	return data
}

// Card returns the social card of the post with slug as WebP bytes.
func (s *Site) Card(slug string) ([]byte, error) {
	if s.cards == nil {
		return nil, fmt.Errorf("%w: social cards disabled", content.ErrPostNotFound)
	}
	post, err := s.repo.PostBySlug(slug)
	if err != nil {
		return nil, err
	}

	card := generators.Card{
		SiteTitle:   s.cfg.Title,
		Title:       post.Title,
		Description: post.Description,
		Date:        post.Published.Format("2006-01-02"),
		Category:    post.Category,
	}
	key := card.SiteTitle + "\x00" + card.Title + "\x00" + card.Description + "\x00" + card.Date + "\x00" + card.Category

	v, err, _ := s.cardGroup.Do(key, func() (interface{}, error) {
		return s.renderCard(slug, []byte(key), card)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (s *Site) renderCard(slug string, key []byte, card generators.Card) ([]byte, error) {
	if s.artifacts != nil {
		if data, ok := s.artifacts.Artifact(cache.KindSocialCard, key); ok {
			return data, nil
		}
	}

	data, err := s.cards.WebP(card)
	if err != nil {
		return nil, err
	}
	if s.artifacts != nil {
		if err := s.artifacts.PutArtifact(cache.KindSocialCard, key, data); err != nil {
			s.logger.Warn("Failed to cache social card", "slug", slug, "error", err)
		}
	}
	return data, nil
}
