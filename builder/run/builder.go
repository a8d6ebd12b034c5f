// Package run wires the content repository, parser, renderer and caches
// together and drives the static build.
package run

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/assets"
	"github.com/Kush-Singh-26/folio/builder/cache"
	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/content"
	"github.com/Kush-Singh-26/folio/builder/generators"
	mdParser "github.com/Kush-Singh-26/folio/builder/parser"
	"github.com/Kush-Singh-26/folio/builder/renderer"
	"github.com/Kush-Singh-26/folio/builder/renderer/native"
	"github.com/Kush-Singh-26/folio/builder/site"
)

type Options struct {
	SourceFs afero.Fs // content, static files and fonts; defaults to the OS
	DestFs   afero.Fs // build output; defaults to the OS
	Logger   *slog.Logger

	// Preview turns the builder into the backend of folio serve: links are
	// site-relative and pages carry the live reload script.
	Preview bool
}

// Builder maintains the state for site builds
type Builder struct {
	cfg      *config.Config
	logger   *slog.Logger
	SourceFs afero.Fs
	DestFs   afero.Fs

	cache    *cache.Manager
	native   *native.Renderer
	repo     *content.Repository
	md       *mdParser.Parser
	rnd      *renderer.Renderer
	bundle   *assets.Bundle
	site     *site.Site
	hasCards bool
}

// NewBuilder initializes a new site builder
func NewBuilder(cfg *config.Config, opts Options) (*Builder, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sourceFs := opts.SourceFs
	if sourceFs == nil {
		sourceFs = afero.NewOsFs()
	}
	destFs := opts.DestFs
	if destFs == nil {
		destFs = afero.NewOsFs()
	}

	b := &Builder{
		cfg:      cfg,
		logger:   logger,
		SourceFs: sourceFs,
		DestFs:   destFs,
	}

	if cfg.Content.PersistentCache {
		if err := b.openCache(); err != nil {
			logger.Warn("Persistent cache unavailable, continuing without it", "dir", cfg.CacheDir, "error", err)
		}
	}

	baseURL := cfg.BaseURL
	if opts.Preview {
		baseURL = ""
	}

	parserOpts := mdParser.Options{
		BaseURL:    baseURL,
		WebPImages: cfg.Build.Compress && !opts.Preview,
		Logger:     logger,
	}
	if cfg.Features.Diagrams {
		b.native = native.New(cfg.Build.Workers, logger)
		parserOpts.Diagrams = b.native
	}
	if b.cache != nil {
		parserOpts.Cache = b.cache
	}
	b.md = mdParser.New(parserOpts)

	repoOpts := []content.Option{
		content.WithLogger(logger),
		content.WithWordsPerMinute(cfg.Content.WordsPerMinute),
		content.WithStrict(cfg.Content.Strict),
		content.WithCategoryDescription(cfg.Content.CategoryDescription),
	}
	// A build is one pass over a fixed store. The preview server only keeps
	// a snapshot when asked to, and invalidates it from the file watcher.
	if !opts.Preview || cfg.Content.Cache {
		repoOpts = append(repoOpts, content.WithSnapshot())
	}
	if b.cache != nil {
		repoOpts = append(repoOpts, content.WithParseCache(b.cache))
	}
	b.repo = content.New(sourceFs, cfg.ContentDir, repoOpts...)

	rnd, err := renderer.New(renderer.Options{
		DestFs:   destFs,
		BaseURL:  baseURL,
		Language: cfg.Language,
		Compress: cfg.Build.Compress,
		Logger:   logger,
	})
	if err != nil {
		b.Close()
		return nil, err
	}
	b.rnd = rnd

	bundle, err := assets.Build(mdParser.HighlightStyle, cfg.Build.Compress)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.bundle = bundle
	rnd.SetAssets(bundle.Links)

	siteOpts := site.Options{
		Config:     cfg,
		Repo:       b.repo,
		Parser:     b.md,
		Renderer:   rnd,
		BaseURL:    baseURL,
		LiveReload: opts.Preview,
		Logger:     logger,
	}
	if b.cache != nil {
		siteOpts.Artifacts = b.cache
	}
	if cfg.Build.SocialCards {
		cards, err := b.cardRenderer()
		if err != nil {
			logger.Warn("Social cards disabled", "error", err)
		} else {
			siteOpts.Cards = cards
			b.hasCards = true
		}
	}
	b.site = site.New(siteOpts)

	return b, nil
}

// cacheID changes whenever cached posts would derive differently.
func (b *Builder) cacheID() string {
	return "wpm=" + strconv.Itoa(b.cfg.Content.WordsPerMinute)
}

func (b *Builder) openCache() error {
	m, err := cache.Open(b.cfg.CacheDir)
	if err != nil {
		return err
	}
	stale, err := m.VerifyCacheID(b.cacheID())
	if err != nil {
		_ = m.Close()
		return err
	}
	if stale {
		b.logger.Info("Cache settings changed, resetting parse cache", "dir", b.cfg.CacheDir)
		if err := m.Reset(); err != nil {
			_ = m.Close()
			return err
		}
		if err := m.SetCacheID(b.cacheID()); err != nil {
			_ = m.Close()
			return err
		}
	}
	b.cache = m
	return nil
}

func (b *Builder) cardRenderer() (*generators.CardRenderer, error) {
	if b.cfg.Build.SocialFont == "" {
		return generators.NewCardRenderer(nil)
	}
	data, err := afero.ReadFile(b.SourceFs, filepath.Clean(b.cfg.Build.SocialFont))
	if err != nil {
		return nil, fmt.Errorf("failed to read social font: %w", err)
	}
	return generators.NewCardRenderer(data)
}

func (b *Builder) Config() *config.Config { return b.cfg }

func (b *Builder) Site() *site.Site { return b.site }

func (b *Builder) Assets() *assets.Bundle { return b.bundle }

func (b *Builder) Repo() *content.Repository { return b.repo }

// Close releases the persistent cache.
func (b *Builder) Close() {
	if b.cache == nil {
		return
	}
	if err := b.cache.Close(); err != nil {
		b.logger.Warn("Failed to close cache", "error", err)
	}
	b.cache = nil
}
