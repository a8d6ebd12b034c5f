// Package server is the folio preview server: it renders every page on
// request straight from the content repository and pushes reload events to
// open browsers when a Document changes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/assets"
	"github.com/Kush-Singh-26/folio/builder/site"
)

const EventsPath = "/__folio/events"

type Options struct {
	Addr string
	Site *site.Site
	// Assets serves the theme bundle under /assets/.
	Assets *assets.Bundle

	// StaticFs and StaticDir back /static/.
	StaticFs  afero.Fs
	StaticDir string

	// WatchDirs are watched for changes; empty disables live reload.
	WatchDirs       []string
	Debounce        time.Duration
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

type Server struct {
	opts    Options
	site    *site.Site
	hub     *hub
	metrics *serverMetrics
	logger  *slog.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.StaticFs == nil {
		opts.StaticFs = afero.NewOsFs()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	return &Server{
		opts:    opts,
		site:    opts.Site,
		hub:     newHub(),
		metrics: newServerMetrics(),
		logger:  logger,
	}
}

// Handler returns the full route table. Everything except the event stream
// and the metrics endpoint is gzip-compressed.
func (s *Server) Handler() http.Handler {
	pages := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc) {
		pages.HandleFunc(pattern, s.metrics.instrument(pattern, h))
	}
	handle("GET /{$}", s.handleHome)
	handle("GET /blog", s.handleBlog)
	handle("GET /blog/{$}", s.handleBlog)
	// Links between posts carry a trailing slash, matching blog/<slug>/index.html.
	handle("GET /blog/{slug}", s.handlePost)
	handle("GET /blog/{slug}/{$}", s.handlePost)
	handle("GET /blog/category/{category}", s.handleCategory)
	handle("GET /blog/category/{category}/{$}", s.handleCategory)
	handle("GET /blog/tag/{tag}", s.handleTag)
	handle("GET /blog/tag/{tag}/{$}", s.handleTag)
	handle("GET /about", s.handleAbout)
	handle("GET /"+site.CardDir+"/{file}", s.handleCard)
	handle("GET /rss.xml", s.handleRSS)
	handle("GET /sitemap.xml", s.handleSitemap)
	handle("GET /"+assets.Dir+"/", s.handleAsset)
	handle("GET /static/", s.staticHandler().ServeHTTP)
	handle("/", s.handleNotFound)

	root := http.NewServeMux()
	root.HandleFunc("GET "+EventsPath, s.handleEvents)
	root.Handle("GET "+MetricsPath, s.metrics.handler())
	root.Handle("/", gzhttp.GzipHandler(pages))
	return root
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.metrics.clients.Inc()
	defer s.metrics.clients.Dec()
	s.hub.serveSSE(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if len(s.opts.WatchDirs) > 0 {
		w, err := newWatcher(s.opts.WatchDirs, s.opts.Debounce, s.onChange, s.logger)
		if err != nil {
			s.logger.Warn("Live reload disabled", "error", err)
		} else {
			defer w.Close()
		}
	}

	httpServer := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Open event streams never go idle, so end them before Shutdown waits.
	httpServer.RegisterOnShutdown(s.hub.close)

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("🌐 Serving on http://%s\n", s.opts.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Println("\n🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	fmt.Println("✅ Server stopped.")
	return nil
}

// onChange drops the repository snapshot and tells browsers to reload.
func (s *Server) onChange() {
	s.site.Repo().Invalidate()
	s.metrics.reloads.Inc()
	n := s.hub.broadcast()
	s.logger.Info("Content changed, reloading", "clients", n)
}
