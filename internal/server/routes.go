package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Kush-Singh-26/folio/builder/content"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/site"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data, err := s.site.Home()
	s.page(w, r, data, err)
}

func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	data, err := s.site.Blog()
	s.page(w, r, data, err)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	data, err := s.site.Post(r.Context(), r.PathValue("slug"))
	s.page(w, r, data, err)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	data, err := s.site.Category(r.PathValue("category"))
	s.page(w, r, data, err)
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	data, err := s.site.Tag(r.PathValue("tag"))
	s.page(w, r, data, err)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	data, err := s.site.About(r.Context())
	s.page(w, r, data, err)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, http.StatusNotFound, s.site.NotFound())
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	slug, ok := strings.CutSuffix(r.PathValue("file"), ".webp")
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	data, err := s.site.Card(slug)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	data, err := s.site.RSS()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	data, err := s.site.Sitemap()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	if s.opts.Assets == nil {
		s.handleNotFound(w, r)
		return
	}
	data, ctype, ok := s.opts.Assets.Lookup(r.URL.Path)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", ctype)
	if isHashedAsset(r.URL.Path) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	} else {
		w.Header().Set("Cache-Control", "no-cache")
	}
	_, _ = w.Write(data)
}

// page renders data, or the matching error page when err is set.
func (s *Server) page(w http.ResponseWriter, r *http.Request, data models.PageData, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, data)
}

// fail answers 404 for missing content and for Documents that exist but
// don't parse; the author sees the parse error in the log.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if site.IsNotFound(err) {
		s.handleNotFound(w, r)
		return
	}
	if errors.Is(err, content.ErrMalformedDocument) {
		s.logger.Warn("Malformed document", "path", r.URL.Path, "error", err)
		s.handleNotFound(w, r)
		return
	}
	s.logger.Error("Failed to serve page", "path", r.URL.Path, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// write renders into a pooled buffer first so a template error never sends
// a half-written page.
func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, data models.PageData) {
	buf := utils.SharedBufferPool.Get()
	defer utils.SharedBufferPool.Put(buf)

	if err := s.site.Renderer().Render(buf, data); err != nil {
		s.logger.Error("Failed to render page", "path", r.URL.Path, "kind", data.Kind, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
