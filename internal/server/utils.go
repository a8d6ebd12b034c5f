package server

import (
	"net/http"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

var hashedAssetPattern = regexp.MustCompile(`\.[0-9a-f]{8}\.[a-z0-9]+$`)

// isHashedAsset reports whether the file name carries a content hash, which
// makes it safe to cache forever.
func isHashedAsset(p string) bool {
	return hashedAssetPattern.MatchString(path.Base(p))
}

// validatePath rejects request paths that would escape the static root.
func validatePath(requestPath string) bool {
	if strings.Contains(requestPath, "\x00") || strings.Contains(requestPath, `\`) {
		return false
	}
	for _, seg := range strings.Split(requestPath, "/") {
		if seg == ".." {
			return false
		}
	}
	clean := path.Clean("/" + requestPath)
	return !strings.Contains(clean, "..")
}

func (s *Server) staticHandler() http.Handler {
	dir := s.opts.StaticDir
	if dir == "" {
		dir = "static"
	}
	files := http.StripPrefix("/static", http.FileServer(afero.NewHttpFs(s.opts.StaticFs).Dir(filepath.Clean(dir))))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !validatePath(r.URL.Path) || strings.HasSuffix(r.URL.Path, "/") {
			s.handleNotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
