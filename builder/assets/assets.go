// Package assets bundles the embedded theme: stylesheet, scripts and the
// chroma highlight CSS, with content-hashed file names.
package assets

import (
	"bytes"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"
	"github.com/zeebo/blake3"
)

//go:embed theme
var themeFS embed.FS

// Dir is the URL and output directory bundled files live under.
const Dir = "assets"

// LiveReload is the logical name of the preview-only reload script.
const LiveReload = "livereload.js"

// Bundle holds the built theme files.
type Bundle struct {
	// Files maps output path ("assets/style.1a2b3c4d.css") to contents.
	Files map[string][]byte
	// Links maps logical name ("style.css") to its URL path.
	Links map[string]string
}

// Build reads the embedded theme, appends the highlight stylesheet for style
// to style.css and, when minify is set, runs every file through esbuild.
func Build(style string, minify bool) (*Bundle, error) {
	b := &Bundle{
		Files: make(map[string][]byte),
		Links: make(map[string]string),
	}

	entries, err := fs.ReadDir(themeFS, "theme")
	if err != nil {
		return nil, fmt.Errorf("failed to read theme: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		src, err := themeFS.ReadFile("theme/" + name)
		if err != nil {
			return nil, err
		}

		if name == "style.css" {
			css, err := HighlightCSS(style)
			if err != nil {
				return nil, err
			}
			src = append(append(src, '\n'), css...)
		}

		out := src
		if minify {
			out, err = transform(name, src)
			if err != nil {
				return nil, err
			}
		}

		file := path.Join(Dir, hashedName(name, out))
		b.Files[file] = out
		b.Links[name] = "/" + file
	}

	return b, nil
}

// HighlightCSS returns the class-based chroma stylesheet for style.
func HighlightCSS(style string) ([]byte, error) {
	s := styles.Get(style)
	var buf bytes.Buffer
	formatter := html.New(html.WithClasses(true))
	if err := formatter.WriteCSS(&buf, s); err != nil {
		return nil, fmt.Errorf("failed to write highlight css: %w", err)
	}
	return buf.Bytes(), nil
}

func transform(name string, src []byte) ([]byte, error) {
	loader := api.LoaderJS
	if strings.HasSuffix(name, ".css") {
		loader = api.LoaderCSS
	}

	result := api.Transform(string(src), api.TransformOptions{
		Loader:            loader,
		Sourcefile:        name,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("esbuild failed on %s: %s", name, result.Errors[0].Text)
	}
	return result.Code, nil
}

// hashedName turns "style.css" into "style.<8 hex>.css".
func hashedName(name string, data []byte) string {
	sum := blake3.Sum256(data)
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "." + hex.EncodeToString(sum[:4]) + ext
}

// Lookup returns the contents and content type of the file served at urlPath.
func (b *Bundle) Lookup(urlPath string) ([]byte, string, bool) {
	data, ok := b.Files[strings.TrimPrefix(urlPath, "/")]
	if !ok {
		return nil, "", false
	}
	ctype := mime.TypeByExtension(filepath.Ext(urlPath))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	return data, ctype, true
}

// WriteTo writes every bundled file below outputDir on fsys.
func (b *Bundle) WriteTo(fsys afero.Fs, outputDir string, onWrite func(string)) error {
	names := make([]string, 0, len(b.Files))
	for name := range b.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dest := filepath.Join(outputDir, filepath.FromSlash(name))
		if err := fsys.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		if err := afero.WriteFile(fsys, dest, b.Files[name], 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
		if onWrite != nil {
			onWrite(dest)
		}
	}
	return nil
}
