package parser

import (
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// urlTransformer rewrites link and image destinations for the published site:
// sibling Document links become post routes, external links open in a new
// tab and local raster images point at their WebP copies.
type urlTransformer struct {
	BaseURL string
	WebP    bool
}

func (t *urlTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch target := n.(type) {
		case *ast.Link:
			target.Destination = []byte(t.rewrite(target, string(target.Destination)))
		case *ast.Image:
			target.SetAttribute([]byte("loading"), []byte("lazy"))
			target.Destination = []byte(t.rewrite(target, string(target.Destination)))
		}
		return ast.WalkContinue, nil
	})
}

func (t *urlTransformer) rewrite(n ast.Node, href string) string {
	if isExternal(href) {
		if _, isLink := n.(*ast.Link); isLink {
			n.SetAttribute([]byte("target"), []byte("_blank"))
			n.SetAttribute([]byte("rel"), []byte("noopener noreferrer"))
		}
		return href
	}
	if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
		return href
	}

	if route, ok := siblingDocument(href); ok {
		href = route
	}

	if t.WebP {
		ext := strings.ToLower(filepath.Ext(href))
		if ext == ".jpg" || ext == ".jpeg" || ext == ".png" {
			href = href[:len(href)-len(ext)] + ".webp"
		}
	}

	if strings.HasPrefix(href, "/") && t.BaseURL != "" {
		href = t.BaseURL + href
	}
	return href
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") || strings.HasPrefix(href, "//")
}

// siblingDocument maps "other.md", "./other.mdx#section" and similar links
// to Documents in the same directory onto their post route.
func siblingDocument(href string) (string, bool) {
	path, frag, _ := strings.Cut(href, "#")
	path = strings.TrimPrefix(path, "./")
	if path == "" || strings.ContainsAny(path, `/\`) {
		return "", false
	}
	for _, ext := range []string{".mdx", ".md"} {
		if slug, ok := strings.CutSuffix(path, ext); ok && slug != "" {
			route := "/blog/" + slug + "/"
			if frag != "" {
				route += "#" + frag
			}
			return route, true
		}
	}
	return "", false
}
