// Handles template loading and page output
package renderer

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/tdewolff/minify/v2"
	"golang.org/x/text/language"

	"github.com/Kush-Singh-26/folio/builder/content"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// Page kinds, one template each.
const (
	KindHome     = "home"
	KindBlog     = "blog"
	KindPost     = "post"
	KindCategory = "category"
	KindTag      = "tag"
	KindAbout    = "about"
	KindNotFound = "404"
)

type Options struct {
	DestFs   afero.Fs // output filesystem for RenderPage; nil for serve-only use
	BaseURL  string
	Language string
	Compress bool
	Logger   *slog.Logger
}

type Renderer struct {
	DestFs   afero.Fs
	Compress bool

	baseURL  string
	langCode string
	lang     language.Tag
	pages    *templateSet
	minifier *minify.M
	logger   *slog.Logger

	mu     sync.RWMutex
	assets map[string]string

	filesMu sync.Mutex
	files   []string
}

func New(opts Options) (*Renderer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Language == "" {
		opts.Language = "zh"
	}
	r := &Renderer{
		DestFs:   opts.DestFs,
		Compress: opts.Compress,
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		langCode: opts.Language,
		lang:     matchLanguage(opts.Language),
		minifier: utils.NewMinifier(),
		logger:   logger,
		assets:   map[string]string{},
	}

	pages, err := loadTemplates(r.funcMap())
	if err != nil {
		return nil, err
	}
	r.pages = pages
	return r, nil
}

func (r *Renderer) SetAssets(assets map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets = assets
}

func (r *Renderer) GetAssets() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.assets
}

// RegisterFile records a path written by RenderPage.
func (r *Renderer) RegisterFile(path string) {
	r.filesMu.Lock()
	r.files = append(r.files, path)
	r.filesMu.Unlock()
}

// Files returns every path written so far.
func (r *Renderer) Files() []string {
	r.filesMu.Lock()
	defer r.filesMu.Unlock()
	out := make([]string, len(r.files))
	copy(out, r.files)
	return out
}

// Chinese reports whether labels and dates are rendered in Chinese.
func (r *Renderer) Chinese() bool {
	base, _ := r.lang.Base()
	return base.String() == "zh"
}

func (r *Renderer) funcMap() template.FuncMap {
	return template.FuncMap{
		"asset": func(assets map[string]string, name string) string {
			if link, ok := assets[name]; ok {
				return r.baseURL + link
			}
			return r.baseURL + "/assets/" + name
		},
		"postURL": func(p models.Post) string {
			return r.PostURL(p.Slug)
		},
		"categoryURL": r.CategoryURL,
		"tagURL":      r.TagURL,
		"formatDate":  r.FormatDate,
		"formatDateString": func(s string) string {
			t, err := content.ParseDate(s)
			if err != nil {
				return s
			}
			return r.FormatDate(t)
		},
		"isoDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"year": func() int {
			return time.Now().Year()
		},
		"label": r.Label,
		"lower": strings.ToLower,
	}
}

// PostURL is the site-relative (or absolute, with a base URL) link to a post.
func (r *Renderer) PostURL(slug string) string {
	return r.baseURL + "/blog/" + url.PathEscape(slug)
}

func (r *Renderer) CategoryURL(name string) string {
	return r.baseURL + "/blog/category/" + url.PathEscape(content.CategorySlug(name))
}

func (r *Renderer) TagURL(tag string) string {
	return r.baseURL + "/blog/tag/" + url.PathEscape(tag)
}

// FormatDate renders a publish date the way the site language reads it.
func (r *Renderer) FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if r.Chinese() {
		return t.Format("2006年01月02日")
	}
	return t.Format("January 2, 2006")
}

var labels = map[string][2]string{
	"featured":   {"Featured", "精选文章"},
	"categories": {"Categories", "分类"},
	"recent":     {"Recent posts", "最新文章"},
	"allPosts":   {"All posts", "全部文章"},
	"posts":      {"posts", "篇文章"},
	"empty":      {"Nothing here yet.", "暂无文章"},
	"updated":    {"Updated", "更新于"},
	"toc":        {"Contents", "目录"},
	"notFound":   {"This page does not exist.", "页面不存在"},
	"backHome":   {"Back home", "返回首页"},
	"blog":       {"Blog", "博客"},
	"home":       {"Home", "首页"},
	"about":      {"About", "关于"},
}

// Label returns the UI string for key in the site language.
func (r *Renderer) Label(key string) string {
	l, ok := labels[key]
	if !ok {
		return key
	}
	if r.Chinese() {
		return l[1]
	}
	return l[0]
}

var supported = language.NewMatcher([]language.Tag{
	language.English,
	language.Chinese,
})

func matchLanguage(lang string) language.Tag {
	if lang == "" {
		return language.Chinese
	}
	tag, _, _ := supported.Match(language.Make(lang))
	return tag
}

func (r *Renderer) template(kind string) (*template.Template, error) {
	t, ok := r.pages.get(kind)
	if !ok {
		return nil, fmt.Errorf("no template for page kind %q", kind)
	}
	return t, nil
}
