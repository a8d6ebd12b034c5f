// Package content reads a directory of Markdown/MDX Documents and answers
// queries over the Posts and Categories derived from them.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// ParseCache persists parsed Posts between processes. Entries are keyed by
// file name and only valid for the exact size and mtime they were stored with.
type ParseCache interface {
	Lookup(name string, size int64, modTime time.Time) (models.Post, bool)
	Store(name string, size int64, modTime time.Time, raw []byte, post models.Post) error
}

// Repository is the read-only query surface over a Content Store.
// It is safe for concurrent use.
type Repository struct {
	fs          afero.Fs
	root        string
	wpm         int
	strict      bool
	description string
	logger      *slog.Logger
	cache       ParseCache
	snap        *snapshot
}

type Option func(*Repository)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithWordsPerMinute(wpm int) Option {
	return func(r *Repository) {
		if wpm > 0 {
			r.wpm = wpm
		}
	}
}

// WithStrict makes listings fail on the first malformed Document instead of
// skipping it.
func WithStrict(strict bool) Option {
	return func(r *Repository) { r.strict = strict }
}

// WithCategoryDescription sets the fmt pattern for Category.Description.
func WithCategoryDescription(pattern string) Option {
	return func(r *Repository) {
		if pattern != "" {
			r.description = pattern
		}
	}
}

// WithSnapshot keeps the last parsed listing in memory and reuses it while
// the store fingerprint is unchanged.
func WithSnapshot() Option {
	return func(r *Repository) { r.snap = &snapshot{} }
}

func WithParseCache(c ParseCache) Option {
	return func(r *Repository) { r.cache = c }
}

// New creates a Repository over root inside fsys.
func New(fsys afero.Fs, root string, opts ...Option) *Repository {
	r := &Repository{
		fs:          fsys,
		root:        root,
		wpm:         DefaultWordsPerMinute,
		description: DefaultCategoryDescription,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the content directory the repository reads.
func (r *Repository) Root() string {
	return r.root
}

// Invalidate drops the in-memory snapshot, if any.
func (r *Repository) Invalidate() {
	if r.snap != nil {
		r.snap.invalidate()
	}
}

// Fingerprint hashes name, size and mtime of every recognized Document.
func (r *Repository) Fingerprint() (string, error) {
	fp, err := utils.HashDirFast(r.fs, r.root, func(name string) bool {
		_, ok := FormatOf(name)
		return ok
	})
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint content store %s: %w", r.root, err)
	}
	return fp, nil
}

// AllPosts returns every Post, newest first.
func (r *Repository) AllPosts() ([]models.Post, error) {
	if r.snap != nil {
		return r.snap.load(r)
	}
	return r.scan()
}

// PostBySlug loads a single Post, trying the Markdown file before the MDX one.
// It returns ErrPostNotFound when neither exists and a *DocumentError when the
// file exists but can't be parsed.
func (r *Repository) PostBySlug(slug string) (models.Post, error) {
	if !validSlug(slug) {
		return models.Post{}, ErrPostNotFound
	}
	for _, format := range []models.Format{models.FormatMarkdown, models.FormatMDX} {
		path := filepath.Join(r.root, slug+format.Ext())
		info, err := r.fs.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return models.Post{}, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}
		return r.load(info)
	}
	return models.Post{}, ErrPostNotFound
}

// PostsByCategory keeps posts whose category equals name exactly.
func (r *Repository) PostsByCategory(name string) ([]models.Post, error) {
	return r.filter(func(p models.Post) bool { return p.Category == name })
}

// FeaturedPosts keeps posts flagged as featured.
func (r *Repository) FeaturedPosts() ([]models.Post, error) {
	return r.filter(func(p models.Post) bool { return p.Featured })
}

// PostsByTag keeps posts carrying tag (exact match).
func (r *Repository) PostsByTag(tag string) ([]models.Post, error) {
	return r.filter(func(p models.Post) bool {
		for _, t := range p.Tags {
			if t == tag {
				return true
			}
		}
		return false
	})
}

// RecentPosts returns at most n of the newest posts.
func (r *Repository) RecentPosts(n int) ([]models.Post, error) {
	posts, err := r.AllPosts()
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(posts) > n {
		posts = posts[:n]
	}
	return posts, nil
}

// Categories aggregates posts by category, most populated first. Categories
// with equal counts keep the order they were first seen in.
func (r *Repository) Categories() ([]models.Category, error) {
	posts, err := r.AllPosts()
	if err != nil {
		return nil, err
	}
	return r.aggregateCategories(posts), nil
}

// CategoryBySlug resolves a route parameter to a Category. The parameter may
// be the derived slug or the (possibly URL-escaped) category name.
func (r *Repository) CategoryBySlug(param string) (models.Category, error) {
	cats, err := r.Categories()
	if err != nil {
		return models.Category{}, err
	}
	decoded, err := url.PathUnescape(param)
	if err != nil {
		decoded = param
	}
	for _, c := range cats {
		if c.Slug == param || c.Slug == decoded || c.Name == decoded {
			return c, nil
		}
	}
	return models.Category{}, ErrCategoryNotFound
}

// Tags returns the distinct tags of all posts in byte-wise order.
func (r *Repository) Tags() ([]string, error) {
	posts, err := r.AllPosts()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, p := range posts {
		for _, t := range p.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

// Neighbors returns the posts published right after (newer) and right before
// (older) slug. Either may be nil at the ends of the list.
func (r *Repository) Neighbors(slug string) (newer, older *models.Post, err error) {
	posts, err := r.AllPosts()
	if err != nil {
		return nil, nil, err
	}
	for i := range posts {
		if posts[i].Slug != slug {
			continue
		}
		if i > 0 {
			p := posts[i-1]
			newer = &p
		}
		if i+1 < len(posts) {
			p := posts[i+1]
			older = &p
		}
		return newer, older, nil
	}
	return nil, nil, ErrPostNotFound
}

func (r *Repository) filter(keep func(models.Post) bool) ([]models.Post, error) {
	posts, err := r.AllPosts()
	if err != nil {
		return nil, err
	}
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Repository) aggregateCategories(posts []models.Post) []models.Category {
	index := make(map[string]int)
	cats := make([]models.Category, 0)
	for _, p := range posts {
		if i, ok := index[p.Category]; ok {
			cats[i].Count++
			continue
		}
		index[p.Category] = len(cats)
		cats = append(cats, models.Category{
			Name:        p.Category,
			Slug:        CategorySlug(p.Category),
			Description: describeCategory(r.description, p.Category),
			Count:       1,
		})
	}
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Count > cats[j].Count })
	return cats
}

// scan reads and parses the whole store. Entries come back from ReadDir in
// name order, which is the tie-break order for equal publish dates.
func (r *Repository) scan() ([]models.Post, error) {
	entries, err := afero.ReadDir(r.fs, r.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read content store %s: %w", r.root, err)
	}

	posts := make([]models.Post, 0, len(entries))
	seen := make(map[string]string, len(entries))
	for _, info := range entries {
		if info.IsDir() {
			continue
		}
		if _, ok := FormatOf(info.Name()); !ok {
			continue
		}

		// "a.md" sorts before "a.mdx", so the Markdown file claims the slug
		// first, even when it is malformed. PostBySlug resolves the same way.
		slug := strings.TrimSuffix(info.Name(), filepath.Ext(info.Name()))
		if first, dup := seen[slug]; dup {
			r.logger.Warn("Skipping document with duplicate slug", "path", info.Name(), "kept", first)
			continue
		}
		seen[slug] = info.Name()

		post, err := r.load(info)
		if err != nil {
			var docErr *DocumentError
			if errors.As(err, &docErr) && !r.strict {
				r.logger.Warn("Skipping malformed document", "path", docErr.Path, "error", docErr.Err)
				continue
			}
			return nil, err
		}
		posts = append(posts, post)
	}

	utils.SortPosts(posts)
	return posts, nil
}

func (r *Repository) load(info os.FileInfo) (models.Post, error) {
	name := info.Name()
	if r.cache != nil {
		if post, ok := r.cache.Lookup(name, info.Size(), info.ModTime()); ok {
			return post, nil
		}
	}

	path := filepath.Join(r.root, name)
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	post, err := ParseDocument(name, data, r.wpm)
	if err != nil {
		return models.Post{}, err
	}

	if r.cache != nil {
		if err := r.cache.Store(name, info.Size(), info.ModTime(), data, post); err != nil {
			r.logger.Warn("Failed to cache parsed document", "path", path, "error", err)
		}
	}
	return post, nil
}
