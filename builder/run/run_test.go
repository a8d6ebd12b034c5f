package run

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.BaseURL = "https://example.com"
	cfg.ContentDir = "content/blog"
	cfg.StaticDir = "static"
	cfg.OutputDir = filepath.Join(t.TempDir(), "public")
	cfg.CacheDir = filepath.Join(t.TempDir(), "cache")
	cfg.Build.Workers = 2
	cfg.Features.Diagrams = false
	return cfg
}

func newTestBuilder(t *testing.T, cfg *config.Config) (*Builder, afero.Fs, afero.Fs) {
	t.Helper()
	src, dest := testutil.CreateTestFilesystem()
	testutil.SampleStore(t, src, cfg.ContentDir)
	testutil.WriteFile(t, src, "static/robots.txt", "User-agent: *\n")

	b, err := NewBuilder(cfg, Options{SourceFs: src, DestFs: dest})
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	t.Cleanup(b.Close)
	return b, src, dest
}

func TestBuildWritesSite(t *testing.T) {
	cfg := testConfig(t)
	b, _, dest := newTestBuilder(t, cfg)

	m, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	out := cfg.OutputDir
	for _, rel := range []string{
		"index.html",
		"blog/index.html",
		"blog/a/index.html",
		"blog/b/index.html",
		"blog/c/index.html",
		"cards/a.webp",
		"blog/category/go/index.html",
		"blog/category/rust/index.html",
		"blog/tag/go/index.html",
		"blog/tag/concurrency/index.html",
		"about/index.html",
		"404.html",
		"rss.xml",
		"sitemap.xml",
		"static/robots.txt",
	} {
		testutil.AssertFileExists(t, dest, filepath.Join(out, filepath.FromSlash(rel)))
	}

	for _, link := range b.Assets().Links {
		testutil.AssertFileExists(t, dest, filepath.Join(out, filepath.FromSlash(strings.TrimPrefix(link, "/"))))
	}

	if m.PostsRendered() != 3 {
		t.Errorf("PostsRendered = %d, want 3", m.PostsRendered())
	}
	if m.SocialCards() != 3 {
		t.Errorf("SocialCards = %d, want 3", m.SocialCards())
	}
	// 3 posts + home, blog, about, 404 + 2 categories + 4 tags
	if m.PagesWritten() != 13 {
		t.Errorf("PagesWritten = %d, want 13", m.PagesWritten())
	}
	if m.FilesCopied() != 1 {
		t.Errorf("FilesCopied = %d, want 1", m.FilesCopied())
	}

	post := testutil.ReadFile(t, dest, filepath.Join(out, "blog", "c", "index.html"))
	if !strings.Contains(post, "Channels and goroutines.") {
		t.Error("post page missing body")
	}
	if !strings.Contains(post, `content="https://example.com/cards/c.webp"`) {
		t.Error("post page missing og:image")
	}
	if strings.Contains(post, "livereload") {
		t.Error("static build must not include the live reload script")
	}

	home := testutil.ReadFile(t, dest, filepath.Join(out, "index.html"))
	if !strings.Contains(home, "Bravo") {
		t.Error("home page should list the featured post")
	}
}

func TestBuildStrictFailsOnMalformed(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.Strict = true
	b, src, _ := newTestBuilder(t, cfg)
	testutil.WriteFile(t, src, filepath.Join(cfg.ContentDir, "broken.md"), "---\ntitle: [unclosed\n---\nbody\n")

	if _, err := b.Build(context.Background()); err == nil {
		t.Fatal("expected strict build to fail on a malformed document")
	}
}

func TestBuildSkipsMalformedByDefault(t *testing.T) {
	cfg := testConfig(t)
	b, src, dest := newTestBuilder(t, cfg)
	testutil.WriteFile(t, src, filepath.Join(cfg.ContentDir, "broken.md"), "---\ntitle: [unclosed\n---\nbody\n")

	if _, err := b.Build(context.Background()); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	testutil.AssertFileNotExists(t, dest, filepath.Join(cfg.OutputDir, "blog", "broken", "index.html"))
}

func TestBuildMalformedMarkdownBesideMDX(t *testing.T) {
	cfg := testConfig(t)
	b, src, dest := newTestBuilder(t, cfg)
	testutil.WriteFile(t, src, filepath.Join(cfg.ContentDir, "c.md"), "---\ntitle: [unclosed\n---\nbody\n")

	m, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.PostsRendered() != 2 {
		t.Errorf("PostsRendered = %d, want 2", m.PostsRendered())
	}
	testutil.AssertFileNotExists(t, dest, filepath.Join(cfg.OutputDir, "blog", "c", "index.html"))
	testutil.AssertFileExists(t, dest, filepath.Join(cfg.OutputDir, "blog", "a", "index.html"))
}

func TestBuildWithPersistentCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.PersistentCache = true
	cfg.Build.SocialCards = false

	b, src, dest := newTestBuilder(t, cfg)
	if b.cache == nil {
		t.Fatal("persistent cache should be open")
	}

	first, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("first Build() error = %v", err)
	}
	if first.CacheMisses == 0 {
		t.Error("first build should miss the cache")
	}

	second, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("second Build() error = %v", err)
	}
	if second.CacheHits <= first.CacheHits {
		t.Errorf("second build should hit the cache (hits %d -> %d)", first.CacheHits, second.CacheHits)
	}

	if err := src.Remove(filepath.Join(cfg.ContentDir, "a.md")); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Build(context.Background()); err != nil {
		t.Fatalf("third Build() error = %v", err)
	}
	stats, err := b.cache.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Posts != 2 {
		t.Errorf("cache holds %d posts after deletion, want 2", stats.Posts)
	}
	testutil.AssertFileExists(t, dest, filepath.Join(cfg.OutputDir, "blog", "b", "index.html"))
}

func TestBuildFeaturesOff(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.RSS = false
	cfg.Features.Sitemap = false
	cfg.Build.SocialCards = false
	b, _, dest := newTestBuilder(t, cfg)

	if _, err := b.Build(context.Background()); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	testutil.AssertFileNotExists(t, dest, filepath.Join(cfg.OutputDir, "rss.xml"))
	testutil.AssertFileNotExists(t, dest, filepath.Join(cfg.OutputDir, "sitemap.xml"))
	testutil.AssertFileNotExists(t, dest, filepath.Join(cfg.OutputDir, "cards", "a.webp"))
}

func TestPreviewBuilder(t *testing.T) {
	cfg := testConfig(t)
	src, _ := testutil.CreateTestFilesystem()
	testutil.SampleStore(t, src, cfg.ContentDir)

	b, err := NewBuilder(cfg, Options{SourceFs: src, Preview: true})
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	defer b.Close()

	data, err := b.Site().Post(context.Background(), "a")
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if data.Permalink != "/blog/a" || !data.LiveReload {
		t.Errorf("preview page data = %q live=%v", data.Permalink, data.LiveReload)
	}
}

func TestSafeSegment(t *testing.T) {
	for _, ok := range []string{"go", "数据库", "c++"} {
		if !safeSegment(ok) {
			t.Errorf("safeSegment(%q) = false, want true", ok)
		}
	}
	for _, bad := range []string{"", "..", "ci/cd", `back\slash`} {
		if safeSegment(bad) {
			t.Errorf("safeSegment(%q) = true, want false", bad)
		}
	}
}
