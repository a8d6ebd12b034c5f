package site

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/content"
	"github.com/Kush-Singh-26/folio/builder/generators"
	"github.com/Kush-Singh-26/folio/builder/parser"
	"github.com/Kush-Singh-26/folio/builder/renderer"
	"github.com/Kush-Singh-26/folio/builder/testutil"
)

type memArtifacts struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
	puts int
}

func (m *memArtifacts) Artifact(kind string, input []byte) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[kind+":"+string(input)]
	if ok {
		m.hits++
	}
	return v, ok
}

func (m *memArtifacts) PutArtifact(kind string, input, output []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[kind+":"+string(input)] = output
	m.puts++
	return nil
}

func newTestSite(t *testing.T, withCards bool) (*Site, *memArtifacts) {
	t.Helper()
	fs := afero.NewMemMapFs()
	testutil.SampleStore(t, fs, "content")

	cfg := config.Default()
	cfg.Title = "Folio"
	cfg.About.Body = "Hello from **folio**."

	r, err := renderer.New(renderer.Options{BaseURL: "https://example.com", Language: cfg.Language})
	if err != nil {
		t.Fatalf("renderer.New() error = %v", err)
	}
	arts := &memArtifacts{data: map[string][]byte{}}
	opts := Options{
		Config:    cfg,
		Repo:      content.New(fs, "content"),
		Parser:    parser.New(parser.Options{}),
		Renderer:  r,
		Artifacts: arts,
		BaseURL:   "https://example.com",
	}
	if withCards {
		cards, err := generators.NewCardRenderer(nil)
		if err != nil {
			t.Fatalf("NewCardRenderer() error = %v", err)
		}
		opts.Cards = cards
	}
	return New(opts), arts
}

func TestHome(t *testing.T) {
	s, _ := newTestSite(t, false)
	data, err := s.Home()
	if err != nil {
		t.Fatalf("Home() error = %v", err)
	}
	if data.Kind != renderer.KindHome || data.TabTitle != "Folio" {
		t.Errorf("kind=%q tab=%q", data.Kind, data.TabTitle)
	}
	if len(data.Featured) != 1 || data.Featured[0].Slug != "b" {
		t.Errorf("Featured = %+v", data.Featured)
	}
	if len(data.Categories) != 2 || data.Categories[0].Name != "Go" {
		t.Errorf("Categories = %+v", data.Categories)
	}
	if len(data.Recent) != 3 || data.Recent[0].Slug != "b" {
		t.Errorf("Recent = %+v", data.Recent)
	}
	if !data.Nav[0].Active || data.Nav[1].Active {
		t.Errorf("Nav = %+v", data.Nav)
	}
}

func TestBlogAndPost(t *testing.T) {
	s, _ := newTestSite(t, false)

	blog, err := s.Blog()
	if err != nil {
		t.Fatalf("Blog() error = %v", err)
	}
	if blog.TotalPosts != 3 || blog.Posts[2].Slug != "a" {
		t.Errorf("Blog posts = %+v", blog.Posts)
	}

	post, err := s.Post(context.Background(), "c")
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if post.Post.Title != "Charlie" || post.TabTitle != "Charlie | Folio" {
		t.Errorf("post = %+v", post.Post)
	}
	if strings.Contains(string(post.Content), "import Chart") {
		t.Error("MDX imports should be stripped")
	}
	if !strings.Contains(string(post.Content), "<Chart />") {
		t.Error("MDX components should pass through")
	}
	if post.NextPost == nil || post.NextPost.Slug != "b" {
		t.Errorf("NextPost = %+v", post.NextPost)
	}
	if post.PrevPost == nil || post.PrevPost.Slug != "a" {
		t.Errorf("PrevPost = %+v", post.PrevPost)
	}
	if post.Permalink != "https://example.com/blog/c" {
		t.Errorf("Permalink = %q", post.Permalink)
	}
	if post.Image != "" {
		t.Error("Image should be empty when cards are disabled")
	}

	if _, err := s.Post(context.Background(), "missing"); !IsNotFound(err) {
		t.Errorf("missing post error = %v", err)
	}
}

func TestCategoryAndTag(t *testing.T) {
	s, _ := newTestSite(t, false)

	cat, err := s.Category("go")
	if err != nil {
		t.Fatalf("Category() error = %v", err)
	}
	if cat.Category.Name != "Go" || cat.TotalPosts != 2 {
		t.Errorf("category = %+v, %d posts", cat.Category, cat.TotalPosts)
	}
	if _, err := s.Category("python"); !IsNotFound(err) {
		t.Errorf("unknown category error = %v", err)
	}

	tag, err := s.Tag("go")
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if tag.TotalPosts != 2 || tag.Tag != "go" {
		t.Errorf("tag page = %+v", tag)
	}
	_, err = s.Tag("nope")
	if !errors.Is(err, ErrTagNotFound) || !IsNotFound(err) {
		t.Errorf("unknown tag error = %v", err)
	}
}

func TestAboutAndNotFound(t *testing.T) {
	s, _ := newTestSite(t, false)

	about, err := s.About(context.Background())
	if err != nil {
		t.Fatalf("About() error = %v", err)
	}
	if !strings.Contains(string(about.Content), "<strong>folio</strong>") {
		t.Errorf("about content = %q", about.Content)
	}
	if !about.Nav[2].Active {
		t.Error("about nav entry should be active")
	}

	nf := s.NotFound()
	if nf.Kind != renderer.KindNotFound || nf.Permalink != "" {
		t.Errorf("404 = %+v", nf)
	}
}

func TestPagesRender(t *testing.T) {
	s, _ := newTestSite(t, false)
	ctx := context.Background()

	post, err := s.Post(ctx, "a")
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	cat, err := s.Category("Rust")
	if err != nil {
		t.Fatalf("Category() error = %v", err)
	}

	var buf bytes.Buffer
	if err := s.Renderer().Render(&buf, post); err != nil {
		t.Fatalf("Render(post) error = %v", err)
	}
	if !strings.Contains(buf.String(), "Some content here.") {
		t.Error("rendered post missing body")
	}

	buf.Reset()
	if err := s.Renderer().Render(&buf, cat); err != nil {
		t.Fatalf("Render(category) error = %v", err)
	}
	if !strings.Contains(buf.String(), "Rust相关的技术文章") {
		t.Error("category page missing its description")
	}
}

func TestFeeds(t *testing.T) {
	s, _ := newTestSite(t, false)

	rss, err := s.RSS()
	if err != nil {
		t.Fatalf("RSS() error = %v", err)
	}
	if strings.Count(string(rss), "<item>") != 3 {
		t.Errorf("rss = %s", rss)
	}
	if !strings.Contains(string(rss), "<link>https://example.com/blog/b</link>") {
		t.Error("rss item links should be absolute")
	}

	sm, err := s.Sitemap()
	if err != nil {
		t.Fatalf("Sitemap() error = %v", err)
	}
	for _, want := range []string{
		"<loc>https://example.com/</loc>",
		"<loc>https://example.com/blog/a</loc>",
		"<loc>https://example.com/blog/category/go</loc>",
		"<loc>https://example.com/blog/tag/concurrency</loc>",
	} {
		if !strings.Contains(string(sm), want) {
			t.Errorf("sitemap missing %s", want)
		}
	}
}

func TestCard(t *testing.T) {
	s, arts := newTestSite(t, true)

	post, err := s.Post(context.Background(), "a")
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if post.Image != "https://example.com/cards/a.webp" {
		t.Errorf("Image = %q", post.Image)
	}

	first, err := s.Card("a")
	if err != nil {
		t.Fatalf("Card() error = %v", err)
	}
	second, err := s.Card("a")
	if err != nil {
		t.Fatalf("Card() error = %v", err)
	}
	if !bytes.Equal(first, second) || arts.hits != 1 {
		t.Errorf("second card should come from the artifact cache (hits=%d)", arts.hits)
	}

	if _, err := s.Card("missing"); !IsNotFound(err) {
		t.Errorf("Card(missing) error = %v", err)
	}
}

func TestCardDisabled(t *testing.T) {
	s, _ := newTestSite(t, false)
	if _, err := s.Card("a"); !IsNotFound(err) {
		t.Errorf("Card() with cards disabled error = %v", err)
	}
}

func TestCardConcurrent(t *testing.T) {
	s, arts := newTestSite(t, true)

	const n = 8
	results := make([][]byte, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.Card("b")
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("Card() error = %v", errs[i])
		}
		if !bytes.Equal(results[i], results[0]) {
			t.Errorf("card %d differs", i)
		}
	}
	if arts.puts < 1 || arts.puts > n {
		t.Errorf("puts = %d", arts.puts)
	}
}
