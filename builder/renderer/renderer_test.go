package renderer

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/models"
)

func newTestRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	r.SetAssets(map[string]string{"style.css": "/assets/style.abcd1234.css"})
	return r
}

func samplePost() models.Post {
	return models.Post{
		Slug:        "hello-world",
		Title:       "Hello World",
		Description: "First post",
		PublishedAt: "2024-03-05",
		UpdatedAt:   "2024-04-01",
		Category:    "Web Development",
		Tags:        []string{"go", "web"},
		ReadingTime: "3 min read",
		Published:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderPost(t *testing.T) {
	r := newTestRenderer(t, Options{Language: "zh"})
	p := samplePost()

	var buf bytes.Buffer
	err := r.Render(&buf, models.PageData{
		Kind:     KindPost,
		Title:    p.Title,
		TabTitle: p.Title + " | Folio",
		Post:     &p,
		Content:  template.HTML("<p>body text</p>"),
		TOC:      []models.TOCEntry{{ID: "intro", Text: "Intro", Level: 2}},
		Config:   config.Default(),
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<title>Hello World | Folio</title>",
		"2024年03月05日",
		"更新于 2024年04月01日",
		"3 min read",
		`href="/blog/category/web-development"`,
		`href="/blog/tag/go"`,
		"<p>body text</p>",
		`href="#intro"`,
		`href="/assets/style.abcd1234.css"`,
		`lang="zh"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "livereload") {
		t.Error("live reload script should only be included when enabled")
	}
}

func TestRenderEnglishLabels(t *testing.T) {
	r := newTestRenderer(t, Options{Language: "en"})
	if r.Chinese() {
		t.Fatal("en should not be treated as Chinese")
	}
	if got := r.FormatDate(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)); got != "March 5, 2024" {
		t.Errorf("FormatDate() = %q", got)
	}

	var buf bytes.Buffer
	err := r.Render(&buf, models.PageData{
		Kind:   KindHome,
		Recent: []models.Post{samplePost()},
		Config: config.Default(),
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Recent posts") {
		t.Error("home page should use English labels")
	}
}

func TestLanguageDefault(t *testing.T) {
	r := newTestRenderer(t, Options{})
	if !r.Chinese() {
		t.Error("empty language should default to Chinese")
	}
	if r.Label("missing-key") != "missing-key" {
		t.Error("unknown labels should fall back to the key")
	}
}

func TestURLs(t *testing.T) {
	r := newTestRenderer(t, Options{BaseURL: "https://example.com/"})

	tests := []struct {
		got, want string
	}{
		{r.PostURL("hello"), "https://example.com/blog/hello"},
		{r.CategoryURL("Machine Learning"), "https://example.com/blog/category/machine-learning"},
		{r.CategoryURL("数据库"), "https://example.com/blog/category/%E6%95%B0%E6%8D%AE%E5%BA%93"},
		{r.TagURL("c++"), "https://example.com/blog/tag/c++"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestRenderUnknownKind(t *testing.T) {
	r := newTestRenderer(t, Options{})
	var buf bytes.Buffer
	if err := r.Render(&buf, models.PageData{Kind: "nope", Config: config.Default()}); err == nil {
		t.Error("expected error for unknown page kind")
	}
}

func TestRenderPageCompressed(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newTestRenderer(t, Options{DestFs: fs, Compress: true})

	data := models.PageData{Kind: KindNotFound, Title: "404", Config: config.Default(), LiveReload: true}
	if err := r.RenderPage("public/404.html", data); err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}

	out, err := afero.ReadFile(fs, "public/404.html")
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(out), "页面不存在") {
		t.Error("404 page missing its message")
	}
	if !strings.Contains(string(out), "livereload.js") {
		t.Error("live reload script missing")
	}
	if strings.Contains(string(out), "\n  <") {
		t.Error("compressed output should not keep indentation")
	}

	files := r.Files()
	if len(files) != 1 || files[0] != "public/404.html" {
		t.Errorf("Files() = %v", files)
	}
}

func TestRenderPageWithoutFs(t *testing.T) {
	r := newTestRenderer(t, Options{})
	if err := r.RenderPage("x.html", models.PageData{Kind: KindHome}); err == nil {
		t.Error("expected error without an output filesystem")
	}
}
