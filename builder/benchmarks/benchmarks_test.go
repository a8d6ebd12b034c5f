// Package benchmarks measures the hot paths of a folio build.
// Run with: go test -bench=. -benchmem ./builder/benchmarks/
package benchmarks

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/content"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/parser"
	"github.com/Kush-Singh-26/folio/builder/testutil"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

const benchBody = `# Heading

Some **bold** text with a [link](other.md) and ` + "`code`" + `.

## Section

` + "```go\nfunc main() {\n\tfmt.Println(\"hello\")\n}\n```" + `

!!! note
    An admonition.

Inline math $a^2 + b^2$ and a table:

| a | b |
|---|---|
| 1 | 2 |
`

// BenchmarkAllPosts lists stores of various sizes, with and without the
// in-memory snapshot.
func BenchmarkAllPosts(b *testing.B) {
	sizes := []int{10, 100, 500}

	for _, size := range sizes {
		fs := createMockStore(b, size)
		for _, snap := range []bool{false, true} {
			b.Run(fmt.Sprintf("Size-%d/Snapshot-%v", size, snap), func(b *testing.B) {
				opts := []content.Option{}
				if snap {
					opts = append(opts, content.WithSnapshot())
				}
				repo := content.New(fs, "content", opts...)
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					if _, err := repo.AllPosts(); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// BenchmarkParseDocument tests front matter parsing and derivation
func BenchmarkParseDocument(b *testing.B) {
	doc := testutil.SampleDoc("Benchmark post", "2024-01-01", "Go")
	doc.Tags = []string{"go", "ssg", "performance"}
	doc.Body = strings.Repeat(benchBody, 5)
	data := []byte(doc.Render())

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := content.ParseDocument("bench.md", data, 200); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRender tests the goldmark pipeline for both formats
func BenchmarkRender(b *testing.B) {
	p := parser.New(parser.Options{})
	ctx := context.Background()
	body := strings.Repeat(benchBody, 5)

	for _, format := range []models.Format{models.FormatMarkdown, models.FormatMDX} {
		b.Run(string(format), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := p.Render(ctx, body, format); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkSortPosts tests post sorting performance
func BenchmarkSortPosts(b *testing.B) {
	sizes := []int{10, 100, 1000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Size-%d", size), func(b *testing.B) {
			posts := createMockPosts(size)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				// Create a copy to avoid sorting already sorted slice
				postsCopy := make([]models.Post, len(posts))
				copy(postsCopy, posts)
				utils.SortPosts(postsCopy)
			}
		})
	}
}

// BenchmarkCountWords tests mixed Latin and CJK word counting
func BenchmarkCountWords(b *testing.B) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. 敏捷的棕色狐狸跳过了懒狗。", 50)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = content.CountWords(text)
	}
}

// Helper functions

func createMockStore(b *testing.B, size int) afero.Fs {
	b.Helper()
	fs := afero.NewMemMapFs()
	docs := make(map[string]testutil.Doc, size)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < size; i++ {
		d := testutil.SampleDoc(fmt.Sprintf("Post %d", i), start.AddDate(0, 0, i).Format("2006-01-02"), []string{"Go", "Rust", "数据库"}[i%3])
		d.Tags = []string{"go", "ssg", "web"}
		d.Body = benchBody
		docs[fmt.Sprintf("post-%d.md", i)] = d
	}
	testutil.WriteDocs(b, fs, "content", docs)
	return fs
}

func createMockPosts(size int) []models.Post {
	posts := make([]models.Post, size)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < size; i++ {
		posts[i] = models.Post{
			Slug:      fmt.Sprintf("post-%d", i),
			Title:     fmt.Sprintf("Post %d", i),
			Published: start.AddDate(0, 0, (i*7919)%size),
		}
	}
	return posts
}
