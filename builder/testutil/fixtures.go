// Package testutil provides testing utilities and fixtures
package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// Doc describes a Document to be written into a test content store.
type Doc struct {
	Title       string
	Description string
	PublishedAt string
	UpdatedAt   string
	Category    string
	Tags        []string
	Featured    bool
	Body        string
}

// Render produces the front matter + body text of the document.
func (d Doc) Render() string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", d.Title)
	fmt.Fprintf(&b, "description: %q\n", d.Description)
	fmt.Fprintf(&b, "publishedAt: %q\n", d.PublishedAt)
	if d.UpdatedAt != "" {
		fmt.Fprintf(&b, "updatedAt: %q\n", d.UpdatedAt)
	}
	fmt.Fprintf(&b, "category: %q\n", d.Category)
	if len(d.Tags) > 0 {
		quoted := make([]string, len(d.Tags))
		for i, t := range d.Tags {
			quoted[i] = fmt.Sprintf("%q", t)
		}
		fmt.Fprintf(&b, "tags: [%s]\n", strings.Join(quoted, ", "))
	}
	if d.Featured {
		b.WriteString("featured: true\n")
	}
	b.WriteString("---\n")
	body := d.Body
	if body == "" {
		body = "# " + d.Title + "\n\nSome content here.\n"
	}
	b.WriteString(body)
	return b.String()
}

// SampleDoc returns a valid document in the given category and date.
func SampleDoc(title, date, category string) Doc {
	return Doc{
		Title:       title,
		Description: "About " + title,
		PublishedAt: date,
		Category:    category,
	}
}

// WriteDocs writes name -> Doc into dir.
func WriteDocs(t testing.TB, fs afero.Fs, dir string, docs map[string]Doc) {
	t.Helper()
	for name, d := range docs {
		WriteFile(t, fs, filepath.Join(dir, name), d.Render())
	}
}

// SampleStore writes the three-post store used across packages:
// a.md (2024-01-01, Go), b.md (2024-03-01, Rust, featured), c.mdx (2024-02-01, Go).
func SampleStore(t testing.TB, fs afero.Fs, dir string) {
	t.Helper()
	a := SampleDoc("Alpha", "2024-01-01", "Go")
	a.Tags = []string{"go", "basics"}
	b := SampleDoc("Bravo", "2024-03-01", "Rust")
	b.Tags = []string{"rust"}
	b.Featured = true
	c := SampleDoc("Charlie", "2024-02-01", "Go")
	c.Tags = []string{"go", "concurrency"}
	c.Body = "import Chart from './chart'\n\n# Charlie\n\nChannels and goroutines.\n\n<Chart />\n"
	WriteDocs(t, fs, dir, map[string]Doc{"a.md": a, "b.md": b, "c.mdx": c})
}
