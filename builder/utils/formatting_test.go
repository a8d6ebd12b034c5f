package utils

import (
	"testing"
	"time"

	"github.com/Kush-Singh-26/folio/builder/models"
)

func TestSortPosts(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name     string
		posts    []models.Post
		expected []string
	}{
		{
			name: "newest first",
			posts: []models.Post{
				{Title: "Old", Published: day(1)},
				{Title: "New", Published: day(20)},
				{Title: "Middle", Published: day(10)},
			},
			expected: []string{"New", "Middle", "Old"},
		},
		{
			name: "equal dates keep enumeration order",
			posts: []models.Post{
				{Title: "First", Published: day(5)},
				{Title: "Second", Published: day(5)},
				{Title: "Newer", Published: day(6)},
				{Title: "Third", Published: day(5)},
			},
			expected: []string{"Newer", "First", "Second", "Third"},
		},
		{
			name:     "empty",
			posts:    []models.Post{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortPosts(tt.posts)
			if len(tt.posts) != len(tt.expected) {
				t.Fatalf("got %d posts, want %d", len(tt.posts), len(tt.expected))
			}
			for i, title := range tt.expected {
				if tt.posts[i].Title != title {
					t.Errorf("position %d: got %q, want %q", i, tt.posts[i].Title, title)
				}
			}
		})
	}
}

func TestClonePosts(t *testing.T) {
	orig := []models.Post{{Title: "A", Tags: []string{"go", "web"}}}
	cp := ClonePosts(orig)

	cp[0].Tags[0] = "changed"
	cp[0].Title = "B"

	if orig[0].Tags[0] != "go" {
		t.Error("ClonePosts shares the tag slice")
	}
	if orig[0].Title != "A" {
		t.Error("ClonePosts shares the post value")
	}
}

func TestReplaceToWebP(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`<img src="/static/a.png">`, `<img src="/static/a.webp">`},
		{`<img alt="x" src='/img/b.JPG'>`, `<img alt="x" src='/img/b.webp'>`},
		{`<img src="https://cdn.example.com/c.png">`, `<img src="https://cdn.example.com/c.png">`},
		{`<img src="/img/d.gif">`, `<img src="/img/d.gif">`},
	}
	for _, tt := range tests {
		if got := ReplaceToWebP(tt.in); got != tt.want {
			t.Errorf("ReplaceToWebP(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
