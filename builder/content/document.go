package content

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// dateLayouts are tried in order when parsing publishedAt / updatedAt.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
}

// ParseDate accepts the ISO-like date forms authors write in front matter.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// FormatOf reports the markup format for a file name, or false when the
// extension isn't one the repository reads. Matching is case-sensitive.
func FormatOf(name string) (models.Format, bool) {
	switch {
	case strings.HasSuffix(name, models.FormatMDX.Ext()):
		return models.FormatMDX, true
	case strings.HasSuffix(name, models.FormatMarkdown.Ext()):
		return models.FormatMarkdown, true
	}
	return "", false
}

// ParseDocument turns the raw bytes of a Document into a Post. name is the
// file name (with extension); it supplies the slug and format. Any failure is
// returned as a *DocumentError.
func ParseDocument(name string, data []byte, wordsPerMinute int) (models.Post, error) {
	format, ok := FormatOf(name)
	if !ok {
		return models.Post{}, &DocumentError{Path: name, Err: errors.New("unsupported extension")}
	}

	header, body, _, err := Split(data)
	if err != nil {
		return models.Post{}, &DocumentError{Path: name, Err: err}
	}
	fm, err := parseFrontMatter(header)
	if err != nil {
		return models.Post{}, &DocumentError{Path: name, Err: err}
	}

	post, err := fm.toPost(strings.TrimSuffix(name, format.Ext()), string(body), wordsPerMinute)
	if err != nil {
		return models.Post{}, &DocumentError{Path: name, Err: err}
	}
	post.Format = format
	return post, nil
}

// toPost validates required keys and resolves defaults.
func (fm frontMatter) toPost(slug, body string, wordsPerMinute int) (models.Post, error) {
	required := []struct{ name, value string }{
		{"title", fm.Title},
		{"description", fm.Description},
		{"publishedAt", fm.PublishedAt},
		{"category", fm.Category},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return models.Post{}, &MissingFieldError{Field: f.name}
		}
	}

	published, err := ParseDate(fm.PublishedAt)
	if err != nil {
		return models.Post{}, fmt.Errorf("publishedAt: %w", err)
	}
	if fm.UpdatedAt != "" {
		if _, err := ParseDate(fm.UpdatedAt); err != nil {
			return models.Post{}, fmt.Errorf("updatedAt: %w", err)
		}
	}

	tags := fm.Tags
	if tags == nil {
		tags = []string{}
	}
	featured := false
	if fm.Featured != nil {
		featured = *fm.Featured
	}

	words := CountWords(body)
	minutes := ReadingMinutes(words, wordsPerMinute)

	return models.Post{
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		PublishedAt: fm.PublishedAt,
		UpdatedAt:   fm.UpdatedAt,
		Category:    fm.Category,
		Tags:        tags,
		Featured:    featured,
		Content:     body,
		ReadingTime: ReadingTimeLabel(minutes),
		Published:   published,
		WordCount:   words,
		Minutes:     minutes,
	}, nil
}
