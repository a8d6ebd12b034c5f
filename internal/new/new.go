package new

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/models"
)

const DefaultCategory = "Uncategorized"

// slugRegex matches characters that are unsafe for filenames/URLs
var slugRegex = regexp.MustCompile(`[<>:"/\\|?*#%\x00-\x1f]`)

// Post describes the Document to scaffold.
type Post struct {
	Title    string
	Category string
	Format   models.Format
	Date     time.Time
	Language string
}

// sanitizeSlug converts a title to a safe filename slug
func sanitizeSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Join(strings.Fields(slug), "-")
	slug = slugRegex.ReplaceAllString(slug, "")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-.")
	if len(slug) > 100 {
		// cut on a rune boundary
		slug = strings.ToValidUTF8(slug[:100], "")
		slug = strings.TrimRight(slug, "-")
	}
	return slug
}

// titleCase capitalizes the title for languages that have case.
func titleCase(title, lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return cases.Title(tag, cases.NoLower).String(strings.TrimSpace(title))
}

// Render produces the front matter skeleton and a starter body.
func (p Post) Render() string {
	category := p.Category
	if category == "" {
		category = DefaultCategory
	}
	return fmt.Sprintf(`---
title: %q
description: "Enter a short description here..."
publishedAt: %q
category: %q
tags: []
featured: false
---

## Introduction

Start writing here...
`, p.Title, p.Date.Format("2006-01-02"), category)
}

// Create writes the Document for p into dir and returns its path. An
// existing Document with the same slug is never overwritten.
func Create(fsys afero.Fs, dir string, p Post) (string, error) {
	slug := sanitizeSlug(p.Title)
	if slug == "" {
		return "", errors.New("title produces empty slug after sanitization")
	}
	if p.Format == "" {
		p.Format = models.FormatMarkdown
	}
	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	p.Title = titleCase(p.Title, p.Language)

	// A post is identified by its slug, so either extension counts as taken.
	for _, f := range []models.Format{models.FormatMarkdown, models.FormatMDX} {
		existing := filepath.Join(dir, slug+f.Ext())
		if _, err := fsys.Stat(existing); err == nil {
			return "", fmt.Errorf("%w: %s", fs.ErrExist, existing)
		}
	}

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, slug+p.Format.Ext())
	if err := afero.WriteFile(fsys, path, []byte(p.Render()), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Run creates a new blog post file
func Run(cfg *config.Config, args []string) error {
	fset := flag.NewFlagSet("new", flag.ContinueOnError)
	category := fset.String("category", "", "Category of the new post")
	mdx := fset.Bool("mdx", false, "Create an .mdx document")

	// The title may come before or after the flags.
	var title string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		title, args = args[0], args[1:]
	}
	if err := fset.Parse(args); err != nil {
		return err
	}
	if title == "" && fset.NArg() > 0 {
		title = strings.Join(fset.Args(), " ")
	}
	if title == "" {
		return errors.New(`usage: folio new "My New Post Title" [-category C] [-mdx]`)
	}

	p := Post{Title: title, Category: *category, Language: cfg.Language}
	if *mdx {
		p.Format = models.FormatMDX
	}
	path, err := Create(afero.NewOsFs(), cfg.ContentDir, p)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Created: %s\n", path)
	return nil
}
