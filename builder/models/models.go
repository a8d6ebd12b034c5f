// Package models holds the types shared by the content repository, the
// page templates and the feed generators.
package models

import (
	"encoding/xml"
	"html/template"
	"time"
)

// Format is the markup variant a Document was authored in.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatMDX      Format = "mdx"
)

// Ext returns the file extension (with dot) for the format.
func (f Format) Ext() string {
	return "." + string(f)
}

// Post is the fully derived representation of a Document.
type Post struct {
	Slug        string
	Title       string
	Description string
	PublishedAt string
	UpdatedAt   string
	Category    string
	Tags        []string
	Featured    bool
	Content     string
	ReadingTime string

	// Derived
	Published time.Time
	Format    Format
	WordCount int
	Minutes   int
}

// Clone returns a copy that shares no slices with p.
func (p Post) Clone() Post {
	tags := make([]string, len(p.Tags))
	copy(tags, p.Tags)
	p.Tags = tags
	return p
}

// Category is a distinct category value with its post count.
type Category struct {
	Name        string
	Slug        string
	Description string
	Count       int
}

// --- TOC Structure ---
type TOCEntry struct {
	ID    string
	Text  string
	Level int
}

// NavLink is one entry of the header navigation.
type NavLink struct {
	Name   string
	URL    string
	Active bool
}

// PageData is the context passed to HTML templates.
type PageData struct {
	Title       string
	TabTitle    string
	Description string
	BaseURL     string
	Permalink   string
	Image       string
	Language    string

	// Page kind, one of: home, blog, post, category, tag, about, 404
	Kind string

	Post       *Post
	Content    template.HTML
	TOC        []TOCEntry
	PrevPost   *Post
	NextPost   *Post
	Posts      []Post
	Featured   []Post
	Recent     []Post
	Categories []Category
	Category   *Category
	Tag        string
	TotalPosts int

	Nav          []NavLink
	Assets       map[string]string
	LiveReload   bool
	BuildVersion int64

	// Config-driven fields
	Config interface{}
}

// --- Sitemap Structures ---

type UrlSet struct {
	XMLName xml.Name `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	Urls    []Url    `xml:"url"`
}

type Url struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// --- RSS Structures ---

type Rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

type Channel struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Language    string `xml:"language,omitempty"`
	Items       []Item `xml:"item"`
}

type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate"`
	Guid        string `xml:"guid"`
}
