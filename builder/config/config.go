// loads folio.yaml and command-line overrides
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile = "folio.yaml"
	ConfigEnv         = "FOLIO_CONFIG"
	MaxWorkers        = 32
)

type AuthorConfig struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Email string `yaml:"email"`
}

// HeroConfig is the banner on the home page.
type HeroConfig struct {
	Heading    string `yaml:"heading"`
	Subheading string `yaml:"subheading"`
}

// AboutConfig holds the about page; Body is Markdown.
type AboutConfig struct {
	Heading string `yaml:"heading"`
	Body    string `yaml:"body"`
}

type ContentConfig struct {
	WordsPerMinute      int    `yaml:"wordsPerMinute"`
	Strict              bool   `yaml:"strict"`              // fail listings on malformed documents
	Cache               bool   `yaml:"cache"`               // in-memory snapshot
	PersistentCache     bool   `yaml:"persistentCache"`     // bbolt parse cache in cacheDir
	CategoryDescription string `yaml:"categoryDescription"` // fmt pattern, %s is the category name
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	Debounce        time.Duration `yaml:"debounce"`
}

type BuildConfig struct {
	Workers     int    `yaml:"workers"`
	Compress    bool   `yaml:"compress"` // minify HTML, re-encode images as WebP
	SocialCards bool   `yaml:"socialCards"`
	SocialFont  string `yaml:"socialFont"` // TTF for social cards; the Go fonts lack CJK glyphs
}

type FeaturesConfig struct {
	RSS      bool `yaml:"rss"`
	Sitemap  bool `yaml:"sitemap"`
	Diagrams bool `yaml:"diagrams"`
}

type Config struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	BaseURL     string       `yaml:"baseURL"`
	Language    string       `yaml:"language"`
	Author      AuthorConfig `yaml:"author"`
	Hero        HeroConfig   `yaml:"hero"`
	About       AboutConfig  `yaml:"about"`

	ContentDir string `yaml:"contentDir"`
	OutputDir  string `yaml:"outputDir"`
	StaticDir  string `yaml:"staticDir"`
	CacheDir   string `yaml:"cacheDir"`

	Content  ContentConfig  `yaml:"content"`
	Server   ServerConfig   `yaml:"server"`
	Build    BuildConfig    `yaml:"build"`
	Features FeaturesConfig `yaml:"features"`

	// Runtime only
	ConfigFile   string `yaml:"-"`
	BuildVersion int64  `yaml:"-"`
}

// Default returns the configuration used when no folio.yaml exists.
func Default() *Config {
	return &Config{
		Title:       "Folio",
		Description: "Notes on software, written down so I don't forget them.",
		Language:    "zh",
		Hero: HeroConfig{
			Heading:    "Hi, welcome to my blog",
			Subheading: "Writing about the things I build and learn.",
		},
		About: AboutConfig{
			Heading: "About",
			Body:    "This site is built with folio.",
		},
		ContentDir: "content/blog",
		OutputDir:  "public",
		StaticDir:  "static",
		CacheDir:   ".folio-cache",
		Content: ContentConfig{
			WordsPerMinute: 200,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            2604,
			ShutdownTimeout: 5 * time.Second,
			Debounce:        300 * time.Millisecond,
		},
		Build: BuildConfig{
			Workers:     runtime.NumCPU(),
			SocialCards: true,
		},
		Features: FeaturesConfig{
			RSS:      true,
			Sitemap:  true,
			Diagrams: true,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file, then flags
// explicitly present in args. The file is -config, else $FOLIO_CONFIG, else
// folio.yaml in the working directory; only an explicitly named file must exist.
func Load(args []string) (*Config, error) {
	fset := flag.NewFlagSet("folio", flag.ContinueOnError)
	configFile := fset.String("config", "", "Path to the config file")
	baseURL := fset.String("baseurl", "", "Base URL")
	contentDir := fset.String("content", "", "Content directory")
	outputDir := fset.String("output", "", "Output directory")
	host := fset.String("host", "", "Server host")
	port := fset.Int("port", 0, "Server port")
	workers := fset.Int("workers", 0, "Build workers")
	compress := fset.Bool("compress", false, "Minify HTML and compress images")
	strict := fset.Bool("strict", false, "Fail on malformed documents")
	useCache := fset.Bool("cache", false, "Enable the persistent parse cache")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	path, explicit := *configFile, true
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	if path == "" {
		path, explicit = DefaultConfigFile, false
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		cfg.ConfigFile = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "baseurl":
			cfg.BaseURL = *baseURL
		case "content":
			cfg.ContentDir = *contentDir
		case "output":
			cfg.OutputDir = *outputDir
		case "host":
			cfg.Server.Host = *host
		case "port":
			cfg.Server.Port = *port
		case "workers":
			cfg.Build.Workers = *workers
		case "compress":
			cfg.Build.Compress = *compress
		case "strict":
			cfg.Content.Strict = *strict
		case "cache":
			cfg.Content.PersistentCache = *useCache
		}
	})

	cfg.BuildVersion = time.Now().Unix()
	cfg.validate()
	return cfg, nil
}

// validate ensures configuration values are within reasonable bounds
func (c *Config) validate() {
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.Language == "" {
		c.Language = "zh"
	}

	if c.Content.WordsPerMinute < 1 {
		c.Content.WordsPerMinute = 200
	}
	if c.Content.WordsPerMinute > 2000 {
		c.Content.WordsPerMinute = 2000
	}

	if c.Build.Workers < 1 {
		c.Build.Workers = 1
	}
	if c.Build.Workers > MaxWorkers {
		c.Build.Workers = MaxWorkers
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		c.Server.Port = 2604
	}
	if c.Server.ShutdownTimeout < 1*time.Second {
		c.Server.ShutdownTimeout = 1 * time.Second
	}
	if c.Server.ShutdownTimeout > 60*time.Second {
		c.Server.ShutdownTimeout = 60 * time.Second
	}
	if c.Server.Debounce < 10*time.Millisecond {
		c.Server.Debounce = 10 * time.Millisecond
	}
	if c.Server.Debounce > 5*time.Second {
		c.Server.Debounce = 5 * time.Second
	}
}

// Addr is the listen address of the preview server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsChinese reports whether the site language is a Chinese variant.
func (c *Config) IsChinese() bool {
	return c.Language == "zh" || strings.HasPrefix(c.Language, "zh-")
}
