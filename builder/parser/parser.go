// Configures the goldmark pipeline that turns Post bodies into HTML
package parser

import (
	"bytes"
	"context"
	"fmt"
	stdhtml "html"
	"log/slog"

	chroma_html "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/gohugoio/hugo-goldmark-extensions/passthrough"
	admonitions "github.com/stefanfritsch/goldmark-admonitions"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// HighlightStyle is the chroma style used for code blocks and the emitted stylesheet.
const HighlightStyle = "nord"

// DiagramRenderer renders d2 source to an SVG string.
type DiagramRenderer interface {
	RenderD2(ctx context.Context, code string, themeID int64) (string, error)
}

// ArtifactCache stores rendered outputs keyed by their input.
type ArtifactCache interface {
	Artifact(kind string, input []byte) ([]byte, bool)
	PutArtifact(kind string, input, output []byte) error
}

type Options struct {
	BaseURL    string
	WebPImages bool            // rewrite local .jpg/.png references to .webp
	Diagrams   DiagramRenderer // nil leaves d2 blocks as highlighted code
	Cache      ArtifactCache
	Logger     *slog.Logger
}

// Parser is safe for concurrent use; per-document state lives in the
// goldmark parser.Context.
type Parser struct {
	md     goldmark.Markdown
	webp   bool
	logger *slog.Logger
}

// Result is a rendered Post body.
type Result struct {
	HTML     string
	TOC      []models.TOCEntry
	Diagrams int
}

// codeBlockWrapper tags each code block with its language. Blocks chroma has
// no lexer for get a plain <pre><code> inside the wrapper.
func codeBlockWrapper(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	if entering {
		langBytes, _ := c.Language()
		lang := string(langBytes)
		if lang == "" {
			lang = "text"
		}
		_, _ = w.WriteString(`<div class="code-wrapper" data-lang="` + stdhtml.EscapeString(lang) + `">`)
		if !c.Highlighted() {
			_, _ = w.WriteString(`<pre class="chroma"><code>`)
		}
		return
	}
	if !c.Highlighted() {
		_, _ = w.WriteString(`</code></pre>`)
	}
	_, _ = w.WriteString("</div>\n")
}

// New creates the Markdown pipeline.
func New(opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	transformers := []util.PrioritizedValue{
		util.Prioritized(&urlTransformer{BaseURL: opts.BaseURL, WebP: opts.WebPImages}, 100),
		util.Prioritized(&tocTransformer{}, 200),
	}
	if opts.Diagrams != nil {
		transformers = append(transformers, util.Prioritized(&d2Transformer{
			renderer: opts.Diagrams,
			cache:    opts.Cache,
			logger:   logger,
		}, 50))
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(HighlightStyle),
				highlighting.WithFormatOptions(
					chroma_html.WithClasses(true),
				),
				highlighting.WithWrapperRenderer(codeBlockWrapper),
			),
			passthrough.New(passthrough.Config{
				InlineDelimiters: []passthrough.Delimiters{{Open: "$", Close: "$"}, {Open: "\\(", Close: "\\)"}},
				BlockDelimiters:  []passthrough.Delimiters{{Open: "$$", Close: "$$"}, {Open: "\\[", Close: "\\]"}},
			}),
			&admonitions.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(transformers...),
			parser.WithAutoHeadingID(),
		),
		// MDX components and inline HTML are emitted verbatim.
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	return &Parser{md: md, webp: opts.WebPImages, logger: logger}
}

// Render converts a Markdown or MDX body to HTML.
func (p *Parser) Render(ctx context.Context, body string, format models.Format) (Result, error) {
	source := []byte(body)
	if format == models.FormatMDX {
		source = []byte(StripESM(body))
	}

	pc := parser.NewContext()
	pc.Set(ctxKey, ctx)

	doc := p.md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))

	var buf bytes.Buffer
	if err := p.md.Renderer().Render(&buf, source, doc); err != nil {
		return Result{}, fmt.Errorf("failed to render markdown: %w", err)
	}

	out := buf.String()
	if p.webp {
		// raw <img> tags in MDX bypass the AST transformer
		out = utils.ReplaceToWebP(out)
	}
	rendered := 0
	if diagrams := GetD2SVGPairSlice(pc); len(diagrams) > 0 {
		out = ReplaceD2BlocksWithThemeSupport(out, diagrams)
		for _, d := range diagrams {
			if d.OK {
				rendered++
			}
		}
	}

	return Result{
		HTML:     out,
		TOC:      GetTOC(pc),
		Diagrams: rendered,
	}, nil
}

// RenderPost renders a Post's body using its Format.
func (p *Parser) RenderPost(ctx context.Context, post models.Post) (Result, error) {
	res, err := p.Render(ctx, post.Content, post.Format)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", post.Slug, err)
	}
	return res, nil
}
