package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// d2 theme IDs: Neutral default and Dark Mauve.
const (
	d2LightTheme int64 = 0
	d2DarkTheme  int64 = 200
	artifactKind       = "d2"
)

// D2SVGPair stores both light and dark versions of a diagram
type D2SVGPair struct {
	Light string
	Dark  string
	OK    bool
}

func GetD2SVGPairSlice(pc parser.Context) []D2SVGPair {
	if v := pc.Get(d2OrderedKey); v != nil {
		return v.([]D2SVGPair)
	}
	return nil
}

// d2PreRegex matches the highlighted wrapper of a d2 fenced block.
var d2PreRegex = regexp.MustCompile(`(?s)<div class="code-wrapper" data-lang="d2">.*?</div>`)

// ReplaceD2BlocksWithThemeSupport swaps d2 code blocks for their SVGs, in
// document order. Blocks that failed to render stay as code.
func ReplaceD2BlocksWithThemeSupport(html string, pairs []D2SVGPair) string {
	i := 0
	return d2PreRegex.ReplaceAllStringFunc(html, func(match string) string {
		if i >= len(pairs) {
			return match
		}
		pair := pairs[i]
		i++
		if !pair.OK {
			return match
		}
		return fmt.Sprintf(`<div class="d2-container" data-diagram="true"><div class="d2-light">%s</div><div class="d2-dark">%s</div></div>`,
			pair.Light, pair.Dark)
	})
}

// d2Transformer renders every ```d2 block of the document in parallel.
type d2Transformer struct {
	renderer DiagramRenderer
	cache    ArtifactCache
	logger   *slog.Logger
}

func (t *d2Transformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	var blocks []string

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindFencedCodeBlock {
			return ast.WalkContinue, nil
		}
		fcb := n.(*ast.FencedCodeBlock)
		lang := strings.ToLower(strings.TrimSpace(string(fcb.Language(source))))
		if lang != "d2" {
			return ast.WalkContinue, nil
		}

		var code bytes.Buffer
		lines := fcb.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			code.Write(line.Value(source))
		}
		blocks = append(blocks, code.String())
		return ast.WalkContinue, nil
	})

	if len(blocks) == 0 {
		return
	}

	ctx, _ := pc.Get(ctxKey).(context.Context)
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]D2SVGPair, len(blocks))
	var wg sync.WaitGroup
	for i, code := range blocks {
		if strings.TrimSpace(code) == "" {
			continue
		}
		wg.Add(1)
		go func(idx int, code string) {
			defer wg.Done()
			light, err := t.render(ctx, code, d2LightTheme)
			if err != nil {
				t.logger.Warn("D2 light theme render failed", "error", err)
				return
			}
			dark, err := t.render(ctx, code, d2DarkTheme)
			if err != nil {
				t.logger.Warn("D2 dark theme render failed", "error", err)
				return
			}
			results[idx] = D2SVGPair{Light: light, Dark: dark, OK: true}
		}(i, code)
	}
	wg.Wait()

	pc.Set(d2OrderedKey, results)
}

func (t *d2Transformer) render(ctx context.Context, code string, theme int64) (string, error) {
	key := []byte(fmt.Sprintf("%d:%s", theme, code))
	if t.cache != nil {
		if svg, ok := t.cache.Artifact(artifactKind, key); ok {
			return string(svg), nil
		}
	}

	svg, err := t.renderer.RenderD2(ctx, code, theme)
	if err != nil {
		return "", err
	}

	if t.cache != nil {
		if err := t.cache.PutArtifact(artifactKind, key, []byte(svg)); err != nil {
			t.logger.Warn("Failed to cache diagram", "error", err)
		}
	}
	return svg, nil
}
