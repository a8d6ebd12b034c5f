package native

import (
	"context"
	"fmt"

	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	d2log "oss.terrastruct.com/d2/lib/log"
	"oss.terrastruct.com/util-go/go2"
)

// RenderD2 renders a D2 diagram to SVG with the specified theme ID.
func (r *Renderer) RenderD2(ctx context.Context, code string, themeID int64) (string, error) {
	if err := r.ensureInitialized(); err != nil {
		return "", fmt.Errorf("d2 renderer unavailable: %w", err)
	}

	var inst *instance
	select {
	case inst = <-r.pool:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { r.pool <- inst }()

	layout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}

	compileOpts := &d2lib.CompileOptions{
		Ruler: inst.ruler,
		LayoutResolver: func(engine string) (d2graph.LayoutGraph, error) {
			return layout, nil
		},
	}
	renderOpts := &d2svg.RenderOpts{
		ThemeID: &themeID,
		Pad:     go2.Pointer(int64(0)),
	}

	diagram, _, err := d2lib.Compile(d2log.WithDefault(ctx), code, compileOpts, renderOpts)
	if err != nil {
		return "", fmt.Errorf("d2 compile failed: %w", err)
	}

	out, err := d2svg.Render(diagram, renderOpts)
	if err != nil {
		return "", fmt.Errorf("d2 render failed: %w", err)
	}
	return string(out), nil
}
