package renderer

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// Render executes the template for data.Kind into w, minifying when
// compression is on.
func (r *Renderer) Render(w io.Writer, data models.PageData) error {
	tmpl, err := r.template(data.Kind)
	if err != nil {
		return err
	}
	data.Assets = r.GetAssets()
	if data.Language == "" {
		data.Language = r.langCode
	}

	if !r.Compress {
		return tmpl.ExecuteTemplate(w, "base", data)
	}

	mw := r.minifier.Writer("text/html", w)
	if err := tmpl.ExecuteTemplate(mw, "base", data); err != nil {
		_ = mw.Close()
		return err
	}
	return mw.Close()
}

// RenderPage writes the page for data to path on DestFs.
func (r *Renderer) RenderPage(path string, data models.PageData) error {
	if r.DestFs == nil {
		return fmt.Errorf("renderer has no output filesystem")
	}
	if err := r.DestFs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.logger.Error("Failed to create directory", "path", path, "error", err)
		return err
	}

	f, err := r.DestFs.Create(path)
	if err != nil {
		r.logger.Error("Failed to create file", "path", path, "error", err)
		return err
	}
	defer func() { _ = f.Close() }()

	bw := utils.SharedBufioWriterPool.Get(f)
	defer utils.SharedBufioWriterPool.Put(bw)

	if err := r.Render(bw, data); err != nil {
		r.logger.Error("Failed to render page", "path", path, "kind", data.Kind, "error", err)
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	r.RegisterFile(path)
	return nil
}
