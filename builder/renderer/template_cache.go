package renderer

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// templateSet holds one parsed tree per page kind, each combining base.html
// with the page's own "content" block.
type templateSet struct {
	templates map[string]*template.Template
}

func loadTemplates(funcs template.FuncMap) (*templateSet, error) {
	kinds := []string{KindHome, KindBlog, KindPost, KindCategory, KindTag, KindAbout, KindNotFound}
	set := &templateSet{templates: make(map[string]*template.Template, len(kinds))}

	for _, kind := range kinds {
		t, err := template.New(kind).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+kind+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", kind, err)
		}
		set.templates[kind] = t
	}
	return set, nil
}

func (s *templateSet) get(kind string) (*template.Template, bool) {
	t, ok := s.templates[kind]
	return t, ok
}
