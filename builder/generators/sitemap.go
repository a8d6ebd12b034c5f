package generators

import (
	"encoding/xml"
	"fmt"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// Sitemap renders urls as a sitemaps.org urlset.
func Sitemap(urls []models.Url) ([]byte, error) {
	output, err := xml.MarshalIndent(models.UrlSet{Urls: urls}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), output...), nil
}
