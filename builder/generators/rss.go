package generators

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// Feed describes the RSS channel.
type Feed struct {
	Title       string
	Link        string
	Description string
	Language    string
}

// RSS renders posts (already newest first) as an RSS 2.0 document.
func RSS(feed Feed, posts []models.Post, link func(models.Post) string) ([]byte, error) {
	items := make([]models.Item, 0, len(posts))
	for _, p := range posts {
		u := link(p)
		items = append(items, models.Item{
			Title:       p.Title,
			Link:        u,
			Description: p.Description,
			Category:    p.Category,
			PubDate:     p.Published.Format(time.RFC1123Z),
			Guid:        u,
		})
	}
	rss := models.Rss{
		Version: "2.0",
		Channel: models.Channel{
			Title:       feed.Title,
			Link:        feed.Link,
			Description: feed.Description,
			Language:    feed.Language,
			Items:       items,
		},
	}
	output, err := xml.MarshalIndent(rss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode rss: %w", err)
	}
	return append([]byte(xml.Header), output...), nil
}
