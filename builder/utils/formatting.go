package utils

import (
	"sort"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// SortPosts orders posts newest first. The sort is stable so posts sharing a
// publish date keep the order they were enumerated in.
func SortPosts(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Published.After(posts[j].Published)
	})
}

// ClonePosts deep-copies a post slice so callers can't mutate shared tags.
func ClonePosts(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	for i := range posts {
		out[i] = posts[i].Clone()
	}
	return out
}
