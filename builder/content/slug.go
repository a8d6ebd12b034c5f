package content

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	asciiLettersRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// DefaultCategoryDescription is the fmt pattern used for Category.Description.
const DefaultCategoryDescription = "%s相关的技术文章"

// CategorySlug derives the URL identifier of a category. Names made only of
// ASCII letters and spaces are lower-cased and hyphen-joined; anything else
// (CJK names, digits, punctuation) is returned untouched and left to URL
// encoding.
func CategorySlug(name string) string {
	if asciiLettersRe.MatchString(name) {
		return whitespaceRe.ReplaceAllString(strings.ToLower(name), "-")
	}
	return name
}

func describeCategory(pattern, name string) string {
	if pattern == "" {
		pattern = DefaultCategoryDescription
	}
	return fmt.Sprintf(pattern, name)
}

// validSlug rejects identifiers that could escape the content root.
func validSlug(slug string) bool {
	if slug == "" || strings.HasPrefix(slug, ".") {
		return false
	}
	return !strings.ContainsAny(slug, `/\`) && !strings.Contains(slug, "..")
}
