package content

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// frontMatter is the header block of a Document. Optional keys are pointers
// or slices so defaults are applied once, in toPost.
type frontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	PublishedAt string   `yaml:"publishedAt"`
	UpdatedAt   string   `yaml:"updatedAt"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
	Featured    *bool    `yaml:"featured"`
}

// Split separates `---` delimited front matter from the body.
// When the document has no front matter, had is false and body is the whole input.
func Split(content []byte) (header, body []byte, had bool, err error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	nl := detectNewline(content)

	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}
	rest := content[len(open):]

	// Empty header: "---\n---\n"
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, nil
	}
	if bytes.Equal(rest, []byte(delimiter)) {
		return []byte{}, nil, true, nil
	}

	closeSeq := []byte(nl + delimiter + nl)
	if idx := bytes.Index(rest, closeSeq); idx >= 0 {
		return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, nil
	}

	// Closing delimiter on the last line without a trailing newline.
	if tail := []byte(nl + delimiter); bytes.HasSuffix(rest, tail) {
		return rest[:len(rest)-len(delimiter)], nil, true, nil
	}

	return nil, nil, false, ErrMissingClosingDelimiter
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func parseFrontMatter(header []byte) (frontMatter, error) {
	var fm frontMatter
	if len(bytes.TrimSpace(header)) == 0 {
		return fm, nil
	}
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return fm, fmt.Errorf("invalid front matter: %w", err)
	}
	return fm, nil
}
