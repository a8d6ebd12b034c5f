package content

import (
	"errors"
	"fmt"
)

var (
	// ErrPostNotFound means no Document exists for the requested slug.
	ErrPostNotFound = errors.New("post not found")

	// ErrCategoryNotFound means no post carries the requested category.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrMalformedDocument marks a Document that exists but can't become a Post.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrMissingClosingDelimiter indicates the document opened a front matter
	// block but never closed it.
	ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")
)

// DocumentError reports why a single Document was rejected.
// errors.Is matches both ErrMalformedDocument and the underlying cause.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() []error {
	return []error{ErrMalformedDocument, e.Err}
}

// MissingFieldError names a required front matter key that was absent or empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}
