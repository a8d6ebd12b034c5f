// Package cache provides a BoltDB + content-addressed filesystem cache for
// parsed Documents and rendered artifacts (diagrams, social cards).
package cache

import (
	"encoding/hex"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// PostRecord stores a parsed Post along with the file stat it was derived from.
type PostRecord struct {
	Name        string    `msgpack:"name"`
	Size        int64     `msgpack:"size"`
	ModTime     int64     `msgpack:"mod_time"`
	ContentHash string    `msgpack:"content_hash"`
	Slug        string    `msgpack:"slug"`
	Title       string    `msgpack:"title"`
	Description string    `msgpack:"description"`
	PublishedAt string    `msgpack:"published_at"`
	UpdatedAt   string    `msgpack:"updated_at,omitempty"`
	Category    string    `msgpack:"category"`
	Tags        []string  `msgpack:"tags"`
	Featured    bool      `msgpack:"featured"`
	ReadingTime string    `msgpack:"reading_time"`
	Published   string    `msgpack:"published"` // RFC3339Nano, keeps the authored offset
	Format      string    `msgpack:"format"`
	WordCount   int       `msgpack:"word_count"`
	Minutes     int       `msgpack:"minutes"`

	InlineBody []byte `msgpack:"inline_body,omitempty"` // bodies < InlineBodyThreshold
	BodyHash   string `msgpack:"body_hash,omitempty"`   // larger bodies live in the store
}

// Artifact points at a rendered output kept in the store.
type Artifact struct {
	Kind       string `msgpack:"kind"`
	InputHash  string `msgpack:"input_hash"`
	OutputHash string `msgpack:"output_hash"`
	Size       int64  `msgpack:"size"`
	CreatedAt  int64  `msgpack:"created_at"`
}

// Stats summarizes cache contents.
type Stats struct {
	Posts         int   `msgpack:"posts"`
	Artifacts     int   `msgpack:"artifacts"`
	StoreBytes    int64 `msgpack:"store_bytes"`
	BuildCount    int   `msgpack:"build_count"`
	SchemaVersion int   `msgpack:"schema_version"`
}

const (
	InlineBodyThreshold = 32 * 1024 // 32KB - smaller bodies are stored inline
	RawThreshold        = 8 * 1024  // < 8KB stored raw
	FastZstdMax         = 128 * 1024
	SchemaVersion       = 1
)

func newPostRecord(name string, size int64, modTime time.Time, raw []byte, p models.Post) PostRecord {
	return PostRecord{
		Name:        name,
		Size:        size,
		ModTime:     modTime.UnixNano(),
		ContentHash: HashContent(raw),
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		PublishedAt: p.PublishedAt,
		UpdatedAt:   p.UpdatedAt,
		Category:    p.Category,
		Tags:        p.Tags,
		Featured:    p.Featured,
		ReadingTime: p.ReadingTime,
		Published:   p.Published.Format(time.RFC3339Nano),
		Format:      string(p.Format),
		WordCount:   p.WordCount,
		Minutes:     p.Minutes,
	}
}

func (r PostRecord) post(body string) models.Post {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	published, _ := time.Parse(time.RFC3339Nano, r.Published)
	return models.Post{
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		PublishedAt: r.PublishedAt,
		UpdatedAt:   r.UpdatedAt,
		Category:    r.Category,
		Tags:        tags,
		Featured:    r.Featured,
		Content:     body,
		ReadingTime: r.ReadingTime,
		Published:   published,
		Format:      models.Format(r.Format),
		WordCount:   r.WordCount,
		Minutes:     r.Minutes,
	}
}

// HashContent computes BLAKE3 hash of content and returns hex string
func HashContent(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Encode serializes a value to msgpack bytes
func Encode(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode deserializes msgpack bytes to a value
func Decode(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}
