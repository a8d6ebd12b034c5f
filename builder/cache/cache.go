package cache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// Manager provides the main cache interface. It satisfies content.ParseCache.
type Manager struct {
	db       *bolt.DB
	store    *Store
	basePath string
	cacheID  string

	hits   atomic.Int64
	misses atomic.Int64
}

// Open opens or creates a cache at the given path
func Open(basePath string) (*Manager, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	opts := &bolt.Options{
		Timeout:         10 * time.Second,
		FreelistType:    bolt.FreelistArrayType,
		PageSize:        16384,
		InitialMmapSize: 4 * 1024 * 1024,
	}

	dbPath := filepath.Join(basePath, "meta.db")
	db, err := bolt.Open(dbPath, 0644, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB: %w", err)
	}

	store, err := NewStore(filepath.Join(basePath, "store"))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	m := &Manager{
		db:       db,
		store:    store,
		basePath: basePath,
	}

	if err := m.initSchema(); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return m, nil
}

// Close closes the cache
func (m *Manager) Close() error {
	if m.store != nil {
		_ = m.store.Close()
	}
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *Manager) initSchema() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		for _, name := range AllBuckets() {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket([]byte(BucketMeta))
		if meta.Get([]byte(KeySchemaVersion)) == nil {
			v := make([]byte, 4)
			binary.BigEndian.PutUint32(v, SchemaVersion)
			if err := meta.Put([]byte(KeySchemaVersion), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// VerifyCacheID reports whether the stored cache ID differs from expectedID.
// The ID fingerprints settings that change parse results (reading speed).
func (m *Manager) VerifyCacheID(expectedID string) (needsRebuild bool, err error) {
	var storedID []byte
	err = m.db.View(func(tx *bolt.Tx) error {
		storedID = tx.Bucket([]byte(BucketMeta)).Get([]byte(KeyCacheID))
		return nil
	})
	if err != nil {
		return false, err
	}
	m.cacheID = expectedID
	return storedID == nil || string(storedID) != expectedID, nil
}

// SetCacheID updates the cache ID
func (m *Manager) SetCacheID(id string) error {
	m.cacheID = id
	return m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketMeta)).Put([]byte(KeyCacheID), []byte(id))
	})
}

// Reset drops every cached post record. Blobs are left for Prune.
func (m *Manager) Reset() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(BucketPosts)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket([]byte(BucketPosts))
		return err
	})
}

// getItem retrieves a msgpack-encoded item from a bucket. A missing key
// returns nil without error.
func getItem[T any](db *bolt.DB, bucketName string, key []byte) (*T, error) {
	var result *T
	err := db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return nil
		}
		data := bucket.Get(key)
		if data == nil {
			return nil
		}

		var item T
		if err := Decode(data, &item); err != nil {
			return err
		}
		result = &item
		return nil
	})
	return result, err
}

func putItem[T any](db *bolt.DB, bucketName string, key []byte, value *T) error {
	data, err := Encode(value)
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		return bucket.Put(key, data)
	})
}

// Lookup returns the cached Post for name when the recorded size and mtime
// still match the file on disk.
func (m *Manager) Lookup(name string, size int64, modTime time.Time) (models.Post, bool) {
	rec, err := getItem[PostRecord](m.db, BucketPosts, []byte(name))
	if err != nil || rec == nil || rec.Size != size || rec.ModTime != modTime.UnixNano() {
		m.misses.Add(1)
		return models.Post{}, false
	}

	body := rec.InlineBody
	if rec.BodyHash != "" {
		body, err = m.store.Get(NamespaceBodies, rec.BodyHash)
		if err != nil {
			m.misses.Add(1)
			return models.Post{}, false
		}
	}

	m.hits.Add(1)
	return rec.post(string(body)), true
}

// Store records a parsed Post. raw is the original file content; its hash is
// kept so Prune and diagnostics can tell edits apart from touches.
func (m *Manager) Store(name string, size int64, modTime time.Time, raw []byte, post models.Post) error {
	rec := newPostRecord(name, size, modTime, raw, post)
	if len(post.Content) < InlineBodyThreshold {
		rec.InlineBody = []byte(post.Content)
	} else {
		hash, err := m.store.Put(NamespaceBodies, []byte(post.Content))
		if err != nil {
			return fmt.Errorf("failed to store body of %s: %w", name, err)
		}
		rec.BodyHash = hash
	}
	return putItem(m.db, BucketPosts, []byte(name), &rec)
}

func artifactKey(kind, inputHash string) []byte {
	return []byte(kind + ":" + inputHash)
}

// Artifact returns a previously rendered output for input.
func (m *Manager) Artifact(kind string, input []byte) ([]byte, bool) {
	art, err := getItem[Artifact](m.db, BucketArtifacts, artifactKey(kind, HashContent(input)))
	if err != nil || art == nil {
		return nil, false
	}
	data, err := m.store.Get(NamespaceArtifacts, art.OutputHash)
	if err != nil {
		return nil, false
	}
	return data, true
}

// PutArtifact records output as the rendering of input.
func (m *Manager) PutArtifact(kind string, input, output []byte) error {
	outHash, err := m.store.Put(NamespaceArtifacts, output)
	if err != nil {
		return fmt.Errorf("failed to store %s artifact: %w", kind, err)
	}
	inHash := HashContent(input)
	art := Artifact{
		Kind:       kind,
		InputHash:  inHash,
		OutputHash: outHash,
		Size:       int64(len(output)),
		CreatedAt:  time.Now().Unix(),
	}
	return putItem(m.db, BucketArtifacts, artifactKey(kind, inHash), &art)
}

// IncrementBuildCount bumps and returns the persisted build counter.
func (m *Manager) IncrementBuildCount() (int, error) {
	var count uint32
	err := m.db.Update(func(tx *bolt.Tx) error {
		stats := tx.Bucket([]byte(BucketStats))
		if data := stats.Get([]byte(KeyBuildCount)); len(data) == 4 {
			count = binary.BigEndian.Uint32(data)
		}
		count++
		v := make([]byte, 4)
		binary.BigEndian.PutUint32(v, count)
		return stats.Put([]byte(KeyBuildCount), v)
	})
	return int(count), err
}

// Hits and Misses count Lookup outcomes since Open.
func (m *Manager) Hits() int64   { return m.hits.Load() }
func (m *Manager) Misses() int64 { return m.misses.Load() }

// Stats reports record counts and store size.
func (m *Manager) Stats() (Stats, error) {
	var s Stats
	err := m.db.View(func(tx *bolt.Tx) error {
		s.Posts = tx.Bucket([]byte(BucketPosts)).Stats().KeyN
		s.Artifacts = tx.Bucket([]byte(BucketArtifacts)).Stats().KeyN
		if data := tx.Bucket([]byte(BucketStats)).Get([]byte(KeyBuildCount)); len(data) == 4 {
			s.BuildCount = int(binary.BigEndian.Uint32(data))
		}
		if data := tx.Bucket([]byte(BucketMeta)).Get([]byte(KeySchemaVersion)); len(data) == 4 {
			s.SchemaVersion = int(binary.BigEndian.Uint32(data))
		}
		return nil
	})
	if err != nil {
		return s, err
	}
	s.StoreBytes, err = m.store.Size()
	return s, err
}
