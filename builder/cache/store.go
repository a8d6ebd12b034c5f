package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Store namespaces
const (
	NamespaceBodies    = "bodies"
	NamespaceArtifacts = "artifacts"
)

// Store keeps blobs on disk addressed by their BLAKE3 hash, sharded as
// {namespace}/{hash[0:2]}/{hash[2:4]}/{hash}{.raw|.zst}.
type Store struct {
	basePath string
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

// NewStore creates a new content-addressed store
func NewStore(basePath string) (*Store, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Store{
		basePath: basePath,
		encoder:  encoder,
		decoder:  decoder,
	}, nil
}

// Close releases resources
func (s *Store) Close() error {
	_ = s.encoder.Close()
	s.decoder.Close()
	return nil
}

func (s *Store) shardPath(namespace, hash string) string {
	if len(hash) < 4 {
		return filepath.Join(s.basePath, namespace, hash)
	}
	return filepath.Join(s.basePath, namespace, hash[0:2], hash[2:4], hash)
}

// Put stores content and returns its hash. Small blobs are written raw,
// everything else is zstd compressed.
func (s *Store) Put(namespace string, content []byte) (string, error) {
	hash := HashContent(content)
	if s.Exists(namespace, hash) {
		return hash, nil
	}

	path := s.shardPath(namespace, hash)
	data := content
	switch {
	case len(content) < RawThreshold:
		path += ".raw"
	case len(content) < FastZstdMax:
		path += ".zst"
		data = s.encoder.EncodeAll(content, nil)
	default:
		path += ".zst"
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return "", err
		}
		data = enc.EncodeAll(content, nil)
		_ = enc.Close()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return hash, nil
}

// writeAtomic writes via .tmp -> fsync -> rename.
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write content: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// Get retrieves content by hash
func (s *Store) Get(namespace, hash string) ([]byte, error) {
	base := s.shardPath(namespace, hash)
	if data, err := os.ReadFile(base + ".raw"); err == nil {
		return data, nil
	}
	data, err := os.ReadFile(base + ".zst")
	if err != nil {
		return nil, fmt.Errorf("blob not found: %s", hash)
	}
	return s.decoder.DecodeAll(data, nil)
}

// Exists checks if a hash exists in the store
func (s *Store) Exists(namespace, hash string) bool {
	base := s.shardPath(namespace, hash)
	for _, ext := range []string{".raw", ".zst"} {
		if _, err := os.Stat(base + ext); err == nil {
			return true
		}
	}
	return false
}

// Delete removes a hash from the store
func (s *Store) Delete(namespace, hash string) {
	base := s.shardPath(namespace, hash)
	_ = os.Remove(base + ".raw")
	_ = os.Remove(base + ".zst")
}

// ListHashes returns all hashes in a namespace
func (s *Store) ListHashes(namespace string) ([]string, error) {
	dir := filepath.Join(s.basePath, namespace)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var hashes []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name := info.Name()
		if ext := filepath.Ext(name); ext == ".raw" || ext == ".zst" {
			hashes = append(hashes, strings.TrimSuffix(name, ext))
		}
		return nil
	})
	return hashes, err
}

// Size returns total bytes used on disk by the store
func (s *Store) Size() (int64, error) {
	if _, err := os.Stat(s.basePath); os.IsNotExist(err) {
		return 0, nil
	}

	var total int64
	err := filepath.Walk(s.basePath, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}
