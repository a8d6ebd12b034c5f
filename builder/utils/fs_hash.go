package utils

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/afero"
	"github.com/zeebo/blake3"
)

// HashDirFast fingerprints the files of a single directory without reading
// them: only name, size and mtime feed the hash. include filters which entries
// count; nil includes every regular file.
func HashDirFast(fsys afero.Fs, dir string, include func(name string) bool) (string, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return "", err
	}

	h := blake3.New()
	for _, info := range entries {
		if info.IsDir() {
			continue
		}
		if include != nil && !include(info.Name()) {
			continue
		}
		if _, err := fmt.Fprintf(h, "%s:%d:%d;", info.Name(), info.Size(), info.ModTime().UnixNano()); err != nil {
			return "", fmt.Errorf("failed to write to hash: %w", err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
