package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const buildLockName = ".folio-build.lock"

// ErrBuildLocked is returned when another process holds the build lock.
var ErrBuildLocked = errors.New("another build is in progress")

// FileLock is an advisory OS lock on a file in the output directory.
// The file records the holder's pid and start time.
type FileLock struct {
	file *os.File
	path string
}

// AcquireBuildLock locks outputDir for a single build without waiting.
func AcquireBuildLock(outputDir string) (*FileLock, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, buildLockName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open build lock: %w", err)
	}
	if err := tryLock(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w (lock file: %s)", ErrBuildLocked, path)
	}

	owner := strconv.Itoa(os.Getpid()) + "\n" + time.Now().Format(time.RFC3339) + "\n"
	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(owner), 0)
	}
	return &FileLock{file: f, path: path}, nil
}

// Release unlocks and removes the lock file. Calling it twice is a no-op.
func (l *FileLock) Release() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	_ = unlock(f)
	closeErr := f.Close()
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(closeErr, err)
	}
	return closeErr
}
