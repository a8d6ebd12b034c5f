package utils

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
)

const maxImageWidth = 1200

type copyTask struct {
	src string
	dst string
}

// CopyStatic mirrors srcDir into dstDir. With compress set, JPEG and PNG
// files are downscaled to maxImageWidth and re-encoded as WebP.
// A missing srcDir is not an error.
func CopyStatic(ctx context.Context, srcFs, destFs afero.Fs, srcDir, dstDir string, compress bool, workers int, onWrite func(string)) error {
	if ok, _ := afero.DirExists(srcFs, srcDir); !ok {
		return nil
	}
	if err := destFs.MkdirAll(dstDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", dstDir, err)
	}

	pool := NewWorkerPool(ctx, workers, func(t copyTask) error {
		var err error
		if compress && isRasterImage(t.src) {
			err = encodeWebP(srcFs, destFs, t.src, t.dst)
		} else {
			err = copyFile(srcFs, destFs, t.src, t.dst)
		}
		if err == nil && onWrite != nil {
			onWrite(t.dst)
		}
		return err
	})
	pool.Start()

	walkErr := afero.Walk(srcFs, srcDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if compress && isRasterImage(rel) {
			rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".webp"
		}
		pool.Submit(copyTask{src: path, dst: filepath.Join(dstDir, rel)})
		return nil
	})

	poolErr := pool.Stop()
	if walkErr != nil {
		return fmt.Errorf("failed to walk %s: %w", srcDir, walkErr)
	}
	return poolErr
}

func isRasterImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func copyFile(srcFs, destFs afero.Fs, src, dst string) error {
	if err := destFs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	in, err := srcFs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := destFs.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy file %s: %w", src, err)
	}
	return nil
}

func encodeWebP(srcFs, destFs afero.Fs, src, dst string) error {
	in, err := srcFs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source image %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	img, err := imaging.Decode(in)
	if err != nil {
		return fmt.Errorf("failed to decode image %s: %w", src, err)
	}
	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}

	if err := destFs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}
	out, err := destFs.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination image %s: %w", dst, err)
	}
	defer func() { _ = out.Close() }()

	if err := webp.Encode(out, img, &webp.Options{Lossless: false, Quality: 80}); err != nil {
		return fmt.Errorf("failed to encode webp %s: %w", dst, err)
	}
	return nil
}
