package clean

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/config"
)

// Run removes the output directory and, with -cache, the cache directory.
func Run(cfg *config.Config, args []string) error {
	fset := flag.NewFlagSet("clean", flag.ContinueOnError)
	cleanCache := fset.Bool("cache", false, "Also remove the cache directory")
	if err := fset.Parse(args); err != nil {
		return err
	}

	start := time.Now()
	dirs := []string{cfg.OutputDir}
	if *cleanCache {
		dirs = append(dirs, cfg.CacheDir)
	}
	removed, err := Dirs(afero.NewOsFs(), dirs...)
	for _, dir := range removed {
		fmt.Printf("🧹 Removed %s\n", dir)
	}
	if err != nil {
		return err
	}
	fmt.Printf("✅ Clean completed in %v\n", time.Since(start))
	return nil
}

// Dirs removes each directory and returns the ones that existed. The
// working directory and filesystem root are refused.
func Dirs(fsys afero.Fs, dirs ...string) ([]string, error) {
	var removed []string
	var errs []error
	for _, dir := range dirs {
		if err := checkRemovable(dir); err != nil {
			errs = append(errs, err)
			continue
		}
		ok, err := afero.DirExists(fsys, dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		if err := fsys.RemoveAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", dir, err))
			continue
		}
		removed = append(removed, dir)
	}
	return removed, errors.Join(errs...)
}

func checkRemovable(dir string) error {
	clean := filepath.Clean(dir)
	if dir == "" || clean == "." || clean == string(os.PathSeparator) || clean == ".." {
		return fmt.Errorf("refusing to remove %q", dir)
	}
	return nil
}
