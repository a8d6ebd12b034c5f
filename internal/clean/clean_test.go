package clean

import (
	"testing"

	"github.com/spf13/afero"
)

func TestDirs(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, f := range []string{"public/index.html", "public/blog/a/index.html", ".folio-cache/cache.db", "content/blog/a.md"} {
		if err := afero.WriteFile(fsys, f, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := Dirs(fsys, "public", ".folio-cache", "missing")
	if err != nil {
		t.Fatalf("Dirs() error = %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("removed = %v, want public and .folio-cache", removed)
	}
	for _, dir := range []string{"public", ".folio-cache"} {
		if ok, _ := afero.DirExists(fsys, dir); ok {
			t.Errorf("%s still exists", dir)
		}
	}
	if ok, _ := afero.Exists(fsys, "content/blog/a.md"); !ok {
		t.Error("content must not be touched")
	}
}

func TestDirsRefusesRoots(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "keep.txt", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{"", ".", "./", "/", ".."} {
		if _, err := Dirs(fsys, dir); err == nil {
			t.Errorf("Dirs(%q) should be refused", dir)
		}
	}
	if ok, _ := afero.Exists(fsys, "keep.txt"); !ok {
		t.Error("refused removal deleted files")
	}
}
