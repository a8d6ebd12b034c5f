package content

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/Kush-Singh-26/folio/builder/testutil"
)

func TestSnapshot_RefreshesOnChange(t *testing.T) {
	repo, fs := newSampleRepo(t, WithSnapshot())

	posts, err := repo.AllPosts()
	if err != nil {
		t.Fatalf("AllPosts() failed: %v", err)
	}
	assertSlugs(t, posts, "b", "c", "a")

	d := testutil.SampleDoc("Delta", "2024-04-01", "Go")
	testutil.WriteFile(t, fs, filepath.Join(root, "d.md"), d.Render())

	posts, err = repo.AllPosts()
	if err != nil {
		t.Fatalf("AllPosts() failed: %v", err)
	}
	assertSlugs(t, posts, "d", "b", "c", "a")

	if err := fs.Remove(filepath.Join(root, "b.md")); err != nil {
		t.Fatal(err)
	}
	posts, _ = repo.AllPosts()
	assertSlugs(t, posts, "d", "c", "a")
}

func TestSnapshot_ReturnsCopies(t *testing.T) {
	repo, _ := newSampleRepo(t, WithSnapshot())

	posts, _ := repo.AllPosts()
	posts[0].Title = "mutated"
	posts[0].Tags[0] = "mutated"

	again, _ := repo.AllPosts()
	if again[0].Title == "mutated" || again[0].Tags[0] == "mutated" {
		t.Error("mutating a returned post leaked into the snapshot")
	}
}

func TestSnapshot_Invalidate(t *testing.T) {
	repo, _ := newSampleRepo(t, WithSnapshot())
	if _, err := repo.AllPosts(); err != nil {
		t.Fatal(err)
	}

	repo.Invalidate()
	if repo.snap.valid {
		t.Error("snapshot should be invalid after Invalidate()")
	}

	posts, _ := repo.AllPosts()
	assertSlugs(t, posts, "b", "c", "a")
	if !repo.snap.valid {
		t.Error("snapshot should be rebuilt on next read")
	}
}

func TestSnapshot_ConcurrentReads(t *testing.T) {
	repo, _ := newSampleRepo(t, WithSnapshot())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			posts, err := repo.AllPosts()
			if err != nil {
				errs <- err
				return
			}
			if len(posts) != 3 {
				t.Errorf("got %d posts, want 3", len(posts))
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent AllPosts() failed: %v", err)
	}
}
