package content

import (
	"sync"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// snapshot is a read-through cache of the sorted listing, valid while the
// store fingerprint matches. Readers share the RLock; a rebuild holds the
// write lock so concurrent misses parse the store once.
type snapshot struct {
	mu          sync.RWMutex
	fingerprint string
	posts       []models.Post
	valid       bool
}

func (s *snapshot) load(r *Repository) ([]models.Post, error) {
	fp, err := r.Fingerprint()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	if s.valid && s.fingerprint == fp {
		out := utils.ClonePosts(s.posts)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid && s.fingerprint == fp {
		return utils.ClonePosts(s.posts), nil
	}

	posts, err := r.scan()
	if err != nil {
		return nil, err
	}
	s.fingerprint, s.posts, s.valid = fp, posts, true
	r.logger.Debug("Content snapshot rebuilt", "posts", len(posts), "fingerprint", fp[:12])
	return utils.ClonePosts(posts), nil
}

func (s *snapshot) invalidate() {
	s.mu.Lock()
	s.valid = false
	s.posts = nil
	s.mu.Unlock()
}
