// Package metrics tracks what a build did and how long it took.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// BuildMetrics is safe for concurrent use by build workers.
type BuildMetrics struct {
	StartTime time.Time
	EndTime   time.Time

	postsRendered atomic.Int64
	pagesWritten  atomic.Int64
	filesCopied   atomic.Int64
	socialCards   atomic.Int64
	skipped       atomic.Int64

	// Set once at the end of the build from the parse cache.
	CacheHits   int64
	CacheMisses int64

	mu     sync.Mutex
	phases map[string]time.Duration
}

func NewBuildMetrics() *BuildMetrics {
	return &BuildMetrics{
		StartTime: time.Now(),
		phases:    make(map[string]time.Duration),
	}
}

func (m *BuildMetrics) RecordEnd() {
	m.EndTime = time.Now()
}

// Phase starts timing a named phase; call the returned func when it ends.
func (m *BuildMetrics) Phase(name string) func() {
	start := time.Now()
	return func() {
		m.mu.Lock()
		m.phases[name] += time.Since(start)
		m.mu.Unlock()
	}
}

// PhaseDuration returns the accumulated time spent in phase name.
func (m *BuildMetrics) PhaseDuration(name string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phases[name]
}

func (m *BuildMetrics) TotalDuration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

func (m *BuildMetrics) IncrementPostsRendered() { m.postsRendered.Add(1) }
func (m *BuildMetrics) IncrementPagesWritten()  { m.pagesWritten.Add(1) }
func (m *BuildMetrics) IncrementFilesCopied()   { m.filesCopied.Add(1) }
func (m *BuildMetrics) IncrementSocialCards()   { m.socialCards.Add(1) }
func (m *BuildMetrics) IncrementSkipped()       { m.skipped.Add(1) }

func (m *BuildMetrics) PostsRendered() int64 { return m.postsRendered.Load() }
func (m *BuildMetrics) PagesWritten() int64  { return m.pagesWritten.Load() }
func (m *BuildMetrics) FilesCopied() int64   { return m.filesCopied.Load() }
func (m *BuildMetrics) SocialCards() int64   { return m.socialCards.Load() }
func (m *BuildMetrics) Skipped() int64       { return m.skipped.Load() }

// CacheHitRate returns the parse cache hit percentage.
func (m *BuildMetrics) CacheHitRate() float64 {
	total := m.CacheHits + m.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(m.CacheHits) / float64(total) * 100
}

// String returns the one-line build summary followed by phase timings.
func (m *BuildMetrics) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Built %d posts, %d pages in %v (cache: %d/%d hits, %.0f%%)",
		m.PostsRendered(),
		m.PagesWritten(),
		m.TotalDuration().Round(time.Millisecond),
		m.CacheHits,
		m.CacheHits+m.CacheMisses,
		m.CacheHitRate(),
	)
	if n := m.FilesCopied(); n > 0 {
		fmt.Fprintf(&b, ", %d static files", n)
	}
	if n := m.SocialCards(); n > 0 {
		fmt.Fprintf(&b, ", %d social cards", n)
	}
	if n := m.Skipped(); n > 0 {
		fmt.Fprintf(&b, ", %d skipped", n)
	}

	m.mu.Lock()
	names := make([]string, 0, len(m.phases))
	for name := range m.phases {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "\n   %-8s %v", name, m.phases[name].Round(time.Millisecond))
	}
	m.mu.Unlock()

	return b.String()
}

func (m *BuildMetrics) Print() {
	fmt.Println(m.String())
}
