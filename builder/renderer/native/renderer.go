// Package native renders d2 diagrams to SVG in-process.
package native

import (
	"log/slog"
	"runtime"
	"sync"

	"oss.terrastruct.com/d2/lib/textmeasure"
)

// instance is a single renderer worker. textmeasure.Ruler is not safe for
// concurrent use, so each worker owns one.
type instance struct {
	ruler *textmeasure.Ruler
}

// Renderer manages a pool of rendering instances for concurrency
type Renderer struct {
	pool       chan *instance
	numWorkers int
	initOnce   sync.Once
	initErr    error
	logger     *slog.Logger
}

// New creates a Renderer with up to workers instances; workers are lazily
// initialized on first use.
func New(workers int, logger *slog.Logger) *Renderer {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		pool:       make(chan *instance, workers),
		numWorkers: workers,
		logger:     logger,
	}
}

func (r *Renderer) ensureInitialized() error {
	r.initOnce.Do(func() {
		r.logger.Debug("Initializing diagram renderer pool", "workers", r.numWorkers)
		for i := 0; i < r.numWorkers; i++ {
			ruler, err := textmeasure.NewRuler()
			if err != nil {
				r.initErr = err
				return
			}
			r.pool <- &instance{ruler: ruler}
		}
	})
	return r.initErr
}
