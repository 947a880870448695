package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/plus3/mapview/internal/logging"
)

const DefaultWorkers = 4

// Loader decodes images from a Source in the background. Load never blocks;
// at most the configured number of decodes run at once. Requests for the same
// path share one handle.
type Loader struct {
	source Source
	sem    *semaphore.Weighted
	logger logrus.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	handles map[string]*Handle

	ready  atomic.Int64
	failed atomic.Int64
}

// Stats is a snapshot of loader progress.
type Stats struct {
	Requested int
	Pending   int
	Ready     int
	Failed    int
}

type loaderConfig struct {
	workers int
	logger  logrus.FieldLogger
}

type LoaderOption func(*loaderConfig)

func WithWorkers(n int) LoaderOption {
	return func(c *loaderConfig) { c.workers = n }
}

func WithLogger(logger logrus.FieldLogger) LoaderOption {
	return func(c *loaderConfig) { c.logger = logger }
}

func NewLoader(source Source, opts ...LoaderOption) *Loader {
	config := loaderConfig{workers: DefaultWorkers}
	for _, opt := range opts {
		opt(&config)
	}
	if config.workers <= 0 {
		config.workers = DefaultWorkers
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		source:  source,
		sem:     semaphore.NewWeighted(int64(config.workers)),
		logger:  logging.OrDiscard(config.logger),
		ctx:     ctx,
		cancel:  cancel,
		handles: make(map[string]*Handle),
	}
}

// Load returns the handle for path, starting the decode on first request.
func (l *Loader) Load(path string) *Handle {
	l.mu.Lock()
	if h, ok := l.handles[path]; ok {
		l.mu.Unlock()
		return h
	}
	h := NewHandle(path)
	l.handles[path] = h
	l.wg.Add(1)
	l.mu.Unlock()

	go l.run(h)
	return h
}

func (l *Loader) run(h *Handle) {
	defer l.wg.Done()

	if err := l.ctx.Err(); err != nil {
		l.settle(h, nil, fmt.Errorf("load %s: %w", h.Path(), err))
		return
	}
	if err := l.sem.Acquire(l.ctx, 1); err != nil {
		l.settle(h, nil, fmt.Errorf("load %s: %w", h.Path(), err))
		return
	}
	defer l.sem.Release(1)

	data, err := l.source.ReadAsset(h.Path())
	if err != nil {
		l.settle(h, nil, err)
		return
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		l.settle(h, nil, fmt.Errorf("decode %s: %w", h.Path(), err))
		return
	}
	l.settle(h, img, nil)
}

func (l *Loader) settle(h *Handle, img image.Image, err error) {
	h.Resolve(img, err)
	if err != nil {
		l.failed.Add(1)
		l.logger.WithError(err).WithField("path", h.Path()).Warn("asset load failed")
		return
	}
	l.ready.Add(1)
	l.logger.WithField("path", h.Path()).Trace("asset loaded")
}

// ReadRaw reads an undecoded asset synchronously, for catalogues and other
// non-image data loaded at startup.
func (l *Loader) ReadRaw(path string) ([]byte, error) {
	return l.source.ReadAsset(path)
}

func (l *Loader) Stats() Stats {
	l.mu.Lock()
	requested := len(l.handles)
	l.mu.Unlock()

	ready, failed := int(l.ready.Load()), int(l.failed.Load())
	return Stats{
		Requested: requested,
		Ready:     ready,
		Failed:    failed,
		Pending:   requested - ready - failed,
	}
}

// Wait blocks until every load requested so far has settled.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Close cancels loads still waiting for a worker and waits for running ones.
func (l *Loader) Close() error {
	l.cancel()
	l.wg.Wait()
	return nil
}
