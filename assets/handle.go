package assets

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
)

type State int32

const (
	Pending State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Handle is the eventual result of one asset load. It is safe to poll from
// the frame loop while a loader goroutine resolves it.
type Handle struct {
	path  string
	state atomic.Int32
	done  chan struct{}
	once  sync.Once
	img   image.Image
	err   error
}

// NewHandle returns a pending handle. Loaders resolve it exactly once.
func NewHandle(path string) *Handle {
	return &Handle{path: path, done: make(chan struct{})}
}

// Resolve settles the handle. Later calls are ignored.
func (h *Handle) Resolve(img image.Image, err error) {
	h.once.Do(func() {
		h.img, h.err = img, err
		if err != nil || img == nil {
			h.state.Store(int32(Failed))
		} else {
			h.state.Store(int32(Ready))
		}
		close(h.done)
	})
}

func (h *Handle) Path() string {
	return h.path
}

func (h *Handle) State() State {
	return State(h.state.Load())
}

func (h *Handle) Ready() bool {
	return h.State() == Ready
}

// Image returns the decoded image once the handle is ready, nil before.
func (h *Handle) Image() image.Image {
	if !h.Ready() {
		return nil
	}
	return h.img
}

// Err returns the load error of a failed handle.
func (h *Handle) Err() error {
	if h.State() != Failed {
		return nil
	}
	return h.err
}

// Done is closed when the handle leaves Pending.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the handle settles or ctx ends. Never call it from the
// frame loop.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
