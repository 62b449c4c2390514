package session

import (
	"context"
	"errors"
	"sync"

	"github.com/matzehuels/adforge/pkg/creative"
)

// ErrSuperseded is returned by [Slot.Render] when a newer render started
// before this one finished. Its result was discarded.
var ErrSuperseded = errors.New("render superseded")

// RenderFunc renders a layout to encoded image bytes.
type RenderFunc func(ctx context.Context, l creative.Layout) ([]byte, error)

// Slot owns one creative while it is being edited. It is safe for
// concurrent use.
type Slot struct {
	mu       sync.Mutex
	creative creative.GeneratedCreative
	version  uint64 // bumped by every Commit
	seq      uint64 // last issued render
	preview  []byte // last successful raster, possibly for an older layout
	err      error
	cancel   context.CancelFunc
}

// NewSlot returns a slot owning c. A rendered c also becomes the preview.
func NewSlot(c creative.GeneratedCreative) *Slot {
	return &Slot{creative: c, preview: c.Rendered}
}

// Commit replaces the layout and marks the raster stale. It returns the new
// layout version.
func (s *Slot) Commit(l creative.Layout) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creative = s.creative.WithLayout(l)
	s.version++
	return s.version
}

// Render renders the current layout with fn. Starting a render cancels the
// one in flight. The result is applied only if no newer render was started
// meanwhile; otherwise Render returns [ErrSuperseded]. On failure the
// previous preview stays and the error is kept for [Slot.Err].
func (s *Slot) Render(ctx context.Context, fn RenderFunc) error {
	return s.Start(ctx, fn)()
}

// Start issues a render: it takes the sequence number and a snapshot of the
// layout now, and returns the work to run, typically on another goroutine.
// Renders are ordered by when Start was called, not by when they run.
func (s *Slot) Start(ctx context.Context, fn RenderFunc) func() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.seq++
	seq, version := s.seq, s.version
	l := s.creative.Layout.Clone()

	return func() error {
		defer cancel()
		data, err := fn(ctx, l)
		return s.finish(seq, version, data, err)
	}
}

func (s *Slot) finish(seq, version uint64, data []byte, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		s.err = err
		return err
	}
	s.err = nil
	s.preview = data
	if version == s.version {
		s.creative = s.creative.WithRendered(data)
	}
	return nil
}

// Creative returns a copy of the creative. Its raster is nil while stale.
func (s *Slot) Creative() creative.GeneratedCreative {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.creative
	c.Layout = c.Layout.Clone()
	return c
}

// Layout returns a copy of the current layout.
func (s *Slot) Layout() creative.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creative.Layout.Clone()
}

// Ratio returns the slot's ratio.
func (s *Slot) Ratio() creative.Ratio {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creative.Ratio
}

// Preview returns the last successfully rendered raster, which may belong
// to an older layout version.
func (s *Slot) Preview() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// Stale reports whether the raster does not match the current layout.
func (s *Slot) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creative.Stale()
}

// Err returns the error of the last applied render, or nil. The failed
// render can be retried with another call to Render.
func (s *Slot) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Version returns the layout version.
func (s *Slot) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
