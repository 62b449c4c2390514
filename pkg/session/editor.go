package session

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/adforge/pkg/cache"
	"github.com/matzehuels/adforge/pkg/canvas"
	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/palette"
	"github.com/matzehuels/adforge/pkg/pipeline"
	"github.com/matzehuels/adforge/pkg/render"
	"github.com/matzehuels/adforge/pkg/template"
)

// PointerType is the kind of a pointer event.
type PointerType string

const (
	PointerDown  PointerType = "down"
	PointerMove  PointerType = "move"
	PointerUp    PointerType = "up"
	PointerLeave PointerType = "leave"
)

// ParsePointerType validates a pointer event name.
func ParsePointerType(s string) (PointerType, error) {
	switch t := PointerType(s); t {
	case PointerDown, PointerMove, PointerUp, PointerLeave:
		return t, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown pointer event %q", s)
}

// Option configures an [Editor].
type Option func(*Editor)

// WithID sets the editor ID (default: a random UUID).
func WithID(id string) Option { return func(e *Editor) { e.id = id } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(e *Editor) { e.logger = l } }

// WithRenderConfig sets the encoder settings for re-renders.
func WithRenderConfig(cfg pipeline.RenderConfig) Option {
	return func(e *Editor) { e.cfg = cfg }
}

// Editor is the editing state of one batch: a slot per ratio, the shared
// assets and copy, and a canvas controller bound to the selected slot.
//
// Editor methods are safe for concurrent use, except that the controller
// returned by [Editor.Controller] must be driven from one goroutine.
type Editor struct {
	id      string
	created time.Time
	logger  *log.Logger
	runner  pipeline.Runner
	cfg     pipeline.RenderConfig

	mu       sync.Mutex
	slots    []*Slot
	selected int
	inputs   render.Inputs
	palette  palette.Palette
	assets   []template.Asset
	ctrl     *canvas.Controller
	lastUsed time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEditor creates an editor from a pipeline result. A result with a
// failed variant is rejected as a whole, so an editor never holds a
// partially generated batch.
func NewEditor(r *pipeline.Runner, res *pipeline.Result, opts ...Option) (*Editor, error) {
	if err := res.Complete(); err != nil {
		return nil, err
	}
	if len(res.Variants) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no variants to edit")
	}

	now := time.Now()
	e := &Editor{
		id:       uuid.NewString(),
		created:  now,
		lastUsed: now,
		runner:   *r,
		inputs:   res.Inputs,
		palette:  res.Palette,
		assets:   res.Assets,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := e.cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	// Previews of one session never serve another.
	e.runner.Keyer = cache.NewScopedKeyer(r.Keyer, "session:"+e.id+":")
	e.runner.Logger = e.logger
	e.ctx, e.cancel = context.WithCancel(context.Background())

	for _, v := range res.Variants {
		e.slots = append(e.slots, NewSlot(v.Creative))
	}
	e.ctrl = canvas.NewController(e.slots[0].Layout(), canvas.WithCommit(e.commit))
	return e, nil
}

// ID returns the editor ID.
func (e *Editor) ID() string { return e.id }

// Created returns the creation time.
func (e *Editor) Created() time.Time { return e.created }

// LastUsed returns the time of the last call that touched the editor.
func (e *Editor) LastUsed() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUsed
}

// Touch marks the editor as used now.
func (e *Editor) Touch() {
	e.mu.Lock()
	e.lastUsed = time.Now()
	e.mu.Unlock()
}

// Len returns the number of slots.
func (e *Editor) Len() int { return len(e.slots) }

// Slot returns slot i.
func (e *Editor) Slot(i int) (*Slot, error) {
	if i < 0 || i >= len(e.slots) {
		return nil, errors.New(errors.ErrCodeNotFound, "no creative %d (have %d)", i, len(e.slots))
	}
	return e.slots[i], nil
}

// Selected returns the index of the slot bound to the controller.
func (e *Editor) Selected() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

// Select binds the controller to slot i, cancelling any gesture.
func (e *Editor) Select(i int) error {
	s, err := e.Slot(i)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = i
	e.ctrl.SetLayout(s.Layout())
	e.lastUsed = time.Now()
	return nil
}

// Controller returns the canvas controller of the selected slot. Every
// committed layout is stored in the slot and triggers a background render.
func (e *Editor) Controller() *canvas.Controller { return e.ctrl }

// Pointer feeds one pointer event to the controller of slot i, selecting
// it first when needed. It returns the current layout and whether it
// changed.
func (e *Editor) Pointer(i int, t PointerType, ev canvas.Event, scale float64) (creative.Layout, bool, error) {
	if _, err := e.Slot(i); err != nil {
		return creative.Layout{}, false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = time.Now()
	if i != e.selected {
		e.selected = i
		e.ctrl.SetLayout(e.slots[i].Layout())
	}
	if scale > 0 {
		e.ctrl.SetScale(scale)
	}

	var l creative.Layout
	var changed bool
	switch t {
	case PointerDown:
		l, changed = e.ctrl.PointerDown(ev)
	case PointerMove:
		l, changed = e.ctrl.PointerMove(ev)
	case PointerUp:
		l, changed = e.ctrl.PointerUp(ev)
	case PointerLeave:
		l, changed = e.ctrl.PointerLeave(ev)
	default:
		return creative.Layout{}, false, errors.New(errors.ErrCodeInvalidInput, "unknown pointer event %q", t)
	}
	return l, changed, nil
}

// commit runs inside PointerMove with e.mu held by Pointer, or from the
// goroutine driving the controller directly.
func (e *Editor) commit(l creative.Layout) {
	s := e.slots[e.selected]
	s.Commit(l)
	e.renderAsync(s, e.inputs)
}

// SetHeadline replaces the headline of every creative and re-renders them.
func (e *Editor) SetHeadline(text string) error {
	if err := errors.ValidateText("headline", text, errors.MaxHeadlineRunes); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inputs.Headline = text
	e.invalidateAll()
	return nil
}

// SetCTA replaces the call to action of every creative and re-renders them.
func (e *Editor) SetCTA(text string) error {
	if err := errors.ValidateText("cta", text, errors.MaxCTARunes); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inputs.CTA = text
	e.invalidateAll()
	return nil
}

// Text returns the current headline and call to action.
func (e *Editor) Text() (headline, cta string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inputs.Headline, e.inputs.CTA
}

// invalidateAll marks every raster stale and re-renders. e.mu must be held.
func (e *Editor) invalidateAll() {
	e.lastUsed = time.Now()
	for _, s := range e.slots {
		s.Commit(s.Layout())
		e.renderAsync(s, e.inputs)
	}
}

// ApplyTemplate regenerates the selected creative with another template
// family. A non-empty brandColor replaces the primary palette colour only;
// the other colours are kept. Manual edits to that creative are lost.
func (e *Editor) ApplyTemplate(ctx context.Context, family creative.Template, brandColor string) (creative.Layout, error) {
	if !family.Valid() {
		return creative.Layout{}, errors.New(errors.ErrCodeInvalidTemplateOrRatio, "unknown template %q", family)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.palette
	if brandColor != "" {
		var err error
		if p, err = p.WithPrimary(brandColor); err != nil {
			return creative.Layout{}, err
		}
	}
	s := e.slots[e.selected]
	l, err := e.runner.GenerateLayout(ctx, pipeline.LayoutRequest{
		Ratio:    s.Ratio(),
		Template: family,
		Palette:  p,
		Headline: e.inputs.Headline,
		Assets:   e.assets,
	})
	if err != nil {
		return creative.Layout{}, err
	}
	e.palette = p
	e.lastUsed = time.Now()
	s.Commit(l)
	e.ctrl.SetLayout(l)
	e.renderAsync(s, e.inputs)
	e.logger.Debug("applied template", "session", e.id, "ratio", l.Ratio, "template", family)
	return l, nil
}

// Palette returns the current palette.
func (e *Editor) Palette() palette.Palette {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.palette
}

// renderAsync issues a render of s with a snapshot of in and runs it in the
// background.
func (e *Editor) renderAsync(s *Slot, in render.Inputs) {
	run := s.Start(e.ctx, e.renderFunc(in))
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := run(); err != nil && !stderrors.Is(err, ErrSuperseded) {
			e.logger.Debug("re-render failed", "session", e.id, "ratio", s.Ratio(), "error", err)
		}
	}()
}

func (e *Editor) renderFunc(in render.Inputs) RenderFunc {
	return func(ctx context.Context, l creative.Layout) ([]byte, error) {
		return e.runner.Render(ctx, l, in, e.cfg)
	}
}

// Wait blocks until background renders started so far have finished.
func (e *Editor) Wait() { e.wg.Wait() }

// RenderAll renders every slot now and returns one error per slot (nil on
// success). Slots render independently.
func (e *Editor) RenderAll(ctx context.Context) []error {
	e.mu.Lock()
	fn := e.renderFunc(e.inputs)
	e.lastUsed = time.Now()
	e.mu.Unlock()

	errs := make([]error, len(e.slots))
	var g errgroup.Group
	g.SetLimit(e.cfg.Concurrency)
	for i, s := range e.slots {
		g.Go(func() error {
			errs[i] = s.Render(ctx, fn)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// Creatives returns a copy of every creative in slot order.
func (e *Editor) Creatives() []creative.GeneratedCreative {
	out := make([]creative.GeneratedCreative, len(e.slots))
	for i, s := range e.slots {
		out[i] = s.Creative()
	}
	return out
}

// Export waits for pending renders, re-renders stale slots and exports
// every creative. Failures are reported per item.
func (e *Editor) Export(ctx context.Context, opts pipeline.ExportOptions) []pipeline.Exported {
	e.Wait()
	for _, s := range e.slots {
		if s.Stale() {
			e.mu.Lock()
			fn := e.renderFunc(e.inputs)
			e.mu.Unlock()
			_ = s.Render(ctx, fn)
		}
	}
	if opts.Logger == nil {
		opts.Logger = e.logger
	}
	return pipeline.Export(ctx, e.Creatives(), opts)
}

// Close cancels background renders and waits for them to stop.
func (e *Editor) Close() {
	e.cancel()
	e.wg.Wait()
}
