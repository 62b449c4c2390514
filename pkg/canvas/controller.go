package canvas

import (
	"math"

	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/geom"
)

// State is the gesture state of a [Controller].
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Event is a pointer event in screen coordinates. Shift is the resize
// modifier; it is read only at pointer down.
type Event struct {
	X, Y  float64
	Shift bool
}

// Option configures a [Controller].
type Option func(*Controller)

// WithScale sets the display scale: screen pixels per layout pixel.
func WithScale(s float64) Option { return func(c *Controller) { c.SetScale(s) } }

// WithCommit sets the callback that receives every committed layout. It runs
// synchronously inside PointerMove and must not block on rendering.
func WithCommit(fn func(creative.Layout)) Option {
	return func(c *Controller) { c.commit = fn }
}

// gesture is the state of one drag, captured at pointer down.
type gesture struct {
	ref       ElementRef
	start     geom.Point
	startBox  geom.Box
	startFont float64
	resizing  bool
}

// Controller maps pointer input to layout edits. It is not safe for
// concurrent use; feed it events from one goroutine.
type Controller struct {
	layout creative.Layout
	scale  float64
	commit func(creative.Layout)
	drag   *gesture
}

// NewController returns an idle controller owning a copy of l.
func NewController(l creative.Layout, opts ...Option) *Controller {
	c := &Controller{layout: l.Clone(), scale: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Layout returns a copy of the current layout.
func (c *Controller) Layout() creative.Layout { return c.layout.Clone() }

// SetLayout replaces the layout, e.g. after a template switch, and cancels
// any gesture in progress.
func (c *Controller) SetLayout(l creative.Layout) {
	c.layout = l.Clone()
	c.drag = nil
}

// Scale returns the display scale.
func (c *Controller) Scale() float64 { return c.scale }

// SetScale sets the display scale. Non-positive values are ignored.
func (c *Controller) SetScale(s float64) {
	if s > 0 && !math.IsInf(s, 0) {
		c.scale = s
	}
}

// State returns the gesture state.
func (c *Controller) State() State {
	if c.drag != nil {
		return Dragging
	}
	return Idle
}

// Active returns the element being dragged, if any.
func (c *Controller) Active() (ElementRef, bool) {
	if c.drag == nil {
		return ElementRef{}, false
	}
	return c.drag.ref, true
}

// Resizing reports whether the current gesture is a resize.
func (c *Controller) Resizing() bool { return c.drag != nil && c.drag.resizing }

// ToLayout converts a screen point to layout space.
func (c *Controller) ToLayout(x, y float64) geom.Point {
	return geom.Point{X: x, Y: y}.Div(c.scale)
}

// HitTest returns the element under p, given in layout space.
func (c *Controller) HitTest(p geom.Point) (ElementRef, bool) {
	return HitTest(c.layout, p)
}

// PointerDown starts a gesture on the element under the pointer. The layout
// is never changed, so the second result is always false.
func (c *Controller) PointerDown(e Event) (creative.Layout, bool) {
	p := c.ToLayout(e.X, e.Y)
	ref, ok := c.HitTest(p)
	if !ok {
		c.drag = nil
		return c.layout.Clone(), false
	}
	box, _ := Box(c.layout, ref)
	c.drag = &gesture{
		ref:       ref,
		start:     p,
		startBox:  box,
		startFont: fontSize(c.layout, ref),
		resizing:  e.Shift,
	}
	return c.layout.Clone(), false
}

// PointerMove updates the grabbed element and commits the new layout. When
// idle it returns the layout unchanged and false.
func (c *Controller) PointerMove(e Event) (creative.Layout, bool) {
	if c.drag == nil {
		return c.layout.Clone(), false
	}
	g := c.drag
	delta := c.ToLayout(e.X, e.Y).Sub(g.start)
	w, h := c.layout.Size()

	next := c.layout.Clone()
	switch {
	case g.ref.Kind.IsText() && g.resizing:
		setFontSize(&next, g.ref, math.Max(MinFont(g.ref.Kind), g.startFont+delta.X/ResizeSensitivity))
	case g.ref.Kind.IsText():
		setBox(&next, g.ref, g.startBox.Translate(delta.X, delta.Y))
	case g.resizing:
		b := g.startBox
		floor := MinSize(g.ref.Kind)
		b.Width = math.Max(floor, b.Width+delta.X)
		b.Height = math.Max(floor, b.Height+delta.Y)
		setBox(&next, g.ref, b)
	default:
		setBox(&next, g.ref, g.startBox.Translate(delta.X, delta.Y).ClampCenter(w, h))
	}

	c.layout = next
	if c.commit != nil {
		c.commit(next.Clone())
	}
	return c.layout.Clone(), true
}

// PointerUp ends the gesture. The committed layout persists.
func (c *Controller) PointerUp(Event) (creative.Layout, bool) {
	c.drag = nil
	return c.layout.Clone(), false
}

// PointerLeave ends the gesture like [Controller.PointerUp].
func (c *Controller) PointerLeave(Event) (creative.Layout, bool) {
	return c.PointerUp(Event{})
}
