package canvas

import (
	"testing"

	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/geom"
)

func testLayout() creative.Layout {
	return creative.Layout{
		Ratio:      creative.RatioSquare,
		Width:      1000,
		Height:     1000,
		Template:   creative.TemplateCleanMinimal,
		Background: "#FFFFFF",
		Packshot:   geom.Box{X: 500, Y: 500, Width: 400, Height: 400},
		Logo:       geom.Box{X: 100, Y: 80, Width: 150, Height: 60},
		Headline:   creative.TextBox{Box: geom.Box{X: 500, Y: 200, Width: 800, Height: 120}, FontSize: 60, Color: "#111827"},
		CTA:        creative.TextBox{Box: geom.Box{X: 500, Y: 880, Width: 300, Height: 80}, FontSize: 33, Color: "#FF0000"},
		Decorations: []creative.Decoration{
			{Kind: creative.DecorationCircle, Position: geom.Box{X: 450, Y: 450, Width: 100, Height: 100}, Color: "#00FF00"},
			{Kind: creative.DecorationRectangle, Position: geom.Box{X: 850, Y: 600, Width: 100, Height: 100}, Color: "#0000FF"},
			{Kind: creative.DecorationCircle, Position: geom.Box{X: 870, Y: 620, Width: 100, Height: 100}, Color: "#00FFFF"},
		},
	}
}

func TestHitTestPrecedence(t *testing.T) {
	l := testLayout()
	tests := []struct {
		name string
		p    geom.Point
		want ElementRef
		hit  bool
	}{
		{"packshot beats overlapping decoration", geom.Point{X: 450, Y: 450}, ElementRef{Kind: Packshot}, true},
		{"logo", geom.Point{X: 100, Y: 80}, ElementRef{Kind: Logo}, true},
		{"headline", geom.Point{X: 500, Y: 200}, ElementRef{Kind: Headline}, true},
		{"cta", geom.Point{X: 500, Y: 880}, ElementRef{Kind: CTA}, true},
		{"topmost decoration wins", geom.Point{X: 860, Y: 610}, DecorationRef(2), true},
		{"lower decoration", geom.Point{X: 805, Y: 555}, DecorationRef(1), true},
		{"inclusive edge", geom.Point{X: 700, Y: 500}, ElementRef{Kind: Packshot}, true},
		{"miss", geom.Point{X: 10, Y: 990}, ElementRef{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HitTest(l, tt.p)
			if ok != tt.hit || got != tt.want {
				t.Errorf("HitTest(%v) = %v, %v, want %v, %v", tt.p, got, ok, tt.want, tt.hit)
			}
		})
	}
}

func TestStateMachine(t *testing.T) {
	c := NewController(testLayout())
	if c.State() != Idle {
		t.Fatalf("initial State() = %v, want idle", c.State())
	}

	// Miss stays idle.
	c.PointerDown(Event{X: 10, Y: 990})
	if c.State() != Idle {
		t.Errorf("State() after miss = %v, want idle", c.State())
	}
	if _, changed := c.PointerMove(Event{X: 20, Y: 990}); changed {
		t.Error("PointerMove() while idle reported a change")
	}

	_, changed := c.PointerDown(Event{X: 500, Y: 500})
	if changed {
		t.Error("PointerDown() reported a change")
	}
	if ref, ok := c.Active(); !ok || ref.Kind != Packshot || c.State() != Dragging {
		t.Fatalf("Active() = %v, %v; State() = %v", ref, ok, c.State())
	}

	l, changed := c.PointerMove(Event{X: 520, Y: 530})
	if !changed || l.Packshot.X != 520 || l.Packshot.Y != 530 {
		t.Errorf("PointerMove() packshot = %+v, changed %v", l.Packshot, changed)
	}

	c.PointerUp(Event{})
	if c.State() != Idle {
		t.Errorf("State() after up = %v, want idle", c.State())
	}
	if got := c.Layout().Packshot; got.X != 520 || got.Y != 530 {
		t.Errorf("committed packshot = %+v, want moved", got)
	}

	c.PointerDown(Event{X: 520, Y: 530})
	c.PointerLeave(Event{})
	if c.State() != Idle {
		t.Errorf("State() after leave = %v, want idle", c.State())
	}
}

func TestDragClamp(t *testing.T) {
	tests := []struct {
		name   string
		down   Event
		dx, dy float64
		ref    ElementRef
		want   geom.Point
	}{
		{"packshot far left", Event{X: 500, Y: 500}, -10000, 0, ElementRef{Kind: Packshot}, geom.Point{X: 200, Y: 500}},
		{"packshot far down right", Event{X: 500, Y: 500}, 10000, 10000, ElementRef{Kind: Packshot}, geom.Point{X: 800, Y: 800}},
		{"logo far up", Event{X: 100, Y: 80}, 0, -10000, ElementRef{Kind: Logo}, geom.Point{X: 100, Y: 30}},
		{"decoration far right", Event{X: 860, Y: 610}, 10000, 0, DecorationRef(2), geom.Point{X: 950, Y: 620}},
		{"headline not clamped", Event{X: 500, Y: 200}, -10000, 0, ElementRef{Kind: Headline}, geom.Point{X: -9500, Y: 200}},
		{"cta not clamped", Event{X: 500, Y: 880}, 0, 5000, ElementRef{Kind: CTA}, geom.Point{X: 500, Y: 5880}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(testLayout())
			c.PointerDown(tt.down)
			l, _ := c.PointerMove(Event{X: tt.down.X + tt.dx, Y: tt.down.Y + tt.dy})
			b, ok := Box(l, tt.ref)
			if !ok {
				t.Fatalf("Box(%v) not found", tt.ref)
			}
			if b.Center() != tt.want {
				t.Errorf("center = %+v, want %+v", b.Center(), tt.want)
			}
			if !tt.ref.Kind.IsText() && !b.Within(1000, 1000) {
				t.Errorf("box %+v left the canvas", b)
			}
		})
	}
}

func TestDragClampTouchesEdge(t *testing.T) {
	c := NewController(testLayout())
	c.PointerDown(Event{X: 500, Y: 500})
	l, _ := c.PointerMove(Event{X: -9500, Y: 500})
	if l.Packshot.Left() != 0 {
		t.Errorf("Left() = %v, want exactly 0", l.Packshot.Left())
	}
}

func TestResizeFloors(t *testing.T) {
	tests := []struct {
		name  string
		down  Event
		ref   ElementRef
		floor float64
	}{
		{"decoration", Event{X: 860, Y: 610, Shift: true}, DecorationRef(2), MinDecorationSize},
		{"packshot", Event{X: 500, Y: 500, Shift: true}, ElementRef{Kind: Packshot}, MinPackshotSize},
		{"logo", Event{X: 100, Y: 80, Shift: true}, ElementRef{Kind: Logo}, MinLogoSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(testLayout())
			before, _ := Box(c.Layout(), tt.ref)
			c.PointerDown(tt.down)
			if !c.Resizing() {
				t.Fatal("shift at pointer down did not start a resize")
			}
			l, _ := c.PointerMove(Event{X: tt.down.X - 100000, Y: tt.down.Y - 100000})
			b, _ := Box(l, tt.ref)
			if b.Width != tt.floor || b.Height != tt.floor {
				t.Errorf("size = %vx%v, want %vx%v", b.Width, b.Height, tt.floor, tt.floor)
			}
			if b.Center() != before.Center() {
				t.Errorf("resize moved center from %+v to %+v", before.Center(), b.Center())
			}
		})
	}
}

func TestResizeGrowsByDelta(t *testing.T) {
	c := NewController(testLayout())
	c.PointerDown(Event{X: 100, Y: 80, Shift: true})
	l, _ := c.PointerMove(Event{X: 130, Y: 100})
	if l.Logo.Width != 180 || l.Logo.Height != 80 {
		t.Errorf("logo size = %vx%v, want 180x80", l.Logo.Width, l.Logo.Height)
	}
	// Growth is relative to the gesture start, not cumulative.
	l, _ = c.PointerMove(Event{X: 110, Y: 80})
	if l.Logo.Width != 160 || l.Logo.Height != 60 {
		t.Errorf("logo size = %vx%v, want 160x60", l.Logo.Width, l.Logo.Height)
	}
}

func TestResizeText(t *testing.T) {
	c := NewController(testLayout())
	c.PointerDown(Event{X: 500, Y: 200, Shift: true})
	l, _ := c.PointerMove(Event{X: 550, Y: 900})
	if l.Headline.FontSize != 70 {
		t.Errorf("headline font = %v, want 70", l.Headline.FontSize)
	}
	if l.Headline.Center() != (geom.Point{X: 500, Y: 200}) {
		t.Errorf("text resize moved headline to %+v", l.Headline.Center())
	}
	l, _ = c.PointerMove(Event{X: -100000, Y: 200})
	if l.Headline.FontSize != MinHeadlineFont {
		t.Errorf("headline font = %v, want floor %v", l.Headline.FontSize, MinHeadlineFont)
	}
	c.PointerUp(Event{})

	c.PointerDown(Event{X: 500, Y: 880, Shift: true})
	l, _ = c.PointerMove(Event{X: -100000, Y: 880})
	if l.CTA.FontSize != MinCTAFont {
		t.Errorf("cta font = %v, want floor %v", l.CTA.FontSize, MinCTAFont)
	}
}

func TestShiftOnlyReadAtPointerDown(t *testing.T) {
	c := NewController(testLayout())
	c.PointerDown(Event{X: 500, Y: 500})
	l, _ := c.PointerMove(Event{X: 510, Y: 500, Shift: true})
	if l.Packshot.Width != 400 || l.Packshot.X != 510 {
		t.Errorf("packshot = %+v, want moved not resized", l.Packshot)
	}
}

func TestScaleConversion(t *testing.T) {
	c := NewController(testLayout(), WithScale(0.5))
	// Screen (250,250) is layout (500,500).
	c.PointerDown(Event{X: 250, Y: 250})
	if ref, _ := c.Active(); ref.Kind != Packshot {
		t.Fatalf("Active() = %v, want packshot", ref)
	}
	l, _ := c.PointerMove(Event{X: 260, Y: 250})
	if l.Packshot.X != 520 {
		t.Errorf("packshot X = %v, want 520", l.Packshot.X)
	}
	c.SetScale(0)
	if c.Scale() != 0.5 {
		t.Errorf("SetScale(0) changed scale to %v", c.Scale())
	}
}

func TestCommitEveryMove(t *testing.T) {
	var commits []creative.Layout
	c := NewController(testLayout(), WithCommit(func(l creative.Layout) {
		commits = append(commits, l)
	}))
	c.PointerDown(Event{X: 860, Y: 610})
	for i := 1; i <= 3; i++ {
		c.PointerMove(Event{X: 860 - float64(10*i), Y: 610})
	}
	c.PointerUp(Event{})

	if len(commits) != 3 {
		t.Fatalf("commits = %d, want 3", len(commits))
	}
	if got := commits[2].Decorations[2].Position.X; got != 840 {
		t.Errorf("last commit X = %v, want 840", got)
	}
	// Committed values are independent of each other and of the controller.
	commits[0].Decorations[2].Position.X = -1
	if commits[1].Decorations[2].Position.X != 850 || c.Layout().Decorations[2].Position.X != 840 {
		t.Error("committed layouts share decoration storage")
	}
}

func TestSetLayoutCancelsGesture(t *testing.T) {
	c := NewController(testLayout())
	c.PointerDown(Event{X: 860, Y: 610})
	l := testLayout()
	l.Decorations = nil
	c.SetLayout(l)
	if c.State() != Idle {
		t.Errorf("State() = %v, want idle after SetLayout", c.State())
	}
	if _, changed := c.PointerMove(Event{X: 0, Y: 0}); changed {
		t.Error("PointerMove() after SetLayout reported a change")
	}
}

func TestLayoutNotAliased(t *testing.T) {
	orig := testLayout()
	c := NewController(orig)
	c.PointerDown(Event{X: 860, Y: 610})
	c.PointerMove(Event{X: 800, Y: 610})
	if orig.Decorations[2].Position.X != 870 {
		t.Errorf("controller mutated caller's layout: X = %v", orig.Decorations[2].Position.X)
	}
}

func TestElementRefString(t *testing.T) {
	if got := DecorationRef(3).String(); got != "decoration[3]" {
		t.Errorf("String() = %q", got)
	}
	if got := (ElementRef{Kind: CTA}).String(); got != "cta" {
		t.Errorf("String() = %q", got)
	}
}
