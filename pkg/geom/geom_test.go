package geom

import "testing"

func TestBoxEdges(t *testing.T) {
	b := Box{X: 100, Y: 50, Width: 40, Height: 20}

	if got := b.Left(); got != 80 {
		t.Errorf("Left() = %v, want %v", got, 80)
	}
	if got := b.Right(); got != 120 {
		t.Errorf("Right() = %v, want %v", got, 120)
	}
	if got := b.Top(); got != 40 {
		t.Errorf("Top() = %v, want %v", got, 40)
	}
	if got := b.Bottom(); got != 60 {
		t.Errorf("Bottom() = %v, want %v", got, 60)
	}
}

func TestBoxContains(t *testing.T) {
	b := Box{X: 50, Y: 50, Width: 20, Height: 10}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{50, 50}, true},
		{"left edge inclusive", Point{40, 50}, true},
		{"bottom-right corner inclusive", Point{60, 55}, true},
		{"just outside right", Point{60.01, 50}, false},
		{"above", Point{50, 44}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestBoxIntersects(t *testing.T) {
	a := Box{X: 10, Y: 10, Width: 10, Height: 10}

	tests := []struct {
		name string
		b    Box
		want bool
	}{
		{"overlapping", Box{X: 15, Y: 15, Width: 10, Height: 10}, true},
		{"touching edges only", Box{X: 20, Y: 10, Width: 10, Height: 10}, false},
		{"disjoint", Box{X: 100, Y: 100, Width: 10, Height: 10}, false},
		{"contained", Box{X: 10, Y: 10, Width: 2, Height: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampCenter(t *testing.T) {
	tests := []struct {
		name  string
		box   Box
		wantX float64
		wantY float64
	}{
		{"inside stays", Box{X: 50, Y: 50, Width: 20, Height: 20}, 50, 50},
		{"far left touches edge", Box{X: -10000, Y: 50, Width: 20, Height: 20}, 10, 50},
		{"far right touches edge", Box{X: 10000, Y: 50, Width: 20, Height: 20}, 90, 50},
		{"far below touches edge", Box{X: 50, Y: 900, Width: 20, Height: 30}, 50, 85},
		{"wider than canvas centers", Box{X: 0, Y: 50, Width: 200, Height: 20}, 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.box.ClampCenter(100, 100)
			if got.X != tt.wantX || got.Y != tt.wantY {
				t.Errorf("ClampCenter() = (%v, %v), want (%v, %v)", got.X, got.Y, tt.wantX, tt.wantY)
			}
			if got.Width != tt.box.Width || got.Height != tt.box.Height {
				t.Error("ClampCenter() must not change the size")
			}
		})
	}
}

func TestBoxWithinAndValid(t *testing.T) {
	if !(Box{X: 10, Y: 10, Width: 20, Height: 20}).Within(100, 100) {
		t.Error("box touching the origin should be within the canvas")
	}
	if (Box{X: 5, Y: 10, Width: 20, Height: 20}).Within(100, 100) {
		t.Error("box crossing the left edge should not be within the canvas")
	}
	if (Box{Width: 0, Height: 10}).Valid() {
		t.Error("zero-width box should be invalid")
	}
	if !(Box{Width: 1, Height: 1}).Valid() {
		t.Error("unit box should be valid")
	}
}

func TestTranslateAndScale(t *testing.T) {
	b := Box{X: 10, Y: 10, Width: 4, Height: 2}.Translate(5, -5).Scale(2)
	want := Box{X: 15, Y: 5, Width: 8, Height: 4}
	if b != want {
		t.Errorf("Translate().Scale() = %+v, want %+v", b, want)
	}
}
