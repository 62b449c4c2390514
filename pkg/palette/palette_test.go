package palette

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/adforge/pkg/errors"
)

func TestGenerateDeterministic(t *testing.T) {
	seeds := []string{"#FF0000", "#3B82F6", "#000000", "#FFFFFF", "#10B981", "#FDE047"}
	for _, s := range seeds {
		t.Run(s, func(t *testing.T) {
			a, err := FromHex(s)
			if err != nil {
				t.Fatalf("FromHex(%q) error: %v", s, err)
			}
			for i := 0; i < 5; i++ {
				b, _ := FromHex(s)
				if a != b {
					t.Fatalf("FromHex(%q) = %+v, then %+v", s, a, b)
				}
			}
		})
	}
}

func TestGeneratePrimaryIsSeed(t *testing.T) {
	p, err := FromHex("#ff0000")
	if err != nil {
		t.Fatal(err)
	}
	if p.Primary != "#FF0000" {
		t.Errorf("Primary = %s, want #FF0000", p.Primary)
	}
}

func TestGenerateDistinct(t *testing.T) {
	seeds := []string{
		"#FF0000", "#3B82F6", "#000000", "#FFFFFF", "#808080", "#FDE047", "#1E3A8A",
		"#FFEB3B", "#E0F2FE", "#F7F7F7", "#0A0A0A", "#111827",
	}
	for _, s := range seeds {
		t.Run(s, func(t *testing.T) {
			p, _ := FromHex(s)
			seen := map[string]bool{}
			for _, c := range p.Colors() {
				if !strings.HasPrefix(c, "#") || len(c) != 7 {
					t.Errorf("color %q is not #RRGGBB", c)
				}
				if c != strings.ToUpper(c) {
					t.Errorf("color %q is not uppercase", c)
				}
				seen[c] = true
			}
			if len(seen) != 4 {
				t.Errorf("palette %+v has only %d distinct colors", p, len(seen))
			}
		})
	}
}

func TestGenerateLightnessOrdering(t *testing.T) {
	p, _ := FromHex("#3B82F6")
	_, _, lp := MustParseHex(p.Primary).Hcl()
	_, _, ls := MustParseHex(p.Secondary).Hcl()
	_, _, la := MustParseHex(p.Accent).Hcl()
	_, _, lb := MustParseHex(p.Background).Hcl()

	if ls <= lp {
		t.Errorf("secondary L = %v, want > primary L %v", ls, lp)
	}
	if la >= lp {
		t.Errorf("accent L = %v, want < primary L %v", la, lp)
	}
	if lb <= ls {
		t.Errorf("background L = %v, want > secondary L %v", lb, ls)
	}
}

func TestBackgroundReadable(t *testing.T) {
	for _, s := range []string{"#FF0000", "#3B82F6", "#111111", "#FDE047"} {
		p, _ := FromHex(s)
		bg := MustParseHex(p.Background)
		fg := MustParseHex(Foreground(bg))
		if got := Contrast(bg, fg); got < 4.5 {
			t.Errorf("%s: Contrast(background, foreground) = %.2f, want >= 4.5", s, got)
		}
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#FF0000", "#FF0000", false},
		{"#f00", "#FF0000", false},
		{" #3b82f6 ", "#3B82F6", false},
		{"red", "", true},
		{"#12345", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidColor) {
					t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidColor)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestContrast(t *testing.T) {
	black := colorful.Color{}
	white := colorful.Color{R: 1, G: 1, B: 1}
	if got := Contrast(black, white); got < 20.9 || got > 21.1 {
		t.Errorf("Contrast(black, white) = %v, want 21", got)
	}
	if got := Contrast(white, white); got != 1 {
		t.Errorf("Contrast(white, white) = %v, want 1", got)
	}
}

func TestForeground(t *testing.T) {
	tests := []struct {
		bg   string
		want string
	}{
		{"#FFFFFF", Dark},
		{"#000000", Light},
		{"#1E40AF", Light},
		{"#FDE047", Dark},
	}
	for _, tt := range tests {
		if got := ForegroundHex(tt.bg); got != tt.want {
			t.Errorf("ForegroundHex(%s) = %s, want %s", tt.bg, got, tt.want)
		}
	}
}

func TestWithPrimary(t *testing.T) {
	p, _ := FromHex("#3B82F6")
	q, err := p.WithPrimary("#10b981")
	if err != nil {
		t.Fatal(err)
	}
	if q.Primary != "#10B981" {
		t.Errorf("Primary = %s, want #10B981", q.Primary)
	}
	if q.Secondary != p.Secondary || q.Background != p.Background {
		t.Errorf("WithPrimary changed other entries: %+v -> %+v", p, q)
	}
	if _, err := p.WithPrimary("nope"); err == nil {
		t.Error("WithPrimary(nope) = nil error, want error")
	}
}

func TestGenerateLightSeedKeepsRolesApart(t *testing.T) {
	for _, s := range []string{"#FDE047", "#FFFFFF", "#E0F2FE"} {
		p, _ := FromHex(s)
		if got := ContrastHex(p.Accent, p.Secondary); got < 1.5 {
			t.Errorf("%s: ContrastHex(accent %s, secondary %s) = %.2f, want >= 1.5", s, p.Accent, p.Secondary, got)
		}
	}
}

func TestReadable(t *testing.T) {
	tests := []struct {
		fg, bg string
		want   string
	}{
		{"#111827", "#FFFFFF", "#111827"},
		{"#BAA400", "#BAA400", ForegroundHex("#BAA400")},
		{"#FFFFFF", "#F7F7F7", Dark},
		{"#F7F7F7", "#000000", "#F7F7F7"},
	}
	for _, tt := range tests {
		if got := Readable(tt.fg, tt.bg, MinTextContrast); got != tt.want {
			t.Errorf("Readable(%s, %s) = %s, want %s", tt.fg, tt.bg, got, tt.want)
		}
	}
}
