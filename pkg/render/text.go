package render

import (
	"math"
	"strings"

	"github.com/fogleman/gg"

	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/errors"
	"github.com/matzehuels/adforge/pkg/fonts"
	"github.com/matzehuels/adforge/pkg/palette"
)

const (
	lineSpacing = 1.2
	ellipsis    = "…"
	minCTAWidth = 0.6 // share of the pill width always available to CTA text
)

// measurer is the subset of *gg.Context used for text layout.
type measurer interface {
	MeasureString(s string) (w, h float64)
	WordWrap(s string, width float64) []string
}

func drawHeadline(dc *gg.Context, tb creative.TextBox, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	size := math.Min(tb.FontSize, sizeCap(dc))
	face, err := fonts.Face(fonts.Bold, size)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "load font")
	}
	dc.SetFontFace(face)
	dc.SetColor(mustColor(tb.Color, 1))

	lines := fitLines(dc, text, tb.Width, tb.Height, size)
	lh := size * lineSpacing
	top := tb.Y - float64(len(lines))*lh/2
	for i, line := range lines {
		dc.DrawStringAnchored(line, tb.X, top+lh*(float64(i)+0.5), 0.5, 0.5)
	}
	return nil
}

func drawCTA(dc *gg.Context, tb creative.TextBox, text string) error {
	dc.SetColor(mustColor(tb.Color, 1))
	dc.DrawRoundedRectangle(tb.Left(), tb.Top(), tb.Width, tb.Height, math.Min(tb.Width, tb.Height)/2)
	dc.Fill()

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	face, err := fonts.Face(fonts.Bold, math.Min(tb.FontSize, sizeCap(dc)))
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "load font")
	}
	dc.SetFontFace(face)
	dc.SetColor(mustColor(palette.ForegroundHex(tb.Color), 1))

	avail := math.Max(tb.Width-tb.Height, tb.Width*minCTAWidth)
	dc.DrawStringAnchored(ellipsize(dc, text, avail, false), tb.X, tb.Y, 0.5, 0.5)
	return nil
}

// fitLines wraps text to width and keeps as many lines as fit in height
// (at least one). Overflowing text ends in an ellipsis.
func fitLines(m measurer, text string, width, height, size float64) []string {
	lines := m.WordWrap(text, width)
	if len(lines) == 0 {
		return nil
	}
	maxLines := max(1, int(math.Floor(height/(size*lineSpacing))))
	truncated := len(lines) > maxLines
	if truncated {
		lines = lines[:maxLines]
	}
	for i, l := range lines {
		force := truncated && i == len(lines)-1
		lines[i] = ellipsize(m, l, width, force)
	}
	return lines
}

// ellipsize shortens s with a trailing ellipsis until it fits width. When
// force is set the ellipsis is added even if s already fits.
func ellipsize(m measurer, s string, width float64, force bool) string {
	if !force {
		if w, _ := m.MeasureString(s); w <= width {
			return s
		}
	}
	runes := []rune(s)
	for n := len(runes); n > 0; n-- {
		candidate := strings.TrimRight(string(runes[:n]), " ") + ellipsis
		if w, _ := m.MeasureString(candidate); w <= width {
			return candidate
		}
	}
	return ellipsis
}
