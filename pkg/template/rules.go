package template

import "github.com/matzehuels/adforge/pkg/creative"

// frac is a box in canvas fractions: center (cx, cy) and size (w, h).
type frac struct{ cx, cy, w, h float64 }

type rule struct {
	logo, headline, packshot, cta frac
	// slots are decoration anchor centers in canvas fractions.
	slots [][2]float64
}

var rules = map[creative.Template]map[creative.Ratio]rule{
	creative.TemplateCleanMinimal: {
		creative.RatioSquare: {
			logo:     frac{.14, .08, .2, .08},
			headline: frac{.5, .2, .84, .14},
			packshot: frac{.5, .55, .56, .5},
			cta:      frac{.5, .89, .36, .08},
			slots:    [][2]float64{{.1, .9}, {.9, .9}, {.9, .12}, {.1, .45}, {.9, .45}},
		},
		creative.RatioPortrait: {
			logo:     frac{.16, .05, .24, .05},
			headline: frac{.5, .17, .86, .12},
			packshot: frac{.5, .5, .8, .45},
			cta:      frac{.5, .85, .5, .06},
			slots:    [][2]float64{{.12, .94}, {.88, .94}, {.88, .05}, {.12, .75}, {.88, .75}},
		},
		creative.RatioLandscape: {
			logo:     frac{.09, .1, .14, .12},
			headline: frac{.3, .42, .46, .3},
			packshot: frac{.74, .52, .44, .8},
			cta:      frac{.3, .75, .26, .14},
			slots:    [][2]float64{{.06, .88}, {.4, .1}, {.46, .92}, {.03, .6}, {.96, .9}},
		},
	},
	creative.TemplateBoldDynamic: {
		creative.RatioSquare: {
			logo:     frac{.85, .08, .2, .08},
			headline: frac{.38, .22, .68, .24},
			packshot: frac{.66, .6, .56, .56},
			cta:      frac{.2, .86, .32, .09},
			slots:    [][2]float64{{.1, .08}, {.12, .55}, {.92, .2}, {.12, .72}, {.92, .94}},
		},
		creative.RatioPortrait: {
			logo:     frac{.82, .05, .26, .05},
			headline: frac{.45, .18, .8, .16},
			packshot: frac{.58, .53, .8, .42},
			cta:      frac{.32, .86, .5, .06},
			slots:    [][2]float64{{.12, .05}, {.12, .4}, {.88, .94}, {.85, .8}, {.12, .7}},
		},
		creative.RatioLandscape: {
			logo:     frac{.91, .1, .14, .12},
			headline: frac{.28, .3, .48, .32},
			packshot: frac{.72, .58, .42, .76},
			cta:      frac{.22, .76, .3, .15},
			slots:    [][2]float64{{.5, .12}, {.06, .9}, {.46, .9}, {.97, .92}, {.04, .1}},
		},
	},
	creative.TemplatePremiumSoft: {
		creative.RatioSquare: {
			logo:     frac{.5, .08, .2, .08},
			packshot: frac{.5, .44, .5, .46},
			headline: frac{.5, .77, .8, .1},
			cta:      frac{.5, .9, .32, .07},
			slots:    [][2]float64{{.12, .12}, {.88, .12}, {.12, .92}, {.88, .92}, {.1, .45}},
		},
		creative.RatioPortrait: {
			logo:     frac{.5, .05, .3, .05},
			packshot: frac{.5, .36, .72, .38},
			headline: frac{.5, .66, .84, .1},
			cta:      frac{.5, .8, .5, .055},
			slots:    [][2]float64{{.12, .06}, {.88, .06}, {.12, .92}, {.88, .92}, {.5, .95}},
		},
		creative.RatioLandscape: {
			logo:     frac{.1, .12, .14, .12},
			packshot: frac{.3, .54, .36, .72},
			headline: frac{.7, .42, .48, .24},
			cta:      frac{.7, .7, .26, .13},
			slots:    [][2]float64{{.94, .12}, {.94, .88}, {.5, .9}, {.06, .9}, {.5, .1}},
		},
	},
}

// Headline font size as a fraction of canvas width, per ratio.
var headlineScale = map[creative.Ratio]float64{
	creative.RatioSquare:    .06,
	creative.RatioPortrait:  .07,
	creative.RatioLandscape: .042,
}

// Per-family multiplier on the headline font size.
var fontWeight = map[creative.Template]float64{
	creative.TemplateCleanMinimal: 1,
	creative.TemplateBoldDynamic:  1.25,
	creative.TemplatePremiumSoft:  .9,
}

const (
	ctaFontRatio    = .55 // CTA font relative to headline font
	decorationScale = .14 // decoration size relative to min(W, H)
	lineThickness   = .06 // line decoration height relative to its width
	minLineHeight   = 4
	boldRotation    = 12 // degrees
	premiumOpacity  = .85
	minPillContrast = 1.5 // CTA pill against the background
)
