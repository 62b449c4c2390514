package render_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/palette"
	"github.com/matzehuels/adforge/pkg/render"
	"github.com/matzehuels/adforge/pkg/template"
)

func pngOf(w, h int) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h)))
	return buf.Bytes()
}

func ExampleImage() {
	p, _ := palette.FromHex("#3B82F6")
	l := template.MustGenerate(creative.RatioPortrait, creative.TemplateBoldDynamic, p, "Fresh Drop", nil)

	img, err := render.Image(context.Background(), l, render.Inputs{
		Packshot: pngOf(400, 400),
		Logo:     pngOf(120, 40),
		Headline: "Fresh Drop",
		CTA:      "Shop Now",
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(img.Bounds().Dx(), img.Bounds().Dy())
	// Output: 1080 1920
}
