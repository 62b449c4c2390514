package template_test

import (
	"fmt"

	"github.com/matzehuels/adforge/pkg/creative"
	"github.com/matzehuels/adforge/pkg/palette"
	"github.com/matzehuels/adforge/pkg/template"
)

func ExampleGenerate() {
	p, _ := palette.FromHex("#FF0000")
	l, err := template.Generate(creative.RatioSquare, creative.TemplateCleanMinimal, p, "Fresh Drop", nil)
	if err != nil {
		panic(err)
	}
	fmt.Println(l.Width, l.Height, len(l.Decorations))
	fmt.Println(l.Packshot.X, l.Packshot.Y)
	// Output:
	// 1080 1080 0
	// 540 594
}
