package pipeline

import (
	"math/rand/v2"

	"github.com/matzehuels/adforge/pkg/creative"
)

// TemplatePicker chooses the template family for a ratio. Layout generation
// itself is deterministic; the choice of family is the caller's policy.
type TemplatePicker interface {
	Pick(r creative.Ratio) creative.Template
}

// FixedTemplates picks from an explicit mapping. Ratios missing from
// Templates go to Fallback, or clean-minimal when Fallback is nil.
type FixedTemplates struct {
	Templates map[creative.Ratio]creative.Template
	Fallback  TemplatePicker
}

func (f FixedTemplates) Pick(r creative.Ratio) creative.Template {
	if t, ok := f.Templates[r]; ok {
		return t
	}
	if f.Fallback != nil {
		return f.Fallback.Pick(r)
	}
	return creative.TemplateCleanMinimal
}

// seededTemplates draws uniformly from all families with a PCG source.
type seededTemplates struct {
	rng *rand.Rand
}

// SeededTemplates returns a picker that draws a random family per call.
// The sequence of picks is fully determined by seed, so a run with the same
// seed and ratio order repeats exactly. Not safe for concurrent use.
func SeededTemplates(seed uint64) TemplatePicker {
	return &seededTemplates{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededTemplates) Pick(creative.Ratio) creative.Template {
	all := creative.Templates()
	return all[s.rng.IntN(len(all))]
}

var (
	_ TemplatePicker = FixedTemplates{}
	_ TemplatePicker = (*seededTemplates)(nil)
)
