// Package forest trains and runs an ensemble of pixel-classification
// trees: the randomized decision forest described in spec.md section 5.
package forest

import (
	"github.com/wlattner/segforest/imgio"
	"github.com/wlattner/segforest/sample"
	"github.com/wlattner/segforest/tree"
)

// Params records the hyperparameters a Forest was trained with. Field
// names mirror the header keys used by the forest file format, so
// MarshalJSON can emit them with no extra bookkeeping.
type Params struct {
	TestType        string
	MaxTreeDepth    int
	TestObjectTries int
	ForestSize      int
	WindowRadius    int
}

func (p Params) treeParams() tree.Params {
	return tree.Params{
		WindowRadius:    p.WindowRadius,
		MaxTreeDepth:    p.MaxTreeDepth,
		TestObjectTries: p.TestObjectTries,
	}
}

// Forest is a trained ensemble: the shared hyperparameters, the
// foreground/background color pair discovered from training labels,
// and the trees themselves.
type Forest struct {
	Params  Params
	Palette sample.PaletteColors
	Trees   []*tree.Tree

	// TrainingRunID identifies the Fit call that produced this forest.
	// It has no equivalent in the original file format; readers that
	// don't care about provenance can ignore it.
	TrainingRunID string
}

// Field is a per-pixel foreground-probability map, the forest's raw
// prediction before Markov random field smoothing.
type Field struct {
	Width, Height int
	P             []float64
}

func newField(w, h int) *Field {
	return &Field{Width: w, Height: h, P: make([]float64, w*h)}
}

// At returns the foreground probability at (x, y).
func (f *Field) At(x, y int) float64 { return f.P[y*f.Width+x] }

// Infer evaluates every tree against img and returns the mean
// foreground probability per pixel, leaving the border outside the
// window radius at zero (background).
func (f *Forest) Infer(img *imgio.GrayImage) *Field {
	r := f.Params.WindowRadius
	out := newField(img.Width, img.Height)

	if len(f.Trees) == 0 {
		return out
	}

	n := float64(len(f.Trees))
	for y := r; y < img.Height-r; y++ {
		for x := r; x < img.Width-r; x++ {
			var sum float64
			for _, t := range f.Trees {
				sum += t.Predict(img, x, y)
			}
			out.P[y*img.Width+x] = sum / n
		}
	}
	return out
}
