// Package mrf smooths a forest.Field of per-pixel foreground
// probabilities into a final binary label image by treating the pixel
// grid as a 4-connected Markov random field with a Potts pairwise
// potential, per spec.md section 7. Two inference strategies are
// offered: exact MAP via min-cut/max-flow, and approximate MAP via
// single-site Gibbs sampling.
package mrf

import (
	"github.com/wlattner/segforest/forest"
	"github.com/wlattner/segforest/imgio"
	"github.com/wlattner/segforest/sample"
)

// Params controls the strength of the pairwise smoothing term.
type Params struct {
	// PairwiseEnergy is the Potts-model cost, in nats, charged to the
	// graph cut for every 4-connected neighbor pair assigned different
	// labels.
	PairwiseEnergy float64

	// PairwiseFactor is the multiplicative bonus the Gibbs sampler
	// gives a label for each neighbor already holding that label; a
	// value of math.Exp(PairwiseEnergy) makes the two solvers agree on
	// what "smooth" means.
	PairwiseFactor float64
}

// clampProb keeps a probability away from the 0/1 boundary, where its
// log is undefined or unbounded.
func clampProb(p float64) float64 {
	const eps = 1e-4
	switch {
	case p < eps:
		return eps
	case p > 1-eps:
		return 1 - eps
	default:
		return p
	}
}

// insideBounds returns the half-open region [x0,x1)x[y0,y1) of pixels
// the forest actually produced a probability for.
func insideBounds(f *forest.Field, r int) (x0, y0, x1, y1 int) {
	return r, r, f.Width - r, f.Height - r
}

func neg4Neighbors(x, y, x0, y0, x1, y1 int) [][2]int {
	candidates := [][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
	out := candidates[:0]
	for _, c := range candidates {
		if c[0] >= x0 && c[0] < x1 && c[1] >= y0 && c[1] < y1 {
			out = append(out, c)
		}
	}
	return out
}

func labelImage(w, h int, fg func(x, y int) bool, palette sample.PaletteColors) *imgio.GrayImage {
	out := imgio.NewGrayImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if fg(x, y) {
				out.Set(x, y, palette.Foreground)
			} else {
				out.Set(x, y, palette.Background)
			}
		}
	}
	return out
}
