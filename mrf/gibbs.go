package mrf

import (
	"math"
	"math/rand"

	"github.com/wlattner/segforest/forest"
	"github.com/wlattner/segforest/imgio"
	"github.com/wlattner/segforest/internal/log"
	"github.com/wlattner/segforest/sample"
)

const (
	gibbsSweeps  = 2000
	gibbsBurnIn  = 10
	gibbsSamples = gibbsSweeps + gibbsBurnIn

	// progressEvery is how often Gibbs logs a sweep count, matching the
	// original's "Sampling-Schritt X von N" progress line.
	progressEvery = 100
)

// Gibbs computes an approximate MAP labeling of field via single-site
// Gibbs sampling: gibbsSamples full sweeps over the inside region in a
// fixed visiting order (corners first, then the remaining border
// pixels, then the interior), discarding the first gibbsBurnIn sweeps
// as burn-in and accumulating a per-pixel foreground count over the
// rest.
func Gibbs(field *forest.Field, palette sample.PaletteColors, r int, params Params, rng *rand.Rand) *imgio.GrayImage {
	x0, y0, x1, y1 := insideBounds(field, r)
	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		return labelImage(field.Width, field.Height, func(x, y int) bool { return false }, palette)
	}

	p := make([]float64, w*h)
	state := make([]bool, w*h)
	idx := func(x, y int) int { return (y-y0)*w + (x - x0) }

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			prob := clampProb(field.At(x, y))
			i := idx(x, y)
			p[i] = prob
			state[i] = prob > 0.5
		}
	}

	order := visitOrder(x0, y0, x1, y1)
	onesCount := make([]int, w*h)

	logger := log.Component("mrf.Gibbs")

	for sweep := 0; sweep < gibbsSamples; sweep++ {
		if sweep%progressEvery == 0 {
			logger.Info().Int("sweep", sweep).Int("total", gibbsSamples).Msg("sampling step")
		}
		for _, pt := range order {
			x, y := pt[0], pt[1]
			i := idx(x, y)

			var sameFg, sameBg int
			for _, nb := range neg4Neighbors(x, y, x0, y0, x1, y1) {
				if state[idx(nb[0], nb[1])] {
					sameFg++
				} else {
					sameBg++
				}
			}

			scoreFg := p[i] * math.Pow(params.PairwiseFactor, float64(sameFg))
			scoreBg := (1 - p[i]) * math.Pow(params.PairwiseFactor, float64(sameBg))

			probFg := scoreFg / (scoreFg + scoreBg)
			state[i] = rng.Float64() < probFg
		}

		if sweep >= gibbsBurnIn {
			for i, s := range state {
				if s {
					onesCount[i]++
				}
			}
		}
	}

	accumulated := gibbsSamples - gibbsBurnIn
	return labelImage(field.Width, field.Height, func(x, y int) bool {
		if x < x0 || x >= x1 || y < y0 || y >= y1 {
			return false
		}
		// a pixel counted as foreground in a strict majority of sampled
		// sweeps is written out as foreground.
		return onesCount[idx(x, y)] > accumulated/2
	}, palette)
}

// visitOrder lists every pixel of the [x0,x1)x[y0,y1) region exactly
// once, ordered corners first, then the rest of the left and right
// columns, then the rest of the top and bottom rows, then the interior.
func visitOrder(x0, y0, x1, y1 int) [][2]int {
	w, h := x1-x0, y1-y0
	order := make([][2]int, 0, w*h)
	visited := make(map[[2]int]bool, w*h)

	add := func(x, y int) {
		pt := [2]int{x, y}
		if visited[pt] {
			return
		}
		visited[pt] = true
		order = append(order, pt)
	}

	add(x0, y0)
	add(x1-1, y0)
	add(x0, y1-1)
	add(x1-1, y1-1)

	for y := y0; y < y1; y++ {
		add(x0, y)
	}
	for y := y0; y < y1; y++ {
		add(x1-1, y)
	}
	for x := x0; x < x1; x++ {
		add(x, y0)
	}
	for x := x0; x < x1; x++ {
		add(x, y1-1)
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			add(x, y)
		}
	}

	return order
}
