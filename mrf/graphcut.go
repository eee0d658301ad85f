package mrf

import (
	"math"

	"github.com/wlattner/segforest/forest"
	"github.com/wlattner/segforest/imgio"
	"github.com/wlattner/segforest/mrf/maxflow"
	"github.com/wlattner/segforest/sample"
)

// GraphCut computes the exact MAP labeling of field under a 4-connected
// Potts-smoothed MRF via min-cut/max-flow. Pixels outside the forest's
// window radius are assigned Palette.Background directly; they never
// had a probability estimate to begin with.
func GraphCut(field *forest.Field, palette sample.PaletteColors, r int, params Params) *imgio.GrayImage {
	x0, y0, x1, y1 := insideBounds(field, r)

	g := maxflow.New()
	nodeOf := make(map[[2]int]int, (x1-x0)*(y1-y0))

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			nodeOf[[2]int{x, y}] = g.AddNode()
		}
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := clampProb(field.At(x, y))
			n := nodeOf[[2]int{x, y}]

			// source side is the background label, matching the
			// convention used throughout this package: a pixel stays
			// attached to the source when cutting its source arc is
			// more expensive than cutting its sink arc, which happens
			// when p is small.
			toSource := -math.Log(p)
			toSink := -math.Log(1 - p)
			g.AddTermWeights(n, toSource, toSink)

			// 4-connected neighbor to the right and below only, so
			// each undirected pair is added exactly once.
			for _, d := range [][2]int{{1, 0}, {0, 1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < x0 || nx >= x1 || ny < y0 || ny >= y1 {
					continue
				}
				nb := nodeOf[[2]int{nx, ny}]
				g.AddEdge(n, nb, params.PairwiseEnergy, params.PairwiseEnergy)
			}
		}
	}

	g.Solve()

	return labelImage(field.Width, field.Height, func(x, y int) bool {
		if x < x0 || x >= x1 || y < y0 || y >= y1 {
			return false
		}
		return !g.IsOnSourceSide(nodeOf[[2]int{x, y}])
	}, palette)
}
