package mrf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/wlattner/segforest/forest"
	"github.com/wlattner/segforest/sample"
)

func uniformField(w, h int, p float64) *forest.Field {
	f := &forest.Field{Width: w, Height: h, P: make([]float64, w*h)}
	for i := range f.P {
		f.P[i] = p
	}
	return f
}

func testPalette() sample.PaletteColors {
	return sample.PaletteColors{Background: 10, Foreground: 200}
}

func TestGraphCutAllForegroundWhenConfident(t *testing.T) {
	f := uniformField(12, 12, 0.99)
	params := Params{PairwiseEnergy: 1.0}

	out := GraphCut(f, testPalette(), 1, params)

	for y := 1; y < 11; y++ {
		for x := 1; x < 11; x++ {
			if out.At(x, y) != testPalette().Foreground {
				t.Fatalf("pixel (%d,%d) = %d, want foreground (high-confidence field)", x, y, out.At(x, y))
			}
		}
	}
}

func TestGraphCutAllBackgroundWhenConfident(t *testing.T) {
	f := uniformField(12, 12, 0.01)
	params := Params{PairwiseEnergy: 1.0}

	out := GraphCut(f, testPalette(), 1, params)

	for y := 1; y < 11; y++ {
		for x := 1; x < 11; x++ {
			if out.At(x, y) != testPalette().Background {
				t.Fatalf("pixel (%d,%d) = %d, want background (low-confidence field)", x, y, out.At(x, y))
			}
		}
	}
}

func TestGraphCutMonotonicInProbability(t *testing.T) {
	w, h, r := 10, 10, 1
	low := uniformField(w, h, 0.2)
	high := uniformField(w, h, 0.8)
	params := Params{PairwiseEnergy: 0.1}

	lowOut := GraphCut(low, testPalette(), r, params)
	highOut := GraphCut(high, testPalette(), r, params)

	var lowFg, highFg int
	for y := r; y < h-r; y++ {
		for x := r; x < w-r; x++ {
			if lowOut.At(x, y) == testPalette().Foreground {
				lowFg++
			}
			if highOut.At(x, y) == testPalette().Foreground {
				highFg++
			}
		}
	}

	if highFg < lowFg {
		t.Fatalf("higher-probability field produced fewer foreground pixels (%d) than the lower one (%d)", highFg, lowFg)
	}
}

func TestGraphCutBorderIsBackground(t *testing.T) {
	f := uniformField(12, 12, 0.99)
	out := GraphCut(f, testPalette(), 2, Params{PairwiseEnergy: 1.0})

	if out.At(0, 0) != testPalette().Background {
		t.Errorf("border pixel (0,0) = %d, want background", out.At(0, 0))
	}
}

func TestGibbsAllForegroundWhenConfident(t *testing.T) {
	f := uniformField(10, 10, 0.999)
	params := Params{PairwiseFactor: math.Exp(1.0)}
	rng := rand.New(rand.NewSource(42))

	out := Gibbs(f, testPalette(), 1, params, rng)

	for y := 1; y < 9; y++ {
		for x := 1; x < 9; x++ {
			if out.At(x, y) != testPalette().Foreground {
				t.Fatalf("pixel (%d,%d) = %d, want foreground", x, y, out.At(x, y))
			}
		}
	}
}

func TestVisitOrderCoversEveryPixelOnce(t *testing.T) {
	order := visitOrder(1, 1, 6, 6)
	want := 5 * 5
	if len(order) != want {
		t.Fatalf("got %d points, want %d", len(order), want)
	}

	seen := make(map[[2]int]bool)
	for _, pt := range order {
		if seen[pt] {
			t.Fatalf("point %v visited twice", pt)
		}
		seen[pt] = true
	}
}

func TestVisitOrderStartsAtCorners(t *testing.T) {
	order := visitOrder(0, 0, 4, 4)
	corners := map[[2]int]bool{
		{0, 0}: true, {3, 0}: true, {0, 3}: true, {3, 3}: true,
	}
	for i := 0; i < 4; i++ {
		if !corners[order[i]] {
			t.Fatalf("position %d in visit order is %v, want a corner", i, order[i])
		}
	}
}
