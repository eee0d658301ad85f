// Package sample builds the class-balanced pool of labeled pixel
// locations a tree is trained from: the SampleSet construction described
// in spec.md section 4.1 (palette discovery, inside-region masking,
// hard-negative mining via dilation, and bounded background sampling).
package sample

import (
	"math/rand"

	"github.com/wlattner/segforest/imgio"
	"github.com/wlattner/segforest/internal/segerr"
)

// dilateSide is the square structuring element side used for
// hard-negative mining.
const dilateSide = 15

// PaletteColors is the pair of distinct label values discovered in a
// label source image, ordered so Foreground > Background > 0.
type PaletteColors struct {
	Background uint8
	Foreground uint8
}

// Mask mirrors a training image's shape; values are 0 (ignored), 1
// (background sample) or 2 (foreground sample).
type Mask struct {
	Width, Height int
	V             []uint8
}

func newMask(w, h int) *Mask {
	return &Mask{Width: w, Height: h, V: make([]uint8, w*h)}
}

func (m *Mask) at(x, y int) uint8     { return m.V[y*m.Width+x] }
func (m *Mask) set(x, y int, v uint8) { m.V[y*m.Width+x] = v }

// ImageLabelPair is one training image together with its label source.
type ImageLabelPair struct {
	Image *imgio.GrayImage
	Label *imgio.GrayImage
}

// Array is a flat sequence of N (imageIndex, x, y) triples. It is
// permuted in place by package tree's partition step during training.
type Array []uint32

// Len returns the number of triples.
func (a Array) Len() int { return len(a) / 3 }

// At returns the imageIndex, x, y for triple i.
func (a Array) At(i int) (imageIndex, x, y int) {
	j := i * 3
	return int(a[j]), int(a[j+1]), int(a[j+2])
}

// Swap exchanges triples i and j.
func (a Array) Swap(i, j int) {
	ti, tj := i*3, j*3
	a[ti], a[tj] = a[tj], a[ti]
	a[ti+1], a[tj+1] = a[tj+1], a[ti+1]
	a[ti+2], a[tj+2] = a[tj+2], a[ti+2]
}

// Set is the complete training pool for one tree: the training images,
// their per-pixel masks, and the flat sample array built from them.
type Set struct {
	Images  []*imgio.GrayImage
	Masks   []*Mask
	Samples Array
}

// ClassOf reports whether the sample at triple i is a foreground
// example (mask value 2) or not (mask value 1).
func (s *Set) ClassOf(i int) (isForeground bool) {
	imgIdx, x, y := s.Samples.At(i)
	return s.Masks[imgIdx].at(x, y) == 2
}

// Build constructs a Set from the given training/label pairs using
// inside-region radius r. rng drives the background-pixel draws in the
// hard-negative-mining branch; pass a per-worker source so concurrent
// tree training does not contend on a single PRNG.
func Build(pairs []ImageLabelPair, r int, rng *rand.Rand) (*Set, error) {
	set := &Set{
		Images: make([]*imgio.GrayImage, len(pairs)),
		Masks:  make([]*Mask, len(pairs)),
	}

	var samples Array

	for i, p := range pairs {
		if !p.Image.SameSize(p.Label) {
			return nil, segerr.NewInput("sample.Build", errDimensionMismatch{i})
		}
		set.Images[i] = p.Image

		mask, palette, err := buildMask(p.Image, p.Label, r, rng)
		if err != nil {
			return nil, err
		}
		set.Masks[i] = mask

		for y := r; y < p.Image.Height-r; y++ {
			for x := r; x < p.Image.Width-r; x++ {
				if v := mask.at(x, y); v > 0 {
					samples = append(samples, uint32(i), uint32(x), uint32(y))
				}
			}
		}
		_ = palette // per-image palette already folded into mask values
	}

	set.Samples = samples
	return set, nil
}

type errDimensionMismatch struct{ pairIndex int }

func (e errDimensionMismatch) Error() string {
	return "training image and label image differ in size"
}

// buildMask implements spec.md section 4.1 steps 2-5 for a single
// training/label pair.
func buildMask(img, label *imgio.GrayImage, r int, rng *rand.Rand) (*Mask, PaletteColors, error) {
	w, h := img.Width, img.Height
	mask := newMask(w, h)

	palette, err := discoverPalette(label, r)
	if err != nil {
		return nil, PaletteColors{}, err
	}

	var nFg, nBg int
	for y := r; y < h-r; y++ {
		for x := r; x < w-r; x++ {
			switch label.At(x, y) {
			case palette.Foreground:
				mask.set(x, y, 2)
				nFg++
			case palette.Background:
				nBg++
			}
		}
	}

	if nBg > nFg {
		mineHardNegatives(mask, label, palette, r, nFg)
		drawBackground(mask, label, palette, r, rng)
	} else {
		for y := r; y < h-r; y++ {
			for x := r; x < w-r; x++ {
				if label.At(x, y) == palette.Background {
					mask.set(x, y, 1)
				}
			}
		}
	}

	return mask, palette, nil
}

// DiscoverPalette scans the inside region of a label source image for
// its background/foreground color pair, without building a Set. Forest
// training uses it once up front so every tree's independently
// resampled Set agrees on which label value means what.
func DiscoverPalette(label *imgio.GrayImage, r int) (PaletteColors, error) {
	return discoverPalette(label, r)
}

// discoverPalette scans the inside region for the first two distinct
// nonzero values, ordered so Foreground > Background. A third distinct
// nonzero value is a FormatError.
func discoverPalette(label *imgio.GrayImage, r int) (PaletteColors, error) {
	var a, b uint8
	for y := r; y < label.Height-r; y++ {
		for x := r; x < label.Width-r; x++ {
			c := label.At(x, y)
			if c == 0 {
				continue
			}
			switch {
			case a == 0:
				a = c
			case c == a:
				// already known
			case b == 0:
				b = c
			case c != b:
				return PaletteColors{}, segerr.NewFormat("sample.discoverPalette", segerr.ErrTooManyLabels)
			}
		}
	}

	if a > b {
		return PaletteColors{Background: b, Foreground: a}, nil
	}
	return PaletteColors{Background: a, Foreground: b}, nil
}

// mineHardNegatives marks as 1 the foreground-adjacent pixels whose
// label is not the foreground color (background or unlabeled) and whose
// dilated mask value is 2, stopping once nFg
// reclassifications have happened, per spec.md section 4.1 step 4.
func mineHardNegatives(mask *Mask, label *imgio.GrayImage, palette PaletteColors, r int, nFg int) {
	dilated := dilate(mask, dilateSide)

	remaining := nFg
	for y := r; y < mask.Height-r && remaining > 0; y++ {
		for x := r; x < mask.Width-r && remaining > 0; x++ {
			if dilated.at(x, y) == 2 && label.At(x, y) != palette.Foreground {
				mask.set(x, y, 1)
				remaining--
			}
		}
	}
}

// dilate returns a copy of m with every 2-valued pixel spread to a
// side x side neighborhood, via a separable two-pass max filter.
func dilate(m *Mask, side int) *Mask {
	k := side / 2
	tmp := newMask(m.Width, m.Height)

	// horizontal pass
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			var v uint8
			lo, hi := x-k, x+k
			if lo < 0 {
				lo = 0
			}
			if hi >= m.Width {
				hi = m.Width - 1
			}
			for xx := lo; xx <= hi; xx++ {
				if m.at(xx, y) == 2 {
					v = 2
					break
				}
			}
			tmp.set(x, y, v)
		}
	}

	out := newMask(m.Width, m.Height)
	// vertical pass
	for x := 0; x < m.Width; x++ {
		for y := 0; y < m.Height; y++ {
			var v uint8
			lo, hi := y-k, y+k
			if lo < 0 {
				lo = 0
			}
			if hi >= m.Height {
				hi = m.Height - 1
			}
			for yy := lo; yy <= hi; yy++ {
				if tmp.at(x, yy) == 2 {
					v = 2
					break
				}
			}
			out.set(x, y, v)
		}
	}

	return out
}

// drawBackground randomly draws background pixels from the inside
// region until the number of marked background pixels (those already
// marked by mining included) equals the number of foreground pixels, per spec.md
// section 4.1 step 4. The draw loop is bounded: once the available,
// unmarked background pool looks exhausted, it falls back to marking
// every remaining background pixel (the step-5 behavior), per the
// Design Notes' termination requirement.
func drawBackground(mask *Mask, label *imgio.GrayImage, palette PaletteColors, r int, rng *rand.Rand) {
	var nFg, nMarkedBg int
	for y := r; y < mask.Height-r; y++ {
		for x := r; x < mask.Width-r; x++ {
			switch mask.at(x, y) {
			case 2:
				nFg++
			case 1:
				nMarkedBg++
			}
		}
	}

	need := nFg - nMarkedBg
	if need <= 0 {
		return
	}

	w := mask.Width - 2*r
	h := mask.Height - 2*r
	if w <= 0 || h <= 0 {
		return
	}

	const maxAttemptsPerDraw = 10000
	for ; need > 0; need-- {
		drawn := false
		for attempt := 0; attempt < maxAttemptsPerDraw; attempt++ {
			x := rng.Intn(w) + r
			y := rng.Intn(h) + r
			if mask.at(x, y) == 0 && label.At(x, y) == palette.Background {
				mask.set(x, y, 1)
				drawn = true
				break
			}
		}
		if !drawn {
			// background pool exhausted: fall back to marking every
			// remaining unmarked background pixel in the inside region.
			for y := r; y < mask.Height-r; y++ {
				for x := r; x < mask.Width-r; x++ {
					if mask.at(x, y) == 0 && label.At(x, y) == palette.Background {
						mask.set(x, y, 1)
					}
				}
			}
			return
		}
	}
}
