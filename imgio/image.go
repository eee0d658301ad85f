// Package imgio is the image I/O facade consumed by the segmentation
// core. It decodes common raster formats to a single-channel GrayImage;
// only the first channel of multi-channel input is kept.
package imgio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
)

// GrayImage is a row-major array of 8-bit samples.
type GrayImage struct {
	Width, Height int
	Pix           []uint8
}

// NewGrayImage allocates a zeroed image of the given size.
func NewGrayImage(w, h int) *GrayImage {
	return &GrayImage{Width: w, Height: h, Pix: make([]uint8, w*h)}
}

// At returns the sample at (x, y). Callers must stay in bounds; the core
// training/inference loops only ever touch the inside region, which is
// always in bounds by construction.
func (g *GrayImage) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Set stores a sample at (x, y).
func (g *GrayImage) Set(x, y int, v uint8) {
	g.Pix[y*g.Width+x] = v
}

// SameSize reports whether g and other share width and height.
func (g *GrayImage) SameSize(other *GrayImage) bool {
	return g.Width == other.Width && g.Height == other.Height
}

// Load decodes r into a GrayImage, reducing multi-channel input to its
// first channel.
func Load(r io.Reader) (*GrayImage, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imgio: decode: %w", err)
	}
	return fromImage(img), nil
}

// LoadFile opens and decodes path.
func LoadFile(path string) (*GrayImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imgio: open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("imgio: %s: %w", path, err)
	}
	return g, nil
}

func fromImage(img image.Image) *GrayImage {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	g := NewGrayImage(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// first channel only, reduced from 16-bit to 8-bit
			g.Pix[y*w+x] = uint8(r >> 8)
		}
	}

	return g
}

// Save encodes g as an 8-bit grayscale PNG to w.
func Save(w io.Writer, g *GrayImage) error {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	copy(img.Pix, g.Pix)
	return savePNG(w, img)
}

// SaveFile creates path and writes g to it as a PNG.
func SaveFile(path string, g *GrayImage) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imgio: create %s: %w", path, err)
	}
	defer f.Close()

	if err := Save(f, g); err != nil {
		return fmt.Errorf("imgio: %s: %w", path, err)
	}
	return nil
}
