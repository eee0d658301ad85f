// Package metrics reports how well a forest/MRF pipeline reproduces a
// set of label images, using gonum's stat package for the aggregate
// numbers.
package metrics

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/stat"

	"github.com/wlattner/segforest/imgio"
	"github.com/wlattner/segforest/sample"
)

// Counts returns the number of labeled (non-zero truth) pixels inside
// [x0,x1)x[y0,y1) and how many of those pred agrees with truth on.
func Counts(pred, truth *imgio.GrayImage, palette sample.PaletteColors, x0, y0, x1, y1 int) (labeled, correct int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			t := truth.At(x, y)
			if t != palette.Background && t != palette.Foreground {
				continue
			}
			labeled++
			if pred.At(x, y) == t {
				correct++
			}
		}
	}
	return labeled, correct
}

// Accuracy returns the fraction of pixels inside [x0,x1)x[y0,y1) where
// pred agrees with truth, skipping pixels whose truth label is 0
// (unlabeled).
func Accuracy(pred, truth *imgio.GrayImage, palette sample.PaletteColors, x0, y0, x1, y1 int) float64 {
	total, correct := Counts(pred, truth, palette, x0, y0, x1, y1)
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// Summary aggregates per-image accuracy across an evaluation run.
type Summary struct {
	PerImage []float64
	Mean     float64
	Stddev   float64
}

// Summarize computes the mean and (sample, n-1) standard deviation of a
// set of per-image accuracies.
func Summarize(accuracies []float64) Summary {
	if len(accuracies) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(accuracies, nil)
	return Summary{PerImage: accuracies, Mean: mean, Stddev: std}
}

// AppendResultsFile appends one "labeled_pixels correctly_labeled_pixels"
// line to path, creating it if necessary. This mirrors the plain-text
// results log the original tool wrote after every inference run.
func AppendResultsFile(path string, labeledPixels, correctlyLabeledPixels int) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("metrics: open %s: %w", path, err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%d %d\n", labeledPixels, correctlyLabeledPixels)
	if err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
