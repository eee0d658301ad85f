package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wlattner/segforest/imgio"
	"github.com/wlattner/segforest/sample"
)

func TestAccuracyPerfectMatch(t *testing.T) {
	w, h := 10, 10
	pred := imgio.NewGrayImage(w, h)
	truth := imgio.NewGrayImage(w, h)
	palette := sample.PaletteColors{Background: 10, Foreground: 200}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := palette.Background
			if x > 5 {
				v = palette.Foreground
			}
			pred.Set(x, y, v)
			truth.Set(x, y, v)
		}
	}

	if got := Accuracy(pred, truth, palette, 0, 0, w, h); got != 1.0 {
		t.Fatalf("Accuracy = %v, want 1.0", got)
	}
}

func TestAccuracySkipsUnlabeledPixels(t *testing.T) {
	w, h := 4, 1
	pred := imgio.NewGrayImage(w, h)
	truth := imgio.NewGrayImage(w, h)
	palette := sample.PaletteColors{Background: 10, Foreground: 200}

	pred.Set(0, 0, palette.Background)
	truth.Set(0, 0, palette.Background)

	pred.Set(1, 0, palette.Foreground)
	truth.Set(1, 0, palette.Background) // wrong

	// pixels 2 and 3 stay at 0 in truth: unlabeled, excluded from the count

	got := Accuracy(pred, truth, palette, 0, 0, w, h)
	if got != 0.5 {
		t.Fatalf("Accuracy = %v, want 0.5", got)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Mean != 0 || s.Stddev != 0 {
		t.Fatalf("got %+v, want zero value", s)
	}
}

func TestSummarizeMean(t *testing.T) {
	s := Summarize([]float64{0.8, 0.9, 1.0})
	if s.Mean < 0.89 || s.Mean > 0.91 {
		t.Fatalf("Mean = %v, want ~0.9", s.Mean)
	}
}

func TestAppendResultsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ergebnisse.txt")

	if err := AppendResultsFile(path, 100, 90); err != nil {
		t.Fatalf("AppendResultsFile: %v", err)
	}
	if err := AppendResultsFile(path, 50, 40); err != nil {
		t.Fatalf("AppendResultsFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "100 90\n50 40\n"
	if string(data) != want {
		t.Fatalf("got %q, want %q", string(data), want)
	}
}
