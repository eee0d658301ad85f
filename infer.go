package segforest

import (
	"math"
	"math/rand"
	"time"

	"github.com/wlattner/segforest/forest"
	"github.com/wlattner/segforest/imgio"
	"github.com/wlattner/segforest/internal/log"
	"github.com/wlattner/segforest/internal/segerr"
	"github.com/wlattner/segforest/metrics"
	"github.com/wlattner/segforest/mrf"
)

const defaultResultsPath = "ergebnisse.txt"

// Infer loads cfg's forest and input image, runs forest inference
// followed by MRF smoothing, and writes the resulting label image to
// cfg.OutputPath. When cfg.GroundTruthPath is set, it also appends a
// (labeled_pixels, correctly_labeled_pixels) tuple to cfg.ResultsPath.
func Infer(cfg InferConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.Component("segforest.Infer")

	f, err := readForestFile(cfg.ForestPath)
	if err != nil {
		return err
	}

	img, err := imgio.LoadFile(cfg.ImagePath)
	if err != nil {
		return segerr.NewInput("segforest.Infer", err)
	}

	field := f.Infer(img)

	if cfg.IntermediatePath != "" {
		if err := saveProbabilityField(cfg.IntermediatePath, field); err != nil {
			return err
		}
	}

	params := mrf.Params{
		PairwiseEnergy: cfg.PairwiseEnergy,
		// factor applied to the unary score per same-state neighbor;
		// see DESIGN.md for why this uses the positive exponent.
		PairwiseFactor: math.Exp(cfg.PairwiseEnergy),
	}

	var labels *imgio.GrayImage
	switch cfg.Method {
	case MethodGibbs:
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		labels = mrf.Gibbs(field, f.Palette, f.Params.WindowRadius, params, rng)
	default:
		labels = mrf.GraphCut(field, f.Palette, f.Params.WindowRadius, params)
	}

	if err := imgio.SaveFile(cfg.OutputPath, labels); err != nil {
		return err
	}
	logger.Info().Str("path", cfg.OutputPath).Str("method", string(cfg.Method)).Msg("label image written")

	if cfg.GroundTruthPath != "" {
		if err := reportAccuracy(cfg, labels, f); err != nil {
			return err
		}
	}

	return nil
}

// saveProbabilityField writes field out as an 8-bit grayscale PNG,
// scaling [0, 1] foreground probability to [0, 255], for visual
// inspection of the forest's raw unary output before MRF smoothing.
func saveProbabilityField(path string, field *forest.Field) error {
	img := imgio.NewGrayImage(field.Width, field.Height)
	for i, p := range field.P {
		img.Pix[i] = uint8(p * 255)
	}
	return imgio.SaveFile(path, img)
}

// reportAccuracy compares labels against the ground-truth label image
// named by cfg.GroundTruthPath and appends a tuple to cfg.ResultsPath.
func reportAccuracy(cfg InferConfig, labels *imgio.GrayImage, f *forest.Forest) error {
	truth, err := imgio.LoadFile(cfg.GroundTruthPath)
	if err != nil {
		return segerr.NewInput("segforest.reportAccuracy", err)
	}
	if !labels.SameSize(truth) {
		return segerr.NewInput("segforest.reportAccuracy", errGroundTruthSizeMismatch{})
	}

	r := f.Params.WindowRadius
	total, correct := metrics.Counts(labels, truth, f.Palette, r, r, labels.Width-r, labels.Height-r)

	resultsPath := cfg.ResultsPath
	if resultsPath == "" {
		resultsPath = defaultResultsPath
	}
	return metrics.AppendResultsFile(resultsPath, total, correct)
}

type errGroundTruthSizeMismatch struct{}

func (errGroundTruthSizeMismatch) Error() string {
	return "ground truth label image differs in size from the inferred label image"
}
