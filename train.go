package segforest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wlattner/segforest/forest"
	"github.com/wlattner/segforest/imgio"
	"github.com/wlattner/segforest/internal/log"
	"github.com/wlattner/segforest/internal/segerr"
	"github.com/wlattner/segforest/sample"
)

// Train loads cfg's training image/label pairs, fits a forest.Forest,
// and writes it to cfg.ForestPath as JSON.
func Train(cfg TrainConfig) (*forest.Forest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.Component("segforest.Train")

	pairs := make([]sample.ImageLabelPair, len(cfg.ImagePaths))
	for i := range cfg.ImagePaths {
		img, err := imgio.LoadFile(cfg.ImagePaths[i])
		if err != nil {
			return nil, segerr.NewInput("segforest.Train", err)
		}
		label, err := imgio.LoadFile(cfg.LabelPaths[i])
		if err != nil {
			return nil, segerr.NewInput("segforest.Train", err)
		}
		pairs[i] = sample.ImageLabelPair{Image: img, Label: label}
	}

	params := forest.Params{
		TestType:        "PixelDifferenceTest",
		MaxTreeDepth:    cfg.MaxTreeDepth,
		TestObjectTries: cfg.TestObjectTries,
		ForestSize:      cfg.ForestSize,
		WindowRadius:    cfg.WindowRadius,
	}

	f, err := forest.Fit(pairs, params, cfg.Threads)
	if err != nil {
		return nil, err
	}

	if err := writeForestFile(cfg.ForestPath, f); err != nil {
		return nil, err
	}

	logger.Info().Str("path", cfg.ForestPath).Msg("forest written")
	return f, nil
}

func writeForestFile(path string, f *forest.Forest) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("segforest: encode forest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("segforest: write %s: %w", path, err)
	}
	return nil
}

func readForestFile(path string) (*forest.Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, segerr.NewInput("segforest.readForestFile", err)
	}
	var f forest.Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err // already a *segerr.FormatError
	}
	return &f, nil
}
