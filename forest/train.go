package forest

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wlattner/segforest/internal/log"
	"github.com/wlattner/segforest/sample"
	"github.com/wlattner/segforest/tree"
)

// job is one tree-training unit of work handed to a worker.
type job struct {
	index int
}

// result is what a worker sends back after training its tree. A fresh
// sample.Set is built per tree (not shared) so each tree's hard-negative
// mining and background draws are independently re-randomized, the
// same way the source implementation reshuffles its training data for
// every tree in the ensemble.
type result struct {
	index int
	tree  *tree.Tree
	err   error
}

// Fit trains Params.ForestSize trees over pairs using nWorkers
// concurrent goroutines, one fresh class-balanced sample.Set build and
// one tree.Train call per job.
func Fit(pairs []sample.ImageLabelPair, params Params, nWorkers int) (*Forest, error) {
	if nWorkers < 1 {
		nWorkers = 1
	}
	if len(pairs) == 0 {
		return nil, errNoTrainingPairs
	}

	palette, err := sample.DiscoverPalette(pairs[0].Label, params.WindowRadius)
	if err != nil {
		return nil, err
	}

	logger := log.Component("forest.Fit")
	logger.Info().Int("trees", params.ForestSize).Int("workers", nWorkers).Msg("training started")

	in := make(chan job)
	out := make(chan result)

	var wg sync.WaitGroup
	for w := 0; w < nWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

			for j := range in {
				set, err := sample.Build(pairs, params.WindowRadius, rng)
				if err != nil {
					out <- result{index: j.index, err: err}
					continue
				}

				t, err := tree.Train(set, params.treeParams(), rng)
				out <- result{index: j.index, tree: t, err: err}
			}
		}(w)
	}

	go func() {
		for i := 0; i < params.ForestSize; i++ {
			in <- job{index: i}
		}
		close(in)
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	trees := make([]*tree.Tree, params.ForestSize)
	var firstErr error
	done := 0
	for r := range out {
		done++
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		trees[r.index] = r.tree
		logger.Info().Int("done", done).Int("total", params.ForestSize).Msg("tree trained")
	}

	if firstErr != nil {
		return nil, firstErr
	}

	logger.Info().Msg("training complete")

	return &Forest{
		Params:        params,
		Palette:       palette,
		Trees:         trees,
		TrainingRunID: uuid.NewString(),
	}, nil
}

var errNoTrainingPairs = fitError("forest.Fit: no training image/label pairs given")

type fitError string

func (e fitError) Error() string { return string(e) }
