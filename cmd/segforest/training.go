package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wlattner/segforest"
)

var trainFlags segforest.TrainConfig

var trainingCmd = &cobra.Command{
	Use:   "training",
	Short: "Train a forest from labeled images",
	Run: func(cmd *cobra.Command, args []string) {
		stop := startProfile()
		defer stop()

		if _, err := segforest.Train(trainFlags); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	f := trainingCmd.Flags()
	f.StringArrayVarP(&trainFlags.ImagePaths, "input", "i", nil, "training image (repeatable)")
	f.StringArrayVarP(&trainFlags.LabelPaths, "labels", "l", nil, "label image, one per -i (repeatable)")
	f.StringVarP(&trainFlags.ForestPath, "forest", "f", "", "output forest file path")
	f.IntVarP(&trainFlags.MaxTreeDepth, "depth", "d", 8, "maximum tree depth")
	f.IntVarP(&trainFlags.TestObjectTries, "tries", "p", 200, "candidate split tests drawn per node")
	f.IntVarP(&trainFlags.ForestSize, "trees", "t", 20, "number of trees in the forest")
	f.IntVarP(&trainFlags.WindowRadius, "radius", "w", 4, "window radius for split test offsets")
	f.IntVarP(&trainFlags.Threads, "threads", "o", 1, "number of trees to train concurrently")
}
