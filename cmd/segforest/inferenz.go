package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wlattner/segforest"
)

var inferFlags segforest.InferConfig
var inferMethod string

var inferenzCmd = &cobra.Command{
	Use:   "inferenz",
	Short: "Segment an image with a trained forest",
	Run: func(cmd *cobra.Command, args []string) {
		stop := startProfile()
		defer stop()

		inferFlags.Method = segforest.InferenceMethod(inferMethod)
		if err := segforest.Infer(inferFlags); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	f := inferenzCmd.Flags()
	f.StringVarP(&inferFlags.ImagePath, "input", "i", "", "image to segment")
	f.StringVarP(&inferFlags.ForestPath, "forest", "f", "", "trained forest file")
	f.StringVarP(&inferFlags.OutputPath, "output", "o", "", "output label image path")
	f.Float64VarP(&inferFlags.PairwiseEnergy, "energy", "e", 10.0, "pairwise energy (Potts cost)")
	f.StringVarP(&inferMethod, "method", "m", "maxflow", "inference method: maxflow or gibbs")
	f.StringVar(&inferFlags.IntermediatePath, "intermediate", "", "optional path for the raw forest probability field")
	f.StringVar(&inferFlags.GroundTruthPath, "ground-truth", "", "optional label image to score against")
	f.StringVar(&inferFlags.ResultsPath, "results", "", "path for the accuracy tuple log (default ergebnisse.txt)")
}
