package segforest

import (
	"github.com/wlattner/segforest/internal/segerr"
)

// InferenceMethod selects how the Markov random field is solved.
type InferenceMethod string

const (
	MethodMaxflow InferenceMethod = "maxflow"
	MethodGibbs   InferenceMethod = "gibbs"
)

// TrainConfig configures one Train call.
type TrainConfig struct {
	ImagePaths []string
	LabelPaths []string
	ForestPath string

	MaxTreeDepth    int
	TestObjectTries int
	ForestSize      int
	WindowRadius    int
	Threads         int
}

// Validate reports a ConfigError for any combination Train cannot act
// on; it never touches the filesystem.
func (c TrainConfig) Validate() error {
	switch {
	case len(c.ImagePaths) == 0:
		return segerr.NewConfig("training requires at least one input image (-i)")
	case len(c.LabelPaths) != len(c.ImagePaths):
		return segerr.NewConfig("the number of label images (-l) must match the number of input images (-i)")
	case c.ForestPath == "":
		return segerr.NewConfig("training requires an output forest file path (-f)")
	case c.MaxTreeDepth <= 0:
		return segerr.NewConfig("tree depth (-d) must be positive")
	case c.TestObjectTries <= 0:
		return segerr.NewConfig("testobject tries (-p) must be positive")
	case c.ForestSize <= 0:
		return segerr.NewConfig("forest size (-t) must be positive")
	case c.WindowRadius <= 0:
		return segerr.NewConfig("window radius (-w) must be positive")
	case c.Threads <= 0:
		return segerr.NewConfig("thread count (-o) must be positive")
	}
	return nil
}

// InferConfig configures one Infer call.
type InferConfig struct {
	ImagePath        string
	ForestPath       string
	OutputPath       string
	IntermediatePath string // optional: unary field visualization
	GroundTruthPath  string // optional: enables accuracy reporting
	ResultsPath      string // where the (labeled, correct) tuple is appended; defaults to "ergebnisse.txt"

	PairwiseEnergy float64
	Method         InferenceMethod
}

// Validate reports a ConfigError for any combination Infer cannot act
// on; it never touches the filesystem.
func (c InferConfig) Validate() error {
	switch {
	case c.ImagePath == "":
		return segerr.NewConfig("inference requires an input image (-i)")
	case c.ForestPath == "":
		return segerr.NewConfig("inference requires a forest file (-f)")
	case c.OutputPath == "":
		return segerr.NewConfig("inference requires an output label path (-o)")
	case c.Method != MethodMaxflow && c.Method != MethodGibbs:
		return segerr.NewConfig("method (-m) must be \"maxflow\" or \"gibbs\"")
	}
	return nil
}
