// Package segforest trains and runs a randomized decision forest over
// pixel-pair-difference tests, followed by 4-connected Markov random
// field smoothing, to produce binary foreground/background
// segmentations. See cmd/segforest for the command-line entry point.
package segforest
