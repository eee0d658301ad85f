// Package tree implements a single randomized decision tree over
// pixel-pair-difference tests, as described in spec.md section 4. Nodes
// live in a flat arena rather than a pointer graph, for cache locality
// and cheap JSON round-tripping.
package tree

import "github.com/wlattner/segforest/imgio"

// SplitTest compares the intensities at two offsets from a candidate
// pixel. A sample goes left when the difference is below Threshold.
type SplitTest struct {
	DX1, DY1 int16
	DX2, DY2 int16
	Threshold int16
}

// GoesLeft evaluates the test against img at (x, y).
func (s SplitTest) GoesLeft(img *imgio.GrayImage, x, y int) bool {
	a := int(img.At(x+int(s.DX1), y+int(s.DY1)))
	b := int(img.At(x+int(s.DX2), y+int(s.DY2)))
	return a-b < int(s.Threshold)
}

// Node is one arena slot. Left == -1 marks a leaf, whose foreground
// probability is stored in Leaf; otherwise Left and Right index sibling
// nodes in the same Tree.
type Node struct {
	Test        SplitTest
	Left, Right int32
	Leaf        float64
}

func (n *Node) isLeaf() bool { return n.Left < 0 }

// Tree is one member of a Forest: an arena of Nodes plus the window
// radius its split tests were drawn from.
type Tree struct {
	Nodes        []Node
	Root         int32
	WindowRadius int
}

// Predict walks the tree for pixel (x, y) of img and returns the
// foreground probability at the reached leaf.
func (t *Tree) Predict(img *imgio.GrayImage, x, y int) float64 {
	idx := t.Root
	for {
		n := &t.Nodes[idx]
		if n.isLeaf() {
			return n.Leaf
		}
		if n.Test.GoesLeft(img, x, y) {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

// Depth returns the maximum root-to-leaf edge count in the tree.
func (t *Tree) Depth() int {
	return t.depth(t.Root)
}

func (t *Tree) depth(idx int32) int {
	n := &t.Nodes[idx]
	if n.isLeaf() {
		return 0
	}
	l := t.depth(n.Left)
	r := t.depth(n.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}
