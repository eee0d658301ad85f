package tree

import (
	"math"
	"math/rand"

	"github.com/wlattner/segforest/sample"
)

// Params controls the shape of a trained Tree. WindowRadius bounds how
// far a SplitTest's two offsets may reach from the candidate pixel;
// MaxTreeDepth bounds recursion; TestObjectTries is the number of
// candidate SplitTests drawn per node before committing to the best
// one seen.
type Params struct {
	WindowRadius    int
	MaxTreeDepth    int
	TestObjectTries int
}

// retryBudgetFactor bounds how many degenerate candidate tests a node
// will draw before giving up and becoming a leaf. A SplitTest is
// degenerate when every sample in range goes to the same side, which
// happens often near the edges of a small radius window; ten times the
// per-node try budget gives the search enough room without spinning
// forever on a pathological sample range.
const retryBudgetFactor = 10

// stackItem is one pending node expansion. Training walks a LIFO stack
// instead of recursing so arbitrarily deep trees never grow the Go
// call stack.
type stackItem struct {
	lo, hi  int
	depth   int
	nodeIdx int32
}

// Train grows a single tree from set using rng to draw candidate
// SplitTests. rng should be a PRNG dedicated to the calling worker so
// concurrent tree training never shares state.
func Train(set *sample.Set, params Params, rng *rand.Rand) (*Tree, error) {
	t := &Tree{WindowRadius: params.WindowRadius}
	t.Nodes = append(t.Nodes, Node{})
	t.Root = 0

	stack := []stackItem{{lo: 0, hi: set.Samples.Len(), depth: 0, nodeIdx: t.Root}}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		leaf, test, isLeaf := buildNode(set, it.lo, it.hi, it.depth, params, rng)
		if isLeaf {
			t.Nodes[it.nodeIdx] = Node{Left: -1, Leaf: leaf}
			continue
		}

		mid := partition(set, test, it.lo, it.hi)
		if mid == it.lo || mid == it.hi {
			// buildNode only returns a test that sends at least one
			// sample of this range each way, and partition evaluates the
			// same predicate, so both sides are non-empty here; this
			// guard falls back to a leaf rather than recurse forever if
			// one side is empty.
			t.Nodes[it.nodeIdx] = Node{Left: -1, Leaf: leafValue(set, it.lo, it.hi)}
			continue
		}

		leftIdx := int32(len(t.Nodes))
		t.Nodes = append(t.Nodes, Node{})
		rightIdx := int32(len(t.Nodes))
		t.Nodes = append(t.Nodes, Node{})

		t.Nodes[it.nodeIdx] = Node{Test: test, Left: leftIdx, Right: rightIdx}

		stack = append(stack, stackItem{lo: it.lo, hi: mid, depth: it.depth + 1, nodeIdx: leftIdx})
		stack = append(stack, stackItem{lo: mid, hi: it.hi, depth: it.depth + 1, nodeIdx: rightIdx})
	}

	return t, nil
}

// buildNode decides whether range [lo, hi) of set.Samples should become
// a leaf or an inner node, and if the latter, which SplitTest to use.
func buildNode(set *sample.Set, lo, hi int, depth int, params Params, rng *rand.Rand) (leaf float64, test SplitTest, isLeaf bool) {
	fg, bg := classCounts(set, lo, hi)
	leaf = foregroundProb(fg, bg)

	if depth >= params.MaxTreeDepth || fg == 0 || bg == 0 {
		return leaf, SplitTest{}, true
	}

	parentEntropy := entropy(fg, bg)

	var (
		bestTest  SplitTest
		bestGain  = -1.0
		validSeen int
	)

	budget := retryBudgetFactor * params.TestObjectTries
	for attempt := 0; attempt < budget && validSeen < params.TestObjectTries; attempt++ {
		candidate := randomTest(rng, params.WindowRadius)

		fgL, bgL, fgR, bgR := splitCounts(set, candidate, lo, hi)
		if fgL+bgL == 0 || fgR+bgR == 0 {
			continue // degenerate: every sample went to one side
		}
		validSeen++

		gain := parentEntropy - weightedEntropy(fgL, bgL, fgR, bgR)
		if gain > bestGain {
			bestGain = gain
			bestTest = candidate
		}
	}

	if validSeen == 0 {
		return leaf, SplitTest{}, true
	}

	return 0, bestTest, false
}

func leafValue(set *sample.Set, lo, hi int) float64 {
	fg, bg := classCounts(set, lo, hi)
	return foregroundProb(fg, bg)
}

func foregroundProb(fg, bg int) float64 {
	if fg+bg == 0 {
		return 0
	}
	return float64(fg) / float64(fg+bg)
}

func classCounts(set *sample.Set, lo, hi int) (fg, bg int) {
	for i := lo; i < hi; i++ {
		if set.ClassOf(i) {
			fg++
		} else {
			bg++
		}
	}
	return fg, bg
}

func splitCounts(set *sample.Set, test SplitTest, lo, hi int) (fgL, bgL, fgR, bgR int) {
	for i := lo; i < hi; i++ {
		left := goesLeft(set, test, i)
		isFg := set.ClassOf(i)
		switch {
		case left && isFg:
			fgL++
		case left && !isFg:
			bgL++
		case !left && isFg:
			fgR++
		default:
			bgR++
		}
	}
	return
}

// entropy is the binary Shannon entropy, in bits, of a fg/bg count
// pair.
func entropy(fg, bg int) float64 {
	n := float64(fg + bg)
	if n == 0 {
		return 0
	}
	var h float64
	for _, c := range [2]int{fg, bg} {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}

func weightedEntropy(fgL, bgL, fgR, bgR int) float64 {
	nL := float64(fgL + bgL)
	nR := float64(fgR + bgR)
	n := nL + nR
	if n == 0 {
		return 0
	}
	return (nL/n)*entropy(fgL, bgL) + (nR/n)*entropy(fgR, bgR)
}

// randomTest draws a candidate SplitTest whose two offsets fall within
// [-radius, radius] and whose threshold spans the full signed pixel
// difference range.
func randomTest(rng *rand.Rand, radius int) SplitTest {
	span := 2*radius + 1
	return SplitTest{
		DX1:       int16(rng.Intn(span) - radius),
		DY1:       int16(rng.Intn(span) - radius),
		DX2:       int16(rng.Intn(span) - radius),
		DY2:       int16(rng.Intn(span) - radius),
		Threshold: int16(rng.Intn(511) - 255),
	}
}

func goesLeft(set *sample.Set, test SplitTest, i int) bool {
	imgIdx, x, y := set.Samples.At(i)
	return test.GoesLeft(set.Images[imgIdx], x, y)
}

// partition rearranges set.Samples[lo:hi] in place, Hoare-style, so
// that every sample satisfying test.GoesLeft precedes every sample that
// does not, and returns the boundary index.
func partition(set *sample.Set, test SplitTest, lo, hi int) int {
	i, j := lo, hi-1
	for {
		for i <= j && goesLeft(set, test, i) {
			i++
		}
		for i <= j && !goesLeft(set, test, j) {
			j--
		}
		if i > j {
			break
		}
		set.Samples.Swap(i, j)
		i++
		j--
	}
	return i
}
