package tree

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/wlattner/segforest/imgio"
	"github.com/wlattner/segforest/sample"
)

func checkerboardPair(w, h int) sample.ImageLabelPair {
	img := imgio.NewGrayImage(w, h)
	label := imgio.NewGrayImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/4+y/4)%2 == 0 {
				img.Set(x, y, 20)
				label.Set(x, y, 10) // background
			} else {
				img.Set(x, y, 230)
				label.Set(x, y, 200) // foreground
			}
		}
	}
	return sample.ImageLabelPair{Image: img, Label: label}
}

func trainCheckerboard(t *testing.T, w, h int, params Params, seed int64) (*Tree, *sample.Set) {
	t.Helper()
	pair := checkerboardPair(w, h)
	set, err := sample.Build([]sample.ImageLabelPair{pair}, params.WindowRadius, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("sample.Build: %v", err)
	}
	tr, err := Train(set, params, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	return tr, set
}

func TestTrainRespectsMaxDepth(t *testing.T) {
	params := Params{WindowRadius: 3, MaxTreeDepth: 4, TestObjectTries: 20}
	tr, _ := trainCheckerboard(t, 48, 48, params, 1)

	if d := tr.Depth(); d > params.MaxTreeDepth {
		t.Fatalf("tree depth %d exceeds MaxTreeDepth %d", d, params.MaxTreeDepth)
	}
}

func TestLeafProbabilitiesInRange(t *testing.T) {
	params := Params{WindowRadius: 3, MaxTreeDepth: 6, TestObjectTries: 20}
	tr, _ := trainCheckerboard(t, 48, 48, params, 2)

	for _, n := range tr.Nodes {
		if n.Left >= 0 {
			continue
		}
		if n.Leaf < 0 || n.Leaf > 1 {
			t.Fatalf("leaf probability %v out of [0,1]", n.Leaf)
		}
	}
}

func TestInnerNodesHaveTwoDistinctChildren(t *testing.T) {
	params := Params{WindowRadius: 3, MaxTreeDepth: 6, TestObjectTries: 20}
	tr, _ := trainCheckerboard(t, 48, 48, params, 3)

	for i, n := range tr.Nodes {
		if n.Left < 0 {
			continue
		}
		if n.Left == n.Right {
			t.Fatalf("node %d: left and right children are the same index %d", i, n.Left)
		}
	}
}

func TestPartitionSeparatesBySplitTest(t *testing.T) {
	pair := checkerboardPair(32, 32)
	set, err := sample.Build([]sample.ImageLabelPair{pair}, 2, rand.New(rand.NewSource(4)))
	if err != nil {
		t.Fatalf("sample.Build: %v", err)
	}

	test := SplitTest{DX1: 0, DY1: 0, DX2: 1, DY2: 0, Threshold: 0}
	n := set.Samples.Len()
	mid := partition(set, test, 0, n)

	for i := 0; i < mid; i++ {
		if !goesLeft(set, test, i) {
			t.Fatalf("sample %d left of boundary %d does not satisfy goesLeft", i, mid)
		}
	}
	for i := mid; i < n; i++ {
		if goesLeft(set, test, i) {
			t.Fatalf("sample %d right of boundary %d satisfies goesLeft", i, mid)
		}
	}
}

func TestEntropyZeroForPureCounts(t *testing.T) {
	if h := entropy(10, 0); h != 0 {
		t.Errorf("entropy(10, 0) = %v, want 0", h)
	}
	if h := entropy(0, 5); h != 0 {
		t.Errorf("entropy(0, 5) = %v, want 0", h)
	}
}

func TestEntropyMaximalAtBalance(t *testing.T) {
	h := entropy(5, 5)
	if h < 0.99 || h > 1.01 {
		t.Errorf("entropy(5, 5) = %v, want ~1.0", h)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	params := Params{WindowRadius: 3, MaxTreeDepth: 5, TestObjectTries: 20}
	tr, _ := trainCheckerboard(t, 40, 40, params, 5)

	data, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Tree
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(got.Nodes) != len(tr.Nodes) {
		t.Fatalf("got %d nodes, want %d", len(got.Nodes), len(tr.Nodes))
	}

	img := imgio.NewGrayImage(40, 40)
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 256)
	}
	for _, pt := range [][2]int{{5, 5}, {20, 20}, {35, 35}} {
		want := tr.Predict(img, pt[0], pt[1])
		gotP := got.Predict(img, pt[0], pt[1])
		if want != gotP {
			t.Errorf("Predict(%d,%d) after round trip = %v, want %v", pt[0], pt[1], gotP, want)
		}
	}
}

func TestDecodeRejectsMalformedSplitTest(t *testing.T) {
	var tr Tree
	err := json.Unmarshal([]byte(`[[1,2,3],0,1]`), &tr)
	if err == nil {
		t.Fatal("expected an error for a 3-element split test")
	}
}
