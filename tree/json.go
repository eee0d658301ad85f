package tree

import (
	"encoding/json"
	"fmt"

	"github.com/wlattner/segforest/internal/segerr"
)

// MarshalJSON encodes the tree using the nested-array schema: an inner
// node is a 3-element array [test, left, right], a leaf is a bare
// number, and a SplitTest is the 5-element array
// [dx1, dy1, dx2, dy2, threshold].
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.encode(t.Root))
}

func (t *Tree) encode(idx int32) interface{} {
	n := &t.Nodes[idx]
	if n.isLeaf() {
		return n.Leaf
	}
	return []interface{}{n.Test.encode(), t.encode(n.Left), t.encode(n.Right)}
}

func (s SplitTest) encode() [5]int16 {
	return [5]int16{s.DX1, s.DY1, s.DX2, s.DY2, s.Threshold}
}

// UnmarshalJSON decodes a tree encoded by MarshalJSON.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return segerr.NewFormat("tree.UnmarshalJSON", err)
	}

	t.Nodes = nil
	root, err := t.decode(raw)
	if err != nil {
		return err
	}
	t.Root = root
	return nil
}

func (t *Tree) decode(raw interface{}) (int32, error) {
	switch v := raw.(type) {
	case float64:
		idx := int32(len(t.Nodes))
		t.Nodes = append(t.Nodes, Node{Left: -1, Leaf: v})
		return idx, nil
	case []interface{}:
		if len(v) != 3 {
			return 0, segerr.NewFormat("tree.decode", fmt.Errorf("inner node has %d elements, want 3", len(v)))
		}
		test, err := decodeTest(v[0])
		if err != nil {
			return 0, err
		}

		idx := int32(len(t.Nodes))
		t.Nodes = append(t.Nodes, Node{})

		left, err := t.decode(v[1])
		if err != nil {
			return 0, err
		}
		right, err := t.decode(v[2])
		if err != nil {
			return 0, err
		}

		t.Nodes[idx] = Node{Test: test, Left: left, Right: right}
		return idx, nil
	default:
		return 0, segerr.NewFormat("tree.decode", fmt.Errorf("unexpected node encoding %T", raw))
	}
}

func decodeTest(raw interface{}) (SplitTest, error) {
	arr, ok := raw.([]interface{})
	if !ok || len(arr) != 5 {
		return SplitTest{}, segerr.NewFormat("tree.decodeTest", fmt.Errorf("split test must be a 5-element array"))
	}

	vals := make([]int16, 5)
	for i, el := range arr {
		f, ok := el.(float64)
		if !ok {
			return SplitTest{}, segerr.NewFormat("tree.decodeTest", fmt.Errorf("split test element %d is not numeric", i))
		}
		vals[i] = int16(f)
	}

	return SplitTest{
		DX1:       vals[0],
		DY1:       vals[1],
		DX2:       vals[2],
		DY2:       vals[3],
		Threshold: vals[4],
	}, nil
}
