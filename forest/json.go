package forest

import (
	"encoding/json"
	"fmt"

	"github.com/wlattner/segforest/internal/segerr"
	"github.com/wlattner/segforest/sample"
	"github.com/wlattner/segforest/tree"
)

// MarshalJSON encodes the forest as
// [learning_parameters, background_color, foreground_color, tree, ...],
// matching the text-based format the command-line tool reads and
// writes.
func (f *Forest) MarshalJSON() ([]byte, error) {
	header := map[string]interface{}{
		"Test Type":        f.Params.TestType,
		"Max tree depth":   f.Params.MaxTreeDepth,
		"Testobject tries": f.Params.TestObjectTries,
		"Forest size":      f.Params.ForestSize,
		"Window radius":    f.Params.WindowRadius,
	}
	if f.TrainingRunID != "" {
		header["Training Run ID"] = f.TrainingRunID
	}

	arr := make([]interface{}, 0, 3+len(f.Trees))
	arr = append(arr, header, f.Palette.Background, f.Palette.Foreground)
	for _, t := range f.Trees {
		arr = append(arr, t)
	}

	return json.Marshal(arr)
}

// UnmarshalJSON decodes a forest encoded by MarshalJSON.
func (f *Forest) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return segerr.NewFormat("forest.UnmarshalJSON", err)
	}
	if len(raw) < 3 {
		return segerr.NewFormat("forest.UnmarshalJSON", fmt.Errorf("forest array has %d elements, want at least 3", len(raw)))
	}

	var header map[string]interface{}
	if err := json.Unmarshal(raw[0], &header); err != nil {
		return segerr.NewFormat("forest.UnmarshalJSON", err)
	}

	var bg, fgColor uint8
	if err := json.Unmarshal(raw[1], &bg); err != nil {
		return segerr.NewFormat("forest.UnmarshalJSON", err)
	}
	if err := json.Unmarshal(raw[2], &fgColor); err != nil {
		return segerr.NewFormat("forest.UnmarshalJSON", err)
	}

	f.Params = Params{
		TestType:        stringField(header, "Test Type"),
		MaxTreeDepth:    intField(header, "Max tree depth"),
		TestObjectTries: intField(header, "Testobject tries"),
		ForestSize:      intField(header, "Forest size"),
		WindowRadius:    intField(header, "Window radius"),
	}
	f.Palette = sample.PaletteColors{Background: bg, Foreground: fgColor}
	f.TrainingRunID = stringField(header, "Training Run ID")

	f.Trees = make([]*tree.Tree, len(raw)-3)
	for i, rm := range raw[3:] {
		t := &tree.Tree{WindowRadius: f.Params.WindowRadius}
		if err := json.Unmarshal(rm, t); err != nil {
			return segerr.NewFormat("forest.UnmarshalJSON", err)
		}
		f.Trees[i] = t
	}

	return nil
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]interface{}, key string) int {
	f, _ := m[key].(float64)
	return int(f)
}
