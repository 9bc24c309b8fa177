package pipeline

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipeline-builder/internal/catalog"
)

func sampleDocument() *Document {
	return &Document{
		ROI: RegionOfInterest{X: 10, Y: 20, Width: 0, Height: 100},
		Operations: []OperationInstance{
			{
				Type: "blur",
				Parameters: NewParameters(
					Param{Name: "kernel_size", Value: catalog.IntValue(7)},
					Param{Name: "sigma", Value: catalog.FloatValue(1)},
				),
			},
			{
				Type: "crop",
				Parameters: NewParameters(
					Param{Name: "x", Value: catalog.IntValue(0)},
					Param{Name: "y", Value: catalog.IntValue(5)},
				),
			},
			{Type: "brightness", Parameters: NewParameters(Param{Name: "factor", Value: catalog.FloatValue(1.5)})},
		},
		InputImage:  "data/input.jpg",
		OutputImage: "data/out & final.jpg",
	}
}

func TestEncodeScenario(t *testing.T) {
	doc := &Document{
		Operations: []OperationInstance{
			{Type: "brightness", Parameters: NewParameters(Param{Name: "factor", Value: catalog.FloatValue(1.5)})},
		},
		InputImage:  "data/input.jpg",
		OutputImage: "data/output.jpg",
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	var compact bytes.Buffer
	require.NoError(t, json.Compact(&compact, buf.Bytes()))
	assert.Equal(t,
		`{"roi":{"x":0,"y":0,"width":0,"height":0},"operations":[{"type":"brightness","parameters":{"factor":1.5}}],"input_image":"data/input.jpg","output_image":"data/output.jpg"}`,
		compact.String())
}

func TestEncodeIndentation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleDocument()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{\n  \"roi\": {\n    \"x\": 10,"), out)
	assert.Contains(t, out, "\"kernel_size\": 7,\n")
	assert.Contains(t, out, "\"sigma\": 1.0\n")
	assert.Contains(t, out, "\"output_image\": \"data/out & final.jpg\"")
}

func TestParameterOrderPreserved(t *testing.T) {
	params := NewParameters(
		Param{Name: "strength", Value: catalog.FloatValue(1)},
		Param{Name: "kernel_size", Value: catalog.IntValue(5)},
	)

	data, err := json.Marshal(params)
	require.NoError(t, err)
	assert.Equal(t, `{"strength":1.0,"kernel_size":5}`, string(data))

	var decoded Parameters
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"strength", "kernel_size"}, decoded.Names())
}

func TestEmptyParameters(t *testing.T) {
	data, err := json.Marshal(OperationInstance{Type: "crop"})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"crop","parameters":{}}`, string(data))

	var op OperationInstance
	require.NoError(t, json.Unmarshal([]byte(`{"type":"crop","parameters":null}`), &op))
	assert.Equal(t, 0, op.Parameters.Len())
}

func TestParametersSetReplaces(t *testing.T) {
	p := NewParameters(
		Param{Name: "factor", Value: catalog.FloatValue(1)},
		Param{Name: "factor", Value: catalog.FloatValue(2)},
	)
	assert.Equal(t, 1, p.Len())
	v, ok := p.Get("factor")
	require.True(t, ok)
	assert.Equal(t, 2.0, v.Float())
	assert.False(t, p.Has("sigma"))
}

func TestRoundTrip(t *testing.T) {
	doc := sampleDocument()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	doc := sampleDocument()

	require.NoError(t, WriteFile(path, doc))
	decoded, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDecodeRejectsBadParameters(t *testing.T) {
	tcs := map[string]string{
		"string value":    `{"operations":[{"type":"blur","parameters":{"sigma":"high"}}]}`,
		"array parameter": `{"operations":[{"type":"blur","parameters":[1,2]}]}`,
		"truncated":       `{"operations":[`,
	}

	for name, input := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}
