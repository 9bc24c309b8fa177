package pipeline

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"pipeline-builder/internal/catalog"
)

func TestCheck(t *testing.T) {
	tcs := map[string]struct {
		doc      *Document
		expected []string
	}{
		"valid": {
			doc:      sampleDocument(),
			expected: nil,
		},
		"empty": {
			doc:      &Document{},
			expected: []string{"pipeline must contain at least one operation"},
		},
		"unknown type": {
			doc:      &Document{Operations: []OperationInstance{{Type: "rotate"}}},
			expected: []string{`operation 1: unsupported type "rotate"`},
		},
		"missing engine parameters": {
			doc: &Document{Operations: []OperationInstance{
				{Type: "brightness"},
				{Type: "blur", Parameters: NewParameters(Param{Name: "kernel_size", Value: catalog.IntValue(3)})},
			}},
			expected: []string{
				`operation 1: brightness requires "factor"`,
				`operation 2: blur requires "sigma"`,
			},
		},
		"unknown parameter": {
			doc: &Document{Operations: []OperationInstance{
				{Type: "sharpen", Parameters: NewParameters(Param{Name: "radius", Value: catalog.IntValue(3)})},
			}},
			expected: []string{`operation 1: sharpen does not take parameter "radius"`},
		},
		"float for integer parameter": {
			doc: &Document{Operations: []OperationInstance{
				{Type: "blur", Parameters: NewParameters(
					Param{Name: "kernel_size", Value: catalog.FloatValue(5.5)},
					Param{Name: "sigma", Value: catalog.IntValue(2)},
				)},
			}},
			expected: []string{`operation 1: blur parameter "kernel_size" should be an integer, got 5.5`},
		},
		"crop bounds": {
			doc: &Document{Operations: []OperationInstance{
				{Type: "crop", Parameters: NewParameters(
					Param{Name: "x", Value: catalog.IntValue(-1)},
					Param{Name: "y", Value: catalog.IntValue(0)},
					Param{Name: "width", Value: catalog.IntValue(0)},
				)},
			}},
			expected: []string{
				"operation 1: crop x must be non-negative",
				"operation 1: crop width must be positive",
			},
		},
		"negative roi": {
			doc: &Document{
				ROI:        RegionOfInterest{X: -5},
				Operations: []OperationInstance{{Type: "sharpen"}},
			},
			expected: []string{"roi has negative fields (x=-5 y=0 width=0 height=0)"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			var got []string
			for _, issue := range Check(tc.doc) {
				got = append(got, issue.String())
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestRegionOfInterest(t *testing.T) {
	tcs := map[string]struct {
		roi      RegionOfInterest
		rect     image.Rectangle
		fits     bool
		fullSize bool
	}{
		"full image": {
			roi:      RegionOfInterest{},
			rect:     image.Rect(0, 0, 640, 480),
			fits:     true,
			fullSize: true,
		},
		"remainder of width": {
			roi:  RegionOfInterest{X: 40, Y: 30, Height: 100},
			rect: image.Rect(40, 30, 640, 130),
			fits: true,
		},
		"explicit": {
			roi:  RegionOfInterest{X: 10, Y: 10, Width: 20, Height: 20},
			rect: image.Rect(10, 10, 30, 30),
			fits: true,
		},
		"too wide": {
			roi:  RegionOfInterest{X: 600, Width: 100},
			rect: image.Rect(600, 0, 700, 480),
			fits: false,
		},
		"origin outside": {
			roi:  RegionOfInterest{X: 700},
			rect: image.Rect(640, 0, 700, 480),
			fits: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.rect, tc.roi.Rect(640, 480))
			assert.Equal(t, tc.fits, tc.roi.Fits(640, 480))
			assert.Equal(t, tc.fullSize, tc.roi.IsFullImage())
		})
	}

	assert.Equal(t, "full image", RegionOfInterest{}.String())
}
