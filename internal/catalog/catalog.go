// Static registry of pipeline operations and their parameter schemas
package catalog

import (
	"fmt"
)

// OperationSpec describes one selectable pipeline step
type OperationSpec struct {
	Name       string
	Parameters []ParameterSpec
}

// IndexError is returned when a menu index falls outside the catalog
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("operation index %d out of range [1, %d]", e.Index, e.Size)
}

var operations = []OperationSpec{
	{
		Name: "brightness",
		Parameters: []ParameterSpec{
			FloatParam("factor", "brightness factor (0.0-5.0, default 1.0)", 1.0),
		},
	},
	{
		Name: "blur",
		Parameters: []ParameterSpec{
			IntParam("kernel_size", "kernel size (odd, 3-31, default 5)", 5),
			FloatParam("sigma", "sigma (0.1-10.0, default 1.0)", 1.0),
		},
	},
	{
		Name: "contrast",
		Parameters: []ParameterSpec{
			FloatParam("factor", "contrast factor (0.0-3.0, default 1.0)", 1.0),
			FloatParam("brightness_offset", "brightness offset (-100 to 100, default 0)", 0.0),
		},
	},
	{
		Name: "crop",
		Parameters: []ParameterSpec{
			IntParam("x", "x (default 0)", 0),
			IntParam("y", "y (default 0)", 0),
			OptionalParam("width", Integer, "width (default: image width - x)"),
			OptionalParam("height", Integer, "height (default: image height - y)"),
		},
	},
	{
		Name: "sharpen",
		Parameters: []ParameterSpec{
			FloatParam("strength", "strength (0.0-2.0, default 1.0)", 1.0),
			IntParam("kernel_size", "kernel size (odd, 3-15, default 5)", 5),
		},
	},
}

// List returns the operations in menu order
func List() []OperationSpec {
	result := make([]OperationSpec, len(operations))
	copy(result, operations)
	return result
}

// Len returns the number of operations in the catalog
func Len() int {
	return len(operations)
}

// Get returns the operation at a 1-based menu index
func Get(index int) (OperationSpec, error) {
	if index < 1 || index > len(operations) {
		return OperationSpec{}, &IndexError{Index: index, Size: len(operations)}
	}
	return operations[index-1], nil
}

// Lookup finds an operation by name
func Lookup(name string) (OperationSpec, bool) {
	for _, op := range operations {
		if op.Name == name {
			return op, true
		}
	}
	return OperationSpec{}, false
}

// Names returns the operation names in menu order
func Names() []string {
	names := make([]string, 0, len(operations))
	for _, op := range operations {
		names = append(names, op.Name)
	}
	return names
}

// Parameter finds a parameter spec by name
func (op OperationSpec) Parameter(name string) (ParameterSpec, bool) {
	for _, p := range op.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSpec{}, false
}
