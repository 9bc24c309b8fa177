package pipeline

import (
	"fmt"

	"pipeline-builder/internal/catalog"
)

// Issue is a problem the engine is expected to reject or work around.
// Operation is the zero-based step index, or -1 for document-level issues.
type Issue struct {
	Operation int
	Message   string
}

func (i Issue) String() string {
	if i.Operation < 0 {
		return i.Message
	}
	return fmt.Sprintf("operation %d: %s", i.Operation+1, i.Message)
}

// Parameters the engine refuses to run without
var requiredByEngine = map[string][]string{
	"brightness": {"factor"},
	"blur":       {"kernel_size", "sigma"},
}

// Check mirrors the engine's own pipeline validation so problems surface
// before the process is launched. It never alters the document.
func Check(doc *Document) []Issue {
	var issues []Issue

	if doc.ROI.X < 0 || doc.ROI.Y < 0 || doc.ROI.Width < 0 || doc.ROI.Height < 0 {
		issues = append(issues, Issue{Operation: -1, Message: fmt.Sprintf("roi has negative fields (%s)", doc.ROI)})
	}

	if len(doc.Operations) == 0 {
		issues = append(issues, Issue{Operation: -1, Message: "pipeline must contain at least one operation"})
	}

	for idx, op := range doc.Operations {
		spec, ok := catalog.Lookup(op.Type)
		if !ok {
			issues = append(issues, Issue{Operation: idx, Message: fmt.Sprintf("unsupported type %q", op.Type)})
			continue
		}

		for _, param := range op.Parameters.Entries() {
			known, ok := spec.Parameter(param.Name)
			if !ok {
				issues = append(issues, Issue{Operation: idx, Message: fmt.Sprintf("%s does not take parameter %q", op.Type, param.Name)})
				continue
			}
			if known.Type == catalog.Integer && param.Value.Kind() != catalog.Integer {
				issues = append(issues, Issue{Operation: idx, Message: fmt.Sprintf("%s parameter %q should be an integer, got %s", op.Type, param.Name, param.Value)})
			}
		}

		for _, name := range requiredByEngine[op.Type] {
			if !op.Parameters.Has(name) {
				issues = append(issues, Issue{Operation: idx, Message: fmt.Sprintf("%s requires %q", op.Type, name)})
			}
		}

		if op.Type == "crop" {
			issues = append(issues, checkCrop(idx, op.Parameters)...)
		}
	}

	return issues
}

func checkCrop(idx int, params Parameters) []Issue {
	var issues []Issue
	for _, name := range []string{"x", "y"} {
		if v, ok := params.Get(name); ok && v.Float() < 0 {
			issues = append(issues, Issue{Operation: idx, Message: fmt.Sprintf("crop %s must be non-negative", name)})
		}
	}
	for _, name := range []string{"width", "height"} {
		if v, ok := params.Get(name); ok && v.Float() <= 0 {
			issues = append(issues, Issue{Operation: idx, Message: fmt.Sprintf("crop %s must be positive", name)})
		}
	}
	return issues
}
