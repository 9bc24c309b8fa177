// Pipeline document model handed to the processing engine
package pipeline

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"pipeline-builder/internal/catalog"
)

// Document is the complete configuration consumed by the engine
type Document struct {
	ROI         RegionOfInterest    `json:"roi"`
	Operations  []OperationInstance `json:"operations"`
	InputImage  string              `json:"input_image"`
	OutputImage string              `json:"output_image"`
}

// OperationInstance is one selected step with its concrete parameter values
type OperationInstance struct {
	Type       string     `json:"type"`
	Parameters Parameters `json:"parameters"`
}

// Param is a single named parameter value
type Param struct {
	Name  string
	Value catalog.Value
}

// Parameters keeps parameter values in the order they were collected
type Parameters struct {
	entries []Param
}

// NewParameters builds a mapping from ordered entries; later duplicates win
func NewParameters(entries ...Param) Parameters {
	var p Parameters
	for _, e := range entries {
		p.Set(e.Name, e.Value)
	}
	return p
}

func (p *Parameters) Set(name string, value catalog.Value) {
	for i := range p.entries {
		if p.entries[i].Name == name {
			p.entries[i].Value = value
			return
		}
	}
	p.entries = append(p.entries, Param{Name: name, Value: value})
}

func (p Parameters) Get(name string) (catalog.Value, bool) {
	for _, e := range p.entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return catalog.Value{}, false
}

func (p Parameters) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

func (p Parameters) Len() int {
	return len(p.entries)
}

func (p Parameters) Names() []string {
	names := make([]string, 0, len(p.entries))
	for _, e := range p.entries {
		names = append(names, e.Name)
	}
	return names
}

// Entries returns a copy of the ordered entries
func (p Parameters) Entries() []Param {
	result := make([]Param, len(p.entries))
	copy(result, p.entries)
	return result
}

func (p Parameters) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range p.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to encode parameter name %q", e.Name)
		}
		value, err := e.Value.MarshalJSON()
		if err != nil {
			return nil, errors.Wrapf(err, "unable to encode parameter %s", e.Name)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Parameters) UnmarshalJSON(data []byte) error {
	*p = Parameters{}
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "unable to read parameters")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("parameters must be a JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "unable to read parameter name")
		}
		name, ok := tok.(string)
		if !ok {
			return errors.Errorf("unexpected parameter key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errors.Wrapf(err, "unable to read parameter %s", name)
		}
		var value catalog.Value
		if err := value.UnmarshalJSON(raw); err != nil {
			return errors.Wrapf(err, "parameter %s", name)
		}
		p.Set(name, value)
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return errors.Wrap(err, "unable to read end of parameters")
	}
	return nil
}
