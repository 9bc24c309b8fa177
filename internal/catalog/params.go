package catalog

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParameterSpec describes one typed parameter of an operation.
// A nil Default marks the parameter as optional: an empty answer omits it.
type ParameterSpec struct {
	Name    string
	Type    ValueType
	Prompt  string
	Default *Value
}

func IntParam(name, prompt string, def int64) ParameterSpec {
	v := IntValue(def)
	return ParameterSpec{Name: name, Type: Integer, Prompt: prompt, Default: &v}
}

func FloatParam(name, prompt string, def float64) ParameterSpec {
	v := FloatValue(def)
	return ParameterSpec{Name: name, Type: Float, Prompt: prompt, Default: &v}
}

func OptionalParam(name string, typ ValueType, prompt string) ParameterSpec {
	return ParameterSpec{Name: name, Type: typ, Prompt: prompt}
}

func (p ParameterSpec) HasDefault() bool {
	return p.Default != nil
}

// Parse coerces raw text to the declared type. Ranges mentioned in the
// prompt are not enforced.
func (p ParameterSpec) Parse(text string) (Value, error) {
	text = strings.TrimSpace(text)
	switch p.Type {
	case Integer:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, errors.Wrapf(err, "invalid value for %s", p.Name)
		}
		return IntValue(i), nil
	case Float:
		f, err := parseFloat(text)
		if err != nil {
			return Value{}, errors.Wrapf(err, "invalid value for %s", p.Name)
		}
		return FloatValue(f), nil
	default:
		return Value{}, errors.Errorf("parameter %s has unknown type %d", p.Name, p.Type)
	}
}
