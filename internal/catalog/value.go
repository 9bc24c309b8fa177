package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ValueType is the declared numeric type of a parameter
type ValueType int

const (
	Integer ValueType = iota
	Float
)

func (t ValueType) String() string {
	switch t {
	case Integer:
		return "int"
	case Float:
		return "float"
	default:
		return "unknown"
	}
}

// Value is a concrete parameter value, either an integer or a float.
// Floats always encode with a fractional part so a decoded document keeps
// the type it was written with.
type Value struct {
	kind ValueType
	i    int64
	f    float64
}

func IntValue(v int64) Value {
	return Value{kind: Integer, i: v}
}

func FloatValue(v float64) Value {
	return Value{kind: Float, f: v}
}

func (v Value) Kind() ValueType {
	return v.kind
}

// Float returns the value as a float
func (v Value) Float() float64 {
	if v.kind == Integer {
		return float64(v.i)
	}
	return v.f
}

func (v Value) String() string {
	if v.kind == Integer {
		return strconv.FormatInt(v.i, 10)
	}
	s := strconv.FormatFloat(v.f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == Float && (math.IsNaN(v.f) || math.IsInf(v.f, 0)) {
		return nil, errors.Errorf("unsupported float value %v", v.f)
	}
	return []byte(v.String()), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "" || (text[0] != '-' && (text[0] < '0' || text[0] > '9')) {
		return errors.Errorf("parameter value must be a number, got %s", text)
	}
	parsed, err := ParseNumber(text)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseNumber infers the type from the literal: anything with a fraction or
// exponent is a float.
func ParseNumber(text string) (Value, error) {
	if !strings.ContainsAny(text, ".eE") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return IntValue(i), nil
		}
	}
	f, err := parseFloat(text)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(f), nil
}

func parseFloat(text string) (float64, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid float %q", text)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("invalid float %q: not a finite number", text)
	}
	return f, nil
}
