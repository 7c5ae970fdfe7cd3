package domain

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// ParamType identifies the scalar type a template parameter accepts.
type ParamType string

const (
	StringParam ParamType = "string"
	IntParam    ParamType = "int"
	FloatParam  ParamType = "float"
	BoolParam   ParamType = "bool"
	TimeParam   ParamType = "time"
)

// ParseParamType validates a parameter type name from configuration.
func ParseParamType(value string) (ParamType, error) {
	switch ParamType(value) {
	case StringParam, IntParam, FloatParam, BoolParam, TimeParam:
		return ParamType(value), nil
	default:
		return "", fmt.Errorf("unknown parameter type %q", value)
	}
}

// ParamSpec describes one named parameter of a template.
type ParamSpec struct {
	// Name is the placeholder name referenced as :name in the template body.
	Name string `json:"name" yaml:"name"`
	// Type constrains the accepted scalar type.
	Type ParamType `json:"type" yaml:"type"`
	// Required reports whether a value must be supplied.
	Required bool `json:"required" yaml:"required"`
	// Min is the inclusive lower bound for numeric parameters (nil if unbounded).
	Min *float64 `json:"min,omitempty" yaml:"min"`
	// Max is the inclusive upper bound for numeric parameters (nil if unbounded).
	Max *float64 `json:"max,omitempty" yaml:"max"`
}

// Template is a pre-approved parametrized SELECT statement.
type Template struct {
	// ID is the identifier used to invoke the template.
	ID string `json:"id" yaml:"id"`
	// Name is a human-readable title.
	Name string `json:"name" yaml:"name"`
	// Description explains what the template returns.
	Description string `json:"description" yaml:"description"`
	// SQL is the statement body with :name placeholders.
	SQL string `json:"-" yaml:"sql"`
	// Params describes the accepted parameters.
	Params []ParamSpec `json:"params" yaml:"params"`
}

// Coerce checks a supplied value against the declared type and converts it to the
// typed scalar bound at execution time. Values never reach the SQL text.
func (p ParamSpec) Coerce(value any) (any, error) {
	switch p.Type {
	case StringParam:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("parameter %q must be a string", p.Name)
		}
		return s, nil
	case IntParam:
		n, err := toInt64(value)
		if err != nil {
			return nil, fmt.Errorf("parameter %q must be an integer", p.Name)
		}
		if err := p.checkRange(float64(n)); err != nil {
			return nil, err
		}
		return n, nil
	case FloatParam:
		f, err := toFloat64(value)
		if err != nil {
			return nil, fmt.Errorf("parameter %q must be a number", p.Name)
		}
		if err := p.checkRange(f); err != nil {
			return nil, err
		}
		return f, nil
	case BoolParam:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("parameter %q must be a boolean", p.Name)
		}
		return b, nil
	case TimeParam:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("parameter %q must be an RFC 3339 timestamp", p.Name)
		}
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("parameter %q must be an RFC 3339 timestamp", p.Name)
		}
		return ts, nil
	default:
		return nil, fmt.Errorf("parameter %q has unknown type %q", p.Name, p.Type)
	}
}

func (p ParamSpec) checkRange(value float64) error {
	if p.Min != nil && value < *p.Min {
		return fmt.Errorf("parameter %q below minimum %s", p.Name, formatBound(*p.Min))
	}
	if p.Max != nil && value > *p.Max {
		return fmt.Errorf("parameter %q above maximum %s", p.Name, formatBound(*p.Max))
	}
	return nil
}

func formatBound(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		// JSON numbers decode as float64.
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("not an integer")
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("not an integer")
	}
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("not a number")
	}
}
