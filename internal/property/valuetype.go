package property

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/Iron-Ham/vizlex/internal/errors"
)

// ValueType is the declared type of a property's values.
type ValueType int

const (
	TypeNull         ValueType = iota // carries no value; used by the lexicon root
	TypeVisualizable                  // category grouping node (NETWORK, NODE, EDGE)
	TypeBoolean
	TypeInteger
	TypeDouble
	TypeString
	TypeColor
	TypeEnum // string restricted by a DiscreteRange
)

func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeVisualizable:
		return "visualizable"
	case TypeBoolean:
		return "boolean"
	case TypeInteger:
		return "integer"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeColor:
		return "color"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// HasValue reports whether properties of this type carry values.
func (t ValueType) HasValue() bool {
	return t != TypeNull && t != TypeVisualizable
}

// ParseValueType converts a schema string to a ValueType. "colour" and
// "float" are accepted as aliases.
func ParseValueType(s string) (ValueType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "null":
		return TypeNull, nil
	case "visualizable":
		return TypeVisualizable, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	case "integer", "int":
		return TypeInteger, nil
	case "double", "float":
		return TypeDouble, nil
	case "string":
		return TypeString, nil
	case "color", "colour":
		return TypeColor, nil
	case "enum":
		return TypeEnum, nil
	default:
		return 0, fmt.Errorf("unknown value type %q", s)
	}
}

// ValidValueTypes returns the canonical schema spellings of all value types.
func ValidValueTypes() []string {
	return []string{"null", "visualizable", "boolean", "integer", "double", "string", "color", "enum"}
}

// ParseValue converts loosely-typed input (as decoded from YAML, TOML, JSON
// or a command line) into the canonical Go representation for t:
// bool, int, float64, string or Color. A nil raw value yields (nil, nil).
func ParseValue(t ValueType, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	var (
		v   any
		err error
	)
	switch t {
	case TypeNull, TypeVisualizable:
		return nil, errors.NewValidationError(fmt.Sprintf("%s properties carry no value", t)).WithValue(raw)
	case TypeBoolean:
		v, err = cast.ToBoolE(raw)
	case TypeInteger:
		if err := checkIntRange(raw); err != nil {
			return nil, err
		}
		v, err = cast.ToIntE(raw)
	case TypeDouble:
		v, err = cast.ToFloat64E(raw)
	case TypeString, TypeEnum:
		v, err = cast.ToStringE(raw)
	case TypeColor:
		switch c := raw.(type) {
		case Color:
			return c, nil
		case string:
			v, err = ParseColor(c)
		default:
			err = fmt.Errorf("expected a hex colour string, got %T", raw)
		}
	default:
		err = fmt.Errorf("unsupported value type %d", int(t))
	}
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("not a valid %s", t)).WithValue(raw).WithCause(err)
	}
	return v, nil
}

// checkIntRange rejects numeric input that cast.ToIntE would silently
// truncate or wrap.
func checkIntRange(raw any) error {
	switch n := raw.(type) {
	case float64:
		if n != math.Trunc(n) {
			return errors.NewValidationError("not an integer").WithValue(raw)
		}
		// float64(math.MinInt) is exact; -float64(math.MinInt) is MaxInt+1.
		if n < float64(math.MinInt) || n >= -float64(math.MinInt) {
			return errors.NewValidationError("integer out of range").WithValue(raw)
		}
	case uint64:
		if n > math.MaxInt {
			return errors.NewValidationError("integer out of range").WithValue(raw)
		}
	}
	return nil
}
