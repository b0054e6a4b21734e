package property

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Range constrains the values a property accepts beyond its value type.
type Range interface {
	// Contains reports whether a normalized value lies in the range.
	Contains(v any) bool
	String() string
}

// ContinuousRange is an inclusive numeric interval. Infinite bounds are allowed.
type ContinuousRange struct {
	Min float64
	Max float64
}

// Well-known ranges shared by the base schema and extension schemas.
var (
	ArbitraryDoubleRange    = ContinuousRange{Min: math.Inf(-1), Max: math.Inf(1)}
	NonNegativeDoubleRange  = ContinuousRange{Min: 0, Max: math.Inf(1)}
	NonNegativeIntegerRange = ContinuousRange{Min: 0, Max: math.Inf(1)}
	TransparencyRange       = ContinuousRange{Min: 0, Max: 255}
)

// Contains reports whether v is an int or float64 within [Min, Max].
func (r ContinuousRange) Contains(v any) bool {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case float64:
		f = n
	default:
		return false
	}
	if math.IsNaN(f) {
		return false
	}
	return f >= r.Min && f <= r.Max
}

func (r ContinuousRange) String() string {
	return fmt.Sprintf("[%s, %s]", formatBound(r.Min), formatBound(r.Max))
}

func formatBound(f float64) string {
	switch {
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsInf(f, 1):
		return "+inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// DiscreteRange is a finite set of allowed string values, used by enum
// properties such as shapes and line types.
type DiscreteRange struct {
	values []string
}

// NewDiscreteRange builds a DiscreteRange; duplicate values are dropped and
// declaration order is kept.
func NewDiscreteRange(values ...string) DiscreteRange {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return DiscreteRange{values: out}
}

// Values returns a copy of the allowed values in declaration order.
func (r DiscreteRange) Values() []string {
	return slices.Clone(r.values)
}

// Contains reports whether v is one of the allowed strings.
func (r DiscreteRange) Contains(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return slices.Contains(r.values, s)
}

func (r DiscreteRange) String() string {
	return "{" + strings.Join(r.values, ", ") + "}"
}
