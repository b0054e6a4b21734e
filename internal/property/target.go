package property

import (
	"fmt"
	"strings"
)

// Target is the data category a visual property applies to.
type Target int

const (
	TargetNetwork Target = iota // whole-network properties (background, title)
	TargetNode                  // node properties (fill, shape, size)
	TargetEdge                  // edge properties (stroke, arrows)
)

func (t Target) String() string {
	switch t {
	case TargetNetwork:
		return "network"
	case TargetNode:
		return "node"
	case TargetEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// ParseTarget converts a schema string ("node", "Edge", ...) to a Target.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "network":
		return TargetNetwork, nil
	case "node":
		return TargetNode, nil
	case "edge":
		return TargetEdge, nil
	default:
		return 0, fmt.Errorf("unknown target %q (want network, node or edge)", s)
	}
}

// ValidTargets returns the schema spellings of all targets.
func ValidTargets() []string {
	return []string{"network", "node", "edge"}
}
