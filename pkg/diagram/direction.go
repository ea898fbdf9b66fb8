package diagram

import (
	"strings"

	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
)

// Direction is the rank direction Graphviz lays the diagram out in.
type Direction string

const (
	TopBottom Direction = "TB"
	BottomTop Direction = "BT"
	LeftRight Direction = "LR"
	RightLeft Direction = "RL"
)

// ParseDirection accepts TB, BT, LR or RL in any case.
// An empty string yields TopBottom.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToUpper(strings.TrimSpace(s))); d {
	case "":
		return TopBottom, nil
	case TopBottom, BottomTop, LeftRight, RightLeft:
		return d, nil
	}
	return "", errs.New(errs.ErrCodeInvalidDefinition, "invalid direction: %q (must be TB, BT, LR or RL)", s)
}
