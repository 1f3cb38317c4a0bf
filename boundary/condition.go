package boundary

import (
	"fmt"
	"strings"
)

// Condition identifies a concrete boundary method.
type Condition uint16

const (
	// BounceBack reflects the outgoing distribution at the wall
	BounceBack Condition = iota

	// AntiBounceBack reflects with a sign flip, for Dirichlet scalar
	// conditions
	AntiBounceBack

	// BouzidiBounceBack interpolates two interior readings by wall
	// distance for second order accuracy on non grid-aligned walls
	BouzidiBounceBack

	// BouzidiAntiBounceBack is the interpolated anti bounce-back
	BouzidiAntiBounceBack

	// Neumann copies the interior value outward, zero gradient
	Neumann

	// NeumannX, NeumannY, NeumannZ restrict the zero gradient copy to a
	// single axis
	NeumannX
	NeumannY
	NeumannZ
)

// String returns the string representation of a Condition
func (c Condition) String() string {
	names := map[Condition]string{
		BounceBack:            "BounceBack",
		AntiBounceBack:        "AntiBounceBack",
		BouzidiBounceBack:     "BouzidiBounceBack",
		BouzidiAntiBounceBack: "BouzidiAntiBounceBack",
		Neumann:               "Neumann",
		NeumannX:              "NeumannX",
		NeumannY:              "NeumannY",
		NeumannZ:              "NeumannZ",
	}
	if name, ok := names[c]; ok {
		return name
	}
	return "Unknown"
}

// axis returns the restricted axis of the axis-limited Neumann variants,
// -1 for every other condition.
func (c Condition) axis() int {
	switch c {
	case NeumannX:
		return 0
	case NeumannY:
		return 1
	case NeumannZ:
		return 2
	}
	return -1
}

// ConditionNameMap maps configuration file names to conditions. Keys are
// lowercase for case-insensitive matching.
var ConditionNameMap = map[string]Condition{
	"bounce_back":              BounceBack,
	"bounceback":               BounceBack,
	"anti_bounce_back":         AntiBounceBack,
	"antibounceback":           AntiBounceBack,
	"bouzidi_bounce_back":      BouzidiBounceBack,
	"bouzidi":                  BouzidiBounceBack,
	"bouzidi_anti_bounce_back": BouzidiAntiBounceBack,
	"neumann":                  Neumann,
	"neumann_x":                NeumannX,
	"neumann_y":                NeumannY,
	"neumann_z":                NeumannZ,
}

// ParseCondition converts a boundary condition name to a Condition. The
// matching is case-insensitive and trims whitespace; unknown names are a
// configuration error.
func ParseCondition(name string) (c Condition, err error) {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	c, ok := ConditionNameMap[lowerName]
	if !ok {
		err = fmt.Errorf("unknown boundary condition %q", name)
	}
	return
}
