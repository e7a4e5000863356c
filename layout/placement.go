package layout

import (
	"fmt"
	"strings"
)

// Placement is the edge of the frame the palette strip is attached to.
type Placement int

const (
	Bottom Placement = iota
	Top
	Left
	Right
)

type placementTraits struct {
	name string
	// vertical strips run along the image height and are rendered
	// horizontally, then rotated.
	vertical bool
	// leading strips sit before the image on their axis, pushing the image
	// away from the origin.
	leading bool
}

var placements = [...]placementTraits{
	Bottom: {name: "bottom"},
	Top:    {name: "top", leading: true},
	Left:   {name: "left", vertical: true, leading: true},
	Right:  {name: "right", vertical: true},
}

// Placements lists every placement in declaration order.
func Placements() []Placement {
	return []Placement{Bottom, Top, Left, Right}
}

func (p Placement) traits() placementTraits {
	if p < 0 || int(p) >= len(placements) {
		return placements[Bottom]
	}
	return placements[p]
}

func (p Placement) String() string {
	return p.traits().name
}

// Vertical reports whether the strip runs along the vertical edge and must be
// rotated before compositing.
func (p Placement) Vertical() bool {
	return p.traits().vertical
}

// ParsePlacement parses a placement name, case-insensitively.
func ParsePlacement(s string) (Placement, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, tr := range placements {
		if tr.name == s {
			return Placement(p), nil
		}
	}
	return Bottom, fmt.Errorf("unknown placement %q", s)
}

// Auto picks Right for portrait images and Bottom otherwise.
func Auto(width, height int) Placement {
	if height > width {
		return Right
	}
	return Bottom
}
