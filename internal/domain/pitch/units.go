package pitch

// Unit is the unit movement values are reported in. Source files carry
// movement in feet; most presentation uses inches.
type Unit string

const (
	Feet   Unit = "feet"
	Inches Unit = "inches"
)

// inchesPerFoot converts the source unit to inches.
const inchesPerFoot = 12.0

// FromFeet converts a movement value from the native file unit to u.
func (u Unit) FromFeet(v float64) float64 {
	if u == Inches {
		return v * inchesPerFoot
	}
	return v
}

// Valid reports whether u is a recognized unit.
func (u Unit) Valid() bool {
	return u == Feet || u == Inches
}
