// Package pitch contains the observation model for a single thrown pitch
// together with the pitch-type code registry, handedness, movement units
// and polarity normalization.
package pitch

// Hand is a pitcher's throwing hand.
type Hand string

// Throwing hands as encoded in the source data.
const (
	Right Hand = "R"
	Left  Hand = "L"
)

// Observation is one thrown pitch as read from a Statcast season file.
// Movement values are stored in the file's native unit, feet.
type Observation struct {
	Pitcher      string  // "Last, First" as in the source data
	Type         Type    // pitch-type code
	HorzBreak    float64 // horizontal movement (pfx_x), feet
	VertBreak    float64 // vertical movement (pfx_z), feet
	ReleaseSpeed float64 // mph
	Throws       Hand
	Balls        int    // count before the pitch
	Strikes      int    // count before the pitch
	Event        string // plate-appearance outcome, set on the final pitch only
	Zone         int    // 1-9 inside the strike zone, 11-14 outside, 0 unknown
	GamePK       int64  // game identifier
	AtBat        int    // at-bat number within the game
}

// PAKey identifies one plate appearance within a season.
type PAKey struct {
	GamePK int64
	AtBat  int
}

// PA returns the plate-appearance key of the observation.
func (o Observation) PA() PAKey {
	return PAKey{GamePK: o.GamePK, AtBat: o.AtBat}
}

// Strikeout reports whether the observation ended its plate appearance
// with a strikeout.
func (o Observation) Strikeout() bool {
	return o.Event == "strikeout" || o.Event == "strikeout_double_play"
}

// Walk reports whether the observation ended its plate appearance with a walk.
func (o Observation) Walk() bool {
	return o.Event == "walk"
}

// Terminal reports whether the observation is the final pitch of its
// plate appearance.
func (o Observation) Terminal() bool {
	return o.Event != ""
}

// InZone reports whether the pitch crossed the strike zone (zones 1-9).
func (o Observation) InZone() bool {
	return o.Zone >= 1 && o.Zone <= 9
}
