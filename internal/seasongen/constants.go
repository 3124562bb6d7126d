package seasongen

// Plate-appearance simulation bounds.
const (
	minPAPerGame = 14
	maxPAPerGame = 26
	maxPitchesPA = 12
)

// Per-pitch outcome probabilities. The remainder of the unit interval
// is a taken ball.
const (
	probInPlay = 0.18
	probStrike = 0.44
)

// Zone distribution: zones 1-9 are inside the strike zone, 11-14 outside.
const (
	zoneInsideCount  = 9
	zoneOutsideFirst = 11
	zoneOutsideCount = 4
)

// game_pk layout: season*1e6 + month*1e4 + pitcher*games + game. Keeps
// ids unique as long as pitchers*games stays under 10000 per month.
const (
	gamePKSeasonFactor = 1_000_000
	gamePKMonthFactor  = 10_000
)
