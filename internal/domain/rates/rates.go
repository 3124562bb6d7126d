// Package rates computes plate-discipline rate statistics over sets of
// pitch observations. Every rate is matching/total x 100, and every rate
// reports 0 when its denominator is empty so results stay printable.
//
// KRate, BBRate, KMinusBB and ZoneRate are computed over the pitches they
// are given; callers choose the set. Pass one terminal pitch per plate
// appearance to get PA-based rates, or use Summarize, which derives the
// plate appearances itself.
package rates

import (
	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
)

// twoStrikes is the count-state threshold the race and put-away rates
// hinge on; counts are recorded before the pitch.
const twoStrikes = 2

// percent guards the division convention: zero total means a 0 rate.
func percent(matching, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matching) / float64(total) * 100
}

// KRate returns the share of the given pitches whose event is a strikeout.
func KRate(obs []pitch.Observation) float64 {
	n := 0
	for _, o := range obs {
		if o.Strikeout() {
			n++
		}
	}
	return percent(n, len(obs))
}

// BBRate returns the share of the given pitches whose event is a walk.
func BBRate(obs []pitch.Observation) float64 {
	n := 0
	for _, o := range obs {
		if o.Walk() {
			n++
		}
	}
	return percent(n, len(obs))
}

// KMinusBB returns the strikeout rate minus the walk rate.
func KMinusBB(obs []pitch.Observation) float64 {
	return KRate(obs) - BBRate(obs)
}

// ZoneRate returns the share of pitches inside the strike zone (zones 1-9).
func ZoneRate(obs []pitch.Observation) float64 {
	n := 0
	for _, o := range obs {
		if o.InZone() {
			n++
		}
	}
	return percent(n, len(obs))
}

// paFacts holds the per-plate-appearance facts the PA-based rates need.
type paFacts struct {
	reachedTwoStrikes bool
	wonRace           bool
	strikeout         bool
	walk              bool
}

// collectPAs groups observations into plate appearances by (game, at-bat)
// and derives the count-state facts. Balls only increase within a plate
// appearance, so any pitch at two strikes with fewer than two balls means
// the pitcher won the race regardless of pitch order.
func collectPAs(obs []pitch.Observation) map[pitch.PAKey]*paFacts {
	pas := make(map[pitch.PAKey]*paFacts)
	for _, o := range obs {
		pa := pas[o.PA()]
		if pa == nil {
			pa = &paFacts{}
			pas[o.PA()] = pa
		}
		if o.Strikes == twoStrikes {
			pa.reachedTwoStrikes = true
			if o.Balls < twoStrikes {
				pa.wonRace = true
			}
		}
		if o.Strikeout() {
			pa.strikeout = true
		}
		if o.Walk() {
			pa.walk = true
		}
	}
	return pas
}

// RaceTo2K returns the share of plate appearances in which the pitcher
// reached two strikes before two balls.
func RaceTo2K(obs []pitch.Observation) float64 {
	pas := collectPAs(obs)
	won := 0
	for _, pa := range pas {
		if pa.wonRace {
			won++
		}
	}
	return percent(won, len(pas))
}

// PutAway returns, of the plate appearances that reached two strikes, the
// share that ended in a strikeout.
func PutAway(obs []pitch.Observation) float64 {
	reached, struck := 0, 0
	for _, pa := range collectPAs(obs) {
		if !pa.reachedTwoStrikes {
			continue
		}
		reached++
		if pa.strikeout {
			struck++
		}
	}
	return percent(struck, reached)
}

// Summary bundles the rate statistics for one player card. KRate, BBRate
// and KMinusBB are plate-appearance based: one terminal outcome per PA.
type Summary struct {
	Pitches          int     `json:"pitches"`
	PlateAppearances int     `json:"plate_appearances"`
	KRate            float64 `json:"k_rate"`
	BBRate           float64 `json:"bb_rate"`
	KMinusBB         float64 `json:"k_minus_bb"`
	RaceTo2K         float64 `json:"race_to_2k"`
	PutAway          float64 `json:"put_away"`
	ZoneRate         float64 `json:"zone_rate"`
}

// Summarize computes the full rate-stat summary of an observation set.
func Summarize(obs []pitch.Observation) Summary {
	pas := collectPAs(obs)

	var k, bb, won, reached, struck int
	for _, pa := range pas {
		if pa.strikeout {
			k++
		}
		if pa.walk {
			bb++
		}
		if pa.wonRace {
			won++
		}
		if pa.reachedTwoStrikes {
			reached++
			if pa.strikeout {
				struck++
			}
		}
	}

	total := len(pas)
	return Summary{
		Pitches:          len(obs),
		PlateAppearances: total,
		KRate:            percent(k, total),
		BBRate:           percent(bb, total),
		KMinusBB:         percent(k, total) - percent(bb, total),
		RaceTo2K:         percent(won, total),
		PutAway:          percent(struck, reached),
		ZoneRate:         ZoneRate(obs),
	}
}
