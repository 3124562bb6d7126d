// Package types contains common types shared between layers.
package types

import (
	"github.com/cuatro-costuras/pitchboard/internal/domain/consistency"
	"github.com/cuatro-costuras/pitchboard/internal/domain/rates"
)

// Entry is one row of a pitch-type consistency board. Score is the
// movement consistency score (lower is more repeatable); Rank is the
// competition rank within the pitch type, 1 = most consistent.
type Entry struct {
	Rank       int     `json:"rank"`
	Pitcher    string  `json:"pitcher"`
	PitchType  string  `json:"pitch_type"`
	Score      float64 `json:"score"`
	Size       int     `json:"size"`
	Percentile float64 `json:"percentile"`
}

// ArsenalPitch is one pitch type in a player's arsenal. Movement means
// are polarity-adjusted for display; Score is absent when the group is
// too small to rank.
type ArsenalPitch struct {
	PitchType     string   `json:"pitch_type"`
	Name          string   `json:"name"`
	Count         int      `json:"count"`
	Usage         float64  `json:"usage"`
	MeanVelocity  float64  `json:"mean_velocity"`
	MeanHorzBreak float64  `json:"mean_horz_break"`
	MeanVertBreak float64  `json:"mean_vert_break"`
	Score         *float64 `json:"score,omitempty"`
}

// Arsenal is a player's repertoire with per-pitch-type usage and shape.
type Arsenal struct {
	Pitcher      string         `json:"pitcher"`
	TotalPitches int            `json:"total_pitches"`
	Unit         string         `json:"unit"`
	Pitches      []ArsenalPitch `json:"pitches"`
}

// RatePercentiles are league standings for the card's headline rates
// among qualified pitchers; 100 is the best qualified peer.
type RatePercentiles struct {
	QualifiedPeers int     `json:"qualified_peers"`
	KMinusBB       float64 `json:"k_minus_bb"`
	RaceTo2K       float64 `json:"race_to_2k"`
	PutAway        float64 `json:"put_away"`
}

// PlayerCard is the full player summary: season rate stats, league
// percentiles, and the arsenal.
type PlayerCard struct {
	Pitcher     string          `json:"pitcher"`
	Rates       rates.Summary   `json:"rates"`
	Percentiles RatePercentiles `json:"percentiles"`
	Arsenal     Arsenal         `json:"arsenal"`
}

// MovementReport is the movement distribution of one pitcher/pitch-type
// group: the profile plus per-axis histograms, in raw (unadjusted)
// movement values.
type MovementReport struct {
	Pitcher    string                `json:"pitcher"`
	PitchType  string                `json:"pitch_type"`
	Name       string                `json:"name"`
	Unit       string                `json:"unit"`
	Bins       int                   `json:"bins"`
	Profile    consistency.Profile   `json:"profile"`
	Horizontal consistency.Histogram `json:"horizontal"`
	Vertical   consistency.Histogram `json:"vertical"`
}
