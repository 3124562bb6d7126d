// Package consistency computes movement-consistency scores and movement
// profiles for groups of pitches sharing a pitcher and pitch type.
//
// The score is the root of the summed sample variances of horizontal and
// vertical movement: sqrt(stddev(hb)^2 + stddev(vb)^2). Lower means the
// pitch repeats its shape more tightly. Scores are computed on raw
// movement; polarity-normalized values would erase sign variance.
package consistency

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
)

// MinSample is the smallest group a standard deviation is defined for.
const MinSample = 2

// Quantile probabilities used by movement profiles.
const (
	q1Prob     = 0.25
	medianProb = 0.5
	q3Prob     = 0.75
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithUnit sets the unit scores and profiles are reported in. Source
// movement arrives in feet; the default applies no conversion.
func WithUnit(u pitch.Unit) Option {
	return func(c *Calculator) {
		if u.Valid() {
			c.unit = u
		}
	}
}

// WithVelocity includes release-speed variance in the score, for staffs
// that treat velocity repeatability as part of consistency.
func WithVelocity(include bool) Option {
	return func(c *Calculator) {
		c.includeVelocity = include
	}
}

// Calculator computes consistency scores and movement profiles. It is
// stateless after construction and safe for concurrent use.
type Calculator struct {
	unit            pitch.Unit
	includeVelocity bool
}

// New creates a Calculator with configuration options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		unit: pitch.Feet, // native file unit, identity conversion
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Unit returns the unit the calculator reports movement in.
func (c *Calculator) Unit() pitch.Unit { return c.unit }

// Score computes the consistency score of a group of observations.
// It returns ErrInsufficientSample when the group has fewer than two
// pitches; the score is undefined there, not zero.
func (c *Calculator) Score(obs []pitch.Observation) (float64, error) {
	if len(obs) < MinSample {
		return 0, fmt.Errorf("%w: %d observation(s), need at least %d",
			ErrInsufficientSample, len(obs), MinSample)
	}

	hb := make([]float64, len(obs))
	vb := make([]float64, len(obs))
	for i, o := range obs {
		hb[i] = c.unit.FromFeet(o.HorzBreak)
		vb[i] = c.unit.FromFeet(o.VertBreak)
	}

	sx := stat.StdDev(hb, nil)
	sz := stat.StdDev(vb, nil)
	sum := sx*sx + sz*sz

	if c.includeVelocity {
		speeds := make([]float64, len(obs))
		for i, o := range obs {
			speeds[i] = o.ReleaseSpeed
		}
		sv := stat.StdDev(speeds, nil)
		sum += sv * sv
	}

	return math.Sqrt(sum), nil
}

// AxisSummary describes the distribution of movement along one axis.
type AxisSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// Profile is the movement profile of one pitch-type group.
type Profile struct {
	Size         int         `json:"size"`
	Score        float64     `json:"score"`
	Horz         AxisSummary `json:"horizontal"`
	Vert         AxisSummary `json:"vertical"`
	MeanVelocity float64     `json:"mean_velocity"`
}

// Profile computes the movement profile of a group: per-axis mean, sample
// standard deviation, median and quartiles, plus mean release speed and
// the group's consistency score. The same minimum sample applies.
func (c *Calculator) Profile(obs []pitch.Observation) (Profile, error) {
	score, err := c.Score(obs)
	if err != nil {
		return Profile{}, err
	}

	hb := make([]float64, len(obs))
	vb := make([]float64, len(obs))
	speeds := make([]float64, len(obs))
	for i, o := range obs {
		hb[i] = c.unit.FromFeet(o.HorzBreak)
		vb[i] = c.unit.FromFeet(o.VertBreak)
		speeds[i] = o.ReleaseSpeed
	}

	return Profile{
		Size:         len(obs),
		Score:        score,
		Horz:         summarizeAxis(hb),
		Vert:         summarizeAxis(vb),
		MeanVelocity: stat.Mean(speeds, nil),
	}, nil
}

// summarizeAxis computes the AxisSummary of one movement axis. Values are
// copied and sorted because gonum quantiles require sorted input. Empirical
// quantiles report the smallest sample at or above the requested fraction.
func summarizeAxis(values []float64) AxisSummary {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return AxisSummary{
		Mean:   stat.Mean(values, nil),
		StdDev: stat.StdDev(values, nil),
		Median: stat.Quantile(medianProb, stat.Empirical, sorted, nil),
		Q1:     stat.Quantile(q1Prob, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(q3Prob, stat.Empirical, sorted, nil),
	}
}
