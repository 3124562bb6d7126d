package seasongen

import (
	"fmt"
	"math/rand/v2"

	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
)

// pitchShape is the league-average movement template of one pitch type,
// in the file unit (feet), with the horizontal sign as thrown by a
// right-hander. Left-handers mirror the horizontal center.
type pitchShape struct {
	horz  float64
	vert  float64
	speed float64
}

// shapes covers every code the loader accepts.
var shapes = map[pitch.Type]pitchShape{ //nolint:gochecknoglobals // fixed movement templates
	pitch.FourSeam:      {horz: 0.55, vert: 1.35, speed: 94.5},
	pitch.Sinker:        {horz: 1.05, vert: 0.75, speed: 93.5},
	pitch.Cutter:        {horz: -0.15, vert: 0.95, speed: 89.0},
	pitch.Splitter:      {horz: 0.45, vert: 0.35, speed: 86.5},
	pitch.Changeup:      {horz: 1.05, vert: 0.45, speed: 85.0},
	pitch.Slider:        {horz: -0.45, vert: 0.15, speed: 85.5},
	pitch.Curveball:     {horz: -0.75, vert: -0.65, speed: 79.5},
	pitch.KnuckleCurve:  {horz: -0.55, vert: -0.85, speed: 81.0},
	pitch.Sweeper:       {horz: -1.15, vert: 0.05, speed: 82.0},
	pitch.SweepingCurve: {horz: -0.95, vert: -0.25, speed: 80.5},
	pitch.SlowCurve:     {horz: -0.65, vert: -0.5, speed: 73.0},
	pitch.Knuckleball:   {horz: 0.0, vert: 0.1, speed: 77.0},
}

// secondaryCandidates are the non-fastball types a repertoire draws
// from. Slow curves and knuckleballs are gated separately; they are
// rare in any real league.
var secondaryCandidates = []pitch.Type{ //nolint:gochecknoglobals // fixed candidate order
	pitch.Cutter, pitch.Splitter, pitch.Changeup, pitch.Slider,
	pitch.Curveball, pitch.KnuckleCurve, pitch.Sweeper, pitch.SweepingCurve,
}

// Name pools for synthetic pitchers, combined as "Last, First". Past one
// full crossing a middle initial keeps names unique.
var lastNames = []string{ //nolint:gochecknoglobals // fixed name pool
	"Abbott", "Alvarez", "Bishop", "Brooks", "Carver", "Delgado",
	"Ellison", "Fountain", "Garrido", "Hale", "Ibarra", "Jennings",
	"Kessler", "Lowry", "Marsh", "Navarro", "Okafor", "Pruitt",
	"Quinn", "Rhodes", "Santana", "Thigpen", "Urias", "Vance",
	"Whitaker", "Yoder",
}

var firstNames = []string{ //nolint:gochecknoglobals // fixed name pool
	"Alex", "Bryce", "Carlos", "Dana", "Eli", "Felix", "Grant", "Hiro",
	"Ivan", "Jordan", "Kai", "Luis", "Marcus", "Nolan", "Owen", "Reese",
}

// Repertoire construction parameters.
const (
	probLeftHanded   = 0.27
	probSinkerFirst  = 0.30
	probSlowCurve    = 0.06
	probKnuckleball  = 0.03
	minSecondaries   = 2
	maxSecondaries   = 4
	fastballUsageMin = 0.35
	fastballUsageVar = 0.25

	centerJitterFeet = 0.12
	centerJitterMPH  = 1.2
	moveSigmaMin     = 0.05
	moveSigmaVar     = 0.22
	speedSigmaMin    = 0.5
	speedSigmaVar    = 0.8

	zoneRateMin = 0.40
	zoneRateVar = 0.12
	putAwayMin  = 0.40
	putAwayVar  = 0.18
)

// slot is one pitch type in a pitcher's repertoire: this pitcher's
// movement and speed centers, jitter widths, and usage share.
type slot struct {
	code       pitch.Type
	usage      float64
	horz       float64
	vert       float64
	speed      float64
	moveSigma  float64
	speedSigma float64
}

// profile is one synthetic pitcher.
type profile struct {
	name     string
	throws   pitch.Hand
	slots    []slot
	cumUsage []float64
	zoneRate float64
	putAway  float64 // third-strike chance on a two-strike strike
}

// pitcherName builds the i-th name from the pools.
func pitcherName(i int) string {
	last := lastNames[i%len(lastNames)]
	first := firstNames[(i/len(lastNames))%len(firstNames)]
	if gen := i / (len(lastNames) * len(firstNames)); gen > 0 {
		return fmt.Sprintf("%s, %s %c", last, first, 'A'+rune((gen-1)%26))
	}
	return last + ", " + first
}

// buildProfiles creates n pitcher profiles off rng. The same rng state
// always yields the same league.
func buildProfiles(rng *rand.Rand, n int) []profile {
	profiles := make([]profile, n)
	for i := range profiles {
		profiles[i] = buildProfile(rng, i)
	}
	return profiles
}

func buildProfile(rng *rand.Rand, index int) profile {
	p := profile{
		name:     pitcherName(index),
		throws:   pitch.Right,
		zoneRate: zoneRateMin + rng.Float64()*zoneRateVar,
		putAway:  putAwayMin + rng.Float64()*putAwayVar,
	}
	if rng.Float64() < probLeftHanded {
		p.throws = pitch.Left
	}

	// One primary fastball plus a shuffled handful of secondaries.
	primary := pitch.FourSeam
	if rng.Float64() < probSinkerFirst {
		primary = pitch.Sinker
	}
	codes := []pitch.Type{primary}

	candidates := make([]pitch.Type, len(secondaryCandidates))
	copy(candidates, secondaryCandidates)
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	take := minSecondaries + rng.IntN(maxSecondaries-minSecondaries+1)
	codes = append(codes, candidates[:take]...)
	if rng.Float64() < probSlowCurve {
		codes = append(codes, pitch.SlowCurve)
	}
	if rng.Float64() < probKnuckleball {
		codes = append(codes, pitch.Knuckleball)
	}

	// Usage: the fastball takes a third to a bit over half; the rest
	// split the remainder by random weights.
	fastballUsage := fastballUsageMin + rng.Float64()*fastballUsageVar
	weights := make([]float64, len(codes))
	weights[0] = 0
	var sum float64
	for i := 1; i < len(codes); i++ {
		weights[i] = 0.2 + rng.Float64()
		sum += weights[i]
	}

	p.slots = make([]slot, len(codes))
	p.cumUsage = make([]float64, len(codes))
	var cum float64
	for i, code := range codes {
		usage := fastballUsage
		if i > 0 {
			usage = (1 - fastballUsage) * weights[i] / sum
		}

		shape := shapes[code]
		horz := shape.horz + rng.NormFloat64()*centerJitterFeet
		if p.throws == pitch.Left {
			horz = -horz
		}

		p.slots[i] = slot{
			code:       code,
			usage:      usage,
			horz:       horz,
			vert:       shape.vert + rng.NormFloat64()*centerJitterFeet,
			speed:      shape.speed + rng.NormFloat64()*centerJitterMPH,
			moveSigma:  moveSigmaMin + rng.Float64()*moveSigmaVar,
			speedSigma: speedSigmaMin + rng.Float64()*speedSigmaVar,
		}
		cum += usage
		p.cumUsage[i] = cum
	}

	return p
}

// sample picks a repertoire slot by usage weight.
func (p *profile) sample(rng *rand.Rand) *slot {
	r := rng.Float64() * p.cumUsage[len(p.cumUsage)-1]
	for i := range p.cumUsage {
		if r <= p.cumUsage[i] {
			return &p.slots[i]
		}
	}
	return &p.slots[len(p.slots)-1]
}
