package seasongen

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
	"github.com/cuatro-costuras/pitchboard/pkg/logger"
)

// profileStreamSalt separates the profile-building RNG stream from the
// per-month pitch streams, so adding months never reshuffles arsenals.
const profileStreamSalt = 0x9e3779b9

// pitcherStream derives the RNG for one pitcher-month. Seeding per
// pitcher keeps output identical no matter how work is split across
// workers.
func pitcherStream(seed uint64, season, month, pitcherIdx int) *rand.Rand {
	return rand.New(rand.NewPCG(seed,
		uint64(season)<<32|uint64(month)<<16|uint64(pitcherIdx))) //nolint:gosec // deterministic synthetic data
}

// generateMonth produces every pitcher's rows for one month, ordered by
// pitcher, then game, then at-bat.
func generateMonth(ctx context.Context, config *Config, profiles []profile, month int) ([]pitch.Observation, error) {
	logger.Get().Info(ctx, "generating month",
		logger.Int("month", month),
		logger.Int("pitchers", len(profiles)))

	type pitcherResult struct {
		index int
		rows  []pitch.Observation
		err   error
	}

	resultChan := make(chan pitcherResult, len(profiles))

	// Use worker pool for pitcher generation
	workerCount := minInt(config.Workers, len(profiles))
	pitchersPerWorker := len(profiles) / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * pitchersPerWorker
		end := start + pitchersPerWorker
		if worker == workerCount-1 {
			end = len(profiles) // Last worker gets remaining pitchers
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- pitcherResult{index: i, err: ctx.Err()}
					return
				default:
					rows := generatePitcherMonth(config, &profiles[i], i, month)
					resultChan <- pitcherResult{index: i, rows: rows}
				}
			}
		}(start, end)
	}

	// Collect results
	perPitcher := make([][]pitch.Observation, len(profiles))
	total := 0
	for range profiles {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate pitcher %d: %w", result.index, result.err)
			}
			perPitcher[result.index] = result.rows
			total += len(result.rows)
		}
	}

	rows := make([]pitch.Observation, 0, total)
	for _, pr := range perPitcher {
		rows = append(rows, pr...)
	}

	logger.Get().Info(ctx, "month generated",
		logger.Int("month", month),
		logger.Int("rows", len(rows)))

	return rows, nil
}

// generatePitcherMonth simulates one pitcher's games for a month.
func generatePitcherMonth(config *Config, p *profile, pitcherIdx, month int) []pitch.Observation {
	rng := pitcherStream(config.Seed, config.Season, month, pitcherIdx)

	var rows []pitch.Observation
	for game := 0; game < config.Games; game++ {
		gamePK := int64(config.Season)*gamePKSeasonFactor +
			int64(month)*gamePKMonthFactor +
			int64(pitcherIdx)*int64(config.Games) + int64(game)

		paCount := minPAPerGame + rng.IntN(maxPAPerGame-minPAPerGame+1)
		for atBat := 1; atBat <= paCount; atBat++ {
			rows = append(rows, simulatePA(rng, p, gamePK, atBat)...)
		}
	}
	return rows
}

// simulatePA plays out one plate appearance pitch by pitch. Balls and
// strikes are recorded as the count before each pitch; the outcome event
// lands on the final pitch only.
func simulatePA(rng *rand.Rand, p *profile, gamePK int64, atBat int) []pitch.Observation {
	var rows []pitch.Observation
	balls, strikes := 0, 0

	for len(rows) < maxPitchesPA {
		s := p.sample(rng)
		o := pitch.Observation{
			Pitcher:      p.name,
			Type:         s.code,
			HorzBreak:    s.horz + rng.NormFloat64()*s.moveSigma,
			VertBreak:    s.vert + rng.NormFloat64()*s.moveSigma,
			ReleaseSpeed: s.speed + rng.NormFloat64()*s.speedSigma,
			Throws:       p.throws,
			Balls:        balls,
			Strikes:      strikes,
			Zone:         drawZone(rng, p.zoneRate),
			GamePK:       gamePK,
			AtBat:        atBat,
		}

		r := rng.Float64()
		switch {
		case r < probInPlay:
			o.Event = inPlayEvent(rng)
			return append(rows, o)
		case r < probInPlay+probStrike:
			if strikes == 2 {
				if rng.Float64() < p.putAway {
					o.Event = "strikeout"
					return append(rows, o)
				}
				// Foul with two strikes; the count holds.
			} else {
				strikes++
			}
		default:
			if balls == 3 {
				o.Event = "walk"
				return append(rows, o)
			}
			balls++
		}
		rows = append(rows, o)
	}

	// Cap runaway foul battles: the last pitch goes in play.
	rows[len(rows)-1].Event = inPlayEvent(rng)
	return rows
}

// drawZone places the pitch in zones 1-9 with probability zoneRate,
// otherwise in the outside zones 11-14.
func drawZone(rng *rand.Rand, zoneRate float64) int {
	if rng.Float64() < zoneRate {
		return 1 + rng.IntN(zoneInsideCount)
	}
	return zoneOutsideFirst + rng.IntN(zoneOutsideCount)
}

// inPlayEvent picks a ball-in-play outcome with league-ish frequencies.
func inPlayEvent(rng *rand.Rand) string {
	r := rng.Float64()
	switch {
	case r < 0.48:
		return "field_out"
	case r < 0.68:
		return "single"
	case r < 0.75:
		return "double"
	case r < 0.76:
		return "triple"
	case r < 0.80:
		return "home_run"
	case r < 0.88:
		return "force_out"
	case r < 0.94:
		return "grounded_into_double_play"
	case r < 0.96:
		return "sac_fly"
	default:
		return "field_error"
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
