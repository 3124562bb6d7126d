// Package dataset loads Statcast season files and caches month shards.
package dataset

import (
	"context"
	"errors"

	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
	"github.com/cuatro-costuras/pitchboard/pkg/logger"
	"github.com/cuatro-costuras/pitchboard/pkg/metrics"
)

// Source provides pitch observations for one month of a season.
type Source interface {
	// LoadMonth returns all usable observations for the given season and
	// month. Returns ErrMonthMissing when no file exists for the month.
	LoadMonth(ctx context.Context, season, month int) ([]pitch.Observation, error)
}

// LoadSeason loads the given months through src and concatenates them in
// month order. Missing months are skipped with a warning; any other
// failure aborts the load.
func LoadSeason(ctx context.Context, src Source, season int, months []int) ([]pitch.Observation, error) {
	log := logger.Get().Named("dataset")

	var rows []pitch.Observation
	for _, month := range months {
		obs, err := src.LoadMonth(ctx, season, month)
		if errors.Is(err, ErrMonthMissing) {
			metrics.RecordDatasetMonthMissing()
			log.Warn(ctx, "month file missing, skipping",
				logger.Int("season", season),
				logger.Int("month", month))
			continue
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, obs...)
	}

	return rows, nil
}
