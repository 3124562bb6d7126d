package seasongen

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
	"github.com/cuatro-costuras/pitchboard/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// header lists the columns the dataset loader reads, in write order.
var header = []string{ //nolint:gochecknoglobals // fixed column contract
	"player_name", "pitch_type", "pfx_x", "pfx_z", "release_speed",
	"p_throws", "balls", "strikes", "events", "zone", "game_pk",
	"at_bat_number",
}

// writeMonth writes one month's rows as statcast_{season}_{month}.csv,
// gzip-compressed when configured. Returns the written file name.
func writeMonth(ctx context.Context, config *Config, month int, rows []pitch.Observation) (string, error) {
	if err := os.MkdirAll(config.OutDir, directoryPermission); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("statcast_%d_%02d.csv", config.Season, month)
	if config.Gzip {
		name += ".gz"
	}
	path := filepath.Join(config.OutDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	var cw *csv.Writer
	var zw *gzip.Writer
	if config.Gzip {
		zw = gzip.NewWriter(file)
		cw = csv.NewWriter(zw)
	} else {
		cw = csv.NewWriter(file)
	}

	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, len(header))
	for i := range rows {
		formatRow(&rows[i], record)
		if err := cw.Write(record); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to flush rows: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return "", fmt.Errorf("failed to close gzip stream: %w", err)
		}
	}

	logger.Get().Info(ctx, "month written",
		logger.Int("month", month),
		logger.String("file", name),
		logger.Int("rows", len(rows)))

	return name, nil
}

// formatRow fills record with o's columns in header order.
func formatRow(o *pitch.Observation, record []string) {
	record[0] = o.Pitcher
	record[1] = string(o.Type)
	record[2] = strconv.FormatFloat(o.HorzBreak, 'f', 4, 64)
	record[3] = strconv.FormatFloat(o.VertBreak, 'f', 4, 64)
	record[4] = strconv.FormatFloat(o.ReleaseSpeed, 'f', 1, 64)
	record[5] = string(o.Throws)
	record[6] = strconv.Itoa(o.Balls)
	record[7] = strconv.Itoa(o.Strikes)
	record[8] = o.Event
	record[9] = strconv.Itoa(o.Zone)
	record[10] = strconv.FormatInt(o.GamePK, 10)
	record[11] = strconv.Itoa(o.AtBat)
}
