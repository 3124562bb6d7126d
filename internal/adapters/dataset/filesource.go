// Package dataset loads Statcast season files and caches month shards.
package dataset

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
	"github.com/cuatro-costuras/pitchboard/pkg/logger"
	"github.com/cuatro-costuras/pitchboard/pkg/metrics"
)

// Statcast export column names.
const (
	colPitcher   = "player_name"
	colPitchType = "pitch_type"
	colHorzBreak = "pfx_x"
	colVertBreak = "pfx_z"
	colSpeed     = "release_speed"
	colThrows    = "p_throws"
	colBalls     = "balls"
	colStrikes   = "strikes"
	colEvents    = "events"
	colZone      = "zone"
	colGamePK    = "game_pk"
	colAtBat     = "at_bat_number"
)

// ctxCheckRows is how often the parser polls for cancellation.
const ctxCheckRows = 1024

// requiredColumns must be present in every month file; rows missing any of
// the remaining columns still load with zero values for those fields.
var requiredColumns = []string{colPitcher, colPitchType, colHorzBreak, colVertBreak} //nolint:gochecknoglobals // fixed column contract

// FileSource reads month files named statcast_{season}_{month:02d}.csv,
// optionally gzip-compressed with a .gz suffix, from a directory.
type FileSource struct {
	dir string
	log logger.Logger
}

// NewFileSource creates a source reading month files from dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{
		dir: dir,
		log: logger.Get().Named("dataset"),
	}
}

// LoadMonth implements Source. Rows with unknown pitch-type codes, missing
// pitcher names, or unparseable movement fields are dropped and counted.
func (s *FileSource) LoadMonth(ctx context.Context, season, month int) ([]pitch.Observation, error) {
	start := time.Now()

	r, name, err := s.open(season, month)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	obs, dropped, err := parseObservations(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	metrics.AddDatasetRowsLoaded(len(obs))
	metrics.AddDatasetRowsDropped(dropped)
	metrics.RecordDatasetLoadDuration(float64(time.Since(start).Milliseconds()))
	s.log.Info(ctx, "month loaded",
		logger.Int("season", season),
		logger.Int("month", month),
		logger.String("file", name),
		logger.Int("rows", len(obs)),
		logger.Int("dropped", dropped))

	return obs, nil
}

// open tries the plain CSV first, then the gzip variant.
func (s *FileSource) open(season, month int) (io.ReadCloser, string, error) {
	base := fmt.Sprintf("statcast_%d_%02d.csv", season, month)

	if f, err := os.Open(filepath.Join(s.dir, base)); err == nil {
		return f, base, nil
	}

	f, err := os.Open(filepath.Join(s.dir, base+".gz"))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrMonthMissing, base)
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, "", fmt.Errorf("%s: %w", base+".gz", err)
	}

	return &gzipReadCloser{zr: zr, f: f}, base + ".gz", nil
}

// gzipReadCloser closes both the gzip stream and the underlying file.
type gzipReadCloser struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipReadCloser) Close() error {
	zerr := g.zr.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

func parseObservations(ctx context.Context, r io.Reader) ([]pitch.Observation, int, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range requiredColumns {
		if _, ok := idx[required]; !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrBadHeader, required)
		}
	}

	var (
		obs     []pitch.Observation
		dropped int
		row     int
	)
	for {
		row++
		if row%ctxCheckRows == 0 {
			if err := ctx.Err(); err != nil {
				return nil, dropped, err
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, dropped, fmt.Errorf("row %d: %w", row, err)
		}

		code := pitch.ParseType(field(rec, idx, colPitchType))
		pitcher := field(rec, idx, colPitcher)
		hb, errH := strconv.ParseFloat(field(rec, idx, colHorzBreak), 64)
		vb, errV := strconv.ParseFloat(field(rec, idx, colVertBreak), 64)
		if !code.Known() || pitcher == "" || errH != nil || errV != nil {
			dropped++
			continue
		}

		o := pitch.Observation{
			Pitcher:   pitcher,
			Type:      code,
			HorzBreak: hb,
			VertBreak: vb,
			Throws:    parseHand(field(rec, idx, colThrows)),
			Event:     field(rec, idx, colEvents),
		}
		o.ReleaseSpeed, _ = strconv.ParseFloat(field(rec, idx, colSpeed), 64)
		o.Balls, _ = strconv.Atoi(field(rec, idx, colBalls))
		o.Strikes, _ = strconv.Atoi(field(rec, idx, colStrikes))
		o.Zone, _ = strconv.Atoi(field(rec, idx, colZone))
		o.GamePK, _ = strconv.ParseInt(field(rec, idx, colGamePK), 10, 64)
		o.AtBat, _ = strconv.Atoi(field(rec, idx, colAtBat))

		obs = append(obs, o)
	}

	return obs, dropped, nil
}

// field returns the named column's trimmed value, or "" when absent.
func field(rec []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// parseHand defaults to right-handed when the column is absent or carries
// anything other than L.
func parseHand(raw string) pitch.Hand {
	if strings.EqualFold(raw, string(pitch.Left)) {
		return pitch.Left
	}
	return pitch.Right
}
