package seasongen

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cuatro-costuras/pitchboard/internal/adapters/dataset"
	"github.com/cuatro-costuras/pitchboard/pkg/logger"
)

// manifestName is the JSON sidecar describing a generator run.
const manifestName = "seasongen_manifest.json"

// manifest records what a run produced, so a dataset directory can be
// traced back to its seed and regenerated.
type manifest struct {
	RunID    string         `json:"run_id"`
	Seed     uint64         `json:"seed"`
	Season   int            `json:"season"`
	Pitchers int            `json:"pitchers"`
	Games    int            `json:"games_per_month"`
	Files    []manifestFile `json:"files"`
}

type manifestFile struct {
	Month int    `json:"month"`
	Name  string `json:"name"`
	Rows  int    `json:"rows"`
}

// Run executes a complete generator run: build arsenals, simulate and
// write each month, verify the files load back, and write the manifest.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	if err := validate(config); err != nil {
		return err
	}

	if config.Verbose {
		_ = logger.SetLevelString("debug")
	}

	runID := uuid.New().String()
	logger.Get().Info(ctx, "starting season generation",
		logger.String("runID", runID),
		logger.String("outDir", config.OutDir),
		logger.Int("season", config.Season),
		logger.Int("startMonth", config.StartMonth),
		logger.Int("endMonth", config.EndMonth),
		logger.Int("pitchers", config.Pitchers),
		logger.Int("games", config.Games),
		logger.Int("workers", config.Workers),
		logger.Any("gzip", config.Gzip))

	// Step 1: Build the league. The profile stream is independent of the
	// month range, so widening a season keeps existing arsenals.
	rng := profileStream(config.Seed)
	profiles := buildProfiles(rng, config.Pitchers)
	stats.PitchersBuilt = len(profiles)

	// Step 2: Simulate and write each month.
	m := manifest{
		RunID:    runID,
		Seed:     config.Seed,
		Season:   config.Season,
		Pitchers: config.Pitchers,
		Games:    config.Games,
	}
	for month := config.StartMonth; month <= config.EndMonth; month++ {
		rows, err := generateMonth(ctx, config, profiles, month)
		if err != nil {
			return fmt.Errorf("month %d generation failed: %w", month, err)
		}

		name, err := writeMonth(ctx, config, month, rows)
		if err != nil {
			return fmt.Errorf("month %d write failed: %w", month, err)
		}

		stats.RowsGenerated += len(rows)
		stats.FilesWritten++
		for i := range rows {
			if rows[i].Terminal() {
				stats.PlateAppearances++
			}
		}
		m.Files = append(m.Files, manifestFile{Month: month, Name: name, Rows: len(rows)})
	}

	// Step 3: Verify every file loads back with the same row count.
	if err := verifyFiles(ctx, config, m.Files, stats); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	// Step 4: Save the manifest.
	if err := writeManifest(ctx, config, &m); err != nil {
		logger.Get().Warn(ctx, "failed to save manifest", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "generation completed successfully", logger.String("runID", runID))
	return nil
}

// profileStream is the RNG the league is built from.
func profileStream(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, profileStreamSalt))
}

// validate rejects configurations the generator cannot run with.
func validate(config *Config) error {
	switch {
	case config.OutDir == "":
		return fmt.Errorf("output directory must not be empty")
	case config.StartMonth < 1 || config.EndMonth > 12 || config.StartMonth > config.EndMonth:
		return fmt.Errorf("month range %d..%d is invalid", config.StartMonth, config.EndMonth)
	case config.Pitchers < 1:
		return fmt.Errorf("pitchers must be positive")
	case config.Games < 1:
		return fmt.Errorf("games must be positive")
	case config.Pitchers*config.Games >= gamePKMonthFactor:
		return fmt.Errorf("pitchers*games must stay under %d to keep game ids unique", gamePKMonthFactor)
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	return nil
}

// verifyFiles reloads every written file through the dataset source and
// checks the row counts survive the round trip.
func verifyFiles(ctx context.Context, config *Config, files []manifestFile, stats *Stats) error {
	log.Println("🔍 Verifying written files...")

	src := dataset.NewFileSource(config.OutDir)
	for _, f := range files {
		obs, err := src.LoadMonth(ctx, config.Season, f.Month)
		if err != nil {
			return fmt.Errorf("reload month %d: %w", f.Month, err)
		}
		if len(obs) != f.Rows {
			return fmt.Errorf("month %d: wrote %d rows, loaded %d", f.Month, f.Rows, len(obs))
		}
		stats.RowsVerified += len(obs)
		log.Printf("✅ %s: %d rows", f.Name, len(obs))
	}

	log.Println("✅ All files verified")
	return nil
}

// writeManifest saves the run manifest next to the month files.
func writeManifest(ctx context.Context, config *Config, m *manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(config.OutDir, manifestName)
	if err := os.WriteFile(path, append(data, '\n'), logFilePermission); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	logger.Get().Info(ctx, "manifest saved", logger.String("path", path))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var rowsPerSecond float64
	if stats.Duration > 0 {
		rowsPerSecond = float64(stats.RowsGenerated) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("pitchersBuilt", stats.PitchersBuilt),
		logger.Int("plateAppearances", stats.PlateAppearances),
		logger.Int("rowsGenerated", stats.RowsGenerated),
		logger.Int("filesWritten", stats.FilesWritten),
		logger.Int("rowsVerified", stats.RowsVerified),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("rowsPerSecond", rowsPerSecond))
}
