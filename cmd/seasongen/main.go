package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/cuatro-costuras/pitchboard/internal/seasongen"
)

// Default configuration constants.
const (
	defaultSeason     = 2024
	defaultStartMonth = 3
	defaultEndMonth   = 10
	defaultPitchers   = 120
	defaultGames      = 5
	defaultSeed       = 1
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		outDir     = flag.String("out", "data", "Output directory for the month files")
		season     = flag.Int("season", defaultSeason, "Season year stamped into the file names")
		startMonth = flag.Int("start-month", defaultStartMonth, "First month to generate, inclusive")
		endMonth   = flag.Int("end-month", defaultEndMonth, "Last month to generate, inclusive")
		pitchers   = flag.Int("pitchers", defaultPitchers, "Number of synthetic pitchers")
		games      = flag.Int("games", defaultGames, "Games per pitcher per month")
		workers    = flag.Int("workers", runtime.NumCPU(), "Number of concurrent generation workers")
		seed       = flag.Uint64("seed", defaultSeed, "RNG seed; the same seed reproduces the same season")
		gzipOut    = flag.Bool("gzip", false, "Write gzip-compressed files (.csv.gz)")
		logFile    = flag.String("log", "", "Log file for generator output (default: seasongen_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seasongen.ShowHelp()
		return
	}

	// Setup logging
	if err := seasongen.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create generator configuration
	config := &seasongen.Config{
		OutDir:     *outDir,
		Season:     *season,
		StartMonth: *startMonth,
		EndMonth:   *endMonth,
		Pitchers:   *pitchers,
		Games:      *games,
		Workers:    *workers,
		Seed:       *seed,
		Gzip:       *gzipOut,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	// Run the generator
	if err := seasongen.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
