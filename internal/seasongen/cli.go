package seasongen

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/cuatro-costuras/pitchboard/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seasongen_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the season generator.
func ShowHelp() {
	os.Stdout.WriteString(`Pitchboard Season Generator
===========================

Generates synthetic Statcast month files (statcast_{season}_{month}.csv)
with per-pitcher arsenals and jittered movement, for local testing.

Usage:
  go run cmd/seasongen/main.go [options]

Options:
  -out string
        Output directory for the month files (default "data")
  -season int
        Season year stamped into the file names (default 2024)
  -start-month int
        First month to generate, inclusive (default 3)
  -end-month int
        Last month to generate, inclusive (default 10)
  -pitchers int
        Number of synthetic pitchers (default 120)
  -games int
        Games per pitcher per month (default 5)
  -workers int
        Number of concurrent generation workers (default CPU cores)
  -seed uint
        RNG seed; the same seed reproduces the same season (default 1)
  -gzip
        Write gzip-compressed files (.csv.gz)
  -log string
        Log file for generator output (default: seasongen_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Generate a default season into ./data
  go run cmd/seasongen/main.go

  # A bigger league, compressed
  go run cmd/seasongen/main.go -pitchers 300 -games 6 -gzip

  # Reproduce a specific season elsewhere
  go run cmd/seasongen/main.go -seed 77 -out /tmp/statcast
`)
}
