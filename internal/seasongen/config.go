package seasongen

import "time"

// Config holds configuration for a generator run.
type Config struct {
	OutDir     string // directory the month files are written to
	Season     int    // season year stamped into the file names
	StartMonth int    // first month to generate, inclusive
	EndMonth   int    // last month to generate, inclusive
	Pitchers   int    // number of synthetic pitchers
	Games      int    // games per pitcher per month
	Workers    int    // number of concurrent generation workers
	Seed       uint64 // RNG seed; the same seed reproduces the same season
	Gzip       bool   // write .csv.gz instead of .csv
	LogFile    string // log file for generator output
	Verbose    bool   // enable verbose logging
}

// Stats holds generator run statistics.
type Stats struct {
	PitchersBuilt    int
	PlateAppearances int
	RowsGenerated    int
	FilesWritten     int
	RowsVerified     int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
