package dataset_test

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cuatro-costuras/pitchboard/internal/adapters/dataset"
	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
	"github.com/cuatro-costuras/pitchboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const header = "game_pk,at_bat_number,player_name,p_throws,pitch_type,release_speed,pfx_x,pfx_z,balls,strikes,events,zone"

func writeMonth(t *testing.T, dir string, season, month int, body string) {
	t.Helper()

	name := fmt.Sprintf("statcast_%d_%02d.csv", season, month)
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write month file: %v", err)
	}
}

func writeMonthGz(t *testing.T, dir string, season, month int, body string) {
	t.Helper()

	name := fmt.Sprintf("statcast_%d_%02d.csv.gz", season, month)
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create month file: %v", err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(body)); err != nil {
		t.Fatalf("write gzip body: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close month file: %v", err)
	}
}

func TestFileSourceLoadMonth(t *testing.T) {
	ctx := context.Background()

	Convey("Given a directory with a plain month file", t, func() {
		dir := t.TempDir()
		body := header + "\n" +
			`717465,3,"Cole, Gerrit",R,FF,97.4,-0.61,1.42,1,2,strikeout,5` + "\n" +
			`717465,4,"Sale, Chris",L,SL,84.9,0.55,0.12,0,0,,11` + "\n"
		writeMonth(t, dir, 2024, 4, body)
		src := dataset.NewFileSource(dir)

		Convey("When the month is loaded", func() {
			obs, err := src.LoadMonth(ctx, 2024, 4)

			Convey("Then every column lands on the observation", func() {
				So(err, ShouldBeNil)
				So(obs, ShouldHaveLength, 2)

				first := obs[0]
				So(first.GamePK, ShouldEqual, 717465)
				So(first.AtBat, ShouldEqual, 3)
				So(first.Pitcher, ShouldEqual, "Cole, Gerrit")
				So(first.Throws, ShouldEqual, pitch.Right)
				So(first.Type, ShouldEqual, pitch.FourSeam)
				So(first.ReleaseSpeed, ShouldEqual, 97.4)
				So(first.HorzBreak, ShouldEqual, -0.61)
				So(first.VertBreak, ShouldEqual, 1.42)
				So(first.Balls, ShouldEqual, 1)
				So(first.Strikes, ShouldEqual, 2)
				So(first.Event, ShouldEqual, "strikeout")
				So(first.Zone, ShouldEqual, 5)

				second := obs[1]
				So(second.Throws, ShouldEqual, pitch.Left)
				So(second.Type, ShouldEqual, pitch.Slider)
				So(second.Event, ShouldEqual, "")
			})
		})
	})

	Convey("Given a month file with unusable rows", t, func() {
		dir := t.TempDir()
		body := header + "\n" +
			`1,1,"Good, Row",R,FF,95.0,-0.5,1.3,0,0,,5` + "\n" +
			`1,2,"Unknown, Code",R,XX,88.0,-0.2,0.9,0,0,,5` + "\n" +
			`1,3,"Bad, Movement",R,FF,95.0,abc,1.3,0,0,,5` + "\n" +
			`1,4,,R,FF,95.0,-0.5,1.3,0,0,,5` + "\n"
		writeMonth(t, dir, 2024, 5, body)
		src := dataset.NewFileSource(dir)

		Convey("When the month is loaded", func() {
			obs, err := src.LoadMonth(ctx, 2024, 5)

			Convey("Then only the usable row survives", func() {
				So(err, ShouldBeNil)
				So(obs, ShouldHaveLength, 1)
				So(obs[0].Pitcher, ShouldEqual, "Good, Row")
			})
		})
	})

	Convey("Given a gzip month file", t, func() {
		dir := t.TempDir()
		body := header + "\n" +
			`2,1,"Gz, Row",L,CU,78.1,0.9,-0.4,2,2,walk,13` + "\n"
		writeMonthGz(t, dir, 2024, 6, body)
		src := dataset.NewFileSource(dir)

		Convey("When the month is loaded", func() {
			obs, err := src.LoadMonth(ctx, 2024, 6)

			Convey("Then the compressed rows parse the same way", func() {
				So(err, ShouldBeNil)
				So(obs, ShouldHaveLength, 1)
				So(obs[0].Pitcher, ShouldEqual, "Gz, Row")
				So(obs[0].Type, ShouldEqual, pitch.Curveball)
				So(obs[0].Event, ShouldEqual, "walk")
			})
		})
	})

	Convey("Given a month with no file", t, func() {
		src := dataset.NewFileSource(t.TempDir())

		Convey("When the month is loaded", func() {
			_, err := src.LoadMonth(ctx, 2024, 7)

			Convey("Then it reports the month as missing", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, dataset.ErrMonthMissing), ShouldBeTrue)
			})
		})
	})

	Convey("Given a month file missing a required column", t, func() {
		dir := t.TempDir()
		body := "player_name,pitch_type,pfx_x\n" + `"Short, Header",FF,-0.5` + "\n"
		writeMonth(t, dir, 2024, 8, body)
		src := dataset.NewFileSource(dir)

		Convey("When the month is loaded", func() {
			_, err := src.LoadMonth(ctx, 2024, 8)

			Convey("Then it reports the bad header", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, dataset.ErrBadHeader), ShouldBeTrue)
			})
		})
	})

	Convey("Given a month file with only the required columns", t, func() {
		dir := t.TempDir()
		body := "player_name,pitch_type,pfx_x,pfx_z\n" +
			`"Minimal, Row",SI,-0.8,0.7` + "\n"
		writeMonth(t, dir, 2024, 9, body)
		src := dataset.NewFileSource(dir)

		Convey("When the month is loaded", func() {
			obs, err := src.LoadMonth(ctx, 2024, 9)

			Convey("Then missing columns default to zero values", func() {
				So(err, ShouldBeNil)
				So(obs, ShouldHaveLength, 1)
				So(obs[0].Throws, ShouldEqual, pitch.Right)
				So(obs[0].ReleaseSpeed, ShouldEqual, 0)
				So(obs[0].Zone, ShouldEqual, 0)
				So(obs[0].GamePK, ShouldEqual, 0)
			})
		})
	})
}

// countingSource counts LoadMonth calls and serves canned rows per month.
type countingSource struct {
	mu      sync.Mutex
	calls   int
	rows    map[int][]pitch.Observation
	missing map[int]bool
	failAt  int
}

func (s *countingSource) LoadMonth(_ context.Context, _ int, month int) ([]pitch.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.failAt != 0 && month == s.failAt {
		return nil, fmt.Errorf("month %d: corrupt file", month)
	}
	if s.missing[month] {
		return nil, fmt.Errorf("%w: month %d", dataset.ErrMonthMissing, month)
	}
	return s.rows[month], nil
}

func (s *countingSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func monthRows(pitcher string, n int) []pitch.Observation {
	rows := make([]pitch.Observation, n)
	for i := range rows {
		rows[i] = pitch.Observation{
			Pitcher:   pitcher,
			Type:      pitch.FourSeam,
			HorzBreak: -0.5,
			VertBreak: 1.2,
		}
	}
	return rows
}

func TestShardCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given a cache over a counting source", t, func() {
		src := &countingSource{rows: map[int][]pitch.Observation{
			4: monthRows("April, Arm", 2),
			5: monthRows("May, Arm", 3),
			6: monthRows("June, Arm", 1),
		}}
		cache := dataset.NewShardCache(src)

		Convey("When the same month is loaded twice", func() {
			first, err1 := cache.LoadMonth(ctx, 2024, 4)
			second, err2 := cache.LoadMonth(ctx, 2024, 4)

			Convey("Then the source is hit once", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(src.callCount(), ShouldEqual, 1)
				So(cache.Size(), ShouldEqual, 1)
				So(second, ShouldResemble, first)
			})
		})

		Convey("When different months are loaded", func() {
			_, err1 := cache.LoadMonth(ctx, 2024, 4)
			_, err2 := cache.LoadMonth(ctx, 2024, 5)

			Convey("Then each month hits the source once", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(src.callCount(), ShouldEqual, 2)
				So(cache.Size(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a source with a missing month", t, func() {
		src := &countingSource{missing: map[int]bool{7: true}}
		cache := dataset.NewShardCache(src)

		Convey("When the missing month is loaded twice", func() {
			_, err1 := cache.LoadMonth(ctx, 2024, 7)
			_, err2 := cache.LoadMonth(ctx, 2024, 7)

			Convey("Then failures are never cached", func() {
				So(errors.Is(err1, dataset.ErrMonthMissing), ShouldBeTrue)
				So(errors.Is(err2, dataset.ErrMonthMissing), ShouldBeTrue)
				So(src.callCount(), ShouldEqual, 2)
				So(cache.Size(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a cache bounded to two shards", t, func() {
		src := &countingSource{rows: map[int][]pitch.Observation{
			4: monthRows("April, Arm", 1),
			5: monthRows("May, Arm", 1),
			6: monthRows("June, Arm", 1),
		}}
		cache := dataset.NewShardCache(src, dataset.WithMaxShards(2))

		Convey("When a third month is loaded", func() {
			_, _ = cache.LoadMonth(ctx, 2024, 4)
			_, _ = cache.LoadMonth(ctx, 2024, 5)
			_, _ = cache.LoadMonth(ctx, 2024, 6)

			Convey("Then the oldest shard is evicted", func() {
				So(cache.Size(), ShouldEqual, 2)
				So(src.callCount(), ShouldEqual, 3)

				// Month 4 was evicted, months 5 and 6 are still cached.
				_, _ = cache.LoadMonth(ctx, 2024, 5)
				_, _ = cache.LoadMonth(ctx, 2024, 6)
				So(src.callCount(), ShouldEqual, 3)

				_, _ = cache.LoadMonth(ctx, 2024, 4)
				So(src.callCount(), ShouldEqual, 4)
			})
		})
	})
}

func TestLoadSeason(t *testing.T) {
	ctx := context.Background()

	Convey("Given a source missing one month", t, func() {
		src := &countingSource{
			rows: map[int][]pitch.Observation{
				4: monthRows("April, Arm", 2),
				6: monthRows("June, Arm", 1),
			},
			missing: map[int]bool{5: true},
		}

		Convey("When the season is loaded", func() {
			rows, err := dataset.LoadSeason(ctx, src, 2024, []int{4, 5, 6})

			Convey("Then present months concatenate in order and the gap is skipped", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 3)
				So(rows[0].Pitcher, ShouldEqual, "April, Arm")
				So(rows[1].Pitcher, ShouldEqual, "April, Arm")
				So(rows[2].Pitcher, ShouldEqual, "June, Arm")
				So(src.callCount(), ShouldEqual, 3)
			})
		})
	})

	Convey("Given a source that fails hard on one month", t, func() {
		src := &countingSource{
			rows:   map[int][]pitch.Observation{4: monthRows("April, Arm", 2)},
			failAt: 5,
		}

		Convey("When the season is loaded", func() {
			_, err := dataset.LoadSeason(ctx, src, 2024, []int{4, 5, 6})

			Convey("Then the failure aborts the load", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "corrupt")
			})
		})
	})

	Convey("Given a cache-wrapped file source", t, func() {
		dir := t.TempDir()
		body := header + "\n" +
			`1,1,"Real, File",R,FF,95.0,-0.5,1.3,0,0,,5` + "\n"
		writeMonth(t, dir, 2024, 4, body)
		writeMonthGz(t, dir, 2024, 5, body)
		cache := dataset.NewShardCache(dataset.NewFileSource(dir))

		Convey("When the season is loaded twice", func() {
			first, err1 := dataset.LoadSeason(ctx, cache, 2024, []int{4, 5, 6})
			second, err2 := dataset.LoadSeason(ctx, cache, 2024, []int{4, 5, 6})

			Convey("Then both loads see the same rows", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldHaveLength, 2)
				So(second, ShouldResemble, first)
				So(cache.Size(), ShouldEqual, 2)
			})
		})
	})
}
