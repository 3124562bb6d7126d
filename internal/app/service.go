// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/cuatro-costuras/pitchboard/internal/adapters/dataset"
	jobqueue "github.com/cuatro-costuras/pitchboard/internal/adapters/mq/queue"
	workerpool "github.com/cuatro-costuras/pitchboard/internal/adapters/mq/worker"
	repository "github.com/cuatro-costuras/pitchboard/internal/adapters/repository"
	"github.com/cuatro-costuras/pitchboard/internal/domain/consistency"
	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
	"github.com/cuatro-costuras/pitchboard/internal/domain/rates"
	"github.com/cuatro-costuras/pitchboard/internal/domain/types"
	"github.com/cuatro-costuras/pitchboard/pkg/logger"
	"github.com/cuatro-costuras/pitchboard/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize    = 10000
	defaultQualifyingPA = 50
)

// calculatorAdapter adapts the consistency.Calculator to worker.Scorer.
// The calculator is pure; the context exists for the port's sake.
type calculatorAdapter struct {
	calc *consistency.Calculator
}

func (a *calculatorAdapter) Score(_ context.Context, _ pitch.GroupKey, obs []pitch.Observation) (float64, error) {
	return a.calc.Score(obs)
}

// boardRouter routes scored groups to their pitch-type board.
type boardRouter struct {
	boards map[pitch.Type]*repository.TreapStore
}

func (b *boardRouter) Put(ctx context.Context, code pitch.Type, key string, score float64, size int) error {
	board, ok := b.boards[code]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPitchType, string(code))
	}
	return board.Put(ctx, key, score, size)
}

// rateLeague holds the sorted qualified-peer values each headline rate is
// ranked against. Slices are sorted ascending.
type rateLeague struct {
	qualified int
	kMinusBB  []float64
	raceTo2K  []float64
	putAway   []float64
}

// league is one installed season: the loaded observations indexed every
// way the queries need, plus the populated boards. Immutable once built;
// Install swaps the whole thing.
type league struct {
	season   int
	players  []string
	byPlayer map[string][]pitch.Observation
	groups   map[pitch.GroupKey][]pitch.Observation
	boards   map[pitch.Type]*repository.TreapStore
	rates    rateLeague
}

// Service implements the API dependencies for the pitch statistics system.
type Service struct {
	mu sync.RWMutex

	// Core components
	source dataset.Source
	calc   *consistency.Calculator
	league *league

	// Configuration
	workerCount     int
	queueSize       int
	minGroupSize    int
	unit            pitch.Unit
	includeVelocity bool
	qualifyingPA    int

	// Serializes Install; queries keep running off the old league meanwhile.
	installMu sync.Mutex

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of indexing worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the minimum capacity of the indexing queue. Install
// grows the queue to the group count so enqueues never drop.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMinGroupSize sets the sample size below which groups stay off the
// boards. The floor is two: a standard deviation needs two pitches.
func WithMinGroupSize(n int) Option {
	return func(s *Service) {
		if n >= consistency.MinSample {
			s.minGroupSize = n
		}
	}
}

// WithUnit sets the unit scores and movement are reported in.
func WithUnit(u pitch.Unit) Option {
	return func(s *Service) {
		if u.Valid() {
			s.unit = u
		}
	}
}

// WithVelocity includes release-speed variance in consistency scores.
func WithVelocity(include bool) Option {
	return func(s *Service) {
		s.includeVelocity = include
	}
}

// WithQualifyingPA sets the plate appearances a pitcher needs to count
// as a qualified peer in league rate percentiles.
func WithQualifyingPA(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.qualifyingPA = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Service reading observations from source.
func New(source dataset.Source, opts ...Option) *Service {
	s := &Service{
		source:       source,
		workerCount:  runtime.NumCPU(),
		queueSize:    defaultQueueSize,
		minGroupSize: consistency.MinSample,
		unit:         pitch.Feet, // native file unit
		qualifyingPA: defaultQualifyingPA,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.calc = consistency.New(
		consistency.WithUnit(s.unit),
		consistency.WithVelocity(s.includeVelocity),
	)

	return s
}

// Install loads a season through the dataset collaborator, indexes it,
// scores every pitcher/pitch-type group through the worker pool, and
// swaps the result in as the serving league. Queries keep answering from
// the previous league until the swap.
func (s *Service) Install(ctx context.Context, season int, months []int) error {
	s.installMu.Lock()
	defer s.installMu.Unlock()

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	start := time.Now()
	s.logger.Info(ctx, "installing season",
		logger.Int("season", season),
		logger.Int("months", len(months)),
	)

	obs, err := dataset.LoadSeason(ctx, s.source, season, months)
	if err != nil {
		return fmt.Errorf("load season %d: %w", season, err)
	}

	groups := pitch.GroupObservations(obs)

	byPlayer := make(map[string][]pitch.Observation)
	for _, o := range obs {
		byPlayer[o.Pitcher] = append(byPlayer[o.Pitcher], o)
	}
	players := make([]string, 0, len(byPlayer))
	for name := range byPlayer {
		players = append(players, name)
	}
	sort.Strings(players)

	groupIndex := make(map[pitch.GroupKey][]pitch.Observation, len(groups))
	boards := make(map[pitch.Type]*repository.TreapStore, len(pitch.Types()))
	for _, code := range pitch.Types() {
		boards[code] = repository.NewTreapStore(ctx, repository.WithLabel(string(code)))
	}

	// Size the queue to the group count so no enqueue ever drops.
	capacity := s.queueSize
	if len(groups) > capacity {
		capacity = len(groups)
	}
	q := jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(capacity),
		jobqueue.WithBufferSize(capacity),
	)
	pool := workerpool.NewPool(s.workerCount, q,
		&calculatorAdapter{calc: s.calc},
		&boardRouter{boards: boards},
		workerpool.WithMinGroupSize(s.minGroupSize),
	)
	pool.Start(ctx)

	for _, g := range groups {
		groupIndex[g.Key] = g.Observations
		if !q.Enqueue(ctx, g) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				_ = pool.Shutdown(context.Background())
				closeBoards(boards)
				return fmt.Errorf("install interrupted: %w", ctxErr)
			}
			s.logger.Error(ctx, "failed to enqueue group",
				logger.String("group", g.Key.String()),
			)
		}
	}

	// Close the queue and wait for the workers to drain it.
	if err := pool.Shutdown(ctx); err != nil {
		closeBoards(boards)
		return fmt.Errorf("indexing pipeline shutdown: %w", err)
	}

	ranked := 0
	for _, board := range boards {
		board.Publish()
		ranked += board.Count(ctx)
	}

	next := &league{
		season:   season,
		players:  players,
		byPlayer: byPlayer,
		groups:   groupIndex,
		boards:   boards,
		rates:    buildRateLeague(byPlayer, s.qualifyingPA),
	}

	s.mu.Lock()
	old := s.league
	s.league = next
	s.mu.Unlock()

	if old != nil {
		closeBoards(old.boards)
	}

	metrics.UpdateTotalGroups(len(groups))
	metrics.UpdateTotalPlayers(len(players))
	metrics.UpdateWorkerCount(s.workerCount)

	s.logger.Info(ctx, "season installed",
		logger.Int("season", season),
		logger.Int("pitches", len(obs)),
		logger.Int("players", len(players)),
		logger.Int("groups", len(groups)),
		logger.Int("ranked", ranked),
		logger.Int("skipped", len(groups)-ranked),
		logger.Any("took", time.Since(start)),
	)

	return nil
}

// Stop releases the serving league and its boards.
func (s *Service) Stop() {
	s.mu.Lock()
	old := s.league
	s.league = nil
	s.mu.Unlock()

	if old == nil {
		return
	}

	closeBoards(old.boards)
	s.logger.Info(context.Background(), "service stopped",
		logger.Int("season", old.season),
	)
}

func closeBoards(boards map[pitch.Type]*repository.TreapStore) {
	for _, b := range boards {
		_ = b.Close()
	}
}

// currentLeague returns the serving league, or nil before the first
// install completes.
func (s *Service) currentLeague() *league {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.league
}

// Players returns the sorted distinct pitcher names of the loaded season.
func (s *Service) Players(ctx context.Context) []string {
	lg := s.currentLeague()
	if lg == nil {
		return []string{}
	}
	out := make([]string, len(lg.players))
	copy(out, lg.players)
	return out
}

// Arsenal returns the player's repertoire with per-pitch-type usage,
// velocity, polarity-adjusted movement means and consistency scores.
func (s *Service) Arsenal(ctx context.Context, player string) (types.Arsenal, error) {
	lg := s.currentLeague()
	var obs []pitch.Observation
	if lg != nil {
		obs = lg.byPlayer[player]
	}
	if len(obs) == 0 {
		return types.Arsenal{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, player)
	}
	return s.buildArsenal(ctx, lg, player, obs), nil
}

// Consistency returns the score, rank and percentile of one group within
// its pitch-type peer population.
func (s *Service) Consistency(ctx context.Context, player string, code pitch.Type) (types.Entry, error) {
	if !code.Known() {
		return types.Entry{}, fmt.Errorf("%w: %q", ErrUnknownPitchType, string(code))
	}

	lg := s.currentLeague()
	key := pitch.GroupKey{Pitcher: player, Type: code}
	var group []pitch.Observation
	if lg != nil {
		group = lg.groups[key]
	}
	if len(group) == 0 {
		return types.Entry{}, fmt.Errorf("%w: %s", ErrUnknownGroup, key.String())
	}

	entry, err := lg.boards[code].Rank(ctx, key.String())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The group exists but is too small to rank.
			return types.Entry{}, fmt.Errorf("%w: group %s has %d pitch(es), needs %d",
				consistency.ErrInsufficientSample, key.String(), len(group), s.minGroupSize)
		}
		return types.Entry{}, fmt.Errorf("rank lookup for %s: %w", key.String(), err)
	}

	return types.Entry{
		Rank:       entry.Rank,
		Pitcher:    player,
		PitchType:  string(code),
		Score:      entry.Score,
		Size:       entry.Size,
		Percentile: entry.Percentile,
	}, nil
}

// Leaderboard returns the n most consistent groups for a pitch type.
func (s *Service) Leaderboard(ctx context.Context, code pitch.Type, n int) ([]types.Entry, error) {
	if !code.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPitchType, string(code))
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", repository.ErrInvalidLimit, n)
	}

	lg := s.currentLeague()
	if lg == nil {
		return []types.Entry{}, nil
	}

	entries, err := lg.boards[code].TopN(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("leaderboard for %s: %w", string(code), err)
	}

	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		key, _ := pitch.ParseGroupKey(e.Key)
		out[i] = types.Entry{
			Rank:       e.Rank,
			Pitcher:    key.Pitcher,
			PitchType:  string(code),
			Score:      e.Score,
			Size:       e.Size,
			Percentile: e.Percentile,
		}
	}
	return out, nil
}

// MovementProfile returns the movement distribution of one group: the
// per-axis profile plus equal-width histograms over raw movement.
func (s *Service) MovementProfile(ctx context.Context, player string, code pitch.Type, bins int) (types.MovementReport, error) {
	if !code.Known() {
		return types.MovementReport{}, fmt.Errorf("%w: %q", ErrUnknownPitchType, string(code))
	}

	lg := s.currentLeague()
	key := pitch.GroupKey{Pitcher: player, Type: code}
	var group []pitch.Observation
	if lg != nil {
		group = lg.groups[key]
	}
	if len(group) == 0 {
		return types.MovementReport{}, fmt.Errorf("%w: %s", ErrUnknownGroup, key.String())
	}

	profile, err := s.calc.Profile(group)
	if err != nil {
		return types.MovementReport{}, fmt.Errorf("profile for %s: %w", key.String(), err)
	}

	horz, vert, err := s.calc.Histograms(group, bins)
	if err != nil {
		return types.MovementReport{}, fmt.Errorf("histograms for %s: %w", key.String(), err)
	}

	return types.MovementReport{
		Pitcher:    player,
		PitchType:  string(code),
		Name:       code.Name(),
		Unit:       string(s.unit),
		Bins:       bins,
		Profile:    profile,
		Horizontal: horz,
		Vertical:   vert,
	}, nil
}

// Summary returns the player card: season rate stats, league percentiles
// among qualified pitchers, and the arsenal.
func (s *Service) Summary(ctx context.Context, player string) (types.PlayerCard, error) {
	lg := s.currentLeague()
	var obs []pitch.Observation
	if lg != nil {
		obs = lg.byPlayer[player]
	}
	if len(obs) == 0 {
		return types.PlayerCard{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, player)
	}

	sum := rates.Summarize(obs)

	return types.PlayerCard{
		Pitcher: player,
		Rates:   sum,
		Percentiles: types.RatePercentiles{
			QualifiedPeers: lg.rates.qualified,
			KMinusBB:       ratePercentile(sum.KMinusBB, lg.rates.kMinusBB),
			RaceTo2K:       ratePercentile(sum.RaceTo2K, lg.rates.raceTo2K),
			PutAway:        ratePercentile(sum.PutAway, lg.rates.putAway),
		},
		Arsenal: s.buildArsenal(ctx, lg, player, obs),
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	lg := s.currentLeague()

	stats := map[string]interface{}{
		"installed":       lg != nil,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"minGroupSize":    s.minGroupSize,
		"movementUnit":    string(s.unit),
		"includeVelocity": s.includeVelocity,
		"qualifyingPA":    s.qualifyingPA,
	}

	if lg != nil {
		ctx := context.Background()
		boardEntries := make(map[string]int, len(lg.boards))
		ranked := 0
		for code, board := range lg.boards {
			count := board.Count(ctx)
			boardEntries[string(code)] = count
			ranked += count
		}

		stats["season"] = lg.season
		stats["players"] = len(lg.players)
		stats["groups"] = len(lg.groups)
		stats["rankedGroups"] = ranked
		stats["boardEntries"] = boardEntries
		stats["qualifiedPlayers"] = lg.rates.qualified

		metrics.UpdateTotalGroups(len(lg.groups))
		metrics.UpdateTotalPlayers(len(lg.players))
	}

	return stats
}

// buildArsenal assembles the per-pitch-type view of one player's pitches.
// Movement means are polarity-adjusted and unit-converted for display;
// the score comes off the board, so undersized groups report none.
func (s *Service) buildArsenal(ctx context.Context, lg *league, player string, obs []pitch.Observation) types.Arsenal {
	arsenal := types.Arsenal{
		Pitcher:      player,
		TotalPitches: len(obs),
		Unit:         string(s.unit),
	}

	for _, code := range pitch.Types() {
		key := pitch.GroupKey{Pitcher: player, Type: code}
		group := lg.groups[key]
		if len(group) == 0 {
			continue
		}

		velo := make([]float64, len(group))
		hb := make([]float64, len(group))
		vb := make([]float64, len(group))
		for i, o := range group {
			adj := pitch.AdjustPolarity(o)
			velo[i] = o.ReleaseSpeed
			hb[i] = s.unit.FromFeet(adj.HorzBreak)
			vb[i] = s.unit.FromFeet(adj.VertBreak)
		}

		ap := types.ArsenalPitch{
			PitchType:     string(code),
			Name:          code.Name(),
			Count:         len(group),
			Usage:         float64(len(group)) / float64(len(obs)) * 100,
			MeanVelocity:  stat.Mean(velo, nil),
			MeanHorzBreak: stat.Mean(hb, nil),
			MeanVertBreak: stat.Mean(vb, nil),
		}

		if entry, err := lg.boards[code].Rank(ctx, key.String()); err == nil {
			score := entry.Score
			ap.Score = &score
		}

		arsenal.Pitches = append(arsenal.Pitches, ap)
	}

	return arsenal
}

// buildRateLeague computes each qualified pitcher's headline rates and
// sorts them for percentile lookups.
func buildRateLeague(byPlayer map[string][]pitch.Observation, qualifyingPA int) rateLeague {
	var rl rateLeague
	for _, obs := range byPlayer {
		sum := rates.Summarize(obs)
		if sum.PlateAppearances < qualifyingPA {
			continue
		}
		rl.qualified++
		rl.kMinusBB = append(rl.kMinusBB, sum.KMinusBB)
		rl.raceTo2K = append(rl.raceTo2K, sum.RaceTo2K)
		rl.putAway = append(rl.putAway, sum.PutAway)
	}
	sort.Float64s(rl.kMinusBB)
	sort.Float64s(rl.raceTo2K)
	sort.Float64s(rl.putAway)
	return rl
}

// ratePercentile reports the share of qualified peers at or below value,
// on rates where higher is better: the best qualified peer scores 100,
// the worst 100/N. An empty peer set reports 0.
func ratePercentile(value float64, sortedPeers []float64) float64 {
	if len(sortedPeers) == 0 {
		return 0
	}
	count := 0
	for _, v := range sortedPeers {
		if v > value {
			break
		}
		count++
	}
	return float64(count) / float64(len(sortedPeers)) * 100
}
