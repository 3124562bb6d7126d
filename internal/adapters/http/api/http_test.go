package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cuatro-costuras/pitchboard/internal/adapters/http/api"
	repository "github.com/cuatro-costuras/pitchboard/internal/adapters/repository"
	service "github.com/cuatro-costuras/pitchboard/internal/app"
	"github.com/cuatro-costuras/pitchboard/internal/domain/consistency"
	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
	"github.com/cuatro-costuras/pitchboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockService implements api.Dependencies with canned values and records
// the parameters of the last call.
type mockService struct {
	players []string

	summary    types.PlayerCard
	summaryErr error

	arsenal    types.Arsenal
	arsenalErr error

	entry          types.Entry
	consistencyErr error

	board          []types.Entry
	leaderboardErr error

	report      types.MovementReport
	movementErr error

	lastPlayer string
	lastCode   pitch.Type
	lastBins   int
	lastLimit  int
}

func (m *mockService) Players(ctx context.Context) []string {
	return m.players
}

func (m *mockService) Summary(ctx context.Context, player string) (types.PlayerCard, error) {
	m.lastPlayer = player
	if m.summaryErr != nil {
		return types.PlayerCard{}, m.summaryErr
	}
	return m.summary, nil
}

func (m *mockService) Arsenal(ctx context.Context, player string) (types.Arsenal, error) {
	m.lastPlayer = player
	if m.arsenalErr != nil {
		return types.Arsenal{}, m.arsenalErr
	}
	return m.arsenal, nil
}

func (m *mockService) Consistency(ctx context.Context, player string, code pitch.Type) (types.Entry, error) {
	m.lastPlayer = player
	m.lastCode = code
	if m.consistencyErr != nil {
		return types.Entry{}, m.consistencyErr
	}
	return m.entry, nil
}

func (m *mockService) Leaderboard(ctx context.Context, code pitch.Type, n int) ([]types.Entry, error) {
	m.lastCode = code
	m.lastLimit = n
	if m.leaderboardErr != nil {
		return nil, m.leaderboardErr
	}
	if n > len(m.board) {
		return m.board, nil
	}
	return m.board[:n], nil
}

func (m *mockService) MovementProfile(ctx context.Context, player string, code pitch.Type, bins int) (types.MovementReport, error) {
	m.lastPlayer = player
	m.lastCode = code
	m.lastBins = bins
	if m.movementErr != nil {
		return types.MovementReport{}, m.movementErr
	}
	return m.report, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

// Local mirror of the error payload shape.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		svc := &mockService{
			players: []string{"Cole, Gerrit", "Sale, Chris"},
			board:   []types.Entry{{Rank: 1, Pitcher: "Cole, Gerrit", PitchType: "FF", Score: 1.2}},
			entry:   types.Entry{Rank: 1, Pitcher: "Cole, Gerrit", PitchType: "FF", Score: 1.2},
		}
		statsProvider := &mockStatsProvider{stats: map[string]interface{}{"installed": true}}
		server := api.NewServer(svc, statsProvider, 100)
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux)

			Convey("Then the health endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/healthz", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And the stats endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/stats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And the players endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/players", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And the player summary endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/players/Cole,%20Gerrit/summary", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(svc.lastPlayer, ShouldEqual, "Cole, Gerrit")
			})

			Convey("And the consistency endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/consistency?player=Cole,+Gerrit&pitch_type=FF", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And the leaderboard endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/leaderboard?pitch_type=FF&limit=10", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And the movement endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/movement?player=Cole,+Gerrit&pitch_type=FF", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And unknown routes should fall through to 404", func() {
				req := httptest.NewRequest("GET", "/unknown", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And every response should carry a request id", func() {
				req := httptest.NewRequest("GET", "/players", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
			})

			Convey("And a caller-provided request id should be echoed", func() {
				req := httptest.NewRequest("GET", "/players", nil)
				req.Header.Set("X-Request-ID", "req-42")
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Header().Get("X-Request-ID"), ShouldEqual, "req-42")
			})
		})
	})
}

func TestPlayersHandler(t *testing.T) {
	Convey("Given a players handler", t, func() {
		svc := &mockService{
			players: []string{"Cole, Gerrit", "Gausman, Kevin"},
			summary: types.PlayerCard{
				Pitcher: "Cole, Gerrit",
				Percentiles: types.RatePercentiles{
					QualifiedPeers: 120,
					KMinusBB:       88.5,
				},
			},
			arsenal: types.Arsenal{
				Pitcher:      "Cole, Gerrit",
				TotalPitches: 2500,
				Unit:         "inches",
				Pitches: []types.ArsenalPitch{
					{PitchType: "FF", Name: "Four-Seam Fastball", Count: 1400, Usage: 56},
				},
			},
		}
		handler := api.NewPlayersHandler(svc)

		Convey("When listing players", func() {
			req := httptest.NewRequest("GET", "/players", nil)
			w := httptest.NewRecorder()
			handler.HandleListPlayers(w, req)

			Convey("Then it should return the sorted names", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var names []string
				So(json.NewDecoder(w.Body).Decode(&names), ShouldBeNil)
				So(names, ShouldResemble, []string{"Cole, Gerrit", "Gausman, Kevin"})
			})
		})

		Convey("When fetching a player summary", func() {
			req := httptest.NewRequest("GET", "/players/Cole,%20Gerrit/summary", nil)
			w := httptest.NewRecorder()
			handler.HandlePlayerResource(w, req)

			Convey("Then it should return the card with the decoded name", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(svc.lastPlayer, ShouldEqual, "Cole, Gerrit")

				var card types.PlayerCard
				So(json.NewDecoder(w.Body).Decode(&card), ShouldBeNil)
				So(card.Pitcher, ShouldEqual, "Cole, Gerrit")
				So(card.Percentiles.QualifiedPeers, ShouldEqual, 120)
			})
		})

		Convey("When fetching a player arsenal", func() {
			req := httptest.NewRequest("GET", "/players/Cole,%20Gerrit/arsenal", nil)
			w := httptest.NewRecorder()
			handler.HandlePlayerResource(w, req)

			Convey("Then it should return the repertoire", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var arsenal types.Arsenal
				So(json.NewDecoder(w.Body).Decode(&arsenal), ShouldBeNil)
				So(arsenal.TotalPitches, ShouldEqual, 2500)
				So(arsenal.Pitches, ShouldHaveLength, 1)
				So(arsenal.Pitches[0].Score, ShouldBeNil)
			})
		})

		Convey("When the player is unknown", func() {
			svc.summaryErr = fmt.Errorf("%w: %q", service.ErrUnknownPlayer, "Nobody, Nemo")
			req := httptest.NewRequest("GET", "/players/Nobody,%20Nemo/summary", nil)
			w := httptest.NewRecorder()
			handler.HandlePlayerResource(w, req)

			Convey("Then it should return not found with a typed body", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)

				var resp errorResponse
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "not_found")
				So(resp.Message, ShouldContainSubstring, "unknown player")
			})
		})

		Convey("When the subresource is missing", func() {
			req := httptest.NewRequest("GET", "/players/Cole,%20Gerrit", nil)
			w := httptest.NewRecorder()
			handler.HandlePlayerResource(w, req)

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the subresource is unknown", func() {
			req := httptest.NewRequest("GET", "/players/Cole,%20Gerrit/velocity", nil)
			w := httptest.NewRecorder()
			handler.HandlePlayerResource(w, req)

			Convey("Then it should return not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When using a non-GET method", func() {
			req := httptest.NewRequest("POST", "/players", nil)
			w := httptest.NewRecorder()
			handler.HandleListPlayers(w, req)

			Convey("Then it should return not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestConsistencyHandler(t *testing.T) {
	Convey("Given a consistency handler", t, func() {
		svc := &mockService{
			entry: types.Entry{
				Rank:       3,
				Pitcher:    "Cole, Gerrit",
				PitchType:  "FF",
				Score:      1.87,
				Size:       1400,
				Percentile: 97.5,
			},
		}
		handler := api.NewConsistencyHandler(svc)

		Convey("When requesting an existing group", func() {
			req := httptest.NewRequest("GET", "/consistency?player=Cole,+Gerrit&pitch_type=FF", nil)
			w := httptest.NewRecorder()
			handler.HandleGetConsistency(w, req)

			Convey("Then it should return the entry", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var entry types.Entry
				So(json.NewDecoder(w.Body).Decode(&entry), ShouldBeNil)
				So(entry.Rank, ShouldEqual, 3)
				So(entry.Score, ShouldEqual, 1.87)
				So(entry.Percentile, ShouldEqual, 97.5)
			})
		})

		Convey("When the pitch type is lowercase", func() {
			req := httptest.NewRequest("GET", "/consistency?player=Cole,+Gerrit&pitch_type=ff", nil)
			w := httptest.NewRecorder()
			handler.HandleGetConsistency(w, req)

			Convey("Then it should be accepted and normalized", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(svc.lastCode, ShouldEqual, pitch.FourSeam)
			})
		})

		Convey("When the player parameter is missing", func() {
			req := httptest.NewRequest("GET", "/consistency?pitch_type=FF", nil)
			w := httptest.NewRecorder()
			handler.HandleGetConsistency(w, req)

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var resp errorResponse
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Message, ShouldContainSubstring, "missing player")
			})
		})

		Convey("When the pitch type is unknown", func() {
			req := httptest.NewRequest("GET", "/consistency?player=Cole,+Gerrit&pitch_type=XX", nil)
			w := httptest.NewRecorder()
			handler.HandleGetConsistency(w, req)

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the group does not exist", func() {
			svc.consistencyErr = fmt.Errorf("%w: Cole, Gerrit|KN", service.ErrUnknownGroup)
			req := httptest.NewRequest("GET", "/consistency?player=Cole,+Gerrit&pitch_type=KN", nil)
			w := httptest.NewRecorder()
			handler.HandleGetConsistency(w, req)

			Convey("Then it should return not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the group is too small to score", func() {
			svc.consistencyErr = fmt.Errorf("%w: group has 1 pitch(es), needs 2",
				consistency.ErrInsufficientSample)
			req := httptest.NewRequest("GET", "/consistency?player=Cole,+Gerrit&pitch_type=CS", nil)
			w := httptest.NewRecorder()
			handler.HandleGetConsistency(w, req)

			Convey("Then it should return unprocessable entity, not a zero score", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)

				var resp errorResponse
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "insufficient_sample")
			})
		})

		Convey("When the backend fails unexpectedly", func() {
			svc.consistencyErr = fmt.Errorf("board corrupted")
			req := httptest.NewRequest("GET", "/consistency?player=Cole,+Gerrit&pitch_type=FF", nil)
			w := httptest.NewRecorder()
			handler.HandleGetConsistency(w, req)

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestLeaderboardHandler(t *testing.T) {
	Convey("Given a leaderboard handler", t, func() {
		svc := &mockService{
			board: []types.Entry{
				{Rank: 1, Pitcher: "Cole, Gerrit", PitchType: "FF", Score: 1.1, Percentile: 100},
				{Rank: 2, Pitcher: "Gausman, Kevin", PitchType: "FF", Score: 1.4, Percentile: 66.7},
				{Rank: 3, Pitcher: "Sale, Chris", PitchType: "FF", Score: 1.9, Percentile: 33.3},
			},
		}
		handler := api.NewLeaderboardHandler(svc, 100)

		Convey("When requesting the top N entries", func() {
			req := httptest.NewRequest("GET", "/leaderboard?pitch_type=FF&limit=2", nil)
			w := httptest.NewRecorder()
			handler.HandleGetLeaderboard(w, req)

			Convey("Then it should return the top N entries", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var entries []types.Entry
				So(json.NewDecoder(w.Body).Decode(&entries), ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].Pitcher, ShouldEqual, "Cole, Gerrit")
				So(entries[1].Pitcher, ShouldEqual, "Gausman, Kevin")
				So(svc.lastCode, ShouldEqual, pitch.FourSeam)
				So(svc.lastLimit, ShouldEqual, 2)
			})
		})

		Convey("When no limit is specified", func() {
			req := httptest.NewRequest("GET", "/leaderboard?pitch_type=FF", nil)
			w := httptest.NewRecorder()
			handler.HandleGetLeaderboard(w, req)

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the limit exceeds the configured maximum", func() {
			req := httptest.NewRequest("GET", "/leaderboard?pitch_type=FF&limit=5000", nil)
			w := httptest.NewRecorder()
			handler.HandleGetLeaderboard(w, req)

			Convey("Then it should return bad request with the limit code", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var resp errorResponse
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When the pitch type is missing", func() {
			req := httptest.NewRequest("GET", "/leaderboard?limit=10", nil)
			w := httptest.NewRecorder()
			handler.HandleGetLeaderboard(w, req)

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the backend rejects the limit", func() {
			svc.leaderboardErr = fmt.Errorf("%w: 10", repository.ErrInvalidLimit)
			req := httptest.NewRequest("GET", "/leaderboard?pitch_type=FF&limit=10", nil)
			w := httptest.NewRecorder()
			handler.HandleGetLeaderboard(w, req)

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the backend fails unexpectedly", func() {
			svc.leaderboardErr = fmt.Errorf("board corrupted")
			req := httptest.NewRequest("GET", "/leaderboard?pitch_type=FF&limit=10", nil)
			w := httptest.NewRecorder()
			handler.HandleGetLeaderboard(w, req)

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestMovementHandler(t *testing.T) {
	Convey("Given a movement handler", t, func() {
		svc := &mockService{
			report: types.MovementReport{
				Pitcher:   "Cole, Gerrit",
				PitchType: "SL",
				Name:      "Slider",
				Unit:      "inches",
				Bins:      30,
			},
		}
		handler := api.NewMovementHandler(svc)

		Convey("When requesting a profile without bins", func() {
			req := httptest.NewRequest("GET", "/movement?player=Cole,+Gerrit&pitch_type=SL", nil)
			w := httptest.NewRecorder()
			handler.HandleGetMovement(w, req)

			Convey("Then the default bin count applies", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(svc.lastBins, ShouldEqual, 30)

				var report types.MovementReport
				So(json.NewDecoder(w.Body).Decode(&report), ShouldBeNil)
				So(report.Name, ShouldEqual, "Slider")
			})
		})

		Convey("When requesting a profile with explicit bins", func() {
			req := httptest.NewRequest("GET", "/movement?player=Cole,+Gerrit&pitch_type=SL&bins=12", nil)
			w := httptest.NewRecorder()
			handler.HandleGetMovement(w, req)

			Convey("Then the bin count is passed through", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(svc.lastBins, ShouldEqual, 12)
			})
		})

		Convey("When bins is not an integer", func() {
			req := httptest.NewRequest("GET", "/movement?player=Cole,+Gerrit&pitch_type=SL&bins=lots", nil)
			w := httptest.NewRecorder()
			handler.HandleGetMovement(w, req)

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the backend rejects the bin count", func() {
			svc.movementErr = fmt.Errorf("%w: -3", consistency.ErrInvalidBins)
			req := httptest.NewRequest("GET", "/movement?player=Cole,+Gerrit&pitch_type=SL&bins=-3", nil)
			w := httptest.NewRecorder()
			handler.HandleGetMovement(w, req)

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the group is too small to profile", func() {
			svc.movementErr = fmt.Errorf("profile: %w", consistency.ErrInsufficientSample)
			req := httptest.NewRequest("GET", "/movement?player=Cole,+Gerrit&pitch_type=KN", nil)
			w := httptest.NewRecorder()
			handler.HandleGetMovement(w, req)

			Convey("Then it should return unprocessable entity", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			})
		})

		Convey("When the player parameter is missing", func() {
			req := httptest.NewRequest("GET", "/movement?pitch_type=SL", nil)
			w := httptest.NewRecorder()
			handler.HandleGetMovement(w, req)

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling a health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return OK status", func() {
				handler.HandleHealth(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]interface{}{
				"installed": true,
				"players":   734,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling a stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return the stats", func() {
				handler.HandleStats(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response map[string]interface{}
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response["installed"], ShouldEqual, true)
				So(response["players"], ShouldEqual, 734)
			})
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given a handler wrapped with request id middleware", t, func() {
		var seen string
		wrapped := api.RequestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		Convey("When the caller sends no request id", func() {
			req := httptest.NewRequest("GET", "/players", nil)
			w := httptest.NewRecorder()
			wrapped(w, req)

			Convey("Then one is generated and visible to the handler", func() {
				So(w.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
				So(seen, ShouldEqual, w.Header().Get("X-Request-ID"))
			})
		})

		Convey("When the caller sends a request id", func() {
			req := httptest.NewRequest("GET", "/players", nil)
			req.Header.Set("X-Request-ID", "req-7")
			w := httptest.NewRecorder()
			wrapped(w, req)

			Convey("Then it is preserved end to end", func() {
				So(w.Header().Get("X-Request-ID"), ShouldEqual, "req-7")
				So(seen, ShouldEqual, "req-7")
			})
		})
	})
}
