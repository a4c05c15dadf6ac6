package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomvoss/kickpool/internal/adapters/http/api"
	"github.com/tomvoss/kickpool/internal/app"
	"github.com/tomvoss/kickpool/internal/domain/model"
	"github.com/tomvoss/kickpool/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	reconcileCreated int
	reconcileErr     error

	matches    []model.Match
	matchesErr error

	submitResults []app.SubmitResult
	submitErr     error
	submittedFor  uint

	predictions    []model.Prediction
	predictionsErr error

	table    app.RoundTable
	tableErr error

	totals    []scoring.Total
	totalsErr error

	entries    []scoring.Entry
	entriesErr error

	applied  int
	applyErr error
}

func (m *mockDependencies) Reconcile(ctx context.Context, round int) (int, error) {
	return m.reconcileCreated, m.reconcileErr
}

func (m *mockDependencies) MatchesByRound(ctx context.Context, round int) ([]model.Match, error) {
	return m.matches, m.matchesErr
}

func (m *mockDependencies) SubmitPicks(ctx context.Context, playerID uint, picks []app.PickRequest, now time.Time) ([]app.SubmitResult, error) {
	m.submittedFor = playerID
	return m.submitResults, m.submitErr
}

func (m *mockDependencies) PredictionsByPlayer(ctx context.Context, playerID uint) ([]model.Prediction, error) {
	return m.predictions, m.predictionsErr
}

func (m *mockDependencies) BuildRoundTable(ctx context.Context, round int) (app.RoundTable, error) {
	return m.table, m.tableErr
}

func (m *mockDependencies) SeasonTotals(ctx context.Context) ([]scoring.Total, error) {
	return m.totals, m.totalsErr
}

func (m *mockDependencies) Leaderboard(ctx context.Context) ([]scoring.Entry, error) {
	return m.entries, m.entriesErr
}

func (m *mockDependencies) ApplyManualResults(ctx context.Context, entries []app.ManualEntry) (int, error) {
	return m.applied, m.applyErr
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"players": 6}}, 100)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		mux := newTestMux(deps)

		Convey("When hitting the health endpoint", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should answer", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When hitting the stats endpoint", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return the provider's stats", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]interface{}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["players"], ShouldEqual, 6)
			})
		})

		Convey("When a response passes through the middleware", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should carry a request id", func() {
				So(w.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
			})
		})

		Convey("When the caller provides a request id", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			req.Header.Set("X-Request-ID", "req-123")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should be echoed back", func() {
				So(w.Header().Get("X-Request-ID"), ShouldEqual, "req-123")
			})
		})
	})
}

func TestReconcileEndpoint(t *testing.T) {
	Convey("Given a reconcile route", t, func() {
		deps := &mockDependencies{reconcileCreated: 7}
		mux := newTestMux(deps)

		Convey("When posting a valid round", func() {
			req := httptest.NewRequest("POST", "/reconcile/10", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should report the created count", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]int
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["round"], ShouldEqual, 10)
				So(body["created"], ShouldEqual, 7)
			})
		})

		Convey("When the round is not a number", func() {
			req := httptest.NewRequest("POST", "/reconcile/abc", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the round is out of range", func() {
			deps.reconcileErr = app.ErrRoundOutOfRange
			req := httptest.NewRequest("POST", "/reconcile/99", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should map to 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var body map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["code"], ShouldEqual, "round_out_of_range")
			})
		})

		Convey("When using the wrong method", func() {
			req := httptest.NewRequest("GET", "/reconcile/10", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should not be found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestMatchesEndpoint(t *testing.T) {
	Convey("Given a matches route", t, func() {
		deps := &mockDependencies{matches: []model.Match{{ID: 1, ExternalID: 1001, Round: 10}}}
		mux := newTestMux(deps)

		Convey("When requesting a round", func() {
			req := httptest.NewRequest("GET", "/matches?round=10", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should list the stored matches", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body []model.Match
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(len(body), ShouldEqual, 1)
				So(body[0].ExternalID, ShouldEqual, 1001)
			})
		})

		Convey("When the round parameter is missing", func() {
			req := httptest.NewRequest("GET", "/matches", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestPredictionsEndpoint(t *testing.T) {
	Convey("Given a predictions route", t, func() {
		deps := &mockDependencies{
			submitResults: []app.SubmitResult{
				{MatchID: 1, Status: app.SubmitAccepted},
				{MatchID: 2, Status: app.SubmitLockedWindow},
			},
		}
		mux := newTestMux(deps)

		Convey("When submitting a batch of picks", func() {
			body := `{"player_id": 3, "picks": [{"match_id": 1, "pick": "HOME"}, {"match_id": 2, "pick": "DRAW"}]}`
			req := httptest.NewRequest("POST", "/predictions", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return per-match outcomes", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.submittedFor, ShouldEqual, 3)

				var resp struct {
					PlayerID uint               `json:"player_id"`
					Results  []app.SubmitResult `json:"results"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(len(resp.Results), ShouldEqual, 2)
				So(resp.Results[0].Status, ShouldEqual, app.SubmitAccepted)
				So(resp.Results[1].Status, ShouldEqual, app.SubmitLockedWindow)
			})
		})

		Convey("When the body is malformed", func() {
			req := httptest.NewRequest("POST", "/predictions", strings.NewReader(`{`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the batch is empty", func() {
			req := httptest.NewRequest("POST", "/predictions", strings.NewReader(`{"player_id": 3, "picks": []}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the player is unknown", func() {
			deps.submitErr = app.ErrUnknownPlayer
			body := `{"player_id": 42, "picks": [{"match_id": 1, "pick": "HOME"}]}`
			req := httptest.NewRequest("POST", "/predictions", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should map to 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When listing a player's picks", func() {
			deps.predictions = []model.Prediction{{ID: 1, PlayerID: 3, MatchID: 1, Pick: model.PickHome}}
			req := httptest.NewRequest("GET", "/predictions?player_id=3", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return them", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body []model.Prediction
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(len(body), ShouldEqual, 1)
				So(body[0].Pick, ShouldEqual, model.PickHome)
			})
		})

		Convey("When the player id is missing on a list", func() {
			req := httptest.NewRequest("GET", "/predictions", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestRoundTableEndpoint(t *testing.T) {
	Convey("Given a round table route", t, func() {
		deps := &mockDependencies{
			table: app.RoundTable{
				Round: 10,
				Rows:  []scoring.Row{{PlayerID: 1, PlayerName: "Alice", Sum: 2}},
			},
		}
		mux := newTestMux(deps)

		Convey("When requesting a round's table", func() {
			req := httptest.NewRequest("GET", "/rounds/10/table", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return the table", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body app.RoundTable
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Round, ShouldEqual, 10)
				So(body.Rows[0].PlayerName, ShouldEqual, "Alice")
			})
		})

		Convey("When the path is malformed", func() {
			req := httptest.NewRequest("GET", "/rounds/10", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestLeaderboardEndpoints(t *testing.T) {
	Convey("Given leaderboard routes", t, func() {
		deps := &mockDependencies{
			totals: []scoring.Total{
				{PlayerID: 1, PlayerName: "Alice", Points: 5},
				{PlayerID: 2, PlayerName: "Bob", Points: 3},
			},
			entries: []scoring.Entry{
				{Rank: 1, PlayerID: 1, PlayerName: "Alice", Points: 5},
				{Rank: 2, PlayerID: 2, PlayerName: "Bob", Points: 3},
			},
		}
		mux := newTestMux(deps)

		Convey("When requesting season totals", func() {
			req := httptest.NewRequest("GET", "/totals", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then every player appears", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body []scoring.Total
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(len(body), ShouldEqual, 2)
			})
		})

		Convey("When requesting the leaderboard", func() {
			req := httptest.NewRequest("GET", "/leaderboard", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should be ranked", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body []scoring.Entry
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body[0].Rank, ShouldEqual, 1)
				So(body[0].PlayerName, ShouldEqual, "Alice")
			})
		})

		Convey("When a limit truncates the leaderboard", func() {
			req := httptest.NewRequest("GET", "/leaderboard?limit=1", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then only the top entries remain", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body []scoring.Entry
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(len(body), ShouldEqual, 1)
			})
		})

		Convey("When the limit exceeds the configured maximum", func() {
			req := httptest.NewRequest("GET", "/leaderboard?limit=1000", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestManualResultsEndpoint(t *testing.T) {
	Convey("Given the admin results route", t, func() {
		deps := &mockDependencies{applied: 2}
		mux := newTestMux(deps)

		Convey("When posting valid results", func() {
			body := `{"results": [{"match_external_id": 1001, "home_score": 2, "away_score": 0}, {"match_external_id": 1002, "home_score": 1, "away_score": 1}]}`
			req := httptest.NewRequest("POST", "/admin/results", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should report the applied count", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp map[string]int
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["applied"], ShouldEqual, 2)
			})
		})

		Convey("When the batch is empty", func() {
			req := httptest.NewRequest("POST", "/admin/results", strings.NewReader(`{"results": []}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When a score is invalid", func() {
			deps.applyErr = app.ErrInvalidResult
			body := `{"results": [{"match_external_id": 1001, "home_score": -1, "away_score": 0}]}`
			req := httptest.NewRequest("POST", "/admin/results", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should map to 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var resp map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["code"], ShouldEqual, "invalid_result")
			})
		})
	})
}
