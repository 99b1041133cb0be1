package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/mindgrove/cortex/internal/adapters/http/api"
	"github.com/mindgrove/cortex/internal/domain/artifact"
	"github.com/mindgrove/cortex/internal/domain/classify"
	"github.com/mindgrove/cortex/internal/domain/forecast"
	"github.com/mindgrove/cortex/internal/domain/profile"
	"github.com/mindgrove/cortex/internal/domain/recommend"
	. "github.com/smartystreets/goconvey/convey"
)

// stubDeps satisfies the handler dependencies with canned results so the
// HTTP layer can be exercised without trained artifacts.
type stubDeps struct {
	classifyErr  error
	recommendErr error
	forecastErr  error
	reloadErr    error
	loaded       bool

	lastGoal   string
	lastScores []float64
	lastDates  []time.Time
}

func (s *stubDeps) Classify(_ context.Context, sample profile.Sample) (classify.Result, error) {
	if s.classifyErr != nil {
		return classify.Result{}, s.classifyErr
	}
	return classify.Result{
		CognitiveType:   "Advanced",
		Confidence:      0.91,
		Characteristics: []string{"Excellent working memory capacity"},
		DomainStrengths: []string{"Working Memory"},
		Recommendations: []string{"Challenge yourself with expert-level activities"},
	}, nil
}

func (s *stubDeps) Recommend(_ context.Context, m profile.Metrics, goal string) (recommend.Result, error) {
	if s.recommendErr != nil {
		return recommend.Result{}, s.recommendErr
	}
	s.lastGoal = goal
	return recommend.Result{
		RecommendedActivities: []string{"n-back", "flanker"},
		SimilarProfilesFound:  9,
		Reasoning:             "Your attention (45) shows the most potential for improvement.",
	}, nil
}

func (s *stubDeps) Forecast(_ context.Context, scores []float64, dates []time.Time) (forecast.Result, error) {
	if s.forecastErr != nil {
		return forecast.Result{}, s.forecastErr
	}
	s.lastScores = scores
	s.lastDates = dates
	return forecast.Result{PredictedScoreNextWeek: 72.5, Trend: "improving", Confidence: 0.8}, nil
}

func (s *stubDeps) Reload(_ context.Context) (*artifact.Set, bool, error) {
	if s.reloadErr != nil {
		return nil, false, s.reloadErr
	}
	return &artifact.Set{ID: "snap-1", TrainedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}, true, nil
}

func (s *stubDeps) ArtifactStatus(_ context.Context) map[string]bool {
	return map[string]bool{"scaler": s.loaded}
}

func (s *stubDeps) ModelsLoaded(_ context.Context) bool { return s.loaded }

type stubStats struct{}

func (stubStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "snapshot_id": "snap-1"}
}

func newTestServer(deps *stubDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, stubStats{}).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func get(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestClassifyEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &stubDeps{loaded: true}
		srv := newTestServer(deps)
		defer srv.Close()
		url := srv.URL + "/v1/classify"

		Convey("When a valid sample is posted", func() {
			resp, body := post(t, url, `{"memory":85,"attention":80,"reaction_time":0.5,"problem_solving":85,"age":25}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["cognitive_type"], ShouldEqual, "Advanced")
			So(body["confidence"], ShouldEqual, 0.91)

			Convey("Then a request id is attached to the response", func() {
				So(resp.Header.Get("X-Request-ID"), ShouldNotBeEmpty)
			})
		})

		Convey("When a required field is missing", func() {
			resp, body := post(t, url, `{"attention":80,"reaction_time":0.5,"problem_solving":85,"age":25}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "bad_request")
			So(body["message"], ShouldEqual, "missing required field: memory")
		})

		Convey("When the body is not JSON", func() {
			resp, body := post(t, url, `{"memory":`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "bad_request")
		})

		Convey("When the sample is out of range", func() {
			deps.classifyErr = profile.ErrOutOfRange
			resp, body := post(t, url, `{"memory":120,"attention":80,"reaction_time":0.5,"problem_solving":85,"age":25}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "bad_request")
		})

		Convey("When no snapshot is loaded", func() {
			deps.classifyErr = artifact.ErrUnavailable
			resp, body := post(t, url, `{"memory":85,"attention":80,"reaction_time":0.5,"problem_solving":85,"age":25}`)
			So(resp.StatusCode, ShouldEqual, http.StatusServiceUnavailable)
			So(body["code"], ShouldEqual, "model_unavailable")
		})

		Convey("When the method is not POST", func() {
			resp, err := http.Get(url)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the caller supplies its own request id", func() {
			req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(`{"memory":85,"attention":80,"reaction_time":0.5,"problem_solving":85,"age":25}`))
			So(err, ShouldBeNil)
			req.Header.Set("X-Request-ID", "trace-42")
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.Header.Get("X-Request-ID"), ShouldEqual, "trace-42")
		})
	})
}

func TestRecommendEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &stubDeps{loaded: true}
		srv := newTestServer(deps)
		defer srv.Close()
		url := srv.URL + "/v1/recommendations"

		Convey("When valid metrics are posted", func() {
			resp, body := post(t, url, `{"memory":60,"attention":45,"reaction_time":0.9,"problem_solving":55,"goal":"attention"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(deps.lastGoal, ShouldEqual, "attention")

			activities, ok := body["recommended_activities"].([]any)
			So(ok, ShouldBeTrue)
			So(activities, ShouldResemble, []any{"n-back", "flanker"})
			So(body["similar_profiles_found"], ShouldEqual, 9)
		})

		Convey("When a metric is missing", func() {
			resp, body := post(t, url, `{"memory":60,"attention":45,"reaction_time":0.9}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["message"], ShouldEqual, "missing required field: problem_solving")
		})
	})
}

func TestForecastEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &stubDeps{loaded: true}
		srv := newTestServer(deps)
		defer srv.Close()
		url := srv.URL + "/v1/forecast"

		Convey("When a valid history is posted", func() {
			resp, body := post(t, url, `{"past_scores":[50,"55",60],"session_dates":["2026-02-01","2026-02-02","2026-02-03T10:00:00Z"]}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["predicted_score_next_week"], ShouldEqual, 72.5)
			So(body["trend"], ShouldEqual, "improving")

			Convey("Then numeric strings and timestamps were coerced", func() {
				So(deps.lastScores, ShouldResemble, []float64{50, 55, 60})
				So(deps.lastDates[2], ShouldResemble, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC))
			})
		})

		Convey("When a score is not numeric", func() {
			resp, body := post(t, url, `{"past_scores":[50,"high"],"session_dates":["2026-02-01","2026-02-02"]}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["message"], ShouldEqual, "invalid score value at position 2")
		})

		Convey("When a score is out of bounds", func() {
			resp, body := post(t, url, `{"past_scores":[50,120],"session_dates":["2026-02-01","2026-02-02"]}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["message"], ShouldEqual, "score 2 must be between 0 and 100")
		})

		Convey("When a date is malformed", func() {
			resp, body := post(t, url, `{"past_scores":[50,60],"session_dates":["2026-02-01","02/02/2026"]}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["message"], ShouldEqual, `invalid date format. Use YYYY-MM-DD: "02/02/2026"`)
		})

		Convey("When the scores field is absent", func() {
			resp, body := post(t, url, `{"session_dates":["2026-02-01"]}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["message"], ShouldEqual, "missing required field: past_scores")
		})

		Convey("When too few scores reach the forecaster", func() {
			deps.forecastErr = forecast.ErrTooFewScores
			resp, body := post(t, url, `{"past_scores":[50],"session_dates":["2026-02-01"]}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["message"], ShouldEqual, "at least 2 past scores required for prediction")
		})
	})
}

func TestHealthStatsReloadEndpoints(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &stubDeps{loaded: true}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When health is requested", func() {
			resp, body := get(t, srv.URL+"/healthz")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "healthy")
			So(body["models_loaded"], ShouldEqual, true)
			So(body["timestamp"], ShouldNotBeEmpty)
			artifacts, ok := body["artifacts"].(map[string]any)
			So(ok, ShouldBeTrue)
			So(artifacts["scaler"], ShouldEqual, true)
		})

		Convey("When stats are requested", func() {
			resp, body := get(t, srv.URL+"/stats")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["started"], ShouldEqual, true)
			So(body["snapshot_id"], ShouldEqual, "snap-1")
		})

		Convey("When a reload is requested", func() {
			resp, body := post(t, srv.URL+"/v1/models/reload", "")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "reloaded")
			So(body["snapshot_id"], ShouldEqual, "snap-1")
			So(body["retrained"], ShouldEqual, true)
		})

		Convey("When a reload fails internally", func() {
			deps.reloadErr = context.DeadlineExceeded
			resp, body := post(t, srv.URL+"/v1/models/reload", "")
			So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
			So(body["code"], ShouldEqual, "internal_error")
		})

		Convey("When metrics are scraped", func() {
			resp, err := http.Get(srv.URL + "/metrics")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}
