package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.uber.org/zap/zaptest"
	"go.viam.com/test"

	"hybrid-planner/internal/gridmap"
	"hybrid-planner/internal/hybridastar"
)

func newTestServer(t *testing.T, cfg hybridastar.Config) *httptest.Server {
	t.Helper()
	grid, err := gridmap.New(40, 40, 1, orb.Point{-10, -10})
	test.That(t, err, test.ShouldBeNil)
	logger := zaptest.NewLogger(t)

	planner, err := hybridastar.New(cfg, grid, hybridastar.WithLogger(logger))
	test.That(t, err, test.ShouldBeNil)

	ts := httptest.NewServer(newServer(planner, grid, logger).routes())
	t.Cleanup(ts.Close)
	return ts
}

func postPlan(t *testing.T, ts *httptest.Server, body string) (*http.Response, planResponse) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/plan", "application/json", strings.NewReader(body))
	test.That(t, err, test.ShouldBeNil)
	defer resp.Body.Close()

	var out planResponse
	if resp.StatusCode == http.StatusOK {
		test.That(t, json.NewDecoder(resp.Body).Decode(&out), test.ShouldBeNil)
	}
	return resp, out
}

func TestPlanEndpoint(t *testing.T) {
	cfg := hybridastar.DefaultConfig()
	cfg.GoalTolerance = 0.5
	ts := newTestServer(t, cfg)

	resp, out := postPlan(t, ts, `{"start": {"x": 0, "y": 0, "theta": 0}, "goal": {"x": 10, "y": 0, "theta": 0}}`)
	test.That(t, resp.StatusCode, test.ShouldEqual, http.StatusOK)
	test.That(t, out.Success, test.ShouldBeTrue)
	test.That(t, out.Path, test.ShouldNotBeEmpty)
	test.That(t, out.Stats.Outcome, test.ShouldEqual, "succeeded")
	test.That(t, out.Stats.PathLength, test.ShouldAlmostEqual, 10, 1e-6)

	_, err := uuid.Parse(out.RequestID)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp.Header.Get(requestIDHeader), test.ShouldEqual, out.RequestID)
}

func TestPlanEndpointFailures(t *testing.T) {
	cfg := hybridastar.DefaultConfig()
	cfg.MaxIterations = 1
	ts := newTestServer(t, cfg)

	_, out := postPlan(t, ts, `{"start": {"x": 0, "y": 0, "theta": 0}, "goal": {"x": 20, "y": 15, "theta": 3}}`)
	test.That(t, out.Success, test.ShouldBeFalse)
	test.That(t, out.Stats.Outcome, test.ShouldEqual, "iteration_limit_reached")
	test.That(t, out.Message, test.ShouldContainSubstring, "iteration limit")

	_, out = postPlan(t, ts, `{"start": {"x": -9.5, "y": 0, "theta": 0}, "goal": {"x": 10, "y": 0, "theta": 0}}`)
	test.That(t, out.Success, test.ShouldBeFalse)
	test.That(t, out.Stats, test.ShouldBeNil)
	test.That(t, out.Message, test.ShouldContainSubstring, "Start pose")

	resp, _ := postPlan(t, ts, `{"start":`)
	test.That(t, resp.StatusCode, test.ShouldEqual, http.StatusBadRequest)

	resp, err := http.Get(ts.URL + "/plan")
	test.That(t, err, test.ShouldBeNil)
	resp.Body.Close()
	test.That(t, resp.StatusCode, test.ShouldEqual, http.StatusMethodNotAllowed)
}

func TestPlanEndpointRejectsLargeBody(t *testing.T) {
	grid, err := gridmap.New(40, 40, 1, orb.Point{-10, -10})
	test.That(t, err, test.ShouldBeNil)
	logger := zaptest.NewLogger(t)
	planner, err := hybridastar.New(hybridastar.DefaultConfig(), grid)
	test.That(t, err, test.ShouldBeNil)
	handler := newServer(planner, grid, logger).routes()

	body := `{"start": {"x": 0, "y": 0, "theta": 0}, "goal": {"x": 1, "y": 0, "theta": 0}, "note": "` +
		strings.Repeat("a", maxRequestSize) + `"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader(body)))
	test.That(t, rec.Code, test.ShouldEqual, http.StatusRequestEntityTooLarge)

	// unknown fields under the cap are still accepted
	small := `{"start": {"x": 0, "y": 0, "theta": 0}, "goal": {"x": 1, "y": 0, "theta": 0}, "note": "a"}`
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader(small)))
	test.That(t, rec.Code, test.ShouldEqual, http.StatusOK)
}

func TestPlanEndpointKeepsRequestID(t *testing.T) {
	ts := newTestServer(t, hybridastar.DefaultConfig())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/plan",
		strings.NewReader(`{"start": {"x": 0, "y": 0, "theta": 0}, "goal": {"x": 1, "y": 0, "theta": 0}}`))
	test.That(t, err, test.ShouldBeNil)
	req.Header.Set(requestIDHeader, "req-42")

	resp, err := http.DefaultClient.Do(req)
	test.That(t, err, test.ShouldBeNil)
	defer resp.Body.Close()

	var out planResponse
	test.That(t, json.NewDecoder(resp.Body).Decode(&out), test.ShouldBeNil)
	test.That(t, out.RequestID, test.ShouldEqual, "req-42")
	test.That(t, out.Success, test.ShouldBeTrue)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, hybridastar.DefaultConfig())

	resp, err := http.Get(ts.URL + "/health")
	test.That(t, err, test.ShouldBeNil)
	var health map[string]interface{}
	test.That(t, json.NewDecoder(resp.Body).Decode(&health), test.ShouldBeNil)
	resp.Body.Close()
	test.That(t, health["status"], test.ShouldEqual, "ready")
	test.That(t, health["freeCells"], test.ShouldEqual, 1600.0)

	postPlan(t, ts, `{"start": {"x": 0, "y": 0, "theta": 0}, "goal": {"x": 1, "y": 0, "theta": 0}}`)

	resp, err = http.Get(ts.URL + "/metrics")
	test.That(t, err, test.ShouldBeNil)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(body), test.ShouldContainSubstring, `hybridplan_plan_requests_total{outcome="succeeded"}`)
	test.That(t, string(body), test.ShouldContainSubstring, "hybridplan_plan_duration_seconds_bucket")

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/plan", nil)
	test.That(t, err, test.ShouldBeNil)
	resp, err = http.DefaultClient.Do(req)
	test.That(t, err, test.ShouldBeNil)
	resp.Body.Close()
	test.That(t, resp.StatusCode, test.ShouldEqual, http.StatusOK)
	test.That(t, resp.Header.Get("Access-Control-Allow-Origin"), test.ShouldEqual, "*")
}
