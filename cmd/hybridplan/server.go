package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hybrid-planner/internal/gridmap"
	"hybrid-planner/internal/hybridastar"
	"hybrid-planner/internal/vehicle"
)

const (
	requestIDHeader = "X-Request-ID"
	maxRequestSize  = 1 * 1024 * 1024 // 1MB
)

type planRequest struct {
	Start vehicle.Pose `json:"start"`
	Goal  vehicle.Pose `json:"goal"`
}

type planStats struct {
	NodesExpanded int     `json:"nodesExpanded"`
	NodesVisited  int     `json:"nodesVisited"`
	SearchTimeMs  float64 `json:"searchTimeMs"`
	PathLength    float64 `json:"pathLength"`
	Outcome       string  `json:"outcome"`
}

type planResponse struct {
	RequestID string         `json:"requestId"`
	Path      []vehicle.Pose `json:"path"`
	Success   bool           `json:"success"`
	Message   string         `json:"message,omitempty"`
	Stats     *planStats     `json:"stats,omitempty"`
}

// server answers plan requests against one grid that is built at startup and
// never modified afterwards.
type server struct {
	planner *hybridastar.Planner
	grid    *gridmap.Grid
	logger  *zap.Logger
}

func newServer(planner *hybridastar.Planner, grid *gridmap.Grid, logger *zap.Logger) *server {
	return &server{planner: planner, grid: grid, logger: logger}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/plan", corsMiddleware(s.planHandler))
	mux.HandleFunc("/health", corsMiddleware(s.healthHandler))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// POST /plan
func (s *server) planHandler(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	logger := s.logger.With(zap.String("request_id", requestID))
	w.Header().Set(requestIDHeader, requestID)

	if r.Method != http.MethodPost {
		logger.Warn("method not allowed", zap.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req planRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("request body too large", zap.Int64("limit", tooLarge.Limit))
			planRejectedTotal.WithLabelValues("too_large").Inc()
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		logger.Warn("invalid request body", zap.Error(err))
		planRejectedTotal.WithLabelValues("bad_request").Inc()
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	logger.Info("plan request received", zap.Any("start", req.Start), zap.Any("goal", req.Goal))

	if s.planner.Collides(req.Start) {
		logger.Info("start pose in collision")
		planRejectedTotal.WithLabelValues("start_in_collision").Inc()
		writeJSON(w, http.StatusOK, planResponse{
			RequestID: requestID,
			Success:   false,
			Message:   "Start pose is outside the map or overlaps an obstacle",
		})
		return
	}

	res := s.planner.Plan(req.Start, req.Goal)

	planRequestsTotal.WithLabelValues(res.Stats.Outcome.String()).Inc()
	planDuration.Observe(res.Stats.SearchTime.Seconds())
	planNodesExpanded.Observe(float64(res.Stats.NodesExpanded))

	resp := planResponse{
		RequestID: requestID,
		Path:      res.Path,
		Success:   res.Found,
		Stats: &planStats{
			NodesExpanded: res.Stats.NodesExpanded,
			NodesVisited:  res.Stats.NodesVisited,
			SearchTimeMs:  float64(res.Stats.SearchTime) / float64(time.Millisecond),
			PathLength:    res.Stats.PathLength,
			Outcome:       res.Stats.Outcome.String(),
		},
	}
	switch res.Stats.Outcome {
	case hybridastar.Succeeded:
		logger.Info("path found", zap.Int("poses", len(res.Path)), zap.Float64("length", res.Stats.PathLength))
	case hybridastar.Exhausted:
		resp.Message = "Goal is unreachable from the start pose"
		logger.Info("no path", zap.Stringer("outcome", res.Stats.Outcome))
	default:
		resp.Message = "Search gave up after the iteration limit"
		logger.Info("no path", zap.Stringer("outcome", res.Stats.Outcome))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GET /health
func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	cfg := s.planner.Config()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ready",
		"gridWidth":     s.grid.Width(),
		"gridHeight":    s.grid.Height(),
		"resolution":    s.grid.Resolution(),
		"freeCells":     s.grid.FreeCells(),
		"maxIterations": cfg.MaxIterations,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
