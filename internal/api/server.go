// Package api serves association statistics over HTTP.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"edgestats/adapters/answerset"
	"edgestats/domain/answer"
	"edgestats/domain/core"
	"edgestats/internal"
	"edgestats/internal/batch"
	"edgestats/internal/config"
	"edgestats/internal/errors"
	"edgestats/internal/metrics"
	"edgestats/internal/table"
	"edgestats/ports"
)

// maxBodyBytes bounds request bodies; answer documents can be large.
const maxBodyBytes = 16 << 20

// Server exposes the statistics engine over HTTP
type Server struct {
	router        *chi.Mux
	runner        *batch.Runner
	edges         ports.EdgeRepository
	metrics       *metrics.Metrics
	gatherer      prometheus.Gatherer
	logger        *internal.Logger
	tableDecimals int
}

// Options wires a Server. Edges may be nil, in which case the stored-answer
// routes answer 503. Gatherer defaults to the global registry.
type Options struct {
	Config   *config.Config
	Edges    ports.EdgeRepository
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *internal.Logger
}

// NewServer creates a new API server with its routes mounted
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = internal.DefaultLogger
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	cfg := opts.Config

	s := &Server{
		router: chi.NewRouter(),
		runner: batch.NewRunner(batch.Options{
			StatisticsDecimals: cfg.Display.StatisticsDecimals,
			TableDecimals:      cfg.Display.TableDecimals,
			Encoding:           cfg.EncoderConfig(),
			Concurrency:        cfg.Batch.Concurrency,
			Metrics:            opts.Metrics,
			Logger:             opts.Logger,
		}),
		edges:         opts.Edges,
		metrics:       opts.Metrics,
		gatherer:      opts.Gatherer,
		logger:        opts.Logger.WithComponent("API"),
		tableDecimals: cfg.Display.TableDecimals,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.countRequests)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		// Ad-hoc evaluation of a posted edge_attributes object
		r.Post("/statistics", s.handleStatistics)
		r.Post("/table", s.handleTable)
		r.Post("/table.html", s.handleTableHTML)

		// Whole answer documents
		r.Post("/answersets/summary", s.handleAnswerSetSummary)

		// Stored answers
		r.Get("/answers/{answerID}/summary", s.handleStoredSummary)
		r.Get("/answers/{answerID}/edges/{edgeID}/statistics", s.handleStoredEdge)
	})
}

// countRequests records every response by route pattern and status
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(route, status)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	edge, err := readEdge(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Evaluate(edge))
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	grid, _, err := s.renderPosted(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

func (s *Server) handleTableHTML(w http.ResponseWriter, r *http.Request) {
	grid, edge, err := s.renderPosted(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res := s.runner.Evaluate(edge)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(table.Report(res.Panel, grid))
}

func (s *Server) handleAnswerSetSummary(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errors.InvalidInput("failed to read request body"))
		return
	}
	set, err := answerset.Parse(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	report, err := s.runner.Run(r.Context(), set.Edges)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleStoredSummary(w http.ResponseWriter, r *http.Request) {
	if s.edges == nil {
		s.writeError(w, errors.Unavailable("edge store is not configured"))
		return
	}
	answerID, err := core.ParseAnswerID(chi.URLParam(r, "answerID"))
	if err != nil {
		s.writeError(w, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	edges, err := s.edges.ListEdges(r.Context(), answerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	report, err := s.runner.Run(r.Context(), edges)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleStoredEdge(w http.ResponseWriter, r *http.Request) {
	if s.edges == nil {
		s.writeError(w, errors.Unavailable("edge store is not configured"))
		return
	}
	answerID, err := core.ParseAnswerID(chi.URLParam(r, "answerID"))
	if err != nil {
		s.writeError(w, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	edgeID, err := core.ParseEdgeID(chi.URLParam(r, "edgeID"))
	if err != nil {
		s.writeError(w, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	edge, err := s.edges.GetEdge(r.Context(), answerID, edgeID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Evaluate(*edge))
}

// renderPosted reads an edge_attributes body and renders its table, honoring
// an optional ?decimals= override.
func (s *Server) renderPosted(w http.ResponseWriter, r *http.Request) (*table.Grid, answer.Edge, error) {
	decimals := s.tableDecimals
	if raw := r.URL.Query().Get("decimals"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 || d > 12 {
			return nil, answer.Edge{}, errors.InvalidInput("decimals must be an integer between 0 and 12")
		}
		decimals = d
	}

	edge, err := readEdge(w, r)
	if err != nil {
		return nil, answer.Edge{}, err
	}
	grid, err := table.NewRenderer(decimals).RenderEdge(edge.Attributes)
	if err != nil {
		return nil, answer.Edge{}, err
	}
	return grid, edge, nil
}

func readEdge(w http.ResponseWriter, r *http.Request) (answer.Edge, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return answer.Edge{}, errors.InvalidInput("failed to read request body")
	}
	attrs, err := answerset.ParseAttributes(body)
	if err != nil {
		return answer.Edge{}, err
	}
	return answer.Edge{ID: core.EdgeID(middleware.GetReqID(r.Context())), Attributes: attrs}, nil
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	} else {
		s.logger.Debug("request rejected: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: errors.GetCode(err)})
}

// writeJSON encodes before writing the header so an unencodable value turns
// into a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "failed to encode response", Code: errors.CodeInternalError})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
	w.Write([]byte("\n"))
}
