// Package batch evaluates every edge of an answer set concurrently.
package batch

import (
	"context"
	"time"

	"edgestats/domain/answer"
	domain "edgestats/domain/association"
	"edgestats/domain/core"
	"edgestats/internal"
	"edgestats/internal/association"
	"edgestats/internal/encoding"
	"edgestats/internal/metrics"
	"edgestats/internal/profiling"
	"edgestats/internal/table"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

// SignificanceLevel is the p-value cut-off used by Summary.Significant.
const SignificanceLevel = 0.05

// Result is the evaluation of one edge. Grid is nil when the edge carries no
// valid table; TableError then says why, if a table was attached.
type Result struct {
	EdgeID     core.EdgeID        `json:"edge_id"`
	HasTable   bool               `json:"has_table"`
	Statistics domain.Statistics  `json:"statistics"`
	Panel      association.Panel  `json:"panel"`
	Style      encoding.EdgeStyle `json:"style"`
	Grid       *table.Grid        `json:"table,omitempty"`
	TableError string             `json:"table_error,omitempty"`
}

// Summary aggregates a batch. Means and medians are nil when no edge
// contributed an available value.
type Summary struct {
	ReportID     core.ReportID `json:"report_id"`
	Edges        int           `json:"edges"`
	WithTable    int           `json:"with_table"`
	ValidTables  int           `json:"valid_tables"`
	Significant  int           `json:"significant"`
	MeanGamma    *float64      `json:"mean_gamma,omitempty"`
	MedianGamma  *float64      `json:"median_gamma,omitempty"`
	MeanCramersV *float64      `json:"mean_cramers_v,omitempty"`

	Phi      *profiling.Distribution `json:"phi_distribution,omitempty"`
	Gamma    *profiling.Distribution `json:"gamma_distribution,omitempty"`
	CramersV *profiling.Distribution `json:"cramers_v_distribution,omitempty"`
}

// Report is the output of Run: per-edge results in input order plus a summary.
type Report struct {
	Results []Result `json:"results"`
	Summary Summary  `json:"summary"`
}

// Runner evaluates edges with bounded concurrency.
type Runner struct {
	presenter   *association.Presenter
	renderer    *table.Renderer
	encoder     *encoding.Encoder
	concurrency int
	metrics     *metrics.Metrics
	logger      *internal.Logger
}

// Options configures a Runner. Zero values fall back to defaults; Metrics may be nil.
type Options struct {
	StatisticsDecimals int
	TableDecimals      int
	Encoding           encoding.Config
	Concurrency        int
	Metrics            *metrics.Metrics
	Logger             *internal.Logger
}

func NewRunner(opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Logger == nil {
		opts.Logger = internal.DefaultLogger
	}
	return &Runner{
		presenter:   association.NewPresenter(opts.StatisticsDecimals),
		renderer:    table.NewRenderer(opts.TableDecimals),
		encoder:     encoding.NewEncoder(opts.Encoding),
		concurrency: opts.Concurrency,
		metrics:     opts.Metrics,
		logger:      opts.Logger.WithComponent("Batch"),
	}
}

// Evaluate computes everything shown for a single edge
func (r *Runner) Evaluate(edge answer.Edge) Result {
	s := association.Compute(edge.Attributes)
	res := Result{
		EdgeID:     edge.ID,
		HasTable:   edge.Attributes.HasTable(),
		Statistics: s,
		Panel:      r.presenter.Panel(s),
		Style:      r.encoder.Encode(s),
	}
	if res.HasTable {
		grid, err := r.renderer.Render(edge.Attributes)
		if err != nil {
			res.TableError = err.Error()
		} else {
			res.Grid = grid
		}
	}
	r.metrics.ObserveEdge(res.HasTable, s.ValidMatrix)
	return res
}

// Run evaluates all edges. Results keep the input order. The only error is
// ctx cancellation; per-edge problems are reported inside each Result.
func (r *Runner) Run(ctx context.Context, edges []answer.Edge) (*Report, error) {
	start := time.Now()
	defer r.metrics.ObserveBatch(start)

	results := make([]Result, len(edges))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := range edges {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.Evaluate(edges[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := Summarize(results)
	r.logger.Debug("evaluated %d edges (%d valid tables) in %s", summary.Edges, summary.ValidTables, time.Since(start))
	return &Report{Results: results, Summary: summary}, nil
}

// Summarize aggregates results
func Summarize(results []Result) Summary {
	sum := Summary{ReportID: core.NewReportID(), Edges: len(results)}

	var phis, gammas, cramers stats.Float64Data
	for _, res := range results {
		s := res.Statistics
		if res.HasTable {
			sum.WithTable++
		}
		if s.ValidMatrix {
			sum.ValidTables++
		}
		if p, ok := s.PValue.Get(); ok && p < SignificanceLevel {
			sum.Significant++
		}
		if v, ok := s.Phi.Get(); ok {
			phis = append(phis, v)
		}
		if g, ok := s.Gamma.Get(); ok {
			gammas = append(gammas, g)
		}
		if v, ok := s.CramersV.Get(); ok {
			cramers = append(cramers, v)
		}
	}

	sum.MeanGamma = optional(stats.Mean(gammas))
	sum.MedianGamma = optional(stats.Median(gammas))
	sum.MeanCramersV = optional(stats.Mean(cramers))
	sum.Phi = profiling.Summarize(phis)
	sum.Gamma = profiling.Summarize(gammas)
	sum.CramersV = profiling.Summarize(cramers)
	return sum
}

func optional(v float64, err error) *float64 {
	if err != nil {
		return nil
	}
	return &v
}
