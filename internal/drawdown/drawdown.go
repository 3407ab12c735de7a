// Package drawdown runs the extended Theis and Thiem pipelines: a
// coarse-graining law is cut off at a target error, partitioned into zones,
// averaged per zone and handed to the radial flow solver.
package drawdown

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"wellflow/internal/config"
	"wellflow/pkg/grf"
	"wellflow/pkg/laplace"
	"wellflow/pkg/logger"
	"wellflow/pkg/metrics"
	"wellflow/pkg/serrors"
	"wellflow/pkg/upscaling"
	"wellflow/pkg/zonation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "wellflow/internal/drawdown"

// Options are the defaults applied to requests that leave a field at zero.
type Options struct {
	// Prop is the proportionality factor of the law.
	Prop float64
	// FarError is the relative error defining the cut-off radius.
	FarError float64
	// Parts is the number of zones.
	Parts int
	// LatExt is the lateral extent used when a scenario has none.
	LatExt float64
	// Solver configures the radial flow solver.
	Solver grf.Options
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	inv := laplace.DefaultOptions()
	if len(cfg.Solver.Levels) > 0 {
		inv.Levels = cfg.Solver.Levels
	}
	if cfg.Solver.RelTol > 0 {
		inv.RelTol = cfg.Solver.RelTol
	}
	if cfg.Solver.ScaleTol > 0 {
		inv.ScaleTol = cfg.Solver.ScaleTol
	}

	return Options{
		Prop:     cfg.Solver.Prop,
		FarError: cfg.Solver.FarError,
		Parts:    cfg.Solver.Parts,
		LatExt:   cfg.Solver.LatExt,
		Solver:   grf.Options{Inversion: inv, Workers: cfg.Solver.Workers},
	}
}

// DefaultOptions returns the pipeline defaults without a config file.
func DefaultOptions() Options {
	return Options{
		Prop:     upscaling.DefaultProportionality,
		FarError: 0.01,
		Parts:    30,
		LatExt:   1,
		Solver:   grf.Options{Inversion: laplace.DefaultOptions()},
	}
}

// Request describes one pipeline call. Zero values of Prop, NearWell,
// FarError and Parts select the service defaults.
type Request struct {
	Kind     upscaling.Kind
	Stats    upscaling.Statistics
	Storage  float64
	Scenario grf.Scenario
	Prop     float64
	NearWell float64
	FarError float64
	Parts    int
	Times    []float64
	Radii    []float64
}

// LawRequest asks for the values of a law at radii.
type LawRequest struct {
	Kind     upscaling.Kind
	Stats    upscaling.Statistics
	Prop     float64
	NearWell float64
	FarError float64
	Radii    []float64
}

// LawResult holds the values of a law and its characteristic radii.
type LawResult struct {
	Values   []float64
	FarField float64
	NearWell float64
	Cutoff   float64
}

type service struct {
	options Options
	solver  *grf.Solver
	metrics *metrics.Solver
	tracer  trace.Tracer
}

// New creates the pipeline service. m may be nil to disable metrics.
func New(options Options, m *metrics.Solver) (Service, error) {
	solver, err := grf.New(options.Solver)
	if err != nil {
		return nil, fmt.Errorf("could not create solver: %w", err)
	}

	return &service{
		options: options,
		solver:  solver,
		metrics: m,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// Law evaluates the law at the requested radii and solves its cut-off radius.
func (s *service) Law(ctx context.Context, req LawRequest) (res *LawResult, err error) {
	ctx, done := s.start(ctx, "law", attribute.String("kind", req.Kind.String()), attribute.Int("radii", len(req.Radii)))
	defer func() { done(err) }()

	law, err := s.law(req.Kind, req.Stats, req.Prop, req.NearWell)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(req.Radii))
	for i, r := range req.Radii {
		if values[i], err = law.Value(r); err != nil {
			return nil, fmt.Errorf("could not evaluate law at r=%g: %w", r, err)
		}
	}

	cut, err := law.Cutoff(s.farError(req.FarError))
	if err != nil {
		return nil, fmt.Errorf("could not solve cut-off radius: %w", err)
	}
	logger.Debug(ctx, "law evaluated", zap.Float64("cutoff", cut))

	return &LawResult{
		Values:   values,
		FarField: law.FarField(),
		NearWell: law.NearWell(),
		Cutoff:   cut,
	}, nil
}

// Profile builds the zonation used by ExtTheis for req.
func (s *service) Profile(ctx context.Context, req Request) (res *Profile, err error) {
	ctx, done := s.start(ctx, "profile", s.attrs(req)...)
	defer func() { done(err) }()

	return s.profile(ctx, req)
}

// ExtTheis computes transient drawdown for the zoned effective profile.
func (s *service) ExtTheis(ctx context.Context, req Request) (field *grf.Field, err error) {
	ctx, done := s.start(ctx, "ext_theis", s.attrs(req)...)
	defer func() { done(err) }()

	prof, err := s.profile(ctx, req)
	if err != nil {
		return nil, err
	}

	field, err = s.solver.Transient(ctx, s.scenario(req), prof.Steps, req.Times, req.Radii)
	if err != nil {
		return nil, fmt.Errorf("could not solve transient drawdown: %w", err)
	}

	return field, nil
}

// ExtThiem computes steady drawdown against the continuous law. The scenario
// needs a finite constant-head outer radius.
func (s *service) ExtThiem(ctx context.Context, req Request) (head []float64, err error) {
	ctx, done := s.start(ctx, "ext_thiem", s.attrs(req)...)
	defer func() { done(err) }()

	sc := s.scenario(req)
	law, err := s.law(req.Kind, s.stats(req.Stats, sc), req.Prop, req.NearWell)
	if err != nil {
		return nil, err
	}

	head, err = s.solver.SteadyLaw(sc, law, req.Radii)
	if err != nil {
		return nil, fmt.Errorf("could not solve steady drawdown: %w", err)
	}
	logger.Debug(ctx, "steady drawdown solved", zap.Int("radii", len(req.Radii)))

	return head, nil
}

func (s *service) profile(ctx context.Context, req Request) (*Profile, error) {
	sc := s.scenario(req)
	law, err := s.law(req.Kind, s.stats(req.Stats, sc), req.Prop, req.NearWell)
	if err != nil {
		return nil, err
	}

	cut, err := law.Cutoff(s.farError(req.FarError))
	if err != nil {
		return nil, fmt.Errorf("could not solve cut-off radius: %w", err)
	}

	parts := req.Parts
	if parts == 0 {
		parts = s.options.Parts
	}
	outer := sc.Outer()
	// an unbounded aquifer cannot be split without an anchor inside it
	if math.IsInf(outer, 1) && cut <= sc.WellRadius {
		parts = 1
	}

	bounds, err := zonation.PartitionCut(sc.WellRadius, outer, parts, cut, zonation.Geometric)
	if err != nil {
		return nil, fmt.Errorf("could not partition profile: %w", err)
	}

	values, err := zonation.Average(law, bounds, sc.Dim)
	if err != nil {
		return nil, fmt.Errorf("could not average zones: %w", err)
	}

	steps, err := zonation.NewStepProfile(bounds, values)
	if err != nil {
		return nil, fmt.Errorf("could not build step profile: %w", err)
	}
	if req.Storage != 0 {
		if steps, err = steps.WithUniformStorage(req.Storage); err != nil {
			return nil, fmt.Errorf("could not attach storage: %w", err)
		}
	}

	logger.Debug(ctx, "profile built",
		zap.Float64("cutoff", cut),
		zap.Int("zones", steps.Len()),
		zap.Float64("farField", law.FarField()))

	return &Profile{
		Cutoff:   cut,
		FarField: law.FarField(),
		NearWell: law.NearWell(),
		Steps:    steps,
	}, nil
}

func (s *service) law(kind upscaling.Kind, stats upscaling.Statistics, prop, nearWell float64) (*upscaling.CoarseGraining, error) {
	if prop == 0 {
		prop = s.options.Prop
	}
	opts := []upscaling.Option{upscaling.WithProportionality(prop)}
	if nearWell != 0 {
		opts = append(opts, upscaling.WithNearWell(nearWell))
	}

	law, err := upscaling.New(kind, stats, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not build upscaling law: %w", err)
	}

	return law, nil
}

func (s *service) farError(v float64) float64 {
	if v == 0 {
		return s.options.FarError
	}

	return v
}

// scenario fills the dimension and lateral extent of req.Scenario.
func (s *service) scenario(req Request) grf.Scenario {
	sc := req.Scenario
	if sc.Dim == 0 {
		sc.Dim = req.Stats.Dim
	}
	if sc.Dim == 0 {
		sc.Dim = 2
	}
	if sc.LatExt == 0 {
		sc.LatExt = s.options.LatExt
	}

	return sc
}

func (s *service) stats(stats upscaling.Statistics, sc grf.Scenario) upscaling.Statistics {
	if stats.Dim == 0 {
		stats.Dim = sc.Dim
	}

	return stats
}

func (s *service) attrs(req Request) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("kind", req.Kind.String()),
		attribute.Float64("variance", req.Stats.Variance),
		attribute.Float64("lenScale", req.Stats.LenScale),
		attribute.Int("times", len(req.Times)),
		attribute.Int("radii", len(req.Radii)),
	}
}

// start opens a span for pipeline and returns a func recording the outcome
// in the span, the histogram and the log.
func (s *service) start(ctx context.Context, pipeline string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, pipeline, trace.WithAttributes(attrs...))
	ctx = logger.WithFields(ctx, zap.String("pipeline", pipeline))
	began := time.Now()

	return ctx, func(err error) {
		dur := time.Since(began)
		if s.metrics != nil {
			s.metrics.Observe(pipeline, err, dur)
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if errors.Is(err, serrors.ErrConvergence) {
				logger.Warn(ctx, "pipeline did not converge", zap.Duration("duration", dur), zap.Error(err))
			} else {
				logger.Debug(ctx, "pipeline rejected request", zap.Duration("duration", dur), zap.Error(err))
			}
		} else {
			logger.Debug(ctx, "pipeline finished", zap.Duration("duration", dur))
		}
		span.End()
	}
}
