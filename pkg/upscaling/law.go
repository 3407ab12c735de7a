// Package upscaling implements the coarse-graining laws that replace a random
// log-normal conductivity field by an effective, radius-dependent value around
// a pumping well, and the cut-off radius beyond which such a law has settled
// on its far-field value.
//
// For both families the law has the form
//
//	K(r) = K_efu·exp(χ·F(r)),  χ = ln(K_well/K_efu)
//
// where K_efu = K_G·exp(σ²(1/2 - 1/d)) is the effective far-field value,
// K_well the near-well value (K_G·exp(-σ²/2) unless overridden) and F falls
// from 1 at the well to 0 far away.
package upscaling

import (
	"math"

	"wellflow/pkg/serrors"
)

// DefaultProportionality is the default factor between radius and correlation
// length in the transition shape.
const DefaultProportionality = 1.6

type options struct {
	prop     float64
	nearWell float64
	hasNear  bool
}

// Option customizes a law.
type Option func(*options)

// WithProportionality sets the proportionality factor between radius and
// correlation length.
func WithProportionality(prop float64) Option {
	return func(o *options) { o.prop = prop }
}

// WithNearWell overrides the near-well value.
func WithNearWell(value float64) Option {
	return func(o *options) {
		o.nearWell = value
		o.hasNear = true
	}
}

// CoarseGraining is an evaluated coarse-graining law. It is immutable and
// safe for concurrent use.
type CoarseGraining struct {
	kind     Kind
	stats    Statistics
	prop     float64
	farField float64
	nearWell float64
	chi      float64
}

// New validates the statistics and builds the law of the given family.
func New(kind Kind, stats Statistics, opts ...Option) (*CoarseGraining, error) {
	if err := stats.Validate(kind); err != nil {
		return nil, err
	}

	o := options{prop: DefaultProportionality}
	for _, opt := range opts {
		opt(&o)
	}
	if !finite(o.prop) || o.prop <= 0 {
		return nil, serrors.With(serrors.ErrDomain, "proportionality factor must be > 0, got %g", o.prop)
	}

	farField := stats.GeoMean * math.Exp(stats.Variance*(0.5-1/stats.Dim))
	nearWell := stats.GeoMean * math.Exp(-0.5*stats.Variance)
	if o.hasNear {
		if !finite(o.nearWell) || o.nearWell <= 0 {
			return nil, serrors.With(serrors.ErrDomain, "near-well value must be > 0, got %g", o.nearWell)
		}
		nearWell = o.nearWell
	}

	return &CoarseGraining{
		kind:     kind,
		stats:    stats,
		prop:     o.prop,
		farField: farField,
		nearWell: nearWell,
		chi:      math.Log(nearWell / farField),
	}, nil
}

// Kind returns the family of the law.
func (l *CoarseGraining) Kind() Kind { return l.kind }

// Statistics returns the statistics the law was built from.
func (l *CoarseGraining) Statistics() Statistics { return l.stats }

// FarField returns the value approached as r grows.
func (l *CoarseGraining) FarField() float64 { return l.farField }

// NearWell returns the value at r = 0.
func (l *CoarseGraining) NearWell() float64 { return l.nearWell }

// Value evaluates the law at r >= 0. r = +Inf yields the far-field value.
func (l *CoarseGraining) Value(r float64) (float64, error) {
	f, err := l.shape(r)
	if err != nil {
		return 0, err
	}

	return l.farField * math.Exp(l.chi*f), nil
}

// RelativeError returns |K(r)/K_efu - 1|.
func (l *CoarseGraining) RelativeError(r float64) (float64, error) {
	f, err := l.shape(r)
	if err != nil {
		return 0, err
	}

	return math.Abs(math.Expm1(l.chi * f)), nil
}

// shape returns F(r) in [0, 1].
func (l *CoarseGraining) shape(r float64) (float64, error) {
	if math.IsNaN(r) || r < 0 {
		return 0, serrors.With(serrors.ErrDomain, "radius must be >= 0, got %g", r)
	}
	if math.IsInf(r, 1) {
		return 0, nil
	}

	a := l.prop * r / l.stats.LenScale
	half := 0.5 * l.stats.Dim
	switch l.kind {
	case KindTPL:
		return tplShape(a, half, l.stats.Hurst), nil
	default:
		return math.Pow(1/(1+a*a), half), nil
	}
}

// Evaluate returns the law of the given family at r.
func Evaluate(r float64, stats Statistics, kind Kind, opts ...Option) (float64, error) {
	law, err := New(kind, stats, opts...)
	if err != nil {
		return 0, err
	}

	return law.Value(r)
}
