package zonation

import (
	"math"
	"slices"
	"sort"

	"wellflow/pkg/serrors"
)

// RadialZone is one ring [Inner, Outer) of a step profile.
type RadialZone struct {
	Inner float64
	Outer float64
	Value float64
	// Storage is the zone storativity, zero when the profile carries none.
	Storage float64
}

// StepProfile is an immutable piecewise-constant radial profile. Zone i covers
// [bounds[i], bounds[i+1]). An optional storativity sequence shares the
// boundaries.
type StepProfile struct {
	bounds  []float64
	values  []float64
	storage []float64
}

// NewStepProfile validates and copies the boundaries and zone values.
// len(bounds) must be len(values)+1.
func NewStepProfile(bounds, values []float64) (StepProfile, error) {
	if len(values) < 1 || len(bounds) != len(values)+1 {
		return StepProfile{}, serrors.With(serrors.ErrInvalidArgument,
			"need one more boundary than zone values, got %d boundaries and %d values", len(bounds), len(values))
	}
	if err := checkBounds(bounds); err != nil {
		return StepProfile{}, err
	}
	if err := checkFinite(values, "zone value"); err != nil {
		return StepProfile{}, err
	}

	return StepProfile{bounds: slices.Clone(bounds), values: slices.Clone(values)}, nil
}

// WithStorage returns a copy of p carrying the storativity sequence.
func (p StepProfile) WithStorage(storage []float64) (StepProfile, error) {
	if len(storage) != len(p.values) {
		return StepProfile{}, serrors.With(serrors.ErrInvalidArgument,
			"storage needs %d values, got %d", len(p.values), len(storage))
	}
	if err := checkFinite(storage, "storage"); err != nil {
		return StepProfile{}, err
	}
	p.storage = slices.Clone(storage)

	return p, nil
}

// WithUniformStorage returns a copy of p with the same storativity in every zone.
func (p StepProfile) WithUniformStorage(storage float64) (StepProfile, error) {
	s := make([]float64, len(p.values))
	for i := range s {
		s[i] = storage
	}

	return p.WithStorage(s)
}

// Len returns the number of zones.
func (p StepProfile) Len() int { return len(p.values) }

// Inner returns the innermost boundary.
func (p StepProfile) Inner() float64 { return p.bounds[0] }

// Outer returns the outermost boundary, possibly +Inf.
func (p StepProfile) Outer() float64 { return p.bounds[len(p.bounds)-1] }

// Bounds returns a copy of the boundaries.
func (p StepProfile) Bounds() []float64 { return slices.Clone(p.bounds) }

// Values returns a copy of the zone values.
func (p StepProfile) Values() []float64 { return slices.Clone(p.values) }

// Storage returns a copy of the storativity sequence, nil when absent.
func (p StepProfile) Storage() []float64 { return slices.Clone(p.storage) }

// HasStorage reports whether a storativity sequence is attached.
func (p StepProfile) HasStorage() bool { return p.storage != nil }

// Zone returns the index of the zone containing r. Radii below the first
// boundary map to the innermost zone, radii beyond the last to the outermost.
func (p StepProfile) Zone(r float64) (int, error) {
	if len(p.values) == 0 {
		return 0, serrors.With(serrors.ErrInvalidArgument, "empty step profile")
	}
	if math.IsNaN(r) || r < 0 {
		return 0, serrors.With(serrors.ErrDomain, "radius must be >= 0, got %g", r)
	}
	inner := p.bounds[1 : len(p.bounds)-1]

	return sort.Search(len(inner), func(k int) bool { return inner[k] > r }), nil
}

// ValueAt returns the value of the zone containing r.
func (p StepProfile) ValueAt(r float64) (float64, error) {
	i, err := p.Zone(r)
	if err != nil {
		return 0, err
	}

	return p.values[i], nil
}

// StorageAt returns the storativity of the zone containing r.
func (p StepProfile) StorageAt(r float64) (float64, error) {
	if p.storage == nil {
		return 0, serrors.With(serrors.ErrInvalidArgument, "step profile carries no storage")
	}
	i, err := p.Zone(r)
	if err != nil {
		return 0, err
	}

	return p.storage[i], nil
}

// Zones lists the zones from the well outwards.
func (p StepProfile) Zones() []RadialZone {
	zones := make([]RadialZone, len(p.values))
	for i := range zones {
		zones[i] = RadialZone{Inner: p.bounds[i], Outer: p.bounds[i+1], Value: p.values[i]}
		if p.storage != nil {
			zones[i].Storage = p.storage[i]
		}
	}

	return zones
}

func checkFinite(vals []float64, what string) error {
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return serrors.With(serrors.ErrDomain, "%s %d must be finite, got %g", what, i, v)
		}
	}

	return nil
}
