package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunID uniquely identifies a sweep run.
// It wraps uuid.UUID to provide type safety at the domain layer.
type RunID uuid.UUID

// String returns the canonical UUID form.
func (id RunID) String() string { return uuid.UUID(id).String() }

// SweepID groups the runs submitted together.
type SweepID uuid.UUID

// String returns the canonical UUID form.
func (id SweepID) String() string { return uuid.UUID(id).String() }

// RunStatus represents the lifecycle state of a run.
// It can be pending, completed, or failed.
type RunStatus string

const (
	// RunStatusPending indicates the run has been enqueued but not solved yet.
	RunStatusPending RunStatus = "PENDING"
	// RunStatusCompleted indicates the drawdown was computed and stored in Result.
	RunStatusCompleted RunStatus = "COMPLETED"
	// RunStatusFailed indicates the run ended with an error; see LastError and Attempts for details.
	RunStatusFailed RunStatus = "FAILED"
)

// Valid reports whether s is one of the known statuses.
func (s RunStatus) Valid() bool {
	switch s {
	case RunStatusPending, RunStatusCompleted, RunStatusFailed:
		return true
	default:
		return false
	}
}

// Pumping describes the pumping test of a run.
type Pumping struct {
	// Rate is the pumping rate, negative for extraction.
	Rate float64
	// WellRadius is the well radius, 0 for a line source.
	WellRadius float64
	// OuterRadius is the outer boundary radius, 0 for an unbounded aquifer.
	OuterRadius float64
	// Boundary is the outer boundary condition name ("constant-head" or "no-flow").
	// Empty means constant head.
	Boundary string
	// Dim is the flow dimension.
	Dim float64
	// LatExt is the lateral extent, 0 meaning 1.
	LatExt float64
}

// Model selects the upscaling law and its zonation.
type Model struct {
	// Kind is the law family ("gaussian" or "tpl").
	Kind string
	// Prop is the proportionality factor of the law, 0 for the default.
	Prop float64
	// NearWell overrides the near-well value when > 0.
	NearWell float64
	// FarError is the relative error defining the cut-off radius, 0 for the default.
	FarError float64
	// Parts is the number of zones, 0 for the default.
	Parts int
}

// RunSpec is everything needed to compute the drawdown of one run.
type RunSpec struct {
	Params  ParameterSet
	Pumping Pumping
	Model   Model
	Times   []float64
	Radii   []float64
}

// Drawdown holds a computed head field. Head[i][j] belongs to Times[i] and Radii[j].
type Drawdown struct {
	Times []float64
	Radii []float64
	Head  [][]float64
}

// Run represents a single parameter set of a sweep and its current state.
type Run struct {
	// ID is the unique identifier of the run.
	ID RunID
	// SweepID identifies the sweep the run was submitted with.
	SweepID SweepID

	// Status is the current lifecycle state of the run.
	Status RunStatus
	// Spec is the requested computation.
	Spec RunSpec
	// Result is set once the run is completed.
	Result *Drawdown

	// Attempts is the number of times the system has tried to solve this run.
	Attempts uint
	// LastError stores the most recent error message, if any.
	LastError string

	// CreatedAt is the time when the run was submitted.
	CreatedAt time.Time
	// UpdatedAt is the time when the run was last updated.
	UpdatedAt time.Time
}
