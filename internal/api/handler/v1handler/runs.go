package v1handler

import (
	"net/http"
	"strconv"

	"wellflow/internal/sweep"
	"wellflow/pkg/domain"
	"wellflow/pkg/serrors"
	"wellflow/pkg/storage"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

// sweepBody is the request of POST /v1/runs.
type sweepBody struct {
	sweep.Sweep
}

func (b *sweepBody) DecodeJSON(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "params":
			b.Params = b.Params[:0]
			err = d.Arr(func(d *jx.Decoder) error {
				var p domain.ParameterSet
				if err := p.DecodeJSON(d); err != nil {
					return err
				}
				b.Params = append(b.Params, p)

				return nil
			})
		case "pumping":
			err = b.Pumping.DecodeJSON(d)
		case "model":
			err = b.Model.DecodeJSON(d)
		case "times":
			b.Times, err = domain.DecodeFloats(d)
		case "radii":
			b.Radii, err = domain.DecodeFloats(d)
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}

		return nil
	})
}

func encodeRuns(e *jx.Encoder, runs []domain.Run) {
	e.ArrStart()
	for _, run := range runs {
		run.EncodeJSON(e)
	}
	e.ArrEnd()
}

// CreateRuns submits a sweep and answers with its pending runs.
func (h *Handler) CreateRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body sweepBody
	if err := h.decodeBody(w, r, body.DecodeJSON); err != nil {
		writeError(ctx, w, err)
		return
	}

	sweepID, runs, err := h.deps.Sweeper.Submit(ctx, body.Sweep)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("sweepId", func(e *jx.Encoder) { e.Str(sweepID.String()) })
			e.Field("runs", func(e *jx.Encoder) { encodeRuns(e, runs) })
		})
	})
}

// GetRun returns a single run.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, serrors.Wrap(serrors.ErrInvalidArgument, err, "invalid run id"))
		return
	}

	run, err := h.deps.Sweeper.Run(ctx, domain.RunID(id))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, run.EncodeJSON)
}

// ListRuns returns a page of runs, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := storage.RunFilter{Status: domain.RunStatus(q.Get("status"))}
	if s := q.Get("sweepId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			writeError(ctx, w, serrors.Wrap(serrors.ErrInvalidArgument, err, "invalid sweep id"))
			return
		}
		sweepID := domain.SweepID(id)
		filter.SweepID = &sweepID
	}

	limit := uint(DefaultLimit)
	if s := q.Get("limit"); s != "" {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil || n == 0 || n > MaxLimit {
			writeError(ctx, w, serrors.With(serrors.ErrInvalidArgument, "limit must be between 1 and %d", MaxLimit))
			return
		}
		limit = uint(n)
	}

	runs, next, err := h.deps.Sweeper.Runs(ctx, filter, q.Get("cursor"), limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) { encodeRuns(e, runs) })
			e.Field("nextCursor", func(e *jx.Encoder) {
				if next == "" {
					e.Null()
					return
				}
				e.Str(next)
			})
		})
	})
}
