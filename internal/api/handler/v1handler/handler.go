// Package v1handler serves the v1 JSON API: synchronous law, profile and
// drawdown computations plus submission and lookup of sweep runs.
package v1handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"wellflow/internal/drawdown"
	"wellflow/internal/sweep"
	"wellflow/pkg/logger"
	"wellflow/pkg/serrors"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

const (
	// DefaultLimit is the page size of run listings without a limit.
	DefaultLimit = 20
	// MaxLimit caps the page size of run listings.
	MaxLimit = 200
)

// Deps are the services used by the handlers.
type Deps struct {
	Drawdown drawdown.Service
	Sweeper  sweep.Sweeper
}

// Options configure request handling.
type Options struct {
	// MaxBodyBytes limits request bodies. Zero means 1 MiB.
	MaxBodyBytes int64
}

// Handler serves the v1 routes.
type Handler struct {
	deps Deps
	opts Options
}

// New creates a Handler.
func New(deps Deps, opts Options) *Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}

	return &Handler{deps: deps, opts: opts}
}

// Register adds the v1 routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/law", h.Law)
	mux.HandleFunc("POST /v1/profile", h.Profile)
	mux.HandleFunc("POST /v1/transient", h.Transient)
	mux.HandleFunc("POST /v1/steady", h.Steady)
	mux.HandleFunc("POST /v1/runs", h.CreateRuns)
	mux.HandleFunc("GET /v1/runs", h.ListRuns)
	mux.HandleFunc("GET /v1/runs/{id}", h.GetRun)
}

// decodeBody reads the request body and hands it to decode.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, decode func(d *jx.Decoder) error) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return serrors.With(serrors.ErrInvalidArgument, "request body exceeds %d bytes", tooLarge.Limit)
		}

		return serrors.Wrap(serrors.ErrInvalidArgument, err, "could not read request body")
	}

	if err := decode(jx.DecodeBytes(body)); err != nil {
		return serrors.Wrap(serrors.ErrInvalidArgument, err, "invalid request body")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// StatusOf maps an error to the HTTP status code of its kind.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, serrors.ErrDomain), errors.Is(err, serrors.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, serrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, serrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, serrors.ErrConvergence):
		return http.StatusUnprocessableEntity
	case errors.Is(err, serrors.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes {"error": ..., "kind": ...}. Messages of internal errors
// are not exposed.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := StatusOf(err)
	msg := err.Error()
	kind := "INTERNAL"
	if k := serrors.KindOf(err); k != nil {
		kind = k.Error()
	}
	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
		msg = http.StatusText(status)
	}

	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("error", func(e *jx.Encoder) { e.Str(msg) })
			e.Field("kind", func(e *jx.Encoder) { e.Str(kind) })
		})
	})
}
