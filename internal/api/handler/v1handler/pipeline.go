package v1handler

import (
	"math"
	"net/http"

	"wellflow/internal/drawdown"
	"wellflow/internal/sweep"
	"wellflow/pkg/domain"
	"wellflow/pkg/serrors"
	"wellflow/pkg/upscaling"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// lawBody is the request of POST /v1/law.
type lawBody struct {
	Params domain.ParameterSet
	Model  domain.Model
	Dim    float64
	Radii  []float64
}

func (b *lawBody) DecodeJSON(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "params":
			err = b.Params.DecodeJSON(d)
		case "model":
			err = b.Model.DecodeJSON(d)
		case "dim":
			b.Dim, err = d.Float64()
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

func (b lawBody) request() (drawdown.LawRequest, error) {
	kind, err := upscaling.ParseKind(b.Model.Kind)
	if err != nil {
		return drawdown.LawRequest{}, err
	}
	dim := b.Dim
	if dim == 0 {
		dim = 2
	}

	return drawdown.LawRequest{
		Kind: kind,
		Stats: upscaling.Statistics{
			GeoMean:  b.Params.TransGMean,
			Variance: b.Params.Variance,
			LenScale: b.Params.LenScale,
			Hurst:    b.Params.Hurst,
			Dim:      dim,
		},
		Prop:     b.Model.Prop,
		NearWell: b.Model.NearWell,
		FarError: b.Model.FarError,
		Radii:    b.Radii,
	}, nil
}

// Law evaluates a coarse-graining law at the requested radii.
func (h *Handler) Law(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body lawBody
	if err := h.decodeBody(w, r, body.DecodeJSON); err != nil {
		writeError(ctx, w, err)
		return
	}
	req, err := body.request()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	res, err := h.deps.Drawdown.Law(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("values", func(e *jx.Encoder) { domain.EncodeFloats(e, res.Values) })
			e.Field("farField", func(e *jx.Encoder) { e.Float64(res.FarField) })
			e.Field("nearWell", func(e *jx.Encoder) { e.Float64(res.NearWell) })
			e.Field("cutoff", func(e *jx.Encoder) { e.Float64(res.Cutoff) })
		})
	})
}

// decodeSpec reads a run spec body and maps it to a pipeline request.
func (h *Handler) decodeSpec(w http.ResponseWriter, r *http.Request) (drawdown.Request, error) {
	var spec domain.RunSpec
	if err := h.decodeBody(w, r, spec.DecodeJSON); err != nil {
		return drawdown.Request{}, err
	}

	return sweep.RequestFromSpec(spec)
}

// Profile returns the zoned effective profile of a run spec.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := h.decodeSpec(w, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	prof, err := h.deps.Drawdown.Profile(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("cutoff", func(e *jx.Encoder) { e.Float64(prof.Cutoff) })
			e.Field("farField", func(e *jx.Encoder) { e.Float64(prof.FarField) })
			e.Field("nearWell", func(e *jx.Encoder) { e.Float64(prof.NearWell) })
			e.Field("zones", func(e *jx.Encoder) {
				e.ArrStart()
				for _, z := range prof.Steps.Zones() {
					e.Obj(func(e *jx.Encoder) {
						e.Field("inner", func(e *jx.Encoder) { e.Float64(z.Inner) })
						// JSON has no infinity
						e.Field("outer", func(e *jx.Encoder) {
							if math.IsInf(z.Outer, 1) {
								e.Null()
								return
							}
							e.Float64(z.Outer)
						})
						e.Field("value", func(e *jx.Encoder) { e.Float64(z.Value) })
						if prof.Steps.HasStorage() {
							e.Field("storage", func(e *jx.Encoder) { e.Float64(z.Storage) })
						}
					})
				}
				e.ArrEnd()
			})
		})
	})
}

// Transient solves the extended Theis drawdown of a run spec synchronously.
func (h *Handler) Transient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := h.decodeSpec(w, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	field, err := h.deps.Drawdown.ExtTheis(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, sweep.DrawdownFromField(field).EncodeJSON)
}

// Steady solves the extended Thiem drawdown of a run spec.
func (h *Handler) Steady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := h.decodeSpec(w, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if len(req.Radii) == 0 {
		writeError(ctx, w, serrors.With(serrors.ErrInvalidArgument, "radii are required"))
		return
	}

	head, err := h.deps.Drawdown.ExtThiem(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("radii", func(e *jx.Encoder) { domain.EncodeFloats(e, req.Radii) })
			e.Field("head", func(e *jx.Encoder) { domain.EncodeFloats(e, head) })
		})
	})
}
