package domain

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

// EncodeJSON writes p as a JSON object.
func (p ParameterSet) EncodeJSON(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("storage", func(e *jx.Encoder) { e.Float64(p.Storage) })
		e.Field("transGMean", func(e *jx.Encoder) { e.Float64(p.TransGMean) })
		e.Field("variance", func(e *jx.Encoder) { e.Float64(p.Variance) })
		e.Field("lenScale", func(e *jx.Encoder) { e.Float64(p.LenScale) })
		e.Field("hurst", func(e *jx.Encoder) { e.Float64(p.Hurst) })
	})
}

// DecodeJSON reads p from a JSON object. Unknown fields are skipped.
func (p *ParameterSet) DecodeJSON(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "storage":
			p.Storage, err = d.Float64()
		case "transGMean":
			p.TransGMean, err = d.Float64()
		case "variance":
			p.Variance, err = d.Float64()
		case "lenScale":
			p.LenScale, err = d.Float64()
		case "hurst":
			p.Hurst, err = d.Float64()
		default:
			return d.Skip()
		}

		return wrapField(err, key)
	})
}

// EncodeJSON writes p as a JSON object.
func (p Pumping) EncodeJSON(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("rate", func(e *jx.Encoder) { e.Float64(p.Rate) })
		e.Field("wellRadius", func(e *jx.Encoder) { e.Float64(p.WellRadius) })
		e.Field("outerRadius", func(e *jx.Encoder) { e.Float64(p.OuterRadius) })
		if p.Boundary != "" {
			e.Field("boundary", func(e *jx.Encoder) { e.Str(p.Boundary) })
		}
		e.Field("dim", func(e *jx.Encoder) { e.Float64(p.Dim) })
		e.Field("latExt", func(e *jx.Encoder) { e.Float64(p.LatExt) })
	})
}

// DecodeJSON reads p from a JSON object. Unknown fields are skipped.
func (p *Pumping) DecodeJSON(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "rate":
			p.Rate, err = d.Float64()
		case "wellRadius":
			p.WellRadius, err = d.Float64()
		case "outerRadius":
			p.OuterRadius, err = d.Float64()
		case "boundary":
			p.Boundary, err = d.Str()
		case "dim":
			p.Dim, err = d.Float64()
		case "latExt":
			p.LatExt, err = d.Float64()
		default:
			return d.Skip()
		}

		return wrapField(err, key)
	})
}

// EncodeJSON writes m as a JSON object.
func (m Model) EncodeJSON(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("kind", func(e *jx.Encoder) { e.Str(m.Kind) })
		e.Field("prop", func(e *jx.Encoder) { e.Float64(m.Prop) })
		e.Field("nearWell", func(e *jx.Encoder) { e.Float64(m.NearWell) })
		e.Field("farError", func(e *jx.Encoder) { e.Float64(m.FarError) })
		e.Field("parts", func(e *jx.Encoder) { e.Int(m.Parts) })
	})
}

// DecodeJSON reads m from a JSON object. Unknown fields are skipped.
func (m *Model) DecodeJSON(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "kind":
			m.Kind, err = d.Str()
		case "prop":
			m.Prop, err = d.Float64()
		case "nearWell":
			m.NearWell, err = d.Float64()
		case "farError":
			m.FarError, err = d.Float64()
		case "parts":
			m.Parts, err = d.Int()
		default:
			return d.Skip()
		}

		return wrapField(err, key)
	})
}

// EncodeJSON writes s as a JSON object.
func (s RunSpec) EncodeJSON(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("params", s.Params.EncodeJSON)
		e.Field("pumping", s.Pumping.EncodeJSON)
		e.Field("model", s.Model.EncodeJSON)
		e.Field("times", func(e *jx.Encoder) { EncodeFloats(e, s.Times) })
		e.Field("radii", func(e *jx.Encoder) { EncodeFloats(e, s.Radii) })
	})
}

// DecodeJSON reads s from a JSON object. Unknown fields are skipped.
func (s *RunSpec) DecodeJSON(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "params":
			err = s.Params.DecodeJSON(d)
		case "pumping":
			err = s.Pumping.DecodeJSON(d)
		case "model":
			err = s.Model.DecodeJSON(d)
		case "times":
			s.Times, err = DecodeFloats(d)
		case "radii":
			s.Radii, err = DecodeFloats(d)
		default:
			return d.Skip()
		}

		return wrapField(err, key)
	})
}

// MarshalJSON implements json.Marshaler.
func (s RunSpec) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	s.EncodeJSON(&e)

	return e.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *RunSpec) UnmarshalJSON(b []byte) error {
	return s.DecodeJSON(jx.DecodeBytes(b))
}

// EncodeJSON writes dd as a JSON object with a nested head array.
func (dd Drawdown) EncodeJSON(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("times", func(e *jx.Encoder) { EncodeFloats(e, dd.Times) })
		e.Field("radii", func(e *jx.Encoder) { EncodeFloats(e, dd.Radii) })
		e.Field("head", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, row := range dd.Head {
					EncodeFloats(e, row)
				}
			})
		})
	})
}

// DecodeJSON reads dd from a JSON object. Unknown fields are skipped.
func (dd *Drawdown) DecodeJSON(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "times":
			dd.Times, err = DecodeFloats(d)
		case "radii":
			dd.Radii, err = DecodeFloats(d)
		case "head":
			dd.Head = dd.Head[:0]
			err = d.Arr(func(d *jx.Decoder) error {
				row, err := DecodeFloats(d)
				if err != nil {
					return err
				}
				dd.Head = append(dd.Head, row)

				return nil
			})
		default:
			return d.Skip()
		}

		return wrapField(err, key)
	})
}

// MarshalJSON implements json.Marshaler.
func (dd Drawdown) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	dd.EncodeJSON(&e)

	return e.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (dd *Drawdown) UnmarshalJSON(b []byte) error {
	return dd.DecodeJSON(jx.DecodeBytes(b))
}

// EncodeJSON writes r as a JSON object. The result is omitted while the run is pending.
func (r Run) EncodeJSON(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(r.ID.String()) })
		e.Field("sweepId", func(e *jx.Encoder) { e.Str(r.SweepID.String()) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(r.Status)) })
		e.Field("spec", r.Spec.EncodeJSON)
		if r.Result != nil {
			e.Field("result", r.Result.EncodeJSON)
		}
		e.Field("attempts", func(e *jx.Encoder) { e.Int(int(r.Attempts)) }) //nolint: gosec
		if r.LastError != "" {
			e.Field("lastError", func(e *jx.Encoder) { e.Str(r.LastError) })
		}
		e.Field("createdAt", func(e *jx.Encoder) { e.Str(r.CreatedAt.Format(time.RFC3339)) })
		if !r.UpdatedAt.IsZero() {
			e.Field("updatedAt", func(e *jx.Encoder) { e.Str(r.UpdatedAt.Format(time.RFC3339)) })
		}
	})
}

// DecodeJSON reads r from a JSON object. Unknown fields are skipped.
func (r *Run) DecodeJSON(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			id, err := decodeUUID(d)
			r.ID = RunID(id)

			return wrapField(err, key)
		case "sweepId":
			id, err := decodeUUID(d)
			r.SweepID = SweepID(id)

			return wrapField(err, key)
		case "status":
			s, err := d.Str()
			r.Status = RunStatus(s)

			return wrapField(err, key)
		case "spec":
			return wrapField(r.Spec.DecodeJSON(d), key)
		case "result":
			r.Result = &Drawdown{}

			return wrapField(r.Result.DecodeJSON(d), key)
		case "attempts":
			n, err := d.Int()
			r.Attempts = uint(max(n, 0))

			return wrapField(err, key)
		case "lastError":
			s, err := d.Str()
			r.LastError = s

			return wrapField(err, key)
		case "createdAt":
			t, err := decodeTime(d)
			r.CreatedAt = t

			return wrapField(err, key)
		case "updatedAt":
			t, err := decodeTime(d)
			r.UpdatedAt = t

			return wrapField(err, key)
		default:
			return d.Skip()
		}
	})
}

// EncodeFloats writes v as a JSON array of numbers.
func EncodeFloats(e *jx.Encoder, v []float64) {
	e.ArrStart()
	for _, x := range v {
		e.Float64(x)
	}
	e.ArrEnd()
}

// DecodeFloats reads a JSON array of numbers.
func DecodeFloats(d *jx.Decoder) ([]float64, error) {
	out := []float64{}
	if err := d.Arr(func(d *jx.Decoder) error {
		v, err := d.Float64()
		if err != nil {
			return err
		}
		out = append(out, v)

		return nil
	}); err != nil {
		return nil, err
	}

	return out, nil
}

func decodeUUID(d *jx.Decoder) (uuid.UUID, error) {
	s, err := d.Str()
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(s)
}

func decodeTime(d *jx.Decoder) (time.Time, error) {
	s, err := d.Str()
	if err != nil {
		return time.Time{}, err
	}

	return time.Parse(time.RFC3339, s)
}

func wrapField(err error, key string) error {
	if err == nil {
		return nil
	}

	return errors.Wrap(err, key)
}
