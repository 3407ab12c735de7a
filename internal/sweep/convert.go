package sweep

import (
	"wellflow/internal/drawdown"
	"wellflow/pkg/domain"
	"wellflow/pkg/grf"
	"wellflow/pkg/upscaling"
)

// RequestFromSpec maps a stored run spec to a pipeline request.
func RequestFromSpec(spec domain.RunSpec) (drawdown.Request, error) {
	kind, err := upscaling.ParseKind(spec.Model.Kind)
	if err != nil {
		return drawdown.Request{}, err
	}
	boundary, err := grf.ParseBoundary(spec.Pumping.Boundary)
	if err != nil {
		return drawdown.Request{}, err
	}

	return drawdown.Request{
		Kind: kind,
		Stats: upscaling.Statistics{
			GeoMean:  spec.Params.TransGMean,
			Variance: spec.Params.Variance,
			LenScale: spec.Params.LenScale,
			Hurst:    spec.Params.Hurst,
			Dim:      spec.Pumping.Dim,
		},
		Storage: spec.Params.Storage,
		Scenario: grf.Scenario{
			Rate:        spec.Pumping.Rate,
			WellRadius:  spec.Pumping.WellRadius,
			OuterRadius: spec.Pumping.OuterRadius,
			Boundary:    boundary,
			Dim:         spec.Pumping.Dim,
			LatExt:      spec.Pumping.LatExt,
		},
		Prop:     spec.Model.Prop,
		NearWell: spec.Model.NearWell,
		FarError: spec.Model.FarError,
		Parts:    spec.Model.Parts,
		Times:    spec.Times,
		Radii:    spec.Radii,
	}, nil
}

// DrawdownFromField copies a solved field into its stored form.
func DrawdownFromField(field *grf.Field) *domain.Drawdown {
	rows, _ := field.Head.Dims()
	head := make([][]float64, rows)
	for i := range head {
		head[i] = field.Row(i)
	}

	return &domain.Drawdown{
		Times: field.Times,
		Radii: field.Radii,
		Head:  head,
	}
}
