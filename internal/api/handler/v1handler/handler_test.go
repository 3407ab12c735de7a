package v1handler_test

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wellflow/internal/api/handler/v1handler"
	"wellflow/internal/drawdown"
	mockdrawdown "wellflow/internal/drawdown/mock"
	"wellflow/internal/sweep"
	mocksweep "wellflow/internal/sweep/mock"
	"wellflow/pkg/domain"
	"wellflow/pkg/grf"
	"wellflow/pkg/logger"
	"wellflow/pkg/serrors"
	"wellflow/pkg/storage"
	"wellflow/pkg/upscaling"
	"wellflow/pkg/zonation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gonum.org/v1/gonum/mat"
)

const specBody = `{
	"params": {"storage": 1e-4, "transGMean": 1e-4, "variance": 1, "lenScale": 10, "hurst": 0.5},
	"pumping": {"rate": -1e-4, "dim": 2},
	"model": {"kind": "tpl", "parts": 4},
	"times": [10, 100],
	"radii": [1, 2, 3]
}`

func TestMain(m *testing.M) {
	if err := logger.Setup(logger.DevelopmentEnvironment, ""); err != nil {
		panic(err)
	}
	m.Run()
}

type fixture struct {
	drawdown *mockdrawdown.MockService
	sweeper  *mocksweep.MockSweeper
	mux      *http.ServeMux
}

func newFixture(t *testing.T, opts v1handler.Options) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		drawdown: mockdrawdown.NewMockService(ctrl),
		sweeper:  mocksweep.NewMockSweeper(ctrl),
		mux:      http.NewServeMux(),
	}
	v1handler.New(v1handler.Deps{Drawdown: f.drawdown, Sweeper: f.sweeper}, opts).Register(f.mux)

	return f
}

func (f fixture) do(t *testing.T, method, target, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}

	return rec.Code, out
}

func TestLaw(t *testing.T) {
	f := newFixture(t, v1handler.Options{})

	f.drawdown.EXPECT().Law(gomock.Any(), drawdown.LawRequest{
		Kind:     upscaling.KindGaussian,
		Stats:    upscaling.Statistics{GeoMean: 1e-4, Variance: 1, LenScale: 10, Dim: 2},
		FarError: 0.05,
		Radii:    []float64{0, 10},
	}).Return(&drawdown.LawResult{
		Values:   []float64{6e-5, 9e-5},
		FarField: 1e-4,
		NearWell: 6e-5,
		Cutoff:   42,
	}, nil)

	code, out := f.do(t, http.MethodPost, "/v1/law", `{
		"params": {"transGMean": 1e-4, "variance": 1, "lenScale": 10},
		"model": {"kind": "gau", "farError": 0.05},
		"radii": [0, 10]
	}`)
	require.Equal(t, http.StatusOK, code)
	require.InDelta(t, 42.0, out["cutoff"], 0)
	require.InDelta(t, 1e-4, out["farField"], 1e-18)
	require.Len(t, out["values"], 2)
}

func TestLawRejectsUnknownKind(t *testing.T) {
	f := newFixture(t, v1handler.Options{})

	code, out := f.do(t, http.MethodPost, "/v1/law", `{"model": {"kind": "exponential"}, "radii": [1]}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "INVALID_ARGUMENT", out["kind"])
}

func TestProfile(t *testing.T) {
	f := newFixture(t, v1handler.Options{})

	steps, err := zonation.NewStepProfile([]float64{0, 5, math.Inf(1)}, []float64{6e-5, 1e-4})
	require.NoError(t, err)
	steps, err = steps.WithUniformStorage(1e-4)
	require.NoError(t, err)

	f.drawdown.EXPECT().Profile(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, req drawdown.Request) (*drawdown.Profile, error) {
			require.Equal(t, upscaling.KindTPL, req.Kind)
			require.InDelta(t, 0.5, req.Stats.Hurst, 0)
			require.Equal(t, 4, req.Parts)

			return &drawdown.Profile{Cutoff: 5, FarField: 1e-4, NearWell: 6e-5, Steps: steps}, nil
		})

	code, out := f.do(t, http.MethodPost, "/v1/profile", specBody)
	require.Equal(t, http.StatusOK, code)

	zones, ok := out["zones"].([]any)
	require.True(t, ok)
	require.Len(t, zones, 2)
	last, ok := zones[1].(map[string]any)
	require.True(t, ok)
	require.Nil(t, last["outer"])
	require.InDelta(t, 5.0, last["inner"], 0)
	require.InDelta(t, 1e-4, last["storage"], 1e-18)
}

func TestTransient(t *testing.T) {
	f := newFixture(t, v1handler.Options{})

	f.drawdown.EXPECT().ExtTheis(gomock.Any(), gomock.Any()).Return(&grf.Field{
		Times: []float64{10, 100},
		Radii: []float64{1, 2, 3},
		Head:  mat.NewDense(2, 3, []float64{-1, -0.5, -0.2, -2, -1.5, -1}),
	}, nil)

	code, out := f.do(t, http.MethodPost, "/v1/transient", specBody)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []any{10.0, 100.0}, out["times"])
	require.Equal(t, []any{-2.0, -1.5, -1.0}, out["head"].([]any)[1])
}

func TestSteady(t *testing.T) {
	f := newFixture(t, v1handler.Options{})

	f.drawdown.EXPECT().ExtThiem(gomock.Any(), gomock.Any()).Return([]float64{-3, -2, -1}, nil)

	code, out := f.do(t, http.MethodPost, "/v1/steady", specBody)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []any{1.0, 2.0, 3.0}, out["radii"])
	require.Equal(t, []any{-3.0, -2.0, -1.0}, out["head"])
}

func TestPipelineErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantKind string
	}{
		{
			name:     "malformed json",
			body:     `{"params": [`,
			wantCode: http.StatusBadRequest,
			wantKind: "INVALID_ARGUMENT",
		},
		{
			name:     "wrong field type",
			body:     `{"times": "soon"}`,
			wantCode: http.StatusBadRequest,
			wantKind: "INVALID_ARGUMENT",
		},
		{
			name:     "domain",
			body:     specBody,
			err:      serrors.With(serrors.ErrDomain, "variance must be non-negative"),
			wantCode: http.StatusBadRequest,
			wantKind: "DOMAIN",
		},
		{
			name:     "convergence",
			body:     specBody,
			err:      serrors.With(serrors.ErrConvergence, "inversion did not settle"),
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "CONVERGENCE",
		},
		{
			name:     "internal",
			body:     specBody,
			err:      serrors.With(serrors.ErrInternal, "boom"),
			wantCode: http.StatusInternalServerError,
			wantKind: "INTERNAL",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, v1handler.Options{})
			if tc.err != nil {
				f.drawdown.EXPECT().ExtTheis(gomock.Any(), gomock.Any()).Return(nil, tc.err)
			}

			code, out := f.do(t, http.MethodPost, "/v1/transient", tc.body)
			require.Equal(t, tc.wantCode, code)
			require.Equal(t, tc.wantKind, out["kind"])
			if tc.wantCode == http.StatusInternalServerError {
				require.Equal(t, http.StatusText(http.StatusInternalServerError), out["error"])
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	f := newFixture(t, v1handler.Options{MaxBodyBytes: 16})

	code, out := f.do(t, http.MethodPost, "/v1/transient", specBody)
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, out["error"], "exceeds 16 bytes")
}

func TestCreateRuns(t *testing.T) {
	f := newFixture(t, v1handler.Options{})

	sweepID := domain.SweepID(uuid.New())
	run := domain.Run{
		ID:        domain.RunID(uuid.New()),
		SweepID:   sweepID,
		Status:    domain.RunStatusPending,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	f.sweeper.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, sw sweep.Sweep) (domain.SweepID, []domain.Run, error) {
			require.Len(t, sw.Params, 2)
			require.InDelta(t, 2.0, sw.Params[1].Variance, 0)
			require.Equal(t, "gaussian", sw.Model.Kind)
			require.Equal(t, []float64{60, 600}, sw.Times)

			return sweepID, []domain.Run{run, run}, nil
		})

	code, out := f.do(t, http.MethodPost, "/v1/runs", `{
		"params": [
			{"storage": 1e-4, "transGMean": 1e-4, "variance": 1, "lenScale": 10},
			{"storage": 1e-4, "transGMean": 1e-4, "variance": 2, "lenScale": 10}
		],
		"pumping": {"rate": -1e-4},
		"model": {"kind": "gaussian"},
		"times": [60, 600],
		"radii": [1]
	}`)
	require.Equal(t, http.StatusAccepted, code)
	require.Equal(t, sweepID.String(), out["sweepId"])
	require.Len(t, out["runs"], 2)
}

func TestCreateRunsRejected(t *testing.T) {
	f := newFixture(t, v1handler.Options{})

	f.sweeper.EXPECT().Submit(gomock.Any(), gomock.Any()).
		Return(domain.SweepID{}, nil, serrors.With(serrors.ErrInvalidArgument, "sweep needs at least one parameter set"))

	code, out := f.do(t, http.MethodPost, "/v1/runs", `{"params": []}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "sweep needs at least one parameter set", out["error"])
}

func TestGetRun(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		path     string
		run      *domain.Run
		err      error
		wantCode int
	}{
		{
			name:     "found",
			path:     "/v1/runs/" + id.String(),
			run:      &domain.Run{ID: domain.RunID(id), Status: domain.RunStatusCompleted},
			wantCode: http.StatusOK,
		},
		{
			name:     "missing",
			path:     "/v1/runs/" + id.String(),
			err:      serrors.With(serrors.ErrNotFound, "run not found"),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "bad id",
			path:     "/v1/runs/not-a-uuid",
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, v1handler.Options{})
			if tc.run != nil || tc.err != nil {
				f.sweeper.EXPECT().Run(gomock.Any(), domain.RunID(id)).Return(tc.run, tc.err)
			}

			code, out := f.do(t, http.MethodGet, tc.path, "")
			require.Equal(t, tc.wantCode, code)
			if tc.run != nil {
				require.Equal(t, id.String(), out["id"])
				require.Equal(t, "COMPLETED", out["status"])
			}
		})
	}
}

func TestListRuns(t *testing.T) {
	f := newFixture(t, v1handler.Options{})

	sweepID := domain.SweepID(uuid.New())
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cursor := storage.RunCursor{CreatedAt: at, ID: domain.RunID(uuid.New())}.String()
	next := storage.RunCursor{CreatedAt: at, ID: domain.RunID(uuid.New())}.String()
	f.sweeper.EXPECT().Runs(gomock.Any(), storage.RunFilter{
		Status:  domain.RunStatusFailed,
		SweepID: &sweepID,
	}, cursor, uint(5)).Return(
		[]domain.Run{{ID: domain.RunID(uuid.New()), Status: domain.RunStatusFailed}},
		next,
		nil,
	)

	code, out := f.do(t, http.MethodGet,
		"/v1/runs?status=FAILED&sweepId="+sweepID.String()+"&cursor="+cursor+"&limit=5", "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, out["items"], 1)
	require.Equal(t, next, out["nextCursor"])
}

func TestListRunsDefaults(t *testing.T) {
	f := newFixture(t, v1handler.Options{})

	f.sweeper.EXPECT().Runs(gomock.Any(), storage.RunFilter{}, "", uint(v1handler.DefaultLimit)).
		Return(nil, "", nil)

	code, out := f.do(t, http.MethodGet, "/v1/runs", "")
	require.Equal(t, http.StatusOK, code)
	require.Empty(t, out["items"])
	require.Nil(t, out["nextCursor"])
}

func TestListRunsBadQuery(t *testing.T) {
	for _, q := range []string{"limit=0", "limit=abc", "limit=100000", "sweepId=nope"} {
		t.Run(q, func(t *testing.T) {
			f := newFixture(t, v1handler.Options{})

			code, out := f.do(t, http.MethodGet, "/v1/runs?"+q, "")
			require.Equal(t, http.StatusBadRequest, code)
			require.Equal(t, "INVALID_ARGUMENT", out["kind"])
		})
	}
}

func TestStatusOf(t *testing.T) {
	require.Equal(t, http.StatusConflict, v1handler.StatusOf(serrors.KindOnly(serrors.ErrConflict)))
	require.Equal(t, http.StatusServiceUnavailable, v1handler.StatusOf(serrors.KindOnly(serrors.ErrUnavailable)))
	require.Equal(t, http.StatusInternalServerError, v1handler.StatusOf(serrors.KindOnly(serrors.ErrInternal)))
}
