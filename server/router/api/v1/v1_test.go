package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/y00281951/fst-time-nlu-sub002/internal/profile"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu"
	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/resolver"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T, mutate func(p *profile.Profile)) *echo.Echo {
	t.Helper()
	p := profile.Default()
	p.Version = "test"
	p.RateLimit = 0
	if mutate != nil {
		mutate(p)
	}
	svc := timenlu.NewService(resolver.NewRegistry(resolver.Config{}))
	e := echo.New()
	NewAPIV1Service(p, svc, svc.Metrics()).RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"test"}`, rec.Body.String())
}

func TestResolve(t *testing.T) {
	e := newTestServer(t, nil)
	rec := do(e, http.MethodPost, "/api/v1/resolve",
		`{"base":"2024-03-15T10:00:00Z","tokens":[{"type":"relative","offset_year":"-1"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp timenlu.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, [][]string{{"2023-01-01T00:00:00Z", "2023-12-31T23:59:59Z"}}, resp.Results)
	assert.Equal(t, []int{1}, resp.Consumed)
	assert.Equal(t, resp.RequestID, rec.Header().Get(HeaderRequestID))
}

func TestResolve_KeepsCallerRequestID(t *testing.T) {
	e := newTestServer(t, nil)
	rec := do(e, http.MethodPost, "/api/v1/resolve",
		`{"base":"2024-03-15T10:00:00Z","tokens":[]}`, HeaderRequestID, "abc-123")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
	assert.Contains(t, rec.Body.String(), `"results":[]`)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{`},
		{name: "bad base", body: `{"base":"someday","tokens":[]}`},
		{name: "illegal field", body: `{"base":"2024-03-15T10:00:00Z","tokens":[{"type":"delta","festival":"中秋"}]}`},
		{name: "missing type", body: `{"base":"2024-03-15T10:00:00Z","tokens":[{"year":"2024"}]}`},
	}

	e := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/api/v1/resolve", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
		})
	}
}

func TestResolveBatch(t *testing.T) {
	e := newTestServer(t, nil)
	rec := do(e, http.MethodPost, "/api/v1/resolve/batch", `{"requests":[
		{"base":"2024-03-15T10:00:00Z","tokens":[{"type":"relative","offset_day":"1"}]},
		{"base":"nope","tokens":[]}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Responses, 2)
	assert.Equal(t, [][]string{{"2024-03-16T00:00:00Z", "2024-03-16T23:59:59Z"}}, resp.Responses[0].Results)
	assert.NotEmpty(t, resp.Responses[1].Error)

	rec = do(e, http.MethodPost, "/api/v1/resolve/batch", `{"requests":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	e := newTestServer(t, func(p *profile.Profile) {
		p.RateLimit = 0.001
		p.RateBurst = 1
	})
	body := `{"base":"2024-03-15T10:00:00Z","tokens":[]}`
	assert.Equal(t, http.StatusOK, do(e, http.MethodPost, "/api/v1/resolve", body).Code)
	rec := do(e, http.MethodPost, "/api/v1/resolve", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestMetricsOverview(t *testing.T) {
	e := newTestServer(t, nil)
	do(e, http.MethodPost, "/api/v1/resolve", `{"base":"2024-03-15T10:00:00Z","tokens":[{"type":"relative","offset_day":"1"}]}`)
	do(e, http.MethodPost, "/api/v1/resolve", `{"base":"bad","tokens":[]}`)

	rec := do(e, http.MethodGet, "/api/v1/system/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp MetricsOverviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.TotalRequests)
	assert.Equal(t, int64(1), resp.ErrorCount)
	assert.Equal(t, int64(1), resp.ResultCount)
	assert.InDelta(t, 0.5, resp.SuccessRate, 1e-9)
}
