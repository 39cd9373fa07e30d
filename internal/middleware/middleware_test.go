package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drive/internal/auth"
	"drive/internal/domain"
	"drive/internal/httputil"
	"drive/internal/metrics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	c := &auth.Claims{Role: "authenticated"}
	c.Subject = "user-jwt"
	return c, nil
}

func (stubVerifier) Close() error { return nil }

func echoActor() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := httputil.ActorFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		io.WriteString(w, actor.ID)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		devUser  string
		setup    func(r *http.Request)
		wantCode int
		wantBody string
	}{
		{
			name:     "valid bearer token",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") },
			wantCode: http.StatusOK,
			wantBody: "user-jwt",
		},
		{
			name:     "token in query",
			setup:    func(r *http.Request) { r.URL.RawQuery = "access_token=good" },
			wantCode: http.StatusOK,
			wantBody: "user-jwt",
		},
		{
			name:     "invalid token",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer bad") },
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "invalid token is not rescued by dev bypass",
			devUser:  "dev",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer bad") },
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "no credentials",
			setup:    func(r *http.Request) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "dev bypass default user",
			devUser:  "dev",
			setup:    func(r *http.Request) {},
			wantCode: http.StatusOK,
			wantBody: "dev",
		},
		{
			name:     "dev bypass header",
			devUser:  "dev",
			setup:    func(r *http.Request) { r.Header.Set(DevUserHeader, "user-b") },
			wantCode: http.StatusOK,
			wantBody: "user-b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(stubVerifier{}, tt.devUser, testLogger())(echoActor())
			req := httptest.NewRequest(http.MethodGet, "/api/folders/root/children", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(testLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reason":"internal"`)
}

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/files/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := Metrics(m)(mux)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/files/abc", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	families, err := registry.Gather()
	require.NoError(t, err)

	labels := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "drive_http_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			var route, code string
			for _, l := range metric.GetLabel() {
				switch l.GetName() {
				case "route":
					route = l.GetValue()
				case "code":
					code = l.GetValue()
				}
			}
			labels[route+" "+code] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), labels["GET /api/files/{id} 4xx"])
	assert.Equal(t, float64(1), labels["unmatched 4xx"])
}
