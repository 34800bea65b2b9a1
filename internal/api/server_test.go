package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jam5991/brandlens/internal/brand"
	systemclock "github.com/jam5991/brandlens/internal/clock/system"
	"github.com/jam5991/brandlens/internal/config"
	uuidgen "github.com/jam5991/brandlens/internal/id/uuid"
	"github.com/jam5991/brandlens/internal/metrics"
)

type fakeExtractor struct {
	profile brand.BrandProfile
	trail   []brand.AttemptRecord
	err     error
	gotURL  string
}

func (f *fakeExtractor) ExtractBrandProfile(ctx context.Context, url string) (brand.BrandProfile, []brand.AttemptRecord, error) {
	f.gotURL = url
	if f.err != nil {
		return brand.BrandProfile{}, nil, f.err
	}
	return f.profile, f.trail, nil
}

func newTestServer(t *testing.T, extractor Extractor, cfg config.Config) *Server {
	t.Helper()
	metrics.Init()
	return NewServer(extractor, uuidgen.NewGenerator(), systemclock.New(), zap.NewNop(), cfg)
}

func sampleProfile() brand.BrandProfile {
	return brand.BrandProfile{
		Name:           "Acme Robotics",
		PrimaryColor:   "#E11D48",
		SecondaryColor: "#F1F5F9",
		AccentColor:    "#0EA5E9",
		FontFamily:     "Inter, sans-serif",
		Confidence:     brand.Confidence{Overall: 0.8},
	}
}

func TestExtractEndpoint(t *testing.T) {
	ex := &fakeExtractor{
		profile: sampleProfile(),
		trail: []brand.AttemptRecord{
			{
				Stage:    brand.StageScreenshot,
				Provider: "chromedp",
				Attempt:  1,
				Outcome:  brand.OutcomeSuccess,
				Latency:  1200 * time.Millisecond,
			},
		},
	}
	srv := newTestServer(t, ex, config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/v1/extract",
		strings.NewReader(`{"url":"https://acme.example"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	require.Equal(t, "https://acme.example", ex.gotURL)

	var resp extractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.RequestID)
	require.Equal(t, "Acme Robotics", resp.Profile.Name)
	require.Len(t, resp.Attempts, 1)
	require.Equal(t, int64(1200), resp.Attempts[0].LatencyMs)
	require.Equal(t, "success", resp.Attempts[0].Outcome)
}

func TestExtractRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t, &fakeExtractor{profile: sampleProfile()}, config.Config{})

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{"url":`},
		{"missing url", `{}`},
		{"relative url", `{"url":"/about"}`},
		{"wrong scheme", `{"url":"ftp://acme.example"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/extract", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestExtractFetchFailureMapsToBadGateway(t *testing.T) {
	ex := &fakeExtractor{err: &brand.FetchError{URL: "https://down.example", Err: errors.New("refused")}}
	srv := newTestServer(t, ex, config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/v1/extract",
		strings.NewReader(`{"url":"https://down.example"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "refused")
}

func TestExtractUnexpectedErrorMapsToInternal(t *testing.T) {
	ex := &fakeExtractor{err: errors.New("boom")}
	srv := newTestServer(t, ex, config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/v1/extract",
		strings.NewReader(`{"url":"https://acme.example"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, &fakeExtractor{}, config.Config{})

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeExtractor{}, config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyMiddleware(t *testing.T) {
	cfg := config.Config{Auth: config.AuthConfig{Enabled: true, APIKey: "secret"}}
	srv := newTestServer(t, &fakeExtractor{}, cfg)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
