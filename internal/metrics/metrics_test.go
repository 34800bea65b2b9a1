package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	// Exercising the observers must not panic after repeated Init.
	ObserveProviderAttempt("screenshot", "chromedp", "failure")
	ObserveStageDuration("vision", 250*time.Millisecond)
	ObserveExtraction("success")
	ObserveDegradedExtraction()
	ObserveHTTPRequest(http.MethodPost, "/v1/extract", http.StatusOK, 10*time.Millisecond)
}

func TestHandlerServesMetrics(t *testing.T) {
	Init()
	ObserveProviderAttempt("screenshot", "rod", "success")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "brandlens_provider_attempts_total")
}
