package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	appconfig "github.com/summitsurfaces/showroom-api/internal/config"
	"github.com/summitsurfaces/showroom-api/pkg/logging"
)

func testConfig() *appconfig.Config {
	cfg := appconfig.Load()
	cfg.CRMAPIKey = "test-key"
	cfg.CORSAllowedOrigins = []string{"*"}
	return cfg
}

func TestBuildHandlerServesHealth(t *testing.T) {
	logger := logging.New("error")
	handler := buildHandler(testConfig(), logger, prometheus.NewRegistry())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "ok") {
		t.Fatalf("expected health body, got %q", rr.Body.String())
	}
}

func TestBuildHandlerExposesMetrics(t *testing.T) {
	logger := logging.New("error")
	handler := buildHandler(testConfig(), logger, prometheus.NewRegistry())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestBuildHandlerMissingAPIKey(t *testing.T) {
	logger := logging.New("error")
	cfg := testConfig()
	cfg.CRMAPIKey = ""
	handler := buildHandler(cfg, logger, prometheus.NewRegistry())

	req := httptest.NewRequest(http.MethodPost, "/submit-lead",
		strings.NewReader(`{"name":"Jane Doe","email":"jane@example.com","source":"contact_form"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "API key not configured") {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}
