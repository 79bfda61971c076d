package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/stepwise/internal/config"
	"github.com/JaimeStill/stepwise/internal/infrastructure"
	"github.com/JaimeStill/stepwise/pkg/database"
)

func testConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "127.0.0.1",
			Port:            1,
			Name:            "stepwise",
			User:            "stepwise",
			SSLMode:         "disable",
			MaxOpenConns:    2,
			MaxIdleConns:    1,
			ConnMaxLifetime: "1m",
			ConnTimeout:     "1s",
		},
		Logging: config.LoggingConfig{Level: "error", Format: config.LogFormatText},
		Version: "1.2.3",
	}
}

func TestBuildRouter(t *testing.T) {
	cfg := testConfig()
	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	defer infra.Database.Connection().Close()

	router := buildRouter(infra, cfg)

	tests := []struct {
		name       string
		path       string
		wantCode   int
		wantStatus string
	}{
		{"root", "/", http.StatusOK, "running"},
		{"healthz", "/healthz", http.StatusOK, "ok"},
		{"health", "/health", http.StatusOK, "healthy"},
		{"readyz without database", "/readyz", http.StatusServiceUnavailable, "not ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.wantCode)
			}

			var body status
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("status field: got %s, want %s", body.Status, tt.wantStatus)
			}
			if tt.path == "/" && body.Version != "1.2.3" {
				t.Errorf("version: got %s, want 1.2.3", body.Version)
			}
		})
	}

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rec.Code)
		}
	})
}
