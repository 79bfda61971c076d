package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/stepwise/internal/api"
	"github.com/JaimeStill/stepwise/internal/config"
	"github.com/JaimeStill/stepwise/internal/infrastructure"
	"github.com/JaimeStill/stepwise/pkg/database"
	"github.com/JaimeStill/stepwise/pkg/middleware"
	"github.com/JaimeStill/stepwise/pkg/pagination"
)

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "stepwise",
			User:            "stepwise",
			Password:        "stepwise",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    1,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		API: config.APIConfig{
			BasePath:    "/api",
			VersionPath: "/v1",
			MaxBodySize: "1MB",
			CORS: middleware.CORSConfig{
				Enabled: false,
			},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
		},
		Logging:         config.LoggingConfig{Level: "error", Format: config.LogFormatText},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })
	return infra
}

func TestNewModule(t *testing.T) {
	m, err := api.NewModule(validConfig(), setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestModuleRoutes(t *testing.T) {
	m, err := api.NewModule(validConfig(), setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"workflow placeholder", "GET", "/api/v1/workflows/12", "", http.StatusOK},
		{"draft placeholder", "POST", "/api/v1/workflows", `{"name":"Draft","workflow_type":"extraction"}`, http.StatusOK},
		{"malformed details body", "POST", "/api/v1/getworkflowdetails", `{`, http.StatusBadRequest},
		{"invalid save id", "PUT", "/api/v1/workflows/abc/save", `{}`, http.StatusBadRequest},
		{"unversioned path", "GET", "/api/workflows/12", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			m.Serve(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("X-Request-ID header not set")
			}
		})
	}
}

func TestNewRuntime(t *testing.T) {
	runtime := api.NewRuntime(validConfig(), setupInfra(t))

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max page size: got %d, want 100", runtime.Pagination.MaxPageSize)
	}
	if runtime.MaxBodySize != 1024*1024 {
		t.Errorf("max body size: got %d, want %d", runtime.MaxBodySize, 1024*1024)
	}
	if runtime.Logger == nil {
		t.Error("runtime logger is nil")
	}
	if runtime.Database == nil {
		t.Error("runtime database is nil")
	}
	if runtime.Lifecycle == nil {
		t.Error("runtime lifecycle is nil")
	}
}

func TestNewDomain(t *testing.T) {
	runtime := api.NewRuntime(validConfig(), setupInfra(t))

	domain := api.NewDomain(runtime)
	if domain.Documents == nil {
		t.Error("documents system is nil")
	}
	if domain.Workflows == nil {
		t.Error("workflows system is nil")
	}
}
