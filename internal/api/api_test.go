package api_test

import (
	"testing"

	"github.com/skillforge/fitscore/internal/api"
	"github.com/skillforge/fitscore/internal/config"
	"github.com/skillforge/fitscore/internal/infrastructure"
	"github.com/skillforge/fitscore/pkg/database"
	"github.com/skillforge/fitscore/pkg/middleware"
	"github.com/skillforge/fitscore/pkg/openapi"
	"github.com/skillforge/fitscore/pkg/pagination"
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
			Name:            "fitscore",
			User:            "fitscore",
			Password:        "fitscore",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		API: config.APIConfig{
			BasePath:    "/api",
			MaxBodySize: "10MB",
			CORS: middleware.CORSConfig{
				Enabled: false,
			},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
			OpenAPI: openapi.Config{
				Title:       "fitscore API",
				Description: "Competency assessment scoring service.",
			},
		},
		Scoring: config.ScoringConfig{
			Workers: 4,
		},
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
	return infra
}

func TestNewModule(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max page size: got %d, want 100", runtime.Pagination.MaxPageSize)
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
	cfg := validConfig()
	infra := setupInfra(t)
	runtime := api.NewRuntime(cfg, infra)

	domain, err := api.NewDomain(cfg, runtime)
	if err != nil {
		t.Fatalf("NewDomain() error = %v", err)
	}

	if domain.Participants == nil {
		t.Error("participants system is nil")
	}
	if domain.Metrics == nil {
		t.Error("metrics system is nil")
	}
	if domain.Weights == nil {
		t.Error("weights system is nil")
	}
	if domain.Scoring == nil {
		t.Error("scoring system is nil")
	}
}

func TestBuildSpec(t *testing.T) {
	cfg := validConfig()

	spec := api.BuildSpec(cfg)

	if spec.Info.Title != "fitscore API" {
		t.Errorf("title: got %s, want fitscore API", spec.Info.Title)
	}
	if spec.Info.Version != "0.1.0" {
		t.Errorf("version: got %s, want 0.1.0", spec.Info.Version)
	}

	paths := []string{
		"/participants",
		"/participants/{id}/metrics/{code}",
		"/metrics",
		"/metrics/ingest",
		"/weight-tables",
		"/weight-tables/{id}/activate",
		"/scores/calculate",
		"/scores/participant/{id}/history",
	}
	for _, p := range paths {
		if _, ok := spec.Paths[p]; !ok {
			t.Errorf("missing path: %s", p)
		}
	}
}
