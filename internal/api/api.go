// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/skillforge/fitscore/internal/config"
	"github.com/skillforge/fitscore/internal/infrastructure"
	"github.com/skillforge/fitscore/pkg/middleware"
	"github.com/skillforge/fitscore/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(cfg, runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	if err := registerSpec(mux, cfg); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.BodyLimit(cfg.API.MaxBodySizeBytes()))

	return m, nil
}
