package api

import (
	"fmt"
	"net/http"

	"github.com/skillforge/fitscore/internal/config"
	"github.com/skillforge/fitscore/internal/metrics"
	"github.com/skillforge/fitscore/internal/participants"
	"github.com/skillforge/fitscore/internal/scoring"
	"github.com/skillforge/fitscore/internal/weights"
	"github.com/skillforge/fitscore/pkg/openapi"
)

// BuildSpec assembles the service OpenAPI document from each domain's
// schema and operation registrations.
func BuildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	participants.RegisterSpecs(spec)
	metrics.RegisterSpecs(spec)
	weights.RegisterSpecs(spec)
	scoring.RegisterSpecs(spec)

	return spec
}

// registerSpec serializes the spec once at startup and serves the bytes.
func registerSpec(mux *http.ServeMux, cfg *config.Config) error {
	data, err := openapi.MarshalJSON(BuildSpec(cfg))
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}

	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(data))
	return nil
}
