package api

import (
	"net/http"

	"github.com/skillforge/fitscore/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Participants.Handler(domain.Metrics).Routes(),
		domain.Metrics.Handler().Routes(),
		domain.Weights.Handler().Routes(),
		domain.Scoring.Handler().Routes(),
	)
}
