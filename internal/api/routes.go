package api

import (
	"net/http"

	"github.com/JaimeStill/stepwise/internal/config"
	"github.com/JaimeStill/stepwise/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		routes.Group{
			Prefix: cfg.API.VersionPath,
			Children: []routes.Group{
				domain.Documents.Handler().Routes(),
				domain.Workflows.Handler(runtime.MaxBodySize).Routes(),
			},
		},
	)
}
