package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/stepwise/internal/api"
	"github.com/JaimeStill/stepwise/internal/config"
	"github.com/JaimeStill/stepwise/internal/infrastructure"
	"github.com/JaimeStill/stepwise/pkg/handlers"
	"github.com/JaimeStill/stepwise/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

type status struct {
	Message string `json:"message,omitempty"`
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, status{
			Message: "Stepwise workflow service",
			Status:  "running",
			Version: cfg.Version,
		})
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, status{Status: "ok"})
	})

	router.HandleNative("GET /health", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, status{Status: "healthy"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			// a failed startup ping recovers once the database answers again
			if err := infra.Database.Ping(r.Context()); err != nil || !infra.Lifecycle.Ready() {
				handlers.RespondJSON(w, http.StatusServiceUnavailable, status{Status: "not ready"})
				return
			}
		}
		handlers.RespondJSON(w, http.StatusOK, status{Status: "ready"})
	})

	metrics := promhttp.HandlerFor(infra.Metrics, promhttp.HandlerOpts{Registry: infra.Metrics})
	router.HandleNative("GET /metrics", metrics.ServeHTTP)

	return router
}
