package documents

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/stepwise/pkg/handlers"
	"github.com/JaimeStill/stepwise/pkg/routes"
)

// Handler provides HTTP endpoints for document type operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "documents"),
	}
}

// Routes returns the route group definition for document endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
		},
	}
}

// List returns every configured document type.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	docTypes, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			http.StatusInternalServerError,
			fmt.Errorf("database error: %w", err),
		)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, docTypes)
}
