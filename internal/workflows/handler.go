package workflows

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/stepwise/pkg/handlers"
	"github.com/JaimeStill/stepwise/pkg/pagination"
	"github.com/JaimeStill/stepwise/pkg/routes"
)

// Handler provides HTTP endpoints for workflow operations.
type Handler struct {
	sys         System
	logger      *slog.Logger
	pagination  pagination.Config
	maxBodySize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// DetailsRequest selects the workflow returned by the details endpoint.
type DetailsRequest struct {
	ID int64 `json:"id"`
}

// NewHandler creates a Handler with the given system, logger, pagination config,
// and request body limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxBodySize int64,
) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "workflows"),
		pagination:  pagination,
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for workflow endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/getworkflowdetails", Handler: h.Details},
			{Method: "POST", Pattern: "/createworkflow", Handler: h.Create},
		},
		Children: []routes.Group{
			{
				Prefix: "/workflows",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List},
					{Method: "POST", Pattern: "", Handler: h.Draft},
					{Method: "GET", Pattern: "/search", Handler: h.SearchQuery},
					{Method: "POST", Pattern: "/search", Handler: h.Search},
					{Method: "POST", Pattern: "/prepare-test", Handler: h.PrepareTest},
					{Method: "GET", Pattern: "/{id}", Handler: h.Find},
					{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
					{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
					{Method: "PUT", Pattern: "/{id}/save", Handler: h.Save},
					{Method: "PUT", Pattern: "/{id}/save-version", Handler: h.SaveVersion},
				},
			},
		},
	}
}

// List returns every workflow summary ordered by id.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.List(r.Context())
	if err != nil {
		h.fail(w, err, "database error")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// SearchQuery returns a page of summaries filtered by query parameters.
func (h *Handler) SearchQuery(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.Search(r.Context(), page, filters)
	if err != nil {
		h.fail(w, err, "database error")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching summaries.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !h.decode(w, r, &req) {
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.Search(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		h.fail(w, err, "database error")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Draft acknowledges a workflow draft without persisting it.
func (h *Handler) Draft(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.logger.Info("workflow draft received", "name", req.Name, "steps", len(req.Steps))
	handlers.RespondJSON(w, http.StatusOK, Draft{
		ID:           "workflow_123",
		Name:         req.Name,
		Description:  req.Description,
		WorkflowType: req.WorkflowType,
		Status:       "created",
	})
}

// Find returns the placeholder representation of a workflow id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	description := "Sample workflow description"
	handlers.RespondJSON(w, http.StatusOK, Draft{
		ID:           r.PathValue("id"),
		Name:         "Sample Workflow",
		Description:  &description,
		WorkflowType: "extraction",
		Status:       "active",
	})
}

// Details returns a full workflow and all data point workflows for a JSON {id} body.
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	var req DetailsRequest
	if !h.decode(w, r, &req) {
		return
	}

	details, err := h.sys.Details(r.Context(), req.ID)
	if err != nil {
		h.fail(w, err, "database error")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, details)
}

// Create inserts a workflow from a metadata body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	if err := cmd.Validate(); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	summary, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		h.fail(w, err, "database error")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}

// Update overwrites the metadata of the workflow at the id path parameter.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var cmd CreateCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	if err := cmd.Validate(); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	summary, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		h.fail(w, err, "database error")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}

// Delete removes the workflow at the id path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		h.fail(w, err, "database error")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, DeleteResult{
		Message: "Workflow deleted successfully",
		ID:      id,
	})
}

// Save overwrites the live definition without archiving it.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	id, cmd, ok := h.saveRequest(w, r)
	if !ok {
		return
	}

	if err := h.sys.Save(r.Context(), id, cmd); err != nil {
		h.fail(w, err, "database error")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, SaveResult{
		Success:    true,
		Message:    "Workflow saved successfully",
		WorkflowID: id,
	})
}

// SaveVersion archives the live definition and saves the body as the next version.
func (h *Handler) SaveVersion(w http.ResponseWriter, r *http.Request) {
	id, cmd, ok := h.saveRequest(w, r)
	if !ok {
		return
	}

	version, err := h.sys.SaveVersion(r.Context(), id, cmd)
	if err != nil {
		h.fail(w, err, "database error")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, VersionResult{
		Success:       true,
		Message:       fmt.Sprintf("Workflow saved as version %d", version),
		WorkflowID:    id,
		VersionNumber: version,
	})
}

// PrepareTest echoes a workflow definition with the loans available to test it.
func (h *Handler) PrepareTest(w http.ResponseWriter, r *http.Request) {
	var cmd PrepareTestCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	if err := cmd.Validate(); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.PrepareTest(r.Context(), cmd)
	if err != nil {
		h.fail(w, err, "error preparing test data")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) saveRequest(w http.ResponseWriter, r *http.Request) (int64, SaveCommand, bool) {
	var cmd SaveCommand

	id, ok := h.pathID(w, r)
	if !ok {
		return 0, cmd, false
	}

	if !h.decode(w, r, &cmd) {
		return 0, cmd, false
	}

	if err := cmd.Validate(); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return 0, cmd, false
	}

	return id, cmd, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			http.StatusBadRequest,
			fmt.Errorf("%w: id must be an integer", ErrInvalidRequest),
		)
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := handlers.DecodeJSON(w, r, h.maxBodySize, v); err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return false
	}
	return true
}

// fail responds with the status mapped from err. Server errors carry context
// ahead of the underlying message.
func (h *Handler) fail(w http.ResponseWriter, err error, prefix string) {
	status := MapHTTPStatus(err)
	if status == http.StatusInternalServerError {
		err = fmt.Errorf("%s: %w", prefix, err)
	}
	handlers.RespondError(w, h.logger, status, err)
}
