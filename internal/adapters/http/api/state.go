package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	service "github.com/okian/visitas/internal/app"
	"github.com/okian/visitas/internal/domain/types"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 16

// StateHandler serves the session state and view endpoints.
type StateHandler struct {
	deps Dependencies
}

// NewStateHandler creates a new state handler.
func NewStateHandler(deps Dependencies) *StateHandler {
	return &StateHandler{deps: deps}
}

type yearClickRequest struct {
	Year string `json:"year"`
}

type viewRequest struct {
	View string `json:"view"`
}

// HandleGetState handles GET /api/state requests.
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	const op = "api.state"
	out, err := h.deps.Controls(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandlePostFilters handles POST /api/filters requests. Fields left out of
// the body keep their current value.
func (h *StateHandler) HandlePostFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.filters"
	var req service.FilterInput
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	out, err := h.deps.ApplyFilters(r.Context(), sessionFrom(r.Context()), req)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandlePostYearClick handles POST /api/year-click requests.
func (h *StateHandler) HandlePostYearClick(w http.ResponseWriter, r *http.Request) {
	const op = "api.year_click"
	var req yearClickRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Year == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("year is required")))
		return
	}
	out, err := h.deps.ClickYear(r.Context(), sessionFrom(r.Context()), req.Year)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandlePostView handles POST /api/view requests.
func (h *StateHandler) HandlePostView(w http.ResponseWriter, r *http.Request) {
	const op = "api.view"
	var req viewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	out, err := h.deps.SetView(r.Context(), sessionFrom(r.Context()), req.View)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetView handles GET /api/views/{view} requests. The session's
// current view is left unchanged.
func (h *StateHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	const op = "api.views"
	v, err := types.ParseView(r.PathValue("view"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	}
	out, err := h.deps.Render(r.Context(), sessionFrom(r.Context()), v)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}
