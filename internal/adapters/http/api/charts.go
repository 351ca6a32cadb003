package api

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/okian/visitas/internal/adapters/charts"
)

// ChartHandler renders dashboard charts as PNG.
type ChartHandler struct {
	deps     Dependencies
	renderer *charts.Renderer
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps Dependencies, renderer *charts.Renderer) *ChartHandler {
	return &ChartHandler{deps: deps, renderer: renderer}
}

// HandleGetChart handles GET /charts/{name}.png requests. Each chart is
// computed from the session's current filters.
func (h *ChartHandler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.charts"
	file := r.PathValue("file")
	if !strings.HasSuffix(file, ".png") {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	name, err := charts.ParseName(strings.TrimSuffix(file, ".png"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	}
	d, err := h.deps.Render(r.Context(), sessionFrom(r.Context()), name.View())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, name, d); err != nil {
		writeError(w, http.StatusInternalServerError, "render_error", Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
