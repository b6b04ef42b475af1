package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"servermap/internal/codec"
	"servermap/internal/domain"
	"servermap/internal/service"
	"servermap/internal/validate"
)

// ViewHandler handles saved view API requests
type ViewHandler struct {
	responder
	svc *service.ViewService
}

// NewViewHandler creates a new view handler
func NewViewHandler(svc *service.ViewService, logger *zap.Logger) *ViewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewHandler{
		responder: responder{logger: logger},
		svc:       svc,
	}
}

// ListViews returns all saved views
func (h *ViewHandler) ListViews(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.ListViews(r.Context())
	if err != nil {
		h.writeServiceError(w, "list views", err)
		return
	}
	h.writeJSON(w, views, http.StatusOK)
}

// GetView returns a single view
func (h *ViewHandler) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "get view", err)
		return
	}
	h.writeJSON(w, view, http.StatusOK)
}

type createViewRequest struct {
	domain.View
	Address string `json:"address"`
}

// CreateView saves a new view, either from explicit fields or from a
// filtered map address
func (h *ViewHandler) CreateView(w http.ResponseWriter, r *http.Request) {
	var req createViewRequest
	if !h.readJSON(w, r, validate.ViewRequest, &req) {
		return
	}

	if req.Address != "" {
		view, err := h.svc.ViewFromAddress(r.Context(), req.Name, req.Address)
		if err != nil {
			h.writeServiceError(w, "create view", err)
			return
		}
		h.writeJSON(w, view, http.StatusCreated)
		return
	}

	view := req.View
	if err := h.svc.CreateView(r.Context(), &view); err != nil {
		h.writeServiceError(w, "create view", err)
		return
	}
	h.writeJSON(w, view, http.StatusCreated)
}

// DeleteView deletes a view
func (h *ViewHandler) DeleteView(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteView(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, "delete view", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type applyFilterRequest struct {
	Filter domain.Filter     `json:"filter"`
	Hint   domain.HintUpdate `json:"hint"`
}

type applyFilterResponse struct {
	URL  string       `json:"url"`
	View *domain.View `json:"view"`
}

// ApplyFilter merges a filter and hint into a view and returns the new
// address
func (h *ViewHandler) ApplyFilter(w http.ResponseWriter, r *http.Request) {
	var req applyFilterRequest
	if !h.readJSON(w, r, validate.ApplyFilter, &req) {
		return
	}

	url, view, err := h.svc.ApplyFilter(r.Context(), chi.URLParam(r, "id"), req.Filter, req.Hint)
	if err != nil {
		h.writeServiceError(w, "apply filter", err)
		return
	}
	h.writeJSON(w, applyFilterResponse{URL: url, View: view}, http.StatusOK)
}

// Export writes all views in the format named by the path
func (h *ViewHandler) Export(w http.ResponseWriter, r *http.Request) {
	c, ok := codec.Lookup(chi.URLParam(r, "format"))
	if !ok {
		h.writeError(w, "Unknown format", chi.URLParam(r, "format"), http.StatusNotFound)
		return
	}

	set, err := h.svc.ExportViews(r.Context())
	if err != nil {
		h.writeServiceError(w, "export views", err)
		return
	}

	w.Header().Set("Content-Type", c.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename=views."+c.Format())
	if err := c.Export(set, w); err != nil {
		// Can't write error response as we already set headers
		h.logger.Error("failed to export views", zap.String("format", c.Format()), zap.Error(err))
	}
}

type importResponse struct {
	Imported int `json:"imported"`
}

// Import upserts views from a document in the format named by the path
func (h *ViewHandler) Import(w http.ResponseWriter, r *http.Request) {
	c, ok := codec.Lookup(chi.URLParam(r, "format"))
	if !ok {
		h.writeError(w, "Unknown format", chi.URLParam(r, "format"), http.StatusNotFound)
		return
	}

	set, err := c.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Invalid document", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.ImportViews(r.Context(), set); err != nil {
		h.writeServiceError(w, "import views", err)
		return
	}
	h.writeJSON(w, importResponse{Imported: len(set.Views)}, http.StatusOK)
}
