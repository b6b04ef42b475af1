package handler

import (
	"net/http"

	"go.uber.org/zap"

	"servermap/internal/domain"
	"servermap/internal/filtermap"
	"servermap/internal/service"
	"servermap/internal/validate"
)

// MapHandler handles the stateless filtered map endpoints
type MapHandler struct {
	responder
	svc           *service.ViewService
	defaultPeriod string
}

// NewMapHandler creates a new filtered map handler. defaultPeriod is used
// for requests whose navigation carries no period.
func NewMapHandler(svc *service.ViewService, defaultPeriod string, logger *zap.Logger) *MapHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MapHandler{
		responder:     responder{logger: logger},
		svc:           svc,
		defaultPeriod: defaultPeriod,
	}
}

type urlRequest struct {
	Navigation          *domain.Navigation `json:"navigation"`
	Filter              domain.Filter      `json:"filter"`
	Hint                domain.HintUpdate  `json:"hint"`
	MainApplication     string             `json:"mainApplication"`
	MainServiceTypeName string             `json:"mainServiceTypeName"`
}

type urlResponse struct {
	URL string `json:"url"`
}

// BuildURL composes the address that results from applying a filter and
// hint to a navigation state
func (h *MapHandler) BuildURL(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if !h.readJSON(w, r, validate.URLRequest, &req) {
		return
	}

	nav := domain.Navigation{Period: h.defaultPeriod}
	if req.Navigation != nil {
		nav = *req.Navigation
		if nav.Period == "" {
			nav.Period = h.defaultPeriod
		}
	}

	req.Filter.MainApplication = req.MainApplication
	req.Filter.MainServiceTypeName = req.MainServiceTypeName

	url, err := h.svc.BuildURL(nav, req.Filter, req.Hint)
	if err != nil {
		h.writeServiceError(w, "build address", err)
		return
	}

	h.writeJSON(w, urlResponse{URL: url}, http.StatusOK)
}

type parseRequest struct {
	Address string `json:"address"`
}

// ParseAddress decodes a filtered map address
func (h *MapHandler) ParseAddress(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !h.readJSON(w, r, "", &req) {
		return
	}

	parsed, err := h.svc.Merger().ParseAddress(req.Address)
	if err != nil {
		h.writeServiceError(w, "parse address", err)
		return
	}

	h.writeJSON(w, parsed, http.StatusOK)
}

type unknownResponse struct {
	Unknown bool `json:"unknown"`
}

// HasUnknownNode reports whether any posted filter record targets an
// UNKNOWN node
func (h *MapHandler) HasUnknownNode(w http.ResponseWriter, r *http.Request) {
	var records []domain.RawFilterRecord
	if !h.readJSON(w, r, "", &records) {
		return
	}

	h.writeJSON(w, unknownResponse{Unknown: filtermap.FiltersHaveUnknownNode(records)}, http.StatusOK)
}

type bucketRequest struct {
	Label  string                 `json:"label"`
	Values []domain.BucketedValue `json:"values"`
}

type bucketResponse struct {
	Start int `json:"start"`
}

// BucketStart returns the lower bound of the bucket ending at label
func (h *MapHandler) BucketStart(w http.ResponseWriter, r *http.Request) {
	var req bucketRequest
	if !h.readJSON(w, r, "", &req) {
		return
	}

	h.writeJSON(w, bucketResponse{Start: filtermap.StartValueForLabel(req.Label, req.Values)}, http.StatusOK)
}
