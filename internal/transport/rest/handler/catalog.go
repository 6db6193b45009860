package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"surveyflow/internal/model"
	"surveyflow/internal/service"
	"surveyflow/internal/transport/rest/middleware"
)

// CatalogHandler handles host catalog endpoints
type CatalogHandler struct {
	catalogSvc *service.CatalogService
	sessionSvc *service.SessionService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogSvc *service.CatalogService, sessionSvc *service.SessionService) *CatalogHandler {
	return &CatalogHandler{
		catalogSvc: catalogSvc,
		sessionSvc: sessionSvc,
	}
}

// Create handles POST /v1/catalogs
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var c model.Catalog
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.catalogSvc.Create(r.Context(), hostID, &c)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"catalogId": id})
}

// Update handles PUT /v1/catalogs/{catalogId}
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	catalogID := mux.Vars(r)["catalogId"]
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var c model.Catalog
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c.ID = catalogID

	if err := h.catalogSvc.Update(r.Context(), hostID, &c); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &c)
}

// Get handles GET /v1/catalogs/{catalogId}
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	catalogID := mux.Vars(r)["catalogId"]

	c, err := h.catalogSvc.GetByID(r.Context(), middleware.GetHostID(r.Context()), catalogID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// List handles GET /v1/catalogs
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	catalogs, err := h.catalogSvc.GetByHostID(r.Context(), hostID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"catalogs": catalogs})
}

// Delete handles DELETE /v1/catalogs/{catalogId}
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	catalogID := mux.Vars(r)["catalogId"]

	if err := h.catalogSvc.Delete(r.Context(), middleware.GetHostID(r.Context()), catalogID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Progress handles GET /v1/catalogs/{catalogId}/progress
func (h *CatalogHandler) Progress(w http.ResponseWriter, r *http.Request) {
	catalogID := mux.Vars(r)["catalogId"]

	entries, err := h.sessionSvc.Progress(r.Context(), middleware.GetHostID(r.Context()), catalogID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
