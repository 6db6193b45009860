package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"surveyflow/internal/model"
	"surveyflow/internal/service"
	"surveyflow/internal/transport/rest/middleware"
)

// SessionHandler handles respondent session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// Start handles POST /v1/catalogs/{catalogId}/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	catalogID := mux.Vars(r)["catalogId"]

	resp, err := h.sessionSvc.Start(r.Context(), catalogID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/sessions/{sessionId}. Session handlers take the session
// id from the respondent token, which RequireRespondent matched to the path.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessionSvc.View(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Answer handles PUT /v1/sessions/{sessionId}/answers/{questionId}
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	questionID := mux.Vars(r)["questionId"]

	var req model.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.sessionSvc.Answer(r.Context(), middleware.GetSessionID(r.Context()), questionID, req.Answer)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// SelectTheme handles POST /v1/sessions/{sessionId}/theme
func (h *SessionHandler) SelectTheme(w http.ResponseWriter, r *http.Request) {
	var req model.ThemeSelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ThemeID == "" {
		writeError(w, http.StatusBadRequest, "themeId is required")
		return
	}

	resp, err := h.sessionSvc.SelectTheme(r.Context(), middleware.GetSessionID(r.Context()), req.ThemeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Advance handles POST /v1/sessions/{sessionId}/advance. Every outcome,
// failures included, is a 200.
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	resp, err := h.sessionSvc.Advance(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SavedProgress handles GET /v1/sessions/{sessionId}/progress
func (h *SessionHandler) SavedProgress(w http.ResponseWriter, r *http.Request) {
	p, err := h.sessionSvc.SavedProgress(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}
