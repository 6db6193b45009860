package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"surveyflow/internal/config"
	"surveyflow/internal/metrics"
	"surveyflow/internal/service"
	"surveyflow/internal/transport/rest/handler"
	"surveyflow/internal/transport/rest/middleware"
	"surveyflow/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	CatalogService *service.CatalogService
	SessionService *service.SessionService
	WSHub          *ws.Hub
	Registry       *prometheus.Registry
	CORS           config.CORSConfig
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	catalogHandler := handler.NewCatalogHandler(c.CatalogService, c.SessionService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.SessionService, c.SessionService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORS))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/catalogs/{catalogId}/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/sessions/{sessionId}", wsHandler.SessionWS).Methods("GET")
	v1.HandleFunc("/ws/catalogs/{catalogId}/host", wsHandler.HostWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	if c.Registry != nil {
		r.Handle("/metrics", metrics.Handler(c.Registry)).Methods("GET")
	}

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/catalogs", catalogHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/catalogs", catalogHandler.List).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/catalogs/{catalogId}", catalogHandler.Get).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/catalogs/{catalogId}", catalogHandler.Update).Methods("PUT", "OPTIONS")
	hostRoutes.HandleFunc("/catalogs/{catalogId}", catalogHandler.Delete).Methods("DELETE", "OPTIONS")
	hostRoutes.HandleFunc("/catalogs/{catalogId}/progress", catalogHandler.Progress).Methods("GET", "OPTIONS")

	// Respondent routes (require a token for the session in the path)
	respondentRoutes := v1.NewRoute().Subrouter()
	respondentRoutes.Use(authMW.RequireRespondent)

	respondentRoutes.HandleFunc("/sessions/{sessionId}", sessionHandler.Get).Methods("GET", "OPTIONS")
	respondentRoutes.HandleFunc("/sessions/{sessionId}/answers/{questionId}", sessionHandler.Answer).Methods("PUT", "OPTIONS")
	respondentRoutes.HandleFunc("/sessions/{sessionId}/theme", sessionHandler.SelectTheme).Methods("POST", "OPTIONS")
	respondentRoutes.HandleFunc("/sessions/{sessionId}/advance", sessionHandler.Advance).Methods("POST", "OPTIONS")
	respondentRoutes.HandleFunc("/sessions/{sessionId}/progress", sessionHandler.SavedProgress).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(cors config.CORSConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cors.AllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cors.AllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cors.AllowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
