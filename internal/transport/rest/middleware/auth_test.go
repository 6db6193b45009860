package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyflow/internal/config"
	"surveyflow/internal/service"
)

func newRespondentRouter(t *testing.T) (*mux.Router, *service.AuthService) {
	t.Helper()
	authSvc := service.NewAuthService(&config.Config{
		HostUsername: "admin",
		HostPassword: "pw",
		JWTSecret:    "test-secret",
		SessionTTL:   time.Hour,
	})

	r := mux.NewRouter()
	r.Use(NewAuthMiddleware(authSvc).RequireRespondent)
	r.HandleFunc("/sessions/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetSessionID(r.Context())))
	})
	return r, authSvc
}

func TestRequireRespondent(t *testing.T) {
	r, authSvc := newRespondentRouter(t)
	token, err := authSvc.GenerateRespondentToken("s1", "default")
	require.NoError(t, err)
	hostToken, err := authSvc.Login("admin", "pw")
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "bearer token", path: "/sessions/s1", header: "Bearer " + token, wantStatus: http.StatusOK, wantBody: "s1"},
		{name: "query token", path: "/sessions/s1?token=" + token, wantStatus: http.StatusOK, wantBody: "s1"},
		{name: "missing token", path: "/sessions/s1", wantStatus: http.StatusUnauthorized},
		{name: "host token", path: "/sessions/s1", header: "Bearer " + hostToken.Token, wantStatus: http.StatusUnauthorized},
		{name: "other session", path: "/sessions/s2", header: "Bearer " + token, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestGetSessionIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetSessionID(req.Context()))
	assert.Empty(t, GetHostID(req.Context()))
}
