package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/blogpanel/internal/application"
	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON body of GET /api/v1/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	API      string `json:"api"`
	Sessions int    `json:"sessions"`
}

// SessionResponse is the JSON body of GET /api/v1/session.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	UserID        int64  `json:"user_id,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	Expired       bool   `json:"expired,omitempty"`
}

func toSessionResponse(s model.Session, now time.Time) SessionResponse {
	if !s.Authenticated() {
		return SessionResponse{}
	}

	resp := SessionResponse{Authenticated: true}
	if s.Profile != nil {
		resp.Username = s.Profile.DisplayName()
		resp.UserID = s.Profile.ID
	}

	if info, err := application.InspectCredential(s.Credential); err == nil {
		if resp.UserID == 0 {
			resp.UserID = info.UserID
		}
		if !info.ExpiresAt.IsZero() {
			resp.ExpiresAt = info.ExpiresAt.Format(time.RFC3339)
			resp.Expired = info.Expired(now)
		}
	}
	return resp
}
