package httphandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memorystore "github.com/ericfisherdev/blogpanel/internal/adapter/driven/memory"
	httphandler "github.com/ericfisherdev/blogpanel/internal/adapter/driving/http"
	"github.com/ericfisherdev/blogpanel/internal/application"
	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

// --- Mock implementations ---

type mockAuthAPI struct {
	access  string
	profile model.Profile
}

func (m *mockAuthAPI) Login(_ context.Context, _ model.Credentials) (model.LoginResult, error) {
	return model.LoginResult{Access: m.access}, nil
}
func (m *mockAuthAPI) Register(_ context.Context, _ model.Registration) error { return nil }
func (m *mockAuthAPI) FetchProfile(_ context.Context, _ string) (model.Profile, error) {
	return m.profile, nil
}
func (m *mockAuthAPI) UpdateProfile(_ context.Context, _ string, _ model.ProfileUpdate) (model.Profile, error) {
	return m.profile, nil
}
func (m *mockAuthAPI) RequestPasswordReset(_ context.Context, _ string) (model.PasswordResetTicket, error) {
	return model.PasswordResetTicket{}, errors.New("not implemented")
}
func (m *mockAuthAPI) ConfirmPasswordReset(_ context.Context, _ model.PasswordReset) (string, error) {
	return "", errors.New("not implemented")
}

func setupMux(t *testing.T, api *mockAuthAPI) (http.Handler, *application.SessionRegistry, *memorystore.TokenStore) {
	t.Helper()
	tokens := memorystore.NewTokenStore()
	registry := application.NewSessionRegistry(api, tokens, slog.Default())
	h := httphandler.NewHandler(registry, "http://127.0.0.1:8000/api/", slog.Default())

	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, h)
	return httphandler.ApplyMiddleware(mux, slog.Default()), registry, tokens
}

func TestHealth(t *testing.T) {
	mux, _, _ := setupMux(t, &mockAuthAPI{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var resp httphandler.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "http://127.0.0.1:8000/api/", resp.API)
	assert.NotEmpty(t, resp.Time)
}

func TestSession_NoCookie(t *testing.T) {
	mux, registry, _ := setupMux(t, &mockAuthAPI{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp httphandler.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Authenticated)
	assert.Zero(t, registry.Len(), "status endpoint must not create sessions")
}

func TestSession_Authenticated(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second).UTC()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 5,
		"exp":     exp.Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	api := &mockAuthAPI{access: token, profile: model.Profile{ID: 5, Username: "alice"}}
	mux, registry, _ := setupMux(t, api)

	cs := registry.Get(context.Background(), registry.NewID())
	require.NoError(t, cs.Store.Login(context.Background(), model.Credentials{Username: "alice"}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.AddCookie(&http.Cookie{Name: application.SessionCookieName, Value: cs.ID})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var resp httphandler.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Authenticated)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, int64(5), resp.UserID)
	assert.Equal(t, exp.Format(time.RFC3339), resp.ExpiresAt)
	assert.False(t, resp.Expired)
}

func TestSession_RestoresPersistedCredential(t *testing.T) {
	api := &mockAuthAPI{profile: model.Profile{ID: 5, Username: "alice"}}
	mux, registry, tokens := setupMux(t, api)

	id := registry.NewID()
	require.NoError(t, tokens.Set(context.Background(), "session:"+id, "persisted"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.AddCookie(&http.Cookie{Name: application.SessionCookieName, Value: id})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var resp httphandler.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Authenticated)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, 1, registry.Len())
}

func TestSession_UnknownCookieCreatesNothing(t *testing.T) {
	mux, registry, _ := setupMux(t, &mockAuthAPI{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.AddCookie(&http.Cookie{Name: application.SessionCookieName, Value: registry.NewID()})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var resp httphandler.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Authenticated)
	assert.Zero(t, registry.Len())
}

func TestRecoveryMiddleware(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })
	mux.HandleFunc("GET /page", func(http.ResponseWriter, *http.Request) { panic("kaboom") })
	handler := httphandler.ApplyMiddleware(mux, logger)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "internal server error"))

	assert.Contains(t, logs.String(), "panic recovered")
	assert.Contains(t, logs.String(), "status=500")
}
