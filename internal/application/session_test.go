package application_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/blogpanel/internal/application"
	"github.com/ericfisherdev/blogpanel/internal/domain/model"
	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
)

const testKey = "session:test"

func newTestStore(api *mockAuthAPI, tokens *mockTokenStore) (*application.SessionStore, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return application.NewSessionStore(api, tokens, notifier, testKey, nil), notifier
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestLogin_ValidCredentials(t *testing.T) {
	api := &mockAuthAPI{
		loginResult: model.LoginResult{
			Access: "access-1",
			User:   model.LoginUser{Username: "alice", Email: "alice@example.com", Role: model.RoleUser},
		},
		profile: model.Profile{ID: 3, Username: "alice", Email: "alice@example.com", Bio: "hi"},
	}
	tokens := newMockTokenStore()
	store, notifier := newTestStore(api, tokens)

	err := store.Login(context.Background(), model.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.Equal(t, "access-1", snap.Credential)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, int64(3), snap.Profile.ID)
	assert.Equal(t, "hi", snap.Profile.Bio)

	persisted, _ := tokens.Get(context.Background(), testKey)
	assert.Equal(t, "access-1", persisted)
	assert.Equal(t, []string{application.MsgLoggedIn}, notifier.messages())
}

func TestLogin_InvalidCredentialsLeavesStateUnchanged(t *testing.T) {
	api := &mockAuthAPI{loginErr: &driven.APIError{Status: http.StatusUnauthorized, Detail: "No active account"}}
	tokens := newMockTokenStore()
	store, notifier := newTestStore(api, tokens)
	before := store.Snapshot()

	err := store.Login(context.Background(), model.Credentials{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrUnauthorized)

	assert.Equal(t, before, store.Snapshot())
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, []string{application.MsgInvalidCredentials}, notifier.messages())
	assert.Empty(t, tokens.values)
}

func TestLogin_FailureKeepsExistingSession(t *testing.T) {
	api := &mockAuthAPI{
		loginResult: model.LoginResult{Access: "access-1"},
		profile:     model.Profile{Username: "alice"},
	}
	store, _ := newTestStore(api, newMockTokenStore())
	require.NoError(t, store.Login(context.Background(), model.Credentials{Username: "alice"}))
	before := store.Snapshot()

	api.loginErr = &driven.APIError{Status: http.StatusBadRequest}
	require.Error(t, store.Login(context.Background(), model.Credentials{Username: "alice", Password: "wrong"}))

	assert.Equal(t, before, store.Snapshot())
}

func TestLogin_ProfileFetchFailureForcesLogout(t *testing.T) {
	api := &mockAuthAPI{
		loginResult: model.LoginResult{Access: "access-1", User: model.LoginUser{Username: "alice"}},
		profileErr:  &driven.APIError{Status: http.StatusUnauthorized},
	}
	tokens := newMockTokenStore()
	store, notifier := newTestStore(api, tokens)

	require.NoError(t, store.Login(context.Background(), model.Credentials{Username: "alice"}))

	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.Snapshot().Profile)
	assert.Empty(t, tokens.values)
	assert.Equal(t, []string{
		application.MsgLoggedIn,
		application.MsgProfileFetchFailed,
		application.MsgLoggedOut,
	}, notifier.messages())
}

func TestRegister_SurfacesServerDetail(t *testing.T) {
	api := &mockAuthAPI{registerErr: &driven.APIError{
		Status: http.StatusBadRequest,
		Detail: "username: This field is required.",
	}}
	store, notifier := newTestStore(api, newMockTokenStore())

	err := store.Register(context.Background(), model.Registration{Email: "x@example.com", Password: "pw"})
	require.Error(t, err)

	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, []string{"Registration failed: username: This field is required."}, notifier.messages())
}

func TestRegister_SuccessDoesNotLogIn(t *testing.T) {
	store, notifier := newTestStore(&mockAuthAPI{}, newMockTokenStore())

	require.NoError(t, store.Register(context.Background(), model.Registration{Username: "bob"}))

	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, []string{application.MsgRegistered}, notifier.messages())
}

func TestLogout_AlwaysClears(t *testing.T) {
	api := &mockAuthAPI{
		loginResult: model.LoginResult{Access: "access-1"},
		profile:     model.Profile{Username: "alice"},
	}
	tokens := newMockTokenStore()
	store, notifier := newTestStore(api, tokens)
	require.NoError(t, store.Login(context.Background(), model.Credentials{Username: "alice"}))

	tokens.deleteErr = errors.New("disk full")
	store.Logout(context.Background())

	snap := store.Snapshot()
	assert.Empty(t, snap.Credential)
	assert.Nil(t, snap.Profile)
	assert.Empty(t, tokens.values)
	assert.Contains(t, notifier.messages(), application.MsgLoggedOut)
}

func TestRestore_AdoptsPersistedCredential(t *testing.T) {
	api := &mockAuthAPI{profile: model.Profile{ID: 1, Username: "alice"}}
	tokens := newMockTokenStore()
	require.NoError(t, tokens.Set(context.Background(), testKey, "persisted"))
	store, _ := newTestStore(api, tokens)

	require.NoError(t, store.Restore(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, "persisted", snap.Credential)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "alice", snap.Profile.Username)
}

func TestRestore_EmptyStoreStaysLoggedOut(t *testing.T) {
	api := &mockAuthAPI{}
	store, _ := newTestStore(api, newMockTokenStore())

	require.NoError(t, store.Restore(context.Background()))

	assert.False(t, store.IsAuthenticated())
	assert.Zero(t, api.calls())
}

func TestRestore_ExpiredCredentialLogsOutWithoutFetch(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"user_id": 4,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	api := &mockAuthAPI{profile: model.Profile{Username: "alice"}}
	tokens := newMockTokenStore()
	require.NoError(t, tokens.Set(context.Background(), testKey, token))
	store, notifier := newTestStore(api, tokens)

	require.NoError(t, store.Restore(context.Background()))

	assert.False(t, store.IsAuthenticated())
	assert.Zero(t, api.calls())
	assert.Empty(t, tokens.values)
	assert.Contains(t, notifier.messages(), application.MsgProfileFetchFailed)
}

func TestRestore_CancelledFetchKeepsCredential(t *testing.T) {
	api := &mockAuthAPI{profileGate: make(chan struct{})}
	tokens := newMockTokenStore()
	require.NoError(t, tokens.Set(context.Background(), testKey, "persisted"))
	store, notifier := newTestStore(api, tokens)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, store.Restore(ctx))

	assert.Equal(t, "persisted", store.Credential())
	assert.Empty(t, notifier.messages())
}

func TestLogoutDuringFetch_DiscardsLateProfile(t *testing.T) {
	api := &mockAuthAPI{profileGate: make(chan struct{}), profile: model.Profile{Username: "alice"}}
	tokens := newMockTokenStore()
	require.NoError(t, tokens.Set(context.Background(), testKey, "persisted"))
	store, _ := newTestStore(api, tokens)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = store.Restore(context.Background())
	}()

	require.Eventually(t, func() bool { return api.calls() == 1 }, time.Second, 5*time.Millisecond)
	store.Logout(context.Background())
	close(api.profileGate)
	<-done

	snap := store.Snapshot()
	assert.Empty(t, snap.Credential)
	assert.Nil(t, snap.Profile)
}

func TestRestore_RewritesPersistedCredential(t *testing.T) {
	api := &mockAuthAPI{profile: model.Profile{ID: 1, Username: "alice"}}
	tokens := newMockTokenStore()
	require.NoError(t, tokens.Set(context.Background(), testKey, "persisted"))
	store, _ := newTestStore(api, tokens)

	require.NoError(t, store.Restore(context.Background()))

	assert.Equal(t, 2, tokens.setCount())
	assert.Equal(t, "persisted", tokens.values[testKey])
}

func TestRestore_FailedFetchDoesNotRewrite(t *testing.T) {
	api := &mockAuthAPI{profileErr: &driven.APIError{Status: http.StatusUnauthorized}}
	tokens := newMockTokenStore()
	require.NoError(t, tokens.Set(context.Background(), testKey, "persisted"))
	store, _ := newTestStore(api, tokens)

	require.NoError(t, store.Restore(context.Background()))

	assert.Equal(t, 1, tokens.setCount())
	assert.Empty(t, tokens.values)
}

func TestLoginDuringFailedRestore_KeepsNewCredential(t *testing.T) {
	api := &mockAuthAPI{
		loginResult:    model.LoginResult{Access: "fresh", User: model.LoginUser{Username: "alice"}},
		profile:        model.Profile{ID: 1, Username: "alice"},
		failCredential: "stale",
	}
	tokens := newMockTokenStore()
	require.NoError(t, tokens.Set(context.Background(), testKey, "stale"))
	tokens.deleteGate = make(chan struct{})
	tokens.deleting = make(chan struct{})
	store, _ := newTestStore(api, tokens)

	restored := make(chan struct{})
	go func() {
		defer close(restored)
		_ = store.Restore(context.Background())
	}()
	<-tokens.deleting

	loggedIn := make(chan error, 1)
	go func() {
		loggedIn <- store.Login(context.Background(), model.Credentials{Username: "alice"})
	}()
	// Give Login time to reach the token store while the delete is held.
	time.Sleep(20 * time.Millisecond)
	close(tokens.deleteGate)

	<-restored
	require.NoError(t, <-loggedIn)

	got, err := tokens.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
	assert.Equal(t, "fresh", store.Credential())
}

func TestUpdateUser(t *testing.T) {
	api := &mockAuthAPI{
		loginResult: model.LoginResult{Access: "access-1"},
		profile:     model.Profile{Username: "alice"},
		updated:     model.Profile{Username: "alice", Bio: "new bio"},
	}
	store, notifier := newTestStore(api, newMockTokenStore())
	require.NoError(t, store.Login(context.Background(), model.Credentials{Username: "alice"}))

	bio := "new bio"
	require.NoError(t, store.UpdateUser(context.Background(), model.ProfileUpdate{Bio: &bio}))

	require.NotNil(t, store.Snapshot().Profile)
	assert.Equal(t, "new bio", store.Snapshot().Profile.Bio)
	assert.Contains(t, notifier.messages(), application.MsgProfileUpdated)
}

func TestUpdateUser_RequiresCredential(t *testing.T) {
	store, notifier := newTestStore(&mockAuthAPI{}, newMockTokenStore())

	err := store.UpdateUser(context.Background(), model.ProfileUpdate{})
	require.ErrorIs(t, err, driven.ErrUnauthorized)
	assert.Equal(t, []string{application.MsgProfileFailed}, notifier.messages())
}

func TestUpdateUser_FailureKeepsProfile(t *testing.T) {
	api := &mockAuthAPI{
		loginResult: model.LoginResult{Access: "access-1"},
		profile:     model.Profile{Username: "alice", Bio: "old"},
		updateErr:   errors.New("boom"),
	}
	store, notifier := newTestStore(api, newMockTokenStore())
	require.NoError(t, store.Login(context.Background(), model.Credentials{Username: "alice"}))

	bio := "new"
	require.Error(t, store.UpdateUser(context.Background(), model.ProfileUpdate{Bio: &bio}))

	assert.Equal(t, "old", store.Snapshot().Profile.Bio)
	assert.Contains(t, notifier.messages(), application.MsgProfileFailed)
}
