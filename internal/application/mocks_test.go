package application_test

import (
	"context"
	"errors"
	"sync"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
)

// mockAuthAPI implements driven.AuthAPI with configurable responses.
type mockAuthAPI struct {
	mu sync.Mutex

	loginResult model.LoginResult
	loginErr    error

	registerErr error

	profile      model.Profile
	profileErr   error
	profileCalls int
	// failCredential, when set, makes FetchProfile fail for that credential only.
	failCredential string
	// profileGate, when set, blocks FetchProfile until it is closed.
	profileGate chan struct{}

	updated   model.Profile
	updateErr error
}

func (m *mockAuthAPI) Login(_ context.Context, _ model.Credentials) (model.LoginResult, error) {
	return m.loginResult, m.loginErr
}

func (m *mockAuthAPI) Register(_ context.Context, _ model.Registration) error {
	return m.registerErr
}

func (m *mockAuthAPI) FetchProfile(ctx context.Context, credential string) (model.Profile, error) {
	m.mu.Lock()
	m.profileCalls++
	gate := m.profileGate
	fail := m.failCredential != "" && credential == m.failCredential
	m.mu.Unlock()

	if fail {
		return model.Profile{}, driven.ErrUnauthorized
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return model.Profile{}, ctx.Err()
		}
	}
	return m.profile, m.profileErr
}

func (m *mockAuthAPI) UpdateProfile(_ context.Context, _ string, _ model.ProfileUpdate) (model.Profile, error) {
	return m.updated, m.updateErr
}

func (m *mockAuthAPI) RequestPasswordReset(_ context.Context, _ string) (model.PasswordResetTicket, error) {
	return model.PasswordResetTicket{}, errors.New("not implemented")
}

func (m *mockAuthAPI) ConfirmPasswordReset(_ context.Context, _ model.PasswordReset) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockAuthAPI) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profileCalls
}

// mockTokenStore is an in-memory driven.TokenStore with injectable failures.
type mockTokenStore struct {
	mu        sync.Mutex
	values    map[string]string
	sets      int
	deleteErr error

	// deleteGate, when set, blocks Delete until it is closed. deleting is
	// closed when the first Delete starts waiting.
	deleteGate chan struct{}
	deleting   chan struct{}
	deleteOnce sync.Once
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{values: make(map[string]string)}
}

func (s *mockTokenStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *mockTokenStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.sets++
	return nil
}

func (s *mockTokenStore) Delete(_ context.Context, key string) error {
	if s.deleteGate != nil {
		s.deleteOnce.Do(func() { close(s.deleting) })
		<-s.deleteGate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return s.deleteErr
}

func (s *mockTokenStore) setCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

// recordingNotifier captures every notification in order.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, note model.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, note := range n.sent {
		out = append(out, note.Message)
	}
	return out
}

var (
	_ driven.AuthAPI    = (*mockAuthAPI)(nil)
	_ driven.TokenStore = (*mockTokenStore)(nil)
	_ driven.Notifier   = (*recordingNotifier)(nil)
)
