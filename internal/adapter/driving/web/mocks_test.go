package web

import (
	"context"
	"sync"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BlogAPI = (*mockBlogAPI)(nil)

// mockBlogAPI serves canned data and records calls. Reads may arrive from
// concurrent fetchers, so every field access holds mu.
type mockBlogAPI struct {
	mu sync.Mutex

	loginErr    error
	access      string
	profile     model.Profile
	registerErr error

	posts       []model.Post
	postsErr    error
	post        model.Post
	postErr     error
	recent      []model.Post
	recentErr   error
	comments    []model.Comment
	categories  []model.Category
	createErr   error
	updateErr   error
	deleteErr   error
	like        model.LikeResult
	likeErr     error
	commentErr  error
	editErr     error
	removeErr   error
	myComments  model.Page[model.Comment]
	users       []model.Profile
	userProfile model.Profile
	followers   map[int64]int
	following   bool
	toggleErr   error
	resetTicket model.PasswordResetTicket
	resetErr    error

	lastQuery   model.PostQuery
	lastInput   model.PostInput
	lastComment string
	lastUpdate  model.ProfileUpdate
	lastToken   string
	views       int
	calls       []string
}

func (m *mockBlogAPI) record(call, token string) {
	m.calls = append(m.calls, call)
	if token != "" {
		m.lastToken = token
	}
}

func (m *mockBlogAPI) called(call string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (m *mockBlogAPI) Login(_ context.Context, _ model.Credentials) (model.LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Login", "")
	if m.loginErr != nil {
		return model.LoginResult{}, m.loginErr
	}
	return model.LoginResult{Access: m.access, User: model.LoginUser{Username: m.profile.Username, Role: model.RoleUser}}, nil
}

func (m *mockBlogAPI) Register(_ context.Context, _ model.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Register", "")
	return m.registerErr
}

func (m *mockBlogAPI) FetchProfile(_ context.Context, token string) (model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FetchProfile", token)
	return m.profile, nil
}

func (m *mockBlogAPI) UpdateProfile(_ context.Context, token string, update model.ProfileUpdate) (model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateProfile", token)
	m.lastUpdate = update
	if update.Bio != nil {
		m.profile.Bio = *update.Bio
	}
	return m.profile, nil
}

func (m *mockBlogAPI) RequestPasswordReset(_ context.Context, _ string) (model.PasswordResetTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("RequestPasswordReset", "")
	return m.resetTicket, m.resetErr
}

func (m *mockBlogAPI) ConfirmPasswordReset(_ context.Context, _ model.PasswordReset) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ConfirmPasswordReset", "")
	return "Password has been reset successfully.", m.resetErr
}

func (m *mockBlogAPI) ListPosts(_ context.Context, token string, q model.PostQuery) (model.Page[model.Post], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListPosts", token)
	m.lastQuery = q
	if m.postsErr != nil {
		return model.Page[model.Post]{}, m.postsErr
	}
	page := model.Page[model.Post]{Results: m.posts, Count: len(m.posts), Number: max(q.Page, 1)}
	if q.Page <= 1 && len(m.posts) > 0 {
		page.Next = "next"
	}
	return page, nil
}

func (m *mockBlogAPI) RecentPosts(_ context.Context, _ int) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("RecentPosts", "")
	return m.recent, m.recentErr
}

func (m *mockBlogAPI) GetPost(_ context.Context, token, _ string) (model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetPost", token)
	return m.post, m.postErr
}

func (m *mockBlogAPI) CreatePost(_ context.Context, token string, in model.PostInput) (model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreatePost", token)
	m.lastInput = in
	return model.Post{Title: in.Title}, m.createErr
}

func (m *mockBlogAPI) UpdatePost(_ context.Context, token, _ string, in model.PostInput) (model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdatePost", token)
	m.lastInput = in
	return model.Post{Title: in.Title}, m.updateErr
}

func (m *mockBlogAPI) DeletePost(_ context.Context, token, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeletePost", token)
	return m.deleteErr
}

func (m *mockBlogAPI) ToggleLike(_ context.Context, token, _ string) (model.LikeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ToggleLike", token)
	return m.like, m.likeErr
}

func (m *mockBlogAPI) IncrementViews(_ context.Context, token, _ string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("IncrementViews", token)
	m.views++
	return m.views, nil
}

func (m *mockBlogAPI) ListPostComments(_ context.Context, token, _ string) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListPostComments", token)
	return m.comments, nil
}

func (m *mockBlogAPI) AddComment(_ context.Context, token, _ string, content string) (model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("AddComment", token)
	m.lastComment = content
	return model.Comment{Content: content}, m.commentErr
}

func (m *mockBlogAPI) ListMyComments(_ context.Context, token string, page, _ int) (model.Page[model.Comment], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListMyComments", token)
	out := m.myComments
	out.Number = page
	return out, nil
}

func (m *mockBlogAPI) UpdateComment(_ context.Context, token string, _ int64, content string) (model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateComment", token)
	m.lastComment = content
	return model.Comment{Content: content}, m.editErr
}

func (m *mockBlogAPI) DeleteComment(_ context.Context, token string, _ int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteComment", token)
	return m.removeErr
}

func (m *mockBlogAPI) ListCategories(_ context.Context) ([]model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListCategories", "")
	return m.categories, nil
}

func (m *mockBlogAPI) ListUsers(_ context.Context) ([]model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListUsers", "")
	return m.users, nil
}

func (m *mockBlogAPI) GetUserProfile(_ context.Context, token, _ string) (model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetUserProfile", token)
	return m.userProfile, nil
}

func (m *mockBlogAPI) UserPosts(_ context.Context, token string, _ int64) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UserPosts", token)
	return m.posts, nil
}

func (m *mockBlogAPI) UserStats(_ context.Context, token string, _ int64) (model.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UserStats", token)
	return model.UserStats{PostCount: len(m.posts), FollowersCount: 4, FollowingCount: 2}, nil
}

func (m *mockBlogAPI) FollowersCount(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FollowersCount", "")
	return m.followers[userID], nil
}

func (m *mockBlogAPI) CheckFollow(_ context.Context, token string, _ int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CheckFollow", token)
	return m.following, nil
}

func (m *mockBlogAPI) ToggleFollow(_ context.Context, token string, _ int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ToggleFollow", token)
	if m.toggleErr != nil {
		return false, m.toggleErr
	}
	m.following = !m.following
	return m.following, nil
}

func (m *mockBlogAPI) Followers(_ context.Context, token string, _ int64) ([]model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Followers", token)
	return m.users, nil
}

func (m *mockBlogAPI) Following(_ context.Context, token string, _ int64) ([]model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Following", token)
	return m.users, nil
}
