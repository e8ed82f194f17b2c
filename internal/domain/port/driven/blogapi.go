package driven

import (
	"context"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

// AuthAPI is the account half of the remote blog API. token is the bearer
// credential; authenticated methods fail with ErrUnauthorized when it is
// rejected.
type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (model.LoginResult, error)
	// Register creates an account. It does not authenticate the caller.
	Register(ctx context.Context, reg model.Registration) error
	FetchProfile(ctx context.Context, token string) (model.Profile, error)
	// UpdateProfile applies a partial update and returns the stored profile.
	UpdateProfile(ctx context.Context, token string, update model.ProfileUpdate) (model.Profile, error)
	RequestPasswordReset(ctx context.Context, email string) (model.PasswordResetTicket, error)
	// ConfirmPasswordReset returns the server's confirmation detail.
	ConfirmPasswordReset(ctx context.Context, reset model.PasswordReset) (string, error)
}

// PostAPI covers post listing, authoring, and engagement.
type PostAPI interface {
	// ListPosts may be called with an empty token for anonymous browsing.
	ListPosts(ctx context.Context, token string, q model.PostQuery) (model.Page[model.Post], error)
	RecentPosts(ctx context.Context, limit int) ([]model.Post, error)
	GetPost(ctx context.Context, token, slug string) (model.Post, error)
	CreatePost(ctx context.Context, token string, in model.PostInput) (model.Post, error)
	UpdatePost(ctx context.Context, token, slug string, in model.PostInput) (model.Post, error)
	DeletePost(ctx context.Context, token, slug string) error
	// ToggleLike likes the post, or removes the like if it already exists.
	ToggleLike(ctx context.Context, token, slug string) (model.LikeResult, error)
	// IncrementViews counts a unique view and returns the new total.
	IncrementViews(ctx context.Context, token, slug string) (int, error)
}

// CommentAPI covers comments on posts and the caller's own comments.
type CommentAPI interface {
	ListPostComments(ctx context.Context, token, slug string) ([]model.Comment, error)
	AddComment(ctx context.Context, token, slug, content string) (model.Comment, error)
	ListMyComments(ctx context.Context, token string, page, pageSize int) (model.Page[model.Comment], error)
	UpdateComment(ctx context.Context, token string, id int64, content string) (model.Comment, error)
	DeleteComment(ctx context.Context, token string, id int64) error
}

// CategoryAPI lists post categories.
type CategoryAPI interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// UserAPI covers user directory and follow relationships.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]model.Profile, error)
	GetUserProfile(ctx context.Context, token, username string) (model.Profile, error)
	UserPosts(ctx context.Context, token string, userID int64) ([]model.Post, error)
	UserStats(ctx context.Context, token string, userID int64) (model.UserStats, error)
	FollowersCount(ctx context.Context, userID int64) (int, error)
	CheckFollow(ctx context.Context, token string, userID int64) (bool, error)
	// ToggleFollow follows or unfollows and returns the resulting state.
	ToggleFollow(ctx context.Context, token string, userID int64) (bool, error)
	Followers(ctx context.Context, token string, userID int64) ([]model.Profile, error)
	Following(ctx context.Context, token string, userID int64) ([]model.Profile, error)
}

// BlogAPI is the complete remote API consumed by the client.
type BlogAPI interface {
	AuthAPI
	PostAPI
	CommentAPI
	CategoryAPI
	UserAPI
}
