package blogapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

func userPath(prefix string, userID int64, action string) string {
	return endpoint(prefix, strconv.FormatInt(userID, 10), action)
}

// ListUsers returns every regular user account.
func (c *Client) ListUsers(ctx context.Context) ([]model.Profile, error) {
	var out listJSON[profileJSON]
	if err := c.get(ctx, "users-list/", "", nil, &out); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return mapSlice(out.Results, profileJSON.toModel), nil
}

// GetUserProfile returns the public profile of username.
func (c *Client) GetUserProfile(ctx context.Context, token, username string) (model.Profile, error) {
	var out profileJSON
	if err := c.get(ctx, endpoint("users", username, "profile"), token, nil, &out); err != nil {
		return model.Profile{}, fmt.Errorf("fetching profile of %q: %w", username, err)
	}
	return out.toModel(), nil
}

// UserPosts returns every post of userID. The server only allows callers to
// list their own posts this way.
func (c *Client) UserPosts(ctx context.Context, token string, userID int64) ([]model.Post, error) {
	var out listJSON[postJSON]
	if err := c.get(ctx, userPath("users", userID, "posts"), token, nil, &out); err != nil {
		return nil, fmt.Errorf("listing posts of user %d: %w", userID, err)
	}
	return mapSlice(out.Results, postJSON.toModel), nil
}

// UserStats collects the post, follower, and following counts of userID.
func (c *Client) UserStats(ctx context.Context, token string, userID int64) (model.UserStats, error) {
	var posts struct {
		PostCount flexInt `json:"post_count"`
	}
	if err := c.get(ctx, userPath("user", userID, "post-count"), token, nil, &posts); err != nil {
		return model.UserStats{}, fmt.Errorf("fetching post count of user %d: %w", userID, err)
	}

	followers, err := c.FollowersCount(ctx, userID)
	if err != nil {
		return model.UserStats{}, err
	}

	var following struct {
		FollowingCount flexInt `json:"following_count"`
	}
	if err := c.get(ctx, userPath("user", userID, "following-count"), token, nil, &following); err != nil {
		return model.UserStats{}, fmt.Errorf("fetching following count of user %d: %w", userID, err)
	}

	return model.UserStats{
		PostCount:      int(posts.PostCount),
		FollowersCount: followers,
		FollowingCount: int(following.FollowingCount),
	}, nil
}

// FollowersCount returns how many users follow userID.
func (c *Client) FollowersCount(ctx context.Context, userID int64) (int, error) {
	var out struct {
		FollowersCount flexInt `json:"followers_count"`
	}
	if err := c.get(ctx, userPath("user", userID, "followers-count"), "", nil, &out); err != nil {
		return 0, fmt.Errorf("fetching followers count of user %d: %w", userID, err)
	}
	return int(out.FollowersCount), nil
}

// CheckFollow reports whether the caller follows userID.
func (c *Client) CheckFollow(ctx context.Context, token string, userID int64) (bool, error) {
	var out struct {
		IsFollowing bool `json:"is_following"`
	}
	if err := c.get(ctx, userPath("users", userID, "check-follow"), token, nil, &out); err != nil {
		return false, fmt.Errorf("checking follow of user %d: %w", userID, err)
	}
	return out.IsFollowing, nil
}

// ToggleFollow follows userID, or unfollows when already following.
func (c *Client) ToggleFollow(ctx context.Context, token string, userID int64) (bool, error) {
	var out struct {
		IsFollowing bool `json:"is_following"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, userPath("users", userID, "follow"), token, nil, &out); err != nil {
		return false, fmt.Errorf("toggling follow of user %d: %w", userID, err)
	}
	return out.IsFollowing, nil
}

// Followers returns the users following userID.
func (c *Client) Followers(ctx context.Context, token string, userID int64) ([]model.Profile, error) {
	var out listJSON[profileJSON]
	if err := c.get(ctx, userPath("users", userID, "followers"), token, nil, &out); err != nil {
		return nil, fmt.Errorf("listing followers of user %d: %w", userID, err)
	}
	return mapSlice(out.Results, profileJSON.toModel), nil
}

// Following returns the users userID follows.
func (c *Client) Following(ctx context.Context, token string, userID int64) ([]model.Profile, error) {
	var out listJSON[profileJSON]
	if err := c.get(ctx, userPath("users", userID, "following"), token, nil, &out); err != nil {
		return nil, fmt.Errorf("listing following of user %d: %w", userID, err)
	}
	return mapSlice(out.Results, profileJSON.toModel), nil
}
