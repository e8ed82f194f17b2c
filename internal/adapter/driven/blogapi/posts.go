package blogapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/go-querystring/query"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

// postListOptions is the query string accepted by the post listing.
type postListOptions struct {
	Page        int    `url:"page,omitempty"`
	PageSize    int    `url:"page_size,omitempty"`
	Query       string `url:"q,omitempty"`
	Category    string `url:"category,omitempty"`
	Username    string `url:"username,omitempty"`
	Author      int64  `url:"author,omitempty"`
	IsPublished *bool  `url:"is_published,omitempty"`
}

// ListPosts returns one page of posts matching q.
func (c *Client) ListPosts(ctx context.Context, token string, q model.PostQuery) (model.Page[model.Post], error) {
	values, err := query.Values(postListOptions{
		Page:        q.Page,
		PageSize:    q.PageSize,
		Query:       q.Query,
		Category:    q.Category,
		Username:    q.Username,
		Author:      q.AuthorID,
		IsPublished: q.IsPublished,
	})
	if err != nil {
		return model.Page[model.Post]{}, fmt.Errorf("encoding post query: %w", err)
	}

	var out listJSON[postJSON]
	if err := c.get(ctx, "posts/", token, values, &out); err != nil {
		return model.Page[model.Post]{}, fmt.Errorf("listing posts (page %d): %w", q.Page, err)
	}
	return toPage(out, q.Page, postJSON.toModel), nil
}

// RecentPosts returns the newest posts, newest first.
func (c *Client) RecentPosts(ctx context.Context, limit int) ([]model.Post, error) {
	values := url.Values{}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}

	var out listJSON[postJSON]
	if err := c.get(ctx, "posts/recent/", "", values, &out); err != nil {
		return nil, fmt.Errorf("listing recent posts: %w", err)
	}
	return mapSlice(out.Results, postJSON.toModel), nil
}

// GetPost returns a single post by slug.
func (c *Client) GetPost(ctx context.Context, token, slug string) (model.Post, error) {
	var out postJSON
	if err := c.get(ctx, endpoint("posts", slug), token, nil, &out); err != nil {
		return model.Post{}, fmt.Errorf("fetching post %q: %w", slug, err)
	}
	return out.toModel(), nil
}

func postForm(in model.PostInput) *multipartForm {
	form := &multipartForm{}
	form.set("title", in.Title)
	form.set("content", in.Content)
	form.setNonEmpty("category", in.Category)
	form.set("is_published", strconv.FormatBool(in.IsPublished))
	form.attach("image", in.Image)
	return form
}

// CreatePost publishes or drafts a new post owned by the credential's user.
func (c *Client) CreatePost(ctx context.Context, token string, in model.PostInput) (model.Post, error) {
	var out postJSON
	if err := c.sendMultipart(ctx, http.MethodPost, "posts/", token, postForm(in), &out); err != nil {
		return model.Post{}, fmt.Errorf("creating post %q: %w", in.Title, err)
	}
	return out.toModel(), nil
}

// UpdatePost replaces the post identified by slug. The image is only sent
// when a new one is attached.
func (c *Client) UpdatePost(ctx context.Context, token, slug string, in model.PostInput) (model.Post, error) {
	var out postJSON
	if err := c.sendMultipart(ctx, http.MethodPut, endpoint("posts", slug), token, postForm(in), &out); err != nil {
		return model.Post{}, fmt.Errorf("updating post %q: %w", slug, err)
	}
	return out.toModel(), nil
}

// DeletePost removes the post identified by slug.
func (c *Client) DeletePost(ctx context.Context, token, slug string) error {
	if err := c.do(ctx, request{method: http.MethodDelete, path: endpoint("posts", slug), token: token}, nil); err != nil {
		return fmt.Errorf("deleting post %q: %w", slug, err)
	}
	return nil
}

// ToggleLike flips the caller's like on a post.
func (c *Client) ToggleLike(ctx context.Context, token, slug string) (model.LikeResult, error) {
	var out struct {
		Detail     string `json:"detail"`
		IsLiked    bool   `json:"is_liked"`
		LikesCount int    `json:"likes_count"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, endpoint("posts", slug, "like"), token, nil, &out); err != nil {
		return model.LikeResult{}, fmt.Errorf("toggling like on %q: %w", slug, err)
	}
	return model.LikeResult{Detail: out.Detail, IsLiked: out.IsLiked, LikesCount: out.LikesCount}, nil
}

// IncrementViews records a view. Anonymous calls are deduplicated by the
// server's own session, authenticated calls per user.
func (c *Client) IncrementViews(ctx context.Context, token, slug string) (int, error) {
	var out struct {
		ViewsCount int `json:"views_count"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, endpoint("posts", slug, "increment_views"), token, nil, &out); err != nil {
		return 0, fmt.Errorf("incrementing views on %q: %w", slug, err)
	}
	return out.ViewsCount, nil
}
