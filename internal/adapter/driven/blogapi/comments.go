package blogapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/go-querystring/query"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

type commentListOptions struct {
	Filter   string `url:"filter,omitempty"`
	Page     int    `url:"page,omitempty"`
	PageSize int    `url:"page_size,omitempty"`
}

// ListPostComments returns every comment on a post.
func (c *Client) ListPostComments(ctx context.Context, token, slug string) ([]model.Comment, error) {
	var out listJSON[commentJSON]
	if err := c.get(ctx, endpoint("posts", slug, "comments_list"), token, nil, &out); err != nil {
		return nil, fmt.Errorf("listing comments on %q: %w", slug, err)
	}
	return mapSlice(out.Results, commentJSON.toModel), nil
}

// AddComment posts a comment on the post identified by slug.
func (c *Client) AddComment(ctx context.Context, token, slug, content string) (model.Comment, error) {
	payload := map[string]string{"content": content, "post": slug}

	var out commentJSON
	if err := c.sendJSON(ctx, http.MethodPost, endpoint("posts", slug, "comments"), token, payload, &out); err != nil {
		return model.Comment{}, fmt.Errorf("commenting on %q: %w", slug, err)
	}
	return out.toModel(), nil
}

// ListMyComments returns one page of the caller's own comments.
func (c *Client) ListMyComments(ctx context.Context, token string, page, pageSize int) (model.Page[model.Comment], error) {
	values, err := query.Values(commentListOptions{Filter: "mine", Page: page, PageSize: pageSize})
	if err != nil {
		return model.Page[model.Comment]{}, fmt.Errorf("encoding comment query: %w", err)
	}

	var out listJSON[commentJSON]
	if err := c.get(ctx, "comments/", token, values, &out); err != nil {
		return model.Page[model.Comment]{}, fmt.Errorf("listing own comments (page %d): %w", page, err)
	}
	return toPage(out, page, commentJSON.toModel), nil
}

// UpdateComment edits the content of one of the caller's comments.
func (c *Client) UpdateComment(ctx context.Context, token string, id int64, content string) (model.Comment, error) {
	var out commentJSON
	path := endpoint("comments", strconv.FormatInt(id, 10))
	if err := c.sendJSON(ctx, http.MethodPatch, path, token, map[string]string{"content": content}, &out); err != nil {
		return model.Comment{}, fmt.Errorf("updating comment %d: %w", id, err)
	}
	return out.toModel(), nil
}

// DeleteComment removes one of the caller's comments.
func (c *Client) DeleteComment(ctx context.Context, token string, id int64) error {
	path := endpoint("comments", strconv.FormatInt(id, 10))
	if err := c.do(ctx, request{method: http.MethodDelete, path: path, token: token}, nil); err != nil {
		return fmt.Errorf("deleting comment %d: %w", id, err)
	}
	return nil
}

// ListCategories returns all categories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out listJSON[categoryJSON]
	if err := c.get(ctx, "categories/", "", nil, &out); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return mapSlice(out.Results, categoryJSON.toModel), nil
}
