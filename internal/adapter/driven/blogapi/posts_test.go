package blogapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
)

func samplePost(slug string) map[string]any {
	return map[string]any{
		"id":           1,
		"title":        "Hello " + slug,
		"slug":         slug,
		"content":      "# Heading",
		"category":     "Tech",
		"image":        nil,
		"is_published": true,
		"is_liked":     false,
		"author":       map[string]any{"id": 3, "username": "alice"},
		"analytics":    map[string]int{"views": 10, "likes": 2, "comments": 1},
		"created_at":   "2026-02-01T08:00:00Z",
	}
}

func TestListPosts_Envelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts/", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "5", q.Get("page_size"))
		assert.Equal(t, "go", q.Get("q"))
		assert.Equal(t, "true", q.Get("is_published"))
		assert.False(t, q.Has("category"))
		assert.False(t, q.Has("author"))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"count":    11,
			"next":     "http://x/api/posts/?page=3",
			"previous": "http://x/api/posts/?page=1",
			"results":  []any{samplePost("a"), samplePost("b")},
		})
	})
	client := newTestClient(t, mux)

	published := true
	page, err := client.ListPosts(context.Background(), "", model.PostQuery{
		Page:        2,
		PageSize:    5,
		Query:       "go",
		IsPublished: &published,
	})
	require.NoError(t, err)

	assert.Equal(t, 11, page.Count)
	assert.Equal(t, 2, page.Number)
	assert.True(t, page.HasNext())
	assert.True(t, page.HasPrevious())
	require.Len(t, page.Results, 2)
	assert.Equal(t, "alice", page.Results[0].Author.Username)
	assert.Equal(t, 10, page.Results[0].Analytics.Views)
	assert.Equal(t, "Tech", page.Results[0].Category)
}

func TestListPosts_BareArray(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, []any{samplePost("a"), samplePost("b"), samplePost("c")})
	})
	client := newTestClient(t, mux)

	page, err := client.ListPosts(context.Background(), "", model.PostQuery{})
	require.NoError(t, err)

	assert.Equal(t, 3, page.Count)
	assert.Equal(t, 1, page.Number)
	assert.False(t, page.HasNext())
	assert.Len(t, page.Results, 3)
}

func TestRecentPosts_Limit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts/recent/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		writeJSON(t, w, http.StatusOK, []any{samplePost("new")})
	})
	client := newTestClient(t, mux)

	posts, err := client.RecentPosts(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "new", posts[0].Slug)
}

func TestGetPost_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts/missing/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	})
	client := newTestClient(t, mux)

	_, err := client.GetPost(context.Background(), "", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrNotFound)
}

func TestCreatePost_Multipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Title", r.FormValue("title"))
		assert.Equal(t, "Body", r.FormValue("content"))
		assert.Equal(t, "false", r.FormValue("is_published"))
		_, _, err := r.FormFile("image")
		assert.ErrorIs(t, err, http.ErrMissingFile)

		writeJSON(t, w, http.StatusCreated, samplePost("title"))
	})
	client := newTestClient(t, mux)

	post, err := client.CreatePost(context.Background(), "tok", model.PostInput{Title: "Title", Content: "Body"})
	require.NoError(t, err)
	assert.Equal(t, "title", post.Slug)
}

func TestDeletePost_NoContent(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/posts/gone/", func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, mux)

	require.NoError(t, client.DeletePost(context.Background(), "tok", "gone"))
	assert.True(t, called)
}

func TestToggleLikeAndViews(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts/a/like/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"detail": "Post liked.", "is_liked": true, "likes_count": 3})
	})
	mux.HandleFunc("POST /api/posts/a/increment_views/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"status": "success", "views_count": 12})
	})
	client := newTestClient(t, mux)

	like, err := client.ToggleLike(context.Background(), "tok", "a")
	require.NoError(t, err)
	assert.True(t, like.IsLiked)
	assert.Equal(t, 3, like.LikesCount)

	views, err := client.IncrementViews(context.Background(), "", "a")
	require.NoError(t, err)
	assert.Equal(t, 12, views)
}

func TestComments(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts/a/comments_list/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, []any{
			map[string]any{"id": 1, "post": "a", "content": "first", "author": map[string]any{"username": "bob"}},
		})
	})
	mux.HandleFunc("POST /api/posts/a/comments/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusCreated, map[string]any{"id": 2, "post": "a", "content": "second"})
	})
	mux.HandleFunc("GET /api/comments/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mine", r.URL.Query().Get("filter"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"count":   1,
			"results": []any{map[string]any{"id": 2, "post": "a", "post_title": "Hello", "content": "second"}},
		})
	})
	mux.HandleFunc("PATCH /api/comments/2/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"id": 2, "post": "a", "content": "edited"})
	})
	mux.HandleFunc("DELETE /api/comments/2/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	list, err := client.ListPostComments(ctx, "", "a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].Author.Username)

	added, err := client.AddComment(ctx, "tok", "a", "second")
	require.NoError(t, err)
	assert.Equal(t, int64(2), added.ID)

	mine, err := client.ListMyComments(ctx, "tok", 1, 10)
	require.NoError(t, err)
	require.Len(t, mine.Results, 1)
	assert.Equal(t, "Hello", mine.Results[0].PostTitle)

	edited, err := client.UpdateComment(ctx, "tok", 2, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Content)

	require.NoError(t, client.DeleteComment(ctx, "tok", 2))
}
