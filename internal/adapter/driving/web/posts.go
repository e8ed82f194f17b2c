package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/blogpanel/internal/application"
	"github.com/ericfisherdev/blogpanel/internal/domain/model"
	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
)

const (
	postsPageSize    = 10
	recentPostsLimit = 5
)

const (
	msgPostsFailed        = "Error loading posts."
	msgCategoriesFailed   = "Failed to load categories."
	msgPostFailed         = "Failed to load post details."
	msgRecentFailed       = "Failed to load recent posts."
	msgCommentsFailed     = "Failed to load comments."
	msgPostNotFound       = "Post not found."
	msgPostCreated        = "Post created successfully!"
	msgPostCreateFailed   = "Failed to create post"
	msgPostUpdated        = "Post updated successfully!"
	msgPostUpdateFailed   = "Failed to update the post. Please try again."
	msgPostDeleted        = "Post deleted successfully!"
	msgPostDeleteFailed   = "Failed to delete the post"
	msgLikeFailed         = "Error liking the post."
	msgCommentRequired    = "Comment content is required."
	msgCommentPosted      = "Comment posted successfully!"
	msgCommentPostFailed  = "Failed to post comment."
	msgCreateFailedDetail = "Check the server logs for details."
)

// Home redirects to the post listing.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	seeOther(w, r, "/dashboard")
}

// Dashboard renders the searchable post listing.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	h.postListing(w, r, cs, "Posts", "/dashboard")
}

// Categories renders the post listing with the category filter foremost.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	h.postListing(w, r, cs, "Categories", "/categories")
}

func (h *Handler) postListing(w http.ResponseWriter, r *http.Request, cs *application.ClientSession, title, path string) {
	ctx := r.Context()
	filters := listingFilters(r.URL.Query())
	locator := withPage(filters, pageParam(r)).Encode()
	token := cs.Store.Credential()

	posts := startFetch(ctx, h.logger, locator, func(ctx context.Context, locator string) (model.Page[model.Post], error) {
		return h.api.ListPosts(ctx, token, postQueryFromLocator(locator))
	})
	defer posts.Close()
	categories := startFetch(ctx, h.logger, "categories", h.readCategories)
	defer categories.Close()

	postsRes := settle(ctx, h.logger, posts, "posts")
	categoriesRes := settle(ctx, h.logger, categories, "categories")

	viewer := viewerName(cs.Store.Snapshot())
	selected := filters.Get("category")
	m := vm.PostListViewModel{
		Action:   path,
		Query:    filters.Get("q"),
		Category: selected,
		Categories: section(categoriesRes, msgCategoriesFailed, func(c []model.Category) []vm.CategoryViewModel {
			return toCategoryViewModels(c, selected)
		}),
		Posts: section(postsRes, msgPostsFailed, func(p model.Page[model.Post]) []vm.PostCardViewModel {
			return h.toPostCards(p.Results, viewer)
		}),
	}
	if postsRes.Loaded {
		m.Pagination = toPagination(postsRes.Payload, filters, path)
	}

	h.render(w, r, cs, title, http.StatusOK, pages.PostList(title, m))
}

func (h *Handler) readCategories(ctx context.Context, _ string) ([]model.Category, error) {
	return h.api.ListCategories(ctx)
}

// listingFilters keeps the search parameters a listing forwards to the API.
func listingFilters(q url.Values) url.Values {
	filters := url.Values{}
	if s := strings.TrimSpace(q.Get("q")); s != "" {
		filters.Set("q", s)
	}
	if c := strings.TrimSpace(q.Get("category")); c != "" {
		filters.Set("category", c)
	}
	return filters
}

func withPage(filters url.Values, page int) url.Values {
	out := url.Values{}
	for k, v := range filters {
		out[k] = v
	}
	out.Set("page", strconv.Itoa(page))
	return out
}

// postQueryFromLocator decodes a listing locator built by withPage.
func postQueryFromLocator(locator string) model.PostQuery {
	values, _ := url.ParseQuery(locator)
	page, _ := strconv.Atoi(values.Get("page"))
	return model.PostQuery{
		Page:     max(page, 1),
		PageSize: postsPageSize,
		Query:    values.Get("q"),
		Category: values.Get("category"),
		Username: values.Get("username"),
	}
}

// PostDetail renders a post, counting the view, with recent posts and
// comments loaded alongside.
func (h *Handler) PostDetail(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	ctx := r.Context()
	slug := r.PathValue("slug")
	token := cs.Store.Credential()

	post := startFetch(ctx, h.logger, slug, func(ctx context.Context, slug string) (model.Post, error) {
		if _, err := h.api.IncrementViews(ctx, token, slug); err != nil {
			h.logger.Warn("incrementing post views failed", "slug", slug, "error", err)
		}
		return h.api.GetPost(ctx, token, slug)
	})
	defer post.Close()
	recent := startFetch(ctx, h.logger, strconv.Itoa(recentPostsLimit), func(ctx context.Context, _ string) ([]model.Post, error) {
		return h.api.RecentPosts(ctx, recentPostsLimit)
	})
	defer recent.Close()
	comments := startFetch(ctx, h.logger, slug, func(ctx context.Context, slug string) ([]model.Comment, error) {
		return h.api.ListPostComments(ctx, token, slug)
	})
	defer comments.Close()

	postRes := settle(ctx, h.logger, post, "post")
	if errors.Is(postRes.Err, driven.ErrNotFound) {
		h.renderError(w, r, cs, http.StatusNotFound, msgPostNotFound)
		return
	}
	recentRes := settle(ctx, h.logger, recent, "recent posts")
	commentsRes := settle(ctx, h.logger, comments, "comments")

	viewer := viewerName(cs.Store.Snapshot())
	m := vm.PostDetailPageViewModel{
		Post: section(postRes, msgPostFailed, func(p model.Post) vm.PostDetailViewModel {
			return h.toPostDetailViewModel(p, viewer)
		}),
		Recent: section(recentRes, msgRecentFailed, func(p []model.Post) []vm.PostCardViewModel {
			return h.toPostCards(p, viewer)
		}),
		Comments: section(commentsRes, msgCommentsFailed, h.toComments),
	}

	title := "Post"
	if postRes.Loaded {
		title = postRes.Payload.Title
	}
	h.render(w, r, cs, title, http.StatusOK, pages.PostDetail(m))
}

// NewPostPage renders the create form.
func (h *Handler) NewPostPage(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	form := vm.PostFormViewModel{IsPublished: true}
	h.renderPostForm(w, r, cs, http.StatusOK, form, "")
}

// CreatePost submits the create form.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	in, err := postInputFromForm(r)
	if err == nil {
		_, err = h.api.CreatePost(r.Context(), cs.Store.Credential(), in)
	}
	if err != nil {
		h.logger.Warn("creating post failed", "title", in.Title, "error", err)
		notify(r.Context(), cs, model.NotificationError, msgPostCreateFailed+": "+detailOr(err, msgCreateFailedDetail))
		form := vm.PostFormViewModel{Title: in.Title, Content: in.Content, Category: in.Category, IsPublished: in.IsPublished}
		h.renderPostForm(w, r, cs, http.StatusUnprocessableEntity, form, "")
		return
	}

	notify(r.Context(), cs, model.NotificationSuccess, msgPostCreated)
	seeOther(w, r, "/profile")
}

// EditPostPage renders the edit form prefilled with the stored post.
func (h *Handler) EditPostPage(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	ctx := r.Context()
	slug := r.PathValue("slug")

	post, err := h.api.GetPost(ctx, cs.Store.Credential(), slug)
	if err != nil {
		h.logger.Warn("loading post for edit failed", "slug", slug, "error", err)
		if errors.Is(err, driven.ErrNotFound) {
			h.renderError(w, r, cs, http.StatusNotFound, msgPostNotFound)
			return
		}
		notify(ctx, cs, model.NotificationError, msgPostFailed)
		seeOther(w, r, postPath(slug))
		return
	}

	form := vm.PostFormViewModel{
		Title:       post.Title,
		Content:     post.Content,
		Category:    post.Category,
		IsPublished: post.IsPublished,
		ImageURL:    h.media.rewrite(post.Image),
	}
	h.renderPostForm(w, r, cs, http.StatusOK, form, slug)
}

// UpdatePost submits the edit form.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	slug := r.PathValue("slug")

	in, err := postInputFromForm(r)
	if err == nil {
		_, err = h.api.UpdatePost(r.Context(), cs.Store.Credential(), slug, in)
	}
	if err != nil {
		h.logger.Warn("updating post failed", "slug", slug, "error", err)
		notify(r.Context(), cs, model.NotificationError, msgPostUpdateFailed)
		form := vm.PostFormViewModel{Title: in.Title, Content: in.Content, Category: in.Category, IsPublished: in.IsPublished}
		h.renderPostForm(w, r, cs, http.StatusUnprocessableEntity, form, slug)
		return
	}

	notify(r.Context(), cs, model.NotificationSuccess, msgPostUpdated)
	seeOther(w, r, postPath(slug))
}

// renderPostForm renders the create form, or the edit form of slug when
// slug is non-empty. Categories are submitted by id on create and by name on
// update, matching what each endpoint accepts.
func (h *Handler) renderPostForm(w http.ResponseWriter, r *http.Request, cs *application.ClientSession, status int, form vm.PostFormViewModel, slug string) {
	categories, err := h.api.ListCategories(r.Context())
	if err != nil {
		h.logger.Warn("loading categories failed", "error", err)
		form.Categories = vm.Failed[[]vm.CategoryViewModel](msgCategoriesFailed)
	} else {
		form.Categories = vm.Ready(toCategoryViewModels(categories, form.Category))
	}

	title := "Create post"
	form.Heading, form.Action, form.CancelPath = title, "/posts/new", "/profile"
	if slug != "" {
		title = "Edit post"
		form.Heading, form.Action, form.CancelPath = title, postPath(slug)+"/edit", postPath(slug)
		form.ByName = true
	}
	h.render(w, r, cs, title, status, pages.PostForm(form))
}

// DeletePost deletes a post and returns to the profile page.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	slug := r.PathValue("slug")

	if err := h.api.DeletePost(r.Context(), cs.Store.Credential(), slug); err != nil {
		h.logger.Warn("deleting post failed", "slug", slug, "error", err)
		notify(r.Context(), cs, model.NotificationError, msgPostDeleteFailed)
		seeOther(w, r, "/profile")
		return
	}

	notify(r.Context(), cs, model.NotificationSuccess, msgPostDeleted)
	seeOther(w, r, "/profile")
}

// LikePost toggles the caller's like.
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	slug := r.PathValue("slug")

	if _, err := h.api.ToggleLike(r.Context(), cs.Store.Credential(), slug); err != nil {
		h.logger.Warn("toggling like failed", "slug", slug, "error", err)
		notify(r.Context(), cs, model.NotificationError, msgLikeFailed)
	}
	seeOther(w, r, postPath(slug))
}

// AddComment posts a comment on a post.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	ctx := r.Context()
	slug := r.PathValue("slug")
	back := postPath(slug) + "#comments"

	content := strings.TrimSpace(r.PostFormValue("content"))
	if content == "" {
		notify(ctx, cs, model.NotificationError, msgCommentRequired)
		seeOther(w, r, back)
		return
	}

	if _, err := h.api.AddComment(ctx, cs.Store.Credential(), slug, content); err != nil {
		h.logger.Warn("posting comment failed", "slug", slug, "error", err)
		notify(ctx, cs, model.NotificationError, msgCommentPostFailed)
		seeOther(w, r, back)
		return
	}

	notify(ctx, cs, model.NotificationSuccess, msgCommentPosted)
	seeOther(w, r, back)
}
