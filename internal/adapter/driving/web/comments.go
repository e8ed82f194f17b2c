package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/blogpanel/internal/application"
	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

const commentsPageSize = 10

const (
	msgMyCommentsFailed  = "Failed to load your comments."
	msgCommentUpdated    = "Comment updated successfully!"
	msgCommentUpdateFail = "Failed to update comment."
	msgCommentDeleted    = "Comment deleted successfully!"
	msgCommentDeleteFail = "Failed to delete comment."
)

// MyComments renders the caller's comments, one page at a time.
func (h *Handler) MyComments(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	page := pageParam(r)

	var m vm.MyCommentsViewModel
	comments, err := h.api.ListMyComments(r.Context(), cs.Store.Credential(), page, commentsPageSize)
	if err != nil {
		h.logger.Warn("listing own comments failed", "page", page, "error", err)
		m.Comments = vm.Failed[[]vm.CommentViewModel](msgMyCommentsFailed)
	} else {
		m.Comments = vm.Ready(h.toComments(comments.Results))
		m.Pagination = toPagination(comments, url.Values{}, "/comments/mine")
	}
	h.render(w, r, cs, "My comments", http.StatusOK, pages.MyComments(m))
}

// UpdateComment replaces a comment's content.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	ctx := r.Context()
	id, err := idParam(r.PathValue("id"))
	content := strings.TrimSpace(r.PostFormValue("content"))
	if err != nil || content == "" {
		notify(ctx, cs, model.NotificationError, msgCommentUpdateFail)
		seeOther(w, r, "/comments/mine")
		return
	}

	if _, err := h.api.UpdateComment(ctx, cs.Store.Credential(), id, content); err != nil {
		h.logger.Warn("updating comment failed", "comment_id", id, "error", err)
		notify(ctx, cs, model.NotificationError, msgCommentUpdateFail)
	} else {
		notify(ctx, cs, model.NotificationSuccess, msgCommentUpdated)
	}
	seeOther(w, r, "/comments/mine")
}

// DeleteComment removes one of the caller's comments.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	ctx := r.Context()
	id, err := idParam(r.PathValue("id"))
	if err == nil {
		err = h.api.DeleteComment(ctx, cs.Store.Credential(), id)
	}
	if err != nil {
		h.logger.Warn("deleting comment failed", "comment_id", r.PathValue("id"), "error", err)
		notify(ctx, cs, model.NotificationError, msgCommentDeleteFail)
	} else {
		notify(ctx, cs, model.NotificationSuccess, msgCommentDeleted)
	}
	seeOther(w, r, "/comments/mine")
}
