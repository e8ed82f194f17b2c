package web

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	vm "github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/blogpanel/internal/application"
	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

const dateLayout = "Jan 2, 2006"

// formatDate renders t for display, or "" for the zero time.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func postPath(slug string) string { return "/posts/" + url.PathEscape(slug) }

func userPostsPath(username string) string {
	return "/users/" + url.PathEscape(username) + "/posts"
}

func (h *Handler) toAuthorViewModel(p model.Profile) vm.AuthorViewModel {
	return vm.AuthorViewModel{
		ID:         p.ID,
		Username:   p.DisplayName(),
		PictureURL: h.media.rewrite(p.ProfilePicture),
		PostsPath:  userPostsPath(p.Username),
	}
}

// toPostCardViewModel converts a post for listings. viewer is the signed-in
// username, used to offer edit and delete on the viewer's own posts.
func (h *Handler) toPostCardViewModel(p model.Post, viewer string) vm.PostCardViewModel {
	path := postPath(p.Slug)
	return vm.PostCardViewModel{
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     Excerpt(p.Content),
		Category:    p.Category,
		ImageURL:    h.media.rewrite(p.Image),
		Author:      h.toAuthorViewModel(p.Author),
		Created:     formatDate(p.CreatedAt),
		Views:       p.Analytics.Views,
		Likes:       p.Analytics.Likes,
		Comments:    p.Analytics.Comments,
		IsPublished: p.IsPublished,
		DetailPath:  path,
		EditPath:    path + "/edit",
		DeletePath:  path + "/delete",
		CanManage:   viewer != "" && p.Author.Username == viewer,
	}
}

func (h *Handler) toPostCards(posts []model.Post, viewer string) []vm.PostCardViewModel {
	cards := make([]vm.PostCardViewModel, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, h.toPostCardViewModel(p, viewer))
	}
	return cards
}

func (h *Handler) toPostDetailViewModel(p model.Post, viewer string) vm.PostDetailViewModel {
	card := h.toPostCardViewModel(p, viewer)
	return vm.PostDetailViewModel{
		PostCardViewModel: card,
		ContentHTML:       RenderMarkdown(p.Content),
		Updated:           formatDate(p.UpdatedAt),
		IsLiked:           p.IsLiked,
		LikePath:          card.DetailPath + "/like",
		CommentPath:       card.DetailPath + "/comments",
	}
}

func (h *Handler) toCommentViewModel(c model.Comment) vm.CommentViewModel {
	id := strconv.FormatInt(c.ID, 10)
	out := vm.CommentViewModel{
		ID:         c.ID,
		Content:    c.Content,
		Author:     h.toAuthorViewModel(c.Author),
		Created:    formatDate(c.CreatedAt),
		PostTitle:  c.PostTitle,
		EditPath:   "/comments/" + id + "/edit",
		DeletePath: "/comments/" + id + "/delete",
	}
	if c.PostSlug != "" {
		out.PostPath = postPath(c.PostSlug)
	}
	return out
}

func (h *Handler) toComments(comments []model.Comment) []vm.CommentViewModel {
	out := make([]vm.CommentViewModel, 0, len(comments))
	for _, c := range comments {
		out = append(out, h.toCommentViewModel(c))
	}
	return out
}

// toCategoryViewModels marks the category whose slug, id, or name equals
// selected.
func toCategoryViewModels(categories []model.Category, selected string) []vm.CategoryViewModel {
	out := make([]vm.CategoryViewModel, 0, len(categories))
	for _, c := range categories {
		out = append(out, vm.CategoryViewModel{
			ID:       c.ID,
			Name:     c.Name,
			Slug:     c.Slug,
			Selected: selected != "" && (c.Slug == selected || c.Name == selected || strconv.FormatInt(c.ID, 10) == selected),
		})
	}
	return out
}

func (h *Handler) toProfileViewModel(p model.Profile) vm.ProfileViewModel {
	id := strconv.FormatInt(p.ID, 10)
	return vm.ProfileViewModel{
		ID:            p.ID,
		Username:      p.DisplayName(),
		Email:         p.Email,
		Bio:           p.Bio,
		DateOfBirth:   p.DateOfBirth,
		PictureURL:    h.media.rewrite(p.ProfilePicture),
		Role:          roleLabel(p),
		Joined:        formatDate(p.CreatedAt),
		FollowersPath: "/users/" + id + "/followers",
		FollowingPath: "/users/" + id + "/following",
	}
}

func roleLabel(p model.Profile) string {
	switch {
	case p.IsAdmin:
		return "Admin"
	case p.IsUser:
		return "User"
	}
	return ""
}

func (h *Handler) toUserCardViewModel(p model.Profile) vm.UserCardViewModel {
	return vm.UserCardViewModel{
		ID:         p.ID,
		Username:   p.DisplayName(),
		Email:      p.Email,
		Bio:        p.Bio,
		PictureURL: h.media.rewrite(p.ProfilePicture),
		PostsPath:  userPostsPath(p.Username),
	}
}

func (h *Handler) toUserCards(profiles []model.Profile) []vm.UserCardViewModel {
	out := make([]vm.UserCardViewModel, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, h.toUserCardViewModel(p))
	}
	return out
}

func toToasts(ns []model.Notification) []vm.Toast {
	out := make([]vm.Toast, 0, len(ns))
	for _, n := range ns {
		out = append(out, vm.Toast{Level: string(n.Level), Message: n.Message})
	}
	return out
}

// toPagination builds previous/next links that keep base's other query
// parameters.
func toPagination[T any](p model.Page[T], base url.Values, path string) vm.PaginationViewModel {
	link := func(page int) string {
		q := url.Values{}
		for k, v := range base {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		return path + "?" + q.Encode()
	}

	number := max(p.Number, 1)
	return vm.PaginationViewModel{
		Page:         number,
		Count:        p.Count,
		PrevURL:      link(number - 1),
		NextURL:      link(number + 1),
		HasPrevious:  p.HasPrevious() && number > 1,
		HasNext:      p.HasNext(),
		ShowControls: p.HasNext() || p.HasPrevious(),
	}
}

// section maps a Fetcher result onto a view section. failure is the message
// shown when the read failed.
func section[T, V any](r application.Result[T], failure string, convert func(T) V) vm.Section[V] {
	switch {
	case r.Err != nil:
		return vm.Failed[V](failure)
	case !r.Loaded:
		return vm.Section[V]{Loading: true}
	}
	return vm.Ready(convert(r.Payload))
}

func idParam(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
