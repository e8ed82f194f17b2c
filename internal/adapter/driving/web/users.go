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
	msgProfileNotLoaded   = "User profile not loaded. Please try again."
	msgProfileLoadFailed  = "Error fetching user profile."
	msgStatsFailed        = "Failed to load stats."
	msgUsersFailed        = "Error fetching users"
	msgFollowersFailed    = "Failed to load followers."
	msgFollowSelf         = "You cannot follow yourself."
	msgFollowFailed       = "Failed to update follow status."
	msgFollowed           = "Followed"
	msgUnfollowed         = "Unfollowed"
	msgUserNotFound       = "User not found."
	msgInvalidUser        = "Invalid user id."
	msgFollowListFailed   = "Failed to load the list."
	msgProfileUploadError = "Could not read the uploaded picture."
)

// Profile renders the signed-in user's profile, counters, and own posts.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	ctx := r.Context()
	me := viewerProfile(cs)
	token := cs.Store.Credential()

	if me.ID == 0 {
		m := vm.OwnProfilePageViewModel{
			Profile: vm.Failed[vm.ProfileViewModel](msgProfileNotLoaded),
			Stats:   vm.Failed[vm.StatsViewModel](msgProfileNotLoaded),
			Posts:   vm.Failed[[]vm.PostCardViewModel](msgProfileNotLoaded),
		}
		h.render(w, r, cs, "Profile", http.StatusOK, pages.Profile(m))
		return
	}

	locator := strconv.FormatInt(me.ID, 10)
	stats := startFetch(ctx, h.logger, locator, func(ctx context.Context, _ string) (model.UserStats, error) {
		return h.api.UserStats(ctx, token, me.ID)
	})
	defer stats.Close()
	posts := startFetch(ctx, h.logger, locator, func(ctx context.Context, _ string) ([]model.Post, error) {
		return h.api.UserPosts(ctx, token, me.ID)
	})
	defer posts.Close()

	statsRes := settle(ctx, h.logger, stats, "stats")
	postsRes := settle(ctx, h.logger, posts, "own posts")

	m := vm.OwnProfilePageViewModel{
		Profile: vm.Ready(h.toProfileViewModel(me)),
		Stats: section(statsRes, msgStatsFailed, func(s model.UserStats) vm.StatsViewModel {
			return vm.StatsViewModel{Posts: s.PostCount, Followers: s.FollowersCount, Following: s.FollowingCount}
		}),
		Posts: section(postsRes, msgPostsFailed, func(p []model.Post) []vm.PostCardViewModel {
			return h.toPostCards(p, me.Username)
		}),
	}
	h.render(w, r, cs, "Profile", http.StatusOK, pages.Profile(m))
}

// EditProfilePage renders the profile form with the current values.
func (h *Handler) EditProfilePage(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	me := viewerProfile(cs)
	form := vm.ProfileFormViewModel{
		Username:    me.Username,
		Email:       me.Email,
		Bio:         me.Bio,
		DateOfBirth: me.DateOfBirth,
		PictureURL:  h.media.rewrite(me.ProfilePicture),
	}
	h.render(w, r, cs, "Edit profile", http.StatusOK, pages.ProfileEdit(form))
}

// UpdateProfile applies the submitted fields as a partial update. Username
// and email are only sent when non-empty; bio and date of birth may be
// cleared.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	picture, err := formUpload(r, "profile_picture")
	if err != nil {
		h.logger.Warn("reading profile upload failed", "error", err)
		notify(r.Context(), cs, model.NotificationError, msgProfileUploadError)
		seeOther(w, r, "/profile/edit")
		return
	}

	update := model.ProfileUpdate{
		Username:       submittedField(r, "username", false),
		Email:          submittedField(r, "email", false),
		Bio:            submittedField(r, "bio", true),
		DateOfBirth:    submittedField(r, "date_of_birth", true),
		ProfilePicture: picture,
	}

	if err := cs.Store.UpdateUser(r.Context(), update); err != nil {
		h.logger.Info("profile update rejected", "error", err)
		seeOther(w, r, "/profile/edit")
		return
	}
	seeOther(w, r, "/profile")
}

// Users renders the user directory with follower counts loaded per user.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	ctx := r.Context()

	profiles, err := h.api.ListUsers(ctx)
	if err != nil {
		h.logger.Warn("listing users failed", "error", err)
		h.render(w, r, cs, "Users", http.StatusOK, pages.Users(vm.Failed[[]vm.UserCardViewModel](msgUsersFailed)))
		return
	}

	counts := make([]*application.Fetcher[int], len(profiles))
	for i, p := range profiles {
		id := p.ID
		counts[i] = startFetch(ctx, h.logger, strconv.FormatInt(id, 10), func(ctx context.Context, _ string) (int, error) {
			return h.api.FollowersCount(ctx, id)
		})
		defer counts[i].Close()
	}

	cards := h.toUserCards(profiles)
	for i := range cards {
		res := settle(ctx, h.logger, counts[i], "followers count")
		cards[i].FollowersCount = section(res, msgFollowersFailed, func(n int) int { return n })
	}
	h.render(w, r, cs, "Users", http.StatusOK, pages.Users(vm.Ready(cards)))
}

// UserPosts renders another user's profile card, follow toggle, and posts.
func (h *Handler) UserPosts(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	ctx := r.Context()
	username := r.PathValue("username")
	token := cs.Store.Credential()
	me := viewerProfile(cs)

	profile := startFetch(ctx, h.logger, username, func(ctx context.Context, username string) (model.Profile, error) {
		return h.api.GetUserProfile(ctx, token, username)
	})
	defer profile.Close()
	posts := startFetch(ctx, h.logger, username, func(ctx context.Context, username string) (model.Page[model.Post], error) {
		return h.api.ListPosts(ctx, token, model.PostQuery{Username: username})
	})
	defer posts.Close()

	profileRes := settle(ctx, h.logger, profile, "user profile")
	if errors.Is(profileRes.Err, driven.ErrNotFound) {
		h.renderError(w, r, cs, http.StatusNotFound, msgUserNotFound)
		return
	}
	if profileRes.Err != nil {
		notify(ctx, cs, model.NotificationError, msgProfileLoadFailed)
	}
	postsRes := settle(ctx, h.logger, posts, "user posts")

	m := vm.UserPostsPageViewModel{
		Profile: section(profileRes, msgProfileLoadFailed, h.toProfileViewModel),
		Posts: section(postsRes, msgPostsFailed, func(p model.Page[model.Post]) []vm.PostCardViewModel {
			return h.toPostCards(p.Results, me.Username)
		}),
	}

	if profileRes.Loaded {
		target := profileRes.Payload
		m.FollowPath = "/users/" + strconv.FormatInt(target.ID, 10) + "/follow?username=" + url.QueryEscape(target.Username)
		m.CanFollow = target.ID != me.ID && target.Username != me.Username
		if m.CanFollow {
			following, err := h.api.CheckFollow(ctx, token, target.ID)
			if err != nil {
				h.logger.Warn("checking follow status failed", "user_id", target.ID, "error", err)
			}
			m.Following = following
		}
	}

	h.render(w, r, cs, username, http.StatusOK, pages.UserPosts(m))
}

// ToggleFollow follows or unfollows a user and returns to their page.
func (h *Handler) ToggleFollow(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	ctx := r.Context()
	back := "/users"
	if username := strings.TrimSpace(r.FormValue("username")); username != "" {
		back = userPostsPath(username)
	}

	id, err := idParam(r.PathValue("id"))
	if err != nil {
		notify(ctx, cs, model.NotificationError, msgProfileNotLoaded)
		seeOther(w, r, back)
		return
	}
	if id == viewerProfile(cs).ID {
		notify(ctx, cs, model.NotificationError, msgFollowSelf)
		seeOther(w, r, back)
		return
	}

	following, err := h.api.ToggleFollow(ctx, cs.Store.Credential(), id)
	switch {
	case err != nil && strings.Contains(strings.ToLower(driven.Detail(err)), "yourself"):
		notify(ctx, cs, model.NotificationError, msgFollowSelf)
	case err != nil:
		h.logger.Warn("toggling follow failed", "user_id", id, "error", err)
		notify(ctx, cs, model.NotificationError, msgFollowFailed)
	case following:
		notify(ctx, cs, model.NotificationSuccess, msgFollowed)
	default:
		notify(ctx, cs, model.NotificationSuccess, msgUnfollowed)
	}
	seeOther(w, r, back)
}

// Followers lists the users following {id}.
func (h *Handler) Followers(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	h.followList(w, r, cs, "Followers", h.api.Followers)
}

// Following lists the users {id} follows.
func (h *Handler) Following(w http.ResponseWriter, r *http.Request, cs *application.ClientSession) {
	h.followList(w, r, cs, "Following", h.api.Following)
}

func (h *Handler) followList(
	w http.ResponseWriter,
	r *http.Request,
	cs *application.ClientSession,
	heading string,
	list func(ctx context.Context, token string, userID int64) ([]model.Profile, error),
) {
	id, err := idParam(r.PathValue("id"))
	if err != nil {
		h.renderError(w, r, cs, http.StatusBadRequest, msgInvalidUser)
		return
	}

	m := vm.FollowListViewModel{Heading: heading}
	profiles, err := list(r.Context(), cs.Store.Credential(), id)
	if err != nil {
		h.logger.Warn("loading follow list failed", "list", heading, "user_id", id, "error", err)
		m.Users = vm.Failed[[]vm.UserCardViewModel](msgFollowListFailed)
	} else {
		m.Users = vm.Ready(h.toUserCards(profiles))
	}
	h.render(w, r, cs, heading, http.StatusOK, pages.FollowList(m))
}
