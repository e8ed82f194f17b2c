package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/viewmodel"
)

// Profile renders the signed-in user's profile with counters and posts.
func Profile(m vm.OwnProfilePageViewModel) templ.Component {
	return templates.Component(func(ctx context.Context, hw *templates.Writer) {
		templates.Section(hw, m.Profile, "profile", func(p vm.ProfileViewModel) {
			templates.ProfileCard(hw, p)
			hw.Raw(`<div class="stats">`)
			templates.Section(hw, m.Stats, "stats", func(s vm.StatsViewModel) {
				hw.Raw(`<span class="stat">`)
				hw.Textf("%d posts", s.Posts)
				hw.Raw(`</span><a class="stat"`)
				hw.URLAttr("href", p.FollowersPath)
				hw.Raw(`>`)
				hw.Textf("%d followers", s.Followers)
				hw.Raw(`</a><a class="stat"`)
				hw.URLAttr("href", p.FollowingPath)
				hw.Raw(`>`)
				hw.Textf("%d following", s.Following)
				hw.Raw(`</a>`)
			})
			hw.Raw(`</div>`)
		})
		hw.Raw(`<div class="actions"><a class="button" href="/profile/edit">Edit profile</a>`)
		hw.Raw(`<a class="button button-primary" href="/posts/new">New post</a>`)
		hw.Raw(`<a class="button" href="/comments/mine">My comments</a></div>`)
		hw.Raw(`<h2>My posts</h2>`)
		templates.PostGrid(ctx, hw, m.Posts, "You have not written any posts yet.")
	})
}

// ProfileEdit renders the profile update form.
func ProfileEdit(m vm.ProfileFormViewModel) templ.Component {
	return templates.Component(func(ctx context.Context, hw *templates.Writer) {
		hw.Raw(`<section class="card form-card"><h1>Edit profile</h1>`)
		templates.FormStart(ctx, hw, "/profile/edit", true)
		templates.Input(hw, "Username", "text", "username", m.Username, false)
		templates.Input(hw, "Email", "email", "email", m.Email, false)
		templates.Input(hw, "Date of birth", "date", "date_of_birth", m.DateOfBirth, false)
		templates.TextArea(hw, "Bio", "bio", m.Bio, 4, false)
		if m.PictureURL != "" {
			templates.Avatar(hw, m.PictureURL, m.Username, "md")
		}
		templates.Input(hw, "Profile picture", "file", "profile_picture", "", false)
		hw.Raw(`<div class="actions"><button type="submit" class="button button-primary">Save</button>`)
		hw.Raw(`<a class="button" href="/profile">Cancel</a></div></form></section>`)
	})
}

// Users renders the user directory.
func Users(users vm.Section[[]vm.UserCardViewModel]) templ.Component {
	return templates.Component(func(_ context.Context, hw *templates.Writer) {
		hw.Raw(`<header class="page-header"><h1>Users</h1></header>`)
		userGrid(hw, users, "No users found.")
	})
}

// FollowList renders a followers or following list.
func FollowList(m vm.FollowListViewModel) templ.Component {
	return templates.Component(func(_ context.Context, hw *templates.Writer) {
		hw.Raw(`<header class="page-header"><h1>`)
		hw.Text(m.Heading)
		hw.Raw(`</h1></header>`)
		userGrid(hw, m.Users, "Nobody here yet.")
	})
}

func userGrid(hw *templates.Writer, users vm.Section[[]vm.UserCardViewModel], empty string) {
	templates.Section(hw, users, "users", func(items []vm.UserCardViewModel) {
		if len(items) == 0 {
			hw.Raw(`<p class="empty">`)
			hw.Text(empty)
			hw.Raw(`</p>`)
			return
		}
		hw.Raw(`<div class="grid">`)
		for _, u := range items {
			templates.UserCard(hw, u)
		}
		hw.Raw(`</div>`)
	})
}

// UserPosts renders another user's profile card, follow toggle, and posts.
func UserPosts(m vm.UserPostsPageViewModel) templ.Component {
	return templates.Component(func(ctx context.Context, hw *templates.Writer) {
		templates.Section(hw, m.Profile, "profile", func(p vm.ProfileViewModel) {
			templates.ProfileCard(hw, p)
			hw.Raw(`<div class="actions">`)
			if m.CanFollow {
				label := "Follow"
				if m.Following {
					label = "Unfollow"
				}
				templates.ActionButton(ctx, hw, m.FollowPath, label, "button button-primary", "")
			}
			hw.Raw(`<a class="button"`)
			hw.URLAttr("href", p.FollowersPath)
			hw.Raw(`>Followers</a><a class="button"`)
			hw.URLAttr("href", p.FollowingPath)
			hw.Raw(`>Following</a></div>`)
		})
		hw.Raw(`<h2>Posts</h2>`)
		templates.PostGrid(ctx, hw, m.Posts, "This user has not published any posts.")
	})
}

// MyComments renders the caller's comments with inline edit and delete.
func MyComments(m vm.MyCommentsViewModel) templ.Component {
	return templates.Component(func(ctx context.Context, hw *templates.Writer) {
		hw.Raw(`<header class="page-header"><h1>My comments</h1></header>`)
		templates.Section(hw, m.Comments, "comments", func(items []vm.CommentViewModel) {
			if len(items) == 0 {
				hw.Raw(`<p class="empty">You have not commented yet.</p>`)
				return
			}
			hw.Raw(`<ul class="comment-list">`)
			for _, c := range items {
				hw.Raw(`<li class="card"><div class="card-body"><p class="muted">On `)
				if c.PostPath != "" {
					hw.Raw(`<a`)
					hw.URLAttr("href", c.PostPath)
					hw.Raw(`>`)
					hw.Text(c.PostTitle)
					hw.Raw(`</a>`)
				} else {
					hw.Text("a deleted post")
				}
				hw.Raw(` <time>`)
				hw.Text(c.Created)
				hw.Raw(`</time></p>`)
				templates.FormStart(ctx, hw, c.EditPath, false)
				templates.TextArea(hw, "Comment", "content", c.Content, 3, true)
				hw.Raw(`<button type="submit" class="button">Update</button></form>`)
				templates.ActionButton(ctx, hw, c.DeletePath, "Delete", "button button-danger", "Are you sure you want to delete this comment?")
				hw.Raw(`</div></li>`)
			}
			hw.Raw(`</ul>`)
		})
		templates.Pagination(hw, m.Pagination)
	})
}
