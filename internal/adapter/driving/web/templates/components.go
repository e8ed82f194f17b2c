package templates

import (
	"context"
	"fmt"

	vm "github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/viewmodel"
)

// Section writes the loading or failure placeholder of s, or calls body with
// its data once loaded.
func Section[T any](hw *Writer, s vm.Section[T], what string, body func(T)) {
	switch {
	case s.Err != "":
		hw.Raw(`<p class="section-error">`)
		hw.Text(s.Err)
		hw.Raw(`</p>`)
	case !s.Loaded:
		hw.Raw(`<p class="section-loading">`)
		hw.Text("Loading " + what + "...")
		hw.Raw(`</p>`)
	default:
		body(s.Data)
	}
}

// Avatar writes a user picture, or the initial of the username.
func Avatar(hw *Writer, pictureURL, username, size string) {
	if pictureURL != "" {
		hw.Raw(`<img`)
		hw.Attr("class", "avatar avatar-"+size)
		hw.URLAttr("src", pictureURL)
		hw.Attr("alt", username)
		hw.Raw(`>`)
		return
	}
	initial := "?"
	if username != "" {
		initial = string([]rune(username)[:1])
	}
	hw.Raw(`<span`)
	hw.Attr("class", "avatar avatar-"+size+" avatar-initial")
	hw.Raw(`>`)
	hw.Text(initial)
	hw.Raw(`</span>`)
}

// AuthorLine writes the author block of a post or comment.
func AuthorLine(hw *Writer, a vm.AuthorViewModel, when string) {
	hw.Raw(`<div class="author">`)
	Avatar(hw, a.PictureURL, a.Username, "sm")
	hw.Raw(`<a`)
	hw.URLAttr("href", a.PostsPath)
	hw.Raw(`>`)
	hw.Text(a.Username)
	hw.Raw(`</a>`)
	if when != "" {
		hw.Raw(`<time>`)
		hw.Text(when)
		hw.Raw(`</time>`)
	}
	hw.Raw(`</div>`)
}

// PostCard writes one post of a listing.
func PostCard(ctx context.Context, hw *Writer, p vm.PostCardViewModel) {
	hw.Raw(`<article class="card post-card">`)
	if p.ImageURL != "" {
		hw.Raw(`<img class="post-image"`)
		hw.URLAttr("src", p.ImageURL)
		hw.Attr("alt", p.Title)
		hw.Raw(`>`)
	}
	hw.Raw(`<div class="card-body">`)
	if p.Category != "" {
		hw.Raw(`<span class="badge">`)
		hw.Text(p.Category)
		hw.Raw(`</span>`)
	}
	if !p.IsPublished {
		hw.Raw(`<span class="badge badge-draft">Draft</span>`)
	}
	hw.Raw(`<h3><a`)
	hw.URLAttr("href", p.DetailPath)
	hw.Raw(`>`)
	hw.Text(p.Title)
	hw.Raw(`</a></h3><p class="excerpt">`)
	hw.Text(p.Excerpt)
	hw.Raw(`</p>`)
	AuthorLine(hw, p.Author, p.Created)
	Counters(hw, p.Views, p.Likes, p.Comments)
	if p.CanManage {
		hw.Raw(`<div class="actions"><a class="button"`)
		hw.URLAttr("href", p.EditPath)
		hw.Raw(`>Edit</a>`)
		ActionButton(ctx, hw, p.DeletePath, "Delete", "button button-danger", "Are you sure you want to delete this post?")
		hw.Raw(`</div>`)
	}
	hw.Raw(`</div></article>`)
}

// Counters writes the views, likes, and comments counters.
func Counters(hw *Writer, views, likes, comments int) {
	hw.Raw(`<ul class="counters">`)
	hw.Raw(`<li>`)
	hw.Textf("%d views", views)
	hw.Raw(`</li><li>`)
	hw.Textf("%d likes", likes)
	hw.Raw(`</li><li>`)
	hw.Textf("%d comments", comments)
	hw.Raw(`</li></ul>`)
}

// PostGrid writes a post listing section.
func PostGrid(ctx context.Context, hw *Writer, posts vm.Section[[]vm.PostCardViewModel], empty string) {
	Section(hw, posts, "posts", func(items []vm.PostCardViewModel) {
		if len(items) == 0 {
			hw.Raw(`<p class="empty">`)
			hw.Text(empty)
			hw.Raw(`</p>`)
			return
		}
		hw.Raw(`<div class="grid">`)
		for _, p := range items {
			PostCard(ctx, hw, p)
		}
		hw.Raw(`</div>`)
	})
}

// Pagination writes previous/next links.
func Pagination(hw *Writer, p vm.PaginationViewModel) {
	if !p.ShowControls {
		return
	}
	hw.Raw(`<nav class="pagination">`)
	if p.HasPrevious {
		hw.Raw(`<a class="button"`)
		hw.URLAttr("href", p.PrevURL)
		hw.Raw(`>Previous</a>`)
	} else {
		hw.Raw(`<span class="button disabled">Previous</span>`)
	}
	hw.Raw(`<span class="page-number">`)
	hw.Textf("Page %d", p.Page)
	hw.Raw(`</span>`)
	if p.HasNext {
		hw.Raw(`<a class="button"`)
		hw.URLAttr("href", p.NextURL)
		hw.Raw(`>Next</a>`)
	} else {
		hw.Raw(`<span class="button disabled">Next</span>`)
	}
	hw.Raw(`</nav>`)
}

// CategoryOptions writes <option> elements. byName selects the category name
// as the submitted value instead of its id.
func CategoryOptions(hw *Writer, categories []vm.CategoryViewModel, byName bool) {
	for _, c := range categories {
		value := fmt.Sprint(c.ID)
		if byName {
			value = c.Name
		}
		hw.Raw(`<option`)
		hw.Attr("value", value)
		hw.Flag("selected", c.Selected)
		hw.Raw(`>`)
		hw.Text(c.Name)
		hw.Raw(`</option>`)
	}
}

// UserCard writes one user of a directory or follow list.
func UserCard(hw *Writer, u vm.UserCardViewModel) {
	hw.Raw(`<article class="card user-card">`)
	Avatar(hw, u.PictureURL, u.Username, "md")
	hw.Raw(`<div class="card-body"><h3><a`)
	hw.URLAttr("href", u.PostsPath)
	hw.Raw(`>`)
	hw.Text(u.Username)
	hw.Raw(`</a></h3>`)
	if u.Email != "" {
		hw.Raw(`<p class="muted">`)
		hw.Text(u.Email)
		hw.Raw(`</p>`)
	}
	if u.Bio != "" {
		hw.Raw(`<p>`)
		hw.Text(u.Bio)
		hw.Raw(`</p>`)
	}
	if u.FollowersCount.Loaded || u.FollowersCount.Err != "" {
		hw.Raw(`<p class="muted">`)
		Section(hw, u.FollowersCount, "followers", func(n int) {
			hw.Textf("%d followers", n)
		})
		hw.Raw(`</p>`)
	}
	hw.Raw(`</div></article>`)
}

// ProfileCard writes a profile header.
func ProfileCard(hw *Writer, p vm.ProfileViewModel) {
	hw.Raw(`<section class="card profile-card">`)
	Avatar(hw, p.PictureURL, p.Username, "lg")
	hw.Raw(`<div class="card-body"><h2>`)
	hw.Text(p.Username)
	hw.Raw(`</h2>`)
	if p.Role != "" {
		hw.Raw(`<span class="badge">`)
		hw.Text(p.Role)
		hw.Raw(`</span>`)
	}
	hw.Raw(`<dl class="profile-facts">`)
	fact(hw, "Email", p.Email)
	fact(hw, "Bio", p.Bio)
	fact(hw, "Date of birth", p.DateOfBirth)
	fact(hw, "Joined", p.Joined)
	hw.Raw(`</dl></div></section>`)
}

func fact(hw *Writer, label, value string) {
	if value == "" {
		return
	}
	hw.Raw(`<dt>`)
	hw.Text(label)
	hw.Raw(`</dt><dd>`)
	hw.Text(value)
	hw.Raw(`</dd>`)
}
