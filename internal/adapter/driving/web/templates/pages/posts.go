package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/viewmodel"
)

// PostList renders a searchable, category-filtered post listing. It backs
// both the dashboard and the categories page.
func PostList(heading string, m vm.PostListViewModel) templ.Component {
	return templates.Component(func(ctx context.Context, hw *templates.Writer) {
		hw.Raw(`<header class="page-header"><h1>`)
		hw.Text(heading)
		hw.Raw(`</h1></header>`)

		hw.Raw(`<form method="get" class="filters"`)
		hw.URLAttr("action", m.Action)
		hw.Raw(`><input type="search" name="q" placeholder="Search posts"`)
		hw.Attr("value", m.Query)
		hw.Raw(`>`)
		templates.Section(hw, m.Categories, "categories", func(categories []vm.CategoryViewModel) {
			hw.Raw(`<select name="category"><option value="">All categories</option>`)
			for _, c := range categories {
				hw.Raw(`<option`)
				hw.Attr("value", c.Slug)
				hw.Flag("selected", c.Selected)
				hw.Raw(`>`)
				hw.Text(c.Name)
				hw.Raw(`</option>`)
			}
			hw.Raw(`</select>`)
		})
		hw.Raw(`<button type="submit" class="button">Search</button></form>`)

		templates.PostGrid(ctx, hw, m.Posts, "No posts found.")
		templates.Pagination(hw, m.Pagination)
	})
}

// PostDetail renders a post with its recent-posts sidebar and comments.
func PostDetail(m vm.PostDetailPageViewModel) templ.Component {
	return templates.Component(func(ctx context.Context, hw *templates.Writer) {
		hw.Raw(`<div class="detail-layout"><div class="detail-main">`)
		templates.Section(hw, m.Post, "post", func(p vm.PostDetailViewModel) {
			postBody(ctx, hw, p)
			comments(ctx, hw, p, m.Comments)
		})
		hw.Raw(`</div><aside class="detail-side"><h2>Recent posts</h2>`)
		templates.Section(hw, m.Recent, "recent posts", func(items []vm.PostCardViewModel) {
			hw.Raw(`<ul class="recent">`)
			for _, r := range items {
				hw.Raw(`<li><a`)
				hw.URLAttr("href", r.DetailPath)
				hw.Raw(`>`)
				hw.Text(r.Title)
				hw.Raw(`</a><time>`)
				hw.Text(r.Created)
				hw.Raw(`</time></li>`)
			}
			hw.Raw(`</ul>`)
		})
		hw.Raw(`</aside></div>`)
	})
}

func postBody(ctx context.Context, hw *templates.Writer, p vm.PostDetailViewModel) {
	hw.Raw(`<article class="card post-detail">`)
	if p.ImageURL != "" {
		hw.Raw(`<img class="post-hero"`)
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
	hw.Raw(`<h1>`)
	hw.Text(p.Title)
	hw.Raw(`</h1>`)
	templates.AuthorLine(hw, p.Author, p.Created)
	hw.Raw(`<div class="post-content">`)
	// ContentHTML has been through the markdown sanitizer.
	hw.Raw(p.ContentHTML)
	hw.Raw(`</div>`)
	templates.Counters(hw, p.Views, p.Likes, p.Comments)

	hw.Raw(`<div class="actions">`)
	label := "Like"
	if p.IsLiked {
		label = "Unlike"
	}
	templates.ActionButton(ctx, hw, p.LikePath, label, "button", "")
	if p.CanManage {
		hw.Raw(`<a class="button"`)
		hw.URLAttr("href", p.EditPath)
		hw.Raw(`>Edit</a>`)
		templates.ActionButton(ctx, hw, p.DeletePath, "Delete", "button button-danger", "Are you sure you want to delete this post?")
	}
	hw.Raw(`</div></div></article>`)
}

func comments(ctx context.Context, hw *templates.Writer, p vm.PostDetailViewModel, list vm.Section[[]vm.CommentViewModel]) {
	hw.Raw(`<section id="comments" class="card comments"><div class="card-body"><h2>Comments</h2>`)
	templates.FormStart(ctx, hw, p.CommentPath, false)
	templates.TextArea(hw, "Add a comment", "content", "", 3, false)
	hw.Raw(`<button type="submit" class="button button-primary">Post comment</button></form>`)
	templates.Section(hw, list, "comments", func(items []vm.CommentViewModel) {
		if len(items) == 0 {
			hw.Raw(`<p class="empty">No comments yet.</p>`)
			return
		}
		hw.Raw(`<ul class="comment-list">`)
		for _, c := range items {
			hw.Raw(`<li>`)
			templates.AuthorLine(hw, c.Author, c.Created)
			hw.Raw(`<p>`)
			hw.Text(c.Content)
			hw.Raw(`</p></li>`)
		}
		hw.Raw(`</ul>`)
	})
	hw.Raw(`</div></section>`)
}

// PostForm renders the create or edit post form.
func PostForm(m vm.PostFormViewModel) templ.Component {
	return templates.Component(func(ctx context.Context, hw *templates.Writer) {
		hw.Raw(`<section class="card form-card"><h1>`)
		hw.Text(m.Heading)
		hw.Raw(`</h1>`)
		templates.FormStart(ctx, hw, m.Action, true)
		templates.Input(hw, "Title", "text", "title", m.Title, true)
		templates.TextArea(hw, "Content (markdown)", "content", m.Content, 12, true)

		hw.Raw(`<label class="field"><span>Category</span>`)
		templates.Section(hw, m.Categories, "categories", func(categories []vm.CategoryViewModel) {
			hw.Raw(`<select name="category" required><option value="">Select a category</option>`)
			templates.CategoryOptions(hw, categories, m.ByName)
			hw.Raw(`</select>`)
		})
		hw.Raw(`</label>`)

		hw.Raw(`<label class="field checkbox"><input type="checkbox" name="is_published" value="true"`)
		hw.Flag("checked", m.IsPublished)
		hw.Raw(`><span>Published</span></label>`)
		if m.ImageURL != "" {
			hw.Raw(`<img class="post-thumb"`)
			hw.URLAttr("src", m.ImageURL)
			hw.Raw(` alt="Current image">`)
		}
		templates.Input(hw, "Image", "file", "image", "", false)

		hw.Raw(`<div class="actions"><button type="submit" class="button button-primary">Save</button><a class="button"`)
		hw.URLAttr("href", m.CancelPath)
		hw.Raw(`>Cancel</a></div></form></section>`)
	})
}
