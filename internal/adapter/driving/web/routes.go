package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/* and
// uploaded media through the caching proxy at /media/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))
	mux.Handle("GET "+mediaPrefix, h.media)

	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /dashboard", h.public(h.Dashboard))

	// Account.
	mux.HandleFunc("GET /login", h.public(h.LoginPage))
	mux.HandleFunc("POST /login", h.requireCSRF(h.public(h.Login)))
	mux.HandleFunc("GET /register", h.public(h.RegisterPage))
	mux.HandleFunc("POST /register", h.requireCSRF(h.public(h.Register)))
	mux.HandleFunc("GET /logout", h.public(h.LogoutPage))
	mux.HandleFunc("POST /logout", h.requireCSRF(h.public(h.Logout)))
	mux.HandleFunc("GET /password-reset", h.public(h.PasswordResetPage))
	mux.HandleFunc("POST /password-reset", h.requireCSRF(h.public(h.RequestPasswordReset)))
	mux.HandleFunc("POST /password-reset/confirm", h.requireCSRF(h.public(h.ConfirmPasswordReset)))
	mux.HandleFunc("GET /profile", h.private(h.Profile))
	mux.HandleFunc("GET /profile/edit", h.private(h.EditProfilePage))
	mux.HandleFunc("POST /profile/edit", h.requireCSRF(h.private(h.UpdateProfile)))

	// Posts.
	mux.HandleFunc("GET /categories", h.private(h.Categories))
	mux.HandleFunc("GET /posts/new", h.private(h.NewPostPage))
	mux.HandleFunc("POST /posts/new", h.requireCSRF(h.private(h.CreatePost)))
	mux.HandleFunc("GET /posts/{slug}", h.private(h.PostDetail))
	mux.HandleFunc("GET /posts/{slug}/edit", h.private(h.EditPostPage))
	mux.HandleFunc("POST /posts/{slug}/edit", h.requireCSRF(h.private(h.UpdatePost)))
	mux.HandleFunc("POST /posts/{slug}/delete", h.requireCSRF(h.private(h.DeletePost)))
	mux.HandleFunc("POST /posts/{slug}/like", h.requireCSRF(h.private(h.LikePost)))
	mux.HandleFunc("POST /posts/{slug}/comments", h.requireCSRF(h.private(h.AddComment)))

	// Users.
	mux.HandleFunc("GET /users", h.private(h.Users))
	mux.HandleFunc("GET /users/{username}/posts", h.private(h.UserPosts))
	mux.HandleFunc("POST /users/{id}/follow", h.requireCSRF(h.private(h.ToggleFollow)))
	mux.HandleFunc("GET /users/{id}/followers", h.public(h.Followers))
	mux.HandleFunc("GET /users/{id}/following", h.public(h.Following))

	// Comments.
	mux.HandleFunc("GET /comments/mine", h.private(h.MyComments))
	mux.HandleFunc("POST /comments/{id}/edit", h.requireCSRF(h.private(h.UpdateComment)))
	mux.HandleFunc("POST /comments/{id}/delete", h.requireCSRF(h.private(h.DeleteComment)))

	mux.HandleFunc("GET /", h.public(h.NotFound))
}
