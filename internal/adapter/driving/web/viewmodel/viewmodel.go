// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// Section is the tri-state of one independently loaded page section. Exactly
// one of Loading, Err, or Loaded describes the section at render time.
type Section[T any] struct {
	Loading bool
	Loaded  bool
	Err     string
	Data    T
}

// Ready returns a loaded section holding data.
func Ready[T any](data T) Section[T] {
	return Section[T]{Loaded: true, Data: data}
}

// Failed returns a section carrying a user-facing error message.
func Failed[T any](msg string) Section[T] {
	return Section[T]{Err: msg}
}

// Toast is a notification rendered once in the page layout.
type Toast struct {
	Level   string
	Message string
}

// NavLink is one entry of the navigation bar.
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// LayoutViewModel holds data shared by every page.
type LayoutViewModel struct {
	Title         string
	CSRFToken     string
	Authenticated bool
	Username      string
	Nav           []NavLink
	Toasts        []Toast
}

// PaginationViewModel drives previous/next links of a listing.
type PaginationViewModel struct {
	Page         int
	Count        int
	PrevURL      string
	NextURL      string
	HasPrevious  bool
	HasNext      bool
	ShowControls bool
}

// AuthorViewModel is the compact author block shown on posts and comments.
type AuthorViewModel struct {
	ID         int64
	Username   string
	PictureURL string
	PostsPath  string
}

// PostCardViewModel is a post in a listing.
type PostCardViewModel struct {
	Title       string
	Slug        string
	Excerpt     string
	Category    string
	ImageURL    string
	Author      AuthorViewModel
	Created     string
	Views       int
	Likes       int
	Comments    int
	IsPublished bool
	DetailPath  string
	EditPath    string
	DeletePath  string
	CanManage   bool
}

// PostDetailViewModel is the full post page.
type PostDetailViewModel struct {
	PostCardViewModel

	ContentHTML string
	Updated     string
	IsLiked     bool
	LikePath    string
	CommentPath string
}

// CommentViewModel is one comment.
type CommentViewModel struct {
	ID         int64
	Content    string
	Author     AuthorViewModel
	Created    string
	PostTitle  string
	PostPath   string
	EditPath   string
	DeletePath string
}

// CategoryViewModel is a selectable category.
type CategoryViewModel struct {
	ID       int64
	Name     string
	Slug     string
	Selected bool
}

// PostListViewModel is a filtered, paginated post listing.
type PostListViewModel struct {
	Action     string
	Query      string
	Category   string
	Categories Section[[]CategoryViewModel]
	Posts      Section[[]PostCardViewModel]
	Pagination PaginationViewModel
}

// UserCardViewModel is a user in a directory listing.
type UserCardViewModel struct {
	ID             int64
	Username       string
	Email          string
	Bio            string
	PictureURL     string
	PostsPath      string
	FollowersCount Section[int]
}

// ProfileViewModel is the profile card with counters.
type ProfileViewModel struct {
	ID            int64
	Username      string
	Email         string
	Bio           string
	DateOfBirth   string
	PictureURL    string
	Role          string
	Joined        string
	FollowersPath string
	FollowingPath string
}

// StatsViewModel holds the per-user counters.
type StatsViewModel struct {
	Posts     int
	Followers int
	Following int
}

// OwnProfilePageViewModel is the signed-in user's profile page.
type OwnProfilePageViewModel struct {
	Profile Section[ProfileViewModel]
	Stats   Section[StatsViewModel]
	Posts   Section[[]PostCardViewModel]
}

// UserPostsPageViewModel is another user's public page.
type UserPostsPageViewModel struct {
	Profile    Section[ProfileViewModel]
	Posts      Section[[]PostCardViewModel]
	Following  bool
	CanFollow  bool
	FollowPath string
}

// FollowListViewModel lists followers or followed users.
type FollowListViewModel struct {
	Heading string
	Users   Section[[]UserCardViewModel]
}

// PostDetailPageViewModel combines the post with its side sections.
type PostDetailPageViewModel struct {
	Post     Section[PostDetailViewModel]
	Recent   Section[[]PostCardViewModel]
	Comments Section[[]CommentViewModel]
}

// MyCommentsViewModel is the caller's comment history.
type MyCommentsViewModel struct {
	Comments   Section[[]CommentViewModel]
	Pagination PaginationViewModel
}

// PostFormViewModel backs the create and edit post forms.
type PostFormViewModel struct {
	Heading     string
	Action      string
	CancelPath  string
	Title       string
	Content     string
	Category    string
	IsPublished bool
	ImageURL    string
	Categories  Section[[]CategoryViewModel]

	// ByName selects categories by name instead of id.
	ByName bool
}

// ProfileFormViewModel backs the edit profile form.
type ProfileFormViewModel struct {
	Username    string
	Email       string
	Bio         string
	DateOfBirth string
	PictureURL  string
}

// PasswordResetViewModel drives the two-step password reset form.
type PasswordResetViewModel struct {
	Step    int
	Message string
	Email   string
	UserID  int64
	Token   string
}

// ErrorViewModel is a full-page error.
type ErrorViewModel struct {
	Status  int
	Message string
}
