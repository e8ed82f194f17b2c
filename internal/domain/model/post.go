package model

import "time"

// Post is a blog post.
type Post struct {
	ID          int64
	Title       string
	Slug        string
	Author      Profile
	Content     string
	Category    string
	Image       string
	IsPublished bool
	IsLiked     bool
	Analytics   PostAnalytics
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PostAnalytics holds the engagement counters of a post.
type PostAnalytics struct {
	Views    int
	Likes    int
	Comments int
}

// PostInput is the payload for creating or replacing a post.
type PostInput struct {
	Title       string
	Content     string
	Category    string // Category id on create, category name on update.
	IsPublished bool
	Image       *Upload
}

// PostQuery filters a post listing. Zero values are omitted.
type PostQuery struct {
	Page        int
	PageSize    int
	Query       string
	Category    string // Category slug.
	Username    string
	AuthorID    int64
	IsPublished *bool
}

// LikeResult is returned after toggling a like.
type LikeResult struct {
	Detail     string
	IsLiked    bool
	LikesCount int
}
