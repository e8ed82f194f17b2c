package model

import "time"

// Comment is a comment left on a post.
type Comment struct {
	ID        int64
	PostSlug  string
	PostTitle string
	Author    Profile
	Content   string
	CreatedAt time.Time
}
