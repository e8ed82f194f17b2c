package model

// Category groups posts.
type Category struct {
	ID   int64
	Name string
	Slug string
}
