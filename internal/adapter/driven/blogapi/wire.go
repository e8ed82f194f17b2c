package blogapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

// apiTime accepts the timestamp layouts the server emits, with or without a
// zone offset, and null.
type apiTime struct{ time.Time }

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}

// flexInt decodes integers that the server sometimes sends as strings
// (counts report "N/A" for unknown users).
type flexInt int64

func (n *flexInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		v, err := num.Int64()
		if err != nil {
			return fmt.Errorf("integer: %w", err)
		}
		*n = flexInt(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("integer: %w", err)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexInt(v)
	return nil
}

type profileJSON struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	DateOfBirth    *string `json:"date_of_birth"`
	ProfilePicture *string `json:"profile_picture"`
	Bio            *string `json:"bio"`
	IsAdmin        bool    `json:"is_admin"`
	IsUser         bool    `json:"is_user"`
	CreatedAt      apiTime `json:"created_at"`
	UpdatedAt      apiTime `json:"updated_at"`
}

func (p profileJSON) toModel() model.Profile {
	return model.Profile{
		ID:             p.ID,
		Username:       p.Username,
		Email:          p.Email,
		DateOfBirth:    deref(p.DateOfBirth),
		ProfilePicture: deref(p.ProfilePicture),
		Bio:            deref(p.Bio),
		IsAdmin:        p.IsAdmin,
		IsUser:         p.IsUser,
		CreatedAt:      p.CreatedAt.Time,
		UpdatedAt:      p.UpdatedAt.Time,
	}
}

type loginJSON struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	} `json:"user"`
}

type analyticsJSON struct {
	Views    int `json:"views"`
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

type postJSON struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Author      *profileJSON   `json:"author"`
	Content     string         `json:"content"`
	Category    *string        `json:"category"`
	Image       *string        `json:"image"`
	IsPublished bool           `json:"is_published"`
	IsLiked     bool           `json:"is_liked"`
	Analytics   *analyticsJSON `json:"analytics"`
	CreatedAt   apiTime        `json:"created_at"`
	UpdatedAt   apiTime        `json:"updated_at"`
}

func (p postJSON) toModel() model.Post {
	post := model.Post{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		Category:    deref(p.Category),
		Image:       deref(p.Image),
		IsPublished: p.IsPublished,
		IsLiked:     p.IsLiked,
		CreatedAt:   p.CreatedAt.Time,
		UpdatedAt:   p.UpdatedAt.Time,
	}
	if p.Author != nil {
		post.Author = p.Author.toModel()
	}
	if p.Analytics != nil {
		post.Analytics = model.PostAnalytics{
			Views:    p.Analytics.Views,
			Likes:    p.Analytics.Likes,
			Comments: p.Analytics.Comments,
		}
	}
	return post
}

type commentJSON struct {
	ID        int64        `json:"id"`
	Post      string       `json:"post"`
	PostTitle string       `json:"post_title"`
	Author    *profileJSON `json:"author"`
	Content   string       `json:"content"`
	CreatedAt apiTime      `json:"created_at"`
}

func (c commentJSON) toModel() model.Comment {
	comment := model.Comment{
		ID:        c.ID,
		PostSlug:  c.Post,
		PostTitle: c.PostTitle,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Time,
	}
	if c.Author != nil {
		comment.Author = c.Author.toModel()
	}
	return comment
}

type categoryJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (c categoryJSON) toModel() model.Category {
	return model.Category{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

// listJSON decodes both a bare JSON array and the paginated envelope
// {"count", "next", "previous", "results"} into one shape.
type listJSON[T any] struct {
	Results  []T
	Count    int
	Next     string
	Previous string
}

func (l *listJSON[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &l.Results); err != nil {
			return err
		}
		l.Count = len(l.Results)
		return nil
	}

	var envelope struct {
		Count    int     `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  []T     `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	l.Results = envelope.Results
	l.Count = envelope.Count
	l.Next = deref(envelope.Next)
	l.Previous = deref(envelope.Previous)
	return nil
}

func toPage[W any, T any](l listJSON[W], number int, conv func(W) T) model.Page[T] {
	results := make([]T, 0, len(l.Results))
	for _, w := range l.Results {
		results = append(results, conv(w))
	}
	if number == 0 {
		number = 1
	}
	return model.Page[T]{
		Results:  results,
		Count:    l.Count,
		Next:     l.Next,
		Previous: l.Previous,
		Number:   number,
	}
}

func mapSlice[W any, T any](in []W, conv func(W) T) []T {
	out := make([]T, 0, len(in))
	for _, w := range in {
		out = append(out, conv(w))
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
