package model

import (
	"strings"
	"time"
)

// Profile is the account record of a platform user.
type Profile struct {
	ID             int64
	Username       string
	Email          string
	DateOfBirth    string // YYYY-MM-DD, empty when unset.
	ProfilePicture string // Path or URL as returned by the API, empty when unset.
	Bio            string
	IsAdmin        bool
	IsUser         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName returns the username, or the email local part when the
// username is empty (as with the abbreviated login record).
func (p Profile) DisplayName() string {
	if p.Username != "" {
		return p.Username
	}
	local, _, _ := strings.Cut(p.Email, "@")
	return local
}

// Registration is the payload for creating a new account.
type Registration struct {
	Username       string
	Email          string
	Password       string
	DateOfBirth    string
	Bio            string
	ProfilePicture *Upload
}

// ProfileUpdate is a partial profile update. Nil fields are left unchanged.
type ProfileUpdate struct {
	Username       *string
	Email          *string
	Bio            *string
	DateOfBirth    *string
	ProfilePicture *Upload
}

// UserStats aggregates the per-user counters exposed by the API.
type UserStats struct {
	PostCount      int
	FollowersCount int
	FollowingCount int
}

// UserSummary is a profile paired with its follower count for user listings.
type UserSummary struct {
	Profile        Profile
	FollowersCount int
}
