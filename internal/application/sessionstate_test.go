package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

func TestSessionState_AdoptIssuesTicketPerCredential(t *testing.T) {
	var s sessionState

	s1, t1 := s.adopt("a", nil)
	s2, t2 := s1.adopt("b", nil)

	assert.Equal(t, "b", s2.credential)
	assert.NotEqual(t, t1.generation, t2.generation)
	assert.Equal(t, "a", t1.credential)
}

func TestSessionState_StaleProfileIsIgnored(t *testing.T) {
	var s sessionState
	s, stale := s.adopt("a", nil)
	s, current := s.adopt("b", nil)

	next, applied := s.withFetchedProfile(stale, model.Profile{Username: "from-a"})
	assert.False(t, applied)
	assert.Nil(t, next.profile)

	next, applied = next.withFetchedProfile(current, model.Profile{Username: "from-b"})
	assert.True(t, applied)
	assert.Equal(t, "from-b", next.profile.Username)
}

func TestSessionState_StaleFailureDoesNotLogOut(t *testing.T) {
	var s sessionState
	s, stale := s.adopt("a", nil)
	s, _ = s.adopt("b", nil)

	next, applied := s.withFetchFailure(stale)
	assert.False(t, applied)
	assert.Equal(t, "b", next.credential)
}

func TestSessionState_CurrentFailureClears(t *testing.T) {
	var s sessionState
	s, ticket := s.adopt("a", &model.Profile{Username: "alice"})

	next, applied := s.withFetchFailure(ticket)
	assert.True(t, applied)
	assert.Empty(t, next.credential)
	assert.Nil(t, next.profile)
}

func TestSessionState_FetchAfterLogoutIsIgnored(t *testing.T) {
	var s sessionState
	s, ticket := s.adopt("a", nil)
	s = s.cleared()

	next, applied := s.withFetchedProfile(ticket, model.Profile{Username: "alice"})
	assert.False(t, applied)
	assert.Nil(t, next.profile)
}

func TestSessionState_SnapshotCopiesProfile(t *testing.T) {
	var s sessionState
	s, _ = s.adopt("a", &model.Profile{Username: "alice"})

	snap := s.snapshot()
	snap.Profile.Username = "mallory"

	assert.Equal(t, "alice", s.profile.Username)
}

func TestProvisionalProfile(t *testing.T) {
	tests := []struct {
		name      string
		user      model.LoginUser
		wantNil   bool
		wantAdmin bool
		wantUser  bool
	}{
		{name: "empty record", user: model.LoginUser{}, wantNil: true},
		{name: "regular user", user: model.LoginUser{Username: "a", Role: model.RoleUser}, wantUser: true},
		{name: "admin", user: model.LoginUser{Username: "a", Role: model.RoleAdmin}, wantAdmin: true},
		{name: "superuser", user: model.LoginUser{Username: "a", Role: model.RoleSuperuser}, wantAdmin: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := provisionalProfile(tt.user)
			if tt.wantNil {
				assert.Nil(t, p)
				return
			}
			assert.Equal(t, tt.wantAdmin, p.IsAdmin)
			assert.Equal(t, tt.wantUser, p.IsUser)
		})
	}
}
