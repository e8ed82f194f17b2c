package application

import "github.com/ericfisherdev/blogpanel/internal/domain/model"

// sessionState is the value behind a SessionStore. Every transition returns a
// new value, so the rules are testable without I/O.
//
// generation increases whenever the credential changes (including logout).
// A profile fetch carries the generation it was issued for, and its result
// only applies while that generation is still current.
type sessionState struct {
	credential string
	profile    *model.Profile
	generation uint64
}

// fetchTicket identifies one profile fetch issued for a credential change.
type fetchTicket struct {
	generation uint64
	credential string
}

// adopt installs a new credential with an optional provisional profile and
// issues the ticket for its profile fetch.
func (s sessionState) adopt(credential string, provisional *model.Profile) (sessionState, fetchTicket) {
	next := sessionState{
		credential: credential,
		profile:    provisional,
		generation: s.generation + 1,
	}
	return next, fetchTicket{generation: next.generation, credential: credential}
}

// cleared drops the credential and profile.
func (s sessionState) cleared() sessionState {
	return sessionState{generation: s.generation + 1}
}

func (s sessionState) current(t fetchTicket) bool {
	return s.generation == t.generation && s.credential == t.credential && s.credential != ""
}

// withFetchedProfile applies a fetch result. Stale tickets leave s unchanged
// and report false.
func (s sessionState) withFetchedProfile(t fetchTicket, p model.Profile) (sessionState, bool) {
	if !s.current(t) {
		return s, false
	}
	s.profile = &p
	return s, true
}

// withFetchFailure applies a failed fetch. For the current ticket the session
// is cleared; stale tickets leave s unchanged and report false.
func (s sessionState) withFetchFailure(t fetchTicket) (sessionState, bool) {
	if !s.current(t) {
		return s, false
	}
	return s.cleared(), true
}

// withProfile replaces the profile of the authenticated session.
func (s sessionState) withProfile(p model.Profile) sessionState {
	if s.credential == "" {
		return s
	}
	s.profile = &p
	return s
}

func (s sessionState) snapshot() model.Session {
	out := model.Session{Credential: s.credential}
	if s.profile != nil {
		p := *s.profile
		out.Profile = &p
	}
	return out
}

// provisionalProfile builds the profile shown between login and the first
// profile fetch from the abbreviated login record.
func provisionalProfile(u model.LoginUser) *model.Profile {
	if u.Username == "" && u.Email == "" {
		return nil
	}
	return &model.Profile{
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.Role == model.RoleAdmin || u.Role == model.RoleSuperuser,
		IsUser:   u.Role == model.RoleUser,
	}
}
