package model

// Session is the authenticated state of one client. Credential empty implies
// Profile nil.
type Session struct {
	Credential string
	Profile    *Profile
}

// Authenticated reports whether the session carries a credential.
func (s Session) Authenticated() bool { return s.Credential != "" }
