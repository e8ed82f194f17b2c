package application

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

// ErrOpaqueCredential is returned by InspectCredential when the credential is
// not a decodable JWT. Opaque credentials remain usable; only their expiry is
// unknown.
var ErrOpaqueCredential = errors.New("credential is not a decodable token")

// InspectCredential decodes the claims of an access credential without
// verifying its signature. The server remains the authority on validity; the
// decoded expiry only lets the client skip a doomed profile fetch.
func InspectCredential(token string) (model.CredentialInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return model.CredentialInfo{}, fmt.Errorf("%w: %w", ErrOpaqueCredential, err)
	}

	var info model.CredentialInfo
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.UTC()
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.UTC()
	}
	if tt, ok := claims["token_type"].(string); ok {
		info.TokenType = tt
	}

	switch uid := claims["user_id"].(type) {
	case float64:
		info.UserID = int64(uid)
	case string:
		if id, err := strconv.ParseInt(uid, 10, 64); err == nil {
			info.UserID = id
		}
	}

	return info, nil
}
