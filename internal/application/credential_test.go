package application_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/blogpanel/internal/application"
)

func TestInspectCredential_NumericUserID(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"user_id":    42,
		"token_type": "access",
		"exp":        exp.Unix(),
	})

	info, err := application.InspectCredential(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), info.UserID)
	assert.Equal(t, "access", info.TokenType)
	assert.True(t, exp.Equal(info.ExpiresAt))
	assert.False(t, info.Expired(time.Now()))
}

func TestInspectCredential_StringUserID(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"user_id": "17"})

	info, err := application.InspectCredential(token)
	require.NoError(t, err)

	assert.Equal(t, int64(17), info.UserID)
	assert.True(t, info.ExpiresAt.IsZero())
	assert.False(t, info.Expired(time.Now()))
}

func TestInspectCredential_Opaque(t *testing.T) {
	_, err := application.InspectCredential("not-a-jwt")
	require.ErrorIs(t, err, application.ErrOpaqueCredential)
}
