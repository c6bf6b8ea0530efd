package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Annany2002/recipe-backend/api/models"
)

const testSecret = "test-secret-key"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong horse", hash))
	assert.False(t, CheckPasswordHash("correct horse", "not-a-hash"))
}

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT("user-1", testSecret, time.Hour)
	require.NoError(t, err)

	userID, err := ValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	again, err := GenerateJWT("user-1", testSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, token, again, "each login yields a distinct session token")
}

func TestValidateJWTErrors(t *testing.T) {
	expired, err := GenerateJWT("user-1", testSecret, -time.Minute)
	require.NoError(t, err)

	otherKey, err := GenerateJWT("user-1", "another-secret", time.Hour)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, models.CustomClaims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
		want  error
	}{
		{"malformed", "not.a.jwt", ErrTokenMalformed},
		{"expired", expired, ErrTokenExpired},
		{"wrong key", otherKey, ErrTokenInvalid},
		{"missing user", noUser, ErrTokenClaimsInvalid},
		{"none algorithm", noneAlg, ErrUnexpectedSigningMethod},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateJWT(tc.token, testSecret)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
