package utils

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	tok, err := NewSessionToken("s3cret", "user-42", SessionTTL)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), tok.Exp, 5*time.Second)

	id, err := ParseSessionToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", id)
}

func TestSessionToken_ClaimsShape(t *testing.T) {
	tok, err := NewSessionToken("s3cret", "user-42", SessionTTL)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok.Token, claims)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims["userId"])
	assert.Contains(t, claims, "iat")
	assert.Contains(t, claims, "exp")
}

func TestSessionToken_Expired(t *testing.T) {
	tok, err := NewSessionToken("s3cret", "user-42", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken("s3cret", tok.Token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSession))
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestSessionToken_Rejects(t *testing.T) {
	good, err := NewSessionToken("s3cret", "user-42", SessionTTL)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		UserID: "user-42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{UserID: "user-42"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	noUser, err := NewSessionToken("s3cret", "", SessionTTL)
	require.NoError(t, err)

	cases := map[string]string{
		"wrong secret": "",
		"garbage":      "not.a.token",
		"alg none":     noneToken,
		"no expiry":    noExp,
		"no user id":   noUser.Token,
		"truncated":    good.Token[:len(good.Token)-4],
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			secret := "s3cret"
			if name == "wrong secret" {
				raw, secret = good.Token, "other"
			}
			_, err := ParseSessionToken(secret, raw)
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}

func TestSessionToken_MissingKey(t *testing.T) {
	_, err := NewSessionToken("", "user-42", SessionTTL)
	assert.ErrorIs(t, err, ErrMissingSigningKey)

	_, err = ParseSessionToken("", "a.b.c")
	assert.ErrorIs(t, err, ErrMissingSigningKey)
}

func TestSessionCookie(t *testing.T) {
	tok := SessionToken{Token: "abc", Exp: time.Now().Add(SessionTTL)}

	ck := SessionCookie(tok, true)
	assert.Equal(t, "jwt", ck.Name)
	assert.Equal(t, "abc", ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, 2592000, ck.MaxAge)
	assert.Equal(t, "/", ck.Path)
	assert.True(t, strings.Contains(ck.String(), "SameSite=Strict"))

	assert.False(t, SessionCookie(tok, false).Secure)

	gone := ExpiredSessionCookie(true)
	assert.Empty(t, gone.Value)
	assert.Negative(t, gone.MaxAge)
	assert.True(t, gone.Expires.Before(time.Now()))
	assert.Contains(t, gone.String(), "Max-Age=0")
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("123456", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)
	assert.True(t, VerifyPassword(hash, "123456"))
	assert.False(t, VerifyPassword(hash, "654321"))
	assert.False(t, VerifyPassword("not-a-hash", "123456"))

	// out-of-range cost falls back to the default instead of failing
	hash, err = HashPassword("123456", 99)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "123456"))
}

func TestHashPasswordRejectsOverlongInput(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", MaxPasswordBytes+1), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
