package utils // package utils provides helpers for session tokens, cookies and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// SessionTTL is the fixed lifetime of a session token and its cookie.
const SessionTTL = 30 * 24 * time.Hour

// ErrMissingSigningKey means the service was started without a JWT secret.
// It is a configuration error and is never retried.
var ErrMissingSigningKey = errors.New("session signing key is not configured")

// ErrInvalidSession covers every verification failure: bad signature,
// malformed token, wrong algorithm, missing user id or expiry.
var ErrInvalidSession = errors.New("session token invalid")

// SessionClaims is the payload of a session token: `{ userId, iat, exp }`.
type SessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// SessionToken is a signed token together with its expiry.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // UTC expiration time
}

// NewSessionToken signs an HS256 token binding userID to an issue time of
// now and an expiry of now+ttl.
func NewSessionToken(secret, userID string, ttl time.Duration) (SessionToken, error) {
	if secret == "" {
		return SessionToken{}, ErrMissingSigningKey
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies signature and expiry and returns the embedded
// user id.  Any failure, including an expired token, yields an error
// wrapping ErrInvalidSession; expiry additionally matches jwt.ErrTokenExpired.
func ParseSessionToken(secret, raw string) (string, error) {
	if secret == "" {
		return "", ErrMissingSigningKey
	}
	var claims SessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", errors.Join(ErrInvalidSession, err)
	}
	if !tok.Valid || claims.UserID == "" {
		return "", ErrInvalidSession
	}
	return claims.UserID, nil
}
