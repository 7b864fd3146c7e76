package utils

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "jwt"

// SessionCookie wraps a signed token in the session cookie: HTTP-only,
// SameSite=Strict, Secure unless the service runs in local development, and
// living exactly as long as the token.
func SessionCookie(tok SessionToken, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    tok.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(SessionTTL / time.Second),
		Expires:  tok.Exp,
	}
}

// ExpiredSessionCookie overwrites the session cookie with an empty value
// that the browser drops immediately.  The token itself stays valid until
// its own expiry; there is no server-side revocation.
func ExpiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	}
}
