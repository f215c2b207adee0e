// Package session moves the signed session token between client and server
// as an HTTP cookie. The cookie attributes are the session's XSS/CSRF
// defense and are always written together as one set.
package session

import (
	"net/http"
	"time"
)

// CookieName is the cookie that carries the session token.
const CookieName = "token"

// Transport reads and writes the session cookie.
type Transport struct {
	ttl    time.Duration
	secure bool
}

// NewTransport constructs a Transport. secure may only be relaxed outside
// production.
func NewTransport(ttl time.Duration, secure bool) *Transport {
	return &Transport{ttl: ttl, secure: secure}
}

// Attach sets the session cookie on the response.
func (t *Transport) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, t.cookie(token, int(t.ttl.Seconds())))
}

// Read extracts the session token from the request. A missing cookie is a
// normal precondition for "not authenticated", not an error.
func (t *Transport) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Clear removes the session cookie using matching attributes so the browser
// actually drops it. Only the client copy is removed: an already issued
// token remains verifiable until expiry.
func (t *Transport) Clear(w http.ResponseWriter) {
	http.SetCookie(w, t.cookie("", -1))
}

func (t *Transport) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
