package http

import (
	"net/http"
	"time"

	"github.com/layer-3/siws/core"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "siws_session"

// CookieTransport implements the SessionTransport interface by setting the
// session token as an HttpOnly cookie
type CookieTransport struct {
	secure bool
}

// NewCookieTransport creates a new cookie transport. secure should only be
// false for local development over plain HTTP.
func NewCookieTransport(secure bool) *CookieTransport {
	return &CookieTransport{secure: secure}
}

// AttachSession sets the session cookie on the outgoing response
func (t *CookieTransport) AttachSession(w http.ResponseWriter, session *core.Session) error {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
