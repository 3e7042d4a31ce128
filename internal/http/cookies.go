package httpx

import (
	"net/http"
	"strings"
	"time"

	domainauth "github.com/guildboard/guildboard/internal/domain/auth"
)

// SessionCookieName names the cookie holding the session id.
const SessionCookieName = "session_id"

// isSecureRequest reports whether the request arrived over HTTPS, directly or via a proxy.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

// sessionIDFromRequest returns the session cookie value, or "".
func sessionIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// setSessionCookie writes the session cookie based on the session's expiry.
func setSessionCookie(w http.ResponseWriter, r *http.Request, domain string, s domainauth.Session) {
	maxAge := int(time.Until(s.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clearSessionCookie expires the session cookie, mirroring the attributes used to set it.
func clearSessionCookie(w http.ResponseWriter, r *http.Request, domain string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
