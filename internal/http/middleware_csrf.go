package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const (
	// DefaultCSRFCookieName is the default name for the CSRF cookie and form field.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the default name for the CSRF header (canonical form).
	DefaultCSRFHeaderName = "X-Csrf-Token"
	// DefaultCSRFTokenLength is the default length of the CSRF token in bytes.
	DefaultCSRFTokenLength = 32
)

// CSRFConfig holds configuration for CSRF protection middleware.
type CSRFConfig struct {
	CookieName    string
	HeaderName    string
	FormFieldName string
	CookieDomain  string
	TokenLength   int
}

func (c *CSRFConfig) applyDefaults() {
	if c.CookieName == "" {
		c.CookieName = DefaultCSRFCookieName
	}
	if c.HeaderName == "" {
		c.HeaderName = DefaultCSRFHeaderName
	}
	if c.FormFieldName == "" {
		c.FormFieldName = DefaultCSRFCookieName
	}
	if c.TokenLength == 0 {
		c.TokenLength = DefaultCSRFTokenLength
	}
}

// CSRFProtection returns a middleware implementing the double-submit cookie
// pattern. Every response carries a token cookie; POST and other unsafe methods
// must echo it in the form field or header.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	cfg.applyDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := csrfCookieValue(r, cfg.CookieName)
			if token == "" {
				var err error
				token, err = generateCSRFToken(cfg.TokenLength)
				if err != nil {
					http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
					return
				}
				setCSRFCookie(w, r, cfg, token)
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

			if requiresCSRFValidation(r.Method) && !validCSRFSubmission(r, token, cfg) {
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

func csrfCookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// generateCSRFToken fails closed when the random source fails.
func generateCSRFToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func setCSRFCookie(w http.ResponseWriter, r *http.Request, cfg CSRFConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   3600 * 12,
	})
}

// validCSRFSubmission compares the submitted token with the cookie in constant time.
func validCSRFSubmission(r *http.Request, cookieToken string, cfg CSRFConfig) bool {
	if cookieToken == "" {
		return false
	}

	submitted := r.Header.Get(cfg.HeaderName)
	if submitted == "" {
		contentType := r.Header.Get("Content-Type")
		if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
			strings.HasPrefix(contentType, "multipart/form-data") {
			if err := r.ParseForm(); err != nil {
				return false
			}
			submitted = r.PostFormValue(cfg.FormFieldName)
		}
	}
	if submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieToken)) == 1
}

type csrfTokenKey struct{}

// GetCSRFToken returns the request's CSRF token for embedding in forms.
func GetCSRFToken(r *http.Request) string {
	if token, ok := r.Context().Value(csrfTokenKey{}).(string); ok {
		return token
	}
	return ""
}
