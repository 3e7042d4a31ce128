package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/guildboard/guildboard/internal/domain/auth"
	"github.com/guildboard/guildboard/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, in service.BeginLoginInput) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, in service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	RememberReturnURL(ctx context.Context, sessionID, path string) (*domainauth.Session, error)
	ConsumeReturnURL(ctx context.Context, sessionID string) string
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// AuthHandlers provides HTTP handlers for the login flow.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login starts the OAuth2 flow.
// GET /login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.BeginLogin(r.Context(), service.BeginLoginInput{
		SessionID: sessionIDFromRequest(r),
		Referer:   r.Referer(),
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	// The pending session carries the OAuth state and return URL across the round trip.
	setSessionCookie(w, r, h.CookieDomain, result.Session)
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes the OAuth2 flow and returns the user to the page they
// started from. Any failure, consent denial included, lands on "/".
// GET /callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		SessionID:     sessionIDFromRequest(r),
		Code:          q.Get("code"),
		State:         q.Get("state"),
		ProviderError: q.Get("error"),
	})
	if err != nil {
		h.logger().InfoContext(r.Context(), "login failed", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	setSessionCookie(w, r, h.CookieDomain, result.Session)
	target := h.Svc.ConsumeReturnURL(r.Context(), result.Session.ID)
	http.Redirect(w, r, target, http.StatusFound)
}

// Logout destroys the session.
// GET /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sid := sessionIDFromRequest(r); sid != "" {
		if err := h.Svc.Logout(r.Context(), sid); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	clearSessionCookie(w, r, h.CookieDomain)
	http.Redirect(w, r, "/", http.StatusFound)
}
