package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/guildboard/guildboard/internal/domain/auth"
	apperrors "github.com/guildboard/guildboard/internal/errors"
	"github.com/guildboard/guildboard/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	// Domain is the public origin; only Referers on its host become return URLs.
	Domain     *url.URL
	SessionTTL time.Duration
	PendingTTL time.Duration
	Now        func() time.Time
	Logger     *slog.Logger
}

// AuthService orchestrates the login flow by coordinating the provider and session persistence.
// A session exists before login completes: it carries the pending OAuth state
// and the page to return to across the provider round trip.
type AuthService struct {
	provider   ports.AuthProvider
	sessions   ports.SessionStore
	domainHost string
	sessionTTL time.Duration
	pendingTTL time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

var errSessionExpired = apperrors.Unauthenticated("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	s := &AuthService{
		provider:   opts.Provider,
		sessions:   opts.Sessions,
		sessionTTL: opts.SessionTTL,
		pendingTTL: opts.PendingTTL,
		now:        opts.Now,
		logger:     opts.Logger,
	}
	if opts.Domain != nil {
		s.domainHost = strings.ToLower(opts.Domain.Hostname())
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = 7 * 24 * time.Hour
	}
	if s.pendingTTL <= 0 {
		s.pendingTTL = 10 * time.Minute
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// BeginLoginInput groups parameters for starting a login.
type BeginLoginInput struct {
	// SessionID is the caller's current session cookie, if any.
	SessionID string
	// Referer is the Referer header of the login request.
	Referer string
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	Session domainauth.Session
}

// BeginLogin records where to return after login and the OAuth state on the
// caller's session (creating an anonymous one when needed) and returns the
// provider authorization URL.
//
// The return URL is, in order: one already pending on the session, the
// Referer's path when the Referer is on our own host, or "/".
func (s *AuthService) BeginLogin(ctx context.Context, in BeginLoginInput) (*BeginLoginResult, error) {
	sess := s.loadOrCreate(ctx, in.SessionID)

	if sess.ReturnURL == "" {
		sess.ReturnURL = s.refererPath(in.Referer)
	}
	if sess.ReturnURL == "" {
		sess.ReturnURL = "/"
	}

	sess.OAuthState = uuid.NewString()
	authURL, err := s.provider.Begin(ctx, ports.BeginInput{State: sess.OAuthState})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	if err = s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save pending session: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, Session: sess}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	SessionID string
	Code      string
	State     string
	// ProviderError is the error query parameter of the callback, e.g. "access_denied".
	ProviderError string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin verifies the callback against the pending session, exchanges the
// code for an identity and persists an authenticated session under a fresh id.
// The pending return URL carries over. Every failure wraps ErrAuthFailed.
func (s *AuthService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (*CompleteLoginResult, error) {
	if in.ProviderError != "" {
		return nil, fmt.Errorf("%w: provider returned %q", ErrAuthFailed, in.ProviderError)
	}
	if in.Code == "" || in.State == "" {
		return nil, fmt.Errorf("%w: code and state are required", ErrAuthFailed)
	}

	pending, err := s.GetSession(ctx, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: no pending session: %w", ErrAuthFailed, err)
	}
	if pending.OAuthState == "" || pending.OAuthState != in.State {
		return nil, fmt.Errorf("%w: state mismatch", ErrAuthFailed)
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{Code: in.Code})
	if err != nil {
		return nil, fmt.Errorf("%w: exchange authorization code: %w", ErrAuthFailed, err)
	}
	if identity.UserID == "" {
		return nil, fmt.Errorf("%w: provider returned no user id", ErrAuthFailed)
	}

	sess := domainauth.Session{
		ID:        generateSessionID(),
		Principal: domainauth.PrincipalFromIdentity(identity),
		ReturnURL: pending.ReturnURL,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		return nil, fmt.Errorf("%w: save session: %w", ErrAuthFailed, saveErr)
	}

	if delErr := s.sessions.Delete(ctx, pending.ID); delErr != nil {
		s.logger.WarnContext(ctx, "failed to delete pending session", "error", delErr)
	}

	return &CompleteLoginResult{Session: sess}, nil
}

// RememberReturnURL stores path as the page to return to after login, on the
// caller's session or a new anonymous one. Paths that are not same-origin are ignored.
func (s *AuthService) RememberReturnURL(ctx context.Context, sessionID, path string) (*domainauth.Session, error) {
	sess := s.loadOrCreate(ctx, sessionID)
	if p := safeReturnPath(path); p != "" {
		sess.ReturnURL = p
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &sess, nil
}

// ConsumeReturnURL returns the pending return URL and clears it. It returns "/"
// when nothing is pending or the session is gone.
func (s *AuthService) ConsumeReturnURL(ctx context.Context, sessionID string) string {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil || sess.ReturnURL == "" {
		return "/"
	}
	target := safeReturnPath(sess.ReturnURL)
	sess.ReturnURL = ""
	if saveErr := s.sessions.Save(ctx, *sess); saveErr != nil {
		s.logger.WarnContext(ctx, "failed to clear return URL", "error", saveErr)
	}
	if target == "" {
		return "/"
	}
	return target
}

// GetSession retrieves a session by ID. Expired sessions are deleted and reported as unauthenticated.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, apperrors.Unauthenticated("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// CurrentPrincipal returns the authenticated principal of a session.
func (s *AuthService) CurrentPrincipal(ctx context.Context, sessionID string) (*domainauth.Principal, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, apperrors.Unauthenticated("not logged in")
	}
	return sess.Principal, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// loadOrCreate returns the live session for id, or a new anonymous one.
func (s *AuthService) loadOrCreate(ctx context.Context, id string) domainauth.Session {
	if id != "" {
		if sess, err := s.GetSession(ctx, id); err == nil {
			return *sess
		}
	}
	return domainauth.Session{
		ID:        generateSessionID(),
		ExpiresAt: s.now().Add(s.pendingTTL),
	}
}

// refererPath returns the path and query of referer when it points at our own host.
func (s *AuthService) refererPath(referer string) string {
	if referer == "" || s.domainHost == "" {
		return ""
	}
	u, err := url.Parse(referer)
	if err != nil || !strings.EqualFold(u.Hostname(), s.domainHost) {
		return ""
	}
	return safeReturnPath(u.RequestURI())
}

// safeReturnPath accepts only absolute paths on this origin.
func safeReturnPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return ""
	}
	u, err := url.Parse(p)
	if err != nil || u.IsAbs() || u.Host != "" {
		return ""
	}
	return p
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	// Use UUID for session ID - it's URL-safe and has good entropy
	return uuid.New().String()
}
