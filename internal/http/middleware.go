package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/guildboard/guildboard/internal/domain/auth"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AuthGate guards routes that need a logged-in user.
type AuthGate struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger
}

// RequireAuthBrowser returns a middleware that requires a logged-in session.
// Browsers are sent to /login with the requested page remembered as the return
// URL; API clients get a 401 JSON response.
func (g *AuthGate) RequireAuthBrowser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := g.sessionFromRequest(r)
		if session != nil && session.Authenticated() {
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), session)))
			return
		}

		if !isBrowserRequest(r) {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "authentication_required",
				Err:     errors.New("authentication required"),
			})
			return
		}
		g.redirectToLogin(w, r, session)
	})
}

// OptionalAuth adds the session to the request context when one exists.
func (g *AuthGate) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session := g.sessionFromRequest(r); session != nil {
			r = r.WithContext(SetSessionInContext(r.Context(), session))
		}
		next.ServeHTTP(w, r)
	})
}

func (g *AuthGate) sessionFromRequest(r *http.Request) *domainauth.Session {
	sid := sessionIDFromRequest(r)
	if sid == "" {
		return nil
	}
	session, err := g.Svc.GetSession(r.Context(), sid)
	if err != nil {
		return nil
	}
	return session
}

// redirectToLogin remembers the page a GET was after, then bounces to /login.
func (g *AuthGate) redirectToLogin(w http.ResponseWriter, r *http.Request, session *domainauth.Session) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		var sid string
		if session != nil {
			sid = session.ID
		}
		saved, err := g.Svc.RememberReturnURL(r.Context(), sid, r.URL.RequestURI())
		switch {
		case err != nil:
			g.logger().WarnContext(r.Context(), "failed to remember return URL", "error", err)
		case saved.ID != sid:
			setSessionCookie(w, r, g.CookieDomain, *saved)
		}
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (g *AuthGate) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// isBrowserRequest reports whether the client wants HTML. Requests without an
// Accept header are treated as browsers.
func isBrowserRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	if strings.Contains(accept, "text/html") {
		return true
	}
	return !strings.Contains(accept, "application/json")
}
