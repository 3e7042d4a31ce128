package httpx

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	guildboard "github.com/guildboard/guildboard"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth         AuthServiceInterface
	Actions      GuildActionsService
	CookieDomain string
	// BotInstallURL and SupportURL are the /invite and /support targets.
	BotInstallURL string
	SupportURL    string
	// CommandPrefix is the chat command prefix documented on /howto. Defaults to ".".
	CommandPrefix string
	// TemplateFS and StaticFS override the embedded assets (optional).
	TemplateFS fs.FS
	StaticFS   fs.FS
	Logger     *slog.Logger
}

// NewRouter wires the dashboard routes, wrapped in recovery, request logging
// and CSRF protection.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil || services.Actions == nil {
		return nil, errors.New("auth and actions services are required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templateFS, staticFS, err := resolveAssets(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, err
	}

	prefix := services.CommandPrefix
	if prefix == "" {
		prefix = "."
	}
	ui := &UIHandlers{
		T:             tr,
		Actions:       services.Actions,
		BotInstallURL: services.BotInstallURL,
		SupportURL:    services.SupportURL,
		CommandPrefix: prefix,
		Logger:        logger,
	}
	authHandlers := &AuthHandlers{Svc: services.Auth, CookieDomain: services.CookieDomain, Logger: logger}
	gate := &AuthGate{Svc: services.Auth, CookieDomain: services.CookieDomain, Logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	mux.Handle("GET /static/", staticHandler(staticFS))

	registerAuthRoutes(mux, authHandlers)
	registerPublicRoutes(mux, ui, gate)
	registerDashboardRoutes(mux, ui, gate)

	handler := CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain})(mux)
	handler = Logging(logger)(handler)
	return Recover(logger)(handler), nil
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /login", h.Login)
	mux.HandleFunc("GET /callback", h.Callback)
	mux.HandleFunc("GET /logout", h.Logout)
}

func registerPublicRoutes(mux *http.ServeMux, h *UIHandlers, gate *AuthGate) {
	mux.Handle("GET /{$}", gate.OptionalAuth(http.HandlerFunc(h.Home)))
	mux.HandleFunc("GET /invite", h.Invite)
	mux.HandleFunc("GET /support", h.Support)
	mux.Handle("GET /stats", gate.OptionalAuth(http.HandlerFunc(h.Stats)))
	mux.Handle("GET /howto", gate.OptionalAuth(http.HandlerFunc(h.HowTo)))

	auth := func(fn http.HandlerFunc) http.Handler { return gate.RequireAuthBrowser(fn) }
	mux.Handle("GET /serverslist", auth(h.ServersList))
	mux.Handle("GET /autojoin/{guildID}", auth(h.AutoJoin))
	mux.Handle("GET /report/{guildID}", auth(h.Report))
	mux.Handle("POST /report/{guildID}", auth(h.ReportSubmit))
}

func registerDashboardRoutes(mux *http.ServeMux, h *UIHandlers, gate *AuthGate) {
	auth := func(fn http.HandlerFunc) http.Handler { return gate.RequireAuthBrowser(fn) }
	mux.Handle("GET /dashboard", auth(h.Dashboard))
	mux.Handle("GET /dashboard/{guildID}", auth(h.GuildSettings))
	mux.Handle("POST /dashboard/{guildID}", auth(h.GuildSettingsSubmit))
	mux.Handle("GET /dashboard/say/{guildID}", auth(h.Say))
	mux.Handle("POST /dashboard/say/{guildID}", auth(h.SaySubmit))
	mux.Handle("GET /dashboard/sendembed/{guildID}", auth(h.SendEmbed))
	mux.Handle("POST /dashboard/sendembed/{guildID}", auth(h.SendEmbedSubmit))
}

// resolveAssets returns the template and static filesystems, defaulting to the embedded ones.
func resolveAssets(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	var err error
	if templateFS == nil {
		if templateFS, err = fs.Sub(guildboard.TemplateFS, "web/templates"); err != nil {
			return nil, nil, err
		}
	}
	if staticFS == nil {
		if staticFS, err = fs.Sub(guildboard.StaticFS, "web/static"); err != nil {
			return nil, nil, err
		}
	}
	return templateFS, staticFS, nil
}

// staticHandler serves /static/* with a short cache lifetime.
func staticHandler(fsys fs.FS) http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.FS(fsys)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}
