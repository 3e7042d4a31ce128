package config

import "strconv"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to. Defaults to ":<PORT>".
	Addr string `env:"HTTP_ADDR"`

	// Port is the public listen port; it also feeds the OAuth2 callback URL
	// when no custom domain is in use.
	Port int `env:"PORT" envDefault:"8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Port <= 0 || h.Port > 65535 {
		h.Port = 8080
	}
}

// ListenAddr returns the address the server binds to.
func (h HTTPConfig) ListenAddr() string {
	if h.Addr != "" {
		return h.Addr
	}
	return ":" + strconv.Itoa(h.Port)
}
