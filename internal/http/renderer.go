package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/guildboard/guildboard/internal/domain/listing"
)

// TemplateRenderer renders the dashboard's HTML pages.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS // Filesystem containing layout.tmpl and pages/*.tmpl (required)
	Logger     *slog.Logger
}

// NewTemplateRenderer parses the templates in cfg.TemplateFS.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var t *template.Template
	t, err := template.New("root").Funcs(templateFuncs(&t)).ParseFS(cfg.TemplateFS, "*.tmpl", "pages/*.tmpl")
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err))
		return nil, err
	}
	return &TemplateRenderer{t: t, logger: logger}, nil
}

// Render writes the full page for data with the given status.
func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, data any) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("template execution failed", slog.Any("error", err))
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template", slog.Any("error", err))
		return err
	}
	return nil
}

func templateFuncs(t **template.Template) template.FuncMap {
	return template.FuncMap{
		"renderSection": func(page string, data any) (template.HTML, error) {
			if t == nil || *t == nil {
				return "", errors.New("template not initialized")
			}
			var buf bytes.Buffer
			if err := (*t).ExecuteTemplate(&buf, ContentTemplateFor(page), data); err != nil {
				return "", err
			}
			// #nosec G203 - rendered by our own html/template set; values were escaped above.
			return template.HTML(buf.String()), nil
		},
		"inviteURL": listing.InviteURL,
		"guildIcon": guildIconURL,
		"initial": func(name string) string {
			name = strings.TrimSpace(name)
			if name == "" {
				return "?"
			}
			return strings.ToUpper(string([]rune(name)[0]))
		},
	}
}

// guildIconURL returns the CDN URL of a guild icon, or "" when the guild has none.
func guildIconURL(guildID, icon string) string {
	if icon == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/icons/%s/%s.png?size=128", guildID, icon)
}
