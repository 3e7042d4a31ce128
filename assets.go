// Package guildboard provides the embedded web assets.
package guildboard

import "embed"

// TemplateFS holds the dashboard page templates.
//
//go:embed all:web/templates
var TemplateFS embed.FS

// StaticFS holds the stylesheet served under /static/.
//
//go:embed all:web/static
var StaticFS embed.FS
