package httpx

import (
	"net/http"
)

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	CurrentPage string
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	data := map[string]any{
		"Title":           meta.Title,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": false,
	}
	if token := GetCSRFToken(r); token != "" {
		data["CSRFToken"] = token
	}
	if p := PrincipalFromContext(r.Context()); p != nil {
		data["IsAuthenticated"] = true
		data["User"] = p
	}
	return data
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithError sets an error alert.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	if msg != "" {
		b.data["Error"] = true
		b.data["ErrorMessage"] = msg
	}
	return b
}

// WithSuccess sets a success alert.
func (b *TemplateDataBuilder) WithSuccess(msg string) *TemplateDataBuilder {
	if msg != "" {
		b.data["Success"] = true
		b.data["SuccessMessage"] = msg
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
