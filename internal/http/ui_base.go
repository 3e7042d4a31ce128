package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/guildboard/guildboard/internal/domain/auth"
	"github.com/guildboard/guildboard/internal/domain/guild"
	"github.com/guildboard/guildboard/internal/domain/listing"
	apperrors "github.com/guildboard/guildboard/internal/errors"
	"github.com/guildboard/guildboard/internal/service"
)

// GuildActionsService is the dashboard's view of the action dispatcher.
type GuildActionsService interface {
	Authorize(ctx context.Context, p *domainauth.Principal, guildID string) (guild.Verdict, error)
	SendPlainMessage(ctx context.Context, in service.SendMessageInput) (guild.Channel, error)
	SendDecoratedMessage(ctx context.Context, in service.SendEmbedInput) (guild.Channel, error)
	RegisterListing(ctx context.Context, in service.ListingActionInput) (listing.Entry, error)
	DeregisterListing(ctx context.Context, in service.ListingActionInput) error
	Listing(ctx context.Context, guildID string) (*listing.Entry, error)
	SubmitReport(ctx context.Context, in service.SubmitReportInput) error
	AutoAdmit(ctx context.Context, guildID string, p *domainauth.Principal) error
	PublicListings(ctx context.Context) ([]service.PublicListing, error)
	ManageableGuilds(ctx context.Context, p *domainauth.Principal) ([]guild.Summary, error)
	Stats(ctx context.Context) (service.Stats, error)
}

var _ GuildActionsService = (*service.GuildActionService)(nil)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T       *TemplateRenderer
	Actions GuildActionsService
	// BotInstallURL is where /invite redirects.
	BotInstallURL string
	// SupportURL is where /support redirects.
	SupportURL string
	// CommandPrefix is shown on the how-to page.
	CommandPrefix string
	Logger        *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if err := h.T.Render(w, status, data); err != nil {
		h.logger().ErrorContext(r.Context(), "render failed", "page", data["CurrentPage"], "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// renderError renders the error page with the message for err.
func (h *UIHandlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	data := NewTemplateData(r, PageMeta{Title: "Error", CurrentPage: PageError}).
		WithError(h.alertFor(r, err)).
		Build()
	h.render(w, r, statusFor(err), data)
}

// alertFor turns an action error into the text shown in the page alert. Errors
// without a user-facing message are logged and shown generically.
func (h *UIHandlers) alertFor(r *http.Request, err error) string {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeConflict, apperrors.ErrCodeNotFound,
		apperrors.ErrCodeForbidden, apperrors.ErrCodeTimeout, apperrors.ErrCodeUnavailable:
		return apperrors.UserMessage(err, msgUnexpected)
	}
	h.logger().ErrorContext(r.Context(), "action failed", "path", r.URL.Path, "error", err)
	return msgUnexpected
}

// statusFor picks the response status for a page re-rendered after a failed action.
func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeTimeout, apperrors.ErrCodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// guildPage is the guard-checked context of a /dashboard/{guildID} page.
type guildPage struct {
	principal *domainauth.Principal
	guild     *guild.Guild
}

// authorizeGuild runs the guard for the path's guild. A denial redirects to
// /dashboard with 303 and reports false; so does a missing session.
func (h *UIHandlers) authorizeGuild(w http.ResponseWriter, r *http.Request) (guildPage, bool) {
	p := PrincipalFromContext(r.Context())
	if p == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return guildPage{}, false
	}
	v, err := h.Actions.Authorize(r.Context(), p, r.PathValue("guildID"))
	if err != nil {
		if errors.Is(err, service.ErrDenied) {
			h.logger().InfoContext(r.Context(), "guild access denied",
				"guild_id", r.PathValue("guildID"), "user_id", p.UserID, "reason", apperrors.UserMessage(err, ""))
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return guildPage{}, false
		}
		h.renderError(w, r, err)
		return guildPage{}, false
	}
	return guildPage{principal: p, guild: v.Guild}, true
}

// guildData is the page data shared by every guild settings page.
func guildData(r *http.Request, meta PageMeta, gp guildPage) *TemplateDataBuilder {
	return NewTemplateData(r, meta).
		With("Guild", gp.guild).
		With("Channels", guild.MessageableChannels(gp.guild.Channels))
}
