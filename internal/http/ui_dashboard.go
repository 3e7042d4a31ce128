package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/guildboard/guildboard/internal/errors"
	"github.com/guildboard/guildboard/internal/service"
)

// Dashboard lists the guilds the user can manage.
// GET /dashboard.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	b := NewTemplateData(r, PageMeta{Title: "Dashboard", CurrentPage: PageDashboard})
	guilds, err := h.Actions.ManageableGuilds(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		h.logger().WarnContext(r.Context(), "list manageable guilds failed", "error", err)
		b.WithError(msgGuildsFailed)
	}
	h.render(w, r, http.StatusOK, b.With("Guilds", guilds).Build())
}

// GuildSettings shows the listing controls for a guild.
// GET /dashboard/{guildID}.
func (h *UIHandlers) GuildSettings(w http.ResponseWriter, r *http.Request) {
	gp, ok := h.authorizeGuild(w, r)
	if !ok {
		return
	}
	h.renderSettings(w, r, gp, "", nil)
}

// GuildSettingsSubmit registers or deregisters the guild on the public list.
// POST /dashboard/{guildID} with action=register|deregister and channel.
func (h *UIHandlers) GuildSettingsSubmit(w http.ResponseWriter, r *http.Request) {
	gp, ok := h.authorizeGuild(w, r)
	if !ok {
		return
	}
	in := service.ListingActionInput{
		Principal:  gp.principal,
		GuildID:    gp.guild.ID,
		ChannelRef: r.PostFormValue("channel"),
	}

	var (
		success string
		err     error
	)
	switch r.PostFormValue("action") {
	case "register":
		_, err = h.Actions.RegisterListing(r.Context(), in)
		success = msgPublished
	case "deregister":
		err = h.Actions.DeregisterListing(r.Context(), in)
		success = msgUnpublished
	default:
		err = apperrors.ValidationField("action", msgUnknownForm)
	}
	if h.deniedMidAction(w, r, err) {
		return
	}
	if err != nil {
		h.renderSettings(w, r, gp, "", err)
		return
	}
	h.renderSettings(w, r, gp, success, nil)
}

func (h *UIHandlers) renderSettings(w http.ResponseWriter, r *http.Request, gp guildPage, success string, actionErr error) {
	b := guildData(r, PageMeta{Title: gp.guild.Name, CurrentPage: PageSettings}, gp).WithSuccess(success)
	status := http.StatusOK
	if actionErr != nil {
		b.WithError(h.alertFor(r, actionErr))
		status = statusFor(actionErr)
	}

	entry, err := h.Actions.Listing(r.Context(), gp.guild.ID)
	if err != nil {
		h.logger().WarnContext(r.Context(), "load listing failed", "guild_id", gp.guild.ID, "error", err)
	}
	b.With("Listing", entry)
	h.render(w, r, status, b.Build())
}

// Say shows the plain message form.
// GET /dashboard/say/{guildID}.
func (h *UIHandlers) Say(w http.ResponseWriter, r *http.Request) {
	gp, ok := h.authorizeGuild(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, guildData(r, PageMeta{Title: "Say", CurrentPage: PageSay}, gp).Build())
}

// SaySubmit posts a plain message.
// POST /dashboard/say/{guildID} with channel and message.
func (h *UIHandlers) SaySubmit(w http.ResponseWriter, r *http.Request) {
	gp, ok := h.authorizeGuild(w, r)
	if !ok {
		return
	}
	ch, err := h.Actions.SendPlainMessage(r.Context(), service.SendMessageInput{
		Principal:  gp.principal,
		GuildID:    gp.guild.ID,
		ChannelRef: r.PostFormValue("channel"),
		Text:       r.PostFormValue("message"),
	})
	if h.deniedMidAction(w, r, err) {
		return
	}

	b := guildData(r, PageMeta{Title: "Say", CurrentPage: PageSay}, gp)
	if err != nil {
		b.WithError(h.alertFor(r, err)).
			With("FormChannel", r.PostFormValue("channel")).
			With("FormMessage", r.PostFormValue("message"))
		h.render(w, r, statusFor(err), b.Build())
		return
	}
	h.render(w, r, http.StatusOK, b.WithSuccess(fmt.Sprintf(msgMessageSent, ch.Name)).Build())
}

// SendEmbed shows the decorated message form.
// GET /dashboard/sendembed/{guildID}.
func (h *UIHandlers) SendEmbed(w http.ResponseWriter, r *http.Request) {
	gp, ok := h.authorizeGuild(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, guildData(r, PageMeta{Title: "Send embed", CurrentPage: PageSendEmbed}, gp).Build())
}

// SendEmbedSubmit posts a decorated message.
// POST /dashboard/sendembed/{guildID} with channel, message and color.
func (h *UIHandlers) SendEmbedSubmit(w http.ResponseWriter, r *http.Request) {
	gp, ok := h.authorizeGuild(w, r)
	if !ok {
		return
	}
	ch, err := h.Actions.SendDecoratedMessage(r.Context(), service.SendEmbedInput{
		Principal:  gp.principal,
		GuildID:    gp.guild.ID,
		ChannelRef: r.PostFormValue("channel"),
		Text:       r.PostFormValue("message"),
		Color:      strings.TrimSpace(r.PostFormValue("color")),
	})
	if h.deniedMidAction(w, r, err) {
		return
	}

	b := guildData(r, PageMeta{Title: "Send embed", CurrentPage: PageSendEmbed}, gp)
	if err != nil {
		b.WithError(h.alertFor(r, err)).
			With("FormChannel", r.PostFormValue("channel")).
			With("FormMessage", r.PostFormValue("message")).
			With("FormColor", r.PostFormValue("color"))
		h.render(w, r, statusFor(err), b.Build())
		return
	}
	h.render(w, r, http.StatusOK, b.WithSuccess(fmt.Sprintf(msgEmbedSent, ch.Name)).Build())
}

// deniedMidAction redirects to /dashboard when the action's own guard check
// denied the request, which happens when permissions change between the page
// guard and the action.
func (h *UIHandlers) deniedMidAction(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, service.ErrDenied) {
		return false
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	return true
}
