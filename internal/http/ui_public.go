package httpx

import (
	"net/http"

	"github.com/guildboard/guildboard/internal/service"
)

// Home renders the landing page.
// GET /.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, NewTemplateData(r, PageMeta{Title: "Guildboard", CurrentPage: PageHome}).Build())
}

// ServersList shows every published guild.
// GET /serverslist.
func (h *UIHandlers) ServersList(w http.ResponseWriter, r *http.Request) {
	h.renderServersList(w, r, http.StatusOK, "")
}

func (h *UIHandlers) renderServersList(w http.ResponseWriter, r *http.Request, status int, alert string) {
	b := NewTemplateData(r, PageMeta{Title: "Servers list", CurrentPage: PageServersList}).WithError(alert)
	listings, err := h.Actions.PublicListings(r.Context())
	if err != nil {
		b.WithError(h.alertFor(r, err))
		status = statusFor(err)
	}
	h.render(w, r, status, b.With("Listings", listings).Build())
}

// Stats shows how many guilds the bot serves and how many are listed.
// GET /stats.
func (h *UIHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	b := NewTemplateData(r, PageMeta{Title: "Stats", CurrentPage: PageStats})
	stats, err := h.Actions.Stats(r.Context())
	if err != nil {
		h.render(w, r, statusFor(err), b.WithError(h.alertFor(r, err)).Build())
		return
	}
	h.render(w, r, http.StatusOK, b.With("Stats", stats).Build())
}

// HowTo documents the chat commands.
// GET /howto.
func (h *UIHandlers) HowTo(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "How to", CurrentPage: PageHowTo}).
		With("Prefix", h.CommandPrefix).
		Build()
	h.render(w, r, http.StatusOK, data)
}

// AutoJoin adds the user to a listed guild with their own access token. Joining
// and already being a member look the same to the user.
// GET /autojoin/{guildID}.
func (h *UIHandlers) AutoJoin(w http.ResponseWriter, r *http.Request) {
	err := h.Actions.AutoAdmit(r.Context(), r.PathValue("guildID"), PrincipalFromContext(r.Context()))
	if err != nil {
		h.renderServersList(w, r, statusFor(err), h.alertFor(r, err))
		return
	}
	http.Redirect(w, r, "/serverslist", http.StatusSeeOther)
}

// Report shows the abuse report form.
// GET /report/{guildID}.
func (h *UIHandlers) Report(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "Report", CurrentPage: PageReport}).
		With("GuildID", r.PathValue("guildID")).
		Build()
	h.render(w, r, http.StatusOK, data)
}

// ReportSubmit relays an abuse report to the operators.
// POST /report/{guildID} with message.
func (h *UIHandlers) ReportSubmit(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildID")
	p := PrincipalFromContext(r.Context())
	if p == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	err := h.Actions.SubmitReport(r.Context(), service.SubmitReportInput{
		GuildID:    guildID,
		ReporterID: p.UserID,
		Text:       r.PostFormValue("message"),
	})

	b := NewTemplateData(r, PageMeta{Title: "Report", CurrentPage: PageReport}).With("GuildID", guildID)
	if err != nil {
		b.WithError(h.alertFor(r, err)).With("FormMessage", r.PostFormValue("message"))
		h.render(w, r, statusFor(err), b.Build())
		return
	}
	h.render(w, r, http.StatusOK, b.WithSuccess(msgReportSent).Build())
}

// Invite redirects to the bot install URL.
// GET /invite.
func (h *UIHandlers) Invite(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.BotInstallURL, http.StatusFound)
}

// Support redirects to the support server.
// GET /support.
func (h *UIHandlers) Support(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.SupportURL, http.StatusFound)
}
