package httpx

// Page identifiers used in templates and navigation.
const (
	PageHome        = "home"
	PageDashboard   = "dashboard"
	PageSettings    = "settings"
	PageSay         = "say"
	PageSendEmbed   = "sendembed"
	PageReport      = "report"
	PageServersList = "serverslist"
	PageStats       = "stats"
	PageHowTo       = "howto"
	PageError       = "error"
)

// contentTemplates maps a page to the template that renders its main section.
//
//nolint:gochecknoglobals // static read-only lookup
var contentTemplates = map[string]string{
	PageHome:        "home-content",
	PageDashboard:   "dashboard-content",
	PageSettings:    "settings-content",
	PageSay:         "say-content",
	PageSendEmbed:   "sendembed-content",
	PageReport:      "report-content",
	PageServersList: "serverslist-content",
	PageStats:       "stats-content",
	PageHowTo:       "howto-content",
	PageError:       "error-content",
}

// ContentTemplateFor returns the content template for a page, falling back to the home page.
func ContentTemplateFor(page string) string {
	if name, ok := contentTemplates[page]; ok {
		return name
	}
	return "home-content"
}

// Alert texts shown after a successful action.
const (
	msgMessageSent  = "Message sent to #%s"
	msgEmbedSent    = "Embed sent to #%s"
	msgPublished    = "Done! Your server is now visible in the public servers list."
	msgUnpublished  = "Done! Removed this server from the servers list."
	msgReportSent   = "Thanks! Your report was sent to the staff."
	msgUnexpected   = "Something went wrong, try again."
	msgUnknownForm  = "Unknown action"
	msgGuildsFailed = "Could not load your servers, try again."
)
