package httpx_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/publicsuffix"

	"github.com/guildboard/guildboard/internal/adapters/devauth"
	redisadapter "github.com/guildboard/guildboard/internal/adapters/redis"
	"github.com/guildboard/guildboard/internal/domain/guild"
	apperrors "github.com/guildboard/guildboard/internal/errors"
	httpx "github.com/guildboard/guildboard/internal/http"
	"github.com/guildboard/guildboard/internal/service"
	"github.com/guildboard/guildboard/internal/testutil"
)

const (
	testGuildID = "g1"
	testUserID  = "100"
	modRoleID   = "r-mod"
)

type dashboardHarness struct {
	srv      *httptest.Server
	platform *testutil.FakePlatform
	jar      http.CookieJar
	// client follows redirects; direct stops at the first response.
	client *http.Client
	direct *http.Client
}

func newDashboardHarness(t *testing.T) *dashboardHarness {
	t.Helper()

	fp := testutil.NewFakePlatform()
	fp.PutGuild(guild.Guild{
		ID:      testGuildID,
		Name:    "Guild One",
		OwnerID: "999",
		Roles: []guild.Role{
			{ID: testGuildID, Name: "@everyone", Permissions: guild.PermissionSendMessages},
			{ID: modRoleID, Name: "mods", Permissions: guild.PermissionManageGuild},
		},
		Channels: []guild.Channel{
			{ID: "c-general", Name: "general", Kind: guild.ChannelKindText},
			{ID: "c-voice", Name: "lounge", Kind: guild.ChannelKindVoice},
		},
	})
	fp.PutMember(testGuildID, guild.Member{UserID: testUserID, Username: "tester"})

	mr := miniredis.RunT(t)
	sessions := redisadapter.NewSessionStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	listingStore := redisadapter.NewListingStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		redisadapter.ListingStoreOptions{CloseClient: true})
	t.Cleanup(func() { _ = listingStore.Close() })

	provider, err := devauth.NewProvider(devauth.Config{
		UserID:      testUserID,
		Username:    "tester",
		AccessToken: "token-100",
		Directory:   fp,
	})
	require.NoError(t, err)

	guard := service.NewGuard(fp)
	listings := service.NewListingService(service.ListingServiceOptions{
		Store: listingStore, Actions: fp, RelayChannelID: "relay",
	})
	actions := service.NewGuildActionService(service.GuildActionServiceOptions{
		Guard: guard, Directory: fp, Actions: fp, Listings: listings, UserGuilds: provider, Stats: fp,
	})

	// The router needs the server URL for Referer checks, so the handler is set after start.
	var handler http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	domain, err := url.Parse(srv.URL)
	require.NoError(t, err)
	auth := service.NewAuthService(service.AuthServiceOptions{Provider: provider, Sessions: sessions, Domain: domain})

	handler, err = httpx.NewRouter(httpx.RouterServices{
		Auth:          auth,
		Actions:       actions,
		BotInstallURL: "https://discord.example/oauth2/authorize?client_id=1",
		SupportURL:    "https://discord.example/invite/support",
	})
	require.NoError(t, err)

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	require.NoError(t, err)

	return &dashboardHarness{
		srv:      srv,
		platform: fp,
		jar:      jar,
		client:   &http.Client{Jar: jar},
		direct: &http.Client{Jar: jar, CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}},
	}
}

// login walks the dev OAuth round trip and returns the final page.
func (h *dashboardHarness) login(t *testing.T) {
	t.Helper()
	resp, err := h.client.Get(h.srv.URL + "/login")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (h *dashboardHarness) csrfToken(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(h.srv.URL)
	require.NoError(t, err)
	for _, c := range h.jar.Cookies(u) {
		if c.Name == httpx.DefaultCSRFCookieName {
			return c.Value
		}
	}
	t.Fatal("no csrf cookie in jar")
	return ""
}

func (h *dashboardHarness) post(t *testing.T, client *http.Client, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	form.Set("csrf_token", h.csrfToken(t))
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, h.srv.URL+path,
		strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (h *dashboardHarness) get(t *testing.T, client *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(h.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (h *dashboardHarness) promote() {
	h.platform.PutMember(testGuildID, guild.Member{UserID: testUserID, Username: "tester", RoleIDs: []string{modRoleID}})
}

func TestRouter_Healthz(t *testing.T) {
	h := newDashboardHarness(t)

	resp, body := h.get(t, h.direct, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "ok")
}

func TestRouter_InviteAndSupportRedirect(t *testing.T) {
	h := newDashboardHarness(t)

	resp, _ := h.get(t, h.direct, "/invite")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://discord.example/oauth2/authorize?client_id=1", resp.Header.Get("Location"))

	resp, _ = h.get(t, h.direct, "/support")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://discord.example/invite/support", resp.Header.Get("Location"))
}

func TestRouter_StatsIsPublic(t *testing.T) {
	h := newDashboardHarness(t)

	resp, body := h.get(t, h.direct, "/stats")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<dt>Servers</dt><dd>1</dd>")
	assert.Contains(t, body, "<dt>Members</dt><dd>1</dd>")
	assert.Contains(t, body, "<dt>Published servers</dt><dd>0</dd>")

	h.platform.FailOn(testutil.OpBotStats, apperrors.Unavailable("Discord is unavailable"))
	resp, body = h.get(t, h.direct, "/stats")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "Discord is unavailable")
}

func TestRouter_HowToListsCommands(t *testing.T) {
	h := newDashboardHarness(t)

	resp, body := h.get(t, h.direct, "/howto")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<code>.setup-list</code>")
	assert.Contains(t, body, "<code>.remove-list</code>")
	assert.Contains(t, body, "Manage Server")
}

func TestRouter_ProtectedPageBouncesThroughLogin(t *testing.T) {
	h := newDashboardHarness(t)
	h.promote()

	resp, _ := h.get(t, h.direct, "/dashboard/say/"+testGuildID)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	// Following the whole chain lands back on the page first asked for.
	resp, body := h.get(t, h.client, "/dashboard/say/"+testGuildID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/dashboard/say/"+testGuildID, resp.Request.URL.Path)
	assert.Contains(t, body, "general")
	assert.NotContains(t, body, "lounge", "voice channels are not offered")
}

func TestRouter_APIClientGetsUnauthorized(t *testing.T) {
	h := newDashboardHarness(t)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, h.srv.URL+"/dashboard", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	resp, err := h.direct.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_CallbackErrorGoesHome(t *testing.T) {
	h := newDashboardHarness(t)

	resp, _ := h.get(t, h.direct, "/callback?error=access_denied")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestRouter_SayDeniedForNonManager(t *testing.T) {
	h := newDashboardHarness(t)
	h.login(t)

	resp, _ := h.post(t, h.direct, "/dashboard/say/"+testGuildID, url.Values{
		"channel": {"general"},
		"message": {"hi"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	assert.Empty(t, h.platform.Sent())
}

func TestRouter_SaySendsToNamedChannel(t *testing.T) {
	h := newDashboardHarness(t)
	h.login(t)
	h.promote()

	resp, body := h.post(t, h.direct, "/dashboard/say/"+testGuildID, url.Values{
		"channel": {"general"},
		"message": {"hi"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Message sent to #general")
	assert.Equal(t, []testutil.SentMessage{{Target: "c-general", Text: "hi"}}, h.platform.Sent())
}

func TestRouter_SayInvalidChannelKeepsForm(t *testing.T) {
	h := newDashboardHarness(t)
	h.login(t)
	h.promote()

	resp, body := h.post(t, h.direct, "/dashboard/say/"+testGuildID, url.Values{
		"channel": {"lounge"},
		"message": {"draft text"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Invalid channel")
	assert.Contains(t, body, "draft text")
	assert.Empty(t, h.platform.Sent())
}

func TestRouter_SayTimeoutShowsAlert(t *testing.T) {
	h := newDashboardHarness(t)
	h.login(t)
	h.promote()
	h.platform.FailOn(testutil.OpSendMessage, apperrors.MapRemoteError(context.DeadlineExceeded, 0))

	resp, body := h.post(t, h.direct, "/dashboard/say/"+testGuildID, url.Values{
		"channel": {"general"},
		"message": {"hi"},
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "Request timed out")
	assert.Empty(t, h.platform.Sent())
}

func TestRouter_UnknownGuildBouncesToDashboard(t *testing.T) {
	h := newDashboardHarness(t)
	h.login(t)
	h.platform.FailOn(testutil.OpLookupGuild, apperrors.NotFound("Unknown guild"))

	for _, path := range []string{"/dashboard/", "/dashboard/say/", "/dashboard/sendembed/"} {
		resp, _ := h.get(t, h.direct, path+"123456789012345678")
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/dashboard", resp.Header.Get("Location"), path)
	}
}

func TestRouter_DeniedAfterRoleRemoved(t *testing.T) {
	h := newDashboardHarness(t)
	h.login(t)
	h.promote()

	resp, _ := h.get(t, h.direct, "/dashboard/say/"+testGuildID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Permissions are re-read on every request.
	h.platform.PutMember(testGuildID, guild.Member{UserID: testUserID, Username: "tester"})
	resp, _ = h.post(t, h.direct, "/dashboard/say/"+testGuildID, url.Values{
		"channel": {"general"},
		"message": {"hi"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Empty(t, h.platform.Sent())
}

func TestRouter_PostWithoutCSRFTokenRejected(t *testing.T) {
	h := newDashboardHarness(t)
	h.login(t)
	h.promote()

	form := url.Values{"channel": {"general"}, "message": {"hi"}}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost,
		h.srv.URL+"/dashboard/say/"+testGuildID, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := h.direct.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, h.platform.Sent())
}

func TestRouter_PublishShowsOnServersList(t *testing.T) {
	h := newDashboardHarness(t)
	h.login(t)
	h.promote()

	resp, body := h.post(t, h.direct, "/dashboard/"+testGuildID, url.Values{
		"action":  {"register"},
		"channel": {"general"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "now visible in the public servers list")
	assert.Len(t, h.platform.LiveInvites(), 1)

	_, body = h.get(t, h.direct, "/serverslist")
	assert.Contains(t, body, "Guild One")

	// A second publish is a conflict and leaves the existing invite alone.
	resp, _ = h.post(t, h.direct, "/dashboard/"+testGuildID, url.Values{
		"action":  {"register"},
		"channel": {"general"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Len(t, h.platform.LiveInvites(), 1)

	resp, body = h.post(t, h.direct, "/dashboard/"+testGuildID, url.Values{"action": {"deregister"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Removed this server")
	assert.Empty(t, h.platform.LiveInvites())
}

func TestRouter_ReportRelaysToStaff(t *testing.T) {
	h := newDashboardHarness(t)
	h.login(t)
	h.promote()

	_, _ = h.post(t, h.direct, "/dashboard/"+testGuildID, url.Values{
		"action":  {"register"},
		"channel": {"general"},
	})

	resp, body := h.post(t, h.direct, "/report/"+testGuildID, url.Values{"message": {"spam links"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Your report was sent")

	embeds := h.platform.Embeds()
	require.Len(t, embeds, 1)
	assert.Equal(t, "relay", embeds[0].ChannelID)
	assert.Contains(t, embeds[0].Embed.Fields, guild.EmbedField{Name: "Report", Value: "spam links"})
}

func TestRouter_AutoJoinReturnsToList(t *testing.T) {
	h := newDashboardHarness(t)
	h.login(t)

	resp, _ := h.get(t, h.direct, "/autojoin/"+testGuildID)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/serverslist", resp.Header.Get("Location"))
}

func TestRouter_LogoutEndsSession(t *testing.T) {
	h := newDashboardHarness(t)
	h.login(t)

	resp, _ := h.get(t, h.direct, "/logout")
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	resp, _ = h.get(t, h.direct, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}
