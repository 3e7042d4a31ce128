package devauth

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/guildboard/guildboard/internal/domain/guild"
	"github.com/guildboard/guildboard/internal/ports"
	"github.com/guildboard/guildboard/internal/testutil"
)

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{UserID: "100", Username: "dev-admin", AccessToken: "tok"})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	authURL, err := prov.Begin(context.Background(), ports.BeginInput{State: "abc"})
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}
	if !strings.HasPrefix(authURL, "/callback?") {
		t.Fatalf("unexpected authURL: %s", authURL)
	}
	u, _ := url.Parse(authURL)
	if u.Query().Get("state") != "abc" {
		t.Fatalf("state not propagated: %s", authURL)
	}
	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev"})
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if id.UserID != "100" || id.Username != "dev-admin" || id.AccessToken != "tok" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestNewProvider_RequiresIdentity(t *testing.T) {
	if _, err := NewProvider(Config{Username: "x"}); err == nil {
		t.Fatal("expected error for missing UserID")
	}
	if _, err := NewProvider(Config{UserID: "1"}); err == nil {
		t.Fatal("expected error for missing Username")
	}
}

func TestProvider_UserGuildsFromDirectory(t *testing.T) {
	fp := testutil.NewFakePlatform()
	fp.PutGuild(guild.Guild{ID: "g1", Name: "Owned", OwnerID: "100"})
	fp.PutMember("g1", guild.Member{UserID: "100", Username: "dev-admin"})
	fp.PutGuild(guild.Guild{ID: "g2", Name: "Visiting", OwnerID: "7"})
	fp.PutMember("g2", guild.Member{UserID: "100", Username: "dev-admin"})
	fp.PutGuild(guild.Guild{ID: "g3", Name: "Stranger", OwnerID: "7"})

	prov, err := NewProvider(Config{UserID: "100", Username: "dev-admin", Directory: fp})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	got, err := prov.UserGuilds(context.Background(), "")
	if err != nil {
		t.Fatalf("UserGuilds error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 guilds, got %+v", got)
	}
	if got[0].ID != "g1" || !got[0].Manageable() {
		t.Errorf("owned guild should be manageable: %+v", got[0])
	}
	if got[1].ID != "g2" || got[1].Manageable() {
		t.Errorf("visited guild should not be manageable: %+v", got[1])
	}
}
