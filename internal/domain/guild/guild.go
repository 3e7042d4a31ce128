// Package guild models the remote guild state the authorization guard reads:
// guilds, members, roles, channels and permission bits. Everything here is a
// snapshot fetched on demand; nothing in this package is cached or authoritative.
package guild

// Role is a named permission grant inside a guild.
type Role struct {
	ID          string
	Name        string
	Permissions Permission
}

// Guild is a snapshot of a remote guild.
type Guild struct {
	ID       string
	Name     string
	Icon     string
	OwnerID  string
	Roles    []Role
	Channels []Channel
}

// Member is a user's membership record within one guild.
type Member struct {
	UserID   string
	Username string
	Bot      bool
	RoleIDs  []string
}

// User is a platform account, independent of any guild.
type User struct {
	ID       string
	Username string
	Bot      bool
}

// role returns the role with the given id.
func (g *Guild) role(id string) (Role, bool) {
	for _, r := range g.Roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// MemberPermissions computes the guild-level permission bits of a member.
// The owner holds every permission. Otherwise the @everyone role (whose id equals
// the guild id) is combined with each of the member's roles, and Administrator
// expands to every permission.
func MemberPermissions(g *Guild, m *Member) Permission {
	if g == nil || m == nil {
		return 0
	}
	if g.OwnerID != "" && m.UserID == g.OwnerID {
		return PermissionAll
	}

	var perms Permission
	if everyone, ok := g.role(g.ID); ok {
		perms |= everyone.Permissions
	}
	for _, id := range m.RoleIDs {
		if r, ok := g.role(id); ok {
			perms |= r.Permissions
		}
	}
	if perms.Has(PermissionAdministrator) {
		return PermissionAll
	}
	return perms
}

// Summary is a guild as listed for a user by the identity provider, with the
// user's permission bits in that guild. It is used for display only; actions
// always re-check through Evaluate.
type Summary struct {
	ID          string
	Name        string
	Icon        string
	Owner       bool
	Permissions Permission
	BotPresent  bool
}

// Manageable reports whether the listed permissions include manage-guild.
func (s Summary) Manageable() bool {
	return s.Owner || CanManage(s.Permissions) || s.Permissions.Has(PermissionAdministrator)
}

// BotStats summarizes the bot account's reach.
type BotStats struct {
	Guilds int
	// Members is Discord's approximate member count summed over every guild.
	Members int
}
