package guild

// Permission is a bit set using the platform's permission layout.
type Permission int64

const (
	PermissionCreateInstantInvite Permission = 1 << 0
	PermissionKickMembers         Permission = 1 << 1
	PermissionBanMembers          Permission = 1 << 2
	PermissionAdministrator       Permission = 1 << 3
	PermissionManageChannels      Permission = 1 << 4
	PermissionManageGuild         Permission = 1 << 5
	PermissionViewChannel         Permission = 1 << 10
	PermissionSendMessages        Permission = 1 << 11
	PermissionEmbedLinks          Permission = 1 << 14

	// PermissionAll is every bit set.
	PermissionAll Permission = 1<<63 - 1
)

// Has reports whether every bit of want is set.
func (p Permission) Has(want Permission) bool { return p&want == want }

// CanManage is the manage-guild predicate. It is the only authorization
// primitive: both the web dashboard and the chat commands go through it.
func CanManage(p Permission) bool { return p.Has(PermissionManageGuild) }

// DenyReason explains why an authorization check failed.
type DenyReason string

const (
	ReasonNoSuchGuild            DenyReason = "no such guild"
	ReasonNotMember              DenyReason = "not a member"
	ReasonInsufficientPermission DenyReason = "insufficient permission"
)

// Verdict is the outcome of an authorization check. A granted verdict carries the
// guild and member it was computed from.
type Verdict struct {
	Granted bool
	Reason  DenyReason
	Guild   *Guild
	Member  *Member
}

// Evaluate decides whether member m may manage guild g. A nil guild means the
// guild could not be found and a nil member means the user is not in it.
func Evaluate(g *Guild, m *Member) Verdict {
	switch {
	case g == nil:
		return Verdict{Reason: ReasonNoSuchGuild}
	case m == nil:
		return Verdict{Reason: ReasonNotMember, Guild: g}
	case !CanManage(MemberPermissions(g, m)):
		return Verdict{Reason: ReasonInsufficientPermission, Guild: g, Member: m}
	default:
		return Verdict{Granted: true, Guild: g, Member: m}
	}
}
