package enums

import "fmt"

// MemberRole represents a community-level permissions role.
type MemberRole string

const (
	MemberRoleAdmin     MemberRole = "admin"
	MemberRoleModerator MemberRole = "moderator"
	MemberRoleMember    MemberRole = "member"
)

var validMemberRoles = []MemberRole{
	MemberRoleAdmin,
	MemberRoleModerator,
	MemberRoleMember,
}

// String implements fmt.Stringer.
func (m MemberRole) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberRole.
func (m MemberRole) IsValid() bool {
	for _, candidate := range validMemberRoles {
		if candidate == m {
			return true
		}
	}
	return false
}

// Rank orders roles by privilege, most privileged first. Unknown roles sort last.
func (m MemberRole) Rank() int {
	switch m {
	case MemberRoleAdmin:
		return 0
	case MemberRoleModerator:
		return 1
	case MemberRoleMember:
		return 2
	}
	return 3
}

// CanManageMembers reports whether the role may change or remove other members.
func (m MemberRole) CanManageMembers() bool {
	return m == MemberRoleAdmin || m == MemberRoleModerator
}

// ParseMemberRole converts raw input into a MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	for _, candidate := range validMemberRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member role %q", value)
}
