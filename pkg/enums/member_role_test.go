package enums

import "testing"

func TestMemberRoleRankOrdersElevatedRolesFirst(t *testing.T) {
	if !(MemberRoleAdmin.Rank() < MemberRoleModerator.Rank()) {
		t.Fatal("admin should rank above moderator")
	}
	if !(MemberRoleModerator.Rank() < MemberRoleMember.Rank()) {
		t.Fatal("moderator should rank above member")
	}
	if MemberRole("ghost").Rank() <= MemberRoleMember.Rank() {
		t.Fatal("unknown roles should sort last")
	}
}

func TestParseMemberRole(t *testing.T) {
	role, err := ParseMemberRole("moderator")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if role != MemberRoleModerator {
		t.Fatalf("unexpected role %s", role)
	}
	if _, err := ParseMemberRole("owner"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestCanManageMembers(t *testing.T) {
	if !MemberRoleAdmin.CanManageMembers() || !MemberRoleModerator.CanManageMembers() {
		t.Fatal("elevated roles must manage members")
	}
	if MemberRoleMember.CanManageMembers() {
		t.Fatal("member role must not manage members")
	}
}
