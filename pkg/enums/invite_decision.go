package enums

import "fmt"

// InviteDecision is the action an invitee takes on a pending invite.
type InviteDecision string

const (
	InviteDecisionAccept InviteDecision = "accept"
	InviteDecisionReject InviteDecision = "reject"
)

// IsValid reports whether the value is a known InviteDecision.
func (d InviteDecision) IsValid() bool {
	return d == InviteDecisionAccept || d == InviteDecisionReject
}

// ParseInviteDecision converts raw input into an InviteDecision.
func ParseInviteDecision(value string) (InviteDecision, error) {
	switch InviteDecision(value) {
	case InviteDecisionAccept:
		return InviteDecisionAccept, nil
	case InviteDecisionReject:
		return InviteDecisionReject, nil
	}
	return "", fmt.Errorf("invalid invite decision %q", value)
}
