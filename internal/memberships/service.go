package memberships

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/community-backend/pkg/db/models"
	"github.com/learnloop/community-backend/pkg/enums"
	pkgerrors "github.com/learnloop/community-backend/pkg/errors"
)

type membershipRepository interface {
	Get(ctx context.Context, communityID, userID uuid.UUID) (*models.CommunityMember, error)
	ChangeRole(ctx context.Context, communityID, userID uuid.UUID, role enums.MemberRole) (bool, error)
	Remove(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
	ListByCommunity(ctx context.Context, communityID uuid.UUID) ([]MemberDTO, error)
}

// Service exposes the membership roster plus the access-policy checks the
// other community services lean on.
type Service interface {
	RequireMember(ctx context.Context, userID, communityID uuid.UUID) (*models.CommunityMember, error)
	RequireManager(ctx context.Context, userID, communityID uuid.UUID) (*models.CommunityMember, error)
	ListMembers(ctx context.Context, actingUserID, communityID uuid.UUID) ([]MemberDTO, error)
	ChangeRole(ctx context.Context, actingUserID, communityID, targetUserID uuid.UUID, role enums.MemberRole) error
	Remove(ctx context.Context, actingUserID, communityID, targetUserID uuid.UUID) error
}

type service struct {
	repo membershipRepository
}

// NewService builds a memberships service.
func NewService(repo membershipRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	return &service{repo: repo}, nil
}

// RequireMember loads the caller's membership or fails with an
// authorization error. Non-members are told nothing about the roster.
func (s *service) RequireMember(ctx context.Context, userID, communityID uuid.UUID) (*models.CommunityMember, error) {
	membership, err := s.repo.Get(ctx, communityID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this community")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	return membership, nil
}

// RequireManager is RequireMember plus a role check: only admins and
// moderators pass.
func (s *service) RequireManager(ctx context.Context, userID, communityID uuid.UUID) (*models.CommunityMember, error) {
	membership, err := s.RequireMember(ctx, userID, communityID)
	if err != nil {
		return nil, err
	}
	if !membership.Role.CanManageMembers() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "requires admin or moderator role")
	}
	return membership, nil
}

// ListMembers returns the roster, visible to members only.
func (s *service) ListMembers(ctx context.Context, actingUserID, communityID uuid.UUID) ([]MemberDTO, error) {
	if _, err := s.RequireMember(ctx, actingUserID, communityID); err != nil {
		return nil, err
	}
	members, err := s.repo.ListByCommunity(ctx, communityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}
	return members, nil
}

// ChangeRole sets the target member's role. The caller needs a manager role;
// moderators may alter admins, mirroring how the membership model treats the
// two manager roles as peers for roster edits.
func (s *service) ChangeRole(ctx context.Context, actingUserID, communityID, targetUserID uuid.UUID, role enums.MemberRole) error {
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", role)).
			WithDetails(map[string]any{"field": "role"})
	}
	if _, err := s.RequireManager(ctx, actingUserID, communityID); err != nil {
		return err
	}

	matched, err := s.repo.ChangeRole(ctx, communityID, targetUserID, role)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "change role")
	}
	if !matched {
		return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
	}
	return nil
}

// Remove deletes the target's membership. Members may remove themselves
// (leaving); removing anyone else needs a manager role.
func (s *service) Remove(ctx context.Context, actingUserID, communityID, targetUserID uuid.UUID) error {
	if actingUserID == targetUserID {
		if _, err := s.RequireMember(ctx, actingUserID, communityID); err != nil {
			return err
		}
	} else {
		if _, err := s.RequireManager(ctx, actingUserID, communityID); err != nil {
			return err
		}
	}

	matched, err := s.repo.Remove(ctx, communityID, targetUserID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove member")
	}
	if !matched {
		return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
	}
	return nil
}
