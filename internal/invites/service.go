package invites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/community-backend/internal/memberships"
	"github.com/learnloop/community-backend/pkg/db"
	"github.com/learnloop/community-backend/pkg/db/models"
	"github.com/learnloop/community-backend/pkg/enums"
	pkgerrors "github.com/learnloop/community-backend/pkg/errors"
)

// InviteTTL is how long an invite stays actionable after creation.
const InviteTTL = 7 * 24 * time.Hour

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service exposes the invite lifecycle.
type Service interface {
	Create(ctx context.Context, inviterID, communityID, inviteeID uuid.UUID) (*InviteDTO, error)
	Resolve(ctx context.Context, inviteID, actingUserID uuid.UUID, decision enums.InviteDecision) (*InviteDTO, error)
	Delete(ctx context.Context, inviteID, actingUserID uuid.UUID) error
	ListPendingForUser(ctx context.Context, userID uuid.UUID) ([]InviteWithCommunityDTO, error)
}

// ServiceParams packages the invite service dependencies.
type ServiceParams struct {
	Repo    *Repository
	Members *memberships.Repository
	Users   userFinder
	TX      txRunner
	Now     func() time.Time
}

type service struct {
	repo    *Repository
	members *memberships.Repository
	users   userFinder
	tx      txRunner
	now     func() time.Time
}

// NewService builds an invites service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("invites repository required")
	}
	if params.Members == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.TX == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    params.Repo,
		members: params.Members,
		users:   params.Users,
		tx:      params.TX,
		now:     now,
	}, nil
}

// Create issues an invite from a community member to another user. Only one
// live pending invite may exist per (community, invitee) pair at a time.
func (s *service) Create(ctx context.Context, inviterID, communityID, inviteeID uuid.UUID) (*InviteDTO, error) {
	if inviterID == inviteeID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot invite yourself").
			WithDetails(map[string]any{"field": "invitee_id"})
	}

	if _, err := s.members.Get(ctx, communityID, inviterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only members can invite")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inviter membership")
	}

	invitee, err := s.users.FindByID(ctx, inviteeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invitee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invitee")
	}
	if !invitee.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invitee account is inactive")
	}

	if _, err := s.members.Get(ctx, communityID, inviteeID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a member")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invitee membership")
	}

	now := s.now().UTC()
	if _, err := s.repo.FindLivePending(ctx, communityID, inviteeID, now); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an invite is already pending for this user")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending invite")
	}

	invite := &models.CommunityInvite{
		CommunityID: communityID,
		InviterID:   inviterID,
		InviteeID:   inviteeID,
		Status:      enums.InviteStatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(InviteTTL),
	}
	if err := s.repo.Create(ctx, invite); err != nil {
		if db.IsUniqueViolation(err, "uq_community_invites_live_pending") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an invite is already pending for this user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invite")
	}
	return ToDTO(invite), nil
}

// Resolve lets the invitee accept or reject a pending invite. Expired
// invites fail without any status mutation; acceptance writes the status
// change and the membership row in a single transaction so a membership
// conflict rolls both back.
func (s *service) Resolve(ctx context.Context, inviteID, actingUserID uuid.UUID, decision enums.InviteDecision) (*InviteDTO, error) {
	if !decision.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid decision %q", decision)).
			WithDetails(map[string]any{"field": "decision"})
	}

	invite, err := s.repo.FindByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invite")
	}
	if invite.InviteeID != actingUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the invitee can resolve an invite")
	}
	if invite.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "invite already resolved")
	}
	if !invite.ExpiresAt.After(s.now().UTC()) {
		return nil, pkgerrors.New(pkgerrors.CodeGone, "invite expired").
			WithDetails(map[string]any{"expired_at": invite.ExpiresAt})
	}

	if decision == enums.InviteDecisionReject {
		matched, err := s.repo.UpdateStatusIfPending(ctx, invite.ID, enums.InviteStatusRejected)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject invite")
		}
		if !matched {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "invite already resolved")
		}
		invite.Status = enums.InviteStatusRejected
		return ToDTO(invite), nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		matched, err := s.repo.WithTx(tx).UpdateStatusIfPending(ctx, invite.ID, enums.InviteStatusAccepted)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept invite")
		}
		if !matched {
			return pkgerrors.New(pkgerrors.CodeConflict, "invite already resolved")
		}
		if _, err := s.members.WithTx(tx).Create(ctx, invite.CommunityID, invite.InviteeID, enums.MemberRoleMember); err != nil {
			if db.IsUniqueViolation(err, "uq_community_members_pair") {
				return pkgerrors.New(pkgerrors.CodeConflict, "user is already a member")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	invite.Status = enums.InviteStatusAccepted
	return ToDTO(invite), nil
}

// Delete removes an invite. Only the invitee may do this; any status is
// deletable.
func (s *service) Delete(ctx context.Context, inviteID, actingUserID uuid.UUID) error {
	invite, err := s.repo.FindByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invite")
	}
	if invite.InviteeID != actingUserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the invitee can delete an invite")
	}
	if _, err := s.repo.Delete(ctx, invite.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete invite")
	}
	return nil
}

// ListPendingForUser returns the caller's live pending invites, newest first.
func (s *service) ListPendingForUser(ctx context.Context, userID uuid.UUID) ([]InviteWithCommunityDTO, error) {
	pending, err := s.repo.ListPendingForUser(ctx, userID, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending invites")
	}
	return pending, nil
}
