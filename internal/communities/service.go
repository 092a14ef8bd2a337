package communities

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/community-backend/internal/memberships"
	"github.com/learnloop/community-backend/pkg/db"
	"github.com/learnloop/community-backend/pkg/db/models"
	"github.com/learnloop/community-backend/pkg/enums"
	pkgerrors "github.com/learnloop/community-backend/pkg/errors"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type accessPolicy interface {
	RequireMember(ctx context.Context, userID, communityID uuid.UUID) (*models.CommunityMember, error)
}

// Service exposes community CRUD plus the join flow.
type Service interface {
	Create(ctx context.Context, actingUserID uuid.UUID, input CreateCommunityInput) (*CommunityDTO, error)
	List(ctx context.Context, actingUserID uuid.UUID) ([]CommunityOverviewDTO, error)
	Get(ctx context.Context, actingUserID, communityID uuid.UUID) (*CommunityOverviewDTO, error)
	Join(ctx context.Context, actingUserID, communityID uuid.UUID) (*memberships.MembershipDTO, error)
}

// ServiceParams packages the community service dependencies.
type ServiceParams struct {
	Repo    *Repository
	Members *memberships.Repository
	Access  accessPolicy
	TX      txRunner
	Now     func() time.Time
}

type service struct {
	repo    *Repository
	members *memberships.Repository
	access  accessPolicy
	tx      txRunner
	now     func() time.Time
}

// NewService builds a communities service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("communities repository required")
	}
	if params.Members == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	if params.Access == nil {
		return nil, fmt.Errorf("access policy required")
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
		access:  params.Access,
		tx:      params.TX,
		now:     now,
	}, nil
}

// Create validates the input and writes the community and its creator's
// admin membership in one transaction.
func (s *service) Create(ctx context.Context, actingUserID uuid.UUID, input CreateCommunityInput) (*CommunityDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "community name is required").
			WithDetails(map[string]any{"field": "name"})
	}
	if len(name) > maxNameLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "community name too long").
			WithDetails(map[string]any{"field": "name", "max_length": maxNameLength})
	}
	description := input.Description
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if trimmed == "" {
			description = nil
		} else {
			if len(trimmed) > maxDescriptionLength {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "community description too long").
					WithDetails(map[string]any{"field": "description", "max_length": maxDescriptionLength})
			}
			description = &trimmed
		}
	}

	community := &models.Community{
		Name:        name,
		Description: description,
		IsPrivate:   input.IsPrivate,
		IsActive:    true,
		CreatedBy:   actingUserID,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, community); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create community")
		}
		if _, err := s.members.WithTx(tx).Create(ctx, community.ID, actingUserID, enums.MemberRoleAdmin); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin membership")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToDTO(community), nil
}

// List returns the active communities with stats relative to the caller.
func (s *service) List(ctx context.Context, actingUserID uuid.UUID) ([]CommunityOverviewDTO, error) {
	overviews, err := s.repo.ListOverviews(ctx, actingUserID, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list communities")
	}
	return overviews, nil
}

// Get returns the community detail. Members only.
func (s *service) Get(ctx context.Context, actingUserID, communityID uuid.UUID) (*CommunityOverviewDTO, error) {
	if _, err := s.access.RequireMember(ctx, actingUserID, communityID); err != nil {
		return nil, err
	}
	overview, err := s.repo.GetOverview(ctx, communityID, actingUserID, s.now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "community not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load community")
	}
	return overview, nil
}

// Join adds the caller as a plain member. Public active communities only;
// private ones are invite-only and inactive ones take no new members. The
// unique index turns a concurrent double-join into a conflict.
func (s *service) Join(ctx context.Context, actingUserID, communityID uuid.UUID) (*memberships.MembershipDTO, error) {
	community, err := s.repo.FindByID(ctx, communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "community not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load community")
	}
	if community.IsPrivate {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "community is invite-only")
	}
	if !community.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "community is not accepting new members")
	}

	membership, err := s.members.Create(ctx, communityID, actingUserID, enums.MemberRoleMember)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_community_members_pair") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "already a member")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
	}
	return memberships.ToDTO(membership), nil
}
