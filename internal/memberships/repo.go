package memberships

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/community-backend/pkg/db/models"
	"github.com/learnloop/community-backend/pkg/enums"
)

// roleRankExpr orders members admin first, then moderators, then members.
// Written as a CASE so it evaluates the same on postgres and sqlite.
const roleRankExpr = "CASE community_members.role WHEN 'admin' THEN 0 WHEN 'moderator' THEN 1 ELSE 2 END"

// Repository exposes membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Get retrieves a membership by community and user.
func (r *Repository) Get(ctx context.Context, communityID, userID uuid.UUID) (*models.CommunityMember, error) {
	var membership models.CommunityMember
	err := r.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// Create persists a new membership record. The composite unique index on
// (community_id, user_id) is the backstop for concurrent joins; callers
// inspect the returned error with db.IsUniqueViolation.
func (r *Repository) Create(ctx context.Context, communityID, userID uuid.UUID, role enums.MemberRole) (*models.CommunityMember, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid member role %q", role)
	}

	membership := &models.CommunityMember{
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
	}

	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// ChangeRole updates a member's role and reports whether a row matched.
func (r *Repository) ChangeRole(ctx context.Context, communityID, userID uuid.UUID, role enums.MemberRole) (bool, error) {
	if !role.IsValid() {
		return false, fmt.Errorf("invalid member role %q", role)
	}

	result := r.db.WithContext(ctx).
		Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Update("role", role)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Remove deletes a membership and reports whether a row matched.
func (r *Repository) Remove(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&models.CommunityMember{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByCommunity returns the community roster joined with user profiles,
// privileged roles first and earliest joiners before later ones within a role.
func (r *Repository) ListByCommunity(ctx context.Context, communityID uuid.UUID) ([]MemberDTO, error) {
	var rows []memberRow
	err := r.db.WithContext(ctx).
		Model(&models.CommunityMember{}).
		Select("community_members.*, users.display_name, users.avatar_url").
		Joins("JOIN users ON users.id = community_members.user_id").
		Where("community_members.community_id = ?", communityID).
		Order(roleRankExpr + ", community_members.joined_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return memberRowsToDTO(rows), nil
}

// CountByCommunity returns the number of members in the community.
func (r *Repository) CountByCommunity(ctx context.Context, communityID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommunityMember{}).
		Where("community_id = ?", communityID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListForUser returns all memberships held by the user.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CommunityMember, error) {
	var rows []models.CommunityMember
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
