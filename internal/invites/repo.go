package invites

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/community-backend/pkg/db/models"
	"github.com/learnloop/community-backend/pkg/enums"
)

// Repository exposes invite persistence operations.
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

// Create persists a new invite row. The partial unique index on live pending
// invites is the race backstop; callers inspect the returned error with
// db.IsUniqueViolation.
func (r *Repository) Create(ctx context.Context, invite *models.CommunityInvite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

// FindByID loads an invite regardless of status or expiry.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CommunityInvite, error) {
	var invite models.CommunityInvite
	if err := r.db.WithContext(ctx).First(&invite, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// FindLivePending returns the pending, unexpired invite for the invitee in
// the community, or gorm.ErrRecordNotFound.
func (r *Repository) FindLivePending(ctx context.Context, communityID, inviteeID uuid.UUID, now time.Time) (*models.CommunityInvite, error) {
	var invite models.CommunityInvite
	err := r.db.WithContext(ctx).
		Where("community_id = ? AND invitee_id = ? AND status = ? AND expires_at > ?",
			communityID, inviteeID, enums.InviteStatusPending, now).
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// ListPendingForUser returns the invitee's live pending invites, newest
// first, joined with community and inviter metadata.
func (r *Repository) ListPendingForUser(ctx context.Context, inviteeID uuid.UUID, now time.Time) ([]InviteWithCommunityDTO, error) {
	var rows []inviteWithCommunityRow
	err := r.db.WithContext(ctx).
		Model(&models.CommunityInvite{}).
		Select("community_invites.*, communities.name, users.display_name").
		Joins("JOIN communities ON communities.id = community_invites.community_id").
		Joins("JOIN users ON users.id = community_invites.inviter_id").
		Where("community_invites.invitee_id = ? AND community_invites.status = ? AND community_invites.expires_at > ?",
			inviteeID, enums.InviteStatusPending, now).
		Order("community_invites.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rowsToDTO(rows), nil
}

// UpdateStatusIfPending moves the invite out of pending and reports whether
// a row matched. The status guard in the WHERE clause is what makes two
// concurrent resolutions collapse to a single winner.
func (r *Repository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status enums.InviteStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CommunityInvite{}).
		Where("id = ? AND status = ?", id, enums.InviteStatusPending).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the invite row and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.CommunityInvite{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteExpired removes every invite whose expires_at passed, regardless of
// status, using the provided transaction, and returns the count. Safe to
// run repeatedly.
func (r *Repository) DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	result := tx.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.CommunityInvite{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
