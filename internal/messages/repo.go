package messages

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/community-backend/pkg/db/models"
)

// Repository exposes message persistence operations.
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

// Create persists a new message row.
func (r *Repository) Create(ctx context.Context, message *models.CommunityMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListVisible returns the community's messages whose visibility window is
// still open at the supplied instant, oldest first, joined with author names.
// The expires_at filter is the read-side half of the expiry policy; rows past
// the window stay invisible even before the sweep physically deletes them.
func (r *Repository) ListVisible(ctx context.Context, communityID uuid.UUID, now time.Time) ([]MessageWithAuthorDTO, error) {
	var rows []messageWithAuthorRow
	err := r.db.WithContext(ctx).
		Model(&models.CommunityMessage{}).
		Select("community_messages.*, users.display_name").
		Joins("JOIN users ON users.id = community_messages.author_id").
		Where("community_messages.community_id = ? AND community_messages.expires_at > ?", communityID, now).
		Order("community_messages.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rowsToDTO(rows), nil
}

// CountVisible returns the number of unexpired messages in the community.
func (r *Repository) CountVisible(ctx context.Context, communityID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommunityMessage{}).
		Where("community_id = ? AND expires_at > ?", communityID, now).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteExpired removes every message whose window closed at or before the
// supplied instant, using the provided transaction, and returns how many
// rows went away. Safe to run repeatedly; a second pass over the same
// instant deletes nothing.
func (r *Repository) DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	result := tx.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.CommunityMessage{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
