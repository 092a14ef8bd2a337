package communities

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/community-backend/pkg/db/models"
)

const overviewSelect = `communities.*,
(SELECT COUNT(*) FROM community_members cm WHERE cm.community_id = communities.id) AS member_count,
(SELECT COUNT(*) FROM community_messages cms WHERE cms.community_id = communities.id AND cms.expires_at > ?) AS message_count,
(SELECT cm2.role FROM community_members cm2 WHERE cm2.community_id = communities.id AND cm2.user_id = ?) AS my_role`

// Repository exposes community persistence operations.
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

// Create persists a new community row.
func (r *Repository) Create(ctx context.Context, community *models.Community) error {
	return r.db.WithContext(ctx).Create(community).Error
}

// FindByID loads a community by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).First(&community, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

// ListOverviews returns the active communities with member and unexpired
// message counts and the viewer's role where they belong. The counts ride as
// correlated subselects so the listing stays a single query.
func (r *Repository) ListOverviews(ctx context.Context, viewerID uuid.UUID, now time.Time) ([]CommunityOverviewDTO, error) {
	var rows []overviewRow
	err := r.db.WithContext(ctx).
		Model(&models.Community{}).
		Select(overviewSelect, now, viewerID).
		Where("communities.is_active = ?", true).
		Order("communities.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return overviewRowsToDTO(rows), nil
}

// GetOverview returns a single community with the same stats the listing
// carries, or gorm.ErrRecordNotFound.
func (r *Repository) GetOverview(ctx context.Context, id, viewerID uuid.UUID, now time.Time) (*CommunityOverviewDTO, error) {
	var rows []overviewRow
	err := r.db.WithContext(ctx).
		Model(&models.Community{}).
		Select(overviewSelect, now, viewerID).
		Where("communities.id = ?", id).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	dto := overviewRowToDTO(rows[0])
	return &dto, nil
}
