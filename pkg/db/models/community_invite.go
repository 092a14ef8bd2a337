package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/community-backend/pkg/enums"
)

// CommunityInvite asks a user to join a community. A pending invite past its
// ExpiresAt is logically dead even while the row still exists; membership is
// the durable record of an accepted invite, not this row.
type CommunityInvite struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	CommunityID uuid.UUID          `gorm:"column:community_id;type:uuid;not null;index"`
	InviterID   uuid.UUID          `gorm:"column:inviter_id;type:uuid;not null"`
	InviteeID   uuid.UUID          `gorm:"column:invitee_id;type:uuid;not null;index"`
	Status      enums.InviteStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	ExpiresAt   time.Time          `gorm:"column:expires_at;not null;index"`
}

func (i *CommunityInvite) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
