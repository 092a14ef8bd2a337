package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommunityMessage is an ephemeral chat message. ExpiresAt is fixed when the
// row is created and never updated afterwards; readers filter on it and the
// sweep job deletes rows past it.
type CommunityMessage struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CommunityID uuid.UUID `gorm:"column:community_id;type:uuid;not null;index"`
	AuthorID    uuid.UUID `gorm:"column:author_id;type:uuid;not null"`
	Content     string    `gorm:"column:content;type:text;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	ExpiresAt   time.Time `gorm:"column:expires_at;not null;index"`
}

func (m *CommunityMessage) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
