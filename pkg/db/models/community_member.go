package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnloop/community-backend/pkg/enums"
)

// CommunityMember links a user with a community and captures their role.
// The composite unique index is what makes concurrent joins collapse to a
// single surviving row.
type CommunityMember struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CommunityID uuid.UUID        `gorm:"column:community_id;type:uuid;not null;uniqueIndex:uq_community_members_pair"`
	UserID      uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_community_members_pair"`
	Role        enums.MemberRole `gorm:"column:role;type:text;not null"`
	JoinedAt    time.Time        `gorm:"column:joined_at;autoCreateTime"`
}

func (m *CommunityMember) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
