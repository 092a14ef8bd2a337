package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/community-backend/pkg/db/models"
	"github.com/learnloop/community-backend/pkg/enums"
)

// MembershipDTO is the transport shape for a raw membership record.
type MembershipDTO struct {
	ID          uuid.UUID        `json:"id"`
	CommunityID uuid.UUID        `json:"community_id"`
	UserID      uuid.UUID        `json:"user_id"`
	Role        enums.MemberRole `json:"role"`
	JoinedAt    time.Time        `json:"joined_at"`
}

// MemberDTO mixes membership metadata with the associated user profile.
type MemberDTO struct {
	MembershipID uuid.UUID        `json:"membership_id"`
	CommunityID  uuid.UUID        `json:"community_id"`
	UserID       uuid.UUID        `json:"user_id"`
	DisplayName  string           `json:"display_name"`
	AvatarURL    *string          `json:"avatar_url,omitempty"`
	Role         enums.MemberRole `json:"role"`
	JoinedAt     time.Time        `json:"joined_at"`
}

// memberRow is the scan target for the members listing join.
type memberRow struct {
	ID          uuid.UUID
	CommunityID uuid.UUID
	UserID      uuid.UUID
	Role        enums.MemberRole
	JoinedAt    time.Time
	DisplayName string
	AvatarURL   *string
}

func memberRowsToDTO(rows []memberRow) []MemberDTO {
	out := make([]MemberDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, MemberDTO{
			MembershipID: row.ID,
			CommunityID:  row.CommunityID,
			UserID:       row.UserID,
			DisplayName:  row.DisplayName,
			AvatarURL:    row.AvatarURL,
			Role:         row.Role,
			JoinedAt:     row.JoinedAt,
		})
	}
	return out
}

// ToDTO converts a model to the external DTO.
func ToDTO(m *models.CommunityMember) *MembershipDTO {
	if m == nil {
		return nil
	}
	return &MembershipDTO{
		ID:          m.ID,
		CommunityID: m.CommunityID,
		UserID:      m.UserID,
		Role:        m.Role,
		JoinedAt:    m.JoinedAt,
	}
}
