package invites

import (
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/community-backend/pkg/db/models"
	"github.com/learnloop/community-backend/pkg/enums"
)

// InviteDTO is the transport shape for a community invite.
type InviteDTO struct {
	ID          uuid.UUID          `json:"id"`
	CommunityID uuid.UUID          `json:"community_id"`
	InviterID   uuid.UUID          `json:"inviter_id"`
	InviteeID   uuid.UUID          `json:"invitee_id"`
	Status      enums.InviteStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

// InviteWithCommunityDTO decorates a pending invite with community metadata
// so the invitee can decide without a second lookup.
type InviteWithCommunityDTO struct {
	InviteDTO
	CommunityName      string `json:"community_name"`
	InviterDisplayName string `json:"inviter_display_name"`
}

// inviteWithCommunityRow is the scan target for the pending-invite join.
type inviteWithCommunityRow struct {
	ID          uuid.UUID
	CommunityID uuid.UUID
	InviterID   uuid.UUID
	InviteeID   uuid.UUID
	Status      enums.InviteStatus
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Name        string
	DisplayName string
}

func rowsToDTO(rows []inviteWithCommunityRow) []InviteWithCommunityDTO {
	out := make([]InviteWithCommunityDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, InviteWithCommunityDTO{
			InviteDTO: InviteDTO{
				ID:          row.ID,
				CommunityID: row.CommunityID,
				InviterID:   row.InviterID,
				InviteeID:   row.InviteeID,
				Status:      row.Status,
				CreatedAt:   row.CreatedAt,
				ExpiresAt:   row.ExpiresAt,
			},
			CommunityName:      row.Name,
			InviterDisplayName: row.DisplayName,
		})
	}
	return out
}

// ToDTO converts a model to the external DTO.
func ToDTO(i *models.CommunityInvite) *InviteDTO {
	if i == nil {
		return nil
	}
	return &InviteDTO{
		ID:          i.ID,
		CommunityID: i.CommunityID,
		InviterID:   i.InviterID,
		InviteeID:   i.InviteeID,
		Status:      i.Status,
		CreatedAt:   i.CreatedAt,
		ExpiresAt:   i.ExpiresAt,
	}
}
