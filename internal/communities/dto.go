package communities

import (
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/community-backend/pkg/db/models"
	"github.com/learnloop/community-backend/pkg/enums"
)

// CommunityDTO is the transport shape for a community.
type CommunityDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsPrivate   bool      `json:"is_private"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommunityOverviewDTO decorates a community with roster and feed counts
// plus the caller's role when they belong to it.
type CommunityOverviewDTO struct {
	CommunityDTO
	MemberCount  int64             `json:"member_count"`
	MessageCount int64             `json:"message_count"`
	MyRole       *enums.MemberRole `json:"my_role,omitempty"`
}

// overviewRow is the scan target for the stats subselects.
type overviewRow struct {
	ID           uuid.UUID
	Name         string
	Description  *string
	IsPrivate    bool
	IsActive     bool
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
	MemberCount  int64
	MessageCount int64
	MyRole       *string
}

func overviewRowsToDTO(rows []overviewRow) []CommunityOverviewDTO {
	out := make([]CommunityOverviewDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, overviewRowToDTO(row))
	}
	return out
}

func overviewRowToDTO(row overviewRow) CommunityOverviewDTO {
	dto := CommunityOverviewDTO{
		CommunityDTO: CommunityDTO{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			IsPrivate:   row.IsPrivate,
			IsActive:    row.IsActive,
			CreatedBy:   row.CreatedBy,
			CreatedAt:   row.CreatedAt,
		},
		MemberCount:  row.MemberCount,
		MessageCount: row.MessageCount,
	}
	if row.MyRole != nil {
		role := enums.MemberRole(*row.MyRole)
		dto.MyRole = &role
	}
	return dto
}

// ToDTO converts a model to the external DTO.
func ToDTO(c *models.Community) *CommunityDTO {
	if c == nil {
		return nil
	}
	return &CommunityDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsPrivate:   c.IsPrivate,
		IsActive:    c.IsActive,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
	}
}

// CreateCommunityInput captures the fields accepted at creation time.
type CreateCommunityInput struct {
	Name        string
	Description *string
	IsPrivate   bool
}
