package messages

import (
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/community-backend/pkg/db/models"
)

// MessageDTO is the transport shape for a community message.
type MessageDTO struct {
	ID          uuid.UUID `json:"id"`
	CommunityID uuid.UUID `json:"community_id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// MessageWithAuthorDTO adds the author's display name for feed rendering.
type MessageWithAuthorDTO struct {
	MessageDTO
	AuthorDisplayName string `json:"author_display_name"`
}

// messageWithAuthorRow is the scan target for the feed join.
type messageWithAuthorRow struct {
	ID          uuid.UUID
	CommunityID uuid.UUID
	AuthorID    uuid.UUID
	Content     string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	DisplayName string
}

func rowsToDTO(rows []messageWithAuthorRow) []MessageWithAuthorDTO {
	out := make([]MessageWithAuthorDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, MessageWithAuthorDTO{
			MessageDTO: MessageDTO{
				ID:          row.ID,
				CommunityID: row.CommunityID,
				AuthorID:    row.AuthorID,
				Content:     row.Content,
				CreatedAt:   row.CreatedAt,
				ExpiresAt:   row.ExpiresAt,
			},
			AuthorDisplayName: row.DisplayName,
		})
	}
	return out
}

// ToDTO converts a model to the external DTO.
func ToDTO(m *models.CommunityMessage) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:          m.ID,
		CommunityID: m.CommunityID,
		AuthorID:    m.AuthorID,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
		ExpiresAt:   m.ExpiresAt,
	}
}
