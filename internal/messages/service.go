package messages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/community-backend/pkg/db/models"
	pkgerrors "github.com/learnloop/community-backend/pkg/errors"
)

// MessageTTL is how long a message stays visible after creation. The window
// is fixed at write time; edits to it later are not possible.
const MessageTTL = 5 * 24 * time.Hour

const maxContentLength = 4000

type messageRepository interface {
	Create(ctx context.Context, message *models.CommunityMessage) error
	ListVisible(ctx context.Context, communityID uuid.UUID, now time.Time) ([]MessageWithAuthorDTO, error)
}

type accessPolicy interface {
	RequireMember(ctx context.Context, userID, communityID uuid.UUID) (*models.CommunityMember, error)
}

// Service exposes message posting and the visibility-filtered feed.
type Service interface {
	Post(ctx context.Context, actingUserID, communityID uuid.UUID, content string) (*MessageDTO, error)
	ListVisible(ctx context.Context, actingUserID, communityID uuid.UUID) ([]MessageWithAuthorDTO, error)
}

type service struct {
	repo   messageRepository
	access accessPolicy
	now    func() time.Time
}

// NewService builds a messages service. The now function defaults to
// time.Now and exists so tests can pin the clock.
func NewService(repo messageRepository, access accessPolicy, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("messages repository required")
	}
	if access == nil {
		return nil, fmt.Errorf("access policy required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, access: access, now: now}, nil
}

// Post writes a message into the community on behalf of a member. Content is
// trimmed and must be non-empty after trimming.
func (s *service) Post(ctx context.Context, actingUserID, communityID uuid.UUID, content string) (*MessageDTO, error) {
	if _, err := s.access.RequireMember(ctx, actingUserID, communityID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message content is required").
			WithDetails(map[string]any{"field": "content"})
	}
	if len(content) > maxContentLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message content too long").
			WithDetails(map[string]any{"field": "content", "max_length": maxContentLength})
	}

	now := s.now().UTC()
	message := &models.CommunityMessage{
		CommunityID: communityID,
		AuthorID:    actingUserID,
		Content:     content,
		CreatedAt:   now,
		ExpiresAt:   now.Add(MessageTTL),
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
	}
	return ToDTO(message), nil
}

// ListVisible returns the community feed for a member, oldest first. Expired
// rows never appear, whether or not the sweep has caught up with them.
func (s *service) ListVisible(ctx context.Context, actingUserID, communityID uuid.UUID) ([]MessageWithAuthorDTO, error) {
	if _, err := s.access.RequireMember(ctx, actingUserID, communityID); err != nil {
		return nil, err
	}
	feed, err := s.repo.ListVisible(ctx, communityID, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}
	return feed, nil
}
