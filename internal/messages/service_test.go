package messages

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/community-backend/pkg/db/models"
	"github.com/learnloop/community-backend/pkg/enums"
	pkgerrors "github.com/learnloop/community-backend/pkg/errors"
)

type fakeMessageRepo struct {
	created []*models.CommunityMessage
	feed    []MessageWithAuthorDTO
}

func (f *fakeMessageRepo) Create(_ context.Context, message *models.CommunityMessage) error {
	f.created = append(f.created, message)
	return nil
}

func (f *fakeMessageRepo) ListVisible(_ context.Context, _ uuid.UUID, _ time.Time) ([]MessageWithAuthorDTO, error) {
	return f.feed, nil
}

type fakeAccess struct {
	members map[uuid.UUID]bool
}

func (f *fakeAccess) RequireMember(_ context.Context, userID, communityID uuid.UUID) (*models.CommunityMember, error) {
	if !f.members[userID] {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this community")
	}
	return &models.CommunityMember{UserID: userID, CommunityID: communityID, Role: enums.MemberRoleMember}, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func TestPostSetsFiveDayWindow(t *testing.T) {
	repo := &fakeMessageRepo{}
	member := uuid.New()
	access := &fakeAccess{members: map[uuid.UUID]bool{member: true}}
	svc, err := NewService(repo, access, fixedNow)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Post(context.Background(), member, uuid.New(), "  hello class  ")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if dto.Content != "hello class" {
		t.Fatalf("expected trimmed content, got %q", dto.Content)
	}
	want := fixedNow().Add(5 * 24 * time.Hour)
	if !dto.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %s, got %s", want, dto.ExpiresAt)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created message")
	}
}

func TestPostRejectsNonMember(t *testing.T) {
	repo := &fakeMessageRepo{}
	access := &fakeAccess{members: map[uuid.UUID]bool{}}
	svc, _ := NewService(repo, access, fixedNow)

	_, err := svc.Post(context.Background(), uuid.New(), uuid.New(), "hello")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("nothing should be written for non-members")
	}
}

func TestPostRejectsBlankContent(t *testing.T) {
	repo := &fakeMessageRepo{}
	member := uuid.New()
	access := &fakeAccess{members: map[uuid.UUID]bool{member: true}}
	svc, _ := NewService(repo, access, fixedNow)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.Post(context.Background(), member, uuid.New(), content)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("content %q: expected validation error, got %v", content, err)
		}
	}
}

func TestPostRejectsOversizedContent(t *testing.T) {
	repo := &fakeMessageRepo{}
	member := uuid.New()
	access := &fakeAccess{members: map[uuid.UUID]bool{member: true}}
	svc, _ := NewService(repo, access, fixedNow)

	_, err := svc.Post(context.Background(), member, uuid.New(), strings.Repeat("a", maxContentLength+1))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListVisibleRequiresMembership(t *testing.T) {
	repo := &fakeMessageRepo{feed: []MessageWithAuthorDTO{{AuthorDisplayName: "Poster"}}}
	member := uuid.New()
	access := &fakeAccess{members: map[uuid.UUID]bool{member: true}}
	svc, _ := NewService(repo, access, fixedNow)

	feed, err := svc.ListVisible(context.Background(), member, uuid.New())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected feed passthrough")
	}

	_, err = svc.ListVisible(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
