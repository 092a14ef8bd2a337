package communities

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/learnloop/community-backend/internal/memberships"
	"github.com/learnloop/community-backend/pkg/db/models"
	"github.com/learnloop/community-backend/pkg/enums"
	pkgerrors "github.com/learnloop/community-backend/pkg/errors"
)

type gormTxRunner struct {
	conn *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.conn.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

type fixture struct {
	conn *gorm.DB
	svc  Service
	now  time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Community{}, &models.CommunityMember{}, &models.CommunityMessage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	memberRepo := memberships.NewRepository(conn)
	access, err := memberships.NewService(memberRepo)
	if err != nil {
		t.Fatalf("memberships service: %v", err)
	}

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, err := NewService(ServiceParams{
		Repo:    NewRepository(conn),
		Members: memberRepo,
		Access:  access,
		TX:      gormTxRunner{conn: conn},
		Now:     func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{conn: conn, svc: svc, now: now}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		DisplayName:  name,
		IsActive:     true,
	}
	if err := f.conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func wantCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error with code %s, got %v", code, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
}

func TestCreateMakesCreatorAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "Creator")

	description := "A place to study Go together."
	dto, err := f.svc.Create(ctx, creator.ID, CreateCommunityInput{Name: "  Go Study Group  ", Description: &description})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Name != "Go Study Group" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}

	membership, err := memberships.NewRepository(f.conn).Get(ctx, dto.ID, creator.ID)
	if err != nil {
		t.Fatalf("creator membership missing: %v", err)
	}
	if membership.Role != enums.MemberRoleAdmin {
		t.Fatalf("expected admin role, got %s", membership.Role)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "Creator")

	_, err := f.svc.Create(ctx, creator.ID, CreateCommunityInput{Name: "   "})
	wantCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.Create(ctx, creator.ID, CreateCommunityInput{Name: strings.Repeat("n", maxNameLength+1)})
	wantCode(t, err, pkgerrors.CodeValidation)

	long := strings.Repeat("d", maxDescriptionLength+1)
	_, err = f.svc.Create(ctx, creator.ID, CreateCommunityInput{Name: "ok", Description: &long})
	wantCode(t, err, pkgerrors.CodeValidation)
}

func TestJoinPublicCommunity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "Creator")
	joiner := f.user(t, "Joiner")

	dto, err := f.svc.Create(ctx, creator.ID, CreateCommunityInput{Name: "Open Group"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	membership, err := f.svc.Join(ctx, joiner.ID, dto.ID)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if membership.Role != enums.MemberRoleMember {
		t.Fatalf("expected member role, got %s", membership.Role)
	}

	_, err = f.svc.Join(ctx, joiner.ID, dto.ID)
	wantCode(t, err, pkgerrors.CodeConflict)
}

func TestJoinGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "Creator")
	joiner := f.user(t, "Joiner")

	_, err := f.svc.Join(ctx, joiner.ID, uuid.New())
	wantCode(t, err, pkgerrors.CodeNotFound)

	private, err := f.svc.Create(ctx, creator.ID, CreateCommunityInput{Name: "Private Group", IsPrivate: true})
	if err != nil {
		t.Fatalf("create private: %v", err)
	}
	_, err = f.svc.Join(ctx, joiner.ID, private.ID)
	wantCode(t, err, pkgerrors.CodeForbidden)

	inactive := &models.Community{Name: "Archived", IsActive: false, CreatedBy: creator.ID}
	if err := f.conn.Create(inactive).Error; err != nil {
		t.Fatalf("seed inactive: %v", err)
	}
	_, err = f.svc.Join(ctx, joiner.ID, inactive.ID)
	wantCode(t, err, pkgerrors.CodeValidation)
}

func TestListOverviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "Creator")
	viewer := f.user(t, "Viewer")

	first, err := f.svc.Create(ctx, creator.ID, CreateCommunityInput{Name: "Alpha"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Create(ctx, creator.ID, CreateCommunityInput{Name: "Beta"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Join(ctx, viewer.ID, first.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	// One live and one expired message; only the live one should count.
	for _, seed := range []struct {
		expiresAt time.Time
	}{
		{f.now.Add(24 * time.Hour)},
		{f.now.Add(-time.Hour)},
	} {
		message := &models.CommunityMessage{
			CommunityID: first.ID,
			AuthorID:    creator.ID,
			Content:     "hi",
			CreatedAt:   f.now.Add(-2 * time.Hour),
			ExpiresAt:   seed.expiresAt,
		}
		if err := f.conn.Create(message).Error; err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	overviews, err := f.svc.List(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(overviews) != 2 {
		t.Fatalf("expected 2 communities, got %d", len(overviews))
	}
	alpha := overviews[0]
	if alpha.Name != "Alpha" {
		t.Fatalf("expected name ordering, got %q first", alpha.Name)
	}
	if alpha.MemberCount != 2 {
		t.Fatalf("expected 2 members, got %d", alpha.MemberCount)
	}
	if alpha.MessageCount != 1 {
		t.Fatalf("expected 1 visible message, got %d", alpha.MessageCount)
	}
	if alpha.MyRole == nil || *alpha.MyRole != enums.MemberRoleMember {
		t.Fatalf("expected member role for viewer, got %v", alpha.MyRole)
	}
	beta := overviews[1]
	if beta.MyRole != nil {
		t.Fatalf("viewer is not a member of beta, got role %v", beta.MyRole)
	}
}

func TestGetIsMemberOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.user(t, "Creator")
	outsider := f.user(t, "Outsider")

	dto, err := f.svc.Create(ctx, creator.ID, CreateCommunityInput{Name: "Members Only"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	overview, err := f.svc.Get(ctx, creator.ID, dto.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if overview.MyRole == nil || *overview.MyRole != enums.MemberRoleAdmin {
		t.Fatalf("expected admin role, got %v", overview.MyRole)
	}

	_, err = f.svc.Get(ctx, outsider.ID, dto.ID)
	wantCode(t, err, pkgerrors.CodeForbidden)
}
