package messages

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/learnloop/community-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.CommunityMessage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedAuthor(t *testing.T, conn *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		DisplayName:  name,
		IsActive:     true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func seedMessage(t *testing.T, conn *gorm.DB, communityID, authorID uuid.UUID, content string, createdAt, expiresAt time.Time) *models.CommunityMessage {
	t.Helper()

	message := &models.CommunityMessage{
		CommunityID: communityID,
		AuthorID:    authorID,
		Content:     content,
		CreatedAt:   createdAt,
		ExpiresAt:   expiresAt,
	}
	if err := conn.Create(message).Error; err != nil {
		t.Fatalf("create message: %v", err)
	}
	return message
}

func TestListVisibleFiltersExpiredRows(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	author := seedAuthor(t, conn, "Poster")
	communityID := uuid.New()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedMessage(t, conn, communityID, author.ID, "old", now.Add(-6*24*time.Hour), now.Add(-24*time.Hour))
	// Boundary row: expires exactly now, so the strict > filter hides it.
	seedMessage(t, conn, communityID, author.ID, "boundary", now.Add(-5*24*time.Hour), now)
	fresh := seedMessage(t, conn, communityID, author.ID, "fresh", now.Add(-time.Hour), now.Add(5*24*time.Hour-time.Hour))
	seedMessage(t, conn, uuid.New(), author.ID, "other community", now, now.Add(5*24*time.Hour))

	feed, err := repo.ListVisible(ctx, communityID, now)
	if err != nil {
		t.Fatalf("list visible: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected 1 visible message, got %d", len(feed))
	}
	if feed[0].ID != fresh.ID {
		t.Fatalf("expected fresh message, got %s", feed[0].Content)
	}
	if feed[0].AuthorDisplayName != "Poster" {
		t.Fatalf("expected author name on feed row, got %q", feed[0].AuthorDisplayName)
	}
}

func TestListVisibleOrdersOldestFirst(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	author := seedAuthor(t, conn, "Poster")
	communityID := uuid.New()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	second := seedMessage(t, conn, communityID, author.ID, "second", now.Add(-time.Hour), now.Add(24*time.Hour))
	first := seedMessage(t, conn, communityID, author.ID, "first", now.Add(-2*time.Hour), now.Add(24*time.Hour))

	feed, err := repo.ListVisible(ctx, communityID, now)
	if err != nil {
		t.Fatalf("list visible: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(feed))
	}
	if feed[0].ID != first.ID || feed[1].ID != second.ID {
		t.Fatalf("feed is not ordered oldest first")
	}
}

func TestDeleteExpiredIsIdempotent(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	author := seedAuthor(t, conn, "Poster")
	communityID := uuid.New()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedMessage(t, conn, communityID, author.ID, "dead", now.Add(-6*24*time.Hour), now.Add(-24*time.Hour))
	seedMessage(t, conn, communityID, author.ID, "dead on the line", now.Add(-5*24*time.Hour), now)
	alive := seedMessage(t, conn, communityID, author.ID, "alive", now, now.Add(5*24*time.Hour))

	deleted, err := repo.DeleteExpired(ctx, conn, now)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deletions, got %d", deleted)
	}

	deleted, err = repo.DeleteExpired(ctx, conn, now)
	if err != nil {
		t.Fatalf("second delete expired: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("second pass should delete nothing, got %d", deleted)
	}

	count, err := repo.CountVisible(ctx, communityID, now)
	if err != nil {
		t.Fatalf("count visible: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected surviving message, got %d", count)
	}

	var survivor models.CommunityMessage
	if err := conn.First(&survivor, "id = ?", alive.ID).Error; err != nil {
		t.Fatalf("surviving message should still exist: %v", err)
	}
}
