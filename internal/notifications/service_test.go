package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

type stubNotifRepo struct {
	created    []models.Notification
	rows       []models.Notification
	nextCursor *pagination.Cursor
	listParams listNotificationsParams
	markResult notificationMarkResult
	markAll    int64
}

func (s *stubNotifRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubNotifRepo) Create(_ context.Context, notification *models.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	s.created = append(s.created, *notification)
	return nil
}

func (s *stubNotifRepo) List(_ context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	s.listParams = params
	return s.rows, s.nextCursor, nil
}

func (s *stubNotifRepo) MarkRead(context.Context, uuid.UUID, uuid.UUID, time.Time) (notificationMarkResult, error) {
	return s.markResult, nil
}

func (s *stubNotifRepo) MarkAllRead(context.Context, uuid.UUID, time.Time) (int64, error) {
	return s.markAll, nil
}

func (s *stubNotifRepo) DeleteOlderThan(context.Context, *gorm.DB, time.Time) (int64, error) {
	return 0, nil
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if appErr.Code() != code {
		t.Fatalf("expected code %s, got %s", code, appErr.Code())
	}
}

func TestListEncodesNextCursor(t *testing.T) {
	userID := uuid.New()
	repo := &stubNotifRepo{
		rows: []models.Notification{
			{ID: uuid.New(), UserID: userID, Title: "Payment due"},
		},
		nextCursor: &pagination.Cursor{CreatedAt: time.Now().UTC(), ID: uuid.New()},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	result, err := svc.List(context.Background(), ListParams{UserID: userID, Limit: 10, UnreadOnly: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Fatal("expected next cursor to be encoded")
	}
	if !repo.listParams.UnreadOnly {
		t.Fatal("expected unread filter to reach the repository")
	}
}

func TestListRejectsInvalidCursor(t *testing.T) {
	svc, err := NewService(&stubNotifRepo{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.List(context.Background(), ListParams{UserID: uuid.New(), Cursor: "%%not-a-cursor%%"})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestMarkReadNotFound(t *testing.T) {
	repo := &stubNotifRepo{markResult: notificationMarkResult{Found: false}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	err = svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestMarkReadIdempotentOnAlreadyRead(t *testing.T) {
	repo := &stubNotifRepo{markResult: notificationMarkResult{Found: true, Updated: false}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.MarkRead(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("MarkRead on already-read row: %v", err)
	}
}

func TestMarkAllReadReturnsCount(t *testing.T) {
	repo := &stubNotifRepo{markAll: 4}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	count, err := svc.MarkAllRead(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 rows marked, got %d", count)
	}
}
