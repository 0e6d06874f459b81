package media

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/config"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
)

type stubMediaRepo struct {
	items   map[uuid.UUID]*models.JewelryItem
	rows    map[uuid.UUID]*models.Media
	counts  map[uuid.UUID]int64
	deleted []uuid.UUID
}

func newStubMediaRepo() *stubMediaRepo {
	return &stubMediaRepo{
		items:  map[uuid.UUID]*models.JewelryItem{},
		rows:   map[uuid.UUID]*models.Media{},
		counts: map[uuid.UUID]int64{},
	}
}

func (s *stubMediaRepo) Create(_ context.Context, media *models.Media) (*models.Media, error) {
	s.rows[media.ID] = media
	return media, nil
}

func (s *stubMediaRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Media, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubMediaRepo) FindItem(_ context.Context, id uuid.UUID) (*models.JewelryItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubMediaRepo) CountByItem(_ context.Context, itemID uuid.UUID) (int64, error) {
	return s.counts[itemID], nil
}

func (s *stubMediaRepo) SetURL(_ context.Context, id uuid.UUID, url string) error {
	if row, ok := s.rows[id]; ok {
		row.URL = &url
	}
	return nil
}

func (s *stubMediaRepo) ListByItem(_ context.Context, itemID uuid.UUID) ([]models.Media, error) {
	var out []models.Media
	for _, row := range s.rows {
		if row.JewelryItemID != nil && *row.JewelryItemID == itemID && row.URL != nil {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *stubMediaRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.rows, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type stubGCS struct {
	signErr error
	deleted []string
}

func (s *stubGCS) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	return "https://storage.googleapis.com/" + bucket + "/" + object + "?sig=test", nil
}

func (s *stubGCS) ObjectURL(bucket, object string) string {
	return "https://storage.googleapis.com/" + bucket + "/" + object
}

func (s *stubGCS) DeleteObject(_ context.Context, _, object string) error {
	s.deleted = append(s.deleted, object)
	return nil
}

func newTestService(t *testing.T, repo *stubMediaRepo, gcs *stubGCS) Service {
	t.Helper()
	svc, err := NewService(repo, gcs,
		config.GCSConfig{BucketName: "auctionhouse-media", UploadURLExpiry: 15 * time.Minute},
		config.MediaConfig{MaxUploadMB: 16, MaxPhotosPerItem: 10},
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
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

func sellerAndItem(repo *stubMediaRepo) (Actor, uuid.UUID) {
	sellerID := uuid.New()
	itemID := uuid.New()
	repo.items[itemID] = &models.JewelryItem{ID: itemID, SellerID: sellerID}
	return Actor{UserID: sellerID, Role: enums.UserRoleMember}, itemID
}

func TestPresignUploadCreatesPendingRow(t *testing.T) {
	repo := newStubMediaRepo()
	gcs := &stubGCS{}
	svc := newTestService(t, repo, gcs)
	seller, itemID := sellerAndItem(repo)

	out, err := svc.PresignUpload(context.Background(), seller, PresignInput{
		JewelryItemID: &itemID,
		FileName:      "emerald brooch.JPG",
		MimeType:      "image/jpeg; charset=binary",
		SizeBytes:     2 * 1024 * 1024,
	})
	if err != nil {
		t.Fatalf("PresignUpload: %v", err)
	}
	if out.SignedPUTURL == "" {
		t.Fatal("expected signed upload url")
	}
	if out.ContentType != "image/jpeg" {
		t.Fatalf("expected normalized mime type, got %q", out.ContentType)
	}

	row, ok := repo.rows[out.MediaID]
	if !ok {
		t.Fatal("expected media row to be persisted")
	}
	if row.URL != nil {
		t.Fatal("row must stay pending until the upload is finalized")
	}
	if row.JewelryItemID == nil || *row.JewelryItemID != itemID {
		t.Fatal("row must reference the jewelry item")
	}
	if row.FileName != "emerald brooch.JPG" {
		t.Fatalf("unexpected file name %q", row.FileName)
	}
}

func TestPresignUploadValidatesPayload(t *testing.T) {
	repo := newStubMediaRepo()
	svc := newTestService(t, repo, &stubGCS{})
	seller, itemID := sellerAndItem(repo)

	cases := []struct {
		name  string
		input PresignInput
		code  pkgerrors.Code
	}{
		{
			name:  "oversize",
			input: PresignInput{JewelryItemID: &itemID, FileName: "ring.png", MimeType: "image/png", SizeBytes: 17 * 1024 * 1024},
			code:  pkgerrors.CodeValidation,
		},
		{
			name:  "non-photo mime",
			input: PresignInput{JewelryItemID: &itemID, FileName: "cert.pdf", MimeType: "application/pdf", SizeBytes: 1024},
			code:  pkgerrors.CodeValidation,
		},
		{
			name:  "extension mismatch",
			input: PresignInput{JewelryItemID: &itemID, FileName: "ring.png", MimeType: "image/jpeg", SizeBytes: 1024},
			code:  pkgerrors.CodeValidation,
		},
		{
			name:  "missing file name",
			input: PresignInput{JewelryItemID: &itemID, FileName: "  ", MimeType: "image/png", SizeBytes: 1024},
			code:  pkgerrors.CodeValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PresignUpload(context.Background(), seller, tc.input)
			assertCode(t, err, tc.code)
		})
	}
}

func TestPresignUploadEnforcesPhotoCap(t *testing.T) {
	repo := newStubMediaRepo()
	svc := newTestService(t, repo, &stubGCS{})
	seller, itemID := sellerAndItem(repo)
	repo.counts[itemID] = 10

	_, err := svc.PresignUpload(context.Background(), seller, PresignInput{
		JewelryItemID: &itemID,
		FileName:      "ring.png",
		MimeType:      "image/png",
		SizeBytes:     1024,
	})
	assertCode(t, err, pkgerrors.CodeBusinessRule)
}

func TestPresignUploadRequiresSellerOrStaff(t *testing.T) {
	repo := newStubMediaRepo()
	svc := newTestService(t, repo, &stubGCS{})
	_, itemID := sellerAndItem(repo)

	stranger := Actor{UserID: uuid.New(), Role: enums.UserRoleMember}
	_, err := svc.PresignUpload(context.Background(), stranger, PresignInput{
		JewelryItemID: &itemID,
		FileName:      "ring.png",
		MimeType:      "image/png",
		SizeBytes:     1024,
	})
	assertCode(t, err, pkgerrors.CodeForbidden)

	staff := Actor{UserID: uuid.New(), Role: enums.UserRoleStaff}
	if _, err := svc.PresignUpload(context.Background(), staff, PresignInput{
		JewelryItemID: &itemID,
		FileName:      "ring.png",
		MimeType:      "image/png",
		SizeBytes:     1024,
	}); err != nil {
		t.Fatalf("staff upload should be allowed: %v", err)
	}
}

func TestPresignUploadRollsBackRowOnSignFailure(t *testing.T) {
	repo := newStubMediaRepo()
	gcs := &stubGCS{signErr: context.DeadlineExceeded}
	svc := newTestService(t, repo, gcs)
	seller, itemID := sellerAndItem(repo)

	_, err := svc.PresignUpload(context.Background(), seller, PresignInput{
		JewelryItemID: &itemID,
		FileName:      "ring.png",
		MimeType:      "image/png",
		SizeBytes:     1024,
	})
	assertCode(t, err, pkgerrors.CodeDependency)
	if len(repo.rows) != 0 {
		t.Fatal("pending row must be removed when signing fails")
	}
}

func TestFinalizeUploadSetsServingURL(t *testing.T) {
	repo := newStubMediaRepo()
	svc := newTestService(t, repo, &stubGCS{})
	owner := Actor{UserID: uuid.New(), Role: enums.UserRoleMember}

	mediaID := uuid.New()
	repo.rows[mediaID] = &models.Media{
		ID:        mediaID,
		UserID:    owner.UserID,
		ObjectKey: "media/items/x/ring.png",
	}

	row, err := svc.FinalizeUpload(context.Background(), owner, mediaID)
	if err != nil {
		t.Fatalf("FinalizeUpload: %v", err)
	}
	if row.URL == nil || *row.URL == "" {
		t.Fatal("expected serving url to be set")
	}

	again, err := svc.FinalizeUpload(context.Background(), owner, mediaID)
	if err != nil {
		t.Fatalf("FinalizeUpload replay: %v", err)
	}
	if *again.URL != *row.URL {
		t.Fatal("finalize must be idempotent")
	}
}

func TestDeleteRemovesRowAndObject(t *testing.T) {
	repo := newStubMediaRepo()
	gcs := &stubGCS{}
	svc := newTestService(t, repo, gcs)
	owner := Actor{UserID: uuid.New(), Role: enums.UserRoleMember}

	mediaID := uuid.New()
	repo.rows[mediaID] = &models.Media{
		ID:        mediaID,
		UserID:    owner.UserID,
		ObjectKey: "media/items/x/ring.png",
	}

	if err := svc.Delete(context.Background(), owner, mediaID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != mediaID {
		t.Fatal("expected media row to be deleted")
	}
	if len(gcs.deleted) != 1 || gcs.deleted[0] != "media/items/x/ring.png" {
		t.Fatal("expected stored object to be deleted")
	}

	stranger := Actor{UserID: uuid.New(), Role: enums.UserRoleMember}
	otherID := uuid.New()
	repo.rows[otherID] = &models.Media{ID: otherID, UserID: owner.UserID, ObjectKey: "k"}
	err := svc.Delete(context.Background(), stranger, otherID)
	assertCode(t, err, pkgerrors.CodeForbidden)
}
