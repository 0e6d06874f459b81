package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/config"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
)

// Actor identifies the authenticated caller.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

type mediaRepository interface {
	Create(ctx context.Context, media *models.Media) (*models.Media, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	FindItem(ctx context.Context, id uuid.UUID) (*models.JewelryItem, error)
	CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
	SetURL(ctx context.Context, id uuid.UUID, url string) error
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	ObjectURL(bucket, object string) string
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service exposes photo upload semantics for jewelry items.
type Service interface {
	PresignUpload(ctx context.Context, actor Actor, input PresignInput) (*PresignOutput, error)
	FinalizeUpload(ctx context.Context, actor Actor, mediaID uuid.UUID) (*models.Media, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.Media, error)
	Delete(ctx context.Context, actor Actor, mediaID uuid.UUID) error
}

type service struct {
	repo      mediaRepository
	gcs       gcsClient
	bucket    string
	uploadTTL time.Duration
	maxBytes  int64
	maxPhotos int
}

// NewService constructs a media service backed by the provided repository and GCS signer.
func NewService(repo mediaRepository, gcs gcsClient, gcsCfg config.GCSConfig, mediaCfg config.MediaConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if gcs == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if gcsCfg.BucketName == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if gcsCfg.UploadURLExpiry <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	if mediaCfg.MaxUploadMB <= 0 || mediaCfg.MaxPhotosPerItem <= 0 {
		return nil, fmt.Errorf("media limits must be positive")
	}
	return &service{
		repo:      repo,
		gcs:       gcs,
		bucket:    gcsCfg.BucketName,
		uploadTTL: gcsCfg.UploadURLExpiry,
		maxBytes:  int64(mediaCfg.MaxUploadMB) * 1024 * 1024,
		maxPhotos: mediaCfg.MaxPhotosPerItem,
	}, nil
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	JewelryItemID *uuid.UUID
	FileName      string
	MimeType      string
	SizeBytes     int64
}

// PresignOutput contains the data returned to the client after creating a media record.
type PresignOutput struct {
	MediaID      uuid.UUID `json:"media_id"`
	ObjectKey    string    `json:"object_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *service) PresignUpload(ctx context.Context, actor Actor, input PresignInput) (*PresignOutput, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}

	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("size_bytes must be at most %d bytes", s.maxBytes))
	}

	mimeType, err := sniffMimeType(input.MimeType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "mime_type invalid")
	}
	if !isAllowedMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only png, jpeg, and webp photos are accepted")
	}
	if !extensionMatchesMime(fileName, mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file extension does not match mime_type")
	}

	if input.JewelryItemID != nil {
		item, err := s.repo.FindItem(ctx, *input.JewelryItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "jewelry item not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load jewelry item")
		}
		if item.SellerID != actor.UserID && !actor.Role.AtLeast(enums.UserRoleStaff) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the consigning seller may attach photos")
		}
		count, err := s.repo.CountByItem(ctx, item.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count item photos")
		}
		if count >= int64(s.maxPhotos) {
			return nil, pkgerrors.New(pkgerrors.CodeBusinessRule,
				fmt.Sprintf("an item may have at most %d photos", s.maxPhotos))
		}
	}

	mediaID := uuid.New()
	objectKey := buildObjectKey(mediaID, fileName)

	mediaRow := &models.Media{
		ID:            mediaID,
		UserID:        actor.UserID,
		JewelryItemID: input.JewelryItemID,
		ObjectKey:     objectKey,
		FileName:      fileName,
		MimeType:      mimeType,
		SizeBytes:     input.SizeBytes,
	}
	if _, err := s.repo.Create(ctx, mediaRow); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist media row")
	}

	expiresAt := time.Now().Add(s.uploadTTL)
	signedURL, err := s.gcs.SignedURL(s.bucket, objectKey, mimeType, s.uploadTTL)
	if err != nil {
		_ = s.repo.Delete(ctx, mediaID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		MediaID:      mediaID,
		ObjectKey:    objectKey,
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    expiresAt,
	}, nil
}

// FinalizeUpload records the serving URL once the client completes the PUT.
func (s *service) FinalizeUpload(ctx context.Context, actor Actor, mediaID uuid.UUID) (*models.Media, error) {
	row, err := s.loadOwned(ctx, actor, mediaID)
	if err != nil {
		return nil, err
	}
	if row.URL != nil {
		return row, nil
	}

	servingURL := s.gcs.ObjectURL(s.bucket, row.ObjectKey)
	if err := s.repo.SetURL(ctx, row.ID, servingURL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize media row")
	}
	row.URL = &servingURL
	return row, nil
}

func (s *service) ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.Media, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	rows, err := s.repo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list item photos")
	}
	return rows, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, mediaID uuid.UUID) error {
	row, err := s.loadOwned(ctx, actor, mediaID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, row.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media row")
	}
	if err := s.gcs.DeleteObject(ctx, s.bucket, row.ObjectKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stored object")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, actor Actor, mediaID uuid.UUID) (*models.Media, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if mediaID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "media id required")
	}
	row, err := s.repo.FindByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media row")
	}
	if row.UserID != actor.UserID && !actor.Role.AtLeast(enums.UserRoleStaff) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "media belongs to another user")
	}
	return row, nil
}

func buildObjectKey(id uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = id.String()
	}
	return fmt.Sprintf("media/items/%s/%s", id.String(), cleanName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
