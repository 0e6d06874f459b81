package models

import (
	"time"

	"github.com/google/uuid"
)

// Media captures metadata for uploaded jewelry photos and documents. Bytes
// live in object storage; only the opaque key and serving URL are kept here.
type Media struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	JewelryItemID *uuid.UUID `gorm:"column:jewelry_item_id;type:uuid;index"`
	ObjectKey     string     `gorm:"column:object_key;not null;uniqueIndex:ux_media_object_key"`
	URL           *string    `gorm:"column:url"`
	FileName      string     `gorm:"column:file_name;not null"`
	MimeType      string     `gorm:"column:mime_type;not null"`
	SizeBytes     int64      `gorm:"column:size_bytes;not null"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}
