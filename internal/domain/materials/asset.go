package materials

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/entity"
)

// Asset is an uploaded user file. Materials reference it by external id and
// never delete it.
type Asset struct {
	entity.Identity
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	StorageKey  string    `gorm:"column:storage_key;not null;uniqueIndex" json:"storage_key"`
	FileName    string    `gorm:"column:file_name;not null" json:"file_name"`
	ContentType string    `gorm:"column:content_type;not null" json:"content_type"`
	SizeBytes   int64     `gorm:"column:size_bytes;not null" json:"size_bytes"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Asset) TableName() string { return "user_file" }

func (a *Asset) OwnerUserID() uuid.UUID { return a.OwnerID }
