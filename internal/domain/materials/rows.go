package materials

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Columns is the column set shared by the direct and submission tables.
type Columns struct {
	Type          string    `gorm:"column:type;not null" json:"type"`
	Title         string    `gorm:"column:title;not null" json:"title"`
	Description   *string   `gorm:"column:description" json:"description,omitempty"`
	PayloadAsset  *string   `gorm:"column:payload_asset;size:24" json:"payload_asset,omitempty"`
	PayloadText   *string   `gorm:"column:payload_text" json:"payload_text,omitempty"`
	PreviewAsset  *string   `gorm:"column:preview_asset;size:24" json:"preview_asset,omitempty"`
	AuthorID      uuid.UUID `gorm:"type:uuid;column:author_id;not null;index" json:"author_id"`
	CreatedAt     time.Time `gorm:"column:created_at;not null" json:"created_at"`
	EditedAt      time.Time `gorm:"column:edited_at;not null" json:"edited_at"`
}

// MaterialRow stores materials of appointments.
type MaterialRow struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UUID          string    `gorm:"column:uuid;size:24;not null;uniqueIndex" json:"uuid"`
	AppointmentID uuid.UUID `gorm:"type:uuid;column:appointment_id;not null;index" json:"appointment_id"`
	Position      int       `gorm:"column:position;not null" json:"position"`
	Columns       `gorm:"embedded"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MaterialRow) TableName() string { return "material" }

// QuizElementRow stores materials of quiz questions and answers with its own column naming.
type QuizElementRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UUID      string    `gorm:"column:uuid;size:24;not null;uniqueIndex" json:"uuid"`
	OwnerKind string    `gorm:"column:owner_kind;not null;index:idx_quiz_element_owner" json:"owner_kind"`
	OwnerID   uuid.UUID `gorm:"type:uuid;column:owner_id;not null;index:idx_quiz_element_owner" json:"owner_id"`
	Seq       int       `gorm:"column:seq;not null" json:"seq"`
	MediaKind string    `gorm:"column:media_kind;not null" json:"media_kind"`
	Heading   string    `gorm:"column:heading;not null" json:"heading"`
	Caption   *string   `gorm:"column:caption" json:"caption,omitempty"`
	MediaRef  *string   `gorm:"column:media_ref;size:24" json:"media_ref,omitempty"`
	Body      *string   `gorm:"column:body" json:"body,omitempty"`
	PosterRef *string   `gorm:"column:poster_ref;size:24" json:"poster_ref,omitempty"`
	CreatedBy uuid.UUID `gorm:"type:uuid;column:created_by;not null" json:"created_by"`

	CreatedAt time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuizElementRow) TableName() string { return "quiz_element" }

// SubmissionRow stores materials of homework slots plus their submission state.
type SubmissionRow struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UUID        string     `gorm:"column:uuid;size:24;not null;uniqueIndex" json:"uuid"`
	SlotID      uuid.UUID  `gorm:"type:uuid;column:slot_id;not null;index" json:"slot_id"`
	Position    int        `gorm:"column:position;not null" json:"position"`
	Final       bool       `gorm:"column:final;not null" json:"final"`
	FinalCertID *uuid.UUID `gorm:"type:uuid;column:final_cert_id" json:"final_cert_id,omitempty"`
	Columns     `gorm:"embedded"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SubmissionRow) TableName() string { return "submission" }
