package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/entity"
)

// HomeworkSlot is an assignment inside an appointment. Enrolled participants
// attach submissions to it.
type HomeworkSlot struct {
	entity.Identity
	AppointmentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"appointment_id"`
	OwnerID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	AuthorID      uuid.UUID  `gorm:"type:uuid;index" json:"author_id"`
	Title         string     `gorm:"not null;column:title" json:"title"`
	Instructions  string     `gorm:"column:instructions" json:"instructions"`
	DueAt         *time.Time `gorm:"column:due_at" json:"due_at,omitempty"`
	AwardsCert    bool       `gorm:"not null;column:awards_cert" json:"awards_cert"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (HomeworkSlot) TableName() string { return "homework_slot" }

func (h *HomeworkSlot) OwnerUserID() uuid.UUID      { return h.OwnerID }
func (h *HomeworkSlot) AppointmentScope() uuid.UUID { return h.AppointmentID }
func (h *HomeworkSlot) ParentPK() uuid.UUID         { return h.AppointmentID }
func (h *HomeworkSlot) SetAuthor(id uuid.UUID)      { h.AuthorID = id }

func (h *HomeworkSlot) ViewFields() []entity.Field {
	return []entity.Field{
		entity.Plain("uuid", h.UUID),
		entity.Plain("title", h.Title),
		entity.Plain("instructions", h.Instructions),
		entity.Plain("dueAt", h.DueAt),
		entity.Plain("awardsCert", h.AwardsCert),
		entity.Plain("createdAt", h.CreatedAt),
	}
}

func (h *HomeworkSlot) ReadableFields() []string {
	return []string{"uuid", "title", "instructions", "dueAt", "awardsCert", "createdAt"}
}

type homeworkSlotPatch struct {
	Title        *string    `mapstructure:"title"`
	Instructions *string    `mapstructure:"instructions"`
	DueAt        *time.Time `mapstructure:"dueAt"`
	AwardsCert   *bool      `mapstructure:"awardsCert"`
}

func (h *HomeworkSlot) Assign(data map[string]any) error {
	var p homeworkSlotPatch
	if err := entity.Decode(data, &p); err != nil {
		return err
	}
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Instructions != nil {
		h.Instructions = *p.Instructions
	}
	if p.DueAt != nil {
		h.DueAt = p.DueAt
	}
	if p.AwardsCert != nil {
		h.AwardsCert = *p.AwardsCert
	}
	return nil
}
