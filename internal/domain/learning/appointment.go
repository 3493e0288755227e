package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/entity"
)

// Appointment is a scheduled session owned by an instructor. Participants are
// enrolled through AppointmentParticipant rows.
type Appointment struct {
	entity.Identity
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title       string     `gorm:"not null;column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	StartsAt    *time.Time `gorm:"column:starts_at" json:"starts_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Appointment) TableName() string { return "appointment" }

func (a *Appointment) OwnerUserID() uuid.UUID     { return a.OwnerID }
func (a *Appointment) AppointmentScope() uuid.UUID { return a.ID }

func (a *Appointment) ViewFields() []entity.Field {
	return []entity.Field{
		entity.Plain("uuid", a.UUID),
		entity.Plain("title", a.Title),
		entity.Plain("description", a.Description),
		entity.Plain("startsAt", a.StartsAt),
		entity.Plain("createdAt", a.CreatedAt),
	}
}

func (a *Appointment) ReadableFields() []string {
	return []string{"uuid", "title", "description", "startsAt", "createdAt"}
}

type appointmentPatch struct {
	Title       *string    `mapstructure:"title"`
	Description *string    `mapstructure:"description"`
	StartsAt    *time.Time `mapstructure:"startsAt"`
}

func (a *Appointment) Assign(data map[string]any) error {
	var p appointmentPatch
	if err := entity.Decode(data, &p); err != nil {
		return err
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.StartsAt != nil {
		a.StartsAt = p.StartsAt
	}
	return nil
}

// AppointmentParticipant enrolls a user in an appointment.
type AppointmentParticipant struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_participant_apt_user" json:"appointment_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_participant_apt_user;index" json:"user_id"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (AppointmentParticipant) TableName() string { return "appointment_participant" }

func (p *AppointmentParticipant) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
