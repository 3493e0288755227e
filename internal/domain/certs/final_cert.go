package certs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/entity"
)

// FinalCert certifies one final submission for its author. Approval is one-way.
type FinalCert struct {
	entity.Identity
	SubmissionID *uuid.UUID     `gorm:"type:uuid;column:submission_id;index" json:"submission_id,omitempty"`
	RecipientID  uuid.UUID      `gorm:"type:uuid;column:recipient_id;not null;index" json:"recipient_id"`
	Approved     bool           `gorm:"column:approved;not null" json:"approved"`
	ApprovedAt   *time.Time     `gorm:"column:approved_at" json:"approved_at,omitempty"`
	ApprovedByID *uuid.UUID     `gorm:"type:uuid;column:approved_by_id" json:"approved_by_id,omitempty"`
	UserData     datatypes.JSON `gorm:"column:user_data;type:jsonb" json:"user_data,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (FinalCert) TableName() string { return "final_cert" }

// Approve flips the cert to approved. It reports false when it already was.
func (c *FinalCert) Approve(at time.Time, by uuid.UUID) bool {
	if c.Approved {
		return false
	}
	c.Approved = true
	c.ApprovedAt = &at
	c.ApprovedByID = &by
	return true
}

func (c *FinalCert) ViewFields() []entity.Field {
	userData := c.UserData
	if len(userData) == 0 {
		userData = datatypes.JSON("{}")
	}
	return []entity.Field{
		entity.Plain("uuid", c.UUID),
		entity.Plain("approved", c.Approved),
		entity.Plain("approvedAt", c.ApprovedAt),
		entity.Plain("userData", userData),
		entity.Plain("createdAt", c.CreatedAt),
	}
}

func (c *FinalCert) ReadableFields() []string {
	return []string{"uuid", "approved", "approvedAt", "userData", "createdAt"}
}

type LogEvent string

const (
	EventCertRequested LogEvent = "cert_requested"
	EventCertApproved  LogEvent = "cert_approved"
	EventCertOrphaned  LogEvent = "cert_orphaned"
)

// LogEntry is the audit trail of a cert.
type LogEntry struct {
	ID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CertID  uuid.UUID      `gorm:"type:uuid;column:cert_id;not null;index" json:"cert_id"`
	Event   LogEvent       `gorm:"column:event;not null" json:"event"`
	ActorID uuid.UUID      `gorm:"type:uuid;column:actor_id;not null" json:"actor_id"`
	Payload datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (LogEntry) TableName() string { return "cert_log" }

func (e *LogEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
