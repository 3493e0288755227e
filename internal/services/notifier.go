package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

// CertApproved is published once, after the approving transaction commits.
type CertApproved struct {
	CertID       string            `json:"cert_id"`
	SubmissionID string            `json:"submission_id"`
	RecipientID  uuid.UUID         `json:"recipient_id"`
	InstructorID uuid.UUID         `json:"instructor_id"`
	ApprovedAt   time.Time         `json:"approved_at"`
	Params       map[string]string `json:"params"`
}

type CertNotifier interface {
	CertApproved(ctx context.Context, n CertApproved) error
}

// Message is the envelope handed to a Publisher.
type Message struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Data    any    `json:"data"`
}

// Publisher fans messages out to other processes.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

const EventCertApproved = "cert_approved"

type certNotifier struct {
	log *logger.Logger
	pub Publisher
}

// NewCertNotifier publishes through pub. A nil publisher only logs.
func NewCertNotifier(baseLog *logger.Logger, pub Publisher) CertNotifier {
	return &certNotifier{log: baseLog.With("service", "CertNotifier"), pub: pub}
}

func (n *certNotifier) CertApproved(ctx context.Context, ev CertApproved) error {
	if n.pub == nil {
		n.log.Info("Cert approved", "cert", ev.CertID, "recipient_id", ev.RecipientID)
		return nil
	}
	return n.pub.Publish(ctx, Message{
		Channel: ev.RecipientID.String(),
		Event:   EventCertApproved,
		Data:    ev,
	})
}
