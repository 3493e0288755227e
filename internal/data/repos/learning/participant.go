package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/learning"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

type ParticipantRepo interface {
	Add(dbc dbctx.Context, appointmentID, userID uuid.UUID) error
	IsParticipant(dbc dbctx.Context, appointmentID, userID uuid.UUID) (bool, error)
	ListUserIDs(dbc dbctx.Context, appointmentID uuid.UUID) ([]uuid.UUID, error)
}

type participantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewParticipantRepo(db *gorm.DB, baseLog *logger.Logger) ParticipantRepo {
	return &participantRepo{db: db, log: baseLog.With("repo", "ParticipantRepo")}
}

func (r *participantRepo) Add(dbc dbctx.Context, appointmentID, userID uuid.UUID) error {
	row := &learning.AppointmentParticipant{AppointmentID: appointmentID, UserID: userID}
	return dbc.Or(r.db).Create(row).Error
}

func (r *participantRepo) IsParticipant(dbc dbctx.Context, appointmentID, userID uuid.UUID) (bool, error) {
	if appointmentID == uuid.Nil || userID == uuid.Nil {
		return false, nil
	}
	var count int64
	err := dbc.Or(r.db).
		Model(&learning.AppointmentParticipant{}).
		Where("appointment_id = ? AND user_id = ?", appointmentID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *participantRepo) ListUserIDs(dbc dbctx.Context, appointmentID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	err := dbc.Or(r.db).
		Model(&learning.AppointmentParticipant{}).
		Where("appointment_id = ?", appointmentID).
		Order("created_at ASC").
		Pluck("user_id", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
