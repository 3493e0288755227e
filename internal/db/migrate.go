package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/certs"
	"github.com/yungbote/materialhub-backend/internal/domain/learning"
	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/domain/user"
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&user.User{},
		&learning.Appointment{},
		&learning.AppointmentParticipant{},
		&learning.Quiz{},
		&learning.QuizQuestion{},
		&learning.QuizAnswer{},
		&learning.HomeworkSlot{},
		&learning.Storefront{},
		&learning.Course{},
		&learning.StorefrontPage{},
		&materials.Asset{},
		&materials.MaterialRow{},
		&materials.QuizElementRow{},
		&materials.SubmissionRow{},
		&certs.FinalCert{},
		&certs.LogEntry{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
