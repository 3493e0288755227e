package materials

import (
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

// MaterialRowRepo stores appointment materials in the "material" table.
type MaterialRowRepo interface {
	ListByAppointment(dbc dbctx.Context, appointmentID uuid.UUID) ([]*materials.MaterialRow, error)
	GetByUUID(dbc dbctx.Context, appointmentID uuid.UUID, externalID string) (*materials.MaterialRow, error)
	MaxPosition(dbc dbctx.Context, appointmentID uuid.UUID) (int, error)
	Create(dbc dbctx.Context, row *materials.MaterialRow) error
	Save(dbc dbctx.Context, row *materials.MaterialRow) error
	SoftDelete(dbc dbctx.Context, id uuid.UUID) error
}

type materialRowRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMaterialRowRepo(db *gorm.DB, baseLog *logger.Logger) MaterialRowRepo {
	return &materialRowRepo{db: db, log: baseLog.With("repo", "MaterialRowRepo")}
}

func (r *materialRowRepo) ListByAppointment(dbc dbctx.Context, appointmentID uuid.UUID) ([]*materials.MaterialRow, error) {
	var out []*materials.MaterialRow
	err := dbc.Or(r.db).
		Where("appointment_id = ?", appointmentID).
		Order("position ASC, created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *materialRowRepo) GetByUUID(dbc dbctx.Context, appointmentID uuid.UUID, externalID string) (*materials.MaterialRow, error) {
	if externalID == "" {
		return nil, nil
	}
	var out []*materials.MaterialRow
	err := dbc.Or(r.db).
		Where("appointment_id = ? AND uuid = ?", appointmentID, externalID).
		Limit(1).
		Find(&out).Error
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

func (r *materialRowRepo) MaxPosition(dbc dbctx.Context, appointmentID uuid.UUID) (int, error) {
	return maxPosition(dbc.Or(r.db).Model(&materials.MaterialRow{}).Where("appointment_id = ?", appointmentID), "position")
}

func (r *materialRowRepo) Create(dbc dbctx.Context, row *materials.MaterialRow) error {
	return dbc.Or(r.db).Create(row).Error
}

func (r *materialRowRepo) Save(dbc dbctx.Context, row *materials.MaterialRow) error {
	return dbc.Or(r.db).Save(row).Error
}

func (r *materialRowRepo) SoftDelete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Or(r.db).Where("id = ?", id).Delete(&materials.MaterialRow{}).Error
}

// maxPosition returns the highest value of column in q, or -1 for an empty set.
func maxPosition(q *gorm.DB, column string) (int, error) {
	var max sql.NullInt64
	if err := q.Select("MAX(" + column + ")").Row().Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return -1, nil
	}
	return int(max.Int64), nil
}
