package materials

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

// SubmissionRepo stores homework submissions in the "submission" table.
type SubmissionRepo interface {
	ListBySlot(dbc dbctx.Context, slotID uuid.UUID) ([]*materials.SubmissionRow, error)
	GetByUUID(dbc dbctx.Context, slotID uuid.UUID, externalID string) (*materials.SubmissionRow, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*materials.SubmissionRow, error)
	MaxPosition(dbc dbctx.Context, slotID uuid.UUID) (int, error)
	Create(dbc dbctx.Context, row *materials.SubmissionRow) error
	Save(dbc dbctx.Context, row *materials.SubmissionRow) error
	SoftDelete(dbc dbctx.Context, id uuid.UUID) error
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	return &submissionRepo{db: db, log: baseLog.With("repo", "SubmissionRepo")}
}

func (r *submissionRepo) ListBySlot(dbc dbctx.Context, slotID uuid.UUID) ([]*materials.SubmissionRow, error) {
	var out []*materials.SubmissionRow
	if err := dbc.Or(r.db).Where("slot_id = ?", slotID).Order("position ASC, created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionRepo) GetByUUID(dbc dbctx.Context, slotID uuid.UUID, externalID string) (*materials.SubmissionRow, error) {
	if externalID == "" {
		return nil, nil
	}
	var out []*materials.SubmissionRow
	if err := dbc.Or(r.db).Where("slot_id = ? AND uuid = ?", slotID, externalID).Limit(1).Find(&out).Error; err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

func (r *submissionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*materials.SubmissionRow, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*materials.SubmissionRow
	if err := dbc.Or(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

func (r *submissionRepo) MaxPosition(dbc dbctx.Context, slotID uuid.UUID) (int, error) {
	return maxPosition(dbc.Or(r.db).Model(&materials.SubmissionRow{}).Where("slot_id = ?", slotID), "position")
}

func (r *submissionRepo) Create(dbc dbctx.Context, row *materials.SubmissionRow) error {
	return dbc.Or(r.db).Create(row).Error
}

func (r *submissionRepo) Save(dbc dbctx.Context, row *materials.SubmissionRow) error {
	return dbc.Or(r.db).Save(row).Error
}

func (r *submissionRepo) SoftDelete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Or(r.db).Where("id = ?", id).Delete(&materials.SubmissionRow{}).Error
}
