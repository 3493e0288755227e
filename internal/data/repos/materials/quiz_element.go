package materials

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

// QuizElementRepo stores question and answer materials in the "quiz_element" table.
type QuizElementRepo interface {
	ListByOwner(dbc dbctx.Context, ownerKind string, ownerID uuid.UUID) ([]*materials.QuizElementRow, error)
	GetByUUID(dbc dbctx.Context, ownerKind string, ownerID uuid.UUID, externalID string) (*materials.QuizElementRow, error)
	MaxSeq(dbc dbctx.Context, ownerKind string, ownerID uuid.UUID) (int, error)
	Create(dbc dbctx.Context, row *materials.QuizElementRow) error
	Save(dbc dbctx.Context, row *materials.QuizElementRow) error
	SoftDelete(dbc dbctx.Context, id uuid.UUID) error
}

type quizElementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizElementRepo(db *gorm.DB, baseLog *logger.Logger) QuizElementRepo {
	return &quizElementRepo{db: db, log: baseLog.With("repo", "QuizElementRepo")}
}

func (r *quizElementRepo) owned(dbc dbctx.Context, ownerKind string, ownerID uuid.UUID) *gorm.DB {
	return dbc.Or(r.db).Where("owner_kind = ? AND owner_id = ?", ownerKind, ownerID)
}

func (r *quizElementRepo) ListByOwner(dbc dbctx.Context, ownerKind string, ownerID uuid.UUID) ([]*materials.QuizElementRow, error) {
	var out []*materials.QuizElementRow
	if err := r.owned(dbc, ownerKind, ownerID).Order("seq ASC, created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizElementRepo) GetByUUID(dbc dbctx.Context, ownerKind string, ownerID uuid.UUID, externalID string) (*materials.QuizElementRow, error) {
	if externalID == "" {
		return nil, nil
	}
	var out []*materials.QuizElementRow
	if err := r.owned(dbc, ownerKind, ownerID).Where("uuid = ?", externalID).Limit(1).Find(&out).Error; err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

func (r *quizElementRepo) MaxSeq(dbc dbctx.Context, ownerKind string, ownerID uuid.UUID) (int, error) {
	return maxPosition(r.owned(dbc, ownerKind, ownerID).Model(&materials.QuizElementRow{}), "seq")
}

func (r *quizElementRepo) Create(dbc dbctx.Context, row *materials.QuizElementRow) error {
	return dbc.Or(r.db).Create(row).Error
}

func (r *quizElementRepo) Save(dbc dbctx.Context, row *materials.QuizElementRow) error {
	return dbc.Or(r.db).Save(row).Error
}

func (r *quizElementRepo) SoftDelete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Or(r.db).Where("id = ?", id).Delete(&materials.QuizElementRow{}).Error
}
