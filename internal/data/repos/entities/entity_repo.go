package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/entity"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

// EntityRepo persists registered entities without knowing their concrete type.
type EntityRepo interface {
	Find(dbc dbctx.Context, m Model, externalID string) (entity.Entity, error)
	FindByPK(dbc dbctx.Context, m Model, id uuid.UUID) (entity.Entity, error)
	ListChildren(dbc dbctx.Context, m Model, parentColumn string, parentID uuid.UUID) ([]entity.Entity, error)
	Create(dbc dbctx.Context, e entity.Entity) error
	Save(dbc dbctx.Context, e entity.Entity) error
	Delete(dbc dbctx.Context, e entity.Entity) error
}

type entityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntityRepo(db *gorm.DB, baseLog *logger.Logger) EntityRepo {
	return &entityRepo{db: db, log: baseLog.With("repo", "EntityRepo")}
}

func (r *entityRepo) Find(dbc dbctx.Context, m Model, externalID string) (entity.Entity, error) {
	return m.FindByExternalID(dbc.Or(r.db), externalID)
}

func (r *entityRepo) FindByPK(dbc dbctx.Context, m Model, id uuid.UUID) (entity.Entity, error) {
	return m.FindByPK(dbc.Or(r.db), id)
}

func (r *entityRepo) ListChildren(dbc dbctx.Context, m Model, parentColumn string, parentID uuid.UUID) ([]entity.Entity, error) {
	return m.ListBy(dbc.Or(r.db), parentColumn, parentID)
}

func (r *entityRepo) Create(dbc dbctx.Context, e entity.Entity) error {
	return dbc.Or(r.db).Create(e).Error
}

func (r *entityRepo) Save(dbc dbctx.Context, e entity.Entity) error {
	return dbc.Or(r.db).Save(e).Error
}

// Delete soft-deletes e; its external id stays reserved.
func (r *entityRepo) Delete(dbc dbctx.Context, e entity.Entity) error {
	return dbc.Or(r.db).Delete(e).Error
}
