package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/learning"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

type StorefrontRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*learning.Storefront, error)
	PublishedCourses(dbc dbctx.Context, storefrontID uuid.UUID) ([]*learning.Course, error)
}

type storefrontRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStorefrontRepo(db *gorm.DB, baseLog *logger.Logger) StorefrontRepo {
	return &storefrontRepo{db: db, log: baseLog.With("repo", "StorefrontRepo")}
}

func (r *storefrontRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*learning.Storefront, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*learning.Storefront
	if err := dbc.Or(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *storefrontRepo) PublishedCourses(dbc dbctx.Context, storefrontID uuid.UUID) ([]*learning.Course, error) {
	var out []*learning.Course
	err := dbc.Or(r.db).
		Where("storefront_id = ? AND published = ?", storefrontID, true).
		Order("created_at ASC, uuid ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
