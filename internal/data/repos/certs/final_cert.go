package certs

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/certs"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

type FinalCertRepo interface {
	Create(dbc dbctx.Context, c *certs.FinalCert) error
	Save(dbc dbctx.Context, c *certs.FinalCert) error
	GetByUUID(dbc dbctx.Context, externalID string) (*certs.FinalCert, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*certs.FinalCert, error)
	GetBySubmissionID(dbc dbctx.Context, submissionID uuid.UUID) (*certs.FinalCert, error)
	SoftDelete(dbc dbctx.Context, id uuid.UUID) error
}

type finalCertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFinalCertRepo(db *gorm.DB, baseLog *logger.Logger) FinalCertRepo {
	return &finalCertRepo{db: db, log: baseLog.With("repo", "FinalCertRepo")}
}

func (r *finalCertRepo) Create(dbc dbctx.Context, c *certs.FinalCert) error {
	return dbc.Or(r.db).Create(c).Error
}

func (r *finalCertRepo) Save(dbc dbctx.Context, c *certs.FinalCert) error {
	return dbc.Or(r.db).Save(c).Error
}

func (r *finalCertRepo) first(q *gorm.DB) (*certs.FinalCert, error) {
	var out []*certs.FinalCert
	if err := q.Limit(1).Find(&out).Error; err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

func (r *finalCertRepo) GetByUUID(dbc dbctx.Context, externalID string) (*certs.FinalCert, error) {
	if externalID == "" {
		return nil, nil
	}
	return r.first(dbc.Or(r.db).Where("uuid = ?", externalID))
}

func (r *finalCertRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*certs.FinalCert, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc.Or(r.db).Where("id = ?", id))
}

func (r *finalCertRepo) GetBySubmissionID(dbc dbctx.Context, submissionID uuid.UUID) (*certs.FinalCert, error) {
	if submissionID == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc.Or(r.db).Where("submission_id = ?", submissionID))
}

func (r *finalCertRepo) SoftDelete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Or(r.db).Where("id = ?", id).Delete(&certs.FinalCert{}).Error
}
