package certs

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/certs"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

type CertLogRepo interface {
	Create(dbc dbctx.Context, e *certs.LogEntry) error
	ListByCert(dbc dbctx.Context, certID uuid.UUID) ([]*certs.LogEntry, error)
}

type certLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertLogRepo(db *gorm.DB, baseLog *logger.Logger) CertLogRepo {
	return &certLogRepo{db: db, log: baseLog.With("repo", "CertLogRepo")}
}

func (r *certLogRepo) Create(dbc dbctx.Context, e *certs.LogEntry) error {
	return dbc.Or(r.db).Create(e).Error
}

func (r *certLogRepo) ListByCert(dbc dbctx.Context, certID uuid.UUID) ([]*certs.LogEntry, error) {
	var out []*certs.LogEntry
	if err := dbc.Or(r.db).Where("cert_id = ?", certID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
