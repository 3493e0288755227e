package materials

import (
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

type AssetRepo interface {
	Create(dbc dbctx.Context, a *materials.Asset) error
	GetByUUID(dbc dbctx.Context, externalID string) (*materials.Asset, error)
	GetByUUIDs(dbc dbctx.Context, externalIDs []string) ([]*materials.Asset, error)
}

type assetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssetRepo(db *gorm.DB, baseLog *logger.Logger) AssetRepo {
	return &assetRepo{db: db, log: baseLog.With("repo", "AssetRepo")}
}

func (r *assetRepo) Create(dbc dbctx.Context, a *materials.Asset) error {
	return dbc.Or(r.db).Create(a).Error
}

func (r *assetRepo) GetByUUID(dbc dbctx.Context, externalID string) (*materials.Asset, error) {
	if externalID == "" {
		return nil, nil
	}
	rows, err := r.GetByUUIDs(dbc, []string{externalID})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *assetRepo) GetByUUIDs(dbc dbctx.Context, externalIDs []string) ([]*materials.Asset, error) {
	var out []*materials.Asset
	if len(externalIDs) == 0 {
		return out, nil
	}
	if err := dbc.Or(r.db).Where("uuid IN ?", externalIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
