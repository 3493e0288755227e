package entities

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/entity"
)

// Model is the typed storage access for one registered entity class.
type Model interface {
	New() entity.Entity
	FindByExternalID(tx *gorm.DB, externalID string) (entity.Entity, error)
	FindByPK(tx *gorm.DB, id uuid.UUID) (entity.Entity, error)
	ListBy(tx *gorm.DB, column string, value uuid.UUID) ([]entity.Entity, error)
}

type model[T any, PT interface {
	*T
	entity.Entity
}] struct{}

// ModelOf builds the Model for a GORM model type T whose pointer is an entity.
func ModelOf[T any, PT interface {
	*T
	entity.Entity
}]() Model {
	return model[T, PT]{}
}

func (model[T, PT]) New() entity.Entity {
	return PT(new(T))
}

func (m model[T, PT]) FindByExternalID(tx *gorm.DB, externalID string) (entity.Entity, error) {
	if externalID == "" {
		return nil, nil
	}
	return m.first(tx.Where("uuid = ?", externalID))
}

func (m model[T, PT]) FindByPK(tx *gorm.DB, id uuid.UUID) (entity.Entity, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return m.first(tx.Where("id = ?", id))
}

func (model[T, PT]) first(q *gorm.DB) (entity.Entity, error) {
	var rows []T
	if err := q.Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return PT(&rows[0]), nil
}

func (model[T, PT]) ListBy(tx *gorm.DB, column string, value uuid.UUID) ([]entity.Entity, error) {
	if !safeColumn(column) {
		return nil, fmt.Errorf("invalid column %q", column)
	}
	var rows []T
	if err := tx.Where(column+" = ?", value).Order("created_at ASC, uuid ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Entity, 0, len(rows))
	for i := range rows {
		out = append(out, PT(&rows[i]))
	}
	return out, nil
}

func safeColumn(column string) bool {
	if column == "" {
		return false
	}
	for _, r := range column {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
