package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/platform/extid"
)

// Entity is anything addressable by an internal key and an external id.
type Entity interface {
	PK() uuid.UUID
	ExternalID() string
}

// Owned entities name the user allowed to edit them.
type Owned interface {
	OwnerUserID() uuid.UUID
}

// Scoped entities belong to an appointment whose participants may read them.
type Scoped interface {
	AppointmentScope() uuid.UUID
}

// Authored entities record the user that created them.
type Authored interface {
	SetAuthor(userID uuid.UUID)
}

// Assignable entities accept a partial update from untyped request data.
type Assignable interface {
	Assign(data map[string]any) error
}

// ChildOf entities know the internal key of the parent they were created under.
type ChildOf interface {
	ParentPK() uuid.UUID
}

// ChildAttacher parents track the external ids of their children.
type ChildAttacher interface {
	AttachChild(typeName, externalID string) bool
}

// ChildDetacher parents must be told when one of their children is deleted.
type ChildDetacher interface {
	DetachChild(typeName, externalID string) bool
}

// Identity is embedded by every persisted entity.
type Identity struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	UUID string    `gorm:"column:uuid;size:24;not null;uniqueIndex" json:"uuid"`
}

func (i *Identity) PK() uuid.UUID      { return i.ID }
func (i *Identity) ExternalID() string { return i.UUID }

// EnsureIdentity assigns a key and an external id when missing.
func (i *Identity) EnsureIdentity() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.UUID == "" {
		i.UUID = extid.New()
	}
}

func (i *Identity) BeforeCreate(*gorm.DB) error {
	i.EnsureIdentity()
	return nil
}
