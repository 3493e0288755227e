package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/entity"
)

// StorefrontScoped entities resolve to the storefront they are published under.
type StorefrontScoped interface {
	StorefrontPK() uuid.UUID
}

// Storefront is an instructor's public shop, served from <prefix>.<domain>.
type Storefront struct {
	entity.Identity
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Prefix  string    `gorm:"not null;uniqueIndex;column:prefix" json:"prefix"`
	Title   string    `gorm:"not null;column:title" json:"title"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Storefront) TableName() string { return "storefront" }

func (s *Storefront) OwnerUserID() uuid.UUID  { return s.OwnerID }
func (s *Storefront) StorefrontPK() uuid.UUID { return s.ID }

func (s *Storefront) ViewFields() []entity.Field {
	return []entity.Field{
		entity.Plain("uuid", s.UUID),
		entity.Plain("prefix", s.Prefix),
		entity.Plain("title", s.Title),
		entity.Computed("url", entity.FieldStorefrontURL, s),
		entity.Computed("courses", entity.FieldStorefrontCourseList, s),
	}
}

func (s *Storefront) ReadableFields() []string {
	return []string{"uuid", "prefix", "title", "url", "courses"}
}

type Course struct {
	entity.Identity
	StorefrontID uuid.UUID `gorm:"type:uuid;not null;index" json:"storefront_id"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	AuthorID     uuid.UUID `gorm:"type:uuid;index" json:"author_id"`
	Title        string    `gorm:"not null;column:title" json:"title"`
	Summary      string    `gorm:"column:summary" json:"summary"`
	Published    bool      `gorm:"not null;default:false;column:published" json:"published"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

func (c *Course) OwnerUserID() uuid.UUID  { return c.OwnerID }
func (c *Course) StorefrontPK() uuid.UUID { return c.StorefrontID }
func (c *Course) ParentPK() uuid.UUID     { return c.StorefrontID }
func (c *Course) SetAuthor(id uuid.UUID)  { c.AuthorID = id }

func (c *Course) ViewFields() []entity.Field {
	return []entity.Field{
		entity.Plain("uuid", c.UUID),
		entity.Plain("title", c.Title),
		entity.Plain("summary", c.Summary),
		entity.Plain("published", c.Published),
		entity.Computed("url", entity.FieldStorefrontURL, c),
	}
}

func (c *Course) ReadableFields() []string {
	return []string{"uuid", "title", "summary", "published", "url"}
}

type coursePatch struct {
	Title     *string `mapstructure:"title"`
	Summary   *string `mapstructure:"summary"`
	Published *bool   `mapstructure:"published"`
}

func (c *Course) Assign(data map[string]any) error {
	var p coursePatch
	if err := entity.Decode(data, &p); err != nil {
		return err
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Summary != nil {
		c.Summary = *p.Summary
	}
	if p.Published != nil {
		c.Published = *p.Published
	}
	return nil
}

// StorefrontPage is a landing page under a storefront, optionally featuring one course.
type StorefrontPage struct {
	entity.Identity
	StorefrontID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"storefront_id"`
	OwnerID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	AuthorID         uuid.UUID  `gorm:"type:uuid;index" json:"author_id"`
	FeaturedCourseID *uuid.UUID `gorm:"type:uuid;column:featured_course_id" json:"featured_course_id,omitempty"`
	Title            string     `gorm:"not null;column:title" json:"title"`
	Body             string     `gorm:"column:body" json:"body"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StorefrontPage) TableName() string { return "storefront_page" }

func (p *StorefrontPage) OwnerUserID() uuid.UUID  { return p.OwnerID }
func (p *StorefrontPage) StorefrontPK() uuid.UUID { return p.StorefrontID }
func (p *StorefrontPage) ParentPK() uuid.UUID     { return p.StorefrontID }
func (p *StorefrontPage) SetAuthor(id uuid.UUID)  { p.AuthorID = id }

func (p *StorefrontPage) ViewFields() []entity.Field {
	return []entity.Field{
		entity.Plain("uuid", p.UUID),
		entity.Plain("title", p.Title),
		entity.Plain("body", p.Body),
		entity.Computed("url", entity.FieldStorefrontURL, p),
		entity.Computed("courses", entity.FieldStorefrontCourseList, p),
		entity.Plain("createdAt", p.CreatedAt),
	}
}

func (p *StorefrontPage) ReadableFields() []string {
	return []string{"uuid", "title", "body", "url", "courses", "createdAt"}
}

type storefrontPagePatch struct {
	Title *string `mapstructure:"title"`
	Body  *string `mapstructure:"body"`
}

func (p *StorefrontPage) Assign(data map[string]any) error {
	var patch storefrontPagePatch
	if err := entity.Decode(data, &patch); err != nil {
		return err
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Body != nil {
		p.Body = *patch.Body
	}
	return nil
}
