package learning

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/domain/entity"
)

type Quiz struct {
	entity.Identity
	AppointmentID uuid.UUID                   `gorm:"type:uuid;not null;index" json:"appointment_id"`
	OwnerID       uuid.UUID                   `gorm:"type:uuid;not null;index" json:"owner_id"`
	AuthorID      uuid.UUID                   `gorm:"type:uuid;index" json:"author_id"`
	Title         string                      `gorm:"not null;column:title" json:"title"`
	Description   string                      `gorm:"column:description" json:"description"`
	QuestionOrder datatypes.JSONSlice[string] `gorm:"column:question_order" json:"question_order"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Quiz) TableName() string { return "quiz" }

func (q *Quiz) OwnerUserID() uuid.UUID      { return q.OwnerID }
func (q *Quiz) AppointmentScope() uuid.UUID { return q.AppointmentID }
func (q *Quiz) ParentPK() uuid.UUID         { return q.AppointmentID }
func (q *Quiz) SetAuthor(id uuid.UUID)      { q.AuthorID = id }

func (q *Quiz) AttachChild(typeName, externalID string) bool {
	if typeName != TypeQuizQuestion || slices.Contains(q.QuestionOrder, externalID) {
		return false
	}
	q.QuestionOrder = append(q.QuestionOrder, externalID)
	return true
}

func (q *Quiz) DetachChild(typeName, externalID string) bool {
	if typeName != TypeQuizQuestion {
		return false
	}
	idx := slices.Index(q.QuestionOrder, externalID)
	if idx < 0 {
		return false
	}
	q.QuestionOrder = slices.Delete(q.QuestionOrder, idx, idx+1)
	return true
}

func (q *Quiz) ViewFields() []entity.Field {
	order := []string(q.QuestionOrder)
	if order == nil {
		order = []string{}
	}
	return []entity.Field{
		entity.Plain("uuid", q.UUID),
		entity.Plain("title", q.Title),
		entity.Plain("description", q.Description),
		entity.Plain("questions", order),
		entity.Plain("createdAt", q.CreatedAt),
	}
}

func (q *Quiz) ReadableFields() []string {
	return []string{"uuid", "title", "description", "questions", "createdAt"}
}

type quizPatch struct {
	Title       *string `mapstructure:"title"`
	Description *string `mapstructure:"description"`
}

func (q *Quiz) Assign(data map[string]any) error {
	var p quizPatch
	if err := entity.Decode(data, &p); err != nil {
		return err
	}
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Description != nil {
		q.Description = *p.Description
	}
	return nil
}

// QuizQuestion owns a material collection stored as quiz elements.
type QuizQuestion struct {
	entity.Identity
	QuizID        uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"appointment_id"`
	OwnerID       uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	AuthorID      uuid.UUID `gorm:"type:uuid;index" json:"author_id"`
	Prompt        string    `gorm:"not null;column:prompt" json:"prompt"`
	Points        int       `gorm:"not null;column:points" json:"points"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }

func (q *QuizQuestion) OwnerUserID() uuid.UUID      { return q.OwnerID }
func (q *QuizQuestion) AppointmentScope() uuid.UUID { return q.AppointmentID }
func (q *QuizQuestion) ParentPK() uuid.UUID         { return q.QuizID }
func (q *QuizQuestion) SetAuthor(id uuid.UUID)      { q.AuthorID = id }

func (q *QuizQuestion) ViewFields() []entity.Field {
	return []entity.Field{
		entity.Plain("uuid", q.UUID),
		entity.Plain("prompt", q.Prompt),
		entity.Plain("points", q.Points),
		entity.Plain("createdAt", q.CreatedAt),
	}
}

func (q *QuizQuestion) ReadableFields() []string {
	return []string{"uuid", "prompt", "points", "createdAt"}
}

type quizQuestionPatch struct {
	Prompt *string `mapstructure:"prompt"`
	Points *int    `mapstructure:"points"`
}

func (q *QuizQuestion) Assign(data map[string]any) error {
	var p quizQuestionPatch
	if err := entity.Decode(data, &p); err != nil {
		return err
	}
	if p.Prompt != nil {
		q.Prompt = *p.Prompt
	}
	if p.Points != nil {
		q.Points = *p.Points
	}
	return nil
}

// QuizAnswer is one candidate answer of a question; it owns quiz-element materials too.
type QuizAnswer struct {
	entity.Identity
	QuestionID    uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"appointment_id"`
	OwnerID       uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	AuthorID      uuid.UUID `gorm:"type:uuid;index" json:"author_id"`
	Text          string    `gorm:"not null;column:text" json:"text"`
	Correct       bool      `gorm:"not null;default:false;column:correct" json:"correct"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuizAnswer) TableName() string { return "quiz_answer" }

func (a *QuizAnswer) OwnerUserID() uuid.UUID      { return a.OwnerID }
func (a *QuizAnswer) AppointmentScope() uuid.UUID { return a.AppointmentID }
func (a *QuizAnswer) ParentPK() uuid.UUID         { return a.QuestionID }
func (a *QuizAnswer) SetAuthor(id uuid.UUID)      { a.AuthorID = id }

func (a *QuizAnswer) ViewFields() []entity.Field {
	return []entity.Field{
		entity.Plain("uuid", a.UUID),
		entity.Plain("text", a.Text),
		entity.Plain("correct", a.Correct),
		entity.Plain("createdAt", a.CreatedAt),
	}
}

func (a *QuizAnswer) ReadableFields() []string {
	return []string{"uuid", "text", "correct", "createdAt"}
}

type quizAnswerPatch struct {
	Text    *string `mapstructure:"text"`
	Correct *bool   `mapstructure:"correct"`
}

func (a *QuizAnswer) Assign(data map[string]any) error {
	var p quizAnswerPatch
	if err := entity.Decode(data, &p); err != nil {
		return err
	}
	if p.Text != nil {
		a.Text = *p.Text
	}
	if p.Correct != nil {
		a.Correct = *p.Correct
	}
	return nil
}
