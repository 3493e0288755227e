package services

import (
	"fmt"

	"github.com/google/uuid"

	materialrepo "github.com/yungbote/materialhub-backend/internal/data/repos/materials"
	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/registry"
)

// Converter translates between the generic Material shape and the storage
// representation of one material class.
type Converter interface {
	Class() registry.MaterialClass
	List(dbc dbctx.Context, parent materials.ParentRef) ([]*materials.Material, error)
	Get(dbc dbctx.Context, parent materials.ParentRef, externalID string) (*materials.Material, error)
	NextPosition(dbc dbctx.Context, parent materials.ParentRef) (int, error)
	Insert(dbc dbctx.Context, m *materials.Material) error
	Save(dbc dbctx.Context, m *materials.Material) error
	Remove(dbc dbctx.Context, m *materials.Material) error
}

// Converters selects a Converter by material class.
type Converters map[registry.MaterialClass]Converter

func NewConverters(
	direct materialrepo.MaterialRowRepo,
	quizElements materialrepo.QuizElementRepo,
	submissions materialrepo.SubmissionRepo,
) Converters {
	out := Converters{}
	for _, c := range []Converter{
		&directConverter{repo: direct},
		&quizElementConverter{repo: quizElements},
		&submissionConverter{repo: submissions},
	} {
		out[c.Class()] = c
	}
	return out
}

func (cs Converters) For(class registry.MaterialClass) (Converter, error) {
	if c, ok := cs[class]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("no converter for material class %q", class)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toColumns(m *materials.Material) materials.Columns {
	c := materials.Columns{
		Type:         string(m.Type),
		Title:        m.Title,
		Description:  m.Description,
		PreviewAsset: strPtr(m.PreviewImage),
		AuthorID:     m.AuthorID,
		CreatedAt:    m.CreatedAt,
		EditedAt:     m.EditedAt,
	}
	if m.Type.UsesAsset() {
		c.PayloadAsset = strPtr(m.Payload.AssetID)
	} else {
		text := m.Payload.Text
		c.PayloadText = &text
	}
	return c
}

func fromColumns(c materials.Columns, m *materials.Material) {
	m.Type = materials.Type(c.Type)
	m.Title = c.Title
	m.Description = c.Description
	m.Payload = materials.Payload{AssetID: strVal(c.PayloadAsset), Text: strVal(c.PayloadText)}
	m.PreviewImage = strVal(c.PreviewAsset)
	m.AuthorID = c.AuthorID
	m.CreatedAt = c.CreatedAt
	m.EditedAt = c.EditedAt
}

// directConverter stores appointment materials in the material table.
type directConverter struct {
	repo materialrepo.MaterialRowRepo
}

func (directConverter) Class() registry.MaterialClass { return registry.ClassDirect }

func (c *directConverter) toMaterial(parent materials.ParentRef, row *materials.MaterialRow) *materials.Material {
	m := &materials.Material{RowID: row.ID, UUID: row.UUID, Parent: parent, Position: row.Position}
	fromColumns(row.Columns, m)
	return m
}

func (c *directConverter) toRow(m *materials.Material) *materials.MaterialRow {
	return &materials.MaterialRow{
		ID:            m.RowID,
		UUID:          m.UUID,
		AppointmentID: m.Parent.ID,
		Position:      m.Position,
		Columns:       toColumns(m),
	}
}

func (c *directConverter) List(dbc dbctx.Context, parent materials.ParentRef) ([]*materials.Material, error) {
	rows, err := c.repo.ListByAppointment(dbc, parent.ID)
	if err != nil {
		return nil, err
	}
	out := make([]*materials.Material, 0, len(rows))
	for _, row := range rows {
		out = append(out, c.toMaterial(parent, row))
	}
	return out, nil
}

func (c *directConverter) Get(dbc dbctx.Context, parent materials.ParentRef, externalID string) (*materials.Material, error) {
	row, err := c.repo.GetByUUID(dbc, parent.ID, externalID)
	if err != nil || row == nil {
		return nil, err
	}
	return c.toMaterial(parent, row), nil
}

func (c *directConverter) NextPosition(dbc dbctx.Context, parent materials.ParentRef) (int, error) {
	max, err := c.repo.MaxPosition(dbc, parent.ID)
	return max + 1, err
}

func (c *directConverter) Insert(dbc dbctx.Context, m *materials.Material) error {
	if m.RowID == uuid.Nil {
		m.RowID = uuid.New()
	}
	return c.repo.Create(dbc, c.toRow(m))
}

func (c *directConverter) Save(dbc dbctx.Context, m *materials.Material) error {
	return c.repo.Save(dbc, c.toRow(m))
}

func (c *directConverter) Remove(dbc dbctx.Context, m *materials.Material) error {
	return c.repo.SoftDelete(dbc, m.RowID)
}

// quizElementConverter stores question and answer materials in the
// quiz_element table, which names its columns differently.
type quizElementConverter struct {
	repo materialrepo.QuizElementRepo
}

func (quizElementConverter) Class() registry.MaterialClass { return registry.ClassQuizElement }

func (c *quizElementConverter) toMaterial(parent materials.ParentRef, row *materials.QuizElementRow) *materials.Material {
	kind := materials.Type(row.MediaKind)
	m := &materials.Material{
		RowID:        row.ID,
		UUID:         row.UUID,
		Parent:       parent,
		Position:     row.Seq,
		Type:         kind,
		Title:        row.Heading,
		Description:  row.Caption,
		PreviewImage: strVal(row.PosterRef),
		AuthorID:     row.CreatedBy,
		CreatedAt:    row.CreatedAt,
		EditedAt:     row.UpdatedAt,
	}
	if kind.UsesAsset() {
		m.Payload.AssetID = strVal(row.MediaRef)
	} else {
		m.Payload.Text = strVal(row.Body)
	}
	return m
}

func (c *quizElementConverter) toRow(m *materials.Material) *materials.QuizElementRow {
	row := &materials.QuizElementRow{
		ID:        m.RowID,
		UUID:      m.UUID,
		OwnerKind: string(m.Parent.Kind),
		OwnerID:   m.Parent.ID,
		Seq:       m.Position,
		MediaKind: string(m.Type),
		Heading:   m.Title,
		Caption:   m.Description,
		PosterRef: strPtr(m.PreviewImage),
		CreatedBy: m.AuthorID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.EditedAt,
	}
	if m.Type.UsesAsset() {
		row.MediaRef = strPtr(m.Payload.AssetID)
	} else {
		text := m.Payload.Text
		row.Body = &text
	}
	return row
}

func (c *quizElementConverter) List(dbc dbctx.Context, parent materials.ParentRef) ([]*materials.Material, error) {
	rows, err := c.repo.ListByOwner(dbc, string(parent.Kind), parent.ID)
	if err != nil {
		return nil, err
	}
	out := make([]*materials.Material, 0, len(rows))
	for _, row := range rows {
		out = append(out, c.toMaterial(parent, row))
	}
	return out, nil
}

func (c *quizElementConverter) Get(dbc dbctx.Context, parent materials.ParentRef, externalID string) (*materials.Material, error) {
	row, err := c.repo.GetByUUID(dbc, string(parent.Kind), parent.ID, externalID)
	if err != nil || row == nil {
		return nil, err
	}
	return c.toMaterial(parent, row), nil
}

func (c *quizElementConverter) NextPosition(dbc dbctx.Context, parent materials.ParentRef) (int, error) {
	max, err := c.repo.MaxSeq(dbc, string(parent.Kind), parent.ID)
	return max + 1, err
}

func (c *quizElementConverter) Insert(dbc dbctx.Context, m *materials.Material) error {
	if m.RowID == uuid.Nil {
		m.RowID = uuid.New()
	}
	return c.repo.Create(dbc, c.toRow(m))
}

func (c *quizElementConverter) Save(dbc dbctx.Context, m *materials.Material) error {
	return c.repo.Save(dbc, c.toRow(m))
}

func (c *quizElementConverter) Remove(dbc dbctx.Context, m *materials.Material) error {
	return c.repo.SoftDelete(dbc, m.RowID)
}

// submissionConverter stores homework submissions with their final flag and cert link.
type submissionConverter struct {
	repo materialrepo.SubmissionRepo
}

func (submissionConverter) Class() registry.MaterialClass { return registry.ClassSubmission }

func (c *submissionConverter) toMaterial(parent materials.ParentRef, row *materials.SubmissionRow) *materials.Material {
	m := &materials.Material{
		RowID:      row.ID,
		UUID:       row.UUID,
		Parent:     parent,
		Position:   row.Position,
		Submission: &materials.SubmissionState{Final: row.Final, FinalCertID: row.FinalCertID},
	}
	fromColumns(row.Columns, m)
	return m
}

func (c *submissionConverter) toRow(m *materials.Material) *materials.SubmissionRow {
	row := &materials.SubmissionRow{
		ID:       m.RowID,
		UUID:     m.UUID,
		SlotID:   m.Parent.ID,
		Position: m.Position,
		Columns:  toColumns(m),
	}
	if m.Submission != nil {
		row.Final = m.Submission.Final
		row.FinalCertID = m.Submission.FinalCertID
	}
	return row
}

func (c *submissionConverter) List(dbc dbctx.Context, parent materials.ParentRef) ([]*materials.Material, error) {
	rows, err := c.repo.ListBySlot(dbc, parent.ID)
	if err != nil {
		return nil, err
	}
	out := make([]*materials.Material, 0, len(rows))
	for _, row := range rows {
		out = append(out, c.toMaterial(parent, row))
	}
	return out, nil
}

func (c *submissionConverter) Get(dbc dbctx.Context, parent materials.ParentRef, externalID string) (*materials.Material, error) {
	row, err := c.repo.GetByUUID(dbc, parent.ID, externalID)
	if err != nil || row == nil {
		return nil, err
	}
	return c.toMaterial(parent, row), nil
}

func (c *submissionConverter) NextPosition(dbc dbctx.Context, parent materials.ParentRef) (int, error) {
	max, err := c.repo.MaxPosition(dbc, parent.ID)
	return max + 1, err
}

func (c *submissionConverter) Insert(dbc dbctx.Context, m *materials.Material) error {
	if m.RowID == uuid.Nil {
		m.RowID = uuid.New()
	}
	if m.Submission == nil {
		m.Submission = &materials.SubmissionState{}
	}
	return c.repo.Create(dbc, c.toRow(m))
}

func (c *submissionConverter) Save(dbc dbctx.Context, m *materials.Material) error {
	return c.repo.Save(dbc, c.toRow(m))
}

func (c *submissionConverter) Remove(dbc dbctx.Context, m *materials.Material) error {
	return c.repo.SoftDelete(dbc, m.RowID)
}
