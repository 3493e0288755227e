package materials

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type is immutable after creation and selects how the payload is read.
type Type string

const (
	TypeImage Type = "image"
	TypeVideo Type = "video"
	TypeText  Type = "text"
	TypeFile  Type = "file"
)

// TextPayloadURL is the payloadUrl reported for text materials.
const TextPayloadURL = "#"

func ParseType(raw string) (Type, bool) {
	switch t := Type(strings.TrimSpace(raw)); t {
	case TypeImage, TypeVideo, TypeText, TypeFile:
		return t, true
	default:
		return "", false
	}
}

// UsesAsset reports whether the payload is an asset reference rather than literal text.
func (t Type) UsesAsset() bool {
	return t == TypeImage || t == TypeVideo || t == TypeFile
}

// RequiresPreview reports whether a preview image is mandatory for the type.
func (t Type) RequiresPreview() bool {
	return t == TypeVideo
}

// ParentKind names the entity type that owns a material collection.
type ParentKind string

const (
	ParentAppointment  ParentKind = "appointment"
	ParentQuizQuestion ParentKind = "quizQuestion"
	ParentQuizAnswer   ParentKind = "quizAnswer"
	ParentHomeworkSlot ParentKind = "aptMaterialHii"
)

// ParentRef identifies the owning entity of a material.
type ParentRef struct {
	Kind       ParentKind
	ID         uuid.UUID
	ExternalID string
}

// Payload holds an asset external id for image/video/file, literal text for text.
type Payload struct {
	AssetID string
	Text    string
}

// SubmissionState is only present on materials attached to a homework slot.
type SubmissionState struct {
	Final       bool
	FinalCertID *uuid.UUID
}

// Material is the storage-independent view every converter reads and writes.
type Material struct {
	RowID        uuid.UUID
	UUID         string
	Parent       ParentRef
	Position     int
	Type         Type
	Title        string
	Description  *string
	Payload      Payload
	PreviewImage string
	AuthorID     uuid.UUID
	CreatedAt    time.Time
	EditedAt     time.Time
	Submission   *SubmissionState
}

func (m *Material) IsSubmission() bool {
	return m != nil && m.Submission != nil
}

// IsFinal is false for anything that is not a final submission.
func (m *Material) IsFinal() bool {
	return m.IsSubmission() && m.Submission.Final
}

// AssetIDs lists every asset the material references.
func (m *Material) AssetIDs() []string {
	var out []string
	if m.Type.UsesAsset() && m.Payload.AssetID != "" {
		out = append(out, m.Payload.AssetID)
	}
	if m.PreviewImage != "" {
		out = append(out, m.PreviewImage)
	}
	return out
}
