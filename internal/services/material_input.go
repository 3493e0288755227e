package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/materialhub-backend/internal/domain/entity"
	"github.com/yungbote/materialhub-backend/internal/domain/materials"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
)

// Keys clients may send back but never write.
var immutableMaterialKeys = []string{"type", "uuid", "createdAt", "editedAt", "payloadUrl", "authorName"}

var materialValidator = newMaterialValidator()

func newMaterialValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		return name
	})
	return v
}

// materialWire is one material block as sent by clients. Pointer and any
// fields stay nil when the key is absent.
type materialWire struct {
	Type         *string `mapstructure:"type"`
	Title        *string `mapstructure:"title"`
	Description  *string `mapstructure:"description"`
	Payload      any     `mapstructure:"payload"`
	PreviewImage any     `mapstructure:"previewImage"`
	Final        *bool   `mapstructure:"final"`
	UUID         *string `mapstructure:"uuid"`
}

// materialInput adds the set of keys present, so explicit nulls can clear fields.
type materialInput struct {
	materialWire
	present map[string]bool
}

type materialFields struct {
	Title       string `mapstructure:"title" validate:"required,max=255"`
	Description string `mapstructure:"description" validate:"max=4000"`
}

func decodeMaterialInput(op string, data map[string]any) (*materialInput, error) {
	in := &materialInput{present: make(map[string]bool, len(data))}
	for k := range data {
		in.present[k] = true
	}
	if err := entity.Decode(data, &in.materialWire); err != nil {
		return nil, apierr.New(apierr.KindBadData, op, "malformed material", err)
	}
	return in, nil
}

func (in *materialInput) has(key string) bool { return in.present[key] }

func (in *materialInput) externalID() string {
	if in == nil || in.UUID == nil {
		return ""
	}
	return strings.TrimSpace(*in.UUID)
}

// validateFields checks title and description as they will be stored.
func validateFields(op, title string, description *string) error {
	f := materialFields{Title: title}
	if description != nil {
		f.Description = *description
	}
	err := materialValidator.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return apierr.MissingRequiredField(op, "material", fe.Field())
		}
		return apierr.BadDataf(op, "field %q is too long", fe.Field())
	}
	return apierr.New(apierr.KindBadData, op, "invalid material", err)
}

func parseMaterialType(op string, raw *string) (materials.Type, error) {
	if raw == nil {
		return "", apierr.MissingRequiredField(op, "material", "type")
	}
	t, ok := materials.ParseType(*raw)
	if !ok {
		return "", apierr.BadDataf(op, "invalid material type %q", *raw)
	}
	return t, nil
}

// assetRef reads an asset reference sent as {"uuid": id} or as a bare id.
func assetRef(op, field string, v any) (string, error) {
	switch ref := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(ref), nil
	case map[string]any:
		id, ok := ref["uuid"].(string)
		if !ok {
			return "", apierr.BadDataf(op, "field %q must carry a uuid", field)
		}
		return strings.TrimSpace(id), nil
	default:
		return "", apierr.BadDataf(op, "field %q must be an asset reference", field)
	}
}

// payloadFor interprets the payload according to the material type.
func payloadFor(op string, t materials.Type, v any) (materials.Payload, error) {
	if t.UsesAsset() {
		id, err := assetRef(op, "payload", v)
		if err != nil {
			return materials.Payload{}, err
		}
		if id == "" {
			return materials.Payload{}, apierr.MissingRequiredField(op, "material", "payload")
		}
		return materials.Payload{AssetID: id}, nil
	}
	switch text := v.(type) {
	case string:
		return materials.Payload{Text: text}, nil
	case nil:
		return materials.Payload{}, apierr.MissingRequiredField(op, "material", "payload")
	default:
		return materials.Payload{}, apierr.BadData(op, `field "payload" must be text`)
	}
}

// stripImmutable removes read-only and create-only keys and reports which were dropped.
func stripImmutable(data map[string]any) (map[string]any, []string) {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	var dropped []string
	for _, k := range immutableMaterialKeys {
		if _, ok := out[k]; ok {
			delete(out, k)
			dropped = append(dropped, k)
		}
	}
	return out, dropped
}
