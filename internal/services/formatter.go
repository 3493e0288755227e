package services

import (
	"fmt"

	"github.com/yungbote/materialhub-backend/internal/domain/entity"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

// FieldCallback computes the projected value of a field with a semantic type.
type FieldCallback func(dbc dbctx.Context, value any) (any, error)

type ResponseFormatter interface {
	// Project copies the allowed view fields of e. A nil allow-list means the
	// entity's default readable fields.
	Project(dbc dbctx.Context, e entity.Entity, allowed []string) (map[string]any, error)
	ProjectList(dbc dbctx.Context, es []entity.Entity, allowed []string) ([]map[string]any, error)
}

type responseFormatter struct {
	log       *logger.Logger
	callbacks map[entity.FieldType]FieldCallback
}

func NewResponseFormatter(baseLog *logger.Logger, callbacks map[entity.FieldType]FieldCallback) ResponseFormatter {
	cbs := make(map[entity.FieldType]FieldCallback, len(callbacks))
	for t, cb := range callbacks {
		cbs[t] = cb
	}
	return &responseFormatter{
		log:       baseLog.With("service", "ResponseFormatter"),
		callbacks: cbs,
	}
}

func (f *responseFormatter) Project(dbc dbctx.Context, e entity.Entity, allowed []string) (map[string]any, error) {
	const op = "formatter.project"
	v, ok := e.(entity.Viewable)
	if !ok {
		return nil, apierr.Internal(op, fmt.Errorf("%T has no view", e))
	}
	if allowed == nil {
		allowed = v.ReadableFields()
	}
	allow := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		allow[name] = struct{}{}
	}

	out := make(map[string]any, len(allow))
	for _, field := range v.ViewFields() {
		if _, ok := allow[field.Name]; !ok {
			continue
		}
		if field.Type == entity.FieldPlain {
			out[field.Name] = field.Value
			continue
		}
		cb, ok := f.callbacks[field.Type]
		if !ok {
			f.log.Error("No callback registered for field type", "field", field.Name, "field_type", field.Type, "entity", fmt.Sprintf("%T", e))
			return nil, apierr.New(apierr.KindUnknownType, op, fmt.Sprintf("unknown field type %q", field.Type), nil)
		}
		val, err := cb(dbc, field.Value)
		if err != nil {
			return nil, err
		}
		out[field.Name] = val
	}
	return out, nil
}

func (f *responseFormatter) ProjectList(dbc dbctx.Context, es []entity.Entity, allowed []string) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(es))
	for _, e := range es {
		view, err := f.Project(dbc, e, allowed)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}
