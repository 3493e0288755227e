package services

import (
	"github.com/yungbote/materialhub-backend/internal/data/repos/entities"
	"github.com/yungbote/materialhub-backend/internal/domain/entity"
	"github.com/yungbote/materialhub-backend/internal/domain/user"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
	"github.com/yungbote/materialhub-backend/internal/registry"
)

// EntityFactory constructs registered entities from untyped request data.
type EntityFactory interface {
	Build(dbc dbctx.Context, typeName string, data map[string]any, refs []registry.ReferenceSpec, actor *user.User) (entity.Entity, error)
}

type entityFactory struct {
	log      *logger.Logger
	reg      *registry.Registry
	entities entities.EntityRepo
}

func NewEntityFactory(baseLog *logger.Logger, reg *registry.Registry, repo entities.EntityRepo) EntityFactory {
	return &entityFactory{
		log:      baseLog.With("service", "EntityFactory"),
		reg:      reg,
		entities: repo,
	}
}

// Build resolves references, binds builder params, stamps the author, assigns
// leftover keys and persists the result. Nothing is written when any step fails.
func (f *entityFactory) Build(dbc dbctx.Context, typeName string, data map[string]any, refs []registry.ReferenceSpec, actor *user.User) (entity.Entity, error) {
	const op = "entities.build"
	info, err := f.reg.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	if info.Builder == nil {
		f.log.Error("Type has no builder", "type", info.Name)
		return nil, apierr.UnknownType(op, typeName)
	}

	args := make(map[string]any, len(data))
	for k, v := range data {
		args[k] = v
	}
	if err := f.resolveRefs(dbc, op, args, refs); err != nil {
		return nil, err
	}

	bound := registry.Args{}
	for _, p := range info.Builder.Params {
		v, ok := args[p.Name]
		delete(args, p.Name)
		if ok && v != nil {
			bound[p.Name] = v
			continue
		}
		if p.Required {
			f.log.Warn("Missing required field", "type", info.Name, "field", p.Name)
			return nil, apierr.MissingRequiredField(op, info.Name, p.Name)
		}
		bound[p.Name] = p.Default
	}

	e, err := info.Builder.New(bound)
	if err != nil {
		return nil, err
	}
	if a, ok := e.(entity.Authored); ok && actor != nil {
		a.SetAuthor(actor.ID)
	}
	if len(args) > 0 {
		if a, ok := e.(entity.Assignable); ok {
			if err := a.Assign(args); err != nil {
				return nil, apierr.BadDataf(op, "invalid %s: %v", info.Name, err)
			}
		}
	}
	if err := f.entities.Create(dbc, e); err != nil {
		return nil, err
	}
	f.log.Debug("Entity created", "type", info.Name, "uuid", e.ExternalID())
	return e, nil
}

// resolveRefs replaces each referenced external id with its entity, stored under
// the reference's target key. Empty references are left unset.
func (f *entityFactory) resolveRefs(dbc dbctx.Context, op string, args map[string]any, refs []registry.ReferenceSpec) error {
	for _, ref := range refs {
		raw, ok := args[ref.Field]
		if !ok {
			continue
		}
		delete(args, ref.Field)
		if raw == nil {
			continue
		}
		id, ok := raw.(string)
		if !ok {
			return apierr.BadDataf(op, "field %q must be an id", ref.Field)
		}
		if id == "" {
			continue
		}
		target, err := f.reg.Lookup(ref.Type)
		if err != nil {
			return err
		}
		e, err := f.entities.Find(dbc, target.Model, id)
		if err != nil {
			return err
		}
		if e == nil {
			return apierr.ReferenceNotFound(op, ref.Field, id)
		}
		args[ref.Target()] = e
	}
	return nil
}
