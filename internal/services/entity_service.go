package services

import (
	"time"

	"github.com/yungbote/materialhub-backend/internal/data/aggregates"
	"github.com/yungbote/materialhub-backend/internal/data/repos/entities"
	"github.com/yungbote/materialhub-backend/internal/domain/entity"
	"github.com/yungbote/materialhub-backend/internal/domain/user"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
	"github.com/yungbote/materialhub-backend/internal/registry"
)

// EntityService is generic CRUD for the child routes declared in the registry.
type EntityService interface {
	List(dbc dbctx.Context, route *registry.ChildRoute, parentID string, u *user.User) ([]map[string]any, error)
	Get(dbc dbctx.Context, route *registry.ChildRoute, parentID, id string, u *user.User) (map[string]any, error)
	Add(dbc dbctx.Context, route *registry.ChildRoute, parentID string, data map[string]any, u *user.User) (map[string]any, error)
	Edit(dbc dbctx.Context, route *registry.ChildRoute, parentID, id string, data map[string]any, u *user.User) (map[string]any, error)
	Delete(dbc dbctx.Context, route *registry.ChildRoute, parentID, id string, u *user.User) error
	Find(dbc dbctx.Context, typeName, id string, u *user.User) (map[string]any, error)
}

type entityService struct {
	log       *logger.Logger
	reg       *registry.Registry
	entities  entities.EntityRepo
	factory   EntityFactory
	perms     PermissionGate
	formatter ResponseFormatter
	hooks     aggregates.Hooks
}

func NewEntityService(
	baseLog *logger.Logger,
	reg *registry.Registry,
	repo entities.EntityRepo,
	factory EntityFactory,
	perms PermissionGate,
	formatter ResponseFormatter,
	hooks aggregates.Hooks,
) EntityService {
	if hooks == nil {
		hooks = aggregates.NoopHooks()
	}
	return &entityService{
		log:       baseLog.With("service", "EntityService"),
		reg:       reg,
		entities:  repo,
		factory:   factory,
		perms:     perms,
		formatter: formatter,
		hooks:     hooks,
	}
}

func (s *entityService) find(dbc dbctx.Context, op, typeName, id string) (*registry.TypeInfo, entity.Entity, error) {
	info, err := s.reg.Lookup(typeName)
	if err != nil {
		return nil, nil, err
	}
	e, err := s.entities.Find(dbc, info.Model, id)
	if err != nil {
		return nil, nil, err
	}
	if e == nil {
		return nil, nil, notFound(op, info.Name)
	}
	return info, e, nil
}

// child loads id and checks it hangs under parent.
func (s *entityService) child(dbc dbctx.Context, op string, route *registry.ChildRoute, parent entity.Entity, id string) (*registry.TypeInfo, entity.Entity, error) {
	info, e, err := s.find(dbc, op, route.Child, id)
	if err != nil {
		return nil, nil, err
	}
	c, ok := e.(entity.ChildOf)
	if !ok || c.ParentPK() != parent.PK() {
		return nil, nil, notFound(op, info.Name)
	}
	return info, e, nil
}

func (s *entityService) List(dbc dbctx.Context, route *registry.ChildRoute, parentID string, u *user.User) (views []map[string]any, err error) {
	const op = "entities.list"
	start := time.Now()
	defer func() { aggregates.Observe(s.hooks, op, start, err) }()

	pinfo, parent, err := s.find(dbc, op, route.Parent, parentID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireEdit(parent, u, pinfo.Name); err != nil {
		return nil, err
	}
	cinfo, err := s.reg.Lookup(route.Child)
	if err != nil {
		return nil, err
	}
	list, err := s.entities.ListChildren(dbc, cinfo.Model, route.ParentColumn, parent.PK())
	if err != nil {
		return nil, err
	}
	return s.formatter.ProjectList(dbc, list, nil)
}

func (s *entityService) Get(dbc dbctx.Context, route *registry.ChildRoute, parentID, id string, u *user.User) (map[string]any, error) {
	const op = "entities.get"
	pinfo, parent, err := s.find(dbc, op, route.Parent, parentID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireEdit(parent, u, pinfo.Name); err != nil {
		return nil, err
	}
	_, e, err := s.child(dbc, op, route, parent, id)
	if err != nil {
		return nil, err
	}
	return s.formatter.Project(dbc, e, nil)
}

func (s *entityService) Add(dbc dbctx.Context, route *registry.ChildRoute, parentID string, data map[string]any, u *user.User) (view map[string]any, err error) {
	const op = "entities.add"
	start := time.Now()
	defer func() { aggregates.Observe(s.hooks, op, start, err) }()

	pinfo, parent, err := s.find(dbc, op, route.Parent, parentID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireEdit(parent, u, pinfo.Name); err != nil {
		return nil, err
	}
	args := make(map[string]any, len(data)+1)
	for k, v := range data {
		args[k] = v
	}
	args[route.ParentField] = parent

	e, err := s.factory.Build(dbc, route.Child, args, route.Refs, u)
	if err != nil {
		return nil, err
	}
	if a, ok := parent.(entity.ChildAttacher); ok && a.AttachChild(route.Child, e.ExternalID()) {
		if err := s.entities.Save(dbc, parent); err != nil {
			return nil, err
		}
	}
	return s.formatter.Project(dbc, e, nil)
}

func (s *entityService) Edit(dbc dbctx.Context, route *registry.ChildRoute, parentID, id string, data map[string]any, u *user.User) (view map[string]any, err error) {
	const op = "entities.edit"
	start := time.Now()
	defer func() { aggregates.Observe(s.hooks, op, start, err) }()

	pinfo, parent, err := s.find(dbc, op, route.Parent, parentID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireEdit(parent, u, pinfo.Name); err != nil {
		return nil, err
	}
	cinfo, e, err := s.child(dbc, op, route, parent, id)
	if err != nil {
		return nil, err
	}
	a, ok := e.(entity.Assignable)
	if !ok {
		return nil, apierr.BadDataf(op, "%s cannot be edited", cinfo.Name)
	}
	if err := a.Assign(data); err != nil {
		return nil, apierr.BadDataf(op, "invalid %s: %v", cinfo.Name, err)
	}
	if err := s.entities.Save(dbc, e); err != nil {
		return nil, err
	}
	return s.formatter.Project(dbc, e, nil)
}

func (s *entityService) Delete(dbc dbctx.Context, route *registry.ChildRoute, parentID, id string, u *user.User) (err error) {
	const op = "entities.delete"
	start := time.Now()
	defer func() { aggregates.Observe(s.hooks, op, start, err) }()

	pinfo, parent, err := s.find(dbc, op, route.Parent, parentID)
	if err != nil {
		return err
	}
	if err := s.perms.RequireEdit(parent, u, pinfo.Name); err != nil {
		return err
	}
	_, e, err := s.child(dbc, op, route, parent, id)
	if err != nil {
		return err
	}
	if d, ok := parent.(entity.ChildDetacher); ok && d.DetachChild(route.Child, e.ExternalID()) {
		if err := s.entities.Save(dbc, parent); err != nil {
			return err
		}
	}
	return s.entities.Delete(dbc, e)
}

// Find projects any registered entity by external id. Only editors may read it.
func (s *entityService) Find(dbc dbctx.Context, typeName, id string, u *user.User) (map[string]any, error) {
	const op = "entities.find"
	info, e, err := s.find(dbc, op, typeName, id)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireEdit(e, u, info.Name); err != nil {
		return nil, err
	}
	return s.formatter.Project(dbc, e, nil)
}
