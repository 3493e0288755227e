package services

import (
	"context"

	"github.com/google/uuid"

	learningrepo "github.com/yungbote/materialhub-backend/internal/data/repos/learning"
	"github.com/yungbote/materialhub-backend/internal/domain/entity"
	"github.com/yungbote/materialhub-backend/internal/domain/user"
	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

// PermissionGate answers edit and read questions about entities. Denials are
// reported as NotFound so callers cannot probe for existence.
type PermissionGate interface {
	CanEdit(e entity.Entity, u *user.User) bool
	RequireEdit(e entity.Entity, u *user.User, what string) error
	IsEnrolled(dbc dbctx.Context, e entity.Entity, u *user.User) (bool, error)
	CanRead(dbc dbctx.Context, e entity.Entity, u *user.User) (bool, error)
	RequireRead(dbc dbctx.Context, e entity.Entity, u *user.User, what string) error
}

type permissionGate struct {
	log          *logger.Logger
	participants learningrepo.ParticipantRepo
}

func NewPermissionGate(baseLog *logger.Logger, participants learningrepo.ParticipantRepo) PermissionGate {
	return &permissionGate{
		log:          baseLog.With("service", "PermissionGate"),
		participants: participants,
	}
}

// CanEdit is true for the owner of e and for admins. Entities without an
// owner are editable by admins only.
func (g *permissionGate) CanEdit(e entity.Entity, u *user.User) bool {
	if e == nil || u == nil || u.ID == uuid.Nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	owned, ok := e.(entity.Owned)
	return ok && owned.OwnerUserID() == u.ID
}

func (g *permissionGate) RequireEdit(e entity.Entity, u *user.User, what string) error {
	if g.CanEdit(e, u) {
		return nil
	}
	g.log.Debug("Edit denied", "what", what, "user_id", userID(u))
	return notFound("permissions.edit", what)
}

// IsEnrolled is true when u participates in the appointment e is scoped to.
func (g *permissionGate) IsEnrolled(dbc dbctx.Context, e entity.Entity, u *user.User) (bool, error) {
	if e == nil || u == nil {
		return false, nil
	}
	scoped, ok := e.(entity.Scoped)
	if !ok {
		return false, nil
	}
	return g.participants.IsParticipant(dbc, scoped.AppointmentScope(), u.ID)
}

func (g *permissionGate) CanRead(dbc dbctx.Context, e entity.Entity, u *user.User) (bool, error) {
	if g.CanEdit(e, u) {
		return true, nil
	}
	return g.IsEnrolled(dbc, e, u)
}

func (g *permissionGate) RequireRead(dbc dbctx.Context, e entity.Entity, u *user.User, what string) error {
	ok, err := g.CanRead(dbc, e, u)
	if err != nil {
		return err
	}
	if !ok {
		g.log.Debug("Read denied", "what", what, "user_id", userID(u))
		return notFound("permissions.read", what)
	}
	return nil
}

func notFound(op, what string) error {
	if what == "" {
		what = "entity"
	}
	return apierr.NotFound(op, what+" not found")
}

func userID(u *user.User) uuid.UUID {
	if u == nil {
		return uuid.Nil
	}
	return u.ID
}

func ctxOf(dbc dbctx.Context) context.Context {
	if dbc.Ctx == nil {
		return context.Background()
	}
	return dbc.Ctx
}
