package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/materialhub-backend/internal/data/aggregates"
	"github.com/yungbote/materialhub-backend/internal/http/response"
	"github.com/yungbote/materialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
	"github.com/yungbote/materialhub-backend/internal/registry"
	"github.com/yungbote/materialhub-backend/internal/services"
)

// EntityHandler serves generic CRUD for every child route in the registry.
type EntityHandler struct {
	log      *logger.Logger
	tx       aggregates.TxRunner
	reg      *registry.Registry
	entities services.EntityService
}

func NewEntityHandler(log *logger.Logger, tx aggregates.TxRunner, reg *registry.Registry, entities services.EntityService) *EntityHandler {
	return &EntityHandler{
		log:      log.With("handler", "EntityHandler"),
		tx:       tx,
		reg:      reg,
		entities: entities,
	}
}

// Mount registers /{parent}/:pid/{children}[/:id] for every child route and
// GET /entities/:type/:id.
func (h *EntityHandler) Mount(rg gin.IRoutes) {
	for _, route := range h.reg.Routes() {
		route := route
		child, err := h.reg.Lookup(route.Child)
		if err != nil {
			panic(err)
		}
		base := "/" + h.reg.Section(route.Parent) + "/:pid/" + child.Plural
		rg.GET(base, h.list(&route, child))
		rg.POST(base, h.add(&route, child))
		rg.GET(base+"/:id", h.get(&route, child))
		rg.PUT(base+"/:id", h.edit(&route, child))
		rg.DELETE(base+"/:id", h.remove(&route))
	}
	rg.GET("/entities/:type/:id", h.Find)
}

func (h *EntityHandler) list(route *registry.ChildRoute, child *registry.TypeInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := ctxutil.CurrentUser(c.Request.Context())
		views, err := h.entities.List(dbctx.Context{Ctx: c.Request.Context()}, route, c.Param("pid"), u)
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		response.RespondOK(c, gin.H{child.Plural: views})
	}
}

func (h *EntityHandler) get(route *registry.ChildRoute, child *registry.TypeInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := ctxutil.CurrentUser(c.Request.Context())
		view, err := h.entities.Get(dbctx.Context{Ctx: c.Request.Context()}, route, c.Param("pid"), c.Param("id"), u)
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		response.RespondOK(c, gin.H{child.DataKey: view})
	}
}

func (h *EntityHandler) add(route *registry.ChildRoute, child *registry.TypeInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := bodyObject(c, "entities.add", child.DataKey)
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		u := ctxutil.CurrentUser(c.Request.Context())
		var view map[string]any
		err = h.tx.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
			view, err = h.entities.Add(dbc, route, c.Param("pid"), data, u)
			return err
		})
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		response.RespondCreated(c, gin.H{child.DataKey: view})
	}
}

func (h *EntityHandler) edit(route *registry.ChildRoute, child *registry.TypeInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := bodyObject(c, "entities.edit", child.DataKey)
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		u := ctxutil.CurrentUser(c.Request.Context())
		var view map[string]any
		err = h.tx.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
			view, err = h.entities.Edit(dbc, route, c.Param("pid"), c.Param("id"), data, u)
			return err
		})
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		response.RespondOK(c, gin.H{child.DataKey: view})
	}
}

func (h *EntityHandler) remove(route *registry.ChildRoute) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := ctxutil.CurrentUser(c.Request.Context())
		err := h.tx.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
			return h.entities.Delete(dbc, route, c.Param("pid"), c.Param("id"), u)
		})
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		response.RespondEmpty(c)
	}
}

// GET /entities/:type/:id
func (h *EntityHandler) Find(c *gin.Context) {
	u := ctxutil.CurrentUser(c.Request.Context())
	view, err := h.entities.Find(dbctx.Context{Ctx: c.Request.Context()}, c.Param("type"), c.Param("id"), u)
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, view)
}
