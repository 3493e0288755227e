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

// MaterialHandler serves the material collection of every parent section,
// submissions under homework slots included.
type MaterialHandler struct {
	log       *logger.Logger
	tx        aggregates.TxRunner
	reg       *registry.Registry
	materials services.MaterialService
}

func NewMaterialHandler(log *logger.Logger, tx aggregates.TxRunner, reg *registry.Registry, materials services.MaterialService) *MaterialHandler {
	return &MaterialHandler{
		log:       log.With("handler", "MaterialHandler"),
		tx:        tx,
		reg:       reg,
		materials: materials,
	}
}

// Mount registers the collection routes of section on rg. Unknown sections panic at startup.
func (h *MaterialHandler) Mount(rg gin.IRoutes, section string) {
	info, err := h.reg.MaterialParent(section)
	if err != nil {
		panic(err)
	}
	b := info.Material
	base := "/" + section + "/:pid/" + b.ListKey
	rg.GET(base, h.list(section, b))
	rg.POST(base, h.add(section, b))
	rg.PUT(base, h.replace(section, b))
	rg.GET(base+"/:id", h.get(section, b))
	rg.PUT(base+"/:id", h.edit(section, b))
	rg.DELETE(base+"/:id", h.remove(section))
}

// GET /{section}/:pid/materials
func (h *MaterialHandler) list(section string, b *registry.MaterialBinding) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := ctxutil.CurrentUser(c.Request.Context())
		dbc := dbctx.Context{Ctx: c.Request.Context()}
		parent, err := h.materials.ResolveParent(dbc, section, c.Param("pid"))
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		views, err := h.materials.List(dbc, parent, u)
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		response.RespondOK(c, gin.H{b.ListKey: views})
	}
}

// GET /{section}/:pid/materials/:id
func (h *MaterialHandler) get(section string, b *registry.MaterialBinding) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := ctxutil.CurrentUser(c.Request.Context())
		dbc := dbctx.Context{Ctx: c.Request.Context()}
		parent, err := h.materials.ResolveParent(dbc, section, c.Param("pid"))
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		m, err := h.materials.Get(dbc, parent, c.Param("id"), u)
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		view, err := h.materials.FormatInfo(dbc, m, u)
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		response.RespondOK(c, gin.H{b.DataKey: view})
	}
}

// POST /{section}/:pid/materials
// body: { "material": { "type": "...", "title": "...", "payload": ... } }
func (h *MaterialHandler) add(section string, b *registry.MaterialBinding) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := bodyObject(c, "materials.create", b.DataKey)
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		u := ctxutil.CurrentUser(c.Request.Context())
		var view map[string]any
		err = h.tx.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
			parent, err := h.materials.ResolveParent(dbc, section, c.Param("pid"))
			if err != nil {
				return err
			}
			m, err := h.materials.Create(dbc, data, parent, u)
			if err != nil {
				return err
			}
			view, err = h.materials.FormatInfo(dbc, m, u)
			return err
		})
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		response.RespondCreated(c, gin.H{b.DataKey: view})
	}
}

// PUT /{section}/:pid/materials/:id
func (h *MaterialHandler) edit(section string, b *registry.MaterialBinding) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := bodyObject(c, "materials.edit", b.DataKey)
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		u := ctxutil.CurrentUser(c.Request.Context())
		var view map[string]any
		err = h.tx.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
			parent, err := h.materials.ResolveParent(dbc, section, c.Param("pid"))
			if err != nil {
				return err
			}
			existing, err := h.materials.Get(dbc, parent, c.Param("id"), u)
			if err != nil {
				return err
			}
			m, err := h.materials.Edit(dbc, data, parent, existing, u, true)
			if err != nil {
				return err
			}
			view, err = h.materials.FormatInfo(dbc, m, u)
			return err
		})
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		response.RespondOK(c, gin.H{b.DataKey: view})
	}
}

// DELETE /{section}/:pid/materials/:id
func (h *MaterialHandler) remove(section string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := ctxutil.CurrentUser(c.Request.Context())
		err := h.tx.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
			parent, err := h.materials.ResolveParent(dbc, section, c.Param("pid"))
			if err != nil {
				return err
			}
			m, err := h.materials.Get(dbc, parent, c.Param("id"), u)
			if err != nil {
				return err
			}
			return h.materials.Delete(dbc, parent, m, u, true)
		})
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		response.RespondEmpty(c)
	}
}

// PUT /{section}/:pid/materials
// body: { "materials": [ ... ] } replaces the whole collection in order.
func (h *MaterialHandler) replace(section string, b *registry.MaterialBinding) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := bodyList(c, "materials.update_list", b.ListKey)
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		u := ctxutil.CurrentUser(c.Request.Context())
		var views []map[string]any
		err = h.tx.InTx(c.Request.Context(), func(dbc dbctx.Context) error {
			parent, err := h.materials.ResolveParent(dbc, section, c.Param("pid"))
			if err != nil {
				return err
			}
			views, err = h.materials.UpdateMaterialsList(dbc, items, parent, u)
			return err
		})
		if err != nil {
			response.RespondError(c, h.log, err)
			return
		}
		response.RespondOK(c, gin.H{b.ListKey: views})
	}
}
