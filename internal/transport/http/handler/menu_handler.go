package handler

import (
	"github.com/gin-gonic/gin"

	"go-cms-backend/internal/service"
	"go-cms-backend/internal/transport/http/response"
)

type MenuHandler struct {
	menus *service.MenuService
}

func NewMenuHandler(menus *service.MenuService) *MenuHandler {
	return &MenuHandler{menus: menus}
}

func (h *MenuHandler) MountAuthed(g *gin.RouterGroup) {
	g.GET("/menus", h.list)
	g.GET("/menus/:id", h.get)
	g.POST("/menus", h.create)
	g.PUT("/menus/:id", h.update)
	g.DELETE("/menus/:id", h.delete)
}

func (h *MenuHandler) list(c *gin.Context) {
	menus, err := h.menus.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "menu")
		return
	}
	response.OK(c, menus)
}

func (h *MenuHandler) get(c *gin.Context) {
	menu, err := h.menus.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "menu")
		return
	}
	response.OK(c, menu)
}

func (h *MenuHandler) create(c *gin.Context) {
	var in service.MenuCreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err)
		return
	}
	menu, err := h.menus.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		respondError(c, err, "menu")
		return
	}
	response.Created(c, "Menu created successfully", menu)
}

func (h *MenuHandler) update(c *gin.Context) {
	var in service.MenuUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err)
		return
	}
	menu, err := h.menus.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err, "menu")
		return
	}
	response.Message(c, "Menu updated successfully", menu)
}

func (h *MenuHandler) delete(c *gin.Context) {
	if err := h.menus.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "menu")
		return
	}
	response.Message(c, "Menu deleted successfully", nil)
}
