package handler

import (
	"github.com/gin-gonic/gin"

	"go-cms-backend/internal/service"
	"go-cms-backend/internal/transport/http/response"
)

type PageHandler struct {
	pages *service.PageService
}

func NewPageHandler(pages *service.PageService) *PageHandler {
	return &PageHandler{pages: pages}
}

func (h *PageHandler) MountAuthed(g *gin.RouterGroup) {
	g.GET("/pages", h.list)
	g.GET("/pages/:id", h.get)
	g.POST("/pages", h.create)
	g.PUT("/pages/:id", h.update)
	g.DELETE("/pages/:id", h.delete)
}

// MountAPI 公共读路径：发布页按 slug 查询（带缓存）
func (h *PageHandler) MountAPI(g *gin.RouterGroup) {
	g.GET("/public/pages/:slug", h.getPublished)
}

func (h *PageHandler) list(c *gin.Context) {
	pages, err := h.pages.List(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err, "page")
		return
	}
	response.OK(c, pages)
}

func (h *PageHandler) get(c *gin.Context) {
	page, err := h.pages.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "page")
		return
	}
	response.OK(c, page)
}

func (h *PageHandler) create(c *gin.Context) {
	var in service.PageCreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err)
		return
	}
	page, err := h.pages.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		respondError(c, err, "page")
		return
	}
	response.Created(c, "Page created successfully", page)
}

func (h *PageHandler) update(c *gin.Context) {
	var in service.PageUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err)
		return
	}
	page, err := h.pages.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err, "page")
		return
	}
	response.Message(c, "Page updated successfully", page)
}

func (h *PageHandler) delete(c *gin.Context) {
	if err := h.pages.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "page")
		return
	}
	response.Message(c, "Page deleted successfully", nil)
}

func (h *PageHandler) getPublished(c *gin.Context) {
	page, err := h.pages.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "page")
		return
	}
	response.OK(c, page)
}
