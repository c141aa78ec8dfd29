package handler

import (
	"github.com/gin-gonic/gin"

	"go-cms-backend/internal/service"
	"go-cms-backend/internal/transport/http/response"
)

type CollectionHandler struct {
	collections *service.CollectionService
}

func NewCollectionHandler(collections *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

func (h *CollectionHandler) MountAuthed(g *gin.RouterGroup) {
	g.GET("/collections", h.list)
	g.GET("/collections/:id", h.get)
	g.POST("/collections", h.create)
	g.PUT("/collections/:id", h.update)
	g.DELETE("/collections/:id", h.delete)
	g.POST("/collections/:id/items", h.createItem)
}

func (h *CollectionHandler) list(c *gin.Context) {
	cols, err := h.collections.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "collection")
		return
	}
	response.OK(c, cols)
}

func (h *CollectionHandler) get(c *gin.Context) {
	col, err := h.collections.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "collection")
		return
	}
	response.OK(c, col)
}

func (h *CollectionHandler) create(c *gin.Context) {
	var in service.CollectionCreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err)
		return
	}
	col, err := h.collections.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		respondError(c, err, "collection")
		return
	}
	response.Created(c, "Collection created successfully", col)
}

func (h *CollectionHandler) update(c *gin.Context) {
	var in service.CollectionUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err)
		return
	}
	col, err := h.collections.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err, "collection")
		return
	}
	response.Message(c, "Collection updated successfully", col)
}

func (h *CollectionHandler) delete(c *gin.Context) {
	if err := h.collections.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "collection")
		return
	}
	response.Message(c, "Collection deleted successfully", nil)
}

func (h *CollectionHandler) createItem(c *gin.Context) {
	var in service.ItemCreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err)
		return
	}
	item, err := h.collections.CreateItem(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err, "collection")
		return
	}
	response.Created(c, "Collection item created successfully", item)
}
