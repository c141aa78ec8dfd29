package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"go-cms-backend/internal/service"
	"go-cms-backend/internal/transport/http/response"
)

type FormHandler struct {
	forms *service.FormService
}

func NewFormHandler(forms *service.FormService) *FormHandler {
	return &FormHandler{forms: forms}
}

func (h *FormHandler) MountAuthed(g *gin.RouterGroup) {
	g.GET("/forms", h.list)
	g.GET("/forms/:id", h.get)
	g.POST("/forms", h.create)
	g.PUT("/forms/:id", h.update)
	g.DELETE("/forms/:id", h.delete)
	g.GET("/forms/:id/responses", h.listResponses)
}

// MountAPI 表单提交是公开入口（嵌在站点页面里）
func (h *FormHandler) MountAPI(g *gin.RouterGroup) {
	g.POST("/forms/:id/responses", h.submitResponse)
}

func (h *FormHandler) list(c *gin.Context) {
	forms, err := h.forms.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "form")
		return
	}
	response.OK(c, forms)
}

func (h *FormHandler) get(c *gin.Context) {
	form, err := h.forms.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "form")
		return
	}
	response.OK(c, form)
}

func (h *FormHandler) create(c *gin.Context) {
	var in service.FormCreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err)
		return
	}
	form, err := h.forms.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		respondError(c, err, "form")
		return
	}
	response.Created(c, "Form created successfully", form)
}

func (h *FormHandler) update(c *gin.Context) {
	var in service.FormUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err)
		return
	}
	form, err := h.forms.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err, "form")
		return
	}
	response.Message(c, "Form updated successfully", form)
}

func (h *FormHandler) delete(c *gin.Context) {
	if err := h.forms.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "form")
		return
	}
	response.Message(c, "Form deleted successfully", nil)
}

func (h *FormHandler) listResponses(c *gin.Context) {
	limit, offset := pagination(c)
	items, total, err := h.forms.ListResponses(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err, "form")
		return
	}
	response.List(c, items, response.Pagination{Total: total, Limit: limit, Offset: offset})
}

func (h *FormHandler) submitResponse(c *gin.Context) {
	var data datatypes.JSON
	if err := c.ShouldBindJSON(&data); err != nil {
		failBind(c, err)
		return
	}
	resp, err := h.forms.SubmitResponse(c.Request.Context(), c.Param("id"), data, service.ResponseMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		respondError(c, err, "form")
		return
	}
	response.Created(c, "Form response submitted successfully", resp)
}
