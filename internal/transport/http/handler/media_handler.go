package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-cms-backend/internal/service"
	"go-cms-backend/internal/transport/http/response"
)

type MediaHandler struct {
	media    *service.MediaService
	log      *zap.Logger
	dir      string
	baseURL  string
	maxBytes int64
}

func NewMediaHandler(media *service.MediaService, log *zap.Logger, dir, baseURL string, maxSizeMB int) *MediaHandler {
	return &MediaHandler{
		media:    media,
		log:      log,
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: int64(maxSizeMB) << 20,
	}
}

func (h *MediaHandler) MountAuthed(g *gin.RouterGroup) {
	g.GET("/media", h.list)
	g.GET("/media/:id", h.get)
	g.POST("/media/upload", h.upload)
	g.PUT("/media/:id", h.update)
	g.DELETE("/media/:id", h.delete)
}

func (h *MediaHandler) list(c *gin.Context) {
	limit, offset := pagination(c)
	items, total, err := h.media.List(c.Request.Context(), c.Query("mimeType"), limit, offset)
	if err != nil {
		respondError(c, err, "media file")
		return
	}
	response.List(c, items, response.Pagination{Total: total, Limit: limit, Offset: offset})
}

func (h *MediaHandler) get(c *gin.Context) {
	m, err := h.media.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "media file")
		return
	}
	response.OK(c, m)
}

func (h *MediaHandler) upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	if file.Size > h.maxBytes {
		response.Fail(c, http.StatusBadRequest, "File too large")
		return
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		respondError(c, err, "media file")
		return
	}

	// 磁盘文件名：日期-uuid.ext，避免覆盖与路径注入
	ext := filepath.Ext(file.Filename)
	name := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.NewString(), ext)
	path := filepath.Join(h.dir, name)

	if err := c.SaveUploadedFile(file, path); err != nil {
		respondError(c, err, "media file")
		return
	}

	m, err := h.media.Create(c.Request.Context(), service.MediaCreateInput{
		Filename:     name,
		OriginalName: file.Filename,
		MimeType:     file.Header.Get("Content-Type"),
		Size:         file.Size,
		Path:         path,
		URL:          h.baseURL + "/" + name,
		Alt:          c.PostForm("alt"),
		Caption:      c.PostForm("caption"),
	})
	if err != nil {
		// 元数据落库失败时把孤儿文件清掉
		_ = os.Remove(path)
		respondError(c, err, "media file")
		return
	}
	response.Created(c, "File uploaded successfully", m)
}

func (h *MediaHandler) update(c *gin.Context) {
	var in service.MediaUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err)
		return
	}
	m, err := h.media.UpdateMeta(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err, "media file")
		return
	}
	response.Message(c, "Media updated successfully", m)
}

func (h *MediaHandler) delete(c *gin.Context) {
	m, err := h.media.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "media file")
		return
	}
	if err := os.Remove(m.Path); err != nil && !os.IsNotExist(err) {
		h.log.Warn("remove media file", zap.String("path", m.Path), zap.Error(err))
	}
	response.Message(c, "Media deleted successfully", nil)
}
