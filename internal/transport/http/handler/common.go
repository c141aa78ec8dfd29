package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"go-cms-backend/internal/domain"
	"go-cms-backend/internal/transport/http/middleware"
	"go-cms-backend/internal/transport/http/response"
)

// respondError 把服务层错误翻译成 HTTP 状态码与提示语
func respondError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Fail(c, http.StatusNotFound, fmt.Sprintf("%s not found", capitalize(resource)))
	case errors.Is(err, domain.ErrDuplicateSlug):
		response.Fail(c, http.StatusBadRequest, fmt.Sprintf("A %s with this slug already exists", resource))
	case errors.Is(err, domain.ErrValidation):
		response.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		response.Fail(c, http.StatusUnauthorized, "User not authenticated")
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, domain.ErrEmailTaken):
		response.Fail(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, domain.ErrConflict):
		response.Fail(c, http.StatusConflict, "Concurrent update conflict, please retry")
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

// failBind 绑定失败统一处理；被 MaxBytesReader 截断的请求体给 413
func failBind(c *gin.Context, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		response.Fail(c, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	response.Fail(c, http.StatusBadRequest, err.Error())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func userID(c *gin.Context) string { return c.GetString(middleware.KeyUserID) }

// pagination 读取 ?limit=&offset=，默认 50/0
func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	offset = 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		offset = v
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
