package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-cms-backend/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小。带 Content-Length 的超限请求直接 413；
// 分块传输的由 MaxBytesReader 兜底，读取时报 *http.MaxBytesError，
// 在 handler 的绑定错误翻译处统一给 413
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			response.AbortFail(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
