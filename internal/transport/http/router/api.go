package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-cms-backend/internal/core/auth"
	mdw "go-cms-backend/internal/transport/http/middleware"
)

type Options struct {
	JWT          *auth.JWTer
	AllowOrigins []string
	UploadDir    string // 非空时以 /uploads 暴露静态文件
	MaxBodyMB    int
	Modules      []any // handler 模块，按 registry 规则挂载
}

// NewAPIEngine 组装 gin 引擎：中间件链 + 健康检查 + /metrics + /api/v1
func NewAPIEngine(l *zap.Logger, o Options) *gin.Engine {
	r := gin.New()

	maxBody := int64(16) << 20
	if o.MaxBodyMB > 0 {
		maxBody = int64(o.MaxBodyMB) << 20
	}

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(maxBody),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	if len(o.AllowOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = o.AllowOrigins
		cfg.AllowCredentials = true
		cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
		r.Use(cors.New(cfg))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if o.UploadDir != "" {
		r.Static("/uploads", o.UploadDir)
	}

	for _, m := range o.Modules {
		Register(m)
	}

	api := r.Group("/api/v1")
	MountAllAPI(api)

	authed := api.Group("")
	authed.Use(mdw.AuthJWT(o.JWT, ""))
	MountAllAuthed(authed)

	return r
}
