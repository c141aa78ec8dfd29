package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-cms-backend/internal/core/auth"
	"go-cms-backend/internal/core/cache"
	"go-cms-backend/internal/core/config"
	"go-cms-backend/internal/core/database"
	"go-cms-backend/internal/core/logger"
	"go-cms-backend/internal/core/server"
	"go-cms-backend/internal/domain"
	"go-cms-backend/internal/repo"
	"go-cms-backend/internal/service"
	"go-cms-backend/internal/transport/http/handler"
	"go-cms-backend/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		JSON:       cfg.Log.JSON,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{},
			&domain.Page{},
			&domain.Collection{},
			&domain.CollectionItem{},
			&domain.Media{},
			&domain.Menu{},
			&domain.Form{},
			&domain.FormResponse{},
		); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	var pageCache service.PageCache
	if cfg.Redis.Enable {
		pageCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}
	cacheTTL := time.Duration(cfg.Redis.TTLSec) * time.Second

	// 依赖装配：repo → service → handler
	authSvc := service.NewAuthService(repo.NewUserRepo(db), jwter)
	pageSvc := service.NewPageService(db, repo.NewPageRepo(db), pageCache, cacheTTL)
	colSvc := service.NewCollectionService(db, repo.NewCollectionRepo(db))
	mediaSvc := service.NewMediaService(repo.NewMediaRepo(db))
	menuSvc := service.NewMenuService(db, repo.NewMenuRepo(db))
	formSvc := service.NewFormService(db, repo.NewFormRepo(db))

	r := router.NewAPIEngine(log, router.Options{
		JWT:          jwter,
		AllowOrigins: cfg.CORS.AllowOrigins,
		UploadDir:    cfg.Upload.Dir,
		MaxBodyMB:    cfg.Upload.MaxSizeMB + 2, // 留出 multipart 余量
		Modules: []any{
			handler.NewAuthHandler(authSvc),
			handler.NewPageHandler(pageSvc),
			handler.NewCollectionHandler(colSvc),
			handler.NewMediaHandler(mediaSvc, log, cfg.Upload.Dir, cfg.Upload.BaseURL, cfg.Upload.MaxSizeMB),
			handler.NewMenuHandler(menuSvc),
			handler.NewFormHandler(formSvc),
		},
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("cms api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("cms api start FAILED", zap.Error(err))
		}
	}()
	log.Info("cms api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("cms api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
