// 初始化演示数据：管理员账号 + 示例页面/集合/菜单/表单。
// 可重复执行，已存在的数据会跳过。
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"

	"go-cms-backend/internal/core/config"
	"go-cms-backend/internal/core/database"
	"go-cms-backend/internal/domain"
	"go-cms-backend/internal/repo"
	"go-cms-backend/internal/service"
	"go-cms-backend/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	db, err := database.NewGorm(database.Opts{
		Driver:   cfg.DB.Driver,
		DSN:      cfg.DB.DSN,
		LogLevel: "warn",
	})
	if err != nil {
		fail("db open: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{}, &domain.Page{},
		&domain.Collection{}, &domain.CollectionItem{},
		&domain.Media{}, &domain.Menu{},
		&domain.Form{}, &domain.FormResponse{},
	); err != nil {
		fail("automigrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repo.NewUserRepo(db)
	admin, err := users.FindByEmail("admin@example.com")
	if err != nil {
		fail("find admin: %v", err)
	}
	if admin == nil {
		admin = &domain.User{
			ID:           utils.NewID(),
			Name:         "Admin",
			Email:        "admin@example.com",
			PasswordHash: utils.HashPassword("admin123"),
			Role:         domain.RoleAdmin,
		}
		if err := users.Create(admin); err != nil {
			fail("create admin: %v", err)
		}
		fmt.Println("created admin user admin@example.com (password admin123)")
	} else {
		fmt.Println("admin user already exists, skipping")
	}

	pageSvc := service.NewPageService(db, repo.NewPageRepo(db), nil, 0)
	seedPage(ctx, pageSvc, admin.ID, service.PageCreateInput{
		Title:       "Home",
		Slug:        "home",
		Content:     datatypes.JSON([]byte(`{"blocks":[{"type":"hero","text":"Welcome"}]}`)),
		Status:      domain.PageStatusPublished,
		Description: "Landing page",
		Keywords:    []string{"home", "welcome"},
		IsHomePage:  true,
	})
	seedPage(ctx, pageSvc, admin.ID, service.PageCreateInput{
		Title:   "About",
		Slug:    "about",
		Content: datatypes.JSON([]byte(`{"blocks":[{"type":"text","text":"About this site"}]}`)),
		Status:  domain.PageStatusPublished,
	})

	colSvc := service.NewCollectionService(db, repo.NewCollectionRepo(db))
	col, err := colSvc.Create(ctx, admin.ID, service.CollectionCreateInput{
		Name:        "Blog Posts",
		Slug:        "blog-posts",
		Description: "Example blog collection",
		Fields:      datatypes.JSON([]byte(`{"title":"text","body":"richtext"}`)),
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateSlug):
		fmt.Println("collection blog-posts already exists, skipping")
	case err != nil:
		fail("create collection: %v", err)
	default:
		if _, err := colSvc.CreateItem(ctx, col.ID, service.ItemCreateInput{
			Data:   datatypes.JSON([]byte(`{"title":"First post","body":"Hello world"}`)),
			Status: "published",
		}); err != nil {
			fail("create item: %v", err)
		}
		fmt.Println("created collection blog-posts with one item")
	}

	menuSvc := service.NewMenuService(db, repo.NewMenuRepo(db))
	if _, err := menuSvc.Create(ctx, admin.ID, service.MenuCreateInput{
		Name:     "Main Navigation",
		Slug:     "main-nav",
		Location: "header",
		Items:    datatypes.JSON([]byte(`[{"label":"Home","url":"/"},{"label":"About","url":"/about"}]`)),
	}); err != nil && !errors.Is(err, domain.ErrDuplicateSlug) {
		fail("create menu: %v", err)
	}

	formSvc := service.NewFormService(db, repo.NewFormRepo(db))
	if _, err := formSvc.Create(ctx, admin.ID, service.FormCreateInput{
		Name:        "Contact",
		Slug:        "contact",
		Description: "Contact form",
		Fields:      datatypes.JSON([]byte(`[{"name":"email","type":"email"},{"name":"message","type":"textarea"}]`)),
		Settings:    datatypes.JSON([]byte(`{"notify":true}`)),
	}); err != nil && !errors.Is(err, domain.ErrDuplicateSlug) {
		fail("create form: %v", err)
	}

	fmt.Println("seed done")
}

func seedPage(ctx context.Context, svc *service.PageService, authorID string, in service.PageCreateInput) {
	_, err := svc.Create(ctx, authorID, in)
	switch {
	case errors.Is(err, domain.ErrDuplicateSlug):
		fmt.Printf("page %s already exists, skipping\n", in.Slug)
	case err != nil:
		fail("create page %s: %v", in.Slug, err)
	default:
		fmt.Printf("created page %s\n", in.Slug)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
