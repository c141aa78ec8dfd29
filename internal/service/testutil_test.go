package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-cms-backend/internal/domain"
	"go-cms-backend/pkg/utils"
)

var testDBSeq atomic.Int64

// openTestDB 每个用例一个独立的共享内存库，连接池关闭后即销毁
func openTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", testDBSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&domain.User{}, &domain.Page{},
		&domain.Collection{}, &domain.CollectionItem{},
		&domain.Media{}, &domain.Menu{},
		&domain.Form{}, &domain.FormResponse{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func seedUser(t *testing.T, gdb *gorm.DB, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         "tester",
		PasswordHash: utils.HashPassword("secret123"),
		Role:         domain.RoleUser,
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return u
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
