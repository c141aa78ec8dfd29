package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go-cms-backend/internal/domain"
)

// runTx 包一层事务；可重试的存储冲突（死锁、序列化失败、sqlite 锁）
// 内部重试一次，仍失败则以 ErrConflict 上抛
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := db.WithContext(ctx).Transaction(fn)
	if err == nil || !isRetryableConflict(err) {
		return err
	}
	err = db.WithContext(ctx).Transaction(fn)
	if err != nil && isRetryableConflict(err) {
		return domain.ErrConflict
	}
	return err
}

// isDupKey 不依赖具体驱动的错误类型，除 gorm 的翻译外再按消息兜底
func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}

func isRetryableConflict(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "serialization failure") ||
		strings.Contains(msg, "database is locked")
}
