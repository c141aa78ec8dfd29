package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"go-cms-backend/internal/domain"
)

func TestRunTxRetriesOnceThenConflict(t *testing.T) {
	gdb, cleanup := openTestDB(t)
	defer cleanup()

	calls := 0
	err := runTx(context.Background(), gdb, func(tx *gorm.DB) error {
		calls++
		return errors.New("database is locked")
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly one retry (2 attempts), got %d", calls)
	}
}

func TestRunTxRetrySucceeds(t *testing.T) {
	gdb, cleanup := openTestDB(t)
	defer cleanup()

	calls := 0
	err := runTx(context.Background(), gdb, func(tx *gorm.DB) error {
		calls++
		if calls == 1 {
			return errors.New("deadlock detected")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestRunTxDoesNotRetryPlainErrors(t *testing.T) {
	gdb, cleanup := openTestDB(t)
	defer cleanup()

	boom := errors.New("boom")
	calls := 0
	err := runTx(context.Background(), gdb, func(tx *gorm.DB) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the original error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestIsDupKeyRecognizesDriverMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"sqlite message", errors.New("UNIQUE constraint failed: pages.slug"), true},
		{"mysql message", errors.New("Error 1062: Duplicate entry 'x' for key 'slug'"), true},
		{"postgres message", errors.New("ERROR: duplicate key value violates unique constraint"), true},
		{"unrelated", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDupKey(tt.err); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
