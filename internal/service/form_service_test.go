package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"

	"go-cms-backend/internal/domain"
	"go-cms-backend/internal/repo"
)

func newFormService(t *testing.T) (*FormService, string, func()) {
	t.Helper()
	gdb, cleanup := openTestDB(t)
	author := seedUser(t, gdb, "a@example.com")
	return NewFormService(gdb, repo.NewFormRepo(gdb)), author.ID, cleanup
}

func TestCreateFormDefaultsAndDuplicate(t *testing.T) {
	svc, authorID, cleanup := newFormService(t)
	defer cleanup()
	ctx := context.Background()

	form, err := svc.Create(ctx, authorID, FormCreateInput{Name: "Contact", Slug: "contact"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if string(form.Fields) != "[]" {
		t.Fatalf("expected empty fields array, got %s", form.Fields)
	}
	if string(form.Settings) != "{}" {
		t.Fatalf("expected empty settings object, got %s", form.Settings)
	}

	_, err = svc.Create(ctx, authorID, FormCreateInput{Name: "Contact 2", Slug: "contact"})
	if !errors.Is(err, domain.ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}
}

func TestSubmitAndListResponses(t *testing.T) {
	svc, authorID, cleanup := newFormService(t)
	defer cleanup()
	ctx := context.Background()

	form, err := svc.Create(ctx, authorID, FormCreateInput{Name: "Contact", Slug: "contact"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	resp, err := svc.SubmitResponse(ctx, form.ID,
		datatypes.JSON([]byte(`{"email":"x@example.com","message":"hi"}`)),
		ResponseMeta{IPAddress: "10.0.0.1", UserAgent: "curl/8"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if resp.IPAddress != "10.0.0.1" || resp.UserAgent != "curl/8" {
		t.Fatalf("meta not recorded: %+v", resp)
	}

	// 空提交落为 {}
	empty, err := svc.SubmitResponse(ctx, form.ID, nil, ResponseMeta{})
	if err != nil {
		t.Fatalf("empty submit failed: %v", err)
	}
	if string(empty.Data) != "{}" {
		t.Fatalf("expected empty data object, got %s", empty.Data)
	}

	list, total, err := svc.ListResponses(ctx, form.ID, 50, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("expected 2 responses, got total=%d len=%d", total, len(list))
	}

	got, err := svc.Get(ctx, form.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ResponseCount != 2 {
		t.Fatalf("expected response count 2, got %d", got.ResponseCount)
	}
}

func TestSubmitResponseToMissingForm(t *testing.T) {
	svc, _, cleanup := newFormService(t)
	defer cleanup()

	_, err := svc.SubmitResponse(context.Background(), "missing", nil, ResponseMeta{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
