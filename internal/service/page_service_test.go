package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"go-cms-backend/internal/domain"
	"go-cms-backend/internal/repo"
)

func newPageService(t *testing.T) (*PageService, *gorm.DB, func()) {
	t.Helper()
	gdb, cleanup := openTestDB(t)
	return NewPageService(gdb, repo.NewPageRepo(gdb), nil, 0), gdb, cleanup
}

func TestCreatePageAppliesDefaults(t *testing.T) {
	svc, gdb, cleanup := newPageService(t)
	defer cleanup()
	author := seedUser(t, gdb, "a@example.com")

	page, err := svc.Create(context.Background(), author.ID, PageCreateInput{
		Title: "Hello",
		Slug:  "hello",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if page.Status != domain.PageStatusDraft {
		t.Fatalf("expected default status DRAFT, got %q", page.Status)
	}
	if string(page.Content) != "{}" {
		t.Fatalf("expected empty content object, got %s", page.Content)
	}
	if page.Keywords == nil || len(page.Keywords) != 0 {
		t.Fatalf("expected empty keywords slice, got %v", page.Keywords)
	}
	if page.Author == nil || page.Author.Email != "a@example.com" {
		t.Fatalf("expected author to be loaded, got %+v", page.Author)
	}
}

func TestCreatePageRejectsMissingAuthor(t *testing.T) {
	svc, _, cleanup := newPageService(t)
	defer cleanup()

	_, err := svc.Create(context.Background(), "", PageCreateInput{Title: "x", Slug: "x"})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCreatePageRejectsInvalidStatus(t *testing.T) {
	svc, gdb, cleanup := newPageService(t)
	defer cleanup()
	author := seedUser(t, gdb, "a@example.com")

	_, err := svc.Create(context.Background(), author.ID, PageCreateInput{
		Title: "x", Slug: "x", Status: "ARCHIVED",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreatePageDuplicateSlugAcrossAuthors(t *testing.T) {
	svc, gdb, cleanup := newPageService(t)
	defer cleanup()
	first := seedUser(t, gdb, "a@example.com")
	second := seedUser(t, gdb, "b@example.com")

	if _, err := svc.Create(context.Background(), first.ID, PageCreateInput{Title: "x", Slug: "shared"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	// slug 全局唯一，跨作者同样冲突
	_, err := svc.Create(context.Background(), second.ID, PageCreateInput{Title: "y", Slug: "shared"})
	if !errors.Is(err, domain.ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}

	var count int64
	gdb.Model(&domain.Page{}).Where("slug = ?", "shared").Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one page with the slug, found %d", count)
	}
}

// racingPageRepo 模拟查重读不到的并发竞争：FindBySlug 永远 miss，
// 逼写入撞 slug 唯一索引
type racingPageRepo struct {
	domain.PageRepository
}

func (r racingPageRepo) WithTx(tx *gorm.DB) domain.PageRepository {
	return racingPageRepo{r.PageRepository.WithTx(tx)}
}

func (r racingPageRepo) FindBySlug(string) (*domain.Page, error) { return nil, nil }

func TestCreatePageUniqueIndexBackstop(t *testing.T) {
	gdb, cleanup := openTestDB(t)
	defer cleanup()
	author := seedUser(t, gdb, "a@example.com")
	svc := NewPageService(gdb, racingPageRepo{repo.NewPageRepo(gdb)}, nil, 0)
	ctx := context.Background()

	if _, err := svc.Create(ctx, author.ID, PageCreateInput{Title: "a", Slug: "raced"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	// 查重失明后第二次写入只能靠唯一索引拦下
	_, err := svc.Create(ctx, author.ID, PageCreateInput{Title: "b", Slug: "raced"})
	if !errors.Is(err, domain.ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug from the index, got %v", err)
	}

	var count int64
	gdb.Model(&domain.Page{}).Where("slug = ?", "raced").Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one page with the slug, found %d", count)
	}
}

func TestCreateHomePageClearsPreviousHome(t *testing.T) {
	svc, gdb, cleanup := newPageService(t)
	defer cleanup()
	author := seedUser(t, gdb, "a@example.com")
	other := seedUser(t, gdb, "b@example.com")

	old, err := svc.Create(context.Background(), author.ID, PageCreateInput{
		Title: "Old Home", Slug: "old-home", IsHomePage: true,
	})
	if err != nil {
		t.Fatalf("create old home failed: %v", err)
	}
	otherHome, err := svc.Create(context.Background(), other.ID, PageCreateInput{
		Title: "Other Home", Slug: "other-home", IsHomePage: true,
	})
	if err != nil {
		t.Fatalf("create other author home failed: %v", err)
	}

	fresh, err := svc.Create(context.Background(), author.ID, PageCreateInput{
		Title: "New Home", Slug: "new-home", IsHomePage: true,
	})
	if err != nil {
		t.Fatalf("create new home failed: %v", err)
	}
	if !fresh.IsHomePage {
		t.Fatal("expected new page to carry the home flag")
	}

	reloaded, err := svc.Get(context.Background(), old.ID)
	if err != nil {
		t.Fatalf("reload old home failed: %v", err)
	}
	if reloaded.IsHomePage {
		t.Fatal("expected previous home page to lose the flag")
	}

	// 另一作者的主页不受影响
	untouched, err := svc.Get(context.Background(), otherHome.ID)
	if err != nil {
		t.Fatalf("reload other author home failed: %v", err)
	}
	if !untouched.IsHomePage {
		t.Fatal("expected other author's home flag to survive")
	}
}

func TestUpdatePageNotFound(t *testing.T) {
	svc, _, cleanup := newPageService(t)
	defer cleanup()

	_, err := svc.Update(context.Background(), "missing", PageUpdateInput{Title: strPtr("x")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePageSlugConflict(t *testing.T) {
	svc, gdb, cleanup := newPageService(t)
	defer cleanup()
	author := seedUser(t, gdb, "a@example.com")
	ctx := context.Background()

	if _, err := svc.Create(ctx, author.ID, PageCreateInput{Title: "a", Slug: "taken"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	page, err := svc.Create(ctx, author.ID, PageCreateInput{Title: "b", Slug: "mine"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(ctx, page.ID, PageUpdateInput{Slug: strPtr("taken")}); !errors.Is(err, domain.ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}

	// 提交自己当前的 slug 不算冲突
	updated, err := svc.Update(ctx, page.ID, PageUpdateInput{Slug: strPtr("mine"), Title: strPtr("b2")})
	if err != nil {
		t.Fatalf("same-slug update failed: %v", err)
	}
	if updated.Slug != "mine" || updated.Title != "b2" {
		t.Fatalf("unexpected page after update: slug=%q title=%q", updated.Slug, updated.Title)
	}
}

func TestUpdatePagePartialFieldRules(t *testing.T) {
	svc, gdb, cleanup := newPageService(t)
	defer cleanup()
	author := seedUser(t, gdb, "a@example.com")
	ctx := context.Background()

	page, err := svc.Create(ctx, author.ID, PageCreateInput{
		Title:       "Original",
		Slug:        "original",
		Content:     datatypes.JSON([]byte(`{"v":1}`)),
		Description: "desc",
		Keywords:    []string{"one"},
		Status:      domain.PageStatusPublished,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(ctx, page.ID, PageUpdateInput{
		Title:       strPtr(""),                        // 空标题忽略
		Content:     datatypes.JSON([]byte("null")),    // JSON null 忽略
		Description: strPtr(""),                        // 显式清空
		Keywords:    []string{"two", "three"},          // 整体替换
		OgImage:     strPtr("https://cdn/x.png"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Title != "Original" {
		t.Fatalf("empty title should be ignored, got %q", updated.Title)
	}
	if string(updated.Content) != `{"v":1}` {
		t.Fatalf("null content should be ignored, got %s", updated.Content)
	}
	if updated.Description != "" {
		t.Fatalf("description should be cleared, got %q", updated.Description)
	}
	if len(updated.Keywords) != 2 || updated.Keywords[0] != "two" {
		t.Fatalf("keywords should be replaced, got %v", updated.Keywords)
	}
	if updated.OgImage != "https://cdn/x.png" {
		t.Fatalf("ogImage not applied, got %q", updated.OgImage)
	}
	if updated.Status != domain.PageStatusPublished {
		t.Fatalf("untouched status changed to %q", updated.Status)
	}
}

func TestUpdateHomeFlagTransfersWithinAuthor(t *testing.T) {
	svc, gdb, cleanup := newPageService(t)
	defer cleanup()
	author := seedUser(t, gdb, "a@example.com")
	ctx := context.Background()

	home, err := svc.Create(ctx, author.ID, PageCreateInput{Title: "h", Slug: "h", IsHomePage: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	other, err := svc.Create(ctx, author.ID, PageCreateInput{Title: "o", Slug: "o"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(ctx, other.ID, PageUpdateInput{IsHomePage: boolPtr(true)})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.IsHomePage {
		t.Fatal("expected updated page to become home")
	}

	prev, err := svc.Get(ctx, home.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if prev.IsHomePage {
		t.Fatal("expected previous home flag to be cleared")
	}

	var homes int64
	gdb.Model(&domain.Page{}).Where("author_id = ? AND is_home_page = ?", author.ID, true).Count(&homes)
	if homes != 1 {
		t.Fatalf("expected exactly one home page for the author, found %d", homes)
	}
}

func TestUpdateHomeFlagFalseLeavesSiblings(t *testing.T) {
	svc, gdb, cleanup := newPageService(t)
	defer cleanup()
	author := seedUser(t, gdb, "a@example.com")
	ctx := context.Background()

	home, err := svc.Create(ctx, author.ID, PageCreateInput{Title: "h", Slug: "h", IsHomePage: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	other, err := svc.Create(ctx, author.ID, PageCreateInput{Title: "o", Slug: "o"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// 显式 false 只作用于当前页面
	if _, err := svc.Update(ctx, other.ID, PageUpdateInput{IsHomePage: boolPtr(false)}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	prev, err := svc.Get(ctx, home.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !prev.IsHomePage {
		t.Fatal("expected existing home flag to survive an explicit false on a sibling")
	}
}

func TestDeletePage(t *testing.T) {
	svc, gdb, cleanup := newPageService(t)
	defer cleanup()
	author := seedUser(t, gdb, "a@example.com")
	ctx := context.Background()

	page, err := svc.Create(ctx, author.ID, PageCreateInput{Title: "x", Slug: "x"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(ctx, page.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, page.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, page.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestListPagesScopedToAuthor(t *testing.T) {
	svc, gdb, cleanup := newPageService(t)
	defer cleanup()
	a := seedUser(t, gdb, "a@example.com")
	b := seedUser(t, gdb, "b@example.com")
	ctx := context.Background()

	if _, err := svc.Create(ctx, a.ID, PageCreateInput{Title: "1", Slug: "p1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, a.ID, PageCreateInput{Title: "2", Slug: "p2"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, b.ID, PageCreateInput{Title: "3", Slug: "p3"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	list, err := svc.List(ctx, a.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 pages for author, got %d", len(list))
	}
	for _, p := range list {
		if p.AuthorID != a.ID {
			t.Fatalf("foreign page leaked into the listing: %s", p.ID)
		}
	}
}

func TestGetPublishedBySlug(t *testing.T) {
	svc, gdb, cleanup := newPageService(t)
	defer cleanup()
	author := seedUser(t, gdb, "a@example.com")
	ctx := context.Background()

	if _, err := svc.Create(ctx, author.ID, PageCreateInput{
		Title: "Live", Slug: "live", Status: domain.PageStatusPublished,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, author.ID, PageCreateInput{Title: "Hidden", Slug: "hidden"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	page, err := svc.GetPublishedBySlug(ctx, "live")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if page.Title != "Live" {
		t.Fatalf("unexpected page %q", page.Title)
	}

	// 草稿对公共读不可见
	if _, err := svc.GetPublishedBySlug(ctx, "hidden"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a draft, got %v", err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown slug, got %v", err)
	}
}

// memPageCache 进程内替身，语义与 redis 路径一致（含 "null" 负缓存）
type memPageCache struct {
	data  map[string][]byte
	loads int
}

func newMemPageCache() *memPageCache { return &memPageCache{data: map[string][]byte{}} }

func (m *memPageCache) GetOrLoad(ctx context.Context, key string, _ time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, ok := m.data[key]; ok {
		return b, nil
	}
	m.loads++
	b, err := load(ctx)
	if err != nil {
		return nil, err
	}
	m.data[key] = b
	return b, nil
}

func (m *memPageCache) Invalidate(_ context.Context, keys ...string) {
	for _, k := range keys {
		delete(m.data, k)
	}
}

func TestCreateEvictsNegativeCache(t *testing.T) {
	gdb, cleanup := openTestDB(t)
	defer cleanup()
	author := seedUser(t, gdb, "a@example.com")
	pc := newMemPageCache()
	svc := NewPageService(gdb, repo.NewPageRepo(gdb), pc, time.Minute)
	ctx := context.Background()

	// 先于建页的公共读会缓存 "不存在"
	if _, err := svc.GetPublishedBySlug(ctx, "launch"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before create, got %v", err)
	}

	if _, err := svc.Create(ctx, author.ID, PageCreateInput{
		Title: "Launch", Slug: "launch", Status: domain.PageStatusPublished,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	page, err := svc.GetPublishedBySlug(ctx, "launch")
	if err != nil {
		t.Fatalf("expected the page after create, got %v", err)
	}
	if page.Title != "Launch" {
		t.Fatalf("unexpected page %q", page.Title)
	}

	// 第二次读走缓存，不再回源
	if _, err := svc.GetPublishedBySlug(ctx, "launch"); err != nil {
		t.Fatalf("cached read failed: %v", err)
	}
	if pc.loads != 2 {
		t.Fatalf("expected 2 loads (negative + refreshed), got %d", pc.loads)
	}
}

func TestUpdateAndDeleteInvalidateCachedSlugs(t *testing.T) {
	gdb, cleanup := openTestDB(t)
	defer cleanup()
	author := seedUser(t, gdb, "a@example.com")
	pc := newMemPageCache()
	svc := NewPageService(gdb, repo.NewPageRepo(gdb), pc, time.Minute)
	ctx := context.Background()

	page, err := svc.Create(ctx, author.ID, PageCreateInput{
		Title: "Live", Slug: "old", Status: domain.PageStatusPublished,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, "old"); err != nil {
		t.Fatalf("warm read failed: %v", err)
	}

	// 换 slug 要同时清旧键与新键
	if _, err := svc.Update(ctx, page.ID, PageUpdateInput{Slug: strPtr("new")}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, "old"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected stale slug to miss, got %v", err)
	}
	got, err := svc.GetPublishedBySlug(ctx, "new")
	if err != nil || got.ID != page.ID {
		t.Fatalf("expected the page under the new slug, got %v %v", got, err)
	}

	if err := svc.Delete(ctx, page.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, "new"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
