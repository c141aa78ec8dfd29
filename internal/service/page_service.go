package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"go-cms-backend/internal/core/cache"
	"go-cms-backend/internal/domain"
	"go-cms-backend/pkg/utils"
)

// PageService mediates every page mutation so that two invariants hold after
// each successful call, even under concurrent requests:
//
//   - slugs are unique across all pages (unique index backs the pre-check)
//   - each author has at most one page with the home-page flag set
//
// Both check-then-write sequences run inside a single transaction; a losing
// concurrent insert trips the unique index and is reported as ErrDuplicateSlug.
// PageCache is the slice of the redis cache the page service needs; keeping
// it an interface lets tests observe invalidation without a redis server.
type PageCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error)
	Invalidate(ctx context.Context, keys ...string)
}

type PageService struct {
	db       *gorm.DB
	pages    domain.PageRepository
	cache    PageCache // 可为 nil（未启用 redis）
	cacheTTL time.Duration
}

func NewPageService(db *gorm.DB, pages domain.PageRepository, c PageCache, ttl time.Duration) *PageService {
	return &PageService{db: db, pages: pages, cache: c, cacheTTL: ttl}
}

type PageCreateInput struct {
	Title       string         `json:"title" binding:"required"`
	Slug        string         `json:"slug" binding:"required"`
	Content     datatypes.JSON `json:"content"`
	CustomCSS   string         `json:"customCss"`
	CustomJS    string         `json:"customJs"`
	Status      string         `json:"status"`
	Description string         `json:"description"`
	Keywords    []string       `json:"keywords"`
	OgImage     string         `json:"ogImage"`
	IsHomePage  bool           `json:"isHomePage"`
}

// PageUpdateInput carries partial-update semantics: nil means "leave the
// field untouched". Title/slug/status/keywords only apply when non-empty,
// the free-text fields may be cleared with an explicit empty value.
type PageUpdateInput struct {
	Title       *string        `json:"title"`
	Slug        *string        `json:"slug"`
	Content     datatypes.JSON `json:"content"`
	CustomCSS   *string        `json:"customCss"`
	CustomJS    *string        `json:"customJs"`
	Status      *string        `json:"status"`
	Description *string        `json:"description"`
	Keywords    []string       `json:"keywords"`
	OgImage     *string        `json:"ogImage"`
	IsHomePage  *bool          `json:"isHomePage"`
}

func (s *PageService) Create(ctx context.Context, authorID string, in PageCreateInput) (*domain.Page, error) {
	if authorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", domain.ErrValidation)
	}
	status := in.Status
	if status == "" {
		status = domain.PageStatusDraft
	}
	if !domain.IsValidPageStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, in.Status)
	}

	content := in.Content
	if len(content) == 0 {
		content = datatypes.JSON([]byte("{}"))
	}
	keywords := in.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	page := &domain.Page{
		ID:          utils.NewID(),
		Title:       in.Title,
		Slug:        slug,
		Content:     content,
		CustomCSS:   in.CustomCSS,
		CustomJS:    in.CustomJS,
		Status:      status,
		Description: in.Description,
		Keywords:    datatypes.NewJSONSlice(keywords),
		OgImage:     in.OgImage,
		IsHomePage:  in.IsHomePage,
		AuthorID:    authorID,
	}

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		pages := s.pages.WithTx(tx)

		existing, err := pages.FindBySlug(slug)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateSlug
		}

		// 设为主页 → 同一事务内清掉该作者其它页面的标记
		if in.IsHomePage {
			if err := pages.ClearHomeFlag(authorID, ""); err != nil {
				return err
			}
		}

		if err := pages.Create(page); err != nil {
			if isDupKey(err) {
				return domain.ErrDuplicateSlug
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 公共读可能已为该 slug 缓存过 "不存在"
	s.invalidate(ctx, slug)
	return s.reload(ctx, page.ID)
}

func (s *PageService) Update(ctx context.Context, id string, in PageUpdateInput) (*domain.Page, error) {
	if in.Status != nil && *in.Status != "" && !domain.IsValidPageStatus(*in.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, *in.Status)
	}

	var oldSlug, newSlug string
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		pages := s.pages.WithTx(tx)

		page, err := pages.FindByID(id)
		if err != nil {
			return err
		}
		if page == nil {
			return domain.ErrNotFound
		}
		oldSlug = page.Slug

		// 换 slug 时先查新 slug 是否被别的页面占用；相同 slug 不触发检查
		if in.Slug != nil {
			slug := strings.TrimSpace(*in.Slug)
			if slug != "" && slug != page.Slug {
				owner, err := pages.FindBySlug(slug)
				if err != nil {
					return err
				}
				if owner != nil && owner.ID != page.ID {
					return domain.ErrDuplicateSlug
				}
				page.Slug = slug
			}
		}
		newSlug = page.Slug

		// 置 true 才清兄弟页面；显式 false 只影响当前页
		if in.IsHomePage != nil {
			if *in.IsHomePage {
				if err := pages.ClearHomeFlag(page.AuthorID, page.ID); err != nil {
					return err
				}
			}
			page.IsHomePage = *in.IsHomePage
		}

		applyPageFields(page, in)

		if err := pages.Save(page); err != nil {
			if isDupKey(err) {
				return domain.ErrDuplicateSlug
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, oldSlug, newSlug)
	return s.reload(ctx, id)
}

func (s *PageService) Delete(ctx context.Context, id string) error {
	var slug string
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		pages := s.pages.WithTx(tx)
		page, err := pages.FindByID(id)
		if err != nil {
			return err
		}
		if page == nil {
			return domain.ErrNotFound
		}
		slug = page.Slug
		return pages.Delete(id)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, slug)
	return nil
}

func (s *PageService) Get(ctx context.Context, id string) (*domain.Page, error) {
	page, err := s.reader(ctx).FindByID(id)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, domain.ErrNotFound
	}
	return page, nil
}

func (s *PageService) List(ctx context.Context, authorID string) ([]domain.Page, error) {
	if authorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.reader(ctx).ListByAuthor(authorID)
}

// GetPublishedBySlug serves the public read path; hot slugs are cached in
// redis and loads are collapsed with singleflight.
func (s *PageService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Page, error) {
	load := func(ctx context.Context) (*domain.Page, error) {
		return s.reader(ctx).FindPublishedBySlug(slug)
	}

	var page *domain.Page
	var err error
	if s.cache != nil {
		page, err = cache.GetOrLoadJSON(s.cache, ctx, pageCacheKey(slug), s.cacheTTL, load)
	} else {
		page, err = load(ctx)
	}
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, domain.ErrNotFound
	}
	return page, nil
}

func (s *PageService) reader(ctx context.Context) domain.PageRepository {
	return s.pages.WithTx(s.db.WithContext(ctx))
}

func (s *PageService) reload(ctx context.Context, id string) (*domain.Page, error) {
	page, err := s.reader(ctx).FindByID(id)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, domain.ErrNotFound
	}
	return page, nil
}

func (s *PageService) invalidate(ctx context.Context, slugs ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(slugs))
	seen := map[string]struct{}{}
	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		keys = append(keys, pageCacheKey(slug))
	}
	s.cache.Invalidate(ctx, keys...)
}

func pageCacheKey(slug string) string { return "page:slug:" + slug }

// applyPageFields 按字段规则套用部分更新；slug 与 isHomePage 在事务里单独处理
func applyPageFields(page *domain.Page, in PageUpdateInput) {
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		page.Title = *in.Title
	}
	if len(in.Content) > 0 && string(in.Content) != "null" {
		page.Content = in.Content
	}
	if in.CustomCSS != nil {
		page.CustomCSS = *in.CustomCSS
	}
	if in.CustomJS != nil {
		page.CustomJS = *in.CustomJS
	}
	if in.Status != nil && *in.Status != "" {
		page.Status = *in.Status
	}
	if in.Description != nil {
		page.Description = *in.Description
	}
	if in.Keywords != nil {
		page.Keywords = datatypes.NewJSONSlice(in.Keywords)
	}
	if in.OgImage != nil {
		page.OgImage = *in.OgImage
	}
}
