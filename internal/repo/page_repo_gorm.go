package repo

import (
	"errors"

	"gorm.io/gorm"

	"go-cms-backend/internal/domain"
)

type PageRepo struct{ db *gorm.DB }

func NewPageRepo(db *gorm.DB) *PageRepo { return &PageRepo{db: db} }

var _ domain.PageRepository = (*PageRepo)(nil)

// WithTx 返回绑定到事务的副本
func (r *PageRepo) WithTx(tx *gorm.DB) domain.PageRepository { return &PageRepo{db: tx} }

func (r *PageRepo) Create(p *domain.Page) error { return r.db.Create(p).Error }

func (r *PageRepo) FindByID(id string) (*domain.Page, error) {
	var p domain.Page
	err := r.db.Preload("Author").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PageRepo) FindBySlug(slug string) (*domain.Page, error) {
	var p domain.Page
	err := r.db.First(&p, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PageRepo) FindPublishedBySlug(slug string) (*domain.Page, error) {
	var p domain.Page
	err := r.db.Preload("Author").
		First(&p, "slug = ? AND status = ?", slug, domain.PageStatusPublished).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PageRepo) ListByAuthor(authorID string) ([]domain.Page, error) {
	var pages []domain.Page
	err := r.db.Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at asc").
		Find(&pages).Error
	return pages, err
}

// ClearHomeFlag 清掉某作者除 exceptID 之外所有页面的主页标记
func (r *PageRepo) ClearHomeFlag(authorID, exceptID string) error {
	q := r.db.Model(&domain.Page{}).Where("author_id = ? AND is_home_page = ?", authorID, true)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Update("is_home_page", false).Error
}

func (r *PageRepo) Save(p *domain.Page) error { return r.db.Save(p).Error }

func (r *PageRepo) Delete(id string) error {
	return r.db.Delete(&domain.Page{}, "id = ?", id).Error
}
