package repo

import (
	"errors"

	"gorm.io/gorm"

	"go-cms-backend/internal/domain"
)

type FormRepo struct{ db *gorm.DB }

func NewFormRepo(db *gorm.DB) *FormRepo { return &FormRepo{db: db} }

var _ domain.FormRepository = (*FormRepo)(nil)

func (r *FormRepo) WithTx(tx *gorm.DB) domain.FormRepository { return &FormRepo{db: tx} }

func (r *FormRepo) Create(f *domain.Form) error { return r.db.Create(f).Error }

func (r *FormRepo) FindByID(id string) (*domain.Form, error) {
	var f domain.Form
	err := r.db.Preload("Author").First(&f, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FormRepo) FindBySlug(slug string) (*domain.Form, error) {
	var f domain.Form
	err := r.db.First(&f, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FormRepo) List() ([]domain.Form, error) {
	var forms []domain.Form
	err := r.db.Preload("Author").Order("updated_at desc").Find(&forms).Error
	return forms, err
}

func (r *FormRepo) Save(f *domain.Form) error { return r.db.Save(f).Error }

func (r *FormRepo) Delete(id string) error {
	return r.db.Delete(&domain.Form{}, "id = ?", id).Error
}

func (r *FormRepo) CreateResponse(resp *domain.FormResponse) error {
	return r.db.Create(resp).Error
}

func (r *FormRepo) ListResponses(formID string, limit, offset int) ([]domain.FormResponse, int64, error) {
	q := r.db.Model(&domain.FormResponse{}).Where("form_id = ?", formID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.FormResponse
	if err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *FormRepo) CountResponses(formID string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.FormResponse{}).Where("form_id = ?", formID).Count(&n).Error
	return n, err
}
