package repo

import (
	"errors"

	"gorm.io/gorm"

	"go-cms-backend/internal/domain"
)

type MenuRepo struct{ db *gorm.DB }

func NewMenuRepo(db *gorm.DB) *MenuRepo { return &MenuRepo{db: db} }

var _ domain.MenuRepository = (*MenuRepo)(nil)

func (r *MenuRepo) WithTx(tx *gorm.DB) domain.MenuRepository { return &MenuRepo{db: tx} }

func (r *MenuRepo) Create(m *domain.Menu) error { return r.db.Create(m).Error }

func (r *MenuRepo) FindByID(id string) (*domain.Menu, error) {
	var m domain.Menu
	err := r.db.Preload("Author").First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MenuRepo) FindBySlug(slug string) (*domain.Menu, error) {
	var m domain.Menu
	err := r.db.First(&m, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MenuRepo) List() ([]domain.Menu, error) {
	var menus []domain.Menu
	err := r.db.Preload("Author").Order("updated_at desc").Find(&menus).Error
	return menus, err
}

func (r *MenuRepo) Save(m *domain.Menu) error { return r.db.Save(m).Error }

func (r *MenuRepo) Delete(id string) error {
	return r.db.Delete(&domain.Menu{}, "id = ?", id).Error
}
