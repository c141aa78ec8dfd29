package repo

import (
	"errors"

	"gorm.io/gorm"

	"go-cms-backend/internal/domain"
)

type CollectionRepo struct{ db *gorm.DB }

func NewCollectionRepo(db *gorm.DB) *CollectionRepo { return &CollectionRepo{db: db} }

var _ domain.CollectionRepository = (*CollectionRepo)(nil)

func (r *CollectionRepo) WithTx(tx *gorm.DB) domain.CollectionRepository {
	return &CollectionRepo{db: tx}
}

func (r *CollectionRepo) Create(col *domain.Collection) error { return r.db.Create(col).Error }

func (r *CollectionRepo) FindByID(id string) (*domain.Collection, error) {
	var col domain.Collection
	err := r.db.Preload("Author").First(&col, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

func (r *CollectionRepo) FindByIDWithItems(id string) (*domain.Collection, error) {
	var col domain.Collection
	err := r.db.Preload("Author").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc")
		}).
		First(&col, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

func (r *CollectionRepo) FindBySlug(slug string) (*domain.Collection, error) {
	var col domain.Collection
	err := r.db.First(&col, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

func (r *CollectionRepo) List() ([]domain.Collection, error) {
	var cols []domain.Collection
	err := r.db.Preload("Author").Order("updated_at desc").Find(&cols).Error
	return cols, err
}

func (r *CollectionRepo) Save(col *domain.Collection) error { return r.db.Save(col).Error }

func (r *CollectionRepo) Delete(id string) error {
	return r.db.Delete(&domain.Collection{}, "id = ?", id).Error
}

func (r *CollectionRepo) CreateItem(item *domain.CollectionItem) error {
	return r.db.Create(item).Error
}

func (r *CollectionRepo) CountItems(collectionID string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.CollectionItem{}).
		Where("collection_id = ?", collectionID).Count(&n).Error
	return n, err
}
