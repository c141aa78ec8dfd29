package repo

import (
	"errors"

	"gorm.io/gorm"

	"go-cms-backend/internal/domain"
)

type MediaRepo struct{ db *gorm.DB }

func NewMediaRepo(db *gorm.DB) *MediaRepo { return &MediaRepo{db: db} }

var _ domain.MediaRepository = (*MediaRepo)(nil)

func (r *MediaRepo) Create(m *domain.Media) error { return r.db.Create(m).Error }

func (r *MediaRepo) FindByID(id string) (*domain.Media, error) {
	var m domain.Media
	err := r.db.First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List 按 mimeType 过滤（可空），limit/offset 分页，同时返回总数
func (r *MediaRepo) List(mimeType string, limit, offset int) ([]domain.Media, int64, error) {
	q := r.db.Model(&domain.Media{})
	if mimeType != "" {
		q = q.Where("mime_type = ?", mimeType)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.Media
	if err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MediaRepo) Save(m *domain.Media) error { return r.db.Save(m).Error }

func (r *MediaRepo) Delete(id string) error {
	return r.db.Delete(&domain.Media{}, "id = ?", id).Error
}
