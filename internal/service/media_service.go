package service

import (
	"context"

	"go-cms-backend/internal/domain"
	"go-cms-backend/pkg/utils"
)

// MediaService keeps metadata rows for uploaded files; the handler owns the
// disk I/O so the service stays storage-agnostic and easy to test.
type MediaService struct {
	media domain.MediaRepository
}

func NewMediaService(media domain.MediaRepository) *MediaService {
	return &MediaService{media: media}
}

type MediaCreateInput struct {
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Path         string
	URL          string
	Alt          string
	Caption      string
}

type MediaUpdateInput struct {
	Alt     *string `json:"alt"`
	Caption *string `json:"caption"`
}

func (s *MediaService) Create(ctx context.Context, in MediaCreateInput) (*domain.Media, error) {
	m := &domain.Media{
		ID:           utils.NewID(),
		Filename:     in.Filename,
		OriginalName: in.OriginalName,
		MimeType:     in.MimeType,
		Size:         in.Size,
		Path:         in.Path,
		URL:          in.URL,
		Alt:          in.Alt,
		Caption:      in.Caption,
	}
	if err := s.media.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MediaService) Get(ctx context.Context, id string) (*domain.Media, error) {
	m, err := s.media.FindByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (s *MediaService) List(ctx context.Context, mimeType string, limit, offset int) ([]domain.Media, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.media.List(mimeType, limit, offset)
}

// UpdateMeta 只允许改 alt 与 caption；文件本体不可变
func (s *MediaService) UpdateMeta(ctx context.Context, id string, in MediaUpdateInput) (*domain.Media, error) {
	m, err := s.media.FindByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if in.Alt != nil {
		m.Alt = *in.Alt
	}
	if in.Caption != nil {
		m.Caption = *in.Caption
	}
	if err := s.media.Save(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes the row and reports the deleted record so the caller can
// unlink the file on disk.
func (s *MediaService) Delete(ctx context.Context, id string) (*domain.Media, error) {
	m, err := s.media.FindByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if err := s.media.Delete(id); err != nil {
		return nil, err
	}
	return m, nil
}
