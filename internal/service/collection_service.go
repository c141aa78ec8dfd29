package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"go-cms-backend/internal/domain"
	"go-cms-backend/pkg/utils"
)

// CollectionService manages user-defined content types and their items.
// Collection slugs share the page-style uniqueness protocol: pre-check plus
// unique index, both inside one transaction.
type CollectionService struct {
	db          *gorm.DB
	collections domain.CollectionRepository
}

func NewCollectionService(db *gorm.DB, collections domain.CollectionRepository) *CollectionService {
	return &CollectionService{db: db, collections: collections}
}

type CollectionCreateInput struct {
	Name        string         `json:"name" binding:"required"`
	Slug        string         `json:"slug" binding:"required"`
	Description string         `json:"description"`
	Fields      datatypes.JSON `json:"fields"`
}

type CollectionUpdateInput struct {
	Name        *string        `json:"name"`
	Slug        *string        `json:"slug"`
	Description *string        `json:"description"`
	Fields      datatypes.JSON `json:"fields"`
}

type ItemCreateInput struct {
	Data   datatypes.JSON `json:"data"`
	Status string         `json:"status"`
}

func (s *CollectionService) Create(ctx context.Context, authorID string, in CollectionCreateInput) (*domain.Collection, error) {
	if authorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", domain.ErrValidation)
	}

	fields := in.Fields
	if len(fields) == 0 {
		fields = datatypes.JSON([]byte("{}"))
	}

	col := &domain.Collection{
		ID:          utils.NewID(),
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Fields:      fields,
		AuthorID:    authorID,
	}

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		cols := s.collections.WithTx(tx)
		existing, err := cols.FindBySlug(slug)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateSlug
		}
		if err := cols.Create(col); err != nil {
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
	return s.reader(ctx).FindByID(col.ID)
}

func (s *CollectionService) Update(ctx context.Context, id string, in CollectionUpdateInput) (*domain.Collection, error) {
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		cols := s.collections.WithTx(tx)
		col, err := cols.FindByID(id)
		if err != nil {
			return err
		}
		if col == nil {
			return domain.ErrNotFound
		}

		if in.Slug != nil {
			slug := strings.TrimSpace(*in.Slug)
			if slug != "" && slug != col.Slug {
				owner, err := cols.FindBySlug(slug)
				if err != nil {
					return err
				}
				if owner != nil && owner.ID != col.ID {
					return domain.ErrDuplicateSlug
				}
				col.Slug = slug
			}
		}
		if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
			col.Name = *in.Name
		}
		if in.Description != nil {
			col.Description = *in.Description
		}
		if len(in.Fields) > 0 && string(in.Fields) != "null" {
			col.Fields = in.Fields
		}

		if err := cols.Save(col); err != nil {
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
	return s.Get(ctx, id)
}

func (s *CollectionService) Delete(ctx context.Context, id string) error {
	return runTx(ctx, s.db, func(tx *gorm.DB) error {
		cols := s.collections.WithTx(tx)
		col, err := cols.FindByID(id)
		if err != nil {
			return err
		}
		if col == nil {
			return domain.ErrNotFound
		}
		return cols.Delete(id)
	})
}

// Get 返回集合及其条目（按创建时间倒序）
func (s *CollectionService) Get(ctx context.Context, id string) (*domain.Collection, error) {
	cols := s.reader(ctx)
	col, err := cols.FindByIDWithItems(id)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, domain.ErrNotFound
	}
	col.ItemCount, err = cols.CountItems(id)
	if err != nil {
		return nil, err
	}
	return col, nil
}

func (s *CollectionService) List(ctx context.Context) ([]domain.Collection, error) {
	cols := s.reader(ctx)
	list, err := cols.List()
	if err != nil {
		return nil, err
	}
	for i := range list {
		n, err := cols.CountItems(list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].ItemCount = n
	}
	return list, nil
}

func (s *CollectionService) CreateItem(ctx context.Context, collectionID string, in ItemCreateInput) (*domain.CollectionItem, error) {
	status := in.Status
	if status == "" {
		status = "draft"
	}
	data := in.Data
	if len(data) == 0 {
		data = datatypes.JSON([]byte("{}"))
	}

	item := &domain.CollectionItem{
		ID:           utils.NewID(),
		CollectionID: collectionID,
		Data:         data,
		Status:       status,
	}

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		cols := s.collections.WithTx(tx)
		col, err := cols.FindByID(collectionID)
		if err != nil {
			return err
		}
		if col == nil {
			return domain.ErrNotFound
		}
		return cols.CreateItem(item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CollectionService) reader(ctx context.Context) domain.CollectionRepository {
	return s.collections.WithTx(s.db.WithContext(ctx))
}
