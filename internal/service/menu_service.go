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

// MenuService manages navigation menus; slugs follow the shared protocol.
type MenuService struct {
	db    *gorm.DB
	menus domain.MenuRepository
}

func NewMenuService(db *gorm.DB, menus domain.MenuRepository) *MenuService {
	return &MenuService{db: db, menus: menus}
}

type MenuCreateInput struct {
	Name     string         `json:"name" binding:"required"`
	Slug     string         `json:"slug" binding:"required"`
	Location string         `json:"location"`
	Items    datatypes.JSON `json:"items"`
}

type MenuUpdateInput struct {
	Name     *string        `json:"name"`
	Slug     *string        `json:"slug"`
	Location *string        `json:"location"`
	Items    datatypes.JSON `json:"items"`
}

func (s *MenuService) Create(ctx context.Context, authorID string, in MenuCreateInput) (*domain.Menu, error) {
	if authorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", domain.ErrValidation)
	}

	items := in.Items
	if len(items) == 0 {
		items = datatypes.JSON([]byte("[]"))
	}

	menu := &domain.Menu{
		ID:       utils.NewID(),
		Name:     in.Name,
		Slug:     slug,
		Location: in.Location,
		Items:    items,
		AuthorID: authorID,
	}

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		menus := s.menus.WithTx(tx)
		existing, err := menus.FindBySlug(slug)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateSlug
		}
		if err := menus.Create(menu); err != nil {
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
	return s.Get(ctx, menu.ID)
}

func (s *MenuService) Update(ctx context.Context, id string, in MenuUpdateInput) (*domain.Menu, error) {
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		menus := s.menus.WithTx(tx)
		menu, err := menus.FindByID(id)
		if err != nil {
			return err
		}
		if menu == nil {
			return domain.ErrNotFound
		}

		if in.Slug != nil {
			slug := strings.TrimSpace(*in.Slug)
			if slug != "" && slug != menu.Slug {
				owner, err := menus.FindBySlug(slug)
				if err != nil {
					return err
				}
				if owner != nil && owner.ID != menu.ID {
					return domain.ErrDuplicateSlug
				}
				menu.Slug = slug
			}
		}
		if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
			menu.Name = *in.Name
		}
		if in.Location != nil {
			menu.Location = *in.Location
		}
		if len(in.Items) > 0 && string(in.Items) != "null" {
			menu.Items = in.Items
		}

		if err := menus.Save(menu); err != nil {
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

func (s *MenuService) Delete(ctx context.Context, id string) error {
	return runTx(ctx, s.db, func(tx *gorm.DB) error {
		menus := s.menus.WithTx(tx)
		menu, err := menus.FindByID(id)
		if err != nil {
			return err
		}
		if menu == nil {
			return domain.ErrNotFound
		}
		return menus.Delete(id)
	})
}

func (s *MenuService) Get(ctx context.Context, id string) (*domain.Menu, error) {
	menu, err := s.menus.WithTx(s.db.WithContext(ctx)).FindByID(id)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, domain.ErrNotFound
	}
	return menu, nil
}

func (s *MenuService) List(ctx context.Context) ([]domain.Menu, error) {
	return s.menus.WithTx(s.db.WithContext(ctx)).List()
}
