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

// FormService manages form definitions and their submitted responses.
// Response submission is the one public write path in the system.
type FormService struct {
	db    *gorm.DB
	forms domain.FormRepository
}

func NewFormService(db *gorm.DB, forms domain.FormRepository) *FormService {
	return &FormService{db: db, forms: forms}
}

type FormCreateInput struct {
	Name        string         `json:"name" binding:"required"`
	Slug        string         `json:"slug" binding:"required"`
	Description string         `json:"description"`
	Fields      datatypes.JSON `json:"fields"`
	Settings    datatypes.JSON `json:"settings"`
}

type FormUpdateInput struct {
	Name        *string        `json:"name"`
	Slug        *string        `json:"slug"`
	Description *string        `json:"description"`
	Fields      datatypes.JSON `json:"fields"`
	Settings    datatypes.JSON `json:"settings"`
}

type ResponseMeta struct {
	IPAddress string
	UserAgent string
}

func (s *FormService) Create(ctx context.Context, authorID string, in FormCreateInput) (*domain.Form, error) {
	if authorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", domain.ErrValidation)
	}

	fields := in.Fields
	if len(fields) == 0 {
		fields = datatypes.JSON([]byte("[]"))
	}
	settings := in.Settings
	if len(settings) == 0 {
		settings = datatypes.JSON([]byte("{}"))
	}

	form := &domain.Form{
		ID:          utils.NewID(),
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Fields:      fields,
		Settings:    settings,
		AuthorID:    authorID,
	}

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		forms := s.forms.WithTx(tx)
		existing, err := forms.FindBySlug(slug)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateSlug
		}
		if err := forms.Create(form); err != nil {
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
	return s.Get(ctx, form.ID)
}

func (s *FormService) Update(ctx context.Context, id string, in FormUpdateInput) (*domain.Form, error) {
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		forms := s.forms.WithTx(tx)
		form, err := forms.FindByID(id)
		if err != nil {
			return err
		}
		if form == nil {
			return domain.ErrNotFound
		}

		if in.Slug != nil {
			slug := strings.TrimSpace(*in.Slug)
			if slug != "" && slug != form.Slug {
				owner, err := forms.FindBySlug(slug)
				if err != nil {
					return err
				}
				if owner != nil && owner.ID != form.ID {
					return domain.ErrDuplicateSlug
				}
				form.Slug = slug
			}
		}
		if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
			form.Name = *in.Name
		}
		if in.Description != nil {
			form.Description = *in.Description
		}
		if len(in.Fields) > 0 && string(in.Fields) != "null" {
			form.Fields = in.Fields
		}
		if len(in.Settings) > 0 && string(in.Settings) != "null" {
			form.Settings = in.Settings
		}

		if err := forms.Save(form); err != nil {
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

func (s *FormService) Delete(ctx context.Context, id string) error {
	return runTx(ctx, s.db, func(tx *gorm.DB) error {
		forms := s.forms.WithTx(tx)
		form, err := forms.FindByID(id)
		if err != nil {
			return err
		}
		if form == nil {
			return domain.ErrNotFound
		}
		return forms.Delete(id)
	})
}

func (s *FormService) Get(ctx context.Context, id string) (*domain.Form, error) {
	forms := s.reader(ctx)
	form, err := forms.FindByID(id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, domain.ErrNotFound
	}
	form.ResponseCount, err = forms.CountResponses(id)
	if err != nil {
		return nil, err
	}
	return form, nil
}

func (s *FormService) List(ctx context.Context) ([]domain.Form, error) {
	forms := s.reader(ctx)
	list, err := forms.List()
	if err != nil {
		return nil, err
	}
	for i := range list {
		n, err := forms.CountResponses(list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].ResponseCount = n
	}
	return list, nil
}

// SubmitResponse 公开提交入口；只校验表单存在，内容不做结构校验
func (s *FormService) SubmitResponse(ctx context.Context, formID string, data datatypes.JSON, meta ResponseMeta) (*domain.FormResponse, error) {
	if len(data) == 0 {
		data = datatypes.JSON([]byte("{}"))
	}
	resp := &domain.FormResponse{
		ID:        utils.NewID(),
		FormID:    formID,
		Data:      data,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		forms := s.forms.WithTx(tx)
		form, err := forms.FindByID(formID)
		if err != nil {
			return err
		}
		if form == nil {
			return domain.ErrNotFound
		}
		return forms.CreateResponse(resp)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *FormService) ListResponses(ctx context.Context, formID string, limit, offset int) ([]domain.FormResponse, int64, error) {
	forms := s.reader(ctx)
	form, err := forms.FindByID(formID)
	if err != nil {
		return nil, 0, err
	}
	if form == nil {
		return nil, 0, domain.ErrNotFound
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return forms.ListResponses(formID, limit, offset)
}

func (s *FormService) reader(ctx context.Context) domain.FormRepository {
	return s.forms.WithTx(s.db.WithContext(ctx))
}
