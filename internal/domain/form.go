package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Form is a submittable form definition; responses are captured publicly.
type Form struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	Name          string         `gorm:"size:191;not null" json:"name"`
	Slug          string         `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	Description   string         `gorm:"size:512" json:"description"`
	Fields        datatypes.JSON `json:"fields"`
	Settings      datatypes.JSON `json:"settings"`
	AuthorID      string         `gorm:"size:36;not null;index" json:"authorId"`
	Author        *Author        `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	ResponseCount int64          `gorm:"-" json:"responseCount"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (Form) TableName() string { return "forms" }

type FormResponse struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	FormID    string         `gorm:"size:36;not null;index" json:"formId"`
	Data      datatypes.JSON `json:"data"`
	IPAddress string         `gorm:"size:64" json:"ipAddress"`
	UserAgent string         `gorm:"size:512" json:"userAgent"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (FormResponse) TableName() string { return "form_responses" }

type FormRepository interface {
	WithTx(tx *gorm.DB) FormRepository
	Create(f *Form) error
	FindByID(id string) (*Form, error)
	FindBySlug(slug string) (*Form, error)
	List() ([]Form, error)
	Save(f *Form) error
	Delete(id string) error
	CreateResponse(r *FormResponse) error
	ListResponses(formID string, limit, offset int) ([]FormResponse, int64, error)
	CountResponses(formID string) (int64, error)
}
