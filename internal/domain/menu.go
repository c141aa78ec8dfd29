package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Menu is a navigation tree bound to a layout location (header, footer...).
type Menu struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Name      string         `gorm:"size:191;not null" json:"name"`
	Slug      string         `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	Location  string         `gorm:"size:64" json:"location"`
	Items     datatypes.JSON `json:"items"`
	AuthorID  string         `gorm:"size:36;not null;index" json:"authorId"`
	Author    *Author        `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (Menu) TableName() string { return "menus" }

type MenuRepository interface {
	WithTx(tx *gorm.DB) MenuRepository
	Create(m *Menu) error
	FindByID(id string) (*Menu, error)
	FindBySlug(slug string) (*Menu, error)
	List() ([]Menu, error)
	Save(m *Menu) error
	Delete(id string) error
}
