package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Collection is a user-defined content type: a named field schema plus items.
type Collection struct {
	ID          string           `gorm:"primaryKey;size:36" json:"id"`
	Name        string           `gorm:"size:191;not null" json:"name"`
	Slug        string           `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	Description string           `gorm:"size:512" json:"description"`
	Fields      datatypes.JSON   `json:"fields"`
	AuthorID    string           `gorm:"size:36;not null;index" json:"authorId"`
	Author      *Author          `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Items       []CollectionItem `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	ItemCount   int64            `gorm:"-" json:"itemCount"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (Collection) TableName() string { return "collections" }

type CollectionItem struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	CollectionID string         `gorm:"size:36;not null;index" json:"collectionId"`
	Data         datatypes.JSON `json:"data"`
	Status       string         `gorm:"size:16;not null;default:draft" json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (CollectionItem) TableName() string { return "collection_items" }

type CollectionRepository interface {
	WithTx(tx *gorm.DB) CollectionRepository
	Create(col *Collection) error
	FindByID(id string) (*Collection, error)
	FindByIDWithItems(id string) (*Collection, error)
	FindBySlug(slug string) (*Collection, error)
	List() ([]Collection, error)
	Save(col *Collection) error
	Delete(id string) error
	CreateItem(item *CollectionItem) error
	CountItems(collectionID string) (int64, error)
}
