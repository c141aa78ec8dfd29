package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Page statuses
const (
	PageStatusDraft     = "DRAFT"
	PageStatusPublished = "PUBLISHED"
)

// Page is a standalone CMS page. Two invariants hold after every successful
// mutation: slugs are unique across all pages, and each author has at most
// one page flagged as home page.
type Page struct {
	ID          string                      `gorm:"primaryKey;size:36" json:"id"`
	Title       string                      `gorm:"size:191;not null" json:"title"`
	Slug        string                      `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	Content     datatypes.JSON              `json:"content"`
	CustomCSS   string                      `gorm:"type:text" json:"customCss"`
	CustomJS    string                      `gorm:"type:text" json:"customJs"`
	Status      string                      `gorm:"size:16;not null;default:DRAFT" json:"status"`
	Description string                      `gorm:"size:512" json:"description"`
	Keywords    datatypes.JSONSlice[string] `json:"keywords"`
	OgImage     string                      `gorm:"size:512" json:"ogImage"`
	IsHomePage  bool                        `gorm:"not null;default:false" json:"isHomePage"`
	AuthorID    string                      `gorm:"size:36;not null;index" json:"authorId"`
	Author      *Author                     `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func (Page) TableName() string { return "pages" }

func IsValidPageStatus(s string) bool {
	return s == PageStatusDraft || s == PageStatusPublished
}

type PageRepository interface {
	WithTx(tx *gorm.DB) PageRepository
	Create(p *Page) error
	FindByID(id string) (*Page, error)
	FindBySlug(slug string) (*Page, error)
	FindPublishedBySlug(slug string) (*Page, error)
	ListByAuthor(authorID string) ([]Page, error)
	ClearHomeFlag(authorID, exceptID string) error
	Save(p *Page) error
	Delete(id string) error
}
