package domain

import "time"

// Media is an uploaded file stored on local disk; the row keeps its metadata.
type Media struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Filename     string    `gorm:"size:255;not null" json:"filename"`
	OriginalName string    `gorm:"size:255;not null" json:"originalName"`
	MimeType     string    `gorm:"size:100;not null;index" json:"mimeType"`
	Size         int64     `gorm:"not null" json:"size"`
	Path         string    `gorm:"size:512;not null" json:"path"`
	URL          string    `gorm:"size:512;not null" json:"url"`
	Alt          string    `gorm:"size:255" json:"alt"`
	Caption      string    `gorm:"size:512" json:"caption"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Media) TableName() string { return "media" }

type MediaRepository interface {
	Create(m *Media) error
	FindByID(id string) (*Media, error)
	List(mimeType string, limit, offset int) ([]Media, int64, error)
	Save(m *Media) error
	Delete(id string) error
}
