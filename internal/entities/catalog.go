package entities

import (
	"time"
)

// Book is a catalog entry. The catalog is fixed content shipped with the
// server; users never create books, they only attach library state to them.
type Book struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Slug        string   `gorm:"uniqueIndex;size:100" json:"slug"`
	Title       string   `gorm:"index;size:255" json:"title"`
	Author      string   `gorm:"index;size:255" json:"author"`
	Year        int      `json:"year,omitempty"`
	Language    string   `gorm:"size:50;default:'English'" json:"language"`
	Description string   `gorm:"type:text" json:"description,omitempty"`
	Genres      []string `gorm:"serializer:json" json:"genres"`

	// File information for the reader frontend
	CoverPath  string `gorm:"size:255" json:"coverPath,omitempty"`
	FilePath   string `gorm:"size:255" json:"filePath,omitempty"`
	FileFormat string `gorm:"size:20;default:'epub'" json:"fileFormat,omitempty"`
	TotalPages int    `gorm:"default:0" json:"totalPages"`

	SourceURL string `gorm:"size:500" json:"sourceUrl,omitempty"`
	// Upstream origin of the cover image, used to populate the local cache.
	// Clients load covers through CoverPath.
	CoverURL string `gorm:"size:500" json:"coverUrl,omitempty"`
	License  string `gorm:"size:100;default:'Public Domain'" json:"license"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Book) TableName() string {
	return "books"
}
