package entities

import (
	"time"
)

// LibraryStatus is a user's reading status for a single book.
type LibraryStatus string

const (
	StatusWantToRead LibraryStatus = "want_to_read"
	StatusReading    LibraryStatus = "reading"
	StatusFinished   LibraryStatus = "finished"
)

// IsValid reports whether the status is one of the three known values.
// The zero value (no row) is deliberately not a valid status.
func (s LibraryStatus) IsValid() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusFinished:
		return true
	}
	return false
}

// LibraryItem records a user's reading status for one book. At most one row
// exists per (user, book); the absence of a row means "not in library",
// which is distinct from an explicit want_to_read entry.
type LibraryItem struct {
	ID     uint          `gorm:"primaryKey" json:"id"`
	UserID uint          `gorm:"uniqueIndex:idx_library_user_book;index" json:"userId"`
	BookID uint          `gorm:"uniqueIndex:idx_library_user_book;index" json:"bookId"`
	Status LibraryStatus `gorm:"size:20;default:'want_to_read'" json:"status"`

	AddedAt    time.Time  `gorm:"autoCreateTime" json:"addedAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	FinishedAt *time.Time `json:"finishedAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"book,omitempty"`
}

// ProgressRecord tracks a user's last reading position in a book. One row per
// (user, book), created lazily on the first progress write.
type ProgressRecord struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_progress_user_book;index" json:"userId"`
	BookID uint `gorm:"uniqueIndex:idx_progress_user_book;index" json:"bookId"`

	LastPage   int     `gorm:"default:1" json:"lastPage"`
	LastCFI    *string `gorm:"size:500" json:"lastCfi"` // EPUB CFI, format owned by the reader
	Percentage float64 `gorm:"default:0" json:"percentage"`

	StartedAt  time.Time `gorm:"autoCreateTime" json:"startedAt"`
	LastReadAt time.Time `json:"lastReadAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"book,omitempty"`
}

// Favorite marks a book as a user's favorite. Presence of the row is the
// whole state; the unique index is the backstop against concurrent double
// toggles.
type Favorite struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_favorite_user_book;index" json:"userId"`
	BookID uint `gorm:"uniqueIndex:idx_favorite_user_book;index" json:"bookId"`

	CreatedAt time.Time `json:"createdAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"book,omitempty"`
}

// ReadingGoal is a yearly target of books to finish. One row per (user, year),
// never deleted automatically.
type ReadingGoal struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	UserID      uint `gorm:"uniqueIndex:idx_goal_user_year;index" json:"userId"`
	Year        int  `gorm:"uniqueIndex:idx_goal_user_year" json:"year"`
	TargetBooks int  `gorm:"default:12" json:"targetBooks"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (LibraryItem) TableName() string {
	return "user_library"
}

func (ProgressRecord) TableName() string {
	return "reading_progress"
}

func (Favorite) TableName() string {
	return "favorites"
}

func (ReadingGoal) TableName() string {
	return "reading_goals"
}
