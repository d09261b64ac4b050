// Package progress owns per-(user, book) reading-position records: last page,
// EPUB CFI and percentage as reported by the reader frontend.
//
// Position values are stored as given. The server does not recompute the
// percentage from the book's page count; the reader is trusted to report a
// consistent position.
package progress

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/openshelf/internal/database"
	"github.com/mrlokans/openshelf/internal/entities"
)

// ReadingMarker flips a library item to "reading" as a side effect of a
// progress write. Implemented by the library repository.
type ReadingMarker interface {
	MarkReading(tx *gorm.DB, userID, bookID uint) error
}

// Update is a partial progress update. Nil fields are left unchanged.
type Update struct {
	LastPage   *int     `json:"lastPage"`
	LastCFI    *string  `json:"lastCfi"`
	Percentage *float64 `json:"percentage"`
}

// Repository handles all reading-progress database operations.
type Repository struct {
	db     *gorm.DB
	marker ReadingMarker
}

// NewRepository creates a new progress repository. The marker receives the
// implicit status transition for every committed update.
func NewRepository(db *gorm.DB, marker ReadingMarker) *Repository {
	return &Repository{db: db, marker: marker}
}

// Get returns the progress record for (user, book) together with the book's
// total page count. The record is nil when the user has never reported a
// position for this book; callers render the defaults (page 1, 0%).
func (r *Repository) Get(userID, bookID uint) (*entities.ProgressRecord, int, error) {
	var book entities.Book
	err := r.db.First(&book, bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, database.ErrBookNotFound
	}
	if err != nil {
		return nil, 0, err
	}

	var record entities.ProgressRecord
	err = r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, book.TotalPages, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return &record, book.TotalPages, nil
}

// Apply upserts the progress record with the given partial update and stamps
// LastReadAt with the current time, then signals the library state machine.
// Both writes run in one transaction: a failed transition leaves no progress
// behind, and vice versa. Concurrent writers for the same pair serialize on
// the unique (user, book) index; the last committed write wins.
func (r *Repository) Apply(userID, bookID uint, update Update) (*entities.ProgressRecord, error) {
	var record entities.ProgressRecord
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := database.BookExists(tx, bookID); err != nil {
			return err
		}

		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = entities.ProgressRecord{
				UserID:   userID,
				BookID:   bookID,
				LastPage: 1,
			}
		} else if err != nil {
			return err
		}

		if update.LastPage != nil {
			record.LastPage = *update.LastPage
		}
		if update.LastCFI != nil {
			record.LastCFI = update.LastCFI
		}
		if update.Percentage != nil {
			record.Percentage = *update.Percentage
		}
		record.LastReadAt = time.Now().UTC()

		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		return r.marker.MarkReading(tx, userID, bookID)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListRecent returns the user's progress records ordered by most recently
// read, with the book preloaded.
func (r *Repository) ListRecent(userID uint, limit int) ([]entities.ProgressRecord, error) {
	var records []entities.ProgressRecord
	query := r.db.Preload("Book").
		Where("user_id = ?", userID).
		Order("last_read_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}

// ForBooks returns the user's progress records for the given books keyed by
// book ID. The dashboard uses this to attach progress to currently-reading
// items in one query.
func (r *Repository) ForBooks(userID uint, bookIDs []uint) (map[uint]entities.ProgressRecord, error) {
	result := make(map[uint]entities.ProgressRecord, len(bookIDs))
	if len(bookIDs) == 0 {
		return result, nil
	}

	var records []entities.ProgressRecord
	err := r.db.Where("user_id = ? AND book_id IN ?", userID, bookIDs).Find(&records).Error
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		result[record.BookID] = record
	}
	return result, nil
}
