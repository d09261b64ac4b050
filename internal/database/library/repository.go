// Package library owns the reading-status state machine: the want_to_read /
// reading / finished status a user assigns to a catalog book.
//
// No transition is forbidden, but transitions carry side effects: entering
// "finished" stamps FinishedAt, leaving it clears the stamp. The one indirect
// mutation is MarkReading, invoked by the progress repository inside its own
// transaction when a position write lands on a book that is absent from the
// library or still want_to_read.
package library

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/openshelf/internal/database"
	"github.com/mrlokans/openshelf/internal/entities"
)

// ErrInvalidStatus is returned when a caller-supplied status is not one of
// the three known values.
var ErrInvalidStatus = errors.New("invalid library status")

// Repository handles all library-status database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new library repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SetStatus upserts the library item for (user, book) and applies the status
// side effects. Creating and updating go through one transaction so the
// unique (user, book) index serializes concurrent writers.
func (r *Repository) SetStatus(userID, bookID uint, status entities.LibraryStatus) (*entities.LibraryItem, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	var item entities.LibraryItem
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := database.BookExists(tx, bookID); err != nil {
			return err
		}

		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = entities.LibraryItem{UserID: userID, BookID: bookID}
		} else if err != nil {
			return err
		}

		item.Status = status
		if status == entities.StatusFinished {
			now := time.Now().UTC()
			item.FinishedAt = &now
		} else {
			item.FinishedAt = nil
		}

		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Get returns the library item for (user, book), or nil when the book is not
// in the user's library. A missing row is deliberately distinct from an
// explicit want_to_read entry.
func (r *Repository) Get(userID, bookID uint) (*entities.LibraryItem, error) {
	if err := database.BookExists(r.db, bookID); err != nil {
		return nil, err
	}

	var item entities.LibraryItem
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Remove deletes the library item if present. Removing an absent item is not
// an error.
func (r *Repository) Remove(userID, bookID uint) error {
	return r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entities.LibraryItem{}).Error
}

// CountFinishedSince counts books the user finished at or after the given
// time. The goal aggregator uses this with January 1st of the goal year.
func (r *Repository) CountFinishedSince(userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&entities.LibraryItem{}).
		Where("user_id = ? AND status = ? AND finished_at >= ?", userID, entities.StatusFinished, since).
		Count(&count).Error
	return count, err
}

// ListReading returns all items the user is currently reading.
func (r *Repository) ListReading(userID uint) ([]entities.LibraryItem, error) {
	var items []entities.LibraryItem
	err := r.db.Preload("Book").
		Where("user_id = ? AND status = ?", userID, entities.StatusReading).
		Order("updated_at DESC").
		Find(&items).Error
	return items, err
}

// ListFinished returns the most recently finished items, newest first.
func (r *Repository) ListFinished(userID uint, limit int) ([]entities.LibraryItem, error) {
	var items []entities.LibraryItem
	query := r.db.Preload("Book").
		Where("user_id = ? AND status = ?", userID, entities.StatusFinished).
		Order("finished_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&items).Error
	return items, err
}

// ListWantToRead returns the want-to-read items, most recently added first.
func (r *Repository) ListWantToRead(userID uint) ([]entities.LibraryItem, error) {
	var items []entities.LibraryItem
	err := r.db.Preload("Book").
		Where("user_id = ? AND status = ?", userID, entities.StatusWantToRead).
		Order("added_at DESC").
		Find(&items).Error
	return items, err
}

// MarkReading flips (user, book) to "reading" as a side effect of a progress
// write. It creates the item when absent and upgrades want_to_read, but never
// downgrades a finished book. Runs on the caller's transaction so the
// progress write and the transition commit or fail together.
func (r *Repository) MarkReading(tx *gorm.DB, userID, bookID uint) error {
	var item entities.LibraryItem
	err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		item = entities.LibraryItem{
			UserID: userID,
			BookID: bookID,
			Status: entities.StatusReading,
		}
		return tx.Create(&item).Error
	}
	if err != nil {
		return err
	}

	if item.Status != entities.StatusWantToRead {
		return nil
	}
	return tx.Model(&item).Update("status", entities.StatusReading).Error
}
