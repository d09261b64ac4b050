// Package favorites owns the favorite relation between users and catalog
// books. Presence of a row is the whole state; there is no soft delete.
package favorites

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/openshelf/internal/database"
	"github.com/mrlokans/openshelf/internal/entities"
)

// ErrConflict is returned when a concurrent toggle already created the
// favorite row. Callers should re-read the current state and retry as a
// remove if they still want to flip it.
var ErrConflict = errors.New("favorite already exists")

// Repository handles all favorites database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favorites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Toggle flips the favorite state for (user, book) and reports the resulting
// state. The check-then-act runs in a transaction; the unique (user, book)
// index is the backstop under concurrent toggles, surfacing the losing
// insert as ErrConflict rather than a second row.
func (r *Repository) Toggle(userID, bookID uint) (bool, error) {
	var isFavorite bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := database.BookExists(tx, bookID); err != nil {
			return err
		}

		var existing entities.Favorite
		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&existing).Error
		if err == nil {
			isFavorite = false
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		favorite := entities.Favorite{UserID: userID, BookID: bookID}
		if err := tx.Create(&favorite).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return err
		}
		isFavorite = true
		return nil
	})
	return isFavorite, err
}

// Remove deletes the favorite if present. Removing an absent favorite is not
// an error.
func (r *Repository) Remove(userID, bookID uint) error {
	return r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entities.Favorite{}).Error
}

// List returns the user's favorites, most recently created first, with the
// book preloaded. Each call is a fresh consistent snapshot.
func (r *Repository) List(userID uint) ([]entities.Favorite, error) {
	var favorites []entities.Favorite
	err := r.db.Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}

// BookIDs returns the set of book IDs the user has favorited. The catalog
// listing uses this to flag favorites without one query per book.
func (r *Repository) BookIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.Model(&entities.Favorite{}).
		Where("user_id = ?", userID).
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// IsFavorite reports whether the user has favorited the book.
func (r *Repository) IsFavorite(userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Favorite{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}
