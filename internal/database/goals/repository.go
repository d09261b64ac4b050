// Package goals owns yearly reading goals and their completion math. One
// goal row exists per (user, year); completion is derived from the library
// state machine's finished-since count rather than stored.
package goals

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/openshelf/internal/entities"
)

// Goal targets must be between one book and one book per day.
const (
	MinTargetBooks = 1
	MaxTargetBooks = 365
)

// ErrInvalidTarget is returned when a caller-supplied target is outside
// [MinTargetBooks, MaxTargetBooks].
var ErrInvalidTarget = errors.New("goal target must be between 1 and 365")

// FinishedCounter reports how many books a user finished at or after a given
// time. Implemented by the library repository.
type FinishedCounter interface {
	CountFinishedSince(userID uint, since time.Time) (int64, error)
}

// Snapshot is the computed view of a yearly goal. Target 0 means no goal has
// been set for that year.
type Snapshot struct {
	Year      int   `json:"year"`
	Target    int   `json:"target"`
	Completed int64 `json:"completed"`
	Progress  int   `json:"progress"`
}

// Repository handles reading-goal database operations and aggregation.
type Repository struct {
	db      *gorm.DB
	counter FinishedCounter
}

// NewRepository creates a new goals repository.
func NewRepository(db *gorm.DB, counter FinishedCounter) *Repository {
	return &Repository{db: db, counter: counter}
}

// Get returns the goal snapshot for (user, year). A missing goal row yields
// target 0 and progress 0 regardless of how many books were finished.
func (r *Repository) Get(userID uint, year int) (*Snapshot, error) {
	var goal entities.ReadingGoal
	target := 0
	err := r.db.Where("user_id = ? AND year = ?", userID, year).First(&goal).Error
	if err == nil {
		target = goal.TargetBooks
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return r.snapshot(userID, year, target)
}

// Set upserts the goal for (user, year) and returns the refreshed snapshot.
func (r *Repository) Set(userID uint, year, target int) (*Snapshot, error) {
	if target < MinTargetBooks || target > MaxTargetBooks {
		return nil, ErrInvalidTarget
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var goal entities.ReadingGoal
		err := tx.Where("user_id = ? AND year = ?", userID, year).First(&goal).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			goal = entities.ReadingGoal{UserID: userID, Year: year}
		} else if err != nil {
			return err
		}

		goal.TargetBooks = target
		return tx.Save(&goal).Error
	})
	if err != nil {
		return nil, err
	}

	return r.snapshot(userID, year, target)
}

func (r *Repository) snapshot(userID uint, year, target int) (*Snapshot, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	completed, err := r.counter.CountFinishedSince(userID, yearStart)
	if err != nil {
		return nil, err
	}

	progress := 0
	if target > 0 {
		// Round half up so 5/12 reads as 42%, not 41%
		progress = int(math.Round(float64(completed) / float64(target) * 100))
	}

	return &Snapshot{
		Year:      year,
		Target:    target,
		Completed: completed,
		Progress:  progress,
	}, nil
}
