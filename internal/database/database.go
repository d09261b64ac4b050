package database

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/openshelf/internal/entities"
)

// ErrBookNotFound is returned when an operation references a catalog book
// that does not exist.
var ErrBookNotFound = errors.New("book not found")

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the SQLite database, runs migrations and seeds the
// built-in catalog. Foreign keys are enabled so that deleting a user or a
// book cascades to the per-user records referencing it.
func NewDatabase(dbPath string) (*Database, error) {
	dsn := dbPath
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.LibraryItem{},
		&entities.ProgressRecord{},
		&entities.Favorite{},
		&entities.ReadingGoal{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedCatalog(); err != nil {
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// BookExists verifies that a catalog book exists, returning ErrBookNotFound
// otherwise. Repositories call this before touching per-user records so that
// missing-book failures are uniform across the board.
func BookExists(tx *gorm.DB, bookID uint) error {
	var count int64
	if err := tx.Model(&entities.Book{}).Where("id = ?", bookID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrBookNotFound
	}
	return nil
}

func (d *Database) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := d.DB.First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (d *Database) GetBookBySlug(slug string) (*entities.Book, error) {
	var book entities.Book
	err := d.DB.Where("slug = ?", slug).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// BookFilter narrows a catalog listing. Zero values mean "no filter".
type BookFilter struct {
	Search   string // matches title, author or description
	Author   string
	YearFrom int
	YearTo   int
	Genre    string
	Page     int
	PerPage  int
}

// MaxBooksPerPage caps catalog page sizes regardless of what the caller asks for.
const MaxBooksPerPage = 100

// ListBooks returns one page of the catalog ordered by title, plus the total
// number of books matching the filter.
func (d *Database) ListBooks(filter BookFilter) ([]entities.Book, int64, error) {
	query := d.DB.Model(&entities.Book{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}
	if filter.Author != "" {
		query = query.Where("LOWER(author) LIKE LOWER(?)", "%"+filter.Author+"%")
	}
	if filter.YearFrom > 0 {
		query = query.Where("year >= ?", filter.YearFrom)
	}
	if filter.YearTo > 0 {
		query = query.Where("year <= ?", filter.YearTo)
	}
	if filter.Genre != "" {
		// Genres are stored as a JSON array; match the quoted element
		query = query.Where("genres LIKE ?", `%"`+filter.Genre+`"%`)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 50
	}
	if perPage > MaxBooksPerPage {
		perPage = MaxBooksPerPage
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	var books []entities.Book
	err := query.Order("title ASC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&books).Error
	return books, total, err
}

// ListAuthors returns the distinct catalog authors in alphabetical order.
func (d *Database) ListAuthors() ([]string, error) {
	var authors []string
	err := d.DB.Model(&entities.Book{}).
		Distinct("author").
		Order("author ASC").
		Pluck("author", &authors).Error
	return authors, err
}

// ListGenres returns the distinct genres across the catalog in alphabetical
// order. Genres live inside a JSON column, so deduplication happens here
// rather than in SQL.
func (d *Database) ListGenres() ([]string, error) {
	var books []entities.Book
	if err := d.DB.Select("genres").Find(&books).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var genres []string
	for _, book := range books {
		for _, genre := range book.Genres {
			if !seen[genre] {
				seen[genre] = true
				genres = append(genres, genre)
			}
		}
	}
	sort.Strings(genres)
	return genres, nil
}
