package progress

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/openshelf/internal/database"
	"github.com/mrlokans/openshelf/internal/database/library"
	"github.com/mrlokans/openshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, *library.Repository, func()) {
	dbPath := "./test_progress_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.LibraryItem{},
		&entities.ProgressRecord{},
	)
	require.NoError(t, err)

	libraryRepo := library.NewRepository(db)
	repo := NewRepository(db, libraryRepo)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, libraryRepo, cleanup
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *entities.User {
	user := &entities.User{Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestBook(t *testing.T, db *gorm.DB, slug string, pages int) *entities.Book {
	book := &entities.Book{
		Slug:       slug,
		Title:      "Test Book " + slug,
		Author:     "Test Author",
		TotalPages: pages,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func intPtr(v int) *int             { return &v }
func strPtr(v string) *string       { return &v }
func floatPtr(v float64) *float64   { return &v }

func TestRepository_Get_Defaults(t *testing.T) {
	db, repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader@example.com")
	book := createTestBook(t, db, "dracula", 418)

	record, totalPages, err := repo.Get(user.ID, book.ID)
	require.NoError(t, err)
	assert.Nil(t, record, "no record before the first write")
	assert.Equal(t, 418, totalPages)

	_, _, err = repo.Get(user.ID, 9999)
	assert.ErrorIs(t, err, database.ErrBookNotFound)
}

func TestRepository_Apply_PartialUpdates(t *testing.T) {
	db, repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader@example.com")
	book := createTestBook(t, db, "dracula", 418)

	record, err := repo.Apply(user.ID, book.ID, Update{
		LastPage: intPtr(42),
		LastCFI:  strPtr("epubcfi(/6/14!/4/2/14)"),
	})
	require.NoError(t, err)
	assert.Equal(t, 42, record.LastPage)
	require.NotNil(t, record.LastCFI)
	assert.Equal(t, "epubcfi(/6/14!/4/2/14)", *record.LastCFI)
	assert.Equal(t, float64(0), record.Percentage)

	// Absent fields are left unchanged
	record, err = repo.Apply(user.ID, book.ID, Update{Percentage: floatPtr(10.5)})
	require.NoError(t, err)
	assert.Equal(t, 42, record.LastPage)
	assert.Equal(t, 10.5, record.Percentage)
	require.NotNil(t, record.LastCFI)

	var count int64
	db.Model(&entities.ProgressRecord{}).Where("user_id = ? AND book_id = ?", user.ID, book.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRepository_Apply_MonotonicLastReadAt(t *testing.T) {
	db, repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader@example.com")
	book := createTestBook(t, db, "dracula", 418)

	first, err := repo.Apply(user.ID, book.ID, Update{LastPage: intPtr(10)})
	require.NoError(t, err)
	second, err := repo.Apply(user.ID, book.ID, Update{LastPage: intPtr(11)})
	require.NoError(t, err)

	assert.False(t, second.LastReadAt.Before(first.LastReadAt))
}

func TestRepository_Apply_ImplicitTransition(t *testing.T) {
	db, repo, libraryRepo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader@example.com")

	t.Run("creates reading item when none exists", func(t *testing.T) {
		book := createTestBook(t, db, "dracula", 418)

		_, err := repo.Apply(user.ID, book.ID, Update{LastPage: intPtr(10)})
		require.NoError(t, err)

		item, err := libraryRepo.Get(user.ID, book.ID)
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, entities.StatusReading, item.Status)
	})

	t.Run("upgrades want_to_read", func(t *testing.T) {
		book := createTestBook(t, db, "frankenstein", 280)
		_, err := libraryRepo.SetStatus(user.ID, book.ID, entities.StatusWantToRead)
		require.NoError(t, err)

		_, err = repo.Apply(user.ID, book.ID, Update{LastPage: intPtr(5)})
		require.NoError(t, err)

		item, err := libraryRepo.Get(user.ID, book.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusReading, item.Status)
	})

	t.Run("leaves finished alone", func(t *testing.T) {
		book := createTestBook(t, db, "jane_eyre", 532)
		_, err := libraryRepo.SetStatus(user.ID, book.ID, entities.StatusFinished)
		require.NoError(t, err)

		// Re-reading a finished book must not reopen it
		_, err = repo.Apply(user.ID, book.ID, Update{LastPage: intPtr(200)})
		require.NoError(t, err)

		item, err := libraryRepo.Get(user.ID, book.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusFinished, item.Status)
		assert.NotNil(t, item.FinishedAt)
	})
}

func TestRepository_Apply_UnknownBook(t *testing.T) {
	db, repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader@example.com")

	_, err := repo.Apply(user.ID, 9999, Update{LastPage: intPtr(10)})
	assert.ErrorIs(t, err, database.ErrBookNotFound)

	// The failed write must not leave a library item behind
	var count int64
	db.Model(&entities.LibraryItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRepository_ListRecent(t *testing.T) {
	db, repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader@example.com")
	older := createTestBook(t, db, "dracula", 418)
	newer := createTestBook(t, db, "frankenstein", 280)

	_, err := repo.Apply(user.ID, older.ID, Update{LastPage: intPtr(10)})
	require.NoError(t, err)
	_, err = repo.Apply(user.ID, newer.ID, Update{LastPage: intPtr(20)})
	require.NoError(t, err)
	require.NoError(t, db.Model(&entities.ProgressRecord{}).
		Where("user_id = ? AND book_id = ?", user.ID, older.ID).
		Update("last_read_at", time.Now().UTC().Add(-time.Hour)).Error)

	records, err := repo.ListRecent(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newer.ID, records[0].BookID)
	require.NotNil(t, records[0].Book)

	records, err = repo.ListRecent(user.ID, 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRepository_ForBooks(t *testing.T) {
	db, repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "reader@example.com")
	tracked := createTestBook(t, db, "dracula", 418)
	untracked := createTestBook(t, db, "frankenstein", 280)

	_, err := repo.Apply(user.ID, tracked.ID, Update{LastPage: intPtr(10)})
	require.NoError(t, err)

	byBook, err := repo.ForBooks(user.ID, []uint{tracked.ID, untracked.ID})
	require.NoError(t, err)
	require.Len(t, byBook, 1)
	assert.Equal(t, 10, byBook[tracked.ID].LastPage)

	empty, err := repo.ForBooks(user.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
