package auth

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/openshelf/internal/config"
	"github.com/mrlokans/openshelf/internal/entities"
)

func setupTestService(t *testing.T) (*gorm.DB, *Service, func()) {
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.User{}))

	service := NewService(db, config.Auth{
		BcryptCost:       bcrypt.MinCost,
		MaxLoginAttempts: 3,
		LockoutDuration:  30 * time.Minute,
	})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, service, cleanup
}

func TestService_Signup(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	user, err := service.Signup("Reader@Example.com", "secret-password", "")
	require.NoError(t, err)

	assert.Equal(t, "reader@example.com", user.Email, "email should be lowercased")
	assert.Equal(t, "reader", user.DisplayName, "display name falls back to the email local part")
	assert.NotEqual(t, "secret-password", user.PasswordHash)
	assert.Equal(t, "Inter", user.Preferences["font"])
	assert.Equal(t, 16, user.Preferences["fontSize"])
}

func TestService_Signup_Validation(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Signup("", "secret-password", "")
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = service.Signup("not-an-email", "secret-password", "")
	assert.ErrorIs(t, err, ErrEmailInvalid)

	_, err = service.Signup("reader@example.com", "", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = service.Signup("reader@example.com", "short", "")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestService_Signup_DuplicateEmail(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Signup("reader@example.com", "secret-password", "")
	require.NoError(t, err)

	_, err = service.Signup("reader@example.com", "another-password", "")
	assert.ErrorIs(t, err, ErrUserExists)

	// Case only differs, still the same account
	_, err = service.Signup("READER@example.com", "another-password", "")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_Authenticate(t *testing.T) {
	db, service, cleanup := setupTestService(t)
	defer cleanup()

	created, err := service.Signup("reader@example.com", "secret-password", "")
	require.NoError(t, err)

	user, err := service.Authenticate("reader@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	var stored entities.User
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.NotNil(t, stored.LastLoginAt)

	_, err = service.Authenticate("reader@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = service.Authenticate("nobody@example.com", "secret-password")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_Authenticate_LocksAfterRepeatedFailures(t *testing.T) {
	db, service, cleanup := setupTestService(t)
	defer cleanup()

	created, err := service.Signup("reader@example.com", "secret-password", "")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := service.Authenticate("reader@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	}

	// Even the right password is refused while locked
	_, err = service.Authenticate("reader@example.com", "secret-password")
	assert.ErrorIs(t, err, ErrAccountLocked)

	// Expired lock lets the user back in and clears the counter
	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&entities.User{}).
		Where("id = ?", created.ID).
		Update("locked_until", past).Error)

	user, err := service.Authenticate("reader@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	var stored entities.User
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.Equal(t, 0, stored.FailedLoginCount)
	assert.Nil(t, stored.LockedUntil)
}

func TestService_UpdateProfile_MergesPreferences(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	created, err := service.Signup("reader@example.com", "secret-password", "")
	require.NoError(t, err)

	name := "Avid Reader"
	user, err := service.UpdateProfile(created.ID, ProfileUpdate{
		DisplayName: &name,
		Preferences: map[string]any{"theme": "dark"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Avid Reader", user.DisplayName)
	assert.Equal(t, "dark", user.Preferences["theme"])
	assert.Equal(t, "Inter", user.Preferences["font"], "untouched keys survive the merge")

	// Omitting both fields is a no-op
	user, err = service.UpdateProfile(created.ID, ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Avid Reader", user.DisplayName)
}

func TestService_ChangePassword(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	created, err := service.Signup("reader@example.com", "secret-password", "")
	require.NoError(t, err)

	err = service.ChangePassword(created.ID, "wrong-password", "brand-new-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	err = service.ChangePassword(created.ID, "secret-password", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	require.NoError(t, service.ChangePassword(created.ID, "secret-password", "brand-new-password"))

	_, err = service.Authenticate("reader@example.com", "secret-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	_, err = service.Authenticate("reader@example.com", "brand-new-password")
	assert.NoError(t, err)
}
