package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLibraryRouter(env *testEnv) *gin.Engine {
	controller := NewLibraryController(env.libraryRepo, env.db)
	router := env.newTestRouter()
	router.GET("/api/me/books/:bookId/library", controller.GetStatus)
	router.PATCH("/api/me/books/:bookId/library", controller.SetStatus)
	router.DELETE("/api/me/books/:bookId/library", controller.Remove)
	return router
}

func TestLibraryController_SetStatus(t *testing.T) {
	t.Run("adds book by slug", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		router := newLibraryRouter(env)

		w := performRequest(t, router, "PATCH", "/api/me/books/dracula/library",
			gin.H{"status": "reading"})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "reading", body["status"])
		assert.Nil(t, body["finishedAt"])
	})

	t.Run("finishing stamps finishedAt", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		router := newLibraryRouter(env)

		w := performRequest(t, router, "PATCH", "/api/me/books/dracula/library",
			gin.H{"status": "finished"})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "finished", body["status"])
		assert.NotNil(t, body["finishedAt"])
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		router := newLibraryRouter(env)

		w := performRequest(t, router, "PATCH", "/api/me/books/dracula/library",
			gin.H{"status": "abandoned"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects missing body", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		router := newLibraryRouter(env)

		w := performRequest(t, router, "PATCH", "/api/me/books/dracula/library", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown book is a 404", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		router := newLibraryRouter(env)

		w := performRequest(t, router, "PATCH", "/api/me/books/necronomicon/library",
			gin.H{"status": "reading"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLibraryController_GetStatus(t *testing.T) {
	t.Run("book not in library", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		router := newLibraryRouter(env)

		w := performRequest(t, router, "GET", "/api/me/books/dracula/library", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, false, body["inLibrary"])
		assert.Nil(t, body["status"])
	})

	t.Run("book in library", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		router := newLibraryRouter(env)

		book := env.book(t, "dracula")
		_, err := env.libraryRepo.SetStatus(env.user.ID, book.ID, "want_to_read")
		require.NoError(t, err)

		w := performRequest(t, router, "GET", "/api/me/books/dracula/library", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["inLibrary"])
		assert.Equal(t, "want_to_read", body["status"])
		assert.Equal(t, "dracula", body["slug"])
	})
}

func TestLibraryController_Remove(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	router := newLibraryRouter(env)

	book := env.book(t, "dracula")
	_, err := env.libraryRepo.SetStatus(env.user.ID, book.ID, "reading")
	require.NoError(t, err)

	w := performRequest(t, router, "DELETE", "/api/me/books/dracula/library", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	item, err := env.libraryRepo.Get(env.user.ID, book.ID)
	require.NoError(t, err)
	assert.Nil(t, item)

	// Removing again still succeeds
	w = performRequest(t, router, "DELETE", "/api/me/books/dracula/library", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
