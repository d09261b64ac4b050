package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardRouter(env *testEnv) *gin.Engine {
	controller := NewDashboardController(env.libraryRepo, env.progressRepo, env.favoritesRepo, env.goalsRepo)
	router := env.newTestRouter()
	router.GET("/api/me/library", controller.Library)
	router.GET("/api/me/recent", controller.RecentlyRead)
	router.GET("/api/me/stats", controller.Stats)
	return router
}

func TestDashboardController_Library(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	router := newDashboardRouter(env)

	dracula := env.book(t, "dracula")
	frankenstein := env.book(t, "frankenstein")
	gatsby := env.book(t, "great_gatsby")

	_, err := env.libraryRepo.SetStatus(env.user.ID, frankenstein.ID, "finished")
	require.NoError(t, err)
	_, err = env.libraryRepo.SetStatus(env.user.ID, gatsby.ID, "want_to_read")
	require.NoError(t, err)

	// Reading with progress, via a progress write
	_, err = env.progressRepo.Apply(env.user.ID, dracula.ID, progressUpdate(120, 28.7))
	require.NoError(t, err)

	_, err = env.favoritesRepo.Toggle(env.user.ID, dracula.ID)
	require.NoError(t, err)

	_, err = env.goalsRepo.Set(env.user.ID, currentYear(), 4)
	require.NoError(t, err)

	w := performRequest(t, router, "GET", "/api/me/library", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	currentlyReading, ok := body["currentlyReading"].([]any)
	require.True(t, ok)
	require.Len(t, currentlyReading, 1)
	entry := currentlyReading[0].(map[string]any)
	assert.Equal(t, "reading", entry["status"])
	require.NotNil(t, entry["progress"], "reading shelf carries the saved position")
	progressEntry := entry["progress"].(map[string]any)
	assert.Equal(t, float64(120), progressEntry["lastPage"])

	finished, ok := body["finished"].([]any)
	require.True(t, ok)
	assert.Len(t, finished, 1)

	wantToRead, ok := body["wantToRead"].([]any)
	require.True(t, ok)
	assert.Len(t, wantToRead, 1)

	favorites, ok := body["favorites"].([]any)
	require.True(t, ok)
	assert.Len(t, favorites, 1)

	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["reading"])
	assert.Equal(t, float64(1), stats["finished"])
	assert.Equal(t, float64(1), stats["wantToRead"])
	assert.Equal(t, float64(1), stats["favorites"])

	goal := body["goal"].(map[string]any)
	assert.Equal(t, float64(4), goal["target"])
	assert.Equal(t, float64(1), goal["completed"])
	assert.Equal(t, float64(25), goal["progress"])
}

func TestDashboardController_Library_Empty(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	router := newDashboardRouter(env)

	w := performRequest(t, router, "GET", "/api/me/library", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	assert.Empty(t, body["currentlyReading"])
	assert.Empty(t, body["finished"])
	assert.Empty(t, body["wantToRead"])
	assert.Empty(t, body["favorites"])

	goal := body["goal"].(map[string]any)
	assert.Equal(t, float64(0), goal["target"])
}

func TestDashboardController_RecentlyRead(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	router := newDashboardRouter(env)

	for _, slug := range []string{"dracula", "frankenstein", "great_gatsby"} {
		book := env.book(t, slug)
		_, err := env.progressRepo.Apply(env.user.ID, book.ID, progressUpdate(10, 5))
		require.NoError(t, err)
	}

	w := performRequest(t, router, "GET", "/api/me/recent?limit=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	recent, ok := body["recent"].([]any)
	require.True(t, ok)
	require.Len(t, recent, 2)

	// Most recently read first
	first := recent[0].(map[string]any)
	book := first["book"].(map[string]any)
	assert.Equal(t, "great_gatsby", book["slug"])
}

func TestDashboardController_Stats(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	router := newDashboardRouter(env)

	book := env.book(t, "dracula")
	_, err := env.libraryRepo.SetStatus(env.user.ID, book.ID, "finished")
	require.NoError(t, err)

	w := performRequest(t, router, "GET", "/api/me/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["finished"])
	assert.Equal(t, float64(0), body["reading"])
}
