package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/openshelf/internal/auth"
	"github.com/mrlokans/openshelf/internal/database"
	"github.com/mrlokans/openshelf/internal/database/favorites"
	"github.com/mrlokans/openshelf/internal/database/goals"
	"github.com/mrlokans/openshelf/internal/database/library"
	"github.com/mrlokans/openshelf/internal/database/progress"
	"github.com/mrlokans/openshelf/internal/entities"
)

// testEnv wires a seeded database with the per-user repositories the
// controllers depend on.
type testEnv struct {
	db            *database.Database
	user          *entities.User
	libraryRepo   *library.Repository
	progressRepo  *progress.Repository
	favoritesRepo *favorites.Repository
	goalsRepo     *goals.Repository
}

func setupTestEnv(t *testing.T) (*testEnv, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	user := &entities.User{Email: "reader@example.com", PasswordHash: "x"}
	require.NoError(t, db.DB.Create(user).Error)

	libraryRepo := library.NewRepository(db.DB)

	env := &testEnv{
		db:            db,
		user:          user,
		libraryRepo:   libraryRepo,
		progressRepo:  progress.NewRepository(db.DB, libraryRepo),
		favoritesRepo: favorites.NewRepository(db.DB),
		goalsRepo:     goals.NewRepository(db.DB, libraryRepo),
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return env, cleanup
}

// newTestRouter returns a router with the test user pre-authenticated.
func (e *testEnv) newTestRouter() *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(auth.ContextKeyUserID, e.user.ID)
		c.Next()
	})
	return router
}

func (e *testEnv) book(t *testing.T, slug string) *entities.Book {
	t.Helper()
	book, err := e.db.GetBookBySlug(slug)
	require.NoError(t, err)
	return book
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func progressUpdate(page int, percentage float64) progress.Update {
	return progress.Update{LastPage: &page, Percentage: &percentage}
}

func currentYear() int {
	return time.Now().UTC().Year()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
