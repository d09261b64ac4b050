package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/openshelf/internal/database/progress"
)

// ProgressController manages per-book reading positions.
type ProgressController struct {
	repo  *progress.Repository
	books BookResolver
}

func NewProgressController(repo *progress.Repository, books BookResolver) *ProgressController {
	return &ProgressController{repo: repo, books: books}
}

// GetProgress returns the user's position in a book. Books never opened get
// the defaults (page 1, zero percent) instead of a 404 so the reader can
// always render.
// GET /api/me/books/:bookId/progress
func (pc *ProgressController) GetProgress(c *gin.Context) {
	book, ok := resolveBookParam(c, pc.books)
	if !ok {
		return
	}

	record, totalPages, err := pc.repo.Get(GetUserID(c), book.ID)
	if err != nil {
		respondInternalError(c, err, "get progress")
		return
	}

	if record == nil {
		c.JSON(http.StatusOK, gin.H{
			"bookId":     book.ID,
			"lastPage":   1,
			"lastCfi":    nil,
			"percentage": 0,
			"totalPages": totalPages,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookId":     book.ID,
		"lastPage":   record.LastPage,
		"lastCfi":    record.LastCFI,
		"percentage": record.Percentage,
		"startedAt":  record.StartedAt,
		"lastReadAt": record.LastReadAt,
		"totalPages": totalPages,
	})
}

// UpdateProgress applies a partial position update. Fields absent from the
// body keep their stored values. Writing progress also marks the book as
// reading in the library unless it is already finished.
// PATCH /api/me/books/:bookId/progress
func (pc *ProgressController) UpdateProgress(c *gin.Context) {
	book, ok := resolveBookParam(c, pc.books)
	if !ok {
		return
	}

	var update progress.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	record, err := pc.repo.Apply(GetUserID(c), book.ID, update)
	if err != nil {
		respondInternalError(c, err, "update progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Progress saved",
		"bookId":     book.ID,
		"lastPage":   record.LastPage,
		"lastCfi":    record.LastCFI,
		"percentage": record.Percentage,
		"lastReadAt": record.LastReadAt,
	})
}
