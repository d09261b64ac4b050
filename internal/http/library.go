package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/openshelf/internal/database/library"
	"github.com/mrlokans/openshelf/internal/entities"
)

// LibraryController manages a user's per-book reading status.
type LibraryController struct {
	repo  *library.Repository
	books BookResolver
}

func NewLibraryController(repo *library.Repository, books BookResolver) *LibraryController {
	return &LibraryController{repo: repo, books: books}
}

// GetStatus returns the user's library entry for a book. A book that was
// never added reads as inLibrary=false rather than a 404.
// GET /api/me/books/:bookId/library
func (lc *LibraryController) GetStatus(c *gin.Context) {
	book, ok := resolveBookParam(c, lc.books)
	if !ok {
		return
	}

	item, err := lc.repo.Get(GetUserID(c), book.ID)
	if err != nil {
		respondInternalError(c, err, "get library status")
		return
	}

	if item == nil {
		c.JSON(http.StatusOK, gin.H{
			"bookId":    book.ID,
			"slug":      book.Slug,
			"inLibrary": false,
			"status":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookId":     book.ID,
		"slug":       book.Slug,
		"inLibrary":  true,
		"status":     item.Status,
		"addedAt":    item.AddedAt,
		"finishedAt": item.FinishedAt,
	})
}

type setStatusRequest struct {
	Status entities.LibraryStatus `json:"status" binding:"required"`
}

// SetStatus adds the book to the library or moves it to a new status.
// PATCH /api/me/books/:bookId/library
func (lc *LibraryController) SetStatus(c *gin.Context) {
	book, ok := resolveBookParam(c, lc.books)
	if !ok {
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "status is required")
		return
	}

	item, err := lc.repo.SetStatus(GetUserID(c), book.ID, req.Status)
	if err != nil {
		if errors.Is(err, library.ErrInvalidStatus) {
			respondBadRequest(c, "status must be one of want_to_read, reading, finished")
			return
		}
		respondInternalError(c, err, "set library status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Library updated",
		"status":     item.Status,
		"finishedAt": item.FinishedAt,
	})
}

// Remove takes the book out of the library. Removing a book that is not in
// the library succeeds quietly.
// DELETE /api/me/books/:bookId/library
func (lc *LibraryController) Remove(c *gin.Context) {
	book, ok := resolveBookParam(c, lc.books)
	if !ok {
		return
	}

	if err := lc.repo.Remove(GetUserID(c), book.ID); err != nil {
		respondInternalError(c, err, "remove from library")
		return
	}

	respondSuccess(c, "Removed from library")
}
