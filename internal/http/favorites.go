package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/openshelf/internal/database/favorites"
)

// FavoritesController manages a user's favorite books.
type FavoritesController struct {
	repo  *favorites.Repository
	books BookResolver
}

func NewFavoritesController(repo *favorites.Repository, books BookResolver) *FavoritesController {
	return &FavoritesController{repo: repo, books: books}
}

// ListFavorites returns the user's favorites, newest first.
// GET /api/me/favorites
func (fc *FavoritesController) ListFavorites(c *gin.Context) {
	items, err := fc.repo.List(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list favorites")
		return
	}

	favoritesList := make([]gin.H, 0, len(items))
	for _, item := range items {
		favoritesList = append(favoritesList, gin.H{
			"book":        item.Book,
			"favoritedAt": item.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favoritesList,
		"count":     len(favoritesList),
	})
}

// ToggleFavorite flips the favorite flag for a book and reports the new
// state. A concurrent duplicate insert surfaces as a 409.
// POST /api/me/books/:bookId/favorite
func (fc *FavoritesController) ToggleFavorite(c *gin.Context) {
	book, ok := resolveBookParam(c, fc.books)
	if !ok {
		return
	}

	isFavorite, err := fc.repo.Toggle(GetUserID(c), book.ID)
	if err != nil {
		if errors.Is(err, favorites.ErrConflict) {
			respondConflict(c, "book is already a favorite")
			return
		}
		respondInternalError(c, err, "toggle favorite")
		return
	}

	message := "Removed from favorites"
	if isFavorite {
		message = "Added to favorites"
	}

	c.JSON(http.StatusOK, gin.H{
		"isFavorite": isFavorite,
		"message":    message,
	})
}

// RemoveFavorite unconditionally unfavorites a book. Removing a book that is
// not a favorite succeeds quietly.
// DELETE /api/me/books/:bookId/favorite
func (fc *FavoritesController) RemoveFavorite(c *gin.Context) {
	book, ok := resolveBookParam(c, fc.books)
	if !ok {
		return
	}

	if err := fc.repo.Remove(GetUserID(c), book.ID); err != nil {
		respondInternalError(c, err, "remove favorite")
		return
	}

	respondSuccess(c, "Removed from favorites")
}
