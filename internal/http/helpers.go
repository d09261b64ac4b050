package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/openshelf/internal/auth"
	"github.com/mrlokans/openshelf/internal/database"
	"github.com/mrlokans/openshelf/internal/entities"
)

// GetUserID extracts the authenticated user's ID from the Gin context.
// Returns 0 when no user is authenticated.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondConflict sends a 409 Conflict response.
func respondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 response. The actual
// error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// --- Parameter Parsing ---

// BookResolver looks up catalog books by numeric ID or slug.
type BookResolver interface {
	GetBookByID(id uint) (*entities.Book, error)
	GetBookBySlug(slug string) (*entities.Book, error)
}

// resolveBookParam resolves the :bookId URL parameter into a catalog book.
// The frontend refers to books by slug, but numeric IDs work too. Responds
// with a 404 and returns nil, false when the book does not exist.
func resolveBookParam(c *gin.Context, resolver BookResolver) (*entities.Book, bool) {
	param := c.Param("bookId")

	var (
		book *entities.Book
		err  error
	)
	if id, parseErr := strconv.ParseUint(param, 10, 32); parseErr == nil {
		book, err = resolver.GetBookByID(uint(id))
	} else {
		book, err = resolver.GetBookBySlug(param)
	}

	if err != nil {
		if errors.Is(err, database.ErrBookNotFound) {
			respondNotFound(c, "book")
		} else {
			respondInternalError(c, err, "resolve book")
		}
		return nil, false
	}
	return book, true
}

// parseQueryInt reads an integer query parameter, falling back to def when
// absent or malformed.
func parseQueryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
