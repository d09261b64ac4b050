package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/openshelf/internal/database"
	"github.com/mrlokans/openshelf/internal/entities"
)

// favoriteFlagger resolves which catalog books a user has favorited.
// Implemented by favorites.Repository.
type favoriteFlagger interface {
	BookIDs(userID uint) (map[uint]bool, error)
}

// BooksController serves the shared catalog. All of its endpoints are public;
// authenticated callers additionally get their favorite flags attached.
type BooksController struct {
	db        *database.Database
	favorites favoriteFlagger
}

func NewBooksController(db *database.Database, favorites favoriteFlagger) *BooksController {
	return &BooksController{db: db, favorites: favorites}
}

// bookListing is a catalog book with the caller's favorite flag inlined.
type bookListing struct {
	entities.Book
	IsFavorite bool `json:"isFavorite"`
}

func (bc *BooksController) favoriteSet(c *gin.Context) map[uint]bool {
	userID := GetUserID(c)
	if userID == 0 || bc.favorites == nil {
		return nil
	}
	set, err := bc.favorites.BookIDs(userID)
	if err != nil {
		// Catalog listings still work without the flags
		return nil
	}
	return set
}

// ListBooks returns one page of the catalog.
// GET /api/books?search=&author=&genre=&yearFrom=&yearTo=&page=&perPage=
func (bc *BooksController) ListBooks(c *gin.Context) {
	filter := database.BookFilter{
		Search:   c.Query("search"),
		Author:   c.Query("author"),
		Genre:    c.Query("genre"),
		YearFrom: parseQueryInt(c, "yearFrom", 0),
		YearTo:   parseQueryInt(c, "yearTo", 0),
		Page:     parseQueryInt(c, "page", 1),
		PerPage:  parseQueryInt(c, "perPage", 50),
	}

	books, total, err := bc.db.ListBooks(filter)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	favoriteIDs := bc.favoriteSet(c)
	listings := make([]bookListing, 0, len(books))
	for _, book := range books {
		listings = append(listings, bookListing{Book: book, IsFavorite: favoriteIDs[book.ID]})
	}

	c.JSON(http.StatusOK, gin.H{
		"books": listings,
		"total": total,
		"page":  filter.Page,
	})
}

// GetBook returns a single catalog book by slug or numeric ID.
// GET /api/books/:bookId
func (bc *BooksController) GetBook(c *gin.Context) {
	book, ok := resolveBookParam(c, bc.db)
	if !ok {
		return
	}
	favoriteIDs := bc.favoriteSet(c)
	c.JSON(http.StatusOK, gin.H{"book": bookListing{Book: *book, IsFavorite: favoriteIDs[book.ID]}})
}

// ListAuthors returns the distinct catalog authors for filter dropdowns.
// GET /api/books/authors
func (bc *BooksController) ListAuthors(c *gin.Context) {
	authors, err := bc.db.ListAuthors()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": authors})
}

// ListGenres returns the distinct catalog genres for filter dropdowns.
// GET /api/books/genres
func (bc *BooksController) ListGenres(c *gin.Context) {
	genres, err := bc.db.ListGenres()
	if err != nil {
		respondInternalError(c, err, "list genres")
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}
