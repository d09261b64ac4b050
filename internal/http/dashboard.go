package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/openshelf/internal/database/favorites"
	"github.com/mrlokans/openshelf/internal/database/goals"
	"github.com/mrlokans/openshelf/internal/database/library"
	"github.com/mrlokans/openshelf/internal/database/progress"
	"github.com/mrlokans/openshelf/internal/entities"
)

// finishedShelfLimit caps the finished shelf on the dashboard. The stats
// block counts what the shelf shows, so it shares the cap.
const finishedShelfLimit = 20

// recentDefaultLimit is how many recently-read books /api/me/recent returns
// unless the caller asks for fewer.
const recentDefaultLimit = 10

// DashboardController composes the per-user reading overview out of the
// library, progress, favorites and goal stores. It only reads.
type DashboardController struct {
	libraryRepo   *library.Repository
	progressRepo  *progress.Repository
	favoritesRepo *favorites.Repository
	goalsRepo     *goals.Repository
}

func NewDashboardController(
	libraryRepo *library.Repository,
	progressRepo *progress.Repository,
	favoritesRepo *favorites.Repository,
	goalsRepo *goals.Repository,
) *DashboardController {
	return &DashboardController{
		libraryRepo:   libraryRepo,
		progressRepo:  progressRepo,
		favoritesRepo: favoritesRepo,
		goalsRepo:     goalsRepo,
	}
}

// Library returns the whole dashboard in one response: the three shelves,
// favorites, headline stats and the yearly goal.
// GET /api/me/library
func (dc *DashboardController) Library(c *gin.Context) {
	userID := GetUserID(c)

	reading, err := dc.libraryRepo.ListReading(userID)
	if err != nil {
		respondInternalError(c, err, "dashboard: list reading")
		return
	}

	finished, err := dc.libraryRepo.ListFinished(userID, finishedShelfLimit)
	if err != nil {
		respondInternalError(c, err, "dashboard: list finished")
		return
	}

	wantToRead, err := dc.libraryRepo.ListWantToRead(userID)
	if err != nil {
		respondInternalError(c, err, "dashboard: list want to read")
		return
	}

	favoriteItems, err := dc.favoritesRepo.List(userID)
	if err != nil {
		respondInternalError(c, err, "dashboard: list favorites")
		return
	}

	currentlyReading, err := dc.attachProgress(userID, reading)
	if err != nil {
		respondInternalError(c, err, "dashboard: attach progress")
		return
	}

	goal, err := dc.goalsRepo.Get(userID, time.Now().UTC().Year())
	if err != nil {
		respondInternalError(c, err, "dashboard: get goal")
		return
	}

	favoriteBooks := make([]*entities.Book, 0, len(favoriteItems))
	for _, item := range favoriteItems {
		favoriteBooks = append(favoriteBooks, item.Book)
	}

	c.JSON(http.StatusOK, gin.H{
		"currentlyReading": currentlyReading,
		"finished":         finished,
		"wantToRead":       wantToRead,
		"favorites":        favoriteBooks,
		"stats": gin.H{
			"reading":    len(reading),
			"finished":   len(finished),
			"wantToRead": len(wantToRead),
			"favorites":  len(favoriteBooks),
		},
		"goal": goal,
	})
}

// attachProgress decorates the reading shelf with each book's position so
// the frontend can render "page 120 of 432" without extra calls.
func (dc *DashboardController) attachProgress(userID uint, items []entities.LibraryItem) ([]gin.H, error) {
	bookIDs := make([]uint, 0, len(items))
	for _, item := range items {
		bookIDs = append(bookIDs, item.BookID)
	}

	records, err := dc.progressRepo.ForBooks(userID, bookIDs)
	if err != nil {
		return nil, err
	}

	shelf := make([]gin.H, 0, len(items))
	for _, item := range items {
		entry := gin.H{
			"book":    item.Book,
			"status":  item.Status,
			"addedAt": item.AddedAt,
		}
		if record, ok := records[item.BookID]; ok {
			entry["progress"] = gin.H{
				"lastPage":   record.LastPage,
				"percentage": record.Percentage,
				"lastReadAt": record.LastReadAt,
			}
		}
		shelf = append(shelf, entry)
	}
	return shelf, nil
}

// RecentlyRead returns the books with the freshest progress, most recent
// first.
// GET /api/me/recent?limit=
func (dc *DashboardController) RecentlyRead(c *gin.Context) {
	limit := parseQueryInt(c, "limit", recentDefaultLimit)
	if limit <= 0 || limit > 50 {
		limit = recentDefaultLimit
	}

	records, err := dc.progressRepo.ListRecent(GetUserID(c), limit)
	if err != nil {
		respondInternalError(c, err, "recently read")
		return
	}

	recent := make([]gin.H, 0, len(records))
	for _, record := range records {
		recent = append(recent, gin.H{
			"book":       record.Book,
			"lastPage":   record.LastPage,
			"percentage": record.Percentage,
			"lastReadAt": record.LastReadAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"recent": recent})
}

// Stats returns the headline counters on their own for lightweight polling.
// GET /api/me/stats
func (dc *DashboardController) Stats(c *gin.Context) {
	userID := GetUserID(c)

	reading, err := dc.libraryRepo.ListReading(userID)
	if err != nil {
		respondInternalError(c, err, "stats: list reading")
		return
	}
	finished, err := dc.libraryRepo.ListFinished(userID, finishedShelfLimit)
	if err != nil {
		respondInternalError(c, err, "stats: list finished")
		return
	}
	wantToRead, err := dc.libraryRepo.ListWantToRead(userID)
	if err != nil {
		respondInternalError(c, err, "stats: list want to read")
		return
	}
	favoriteIDs, err := dc.favoritesRepo.BookIDs(userID)
	if err != nil {
		respondInternalError(c, err, "stats: favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reading":    len(reading),
		"finished":   len(finished),
		"wantToRead": len(wantToRead),
		"favorites":  len(favoriteIDs),
	})
}
