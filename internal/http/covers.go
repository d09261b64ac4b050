package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/openshelf/internal/covers"
	"github.com/mrlokans/openshelf/internal/database"
)

// CoversController serves catalog cover images, fetching them from the
// upstream source on first request and caching them on disk.
type CoversController struct {
	db    *database.Database
	cache *covers.Cache
}

func NewCoversController(db *database.Database, cache *covers.Cache) *CoversController {
	return &CoversController{db: db, cache: cache}
}

// GetCover handles GET /covers/:file, where file is "<slug>.jpg".
func (cc *CoversController) GetCover(c *gin.Context) {
	slug := strings.TrimSuffix(c.Param("file"), ".jpg")
	if slug == "" {
		respondNotFound(c, "cover")
		return
	}

	book, err := cc.db.GetBookBySlug(slug)
	if err != nil {
		respondNotFound(c, "cover")
		return
	}

	path, err := cc.cache.Resolve(book.Slug, book.CoverURL)
	if err != nil || path == "" {
		respondNotFound(c, "cover")
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
