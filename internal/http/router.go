package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/openshelf/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())

	if len(cfg.CORS.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", auth.CSRFTokenHeader},
			ExposeHeaders:    []string{auth.CSRFTokenHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// CSRF must run before session so that session context is preserved
	// when the CSRF handler replaces the request.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.LoadUser())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	books := NewBooksController(cfg.Database, cfg.FavoritesRepo)
	libraryController := NewLibraryController(cfg.LibraryRepo, cfg.Database)
	progressController := NewProgressController(cfg.ProgressRepo, cfg.Database)
	favoritesController := NewFavoritesController(cfg.FavoritesRepo, cfg.Database)
	goalsController := NewGoalsController(cfg.GoalsRepo)
	dashboard := NewDashboardController(cfg.LibraryRepo, cfg.ProgressRepo, cfg.FavoritesRepo, cfg.GoalsRepo)

	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	if cfg.CoverCache != nil {
		coversController := NewCoversController(cfg.Database, cfg.CoverCache)
		router.GET("/covers/:file", coversController.GetCover)
	}

	// Public catalog and auth surface
	api := router.Group("/api")
	cfg.AuthController.RegisterPublicRoutes(api.Group("/auth"))

	api.GET("/books", books.ListBooks)
	api.GET("/books/authors", books.ListAuthors)
	api.GET("/books/genres", books.ListGenres)
	api.GET("/books/:bookId", books.GetBook)

	// Everything personal sits behind the session
	me := api.Group("/me")
	if cfg.AuthMiddleware != nil {
		me.Use(cfg.AuthMiddleware.RequireAuth())
	}
	cfg.AuthController.RegisterProfileRoutes(me)

	me.GET("/library", dashboard.Library)
	me.GET("/recent", dashboard.RecentlyRead)
	me.GET("/stats", dashboard.Stats)

	me.GET("/books/:bookId/library", libraryController.GetStatus)
	me.PATCH("/books/:bookId/library", libraryController.SetStatus)
	me.DELETE("/books/:bookId/library", libraryController.Remove)

	me.GET("/books/:bookId/progress", progressController.GetProgress)
	me.PATCH("/books/:bookId/progress", progressController.UpdateProgress)

	me.GET("/favorites", favoritesController.ListFavorites)
	me.POST("/books/:bookId/favorite", favoritesController.ToggleFavorite)
	me.DELETE("/books/:bookId/favorite", favoritesController.RemoveFavorite)

	me.GET("/goal", goalsController.GetGoal)
	me.PATCH("/goal", goalsController.SetGoal)

	return router
}
