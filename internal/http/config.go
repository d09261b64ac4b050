package http

import (
	"github.com/mrlokans/openshelf/internal/auth"
	"github.com/mrlokans/openshelf/internal/config"
	"github.com/mrlokans/openshelf/internal/covers"
	"github.com/mrlokans/openshelf/internal/database"
	"github.com/mrlokans/openshelf/internal/database/favorites"
	"github.com/mrlokans/openshelf/internal/database/goals"
	"github.com/mrlokans/openshelf/internal/database/library"
	"github.com/mrlokans/openshelf/internal/database/progress"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Per-user stores
	LibraryRepo   *library.Repository
	ProgressRepo  *progress.Repository
	FavoritesRepo *favorites.Repository
	GoalsRepo     *goals.Repository

	// Authentication
	AuthService    *auth.Service
	AuthController *auth.Controller
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// Cover image cache, optional
	CoverCache *covers.Cache

	// Cross-origin access for the reader frontend
	CORS config.CORS

	// Application info
	Version string
}
