package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/openshelf/internal/auth"
	"github.com/mrlokans/openshelf/internal/config"
	"github.com/mrlokans/openshelf/internal/covers"
	"github.com/mrlokans/openshelf/internal/database"
	"github.com/mrlokans/openshelf/internal/database/favorites"
	"github.com/mrlokans/openshelf/internal/database/goals"
	"github.com/mrlokans/openshelf/internal/database/library"
	"github.com/mrlokans/openshelf/internal/database/progress"
	http_controllers "github.com/mrlokans/openshelf/internal/http"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests within the configured shutdown timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the database, repositories, authentication and router together
// and serves until shutdown.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting OpenShelf v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	libraryRepo := library.NewRepository(db.DB)
	progressRepo := progress.NewRepository(db.DB, libraryRepo)
	favoritesRepo := favorites.NewRepository(db.DB)
	goalsRepo := goals.NewRepository(db.DB, libraryRepo)

	authService := auth.NewService(db.DB, cfg.Auth)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	authMiddleware := auth.NewMiddleware(authService, sessionManager)
	authController := auth.NewController(authService, sessionManager, cfg.Auth)
	defer authController.Stop()

	var csrfSecret []byte
	if cfg.Auth.CSRFEnabled {
		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist sessions across restarts)")
		}
	}

	var coverCache *covers.Cache
	coverCache, err = covers.NewCache(filepath.Join(filepath.Dir(cfg.Database.Path), "covers"))
	if err != nil {
		log.Printf("Cover cache disabled: %v", err)
		coverCache = nil
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		LibraryRepo:    libraryRepo,
		ProgressRepo:   progressRepo,
		FavoritesRepo:  favoritesRepo,
		GoalsRepo:      goalsRepo,
		CoverCache:     coverCache,
		AuthService:    authService,
		AuthController: authController,
		AuthMiddleware: authMiddleware,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		CORS:           cfg.CORS,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg, nil)
}
