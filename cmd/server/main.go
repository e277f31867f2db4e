package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamebus_backend/internal/config"
	"gamebus_backend/internal/database"
	"gamebus_backend/internal/repositories"
	"gamebus_backend/internal/router"
	"gamebus_backend/internal/services"
	"gamebus_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Money goes out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	backend, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open store backend")
	}
	defer backend.Close()

	store := repositories.NewStore(backend)
	if err := store.Load(context.Background()); err != nil {
		if errors.Is(err, database.ErrStoreNotFound) {
			log.Fatal().Str("path", cfg.DBPath).Msg("Workbook not found. Place GameBus_DB.xlsx at DB_PATH or upload it and restart.")
		}
		log.Fatal().Err(err).Msg("Failed to load store")
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", utils.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", utils.RequestIDHeader}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if err := router.Setup(engine, store, cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up routes")
	}

	var backups *services.BackupService
	if cfg.BackupDir != "" {
		backups = services.NewBackupService(store, cfg.BackupDir, cfg.BackupSchedule, cfg.BackupKeep)
		if err := backups.StartScheduler(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start backup scheduler")
		}
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: engine}
	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "store": cfg.StoreDriver, "auth": cfg.AuthEnabled()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.LogInfo("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if backups != nil {
		<-backups.Stop().Done()
	}
	if err := srv.Shutdown(ctx); err != nil {
		utils.LogError(err, "Server forced to shutdown")
	}
}
