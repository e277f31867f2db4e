package router

import (
	"fmt"

	"gamebus_backend/internal/config"
	"gamebus_backend/internal/handlers"
	"gamebus_backend/internal/middleware"
	"gamebus_backend/internal/repositories"
	"gamebus_backend/internal/services"
	"gamebus_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, store *repositories.Store, cfg config.Config) error {
	handlers.RegisterValidators()

	// Initialize Services
	var (
		tokens      *utils.TokenManager
		authService services.AuthService
	)
	if cfg.AuthEnabled() {
		var err error
		tokens, err = utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
		if err != nil {
			return fmt.Errorf("token manager: %w", err)
		}
		authService, err = services.NewAuthService(cfg.OperatorUsername, cfg.OperatorPassword, cfg.OperatorPasswordHash, tokens)
		if err != nil {
			return fmt.Errorf("auth service: %w", err)
		}
	} else {
		utils.LogWarn("OPERATOR_PASSWORD is not set; the API is running without authentication")
	}

	eventService := services.NewEventService(store, cfg.PhoneRegion)
	financeService := services.NewFinanceService(store, cfg.FixedCostFromMonth)
	calendarService := services.NewCalendarService(store)
	workbookService := services.NewWorkbookService(store)
	geocodeService := services.NewGeocodeService(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	eventHandler := handlers.NewEventHandler(eventService)
	financeHandler := handlers.NewFinanceHandler(financeService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)
	workbookHandler := handlers.NewWorkbookHandler(workbookService)
	geocodeHandler := handlers.NewGeocodeHandler(geocodeService)

	apiV1 := engine.Group("/api/v1")

	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(tokens))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupEventRoutes(authenticated, eventHandler, calendarHandler)
		SetupCalendarRoutes(authenticated, calendarHandler)
		SetupDashboardRoutes(authenticated, financeHandler)
		SetupMarketingRoutes(authenticated, financeHandler)
		SetupWorkbookRoutes(authenticated, workbookHandler)
		SetupGeocodeRoutes(authenticated, geocodeHandler)
	}
	return nil
}

func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.LoginUser)
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentUser)
}
