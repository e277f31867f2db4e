package router

import (
	"gamebus_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupEventRoutes sets up the event log routes.
func SetupEventRoutes(authenticatedGroup *gin.RouterGroup, eventHandler *handlers.EventHandler, calendarHandler *handlers.CalendarHandler) {
	eventRoutes := authenticatedGroup.Group("/events")
	{
		eventRoutes.GET("", eventHandler.GetEvents)
		eventRoutes.POST("", eventHandler.CreateEvent)
		eventRoutes.GET("/export.csv", calendarHandler.ExportCSV)
		eventRoutes.POST("/status", eventHandler.SetEventsStatus)
		eventRoutes.POST("/delete", eventHandler.DeleteEvents)
		eventRoutes.GET("/:id", eventHandler.GetEventByID)
		eventRoutes.PUT("/:id", eventHandler.UpdateEvent)
	}
}

// SetupCalendarRoutes sets up the agenda routes.
func SetupCalendarRoutes(authenticatedGroup *gin.RouterGroup, calendarHandler *handlers.CalendarHandler) {
	calendarRoutes := authenticatedGroup.Group("/calendar")
	{
		calendarRoutes.GET("", calendarHandler.GetCalendar)
		calendarRoutes.GET("/export.ics", calendarHandler.ExportICS)
	}
}

// SetupDashboardRoutes sets up the financial dashboard routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, financeHandler *handlers.FinanceHandler) {
	dashboardRoutes := authenticatedGroup.Group("/dashboard")
	{
		dashboardRoutes.GET("/monthly", financeHandler.GetMonthlySummary)
		dashboardRoutes.GET("/kpis", financeHandler.GetKPIs)
	}
}

// SetupMarketingRoutes sets up the Ads, Funnel and Assumptions tables.
func SetupMarketingRoutes(authenticatedGroup *gin.RouterGroup, financeHandler *handlers.FinanceHandler) {
	authenticatedGroup.GET("/ads", financeHandler.GetAds)
	authenticatedGroup.PUT("/ads", financeHandler.SaveAds)
	authenticatedGroup.GET("/funnel", financeHandler.GetFunnel)
	authenticatedGroup.PUT("/funnel", financeHandler.SaveFunnel)
	authenticatedGroup.GET("/assumptions", financeHandler.GetAssumptions)
	authenticatedGroup.PUT("/assumptions", financeHandler.ReplaceAssumptions)
}

// SetupWorkbookRoutes sets up workbook upload and download.
func SetupWorkbookRoutes(authenticatedGroup *gin.RouterGroup, workbookHandler *handlers.WorkbookHandler) {
	workbookRoutes := authenticatedGroup.Group("/workbook")
	{
		workbookRoutes.GET("", workbookHandler.DownloadWorkbook)
		workbookRoutes.POST("", workbookHandler.UploadWorkbook)
		workbookRoutes.GET("/sheets/:name", workbookHandler.DownloadSheet)
	}
}

func SetupGeocodeRoutes(authenticatedGroup *gin.RouterGroup, geocodeHandler *handlers.GeocodeHandler) {
	authenticatedGroup.GET("/geocode/reverse", geocodeHandler.ReverseGeocode)
}
