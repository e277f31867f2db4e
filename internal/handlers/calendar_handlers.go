package handlers

import (
	"net/http"

	"gamebus_backend/internal/services"
	"gamebus_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	contentTypeICS  = "text/calendar; charset=utf-8"
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// CalendarHandler serves the agenda view and the ICS/CSV exports.
type CalendarHandler struct {
	calendarService services.CalendarService
}

func NewCalendarHandler(cs services.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: cs}
}

func attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// GetCalendar returns the agenda entries of the filtered events.
func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	filters, ok := bindEventFilters(c)
	if !ok {
		return
	}
	view, err := h.calendarService.GetCalendar(filters)
	if err != nil {
		utils.LogError(err, "GetCalendar: Error from calendarService.GetCalendar")
		utils.RespondInternal(c, "Failed to build calendar.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ExportICS downloads the agenda as an iCalendar file.
func (h *CalendarHandler) ExportICS(c *gin.Context) {
	filters, ok := bindEventFilters(c)
	if !ok {
		return
	}
	data, err := h.calendarService.ExportICS(filters)
	if err != nil {
		utils.LogError(err, "ExportICS: Error from calendarService.ExportICS")
		utils.RespondInternal(c, "Failed to export calendar.")
		return
	}
	attachment(c, "agenda_completa.ics", contentTypeICS, data)
}

// ExportCSV downloads the filtered event list.
func (h *CalendarHandler) ExportCSV(c *gin.Context) {
	filters, ok := bindEventFilters(c)
	if !ok {
		return
	}
	data, err := h.calendarService.ExportCSV(filters)
	if err != nil {
		utils.LogError(err, "ExportCSV: Error from calendarService.ExportCSV")
		utils.RespondInternal(c, "Failed to export events.")
		return
	}
	attachment(c, "eventos.csv", contentTypeCSV, data)
}
