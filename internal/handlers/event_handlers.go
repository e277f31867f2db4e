package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gamebus_backend/internal/models"
	"gamebus_backend/internal/services"
	"gamebus_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// EventHandler holds the event service.
type EventHandler struct {
	eventService services.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(es services.EventService) *EventHandler {
	return &EventHandler{eventService: es}
}

// respondEventError maps event service errors to API errors.
func respondEventError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrEventValidation), errors.Is(err, services.ErrSelectionRequired):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
	case errors.Is(err, services.ErrEventNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Event not found.", err.Error()))
	default:
		utils.LogError(err, "Event handler: failed to "+action)
		utils.RespondInternal(c, "Failed to "+action+".")
	}
}

// bindEventFilters reads ?month=&status= (repeated or comma separated).
func bindEventFilters(c *gin.Context) (models.EventFilters, bool) {
	var filters models.EventFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return filters, false
	}
	filters.Months = splitList(filters.Months)
	filters.Statuses = splitList(filters.Statuses)
	for _, m := range filters.Months {
		if !models.IsValidMonth(m) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid month value.", "month: "+m))
			return filters, false
		}
	}
	for _, s := range filters.Statuses {
		if !models.IsValidEventStatus(s) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid status value.", "status: "+s))
			return filters, false
		}
	}
	return filters, true
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseEventID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid event ID format.", err.Error()))
		return 0, false
	}
	return id, true
}

// CreateEvent handles the creation of a new event.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req services.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateEvent: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), req)
	if err != nil {
		respondEventError(c, err, "create event")
		return
	}
	c.JSON(http.StatusCreated, event)
}

// GetEvents lists events filtered by month and status.
func (h *EventHandler) GetEvents(c *gin.Context) {
	filters, ok := bindEventFilters(c)
	if !ok {
		return
	}
	events, err := h.eventService.GetEvents(filters)
	if err != nil {
		respondEventError(c, err, "fetch events")
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"data": events, "total": len(events)})
}

// GetEventByID handles fetching a single event by ID.
func (h *EventHandler) GetEventByID(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}
	event, err := h.eventService.GetEventByID(id)
	if err != nil {
		respondEventError(c, err, "fetch event")
		return
	}
	c.JSON(http.StatusOK, event)
}

// UpdateEvent replaces the editable fields of an event.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}
	var req services.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateEvent: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), id, req)
	if err != nil {
		respondEventError(c, err, "update event")
		return
	}
	c.JSON(http.StatusOK, event)
}

// SetEventsStatus marks the selected events.
func (h *EventHandler) SetEventsStatus(c *gin.Context) {
	var req services.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	n, err := h.eventService.SetEventsStatus(c.Request.Context(), req.IDs, req.Status)
	if err != nil {
		respondEventError(c, err, "update event status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n, "status": req.Status})
}

// DeleteEvents removes the selected events.
func (h *EventHandler) DeleteEvents(c *gin.Context) {
	var req services.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	n, err := h.eventService.DeleteEvents(c.Request.Context(), req.IDs)
	if err != nil {
		respondEventError(c, err, "delete events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
