package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/pagination"
	"taskboard/internal/services"
)

// CalendarEventHandler handles calendar event requests.
type CalendarEventHandler struct {
	eventService services.CalendarEventServicer
	auditService services.AuditServicer
}

// NewCalendarEventHandler creates a new CalendarEventHandler.
func NewCalendarEventHandler(eventService services.CalendarEventServicer, auditService services.AuditServicer) *CalendarEventHandler {
	return &CalendarEventHandler{eventService: eventService, auditService: auditService}
}

// CreateCalendarEventRequest represents the request payload for an event.
type CreateCalendarEventRequest struct {
	Title       string `json:"title" binding:"required,not_blank,max=255"`
	Date        string `json:"date" binding:"required,iso_date" example:"2024-03-15"`
	Description string `json:"description" binding:"max=5000"`
}

// UpdateCalendarEventRequest holds the event fields to change.
type UpdateCalendarEventRequest struct {
	Title       *string `json:"title" binding:"omitempty,not_blank,max=255"`
	Date        *string `json:"date" binding:"omitempty,iso_date" example:"2024-03-15"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

// CalendarEventListQuery holds the optional inclusive date range.
type CalendarEventListQuery struct {
	From *string `form:"from" binding:"omitempty,iso_date"`
	To   *string `form:"to" binding:"omitempty,iso_date"`
}

// CreateEvent adds an event to the caller's calendar
// @Summary     Create a calendar event
// @Tags        calendar
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCalendarEventRequest true "Event"
// @Success     200 {object} map[string]models.CalendarEvent "Event created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /calendar_events [post]
func (h *CalendarEventHandler) CreateEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	date, err := parseOptionalDate("date", &req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.CreateEvent(userID, req.Title, *date, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// GetUserEvents lists the caller's events
// @Summary     List calendar events
// @Description Events in date order, optionally limited to an inclusive date range
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Param       from      query string false "First date (YYYY-MM-DD)"
// @Param       to        query string false "Last date (YYYY-MM-DD)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (max 100)"
// @Success     200 {object} pagination.PageResponse[models.CalendarEvent] "Events"
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /calendar_events [get]
func (h *CalendarEventHandler) GetUserEvents(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var query CalendarEventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	from, err := parseOptionalDate("from", query.From)
	if err != nil {
		respondWithError(c, err)
		return
	}
	to, err := parseOptionalDate("to", query.To)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.eventService.GetUserEvents(userID, from, to, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetEventByID returns a single event
// @Summary     Get a calendar event
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Event ID"
// @Success     200 {object} map[string]models.CalendarEvent "Event"
// @Failure     400 {object} ErrorResponse "Invalid event ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /calendar_events/{id} [get]
func (h *CalendarEventHandler) GetEventByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.GetEventByID(userID, eventID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// UpdateEvent changes the supplied event fields
// @Summary     Update a calendar event
// @Tags        calendar
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                        true "Event ID"
// @Param       request body UpdateCalendarEventRequest true "Fields to change"
// @Success     200 {object} map[string]models.CalendarEvent "Updated event"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /calendar_events/{id} [put]
func (h *CalendarEventHandler) UpdateEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.UpdateEvent(userID, eventID, req.Title, date, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// DeleteEvent removes an event
// @Summary     Delete a calendar event
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Event ID"
// @Success     200 {object} MessageResponse "Event deleted"
// @Failure     400 {object} ErrorResponse "Invalid event ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /calendar_events/{id} [delete]
func (h *CalendarEventHandler) DeleteEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.eventService.DeleteEvent(userID, eventID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDeleteEvent, "calendar_event", eventID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Calendar event deleted"})
}
