package services

import (
	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/internal/pagination"
)

// calendarEventService handles calendar events.
type calendarEventService struct {
	db *gorm.DB
}

// NewCalendarEventService creates a new CalendarEventServicer.
func NewCalendarEventService(db *gorm.DB) CalendarEventServicer {
	return &calendarEventService{db: db}
}

// CreateEvent adds an event to the caller's calendar.
func (s *calendarEventService) CreateEvent(userID uint, title string, date models.Date, description string) (*models.CalendarEvent, error) {
	title, err := requiredText("title", title)
	if err != nil {
		return nil, err
	}
	if date.Time().IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	event := &models.CalendarEvent{
		UserID:      userID,
		Title:       title,
		Date:        date,
		Description: description,
	}
	if err := s.db.Create(event).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return event, nil
}

func (s *calendarEventService) filtered(userID uint, from, to *models.Date) *gorm.DB {
	q := s.db.Model(&models.CalendarEvent{}).Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}
	return q
}

// GetUserEvents lists the caller's events in date order, optionally bounded
// by an inclusive [from, to] range.
func (s *calendarEventService) GetUserEvents(
	userID uint,
	from, to *models.Date,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.CalendarEvent], error) {
	if from != nil && to != nil && to.Time().Before(from.Time()) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "'to' must not be before 'from'")
	}
	page.Defaults()

	var totalItems int64
	if err := s.filtered(userID, from, to).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var events []models.CalendarEvent
	if err := s.filtered(userID, from, to).
		Order("date, id").
		Scopes(pagination.Paginate(page)).
		Find(&events).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(events, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetEventByID retrieves an event if it belongs to userID.
func (s *calendarEventService) GetEventByID(userID, eventID uint) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	if err := s.db.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrCalendarEventNotFound)
	}
	return &event, nil
}

// UpdateEvent applies the non-nil fields to an owned event.
func (s *calendarEventService) UpdateEvent(userID, eventID uint, title *string, date *models.Date, description *string) (*models.CalendarEvent, error) {
	event, err := s.GetEventByID(userID, eventID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if title != nil {
		t, err := requiredText("title", *title)
		if err != nil {
			return nil, err
		}
		updates["title"] = t
	}
	if date != nil {
		updates["date"] = *date
	}
	if description != nil {
		updates["description"] = *description
	}

	if len(updates) == 0 {
		return event, nil
	}
	if err := s.db.Model(event).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetEventByID(userID, eventID)
}

// DeleteEvent permanently removes an owned event.
func (s *calendarEventService) DeleteEvent(userID, eventID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", eventID, userID).Delete(&models.CalendarEvent{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrCalendarEventNotFound
	}
	return nil
}
