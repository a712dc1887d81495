package services

import (
	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/internal/pagination"
)

// taskService handles task-related business logic. Tasks are owned
// through their project.
type taskService struct {
	db *gorm.DB
}

// NewTaskService creates a new TaskServicer.
func NewTaskService(db *gorm.DB) TaskServicer {
	return &taskService{db: db}
}

// ownedProjectIDs is a subquery over the ids of userID's projects.
func (s *taskService) ownedProjectIDs(userID uint) *gorm.DB {
	return s.db.Model(&models.Project{}).Select("id").Where("user_id = ?", userID)
}

// ownedTasks scopes a query to tasks whose project belongs to userID.
func (s *taskService) ownedTasks(userID uint) *gorm.DB {
	return s.db.Model(&models.Task{}).Where("project_id IN (?)", s.ownedProjectIDs(userID))
}

// checkProject reports ErrProjectReference unless projectID is an existing
// project owned by userID.
func (s *taskService) checkProject(userID, projectID uint) error {
	var count int64
	if err := s.db.Model(&models.Project{}).
		Where("id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrProjectReference
	}
	return nil
}

// CreateTask creates a task in one of the caller's projects. Empty status
// and priority fall back to "To Do" and "Medium".
func (s *taskService) CreateTask(
	userID uint,
	projectID uint,
	title string,
	description string,
	status models.TaskStatus,
	priority models.TaskPriority,
	dueDate *models.Date,
) (*models.Task, error) {
	title, err := requiredText("title", title)
	if err != nil {
		return nil, err
	}
	if projectID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "project_id is required")
	}

	if status == "" {
		status = models.TaskStatusToDo
	}
	if !status.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be one of: To Do, In Progress, Done")
	}
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "priority must be one of: Low, Medium, High")
	}

	if err := s.checkProject(userID, projectID); err != nil {
		return nil, err
	}

	task := &models.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
	}
	if err := s.db.Create(task).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return task, nil
}

// filtered applies the optional list filters to the owned-task scope.
func (s *taskService) filtered(userID uint, filter TaskFilter) *gorm.DB {
	q := s.ownedTasks(userID)
	if filter.ProjectID != nil {
		q = q.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", *filter.Priority)
	}
	return q
}

// GetUserTasks lists the caller's tasks across all of their projects.
func (s *taskService) GetUserTasks(userID uint, filter TaskFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Task], error) {
	page.Defaults()

	var totalItems int64
	if err := s.filtered(userID, filter).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var tasks []models.Task
	if err := s.filtered(userID, filter).
		Order("id").
		Scopes(pagination.Paginate(page)).
		Find(&tasks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(tasks, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTaskByID retrieves a task if its project belongs to userID.
func (s *taskService) GetTaskByID(userID, taskID uint) (*models.Task, error) {
	var task models.Task
	if err := s.ownedTasks(userID).Where("id = ?", taskID).First(&task).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrTaskNotFound)
	}
	return &task, nil
}

// UpdateTask applies a partial update. Only non-nil fields change, and all
// of them are written in a single statement.
func (s *taskService) UpdateTask(userID, taskID uint, update TaskUpdate) (*models.Task, error) {
	task, err := s.GetTaskByID(userID, taskID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.ProjectID != nil && *update.ProjectID != task.ProjectID {
		if err := s.checkProject(userID, *update.ProjectID); err != nil {
			return nil, err
		}
		updates["project_id"] = *update.ProjectID
	}
	if update.Title != nil {
		title, err := requiredText("title", *update.Title)
		if err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be one of: To Do, In Progress, Done")
		}
		updates["status"] = *update.Status
	}
	if update.Priority != nil {
		if !update.Priority.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "priority must be one of: Low, Medium, High")
		}
		updates["priority"] = *update.Priority
	}
	if update.ClearDueDate {
		updates["due_date"] = nil
	} else if update.DueDate != nil {
		updates["due_date"] = *update.DueDate
	}

	if len(updates) == 0 {
		return task, nil
	}
	if err := s.db.Model(task).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetTaskByID(userID, taskID)
}

// DeleteTask permanently removes an owned task.
func (s *taskService) DeleteTask(userID, taskID uint) error {
	result := s.db.
		Where("id = ? AND project_id IN (?)", taskID, s.ownedProjectIDs(userID)).
		Delete(&models.Task{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}
