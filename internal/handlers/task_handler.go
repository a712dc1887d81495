package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
	"taskboard/internal/pagination"
	"taskboard/internal/services"
)

// TaskHandler handles task-related requests.
type TaskHandler struct {
	taskService  services.TaskServicer
	auditService services.AuditServicer
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService services.TaskServicer, auditService services.AuditServicer) *TaskHandler {
	return &TaskHandler{taskService: taskService, auditService: auditService}
}

// CreateTaskRequest represents the request payload for creating a task.
type CreateTaskRequest struct {
	ProjectID   uint    `json:"project_id" binding:"required,min=1"`
	Title       string  `json:"title" binding:"required,not_blank,max=100"`
	Description string  `json:"description" binding:"max=5000"`
	Status      string  `json:"status" binding:"omitempty,task_status"`
	Priority    string  `json:"priority" binding:"omitempty,task_priority"`
	DueDate     *string `json:"due_date" binding:"omitempty,iso_date" example:"2024-03-15"`
}

// UpdateTaskRequest represents the request payload for updating a task.
// Omitted fields are left unchanged; a null or empty due_date clears it.
type UpdateTaskRequest struct {
	ProjectID   *uint          `json:"project_id" binding:"omitempty,min=1"`
	Title       *string        `json:"title" binding:"omitempty,not_blank,max=100"`
	Description *string        `json:"description" binding:"omitempty,max=5000"`
	Status      *string        `json:"status" binding:"omitempty,task_status"`
	Priority    *string        `json:"priority" binding:"omitempty,task_priority"`
	DueDate     NullableString `json:"due_date" swaggertype:"string" example:"2024-03-15"`
}

// TaskListQuery holds the optional filters of GET /tasks.
type TaskListQuery struct {
	ProjectID uint   `form:"project_id" binding:"omitempty,min=1"`
	Status    string `form:"status" binding:"omitempty,task_status"`
	Priority  string `form:"priority" binding:"omitempty,task_priority"`
}

func (q TaskListQuery) filter() services.TaskFilter {
	var f services.TaskFilter
	if q.ProjectID != 0 {
		f.ProjectID = &q.ProjectID
	}
	if q.Status != "" {
		s := models.TaskStatus(q.Status)
		f.Status = &s
	}
	if q.Priority != "" {
		p := models.TaskPriority(q.Priority)
		f.Priority = &p
	}
	return f
}

// CreateTask handles the creation of a new task
// @Summary     Create a task
// @Description Create a task in one of the caller's projects. Status defaults to "To Do" and priority to "Medium".
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTaskRequest true "Task details"
// @Success     201 {object} map[string]models.Task "Task created"
// @Failure     400 {object} ErrorResponse "Invalid input or unknown project"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	dueDate, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(
		userID,
		req.ProjectID,
		req.Title,
		req.Description,
		models.TaskStatus(req.Status),
		models.TaskPriority(req.Priority),
		dueDate,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// GetUserTasks lists the caller's tasks
// @Summary     List tasks
// @Description List tasks across all of the caller's projects. Without page_size every task is returned.
// @Tags        tasks
// @Produce     json
// @Security    BearerAuth
// @Param       project_id query int    false "Filter by project"
// @Param       status     query string false "Filter by status" Enums(To Do, In Progress, Done)
// @Param       priority   query string false "Filter by priority" Enums(Low, Medium, High)
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (max 100)"
// @Success     200 {object} pagination.PageResponse[models.Task] "Tasks"
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tasks [get]
func (h *TaskHandler) GetUserTasks(c *gin.Context) {
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

	var query TaskListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.taskService.GetUserTasks(userID, query.filter(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTaskByID returns a single task
// @Summary     Get a task
// @Tags        tasks
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Task ID"
// @Success     200 {object} map[string]models.Task "Task"
// @Failure     400 {object} ErrorResponse "Invalid task ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Router      /tasks/{id} [get]
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	task, err := h.taskService.GetTaskByID(userID, taskID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// UpdateTask applies a partial update
// @Summary     Update a task
// @Description Change only the supplied fields. Any status may follow any other.
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Task ID"
// @Param       request body UpdateTaskRequest true "Fields to change"
// @Success     200 {object} map[string]models.Task "Updated task"
// @Failure     400 {object} ErrorResponse "Invalid input or unknown project"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Router      /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	update := services.TaskUpdate{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
	}
	if req.DueDate.Present {
		dueDate, err := parseOptionalDate("due_date", req.DueDate.Value)
		if err != nil {
			respondWithError(c, err)
			return
		}
		update.DueDate = dueDate
		update.ClearDueDate = dueDate == nil
	}
	if req.Status != nil {
		s := models.TaskStatus(*req.Status)
		update.Status = &s
	}
	if req.Priority != nil {
		p := models.TaskPriority(*req.Priority)
		update.Priority = &p
	}

	task, err := h.taskService.UpdateTask(userID, taskID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// DeleteTask removes a task
// @Summary     Delete a task
// @Tags        tasks
// @Security    BearerAuth
// @Param       id path int true "Task ID"
// @Success     204 "Task deleted"
// @Failure     400 {object} ErrorResponse "Invalid task ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Router      /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.taskService.DeleteTask(userID, taskID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDeleteTask, "task", taskID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
