package handlers

import (
	"net/http"

	"taskboard/internal/apperr"
	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

func (h *TaskHandler) actingUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, apperr.MissingIdentity("user identity missing from request context"))
		return "", false
	}
	return userID, true
}

// taskID parses the path id. A malformed id cannot match any record, so it
// reports not-found rather than a validation failure.
func (h *TaskHandler) taskID(c *gin.Context) (uuid.UUID, bool) {
	id := uuid.FromStringOrNil(c.Param("id"))
	if id == uuid.Nil {
		respondError(c, apperr.NotFound("task not found"))
		return uuid.Nil, false
	}
	return id, true
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE ARCHIVED"`
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := h.actingUser(c)
	if !ok {
		return
	}

	var input createTaskRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperr.Validation("invalid request payload", map[string]any{"reason": err.Error()}))
		return
	}

	task, err := h.taskService.CreateTask(h.db, userID, services.CreateTaskInput{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatus(input.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, task)
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := h.actingUser(c)
	if !ok {
		return
	}

	filter := services.TaskFilter{}
	if raw, exists := c.GetQuery("status"); exists && raw != "" {
		status := models.TaskStatus(raw)
		if !status.Valid() {
			respondError(c, apperr.Validation("unrecognized status filter", map[string]any{"status": raw}))
			return
		}
		filter.Status = &status
	}

	tasks, err := h.taskService.SearchTasks(h.db, userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := h.actingUser(c)
	if !ok {
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(h.db, userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, task)
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE ARCHIVED"`
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := h.actingUser(c)
	if !ok {
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	var input updateTaskRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperr.Validation("invalid request payload", map[string]any{"reason": err.Error()}))
		return
	}

	if input.Title == nil && input.Description == nil && input.Status == nil {
		respondError(c, apperr.Validation("at least one field must be provided", nil))
		return
	}

	update := services.UpdateTaskInput{
		Title:       input.Title,
		Description: input.Description,
	}
	if input.Status != nil {
		status := models.TaskStatus(*input.Status)
		update.Status = &status
	}

	task, err := h.taskService.UpdateTask(h.db, userID, id, update)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := h.actingUser(c)
	if !ok {
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(h.db, userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) ArchiveTask(c *gin.Context) {
	userID, ok := h.actingUser(c)
	if !ok {
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.ArchiveTask(h.db, userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, task)
}

func (h *TaskHandler) UnarchiveTask(c *gin.Context) {
	userID, ok := h.actingUser(c)
	if !ok {
		return
	}
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.UnarchiveTask(h.db, userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, task)
}
