package services

import (
	"errors"
	"strings"
	"time"

	"taskboard/internal/apperr"
	"taskboard/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
}

// UpdateTaskInput carries a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
}

type TaskFilter struct {
	Status *models.TaskStatus
}

type TaskService interface {
	CreateTask(db *gorm.DB, userID string, in CreateTaskInput) (models.Task, error)
	SearchTasks(db *gorm.DB, userID string, filter TaskFilter) ([]models.Task, error)
	GetTask(db *gorm.DB, userID string, id uuid.UUID) (models.Task, error)
	UpdateTask(db *gorm.DB, userID string, id uuid.UUID, in UpdateTaskInput) (models.Task, error)
	DeleteTask(db *gorm.DB, userID string, id uuid.UUID) error
	ArchiveTask(db *gorm.DB, userID string, id uuid.UUID) (models.Task, error)
	UnarchiveTask(db *gorm.DB, userID string, id uuid.UUID) (models.Task, error)
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

// findOwned resolves a task by (owner, id). A foreign-owned task is
// indistinguishable from a nonexistent one.
func (s *TaskServiceImpl) findOwned(db *gorm.DB, userID string, id uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return task, apperr.NotFound("task not found")
	}
	if err != nil {
		return task, err
	}
	return task, nil
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, userID string, in CreateTaskInput) (models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Task{}, apperr.Validation("title is required", nil)
	}

	status := in.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !status.Valid() {
		return models.Task{}, apperr.Validation("unrecognized status", map[string]any{"status": string(status)})
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      userID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Status:      status,
	}
	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) SearchTasks(db *gorm.DB, userID string, filter TaskFilter) ([]models.Task, error) {
	query := db.Where("user_id = ?", userID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	tasks := []models.Task{}
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskServiceImpl) GetTask(db *gorm.DB, userID string, id uuid.UUID) (models.Task, error) {
	return s.findOwned(db, userID, id)
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, userID string, id uuid.UUID, in UpdateTaskInput) (models.Task, error) {
	task, err := s.findOwned(db, userID, id)
	if err != nil {
		return models.Task{}, err
	}

	changes := map[string]any{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return models.Task{}, apperr.Validation("title is required", nil)
		}
		changes["title"] = *in.Title
	}
	if in.Description != nil {
		changes["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return models.Task{}, apperr.Validation("unrecognized status", map[string]any{"status": string(*in.Status)})
		}
		transition, err := Transition(task.Status, *in.Status, time.Now().UTC())
		if err != nil {
			return models.Task{}, err
		}
		for column, value := range transition {
			changes[column] = value
		}
	}

	if len(changes) == 0 {
		return models.Task{}, apperr.Validation("at least one field must be provided", nil)
	}

	if err := db.Model(&task).Updates(changes).Error; err != nil {
		return models.Task{}, err
	}
	return s.findOwned(db, userID, id)
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, userID string, id uuid.UUID) error {
	task, err := s.findOwned(db, userID, id)
	if err != nil {
		return err
	}
	return db.Delete(&task).Error
}

func (s *TaskServiceImpl) ArchiveTask(db *gorm.DB, userID string, id uuid.UUID) (models.Task, error) {
	status := models.StatusArchived
	return s.UpdateTask(db, userID, id, UpdateTaskInput{Status: &status})
}

// UnarchiveTask always returns the task to TODO; the pre-archival status is
// not tracked.
func (s *TaskServiceImpl) UnarchiveTask(db *gorm.DB, userID string, id uuid.UUID) (models.Task, error) {
	status := models.StatusTodo
	return s.UpdateTask(db, userID, id, UpdateTaskInput{Status: &status})
}
