package services_test

import (
	"testing"
	"time"

	"taskboard/internal/apperr"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service services.TaskService

	ownerID string
	otherID string
}

func (suite *TaskServiceTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = db.AutoMigrate(&models.User{}, &models.Task{})
	suite.Require().NoError(err)

	suite.db = db
	suite.service = services.NewTaskService()
	suite.ownerID = "user-demo"
	suite.otherID = "user-mentor"
}

func (suite *TaskServiceTestSuite) seedTask(userID string, status models.TaskStatus, mutate func(*models.Task)) models.Task {
	task := models.Task{
		ID:     uuid.Must(uuid.NewV4()),
		UserID: userID,
		Title:  "seeded task",
		Status: status,
	}
	if mutate != nil {
		mutate(&task)
	}
	suite.Require().NoError(suite.db.Create(&task).Error)
	return task
}

func (suite *TaskServiceTestSuite) reload(id uuid.UUID) models.Task {
	var task models.Task
	suite.Require().NoError(suite.db.First(&task, "id = ?", id).Error)
	return task
}

func (suite *TaskServiceTestSuite) TestCreateDefaultsToTodo() {
	task, err := suite.service.CreateTask(suite.db, suite.ownerID, services.CreateTaskInput{
		Title:       "Review onboarding challenge",
		Description: "  Read through the instructions and take notes.  ",
	})
	suite.Require().NoError(err)

	suite.Equal(models.StatusTodo, task.Status)
	suite.Equal("Read through the instructions and take notes.", task.Description)
	suite.Nil(task.ArchivedAt)
	suite.Nil(task.CompletedAt)

	persisted := suite.reload(task.ID)
	suite.Equal(models.StatusTodo, persisted.Status)
	suite.Equal(suite.ownerID, persisted.UserID)
}

func (suite *TaskServiceTestSuite) TestCreateWithExplicitStatus() {
	task, err := suite.service.CreateTask(suite.db, suite.ownerID, services.CreateTaskInput{
		Title:  "Draft seed script",
		Status: models.StatusInProgress,
	})
	suite.Require().NoError(err)

	suite.Equal(models.StatusInProgress, task.Status)
	// Creation is a direct insert; no transition side effects apply.
	suite.Nil(task.CompletedAt)
}

func (suite *TaskServiceTestSuite) TestCreateRejectsBlankTitle() {
	_, err := suite.service.CreateTask(suite.db, suite.ownerID, services.CreateTaskInput{Title: "   "})
	suite.Require().Error(err)
	suite.Equal(apperr.CodeValidation, apperr.From(err).Code)
}

func (suite *TaskServiceTestSuite) TestCreateRejectsUnknownStatus() {
	_, err := suite.service.CreateTask(suite.db, suite.ownerID, services.CreateTaskInput{
		Title:  "bad status",
		Status: models.TaskStatus("PENDING"),
	})
	suite.Require().Error(err)
	suite.Equal(apperr.CodeValidation, apperr.From(err).Code)
}

func (suite *TaskServiceTestSuite) TestUpdateRejectsIllegalTransition() {
	task := suite.seedTask(suite.ownerID, models.StatusTodo, nil)

	status := models.StatusDone
	_, err := suite.service.UpdateTask(suite.db, suite.ownerID, task.ID, services.UpdateTaskInput{Status: &status})
	suite.Require().Error(err)

	appErr := apperr.From(err)
	suite.Equal(apperr.CodeInvalidTransition, appErr.Code)
	suite.Equal("TODO", appErr.Details["from"])
	suite.Equal("DONE", appErr.Details["to"])

	suite.Equal(models.StatusTodo, suite.reload(task.ID).Status)
}

func (suite *TaskServiceTestSuite) TestUpdateCompletesInProgressTask() {
	task := suite.seedTask(suite.ownerID, models.StatusInProgress, nil)

	status := models.StatusDone
	updated, err := suite.service.UpdateTask(suite.db, suite.ownerID, task.ID, services.UpdateTaskInput{Status: &status})
	suite.Require().NoError(err)

	suite.Equal(models.StatusDone, updated.Status)
	suite.Require().NotNil(updated.CompletedAt)
	suite.WithinDuration(time.Now().UTC(), *updated.CompletedAt, 5*time.Second)
	suite.Nil(updated.ArchivedAt)
}

func (suite *TaskServiceTestSuite) TestUpdateUnarchivesAndClearsTimestamp() {
	completedAt := time.Date(2025, 10, 18, 15, 0, 0, 0, time.UTC)
	archivedAt := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	task := suite.seedTask(suite.ownerID, models.StatusArchived, func(t *models.Task) {
		t.ArchivedAt = &archivedAt
		t.CompletedAt = &completedAt
	})

	status := models.StatusTodo
	updated, err := suite.service.UpdateTask(suite.db, suite.ownerID, task.ID, services.UpdateTaskInput{Status: &status})
	suite.Require().NoError(err)

	suite.Equal(models.StatusTodo, updated.Status)
	suite.Nil(updated.ArchivedAt)
	// completed_at does not cross the DONE boundary here and stays as it was.
	suite.Require().NotNil(updated.CompletedAt)
	suite.True(updated.CompletedAt.Equal(completedAt))
}

func (suite *TaskServiceTestSuite) TestUpdateWithoutStatusSkipsTransitionRules() {
	task := suite.seedTask(suite.ownerID, models.StatusTodo, nil)

	title := "renamed"
	updated, err := suite.service.UpdateTask(suite.db, suite.ownerID, task.ID, services.UpdateTaskInput{Title: &title})
	suite.Require().NoError(err)

	suite.Equal("renamed", updated.Title)
	suite.Equal(models.StatusTodo, updated.Status)
	suite.Nil(updated.ArchivedAt)
	suite.Nil(updated.CompletedAt)
}

func (suite *TaskServiceTestSuite) TestUpdateRequiresAtLeastOneField() {
	task := suite.seedTask(suite.ownerID, models.StatusTodo, nil)

	_, err := suite.service.UpdateTask(suite.db, suite.ownerID, task.ID, services.UpdateTaskInput{})
	suite.Require().Error(err)
	suite.Equal(apperr.CodeValidation, apperr.From(err).Code)
}

func (suite *TaskServiceTestSuite) TestUpdateForeignTaskIsNotFound() {
	task := suite.seedTask(suite.otherID, models.StatusTodo, nil)

	title := "stolen"
	_, err := suite.service.UpdateTask(suite.db, suite.ownerID, task.ID, services.UpdateTaskInput{Title: &title})
	suite.Require().Error(err)
	suite.Equal(apperr.CodeNotFound, apperr.From(err).Code)
}

func (suite *TaskServiceTestSuite) TestArchiveStampsArchivedAt() {
	task := suite.seedTask(suite.ownerID, models.StatusTodo, nil)

	archived, err := suite.service.ArchiveTask(suite.db, suite.ownerID, task.ID)
	suite.Require().NoError(err)

	suite.Equal(models.StatusArchived, archived.Status)
	suite.Require().NotNil(archived.ArchivedAt)
	suite.WithinDuration(time.Now().UTC(), *archived.ArchivedAt, 5*time.Second)
}

func (suite *TaskServiceTestSuite) TestUnarchiveReturnsToTodo() {
	archivedAt := time.Now().UTC()
	task := suite.seedTask(suite.ownerID, models.StatusArchived, func(t *models.Task) {
		t.ArchivedAt = &archivedAt
	})

	restored, err := suite.service.UnarchiveTask(suite.db, suite.ownerID, task.ID)
	suite.Require().NoError(err)

	suite.Equal(models.StatusTodo, restored.Status)
	suite.Nil(restored.ArchivedAt)
}

func (suite *TaskServiceTestSuite) TestArchiveAnArchivedTaskIsRejected() {
	archivedAt := time.Now().UTC()
	task := suite.seedTask(suite.ownerID, models.StatusArchived, func(t *models.Task) {
		t.ArchivedAt = &archivedAt
	})

	_, err := suite.service.ArchiveTask(suite.db, suite.ownerID, task.ID)
	suite.Require().Error(err)
	suite.Equal(apperr.CodeInvalidTransition, apperr.From(err).Code)
}

func (suite *TaskServiceTestSuite) TestDeleteRemovesOwnedTask() {
	task := suite.seedTask(suite.ownerID, models.StatusTodo, nil)

	suite.Require().NoError(suite.service.DeleteTask(suite.db, suite.ownerID, task.ID))

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	suite.Zero(count)
}

func (suite *TaskServiceTestSuite) TestDeleteForeignTaskIsNotFound() {
	task := suite.seedTask(suite.otherID, models.StatusTodo, nil)

	err := suite.service.DeleteTask(suite.db, suite.ownerID, task.ID)
	suite.Require().Error(err)
	suite.Equal(apperr.CodeNotFound, apperr.From(err).Code)

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	suite.EqualValues(1, count)
}

func (suite *TaskServiceTestSuite) TestSearchScopesAndOrders() {
	old := suite.seedTask(suite.ownerID, models.StatusTodo, func(t *models.Task) {
		t.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	})
	recent := suite.seedTask(suite.ownerID, models.StatusInProgress, func(t *models.Task) {
		t.CreatedAt = time.Now().UTC().Add(-time.Minute)
	})
	suite.seedTask(suite.otherID, models.StatusTodo, nil)

	tasks, err := suite.service.SearchTasks(suite.db, suite.ownerID, services.TaskFilter{})
	suite.Require().NoError(err)

	suite.Require().Len(tasks, 2)
	suite.Equal(recent.ID, tasks[0].ID, "newest-created first")
	suite.Equal(old.ID, tasks[1].ID)
}

func (suite *TaskServiceTestSuite) TestSearchFiltersByStatus() {
	suite.seedTask(suite.ownerID, models.StatusTodo, nil)
	inProgress := suite.seedTask(suite.ownerID, models.StatusInProgress, nil)

	status := models.StatusInProgress
	tasks, err := suite.service.SearchTasks(suite.db, suite.ownerID, services.TaskFilter{Status: &status})
	suite.Require().NoError(err)

	suite.Require().Len(tasks, 1)
	suite.Equal(inProgress.ID, tasks[0].ID)
}

func (suite *TaskServiceTestSuite) TestGetForeignTaskIsNotFound() {
	task := suite.seedTask(suite.otherID, models.StatusTodo, nil)

	_, err := suite.service.GetTask(suite.db, suite.ownerID, task.ID)
	suite.Require().Error(err)
	suite.Equal(apperr.CodeNotFound, apperr.From(err).Code)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
