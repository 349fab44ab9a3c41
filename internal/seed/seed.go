// Package seed loads a deterministic set of demo users and tasks, mainly
// for local development.
package seed

import (
	"time"

	"taskboard/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Summary struct {
	Users int `json:"users"`
	Tasks int `json:"tasks"`
}

type demoUser struct {
	user  models.User
	tasks []models.Task
}

func demoData() []demoUser {
	completedAt := time.Date(2025, 10, 18, 15, 0, 0, 0, time.UTC)

	return []demoUser{
		{
			user: models.User{ID: "user-demo", Name: "Demo User"},
			tasks: []models.Task{
				{
					ID:          uuid.FromStringOrNil("6f1d2e63-40ea-4f2f-9b7a-111111111111"),
					Title:       "Review onboarding challenge",
					Description: "Read through the onboarding instructions and take notes.",
					Status:      models.StatusTodo,
				},
				{
					ID:          uuid.FromStringOrNil("6f1d2e63-40ea-4f2f-9b7a-222222222222"),
					Title:       "Draft seed script",
					Description: "Set up deterministic seeds for users and tasks.",
					Status:      models.StatusInProgress,
				},
				{
					ID:          uuid.FromStringOrNil("6f1d2e63-40ea-4f2f-9b7a-333333333333"),
					Title:       "Ship tasks API",
					Description: "Deploy the tasks API and monitor telemetry.",
					Status:      models.StatusDone,
					CompletedAt: &completedAt,
				},
			},
		},
		{
			user: models.User{ID: "user-mentor", Name: "Mentor Bot"},
			tasks: []models.Task{
				{
					ID:          uuid.FromStringOrNil("6f1d2e63-40ea-4f2f-9b7a-444444444444"),
					Title:       "Review PRs",
					Description: "Provide actionable feedback on open pull requests.",
					Status:      models.StatusInProgress,
				},
				{
					ID:          uuid.FromStringOrNil("6f1d2e63-40ea-4f2f-9b7a-555555555555"),
					Title:       "Plan workshop",
					Description: "Outline an advanced task-lifecycle workshop.",
					Status:      models.StatusTodo,
				},
			},
		},
	}
}

// Load upserts the demo data set. Safe to run repeatedly.
func Load(db *gorm.DB) (Summary, error) {
	summary := Summary{}

	for _, entry := range demoData() {
		user := entry.user
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&user).Error; err != nil {
			return summary, err
		}
		summary.Users++

		for _, task := range entry.tasks {
			task.UserID = user.ID
			if err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"title", "description", "status", "archived_at", "completed_at"}),
			}).Create(&task).Error; err != nil {
				return summary, err
			}
			summary.Tasks++
		}
	}

	return summary, nil
}
